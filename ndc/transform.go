// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ndc

import (
	"fmt"

	"github.com/gogpu/pinpad/internal/contract"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Projection selects how pixel x coordinates are scaled into NDC.
type Projection int

const (
	// ProjectionAspect scales both axes by the surface height so pixels stay
	// square. This matches the renderer's camera and is the default.
	ProjectionAspect Projection = iota

	// ProjectionStretch scales each axis by its own dimension, so both span
	// exactly [-1, 1]. Top is mapped from the pixel top edge as under
	// ProjectionAspect: pixel rect (0, 0, 1080, 381) on a 1080x1920 surface
	// becomes (-1, 1, 1, 0.603125), not the bottom-edge-first order of the
	// literal y formula.
	ProjectionStretch
)

// String implements fmt.Stringer.
func (p Projection) String() string {
	switch p {
	case ProjectionAspect:
		return "aspect"
	case ProjectionStretch:
		return "stretch"
	default:
		return fmt.Sprintf("Projection(%d)", int(p))
	}
}

// ParseProjection parses the String form of a Projection.
func ParseProjection(s string) (Projection, error) {
	switch s {
	case "", "aspect":
		return ProjectionAspect, nil
	case "stretch":
		return ProjectionStretch, nil
	default:
		return 0, fmt.Errorf("ndc: unknown projection %q", s)
	}
}

// Matrix returns the affine map from pixel space to NDC for a surface of
// the given size:
//
//	x' = (x/W*2 - 1) * sx      sx = W/H (aspect) or 1 (stretch)
//	y' = 1 - 2*y/H
//
// Under both projections Rect maps the pixel top edge to the NDC Top, so
// Top >= Bottom for well-formed input.
func (p Projection) Matrix(width, height float32) matrix.Matrix {
	w, h := float64(width), float64(height)
	sx := 1.0
	if p == ProjectionAspect {
		sx = w / h
	}
	return matrix.Matrix{2 / w * sx, 0, 0, -2 / h, -sx, 1}
}

// Inverse returns the affine map from NDC back to pixel space.
func (p Projection) Inverse(width, height float32) matrix.Matrix {
	m := p.Matrix(width, height)
	// m is diagonal plus translation.
	return matrix.Matrix{1 / m[0], 0, 0, 1 / m[3], -m[4] / m[0], -m[5] / m[3]}
}

func apply(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y + m[4],
		Y: m[1]*v.X + m[3]*v.Y + m[5],
	}
}

// Rect converts one pixel rectangle. The pixel top edge becomes the NDC top
// edge (the larger y).
func (p Projection) Rect(r PixelRect, width, height float32) Rect {
	return rectWith(p.Matrix(width, height), r)
}

func rectWith(m matrix.Matrix, r PixelRect) Rect {
	tl := apply(m, vec.Vec2{X: float64(r.Left), Y: float64(r.Top)})
	br := apply(m, vec.Vec2{X: float64(r.Right), Y: float64(r.Bottom)})
	return Rect{
		Left:   float32(tl.X),
		Top:    float32(tl.Y),
		Right:  float32(br.X),
		Bottom: float32(br.Y),
	}
}

// Pixel converts an NDC rectangle back to pixels.
func (p Projection) Pixel(r Rect, width, height float32) PixelRect {
	m := p.Inverse(width, height)
	tl := apply(m, vec.Vec2{X: float64(r.Left), Y: float64(r.Top)})
	br := apply(m, vec.Vec2{X: float64(r.Right), Y: float64(r.Bottom)})
	return PixelRect{
		Left:   float32(tl.X),
		Top:    float32(tl.Y),
		Right:  float32(br.X),
		Bottom: float32(br.Y),
	}
}

// Unflatten splits a flat [l,t,r,b,...] array into pixel rectangles.
// It returns a *contract.Violation if the array is empty or its length is
// not a multiple of 4.
func Unflatten(flat []float32) ([]PixelRect, error) {
	if err := contract.CheckRectArray("ndc.Unflatten", len(flat)); err != nil {
		return nil, err
	}
	rects := make([]PixelRect, 0, len(flat)/4)
	for i := 0; i < len(flat); i += 4 {
		rects = append(rects, PixelRect{
			Left:   flat[i],
			Top:    flat[i+1],
			Right:  flat[i+2],
			Bottom: flat[i+3],
		})
	}
	return rects, nil
}

// Flatten is the inverse of Unflatten.
func Flatten(rects []PixelRect) []float32 {
	flat := make([]float32, 0, len(rects)*4)
	for _, r := range rects {
		flat = append(flat, r.Left, r.Top, r.Right, r.Bottom)
	}
	return flat
}

// TransformRects converts pixel rectangles to NDC, preserving order.
func TransformRects(rects []PixelRect, width, height float32, p Projection) []Rect {
	m := p.Matrix(width, height)
	out := make([]Rect, len(rects))
	for i, r := range rects {
		out[i] = rectWith(m, r)
	}
	return out
}

// Transform converts a flat host array into NDC rectangles for a surface of
// width×height pixels. A malformed array is a host contract violation and
// aborts via contract.Fatal before any rectangle is converted.
func Transform(flat []float32, width, height float32, p Projection) []Rect {
	rects, err := Unflatten(flat)
	contract.Fatal(err)
	return TransformRects(rects, width, height, p)
}
