// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ndc

import (
	"fmt"

	"seehuhn.de/go/geom/rect"
)

// PixelRect is a rectangle in surface pixels, origin top-left, y-down.
type PixelRect struct {
	Left, Top, Right, Bottom float32
}

// String implements fmt.Stringer.
func (r PixelRect) String() string {
	return fmt.Sprintf("PixelRect(%g, %g, %g, %g)", r.Left, r.Top, r.Right, r.Bottom)
}

// Width returns Right - Left.
func (r PixelRect) Width() float32 { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r PixelRect) Height() float32 { return r.Bottom - r.Top }

// Rect is a rectangle in normalized device coordinates, origin center, y-up.
// Top is the edge with the larger y.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// String implements fmt.Stringer.
func (r Rect) String() string {
	return fmt.Sprintf("Rect(%g, %g, %g, %g)", r.Left, r.Top, r.Right, r.Bottom)
}

// Width returns Right - Left.
func (r Rect) Width() float32 { return r.Right - r.Left }

// Height returns Top - Bottom.
func (r Rect) Height() float32 { return r.Top - r.Bottom }

// Center returns the rectangle center.
func (r Rect) Center() (x, y float32) {
	return (r.Left + r.Right) / 2, (r.Top + r.Bottom) / 2
}

// Bounds returns r as a lower-left/upper-right geom rectangle.
func (r Rect) Bounds() rect.Rect {
	return rect.Rect{
		LLx: float64(r.Left),
		LLy: float64(r.Bottom),
		URx: float64(r.Right),
		URy: float64(r.Top),
	}
}

// Contains reports whether the point (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.Left && x <= r.Right && y >= r.Bottom && y <= r.Top
}
