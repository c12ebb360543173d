// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"image"
	"math"

	"github.com/gogpu/pinpad/grid"
	"github.com/gogpu/pinpad/ndc"
)

// circleScale is the circle radius relative to the smaller cell side.
const circleScale = 0.4

// messagePadding is the horizontal inset of the message label relative to
// the message height.
const messagePadding = 0.1

// key is one pinpad cell in pixel space.
type key struct {
	cell   grid.Cell
	bounds ndc.PixelRect
	cx, cy float64
	radius float64
}

// layout is the pixel-space geometry of one frame.
type layout struct {
	width, height int
	message       ndc.PixelRect
	keys          []key
}

// newLayout converts the NDC geometry back to pixels of a width x height
// surface.
func newLayout(cfg *Config, width, height int) layout {
	w, h := float32(width), float32(height)
	l := layout{
		width:   width,
		height:  height,
		message: normalize(cfg.Projection.Pixel(cfg.Message, w, h)),
		keys:    make([]key, 0, cfg.Pinpad.Len()),
	}
	for cell, r := range cfg.Pinpad.All() {
		b := normalize(cfg.Projection.Pixel(r, w, h))
		side := math.Min(float64(b.Width()), float64(b.Height()))
		l.keys = append(l.keys, key{
			cell:   cell,
			bounds: b,
			cx:     float64(b.Left+b.Right) / 2,
			cy:     float64(b.Top+b.Bottom) / 2,
			radius: side * circleScale,
		})
	}
	return l
}

// normalize orders the edges so that Width and Height are non-negative.
func normalize(r ndc.PixelRect) ndc.PixelRect {
	if r.Left > r.Right {
		r.Left, r.Right = r.Right, r.Left
	}
	if r.Top > r.Bottom {
		r.Top, r.Bottom = r.Bottom, r.Top
	}
	return r
}

// pinpadBounds returns the pixel rectangle enclosing every key.
func (l *layout) pinpadBounds() ndc.PixelRect {
	if len(l.keys) == 0 {
		return ndc.PixelRect{}
	}
	b := l.keys[0].bounds
	for _, k := range l.keys[1:] {
		b.Left = min(b.Left, k.bounds.Left)
		b.Top = min(b.Top, k.bounds.Top)
		b.Right = max(b.Right, k.bounds.Right)
		b.Bottom = max(b.Bottom, k.bounds.Bottom)
	}
	return b
}

// pixelBox rounds r outwards to whole pixels clipped to the surface.
func (l *layout) pixelBox(r ndc.PixelRect) image.Rectangle {
	box := image.Rect(
		int(math.Floor(float64(r.Left))),
		int(math.Floor(float64(r.Top))),
		int(math.Ceil(float64(r.Right))),
		int(math.Ceil(float64(r.Bottom))),
	)
	return box.Intersect(image.Rect(0, 0, l.width, l.height))
}
