// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
)

// overlay evaluates one display buffer into a tinted image placed on a
// pixel rectangle.
type overlay struct {
	name string
	buf  []byte
	tint gg.RGBA
}

// render asks e for a mask of the target size and tints it. Masks of another
// size are scaled to fit.
func (o *overlay) render(e Evaluator, frame uint64, size image.Point) (*image.NRGBA, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, nil
	}
	mask, err := e.Evaluate(o.buf, frame, size)
	if err != nil {
		return nil, fmt.Errorf("engine: evaluate %s: %w", o.name, err)
	}
	if mask == nil {
		return nil, nil
	}
	if mask.Bounds().Size() != size {
		scaled := image.NewAlpha(image.Rectangle{Max: size})
		xdraw.BiLinear.Scale(scaled, scaled.Bounds(), mask, mask.Bounds(), xdraw.Src, nil)
		mask = scaled
	}
	return tint(mask, o.tint), nil
}

// tint colors a mask with c, scaling c's alpha by the mask coverage.
func tint(mask *image.Alpha, c gg.RGBA) *image.NRGBA {
	b := mask.Bounds()
	out := image.NewNRGBA(image.Rectangle{Max: b.Size()})
	base := c.Color().(color.NRGBA)
	for y := range b.Dy() {
		for x := range b.Dx() {
			a := mask.AlphaAt(b.Min.X+x, b.Min.Y+y).A
			if a == 0 {
				continue
			}
			out.SetNRGBA(x, y, color.NRGBA{
				R: base.R,
				G: base.G,
				B: base.B,
				A: uint8(uint16(base.A) * uint16(a) / 255),
			})
		}
	}
	return out
}
