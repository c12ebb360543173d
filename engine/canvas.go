// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/pinpad/internal/logging"
	"github.com/gogpu/pinpad/surface"
)

// Common errors returned by canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("engine: canvas is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("engine: invalid dimensions")
)

// canvas wraps gg.Context and turns its pixmap into presentable frames.
//
// canvas is NOT safe for concurrent use.
type canvas struct {
	ctx    *gg.Context
	frame  surface.Frame
	dirty  bool
	width  int
	height int
	closed bool
}

// newCanvas creates a canvas of the window's size. A non-nil provider is
// offered to gg's GPU accelerator; failure to share it is not fatal since gg
// falls back to its own device or to the CPU rasterizer.
func newCanvas(provider gpucontext.DeviceProvider, width, height int) (*canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if provider != nil {
		if err := gg.SetAcceleratorDeviceProvider(provider); err != nil {
			logging.For("engine").Debug("device provider not shared", "err", err)
		}
	}
	return &canvas{
		ctx:    gg.NewContext(width, height),
		width:  width,
		height: height,
		dirty:  true,
	}, nil
}

// Size returns width and height in pixels.
func (c *canvas) Size() (width, height int) {
	return c.width, c.height
}

// Draw calls fn with the gg context and marks the canvas as dirty.
func (c *canvas) Draw(fn func(*gg.Context) error) error {
	if c.closed {
		return ErrCanvasClosed
	}
	c.dirty = true
	return fn(c.ctx)
}

// Resize changes canvas dimensions and clears it.
func (c *canvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if c.width == width && c.height == height {
		return nil
	}
	if err := c.ctx.Resize(width, height); err != nil {
		return fmt.Errorf("engine: context resize failed: %w", err)
	}
	c.width = width
	c.height = height
	c.dirty = true
	return nil
}

// Flush returns the canvas content as an RGBA8 frame. The pixel slice is
// reused between calls; presenters copy it before returning.
func (c *canvas) Flush() (surface.Frame, error) {
	if c.closed {
		return surface.Frame{}, ErrCanvasClosed
	}
	if !c.dirty && c.frame.Pix != nil {
		return c.frame, nil
	}

	// GPU shapes are rasterized into the pixmap here. A failure leaves the
	// CPU-rendered content in place.
	if err := c.ctx.FlushGPU(); err != nil {
		logging.For("engine").Debug("gpu flush failed", "err", err)
	}

	pm := c.ctx.ResizeTarget()
	c.frame = surface.Frame{
		Width:  pm.Width(),
		Height: pm.Height(),
		Stride: pm.Width() * 4,
		Format: gputypes.TextureFormatRGBA8Unorm,
		Pix:    pm.Data(),
	}
	c.dirty = false
	return c.frame, nil
}

// Close releases the gg context. Close is idempotent.
func (c *canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.frame = surface.Frame{}
	if c.ctx != nil {
		err := c.ctx.Close()
		c.ctx = nil
		return err
	}
	return nil
}
