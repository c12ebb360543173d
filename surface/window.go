// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Ref is an opaque host surface reference. The concrete type is owned by
// the backend named by Platform.
type Ref interface {
	Platform() string
}

// WindowHandle is a platform window reference plus its size in pixels.
type WindowHandle struct {
	// Platform is the backend name that produced the handle.
	Platform string

	// Window is the platform's native window reference (e.g. ANativeWindow*).
	// It is never a Go pointer.
	Window uintptr

	// Width and Height are the window size in pixels.
	Width, Height int
}

// String implements fmt.Stringer.
func (h WindowHandle) String() string {
	return fmt.Sprintf("%s window %#x (%dx%d)", h.Platform, h.Window, h.Width, h.Height)
}

// Frame is one rendered image handed to a Presenter.
type Frame struct {
	Width, Height int

	// Stride is the number of bytes per row of Pix.
	Stride int

	// Format is the pixel layout of Pix. Premultiplied alpha.
	Format gputypes.TextureFormat

	Pix []byte
}

// Row returns the bytes of row y.
func (f Frame) Row(y int) []byte {
	return f.Pix[y*f.Stride : y*f.Stride+f.Width*4]
}

// Presenter shows frames in a window.
type Presenter interface {
	// Present displays f. Frames whose size differs from the window are
	// clipped to the overlapping region.
	Present(f Frame) error

	// Format returns the pixel format the presenter expects.
	Format() gputypes.TextureFormat

	// Close releases the presenter and the window reference it holds.
	Close() error
}

// Sizer is implemented by presenters whose window can change size between
// frames.
type Sizer interface {
	// Size returns the current window size in pixels, or zeros when the
	// window is gone.
	Size() (width, height int)
}
