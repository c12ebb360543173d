// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/pinpad/internal/handle"
)

// HeadlessPlatform is the backend name of in-process framebuffer surfaces.
const HeadlessPlatform = "headless"

// ErrUnknownWindow is returned when a window handle does not refer to a
// live headless surface.
var ErrUnknownWindow = errors.New("surface: unknown headless window")

// headlessWindows maps window ids to live surfaces.
var headlessWindows handle.Table[*Headless]

// Headless is an in-process framebuffer surface. It stands in for a native
// window in tests and desktop previews: presented frames are copied into it
// and can be read back with Snapshot.
//
// Headless is safe for concurrent use.
type Headless struct {
	mu       sync.Mutex
	id       uint64
	width    int
	height   int
	detached bool
	img      *image.RGBA
	frames   int
}

// NewHeadless creates a headless surface of the given size.
func NewHeadless(width, height int) *Headless {
	s := &Headless{width: width, height: height}
	s.id = headlessWindows.Put(s)
	return s
}

// Platform implements Ref.
func (s *Headless) Platform() string { return HeadlessPlatform }

// Size returns the surface size in pixels.
func (s *Headless) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Resize changes the size reported to the next extraction.
func (s *Headless) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

// Detach makes later extractions report a null window, the way a platform
// does once the host surface has been destroyed.
func (s *Headless) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = true
}

// Frames returns the number of frames presented so far.
func (s *Headless) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Snapshot returns a copy of the last presented frame, or nil if nothing
// has been presented.
func (s *Headless) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return nil
	}
	cp := image.NewRGBA(s.img.Rect)
	copy(cp.Pix, s.img.Pix)
	return cp
}

// Close unregisters the surface. Presenters still referring to it fail.
func (s *Headless) Close() {
	headlessWindows.Take(s.id)
}

func (s *Headless) store(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil || s.img.Rect.Dx() != s.width || s.img.Rect.Dy() != s.height {
		s.img = image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	}
	w := min(f.Width, s.width)
	h := min(f.Height, s.height)
	for y := range h {
		copy(s.img.Pix[y*s.img.Stride:y*s.img.Stride+w*4], f.Row(y)[:w*4])
	}
	s.frames++
}

func extractHeadless(ref Ref) (WindowHandle, error) {
	s, ok := ref.(*Headless)
	if !ok {
		return WindowHandle{}, fmt.Errorf("surface: %T is not a headless surface", ref)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h := WindowHandle{Width: s.width, Height: s.height}
	if !s.detached {
		h.Window = uintptr(s.id)
	}
	return h, nil
}

type headlessPresenter struct {
	id     uint64
	closed bool
}

func openHeadless(h WindowHandle) (Presenter, error) {
	if _, ok := headlessWindows.Get(uint64(h.Window)); !ok {
		return nil, fmt.Errorf("%w: %#x", ErrUnknownWindow, h.Window)
	}
	return &headlessPresenter{id: uint64(h.Window)}, nil
}

func (p *headlessPresenter) Present(f Frame) error {
	if p.closed {
		return ErrPresenterClosed
	}
	if f.Format != gputypes.TextureFormatRGBA8Unorm {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f.Format)
	}
	s, ok := headlessWindows.Get(p.id)
	if !ok {
		return fmt.Errorf("%w: %#x", ErrUnknownWindow, p.id)
	}
	s.store(f)
	return nil
}

// Size implements Sizer.
func (p *headlessPresenter) Size() (width, height int) {
	s, ok := headlessWindows.Get(p.id)
	if !ok {
		return 0, 0
	}
	return s.Size()
}

func (p *headlessPresenter) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

func (p *headlessPresenter) Close() error {
	p.closed = true
	return nil
}

// Presenter errors.
var (
	// ErrPresenterClosed is returned by Present after Close.
	ErrPresenterClosed = errors.New("surface: presenter closed")

	// ErrUnsupportedFormat is returned for frames in a format the presenter
	// cannot display.
	ErrUnsupportedFormat = errors.New("surface: unsupported frame format")
)

func init() {
	Register(Backend{
		Name:     HeadlessPlatform,
		Priority: 10,
		Extract:  extractHeadless,
		Present:  openHeadless,
	})
}
