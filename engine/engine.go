// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/pinpad/internal/logging"
	"github.com/gogpu/pinpad/ndc"
	"github.com/gogpu/pinpad/surface"
)

// Errors returned by New and Update.
var (
	// ErrEngineClosed is returned by Update after Close.
	ErrEngineClosed = errors.New("engine: closed")

	// ErrNoPinpad is returned when the configuration has no pinpad grid.
	ErrNoPinpad = errors.New("engine: no pinpad grid")
)

// Engine renders one pinpad screen into one window.
type Engine struct {
	cfg       Config
	canvas    *canvas
	presenter surface.Presenter
	shaders   *shaders
	gpu       *gpuPass
	labels    *labeler
	evaluator Evaluator
	fontSize  float64
	message   overlay
	pinpad    overlay
	layout    layout
	scratch   []byte
	frame     uint64
	closed    bool
}

// New creates an engine for cfg. The presenter is opened from the window's
// surface backend unless WithPresenter is given.
func New(cfg Config, opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.Pinpad == nil {
		return nil, ErrNoPinpad
	}

	log := logging.For("engine")

	presenter := o.presenter
	if presenter == nil {
		p, err := surface.OpenPresenter(cfg.Window)
		if err != nil {
			return nil, fmt.Errorf("engine: open presenter: %w", err)
		}
		presenter = p
	}

	c, err := newCanvas(o.provider, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		_ = presenter.Close()
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		canvas:    c,
		presenter: presenter,
		evaluator: o.evaluator,
		fontSize:  o.fontSize,
		message:   overlay{name: "message", buf: cfg.Buffers.Message, tint: cfg.Palette.MessageText},
		pinpad:    overlay{name: "pinpad", buf: cfg.Buffers.Pinpad, tint: cfg.Palette.CircleText},
	}
	e.layout = newLayout(&e.cfg, cfg.Window.Width, cfg.Window.Height)

	if o.shaders {
		s, err := newShaders(o.provider)
		if err != nil {
			// The CPU path does not need the shader modules.
			log.Warn("shader setup failed", "err", err)
		} else {
			e.shaders = s
		}
	}
	if e.shaders != nil && e.shaders.quad != nil {
		g, err := newGPUPass(e.shaders)
		if err != nil {
			log.Warn("gpu pass setup failed", "err", err)
		} else {
			e.gpu = g
		}
	}

	if o.labels != nil {
		lb, err := newLabeler(*o.labels, o.fontSize)
		if err != nil {
			_ = e.Close()
			return nil, err
		}
		e.labels = lb
	}

	log.Debug("engine created",
		"window", cfg.Window.String(),
		"projection", cfg.Projection.String(),
		"keys", cfg.Pinpad.Len(),
		"gpu", e.gpu != nil,
		"message_bytes", len(cfg.Buffers.Message),
		"pinpad_bytes", len(cfg.Buffers.Pinpad))
	return e, nil
}

// Update renders and presents one frame.
func (e *Engine) Update() error {
	if e.closed {
		return ErrEngineClosed
	}
	e.frame++

	if s, ok := e.presenter.(surface.Sizer); ok {
		w, h := s.Size()
		cw, ch := e.canvas.Size()
		if w > 0 && h > 0 && (w != cw || h != ch) {
			if err := e.Resize(w, h); err != nil {
				return fmt.Errorf("engine: frame %d: %w", e.frame, err)
			}
			logging.For("engine").Debug("window resized", "width", w, "height", h)
		}
	}

	if err := e.canvas.Draw(e.draw); err != nil {
		return fmt.Errorf("engine: frame %d: %w", e.frame, err)
	}
	f, err := e.canvas.Flush()
	if err != nil {
		return fmt.Errorf("engine: frame %d: %w", e.frame, err)
	}
	f = e.convert(f, e.presenter.Format())
	if err := e.presenter.Present(f); err != nil {
		return fmt.Errorf("engine: present frame %d: %w", e.frame, err)
	}
	return nil
}

func (e *Engine) draw(dc *gg.Context) error {
	p := &e.cfg.Palette
	l := &e.layout

	dc.ClearWithColor(p.Background)

	if !e.drawGPU(dc) {
		dc.SetColor(p.Circle.Color())
		for _, k := range l.keys {
			dc.DrawCircle(k.cx, k.cy, k.radius)
		}
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("fill circles: %w", err)
		}
	}

	if e.evaluator != nil {
		if err := e.drawOverlay(dc, &e.message, l.pixelBox(l.message)); err != nil {
			return err
		}
		if err := e.drawOverlay(dc, &e.pinpad, l.pixelBox(l.pinpadBounds())); err != nil {
			return err
		}
	}
	if e.labels != nil {
		e.labels.draw(dc, l, p, e.fontSize)
	}
	return nil
}

// drawGPU renders the background and circles with the gpu pass and layers
// the result onto dc. It reports false when the CPU path must draw them;
// after a failure the gpu pass is dropped for the rest of the engine's life.
func (e *Engine) drawGPU(dc *gg.Context) bool {
	if e.gpu == nil {
		return false
	}
	img, err := e.gpu.render(&e.layout, &e.cfg.Palette)
	if err != nil {
		logging.For("engine").Warn("gpu pass failed, using cpu", "frame", e.frame, "err", err)
		e.gpu.Close()
		e.gpu = nil
		return false
	}
	dc.DrawImage(gg.ImageBufFromImage(img), 0, 0)
	return true
}

func (e *Engine) drawOverlay(dc *gg.Context, o *overlay, box image.Rectangle) error {
	img, err := o.render(e.evaluator, e.frame, box.Size())
	if err != nil {
		return err
	}
	if img == nil {
		return nil
	}
	dc.DrawImage(gg.ImageBufFromImage(img), float64(box.Min.X), float64(box.Min.Y))
	return nil
}

// convert returns f in the presenter's pixel format. Unknown formats are
// passed through for the presenter to reject.
func (e *Engine) convert(f surface.Frame, format gputypes.TextureFormat) surface.Frame {
	if format != gputypes.TextureFormatBGRA8Unorm || f.Format != gputypes.TextureFormatRGBA8Unorm {
		return f
	}
	if cap(e.scratch) < len(f.Pix) {
		e.scratch = make([]byte, len(f.Pix))
	}
	dst := e.scratch[:len(f.Pix)]
	for i := 0; i+3 < len(f.Pix); i += 4 {
		dst[i], dst[i+1], dst[i+2], dst[i+3] = f.Pix[i+2], f.Pix[i+1], f.Pix[i], f.Pix[i+3]
	}
	f.Pix = dst
	f.Format = format
	return f
}

// Resize changes the drawing size to width x height pixels. The NDC
// geometry is kept and laid out again for the new size.
func (e *Engine) Resize(width, height int) error {
	if e.closed {
		return ErrEngineClosed
	}
	if err := e.canvas.Resize(width, height); err != nil {
		return err
	}
	e.cfg.Window.Width, e.cfg.Window.Height = width, height
	e.layout = newLayout(&e.cfg, width, height)
	return nil
}

// Frame returns the number of frames rendered so far.
func (e *Engine) Frame() uint64 {
	return e.frame
}

// Window returns the window the engine draws into.
func (e *Engine) Window() surface.WindowHandle {
	return e.cfg.Window
}

// Message returns the message rectangle.
func (e *Engine) Message() ndc.Rect {
	return e.cfg.Message
}

// Keys returns the number of pinpad cells.
func (e *Engine) Keys() int {
	return e.cfg.Pinpad.Len()
}

// MessageBuffer returns the message display buffer as received.
func (e *Engine) MessageBuffer() []byte {
	return e.cfg.Buffers.Message
}

// PinpadBuffer returns the pinpad display buffer as received.
func (e *Engine) PinpadBuffer() []byte {
	return e.cfg.Buffers.Pinpad
}

// Close releases the canvas, GPU resources, labels and presenter.
// Close is idempotent.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	var errs []error
	if e.labels != nil {
		errs = append(errs, e.labels.Close())
		e.labels = nil
	}
	if e.gpu != nil {
		e.gpu.Close()
		e.gpu = nil
	}
	if e.shaders != nil {
		e.shaders.Close()
		e.shaders = nil
	}
	if e.canvas != nil {
		errs = append(errs, e.canvas.Close())
	}
	if e.presenter != nil {
		errs = append(errs, e.presenter.Close())
	}
	logging.For("engine").Debug("engine closed", "frames", e.frame)
	return errors.Join(errs...)
}
