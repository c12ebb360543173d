// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/pinpad/grid"
	"github.com/gogpu/pinpad/ndc"
	"github.com/gogpu/pinpad/surface"
)

// Palette holds the four decoded colors of a pinpad screen.
type Palette struct {
	MessageText gg.RGBA
	CircleText  gg.RGBA
	Circle      gg.RGBA
	Background  gg.RGBA
}

// Buffers are the two opaque display buffers.
type Buffers struct {
	Message []byte
	Pinpad  []byte
}

// Config describes one engine instance.
type Config struct {
	// Window is the target window, borrowed from the platform.
	Window surface.WindowHandle

	// Projection is the mapping used to produce the NDC rectangles.
	Projection ndc.Projection

	// Message is the rectangle of the message area.
	Message ndc.Rect

	// Pinpad holds one rectangle per key, row-major.
	Pinpad *grid.Grid[ndc.Rect]

	Palette Palette
	Buffers Buffers
}

// Evaluator turns a display buffer into an alpha mask for one frame.
// Implementations wrap the garbled circuit evaluator; the engine tints the
// mask with the matching text color.
type Evaluator interface {
	Evaluate(buf []byte, frame uint64, size image.Point) (*image.Alpha, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(buf []byte, frame uint64, size image.Point) (*image.Alpha, error)

// Evaluate implements Evaluator.
func (f EvaluatorFunc) Evaluate(buf []byte, frame uint64, size image.Point) (*image.Alpha, error) {
	return f(buf, frame, size)
}

// Labels are static texts drawn with the text colors. They are used when no
// Evaluator supplies the overlays, e.g. in previews.
type Labels struct {
	Message string

	// Keys has one label per pinpad cell in scan order, or is empty.
	Keys []string
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	provider  gpucontext.DeviceProvider
	presenter surface.Presenter
	evaluator Evaluator
	labels    *Labels
	fontSize  float64
	shaders   bool
}

func defaultOptions() options {
	return options{fontSize: 0, shaders: true}
}

// WithDeviceProvider shares the host's GPU device with the engine. The
// provider is offered to gg's accelerator; if it also exposes HAL objects
// the engine builds its shader modules on that device.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithPresenter overrides the presenter normally opened from the window's
// surface backend.
func WithPresenter(p surface.Presenter) Option {
	return func(o *options) {
		o.presenter = p
	}
}

// WithEvaluator sets the overlay evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(o *options) {
		o.evaluator = e
	}
}

// WithLabels draws static labels instead of evaluated overlays.
// fontSize is in pixels; zero picks a size from the cell height.
func WithLabels(l Labels, fontSize float64) Option {
	return func(o *options) {
		o.labels = &l
		o.fontSize = fontSize
	}
}

// WithoutShaders skips WGSL compilation, for hosts that only present CPU
// frames.
func WithoutShaders() Option {
	return func(o *options) {
		o.shaders = false
	}
}
