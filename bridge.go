package pinpad

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/pinpad/engine"
	"github.com/gogpu/pinpad/grid"
	"github.com/gogpu/pinpad/internal/contract"
	"github.com/gogpu/pinpad/internal/handle"
	"github.com/gogpu/pinpad/internal/logging"
	"github.com/gogpu/pinpad/ndc"
	"github.com/gogpu/pinpad/surface"
)

// Handle identifies one live engine instance. The host stores it as an
// integer and passes it back to Advance and Release. Zero is never a live
// handle.
type Handle uint64

var engines handle.Table[*engine.Engine]

// CreateParams are the inputs of Create, as received from the host.
type CreateParams struct {
	// Surface is the host surface to draw into.
	Surface surface.Ref

	// MessageRects is a flat [l,t,r,b] array holding exactly one rectangle.
	MessageRects []float32

	// PinpadRects is a flat [l,t,r,b,...] array with one rectangle per key,
	// row-major.
	PinpadRects []float32

	PinpadCols int
	PinpadRows int

	Colors Colors

	// Bundle is consumed by Create.
	Bundle BundleRef
}

// Option configures Create.
type Option func(*createOptions)

type createOptions struct {
	projection ndc.Projection
	engine     []engine.Option
}

// WithProjection selects how pixel rectangles map to NDC. The default is
// ndc.ProjectionAspect.
func WithProjection(p ndc.Projection) Option {
	return func(o *createOptions) {
		o.projection = p
	}
}

// WithDeviceProvider shares a host GPU device with the engine.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *createOptions) {
		o.engine = append(o.engine, engine.WithDeviceProvider(p))
	}
}

// WithEvaluator sets the evaluator that renders the display buffers.
func WithEvaluator(e engine.Evaluator) Option {
	return func(o *createOptions) {
		o.engine = append(o.engine, engine.WithEvaluator(e))
	}
}

// WithLabels draws static labels, for previews without an evaluator.
func WithLabels(l engine.Labels, fontSize float64) Option {
	return func(o *createOptions) {
		o.engine = append(o.engine, engine.WithLabels(l, fontSize))
	}
}

// WithEngineOptions passes options through to engine.New.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(o *createOptions) {
		o.engine = append(o.engine, opts...)
	}
}

// Create builds an engine instance for the host surface and returns its
// handle. Every input precondition is checked before the engine is built;
// a violation aborts through contract.Fatal. The bundle is consumed.
func Create(p CreateParams, opts ...Option) Handle {
	o := createOptions{projection: ndc.ProjectionAspect}
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.For("pinpad")

	win := surface.MustExtract(p.Surface)
	w, h := float32(win.Width), float32(win.Height)
	log.Debug("window extracted", "window", win.String())

	message := ndc.Transform(p.MessageRects, w, h, o.projection)
	contract.Fatal(contract.CheckCount("pinpad.Create", "message rectangles", len(message), 1))

	keys := grid.Build(ndc.Transform(p.PinpadRects, w, h, o.projection), p.PinpadRows, p.PinpadCols)

	palette := engine.Palette{
		MessageText: DecodeHex(RoleMessageText, p.Colors.MessageText),
		CircleText:  DecodeHex(RoleCircleText, p.Colors.CircleText),
		Circle:      DecodeHex(RoleCircle, p.Colors.Circle),
		Background:  DecodeHex(RoleBackground, p.Colors.Background),
	}

	bundle := TakeBundle(p.Bundle)

	e, err := engine.New(engine.Config{
		Window:     win,
		Projection: o.projection,
		Message:    message[0],
		Pinpad:     keys,
		Palette:    palette,
		Buffers:    engine.Buffers{Message: bundle.Message, Pinpad: bundle.Pinpad},
	}, o.engine...)
	if err != nil {
		contract.Fatal(contract.New("pinpad.Create", contract.KindPlatform,
			fmt.Errorf("engine: %w", err)))
	}

	hd := Handle(engines.Put(e))
	log.Debug("engine live", "handle", uint64(hd), "rows", keys.Rows(), "cols", keys.Cols())
	return hd
}

// Advance renders one frame. Frame errors are logged and not retried.
// Advancing a handle that is not live is a contract violation.
func Advance(h Handle) {
	e := lookup("pinpad.Advance", h)
	if err := e.Update(); err != nil {
		logging.For("pinpad").Warn("frame failed", "handle", uint64(h), "err", err)
	}
}

// Release destroys the engine behind h. The handle is dead afterwards;
// releasing it again is a contract violation.
func Release(h Handle) {
	e, ok := engines.Take(uint64(h))
	if !ok {
		contract.Fatal(unknownHandle("pinpad.Release", h))
	}
	if err := e.Close(); err != nil {
		logging.For("pinpad").Warn("release failed", "handle", uint64(h), "err", err)
	}
	logging.For("pinpad").Debug("engine released", "handle", uint64(h), "frames", e.Frame())
}

// Engine returns the engine behind a live handle, for hosts that need
// direct access such as previews.
func Engine(h Handle) (*engine.Engine, bool) {
	return engines.Get(uint64(h))
}

// Live returns the number of live handles.
func Live() int {
	return engines.Len()
}

func lookup(op string, h Handle) *engine.Engine {
	e, ok := engines.Get(uint64(h))
	if !ok {
		contract.Fatal(unknownHandle(op, h))
	}
	return e
}

func unknownHandle(op string, h Handle) error {
	return contract.New(op, contract.KindLifecycle, fmt.Errorf("%w: %d", contract.ErrUnknownHandle, uint64(h)))
}
