package pinpad

import (
	"bytes"
	"errors"
	"image"
	"math"
	"testing"

	"github.com/gogpu/pinpad/engine"
	"github.com/gogpu/pinpad/ndc"
	"github.com/gogpu/pinpad/surface"
)

var testColors = Colors{
	MessageText: "#ffffff",
	CircleText:  "#000000",
	Circle:      "#cccccc",
	Background:  "#202020",
}

// keypadRects returns a 3x4 keypad below a message strip on a w x h
// surface, in scan order.
func keypadRects(w, h float32) []float32 {
	top := h / 4
	cw, ch := w/3, (h-top)/4
	out := make([]float32, 0, 48)
	for row := range 4 {
		for col := range 3 {
			l := float32(col) * cw
			t := top + float32(row)*ch
			out = append(out, l, t, l+cw, t+ch)
		}
	}
	return out
}

func testParams(t *testing.T, s *surface.Headless) CreateParams {
	t.Helper()
	w, h := s.Size()
	return CreateParams{
		Surface:      s,
		MessageRects: []float32{0, 0, float32(w), float32(h) / 5},
		PinpadRects:  keypadRects(float32(w), float32(h)),
		PinpadCols:   3,
		PinpadRows:   4,
		Colors:       testColors,
		Bundle:       NewBundle([]byte("message-circuit"), []byte("pinpad-circuit")),
	}
}

func newSurface(t *testing.T, w, h int) *surface.Headless {
	t.Helper()
	s := surface.NewHeadless(w, h)
	t.Cleanup(s.Close)
	return s
}

func TestLifecycle(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		s := newSurface(t, 270, 480)
		live := Live()

		h := Create(testParams(t, s))
		if h == 0 {
			t.Fatal("Create() = 0")
		}
		if got := Live(); got != live+1 {
			t.Errorf("Live() after Create = %d, want %d", got, live+1)
		}
		for range n {
			Advance(h)
		}
		e, ok := Engine(h)
		if !ok {
			t.Fatal("Engine() not found for live handle")
		}
		if got := e.Frame(); got != uint64(n) {
			t.Errorf("Frame() = %d, want %d", got, n)
		}
		if got := s.Frames(); got != n {
			t.Errorf("presented frames = %d, want %d", got, n)
		}

		Release(h)
		if got := Live(); got != live {
			t.Errorf("Live() after Release = %d, want %d", got, live)
		}
		if _, ok := Engine(h); ok {
			t.Error("Engine() found a released handle")
		}
	}
}

func TestCreateDistinctHandles(t *testing.T) {
	s := newSurface(t, 270, 480)
	h1 := Create(testParams(t, s))
	h2 := Create(testParams(t, s))
	defer Release(h1)
	defer Release(h2)
	if h1 == h2 {
		t.Errorf("Create() returned %d twice", h1)
	}
	Advance(h1)
	Advance(h2)
	Advance(h2)
	e1, _ := Engine(h1)
	e2, _ := Engine(h2)
	if e1.Frame() != 1 || e2.Frame() != 2 {
		t.Errorf("frames = %d, %d, want 1, 2", e1.Frame(), e2.Frame())
	}
}

func TestAdvanceFollowsResize(t *testing.T) {
	s := newSurface(t, 270, 480)
	h := Create(testParams(t, s))
	defer Release(h)

	Advance(h)
	s.Resize(480, 270)
	Advance(h)

	e, _ := Engine(h)
	if w := e.Window(); w.Width != 480 || w.Height != 270 {
		t.Errorf("Window() = %v, want 480x270", w)
	}
	if e.Frame() != 2 || s.Frames() != 2 {
		t.Errorf("frames = %d rendered, %d presented, want 2", e.Frame(), s.Frames())
	}
	if got := s.Snapshot().Bounds().Size(); got != image.Pt(480, 270) {
		t.Errorf("snapshot size = %v, want 480x270", got)
	}
}

func TestCreateScenario(t *testing.T) {
	s := newSurface(t, 1080, 1920)
	p := testParams(t, s)
	p.MessageRects = []float32{0, 0, 1080, 381}
	h := Create(p)
	defer Release(h)

	e, _ := Engine(h)
	got := e.Message()
	want := ndc.Rect{Left: -0.5625, Top: 1.0, Right: 0.5625, Bottom: 0.603125}
	const eps = 1e-5
	if math.Abs(float64(got.Left-want.Left)) > eps || math.Abs(float64(got.Top-want.Top)) > eps ||
		math.Abs(float64(got.Right-want.Right)) > eps || math.Abs(float64(got.Bottom-want.Bottom)) > eps {
		t.Errorf("Message() = %v, want %v", got, want)
	}
	if got := e.Keys(); got != 12 {
		t.Errorf("Keys() = %d, want 12", got)
	}
	if w := e.Window(); w.Width != 1080 || w.Height != 1920 || w.Platform != surface.HeadlessPlatform {
		t.Errorf("Window() = %v, want headless 1080x1920", w)
	}
}

func TestCreateConsumesBundle(t *testing.T) {
	s := newSurface(t, 270, 480)
	msg := []byte{0xde, 0xad, 0xbe, 0xef}
	pad := []byte{0x01, 0x02}
	p := testParams(t, s)
	TakeBundle(p.Bundle)
	p.Bundle = NewBundle(msg, pad)

	h := Create(p)
	defer Release(h)

	e, _ := Engine(h)
	if !bytes.Equal(e.MessageBuffer(), msg) || !bytes.Equal(e.PinpadBuffer(), pad) {
		t.Errorf("engine buffers = %x, %x, want %x, %x", e.MessageBuffer(), e.PinpadBuffer(), msg, pad)
	}
	Advance(h)
	if !bytes.Equal(e.MessageBuffer(), []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Errorf("MessageBuffer() modified: %x", e.MessageBuffer())
	}

	if v := Recover(func() { TakeBundle(p.Bundle) }); v == nil {
		t.Error("bundle still live after Create")
	}
	if v := Recover(func() { Release(Create(p)) }); !errors.Is(v, ErrBundleConsumed) {
		t.Errorf("Create() with consumed bundle violation = %v, want %v", v, ErrBundleConsumed)
	}
}

func TestCreateEvaluator(t *testing.T) {
	s := newSurface(t, 270, 480)
	p := testParams(t, s)
	var calls int
	eval := engine.EvaluatorFunc(func(buf []byte, frame uint64, size image.Point) (*image.Alpha, error) {
		calls++
		return image.NewAlpha(image.Rectangle{Max: size}), nil
	})
	h := Create(p, WithEvaluator(eval), WithProjection(ndc.ProjectionStretch))
	defer Release(h)
	Advance(h)
	if calls != 2 {
		t.Errorf("evaluator calls = %d, want 2", calls)
	}
}

func TestCreateViolations(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CreateParams, *surface.Headless)
		kind   ViolationKind
		err    error
	}{
		{
			name:   "empty message",
			modify: func(p *CreateParams, _ *surface.Headless) { p.MessageRects = nil },
			kind:   KindInput,
			err:    ErrEmptyRects,
		},
		{
			name:   "misaligned message",
			modify: func(p *CreateParams, _ *surface.Headless) { p.MessageRects = []float32{0, 0, 10} },
			kind:   KindInput,
			err:    ErrNotMultiple,
		},
		{
			name: "two message rects",
			modify: func(p *CreateParams, _ *surface.Headless) {
				p.MessageRects = []float32{0, 0, 10, 10, 0, 10, 10, 20}
			},
			kind: KindInput,
			err:  ErrCountMismatch,
		},
		{
			name:   "misaligned pinpad",
			modify: func(p *CreateParams, _ *surface.Headless) { p.PinpadRects = p.PinpadRects[:47] },
			kind:   KindInput,
			err:    ErrNotMultiple,
		},
		{
			name:   "grid mismatch",
			modify: func(p *CreateParams, _ *surface.Headless) { p.PinpadRows = 3 },
			kind:   KindInput,
			err:    ErrCountMismatch,
		},
		{
			name:   "bad color",
			modify: func(p *CreateParams, _ *surface.Headless) { p.Colors.Background = "#2020" + "2" },
			kind:   KindInput,
			err:    ErrBadColor,
		},
		{
			name:   "null window",
			modify: func(_ *CreateParams, s *surface.Headless) { s.Detach() },
			kind:   KindPlatform,
			err:    ErrNullWindow,
		},
		{
			name:   "nil surface",
			modify: func(p *CreateParams, _ *surface.Headless) { p.Surface = nil },
			kind:   KindPlatform,
			err:    surface.ErrNilRef,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSurface(t, 270, 480)
			p := testParams(t, s)
			tt.modify(&p, s)
			live := Live()

			v := Recover(func() { Create(p) })
			if v == nil {
				t.Fatal("Create() did not abort")
			}
			if v.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", v.Kind, tt.kind)
			}
			if !errors.Is(v, tt.err) {
				t.Errorf("violation = %v, want %v", v, tt.err)
			}
			if got := Live(); got != live {
				t.Errorf("Live() = %d, want %d", got, live)
			}
			// Input is validated before the bundle is consumed.
			if v := Recover(func() { TakeBundle(p.Bundle) }); v != nil {
				t.Errorf("bundle consumed by failed Create: %v", v)
			}
		})
	}
}

func TestUseAfterRelease(t *testing.T) {
	s := newSurface(t, 270, 480)
	h := Create(testParams(t, s))
	Release(h)

	for name, fn := range map[string]func(){
		"Advance": func() { Advance(h) },
		"Release": func() { Release(h) },
	} {
		v := Recover(fn)
		if v == nil {
			t.Errorf("%s() after Release did not abort", name)
			continue
		}
		if v.Kind != KindLifecycle || !errors.Is(v, ErrUnknownHandle) {
			t.Errorf("%s() violation = %v (%v), want lifecycle ErrUnknownHandle", name, v, v.Kind)
		}
	}
	if v := Recover(func() { Advance(0) }); v == nil {
		t.Error("Advance(0) did not abort")
	}
}

func TestAdvanceLogsFrameErrors(t *testing.T) {
	s := newSurface(t, 270, 480)
	errCircuit := errors.New("circuit failed")
	eval := engine.EvaluatorFunc(func([]byte, uint64, image.Point) (*image.Alpha, error) {
		return nil, errCircuit
	})
	h := Create(testParams(t, s), WithEvaluator(eval))
	defer Release(h)

	Advance(h)
	Advance(h)
	e, _ := Engine(h)
	if got := e.Frame(); got != 2 {
		t.Errorf("Frame() = %d, want 2", got)
	}
	if got := s.Frames(); got != 0 {
		t.Errorf("presented frames = %d, want 0", got)
	}
}
