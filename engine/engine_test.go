// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/pinpad/grid"
	"github.com/gogpu/pinpad/ndc"
	"github.com/gogpu/pinpad/surface"
)

const (
	testWidth  = 120
	testHeight = 200
)

var testPalette = Palette{
	MessageText: gg.RGBA{R: 0, G: 0, B: 1, A: 1},
	CircleText:  gg.RGBA{R: 0, G: 1, B: 0, A: 1},
	Circle:      gg.RGBA{R: 1, G: 0, B: 0, A: 1},
	Background:  gg.RGBA{R: 16.0 / 255, G: 32.0 / 255, B: 48.0 / 255, A: 1},
}

// testConfig lays out a message strip over a 2x2 keypad on a
// testWidth x testHeight window.
func testConfig(t *testing.T, window surface.WindowHandle) Config {
	t.Helper()
	w, h := float32(testWidth), float32(testHeight)
	message := ndc.Transform([]float32{0, 0, 120, 40}, w, h, ndc.ProjectionAspect)
	keys := ndc.Transform([]float32{
		0, 80, 60, 140,
		60, 80, 120, 140,
		0, 140, 60, 200,
		60, 140, 120, 200,
	}, w, h, ndc.ProjectionAspect)
	g, err := grid.New(keys, 2, 2)
	if err != nil {
		t.Fatalf("grid.New() error = %v", err)
	}
	return Config{
		Window:     window,
		Projection: ndc.ProjectionAspect,
		Message:    message[0],
		Pinpad:     g,
		Palette:    testPalette,
		Buffers: Buffers{
			Message: []byte{0x01, 0x02, 0x03},
			Pinpad:  []byte{0xaa, 0xbb},
		},
	}
}

func newHeadlessWindow(t *testing.T) (*surface.Headless, surface.WindowHandle) {
	t.Helper()
	s := surface.NewHeadless(testWidth, testHeight)
	t.Cleanup(s.Close)
	h, err := surface.Extract(s)
	if err != nil {
		t.Fatalf("surface.Extract() error = %v", err)
	}
	return s, h
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *surface.Headless) {
	t.Helper()
	s, h := newHeadlessWindow(t)
	e, err := New(testConfig(t, h), append([]Option{WithoutShaders()}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e, s
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -2 && d <= 2
}

func checkPixel(t *testing.T, img *image.RGBA, x, y int, want color.RGBA) {
	t.Helper()
	got := img.RGBAAt(x, y)
	if !near(got.R, want.R) || !near(got.G, want.G) || !near(got.B, want.B) || !near(got.A, want.A) {
		t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
	}
}

func TestEngineLifecycle(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		s, h := newHeadlessWindow(t)
		e, err := New(testConfig(t, h), WithoutShaders())
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		for i := range n {
			if err := e.Update(); err != nil {
				t.Fatalf("Update() #%d error = %v", i, err)
			}
		}
		if got := e.Frame(); got != uint64(n) {
			t.Errorf("Frame() = %d, want %d", got, n)
		}
		if got := s.Frames(); got != n {
			t.Errorf("presented frames = %d, want %d", got, n)
		}
		if err := e.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
		if err := e.Close(); err != nil {
			t.Errorf("second Close() error = %v", err)
		}
		if err := e.Update(); !errors.Is(err, ErrEngineClosed) {
			t.Errorf("Update() after Close error = %v, want %v", err, ErrEngineClosed)
		}
	}
}

func TestEngineDrawsBackgroundAndCircles(t *testing.T) {
	e, s := newTestEngine(t)
	if err := e.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	img := s.Snapshot()
	if img == nil {
		t.Fatal("Snapshot() = nil after Update")
	}

	bg := color.RGBA{R: 16, G: 32, B: 48, A: 255}
	red := color.RGBA{R: 255, A: 255}

	checkPixel(t, img, 1, 1, bg)
	checkPixel(t, img, 1, 78, bg)
	for _, c := range []image.Point{{30, 110}, {90, 110}, {30, 170}, {90, 170}} {
		checkPixel(t, img, c.X, c.Y, red)
	}
}

func TestEngineBuffersVerbatim(t *testing.T) {
	var seen [][]byte
	eval := EvaluatorFunc(func(buf []byte, frame uint64, size image.Point) (*image.Alpha, error) {
		seen = append(seen, buf)
		return nil, nil
	})
	e, _ := newTestEngine(t, WithEvaluator(eval))

	if got, want := e.MessageBuffer(), []byte{0x01, 0x02, 0x03}; !bytes.Equal(got, want) {
		t.Errorf("MessageBuffer() = %x, want %x", got, want)
	}
	if got, want := e.PinpadBuffer(), []byte{0xaa, 0xbb}; !bytes.Equal(got, want) {
		t.Errorf("PinpadBuffer() = %x, want %x", got, want)
	}

	if err := e.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("evaluator calls = %d, want 2", len(seen))
	}
	if !bytes.Equal(seen[0], e.MessageBuffer()) || !bytes.Equal(seen[1], e.PinpadBuffer()) {
		t.Errorf("evaluator buffers = %x, want message then pinpad", seen)
	}
	if !bytes.Equal(e.MessageBuffer(), []byte{0x01, 0x02, 0x03}) {
		t.Errorf("MessageBuffer() modified by Update: %x", e.MessageBuffer())
	}
}

func TestEngineEvaluatorOverlay(t *testing.T) {
	tests := []struct {
		name string
		mask image.Point // zero means the requested size
	}{
		{"exact size", image.Point{}},
		{"scaled", image.Point{X: 1, Y: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var frames []uint64
			eval := EvaluatorFunc(func(buf []byte, frame uint64, size image.Point) (*image.Alpha, error) {
				frames = append(frames, frame)
				if len(buf) != 3 {
					return nil, nil // message only
				}
				if tt.mask != (image.Point{}) {
					size = tt.mask
				}
				m := image.NewAlpha(image.Rectangle{Max: size})
				for i := range m.Pix {
					m.Pix[i] = 0xff
				}
				return m, nil
			})
			e, s := newTestEngine(t, WithEvaluator(eval))
			if err := e.Update(); err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			checkPixel(t, s.Snapshot(), 60, 20, color.RGBA{B: 255, A: 255})
			checkPixel(t, s.Snapshot(), 60, 60, color.RGBA{R: 16, G: 32, B: 48, A: 255})
			for _, f := range frames {
				if f != 1 {
					t.Errorf("evaluator frame = %d, want 1", f)
				}
			}
		})
	}
}

func TestEngineEvaluatorError(t *testing.T) {
	errCircuit := errors.New("circuit failed")
	eval := EvaluatorFunc(func([]byte, uint64, image.Point) (*image.Alpha, error) {
		return nil, errCircuit
	})
	e, s := newTestEngine(t, WithEvaluator(eval))
	if err := e.Update(); !errors.Is(err, errCircuit) {
		t.Fatalf("Update() error = %v, want %v", err, errCircuit)
	}
	if got := s.Frames(); got != 0 {
		t.Errorf("presented frames = %d, want 0", got)
	}
	if got := e.Frame(); got != 1 {
		t.Errorf("Frame() = %d, want 1", got)
	}
}

func TestEngineFollowsWindowResize(t *testing.T) {
	e, s := newTestEngine(t)
	if err := e.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	s.Resize(200, 120)
	if err := e.Update(); err != nil {
		t.Fatalf("Update() after resize error = %v", err)
	}
	if w := e.Window(); w.Width != 200 || w.Height != 120 {
		t.Errorf("Window() = %v, want 200x120", w)
	}
	if w, h := e.canvas.Size(); w != 200 || h != 120 {
		t.Errorf("canvas size = %dx%d, want 200x120", w, h)
	}
	if e.layout.width != 200 || e.layout.height != 120 {
		t.Errorf("layout = %dx%d, want 200x120", e.layout.width, e.layout.height)
	}
	img := s.Snapshot()
	if got := img.Bounds().Size(); got != image.Pt(200, 120) {
		t.Fatalf("snapshot size = %v, want 200x120", got)
	}
	checkPixel(t, img, 199, 0, color.RGBA{R: 16, G: 32, B: 48, A: 255})
}

func TestEngineResize(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Resize(0, 10); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Resize(0, 10) error = %v, want %v", err, ErrInvalidDimensions)
	}
	if err := e.Resize(60, 100); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if len(e.layout.keys) != 4 || e.layout.width != 60 {
		t.Errorf("layout not rebuilt: width=%d keys=%d", e.layout.width, len(e.layout.keys))
	}
	_ = e.Close()
	if err := e.Resize(60, 100); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("Resize() after Close error = %v, want %v", err, ErrEngineClosed)
	}
}

// recordingPresenter keeps the last frame it was given.
type recordingPresenter struct {
	format gputypes.TextureFormat
	last   surface.Frame
	count  int
	closed bool
	err    error
}

func (p *recordingPresenter) Present(f surface.Frame) error {
	if p.err != nil {
		return p.err
	}
	p.last = f
	p.last.Pix = append([]byte(nil), f.Pix...)
	p.count++
	return nil
}

func (p *recordingPresenter) Format() gputypes.TextureFormat { return p.format }

func (p *recordingPresenter) Close() error {
	p.closed = true
	return nil
}

func TestEnginePresenterFormat(t *testing.T) {
	tests := []struct {
		format gputypes.TextureFormat
		want   [4]byte
	}{
		{gputypes.TextureFormatRGBA8Unorm, [4]byte{16, 32, 48, 255}},
		{gputypes.TextureFormatBGRA8Unorm, [4]byte{48, 32, 16, 255}},
	}
	for _, tt := range tests {
		_, h := newHeadlessWindow(t)
		p := &recordingPresenter{format: tt.format}
		e, err := New(testConfig(t, h), WithPresenter(p), WithoutShaders())
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if err := e.Update(); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if p.last.Format != tt.format {
			t.Errorf("frame format = %v, want %v", p.last.Format, tt.format)
		}
		if p.last.Width != testWidth || p.last.Height != testHeight {
			t.Errorf("frame size = %dx%d, want %dx%d", p.last.Width, p.last.Height, testWidth, testHeight)
		}
		var got [4]byte
		copy(got[:], p.last.Pix[:4])
		for i := range got {
			if !near(got[i], tt.want[i]) {
				t.Errorf("%v: first pixel = %v, want %v", tt.format, got, tt.want)
				break
			}
		}
		if err := e.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
		if !p.closed {
			t.Error("presenter not closed by Close()")
		}
	}
}

func TestEnginePresentError(t *testing.T) {
	errLost := errors.New("surface lost")
	_, h := newHeadlessWindow(t)
	p := &recordingPresenter{format: gputypes.TextureFormatRGBA8Unorm, err: errLost}
	e, err := New(testConfig(t, h), WithPresenter(p), WithoutShaders())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer e.Close()
	if err := e.Update(); !errors.Is(err, errLost) {
		t.Errorf("Update() error = %v, want %v", err, errLost)
	}
}

func TestNewErrors(t *testing.T) {
	_, h := newHeadlessWindow(t)

	cfg := testConfig(t, h)
	cfg.Pinpad = nil
	if _, err := New(cfg); !errors.Is(err, ErrNoPinpad) {
		t.Errorf("New(no pinpad) error = %v, want %v", err, ErrNoPinpad)
	}

	p := &recordingPresenter{format: gputypes.TextureFormatRGBA8Unorm}
	cfg = testConfig(t, surface.WindowHandle{Platform: surface.HeadlessPlatform, Window: 1})
	if _, err := New(cfg, WithPresenter(p)); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("New(0x0) error = %v, want %v", err, ErrInvalidDimensions)
	}
	if !p.closed {
		t.Error("presenter not closed after failed New")
	}

	cfg = testConfig(t, surface.WindowHandle{Platform: "nowhere", Window: 1, Width: 10, Height: 10})
	if _, err := New(cfg); err == nil {
		t.Error("New(unknown platform) error = nil, want error")
	}
}

func TestEngineLabels(t *testing.T) {
	e, s := newTestEngine(t, WithLabels(Labels{
		Message: "Enter PIN",
		Keys:    []string{"1", "2", "3", "4"},
	}, 0))
	if e.labels == nil {
		t.Fatal("labels not created")
	}
	for range 2 {
		if err := e.Update(); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
	if got := s.Frames(); got != 2 {
		t.Errorf("presented frames = %d, want 2", got)
	}
}

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

type mockQueue struct{}

type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct{}

func (m *mockProvider) Device() gpucontext.Device   { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue     { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

func TestEngineDeviceProvider(t *testing.T) {
	e, s := newTestEngine(t, WithDeviceProvider(&mockProvider{}))
	if err := e.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if s.Frames() != 1 {
		t.Errorf("presented frames = %d, want 1", s.Frames())
	}
}
