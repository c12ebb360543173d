// Command pinpadview previews a pinpad layout on the desktop.
//
// The layout comes from an optional YAML file (see internal/config). The
// screen is rendered by the same engine the Android library uses, into a
// headless surface that is shown in a window or saved as PNG:
//
//	pinpadview -config layout.yaml
//	pinpadview -config layout.yaml -output pinpad.png
package main

import (
	"flag"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/pinpad"
	"github.com/gogpu/pinpad/cmd/pinpadview/internal/config"
	"github.com/gogpu/pinpad/engine"
	"github.com/gogpu/pinpad/surface"
)

func main() {
	var (
		path   = flag.String("config", "pinpad.yaml", "layout file")
		output = flag.String("output", "", "save one frame as PNG instead of opening a window")
		scale  = flag.Int("scale", 1, "window scale factor")
		debug  = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	filter := "info"
	if *debug {
		filter = "debug"
	}
	pinpad.InitLogging(pinpad.LogConfig{Tag: "pinpadview", Filter: filter})

	r, err := config.Resolve(*path)
	if err != nil {
		log.Fatalf("pinpadview: %v", err)
	}

	s := surface.NewHeadless(r.Width, r.Height)
	defer s.Close()

	h := pinpad.Create(pinpad.CreateParams{
		Surface:      s,
		MessageRects: r.MessageRects,
		PinpadRects:  r.PinpadRects,
		PinpadCols:   r.Cols,
		PinpadRows:   r.Rows,
		Colors:       r.Colors,
		Bundle:       pinpad.NewBundle(nil, nil),
	},
		pinpad.WithProjection(r.Projection),
		pinpad.WithLabels(engine.Labels{Message: r.MessageLabel, Keys: r.KeyLabels}, 0),
	)
	defer pinpad.Release(h)

	if *output != "" {
		if err := saveFrame(h, s, *output); err != nil {
			log.Fatalf("pinpadview: %v", err)
		}
		slog.Info("frame saved", "path", *output, "width", r.Width, "height", r.Height)
		return
	}

	if err := runWindow(h, s, *scale); err != nil {
		log.Fatalf("pinpadview: %v", err)
	}
}

func saveFrame(h pinpad.Handle, s *surface.Headless, path string) error {
	pinpad.Advance(h)
	img := s.Snapshot()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
