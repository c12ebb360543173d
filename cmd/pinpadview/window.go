package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/pinpad"
	"github.com/gogpu/pinpad/surface"
)

// runWindow shows the surface in a desktop window, advancing the engine
// once per tick. It blocks until the window closes.
func runWindow(h pinpad.Handle, s *surface.Headless, scale int) error {
	w, ht := s.Size()
	g := &previewGame{handle: h, surface: s}
	ebiten.SetWindowTitle("pinpad " + pinpad.Version)
	ebiten.SetWindowSize(w*max(scale, 1), ht*max(scale, 1))
	ebiten.SetTPS(30)
	return ebiten.RunGame(g)
}

type previewGame struct {
	handle  pinpad.Handle
	surface *surface.Headless
	img     *image.RGBA
	frame   *ebiten.Image
}

func (g *previewGame) Update() error {
	pinpad.Advance(g.handle)
	g.img = g.surface.Snapshot()
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	if g.img == nil {
		return
	}
	b := g.img.Bounds()
	if g.frame == nil || g.frame.Bounds().Size() != b.Size() {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.frame.WritePixels(g.img.Pix)
	screen.DrawImage(g.frame, nil)
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.surface.Size()
}
