// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"

	"github.com/go-text/typesetting/language"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"
)

// label is a normalized text with its resolved direction.
type label struct {
	text   string
	dir    text.Direction
	script language.Script
}

// newLabel normalizes s to NFC and resolves its base direction from the
// first strong character.
func newLabel(s string) label {
	l := label{text: norm.NFC.String(s), dir: text.DirectionLTR, script: language.Latin}
	for _, r := range l.text {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.R, bidi.AL:
			l.dir = text.DirectionRTL
		case bidi.L:
		default:
			continue
		}
		l.script = language.LookupScript(r)
		break
	}
	return l
}

// labeler draws static labels with Go Regular.
type labeler struct {
	source  *text.FontSource
	size    float64
	message label
	keys    []label
	faces   map[text.Direction]text.Face
}

func newLabeler(l Labels, size float64) (*labeler, error) {
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("engine: load label font: %w", err)
	}
	lb := &labeler{
		source:  src,
		size:    size,
		message: newLabel(l.Message),
		keys:    make([]label, len(l.Keys)),
		faces:   make(map[text.Direction]text.Face),
	}
	for i, k := range l.Keys {
		lb.keys[i] = newLabel(k)
	}
	return lb, nil
}

func (lb *labeler) face(dir text.Direction, size float64) text.Face {
	if size != lb.size || lb.faces[dir] == nil {
		if size != lb.size {
			clear(lb.faces)
			lb.size = size
		}
		lb.faces[dir] = lb.source.Face(size, text.WithDirection(dir))
	}
	return lb.faces[dir]
}

// fontSize picks a size from the key height unless one was configured.
func (lb *labeler) fontSize(configured float64, l *layout) float64 {
	if configured > 0 {
		return configured
	}
	if len(l.keys) == 0 {
		return float64(l.message.Height()) / 3
	}
	return l.keys[0].radius
}

// draw renders the message label into the panel and one label per key.
// RTL messages are anchored to the right edge of the panel.
func (lb *labeler) draw(dc *gg.Context, l *layout, p *Palette, configured float64) {
	size := lb.fontSize(configured, l)
	if lb.message.text != "" {
		dc.SetFont(lb.face(lb.message.dir, size))
		dc.SetColor(p.MessageText.Color())
		m := l.message
		pad := float64(m.Height()) * messagePadding
		y := float64(m.Top+m.Bottom) / 2
		if lb.message.dir == text.DirectionRTL {
			dc.DrawStringAnchored(lb.message.text, float64(m.Right)-pad, y, 1, 0.5)
		} else {
			dc.DrawStringAnchored(lb.message.text, float64(m.Left)+pad, y, 0, 0.5)
		}
	}
	dc.SetColor(p.CircleText.Color())
	for i, k := range l.keys {
		if i >= len(lb.keys) || lb.keys[i].text == "" {
			continue
		}
		dc.SetFont(lb.face(lb.keys[i].dir, size))
		dc.DrawStringAnchored(lb.keys[i].text, k.cx, k.cy, 0.5, 0.5)
	}
}

func (lb *labeler) Close() error {
	clear(lb.faces)
	return lb.source.Close()
}
