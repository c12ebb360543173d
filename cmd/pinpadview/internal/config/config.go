package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/pinpad"
	"github.com/gogpu/pinpad/ndc"
)

// Config represents the optional pinpad layout file.
type Config struct {
	Window     WindowConfig  `yaml:"window"`
	Projection string        `yaml:"projection,omitempty"`
	Message    MessageConfig `yaml:"message"`
	Pinpad     PinpadConfig  `yaml:"pinpad"`
	Colors     ColorConfig   `yaml:"colors"`
}

// WindowConfig is the preview surface size in pixels.
type WindowConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// MessageConfig places the message area.
type MessageConfig struct {
	// Rect is [left, top, right, bottom] in pixels. Empty means the top
	// fifth of the window.
	Rect  []float32 `yaml:"rect,omitempty,flow"`
	Label string    `yaml:"label,omitempty"`
}

// PinpadConfig places the keys.
type PinpadConfig struct {
	Cols int `yaml:"cols,omitempty"`
	Rows int `yaml:"rows,omitempty"`

	// Rects lists one [left, top, right, bottom] per key in scan order.
	// Empty means an even grid below the message area.
	Rects  [][]float32 `yaml:"rects,omitempty"`
	Labels []string    `yaml:"labels,omitempty,flow"`
}

// ColorConfig holds hex colors.
type ColorConfig struct {
	MessageText string `yaml:"message_text,omitempty"`
	CircleText  string `yaml:"circle_text,omitempty"`
	Circle      string `yaml:"circle,omitempty"`
	Background  string `yaml:"background,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Width, Height int
	Projection    ndc.Projection
	MessageRects  []float32
	PinpadRects   []float32
	Cols, Rows    int
	Colors        pinpad.Colors
	MessageLabel  string
	KeyLabels     []string
}

// ErrInvalid is wrapped by Resolve errors.
var ErrInvalid = errors.New("invalid layout")

// LoadOptional reads the layout file at path if present.
func LoadOptional(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Resolve loads the layout file (if present) and fills in defaults.
func Resolve(path string) (*Resolved, error) {
	cfg, err := LoadOptional(path)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve()
}

// Resolve fills in defaults and validates the layout.
func (c *Config) Resolve() (*Resolved, error) {
	r := &Resolved{
		Width:        orInt(c.Window.Width, 360),
		Height:       orInt(c.Window.Height, 640),
		Cols:         orInt(c.Pinpad.Cols, 3),
		Rows:         orInt(c.Pinpad.Rows, 4),
		MessageLabel: orString(c.Message.Label, "Enter PIN"),
		Colors: pinpad.Colors{
			MessageText: orString(c.Colors.MessageText, "#ffffff"),
			CircleText:  orString(c.Colors.CircleText, "#000000"),
			Circle:      orString(c.Colors.Circle, "#cccccc"),
			Background:  orString(c.Colors.Background, "#202020"),
		},
	}
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("%w: window %dx%d", ErrInvalid, r.Width, r.Height)
	}
	if r.Cols <= 0 || r.Rows <= 0 {
		return nil, fmt.Errorf("%w: pinpad %dx%d", ErrInvalid, r.Cols, r.Rows)
	}

	p, err := ndc.ParseProjection(strings.TrimSpace(c.Projection))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	r.Projection = p

	for role, s := range map[pinpad.Role]string{
		pinpad.RoleMessageText: r.Colors.MessageText,
		pinpad.RoleCircleText:  r.Colors.CircleText,
		pinpad.RoleCircle:      r.Colors.Circle,
		pinpad.RoleBackground:  r.Colors.Background,
	} {
		if _, err := pinpad.ParseHex(s); err != nil {
			return nil, fmt.Errorf("%w: %s color: %w", ErrInvalid, role, err)
		}
	}

	w, h := float32(r.Width), float32(r.Height)
	switch len(c.Message.Rect) {
	case 0:
		r.MessageRects = []float32{0, 0, w, h / 5}
	case 4:
		r.MessageRects = append([]float32(nil), c.Message.Rect...)
	default:
		return nil, fmt.Errorf("%w: message rect has %d values, want 4", ErrInvalid, len(c.Message.Rect))
	}

	if len(c.Pinpad.Rects) == 0 {
		r.PinpadRects = evenGrid(0, r.MessageRects[3], w, h, r.Cols, r.Rows)
	} else {
		if len(c.Pinpad.Rects) != r.Cols*r.Rows {
			return nil, fmt.Errorf("%w: %d key rects for a %dx%d pinpad", ErrInvalid, len(c.Pinpad.Rects), r.Cols, r.Rows)
		}
		for i, rect := range c.Pinpad.Rects {
			if len(rect) != 4 {
				return nil, fmt.Errorf("%w: key rect %d has %d values, want 4", ErrInvalid, i, len(rect))
			}
			r.PinpadRects = append(r.PinpadRects, rect...)
		}
	}

	r.KeyLabels = c.Pinpad.Labels
	if len(r.KeyLabels) == 0 && r.Cols == 3 && r.Rows == 4 {
		r.KeyLabels = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "", "0", ""}
	}
	return r, nil
}

// evenGrid splits the area (left, top)-(right, bottom) into cols x rows
// rectangles in scan order.
func evenGrid(left, top, right, bottom float32, cols, rows int) []float32 {
	cw := (right - left) / float32(cols)
	ch := (bottom - top) / float32(rows)
	out := make([]float32, 0, cols*rows*4)
	for row := range rows {
		for col := range cols {
			l := left + float32(col)*cw
			t := top + float32(row)*ch
			out = append(out, l, t, l+cw, t+ch)
		}
	}
	return out
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
