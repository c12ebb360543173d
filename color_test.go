package pinpad

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gg"
)

func rgbaNear(a, b gg.RGBA) bool {
	const eps = 1e-9
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want gg.RGBA
	}{
		{"#000000", gg.RGBA{R: 0, G: 0, B: 0, A: 1}},
		{"#ffffff", gg.RGBA{R: 1, G: 1, B: 1, A: 1}},
		{"FF0000", gg.RGBA{R: 1, G: 0, B: 0, A: 1}},
		{"#f00", gg.RGBA{R: 1, G: 0, B: 0, A: 1}},
		{"#0f08", gg.RGBA{R: 0, G: 1, B: 0, A: 136.0 / 255}},
		{"#10203040", gg.RGBA{R: 16.0 / 255, G: 32.0 / 255, B: 48.0 / 255, A: 64.0 / 255}},
		{"#AbCdEf", gg.RGBA{R: 171.0 / 255, G: 205.0 / 255, B: 239.0 / 255, A: 1}},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if err != nil {
			t.Errorf("ParseHex(%q) error = %v", tt.in, err)
			continue
		}
		if !rgbaNear(got, tt.want) {
			t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseHexInvalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#12345", "#1234567", "#123456789", "#gg0000", "#12 456", "red"} {
		if _, err := ParseHex(in); !errors.Is(err, ErrInvalidHex) {
			t.Errorf("ParseHex(%q) error = %v, want %v", in, err, ErrInvalidHex)
		}
	}
}

func TestDecodeHexFatal(t *testing.T) {
	v := Recover(func() { DecodeHex(RoleCircle, "#12345") })
	if v == nil {
		t.Fatal("DecodeHex() did not abort on a malformed color")
	}
	if v.Kind != KindInput {
		t.Errorf("Kind = %v, want %v", v.Kind, KindInput)
	}
	if !errors.Is(v, ErrBadColor) || !errors.Is(v, ErrInvalidHex) {
		t.Errorf("violation = %v, want ErrBadColor wrapping ErrInvalidHex", v)
	}

	if v := Recover(func() { DecodeHex(RoleBackground, "#123") }); v != nil {
		t.Errorf("DecodeHex(valid) violation = %v", v)
	}
}

func TestRoleString(t *testing.T) {
	tests := []struct {
		r    Role
		want string
	}{
		{RoleMessageText, "message_text"},
		{RoleCircleText, "circle_text"},
		{RoleCircle, "circle"},
		{RoleBackground, "background"},
		{Role(9), "Role(9)"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("Role(%d).String() = %q, want %q", int(tt.r), got, tt.want)
		}
	}
}
