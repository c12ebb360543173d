package pinpad

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/pinpad/internal/contract"
)

// ErrInvalidHex is wrapped by ParseHex errors.
var ErrInvalidHex = errors.New("pinpad: invalid hex color")

// Role names what a palette color is used for.
type Role int

const (
	// RoleMessageText colors the message overlay.
	RoleMessageText Role = iota
	// RoleCircleText colors the digit overlay inside pinpad circles.
	RoleCircleText
	// RoleCircle fills pinpad circles.
	RoleCircle
	// RoleBackground fills the whole surface.
	RoleBackground
)

func (r Role) String() string {
	switch r {
	case RoleMessageText:
		return "message_text"
	case RoleCircleText:
		return "circle_text"
	case RoleCircle:
		return "circle"
	case RoleBackground:
		return "background"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseHex parses a hex color string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", each with an
// optional leading '#'. Unlike gg.Hex, any other length or a non-hex digit
// is an error rather than black.
func ParseHex(s string) (gg.RGBA, error) {
	hex := s
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var digits [8]uint32
	for i := 0; i < len(hex) && i < len(digits); i++ {
		d, ok := hexDigit(hex[i])
		if !ok {
			return gg.RGBA{}, fmt.Errorf("%w: %q: bad digit %q", ErrInvalidHex, s, hex[i])
		}
		digits[i] = d
	}

	var r, g, b, a uint32
	a = 255

	switch len(hex) {
	case 3: // RGB
		r, g, b = digits[0]*17, digits[1]*17, digits[2]*17
	case 4: // RGBA
		r, g, b, a = digits[0]*17, digits[1]*17, digits[2]*17, digits[3]*17
	case 6: // RRGGBB
		r, g, b = digits[0]<<4|digits[1], digits[2]<<4|digits[3], digits[4]<<4|digits[5]
	case 8: // RRGGBBAA
		r, g, b = digits[0]<<4|digits[1], digits[2]<<4|digits[3], digits[4]<<4|digits[5]
		a = digits[6]<<4 | digits[7]
	default:
		return gg.RGBA{}, fmt.Errorf("%w: %q: length %d", ErrInvalidHex, s, len(hex))
	}

	return gg.RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, nil
}

func hexDigit(c byte) (uint32, bool) {
	switch {
	case '0' <= c && c <= '9':
		return uint32(c - '0'), true
	case 'a' <= c && c <= 'f':
		return uint32(c - 'a' + 10), true
	case 'A' <= c && c <= 'F':
		return uint32(c - 'A' + 10), true
	default:
		return 0, false
	}
}

// DecodeHex parses the color for role. A malformed string is a host
// contract violation and aborts.
func DecodeHex(role Role, s string) gg.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		contract.Fatal(contract.New("pinpad.DecodeHex("+role.String()+")", contract.KindInput,
			fmt.Errorf("%w: %w", contract.ErrBadColor, err)))
	}
	return c
}

// Colors holds the four host color strings.
type Colors struct {
	MessageText string
	CircleText  string
	Circle      string
	Background  string
}
