package compose

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/kozaktomas/card-generator/internal/constants"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned for a border colour that is neither a hex
// colour nor a CSS colour name.
var ErrInvalidColor = errors.New("invalid color")

// Style is the look shared by every card in a batch.
type Style struct {
	BorderColor color.NRGBA
	FontFamily  string
}

// DefaultStyle is the dark green border with Comic Sans labels.
func DefaultStyle() Style {
	s, _ := ParseStyle("", "")
	return s
}

// ParseStyle validates user supplied style values. Empty values use the defaults.
func ParseStyle(borderColor, fontFamily string) (Style, error) {
	if strings.TrimSpace(borderColor) == "" {
		borderColor = constants.DefaultBorderColor
	}
	c, err := ParseColor(borderColor)
	if err != nil {
		return Style{}, err
	}
	fontFamily = strings.TrimSpace(fontFamily)
	if fontFamily == "" {
		fontFamily = constants.DefaultFontFamily
	}
	return Style{BorderColor: c, FontFamily: fontFamily}, nil
}

// BorderHex renders the border colour as #rrggbb, or #rrggbbaa when translucent.
func (s Style) BorderHex() string {
	c := s.BorderColor
	if c.A == 0xFF {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa and CSS colour names.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
