package tmj

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an alias for the standard RGBA type so parsed colors can be
// handed to ebiten and image/draw without conversion.
type Color = color.RGBA

// ParseColor parses a Tiled color string, either #RRGGBB or #AARRGGBB.
// The leading '#' is optional.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}

	var bytes [4]uint8
	for i := 0; i < len(hex); i += 2 {
		v, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q", s)
		}
		bytes[i/2] = uint8(v)
	}

	if len(hex) == 8 {
		// Alpha comes first on the wire (argb), last in memory (rgba).
		return Color{R: bytes[1], G: bytes[2], B: bytes[3], A: bytes[0]}, nil
	}
	return Color{R: bytes[0], G: bytes[1], B: bytes[2], A: 0xff}, nil
}
