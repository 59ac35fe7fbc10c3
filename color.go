package drawlist

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
)

// Color is a non-premultiplied color packed as 0xAABBGGRR, the byte order
// of an RGBA8 vertex attribute on little-endian hosts.
type Color uint32

// Common colors.
const (
	Transparent Color = 0x00000000
	Black       Color = 0xFF000000
	White       Color = 0xFFFFFFFF
	Red         Color = 0xFF0000FF
	Green       Color = 0xFF00FF00
	Blue        Color = 0xFFFF0000
)

// RGBA packs 8-bit components into a Color.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24)
}

// RGB packs an opaque color.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 0xFF)
}

// FromColor converts a standard color.Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA(n.R, n.G, n.B, n.A)
}

// Hex parses "RGB", "RGBA", "RRGGBB" or "RRGGBBAA", with an optional leading '#'.
func Hex(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Black, fmt.Errorf("drawlist: invalid hex color %q: %w", s, err)
	}
	switch len(h) {
	case 3:
		return RGB(uint8(v>>8&0xF)*17, uint8(v>>4&0xF)*17, uint8(v&0xF)*17), nil
	case 4:
		return RGBA(uint8(v>>12&0xF)*17, uint8(v>>8&0xF)*17, uint8(v>>4&0xF)*17, uint8(v&0xF)*17), nil
	case 6:
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	case 8:
		return RGBA(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
	default:
		return Black, fmt.Errorf("drawlist: invalid hex color %q: length %d", s, len(h))
	}
}

// R returns the red component.
func (c Color) R() uint8 { return uint8(c) }

// G returns the green component.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue component.
func (c Color) B() uint8 { return uint8(c >> 16) }

// A returns the alpha component.
func (c Color) A() uint8 { return uint8(c >> 24) }

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}.RGBA()
}

// WithAlpha returns c with its alpha multiplied by opacity in [0, 1].
func (c Color) WithAlpha(opacity float32) Color {
	a := math32.Floor(float32(c.A())*clamp01(opacity) + 0.5)
	return c&0x00FFFFFF | Color(uint32(a)<<24)
}

// BGRA returns c with red and blue swapped.
func (c Color) BGRA() Color {
	return c&0xFF00FF00 | (c&0xFF)<<16 | (c>>16)&0xFF
}

// String returns the color as #RRGGBBAA.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R(), c.G(), c.B(), c.A())
}

// Lerp interpolates per channel from c to other. t is clamped to [0, 1].
func (c Color) Lerp(other Color, t float32) Color {
	t = clamp01(t)
	mix := func(a, b uint8) uint8 {
		return uint8(math32.Floor(float32(a) + (float32(b)-float32(a))*t + 0.5))
	}
	return RGBA(
		mix(c.R(), other.R()),
		mix(c.G(), other.G()),
		mix(c.B(), other.B()),
		mix(c.A(), other.A()),
	)
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
