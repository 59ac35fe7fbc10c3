package drawlist

import "github.com/gogpu/drawlist/internal/debug"

// Brush describes a fill: a solid color or a two-stop linear gradient.
//
// A gradient runs from Color0 at its origin to Color1 at GradientSizeY (or
// GradientSizeX) local units, and stays at Color1 past that. Rectangles and
// text put the origin at the top (or left) edge of their rect; geometries
// use local 0. Exactly one gradient size may be non-zero.
//
// Brushes are small values; the context caches them so each distinct
// color or gradient key maps to one *Brush for the context's lifetime.
type Brush struct {
	Color0, Color1 Color

	GradientSizeX float32
	GradientSizeY float32
}

// SolidBrush returns a brush filling with c.
func SolidBrush(c Color) Brush {
	return Brush{Color0: c, Color1: c}
}

// VerticalGradient returns a brush fading from c0 to c1 over size units downward.
func VerticalGradient(c0, c1 Color, size float32) Brush {
	return Brush{Color0: c0, Color1: c1, GradientSizeY: size}
}

// HorizontalGradient returns a brush fading from c0 to c1 over size units rightward.
func HorizontalGradient(c0, c1 Color, size float32) Brush {
	return Brush{Color0: c0, Color1: c1, GradientSizeX: size}
}

// IsGradient reports whether b has a gradient extent.
func (b *Brush) IsGradient() bool {
	return b.GradientSizeX != 0 || b.GradientSizeY != 0
}

// IsVertical reports whether the gradient runs along y.
func (b *Brush) IsVertical() bool {
	debug.Assert(b.GradientSizeX == 0 || b.GradientSizeY == 0, "brush gradient has both axes set")
	return b.GradientSizeY != 0
}

// gradientSize returns the gradient extent along its axis.
func (b *Brush) gradientSize() float32 {
	if b.IsVertical() {
		return b.GradientSizeY
	}
	return b.GradientSizeX
}

// ColorAt returns the color at local offset (x, y) from the gradient origin.
func (b *Brush) ColorAt(x, y float32) Color {
	if !b.IsGradient() {
		return b.Color0
	}
	if b.IsVertical() {
		return b.Color0.Lerp(b.Color1, y/b.GradientSizeY)
	}
	return b.Color0.Lerp(b.Color1, x/b.GradientSizeX)
}
