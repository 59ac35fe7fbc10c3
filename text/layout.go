package text

import (
	"github.com/chewxy/math32"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/drawlist/internal/debug"
)

// Flags controls text layout.
type Flags uint16

// Layout flags. AlignLeft and AlignTop are the zero values.
const (
	AlignLeft   Flags = 0
	AlignCenter Flags = 1 << 0
	AlignRight  Flags = 1 << 1
	AlignTop    Flags = 0
	AlignMiddle Flags = 1 << 2
	AlignBottom Flags = 1 << 3

	// Clip crops glyphs to the layout rectangle, cutting straddling glyphs
	// at the edge instead of dropping them.
	Clip Flags = 1 << 4

	// Ellipsis truncates text that does not fit the rectangle width.
	Ellipsis Flags = 1 << 5

	// Monospace centers every glyph in the advance of '0'.
	Monospace Flags = 1 << 6
)

// Has reports whether all bits of v are set.
func (f Flags) Has(v Flags) bool { return f&v == v }

// Rect is an axis-aligned layout rectangle in pixels.
type Rect struct {
	X, Y, Width, Height float32
}

// Quad is one positioned glyph with its sheet UVs.
type Quad struct {
	X0, Y0, X1, Y1 float32
	U0, V0, U1, V1 float32
}

// AppendQuads lays out s inside r and appends one quad per visible glyph.
func (f *Font) AppendQuads(dst []Quad, s string, r Rect, flags Flags) []Quad {
	debug.Assert(!(flags.Has(Ellipsis) && flags.Has(Monospace)), "Ellipsis and Monospace are mutually exclusive")

	s = norm.NFC.String(s)
	mono := flags.Has(Monospace)
	if flags.Has(Ellipsis) {
		s = f.TruncateString(s, r.Width, mono)
	}
	if s == "" {
		return dst
	}

	width := f.MeasureString(s, mono)
	x := r.X
	switch {
	case flags.Has(AlignCenter):
		x += (r.Width - width) / 2
	case flags.Has(AlignRight):
		x += r.Width - width
	}
	x = math32.Floor(x)

	ref := f.GetCharInfo('A')
	y := r.Y - ref.YOffset
	switch {
	case flags.Has(AlignMiddle):
		y += (r.Height - ref.Height) / 2
	case flags.Has(AlignBottom):
		y += r.Height - ref.Height
	}
	y = math32.Floor(y)

	cell := f.GetCharInfo('0').XAdvance
	clip := flags.Has(Clip)

	first := true
	var prev rune
	for _, ch := range s {
		ci := f.GetCharInfo(ch)

		var gx float32
		if mono {
			gx = x + math32.Floor((cell-ci.Width)/2)
			x += cell
		} else {
			if !first {
				x += f.GetKerning(prev, ch)
			}
			gx = x + ci.XOffset
			x += ci.XAdvance
		}
		first = false
		prev = ch

		if ci.Width <= 0 || ci.Height <= 0 {
			continue
		}
		q := Quad{
			X0: gx, Y0: y + ci.YOffset,
			X1: gx + ci.Width, Y1: y + ci.YOffset + ci.Height,
			U0: ci.U0, V0: ci.V0, U1: ci.U1, V1: ci.V1,
		}
		if clip {
			var ok bool
			if q, ok = clipQuad(q, r); !ok {
				continue
			}
		}
		dst = append(dst, q)
	}
	return dst
}

// clipQuad crops q to r, interpolating UVs by the fraction cut away.
// It reports false when nothing of q remains.
func clipQuad(q Quad, r Rect) (Quad, bool) {
	minX, minY := r.X, r.Y
	maxX, maxY := r.X+r.Width, r.Y+r.Height
	if q.X1 <= minX || q.X0 >= maxX || q.Y1 <= minY || q.Y0 >= maxY {
		return q, false
	}

	w, h := q.X1-q.X0, q.Y1-q.Y0
	u0, u1, v0, v1 := q.U0, q.U1, q.V0, q.V1
	if q.X0 < minX {
		q.U0 = lerp(u0, u1, (minX-q.X0)/w)
		q.X0 = minX
	}
	if q.X1 > maxX {
		q.U1 = lerp(u0, u1, (maxX-(q.X1-w))/w)
		q.X1 = maxX
	}
	if q.Y0 < minY {
		q.V0 = lerp(v0, v1, (minY-q.Y0)/h)
		q.Y0 = minY
	}
	if q.Y1 > maxY {
		q.V1 = lerp(v0, v1, (maxY-(q.Y1-h))/h)
		q.Y1 = maxY
	}
	return q, true
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
