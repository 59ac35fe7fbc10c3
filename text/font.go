package text

import (
	"unicode/utf8"

	"github.com/chewxy/math32"
)

// MissingGlyph is the sentinel code point that unmapped characters resolve to.
const MissingGlyph rune = 0xFFFF

// ellipsis is appended by TruncateString.
const ellipsis = "..."

// CharInfo holds the metrics of one glyph in pixels and its UV rectangle on
// the glyph sheet.
type CharInfo struct {
	Width, Height    float32
	XOffset, YOffset float32
	XAdvance         float32
	U0, V0, U1, V1   float32
}

type kernPair struct {
	first, second rune
}

// Font is an immutable bitmap font bound to a glyph-sheet texture.
type Font struct {
	// Texture is the backend texture holding the glyph sheet.
	Texture uint32

	GlyphSize  float32
	Baseline   float32
	LineHeight float32

	chars   map[rune]CharInfo
	kerning map[kernPair]float32
}

// NewFont builds a font from parsed metrics and the texture of its sheet.
func NewFont(m *Metrics, texture uint32) *Font {
	f := &Font{
		Texture:    texture,
		GlyphSize:  float32(m.Size),
		Baseline:   float32(m.Base),
		LineHeight: float32(m.LineHeight),
		chars:      make(map[rune]CharInfo, len(m.Chars)+1),
		kerning:    make(map[kernPair]float32, len(m.Kernings)),
	}

	sw, sh := float32(m.ScaleW), float32(m.ScaleH)
	for _, c := range m.Chars {
		f.chars[c.ID] = CharInfo{
			Width:    float32(c.Width),
			Height:   float32(c.Height),
			XOffset:  float32(c.XOffset),
			YOffset:  float32(c.YOffset),
			XAdvance: float32(c.XAdvance),
			U0:       float32(c.X) / sw,
			V0:       float32(c.Y) / sh,
			U1:       float32(c.X+c.Width) / sw,
			V1:       float32(c.Y+c.Height) / sh,
		}
	}
	for _, k := range m.Kernings {
		if k.Amount != 0 {
			f.kerning[kernPair{k.First, k.Second}] = float32(k.Amount)
		}
	}

	if _, ok := f.chars[MissingGlyph]; !ok {
		if q, ok := f.chars['?']; ok {
			f.chars[MissingGlyph] = q
		} else {
			f.chars[MissingGlyph] = CharInfo{XAdvance: math32.Ceil(f.GlyphSize / 2)}
		}
	}
	return f
}

// HasGlyph reports whether r has its own entry in the font.
func (f *Font) HasGlyph(r rune) bool {
	_, ok := f.chars[r]
	return ok
}

// GetCharInfo returns the metrics for r, or the MissingGlyph metrics when
// the font has no entry for r.
func (f *Font) GetCharInfo(r rune) CharInfo {
	if ci, ok := f.chars[r]; ok {
		return ci
	}
	return f.chars[MissingGlyph]
}

// GetKerning returns the advance adjustment between first and second.
// Only registered ordered pairs are non-zero.
func (f *Font) GetKerning(first, second rune) float32 {
	return f.kerning[kernPair{first, second}]
}

// MeasureString returns the advance width of s. With mono every character
// takes the advance of '0' and kerning is ignored.
func (f *Font) MeasureString(s string, mono bool) float32 {
	if mono {
		cell := f.GetCharInfo('0').XAdvance
		n := 0
		for range s {
			n++
		}
		return float32(n) * cell
	}

	var w float32
	var prev rune
	for i, r := range s {
		if i > 0 {
			w += f.GetKerning(prev, r)
		}
		w += f.GetCharInfo(r).XAdvance
		prev = r
	}
	return w
}

// TruncateString shortens s to fit maxSizeX, appending "..." when it had to
// cut. The cut keeps room for twice the width of "...", so applying
// TruncateString to its own result returns it unchanged.
func (f *Font) TruncateString(s string, maxSizeX float32, mono bool) string {
	if f.MeasureString(s, mono) <= maxSizeX {
		return s
	}
	limit := maxSizeX - 2*f.MeasureString(ellipsis, mono)

	cut := 0
	var w float32
	var prev rune
	cell := f.GetCharInfo('0').XAdvance
	for cut < len(s) {
		r, size := utf8.DecodeRuneInString(s[cut:])
		adv := cell
		if !mono {
			adv = f.GetCharInfo(r).XAdvance
			if cut > 0 {
				adv += f.GetKerning(prev, r)
			}
		}
		if w+adv > limit {
			break
		}
		w += adv
		prev = r
		cut += size
	}
	return s[:cut] + ellipsis
}
