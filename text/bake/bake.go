// Package bake renders a TrueType or OpenType font into a BMFont glyph
// sheet and its text metrics, the inputs of drawlist.Context.CreateFont.
//
//	r, err := bake.Bake(goregular.TTF, bake.Options{Size: 16, Kerning: true})
//	if err != nil {
//	    return err
//	}
//	font, err := ctx.CreateFont(r.MetricsText(), r.Sheet)
package bake

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/drawlist/internal/atlas"
	"github.com/gogpu/drawlist/text"
)

// ErrSheetTooSmall is returned when a glyph does not fit the sheet width.
var ErrSheetTooSmall = errors.New("bake: glyph wider than sheet")

// Options controls baking. Zero fields take defaults.
type Options struct {
	// Size is the font size in pixels per em. Default 16.
	Size float64

	// Runes lists the characters to bake. Default is printable ASCII.
	Runes []rune

	// Padding is the gap in pixels around each glyph. Default 1.
	Padding int

	// SheetWidth is the sheet width in pixels. Default 256.
	SheetWidth int

	// Kerning extracts pair adjustments with a HarfBuzz shaper.
	Kerning bool
}

func (o *Options) defaults() {
	if o.Size <= 0 {
		o.Size = 16
	}
	if len(o.Runes) == 0 {
		for r := rune(32); r < 127; r++ {
			o.Runes = append(o.Runes, r)
		}
	}
	if o.Padding <= 0 {
		o.Padding = 1
	}
	if o.SheetWidth <= 0 {
		o.SheetWidth = 256
	}
}

// Result is a baked font.
type Result struct {
	Metrics *text.Metrics
	// Sheet holds white glyphs with coverage in alpha. Its height is a
	// power of two.
	Sheet *image.RGBA
}

// MetricsText returns the metrics in BMFont text format.
func (r *Result) MetricsText() []byte {
	var buf bytes.Buffer
	_, _ = r.Metrics.WriteTo(&buf)
	return buf.Bytes()
}

// Encode writes the metrics text and the PNG-encoded sheet.
func (r *Result) Encode(metrics, sheet io.Writer) error {
	if _, err := r.Metrics.WriteTo(metrics); err != nil {
		return fmt.Errorf("bake: write metrics: %w", err)
	}
	if err := png.Encode(sheet, r.Sheet); err != nil {
		return fmt.Errorf("bake: encode sheet: %w", err)
	}
	return nil
}

type placed struct {
	r      rune
	bounds image.Rectangle
	adv    fixed.Int26_6
	x, y   int
}

// Bake parses ttf and renders opts.Runes into a sheet. Runes the font has
// no glyph for are left out.
func Bake(ttf []byte, opts Options) (*Result, error) {
	opts.defaults()

	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("bake: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    opts.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("bake: create face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	fm := face.Metrics()
	m := &text.Metrics{
		Size:       int(opts.Size + 0.5),
		LineHeight: fm.Height.Ceil(),
		Base:       fm.Ascent.Ceil(),
		ScaleW:     opts.SheetWidth,
	}
	if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil {
		m.Face = name
	}

	// Shelf layout, left to right and top to bottom.
	pad := opts.Padding
	x, y, rowH := pad, pad, 0
	glyphs := make([]placed, 0, len(opts.Runes))
	for _, r := range opts.Runes {
		if idx, err := f.GlyphIndex(nil, r); err != nil || idx == 0 {
			continue
		}
		b, adv, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		rect := image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
		w, h := rect.Dx(), rect.Dy()
		if w+2*pad > opts.SheetWidth {
			return nil, fmt.Errorf("%w: %q is %d pixels", ErrSheetTooSmall, r, w)
		}
		if x+w+pad > opts.SheetWidth {
			x, y, rowH = pad, y+rowH+pad, 0
		}
		glyphs = append(glyphs, placed{r: r, bounds: rect, adv: adv, x: x, y: y})
		x += w + pad
		rowH = max(rowH, h)
	}
	m.ScaleH = atlas.NextPow2(y + rowH + pad)

	sheet := image.NewRGBA(image.Rect(0, 0, m.ScaleW, m.ScaleH))
	d := &font.Drawer{Dst: sheet, Src: image.White, Face: face}
	for _, g := range glyphs {
		d.Dot = fixed.P(g.x-g.bounds.Min.X, g.y-g.bounds.Min.Y)
		d.DrawString(string(g.r))
		m.Chars = append(m.Chars, text.CharDef{
			ID:       g.r,
			X:        g.x,
			Y:        g.y,
			Width:    g.bounds.Dx(),
			Height:   g.bounds.Dy(),
			XOffset:  g.bounds.Min.X,
			YOffset:  m.Base + g.bounds.Min.Y,
			XAdvance: g.adv.Round(),
		})
	}
	unpremultiplyWhite(sheet)

	if opts.Kerning {
		runes := make([]rune, 0, len(glyphs))
		for _, g := range glyphs {
			if g.r != ' ' {
				runes = append(runes, g.r)
			}
		}
		kern, err := kerning(ttf, opts.Size, runes)
		if err != nil {
			return nil, err
		}
		m.Kernings = kern
	}
	return &Result{Metrics: m, Sheet: sheet}, nil
}

// unpremultiplyWhite turns premultiplied white coverage into straight
// alpha over white.
func unpremultiplyWhite(img *image.RGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = 0xFF, 0xFF, 0xFF
	}
}

// kerning shapes every ordered pair of runes and records the pairs whose
// first advance differs from the unpaired advance.
func kerning(ttf []byte, size float64, runes []rune) ([]text.KerningDef, error) {
	parsed, err := gtfont.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("bake: parse font for shaping: %w", err)
	}
	face := gtfont.NewFace(parsed.Font)
	var hb shaping.HarfbuzzShaper

	advance := func(s []rune) fixed.Int26_6 {
		out := hb.Shape(shaping.Input{
			Text:      s,
			RunStart:  0,
			RunEnd:    len(s),
			Direction: di.DirectionLTR,
			Face:      face,
			Size:      fixed.Int26_6(size * 64),
			Script:    language.Latin,
			Language:  language.NewLanguage("en"),
		})
		if len(out.Glyphs) == 0 {
			return 0
		}
		return out.Glyphs[0].Advance
	}

	single := make(map[rune]fixed.Int26_6, len(runes))
	for _, r := range runes {
		single[r] = advance([]rune{r})
	}

	var out []text.KerningDef
	pair := make([]rune, 2)
	for _, a := range runes {
		for _, b := range runes {
			pair[0], pair[1] = a, b
			if amount := (advance(pair) - single[a]).Round(); amount != 0 {
				out = append(out, text.KerningDef{First: a, Second: b, Amount: amount})
			}
		}
	}
	return out, nil
}
