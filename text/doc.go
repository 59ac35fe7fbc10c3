// Package text implements bitmap fonts and their layout.
//
// A Font is built once from BMFont text metrics and the texture holding the
// glyph sheet, and is immutable afterwards. It answers per-glyph metrics,
// kerning for registered ordered pairs, string measurement and truncation,
// and lays out a run of text as textured quads.
//
// # Example usage
//
//	m, err := text.ParseBMFont(strings.NewReader(metrics))
//	if err != nil {
//	    return err
//	}
//	font := text.NewFont(m, sheetTexture)
//
//	quads := font.AppendQuads(nil, "Pattern 01", text.Rect{X: 10, Y: 10, Width: 120, Height: 20},
//	    text.AlignCenter|text.AlignMiddle|text.Ellipsis)
//
// # Missing glyphs
//
// Characters without an entry in the metrics resolve to the MissingGlyph
// sentinel, the maximum 16-bit code point. Lookups never fail.
//
// # Layout flags
//
// Horizontal alignment (AlignLeft, AlignCenter, AlignRight) and vertical
// alignment (AlignTop, AlignMiddle, AlignBottom) combine with Clip, Ellipsis
// and Monospace. Ellipsis and Monospace are mutually exclusive.
//
// Vertical placement uses the height of 'A' rather than the full line box,
// so strings with and without descenders sit on the same baseline.
package text
