package text

import (
	"testing"

	"github.com/gogpu/drawlist/internal/debug"
)

func TestAppendQuadsAlignment(t *testing.T) {
	f := testFont(t)
	r := Rect{X: 0, Y: 0, Width: 100, Height: 20}

	tests := []struct {
		name   string
		flags  Flags
		wantX0 float32 // left edge of 'A'
		wantY0 float32 // top edge of 'A'
	}{
		{"left top", AlignLeft | AlignTop, 0, 0},
		{"center", AlignCenter, 42, 0},
		{"right", AlignRight, 84, 0},
		{"middle", AlignMiddle, 0, 5},
		{"bottom", AlignBottom, 0, 10},
		{"center middle", AlignCenter | AlignMiddle, 42, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quads := f.AppendQuads(nil, "AV", r, tt.flags)
			if len(quads) != 2 {
				t.Fatalf("got %d quads, want 2", len(quads))
			}
			a := quads[0]
			if a.X0 != tt.wantX0 || a.Y0 != tt.wantY0 {
				t.Errorf("A at (%v,%v), want (%v,%v)", a.X0, a.Y0, tt.wantX0, tt.wantY0)
			}
			// Kerning pulls V two pixels closer than A's advance.
			if got := quads[1].X0 - a.X0; got != 7 {
				t.Errorf("V offset from A = %v, want 7", got)
			}
		})
	}
}

func TestAppendQuadsSkipsEmptyGlyphs(t *testing.T) {
	f := testFont(t)
	quads := f.AppendQuads(nil, "A A", Rect{Width: 100, Height: 20}, 0)
	if len(quads) != 2 {
		t.Fatalf("got %d quads, want 2", len(quads))
	}
	if quads[1].X0 != 13 {
		t.Errorf("second A at x=%v, want 13", quads[1].X0)
	}
}

func TestAppendQuadsAppends(t *testing.T) {
	f := testFont(t)
	dst := []Quad{{X0: -1}}
	dst = f.AppendQuads(dst, "A", Rect{Width: 50, Height: 20}, 0)
	if len(dst) != 2 || dst[0].X0 != -1 {
		t.Errorf("AppendQuads did not append to dst: %+v", dst)
	}
}

func TestAppendQuadsMonospace(t *testing.T) {
	f := testFont(t)
	quads := f.AppendQuads(nil, "11", Rect{Width: 100, Height: 20}, Monospace)
	if len(quads) != 2 {
		t.Fatalf("got %d quads, want 2", len(quads))
	}
	// '1' is 2 px wide in an 8 px cell.
	if quads[0].X0 != 3 || quads[1].X0 != 11 {
		t.Errorf("glyph x = %v, %v; want 3, 11", quads[0].X0, quads[1].X0)
	}
}

func TestAppendQuadsClip(t *testing.T) {
	f := testFont(t)

	t.Run("straddling glyph is cropped", func(t *testing.T) {
		quads := f.AppendQuads(nil, "A", Rect{Width: 4, Height: 20}, Clip)
		if len(quads) != 1 {
			t.Fatalf("got %d quads, want 1", len(quads))
		}
		q := quads[0]
		if q.X1 != 4 {
			t.Errorf("X1 = %v, want 4", q.X1)
		}
		if want := float32(4) / 128; q.U1 != want {
			t.Errorf("U1 = %v, want %v", q.U1, want)
		}
		if q.U0 != 0 {
			t.Errorf("U0 = %v, want 0", q.U0)
		}
	})

	t.Run("glyph outside is dropped", func(t *testing.T) {
		quads := f.AppendQuads(nil, "AV", Rect{Width: 6, Height: 20}, Clip)
		if len(quads) != 1 {
			t.Errorf("got %d quads, want 1", len(quads))
		}
	})

	t.Run("vertical crop", func(t *testing.T) {
		quads := f.AppendQuads(nil, "A", Rect{Width: 50, Height: 5}, Clip)
		if len(quads) != 1 {
			t.Fatalf("got %d quads, want 1", len(quads))
		}
		q := quads[0]
		if q.Y1 != 5 {
			t.Errorf("Y1 = %v, want 5", q.Y1)
		}
		if want := float32(5) / 64; q.V1 != want {
			t.Errorf("V1 = %v, want %v", q.V1, want)
		}
	})

	t.Run("no clip flag keeps overflow", func(t *testing.T) {
		quads := f.AppendQuads(nil, "AV", Rect{Width: 6, Height: 20}, 0)
		if len(quads) != 2 || quads[0].X1 != 8 {
			t.Errorf("unclipped quads = %+v", quads)
		}
	})
}

func TestAppendQuadsEllipsis(t *testing.T) {
	f := testFont(t)
	quads := f.AppendQuads(nil, "AAAAAAAAAA", Rect{Width: 40, Height: 20}, Ellipsis)
	// "A..." is one letter and three dots.
	if len(quads) != 4 {
		t.Fatalf("got %d quads, want 4", len(quads))
	}
}

func TestAppendQuadsNormalizes(t *testing.T) {
	f := testFont(t)
	// A followed by a combining ring composes to a single rune.
	quads := f.AppendQuads(nil, "A\u030A", Rect{Width: 50, Height: 20}, 0)
	if len(quads) != 1 {
		t.Errorf("got %d quads, want 1 after NFC", len(quads))
	}
}

func TestAppendQuadsExclusiveFlags(t *testing.T) {
	if !debug.Enabled {
		t.Skip("assertions are compiled out")
	}
	f := testFont(t)
	defer func() {
		if recover() == nil {
			t.Error("Ellipsis|Monospace did not panic")
		}
	}()
	f.AppendQuads(nil, "A", Rect{Width: 10, Height: 10}, Ellipsis|Monospace)
}
