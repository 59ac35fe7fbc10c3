package bake

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/drawlist"
	"github.com/gogpu/drawlist/recording"
	"github.com/gogpu/drawlist/text"
)

func TestBakeASCII(t *testing.T) {
	r, err := Bake(goregular.TTF, Options{Size: 16})
	if err != nil {
		t.Fatal(err)
	}
	m := r.Metrics
	if m.Face == "" {
		t.Error("face name not read")
	}
	if m.LineHeight <= 0 || m.Base <= 0 || m.Base > m.LineHeight {
		t.Errorf("lineHeight %d base %d", m.LineHeight, m.Base)
	}
	if len(m.Chars) != 95 {
		t.Errorf("baked %d chars, want 95", len(m.Chars))
	}
	if b := r.Sheet.Bounds(); b.Dx() != 256 || b.Dy() != m.ScaleH || m.ScaleH&(m.ScaleH-1) != 0 {
		t.Errorf("sheet %v, scaleH %d", b, m.ScaleH)
	}

	byID := make(map[rune]text.CharDef)
	for _, c := range m.Chars {
		byID[c.ID] = c
		if c.X < 0 || c.Y < 0 || c.X+c.Width > m.ScaleW || c.Y+c.Height > m.ScaleH {
			t.Errorf("char %q outside sheet: %+v", c.ID, c)
		}
	}

	sp := byID[' ']
	if sp.Width != 0 || sp.XAdvance <= 0 {
		t.Errorf("space = %+v", sp)
	}

	a := byID['A']
	if a.Width == 0 || a.Height == 0 {
		t.Fatalf("A = %+v", a)
	}
	var covered bool
	for y := a.Y; y < a.Y+a.Height; y++ {
		for x := a.X; x < a.X+a.Width; x++ {
			if c := r.Sheet.RGBAAt(x, y); c.A > 0 {
				covered = true
				if c.R != 0xFF || c.G != 0xFF || c.B != 0xFF {
					t.Fatalf("glyph pixel %v, want white", c)
				}
			}
		}
	}
	if !covered {
		t.Error("A has no coverage on the sheet")
	}
}

func TestBakeRoundTrip(t *testing.T) {
	r, err := Bake(goregular.TTF, Options{Size: 20, Runes: []rune("AVa?")})
	if err != nil {
		t.Fatal(err)
	}
	m, err := text.ParseBMFont(bytes.NewReader(r.MetricsText()))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Chars) != 4 || m.ScaleW != r.Metrics.ScaleW || m.ScaleH != r.Metrics.ScaleH {
		t.Errorf("parsed %+v", m)
	}

	f := text.NewFont(m, 1)
	adv := f.GetCharInfo('a').XAdvance
	if got := f.MeasureString("aa", false); got != 2*adv {
		t.Errorf("MeasureString(aa) = %v, want %v", got, 2*adv)
	}
	if f.HasGlyph('z') {
		t.Error("unbaked rune present")
	}
}

func TestBakeKerning(t *testing.T) {
	runes := []rune("AVTo.")
	r, err := Bake(goregular.TTF, Options{Size: 32, Runes: runes, Kerning: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range r.Metrics.Kernings {
		if k.Amount == 0 || !strings.ContainsRune(string(runes), k.First) || !strings.ContainsRune(string(runes), k.Second) {
			t.Errorf("kerning %+v", k)
		}
	}
}

func TestBakeErrors(t *testing.T) {
	if _, err := Bake([]byte("not a font"), Options{}); err == nil {
		t.Error("Bake of invalid data succeeded")
	}
	_, err := Bake(goregular.TTF, Options{Size: 64, SheetWidth: 8, Runes: []rune("W")})
	if !errors.Is(err, ErrSheetTooSmall) {
		t.Errorf("err = %v, want ErrSheetTooSmall", err)
	}
}

func TestEncode(t *testing.T) {
	r, err := Bake(goregular.TTF, Options{Runes: []rune("x")})
	if err != nil {
		t.Fatal(err)
	}
	var metrics, sheet bytes.Buffer
	if err := r.Encode(&metrics, &sheet); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(metrics.Bytes(), []byte("info ")) {
		t.Errorf("metrics start %q", metrics.Bytes()[:min(10, metrics.Len())])
	}
	img, err := png.Decode(&sheet)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != r.Sheet.Bounds() {
		t.Errorf("decoded bounds %v", img.Bounds())
	}
}

func TestBakedFontDraws(t *testing.T) {
	r, err := Bake(goregular.TTF, Options{Size: 16, Runes: []rune("Hi")})
	if err != nil {
		t.Fatal(err)
	}
	be := recording.New(recording.WithTarget(64, 32))
	ctx, err := drawlist.New(be, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Close()

	f, err := ctx.CreateFont(r.MetricsText(), r.Sheet)
	if err != nil {
		t.Fatal(err)
	}
	cl := ctx.CreateCommandList()
	defer cl.Release()
	cl.DrawText(drawlist.R(0, 0, 64, 32), text.AlignLeft|text.AlignTop, "Hi", f, ctx.GetSolidBrush(drawlist.Black))
	if err := ctx.DrawCommandList(cl, drawlist.R(0, 0, 64, 32)); err != nil {
		t.Fatal(err)
	}

	if got := be.LastFrame().Stats().Quads; got != 2 {
		t.Errorf("quads = %d, want 2", got)
	}
	var inked int
	img := be.Image()
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			inked++
		}
	}
	if inked == 0 {
		t.Error("no pixels drawn for text")
	}
}
