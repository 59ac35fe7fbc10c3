package recording

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/drawlist"
)

func newRasterContext(t *testing.T, w, h int, opts ...Option) (*drawlist.Context, *Backend) {
	t.Helper()
	b := New(append([]Option{WithTarget(w, h)}, opts...)...)
	ctx, err := drawlist.New(b, NewMemLoader())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ctx.Close() })
	return ctx, b
}

func render(t *testing.T, ctx *drawlist.Context, clip drawlist.Rect, build func(cl *drawlist.CommandList)) {
	t.Helper()
	cl := ctx.CreateCommandList()
	defer cl.Release()
	build(cl)
	if err := ctx.DrawCommandList(cl, clip); err != nil {
		t.Fatal(err)
	}
}

func TestRasterFillRectangle(t *testing.T) {
	ctx, b := newRasterContext(t, 40, 40)
	render(t, ctx, drawlist.R(0, 0, 40, 40), func(cl *drawlist.CommandList) {
		cl.FillRectangle(drawlist.R(10, 10, 20, 20), ctx.GetSolidBrush(drawlist.Red), false)
	})

	img := b.Image()
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{15, 15, color.RGBA{R: 0xFF, A: 0xFF}},
		{10, 10, color.RGBA{R: 0xFF, A: 0xFF}},
		{29, 29, color.RGBA{R: 0xFF, A: 0xFF}},
		{5, 5, color.RGBA{}},
		{30, 30, color.RGBA{}},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRasterClip(t *testing.T) {
	ctx, b := newRasterContext(t, 40, 40)
	render(t, ctx, drawlist.R(0, 0, 15, 40), func(cl *drawlist.CommandList) {
		cl.FillRectangle(drawlist.R(10, 10, 20, 20), ctx.GetSolidBrush(drawlist.Red), false)
	})
	img := b.Image()
	if got := img.RGBAAt(12, 12); got.R != 0xFF {
		t.Errorf("inside clip = %v, want red", got)
	}
	if got := img.RGBAAt(20, 12); got.A != 0 {
		t.Errorf("outside clip = %v, want transparent", got)
	}
}

func TestRasterClearsEachFrame(t *testing.T) {
	ctx, b := newRasterContext(t, 20, 20, WithClearColor(drawlist.White))
	render(t, ctx, drawlist.R(0, 0, 20, 20), func(cl *drawlist.CommandList) {
		cl.FillRectangle(drawlist.R(0, 0, 20, 20), ctx.GetSolidBrush(drawlist.Blue), false)
	})
	render(t, ctx, drawlist.R(0, 0, 20, 20), func(cl *drawlist.CommandList) {})
	if got := b.Image().RGBAAt(10, 10); got != (color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("pixel = %v, want clear color", got)
	}
}

func TestRasterVerticalGradient(t *testing.T) {
	ctx, b := newRasterContext(t, 20, 20)
	render(t, ctx, drawlist.R(0, 0, 20, 20), func(cl *drawlist.CommandList) {
		cl.FillRectangle(drawlist.R(0, 0, 20, 20), ctx.GetVerticalGradientBrush(drawlist.Red, drawlist.Blue, 20), false)
	})
	img := b.Image()
	top, bottom := img.RGBAAt(18, 1), img.RGBAAt(1, 18)
	if top.R <= top.B {
		t.Errorf("top pixel %v, want mostly red", top)
	}
	if bottom.B <= bottom.R {
		t.Errorf("bottom pixel %v, want mostly blue", bottom)
	}
}

func TestRasterDashedLine(t *testing.T) {
	ctx, b := newRasterContext(t, 40, 20)
	render(t, ctx, drawlist.R(0, 0, 40, 20), func(cl *drawlist.CommandList) {
		cl.DrawLine(0, 5.5, 32, 5.5, drawlist.Red, 1, false, false)
		cl.DrawLine(0, 10.5, 32, 10.5, drawlist.Red, 1, false, true)
	})
	img := b.Image()

	// Default pattern: 4 pixels on, 4 off.
	for _, x := range []int{1, 5, 9, 13} {
		if got := img.RGBAAt(x, 5); got.A != 0xFF {
			t.Errorf("solid line pixel %d = %v", x, got)
		}
	}
	for _, tt := range []struct {
		x  int
		on bool
	}{{1, true}, {5, false}, {9, true}, {14, false}} {
		got := img.RGBAAt(tt.x, 10)
		if on := got.A == 0xFF; on != tt.on {
			t.Errorf("dashed pixel %d = %v, want on=%v", tt.x, got, tt.on)
		}
	}
}

func TestRasterBitmap(t *testing.T) {
	ctx, b := newRasterContext(t, 16, 16)
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{B: 0xFF, A: 0xFF})
	src.Set(1, 0, color.RGBA{B: 0xFF, A: 0xFF})
	src.Set(0, 1, color.RGBA{G: 0xFF, A: 0xFF})
	src.Set(1, 1, color.RGBA{G: 0xFF, A: 0xFF})
	bmp, err := ctx.CreateBitmapFromImage(src, false)
	if err != nil {
		t.Fatal(err)
	}

	render(t, ctx, drawlist.R(0, 0, 16, 16), func(cl *drawlist.CommandList) {
		cl.DrawBitmap(bmp, drawlist.R(0, 0, 8, 8), drawlist.White, 1)
		cl.DrawBitmap(bmp, drawlist.R(8, 8, 8, 8), drawlist.Red, 1)
	})
	img := b.Image()
	if got := img.RGBAAt(2, 1); got != (color.RGBA{B: 0xFF, A: 0xFF}) {
		t.Errorf("upper half = %v, want blue", got)
	}
	if got := img.RGBAAt(2, 6); got != (color.RGBA{G: 0xFF, A: 0xFF}) {
		t.Errorf("lower half = %v, want green", got)
	}
	// Red tint zeroes the blue and green channels.
	if got := img.RGBAAt(10, 10); got != (color.RGBA{A: 0xFF}) {
		t.Errorf("tinted = %v, want black", got)
	}
}

func TestRasterUnknownTexture(t *testing.T) {
	b := New(WithTarget(4, 4))
	quads := &drawlist.QuadBuffer{
		Positions: []float32{0, 0, 4, 0, 4, 4, 0, 4},
		TexCoords: []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Colors:    []uint32{0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF},
	}
	err := b.SubmitDrawBatches(&drawlist.Frame{
		Clip:         drawlist.R(0, 0, 4, 4),
		Bitmaps:      quads,
		BitmapRanges: []drawlist.DrawRange{{TextureID: 99, Count: 1}},
	})
	if !errors.Is(err, ErrUnknownTexture) {
		t.Errorf("err = %v, want ErrUnknownTexture", err)
	}
}
