package recording

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/gogpu/drawlist"
)

func TestCreateTextureFromPixels(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		w, h    int
		pixels  int
		wantErr error
	}{
		{"ok", nil, 4, 2, 32, nil},
		{"short data", nil, 4, 2, 31, ErrPixelSize},
		{"zero size", nil, 0, 2, 0, ErrPixelSize},
		{"too large", []Option{WithMaxTextureSize(8)}, 16, 1, 64, ErrTextureTooLarge},
		{"at limit", []Option{WithMaxTextureSize(8)}, 8, 8, 256, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.opts...)
			id, err := b.CreateTextureFromPixels(tt.w, tt.h, drawlist.PixelFormatRGBA8, make([]byte, tt.pixels), drawlist.FilterLinear)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if b.TextureCount() != 0 {
					t.Errorf("TextureCount = %d after failure", b.TextureCount())
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if id == 0 {
				t.Fatal("texture id 0")
			}
			tex, ok := b.Texture(id)
			if !ok || tex.Width != tt.w || tex.Height != tt.h || tex.Filter != drawlist.FilterLinear {
				t.Errorf("Texture(%d) = %+v, %v", id, tex, ok)
			}
		})
	}
}

func TestBGRAStoredAsRGBA(t *testing.T) {
	b := New(WithPixelFormat(drawlist.PixelFormatBGRA8))
	if b.Capabilities().PixelFormat != drawlist.PixelFormatBGRA8 {
		t.Fatal("pixel format option ignored")
	}
	// One blue pixel in BGRA order.
	id, err := b.CreateTextureFromPixels(1, 1, drawlist.PixelFormatBGRA8, []byte{0xFF, 0, 0, 0xFF}, drawlist.FilterNearest)
	if err != nil {
		t.Fatal(err)
	}
	tex, _ := b.Texture(id)
	if got := tex.Image().RGBAAt(0, 0); got.B != 0xFF || got.R != 0 {
		t.Errorf("pixel = %v, want blue", got)
	}
}

func TestUploadSubImage(t *testing.T) {
	b := New()
	id, err := b.CreateEmptyTexture(4, 4, drawlist.FilterNearest)
	if err != nil {
		t.Fatal(err)
	}

	px := bytes.Repeat([]byte{1, 2, 3, 4}, 4)
	if err := b.UploadSubImage(id, 2, 1, 2, 2, drawlist.PixelFormatRGBA8, px); err != nil {
		t.Fatal(err)
	}
	tex, _ := b.Texture(id)
	img := tex.Image()
	if got := img.RGBAAt(3, 2); got.R != 1 || got.A != 4 {
		t.Errorf("uploaded texel = %v", got)
	}
	if got := img.RGBAAt(1, 1); got.A != 0 {
		t.Errorf("texel outside upload = %v, want transparent", got)
	}
	if got := b.Uploads(); len(got) != 1 || got[0] != (Upload{Texture: id, X: 2, Y: 1, Width: 2, Height: 2}) {
		t.Errorf("Uploads = %+v", got)
	}

	errs := []struct {
		name string
		id   drawlist.TextureID
		x, y int
		px   []byte
		want error
	}{
		{"unknown", id + 7, 0, 0, px, ErrUnknownTexture},
		{"out of bounds", id, 3, 3, px, ErrOutOfBounds},
		{"negative", id, -1, 0, px, ErrOutOfBounds},
		{"short", id, 0, 0, px[:8], ErrPixelSize},
	}
	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			err := b.UploadSubImage(tt.id, tt.x, tt.y, 2, 2, drawlist.PixelFormatRGBA8, tt.px)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDeleteTexture(t *testing.T) {
	b := New()
	id, _ := b.CreateEmptyTexture(1, 1, drawlist.FilterNearest)
	b.DeleteTexture(id)
	b.DeleteTexture(id) // ignored
	if b.TextureCount() != 0 {
		t.Errorf("TextureCount = %d", b.TextureCount())
	}
	if got := b.Deleted(); len(got) != 1 || got[0] != id {
		t.Errorf("Deleted = %v", got)
	}
}

func TestSubmitClonesFrame(t *testing.T) {
	b := New()
	f := &drawlist.Frame{
		Clip: drawlist.R(0, 0, 10, 10),
		Meshes: []drawlist.MeshDrawData{{
			Vertices: []float32{0, 0, 1, 0, 1, 1},
			Colors:   []uint32{1, 2, 3},
			Indices:  []uint16{0, 1, 2},
		}},
	}
	if err := b.SubmitDrawBatches(f); err != nil {
		t.Fatal(err)
	}
	f.Meshes[0].Vertices[0] = 99
	f.Meshes[0].Colors[0] = 99

	got := b.LastFrame()
	if got.Meshes[0].Vertices[0] != 0 || got.Meshes[0].Colors[0] != 1 {
		t.Error("recorded frame aliases the submitted slices")
	}
	if got.Bitmaps == nil || got.Text == nil {
		t.Error("nil quad buffers not replaced")
	}
	if got.Clip != f.Clip {
		t.Errorf("Clip = %v", got.Clip)
	}
}

func TestFrameLimit(t *testing.T) {
	b := New(WithFrameLimit(2))
	if b.LastFrame() != nil {
		t.Fatal("LastFrame before submit")
	}
	for i := 1; i <= 3; i++ {
		if err := b.SubmitDrawBatches(&drawlist.Frame{Clip: drawlist.R(0, 0, float32(i), 1)}); err != nil {
			t.Fatal(err)
		}
	}
	frames := b.Frames()
	if len(frames) != 2 {
		t.Fatalf("len(Frames) = %d, want 2", len(frames))
	}
	if frames[0].Clip.Width != 2 || frames[1].Clip.Width != 3 {
		t.Errorf("kept frames %v, %v", frames[0].Clip, frames[1].Clip)
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := New().WritePNG(&buf); err == nil {
		t.Error("WritePNG without target succeeded")
	}

	b := New(WithTarget(8, 4), WithClearColor(drawlist.Green))
	if err := b.SubmitDrawBatches(&drawlist.Frame{Clip: drawlist.R(0, 0, 8, 4)}); err != nil {
		t.Fatal(err)
	}
	if err := b.WritePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if s := img.Bounds().Size(); s.X != 8 || s.Y != 4 {
		t.Errorf("size = %v", s)
	}
	if r, g, _, _ := img.At(3, 3).RGBA(); r != 0 || g != 0xFFFF {
		t.Errorf("pixel = %v, want green", img.At(3, 3))
	}
}
