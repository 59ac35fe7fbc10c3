package recording

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/gogpu/drawlist"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestMemLoader(t *testing.T) {
	l := NewMemLoader().
		AddImage("icon", image.NewRGBA(image.Rect(0, 0, 3, 2))).
		AddText("font.fnt", []byte("info"))

	img, err := l.LoadImage("icon")
	if err != nil || img.Bounds().Dx() != 3 {
		t.Errorf("LoadImage = %v, %v", img, err)
	}
	data, err := l.LoadText("font.fnt")
	if err != nil || string(data) != "info" {
		t.Errorf("LoadText = %q, %v", data, err)
	}

	if _, err := l.LoadImage("missing"); !errors.Is(err, drawlist.ErrResourceNotFound) {
		t.Errorf("LoadImage(missing) err = %v", err)
	}
	if _, err := l.LoadText("missing"); !errors.Is(err, drawlist.ErrResourceNotFound) {
		t.Errorf("LoadText(missing) err = %v", err)
	}
}

func TestFSLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"icons/play.png":    {Data: pngBytes(t, 4, 4, color.White)},
		"icons/play@2x.png": {Data: pngBytes(t, 8, 8, color.White)},
		"broken.png":        {Data: []byte("not a png")},
		"fonts/ui.fnt":      {Data: []byte("common lineHeight=10")},
	}
	l := FSLoader{FS: fsys}

	tests := []struct {
		name    string
		width   int
		wantErr error
	}{
		{"icons/play", 4, nil},
		{"icons/play.png", 4, nil},
		{"icons/play@2x", 8, nil},
		{"icons/stop", 0, fs.ErrNotExist},
		{"broken", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := l.LoadImage(tt.name)
			if tt.width == 0 {
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if img.Bounds().Dx() != tt.width {
				t.Errorf("width = %d, want %d", img.Bounds().Dx(), tt.width)
			}
		})
	}

	data, err := l.LoadText("fonts/ui.fnt")
	if err != nil || len(data) == 0 {
		t.Errorf("LoadText = %q, %v", data, err)
	}
	if _, err := l.LoadText("fonts/missing.fnt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadText(missing) err = %v", err)
	}
}

func TestFSLoaderDPIFallback(t *testing.T) {
	fsys := fstest.MapFS{"logo.png": {Data: pngBytes(t, 10, 10, color.White)}}
	ctx, err := drawlist.New(New(), FSLoader{FS: fsys}, drawlist.WithDPIScale(2))
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Close()

	bmp, err := ctx.CreateBitmap("logo", true)
	if err != nil {
		t.Fatal(err)
	}
	if bmp.Width != 20 || bmp.Height != 20 {
		t.Errorf("size = %dx%d, want 20x20", bmp.Width, bmp.Height)
	}
}
