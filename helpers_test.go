package drawlist

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// fakeBackend records texture traffic and the last submitted frame.
type fakeBackend struct {
	caps     Capabilities
	next     TextureID
	textures map[TextureID]fakeTexture
	uploads  int
	deleted  []TextureID
	frames   int
	last     FrameStats
	lastClip Rect
	failNext error
}

type fakeTexture struct {
	width, height int
	filter        Filter
	pixels        []byte
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{textures: make(map[TextureID]fakeTexture)}
}

func (b *fakeBackend) Capabilities() Capabilities { return b.caps }

func (b *fakeBackend) CreateEmptyTexture(width, height int, filter Filter) (TextureID, error) {
	return b.CreateTextureFromPixels(width, height, b.caps.PixelFormat, make([]byte, width*height*4), filter)
}

func (b *fakeBackend) CreateTextureFromPixels(width, height int, _ PixelFormat, pixels []byte, filter Filter) (TextureID, error) {
	if err := b.failNext; err != nil {
		b.failNext = nil
		return 0, err
	}
	if len(pixels) != width*height*4 {
		return 0, fmt.Errorf("fake: %d bytes for %dx%d", len(pixels), width, height)
	}
	b.next++
	b.textures[b.next] = fakeTexture{width: width, height: height, filter: filter, pixels: append([]byte(nil), pixels...)}
	return b.next, nil
}

func (b *fakeBackend) UploadSubImage(id TextureID, x, y, width, height int, _ PixelFormat, pixels []byte) error {
	tex, ok := b.textures[id]
	if !ok {
		return fmt.Errorf("fake: unknown texture %d", id)
	}
	for row := 0; row < height; row++ {
		dst := ((y+row)*tex.width + x) * 4
		copy(tex.pixels[dst:dst+width*4], pixels[row*width*4:])
	}
	b.uploads++
	return nil
}

func (b *fakeBackend) DeleteTexture(id TextureID) {
	delete(b.textures, id)
	b.deleted = append(b.deleted, id)
}

func (b *fakeBackend) SubmitDrawBatches(f *Frame) error {
	b.frames++
	b.last = f.Stats()
	b.lastClip = f.Clip
	return nil
}

// mapLoader serves images and text from memory.
type mapLoader struct {
	images map[string]image.Image
	texts  map[string][]byte
	asked  []string
}

func (l *mapLoader) LoadImage(name string) (image.Image, error) {
	l.asked = append(l.asked, name)
	if img, ok := l.images[name]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("image %q: %w", name, ErrResourceNotFound)
}

func (l *mapLoader) LoadText(name string) ([]byte, error) {
	if b, ok := l.texts[name]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("text %q: %w", name, ErrResourceNotFound)
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

var errFake = errors.New("fake: out of memory")
