package drawlist

import (
	"image"
)

// TextureID identifies a backend texture. Zero is never a valid texture.
type TextureID uint32

// PixelFormat is the byte order of uploaded pixel data.
type PixelFormat uint8

// Pixel formats.
const (
	PixelFormatRGBA8 PixelFormat = iota
	PixelFormatBGRA8
)

// String returns the format name.
func (f PixelFormat) String() string {
	if f == PixelFormatBGRA8 {
		return "BGRA8"
	}
	return "RGBA8"
}

// Filter selects texture sampling.
type Filter uint8

// Texture filters.
const (
	FilterNearest Filter = iota
	FilterLinear
)

// Capabilities describes what a backend can draw natively.
type Capabilities struct {
	// WideLines reports support for lines wider than one pixel.
	// Without it, wide strokes are expanded to triangles on the CPU.
	WideLines bool

	// PixelFormat is the byte order the backend expects for uploads.
	PixelFormat PixelFormat

	// MaxTextureSize bounds atlas pages. Zero means no backend limit.
	MaxTextureSize int
}

// Backend uploads textures and issues draw calls.
//
// A backend is used from a single goroutine, the one that owns the
// context. SubmitDrawBatches is called once per DrawCommandList and must not
// retain the frame's slices after returning.
type Backend interface {
	Capabilities() Capabilities

	CreateEmptyTexture(width, height int, filter Filter) (TextureID, error)
	CreateTextureFromPixels(width, height int, format PixelFormat, pixels []byte, filter Filter) (TextureID, error)
	UploadSubImage(id TextureID, x, y, width, height int, format PixelFormat, pixels []byte) error
	DeleteTexture(id TextureID)

	SubmitDrawBatches(frame *Frame) error
}

// Loader supplies raw resources by logical name.
//
// Missing resources should be reported with an error wrapping
// ErrResourceNotFound (or fs.ErrNotExist) so the context can fall back from
// DPI-suffixed names to plain ones.
type Loader interface {
	LoadImage(name string) (image.Image, error)
	LoadText(name string) ([]byte, error)
}

// pixelsFor converts an RGBA image to tightly packed rows in format.
func pixelsFor(img *image.RGBA, format PixelFormat) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		copy(out[y*w*4:], row)
	}
	if format == PixelFormatBGRA8 {
		for i := 0; i < len(out); i += 4 {
			out[i], out[i+2] = out[i+2], out[i]
		}
	}
	return out
}
