package recording

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"

	"github.com/gogpu/drawlist"
)

var (
	// ErrUnknownTexture is returned for uploads to a texture that does not exist.
	ErrUnknownTexture = errors.New("recording: unknown texture")

	// ErrPixelSize is returned when pixel data does not match the texture size.
	ErrPixelSize = errors.New("recording: pixel data size mismatch")

	// ErrOutOfBounds is returned for sub-image uploads outside the texture.
	ErrOutOfBounds = errors.New("recording: upload out of bounds")

	// ErrTextureTooLarge is returned for textures above the configured maximum size.
	ErrTextureTooLarge = errors.New("recording: texture exceeds maximum size")
)

// Texture is a texture held in memory. Pixels are always stored in RGBA
// order regardless of the backend's upload format.
type Texture struct {
	ID     drawlist.TextureID
	Width  int
	Height int
	Filter drawlist.Filter
	Pix    []byte
}

// Image returns a copy of t as an image.
func (t *Texture) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	copy(img.Pix, t.Pix)
	return img
}

// rgbaAt returns the texel at (x, y) clamped to the texture.
func (t *Texture) rgbaAt(x, y int) (r, g, b, a uint8) {
	x = min(max(x, 0), t.Width-1)
	y = min(max(y, 0), t.Height-1)
	i := (y*t.Width + x) * 4
	return t.Pix[i], t.Pix[i+1], t.Pix[i+2], t.Pix[i+3]
}

// Upload describes one UploadSubImage call.
type Upload struct {
	Texture             drawlist.TextureID
	X, Y, Width, Height int
}

// Option configures a Backend.
type Option func(*Backend)

// WithWideLines makes the backend report native wide line support, so
// command lists keep wide strokes as line batches.
func WithWideLines(enabled bool) Option {
	return func(b *Backend) { b.caps.WideLines = enabled }
}

// WithPixelFormat sets the upload byte order the backend asks for.
func WithPixelFormat(f drawlist.PixelFormat) Option {
	return func(b *Backend) { b.caps.PixelFormat = f }
}

// WithMaxTextureSize limits texture dimensions. Zero means unlimited.
func WithMaxTextureSize(n int) Option {
	return func(b *Backend) { b.caps.MaxTextureSize = n }
}

// WithTarget makes the backend rasterize every submitted frame into a
// width x height image. See Image and WritePNG.
func WithTarget(width, height int) Option {
	return func(b *Backend) {
		b.target = image.NewRGBA(image.Rect(0, 0, width, height))
	}
}

// WithTargetSize resizes the raster target of a backend that already has
// one, such as the registered "raster" backend. It never adds a target.
func WithTargetSize(width, height int) Option {
	return func(b *Backend) {
		if b.target != nil {
			b.target = image.NewRGBA(image.Rect(0, 0, width, height))
		}
	}
}

// WithClearColor sets the color the raster target is cleared to before
// each frame. The default is transparent.
func WithClearColor(c drawlist.Color) Option {
	return func(b *Backend) { b.clear = c }
}

// WithFrameLimit keeps only the last n frames. Zero keeps all of them.
func WithFrameLimit(n int) Option {
	return func(b *Backend) { b.frameLimit = max(n, 0) }
}

// Backend is a drawlist.Backend that keeps textures and frames in memory.
//
// A Backend is used from a single goroutine, like the context that owns it.
type Backend struct {
	caps       drawlist.Capabilities
	next       drawlist.TextureID
	textures   map[drawlist.TextureID]*Texture
	uploads    []Upload
	deleted    []drawlist.TextureID
	frames     []*drawlist.Frame
	frameLimit int

	target *image.RGBA
	clear  drawlist.Color
	raster rasterizer

	log *slog.Logger
}

var _ drawlist.Backend = (*Backend)(nil)

// New creates a memory backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		textures: make(map[drawlist.TextureID]*Texture),
		log:      drawlist.Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetLogger sets the logger used for backend diagnostics. A drawlist
// context calls it when the backend is attached.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l != nil {
		b.log = l
	}
}

// Capabilities returns the configured capabilities.
func (b *Backend) Capabilities() drawlist.Capabilities { return b.caps }

// CreateEmptyTexture creates a transparent texture.
func (b *Backend) CreateEmptyTexture(width, height int, filter drawlist.Filter) (drawlist.TextureID, error) {
	return b.CreateTextureFromPixels(width, height, b.caps.PixelFormat, make([]byte, width*height*4), filter)
}

// CreateTextureFromPixels creates a texture from tightly packed pixels.
func (b *Backend) CreateTextureFromPixels(width, height int, format drawlist.PixelFormat, pixels []byte, filter drawlist.Filter) (drawlist.TextureID, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return 0, fmt.Errorf("%w: %d bytes for %dx%d", ErrPixelSize, len(pixels), width, height)
	}
	if m := b.caps.MaxTextureSize; m > 0 && (width > m || height > m) {
		return 0, fmt.Errorf("%w: %dx%d, limit %d", ErrTextureTooLarge, width, height, m)
	}
	b.next++
	t := &Texture{
		ID:     b.next,
		Width:  width,
		Height: height,
		Filter: filter,
		Pix:    toRGBA(pixels, format),
	}
	b.textures[t.ID] = t
	b.log.Debug("recording: texture created", "id", t.ID, "width", width, "height", height)
	return t.ID, nil
}

// UploadSubImage replaces a rectangle of an existing texture.
func (b *Backend) UploadSubImage(id drawlist.TextureID, x, y, width, height int, format drawlist.PixelFormat, pixels []byte) error {
	t, ok := b.textures[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, id)
	}
	if x < 0 || y < 0 || x+width > t.Width || y+height > t.Height {
		return fmt.Errorf("%w: %dx%d at (%d,%d) in %dx%d", ErrOutOfBounds, width, height, x, y, t.Width, t.Height)
	}
	if len(pixels) != width*height*4 {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrPixelSize, len(pixels), width, height)
	}
	src := toRGBA(pixels, format)
	for row := 0; row < height; row++ {
		dst := ((y+row)*t.Width + x) * 4
		copy(t.Pix[dst:dst+width*4], src[row*width*4:])
	}
	b.uploads = append(b.uploads, Upload{Texture: id, X: x, Y: y, Width: width, Height: height})
	return nil
}

// DeleteTexture removes a texture. Unknown ids are logged and ignored.
func (b *Backend) DeleteTexture(id drawlist.TextureID) {
	if _, ok := b.textures[id]; !ok {
		b.log.Warn("recording: delete of unknown texture", "id", id)
		return
	}
	delete(b.textures, id)
	b.deleted = append(b.deleted, id)
}

// SubmitDrawBatches copies frame and, with a raster target, renders it.
func (b *Backend) SubmitDrawBatches(frame *drawlist.Frame) error {
	f := cloneFrame(frame)
	b.frames = append(b.frames, f)
	if b.frameLimit > 0 && len(b.frames) > b.frameLimit {
		n := len(b.frames) - b.frameLimit
		clear(b.frames[:n])
		b.frames = b.frames[n:]
	}

	if b.target != nil {
		fill(b.target, b.clear)
		if err := b.raster.draw(b.target, f, b.textures); err != nil {
			return err
		}
	}
	return nil
}

// Texture returns the texture with the given id.
func (b *Backend) Texture(id drawlist.TextureID) (*Texture, bool) {
	t, ok := b.textures[id]
	return t, ok
}

// TextureCount returns the number of live textures.
func (b *Backend) TextureCount() int { return len(b.textures) }

// Uploads returns every UploadSubImage call in order.
func (b *Backend) Uploads() []Upload { return b.uploads }

// Deleted returns the ids of deleted textures in deletion order.
func (b *Backend) Deleted() []drawlist.TextureID { return b.deleted }

// Frames returns the recorded frames, oldest first.
func (b *Backend) Frames() []*drawlist.Frame { return b.frames }

// LastFrame returns the most recent frame, or nil before the first submit.
func (b *Backend) LastFrame() *drawlist.Frame {
	if len(b.frames) == 0 {
		return nil
	}
	return b.frames[len(b.frames)-1]
}

// Image returns the raster target, or nil without WithTarget.
func (b *Backend) Image() *image.RGBA { return b.target }

// WritePNG encodes the raster target as PNG.
func (b *Backend) WritePNG(w io.Writer) error {
	if b.target == nil {
		return errors.New("recording: no raster target")
	}
	return png.Encode(w, b.target)
}

// toRGBA returns a copy of pixels in RGBA order.
func toRGBA(pixels []byte, format drawlist.PixelFormat) []byte {
	out := append([]byte(nil), pixels...)
	if format == drawlist.PixelFormatBGRA8 {
		for i := 0; i+3 < len(out); i += 4 {
			out[i], out[i+2] = out[i+2], out[i]
		}
	}
	return out
}

// cloneFrame deep-copies f. Frame slices alias pooled command list memory
// that is reused after Release.
func cloneFrame(f *drawlist.Frame) *drawlist.Frame {
	out := &drawlist.Frame{
		Clip:         f.Clip,
		DashTexture:  f.DashTexture,
		BitmapRanges: append([]drawlist.DrawRange(nil), f.BitmapRanges...),
		TextRanges:   append([]drawlist.DrawRange(nil), f.TextRanges...),
		Bitmaps:      cloneQuads(f.Bitmaps),
		Text:         cloneQuads(f.Text),
	}
	if len(f.Meshes) > 0 {
		out.Meshes = make([]drawlist.MeshDrawData, len(f.Meshes))
	}
	for i, m := range f.Meshes {
		out.Meshes[i] = drawlist.MeshDrawData{
			Vertices: append([]float32(nil), m.Vertices...),
			Colors:   append([]uint32(nil), m.Colors...),
			Indices:  append([]uint16(nil), m.Indices...),
			Smooth:   m.Smooth,
		}
	}
	if len(f.Lines) > 0 {
		out.Lines = make([]drawlist.LineDrawData, len(f.Lines))
	}
	for i, l := range f.Lines {
		out.Lines[i] = drawlist.LineDrawData{
			Width:    l.Width,
			Smooth:   l.Smooth,
			Vertices: append([]float32(nil), l.Vertices...),
			DashU:    append([]float32(nil), l.DashU...),
			Colors:   append([]uint32(nil), l.Colors...),
		}
	}
	return out
}

func cloneQuads(q *drawlist.QuadBuffer) *drawlist.QuadBuffer {
	if q == nil {
		return &drawlist.QuadBuffer{}
	}
	return &drawlist.QuadBuffer{
		Positions: append([]float32(nil), q.Positions...),
		TexCoords: append([]float32(nil), q.TexCoords...),
		Colors:    append([]uint32(nil), q.Colors...),
	}
}
