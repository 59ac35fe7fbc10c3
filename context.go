package drawlist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"

	"github.com/gogpu/drawlist/internal/atlas"
	"github.com/gogpu/drawlist/internal/pool"
	"github.com/gogpu/drawlist/text"
)

// Context owns the resources shared by every frame: the buffer pool, the
// brush caches, bitmaps, atlases, fonts and the dash texture. It hands out
// command lists and submits them to the backend.
//
// A Context is used from a single goroutine.
type Context struct {
	backend Backend
	loader  Loader
	caps    Capabilities
	opts    options

	pool    *pool.Pool
	brushes BrushCache
	style   lineStyle
	dash    TextureID

	bitmaps []*Bitmap
	atlases []*Bitmap
	fonts   []*text.Font

	frame       Frame
	textQuads   QuadBuffer
	bitmapQuads QuadBuffer

	closed bool
}

// New creates a context drawing through backend. loader may be nil when
// the caller only creates resources from in-memory data.
func New(backend Backend, loader Loader, opts ...Option) (*Context, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	caps := backend.Capabilities()
	if caps.MaxTextureSize > 0 && o.maxAtlasResolution > caps.MaxTextureSize {
		o.maxAtlasResolution = caps.MaxTextureSize
	}
	if o.brushCache == nil {
		o.brushCache = NewBrushCache()
	}

	propagateLogger(backend)

	c := &Context{
		backend: backend,
		loader:  loader,
		caps:    caps,
		opts:    o,
		pool:    pool.New(o.poolCapacity, o.poolMaxFree),
		brushes: o.brushCache,
	}
	if err := c.createDashTexture(); err != nil {
		return nil, err
	}

	Logger().Info("drawlist: context created",
		"format", caps.PixelFormat,
		"wideLines", caps.WideLines,
		"maxAtlas", o.maxAtlasResolution,
		"dpi", o.dpiScale)
	return c, nil
}

// Capabilities returns the backend capabilities the context was created with.
func (c *Context) Capabilities() Capabilities { return c.caps }

// DashTexture returns the texture sampled by dashed lines.
func (c *Context) DashTexture() TextureID { return c.dash }

// OutstandingBuffers returns the number of pooled arrays currently borrowed
// by command lists. It is zero when every list has been released.
func (c *Context) OutstandingBuffers() int { return c.pool.Outstanding() }

// createDashTexture uploads the 1xN dash pattern: on texels opaque white,
// off texels transparent.
func (c *Context) createDashTexture() error {
	n := c.opts.dashOn + c.opts.dashOff
	px := make([]byte, 4*n)
	for i := 0; i < c.opts.dashOn; i++ {
		copy(px[4*i:], []byte{0xFF, 0xFF, 0xFF, 0xFF})
	}
	id, err := c.backend.CreateEmptyTexture(n, 1, FilterNearest)
	if err != nil {
		return fmt.Errorf("drawlist: create dash texture: %w", err)
	}
	if err := c.backend.UploadSubImage(id, 0, 0, n, 1, c.caps.PixelFormat, px); err != nil {
		c.backend.DeleteTexture(id)
		return fmt.Errorf("drawlist: upload dash texture: %w", err)
	}
	c.dash = id
	c.style = lineStyle{
		bias:    c.opts.lineWidthBias,
		dashLen: float32(n),
		solidU:  0.5 / float32(n),
	}
	return nil
}

// CreateCommandList returns an empty command list bound to this context.
func (c *Context) CreateCommandList() *CommandList {
	return newCommandList(c.pool, c.caps, c.style)
}

// DrawCommandList finalizes cl and submits it to the backend clipped to
// clip. The list keeps its contents; call Release once done with it.
func (c *Context) DrawCommandList(cl *CommandList, clip Rect) error {
	if c.closed {
		return ErrClosed
	}
	if d := cl.TransformDepth(); d != 0 {
		return fmt.Errorf("%w: %d unmatched pushes", ErrUnbalancedTransform, d)
	}

	c.textQuads.Reset()
	c.bitmapQuads.Reset()
	c.frame = Frame{
		Clip:         clip,
		Meshes:       cl.GetMeshDrawData(),
		Lines:        cl.GetLineDrawData(),
		DashTexture:  c.dash,
		Bitmaps:      &c.bitmapQuads,
		BitmapRanges: cl.GetBitmapDrawData(&c.bitmapQuads),
		Text:         &c.textQuads,
		TextRanges:   cl.GetTextDrawData(&c.textQuads),
	}

	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		s := c.frame.Stats()
		l.Debug("drawlist: submit frame",
			"drawCalls", s.DrawCalls,
			"vertices", s.Vertices,
			"indices", s.Indices,
			"quads", s.Quads)
	}

	if err := c.backend.SubmitDrawBatches(&c.frame); err != nil {
		return fmt.Errorf("drawlist: submit: %w", err)
	}
	return nil
}

// --- brushes ---

// CreateSolidBrush returns a new brush owned by the caller.
func (c *Context) CreateSolidBrush(col Color) *Brush {
	b := SolidBrush(col)
	return &b
}

// CreateGradientBrush returns a new gradient brush owned by the caller.
// Exactly one of sizeX and sizeY should be non-zero.
func (c *Context) CreateGradientBrush(c0, c1 Color, sizeX, sizeY float32) *Brush {
	return &Brush{Color0: c0, Color1: c1, GradientSizeX: sizeX, GradientSizeY: sizeY}
}

// GetSolidBrush returns the context's shared brush for col.
func (c *Context) GetSolidBrush(col Color) *Brush {
	return c.brushes.GetOrCreate(BrushKey{Kind: BrushSolid, Color0: col}, func() *Brush {
		return c.CreateSolidBrush(col)
	})
}

// GetVerticalGradientBrush returns the shared brush fading from c0 to c1
// over size units downward.
func (c *Context) GetVerticalGradientBrush(c0, c1 Color, size float32) *Brush {
	key := BrushKey{Kind: BrushVertical, Color0: c0, Color1: c1, Size: size}
	return c.brushes.GetOrCreate(key, func() *Brush {
		return c.CreateGradientBrush(c0, c1, 0, size)
	})
}

// GetHorizontalGradientBrush returns the shared brush fading from c0 to c1
// over size units rightward.
func (c *Context) GetHorizontalGradientBrush(c0, c1 Color, size float32) *Brush {
	key := BrushKey{Kind: BrushHorizontal, Color0: c0, Color1: c1, Size: size}
	return c.brushes.GetOrCreate(key, func() *Brush {
		return c.CreateGradientBrush(c0, c1, size, 0)
	})
}

// GetGradientBrush returns the shared gradient brush for the non-zero axis,
// or the shared solid c0 brush when both sizes are zero.
func (c *Context) GetGradientBrush(c0, c1 Color, sizeX, sizeY float32) *Brush {
	switch {
	case sizeY != 0:
		return c.GetVerticalGradientBrush(c0, c1, sizeY)
	case sizeX != 0:
		return c.GetHorizontalGradientBrush(c0, c1, sizeX)
	default:
		return c.GetSolidBrush(c0)
	}
}

// --- bitmaps ---

// loadImage loads name at the context's DPI scale. At scale 2 or more the
// "@2x" variant is preferred. It returns the image and the factor it still
// has to be resampled by.
func (c *Context) loadImage(name string) (image.Image, float64, error) {
	if c.loader == nil {
		return nil, 0, ErrNoLoader
	}
	scale := float64(c.opts.dpiScale)
	if scale >= 2 {
		img, err := c.loader.LoadImage(name + "@2x")
		if err == nil {
			return img, scale / 2, nil
		}
		if !isNotFound(err) {
			return nil, 0, fmt.Errorf("drawlist: load %q: %w", name+"@2x", err)
		}
	}
	img, err := c.loader.LoadImage(name)
	if err != nil {
		return nil, 0, fmt.Errorf("drawlist: load %q: %w", name, err)
	}
	return img, scale, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound) || errors.Is(err, fs.ErrNotExist)
}

func filterFor(filtered bool) Filter {
	if filtered {
		return FilterLinear
	}
	return FilterNearest
}

// createTexture uploads img in the backend's pixel format.
func (c *Context) createTexture(img *image.RGBA, filtered bool) (TextureID, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	id, err := c.backend.CreateTextureFromPixels(w, h, c.caps.PixelFormat, pixelsFor(img, c.caps.PixelFormat), filterFor(filtered))
	if err != nil {
		return 0, fmt.Errorf("drawlist: create %dx%d texture: %w", w, h, err)
	}
	return id, nil
}

// CreateBitmap loads the named image into its own texture.
func (c *Context) CreateBitmap(name string, filtered bool) (*Bitmap, error) {
	if c.closed {
		return nil, ErrClosed
	}
	img, scale, err := c.loadImage(name)
	if err != nil {
		return nil, err
	}
	return c.CreateBitmapFromImage(atlas.Rescale(img, scale), filtered)
}

// CreateBitmapFromImage uploads img as is into its own texture.
func (c *Context) CreateBitmapFromImage(img image.Image, filtered bool) (*Bitmap, error) {
	if c.closed {
		return nil, ErrClosed
	}
	rgba := atlas.ToRGBA(img)
	id, err := c.createTexture(rgba, filtered)
	if err != nil {
		return nil, err
	}
	b := &Bitmap{
		ID:       id,
		Width:    rgba.Rect.Dx(),
		Height:   rgba.Rect.Dy(),
		Filtered: filtered,
		Kind:     BitmapSimple,
	}
	c.bitmaps = append(c.bitmaps, b)
	return b, nil
}

// CreateBitmapAtlasFromResourceNames loads the named images and packs them
// into atlas textures, one per power-of-two size class (more if a class
// overflows the maximum resolution).
func (c *Context) CreateBitmapAtlasFromResourceNames(names []string, filtered bool) ([]*Bitmap, error) {
	if c.closed {
		return nil, ErrClosed
	}
	elements := make([]atlas.Element, 0, len(names))
	for _, name := range names {
		img, scale, err := c.loadImage(name)
		if err != nil {
			return nil, err
		}
		elements = append(elements, atlas.Element{Name: name, Image: atlas.Rescale(img, scale)})
	}
	return c.createAtlases(elements, filtered)
}

// CreateBitmapAtlas packs in-memory images keyed by name.
func (c *Context) CreateBitmapAtlas(images map[string]image.Image, filtered bool) ([]*Bitmap, error) {
	if c.closed {
		return nil, ErrClosed
	}
	elements := make([]atlas.Element, 0, len(images))
	for name, img := range images {
		elements = append(elements, atlas.Element{Name: name, Image: img})
	}
	return c.createAtlases(elements, filtered)
}

func (c *Context) createAtlases(elements []atlas.Element, filtered bool) ([]*Bitmap, error) {
	pages, err := atlas.Pack(elements, c.opts.maxAtlasResolution)
	if err != nil {
		return nil, fmt.Errorf("drawlist: pack atlas: %w", err)
	}

	out := make([]*Bitmap, 0, len(pages))
	for _, p := range pages {
		id, err := c.createTexture(p.Pixels, filtered)
		if err != nil {
			for _, b := range out {
				c.backend.DeleteTexture(b.ID)
			}
			return nil, err
		}
		out = append(out, newAtlasBitmap(id, p.Width(), p.Height(), filtered, p.Names, p.Rects))
		Logger().Debug("drawlist: atlas page", "texture", id, "cell", p.CellSize,
			"width", p.Width(), "height", p.Height(), "elements", len(p.Names))
	}
	c.atlases = append(c.atlases, out...)
	Logger().Info("drawlist: atlas built", "elements", len(elements), "pages", len(out))
	return out, nil
}

// GetBitmapAtlasRef finds name in any atlas, searching atlases in creation order.
func (c *Context) GetBitmapAtlasRef(name string) (AtlasRef, bool) {
	for _, a := range c.atlases {
		if i := a.Lookup(name); i >= 0 {
			return AtlasRef{Atlas: a, Index: i}, true
		}
	}
	return AtlasRef{Index: -1}, false
}

// --- fonts ---

// CreateFontFromResource loads BMFont metrics and their glyph sheet through
// the loader. The sheet is used at its native resolution.
func (c *Context) CreateFontFromResource(metricsName, sheetName string) (*text.Font, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.loader == nil {
		return nil, ErrNoLoader
	}
	metrics, err := c.loader.LoadText(metricsName)
	if err != nil {
		return nil, fmt.Errorf("drawlist: load %q: %w", metricsName, err)
	}
	sheet, err := c.loader.LoadImage(sheetName)
	if err != nil {
		return nil, fmt.Errorf("drawlist: load %q: %w", sheetName, err)
	}
	return c.CreateFont(metrics, sheet)
}

// CreateFont builds a font from BMFont metrics text and its glyph sheet.
func (c *Context) CreateFont(metrics []byte, sheet image.Image) (*text.Font, error) {
	if c.closed {
		return nil, ErrClosed
	}
	m, err := text.ParseBMFont(bytes.NewReader(metrics))
	if err != nil {
		return nil, fmt.Errorf("drawlist: parse font metrics: %w", err)
	}
	rgba := atlas.ToRGBA(sheet)
	if w, h := rgba.Rect.Dx(), rgba.Rect.Dy(); w != m.ScaleW || h != m.ScaleH {
		Logger().Warn("drawlist: glyph sheet size differs from metrics",
			"face", m.Face, "sheet", fmt.Sprintf("%dx%d", w, h),
			"metrics", fmt.Sprintf("%dx%d", m.ScaleW, m.ScaleH))
	}
	id, err := c.createTexture(rgba, false)
	if err != nil {
		return nil, err
	}
	f := text.NewFont(m, uint32(id))
	c.fonts = append(c.fonts, f)
	Logger().Info("drawlist: font loaded", "face", m.Face, "size", m.Size, "glyphs", len(m.Chars))
	return f, nil
}

// MeasureString returns the advance width of s in font.
func (c *Context) MeasureString(s string, font *text.Font, mono bool) float32 {
	return font.MeasureString(s, mono)
}

// Close deletes every texture the context created and drops its caches.
// Command lists must be released before Close. Close is idempotent.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	for _, b := range c.bitmaps {
		c.backend.DeleteTexture(b.ID)
	}
	for _, a := range c.atlases {
		c.backend.DeleteTexture(a.ID)
	}
	for _, f := range c.fonts {
		c.backend.DeleteTexture(TextureID(f.Texture))
	}
	if c.dash != 0 {
		c.backend.DeleteTexture(c.dash)
	}
	c.bitmaps, c.atlases, c.fonts = nil, nil, nil
	c.brushes.Clear()

	if n := c.pool.Outstanding(); n > 0 {
		Logger().Warn("drawlist: context closed with unreleased command lists", "arrays", n)
	}
	c.pool.Drain()
	return nil
}
