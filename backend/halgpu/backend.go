//go:build !nogpu

package halgpu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/drawlist"
)

// Errors returned by the backend.
var (
	// ErrNoTarget is returned by SubmitDrawBatches before SetTarget or CreateTarget.
	ErrNoTarget = errors.New("halgpu: no render target")

	// ErrUnknownTexture is returned for operations on a texture id the backend never created.
	ErrUnknownTexture = errors.New("halgpu: unknown texture")

	// ErrPixelSize is returned when pixel data does not match the texture size.
	ErrPixelSize = errors.New("halgpu: pixel data size mismatch")

	// ErrOutOfBounds is returned for sub-image uploads outside the texture.
	ErrOutOfBounds = errors.New("halgpu: upload out of bounds")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("halgpu: backend is closed")
)

type texture struct {
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int
	filter drawlist.Filter
	bind   hal.BindGroup

	// shadow mirrors single-row textures so the dash pattern can be
	// turned into a uniform.
	shadow []byte
}

// Backend is a drawlist.Backend drawing on a gogpu/wgpu HAL device.
//
// Meshes and lines are drawn with the shared uniform bind group only.
// Bitmaps and text need a TextureBinder (see WithTextureBinder).
//
// A Backend is used from one goroutine, the one owning the drawlist context.
type Backend struct {
	device hal.Device
	queue  hal.Queue
	opts   options
	pipes  pipelines

	textures map[drawlist.TextureID]*texture
	next     drawlist.TextureID

	target      hal.TextureView
	ownTarget   hal.Texture
	width       uint32
	height      uint32
	frames      int
	lastSkipped int
	closed      bool
}

var _ drawlist.Backend = (*Backend)(nil)

// New creates a backend on device and queue. Pipelines are built on the
// first submitted frame.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Backend, error) {
	if device == nil || queue == nil {
		return nil, errors.New("halgpu: nil device or queue")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Backend{
		device:   device,
		queue:    queue,
		opts:     o,
		pipes:    pipelines{device: device},
		textures: make(map[drawlist.TextureID]*texture),
	}, nil
}

// NewFromProvider creates a backend on a device shared by the host
// application. The provider must expose HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue. The target format defaults to the
// provider's surface format.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Backend, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("halgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("halgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("halgpu: provider HalQueue is not hal.Queue")
	}
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithTargetFormat(f)}, opts...)
	}
	return New(device, queue, opts...)
}

// SetLogger sets the logger used by this package.
func (b *Backend) SetLogger(l *slog.Logger) { setLogger(l) }

// Capabilities reports RGBA8 uploads and one-pixel lines only.
func (b *Backend) Capabilities() drawlist.Capabilities {
	return drawlist.Capabilities{
		WideLines:      false,
		PixelFormat:    drawlist.PixelFormatRGBA8,
		MaxTextureSize: b.opts.maxTextureSize,
	}
}

// SetTarget makes view, of size width x height, the render target of
// subsequent frames. The view is owned by the caller.
func (b *Backend) SetTarget(view hal.TextureView, width, height uint32) {
	b.releaseOwnTarget()
	b.target, b.width, b.height = view, width, height
}

// CreateTarget allocates an offscreen render target owned by the backend.
func (b *Backend) CreateTarget(width, height uint32) error {
	if b.closed {
		return ErrClosed
	}
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "drawlist_target",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        b.opts.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("halgpu: create target: %w", err)
	}
	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "drawlist_target_view",
		Format:        b.opts.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return fmt.Errorf("halgpu: create target view: %w", err)
	}
	b.releaseOwnTarget()
	b.target, b.ownTarget, b.width, b.height = view, tex, width, height
	return nil
}

func (b *Backend) releaseOwnTarget() {
	if b.ownTarget == nil {
		return
	}
	b.device.DestroyTextureView(b.target)
	b.device.DestroyTexture(b.ownTarget)
	b.target, b.ownTarget = nil, nil
}

// TargetSize returns the size of the current render target.
func (b *Backend) TargetSize() (width, height uint32) { return b.width, b.height }

// FramesSubmitted returns the number of frames sent to the queue.
func (b *Backend) FramesSubmitted() int { return b.frames }

// SkippedRanges returns how many textured ranges the last frame could not
// draw for lack of a TextureBinder.
func (b *Backend) SkippedRanges() int { return b.lastSkipped }

// CreateEmptyTexture creates a texture. GPU textures start zeroed, so no
// upload is issued.
func (b *Backend) CreateEmptyTexture(width, height int, filter drawlist.Filter) (drawlist.TextureID, error) {
	t, err := b.createTexture(width, height, filter)
	if err != nil {
		return 0, err
	}
	if height == 1 {
		t.shadow = make([]byte, width*4)
	}
	return b.register(t), nil
}

// CreateTextureFromPixels creates a texture and uploads pixels.
func (b *Backend) CreateTextureFromPixels(width, height int, format drawlist.PixelFormat, pixels []byte, filter drawlist.Filter) (drawlist.TextureID, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return 0, fmt.Errorf("%w: %d bytes for %dx%d", ErrPixelSize, len(pixels), width, height)
	}
	t, err := b.createTexture(width, height, filter)
	if err != nil {
		return 0, err
	}
	data := rgba(pixels, format)
	b.write(t, 0, 0, width, height, data)
	if height == 1 {
		t.shadow = data
	}
	return b.register(t), nil
}

// UploadSubImage replaces a rectangle of an existing texture.
func (b *Backend) UploadSubImage(id drawlist.TextureID, x, y, width, height int, format drawlist.PixelFormat, pixels []byte) error {
	t, ok := b.textures[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, id)
	}
	if x < 0 || y < 0 || width <= 0 || height <= 0 || x+width > t.width || y+height > t.height {
		return fmt.Errorf("%w: %dx%d at (%d,%d) in %dx%d", ErrOutOfBounds, width, height, x, y, t.width, t.height)
	}
	if len(pixels) != width*height*4 {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrPixelSize, len(pixels), width, height)
	}
	data := rgba(pixels, format)
	b.write(t, x, y, width, height, data)
	if t.shadow != nil {
		copy(t.shadow[x*4:], data)
	}
	return nil
}

// DeleteTexture releases a texture. Unknown ids are logged and ignored.
func (b *Backend) DeleteTexture(id drawlist.TextureID) {
	t, ok := b.textures[id]
	if !ok {
		slogger().Warn("halgpu: delete of unknown texture", "id", id)
		return
	}
	b.destroyTexture(t)
	delete(b.textures, id)
}

func (b *Backend) createTexture(width, height int, filter drawlist.Filter) (*texture, error) {
	if b.closed {
		return nil, ErrClosed
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrPixelSize, width, height)
	}
	if m := b.opts.maxTextureSize; m > 0 && (width > m || height > m) {
		return nil, fmt.Errorf("halgpu: texture %dx%d exceeds limit %d", width, height, m)
	}
	label := fmt.Sprintf("drawlist_texture_%d", b.next+1)
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}, //nolint:gosec // checked positive above
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create texture %dx%d: %w", width, height, err)
	}
	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return nil, fmt.Errorf("halgpu: create texture view: %w", err)
	}
	return &texture{tex: tex, view: view, width: width, height: height, filter: filter}, nil
}

func (b *Backend) register(t *texture) drawlist.TextureID {
	b.next++
	b.textures[b.next] = t
	slogger().Debug("halgpu: texture created", "id", b.next, "width", t.width, "height", t.height)
	return b.next
}

// write uploads RGBA data to a region of t. Callers check the bounds.
//
//nolint:gosec // coordinates are validated non-negative by callers
func (b *Backend) write(t *texture, x, y, width, height int, data []byte) {
	b.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(x), Y: uint32(y), Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(width * 4),
			RowsPerImage: uint32(height),
		},
		&hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
	)
}

func (b *Backend) destroyTexture(t *texture) {
	if t.bind != nil {
		b.device.DestroyBindGroup(t.bind)
	}
	b.device.DestroyTextureView(t.view)
	b.device.DestroyTexture(t.tex)
}

// bindGroup returns the cached texture bind group for id, creating it with
// the configured binder. It returns nil when no binder is set.
func (b *Backend) bindGroup(id drawlist.TextureID) (hal.BindGroup, error) {
	t, ok := b.textures[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTexture, id)
	}
	if t.bind != nil || b.opts.binder == nil {
		return t.bind, nil
	}
	sampler := b.pipes.nearest
	if t.filter == drawlist.FilterLinear {
		sampler = b.pipes.linear
	}
	bg, err := b.opts.binder(b.pipes.textureLayout, t.view, sampler)
	if err != nil {
		return nil, fmt.Errorf("halgpu: bind texture %d: %w", id, err)
	}
	t.bind = bg
	return bg, nil
}

// Close releases every texture, pipeline and owned target. Further calls
// are no-ops.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	for id, t := range b.textures {
		b.destroyTexture(t)
		delete(b.textures, id)
	}
	b.pipes.destroy()
	b.releaseOwnTarget()
	b.target = nil
	return nil
}

// rgba returns pixels in RGBA order, converting from BGRA when needed.
func rgba(pixels []byte, format drawlist.PixelFormat) []byte {
	if format != drawlist.PixelFormatBGRA8 {
		return append([]byte(nil), pixels...)
	}
	out := make([]byte, len(pixels))
	for i := 0; i+3 < len(pixels); i += 4 {
		out[i], out[i+1], out[i+2], out[i+3] = pixels[i+2], pixels[i+1], pixels[i], pixels[i+3]
	}
	return out
}
