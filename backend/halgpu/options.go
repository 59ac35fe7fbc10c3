//go:build !nogpu

package halgpu

import (
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/drawlist"
)

// TextureBinder creates the bind group for one texture. The layout has
// the texture view at binding 0 and the sampler at binding 1.
//
// Hosts supply it because binding a texture view is specific to the HAL
// implementation in use.
type TextureBinder func(layout hal.BindGroupLayout, view hal.TextureView, sampler hal.Sampler) (hal.BindGroup, error)

// Option configures a Backend.
type Option func(*options)

type options struct {
	format         gputypes.TextureFormat
	clear          drawlist.Color
	binder         TextureBinder
	maxTextureSize int
	waitTimeout    time.Duration
	spirv          bool
}

func defaultOptions() options {
	return options{
		format:         gputypes.TextureFormatBGRA8Unorm,
		maxTextureSize: 8192,
		waitTimeout:    5 * time.Second,
	}
}

// WithTargetFormat sets the color format of the render target.
// The default is BGRA8Unorm.
func WithTargetFormat(f gputypes.TextureFormat) Option {
	return func(o *options) { o.format = f }
}

// WithClearColor sets the color the target is cleared to before each frame.
func WithClearColor(c drawlist.Color) Option {
	return func(o *options) { o.clear = c }
}

// WithTextureBinder enables bitmap and text drawing. Without a binder
// textured ranges are skipped.
func WithTextureBinder(b TextureBinder) Option {
	return func(o *options) { o.binder = b }
}

// WithMaxTextureSize sets the reported texture size limit.
func WithMaxTextureSize(n int) Option {
	return func(o *options) { o.maxTextureSize = n }
}

// WithWaitTimeout bounds how long SubmitDrawBatches waits for the GPU.
func WithWaitTimeout(d time.Duration) Option {
	return func(o *options) { o.waitTimeout = d }
}

// WithSPIRV makes the backend translate its WGSL shader to SPIR-V with
// naga before creating the shader module, for HAL implementations that
// only accept SPIR-V.
func WithSPIRV() Option {
	return func(o *options) { o.spirv = true }
}
