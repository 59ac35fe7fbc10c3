package drawlist

import (
	"github.com/gogpu/drawlist/internal/atlas"
	"github.com/gogpu/drawlist/internal/pool"
)

// Option configures a Context during creation.
//
// Example:
//
//	ctx, err := drawlist.New(backend, loader,
//	    drawlist.WithDPIScale(2),
//	    drawlist.WithMaxAtlasResolution(4096),
//	)
type Option func(*options)

type options struct {
	maxAtlasResolution int
	dpiScale           float32
	lineWidthBias      float32
	poolCapacity       int
	poolMaxFree        int
	brushCache         BrushCache
	dashOn, dashOff    int
}

func defaultOptions() options {
	return options{
		maxAtlasResolution: atlas.DefaultMaxResolution,
		dpiScale:           1,
		poolCapacity:       pool.DefaultCapacity,
		poolMaxFree:        16,
		dashOn:             4,
		dashOff:            4,
	}
}

// WithMaxAtlasResolution bounds the width and height of atlas pages.
// The backend's MaxTextureSize, when set, bounds it further.
func WithMaxAtlasResolution(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAtlasResolution = n
		}
	}
}

// WithDPIScale sets the display scale factor. Images are loaded from their
// "@2x" variant when the scale is at least 2 and resampled to the scale.
func WithDPIScale(s float32) Option {
	return func(o *options) {
		if s > 0 {
			o.dpiScale = s
		}
	}
}

// WithLineWidthBias adds b to every requested line width. Backends whose
// rasterizer thins lines compensate with a small positive bias.
func WithLineWidthBias(b float32) Option {
	return func(o *options) {
		o.lineWidthBias = b
	}
}

// WithPoolCapacity sets the number of vertices per pooled chunk and how many
// free chunks of each kind are retained between frames.
func WithPoolCapacity(vertices, maxFree int) Option {
	return func(o *options) {
		o.poolCapacity = vertices
		o.poolMaxFree = maxFree
	}
}

// WithBrushCache replaces the brush cache, typically with a test double.
func WithBrushCache(c BrushCache) Option {
	return func(o *options) {
		o.brushCache = c
	}
}

// WithDashPattern sets the dash pattern to on pixels drawn followed by
// off pixels skipped.
func WithDashPattern(on, off int) Option {
	return func(o *options) {
		if on > 0 && off >= 0 {
			o.dashOn, o.dashOff = on, off
		}
	}
}
