package drawlist

import (
	"github.com/gogpu/drawlist/internal/cache"
)

// BrushKind selects one of the brush caches.
type BrushKind uint8

// Brush cache kinds.
const (
	BrushSolid BrushKind = iota
	BrushVertical
	BrushHorizontal
)

// BrushKey identifies a cached brush. Solid brushes use only Color0.
type BrushKey struct {
	Kind   BrushKind
	Color0 Color
	Color1 Color
	Size   float32
}

// BrushCache stores context-owned brushes, at most one per key.
type BrushCache interface {
	GetOrCreate(key BrushKey, create func() *Brush) *Brush
	Len() int
	Clear()
}

type gradientKey struct {
	c0, c1 Color
	size   float32
}

// brushCache keeps the solid, vertical and horizontal caches apart.
type brushCache struct {
	solid      *cache.Cache[Color, *Brush]
	vertical   *cache.Cache[gradientKey, *Brush]
	horizontal *cache.Cache[gradientKey, *Brush]
}

// NewBrushCache returns the default brush cache.
func NewBrushCache() BrushCache {
	return &brushCache{
		solid:      cache.New[Color, *Brush](),
		vertical:   cache.New[gradientKey, *Brush](),
		horizontal: cache.New[gradientKey, *Brush](),
	}
}

func (c *brushCache) GetOrCreate(key BrushKey, create func() *Brush) *Brush {
	switch key.Kind {
	case BrushVertical:
		return c.vertical.GetOrCreate(gradientKey{key.Color0, key.Color1, key.Size}, create)
	case BrushHorizontal:
		return c.horizontal.GetOrCreate(gradientKey{key.Color0, key.Color1, key.Size}, create)
	default:
		return c.solid.GetOrCreate(key.Color0, create)
	}
}

func (c *brushCache) Len() int {
	return c.solid.Len() + c.vertical.Len() + c.horizontal.Len()
}

func (c *brushCache) Clear() {
	c.solid.Clear()
	c.vertical.Clear()
	c.horizontal.Clear()
}
