package drawlist

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/drawlist/internal/cache"
)

// miterLimit caps the miter length at this many half-widths.
const miterLimit = 4

// Geometry is an immutable polyline, optionally closed, with a memoized
// thickened outline per line width.
//
// Filled geometries must be convex: fills are triangulated as a fan from the
// first point.
type Geometry struct {
	points []Point
	closed bool
	bounds Rect

	miters *cache.Cache[float32, []Point]
}

// NewGeometry copies points into a new geometry.
func NewGeometry(points []Point, closed bool) *Geometry {
	g := &Geometry{
		points: append([]Point(nil), points...),
		closed: closed,
		miters: cache.New[float32, []Point](),
	}
	if len(points) > 0 {
		minX, minY := points[0].X, points[0].Y
		maxX, maxY := minX, minY
		for _, p := range points[1:] {
			minX, maxX = math32.Min(minX, p.X), math32.Max(maxX, p.X)
			minY, maxY = math32.Min(minY, p.Y), math32.Max(maxY, p.Y)
		}
		g.bounds = Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	}
	return g
}

// RectangleGeometry returns the closed outline of a rectangle.
func RectangleGeometry(r Rect) *Geometry {
	return NewGeometry([]Point{
		{r.X, r.Y},
		{r.Right(), r.Y},
		{r.Right(), r.Bottom()},
		{r.X, r.Bottom()},
	}, true)
}

// Points returns the geometry's points. The slice must not be modified.
func (g *Geometry) Points() []Point { return g.points }

// Len returns the number of points.
func (g *Geometry) Len() int { return len(g.points) }

// Closed reports whether the last point connects back to the first.
func (g *Geometry) Closed() bool { return g.closed }

// Bounds returns the bounding box of the points.
func (g *Geometry) Bounds() Rect { return g.bounds }

// Miter returns the outline of the polyline thickened to width, as
// alternating outer and inner points: 2*Len() points in total.
// Results are cached per width for the lifetime of the geometry.
func (g *Geometry) Miter(width float32) []Point {
	return g.miters.GetOrCreate(width, func() []Point {
		return miter(g.points, g.closed, width/2)
	})
}

// MiterCacheLen returns the number of widths with a cached outline.
func (g *Geometry) MiterCacheLen() int { return g.miters.Len() }

// miter offsets every point along the averaged normal of its two segments.
func miter(points []Point, closed bool, hw float32) []Point {
	n := len(points)
	out := make([]Point, 0, 2*n)
	if n < 2 {
		for _, p := range points {
			out = append(out, p, p)
		}
		return out
	}

	normal := func(a, b Point) Point {
		return b.Sub(a).Normalize().Perp()
	}

	for i, p := range points {
		var prev, next Point
		hasPrev := i > 0 || closed
		hasNext := i < n-1 || closed
		if hasPrev {
			prev = points[(i-1+n)%n]
		}
		if hasNext {
			next = points[(i+1)%n]
		}

		var offset Point
		switch {
		case hasPrev && hasNext:
			n0 := normal(prev, p)
			n1 := normal(p, next)
			m := n0.Add(n1)
			if m.Length() < 1e-6 {
				offset = n0.Mul(hw)
				break
			}
			m = m.Normalize()
			l := hw / math32.Max(m.Dot(n0), 1e-6)
			offset = m.Mul(math32.Min(l, miterLimit*hw))
		case hasNext:
			offset = normal(p, next).Mul(hw)
		default:
			offset = normal(prev, p).Mul(hw)
		}
		out = append(out, p.Add(offset), p.Sub(offset))
	}
	return out
}
