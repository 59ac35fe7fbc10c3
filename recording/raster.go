package recording

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/chewxy/math32"
	"golang.org/x/image/vector"

	"github.com/gogpu/drawlist"
)

// infinite is the bounds of the procedural sources below.
var infinite = image.Rect(-1e9, -1e9, 1e9, 1e9)

// rasterizer renders frames on the CPU: every triangle, line and quad is
// filled as a polygon through x/image/vector with a source image that
// computes the interpolated color per pixel.
type rasterizer struct {
	vr *vector.Rasterizer
}

func (r *rasterizer) draw(dst *image.RGBA, f *drawlist.Frame, textures map[drawlist.TextureID]*Texture) error {
	clip := clipBounds(dst.Bounds(), f.Clip)
	if clip.Empty() {
		return nil
	}
	for i := range f.Meshes {
		r.mesh(dst, clip, &f.Meshes[i])
	}
	dash := textures[f.DashTexture]
	for i := range f.Lines {
		r.lines(dst, clip, &f.Lines[i], dash)
	}
	if err := r.quads(dst, clip, f.Bitmaps, f.BitmapRanges, textures); err != nil {
		return err
	}
	return r.quads(dst, clip, f.Text, f.TextRanges, textures)
}

func clipBounds(b image.Rectangle, c drawlist.Rect) image.Rectangle {
	return image.Rect(
		int(math32.Floor(c.X)), int(math32.Floor(c.Y)),
		int(math32.Ceil(c.Right())), int(math32.Ceil(c.Bottom())),
	).Intersect(b)
}

func (r *rasterizer) mesh(dst *image.RGBA, clip image.Rectangle, m *drawlist.MeshDrawData) {
	var pts [3]drawlist.Point
	var cols [3]uint32
	for i := 0; i+2 < len(m.Indices); i += 3 {
		for k := 0; k < 3; k++ {
			v := int(m.Indices[i+k])
			pts[k] = drawlist.Pt(m.Vertices[2*v], m.Vertices[2*v+1])
			cols[k] = m.Colors[v]
		}
		var src image.Image
		if cols[0] == cols[1] && cols[1] == cols[2] {
			src = image.NewUniform(nrgba(cols[0]))
		} else {
			src = &gouraud{p: pts, c: [3]color.NRGBA{nrgba(cols[0]), nrgba(cols[1]), nrgba(cols[2])}}
		}
		r.fillPolygon(dst, clip, pts[:], src)
	}
}

func (r *rasterizer) lines(dst *image.RGBA, clip image.Rectangle, l *drawlist.LineDrawData, dash *Texture) {
	hw := math32.Max(l.Width, 1) / 2
	for s := 0; s < l.SegmentCount(); s++ {
		p0 := drawlist.Pt(l.Vertices[4*s], l.Vertices[4*s+1])
		p1 := drawlist.Pt(l.Vertices[4*s+2], l.Vertices[4*s+3])
		d := p1.Sub(p0)
		length := d.Length()
		if length == 0 {
			continue
		}
		dir := d.Mul(1 / length)
		n := dir.Perp().Mul(hw)
		src := &lineShade{
			p0: p0, dir: dir, length: length,
			u0: l.DashU[2*s], u1: l.DashU[2*s+1],
			c0: nrgba(l.Colors[2*s]), c1: nrgba(l.Colors[2*s+1]),
			dash: dash,
		}
		r.fillPolygon(dst, clip, []drawlist.Point{p0.Add(n), p1.Add(n), p1.Sub(n), p0.Sub(n)}, src)
	}
}

func (r *rasterizer) quads(dst *image.RGBA, clip image.Rectangle, buf *drawlist.QuadBuffer, ranges []drawlist.DrawRange, textures map[drawlist.TextureID]*Texture) error {
	for _, rg := range ranges {
		tex, ok := textures[rg.TextureID]
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownTexture, rg.TextureID)
		}
		for q := rg.Start; q < rg.Start+rg.Count; q++ {
			p, uv, c := buf.Positions[8*q:8*q+8], buf.TexCoords[8*q:8*q+8], buf.Colors[4*q:4*q+4]
			src := &quadShade{
				x0: p[0], y0: p[1], x1: p[4], y1: p[5],
				u0: uv[0], v0: uv[1], u1: uv[4], v1: uv[5],
				c:   [4]color.NRGBA{nrgba(c[0]), nrgba(c[1]), nrgba(c[2]), nrgba(c[3])},
				tex: tex,
			}
			pts := []drawlist.Point{{X: p[0], Y: p[1]}, {X: p[2], Y: p[3]}, {X: p[4], Y: p[5]}, {X: p[6], Y: p[7]}}
			r.fillPolygon(dst, clip, pts, src)
		}
	}
	return nil
}

// fillPolygon composites src over dst inside the polygon pts, limited to clip.
func (r *rasterizer) fillPolygon(dst *image.RGBA, clip image.Rectangle, pts []drawlist.Point, src image.Image) {
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math32.Min(minX, p.X), math32.Max(maxX, p.X)
		minY, maxY = math32.Min(minY, p.Y), math32.Max(maxY, p.Y)
	}
	b := image.Rect(
		int(math32.Floor(minX)), int(math32.Floor(minY)),
		int(math32.Ceil(maxX)), int(math32.Ceil(maxY)),
	).Intersect(clip)
	if b.Empty() {
		return
	}

	if r.vr == nil {
		r.vr = vector.NewRasterizer(b.Dx(), b.Dy())
	} else {
		r.vr.Reset(b.Dx(), b.Dy())
	}
	r.vr.DrawOp = draw.Over

	ox, oy := float32(b.Min.X), float32(b.Min.Y)
	r.vr.MoveTo(pts[0].X-ox, pts[0].Y-oy)
	for _, p := range pts[1:] {
		r.vr.LineTo(p.X-ox, p.Y-oy)
	}
	r.vr.ClosePath()
	r.vr.Draw(dst, b, src, b.Min)
}

func fill(img *image.RGBA, c drawlist.Color) {
	draw.Draw(img, img.Bounds(), image.NewUniform(nrgba(uint32(c))), image.Point{}, draw.Src)
}

func nrgba(c uint32) color.NRGBA {
	return color.NRGBA{R: uint8(c), G: uint8(c >> 8), B: uint8(c >> 16), A: uint8(c >> 24)}
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}

func mix(a, b uint8, t float32) uint8 {
	return uint8(math32.Floor(float32(a) + (float32(b)-float32(a))*t + 0.5))
}

func mixColor(a, b color.NRGBA, t float32) color.NRGBA {
	return color.NRGBA{R: mix(a.R, b.R, t), G: mix(a.G, b.G, t), B: mix(a.B, b.B, t), A: mix(a.A, b.A, t)}
}

// gouraud interpolates three vertex colors across a triangle.
type gouraud struct {
	p [3]drawlist.Point
	c [3]color.NRGBA
}

func (g *gouraud) ColorModel() color.Model { return color.NRGBAModel }
func (g *gouraud) Bounds() image.Rectangle { return infinite }

func (g *gouraud) At(x, y int) color.Color {
	px, py := float32(x)+0.5, float32(y)+0.5
	p0, p1, p2 := g.p[0], g.p[1], g.p[2]
	d := (p1.Y-p2.Y)*(p0.X-p2.X) + (p2.X-p1.X)*(p0.Y-p2.Y)
	if d == 0 {
		return g.c[0]
	}
	w0 := clamp01(((p1.Y-p2.Y)*(px-p2.X) + (p2.X-p1.X)*(py-p2.Y)) / d)
	w1 := clamp01(((p2.Y-p0.Y)*(px-p2.X) + (p0.X-p2.X)*(py-p2.Y)) / d)
	w2 := clamp01(1 - w0 - w1)
	sum := w0 + w1 + w2
	w0, w1, w2 = w0/sum, w1/sum, w2/sum

	ch := func(a, b, c uint8) uint8 {
		return uint8(math32.Floor(w0*float32(a) + w1*float32(b) + w2*float32(c) + 0.5))
	}
	c0, c1, c2 := g.c[0], g.c[1], g.c[2]
	return color.NRGBA{
		R: ch(c0.R, c1.R, c2.R),
		G: ch(c0.G, c1.G, c2.G),
		B: ch(c0.B, c1.B, c2.B),
		A: ch(c0.A, c1.A, c2.A),
	}
}

// lineShade colors a line segment, masking alpha with the dash texture
// sampled at the interpolated dash coordinate.
type lineShade struct {
	p0, dir drawlist.Point
	length  float32
	u0, u1  float32
	c0, c1  color.NRGBA
	dash    *Texture
}

func (s *lineShade) ColorModel() color.Model { return color.NRGBAModel }
func (s *lineShade) Bounds() image.Rectangle { return infinite }

func (s *lineShade) At(x, y int) color.Color {
	p := drawlist.Pt(float32(x)+0.5, float32(y)+0.5)
	t := clamp01(p.Sub(s.p0).Dot(s.dir) / s.length)
	c := mixColor(s.c0, s.c1, t)
	if s.dash != nil && s.dash.Width > 0 {
		u := s.u0 + (s.u1-s.u0)*t
		u -= math32.Floor(u)
		_, _, _, a := s.dash.rgbaAt(int(u*float32(s.dash.Width)), 0)
		c.A = uint8(uint32(c.A) * uint32(a) / 255)
	}
	return c
}

// quadShade samples a texture across an axis-aligned quad and modulates it
// by the bilinearly interpolated corner colors (TL, TR, BR, BL).
type quadShade struct {
	x0, y0, x1, y1 float32
	u0, v0, u1, v1 float32
	c              [4]color.NRGBA
	tex            *Texture
}

func (s *quadShade) ColorModel() color.Model { return color.NRGBAModel }
func (s *quadShade) Bounds() image.Rectangle { return infinite }

func (s *quadShade) At(x, y int) color.Color {
	fx := frac(float32(x)+0.5, s.x0, s.x1)
	fy := frac(float32(y)+0.5, s.y0, s.y1)
	u := s.u0 + (s.u1-s.u0)*fx
	v := s.v0 + (s.v1-s.v0)*fy
	tr, tg, tb, ta := s.tex.rgbaAt(
		int(math32.Floor(u*float32(s.tex.Width))),
		int(math32.Floor(v*float32(s.tex.Height))),
	)
	c := mixColor(mixColor(s.c[0], s.c[1], fx), mixColor(s.c[3], s.c[2], fx), fy)
	mod := func(a, b uint8) uint8 { return uint8(uint32(a) * uint32(b) / 255) }
	return color.NRGBA{R: mod(tr, c.R), G: mod(tg, c.G), B: mod(tb, c.B), A: mod(ta, c.A)}
}

// frac returns where v lies between a and b, clamped to [0, 1].
func frac(v, a, b float32) float32 {
	if a == b {
		return 0
	}
	return clamp01((v - a) / (b - a))
}
