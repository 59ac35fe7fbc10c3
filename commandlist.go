package drawlist

import (
	"sort"

	"github.com/chewxy/math32"

	"github.com/gogpu/drawlist/internal/debug"
	"github.com/gogpu/drawlist/internal/pool"
	"github.com/gogpu/drawlist/text"
)

// lineKey is the render state shared by one line batch.
type lineKey struct {
	width  float32
	smooth bool
}

type lineBatch struct {
	key    lineKey
	chunks []LineDrawData
}

type textInstance struct {
	rect           Rect
	scaleX, scaleY float32
	flags          text.Flags
	text           string
	brush          *Brush
}

type bitmapInstance struct {
	rect           Rect
	u0, v0, u1, v1 float32
	color          Color
}

// lineStyle holds context-wide line settings.
type lineStyle struct {
	bias    float32 // added to every requested width
	dashLen float32 // dash pattern length in pixels
	solidU  float32 // dash coordinate of an opaque texel
}

// CommandList accumulates one frame of draw calls and groups them by
// render state:
//
//   - filled triangles in two mesh batches, sharp and smooth
//   - line segments in one batch per (width, smooth)
//   - text per font, laid out when the list is finalized
//   - bitmap quads per bitmap
//
// Draw order is kept within a batch but not across batches: every mesh is
// drawn before every line, lines of different widths are drawn in width
// order, and bitmaps and text come last.
//
// A CommandList is created by Context.CreateCommandList, filled, submitted
// with Context.DrawCommandList, and must then be released with Release
// exactly once before it is dropped or refilled. It is not safe for
// concurrent use.
type CommandList struct {
	pool  *pool.Pool
	caps  Capabilities
	style lineStyle
	stack transformStack

	meshes [2][]MeshDrawData // indexed by smooth

	lines     map[lineKey]*lineBatch
	lineOrder []*lineBatch

	texts     map[*text.Font][]textInstance
	fontOrder []*text.Font

	bitmaps     map[*Bitmap][]bitmapInstance
	bitmapOrder []*Bitmap

	quads []text.Quad // layout scratch
}

func newCommandList(p *pool.Pool, caps Capabilities, style lineStyle) *CommandList {
	return &CommandList{
		pool:    p,
		caps:    caps,
		style:   style,
		stack:   newTransformStack(),
		lines:   make(map[lineKey]*lineBatch),
		texts:   make(map[*text.Font][]textInstance),
		bitmaps: make(map[*Bitmap][]bitmapInstance),
	}
}

// Transform returns the current transform.
func (cl *CommandList) Transform() Transform { return cl.stack.current }

// PushTranslation saves the current transform and offsets the local origin
// by (x, y) local units.
func (cl *CommandList) PushTranslation(x, y float32) {
	cl.stack.push(cl.stack.current.Translated(x, y))
}

// PushTransform saves the current transform, moves the local origin to
// (tx, ty) and scales local units by (sx, sy).
func (cl *CommandList) PushTransform(tx, ty, sx, sy float32) {
	cl.stack.push(cl.stack.current.Then(tx, ty, sx, sy))
}

// PopTransform restores the transform saved by the matching push.
func (cl *CommandList) PopTransform() {
	cl.stack.pop()
}

// TransformDepth returns the number of unmatched pushes.
func (cl *CommandList) TransformDepth() int { return cl.stack.depth() }

// Empty reports whether nothing has been drawn since creation or Release.
func (cl *CommandList) Empty() bool {
	return len(cl.meshes[0]) == 0 && len(cl.meshes[1]) == 0 &&
		len(cl.lineOrder) == 0 && len(cl.fontOrder) == 0 && len(cl.bitmapOrder) == 0
}

// --- lines ---

// DrawLine draws a segment from (x0, y0) to (x1, y1).
func (cl *CommandList) DrawLine(x0, y0, x1, y1 float32, c Color, width float32, smooth, dash bool) {
	t := cl.stack.current
	ax, ay := t.ApplyXY(x0, y0)
	bx, by := t.ApplyXY(x1, y1)
	cl.segment(ax, ay, bx, by, c, width, smooth, dash)
}

// DrawRectangle outlines r.
func (cl *CommandList) DrawRectangle(r Rect, c Color, width float32, smooth, dash bool) {
	d := cl.stack.current.ApplyRect(r)
	w := width + cl.style.bias
	if cl.expands(w) {
		corners := []Point{{d.X, d.Y}, {d.Right(), d.Y}, {d.Right(), d.Bottom()}, {d.X, d.Bottom()}}
		cl.strip(miter(corners, true, w/2), true, c, smooth)
		return
	}
	x0, y0, x1, y1 := d.X, d.Y, d.Right(), d.Bottom()
	cl.segment(x0, y0, x1, y0, c, width, smooth, dash)
	cl.segment(x1, y0, x1, y1, c, width, smooth, dash)
	cl.segment(x1, y1, x0, y1, c, width, smooth, dash)
	cl.segment(x0, y1, x0, y0, c, width, smooth, dash)
}

// DrawGeometry outlines g, closing it if g is closed.
func (cl *CommandList) DrawGeometry(g *Geometry, c Color, width float32, smooth, dash bool) {
	n := g.Len()
	if n < 2 {
		return
	}
	t := cl.stack.current
	w := width + cl.style.bias
	if cl.expands(w) {
		scale := max(math32.Abs(t.ScaleX), math32.Abs(t.ScaleY))
		if scale == 0 {
			return
		}
		local := g.Miter(w / scale)
		pts := make([]Point, len(local))
		for i, p := range local {
			pts[i] = t.Apply(p)
		}
		cl.strip(pts, g.Closed(), c, smooth)
		return
	}

	pts := g.Points()
	prev := t.Apply(pts[0])
	for _, p := range pts[1:] {
		cur := t.Apply(p)
		cl.segment(prev.X, prev.Y, cur.X, cur.Y, c, width, smooth, dash)
		prev = cur
	}
	if g.Closed() {
		first := t.Apply(pts[0])
		cl.segment(prev.X, prev.Y, first.X, first.Y, c, width, smooth, dash)
	}
}

// expands reports whether a line of device width w is drawn as triangles.
func (cl *CommandList) expands(w float32) bool {
	return w > 1 && !cl.caps.WideLines
}

// segment appends one device-space line segment.
func (cl *CommandList) segment(x0, y0, x1, y1 float32, c Color, width float32, smooth, dash bool) {
	w := width + cl.style.bias
	if cl.expands(w) {
		cl.thickSegment(x0, y0, x1, y1, c, w, smooth)
		return
	}

	u0, u1 := cl.style.solidU, cl.style.solidU
	if dash && cl.style.dashLen > 0 {
		dx, dy := x1-x0, y1-y0
		if dx == 0 || math32.Abs(dy) > math32.Abs(dx) {
			u0, u1 = y0/cl.style.dashLen, y1/cl.style.dashLen
		} else {
			u0, u1 = x0/cl.style.dashLen, x1/cl.style.dashLen
		}
	}

	chunk := cl.lineChunk(lineKey{width: w, smooth: smooth})
	if chunk == nil {
		return
	}
	chunk.Vertices = append(chunk.Vertices, x0, y0, x1, y1)
	chunk.DashU = append(chunk.DashU, u0, u1)
	chunk.Colors = append(chunk.Colors, uint32(c), uint32(c))
}

// lineChunk returns the chunk with room for one more segment in the batch
// for key, creating the batch on first use. It returns nil when a pooled
// chunk cannot hold a single segment.
func (cl *CommandList) lineChunk(key lineKey) *LineDrawData {
	fits := cl.pool.Capacity() >= 2
	debug.Assert(fits, "pooled chunk capacity below one segment")
	if !fits {
		Logger().Warn("drawlist: segment dropped, pool capacity too small", "capacity", cl.pool.Capacity())
		return nil
	}
	b, ok := cl.lines[key]
	if !ok {
		b = &lineBatch{key: key}
		cl.lines[key] = b
		cl.lineOrder = append(cl.lineOrder, b)
	}
	if n := len(b.chunks); n > 0 {
		c := &b.chunks[n-1]
		if len(c.Colors)+2 <= cap(c.Colors) {
			return c
		}
	}
	b.chunks = append(b.chunks, LineDrawData{
		Width:    key.width,
		Smooth:   key.smooth,
		Vertices: cl.pool.Vertices(),
		DashU:    cl.pool.TexCoords(),
		Colors:   cl.pool.Colors(),
	})
	return &b.chunks[len(b.chunks)-1]
}

// thickSegment expands a segment into a quad of width w.
func (cl *CommandList) thickSegment(x0, y0, x1, y1 float32, c Color, w float32, smooth bool) {
	n := Point{x1 - x0, y1 - y0}.Normalize().Perp().Mul(w / 2)
	m := cl.meshChunk(smooth, 4, 6)
	if m == nil {
		return
	}
	i0 := m.addVertex(x0+n.X, y0+n.Y, c)
	i1 := m.addVertex(x1+n.X, y1+n.Y, c)
	i2 := m.addVertex(x1-n.X, y1-n.Y, c)
	i3 := m.addVertex(x0-n.X, y0-n.Y, c)
	m.Indices = append(m.Indices, i0, i1, i2, i0, i2, i3)
}

// strip triangulates a miter outline of alternating outer and inner points.
func (cl *CommandList) strip(pts []Point, closed bool, c Color, smooth bool) {
	n := len(pts) / 2
	if n < 2 {
		return
	}
	segs := n - 1
	if closed {
		segs = n
	}
	m := cl.meshChunk(smooth, 2*n, 6*segs)
	if m == nil {
		return
	}
	base := uint16(len(m.Colors))
	for _, p := range pts {
		m.addVertex(p.X, p.Y, c)
	}
	for i := 0; i < segs; i++ {
		j := (i + 1) % n
		oi, ii := base+uint16(2*i), base+uint16(2*i+1)
		oj, ij := base+uint16(2*j), base+uint16(2*j+1)
		m.Indices = append(m.Indices, oi, oj, ij, oi, ij, ii)
	}
}

// --- fills ---

// FillRectangle fills r with brush.
//
// Solid brushes emit one quad. A gradient whose extent covers the rectangle
// emits one quad with the far edge at the interpolated color. A shorter
// gradient emits two quads: the ramp, then a solid Color1 remainder.
func (cl *CommandList) FillRectangle(r Rect, brush *Brush, smooth bool) {
	d := cl.stack.current.ApplyRect(r)
	x0, y0, x1, y1 := d.X, d.Y, d.Right(), d.Bottom()

	if !brush.IsGradient() {
		c := brush.Color0
		cl.quad(smooth, x0, y0, x1, y1, c, c, c, c)
		return
	}

	c0, c1 := brush.Color0, brush.Color1
	size := brush.gradientSize()
	debug.Assert(size > 0, "gradient size must be positive")
	if size <= 0 {
		cl.quad(smooth, x0, y0, x1, y1, c0, c0, c0, c0)
		return
	}

	if brush.IsVertical() {
		if size >= r.Height {
			far := c0.Lerp(c1, r.Height/size)
			cl.quad(smooth, x0, y0, x1, y1, c0, c0, far, far)
			return
		}
		split := y0 + size*cl.stack.current.ScaleY
		m := cl.meshChunk(smooth, 8, 12)
		if m == nil {
			return
		}
		m.addQuad(x0, y0, x1, split, c0, c0, c1, c1)
		m.addQuad(x0, split, x1, y1, c1, c1, c1, c1)
		return
	}

	if size >= r.Width {
		far := c0.Lerp(c1, r.Width/size)
		cl.quad(smooth, x0, y0, x1, y1, c0, far, far, c0)
		return
	}
	split := x0 + size*cl.stack.current.ScaleX
	m := cl.meshChunk(smooth, 8, 12)
	if m == nil {
		return
	}
	m.addQuad(x0, y0, split, y1, c0, c1, c1, c0)
	m.addQuad(split, y0, x1, y1, c1, c1, c1, c1)
}

// FillGeometry fills a closed convex g as a triangle fan from its first point.
// Gradient colors are interpolated along each vertex's local coordinate,
// measured from local 0.
func (cl *CommandList) FillGeometry(g *Geometry, brush *Brush, smooth bool) {
	n := g.Len()
	if n < 3 {
		return
	}
	m := cl.meshChunk(smooth, n, 3*(n-2))
	if m == nil {
		return
	}
	t := cl.stack.current
	base := uint16(len(m.Colors))
	for _, p := range g.Points() {
		d := t.Apply(p)
		m.addVertex(d.X, d.Y, brush.ColorAt(p.X, p.Y))
	}
	for i := 1; i < n-1; i++ {
		m.Indices = append(m.Indices, base, base+uint16(i), base+uint16(i+1))
	}
}

// FillAndDrawRectangle fills r and outlines it with a solid line.
func (cl *CommandList) FillAndDrawRectangle(r Rect, fill *Brush, stroke Color, width float32, smooth bool) {
	cl.FillRectangle(r, fill, smooth)
	cl.DrawRectangle(r, stroke, width, smooth, false)
}

// FillAndDrawGeometry fills g and outlines it with a solid line.
func (cl *CommandList) FillAndDrawGeometry(g *Geometry, fill *Brush, stroke Color, width float32, smooth bool) {
	cl.FillGeometry(g, fill, smooth)
	cl.DrawGeometry(g, stroke, width, smooth, false)
}

// quad appends one device-space quad with corner colors in top-left,
// top-right, bottom-right, bottom-left order.
func (cl *CommandList) quad(smooth bool, x0, y0, x1, y1 float32, tl, tr, br, bl Color) {
	m := cl.meshChunk(smooth, 4, 6)
	if m == nil {
		return
	}
	m.addQuad(x0, y0, x1, y1, tl, tr, br, bl)
}

// meshChunk returns a chunk with room for nv vertices and ni indices,
// borrowing a new chunk from the pool when the current one is full.
// It returns nil for primitives larger than a whole chunk.
func (cl *CommandList) meshChunk(smooth bool, nv, ni int) *MeshDrawData {
	s := 0
	if smooth {
		s = 1
	}
	if n := len(cl.meshes[s]); n > 0 {
		c := &cl.meshes[s][n-1]
		if len(c.Colors)+nv <= cap(c.Colors) && len(c.Indices)+ni <= cap(c.Indices) {
			return c
		}
	}
	fits := nv <= cl.pool.Capacity() && ni <= cl.pool.IndexCapacity()
	debug.Assert(fits, "primitive exceeds pooled chunk capacity")
	if !fits {
		Logger().Warn("drawlist: primitive dropped, too many vertices", "vertices", nv, "indices", ni)
		return nil
	}
	cl.meshes[s] = append(cl.meshes[s], MeshDrawData{
		Vertices: cl.pool.Vertices(),
		Colors:   cl.pool.Colors(),
		Indices:  cl.pool.Indices(),
		Smooth:   smooth,
	})
	return &cl.meshes[s][len(cl.meshes[s])-1]
}

func (m *MeshDrawData) addVertex(x, y float32, c Color) uint16 {
	i := uint16(len(m.Colors))
	m.Vertices = append(m.Vertices, x, y)
	m.Colors = append(m.Colors, uint32(c))
	return i
}

func (m *MeshDrawData) addQuad(x0, y0, x1, y1 float32, tl, tr, br, bl Color) {
	i0 := m.addVertex(x0, y0, tl)
	i1 := m.addVertex(x1, y0, tr)
	i2 := m.addVertex(x1, y1, br)
	i3 := m.addVertex(x0, y1, bl)
	m.Indices = append(m.Indices, i0, i1, i2, i0, i2, i3)
}

// --- text and bitmaps ---

// DrawText queues s for layout inside r. Layout runs when the list is
// finalized, once per font.
func (cl *CommandList) DrawText(r Rect, flags text.Flags, s string, font *text.Font, brush *Brush) {
	debug.Assert(font != nil, "DrawText with nil font")
	if font == nil || s == "" {
		return
	}
	if _, ok := cl.texts[font]; !ok {
		cl.fontOrder = append(cl.fontOrder, font)
	}
	t := cl.stack.current
	cl.texts[font] = append(cl.texts[font], textInstance{
		rect:   t.ApplyRect(r),
		scaleX: t.ScaleX,
		scaleY: t.ScaleY,
		flags:  flags,
		text:   s,
		brush:  brush,
	})
}

// DrawBitmap draws the whole texture of b into r.
func (cl *CommandList) DrawBitmap(b *Bitmap, r Rect, tint Color, opacity float32) {
	debug.Assert(b != nil, "DrawBitmap with nil bitmap")
	if b == nil {
		return
	}
	cl.addBitmap(b, r, 0, 0, 1, 1, tint, opacity)
}

// DrawBitmapAtlas draws element index of atlas into r.
func (cl *CommandList) DrawBitmapAtlas(atlas *Bitmap, index int, r Rect, tint Color, opacity float32) {
	ok := atlas != nil && atlas.IsAtlas() && index >= 0 && index < atlas.Len()
	debug.Assert(ok, "DrawBitmapAtlas with invalid atlas element")
	if !ok {
		return
	}
	u0, v0, u1, v1 := atlas.UV(index)
	cl.addBitmap(atlas, r, u0, v0, u1, v1, tint, opacity)
}

func (cl *CommandList) addBitmap(b *Bitmap, r Rect, u0, v0, u1, v1 float32, tint Color, opacity float32) {
	if _, ok := cl.bitmaps[b]; !ok {
		cl.bitmapOrder = append(cl.bitmapOrder, b)
	}
	cl.bitmaps[b] = append(cl.bitmaps[b], bitmapInstance{
		rect:  cl.stack.current.ApplyRect(r),
		u0:    u0,
		v0:    v0,
		u1:    u1,
		v1:    v1,
		color: tint.WithAlpha(opacity),
	})
}

// --- finalization ---

// GetMeshDrawData returns the filled-triangle chunks, sharp before smooth.
// The slices alias pooled memory and are valid until Release.
func (cl *CommandList) GetMeshDrawData() []MeshDrawData {
	out := make([]MeshDrawData, 0, len(cl.meshes[0])+len(cl.meshes[1]))
	for _, chunks := range cl.meshes {
		for _, c := range chunks {
			if len(c.Indices) > 0 {
				out = append(out, c)
			}
		}
	}
	return out
}

// GetLineDrawData returns the line chunks sorted by width, sharp before
// smooth at equal width. The slices alias pooled memory and are valid
// until Release.
func (cl *CommandList) GetLineDrawData() []LineDrawData {
	batches := append([]*lineBatch(nil), cl.lineOrder...)
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i].key, batches[j].key
		if a.width != b.width {
			return a.width < b.width
		}
		return !a.smooth && b.smooth
	})

	var out []LineDrawData
	for _, b := range batches {
		for _, c := range b.chunks {
			if len(c.Colors) > 0 {
				out = append(out, c)
			}
		}
	}
	return out
}

// GetTextDrawData lays out all queued text into buf and returns one range
// per font, in the order fonts were first used.
func (cl *CommandList) GetTextDrawData(buf *QuadBuffer) []DrawRange {
	var ranges []DrawRange
	for _, f := range cl.fontOrder {
		start := buf.Len()
		for _, ti := range cl.texts[f] {
			cl.quads = f.AppendQuads(cl.quads[:0], ti.text, text.Rect(ti.rect), ti.flags)
			brush := ti.brush
			if brush == nil {
				brush = &defaultTextBrush
			}
			for _, q := range cl.quads {
				if !brush.IsGradient() {
					buf.appendQuad(q.X0, q.Y0, q.X1, q.Y1, q.U0, q.V0, q.U1, q.V1, brush.Color0)
					continue
				}
				// Gradients run in the local units of the text rect.
				lx0, ly0 := ti.local(q.X0, q.Y0)
				lx1, ly1 := ti.local(q.X1, q.Y1)
				buf.appendQuadColors(q.X0, q.Y0, q.X1, q.Y1, q.U0, q.V0, q.U1, q.V1,
					brush.ColorAt(lx0, ly0),
					brush.ColorAt(lx1, ly0),
					brush.ColorAt(lx1, ly1),
					brush.ColorAt(lx0, ly1))
			}
		}
		if n := buf.Len() - start; n > 0 {
			ranges = append(ranges, DrawRange{TextureID: TextureID(f.Texture), Start: start, Count: n})
		}
	}
	return ranges
}

var defaultTextBrush = SolidBrush(White)

// local converts a device position to a local offset from the text rect.
func (ti *textInstance) local(x, y float32) (float32, float32) {
	lx, ly := x-ti.rect.X, y-ti.rect.Y
	if ti.scaleX != 0 {
		lx /= ti.scaleX
	}
	if ti.scaleY != 0 {
		ly /= ti.scaleY
	}
	return lx, ly
}

// GetBitmapDrawData appends all bitmap quads to buf and returns one range
// per bitmap, in the order bitmaps were first used.
func (cl *CommandList) GetBitmapDrawData(buf *QuadBuffer) []DrawRange {
	var ranges []DrawRange
	for _, b := range cl.bitmapOrder {
		start := buf.Len()
		for _, bi := range cl.bitmaps[b] {
			r := bi.rect
			buf.appendQuad(r.X, r.Y, r.Right(), r.Bottom(), bi.u0, bi.v0, bi.u1, bi.v1, bi.color)
		}
		if n := buf.Len() - start; n > 0 {
			ranges = append(ranges, DrawRange{TextureID: b.ID, Start: start, Count: n})
		}
	}
	return ranges
}

// Release returns every pooled array to the pool and empties the list so it
// can be refilled. Calling Release on an empty list does nothing.
func (cl *CommandList) Release() {
	debug.Assert(cl.stack.depth() == 0, "command list released with unbalanced transform stack")

	for s := range cl.meshes {
		for _, c := range cl.meshes[s] {
			cl.pool.PutVertices(c.Vertices)
			cl.pool.PutColors(c.Colors)
			cl.pool.PutIndices(c.Indices)
		}
		clear(cl.meshes[s])
		cl.meshes[s] = cl.meshes[s][:0]
	}
	for _, b := range cl.lineOrder {
		for _, c := range b.chunks {
			cl.pool.PutVertices(c.Vertices)
			cl.pool.PutTexCoords(c.DashU)
			cl.pool.PutColors(c.Colors)
		}
	}
	clear(cl.lines)
	clear(cl.lineOrder)
	cl.lineOrder = cl.lineOrder[:0]

	clear(cl.texts)
	clear(cl.fontOrder)
	cl.fontOrder = cl.fontOrder[:0]
	clear(cl.bitmaps)
	clear(cl.bitmapOrder)
	cl.bitmapOrder = cl.bitmapOrder[:0]

	cl.stack.reset()
}
