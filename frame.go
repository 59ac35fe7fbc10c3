package drawlist

// MeshDrawData is one chunk of filled triangles sharing a smoothing mode.
//
// Vertices holds x, y pairs and Colors one packed color per vertex, so
// len(Vertices) == 2*len(Colors). Every index is < len(Colors).
type MeshDrawData struct {
	Vertices []float32
	Colors   []uint32
	Indices  []uint16
	Smooth   bool
}

// VertexCount returns the number of vertices.
func (m *MeshDrawData) VertexCount() int { return len(m.Colors) }

// LineDrawData is one chunk of line segments sharing width and smoothing.
//
// Each segment contributes two vertices, two dash coordinates and two
// colors. DashU is sampled against the context's dash texture; solid lines
// sample its first (opaque) texel.
type LineDrawData struct {
	Width    float32
	Smooth   bool
	Vertices []float32
	DashU    []float32
	Colors   []uint32
}

// SegmentCount returns the number of line segments.
func (l *LineDrawData) SegmentCount() int { return len(l.Colors) / 2 }

// DrawRange selects Count quads starting at quad Start, drawn with one texture.
type DrawRange struct {
	TextureID TextureID
	Start     int
	Count     int
}

// QuadBuffer collects textured quads. Each quad is four vertices in
// top-left, top-right, bottom-right, bottom-left order.
type QuadBuffer struct {
	Positions []float32 // x, y per vertex
	TexCoords []float32 // u, v per vertex
	Colors    []uint32  // packed color per vertex
}

// Len returns the number of quads.
func (b *QuadBuffer) Len() int { return len(b.Colors) / 4 }

// Reset empties the buffer and keeps its capacity.
func (b *QuadBuffer) Reset() {
	b.Positions = b.Positions[:0]
	b.TexCoords = b.TexCoords[:0]
	b.Colors = b.Colors[:0]
}

// appendQuad adds the quad (x0,y0)-(x1,y1) with UVs (u0,v0)-(u1,v1).
func (b *QuadBuffer) appendQuad(x0, y0, x1, y1, u0, v0, u1, v1 float32, c Color) {
	b.Positions = append(b.Positions, x0, y0, x1, y0, x1, y1, x0, y1)
	b.TexCoords = append(b.TexCoords, u0, v0, u1, v0, u1, v1, u0, v1)
	cc := uint32(c)
	b.Colors = append(b.Colors, cc, cc, cc, cc)
}

// appendQuadColors is appendQuad with one color per corner.
func (b *QuadBuffer) appendQuadColors(x0, y0, x1, y1, u0, v0, u1, v1 float32, tl, tr, br, bl Color) {
	b.Positions = append(b.Positions, x0, y0, x1, y0, x1, y1, x0, y1)
	b.TexCoords = append(b.TexCoords, u0, v0, u1, v0, u1, v1, u0, v1)
	b.Colors = append(b.Colors, uint32(tl), uint32(tr), uint32(br), uint32(bl))
}

// QuadIndices appends indices for quads [0, n) to dst: (0,1,2) and (0,2,3)
// per quad, offset by 4 vertices per quad.
func QuadIndices(dst []uint32, n int) []uint32 {
	for i := 0; i < n; i++ {
		v := uint32(i * 4)
		dst = append(dst, v, v+1, v+2, v, v+2, v+3)
	}
	return dst
}

// Frame is everything one DrawCommandList submits, in back-to-front order:
// meshes, then lines, then bitmaps, then text.
type Frame struct {
	Clip Rect

	Meshes []MeshDrawData
	Lines  []LineDrawData

	// DashTexture is the 1xN texture sampled by line DashU coordinates.
	DashTexture TextureID

	Bitmaps      *QuadBuffer
	BitmapRanges []DrawRange

	Text       *QuadBuffer
	TextRanges []DrawRange
}

// FrameStats summarizes a frame.
type FrameStats struct {
	DrawCalls int
	Vertices  int
	Indices   int
	Segments  int
	Quads     int
}

// Stats counts the draw calls and primitives in f.
func (f *Frame) Stats() FrameStats {
	var s FrameStats
	for i := range f.Meshes {
		s.DrawCalls++
		s.Vertices += f.Meshes[i].VertexCount()
		s.Indices += len(f.Meshes[i].Indices)
	}
	for i := range f.Lines {
		s.DrawCalls++
		s.Vertices += len(f.Lines[i].Colors)
		s.Segments += f.Lines[i].SegmentCount()
	}
	for _, r := range f.BitmapRanges {
		s.DrawCalls++
		s.Quads += r.Count
	}
	for _, r := range f.TextRanges {
		s.DrawCalls++
		s.Quads += r.Count
	}
	s.Vertices += 4 * s.Quads
	s.Indices += 6 * s.Quads
	return s
}
