package drawlist

import "github.com/gogpu/drawlist/internal/debug"

// Transform is a scale followed by a translation:
//
//	x' = x*ScaleX + TranslateX
//	y' = y*ScaleY + TranslateY
//
// There is no rotation or shear; UI layout only ever offsets and scales.
type Transform struct {
	ScaleX, ScaleY         float32
	TranslateX, TranslateY float32
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Apply transforms a point.
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.ScaleX + t.TranslateX, Y: p.Y*t.ScaleY + t.TranslateY}
}

// ApplyXY transforms the point (x, y).
func (t Transform) ApplyXY(x, y float32) (float32, float32) {
	return x*t.ScaleX + t.TranslateX, y*t.ScaleY + t.TranslateY
}

// ApplyRect transforms a rectangle. Negative scales produce negative sizes.
func (t Transform) ApplyRect(r Rect) Rect {
	x, y := t.ApplyXY(r.X, r.Y)
	return Rect{X: x, Y: y, Width: r.Width * t.ScaleX, Height: r.Height * t.ScaleY}
}

// Translated returns t with an extra translation expressed in t's local space.
func (t Transform) Translated(x, y float32) Transform {
	t.TranslateX += x * t.ScaleX
	t.TranslateY += y * t.ScaleY
	return t
}

// Then returns t followed by a local translate-and-scale: the local origin
// moves to (tx, ty) and local units are multiplied by (sx, sy).
func (t Transform) Then(tx, ty, sx, sy float32) Transform {
	t = t.Translated(tx, ty)
	t.ScaleX *= sx
	t.ScaleY *= sy
	return t
}

// IsIdentity reports whether t leaves points unchanged.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// transformStack is the push/pop stack owned by a command list.
// Pop restores the saved value verbatim, so matched pairs never drift.
type transformStack struct {
	current Transform
	saved   []Transform
}

func newTransformStack() transformStack {
	return transformStack{current: Identity()}
}

func (s *transformStack) push(next Transform) {
	s.saved = append(s.saved, s.current)
	s.current = next
}

func (s *transformStack) pop() {
	n := len(s.saved)
	debug.Assert(n > 0, "PopTransform without matching push")
	if n == 0 {
		return
	}
	s.current = s.saved[n-1]
	s.saved = s.saved[:n-1]
}

func (s *transformStack) depth() int { return len(s.saved) }

func (s *transformStack) reset() {
	s.current = Identity()
	s.saved = s.saved[:0]
}
