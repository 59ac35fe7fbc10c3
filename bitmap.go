package drawlist

import (
	"sort"

	"github.com/gogpu/drawlist/internal/atlas"
)

// BitmapKind discriminates plain bitmaps from atlases.
type BitmapKind uint8

// Bitmap kinds.
const (
	BitmapSimple BitmapKind = iota
	BitmapAtlas
)

// String returns the kind name.
func (k BitmapKind) String() string {
	if k == BitmapAtlas {
		return "atlas"
	}
	return "simple"
}

// AtlasRect is an element's placement inside an atlas, in texels.
type AtlasRect = atlas.Rect

// Bitmap is a GPU texture. Atlas bitmaps additionally carry their element
// names, sorted, with parallel sub-rectangles.
type Bitmap struct {
	ID       TextureID
	Width    int
	Height   int
	Filtered bool
	Kind     BitmapKind

	names []string
	rects []AtlasRect
}

// newAtlasBitmap builds an atlas bitmap. Names and rects are sorted together
// so Lookup can binary search regardless of the order they arrive in.
func newAtlasBitmap(id TextureID, w, h int, filtered bool, names []string, rects []AtlasRect) *Bitmap {
	b := &Bitmap{
		ID:       id,
		Width:    w,
		Height:   h,
		Filtered: filtered,
		Kind:     BitmapAtlas,
		names:    append([]string(nil), names...),
		rects:    append([]AtlasRect(nil), rects...),
	}
	sort.Sort(byName{b})
	return b
}

type byName struct{ b *Bitmap }

func (s byName) Len() int           { return len(s.b.names) }
func (s byName) Less(i, j int) bool { return s.b.names[i] < s.b.names[j] }
func (s byName) Swap(i, j int) {
	s.b.names[i], s.b.names[j] = s.b.names[j], s.b.names[i]
	s.b.rects[i], s.b.rects[j] = s.b.rects[j], s.b.rects[i]
}

// IsAtlas reports whether b is an atlas.
func (b *Bitmap) IsAtlas() bool { return b.Kind == BitmapAtlas }

// Len returns the number of atlas elements, 0 for simple bitmaps.
func (b *Bitmap) Len() int { return len(b.names) }

// Lookup returns the index of the named element, or -1.
func (b *Bitmap) Lookup(name string) int {
	i := sort.SearchStrings(b.names, name)
	if i < len(b.names) && b.names[i] == name {
		return i
	}
	return -1
}

// Name returns the name of element i.
func (b *Bitmap) Name(i int) string { return b.names[i] }

// Rect returns the texel rectangle of element i. For a simple bitmap,
// index 0 is the whole texture.
func (b *Bitmap) Rect(i int) AtlasRect {
	if !b.IsAtlas() {
		return AtlasRect{Width: b.Width, Height: b.Height}
	}
	return b.rects[i]
}

// UV returns normalized texture coordinates of element i. Filtered atlas
// elements are inset by half a texel so bilinear sampling does not bleed in
// from neighboring cells.
func (b *Bitmap) UV(i int) (u0, v0, u1, v1 float32) {
	if !b.IsAtlas() {
		return 0, 0, 1, 1
	}
	r := b.rects[i]
	x0, y0 := float32(r.X), float32(r.Y)
	x1, y1 := float32(r.X+r.Width), float32(r.Y+r.Height)
	if b.Filtered {
		x0, y0 = x0+0.5, y0+0.5
		x1, y1 = x1-0.5, y1-0.5
	}
	w, h := float32(b.Width), float32(b.Height)
	return x0 / w, y0 / h, x1 / w, y1 / h
}

// AtlasRef names one element of one atlas.
type AtlasRef struct {
	Atlas *Bitmap
	Index int
}

// Valid reports whether r refers to an element.
func (r AtlasRef) Valid() bool {
	return r.Atlas != nil && r.Index >= 0 && r.Index < r.Atlas.Len()
}

// Size returns the element size in texels.
func (r AtlasRef) Size() (int, int) {
	rc := r.Atlas.Rect(r.Index)
	return rc.Width, rc.Height
}
