// Package atlas packs named images into power-of-two atlas pages.
//
// Images are grouped by the next power of two of their largest dimension.
// Each group is laid out row-major in uniform cells sized to the group's
// largest element, elementsPerRow = maxResolution / cellWidth. A page's
// dimensions are the next powers of two of the occupied bounding box.
//
// Names are sorted before layout, so every page lists its elements in
// lexicographic order and lookups by name can binary search.
package atlas

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"golang.org/x/exp/constraints"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/drawlist/internal/debug"
)

// Packing errors.
var (
	// ErrTooLarge is returned when an element does not fit the maximum resolution.
	ErrTooLarge = errors.New("atlas: element exceeds maximum atlas resolution")

	// ErrDuplicateName is returned when two elements share a name.
	ErrDuplicateName = errors.New("atlas: duplicate element name")

	// ErrEmptyImage is returned for elements with no pixels.
	ErrEmptyImage = errors.New("atlas: element has no pixels")
)

// DefaultMaxResolution is the default maximum page dimension.
const DefaultMaxResolution = 2048

// Element is one named image to pack.
type Element struct {
	Name  string
	Image image.Image
}

// Rect is the placement of an element inside a page, in pixels.
type Rect struct {
	X, Y, Width, Height int
}

// Area returns the pixel area of the rectangle.
func (r Rect) Area() int { return r.Width * r.Height }

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Page is one packed atlas texture.
type Page struct {
	// Pixels holds the composed page; its bounds start at (0, 0).
	Pixels *image.RGBA

	// CellSize is the power-of-two group key the page was built for.
	CellSize int

	// Names and Rects are parallel and sorted by name.
	Names []string
	Rects []Rect
}

// Width returns the page width.
func (p *Page) Width() int { return p.Pixels.Rect.Dx() }

// Height returns the page height.
func (p *Page) Height() int { return p.Pixels.Rect.Dy() }

// group holds the elements sharing one power-of-two size class.
type group struct {
	key      int
	elements []Element
}

// Pack lays out elements into as few pages as the grouping allows.
// maxResolution <= 0 selects DefaultMaxResolution.
func Pack(elements []Element, maxResolution int) ([]*Page, error) {
	if maxResolution <= 0 {
		maxResolution = DefaultMaxResolution
	}

	sorted := make([]Element, len(elements))
	copy(sorted, elements)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	groups := make(map[int]*group)
	for i, e := range sorted {
		if i > 0 && sorted[i-1].Name == e.Name {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, e.Name)
		}
		b := e.Image.Bounds()
		if b.Empty() {
			return nil, fmt.Errorf("%w: %q", ErrEmptyImage, e.Name)
		}
		key := NextPow2(max(b.Dx(), b.Dy()))
		debug.Assert(key <= maxResolution, "atlas element larger than maximum resolution")
		if key > maxResolution {
			return nil, fmt.Errorf("%w: %q is %dx%d, limit %d", ErrTooLarge, e.Name, b.Dx(), b.Dy(), maxResolution)
		}
		g, ok := groups[key]
		if !ok {
			g = &group{key: key}
			groups[key] = g
		}
		g.elements = append(g.elements, e)
	}

	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var pages []*Page
	for _, k := range keys {
		pages = append(pages, layoutGroup(groups[k], maxResolution)...)
	}
	return pages, nil
}

// layoutGroup places a size group row-major into one or more pages.
func layoutGroup(g *group, maxResolution int) []*Page {
	cellW, cellH := 0, 0
	for _, e := range g.elements {
		b := e.Image.Bounds()
		cellW = max(cellW, b.Dx())
		cellH = max(cellH, b.Dy())
	}

	perRow := maxResolution / cellW
	rowsPerPage := maxResolution / cellH
	perPage := perRow * rowsPerPage

	var pages []*Page
	for start := 0; start < len(g.elements); start += perPage {
		end := min(start+perPage, len(g.elements))
		chunk := g.elements[start:end]

		cols := min(len(chunk), perRow)
		rows := (len(chunk) + perRow - 1) / perRow
		w := NextPow2(cols * cellW)
		h := NextPow2(rows * cellH)

		page := &Page{
			Pixels:   image.NewRGBA(image.Rect(0, 0, w, h)),
			CellSize: g.key,
			Names:    make([]string, len(chunk)),
			Rects:    make([]Rect, len(chunk)),
		}
		for i, e := range chunk {
			b := e.Image.Bounds()
			r := Rect{
				X:      (i % perRow) * cellW,
				Y:      (i / perRow) * cellH,
				Width:  b.Dx(),
				Height: b.Dy(),
			}
			xdraw.Copy(page.Pixels, image.Pt(r.X, r.Y), e.Image, b, xdraw.Src, nil)
			page.Names[i] = e.Name
			page.Rects[i] = r
		}
		pages = append(pages, page)
	}
	return pages
}

// NextPow2 returns the smallest power of two >= v. Values <= 1 return 1.
func NextPow2[T constraints.Integer](v T) T {
	n := T(1)
	for n < v {
		n <<= 1
	}
	return n
}
