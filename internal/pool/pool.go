// Package pool provides the buffer pool shared by command lists.
//
// The pool keeps one free list per array kind. Every array it hands out has a
// fixed capacity derived from the pool's vertex capacity N:
//
//	vertices   []float32  cap 2N  (x, y pairs)
//	colors     []uint32   cap N   (one packed color per vertex)
//	indices    []uint16   cap 3N/2
//	texcoords  []float32  cap 2N  (u, v pairs or one dash u per vertex)
//
// Ownership moves to whichever batch borrows an array and back to the pool
// when the batch is released. A borrowed array must be returned exactly once.
package pool

import (
	"github.com/gogpu/drawlist/internal/debug"
)

// DefaultCapacity is the default number of vertices per pooled chunk.
// Every vertex index in a chunk fits in a uint16.
const DefaultCapacity = 16384

// MaxCapacity is the largest vertex capacity addressable by uint16 indices.
const MaxCapacity = 1 << 16

// Kind identifies one array kind held by the pool.
type Kind int

// Array kinds.
const (
	KindVertex Kind = iota
	KindColor
	KindIndex
	KindTexCoord

	numKinds
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindColor:
		return "color"
	case KindIndex:
		return "index"
	case KindTexCoord:
		return "texcoord"
	default:
		return "unknown"
	}
}

// Pool is a free-list pool of fixed-capacity arrays.
//
// Pool is not safe for concurrent use. It belongs to a single graphics
// context and is only touched from the render thread.
type Pool struct {
	capacity int
	maxFree  int // max arrays retained per kind, 0 means unlimited

	vertices  [][]float32
	colors    [][]uint32
	indices   [][]uint16
	texcoords [][]float32

	// checkedOut maps the first element of every borrowed array to its kind.
	// A second Put of the same array misses the map and is reported.
	checkedOut map[any]Kind
	counts     [numKinds]int
	allocated  [numKinds]int
}

// New creates a pool whose chunks hold capacity vertices.
// maxFree limits how many arrays of each kind are retained on Put;
// 0 means unlimited.
func New(capacity, maxFree int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	debug.Assert(capacity <= MaxCapacity, "pool capacity exceeds uint16 index range")
	if capacity > MaxCapacity {
		capacity = MaxCapacity
	}
	if maxFree < 0 {
		maxFree = 0
	}
	return &Pool{
		capacity:   capacity,
		maxFree:    maxFree,
		checkedOut: make(map[any]Kind),
	}
}

// Capacity returns the number of vertices a chunk holds.
func (p *Pool) Capacity() int { return p.capacity }

// IndexCapacity returns the capacity of an index array.
func (p *Pool) IndexCapacity() int { return p.capacity * 3 / 2 }

// Vertices borrows a vertex array with length 0 and capacity 2N.
func (p *Pool) Vertices() []float32 {
	return get(p, &p.vertices, KindVertex, 2*p.capacity)
}

// PutVertices returns a vertex array.
func (p *Pool) PutVertices(s []float32) {
	put(p, &p.vertices, KindVertex, s, 2*p.capacity)
}

// Colors borrows a color array with length 0 and capacity N.
func (p *Pool) Colors() []uint32 {
	return get(p, &p.colors, KindColor, p.capacity)
}

// PutColors returns a color array.
func (p *Pool) PutColors(s []uint32) {
	put(p, &p.colors, KindColor, s, p.capacity)
}

// Indices borrows an index array with length 0 and capacity 3N/2.
func (p *Pool) Indices() []uint16 {
	return get(p, &p.indices, KindIndex, p.IndexCapacity())
}

// PutIndices returns an index array.
func (p *Pool) PutIndices(s []uint16) {
	put(p, &p.indices, KindIndex, s, p.IndexCapacity())
}

// TexCoords borrows a texture coordinate array with length 0 and capacity 2N.
func (p *Pool) TexCoords() []float32 {
	return get(p, &p.texcoords, KindTexCoord, 2*p.capacity)
}

// PutTexCoords returns a texture coordinate array.
func (p *Pool) PutTexCoords(s []float32) {
	put(p, &p.texcoords, KindTexCoord, s, 2*p.capacity)
}

// Outstanding returns the number of arrays currently borrowed.
func (p *Pool) Outstanding() int {
	return len(p.checkedOut)
}

// OutstandingKind returns the number of borrowed arrays of one kind.
func (p *Pool) OutstandingKind(k Kind) int {
	if k < 0 || k >= numKinds {
		return 0
	}
	return p.counts[k]
}

// Stats describes pool usage.
type Stats struct {
	Capacity    int
	Free        [numKinds]int
	Outstanding [numKinds]int
	Allocated   [numKinds]int
}

// Stats returns a snapshot of pool usage.
func (p *Pool) Stats() Stats {
	return Stats{
		Capacity:    p.capacity,
		Free:        [numKinds]int{len(p.vertices), len(p.colors), len(p.indices), len(p.texcoords)},
		Outstanding: p.counts,
		Allocated:   p.allocated,
	}
}

// Drain drops every free array. Borrowed arrays stay valid and may still be
// returned afterwards.
func (p *Pool) Drain() {
	p.vertices = nil
	p.colors = nil
	p.indices = nil
	p.texcoords = nil
}

func get[T any](p *Pool, free *[][]T, kind Kind, size int) []T {
	var s []T
	if n := len(*free); n > 0 {
		s = (*free)[n-1]
		(*free)[n-1] = nil
		*free = (*free)[:n-1]
	} else {
		s = make([]T, 0, size)
		p.allocated[kind]++
	}
	p.checkedOut[key(s)] = kind
	p.counts[kind]++
	return s[:0]
}

func put[T any](p *Pool, free *[][]T, kind Kind, s []T, size int) {
	if cap(s) != size {
		debug.Assert(false, "pool: array of kind "+kind.String()+" was not borrowed from this pool")
		return
	}
	k := key(s)
	owner, ok := p.checkedOut[k]
	if !ok || owner != kind {
		debug.Assert(false, "pool: "+kind.String()+" array released twice")
		return
	}
	delete(p.checkedOut, k)
	p.counts[kind]--

	if p.maxFree > 0 && len(*free) >= p.maxFree {
		return
	}
	*free = append(*free, s[:0])
}

// key identifies an array by the address of its first element.
func key[T any](s []T) any {
	return &s[:1][0]
}
