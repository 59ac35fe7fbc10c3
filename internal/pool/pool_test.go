package pool

import (
	"testing"

	"github.com/gogpu/drawlist/internal/debug"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		want     int
	}{
		{"default", 0, DefaultCapacity},
		{"negative", -5, DefaultCapacity},
		{"custom", 64, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.capacity, 0)
			if p.Capacity() != tt.want {
				t.Errorf("Capacity() = %d, want %d", p.Capacity(), tt.want)
			}
		})
	}
}

func TestArrayCapacities(t *testing.T) {
	p := New(100, 0)

	if v := p.Vertices(); len(v) != 0 || cap(v) != 200 {
		t.Errorf("Vertices len/cap = %d/%d, want 0/200", len(v), cap(v))
	}
	if c := p.Colors(); len(c) != 0 || cap(c) != 100 {
		t.Errorf("Colors len/cap = %d/%d, want 0/100", len(c), cap(c))
	}
	if i := p.Indices(); len(i) != 0 || cap(i) != 150 {
		t.Errorf("Indices len/cap = %d/%d, want 0/150", len(i), cap(i))
	}
	if tc := p.TexCoords(); len(tc) != 0 || cap(tc) != 200 {
		t.Errorf("TexCoords len/cap = %d/%d, want 0/200", len(tc), cap(tc))
	}
	if p.Outstanding() != 4 {
		t.Errorf("Outstanding() = %d, want 4", p.Outstanding())
	}
}

func TestReuse(t *testing.T) {
	p := New(16, 0)

	v := p.Vertices()
	v = append(v, 1, 2, 3, 4)
	first := &v[0]
	p.PutVertices(v)

	if p.Outstanding() != 0 {
		t.Fatalf("Outstanding() after put = %d, want 0", p.Outstanding())
	}

	again := p.Vertices()
	if len(again) != 0 {
		t.Errorf("reused array len = %d, want 0", len(again))
	}
	if &again[:1][0] != first {
		t.Error("pool allocated a new array instead of reusing the free one")
	}
	if s := p.Stats(); s.Allocated[KindVertex] != 1 {
		t.Errorf("Allocated[vertex] = %d, want 1", s.Allocated[KindVertex])
	}
}

func TestOutstandingPerKind(t *testing.T) {
	p := New(8, 0)
	a := p.Colors()
	b := p.Colors()
	idx := p.Indices()

	if got := p.OutstandingKind(KindColor); got != 2 {
		t.Errorf("OutstandingKind(color) = %d, want 2", got)
	}
	if got := p.OutstandingKind(KindIndex); got != 1 {
		t.Errorf("OutstandingKind(index) = %d, want 1", got)
	}

	p.PutColors(a)
	p.PutColors(b)
	p.PutIndices(idx)

	for k := KindVertex; k < numKinds; k++ {
		if got := p.OutstandingKind(k); got != 0 {
			t.Errorf("OutstandingKind(%v) = %d, want 0", k, got)
		}
	}
}

func TestMaxFree(t *testing.T) {
	p := New(8, 1)
	a := p.Indices()
	b := p.Indices()
	p.PutIndices(a)
	p.PutIndices(b)

	if s := p.Stats(); s.Free[KindIndex] != 1 {
		t.Errorf("Free[index] = %d, want 1", s.Free[KindIndex])
	}
}

func TestDoubleRelease(t *testing.T) {
	if debug.Enabled {
		t.Skip("double release panics with drawlistdebug")
	}
	p := New(8, 0)
	v := p.Vertices()
	p.PutVertices(v)
	p.PutVertices(v)

	if s := p.Stats(); s.Free[KindVertex] != 1 {
		t.Errorf("Free[vertex] = %d after double release, want 1", s.Free[KindVertex])
	}
	if p.Outstanding() != 0 {
		t.Errorf("Outstanding() = %d, want 0", p.Outstanding())
	}
}

func TestForeignArray(t *testing.T) {
	if debug.Enabled {
		t.Skip("foreign arrays panic with drawlistdebug")
	}
	p := New(8, 0)
	p.PutColors(make([]uint32, 0, 3))
	if s := p.Stats(); s.Free[KindColor] != 0 {
		t.Errorf("Free[color] = %d, foreign array must be ignored", s.Free[KindColor])
	}
}

func TestDrain(t *testing.T) {
	p := New(8, 0)
	v := p.Vertices()
	tc := p.TexCoords()
	p.PutVertices(v)
	p.Drain()

	if s := p.Stats(); s.Free[KindVertex] != 0 {
		t.Errorf("Free[vertex] after Drain = %d, want 0", s.Free[KindVertex])
	}
	// Arrays borrowed before Drain can still come back.
	p.PutTexCoords(tc)
	if p.Outstanding() != 0 {
		t.Errorf("Outstanding() = %d, want 0", p.Outstanding())
	}
}
