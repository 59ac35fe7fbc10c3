//go:build !nogpu

package halgpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/drawlist"
)

func f32At(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
}

func TestPackUniforms(t *testing.T) {
	b := packUniforms(800, 600, drawlist.R(10, 20, 100, 50), 0.5)
	if len(b) != uniformSize {
		t.Fatalf("len = %d, want %d", len(b), uniformSize)
	}
	want := []float32{800, 600, 0.5, 0, 10, 20, 110, 70}
	for i, w := range want {
		if got := f32At(b, i); got != w {
			t.Errorf("word %d = %v, want %v", i, got, w)
		}
	}
}

func TestPackMeshVertices(t *testing.T) {
	m := &drawlist.MeshDrawData{
		Vertices: []float32{1, 2, 3, 4},
		Colors:   []uint32{uint32(drawlist.Red), uint32(drawlist.RGBA(0, 0, 255, 0))},
		Indices:  []uint16{0, 1, 0},
	}
	b := packMeshVertices(nil, m)
	if len(b) != 2*meshVertexStride {
		t.Fatalf("len = %d", len(b))
	}
	want := []float32{1, 2, 1, 0, 0, 1, 3, 4, 0, 0, 1, 0}
	for i, w := range want {
		if got := f32At(b, i); got != w {
			t.Errorf("word %d = %v, want %v", i, got, w)
		}
	}
}

func TestPackLineAndQuadStrides(t *testing.T) {
	l := &drawlist.LineDrawData{
		Vertices: []float32{0, 0, 10, 0},
		DashU:    []float32{0, 1.25},
		Colors:   []uint32{1, 1},
	}
	b := packLineVertices(nil, l)
	if len(b) != 2*lineVertexStride {
		t.Fatalf("line len = %d", len(b))
	}
	if got := f32At(b, lineVertexStride/4+6); got != 1.25 {
		t.Errorf("second dash u = %v", got)
	}

	var q drawlist.QuadBuffer
	q.Positions = make([]float32, 8)
	q.TexCoords = []float32{0, 0, 1, 0, 1, 1, 0, 1}
	q.Colors = make([]uint32, 4)
	if b := packQuadVertices(nil, &q); len(b) != 4*quadVertexStride {
		t.Errorf("quad len = %d", len(b))
	}
}

func TestPackIndices16Padding(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 0},
		{3, 8},
		{6, 12},
	}
	for _, tt := range tests {
		if got := len(packIndices16(nil, make([]uint16, tt.n))); got != tt.want {
			t.Errorf("%d indices -> %d bytes, want %d", tt.n, got, tt.want)
		}
	}
	if got := len(packIndices32(nil, []uint32{1, 2, 3})); got != 12 {
		t.Errorf("packIndices32 = %d bytes", got)
	}
}

func TestDashRatio(t *testing.T) {
	on := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	off := []byte{0, 0, 0, 0}
	cat := func(parts ...[]byte) []byte {
		var out []byte
		for _, p := range parts {
			out = append(out, p...)
		}
		return out
	}
	tests := []struct {
		name string
		px   []byte
		want float32
	}{
		{"empty", nil, 1},
		{"half", cat(on, on, off, off), 0.5},
		{"solid", cat(on, on), 1},
		{"none", cat(off, on), 0},
		{"quarter", cat(on, off, off, off), 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dashRatio(tt.px); got != tt.want {
				t.Errorf("dashRatio = %v, want %v", got, tt.want)
			}
		})
	}
}
