//go:build !nogpu

package halgpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/drawlist"
)

// Vertex strides in bytes.
//
//	mesh: position (vec2<f32>) + color (vec4<f32>)        = 24
//	line: position (vec2<f32>) + color (vec4<f32>) + dash = 28
//	quad: position (vec2<f32>) + uv (vec2<f32>) + color   = 32
const (
	meshVertexStride = 24
	lineVertexStride = 28
	quadVertexStride = 32
)

// uniformSize is the size of the Uniforms struct in drawlist.wgsl:
// viewport vec2, dash_on f32, padding, clip vec4.
const uniformSize = 32

func putF32(b []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
}

// putColor appends a packed color as four normalized floats.
func putColor(b []byte, c uint32) []byte {
	for shift := 0; shift < 32; shift += 8 {
		b = putF32(b, float32(uint8(c>>shift))/255)
	}
	return b
}

func packUniforms(width, height uint32, clip drawlist.Rect, dashOn float32) []byte {
	b := make([]byte, 0, uniformSize)
	b = putF32(b, float32(width))
	b = putF32(b, float32(height))
	b = putF32(b, dashOn)
	b = putF32(b, 0)
	b = putF32(b, clip.X)
	b = putF32(b, clip.Y)
	b = putF32(b, clip.Right())
	b = putF32(b, clip.Bottom())
	return b
}

func packMeshVertices(b []byte, m *drawlist.MeshDrawData) []byte {
	for i, c := range m.Colors {
		b = putF32(b, m.Vertices[2*i])
		b = putF32(b, m.Vertices[2*i+1])
		b = putColor(b, c)
	}
	return b
}

// packIndices16 appends idx, padded to a multiple of four bytes so the
// next chunk starts at a valid index buffer offset.
func packIndices16(b []byte, idx []uint16) []byte {
	for _, i := range idx {
		b = binary.LittleEndian.AppendUint16(b, i)
	}
	if len(idx)%2 == 1 {
		b = binary.LittleEndian.AppendUint16(b, 0)
	}
	return b
}

func packLineVertices(b []byte, l *drawlist.LineDrawData) []byte {
	for i, c := range l.Colors {
		b = putF32(b, l.Vertices[2*i])
		b = putF32(b, l.Vertices[2*i+1])
		b = putColor(b, c)
		b = putF32(b, l.DashU[i])
	}
	return b
}

func packQuadVertices(b []byte, q *drawlist.QuadBuffer) []byte {
	for i, c := range q.Colors {
		b = putF32(b, q.Positions[2*i])
		b = putF32(b, q.Positions[2*i+1])
		b = putF32(b, q.TexCoords[2*i])
		b = putF32(b, q.TexCoords[2*i+1])
		b = putColor(b, c)
	}
	return b
}

func packIndices32(b []byte, idx []uint32) []byte {
	for _, i := range idx {
		b = binary.LittleEndian.AppendUint32(b, i)
	}
	return b
}

// dashRatio returns the fraction of a 1xN dash texture covered by its
// leading run of opaque texels. Solid lines sample inside that run.
func dashRatio(rgba []byte) float32 {
	n := len(rgba) / 4
	if n == 0 {
		return 1
	}
	on := 0
	for on < n && rgba[4*on+3] >= 0x80 {
		on++
	}
	return float32(on) / float32(n)
}
