package layer

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/mapview/gfx"
)

// Vertex is a 2D position with an RGBA color.
//
// Binary layout, little-endian float32:
//
//	offset  0  X, Y        "vertex"  2 components
//	offset  8  R, G, B, A  "color"   4 components
//	stride 24
type Vertex struct {
	X, Y       float32
	R, G, B, A float32
}

// VertexLayout describes Vertex for attribute setup. Upload code encodes
// with the same offsets through putVertex.
var VertexLayout = gfx.Layout{
	Stride: 24,
	Fields: []gfx.Field{
		{Name: "vertex", Components: 2, Offset: 0},
		{Name: "color", Components: 4, Offset: 8},
	},
}

// Color is an RGBA color.
type Color [4]float32

func (v *Vertex) setColor(c Color) {
	v.R, v.G, v.B, v.A = c[0], c[1], c[2], c[3]
}

func putFloat(b []byte, f float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
}

func putVertex(b []byte, v Vertex) {
	putFloat(b[0:], v.X)
	putFloat(b[4:], v.Y)
	putFloat(b[8:], v.R)
	putFloat(b[12:], v.G)
	putFloat(b[16:], v.B)
	putFloat(b[20:], v.A)
}

// encodeVertices writes vs into dst, growing it as needed.
func encodeVertices(dst []byte, vs []Vertex) []byte {
	n := VertexLayout.Size(len(vs))
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, v := range vs {
		putVertex(dst[i*VertexLayout.Stride:], v)
	}
	return dst
}

// bindVertex points the "vertex" and, when colorLoc is non-negative,
// "color" attributes of vao at buf using VertexLayout.
func bindVertex(dev gfx.Device, vao gfx.VertexArrayID, buf gfx.BufferID, vertexLoc, colorLoc int32) {
	if a, ok := VertexLayout.Attrib("vertex", vertexLoc); ok {
		dev.VertexAttrib(vao, buf, a)
	}
	if colorLoc < 0 {
		return
	}
	if a, ok := VertexLayout.Attrib("color", colorLoc); ok {
		dev.VertexAttrib(vao, buf, a)
	}
}

// quadIndex splits a counter-clockwise quad 0-1-2-3 along 1-3.
var quadIndex = [6]uint16{0, 1, 3, 1, 2, 3}
