// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

// Attrib binds a float32 vertex attribute location to a slice of each
// vertex in a buffer. Components is 1 to 4; Stride and Offset are in bytes.
type Attrib struct {
	Location   int32
	Components int
	Stride     int
	Offset     int
}

// Field describes one float32 vector inside an interleaved vertex.
type Field struct {
	Name       string
	Components int
	Offset     int
}

// Layout is the documented binary layout of an interleaved vertex type.
// Buffer upload code writes vertices according to Layout and attribute
// setup code derives its Attrib values from it, so both sides agree on
// field order, byte offsets and stride.
type Layout struct {
	Stride int
	Fields []Field
}

// Attrib returns the attribute binding for the named field at loc.
// ok is false when the layout has no such field.
func (l Layout) Attrib(name string, loc int32) (a Attrib, ok bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return Attrib{Location: loc, Components: f.Components, Stride: l.Stride, Offset: f.Offset}, true
		}
	}
	return Attrib{}, false
}

// Size returns the number of bytes n vertices occupy.
func (l Layout) Size(n int) int {
	return n * l.Stride
}
