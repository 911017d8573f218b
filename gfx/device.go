// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import "github.com/go-gl/mathgl/mgl32"

// ShaderID identifies a compiled shader stage on a Device.
type ShaderID uint32

// ProgramID identifies a program object on a Device.
type ProgramID uint32

// BufferID identifies a vertex buffer on a Device.
type BufferID uint32

// VertexArrayID identifies a vertex array (attribute layout) on a Device.
type VertexArrayID uint32

// NoProgram is passed to UseProgram to deactivate any active program.
const NoProgram ProgramID = 0

// Stage is a programmable pipeline stage.
type Stage uint8

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota
	// StageFragment is the fragment stage.
	StageFragment
)

// String returns the lowercase stage name used in diagnostics.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// InputKind tells whether a named program input is a uniform or an attribute.
type InputKind uint8

const (
	// Uniform is a per-draw constant.
	Uniform InputKind = iota
	// Attribute is a per-vertex input.
	Attribute
)

// String returns the lowercase kind name used in diagnostics.
func (k InputKind) String() string {
	switch k {
	case Uniform:
		return "uniform"
	case Attribute:
		return "attribute"
	default:
		return "unknown"
	}
}

// Primitive is the primitive topology of a draw call.
type Primitive uint8

const (
	// Triangles draws independent triangles.
	Triangles Primitive = iota
	// Lines draws independent line segments.
	Lines
	// LineLoop draws a closed polyline through all vertices.
	LineLoop
)

// String returns the primitive name.
func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	case LineLoop:
		return "line_loop"
	default:
		return "unknown"
	}
}

// Device is the GPU contract consumed by the program registry and layers.
//
// Methods that allocate return an error when the backend cannot provide the
// resource. CompileShader and LinkProgram report failure through an error
// whose text is the driver log. Location queries return a negative value
// when the name cannot be resolved against the linked program.
//
// Uniform setters apply to the program most recently passed to UseProgram.
type Device interface {
	CreateShader(stage Stage) (ShaderID, error)
	CompileShader(id ShaderID, src []byte) error
	DeleteShader(id ShaderID)

	CreateProgram() (ProgramID, error)
	AttachShader(p ProgramID, s ShaderID)
	DetachShader(p ProgramID, s ShaderID)
	LinkProgram(p ProgramID) error
	UniformLocation(p ProgramID, name string) int32
	AttribLocation(p ProgramID, name string) int32
	DeleteProgram(p ProgramID)

	UseProgram(p ProgramID)
	UniformMatrix4(loc int32, m mgl32.Mat4)
	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)
	Uniform2f(loc int32, v mgl32.Vec2)
	Uniform3f(loc int32, v mgl32.Vec3)

	CreateBuffer() (BufferID, error)
	BufferData(id BufferID, data []byte)
	DeleteBuffer(id BufferID)

	CreateVertexArray() (VertexArrayID, error)
	VertexAttrib(vao VertexArrayID, buf BufferID, a Attrib)
	DeleteVertexArray(id VertexArrayID)

	// Viewport sets the drawing rectangle. x, y is its lower-left corner,
	// measured from the lower-left of the target.
	Viewport(x, y, width, height int)
	SetDepthTest(enabled bool)
	SetBlend(enabled bool)

	DrawArrays(vao VertexArrayID, prim Primitive, first, count int)
	DrawElements(vao VertexArrayID, prim Primitive, indices []uint16)
}
