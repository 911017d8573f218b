// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gfxtest provides a recording gfx.Device for tests.
//
// The Device keeps every handle it hands out, counts creations and
// deletions per resource kind, and records state changes, buffer uploads,
// uniform values and draw calls so tests can assert on exactly what a
// layer or registry asked the GPU to do.
package gfxtest

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapview/gfx"
)

// Counter tracks creations and deletions of one resource kind.
type Counter struct {
	Created   int
	Destroyed int
}

// Live returns the number of resources created and not yet destroyed.
func (c Counter) Live() int { return c.Created - c.Destroyed }

// Upload is one BufferData call.
type Upload struct {
	Buffer gfx.BufferID
	Data   []byte
}

// Draw is one recorded draw call together with the state it was issued in.
type Draw struct {
	VertexArray gfx.VertexArrayID
	Primitive   gfx.Primitive
	First       int
	Count       int
	Indices     []uint16 // nil for DrawArrays
	Program     gfx.ProgramID
	Viewport    [4]int
	Blend       bool
	DepthTest   bool
}

type shader struct {
	stage    gfx.Stage
	src      []byte
	compiled bool
}

type program struct {
	attached []gfx.ShaderID
	linked   bool
	uniforms map[string]int32
	attribs  map[string]int32
	values   map[int32]any
}

// Device is a recording fake implementation of gfx.Device.
// The zero value is not usable; call New.
type Device struct {
	// FailCompile, when set, is consulted for every CompileShader call.
	// A non-nil return fails the compile with that error as driver log.
	FailCompile func(stage gfx.Stage, src []byte) error

	// FailLink, when set, is consulted for every LinkProgram call.
	FailLink func(p gfx.ProgramID) error

	// FailCreateProgram makes the n-th CreateProgram call (1-based) fail.
	FailCreateProgram int

	// Missing lists input names that never resolve to a location.
	Missing map[string]bool

	Shaders      Counter
	Programs     Counter
	Buffers      Counter
	VertexArrays Counter

	Uploads []Upload
	Draws   []Draw

	next         uint32
	programCalls int
	shaders      map[gfx.ShaderID]*shader
	programs     map[gfx.ProgramID]*program
	buffers      map[gfx.BufferID][]byte
	arrays       map[gfx.VertexArrayID][]Attrib
	current      gfx.ProgramID
	viewport     [4]int
	blend        bool
	depthTest    bool
}

// Attrib is a recorded VertexAttrib call.
type Attrib struct {
	Buffer gfx.BufferID
	gfx.Attrib
}

// New returns an empty recording device.
func New() *Device {
	return &Device{
		Missing:   make(map[string]bool),
		shaders:   make(map[gfx.ShaderID]*shader),
		programs:  make(map[gfx.ProgramID]*program),
		buffers:   make(map[gfx.BufferID][]byte),
		arrays:    make(map[gfx.VertexArrayID][]Attrib),
		depthTest: true,
	}
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

// CreateShader implements gfx.Device.
func (d *Device) CreateShader(stage gfx.Stage) (gfx.ShaderID, error) {
	id := gfx.ShaderID(d.id())
	d.shaders[id] = &shader{stage: stage}
	d.Shaders.Created++
	return id, nil
}

// CompileShader implements gfx.Device.
func (d *Device) CompileShader(id gfx.ShaderID, src []byte) error {
	s, ok := d.shaders[id]
	if !ok {
		return gfx.ErrUnknownHandle
	}
	s.src = slices.Clone(src)
	if d.FailCompile != nil {
		if err := d.FailCompile(s.stage, src); err != nil {
			return err
		}
	}
	s.compiled = true
	return nil
}

// DeleteShader implements gfx.Device.
func (d *Device) DeleteShader(id gfx.ShaderID) {
	if _, ok := d.shaders[id]; !ok {
		return
	}
	delete(d.shaders, id)
	d.Shaders.Destroyed++
}

// CreateProgram implements gfx.Device.
func (d *Device) CreateProgram() (gfx.ProgramID, error) {
	d.programCalls++
	if d.FailCreateProgram > 0 && d.programCalls == d.FailCreateProgram {
		return 0, gfx.ErrOutOfHandles
	}
	id := gfx.ProgramID(d.id())
	d.programs[id] = &program{
		uniforms: make(map[string]int32),
		attribs:  make(map[string]int32),
		values:   make(map[int32]any),
	}
	d.Programs.Created++
	return id, nil
}

// AttachShader implements gfx.Device.
func (d *Device) AttachShader(p gfx.ProgramID, s gfx.ShaderID) {
	if prog, ok := d.programs[p]; ok {
		prog.attached = append(prog.attached, s)
	}
}

// DetachShader implements gfx.Device.
func (d *Device) DetachShader(p gfx.ProgramID, s gfx.ShaderID) {
	if prog, ok := d.programs[p]; ok {
		prog.attached = slices.DeleteFunc(prog.attached, func(id gfx.ShaderID) bool { return id == s })
	}
}

// Attached returns the shaders currently attached to p.
func (d *Device) Attached(p gfx.ProgramID) []gfx.ShaderID {
	if prog, ok := d.programs[p]; ok {
		return slices.Clone(prog.attached)
	}
	return nil
}

// LinkProgram implements gfx.Device.
func (d *Device) LinkProgram(p gfx.ProgramID) error {
	prog, ok := d.programs[p]
	if !ok {
		return gfx.ErrUnknownHandle
	}
	if len(prog.attached) == 0 {
		return fmt.Errorf("no shaders attached")
	}
	for _, s := range prog.attached {
		if sh, ok := d.shaders[s]; !ok || !sh.compiled {
			return fmt.Errorf("shader %d not compiled", s)
		}
	}
	if d.FailLink != nil {
		if err := d.FailLink(p); err != nil {
			return err
		}
	}
	prog.linked = true
	return nil
}

func (d *Device) resolve(p gfx.ProgramID, table func(*program) map[string]int32, name string) int32 {
	prog, ok := d.programs[p]
	if !ok || !prog.linked || d.Missing[name] {
		return -1
	}
	m := table(prog)
	if loc, ok := m[name]; ok {
		return loc
	}
	loc := int32(len(m))
	m[name] = loc
	return loc
}

// UniformLocation implements gfx.Device.
// Locations are assigned per program in order of first query.
func (d *Device) UniformLocation(p gfx.ProgramID, name string) int32 {
	return d.resolve(p, func(pr *program) map[string]int32 { return pr.uniforms }, name)
}

// AttribLocation implements gfx.Device.
// Locations are assigned per program in order of first query.
func (d *Device) AttribLocation(p gfx.ProgramID, name string) int32 {
	return d.resolve(p, func(pr *program) map[string]int32 { return pr.attribs }, name)
}

// DeleteProgram implements gfx.Device.
func (d *Device) DeleteProgram(p gfx.ProgramID) {
	if _, ok := d.programs[p]; !ok {
		return
	}
	delete(d.programs, p)
	d.Programs.Destroyed++
	if d.current == p {
		d.current = gfx.NoProgram
	}
}

// UseProgram implements gfx.Device.
func (d *Device) UseProgram(p gfx.ProgramID) { d.current = p }

// Current returns the active program.
func (d *Device) Current() gfx.ProgramID { return d.current }

func (d *Device) set(loc int32, v any) {
	if prog, ok := d.programs[d.current]; ok && loc >= 0 {
		prog.values[loc] = v
	}
}

// UniformMatrix4 implements gfx.Device.
func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) { d.set(loc, m) }

// Uniform1f implements gfx.Device.
func (d *Device) Uniform1f(loc int32, v float32) { d.set(loc, v) }

// Uniform1i implements gfx.Device.
func (d *Device) Uniform1i(loc int32, v int32) { d.set(loc, v) }

// Uniform2f implements gfx.Device.
func (d *Device) Uniform2f(loc int32, v mgl32.Vec2) { d.set(loc, v) }

// Uniform3f implements gfx.Device.
func (d *Device) Uniform3f(loc int32, v mgl32.Vec3) { d.set(loc, v) }

// UniformValue returns the last value uploaded to the named uniform of p.
func (d *Device) UniformValue(p gfx.ProgramID, name string) (any, bool) {
	prog, ok := d.programs[p]
	if !ok {
		return nil, false
	}
	loc, ok := prog.uniforms[name]
	if !ok {
		return nil, false
	}
	v, ok := prog.values[loc]
	return v, ok
}

// CreateBuffer implements gfx.Device.
func (d *Device) CreateBuffer() (gfx.BufferID, error) {
	id := gfx.BufferID(d.id())
	d.buffers[id] = nil
	d.Buffers.Created++
	return id, nil
}

// BufferData implements gfx.Device.
func (d *Device) BufferData(id gfx.BufferID, data []byte) {
	if _, ok := d.buffers[id]; !ok {
		return
	}
	c := slices.Clone(data)
	d.buffers[id] = c
	d.Uploads = append(d.Uploads, Upload{Buffer: id, Data: c})
}

// BufferContents returns the current contents of a buffer.
func (d *Device) BufferContents(id gfx.BufferID) []byte { return d.buffers[id] }

// DeleteBuffer implements gfx.Device.
func (d *Device) DeleteBuffer(id gfx.BufferID) {
	if _, ok := d.buffers[id]; !ok {
		return
	}
	delete(d.buffers, id)
	d.Buffers.Destroyed++
}

// CreateVertexArray implements gfx.Device.
func (d *Device) CreateVertexArray() (gfx.VertexArrayID, error) {
	id := gfx.VertexArrayID(d.id())
	d.arrays[id] = nil
	d.VertexArrays.Created++
	return id, nil
}

// VertexAttrib implements gfx.Device.
func (d *Device) VertexAttrib(vao gfx.VertexArrayID, buf gfx.BufferID, a gfx.Attrib) {
	if _, ok := d.arrays[vao]; !ok {
		return
	}
	d.arrays[vao] = append(d.arrays[vao], Attrib{Buffer: buf, Attrib: a})
}

// Attribs returns the attribute bindings recorded for vao.
func (d *Device) Attribs(vao gfx.VertexArrayID) []Attrib { return d.arrays[vao] }

// DeleteVertexArray implements gfx.Device.
func (d *Device) DeleteVertexArray(id gfx.VertexArrayID) {
	if _, ok := d.arrays[id]; !ok {
		return
	}
	delete(d.arrays, id)
	d.VertexArrays.Destroyed++
}

// Viewport implements gfx.Device.
func (d *Device) Viewport(x, y, width, height int) { d.viewport = [4]int{x, y, width, height} }

// SetDepthTest implements gfx.Device.
func (d *Device) SetDepthTest(enabled bool) { d.depthTest = enabled }

// SetBlend implements gfx.Device.
func (d *Device) SetBlend(enabled bool) { d.blend = enabled }

// Blend reports whether blending is currently enabled.
func (d *Device) Blend() bool { return d.blend }

// DrawArrays implements gfx.Device.
func (d *Device) DrawArrays(vao gfx.VertexArrayID, prim gfx.Primitive, first, count int) {
	d.Draws = append(d.Draws, d.draw(vao, prim, first, count, nil))
}

// DrawElements implements gfx.Device.
func (d *Device) DrawElements(vao gfx.VertexArrayID, prim gfx.Primitive, indices []uint16) {
	d.Draws = append(d.Draws, d.draw(vao, prim, 0, len(indices), slices.Clone(indices)))
}

func (d *Device) draw(vao gfx.VertexArrayID, prim gfx.Primitive, first, count int, idx []uint16) Draw {
	return Draw{
		VertexArray: vao,
		Primitive:   prim,
		First:       first,
		Count:       count,
		Indices:     idx,
		Program:     d.current,
		Viewport:    d.viewport,
		Blend:       d.blend,
		DepthTest:   d.depthTest,
	}
}

// Reset clears recorded uploads and draws but keeps all resources.
func (d *Device) Reset() {
	d.Uploads = nil
	d.Draws = nil
}

var _ gfx.Device = (*Device)(nil)
