package wgpu

import (
	"encoding/binary"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/mapview/gfx"
)

// uniformAlignment is the WebGPU default minUniformBufferOffsetAlignment.
const uniformAlignment = 256

// vertexSlot is one vertex buffer binding of a vertex array: every
// attribute sourced from the same gfx buffer shares a slot.
type vertexSlot struct {
	buf     gfx.BufferID
	stride  int
	attribs []gfx.Attrib
}

// layout groups the array's attributes into slots in order of first
// appearance. The result is cached until the next VertexAttrib.
func (va *vertexArray) layout() []vertexSlot {
	if va.slots != nil {
		return va.slots
	}
	slots := make([]vertexSlot, 0, len(va.attribs))
outer:
	for _, a := range va.attribs {
		for i := range slots {
			if slots[i].buf == a.buf {
				slots[i].attribs = append(slots[i].attribs, a.Attrib)
				continue outer
			}
		}
		slots = append(slots, vertexSlot{buf: a.buf, stride: a.Stride, attribs: []gfx.Attrib{a.Attrib}})
	}
	va.slots = slots
	return slots
}

// draw is one recorded draw call with its data already in the arenas.
type draw struct {
	program  gfx.ProgramID
	vao      gfx.VertexArrayID
	gen      uint32
	layout   []vertexSlot
	topology gputypes.PrimitiveTopology
	blend    bool
	depth    bool
	viewport [4]int

	vertexOffsets []uint64
	first         uint32
	count         uint32
	indexed       bool
	indexOffset   uint64
	uniformOffset uint32
}

// snapshot identifies one upload of a buffer's contents.
type snapshot struct {
	buf gfx.BufferID
	gen uint32
}

// frame accumulates the draws of one frame and the bytes they reference.
type frame struct {
	draws    []draw
	vertices []byte
	indices  []byte
	uniforms []byte

	// snapshots maps each buffer upload to its offset in vertices.
	snapshots map[snapshot]uint64
}

func (f *frame) reset() {
	f.draws = f.draws[:0]
	f.vertices = f.vertices[:0]
	f.indices = f.indices[:0]
	f.uniforms = f.uniforms[:0]
	clear(f.snapshots)
}

func pad(b []byte, align int) []byte {
	for len(b)%align != 0 {
		b = append(b, 0)
	}
	return b
}

func (f *frame) pushVertices(data []byte) uint64 {
	f.vertices = pad(f.vertices, 4)
	off := uint64(len(f.vertices))
	f.vertices = append(f.vertices, data...)
	f.vertices = pad(f.vertices, 4)
	return off
}

// vertexData returns the arena offset of b's contents, copying them only
// on the first draw since the buffer's last BufferData.
func (f *frame) vertexData(id gfx.BufferID, b *buffer) uint64 {
	if b == nil {
		return f.pushVertices(nil)
	}
	key := snapshot{buf: id, gen: b.gen}
	if off, ok := f.snapshots[key]; ok {
		return off
	}
	off := f.pushVertices(b.data)
	if f.snapshots == nil {
		f.snapshots = make(map[snapshot]uint64)
	}
	f.snapshots[key] = off
	return off
}

func (f *frame) pushIndices(idx []uint16) uint64 {
	f.indices = pad(f.indices, 4)
	off := uint64(len(f.indices))
	for _, i := range idx {
		f.indices = binary.LittleEndian.AppendUint16(f.indices, i)
	}
	f.indices = pad(f.indices, 4)
	return off
}

func (f *frame) pushUniforms(data []byte) uint32 {
	f.uniforms = pad(f.uniforms, uniformAlignment)
	off := uint32(len(f.uniforms))
	f.uniforms = append(f.uniforms, data...)
	return off
}

// lineLoop expands a closed polyline into line-list index pairs.
func lineLoop(idx []uint16) []uint16 {
	n := len(idx)
	if n < 2 {
		return nil
	}
	out := make([]uint16, 0, 2*n)
	for i := range idx {
		out = append(out, idx[i], idx[(i+1)%n])
	}
	return out
}

func sequence(first, count int) []uint16 {
	out := make([]uint16, count)
	for i := range out {
		out[i] = uint16(first + i)
	}
	return out
}

func topology(p gfx.Primitive) gputypes.PrimitiveTopology {
	if p == gfx.Triangles {
		return gputypes.PrimitiveTopologyTriangleList
	}
	return gputypes.PrimitiveTopologyLineList
}

// record snapshots the current state, vertex data, indices and uniforms
// of one draw call.
func (d *Device) record(vao gfx.VertexArrayID, prim gfx.Primitive, first, count int, indices []uint16) {
	if d.destroyed || count <= 0 {
		return
	}
	prog, ok := d.programs[d.current]
	if !ok || !prog.linked {
		slogger().Warn("wgpu: draw without a linked program", "program", d.current)
		return
	}
	va, ok := d.arrays[vao]
	if !ok {
		slogger().Warn("wgpu: draw with unknown vertex array", "vao", vao)
		return
	}

	if prim == gfx.LineLoop {
		if indices == nil {
			indices = sequence(first, count)
		}
		indices = lineLoop(indices)
		if len(indices) == 0 {
			return
		}
	}

	dr := draw{
		program:  d.current,
		vao:      vao,
		gen:      va.gen,
		layout:   va.layout(),
		topology: topology(prim),
		blend:    d.blend,
		depth:    d.depth,
		viewport: d.viewport,
	}
	dr.vertexOffsets = make([]uint64, len(dr.layout))
	for i, s := range dr.layout {
		dr.vertexOffsets[i] = d.frame.vertexData(s.buf, d.buffers[s.buf])
	}

	if indices != nil {
		dr.indexed = true
		dr.indexOffset = d.frame.pushIndices(indices)
		dr.count = uint32(len(indices))
	} else {
		dr.first = uint32(first)
		dr.count = uint32(count)
	}
	if len(prog.uniforms) > 0 {
		dr.uniformOffset = d.frame.pushUniforms(prog.uniforms)
	}
	d.frame.draws = append(d.frame.draws, dr)
}

// Stats describes the frame being recorded.
type Stats struct {
	Draws        int
	VertexBytes  int
	IndexBytes   int
	UniformBytes int
	Pipelines    int
}

// Pending returns statistics for the draws recorded since the last Submit.
func (d *Device) Pending() Stats {
	return Stats{
		Draws:        len(d.frame.draws),
		VertexBytes:  len(d.frame.vertices),
		IndexBytes:   len(d.frame.indices),
		UniformBytes: len(d.frame.uniforms),
		Pipelines:    d.pipelines.Len(),
	}
}
