package layer

import (
	"fmt"

	"github.com/gogpu/mapview/gfx"
)

// resources tracks the buffers and vertex arrays a layer owns so that a
// failed Init and Destroy release them the same way.
type resources struct {
	dev     gfx.Device
	buffers []gfx.BufferID
	arrays  []gfx.VertexArrayID
}

func (r *resources) buffer() (gfx.BufferID, error) {
	id, err := r.dev.CreateBuffer()
	if err != nil {
		return 0, fmt.Errorf("create buffer: %w", err)
	}
	r.buffers = append(r.buffers, id)
	return id, nil
}

func (r *resources) array() (gfx.VertexArrayID, error) {
	id, err := r.dev.CreateVertexArray()
	if err != nil {
		return 0, fmt.Errorf("create vertex array: %w", err)
	}
	r.arrays = append(r.arrays, id)
	return id, nil
}

// release deletes vertex arrays, then buffers, newest first.
func (r *resources) release() {
	for i := len(r.arrays) - 1; i >= 0; i-- {
		r.dev.DeleteVertexArray(r.arrays[i])
	}
	for i := len(r.buffers) - 1; i >= 0; i-- {
		r.dev.DeleteBuffer(r.buffers[i])
	}
	r.arrays, r.buffers = nil, nil
}

// quad is a full-viewport clip-space quad bound to one attribute.
type quad struct {
	res resources
	vbo gfx.BufferID
	vao gfx.VertexArrayID
}

// clipLayout is two float32 clip-space coordinates per vertex.
var clipLayout = gfx.Layout{
	Stride: 8,
	Fields: []gfx.Field{{Name: "vertex", Components: 2, Offset: 0}},
}

func (q *quad) init(dev gfx.Device, loc int32) (err error) {
	q.res = resources{dev: dev}
	defer func() {
		if err != nil {
			q.res.release()
		}
	}()
	if q.vbo, err = q.res.buffer(); err != nil {
		return err
	}
	if q.vao, err = q.res.array(); err != nil {
		return err
	}
	a, _ := clipLayout.Attrib("vertex", loc)
	dev.VertexAttrib(q.vao, q.vbo, a)

	corners := [8]float32{-1, -1, 1, -1, 1, 1, -1, 1}
	buf := make([]byte, clipLayout.Size(4))
	for i, f := range corners {
		putFloat(buf[i*4:], f)
	}
	dev.BufferData(q.vbo, buf)
	return nil
}

func (q *quad) draw(dev gfx.Device) {
	dev.DrawElements(q.vao, gfx.Triangles, quadIndex[:])
}

func (q *quad) destroy() { q.res.release() }
