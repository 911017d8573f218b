package layer

import (
	"fmt"

	"github.com/gogpu/mapview/program"
)

// Cursor draws a crosshair at the centre of the viewport.
type Cursor struct {
	env  *Env
	quad quad
}

// NewCursor returns a cursor layer.
func NewCursor(env *Env) *Cursor { return &Cursor{env: env} }

func (c *Cursor) Init() error {
	if err := c.quad.init(c.env.Device, c.env.Programs.CursorLocVertex()); err != nil {
		return fmt.Errorf("layer: cursor: %w", err)
	}
	return nil
}

func (c *Cursor) Paint() {
	dev := c.env.Device
	w, h := c.env.Viewport.Width(), c.env.Viewport.Height()
	dev.Viewport(0, 0, w, h)
	dev.SetBlend(true)
	c.env.Programs.UseCursor(program.CursorValues{
		HalfWidth:  float32(w) / 2,
		HalfHeight: float32(h) / 2,
	})
	c.quad.draw(dev)
	c.env.Programs.None()
	dev.SetBlend(false)
}

func (c *Cursor) Zoom(int) {}

func (c *Cursor) Occludes() bool { return false }

func (c *Cursor) Destroy() { c.quad.destroy() }
