package layer

import "fmt"

// Background fills the whole viewport with a gradient. It occludes every
// layer below it.
type Background struct {
	env  *Env
	quad quad
}

// NewBackground returns a background layer.
func NewBackground(env *Env) *Background { return &Background{env: env} }

func (b *Background) Init() error {
	if err := b.quad.init(b.env.Device, b.env.Programs.BkgdLocVertex()); err != nil {
		return fmt.Errorf("layer: background: %w", err)
	}
	return nil
}

func (b *Background) Paint() {
	dev := b.env.Device
	dev.Viewport(0, 0, b.env.Viewport.Width(), b.env.Viewport.Height())
	dev.SetDepthTest(false)
	b.env.Programs.UseBkgd()
	b.quad.draw(dev)
	b.env.Programs.None()
}

func (b *Background) Zoom(int) {}

func (b *Background) Occludes() bool { return true }

func (b *Background) Destroy() { b.quad.destroy() }
