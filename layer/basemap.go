package layer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapview/program"
	"github.com/gogpu/mapview/world"
)

// Basemap ray-casts the globe when the active world is spherical and
// paints nothing otherwise.
type Basemap struct {
	env  *Env
	quad quad
}

// NewBasemap returns a basemap layer.
func NewBasemap(env *Env) *Basemap { return &Basemap{env: env} }

func (b *Basemap) Init() error {
	if err := b.quad.init(b.env.Device, b.env.Programs.BasemapSphericalLocVertex()); err != nil {
		return fmt.Errorf("layer: basemap: %w", err)
	}
	return nil
}

type inverseModeler interface {
	InverseModel() mgl32.Mat4
}

func (b *Basemap) Paint() {
	w := b.env.World()
	if w.Kind() != world.Spherical {
		return
	}
	inv := w.Matrix().Inv()
	if im, ok := w.(inverseModeler); ok {
		inv = im.InverseModel()
	}

	dev := b.env.Device
	dev.Viewport(0, 0, b.env.Viewport.Width(), b.env.Viewport.Height())
	dev.SetDepthTest(false)
	dev.SetBlend(true)
	b.env.Programs.UseBasemapSpherical(program.BasemapSphericalValues{
		ViewProjInv: b.env.Camera.ViewProj().Inv(),
		ModelInv:    inv,
	})
	b.quad.draw(dev)
	b.env.Programs.None()
	dev.SetBlend(false)
}

func (b *Basemap) Zoom(int) {}

func (b *Basemap) Occludes() bool { return false }

func (b *Basemap) Destroy() { b.quad.destroy() }
