package program

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapview/gfx"
	"github.com/gogpu/mapview/shader"
)

// Input indices per program. They index Program.Inputs in definitions.
const (
	bkgdVertex = iota
)

const (
	cursorHalfWidth = iota
	cursorHalfHeight
	cursorVertex
)

const (
	solidMatProj = iota
	solidVertex
	solidColor
)

const (
	frustumMatProj = iota
	frustumMatFrustum
	frustumMatModel
	frustumCamera
	frustumWorldSize
	frustumSpherical
	frustumVertex
)

const (
	basemapMatViewProjInv = iota
	basemapMatModelInv
	basemapVertex
)

func uniform(name string) Input   { return Input{Name: name, Kind: gfx.Uniform, Loc: -1} }
func attribute(name string) Input { return Input{Name: name, Kind: gfx.Attribute, Loc: -1} }

var definitions = [numPrograms]Program{
	Bkgd: {
		Name:     "bkgd",
		Vertex:   Shader{Source: shader.BkgdVertex},
		Fragment: Shader{Source: shader.BkgdFragment},
		Inputs: []Input{
			bkgdVertex: attribute("vertex"),
		},
	},
	Cursor: {
		Name:     "cursor",
		Fragment: Shader{Source: shader.CursorFragment},
		Inputs: []Input{
			cursorHalfWidth:  uniform("halfwidth"),
			cursorHalfHeight: uniform("halfheight"),
			cursorVertex:     attribute("vertex"),
		},
	},
	Solid: {
		Name:     "solid",
		Vertex:   Shader{Source: shader.SolidVertex},
		Fragment: Shader{Source: shader.SolidFragment},
		Inputs: []Input{
			solidMatProj: uniform("mat_proj"),
			solidVertex:  attribute("vertex"),
			solidColor:   attribute("color"),
		},
	},
	Frustum: {
		Name:     "frustum",
		Vertex:   Shader{Source: shader.FrustumVertex},
		Fragment: Shader{Source: shader.FrustumFragment},
		Inputs: []Input{
			frustumMatProj:    uniform("mat_proj"),
			frustumMatFrustum: uniform("mat_frustum"),
			frustumMatModel:   uniform("mat_model"),
			frustumCamera:     uniform("camera"),
			frustumWorldSize:  uniform("world_size"),
			frustumSpherical:  uniform("spherical"),
			frustumVertex:     attribute("vertex"),
		},
	},
	BasemapSpherical: {
		Name:     "basemap_spherical",
		Vertex:   Shader{Source: shader.BasemapSphericalVertex},
		Fragment: Shader{Source: shader.BasemapSphericalFragment},
		Inputs: []Input{
			basemapMatViewProjInv: uniform("mat_viewproj_inv"),
			basemapMatModelInv:    uniform("mat_model_inv"),
			basemapVertex:         attribute("vertex"),
		},
	},
}

// UseBkgd activates the background gradient program.
func (r *Registry) UseBkgd() {
	r.use(Bkgd)
}

// BkgdLocVertex returns the location of the bkgd "vertex" attribute.
func (r *Registry) BkgdLocVertex() int32 {
	return r.programs[Bkgd].Inputs[bkgdVertex].Loc
}

// CursorValues are the uniforms of the cursor program, in pixels.
type CursorValues struct {
	HalfWidth  float32
	HalfHeight float32
}

// UseCursor activates the cursor program.
func (r *Registry) UseCursor(v CursorValues) {
	p := r.use(Cursor)
	r.dev.Uniform1f(p.Inputs[cursorHalfWidth].Loc, v.HalfWidth)
	r.dev.Uniform1f(p.Inputs[cursorHalfHeight].Loc, v.HalfHeight)
}

// CursorLocVertex returns the location of the cursor "vertex" attribute.
func (r *Registry) CursorLocVertex() int32 {
	return r.programs[Cursor].Inputs[cursorVertex].Loc
}

// SolidValues are the uniforms of the solid program.
type SolidValues struct {
	Matrix mgl32.Mat4
}

// UseSolid activates the flat-colour program.
func (r *Registry) UseSolid(v SolidValues) {
	p := r.use(Solid)
	r.dev.UniformMatrix4(p.Inputs[solidMatProj].Loc, v.Matrix)
}

// SolidLocVertex returns the location of the solid "vertex" attribute.
func (r *Registry) SolidLocVertex() int32 {
	return r.programs[Solid].Inputs[solidVertex].Loc
}

// SolidLocColor returns the location of the solid "color" attribute.
func (r *Registry) SolidLocColor() int32 {
	return r.programs[Solid].Inputs[solidColor].Loc
}

// FrustumValues are the uniforms of the frustum program.
type FrustumValues struct {
	Proj      mgl32.Mat4 // overview orthographic projection
	Frustum   mgl32.Mat4 // main camera view-projection
	Model     mgl32.Mat4 // active world model matrix
	Camera    mgl32.Vec3
	WorldSize float32
	Spherical bool
}

// UseFrustum activates the frustum footprint program.
func (r *Registry) UseFrustum(v FrustumValues) {
	p := r.use(Frustum)
	in := p.Inputs
	r.dev.UniformMatrix4(in[frustumMatProj].Loc, v.Proj)
	r.dev.UniformMatrix4(in[frustumMatFrustum].Loc, v.Frustum)
	r.dev.UniformMatrix4(in[frustumMatModel].Loc, v.Model)
	r.dev.Uniform3f(in[frustumCamera].Loc, v.Camera)
	r.dev.Uniform1f(in[frustumWorldSize].Loc, v.WorldSize)
	var spherical int32
	if v.Spherical {
		spherical = 1
	}
	r.dev.Uniform1i(in[frustumSpherical].Loc, spherical)
}

// FrustumLocVertex returns the location of the frustum "vertex" attribute.
func (r *Registry) FrustumLocVertex() int32 {
	return r.programs[Frustum].Inputs[frustumVertex].Loc
}

// BasemapSphericalValues are the uniforms of the spherical basemap program.
type BasemapSphericalValues struct {
	ViewProjInv mgl32.Mat4
	ModelInv    mgl32.Mat4
}

// UseBasemapSpherical activates the globe ray-casting program.
func (r *Registry) UseBasemapSpherical(v BasemapSphericalValues) {
	p := r.use(BasemapSpherical)
	r.dev.UniformMatrix4(p.Inputs[basemapMatViewProjInv].Loc, v.ViewProjInv)
	r.dev.UniformMatrix4(p.Inputs[basemapMatModelInv].Loc, v.ModelInv)
}

// BasemapSphericalLocVertex returns the location of the basemap "vertex"
// attribute.
func (r *Registry) BasemapSphericalLocVertex() int32 {
	return r.programs[BasemapSpherical].Inputs[basemapVertex].Loc
}
