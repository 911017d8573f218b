package layer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapview/gfx"
	"github.com/gogpu/mapview/program"
	"github.com/gogpu/mapview/world"
)

// Overview defaults, in pixels.
const (
	OverviewSide   = 256
	OverviewMargin = 10
)

// overviewBatch is the number of tiles uploaded and drawn per batch.
const overviewBatch = 50

var (
	overviewBkgd   = Color{0.3, 0.3, 0.3, 0.5}
	overviewWhite  = Color{1, 1, 1, 0.5}
	overviewCentre = Color{1, 1, 1, 0.7}

	// Fill colours, indexed by tile zoom level modulo 3.
	zoomColors = [6]Color{
		{1, 0, 0, 0.5},
		{0, 1, 0, 0.5},
		{0, 0, 1, 0.5},
		{0.5, 0.5, 0, 0.5},
		{0, 0.5, 0.5, 0.5},
		{0.5, 0, 0.5, 0.5},
	}
)

// tileIndex holds two triangles, 0-1-3 and 1-2-3, for each tile of a
// full batch.
var tileIndex = func() (idx [overviewBatch * 6]uint16) {
	for t := range overviewBatch {
		b := uint16(t * 4)
		copy(idx[t*6:], []uint16{b + 0, b + 1, b + 3, b + 1, b + 2, b + 3})
	}
	return idx
}()

// Overview is a minimap of the whole world drawn in a fixed square in the
// bottom-right corner: a grey background, the visible tiles filled and
// outlined, the footprint of the main camera frustum and a crosshair at
// the view centre. It never occludes.
type Overview struct {
	env    *Env
	side   int
	margin int

	res resources
	// The frustum array reuses the background buffer.
	vaoBkgd, vaoTiles, vaoFrustum, vaoCentre gfx.VertexArrayID
	vboBkgd, vboTiles, vboCentre             gfx.BufferID

	proj   mgl32.Mat4
	extent float32
	tiles  [overviewBatch * 4]Vertex
	buf    []byte
}

// NewOverview returns an overview layer side pixels square, margin pixels
// from the right and bottom edges of the viewport. A non-positive side
// selects OverviewSide and a negative margin selects OverviewMargin.
func NewOverview(env *Env, side, margin int) *Overview {
	if side <= 0 {
		side = OverviewSide
	}
	if margin < 0 {
		margin = OverviewMargin
	}
	return &Overview{env: env, side: side, margin: margin}
}

func (o *Overview) Init() (err error) {
	o.res = resources{dev: o.env.Device}
	defer func() {
		if err != nil {
			o.res.release()
			err = fmt.Errorf("layer: overview: %w", err)
		}
	}()

	for _, b := range []*gfx.BufferID{&o.vboBkgd, &o.vboTiles, &o.vboCentre} {
		if *b, err = o.res.buffer(); err != nil {
			return err
		}
	}
	for _, a := range []*gfx.VertexArrayID{&o.vaoBkgd, &o.vaoTiles, &o.vaoFrustum, &o.vaoCentre} {
		if *a, err = o.res.array(); err != nil {
			return err
		}
	}

	dev, progs := o.env.Device, o.env.Programs
	bindVertex(dev, o.vaoBkgd, o.vboBkgd, progs.SolidLocVertex(), progs.SolidLocColor())
	bindVertex(dev, o.vaoFrustum, o.vboBkgd, progs.FrustumLocVertex(), -1)
	bindVertex(dev, o.vaoTiles, o.vboTiles, progs.SolidLocVertex(), progs.SolidLocColor())
	bindVertex(dev, o.vaoCentre, o.vboCentre, progs.SolidLocVertex(), progs.SolidLocColor())

	o.Zoom(0)
	return nil
}

// Zoom rebuilds the projection for the current world size, widened by one
// overview pixel at zoom level so that outlines of edge tiles stay inside
// the frame, and re-uploads the background quad.
func (o *Overview) Zoom(level int) {
	size := o.env.State.Size + float32(uint64(1)<<uint(level))/float32(o.side)
	o.extent = size
	o.proj = mgl32.Ortho(0, size, 0, size, 0, 1)

	// Counter-clockwise:
	//
	//	3--2
	//	|  |
	//	0--1
	bkgd := [4]Vertex{{X: 0, Y: 0}, {X: size, Y: 0}, {X: size, Y: size}, {X: 0, Y: size}}
	for i := range bkgd {
		bkgd[i].setColor(overviewBkgd)
	}
	o.buf = encodeVertices(o.buf, bkgd[:])
	o.env.Device.BufferData(o.vboBkgd, o.buf)
}

// Extent returns the edge length of the background quad in world units.
func (o *Overview) Extent() float32 { return o.extent }

func (o *Overview) Occludes() bool { return false }

func (o *Overview) Paint() {
	dev, progs := o.env.Device, o.env.Programs
	x := o.env.Viewport.Width() - o.margin - o.side
	dev.Viewport(x, o.margin, o.side, o.side)
	dev.SetDepthTest(false)
	dev.SetBlend(true)

	progs.UseSolid(program.SolidValues{Matrix: o.proj})
	dev.DrawElements(o.vaoBkgd, gfx.Triangles, quadIndex[:])

	batches := o.paintTiles()

	w := o.env.World()
	cam := o.env.Camera
	progs.UseFrustum(program.FrustumValues{
		Proj:      o.proj,
		Frustum:   cam.ViewProj(),
		Model:     w.Matrix(),
		Camera:    cam.Position(),
		WorldSize: o.env.State.Size,
		Spherical: w.Kind() == world.Spherical,
	})
	dev.DrawElements(o.vaoFrustum, gfx.Triangles, quadIndex[:])

	o.paintCentre()

	progs.None()
	dev.SetBlend(false)
	slogger().Debug("overview painted", "batches", batches)
}

// paintTiles draws the enumerated tiles in batches of at most
// overviewBatch: filled in their zoom colour, then outlined in white.
func (o *Overview) paintTiles() (batches int) {
	dev := o.env.Device
	size := o.env.State.Size
	tl, ok := o.env.Tiles.First()
	for ok {
		t := 0
		for ; ok && t < overviewBatch; t++ {
			v := o.tiles[t*4 : t*4+4]
			// Bottom left, bottom right, top right, top left.
			v[0] = Vertex{X: tl.X, Y: size - tl.Y}
			v[1] = Vertex{X: tl.X + tl.Width, Y: size - tl.Y}
			v[2] = Vertex{X: tl.X + tl.Width, Y: size - tl.Y - tl.Height}
			v[3] = Vertex{X: tl.X, Y: size - tl.Y - tl.Height}
			c := zoomColors[tl.Zoom%3]
			for i := range v {
				v[i].setColor(c)
			}
			tl, ok = o.env.Tiles.Next()
		}

		o.buf = encodeVertices(o.buf, o.tiles[:t*4])
		dev.BufferData(o.vboTiles, o.buf)
		dev.DrawElements(o.vaoTiles, gfx.Triangles, tileIndex[:t*6])

		for i := range o.tiles[:t*4] {
			o.tiles[i].setColor(overviewWhite)
		}
		o.buf = encodeVertices(o.buf, o.tiles[:t*4])
		dev.BufferData(o.vboTiles, o.buf)
		for i := range t {
			dev.DrawArrays(o.vaoTiles, gfx.LineLoop, i*4, 4)
		}
		batches++
	}
	return batches
}

// paintCentre draws a crosshair one world unit wide at the view centre.
func (o *Overview) paintCentre() {
	s := o.env.State
	cx, cy := s.Center.Tile.X, s.Size-s.Center.Tile.Y
	lines := [4]Vertex{
		{X: cx - 0.5, Y: cy}, {X: cx + 0.5, Y: cy},
		{X: cx, Y: cy + 0.5}, {X: cx, Y: cy - 0.5},
	}
	for i := range lines {
		lines[i].setColor(overviewCentre)
	}
	o.env.Programs.UseSolid(program.SolidValues{Matrix: o.proj})
	o.buf = encodeVertices(o.buf, lines[:])
	o.env.Device.BufferData(o.vboCentre, o.buf)
	o.env.Device.DrawArrays(o.vaoCentre, gfx.Lines, 0, 4)
}

func (o *Overview) Destroy() { o.res.release() }
