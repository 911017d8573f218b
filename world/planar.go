package world

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// PlanarWorld is the flat Mercator map. Its model matrix is a translation
// that puts the centre at the origin.
type PlanarWorld struct {
	model  mgl32.Mat4
	scroll Autoscroller
}

// NewPlanar returns a planar world. a may be nil.
func NewPlanar(a Autoscroller) *PlanarWorld {
	return &PlanarWorld{model: mgl32.Ident4(), scroll: a}
}

func (*PlanarWorld) Kind() Kind { return Planar }

// latlonToWorld maps geographic coordinates to bottom-left-origin world
// coordinates.
func latlonToWorld(s *State, lat, lon float32) (x, y float32) {
	x = s.Size * (0.5 + lon/(2*math32.Pi))
	y = s.Size * (0.5 + mercatorY(lat)/(2*math32.Pi))
	return x, y
}

func (w *PlanarWorld) Project(s *State, lat, lon float32) (vertex, normal mgl32.Vec4) {
	x, y := latlonToWorld(s, lat, lon)
	vertex = w.model.Mul4x1(mgl32.Vec4{x, y, 0, 1})
	normal = w.model.Mul4x1(mgl32.Vec4{0, 0, 1, 0})
	return vertex, normal
}

// The y flip turns top-left tile space into bottom-left render space.
func (w *PlanarWorld) update(s *State) {
	x := s.Center.Tile.X
	y := s.Size - s.Center.Tile.Y
	w.model = mgl32.Translate3D(-x, -y, 0)
}

func (w *PlanarWorld) Move(s *State) { w.update(s) }

func (w *PlanarWorld) Zoom(s *State) { w.update(s) }

func (w *PlanarWorld) CenterRestrictTile(s *State) {
	x := clamp(s.Center.Tile.X, 0, s.Size)
	y := clamp(s.Center.Tile.Y, 0, s.Size)
	if x != s.Center.Tile.X || y != s.Center.Tile.Y {
		slogger().Debug("planar: tile centre clamped", "x", s.Center.Tile.X, "y", s.Center.Tile.Y)
	}
	s.Center.Tile = Tile{X: x, Y: y}
}

func (w *PlanarWorld) CenterRestrictLatLon(s *State) {
	s.Center.Lat = clamp(s.Center.Lat, LatMin, LatMax)
	s.Center.Lon = clamp(s.Center.Lon, LonMin, LonMax)
}

func (w *PlanarWorld) Matrix() mgl32.Mat4 { return w.model }

func (w *PlanarWorld) OnTick(s *State, elapsedMicros int64) bool {
	return tick(w.scroll, s)
}
