package world

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SphericalWorld wraps the map around a globe of circumference Size.
// The model matrix rotates the centre to face +z and translates it to the
// origin, so the sphere centre sits at (0, 0, -R).
type SphericalWorld struct {
	model  mgl32.Mat4
	inv    mgl32.Mat4
	scroll Autoscroller
}

// NewSpherical returns a spherical world. a may be nil.
func NewSpherical(a Autoscroller) *SphericalWorld {
	return &SphericalWorld{model: mgl32.Ident4(), inv: mgl32.Ident4(), scroll: a}
}

func (*SphericalWorld) Kind() Kind { return Spherical }

// Radius returns the globe radius for s.
func Radius(s *State) float32 {
	return s.Size / (2 * math32.Pi)
}

func (w *SphericalWorld) Project(s *State, lat, lon float32) (vertex, normal mgl32.Vec4) {
	r := Radius(s)
	cl := math32.Cos(lat)
	n := mgl32.Vec4{cl * math32.Sin(lon), math32.Sin(lat), cl * math32.Cos(lon), 0}
	vertex = w.model.Mul4x1(mgl32.Vec4{r * n[0], r * n[1], r * n[2], 1})
	normal = w.model.Mul4x1(n)
	return vertex, normal
}

func (w *SphericalWorld) update(s *State) {
	r := Radius(s)
	w.model = mgl32.Translate3D(0, 0, -r).
		Mul4(mgl32.HomogRotate3DX(s.Center.Lat)).
		Mul4(mgl32.HomogRotate3DY(-s.Center.Lon))
	w.inv = w.model.Inv()
}

func (w *SphericalWorld) Move(s *State) { w.update(s) }

func (w *SphericalWorld) Zoom(s *State) { w.update(s) }

// CenterRestrictTile wraps x around the globe and clamps y.
func (w *SphericalWorld) CenterRestrictTile(s *State) {
	x := math32.Mod(s.Center.Tile.X, s.Size)
	if x < 0 {
		x += s.Size
	}
	s.Center.Tile.X = x
	s.Center.Tile.Y = clamp(s.Center.Tile.Y, 0, s.Size)
}

// CenterRestrictLatLon clamps latitude to the Mercator limit and wraps
// longitude into [-π, π].
func (w *SphericalWorld) CenterRestrictLatLon(s *State) {
	s.Center.Lat = clamp(s.Center.Lat, LatMin, LatMax)
	lon := math32.Mod(s.Center.Lon+math32.Pi, 2*math32.Pi)
	if lon < 0 {
		lon += 2 * math32.Pi
	}
	s.Center.Lon = lon - math32.Pi
}

func (w *SphericalWorld) Matrix() mgl32.Mat4 { return w.model }

// InverseModel returns the inverse of the model matrix, used by the globe
// ray-caster.
func (w *SphericalWorld) InverseModel() mgl32.Mat4 { return w.inv }

func (w *SphericalWorld) OnTick(s *State, elapsedMicros int64) bool {
	return tick(w.scroll, s)
}
