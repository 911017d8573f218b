package world

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-3

func near(a, b float32) bool { return math32.Abs(a-b) <= eps }

func nearVec(a, b mgl32.Vec4) bool {
	for i := range a {
		if !near(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestPlanarCenterToOrigin(t *testing.T) {
	s := &State{Size: 256}
	s.SetCenterTile(128, 128)
	w := NewPlanar(nil)
	w.Move(s)

	got := w.Matrix().Mul4x1(mgl32.Vec4{128, 128, 0, 1})
	if want := (mgl32.Vec4{0, 0, 0, 1}); !nearVec(got, want) {
		t.Errorf("Matrix() * (128,128,0,1) = %v, want %v", got, want)
	}
}

func TestPlanarTranslationRoundTrip(t *testing.T) {
	s := &State{Size: 256}
	s.SetCenterTile(40, 200)
	w := NewPlanar(nil)
	w.Move(s)
	m := w.Matrix()
	inv := m.Inv()

	for _, p := range [][2]float32{{0, 0}, {256, 256}, {40, 200}, {17.5, 99}, {256, 0}} {
		x, y := p[0], s.Size-p[1]
		v := m.Mul4x1(mgl32.Vec4{x, y, 0, 1})
		wantOffset := mgl32.Vec4{x - 40, y - (s.Size - 200), 0, 1}
		if !nearVec(v, wantOffset) {
			t.Errorf("tile %v: model = %v, want centre offset %v", p, v, wantOffset)
		}
		back := inv.Mul4x1(v)
		if !nearVec(back, mgl32.Vec4{x, y, 0, 1}) {
			t.Errorf("tile %v: inverse = %v, want (%v, %v, 0, 1)", p, back, x, y)
		}
	}
}

func TestPlanarProjectMonotonic(t *testing.T) {
	s := NewState(8)
	w := NewPlanar(nil)
	w.Move(s)

	prev := float32(math32.Inf(-1))
	for lat := float32(LatMin); lat <= LatMax; lat += 0.01 {
		v, n := w.Project(s, lat, 0)
		if v[1] <= prev {
			t.Fatalf("Project(%v).y = %v, not above previous %v", lat, v[1], prev)
		}
		prev = v[1]
		if n != (mgl32.Vec4{0, 0, 1, 0}) {
			t.Fatalf("Project(%v) normal = %v, want (0,0,1,0)", lat, n)
		}
	}
}

func TestPlanarProjectAgreesWithTile(t *testing.T) {
	s := NewState(8)
	s.SetCenterLatLon(0.7, -1.2)
	w := NewPlanar(nil)
	w.Move(s)

	v, _ := w.Project(s, 0.7, -1.2)
	if !nearVec(v, mgl32.Vec4{0, 0, 0, 1}) {
		t.Errorf("Project(centre) = %v, want origin", v)
	}
}

func TestPlanarCenterRestrictTile(t *testing.T) {
	s := &State{Size: 256}
	s.Center.Tile = Tile{X: -5, Y: 256 + 5}
	NewPlanar(nil).CenterRestrictTile(s)
	if s.Center.Tile != (Tile{X: 0, Y: 256}) {
		t.Errorf("CenterRestrictTile() = %+v, want {0 256}", s.Center.Tile)
	}

	s.Center.Tile = Tile{X: 12, Y: 34}
	NewPlanar(nil).CenterRestrictTile(s)
	if s.Center.Tile != (Tile{X: 12, Y: 34}) {
		t.Errorf("CenterRestrictTile() moved an in-bounds centre to %+v", s.Center.Tile)
	}
}

func TestPlanarCenterRestrictLatLon(t *testing.T) {
	s := NewState(4)
	s.Center.Lat, s.Center.Lon = 1.6, -4
	NewPlanar(nil).CenterRestrictLatLon(s)
	if s.Center.Lat != LatMax || s.Center.Lon != LonMin {
		t.Errorf("CenterRestrictLatLon() = (%v, %v), want (%v, %v)", s.Center.Lat, s.Center.Lon, float32(LatMax), float32(LonMin))
	}
}

func TestSphericalCenterToOrigin(t *testing.T) {
	s := NewState(10)
	s.SetCenterLatLon(0.6, 2.1)
	w := NewSpherical(nil)
	w.Move(s)

	v, n := w.Project(s, 0.6, 2.1)
	if !nearVec(v, mgl32.Vec4{0, 0, 0, 1}) {
		t.Errorf("Project(centre) vertex = %v, want origin", v)
	}
	if !nearVec(n, mgl32.Vec4{0, 0, 1, 0}) {
		t.Errorf("Project(centre) normal = %v, want +z", n)
	}

	id := w.InverseModel().Mul4(w.Matrix())
	for i := range id {
		if !near(id[i], mgl32.Ident4()[i]) {
			t.Fatalf("InverseModel() * Matrix() = %v, want identity", id)
		}
	}

	centre := w.InverseModel().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if r := centre.Vec3().Len(); math32.Abs(r-Radius(s)) > 0.01 {
		t.Errorf("|inverse model origin| = %v, want radius %v", r, Radius(s))
	}
}

func TestSphericalCenterRestrict(t *testing.T) {
	s := &State{Size: 256}
	w := NewSpherical(nil)

	s.Center.Tile = Tile{X: -10, Y: 300}
	w.CenterRestrictTile(s)
	if !near(s.Center.Tile.X, 246) || s.Center.Tile.Y != 256 {
		t.Errorf("CenterRestrictTile() = %+v, want {246 256}", s.Center.Tile)
	}

	s.Center.Lat, s.Center.Lon = -2, 1.5*math32.Pi
	w.CenterRestrictLatLon(s)
	if s.Center.Lat != LatMin || !near(s.Center.Lon, -0.5*math32.Pi) {
		t.Errorf("CenterRestrictLatLon() = (%v, %v), want (%v, %v)", s.Center.Lat, s.Center.Lon, float32(LatMin), -0.5*math32.Pi)
	}
}

type countingScroller struct{ calls int }

func (c *countingScroller) Update(s *State) bool {
	c.calls++
	s.SetCenterTile(s.Center.Tile.X+1, s.Center.Tile.Y)
	return true
}

func TestOnTick(t *testing.T) {
	s := NewState(3)
	if NewPlanar(nil).OnTick(s, 16000) {
		t.Error("OnTick() without autoscroller = true")
	}

	c := &countingScroller{}
	for _, w := range []World{NewPlanar(c), NewSpherical(c)} {
		if !w.OnTick(s, 16000) {
			t.Errorf("%v OnTick() = false, want true", w.Kind())
		}
	}
	if c.calls != 2 {
		t.Errorf("autoscroller calls = %d, want 2", c.calls)
	}
}

func TestStateConversions(t *testing.T) {
	s := NewState(0)
	if s.Size != 1 || !near(s.Center.Tile.X, 0.5) || !near(s.Center.Tile.Y, 0.5) {
		t.Errorf("NewState(0) = %+v, want size 1 centred", s)
	}

	s.SetZoom(8)
	if s.Size != 256 || !near(s.Center.Tile.X, 128) || !near(s.Center.Tile.Y, 128) {
		t.Errorf("SetZoom(8) = %+v, want size 256 centre (128,128)", s)
	}

	s.SetCenterLatLon(0.9, -0.3)
	lat, lon := s.Center.Lat, s.Center.Lon
	s.SetCenterTile(s.Center.Tile.X, s.Center.Tile.Y)
	if !near(s.Center.Lat, lat) || !near(s.Center.Lon, lon) {
		t.Errorf("tile round trip = (%v, %v), want (%v, %v)", s.Center.Lat, s.Center.Lon, lat, lon)
	}
	if s.Center.Tile.Y >= 128 {
		t.Errorf("northern latitude has tile y %v, want above the equator (< 128)", s.Center.Tile.Y)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"planar": Planar, " Spherical ": Spherical} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseKind("mercator"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(mercator) error = %v, want ErrUnknownKind", err)
	}
	if _, err := New(Kind(9), nil); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("New(Kind(9)) error = %v, want ErrUnknownKind", err)
	}
}
