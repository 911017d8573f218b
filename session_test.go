package mapview

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/mapview/gfx"
	"github.com/gogpu/mapview/gfx/gfxtest"
	"github.com/gogpu/mapview/layer"
	"github.com/gogpu/mapview/program"
	"github.com/gogpu/mapview/tiles"
	"github.com/gogpu/mapview/world"
	"github.com/gogpu/mapview/world/autoscroll"
)

func newSession(t *testing.T, opts ...Option) (*Session, *gfxtest.Device) {
	t.Helper()
	dev := gfxtest.New()
	s, err := NewSession(dev, opts...)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s, dev
}

func assertNoLeaks(t *testing.T, dev *gfxtest.Device) {
	t.Helper()
	for name, c := range map[string]gfxtest.Counter{
		"shaders":       dev.Shaders,
		"programs":      dev.Programs,
		"buffers":       dev.Buffers,
		"vertex arrays": dev.VertexArrays,
	} {
		if c.Live() != 0 {
			t.Errorf("live %s = %d, want 0", name, c.Live())
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	dev := gfxtest.New()
	s, err := NewSession(dev)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if s.World().Kind() != world.Planar {
		t.Errorf("World().Kind() = %v, want planar", s.World().Kind())
	}
	if err := s.Frame(); err != nil {
		t.Fatalf("Frame() = %v", err)
	}
	if len(dev.Draws) < 2 {
		t.Errorf("draws = %d, want at least background and cursor", len(dev.Draws))
	}

	s.Close()
	assertNoLeaks(t, dev)

	s.Close()
	if err := s.Frame(); !errors.Is(err, ErrClosed) {
		t.Errorf("Frame() after Close = %v, want ErrClosed", err)
	}
	if err := s.SetZoom(3); !errors.Is(err, ErrClosed) {
		t.Errorf("SetZoom() after Close = %v, want ErrClosed", err)
	}
}

func TestSessionSetWorld(t *testing.T) {
	s, dev := newSession(t, WithLayers(Background, Basemap, Cursor))

	if err := s.Frame(); err != nil {
		t.Fatal(err)
	}
	if len(dev.Draws) != 2 {
		t.Errorf("planar draws = %d, want 2", len(dev.Draws))
	}

	if err := s.SetWorld(world.Spherical); err != nil {
		t.Fatalf("SetWorld() = %v", err)
	}
	if s.World().Kind() != world.Spherical {
		t.Fatalf("World().Kind() = %v, want spherical", s.World().Kind())
	}
	dev.Reset()
	if err := s.Frame(); err != nil {
		t.Fatal(err)
	}
	if len(dev.Draws) != 3 {
		t.Errorf("spherical draws = %d, want 3", len(dev.Draws))
	}

	if err := s.SetWorld(world.Kind(9)); !errors.Is(err, world.ErrUnknownKind) {
		t.Errorf("SetWorld(9) = %v, want ErrUnknownKind", err)
	}
	if s.World().Kind() != world.Spherical {
		t.Error("failed SetWorld replaced the world")
	}
}

func TestSessionMoveRestricts(t *testing.T) {
	t.Run("planar", func(t *testing.T) {
		s, _ := newSession(t)
		s.Move(100, -100)
		c := s.State().Center
		if c.Tile != (world.Tile{X: 4, Y: 0}) {
			t.Errorf("tile = %+v, want {4 0}", c.Tile)
		}
		if c.Lat > world.LatMax || c.Lon > world.LonMax {
			t.Errorf("lat, lon = %v, %v out of bounds", c.Lat, c.Lon)
		}
	})
	t.Run("spherical", func(t *testing.T) {
		s, _ := newSession(t, WithWorld(world.Spherical))
		s.Move(3, 0)
		if got := s.State().Center.Tile.X; got != 1 {
			t.Errorf("tile x = %v, want 1", got)
		}
	})
}

func TestSessionSetZoom(t *testing.T) {
	s, _ := newSession(t)
	if err := s.SetZoom(5); err != nil {
		t.Fatalf("SetZoom(5) = %v", err)
	}
	st := s.State()
	if st.Zoom != 5 || st.Size != 32 {
		t.Errorf("zoom, size = %d, %v, want 5, 32", st.Zoom, st.Size)
	}
	if st.Center.Tile != (world.Tile{X: 16, Y: 16}) || st.Center.Lat != 0 || st.Center.Lon != 0 {
		t.Errorf("centre = %+v", st.Center)
	}

	for _, level := range []int{-1, MaxZoom + 1} {
		if err := s.SetZoom(level); !errors.Is(err, ErrZoomRange) {
			t.Errorf("SetZoom(%d) = %v, want ErrZoomRange", level, err)
		}
	}
	if st.Zoom != 5 {
		t.Errorf("zoom after rejected SetZoom = %d", st.Zoom)
	}
}

func TestNewSessionZoomsLayers(t *testing.T) {
	var o *layer.Overview
	s, _ := newSession(t, WithZoom(3), WithLayers(func(env *layer.Env) layer.Layer {
		o = layer.NewOverview(env, 0, -1)
		return o
	}))
	want := s.State().Size + float32(1<<3)/layer.OverviewSide
	if o.Extent() != want {
		t.Errorf("Extent() at zoom 3 = %v, want %v", o.Extent(), want)
	}
}

func TestNewSessionZoomRange(t *testing.T) {
	_, err := NewSession(gfxtest.New(), WithZoom(MaxZoom+1))
	if !errors.Is(err, ErrZoomRange) {
		t.Errorf("NewSession() = %v, want ErrZoomRange", err)
	}
}

func TestSessionFlingTick(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	s, _ := newSession(t, WithAutoscroll(
		autoscroll.WithClock(clock),
		autoscroll.WithHalfLife(250*time.Millisecond),
	))

	if s.Tick(time.Millisecond) {
		t.Error("Tick() = true with no scroll")
	}

	s.Fling(1, 0)
	now = now.Add(250 * time.Millisecond)
	if !s.Tick(250 * time.Millisecond) {
		t.Fatal("Tick() = false during scroll")
	}
	if x := s.State().Center.Tile.X; x <= 2 || x >= 2.25 {
		t.Errorf("tile x = %v, want in (2, 2.25)", x)
	}
	if want := s.State().Center.Tile.X; s.World().Matrix()[12] != -want {
		t.Errorf("model translation x = %v, want %v", s.World().Matrix()[12], -want)
	}
}

func TestSessionTileGrid(t *testing.T) {
	s, _ := newSession(t)
	if got := s.grid.Len(); got != 16 {
		t.Errorf("zoom 2 grid = %d tiles, want 16", got)
	}
	if err := s.SetZoom(8); err != nil {
		t.Fatal(err)
	}
	if got := s.grid.Len(); got != 25 {
		t.Errorf("zoom 8 grid = %d tiles, want 25", got)
	}
	if tl, ok := s.grid.First(); !ok || tl.Zoom != 8 {
		t.Errorf("First() = %+v, %v", tl, ok)
	}
}

func TestWithTilesSkipsGrid(t *testing.T) {
	s, _ := newSession(t, WithTiles(tiles.NewSlice()))
	if s.grid != nil {
		t.Error("grid created despite WithTiles")
	}
	s.Move(1, 1)
}

func TestNewSessionCompileFailureReleases(t *testing.T) {
	dev := gfxtest.New()
	dev.FailCompile = func(gfx.Stage, []byte) error { return errors.New("0:1: syntax error") }

	_, err := NewSession(dev)
	var ce *program.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("NewSession() = %v, want *program.CompileError", err)
	}
	assertNoLeaks(t, dev)
}

type failLayer struct{ err error }

func (f failLayer) Init() error  { return f.err }
func (failLayer) Paint()         {}
func (failLayer) Zoom(int)       {}
func (failLayer) Occludes() bool { return false }
func (failLayer) Destroy()       {}

func TestNewSessionLayerFailureReleases(t *testing.T) {
	dev := gfxtest.New()
	boom := errors.New("boom")
	_, err := NewSession(dev, WithLayers(
		Cursor,
		func(*layer.Env) layer.Layer { return failLayer{err: boom} },
	))
	if !errors.Is(err, boom) {
		t.Fatalf("NewSession() = %v, want boom", err)
	}
	assertNoLeaks(t, dev)
}
