// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mapview

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/gogpu/mapview/camera"
	"github.com/gogpu/mapview/gfx"
	"github.com/gogpu/mapview/layer"
	"github.com/gogpu/mapview/program"
	"github.com/gogpu/mapview/tiles"
	"github.com/gogpu/mapview/viewport"
	"github.com/gogpu/mapview/world"
	"github.com/gogpu/mapview/world/autoscroll"
)

// gridRadius is how many tiles around the centre the default grid covers.
const gridRadius = 2

// Session is one map view: the program registry, the active world, the
// view state and the layers drawn from them.
//
// A Session is not safe for concurrent use.
type Session struct {
	dev    gfx.Device
	state  *world.State
	world  world.World
	scroll *autoscroll.Inertia
	progs  *program.Registry
	env    *layer.Env
	comp   *layer.Compositor
	camera *camera.Camera
	vp     layer.Viewport
	grid   *tiles.Grid
	closed bool
}

// NewSession builds every shader program on dev, creates the initial
// world and initialises the layers. On failure everything created so far
// is released.
func NewSession(dev gfx.Device, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}
	if o.zoom < 0 || o.zoom > MaxZoom {
		return nil, fmt.Errorf("%w: %d", ErrZoomRange, o.zoom)
	}

	s := &Session{dev: dev, state: world.NewState(o.zoom)}
	if o.centered {
		s.state.SetCenterLatLon(o.lat, o.lon)
	}

	scroll := append([]autoscroll.Option{autoscroll.WithWorld(s.World)}, o.scroll...)
	s.scroll = autoscroll.New(scroll...)

	w, err := world.New(o.kind, s.scroll)
	if err != nil {
		return nil, fmt.Errorf("mapview: %w", err)
	}
	s.world = w
	s.restrict()
	s.world.Move(s.state)

	s.progs, err = program.New(dev, o.src)
	if err != nil {
		return nil, fmt.Errorf("mapview: %w", err)
	}

	s.vp = o.viewport
	if s.vp == nil {
		s.vp = viewport.Fixed{W: DefaultWidth, H: DefaultHeight}
	}
	s.camera = o.camera
	if s.camera == nil {
		s.camera = camera.New(defaultDistance)
	}
	s.camera.SetAspect(s.vp.Width(), s.vp.Height())

	enum := o.tiles
	if enum == nil {
		b, z := tileBound(s.state)
		s.grid = tiles.NewGrid(s.state, b, z)
		enum = s.grid
	}

	s.env = &layer.Env{
		Device:   dev,
		Programs: s.progs,
		World:    s.World,
		State:    s.state,
		Camera:   s.camera,
		Viewport: s.vp,
		Tiles:    enum,
	}
	fns := o.layerFuncs()
	ls := make([]layer.Layer, len(fns))
	for i, fn := range fns {
		ls[i] = fn(s.env)
	}
	s.comp = layer.New(ls...)
	if err := s.comp.Init(); err != nil {
		s.progs.Destroy()
		return nil, fmt.Errorf("mapview: %w", err)
	}
	s.comp.Zoom(s.state.Zoom)

	Logger().Info("mapview: session ready",
		"world", o.kind, "zoom", o.zoom, "layers", s.comp.Len())
	return s, nil
}

// World returns the active world.
func (s *Session) World() world.World { return s.world }

// State returns the view state shared with the active world.
func (s *Session) State() *world.State { return s.state }

// Programs returns the program registry.
func (s *Session) Programs() *program.Registry { return s.progs }

// Camera returns the main view camera.
func (s *Session) Camera() *camera.Camera { return s.camera }

// SetWorld switches the projection model. The centre is brought inside the
// bounds of the new world.
func (s *Session) SetWorld(kind world.Kind) error {
	if s.closed {
		return ErrClosed
	}
	if s.world.Kind() == kind {
		return nil
	}
	w, err := world.New(kind, s.scroll)
	if err != nil {
		return fmt.Errorf("mapview: %w", err)
	}
	s.world = w
	s.restrict()
	s.world.Move(s.state)
	s.updateTiles()
	Logger().Info("mapview: world changed", "world", kind)
	return nil
}

// Move pans the centre by dx, dy tile units.
func (s *Session) Move(dx, dy float32) {
	if s.closed {
		return
	}
	c := s.state.Center.Tile
	s.state.SetCenterTile(c.X+dx, c.Y+dy)
	s.restrict()
	s.world.Move(s.state)
	s.updateTiles()
}

// SetCenter moves the centre to a geographic position in radians.
func (s *Session) SetCenter(lat, lon float32) {
	if s.closed {
		return
	}
	s.state.SetCenterLatLon(lat, lon)
	s.world.CenterRestrictLatLon(s.state)
	s.state.SetCenterLatLon(s.state.Center.Lat, s.state.Center.Lon)
	s.world.Move(s.state)
	s.updateTiles()
}

// SetZoom changes the zoom level, keeping the geographic centre.
func (s *Session) SetZoom(level int) error {
	if s.closed {
		return ErrClosed
	}
	if level < 0 || level > MaxZoom {
		return fmt.Errorf("%w: %d", ErrZoomRange, level)
	}
	s.state.SetZoom(level)
	s.restrict()
	s.world.Zoom(s.state)
	s.comp.Zoom(level)
	s.updateTiles()
	return nil
}

// Fling starts kinetic panning at vx, vy tile units per second.
func (s *Session) Fling(vx, vy float32) {
	if s.closed {
		return
	}
	s.scroll.Start(vx, vy)
}

// Tick advances animation by elapsed and reports whether the view changed.
func (s *Session) Tick(elapsed time.Duration) bool {
	if s.closed {
		return false
	}
	if !s.world.OnTick(s.state, elapsed.Microseconds()) {
		return false
	}
	s.world.Move(s.state)
	s.updateTiles()
	return true
}

// Frame paints every visible layer through the device.
func (s *Session) Frame() error {
	if s.closed {
		return ErrClosed
	}
	s.camera.SetAspect(s.vp.Width(), s.vp.Height())
	s.comp.Paint()
	return nil
}

// Close destroys the layers and then the program registry. Later calls are
// no-ops.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.scroll.Stop()
	s.comp.Destroy()
	s.progs.Destroy()
	Logger().Info("mapview: session closed")
}

// restrict brings the centre inside the active world's bounds in both
// tile and geographic form.
func (s *Session) restrict() {
	s.world.CenterRestrictTile(s.state)
	s.state.SetCenterTile(s.state.Center.Tile.X, s.state.Center.Tile.Y)
	s.world.CenterRestrictLatLon(s.state)
}

func (s *Session) updateTiles() {
	if s.grid == nil {
		return
	}
	s.grid.Set(tileBound(s.state))
}

// tileBound returns the bound of the tiles within gridRadius of the
// centre at the state's zoom level.
func tileBound(st *world.State) (orb.Bound, maptile.Zoom) {
	z := maptile.Zoom(st.Zoom)
	c := orb.Point{
		float64(st.Center.Lon * 180 / math32.Pi),
		float64(st.Center.Lat * 180 / math32.Pi),
	}
	c[1] = max(tiles.WorldBound.Min[1], min(c[1], tiles.WorldBound.Max[1]))
	mt := maptile.At(c, z)

	last := uint32(1)<<uint32(z) - 1
	lo := maptile.New(mt.X-min(mt.X, gridRadius), mt.Y-min(mt.Y, gridRadius), z)
	hi := maptile.New(min(mt.X+gridRadius, last), min(mt.Y+gridRadius, last), z)
	b := orb.Bound{Min: lo.Center(), Max: lo.Center()}
	return b.Extend(hi.Center()), z
}
