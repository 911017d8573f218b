// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package world

import "github.com/chewxy/math32"

// Geographic bounds in radians. LatLimit is the Web Mercator cut-off
// (85.0511°) at which the projected map is square.
const (
	LatLimit = 1.4844222297453324
	LatMin   = -LatLimit
	LatMax   = LatLimit
	LonMin   = -math32.Pi
	LonMax   = math32.Pi
)

// Tile is a position in tile space: origin top-left, x east, y south,
// both in [0, size].
type Tile struct {
	X, Y float32
}

// Coords holds the same location in tile and geographic (radian) form.
type Coords struct {
	Tile Tile
	Lat  float32
	Lon  float32
}

// State is the view state shared by the active World and its callers.
// World methods are its only writers during a frame.
type State struct {
	// Size is the edge length of the world in render units: 1<<Zoom.
	Size   float32
	Center Coords
	Zoom   int
}

// NewState returns a state at zoom centred on lat 0, lon 0.
func NewState(zoom int) *State {
	s := &State{Zoom: zoom, Size: sizeAt(zoom)}
	s.SetCenterLatLon(0, 0)
	return s
}

func sizeAt(zoom int) float32 {
	return float32(uint64(1) << uint(zoom))
}

// SetZoom changes the zoom level and rescales the tile centre so that the
// geographic centre is unchanged.
func (s *State) SetZoom(zoom int) {
	if zoom < 0 {
		zoom = 0
	}
	size := sizeAt(zoom)
	if s.Size > 0 {
		scale := size / s.Size
		s.Center.Tile.X *= scale
		s.Center.Tile.Y *= scale
	}
	s.Zoom = zoom
	s.Size = size
}

// SetCenterLatLon moves the centre to a geographic position and updates
// the tile form through the Mercator projection.
func (s *State) SetCenterLatLon(lat, lon float32) {
	s.Center.Lat = lat
	s.Center.Lon = lon
	s.Center.Tile.X = s.Size * (0.5 + lon/(2*math32.Pi))
	s.Center.Tile.Y = s.Size * (0.5 - mercatorY(lat)/(2*math32.Pi))
}

// SetCenterTile moves the centre to a tile-space position and updates the
// geographic form through the inverse Mercator projection.
func (s *State) SetCenterTile(x, y float32) {
	s.Center.Tile = Tile{X: x, Y: y}
	s.Center.Lon = (x/s.Size - 0.5) * 2 * math32.Pi
	s.Center.Lat = math32.Atan(math32.Sinh((0.5 - y/s.Size) * 2 * math32.Pi))
}

// mercatorY is the Mercator ordinate of a latitude, atanh(sin φ), which
// equals asinh(tan φ).
func mercatorY(lat float32) float32 {
	return math32.Atanh(math32.Sin(lat))
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
