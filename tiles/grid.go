// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package tiles

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/gogpu/mapview/world"
)

// WorldBound covers the whole Web Mercator square.
var WorldBound = orb.Bound{Min: orb.Point{-180, -85.0511}, Max: orb.Point{180, 85.0511}}

// Grid enumerates every slippy-map tile at one zoom level that intersects
// a geographic bound, row by row from the north-west corner. Tiles are
// scaled to the current size of the world state.
type Grid struct {
	state *world.State
	zoom  maptile.Zoom

	min, max maptile.Tile
	x, y     uint32
}

// NewGrid returns a Grid over b at zoom z.
func NewGrid(s *world.State, b orb.Bound, z maptile.Zoom) *Grid {
	g := &Grid{state: s}
	g.Set(b, z)
	return g
}

// Set changes the bound and zoom level. The next call must be First.
func (g *Grid) Set(b orb.Bound, z maptile.Zoom) {
	last := uint32(1)<<uint32(z) - 1
	g.zoom = z
	g.min = maptile.At(b.LeftTop(), z)
	g.max = maptile.At(b.RightBottom(), z)
	g.min.X, g.min.Y = min(g.min.X, last), min(g.min.Y, last)
	g.max.X, g.max.Y = min(g.max.X, last), min(g.max.Y, last)
	g.y = g.max.Y + 1
}

// Zoom returns the tile zoom level of the grid.
func (g *Grid) Zoom() maptile.Zoom { return g.zoom }

// Len returns the number of tiles the grid yields.
func (g *Grid) Len() int {
	return int(g.max.X-g.min.X+1) * int(g.max.Y-g.min.Y+1)
}

func (g *Grid) First() (Tile, bool) {
	g.x, g.y = g.min.X, g.min.Y
	return g.Next()
}

func (g *Grid) Next() (Tile, bool) {
	if g.y > g.max.Y {
		return Tile{}, false
	}
	t := g.place(maptile.New(g.x, g.y, g.zoom))
	g.x++
	if g.x > g.max.X {
		g.x = g.min.X
		g.y++
	}
	return t, true
}

func (g *Grid) place(mt maptile.Tile) Tile {
	side := g.state.Size / float32(uint64(1)<<uint32(mt.Z))
	return Tile{
		X:      float32(mt.X) * side,
		Y:      float32(mt.Y) * side,
		Width:  side,
		Height: side,
		Zoom:   int(mt.Z),
	}
}
