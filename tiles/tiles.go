// Package tiles defines the visible-tile cursor consumed by layers, with a
// slice-backed implementation and a slippy-map grid over a bound.
package tiles

// Tile is a map tile placed in world units, in top-left-origin tile space.
type Tile struct {
	X, Y          float32
	Width, Height float32
	Zoom          int
}

// Enumerator is a restartable forward cursor over the visible tiles.
// First rewinds and returns the first tile; Next returns the following
// one. ok is false once the tiles are exhausted.
type Enumerator interface {
	First() (t Tile, ok bool)
	Next() (t Tile, ok bool)
}

// Slice enumerates a fixed list of tiles.
type Slice struct {
	Tiles []Tile
	pos   int
}

// NewSlice returns an enumerator over ts.
func NewSlice(ts ...Tile) *Slice { return &Slice{Tiles: ts} }

func (s *Slice) First() (Tile, bool) {
	s.pos = 0
	return s.Next()
}

func (s *Slice) Next() (Tile, bool) {
	if s.pos >= len(s.Tiles) {
		return Tile{}, false
	}
	t := s.Tiles[s.pos]
	s.pos++
	return t, true
}
