// Package world converts geographic and tile coordinates into render space
// for the two projection models, planar and spherical.
//
// Exactly one World is active at a time. Every World keeps its own model
// matrix and enforces its own centre bounds on the shared State.
package world

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownKind is returned by ParseKind for an unrecognised name.
var ErrUnknownKind = errors.New("world: unknown kind")

// Kind selects a projection model.
type Kind uint8

// Projection models.
const (
	Planar Kind = iota
	Spherical
)

func (k Kind) String() string {
	switch k {
	case Planar:
		return "planar"
	case Spherical:
		return "spherical"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind parses "planar" or "spherical", ignoring case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "planar":
		return Planar, nil
	case "spherical":
		return Spherical, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// World is a projection model.
type World interface {
	Kind() Kind

	// Project maps a geographic position (radians) to a render-space
	// vertex and surface normal, both transformed by the model matrix.
	Project(s *State, lat, lon float32) (vertex, normal mgl32.Vec4)

	// Move and Zoom rebuild the model matrix after the centre or zoom
	// level of s changed.
	Move(s *State)
	Zoom(s *State)

	// CenterRestrictTile and CenterRestrictLatLon bring the centre of s
	// back inside the bounds of this projection.
	CenterRestrictTile(s *State)
	CenterRestrictLatLon(s *State)

	// Matrix returns the current model matrix.
	Matrix() mgl32.Mat4

	// OnTick advances animation by elapsedMicros and reports whether the
	// view changed.
	OnTick(s *State, elapsedMicros int64) bool
}

// Autoscroller animates the centre of a State, for example kinetic
// panning. Update reports whether it changed s.
type Autoscroller interface {
	Update(s *State) bool
}

// New returns a World of the given kind.
func New(kind Kind, a Autoscroller) (World, error) {
	switch kind {
	case Planar:
		return NewPlanar(a), nil
	case Spherical:
		return NewSpherical(a), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
}

func tick(a Autoscroller, s *State) bool {
	if a == nil {
		return false
	}
	return a.Update(s)
}
