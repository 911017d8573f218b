// Package shader names the compiled-in shader sources and resolves them to
// WGSL bytes.
package shader

import (
	"embed"
	"errors"
	"fmt"
)

// ErrUnknownSource is returned when a Source has no registered file.
var ErrUnknownSource = errors.New("shader: unknown source")

// Source identifies one shader stage's source text.
type Source uint8

// None marks a stage as absent from a program.
const None Source = 0

// Compiled-in stages.
const (
	BkgdVertex Source = iota + 1
	BkgdFragment
	CursorFragment
	SolidVertex
	SolidFragment
	FrustumVertex
	FrustumFragment
	BasemapSphericalVertex
	BasemapSphericalFragment
)

var files = map[Source]string{
	BkgdVertex:               "shaders/bkgd.vert.wgsl",
	BkgdFragment:             "shaders/bkgd.frag.wgsl",
	CursorFragment:           "shaders/cursor.frag.wgsl",
	SolidVertex:              "shaders/solid.vert.wgsl",
	SolidFragment:            "shaders/solid.frag.wgsl",
	FrustumVertex:            "shaders/frustum.vert.wgsl",
	FrustumFragment:          "shaders/frustum.frag.wgsl",
	BasemapSphericalVertex:   "shaders/basemap_spherical.vert.wgsl",
	BasemapSphericalFragment: "shaders/basemap_spherical.frag.wgsl",
}

// String returns the file the source is embedded from, or "none".
func (s Source) String() string {
	if s == None {
		return "none"
	}
	if f, ok := files[s]; ok {
		return f
	}
	return fmt.Sprintf("Source(%d)", uint8(s))
}

// Provider resolves a Source to its bytes. The returned slice must stay
// valid and unmodified for at least the duration of one compile call.
type Provider interface {
	Resolve(s Source) ([]byte, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(s Source) ([]byte, error)

// Resolve calls f(s).
func (f ProviderFunc) Resolve(s Source) ([]byte, error) { return f(s) }

//go:embed shaders/*.wgsl
var embedded embed.FS

type embeddedProvider struct{}

// Embedded returns the Provider backed by the shaders compiled into the
// binary.
func Embedded() Provider { return embeddedProvider{} }

func (embeddedProvider) Resolve(s Source) ([]byte, error) {
	name, ok := files[s]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSource, uint8(s))
	}
	return embedded.ReadFile(name)
}

// All returns every defined Source except None, in declaration order.
func All() []Source {
	out := make([]Source, 0, len(files))
	for s := BkgdVertex; s <= BasemapSphericalFragment; s++ {
		out = append(out, s)
	}
	return out
}
