package backend

import (
	"errors"

	"github.com/gogpu/mapview/gfx"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrInvalidSize is returned for a non-positive target size.
	ErrInvalidSize = errors.New("backend: invalid target size")
)

// Backend names.
const (
	WGPU = "wgpu"
)

// Backend owns a device and the target its frames are presented to.
type Backend interface {
	// Name returns the backend identifier (e.g. "wgpu").
	Name() string

	// Device returns the device sessions draw through.
	Device() gfx.Device

	// Present submits everything drawn on Device since the last call.
	Present() error

	// Close releases the device and its target.
	// The backend should not be used after Close is called.
	Close()
}

// Factory opens a backend rendering to a width by height target.
type Factory func(width, height int) (Backend, error)
