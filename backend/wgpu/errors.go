package wgpu

import "errors"

// Package errors for the wgpu backend.
var (
	// ErrNoHAL is returned by FromProvider when the provider does not expose
	// a hal.Device and hal.Queue.
	ErrNoHAL = errors.New("wgpu: provider does not expose HAL types")

	// ErrNotCompiled is returned by LinkProgram when an attached shader has
	// not been compiled successfully.
	ErrNotCompiled = errors.New("wgpu: shader not compiled")

	// ErrNoFragment is returned by LinkProgram when no fragment stage is
	// attached.
	ErrNoFragment = errors.New("wgpu: no fragment stage attached")

	// ErrDestroyed is returned by operations on a destroyed device.
	ErrDestroyed = errors.New("wgpu: device destroyed")

	// ErrNoTarget is returned by Submit when the target has no view.
	ErrNoTarget = errors.New("wgpu: nil target view")
)
