package mapview

import "errors"

// Sentinel errors returned by Session.
var (
	// ErrClosed is returned when a closed Session is used.
	ErrClosed = errors.New("mapview: session closed")

	// ErrZoomRange is returned for a zoom level outside [0, MaxZoom].
	ErrZoomRange = errors.New("mapview: zoom level out of range")
)
