// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import "errors"

// Common device errors.
var (
	// ErrUnknownHandle is returned when a handle was never created or has
	// already been deleted.
	ErrUnknownHandle = errors.New("gfx: unknown handle")

	// ErrOutOfHandles is returned when a device cannot allocate a resource.
	ErrOutOfHandles = errors.New("gfx: out of handles")
)
