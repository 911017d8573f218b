// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gfx defines the GPU device contract used by the map renderer.
//
// The contract is deliberately shaped like a classic immediate-mode graphics
// API: shader stages are compiled and attached to programs, programs are
// linked and introspected for named uniform and attribute locations, vertex
// arrays describe how buffer bytes map onto attribute locations, and draw
// calls reference a vertex array plus an optional client-side index list.
//
// Two implementations ship with the module:
//
//   - backend/wgpu records draws and replays them through gogpu/wgpu HAL
//   - gfx/gfxtest records every call for tests
//
// All handles are plain integers; the zero value of every handle type means
// "none". A Device is not safe for concurrent use: the renderer drives it
// from a single goroutine, one frame at a time.
package gfx
