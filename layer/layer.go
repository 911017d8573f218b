// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package layer composes independently implemented overlays into a frame.
//
// A Compositor owns an ordered list of Layers. Every frame it asks each
// layer, top to bottom, whether it fully covers the frame, and paints only
// from the topmost occluding layer upward. Layers reach the GPU, the
// program registry and the view state through a shared Env.
package layer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapview/gfx"
	"github.com/gogpu/mapview/program"
	"github.com/gogpu/mapview/tiles"
	"github.com/gogpu/mapview/world"
)

// Layer is one visual overlay.
//
// Init is called once before the first Paint and Destroy once at
// shutdown. Zoom is called whenever the zoom level changes.
type Layer interface {
	Init() error
	Paint()
	Zoom(level int)
	Occludes() bool
	Destroy()
}

// Camera is the main view camera.
type Camera interface {
	ViewProj() mgl32.Mat4
	Position() mgl32.Vec3
}

// Viewport is the render surface size in pixels.
type Viewport interface {
	Width() int
	Height() int
}

// Env is the render-session context shared by all layers. Layers only
// read from it.
type Env struct {
	Device   gfx.Device
	Programs *program.Registry
	World    func() world.World
	State    *world.State
	Camera   Camera
	Viewport Viewport
	Tiles    tiles.Enumerator
}
