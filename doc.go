// Package mapview is the core of a GPU tiled map renderer.
//
// # Overview
//
// A Session ties together the pieces needed to draw a map frame:
//
//   - a program registry (package program) that compiles and links every
//     shader program once and exposes its attribute and uniform locations
//   - the active World (package world), planar or spherical, that maps
//     geographic positions into render space and keeps the view centre in
//     bounds
//   - a layer compositor (package layer) that paints the background, the
//     globe basemap, the centre cursor and the overview minimap
//
// Sessions draw through a gfx.Device. The backend/wgpu package implements
// one on top of the gogpu HAL; gfx/gfxtest provides a recording fake.
//
// # Quick Start
//
//	dev, err := wgpu.FromProvider(provider)
//	if err != nil {
//	    return err
//	}
//	s, err := mapview.NewSession(dev,
//	    mapview.WithWorld(world.Spherical),
//	    mapview.WithZoom(4),
//	)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	for running {
//	    s.Tick(dt)
//	    s.Frame()
//	    dev.Submit(wgpu.Target{View: view, Width: w, Height: h})
//	}
//
// # Configuration
//
// Sessions are configured with functional options. Options can also be
// derived from a YAML file through package config and OptionsFromConfig.
//
// # Logging
//
// mapview is silent by default. Call SetLogger to route the diagnostics of
// every sub-package to a slog.Logger.
//
// # Concurrency
//
// A Session and the Device it draws to must be used from one goroutine.
// SetLogger and Logger are safe for concurrent use.
package mapview
