// Package backend selects the GPU device a map session draws through.
//
// Device implementations register a Factory under a name from an init
// function, so importing a backend package is enough to make it
// available:
//
//	import _ "github.com/gogpu/mapview/backend/wgpu"
//
// # Backend Selection
//
// Use Default to open the best available backend, or Open to request one
// by name:
//
//	b, err := backend.Open(backend.WGPU, 800, 600)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	s, err := mapview.NewSession(b.Device())
//	...
//	s.Frame()
//	b.Present()
//
// # Available Backends
//
// - "wgpu": offscreen rendering through the gogpu HAL (backend/wgpu)
package backend
