// Package wgpu implements gfx.Device on the gogpu/wgpu hardware
// abstraction layer.
//
// The gfx contract is immediate and GL-shaped: a program is made current,
// uniforms are set one by one, and draw calls read client vertex and index
// data at the moment they are issued. WebGPU records work into command
// buffers instead, so this package snapshots every draw into per-frame
// arenas and replays the whole frame in a single render pass on Submit.
// Vertex buffers are copied once per BufferData; later draws in the same
// frame reuse that copy.
//
// # Shaders
//
// Shader stages are WGSL. CompileShader parses, lowers and validates the
// stage with naga before creating the HAL shader module, so compile logs
// are naga diagnostics. A program linked without a vertex stage gets a
// built-in pass-through vertex stage that forwards a clip-space
// vec2 at @location(0).
//
// # Locations
//
// Uniforms live in one struct at @group(0) @binding(0). A uniform location
// is the byte offset of the member in that struct; attribute locations are
// @location indices. Each program keeps a staging copy of its uniform
// struct and every draw snapshots it into a dynamic-offset uniform buffer.
//
// # Frames
//
//	dev := wgpu.New(halDevice, halQueue, gputypes.TextureFormatBGRA8Unorm)
//	defer dev.Destroy()
//
//	// ... issue gfx calls for one frame ...
//
//	if err := dev.Submit(wgpu.Target{View: view, Width: w, Height: h}); err != nil {
//	    return err
//	}
//
// Render pipelines are created on first use and cached per program,
// vertex array, topology, blend and depth state, keeping the most
// recently used ones. LineLoop draws are
// expanded to line lists since WebGPU has no loop topology.
//
// A Device is not safe for concurrent use.
package wgpu
