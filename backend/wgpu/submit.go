package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mapview/gfx"
)

const depthFormat = gputypes.TextureFormatDepth24Plus

// Target is the surface a frame is rendered to.
type Target struct {
	View   hal.TextureView
	Width  uint32
	Height uint32
	Clear  gputypes.Color
}

// depthMode distinguishes pipelines for passes with and without a depth
// attachment.
type depthMode uint8

const (
	depthNone depthMode = iota
	depthOff
	depthTest
)

type pipelineKey struct {
	program  gfx.ProgramID
	vao      gfx.VertexArrayID
	gen      uint32
	topology gputypes.PrimitiveTopology
	blend    bool
	depth    depthMode
}

// gpuBuffer is a growable GPU buffer the frame arenas are uploaded to.
type gpuBuffer struct {
	buf   hal.Buffer
	size  uint64
	label string
	usage gputypes.BufferUsage
}

// ensure grows b to hold n bytes. grew reports whether the buffer was
// replaced.
func (b *gpuBuffer) ensure(dev hal.Device, n uint64) (grew bool, err error) {
	if n <= b.size && b.buf != nil {
		return false, nil
	}
	size := max(b.size, uniformAlignment)
	for size < n {
		size *= 2
	}
	buf, err := dev.CreateBuffer(&hal.BufferDescriptor{Label: b.label, Size: size, Usage: b.usage})
	if err != nil {
		return false, fmt.Errorf("create %s buffer: %w", b.label, err)
	}
	b.destroy(dev)
	b.buf, b.size = buf, size
	return true, nil
}

func (b *gpuBuffer) destroy(dev hal.Device) {
	if b.buf != nil {
		dev.DestroyBuffer(b.buf)
		b.buf, b.size = nil, 0
	}
}

type depthTarget struct {
	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
}

func (t *depthTarget) destroy(dev hal.Device) {
	if t.view != nil {
		dev.DestroyTextureView(t.view)
	}
	if t.tex != nil {
		dev.DestroyTexture(t.tex)
	}
	*t = depthTarget{}
}

// inflight is a submitted command buffer awaiting completion.
type inflight struct {
	enc   hal.CommandEncoder
	cmd   hal.CommandBuffer
	index uint64

	// pipelines evicted before this submission, destroyed with it.
	pipelines []hal.RenderPipeline
}

func (f inflight) free(dev hal.Device) {
	dev.FreeCommandBuffer(f.cmd)
	f.enc.Destroy()
	for _, pl := range f.pipelines {
		dev.DestroyRenderPipeline(pl)
	}
}

// maxPipelines bounds the pipeline cache. Rebinding a vertex array
// invalidates its pipelines, so stale ones age out here.
const maxPipelines = 64

// retire is the pipeline cache eviction callback. An evicted pipeline may
// still be referenced by recorded or in-flight work, so it is destroyed
// once the next submission completes.
func (d *Device) retire(_ pipelineKey, pl hal.RenderPipeline) {
	d.retired = append(d.retired, pl)
}

// reclaim frees command buffers the queue has finished with.
func (d *Device) reclaim() {
	done := d.queue.PollCompleted()
	keep := d.inflight[:0]
	for _, f := range d.inflight {
		if f.index <= done {
			f.free(d.dev)
			continue
		}
		keep = append(keep, f)
	}
	d.inflight = keep
}

// Submit uploads the recorded frame, encodes it as one render pass on t
// and submits it. The recording is cleared whether or not Submit succeeds.
func (d *Device) Submit(t Target) error {
	if d.destroyed {
		return ErrDestroyed
	}
	if t.View == nil {
		return ErrNoTarget
	}
	defer d.frame.reset()
	d.reclaim()

	if err := d.upload(); err != nil {
		return err
	}
	mode, err := d.depthAttachment(t)
	if err != nil {
		return err
	}

	enc, err := d.dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "mapview_frame"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := enc.BeginEncoding("mapview_frame"); err != nil {
		enc.Destroy()
		return fmt.Errorf("begin encoding: %w", err)
	}

	desc := &hal.RenderPassDescriptor{
		Label: "mapview_frame",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       t.View,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: t.Clear,
		}},
	}
	if mode != depthNone {
		desc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:            d.depthTex.view,
			DepthLoadOp:     gputypes.LoadOpClear,
			DepthStoreOp:    gputypes.StoreOpDiscard,
			DepthClearValue: 1,
		}
	}
	rp := enc.BeginRenderPass(desc)
	for i := range d.frame.draws {
		if err := d.encode(rp, &d.frame.draws[i], t, mode); err != nil {
			rp.End()
			enc.DiscardEncoding()
			enc.Destroy()
			return err
		}
	}
	rp.End()

	cmd, err := enc.EndEncoding()
	if err != nil {
		enc.Destroy()
		return fmt.Errorf("end encoding: %w", err)
	}
	index, err := d.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		d.dev.FreeCommandBuffer(cmd)
		enc.Destroy()
		return fmt.Errorf("submit: %w", err)
	}
	d.inflight = append(d.inflight, inflight{enc: enc, cmd: cmd, index: index, pipelines: d.retired})
	d.retired = nil
	slogger().Debug("wgpu: frame submitted",
		"draws", len(d.frame.draws),
		"vertex_bytes", len(d.frame.vertices),
		"index_bytes", len(d.frame.indices),
		"uniform_bytes", len(d.frame.uniforms),
		"submission", index)
	return nil
}

// upload copies the frame arenas to their GPU buffers, growing them first.
func (d *Device) upload() error {
	arenas := []struct {
		buf  *gpuBuffer
		data []byte
	}{
		{&d.vertexBuf, d.frame.vertices},
		{&d.indexBuf, d.frame.indices},
		{&d.uniform, d.frame.uniforms},
	}
	for _, a := range arenas {
		if len(a.data) == 0 {
			continue
		}
		grew, err := a.buf.ensure(d.dev, uint64(len(a.data)))
		if err != nil {
			return err
		}
		if grew && a.buf == &d.uniform {
			// Bind groups reference the old uniform buffer.
			for _, prog := range d.programs {
				if prog.bindGroup != nil {
					d.dev.DestroyBindGroup(prog.bindGroup)
					prog.bindGroup = nil
				}
			}
		}
		if err := d.queue.WriteBuffer(a.buf.buf, 0, a.data); err != nil {
			return fmt.Errorf("write %s: %w", a.buf.label, err)
		}
	}
	return nil
}

// depthAttachment prepares a depth texture matching t when any recorded
// draw enables the depth test.
func (d *Device) depthAttachment(t Target) (depthMode, error) {
	need := false
	for i := range d.frame.draws {
		if d.frame.draws[i].depth {
			need = true
			break
		}
	}
	if !need {
		return depthNone, nil
	}
	if t.Width == 0 || t.Height == 0 {
		return depthNone, fmt.Errorf("wgpu: depth test needs the target size")
	}
	if d.depthTex.tex != nil && d.depthTex.width == t.Width && d.depthTex.height == t.Height {
		return depthOff, nil
	}
	d.depthTex.destroy(d.dev)
	tex, err := d.dev.CreateTexture(&hal.TextureDescriptor{
		Label:         "mapview_depth",
		Size:          hal.Extent3D{Width: t.Width, Height: t.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        depthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return depthNone, fmt.Errorf("create depth texture: %w", err)
	}
	view, err := d.dev.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           "mapview_depth_view",
		Format:          depthFormat,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		d.dev.DestroyTexture(tex)
		return depthNone, fmt.Errorf("create depth view: %w", err)
	}
	d.depthTex = depthTarget{tex: tex, view: view, width: t.Width, height: t.Height}
	return depthOff, nil
}

func (d *Device) encode(rp hal.RenderPassEncoder, dr *draw, t Target, mode depthMode) error {
	prog, ok := d.programs[dr.program]
	if !ok || !prog.linked {
		return nil
	}
	if mode != depthNone && dr.depth {
		mode = depthTest
	}
	pl, err := d.pipeline(dr, prog, mode)
	if err != nil {
		return err
	}
	rp.SetPipeline(pl)

	if vp := dr.viewport; vp[2] > 0 && vp[3] > 0 {
		y := vp[1]
		if t.Height > 0 {
			y = int(t.Height) - vp[1] - vp[3]
		}
		rp.SetViewport(float32(vp[0]), float32(y), float32(vp[2]), float32(vp[3]), 0, 1)
	}

	if len(prog.uniforms) > 0 {
		bg, err := d.bindGroup(dr.program, prog)
		if err != nil {
			return err
		}
		rp.SetBindGroup(0, bg, []uint32{dr.uniformOffset})
	}
	for i, off := range dr.vertexOffsets {
		rp.SetVertexBuffer(uint32(i), d.vertexBuf.buf, off)
	}
	if dr.indexed {
		rp.SetIndexBuffer(d.indexBuf.buf, gputypes.IndexFormatUint16, dr.indexOffset)
		rp.DrawIndexed(dr.count, 1, 0, 0, 0)
		return nil
	}
	rp.Draw(dr.count, 1, dr.first, 0)
	return nil
}

func (d *Device) bindGroup(id gfx.ProgramID, prog *linkedProgram) (hal.BindGroup, error) {
	if prog.bindGroup != nil {
		return prog.bindGroup, nil
	}
	bg, err := d.dev.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  fmt.Sprintf("mapview_program_%d_bind", id),
		Layout: prog.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: d.uniform.buf.NativeHandle(), Offset: 0, Size: uint64(len(prog.uniforms)),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	prog.bindGroup = bg
	return bg, nil
}

func vertexFormat(components int) gputypes.VertexFormat {
	switch components {
	case 1:
		return gputypes.VertexFormatFloat32
	case 3:
		return gputypes.VertexFormatFloat32x3
	case 4:
		return gputypes.VertexFormatFloat32x4
	default:
		return gputypes.VertexFormatFloat32x2
	}
}

// pipeline returns the cached render pipeline for a draw, creating it on
// first use.
func (d *Device) pipeline(dr *draw, prog *linkedProgram, mode depthMode) (hal.RenderPipeline, error) {
	key := pipelineKey{
		program:  dr.program,
		vao:      dr.vao,
		gen:      dr.gen,
		topology: dr.topology,
		blend:    dr.blend,
		depth:    mode,
	}
	if pl, ok := d.pipelines.Get(key); ok {
		return pl, nil
	}

	buffers := make([]gputypes.VertexBufferLayout, len(dr.layout))
	for i, s := range dr.layout {
		attrs := make([]gputypes.VertexAttribute, len(s.attribs))
		for j, a := range s.attribs {
			attrs[j] = gputypes.VertexAttribute{
				Format:         vertexFormat(a.Components),
				Offset:         uint64(a.Offset),
				ShaderLocation: uint32(a.Location),
			}
		}
		stride := s.stride
		if stride == 0 {
			stride = 4 * s.attribs[0].Components
		}
		buffers[i] = gputypes.VertexBufferLayout{
			ArrayStride: uint64(stride),
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  attrs,
		}
	}

	var blend *gputypes.BlendState
	if dr.blend {
		b := gputypes.BlendStateAlpha()
		blend = &b
	}
	var ds *hal.DepthStencilState
	if mode != depthNone {
		always := hal.StencilFaceState{Compare: gputypes.CompareFunctionAlways}
		ds = &hal.DepthStencilState{
			Format:           depthFormat,
			DepthCompare:     gputypes.CompareFunctionAlways,
			StencilFront:     always,
			StencilBack:      always,
			StencilReadMask:  0xFFFFFFFF,
			StencilWriteMask: 0xFFFFFFFF,
		}
		if mode == depthTest {
			ds.DepthWriteEnabled = true
			ds.DepthCompare = gputypes.CompareFunctionLess
		}
	}

	pl, err := d.dev.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("mapview_program_%d_pipeline", dr.program),
		Layout: prog.layout,
		Vertex: hal.VertexState{
			Module:     prog.vertex.hal,
			EntryPoint: prog.vertex.mod.EntryPoint,
			Buffers:    buffers,
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  dr.topology,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		DepthStencil: ds,
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &hal.FragmentState{
			Module:     prog.fragment.hal,
			EntryPoint: prog.fragment.mod.EntryPoint,
			Targets: []gputypes.ColorTargetState{{
				Format:    d.format,
				Blend:     blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}
	d.pipelines.Add(key, pl)
	slogger().Debug("wgpu: pipeline created",
		"program", dr.program, "vao", dr.vao, "topology", dr.topology, "blend", dr.blend, "depth", mode)
	return pl, nil
}
