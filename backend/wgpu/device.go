package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mapview/gfx"
	"github.com/gogpu/mapview/internal/cache"
	"github.com/gogpu/mapview/internal/wgsl"
)

// passthroughVertex is linked into programs that declare no vertex stage.
const passthroughVertex = `@vertex
fn main(@location(0) vertex: vec2<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(vertex, 0.0, 1.0);
}
`

// shaderModule is a compiled stage shared by its shader object and every
// program linked against it.
type shaderModule struct {
	mod  *wgsl.Module
	hal  hal.ShaderModule
	refs int
}

type shaderObject struct {
	stage gfx.Stage
	mod   *shaderModule
}

type linkedProgram struct {
	attached []gfx.ShaderID
	linked   bool

	vertex     *shaderModule
	fragment   *shaderModule
	bindLayout hal.BindGroupLayout
	layout     hal.PipelineLayout
	bindGroup  hal.BindGroup

	// uniforms is the staging copy of the uniform struct.
	uniforms []byte
}

type buffer struct {
	data []byte
	gen  uint32
}

type boundAttrib struct {
	buf gfx.BufferID
	gfx.Attrib
}

type vertexArray struct {
	attribs []boundAttrib
	gen     uint32
	slots   []vertexSlot
}

// Device implements gfx.Device on a HAL device and queue.
type Device struct {
	dev    hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	next     uint32
	shaders  map[gfx.ShaderID]*shaderObject
	programs map[gfx.ProgramID]*linkedProgram
	buffers  map[gfx.BufferID]*buffer
	arrays   map[gfx.VertexArrayID]*vertexArray

	passthrough *shaderModule

	current  gfx.ProgramID
	viewport [4]int
	depth    bool
	blend    bool

	frame     frame
	pipelines *cache.Cache[pipelineKey, hal.RenderPipeline]
	retired   []hal.RenderPipeline
	vertexBuf gpuBuffer
	indexBuf  gpuBuffer
	uniform   gpuBuffer
	depthTex  depthTarget
	inflight  []inflight

	destroyed bool
}

var _ gfx.Device = (*Device)(nil)

// New returns a device recording into dev and submitting on q. Pipelines
// render to targets of the given color format. The caller keeps ownership
// of dev and q.
func New(dev hal.Device, q hal.Queue, format gputypes.TextureFormat) *Device {
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	d := &Device{
		dev:       dev,
		queue:     q,
		format:    format,
		shaders:   make(map[gfx.ShaderID]*shaderObject),
		programs:  make(map[gfx.ProgramID]*linkedProgram),
		buffers:   make(map[gfx.BufferID]*buffer),
		arrays:    make(map[gfx.VertexArrayID]*vertexArray),
		vertexBuf: gpuBuffer{label: "mapview_vertices", usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst},
		indexBuf:  gpuBuffer{label: "mapview_indices", usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst},
		uniform:   gpuBuffer{label: "mapview_uniforms", usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst},
	}
	d.pipelines = cache.New(maxPipelines, d.retire)
	slogger().Info("wgpu: device ready", "format", format)
	return d
}

// FromProvider shares the device of a host application. The provider must
// implement HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue.
func FromProvider(p gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := p.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	dev, ok := hp.HalDevice().(hal.Device)
	if !ok || dev == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	q, ok := hp.HalQueue().(hal.Queue)
	if !ok || q == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return New(dev, q, p.SurfaceFormat()), nil
}

// Format returns the color target format pipelines are built for.
func (d *Device) Format() gputypes.TextureFormat { return d.format }

func (d *Device) handle() (uint32, error) {
	if d.destroyed {
		return 0, ErrDestroyed
	}
	if d.next == math.MaxUint32 {
		return 0, gfx.ErrOutOfHandles
	}
	d.next++
	return d.next, nil
}

// CreateShader implements gfx.Device.
func (d *Device) CreateShader(stage gfx.Stage) (gfx.ShaderID, error) {
	h, err := d.handle()
	if err != nil {
		return 0, err
	}
	id := gfx.ShaderID(h)
	d.shaders[id] = &shaderObject{stage: stage}
	return id, nil
}

// CompileShader validates src with naga and creates the HAL module. The
// returned error text is the compile log.
func (d *Device) CompileShader(id gfx.ShaderID, src []byte) error {
	obj, ok := d.shaders[id]
	if !ok {
		return fmt.Errorf("wgpu: shader %d: %w", id, gfx.ErrUnknownHandle)
	}
	stage := wgsl.Vertex
	if obj.stage == gfx.StageFragment {
		stage = wgsl.Fragment
	}
	sm, err := d.compile(stage, src, fmt.Sprintf("mapview_%s_%d", obj.stage, id))
	if err != nil {
		return err
	}
	if obj.mod != nil {
		d.release(obj.mod)
	}
	obj.mod = sm
	return nil
}

func (d *Device) compile(stage wgsl.Stage, src []byte, label string) (*shaderModule, error) {
	mod, err := wgsl.Compile(stage, src)
	if err != nil {
		return nil, err
	}
	hm, err := d.dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{WGSL: mod.Source},
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module: %w", err)
	}
	return &shaderModule{mod: mod, hal: hm, refs: 1}, nil
}

func (d *Device) release(sm *shaderModule) {
	sm.refs--
	if sm.refs == 0 {
		d.dev.DestroyShaderModule(sm.hal)
	}
}

// DeleteShader implements gfx.Device. Programs already linked against the
// shader keep their own reference to the compiled module.
func (d *Device) DeleteShader(id gfx.ShaderID) {
	obj, ok := d.shaders[id]
	if !ok {
		return
	}
	if obj.mod != nil {
		d.release(obj.mod)
	}
	delete(d.shaders, id)
}

// CreateProgram implements gfx.Device.
func (d *Device) CreateProgram() (gfx.ProgramID, error) {
	h, err := d.handle()
	if err != nil {
		return 0, err
	}
	id := gfx.ProgramID(h)
	d.programs[id] = &linkedProgram{}
	return id, nil
}

// AttachShader implements gfx.Device.
func (d *Device) AttachShader(p gfx.ProgramID, s gfx.ShaderID) {
	prog, ok := d.programs[p]
	if !ok {
		return
	}
	for _, a := range prog.attached {
		if a == s {
			return
		}
	}
	prog.attached = append(prog.attached, s)
}

// DetachShader implements gfx.Device.
func (d *Device) DetachShader(p gfx.ProgramID, s gfx.ShaderID) {
	prog, ok := d.programs[p]
	if !ok {
		return
	}
	for i, a := range prog.attached {
		if a == s {
			prog.attached = append(prog.attached[:i], prog.attached[i+1:]...)
			return
		}
	}
}

// LinkProgram checks the stage interface and builds the pipeline layout.
// A program with only a fragment stage is linked against the built-in
// pass-through vertex stage.
func (d *Device) LinkProgram(p gfx.ProgramID) error {
	prog, ok := d.programs[p]
	if !ok {
		return fmt.Errorf("wgpu: program %d: %w", p, gfx.ErrUnknownHandle)
	}
	d.unlink(p, prog)

	var vs, fs *shaderModule
	for _, s := range prog.attached {
		obj, ok := d.shaders[s]
		if !ok {
			return fmt.Errorf("wgpu: shader %d: %w", s, gfx.ErrUnknownHandle)
		}
		if obj.mod == nil {
			return fmt.Errorf("%w: %s shader %d", ErrNotCompiled, obj.stage, s)
		}
		if obj.stage == gfx.StageVertex {
			vs = obj.mod
		} else {
			fs = obj.mod
		}
	}
	if fs == nil {
		return ErrNoFragment
	}
	if vs == nil {
		pt, err := d.passthroughModule()
		if err != nil {
			return err
		}
		vs = pt
	}
	if err := wgsl.Link(vs.mod, fs.mod); err != nil {
		return err
	}

	size := max(vs.mod.UniformSize(), fs.mod.UniformSize())
	var groups []hal.BindGroupLayout
	if size > 0 {
		bgl, err := d.dev.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label: fmt.Sprintf("mapview_program_%d_uniforms", p),
			Entries: []gputypes.BindGroupLayoutEntry{{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:             gputypes.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   uint64(size),
				},
			}},
		})
		if err != nil {
			return fmt.Errorf("create bind group layout: %w", err)
		}
		prog.bindLayout = bgl
		groups = []hal.BindGroupLayout{bgl}
	}
	layout, err := d.dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            fmt.Sprintf("mapview_program_%d_layout", p),
		BindGroupLayouts: groups,
	})
	if err != nil {
		if prog.bindLayout != nil {
			d.dev.DestroyBindGroupLayout(prog.bindLayout)
			prog.bindLayout = nil
		}
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	vs.refs++
	fs.refs++
	prog.vertex = vs
	prog.fragment = fs
	prog.layout = layout
	prog.uniforms = make([]byte, size)
	prog.linked = true
	return nil
}

func (d *Device) passthroughModule() (*shaderModule, error) {
	if d.passthrough == nil {
		sm, err := d.compile(wgsl.Vertex, []byte(passthroughVertex), "mapview_passthrough_vertex")
		if err != nil {
			return nil, fmt.Errorf("passthrough vertex stage: %w", err)
		}
		d.passthrough = sm
	}
	return d.passthrough, nil
}

// unlink releases everything LinkProgram created for prog.
func (d *Device) unlink(id gfx.ProgramID, prog *linkedProgram) {
	if !prog.linked {
		return
	}
	d.pipelines.RemoveFunc(func(k pipelineKey, _ hal.RenderPipeline) bool { return k.program == id })
	if prog.bindGroup != nil {
		d.dev.DestroyBindGroup(prog.bindGroup)
		prog.bindGroup = nil
	}
	d.dev.DestroyPipelineLayout(prog.layout)
	if prog.bindLayout != nil {
		d.dev.DestroyBindGroupLayout(prog.bindLayout)
		prog.bindLayout = nil
	}
	d.release(prog.vertex)
	d.release(prog.fragment)
	prog.vertex, prog.fragment, prog.layout = nil, nil, nil
	prog.uniforms = nil
	prog.linked = false
}

// UniformLocation returns the byte offset of name in the program's uniform
// struct, or -1.
func (d *Device) UniformLocation(p gfx.ProgramID, name string) int32 {
	prog, ok := d.programs[p]
	if !ok || !prog.linked {
		return -1
	}
	if m, ok := prog.vertex.mod.Uniform(name); ok {
		return int32(m.Offset)
	}
	if m, ok := prog.fragment.mod.Uniform(name); ok {
		return int32(m.Offset)
	}
	return -1
}

// AttribLocation returns the @location of a vertex input, or -1.
func (d *Device) AttribLocation(p gfx.ProgramID, name string) int32 {
	prog, ok := d.programs[p]
	if !ok || !prog.linked {
		return -1
	}
	if loc, ok := prog.vertex.mod.Attribute(name); ok {
		return int32(loc)
	}
	return -1
}

// DeleteProgram implements gfx.Device.
func (d *Device) DeleteProgram(p gfx.ProgramID) {
	prog, ok := d.programs[p]
	if !ok {
		return
	}
	d.unlink(p, prog)
	delete(d.programs, p)
	if d.current == p {
		d.current = gfx.NoProgram
	}
}

// UseProgram implements gfx.Device.
func (d *Device) UseProgram(p gfx.ProgramID) { d.current = p }

// staging returns n bytes of the current program's uniform struct at loc,
// or nil when loc does not address it.
func (d *Device) staging(loc int32, n int) []byte {
	if loc < 0 {
		return nil
	}
	prog, ok := d.programs[d.current]
	if !ok || !prog.linked {
		return nil
	}
	end := int(loc) + n
	if end > len(prog.uniforms) {
		return nil
	}
	return prog.uniforms[loc:end]
}

func putFloats(b []byte, vs ...float32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
}

// UniformMatrix4 implements gfx.Device.
func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) {
	if b := d.staging(loc, 64); b != nil {
		putFloats(b, m[:]...)
	}
}

// Uniform1f implements gfx.Device.
func (d *Device) Uniform1f(loc int32, v float32) {
	if b := d.staging(loc, 4); b != nil {
		putFloats(b, v)
	}
}

// Uniform1i implements gfx.Device.
func (d *Device) Uniform1i(loc int32, v int32) {
	if b := d.staging(loc, 4); b != nil {
		binary.LittleEndian.PutUint32(b, uint32(v))
	}
}

// Uniform2f implements gfx.Device.
func (d *Device) Uniform2f(loc int32, v mgl32.Vec2) {
	if b := d.staging(loc, 8); b != nil {
		putFloats(b, v[:]...)
	}
}

// Uniform3f implements gfx.Device.
func (d *Device) Uniform3f(loc int32, v mgl32.Vec3) {
	if b := d.staging(loc, 12); b != nil {
		putFloats(b, v[:]...)
	}
}

// CreateBuffer implements gfx.Device. Vertex data stays on the CPU until
// a draw snapshots it into the frame arena.
func (d *Device) CreateBuffer() (gfx.BufferID, error) {
	h, err := d.handle()
	if err != nil {
		return 0, err
	}
	id := gfx.BufferID(h)
	d.buffers[id] = &buffer{}
	return id, nil
}

// BufferData implements gfx.Device.
func (d *Device) BufferData(id gfx.BufferID, data []byte) {
	b, ok := d.buffers[id]
	if !ok {
		return
	}
	b.data = append(b.data[:0], data...)
	b.gen++
}

// DeleteBuffer implements gfx.Device.
func (d *Device) DeleteBuffer(id gfx.BufferID) { delete(d.buffers, id) }

// CreateVertexArray implements gfx.Device.
func (d *Device) CreateVertexArray() (gfx.VertexArrayID, error) {
	h, err := d.handle()
	if err != nil {
		return 0, err
	}
	id := gfx.VertexArrayID(h)
	d.arrays[id] = &vertexArray{}
	return id, nil
}

// VertexAttrib implements gfx.Device. Binding a location again replaces
// the previous binding.
func (d *Device) VertexAttrib(vao gfx.VertexArrayID, buf gfx.BufferID, a gfx.Attrib) {
	va, ok := d.arrays[vao]
	if !ok || a.Location < 0 {
		return
	}
	ba := boundAttrib{buf: buf, Attrib: a}
	replaced := false
	for i := range va.attribs {
		if va.attribs[i].Location == a.Location {
			va.attribs[i] = ba
			replaced = true
		}
	}
	if !replaced {
		va.attribs = append(va.attribs, ba)
	}
	va.gen++
	va.slots = nil
}

// DeleteVertexArray implements gfx.Device.
func (d *Device) DeleteVertexArray(id gfx.VertexArrayID) {
	if _, ok := d.arrays[id]; !ok {
		return
	}
	d.pipelines.RemoveFunc(func(k pipelineKey, _ hal.RenderPipeline) bool { return k.vao == id })
	delete(d.arrays, id)
}

// Viewport implements gfx.Device. Coordinates have a bottom-left origin.
func (d *Device) Viewport(x, y, width, height int) {
	d.viewport = [4]int{x, y, width, height}
}

// SetDepthTest implements gfx.Device.
func (d *Device) SetDepthTest(enabled bool) { d.depth = enabled }

// SetBlend implements gfx.Device. Blending is source-alpha over.
func (d *Device) SetBlend(enabled bool) { d.blend = enabled }

// DrawArrays implements gfx.Device.
func (d *Device) DrawArrays(vao gfx.VertexArrayID, prim gfx.Primitive, first, count int) {
	d.record(vao, prim, first, count, nil)
}

// DrawElements implements gfx.Device.
func (d *Device) DrawElements(vao gfx.VertexArrayID, prim gfx.Primitive, indices []uint16) {
	if len(indices) == 0 {
		return
	}
	d.record(vao, prim, 0, len(indices), indices)
}

// Destroy waits for the queue to drain and releases every resource the
// device created. The HAL device and queue are left to their owner.
// Destroy is idempotent.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	if err := d.dev.WaitIdle(); err != nil {
		slogger().Warn("wgpu: wait idle", "err", err)
	}
	for _, f := range d.inflight {
		f.free(d.dev)
	}
	d.inflight = nil

	d.pipelines.Purge()
	for _, pl := range d.retired {
		d.dev.DestroyRenderPipeline(pl)
	}
	d.retired = nil
	for id, prog := range d.programs {
		d.unlink(id, prog)
	}
	for _, obj := range d.shaders {
		if obj.mod != nil {
			d.release(obj.mod)
		}
	}
	if d.passthrough != nil {
		d.release(d.passthrough)
		d.passthrough = nil
	}
	clear(d.programs)
	clear(d.shaders)
	clear(d.buffers)
	clear(d.arrays)

	d.vertexBuf.destroy(d.dev)
	d.indexBuf.destroy(d.dev)
	d.uniform.destroy(d.dev)
	d.depthTex.destroy(d.dev)
	d.frame.reset()
	slogger().Info("wgpu: device destroyed")
}
