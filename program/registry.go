// Package program compiles, links and owns the fixed set of shader
// programs shared by every layer.
//
// A Registry comes up whole or not at all: New either returns a registry in
// which every program is linked and every declared input resolved, or an
// error after releasing everything it created. Uniform and attribute
// locations are resolved once, right after link, and never queried again.
package program

import (
	"fmt"

	"github.com/gogpu/mapview/gfx"
	"github.com/gogpu/mapview/shader"
)

// ID names one program in the registry.
type ID uint8

// Programs in creation order.
const (
	Bkgd ID = iota
	Cursor
	Solid
	Frustum
	BasemapSpherical

	numPrograms
)

// String returns the program name used in diagnostics.
func (id ID) String() string {
	if id < numPrograms {
		return definitions[id].Name
	}
	return fmt.Sprintf("ID(%d)", uint8(id))
}

// Shader is one stage of a program. Source None means the stage is absent.
type Shader struct {
	Source shader.Source

	buf []byte
	id  gfx.ShaderID
}

// Input is a named uniform or attribute of a linked program. Loc is
// negative until resolved.
type Input struct {
	Name string
	Kind gfx.InputKind
	Loc  int32
}

// Program is a vertex and fragment stage pair plus its declared inputs.
type Program struct {
	Name     string
	Vertex   Shader
	Fragment Shader
	Inputs   []Input

	id      gfx.ProgramID
	created bool
}

// Registry owns every program on one device.
// It is not safe for concurrent use.
type Registry struct {
	dev       gfx.Device
	programs  [numPrograms]Program
	destroyed bool
}

// New builds every program on dev with sources from src.
//
// On any compile, link, binding or allocation failure the diagnostic is
// logged, every program created so far is destroyed and the error is
// returned; no partial registry is retained.
func New(dev gfx.Device, src shader.Provider) (*Registry, error) {
	r := &Registry{dev: dev}
	for i := range definitions {
		p := definitions[i].clone()
		for j := range p.Inputs {
			p.Inputs[j].Loc = -1
		}
		r.programs[i] = p
	}

	ok := false
	defer func() {
		if !ok {
			r.release()
		}
	}()

	for i := range r.programs {
		p := &r.programs[i]
		if err := r.create(p, src); err != nil {
			slogger().Error("program init failed", "program", p.Name, "err", err)
			return nil, err
		}
		slogger().Debug("program linked", "program", p.Name, "inputs", len(p.Inputs))
	}

	ok = true
	slogger().Info("program registry ready", "programs", len(r.programs))
	return r, nil
}

func (p Program) clone() Program {
	p.Inputs = append([]Input(nil), p.Inputs...)
	return p
}

func (r *Registry) create(p *Program, src shader.Provider) error {
	if p.Vertex.Source == shader.None && p.Fragment.Source == shader.None {
		return fmt.Errorf("%w: %s", ErrNoStages, p.Name)
	}

	id, err := r.dev.CreateProgram()
	if err != nil {
		return &AllocationError{Program: p.Name, Resource: "program", Err: err}
	}
	p.id = id
	p.created = true

	if err := r.link(p, src); err != nil {
		return err
	}
	for i := range p.Inputs {
		if err := r.resolve(p, &p.Inputs[i]); err != nil {
			return err
		}
	}
	return nil
}

// link compiles and attaches both stages and links the program. Compiled
// stages are detached and deleted before link returns, whether or not the
// link succeeded.
func (r *Registry) link(p *Program, src shader.Provider) error {
	releaseVertex, err := r.compile(p, &p.Vertex, gfx.StageVertex, src)
	if err != nil {
		return err
	}
	defer releaseVertex()

	releaseFragment, err := r.compile(p, &p.Fragment, gfx.StageFragment, src)
	if err != nil {
		return err
	}
	defer releaseFragment()

	if err := r.dev.LinkProgram(p.id); err != nil {
		return &LinkError{Program: p.Name, Log: err.Error()}
	}
	return nil
}

// compile builds one stage and attaches it to p. The returned func
// detaches and deletes the stage; it is a no-op for an absent stage.
func (r *Registry) compile(p *Program, s *Shader, stage gfx.Stage, src shader.Provider) (release func(), err error) {
	if s.Source == shader.None {
		return func() {}, nil
	}

	buf, err := src.Resolve(s.Source)
	if err != nil {
		return nil, &CompileError{Program: p.Name, Stage: stage, Log: err.Error(), Err: err}
	}
	s.buf = buf

	id, err := r.dev.CreateShader(stage)
	if err != nil {
		s.buf = nil
		return nil, &AllocationError{Program: p.Name, Resource: stage.String() + " shader", Err: err}
	}
	s.id = id

	if err := r.dev.CompileShader(id, s.buf); err != nil {
		r.dev.DeleteShader(id)
		s.id, s.buf = 0, nil
		return nil, &CompileError{Program: p.Name, Stage: stage, Log: err.Error()}
	}
	r.dev.AttachShader(p.id, id)

	return func() {
		r.dev.DetachShader(p.id, s.id)
		r.dev.DeleteShader(s.id)
		s.id, s.buf = 0, nil
	}, nil
}

func (r *Registry) resolve(p *Program, in *Input) error {
	switch in.Kind {
	case gfx.Uniform:
		in.Loc = r.dev.UniformLocation(p.id, in.Name)
	case gfx.Attribute:
		in.Loc = r.dev.AttribLocation(p.id, in.Name)
	}
	if in.Loc < 0 {
		return &BindingError{Program: p.Name, Kind: in.Kind, Name: in.Name}
	}
	return nil
}

func (r *Registry) release() {
	for i := range r.programs {
		p := &r.programs[i]
		if p.created {
			r.dev.DeleteProgram(p.id)
			p.created = false
			p.id = 0
		}
	}
}

// Destroy deletes every program. Calls after the first are no-ops.
func (r *Registry) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.release()
	slogger().Debug("program registry destroyed")
}

// None deactivates any active program.
func (r *Registry) None() {
	r.dev.UseProgram(gfx.NoProgram)
}

// AttribLocation returns the resolved location of a vertex attribute of
// program id. ok is false when the program declares no such attribute.
func (r *Registry) AttribLocation(id ID, name string) (loc int32, ok bool) {
	if id >= numPrograms {
		return -1, false
	}
	for _, in := range r.programs[id].Inputs {
		if in.Kind == gfx.Attribute && in.Name == name {
			return in.Loc, true
		}
	}
	return -1, false
}

// Program returns a copy of the program descriptor for id.
func (r *Registry) Program(id ID) Program {
	return r.programs[id].clone()
}

func (r *Registry) use(id ID) *Program {
	p := &r.programs[id]
	r.dev.UseProgram(p.id)
	return p
}
