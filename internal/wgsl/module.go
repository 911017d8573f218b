// Package wgsl compiles WGSL stages with naga and reflects the binding
// points the gfx contract exposes as locations.
//
// A uniform location is the byte offset of the member inside the stage's
// uniform struct (group 0, binding 0). An attribute location is the
// @location index of a vertex entry point input.
package wgsl

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// Stage is a shader stage understood by Compile.
type Stage uint8

const (
	Vertex Stage = iota
	Fragment
)

func (s Stage) String() string {
	if s == Vertex {
		return "vertex"
	}
	return "fragment"
}

var (
	// ErrNoEntryPoint is returned when the source has no entry point of the
	// requested stage.
	ErrNoEntryPoint = errors.New("wgsl: no entry point for stage")

	// ErrInterface is returned by Link when the stages do not agree.
	ErrInterface = errors.New("wgsl: stage interface mismatch")
)

// Member is one uniform struct member.
type Member struct {
	Name   string
	Offset uint32
	Size   uint32
}

// Module is a compiled, validated stage with its reflected interface.
type Module struct {
	Stage      Stage
	EntryPoint string
	Source     string

	attributes map[string]uint32
	inputs     map[uint32]string
	outputs    map[uint32]string
	uniforms   []Member
	span       uint32
}

// Compile parses, lowers and validates src and reflects the entry point of
// stage. The returned error text is suitable as a compile log.
func Compile(stage Stage, src []byte) (*Module, error) {
	text := string(src)
	ast, err := naga.Parse(text)
	if err != nil {
		return nil, err
	}
	m, err := naga.LowerWithSource(ast, text)
	if err != nil {
		return nil, err
	}
	verrs, err := naga.Validate(m)
	if err != nil {
		return nil, err
	}
	if len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i := range verrs {
			msgs[i] = verrs[i].Error()
		}
		return nil, errors.New(strings.Join(msgs, "\n"))
	}

	want := ir.StageVertex
	if stage == Fragment {
		want = ir.StageFragment
	}
	for i := range m.EntryPoints {
		ep := &m.EntryPoints[i]
		if ep.Stage != want {
			continue
		}
		mod := &Module{
			Stage:      stage,
			EntryPoint: ep.Name,
			Source:     text,
			attributes: make(map[string]uint32),
			inputs:     make(map[uint32]string),
			outputs:    make(map[uint32]string),
		}
		mod.reflect(m, ep)
		return mod, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoEntryPoint, stage)
}

func (mod *Module) reflect(m *ir.Module, ep *ir.EntryPoint) {
	for _, arg := range ep.Function.Arguments {
		collect(m, arg.Name, arg.Type, arg.Binding, func(name string, loc uint32) {
			mod.inputs[loc] = name
			if mod.Stage == Vertex {
				mod.attributes[name] = loc
			}
		})
	}
	if r := ep.Function.Result; r != nil {
		collect(m, "", r.Type, r.Binding, func(name string, loc uint32) {
			mod.outputs[loc] = name
		})
	}
	for _, gv := range m.GlobalVariables {
		if gv.Space != ir.SpaceUniform || gv.Binding == nil || gv.Binding.Group != 0 || gv.Binding.Binding != 0 {
			continue
		}
		st, ok := m.Types[gv.Type].Inner.(ir.StructType)
		if !ok {
			continue
		}
		mod.span = st.Span
		for i, mem := range st.Members {
			end := st.Span
			if i+1 < len(st.Members) {
				end = st.Members[i+1].Offset
			}
			mod.uniforms = append(mod.uniforms, Member{
				Name:   mem.Name,
				Offset: mem.Offset,
				Size:   min(end-mem.Offset, sizeOf(m, mem.Type)),
			})
		}
	}
}

// collect reports every @location binding reachable from a value, looking
// one level into struct members.
func collect(m *ir.Module, name string, th ir.TypeHandle, b *ir.Binding, fn func(string, uint32)) {
	if b != nil {
		if loc, ok := (*b).(ir.LocationBinding); ok {
			fn(name, loc.Location)
		}
		return
	}
	st, ok := m.Types[th].Inner.(ir.StructType)
	if !ok {
		return
	}
	for _, mem := range st.Members {
		if mem.Binding == nil {
			continue
		}
		if loc, ok := (*mem.Binding).(ir.LocationBinding); ok {
			fn(mem.Name, loc.Location)
		}
	}
}

func sizeOf(m *ir.Module, th ir.TypeHandle) uint32 {
	switch t := m.Types[th].Inner.(type) {
	case ir.ScalarType:
		return uint32(t.Width)
	case ir.VectorType:
		return uint32(t.Size) * uint32(t.Scalar.Width)
	case ir.MatrixType:
		rows := uint32(t.Rows)
		if rows == 3 {
			rows = 4
		}
		return uint32(t.Columns) * rows * uint32(t.Scalar.Width)
	case ir.StructType:
		return t.Span
	default:
		return 0
	}
}

// Attribute returns the @location of a vertex input by name.
func (mod *Module) Attribute(name string) (uint32, bool) {
	loc, ok := mod.attributes[name]
	return loc, ok
}

// Uniform returns the member of the uniform struct with the given name.
func (mod *Module) Uniform(name string) (Member, bool) {
	for _, u := range mod.uniforms {
		if u.Name == name {
			return u, true
		}
	}
	return Member{}, false
}

// Uniforms returns the uniform struct members in declaration order.
func (mod *Module) Uniforms() []Member { return mod.uniforms }

// UniformSize returns the byte size of the uniform struct, or 0 when the
// stage declares none.
func (mod *Module) UniformSize() uint32 { return mod.span }

// Inputs returns the sorted @location indices the entry point reads.
func (mod *Module) Inputs() []uint32 { return keys(mod.inputs) }

// Outputs returns the sorted @location indices the entry point writes.
func (mod *Module) Outputs() []uint32 { return keys(mod.outputs) }

func keys(m map[uint32]string) []uint32 {
	out := make([]uint32, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Link checks that a vertex and fragment stage can form one pipeline:
// every fragment input location is written by the vertex stage and
// uniform members present in both stages share offset and size.
// Either module may be nil when the stage is supplied elsewhere.
func Link(vertex, fragment *Module) error {
	if vertex == nil || fragment == nil {
		return nil
	}
	var problems []string
	for loc, name := range fragment.inputs {
		if _, ok := vertex.outputs[loc]; !ok {
			problems = append(problems, fmt.Sprintf("fragment input %q at location %d is not written by the vertex stage", name, loc))
		}
	}
	for _, fu := range fragment.uniforms {
		vu, ok := vertex.Uniform(fu.Name)
		if !ok {
			continue
		}
		if vu.Offset != fu.Offset || vu.Size != fu.Size {
			problems = append(problems, fmt.Sprintf("uniform %q: vertex offset %d size %d, fragment offset %d size %d",
				fu.Name, vu.Offset, vu.Size, fu.Offset, fu.Size))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("%w: %s", ErrInterface, strings.Join(problems, "; "))
}
