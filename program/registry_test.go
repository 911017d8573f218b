package program

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapview/gfx"
	"github.com/gogpu/mapview/gfx/gfxtest"
	"github.com/gogpu/mapview/shader"
)

func newRegistry(t *testing.T) (*Registry, *gfxtest.Device) {
	t.Helper()
	dev := gfxtest.New()
	r, err := New(dev, shader.Embedded())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(r.Destroy)
	return r, dev
}

func assertNoLeaks(t *testing.T, dev *gfxtest.Device) {
	t.Helper()
	if dev.Programs.Created != dev.Programs.Destroyed {
		t.Errorf("programs created %d, destroyed %d", dev.Programs.Created, dev.Programs.Destroyed)
	}
	if dev.Shaders.Created != dev.Shaders.Destroyed {
		t.Errorf("shaders created %d, destroyed %d", dev.Shaders.Created, dev.Shaders.Destroyed)
	}
}

func TestNew(t *testing.T) {
	r, dev := newRegistry(t)

	if got, want := dev.Programs.Live(), int(numPrograms); got != want {
		t.Errorf("live programs = %d, want %d", got, want)
	}
	// bkgd 2, cursor 1, solid 2, frustum 2, basemap 2
	if got := dev.Shaders.Created; got != 9 {
		t.Errorf("shaders created = %d, want 9", got)
	}
	if got := dev.Shaders.Live(); got != 0 {
		t.Errorf("live shaders after init = %d, want 0", got)
	}
	for id := Bkgd; id < numPrograms; id++ {
		p := r.Program(id)
		if n := len(dev.Attached(p.id)); n != 0 {
			t.Errorf("%v: %d shaders still attached", id, n)
		}
		for _, in := range p.Inputs {
			if in.Loc < 0 {
				t.Errorf("%v: input %q unresolved", id, in.Name)
			}
		}
	}
}

func TestNewUnresolvedBinding(t *testing.T) {
	dev := gfxtest.New()
	dev.Missing["mat_frustum"] = true

	r, err := New(dev, shader.Embedded())
	if err == nil {
		r.Destroy()
		t.Fatal("New() succeeded with an unresolvable uniform")
	}
	if r != nil {
		t.Error("New() returned a partial registry")
	}

	var be *BindingError
	if !errors.As(err, &be) {
		t.Fatalf("New() error = %v, want *BindingError", err)
	}
	if be.Program != "frustum" || be.Kind != gfx.Uniform || be.Name != "mat_frustum" {
		t.Errorf("BindingError = %+v, want frustum uniform mat_frustum", be)
	}
	if !errors.Is(err, ErrBinding) {
		t.Error("errors.Is(err, ErrBinding) = false")
	}
	if got := dev.Programs.Live(); got != 0 {
		t.Errorf("live programs = %d, want 0", got)
	}
	assertNoLeaks(t, dev)
}

func TestNewCompileFailure(t *testing.T) {
	dev := gfxtest.New()
	dev.FailCompile = func(stage gfx.Stage, src []byte) error {
		if stage == gfx.StageFragment && bytes.Contains(src, []byte("mat_viewproj_inv")) {
			return errors.New("0:1: syntax error")
		}
		return nil
	}

	_, err := New(dev, shader.Embedded())
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("New() error = %v, want *CompileError", err)
	}
	if ce.Program != "basemap_spherical" || ce.Stage != gfx.StageFragment || ce.Log != "0:1: syntax error" {
		t.Errorf("CompileError = %+v", ce)
	}
	if !errors.Is(err, ErrCompile) {
		t.Error("errors.Is(err, ErrCompile) = false")
	}
	assertNoLeaks(t, dev)
}

func TestNewSourceFailure(t *testing.T) {
	dev := gfxtest.New()
	missing := errors.New("not embedded")
	src := shader.ProviderFunc(func(s shader.Source) ([]byte, error) {
		if s == shader.CursorFragment {
			return nil, missing
		}
		return shader.Embedded().Resolve(s)
	})

	_, err := New(dev, src)
	if !errors.Is(err, missing) {
		t.Errorf("New() error = %v, want wrapped %v", err, missing)
	}
	var ce *CompileError
	if !errors.As(err, &ce) || ce.Program != "cursor" {
		t.Errorf("New() error = %v, want cursor CompileError", err)
	}
	assertNoLeaks(t, dev)
}

func TestNewLinkFailure(t *testing.T) {
	dev := gfxtest.New()
	dev.FailLink = func(gfx.ProgramID) error { return errors.New("varying mismatch") }

	_, err := New(dev, shader.Embedded())
	var le *LinkError
	if !errors.As(err, &le) {
		t.Fatalf("New() error = %v, want *LinkError", err)
	}
	if le.Program != "bkgd" || le.Log != "varying mismatch" {
		t.Errorf("LinkError = %+v", le)
	}
	if got, want := err.Error(), "program: bkgd: link failed: varying mismatch"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	assertNoLeaks(t, dev)
}

func TestNewAllocationFailure(t *testing.T) {
	dev := gfxtest.New()
	dev.FailCreateProgram = 3

	_, err := New(dev, shader.Embedded())
	var ae *AllocationError
	if !errors.As(err, &ae) {
		t.Fatalf("New() error = %v, want *AllocationError", err)
	}
	if ae.Program != "solid" {
		t.Errorf("AllocationError.Program = %q, want solid", ae.Program)
	}
	if !errors.Is(err, gfx.ErrOutOfHandles) || !errors.Is(err, ErrAllocation) {
		t.Errorf("New() error = %v, want ErrOutOfHandles and ErrAllocation", err)
	}
	if got := dev.Programs.Created; got != 2 {
		t.Errorf("programs created = %d, want 2", got)
	}
	assertNoLeaks(t, dev)
}

func TestCreateNoStages(t *testing.T) {
	dev := gfxtest.New()
	r := &Registry{dev: dev}
	err := r.create(&Program{Name: "empty"}, shader.Embedded())
	if !errors.Is(err, ErrNoStages) {
		t.Errorf("create() error = %v, want ErrNoStages", err)
	}
	if dev.Programs.Created != 0 {
		t.Errorf("programs created = %d, want 0", dev.Programs.Created)
	}
}

func TestDestroyOnce(t *testing.T) {
	dev := gfxtest.New()
	r, err := New(dev, shader.Embedded())
	if err != nil {
		t.Fatal(err)
	}
	r.Destroy()
	r.Destroy()
	if got, want := dev.Programs.Destroyed, int(numPrograms); got != want {
		t.Errorf("programs destroyed = %d, want %d", got, want)
	}
}

func TestUse(t *testing.T) {
	r, dev := newRegistry(t)

	m := mgl32.Translate3D(1, 2, 3)
	r.UseSolid(SolidValues{Matrix: m})
	solid := r.Program(Solid)
	if dev.Current() != solid.id {
		t.Errorf("current program = %d, want solid %d", dev.Current(), solid.id)
	}
	if v, _ := dev.UniformValue(solid.id, "mat_proj"); v != m {
		t.Errorf("mat_proj = %v, want %v", v, m)
	}

	r.UseFrustum(FrustumValues{WorldSize: 512, Spherical: true, Camera: mgl32.Vec3{0, 0, 10}})
	frustum := r.Program(Frustum)
	if v, _ := dev.UniformValue(frustum.id, "spherical"); v != int32(1) {
		t.Errorf("spherical = %v, want 1", v)
	}
	if v, _ := dev.UniformValue(frustum.id, "world_size"); v != float32(512) {
		t.Errorf("world_size = %v, want 512", v)
	}

	r.UseCursor(CursorValues{HalfWidth: 400, HalfHeight: 300})
	cursor := r.Program(Cursor)
	if v, _ := dev.UniformValue(cursor.id, "halfheight"); v != float32(300) {
		t.Errorf("halfheight = %v, want 300", v)
	}

	r.None()
	if dev.Current() != gfx.NoProgram {
		t.Errorf("current program after None() = %d, want 0", dev.Current())
	}
}

func TestAttribLocation(t *testing.T) {
	r, _ := newRegistry(t)

	tests := []struct {
		id     ID
		name   string
		wantOK bool
	}{
		{Solid, "vertex", true},
		{Solid, "color", true},
		{Solid, "mat_proj", false},
		{Frustum, "vertex", true},
		{Bkgd, "color", false},
		{ID(99), "vertex", false},
	}
	for _, tt := range tests {
		loc, ok := r.AttribLocation(tt.id, tt.name)
		if ok != tt.wantOK {
			t.Errorf("AttribLocation(%v, %q) ok = %v, want %v", tt.id, tt.name, ok, tt.wantOK)
		}
		if ok && loc < 0 {
			t.Errorf("AttribLocation(%v, %q) = %d, want >= 0", tt.id, tt.name, loc)
		}
	}

	if loc, _ := r.AttribLocation(Solid, "color"); loc != r.SolidLocColor() {
		t.Errorf("SolidLocColor() = %d, want %d", r.SolidLocColor(), loc)
	}
}

func TestIDString(t *testing.T) {
	if got := BasemapSpherical.String(); got != "basemap_spherical" {
		t.Errorf("String() = %q, want basemap_spherical", got)
	}
	if got := ID(42).String(); got != "ID(42)" {
		t.Errorf("String() = %q, want ID(42)", got)
	}
}
