package shader

import (
	"bytes"
	"errors"
	"testing"
)

func TestEmbeddedResolvesAll(t *testing.T) {
	p := Embedded()
	for _, s := range All() {
		src, err := p.Resolve(s)
		if err != nil {
			t.Errorf("Resolve(%v) error = %v", s, err)
			continue
		}
		if !bytes.Contains(src, []byte("fn ")) {
			t.Errorf("Resolve(%v) returned %d bytes without an entry point", s, len(src))
		}
	}
}

func TestEmbeddedUnknown(t *testing.T) {
	_, err := Embedded().Resolve(None)
	if !errors.Is(err, ErrUnknownSource) {
		t.Errorf("Resolve(None) error = %v, want ErrUnknownSource", err)
	}
}

func TestSourceString(t *testing.T) {
	tests := []struct {
		s    Source
		want string
	}{
		{None, "none"},
		{SolidVertex, "shaders/solid.vert.wgsl"},
		{Source(200), "Source(200)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Source(%d).String() = %q, want %q", uint8(tt.s), got, tt.want)
		}
	}
}
