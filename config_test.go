package mapview

import (
	"errors"
	"testing"

	"github.com/gogpu/mapview/config"
	"github.com/gogpu/mapview/world"
)

func TestOptionsFromConfig(t *testing.T) {
	c, err := config.Parse([]byte(`
world: spherical
zoom: 3
center: {lat: 45, lon: -90}
layers: [background, basemap, overview]
viewport: {width: 1024, height: 768}
`))
	if err != nil {
		t.Fatal(err)
	}
	opts, err := OptionsFromConfig(c)
	if err != nil {
		t.Fatalf("OptionsFromConfig() = %v", err)
	}
	s, dev := newSession(t, opts...)

	if s.World().Kind() != world.Spherical || s.State().Zoom != 3 {
		t.Errorf("world, zoom = %v, %d", s.World().Kind(), s.State().Zoom)
	}
	const eps = 1e-5
	if d := s.State().Center.Lon + 1.5707964; d > eps || d < -eps {
		t.Errorf("centre lon = %v, want -π/2", s.State().Center.Lon)
	}
	if err := s.Frame(); err != nil {
		t.Fatal(err)
	}
	if len(dev.Draws) < 2 {
		t.Fatalf("draws = %d", len(dev.Draws))
	}
	if vp := dev.Draws[0].Viewport; vp != [4]int{0, 0, 1024, 768} {
		t.Errorf("background viewport = %v", vp)
	}
}

func TestOptionsFromConfigZeroOverviewSide(t *testing.T) {
	c, err := config.Parse([]byte(`
layers: [background, overview]
overview: {side: 0, margin: 4}
`))
	if err != nil {
		t.Fatal(err)
	}
	opts, err := OptionsFromConfig(c)
	if err != nil {
		t.Fatalf("OptionsFromConfig() = %v", err)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if got := len(o.layerFuncs()); got != 1 {
		t.Errorf("layers = %d, want background only", got)
	}
}

func TestOptionsFromConfigInvalid(t *testing.T) {
	c := config.Default()
	c.World = "flat"
	if _, err := OptionsFromConfig(c); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("OptionsFromConfig() = %v, want config.ErrInvalid", err)
	}
}
