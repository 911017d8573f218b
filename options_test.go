package mapview

import (
	"testing"

	"github.com/gogpu/mapview/layer"
	"github.com/gogpu/mapview/shader"
	"github.com/gogpu/mapview/world"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.kind != world.Planar {
		t.Errorf("kind = %v, want planar", o.kind)
	}
	if o.zoom != DefaultZoom {
		t.Errorf("zoom = %d, want %d", o.zoom, DefaultZoom)
	}
	if o.overviewSide != layer.OverviewSide || o.overviewMargin != layer.OverviewMargin {
		t.Errorf("overview = %d/%d, want %d/%d", o.overviewSide, o.overviewMargin, layer.OverviewSide, layer.OverviewMargin)
	}
	if o.src == nil {
		t.Error("shader provider is nil")
	}
	if got := len(o.layerFuncs()); got != 4 {
		t.Errorf("default layers = %d, want 4", got)
	}
}

func TestWithWorldSize(t *testing.T) {
	tests := []struct {
		size uint
		want int
	}{
		{1, 0},
		{2, 1},
		{256, 8},
		{300, 8},
		{0, DefaultZoom},
	}
	for _, tt := range tests {
		o := defaultOptions()
		WithWorldSize(tt.size)(&o)
		if o.zoom != tt.want {
			t.Errorf("WithWorldSize(%d) zoom = %d, want %d", tt.size, o.zoom, tt.want)
		}
	}
}

func TestWithOverviewZeroDropsLayer(t *testing.T) {
	o := defaultOptions()
	WithOverview(0, 0)(&o)
	if got := len(o.layerFuncs()); got != 3 {
		t.Errorf("layers = %d, want 3", got)
	}
}

func TestWithLayersReplacesDefaults(t *testing.T) {
	o := defaultOptions()
	WithLayers(Background)(&o)
	if got := len(o.layerFuncs()); got != 1 {
		t.Errorf("layers = %d, want 1", got)
	}
}

func TestWithShaderProviderIgnoresNil(t *testing.T) {
	o := defaultOptions()
	WithShaderProvider(nil)(&o)
	if o.src == nil {
		t.Fatal("WithShaderProvider(nil) cleared the provider")
	}
	p := shader.ProviderFunc(func(shader.Source) ([]byte, error) { return nil, nil })
	WithShaderProvider(p)(&o)
	if o.src == nil {
		t.Error("provider not set")
	}
}

func TestMultipleOptions(t *testing.T) {
	o := defaultOptions()
	for _, opt := range []Option{
		WithWorld(world.Spherical),
		WithZoom(6),
		WithCenter(0.5, -1),
		WithAutoscroll(),
	} {
		opt(&o)
	}
	if o.kind != world.Spherical || o.zoom != 6 {
		t.Errorf("kind, zoom = %v, %d", o.kind, o.zoom)
	}
	if !o.centered || o.lat != 0.5 || o.lon != -1 {
		t.Errorf("centre = %v (%v, %v)", o.centered, o.lat, o.lon)
	}
}
