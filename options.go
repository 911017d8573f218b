package mapview

import (
	"log/slog"
	"math/bits"

	"github.com/gogpu/mapview/camera"
	"github.com/gogpu/mapview/layer"
	"github.com/gogpu/mapview/shader"
	"github.com/gogpu/mapview/tiles"
	"github.com/gogpu/mapview/world"
	"github.com/gogpu/mapview/world/autoscroll"
)

// Session defaults.
const (
	DefaultZoom     = 2
	MaxZoom         = 24
	DefaultWidth    = 800
	DefaultHeight   = 600
	defaultDistance = 50
)

// LayerFunc builds one layer of a session from the shared environment.
type LayerFunc func(env *layer.Env) layer.Layer

// Background paints the full-screen gradient. It occludes everything below.
func Background(env *layer.Env) layer.Layer { return layer.NewBackground(env) }

// Basemap ray-casts the globe in the spherical world.
func Basemap(env *layer.Env) layer.Layer { return layer.NewBasemap(env) }

// Cursor marks the view centre.
func Cursor(env *layer.Env) layer.Layer { return layer.NewCursor(env) }

// Overview returns a LayerFunc for the minimap, side pixels square, placed
// margin pixels from the bottom-right corner.
func Overview(side, margin int) LayerFunc {
	return func(env *layer.Env) layer.Layer { return layer.NewOverview(env, side, margin) }
}

// Option configures a Session during creation.
//
// Example:
//
//	s, err := mapview.NewSession(dev,
//	    mapview.WithWorld(world.Spherical),
//	    mapview.WithCenter(0.9, 0.2),
//	    mapview.WithOverview(192, 16),
//	)
type Option func(*options)

// options holds optional configuration for Session creation.
type options struct {
	kind           world.Kind
	zoom           int
	lat, lon       float32
	centered       bool
	overviewSide   int
	overviewMargin int
	layers         []LayerFunc
	src            shader.Provider
	scroll         []autoscroll.Option
	logger         *slog.Logger
	viewport       layer.Viewport
	camera         *camera.Camera
	tiles          tiles.Enumerator
}

// defaultOptions returns the default session options.
func defaultOptions() options {
	return options{
		kind:           world.Planar,
		zoom:           DefaultZoom,
		overviewSide:   layer.OverviewSide,
		overviewMargin: layer.OverviewMargin,
		src:            shader.Embedded(),
	}
}

// WithWorld selects the initial projection model. Defaults to world.Planar.
func WithWorld(kind world.Kind) Option {
	return func(o *options) {
		o.kind = kind
	}
}

// WithZoom sets the initial zoom level.
func WithZoom(level int) Option {
	return func(o *options) {
		o.zoom = level
	}
}

// WithWorldSize sets the initial zoom level from a world edge length in
// render units, rounded down to a power of two.
func WithWorldSize(size uint) Option {
	return func(o *options) {
		if size > 0 {
			o.zoom = bits.Len(size) - 1
		}
	}
}

// WithCenter sets the initial view centre in radians.
func WithCenter(lat, lon float32) Option {
	return func(o *options) {
		o.lat, o.lon = lat, lon
		o.centered = true
	}
}

// WithOverview sets the size and margin of the default overview layer in
// pixels. A side of zero leaves the overview out of the default layers.
func WithOverview(side, margin int) Option {
	return func(o *options) {
		o.overviewSide = side
		o.overviewMargin = margin
	}
}

// WithLayers replaces the default layers, listed bottom to top.
//
// Example:
//
//	mapview.WithLayers(mapview.Background, mapview.Cursor)
func WithLayers(fns ...LayerFunc) Option {
	return func(o *options) {
		o.layers = fns
	}
}

// WithShaderProvider sets where shader sources are loaded from. Defaults
// to the sources compiled into the binary.
func WithShaderProvider(p shader.Provider) Option {
	return func(o *options) {
		if p != nil {
			o.src = p
		}
	}
}

// WithAutoscroll configures the kinetic panning used by Fling.
func WithAutoscroll(opts ...autoscroll.Option) Option {
	return func(o *options) {
		o.scroll = append(o.scroll, opts...)
	}
}

// WithLogger installs l with SetLogger when the session is created.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithViewport sets the render surface size source. Defaults to a fixed
// DefaultWidth by DefaultHeight viewport.
func WithViewport(v layer.Viewport) Option {
	return func(o *options) {
		o.viewport = v
	}
}

// WithCamera sets the main view camera.
func WithCamera(c *camera.Camera) Option {
	return func(o *options) {
		o.camera = c
	}
}

// WithTiles sets the enumerator of visible tiles shown by the overview.
// By default the session keeps a grid of the tiles around the centre.
func WithTiles(e tiles.Enumerator) Option {
	return func(o *options) {
		o.tiles = e
	}
}

func (o *options) layerFuncs() []LayerFunc {
	if o.layers != nil {
		return o.layers
	}
	fns := []LayerFunc{Background, Basemap, Cursor}
	if o.overviewSide > 0 {
		fns = append(fns, Overview(o.overviewSide, o.overviewMargin))
	}
	return fns
}
