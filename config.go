package mapview

import (
	"math"

	"github.com/gogpu/mapview/config"
	"github.com/gogpu/mapview/viewport"
	"github.com/gogpu/mapview/world/autoscroll"
)

var configLayers = map[string]func(c *config.Config) LayerFunc{
	config.LayerBackground: func(*config.Config) LayerFunc { return Background },
	config.LayerBasemap:    func(*config.Config) LayerFunc { return Basemap },
	config.LayerCursor:     func(*config.Config) LayerFunc { return Cursor },
	config.LayerOverview: func(c *config.Config) LayerFunc {
		return Overview(c.Overview.Side, c.Overview.Margin)
	},
}

// OptionsFromConfig translates a validated file configuration into
// session options. The log level is not applied; callers build their own
// handler from c.Level. An overview with a zero side is left out even when
// listed in c.Layers.
func OptionsFromConfig(c *config.Config) ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	kind, _ := c.Kind()

	opts := []Option{
		WithWorld(kind),
		WithZoom(c.Zoom),
		WithCenter(
			float32(c.Center.Lat*math.Pi/180),
			float32(c.Center.Lon*math.Pi/180),
		),
		WithOverview(c.Overview.Side, c.Overview.Margin),
		WithViewport(viewport.Fixed{W: c.Viewport.Width, H: c.Viewport.Height}),
	}
	if hl := c.Autoscroll.HalfLife.Duration(); hl > 0 {
		opts = append(opts, WithAutoscroll(autoscroll.WithHalfLife(hl)))
	}

	fns := make([]LayerFunc, 0, len(c.Layers))
	for _, name := range c.Layers {
		if name == config.LayerOverview && c.Overview.Side == 0 {
			continue
		}
		fns = append(fns, configLayers[name](c))
	}
	opts = append(opts, WithLayers(fns...))
	return opts, nil
}
