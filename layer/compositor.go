package layer

import "fmt"

// Compositor paints an ordered list of layers, bottom first.
type Compositor struct {
	layers    []Layer
	destroyed bool
}

// New returns a compositor over layers, listed bottom to top.
func New(layers ...Layer) *Compositor {
	return &Compositor{layers: layers}
}

// Len returns the number of layers.
func (c *Compositor) Len() int { return len(c.layers) }

// Init initialises every layer in order. If one fails, the layers already
// initialised are destroyed in reverse order and the error is returned.
func (c *Compositor) Init() error {
	for i, l := range c.layers {
		if err := l.Init(); err != nil {
			for j := i - 1; j >= 0; j-- {
				c.layers[j].Destroy()
			}
			slogger().Error("layer init failed", "index", i, "err", err)
			return fmt.Errorf("layer: init layer %d: %w", i, err)
		}
	}
	return nil
}

// Paint paints the topmost occluding layer and everything above it.
// Layers below an occluder are skipped.
func (c *Compositor) Paint() {
	start := 0
	for i := len(c.layers) - 1; i >= 0; i-- {
		if c.layers[i].Occludes() {
			start = i
			break
		}
	}
	for _, l := range c.layers[start:] {
		l.Paint()
	}
}

// Zoom forwards a zoom level change to every layer.
func (c *Compositor) Zoom(level int) {
	for _, l := range c.layers {
		l.Zoom(level)
	}
}

// Destroy destroys every layer in reverse order. Later calls are no-ops.
func (c *Compositor) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	for i := len(c.layers) - 1; i >= 0; i-- {
		c.layers[i].Destroy()
	}
}
