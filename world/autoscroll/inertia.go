// Package autoscroll provides kinetic panning for a world.State.
package autoscroll

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/gogpu/mapview/world"
)

const (
	defaultHalfLife = 250 * time.Millisecond

	// stopFraction is the speed, as a fraction of the world size per
	// second, below which scrolling stops.
	stopFraction = 1e-4
)

// Inertia keeps panning the centre after a drag is released, with the
// speed halving every half-life. It implements world.Autoscroller.
type Inertia struct {
	now      func() time.Time
	halfLife time.Duration
	world    func() world.World

	vx, vy float32 // tile units per second
	last   time.Time
	active bool
}

// Option configures an Inertia.
type Option func(*Inertia)

// WithClock sets the time source. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Inertia) {
		if now != nil {
			a.now = now
		}
	}
}

// WithHalfLife sets how long it takes for the speed to halve.
func WithHalfLife(d time.Duration) Option {
	return func(a *Inertia) {
		if d > 0 {
			a.halfLife = d
		}
	}
}

// WithWorld sets the accessor for the active world, whose bounds are
// enforced after every step.
func WithWorld(w func() world.World) Option {
	return func(a *Inertia) { a.world = w }
}

// New returns an idle Inertia.
func New(opts ...Option) *Inertia {
	a := &Inertia{now: time.Now, halfLife: defaultHalfLife}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start begins scrolling at vx, vy tile units per second.
func (a *Inertia) Start(vx, vy float32) {
	a.vx, a.vy = vx, vy
	a.last = a.now()
	a.active = vx != 0 || vy != 0
}

// Stop halts scrolling immediately.
func (a *Inertia) Stop() {
	a.vx, a.vy = 0, 0
	a.active = false
}

// Active reports whether a scroll is in progress.
func (a *Inertia) Active() bool { return a.active }

// Update advances the scroll to the current time and moves the centre of
// s. It reports whether the centre changed.
func (a *Inertia) Update(s *world.State) bool {
	if !a.active {
		return false
	}
	now := a.now()
	dt := float32(now.Sub(a.last).Seconds())
	a.last = now
	if dt <= 0 {
		return false
	}

	// Integral of v0 * 2^(-t/h) over [0, dt].
	h := float32(a.halfLife.Seconds())
	decay := math32.Exp2(-dt / h)
	k := h / math32.Ln2 * (1 - decay)
	dx, dy := a.vx*k, a.vy*k
	a.vx *= decay
	a.vy *= decay

	s.SetCenterTile(s.Center.Tile.X+dx, s.Center.Tile.Y+dy)
	if a.world != nil {
		if w := a.world(); w != nil {
			w.CenterRestrictTile(s)
			s.SetCenterTile(s.Center.Tile.X, s.Center.Tile.Y)
			w.CenterRestrictLatLon(s)
		}
	}

	if math32.Hypot(a.vx, a.vy) < s.Size*stopFraction {
		a.Stop()
	}
	return dx != 0 || dy != 0
}
