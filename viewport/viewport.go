// Package viewport reports the size of the render surface in pixels.
package viewport

import (
	"sync"

	"github.com/gogpu/gpucontext"
)

// Fixed is a viewport of constant size.
type Fixed struct {
	W, H int
}

func (f Fixed) Width() int  { return f.W }
func (f Fixed) Height() int { return f.H }

// Tracker follows the surface size reported by resize events.
// Resize callbacks may arrive on another goroutine.
type Tracker struct {
	mu     sync.Mutex
	w, h   int
	notify []func(width, height int)
}

// NewTracker returns a Tracker with an initial size.
func NewTracker(width, height int) *Tracker {
	return &Tracker{w: width, h: height}
}

// Watch subscribes the tracker to resize events from src.
func (t *Tracker) Watch(src gpucontext.EventSource) {
	src.OnResize(t.Resize)
}

// OnChange registers fn to run after every size change.
func (t *Tracker) OnChange(fn func(width, height int)) {
	t.mu.Lock()
	t.notify = append(t.notify, fn)
	t.mu.Unlock()
}

// Resize records a new surface size.
func (t *Tracker) Resize(width, height int) {
	t.mu.Lock()
	changed := width != t.w || height != t.h
	t.w, t.h = width, height
	notify := t.notify
	t.mu.Unlock()
	if !changed {
		return
	}
	for _, fn := range notify {
		fn(width, height)
	}
}

func (t *Tracker) Width() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w
}

func (t *Tracker) Height() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.h
}
