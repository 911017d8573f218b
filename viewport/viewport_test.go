package viewport

import (
	"testing"

	"github.com/gogpu/gpucontext"
)

type resizeSource struct {
	gpucontext.NullEventSource
	resize func(int, int)
}

func (s *resizeSource) OnResize(fn func(int, int)) { s.resize = fn }

func TestTrackerWatch(t *testing.T) {
	src := &resizeSource{}
	tr := NewTracker(640, 480)
	tr.Watch(src)

	var calls int
	tr.OnChange(func(w, h int) { calls++ })

	src.resize(1024, 768)
	if tr.Width() != 1024 || tr.Height() != 768 {
		t.Errorf("size = %dx%d, want 1024x768", tr.Width(), tr.Height())
	}
	src.resize(1024, 768)
	if calls != 1 {
		t.Errorf("OnChange calls = %d, want 1", calls)
	}
}

func TestFixed(t *testing.T) {
	f := Fixed{W: 300, H: 200}
	if f.Width() != 300 || f.Height() != 200 {
		t.Errorf("Fixed = %dx%d, want 300x200", f.Width(), f.Height())
	}
}
