package mapview

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/mapview/backend/wgpu"
	"github.com/gogpu/mapview/layer"
	"github.com/gogpu/mapview/program"
	"github.com/gogpu/mapview/world"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for mapview and all its sub-packages.
// By default, mapview produces no log output. Pass nil to restore the
// default silent behavior.
//
// Log levels used by mapview:
//   - [slog.LevelDebug]: per-frame diagnostics (pipelines, batches, clamps)
//   - [slog.LevelInfo]: lifecycle events (registry ready, session created)
//   - [slog.LevelWarn]: non-fatal issues (draws dropped, release errors)
//   - [slog.LevelError]: shader compile, link and binding diagnostics
//
// Example:
//
//	mapview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	program.SetLogger(l)
	layer.SetLogger(l)
	world.SetLogger(l)
	wgpu.SetLogger(l)
}

// Logger returns the current logger used by mapview.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
