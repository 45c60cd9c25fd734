// Package hdrgrade implements the core rendering pipeline of an HDR-capable
// video image processor: a dirty-flag driven shader-state manager, a
// single-pass colour-grading fragment pipeline, and the GPU/CPU image
// filters that sit around it (noise reduction, sharpen, film emulation,
// stabilization, luminance analysis for auto-exposure).
//
// The package never creates a GPU device; the host supplies one through
// render.DeviceHandle. This keeps hdrgrade usable in CPU-only test and
// headless-review contexts, and lets a host share one GPU device across
// hdrgrade and the rest of its rendering stack.
package hdrgrade

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger that Logger returns. By default hdrgrade
// produces no log output. Pass nil to restore the silent default.
//
// Among the library packages only gpu logs through it: an Info record when
// the pipeline shaders validate and a Warn record when validation fails.
// The state manager, pipeline, luminance, filter, hdrsurface and uniform
// packages do not log.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages call this to share the
// same logger configuration without an import cycle back to hdrgrade.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
