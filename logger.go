// Package rhi provides a backend-agnostic object model for
// GPU rendering resources.
//
// Resources are created up front with their identity and,
// for buffers and textures, an optional initial payload.
// Creating a resource does not touch the GPU; the backend
// resource comes into existence when the handle is pinned
// to a driver.Context, at which point the payload is handed
// to the driver and discarded.
//
// Reference counting throughout the package uses plain
// integers. A handle and every Set or DataSet that shares
// it must be managed from a single goroutine, or callers
// must provide their own synchronization.
package rhi

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards all records.
// Enabled returns false so disabled logging skips message
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by the package.
// By default no log output is produced. Pass nil to restore
// the silent default.
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
// It is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
