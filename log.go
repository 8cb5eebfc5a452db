// SPDX-License-Identifier: Unlicense OR MIT

package glcontext

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// nopHandler discards all records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newStderrLogger())
}

func newStderrLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// SetLogger replaces the logger that receives diagnostics. By default
// diagnostics at Info level and above go to standard error. Pass nil to
// discard them.
//
// Levels:
//   - [slog.LevelDebug]: context creation, surface changes.
//   - [slog.LevelWarn]: failed lock attempts, failed native deactivation.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
