// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package logging holds the process-wide logger shared by pinpad and its
// sub-packages.
package logging

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that Set can be
// called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// Set replaces the active logger. Pass nil to restore silent behavior.
func Set(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the active logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

var initOnce sync.Once

// InitOnce installs the handler built by newHandler the first time it is
// called. Later calls are no-ops and report false: only the first caller's
// configuration takes effect, even when several native modules in the same
// process try to configure logging.
func InitOnce(newHandler func() slog.Handler) bool {
	ran := false
	initOnce.Do(func() {
		ran = true
		if h := newHandler(); h != nil {
			Set(slog.New(h))
		}
	})
	return ran
}
