// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// current is the handler all loggers created by this package forward to.
// Package level loggers are created before main configures verbosity, so
// the indirection is what makes a later Init call take effect everywhere.
var current atomic.Pointer[slog.Handler]

func init() {
	h := DiscardHandler()
	current.Store(&h)
}

type forwardHandler struct {
	attrs []slog.Attr
}

func (f *forwardHandler) target() slog.Handler {
	h := *current.Load()
	if len(f.attrs) > 0 {
		h = h.WithAttrs(f.attrs)
	}
	return h
}

func (f *forwardHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return (*current.Load()).Enabled(ctx, lvl)
}

func (f *forwardHandler) Handle(ctx context.Context, r slog.Record) error {
	return f.target().Handle(ctx, r)
}

func (f *forwardHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	all := append(append([]slog.Attr(nil), f.attrs...), attrs...)
	return &forwardHandler{attrs: all}
}

func (f *forwardHandler) WithGroup(_ string) slog.Handler {
	panic("not implemented")
}

// SetHandler replaces the handler behind every logger created by this package.
func SetHandler(h slog.Handler) {
	current.Store(&h)
}

// Root returns the root logger.
func Root() *slog.Logger {
	return slog.New(&forwardHandler{})
}

// WithContext returns a logger carrying the given context attrs.
// Typical use is a package level `var logger = log.WithContext("pkg", "...")`.
func WithContext(args ...any) *slog.Logger {
	return Root().With(args...)
}

// Init configures logging to write human readable records to stderr
// at the given verbosity (0=error .. 3+=debug).
func Init(verbosity int, useColor bool) {
	var lvl slog.Level
	switch {
	case verbosity <= 0:
		lvl = slog.LevelError
	case verbosity == 1:
		lvl = slog.LevelWarn
	case verbosity == 2:
		lvl = slog.LevelInfo
	default:
		lvl = slog.LevelDebug
	}
	level := new(slog.LevelVar)
	level.Set(lvl)
	SetHandler(NewTerminalHandler(os.Stderr, level, useColor))
}
