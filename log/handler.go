// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

type discardHandler struct{}

// DiscardHandler returns a no-op handler.
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h *discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (h *discardHandler) WithGroup(_ string) slog.Handler               { panic("not implemented") }
func (h *discardHandler) WithAttrs(_ []slog.Attr) slog.Handler          { return &discardHandler{} }

// TerminalHandler formats records for human readability on a terminal,
// with color-coded levels and a terse timestamp:
//
//	[LEVEL] [TIME] MESSAGE key=value key=value ...
type TerminalHandler struct {
	mu       sync.Mutex
	wr       io.Writer
	lvl      *slog.LevelVar
	useColor bool
	attrs    []slog.Attr

	buf []byte
}

// NewTerminalHandler returns a terminal handler writing records at or above
// the given level to wr.
func NewTerminalHandler(wr io.Writer, lvl *slog.LevelVar, useColor bool) *TerminalHandler {
	return &TerminalHandler{
		wr:       wr,
		lvl:      lvl,
		useColor: useColor,
	}
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

func (h *TerminalHandler) WithGroup(_ string) slog.Handler {
	panic("not implemented")
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TerminalHandler{
		wr:       h.wr,
		lvl:      h.lvl,
		useColor: h.useColor,
		attrs:    append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

const (
	colorRed    = 31
	colorYellow = 33
	colorGreen  = 32
	colorCyan   = 36
)

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	buf := h.buf[:0]
	lvl, color := levelTag(r.Level)
	if h.useColor && color > 0 {
		buf = fmt.Appendf(buf, "\x1b[%dm[%s]\x1b[0m", color, lvl)
	} else {
		buf = fmt.Appendf(buf, "[%s]", lvl)
	}
	buf = fmt.Appendf(buf, " [%s] %s", r.Time.Format(time.StampMilli), r.Message)

	for _, attr := range h.attrs {
		buf = appendAttr(buf, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		buf = appendAttr(buf, attr)
		return true
	})
	buf = append(buf, '\n')

	h.buf = buf[:0]
	_, err := h.wr.Write(buf)
	return err
}

func levelTag(lvl slog.Level) (string, int) {
	switch {
	case lvl >= slog.LevelError:
		return "EROR", colorRed
	case lvl >= slog.LevelWarn:
		return "WARN", colorYellow
	case lvl >= slog.LevelInfo:
		return "INFO", colorGreen
	default:
		return "DBUG", colorCyan
	}
}

func appendAttr(buf []byte, attr slog.Attr) []byte {
	return fmt.Appendf(buf, " %s=%v", attr.Key, attr.Value.Resolve().Any())
}
