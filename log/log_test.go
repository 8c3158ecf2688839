// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackageLoggerFollowsHandlerSwap(t *testing.T) {
	// package-level loggers are created before any handler is installed
	logger := WithContext("pkg", "test")

	var buf bytes.Buffer
	level := new(slog.LevelVar)
	SetHandler(NewTerminalHandler(&buf, level, false))
	defer SetHandler(DiscardHandler())

	logger.Info("hello", "k", "v")
	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "pkg=test")
	assert.Contains(t, out, "k=v")
}

func TestTerminalHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	SetHandler(NewTerminalHandler(&buf, level, false))
	defer SetHandler(DiscardHandler())

	Root().Info("quiet")
	Root().Warn("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "[WARN] ")
	assert.Contains(t, out, "loud")
}

func TestTerminalHandlerColor(t *testing.T) {
	var buf bytes.Buffer
	SetHandler(NewTerminalHandler(&buf, new(slog.LevelVar), true))
	defer SetHandler(DiscardHandler())

	Root().Error("boom")
	assert.True(t, strings.Contains(buf.String(), "\x1b[31m[EROR]\x1b[0m"))
}
