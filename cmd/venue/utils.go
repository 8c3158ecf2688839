// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"net"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/pollvenue/venue/log"
	"github.com/pollvenue/venue/lvldb"
)

func initLogger(ctx *cli.Context) {
	useColor := runtime.GOOS != "windows" && isatty.IsTerminal(os.Stderr.Fd())
	log.Init(ctx.Int(verbosityFlag.Name), useColor)
}

func defaultDataDir() string {
	// try to get HOME dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.pollvenue.venue")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "Venue")
		default:
			return filepath.Join(home, ".org.pollvenue.venue")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func openMainDB(ctx *cli.Context) (*lvldb.LevelDB, error) {
	if ctx.Bool(memFlag.Name) {
		return lvldb.NewMem()
	}
	dataDir := ctx.String(dataDirFlag.Name)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, err
	}
	return lvldb.New(filepath.Join(dataDir, "main.db"), lvldb.Options{})
}

func historyDBPath(ctx *cli.Context) string {
	if ctx.Bool(memFlag.Name) {
		return ":memory:"
	}
	return filepath.Join(ctx.String(dataDirFlag.Name), "history.db")
}

func listen(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.WithMessagef(err, "listen on %s", addr)
	}
	return listener, nil
}

func handleExitSignal() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		close(done)
	}()
	return done
}
