// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/pollvenue/venue/api"
	"github.com/pollvenue/venue/history"
	"github.com/pollvenue/venue/log"
	"github.com/pollvenue/venue/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Venue",
		Usage:     "Poll venue serving pari-mutuel prediction and opinion polls",
		Copyright: "2026 The PollVenue developers",
		Flags: []cli.Flag{
			pollsFlag,
			dataDirFlag,
			memFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			pprofFlag,
			verbosityFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	defs, err := loadPollDefinitions(ctx.String(pollsFlag.Name))
	if err != nil {
		return err
	}

	mainDB, err := openMainDB(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	historyDB, err := history.New(historyDBPath(ctx))
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing history database..."); historyDB.Close() }()

	venues, err := buildVenues(mainDB, historyDB, defs)
	if err != nil {
		return err
	}

	apiHandler := api.New(venues, historyDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EventsLimit:     ctx.Int(apiEventsLimitFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})

	apiListener, err := listen(ctx.String(apiAddrFlag.Name))
	if err != nil {
		return err
	}
	apiSrv := &http.Server{Handler: apiHandler, ReadHeaderTimeout: 10 * time.Second}

	var group errgroup.Group
	group.Go(func() error {
		logger.Info("API server started", "addr", apiListener.Addr())
		if err := apiSrv.Serve(apiListener); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	var metricsSrv *http.Server
	if ctx.Bool(enableMetricsFlag.Name) {
		metricsListener, err := listen(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		metricsSrv = &http.Server{Handler: metrics.HTTPHandler(), ReadHeaderTimeout: 10 * time.Second}
		group.Go(func() error {
			logger.Info("metrics server started", "addr", metricsListener.Addr())
			if err := metricsSrv.Serve(metricsListener); err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}

	printStartupMessage(ctx, defs)

	<-handleExitSignal()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("stopping API server...")
	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("API server shutdown", "err", err)
	}
	if metricsSrv != nil {
		logger.Info("stopping metrics server...")
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", "err", err)
		}
	}
	return group.Wait()
}

func printStartupMessage(ctx *cli.Context, defs []pollDefinition) {
	dataDir := ctx.String(dataDirFlag.Name)
	if ctx.Bool(memFlag.Name) {
		dataDir = "Memory"
	}
	fmt.Printf(`Starting %v
    Version     %v
    Data dir    [%v]
    API portal  [http://%v/]
    Polls       [%v]
`,
		"Venue",
		fullVersion(),
		dataDir,
		ctx.String(apiAddrFlag.Name),
		len(defs),
	)
}
