// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/capacity/api"
	"github.com/vechain/capacity/health"
	"github.com/vechain/capacity/log"
	"github.com/vechain/capacity/metrics"
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

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "Capacity"
	app.Usage = "Staking ledger that converts locked tokens into per-epoch compute capacity"
	app.Copyright = "2025 VeChain Foundation <https://vechain.org/>"
	app.Flags = []cli.Flag{
		dataDirFlag,
		configFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiEnableReqLoggerFlag,
		apiSlowQueriesThresholdFlag,
		adminTokenFlag,
		blockIntervalFlag,
		verbosityFlag,
		jsonLogsFlag,
		enableMetricsFlag,
		metricsAddrFlag,
	}
	app.Action = defaultAction
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	cfg := loadConfig(ctx)
	interval := ctx.Duration(blockIntervalFlag.Name)
	if interval <= 0 {
		fatal(fmt.Sprintf("--%s must be positive", blockIntervalFlag.Name))
	}

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	dataDir := makeDataDir(ctx)
	mainDB := openMainDB(dataDir)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	n := initNode(mainDB, cfg)
	h := health.New(interval)

	reqLogger := &atomic.Bool{}
	reqLogger.Store(ctx.Bool(apiEnableReqLoggerFlag.Name))
	adminToken := strings.TrimSpace(ctx.String(adminTokenFlag.Name))

	handler, closeAPI := api.New(n, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		AdminToken:           adminToken,
		EnableReqLogger:      reqLogger,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogLevel:             logLevel,
		Health:               h,
	})
	defer func() { logger.Info("closing API..."); closeAPI() }()

	apiURL, srvCloser := startAPIServer(ctx, handler)
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(n, dataDir, apiURL, metricsURL, interval, adminToken != "")

	return run(exitSignal, func(ctx context.Context) { n.Run(ctx, interval) }, func(ctx context.Context) { h.Run(ctx, n) })
}

// run starts every service and waits for all of them to return after ctx is done.
func run(ctx context.Context, services ...func(ctx context.Context)) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, svc := range services {
		svc := svc
		g.Go(func() error {
			svc(ctx)
			return nil
		})
	}
	return g.Wait()
}
