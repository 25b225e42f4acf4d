// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/capacity/co"
	"github.com/vechain/capacity/log"
	"github.com/vechain/capacity/lvldb"
	"github.com/vechain/capacity/metrics"
	"github.com/vechain/capacity/node"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	level := &slog.LevelVar{}
	level.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name))))
	log.SetDefault(log.NewHandler(os.Stderr, level, ctx.Bool(jsonLogsFlag.Name)))
	return level
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func openMainDB(dataDir string) *lvldb.LevelDB {
	path := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		fatal(fmt.Sprintf("open ledger database [%v]: %v", path, err))
	}
	return db
}

func loadConfig(ctx *cli.Context) *fileConfig {
	cfg, err := loadConfigFile(ctx.String(configFlag.Name))
	if err != nil {
		fatal(err)
	}
	return cfg
}

func initNode(db *lvldb.LevelDB, cfg *fileConfig) *node.Node {
	n, err := node.New(db, cfg.Engine, defaultModel())
	if err != nil {
		fatal(fmt.Sprintf("open node: %v", err))
	}
	applied, err := n.InitGenesis(&cfg.Genesis)
	if err != nil {
		fatal(fmt.Sprintf("init genesis: %v", err))
	}
	if !applied {
		logger.Debug("genesis already applied")
	}
	return n
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func()) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}
}

func startMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func printStartupMessage(n *node.Node, dataDir, apiURL, metricsURL string, interval time.Duration, adminEnabled bool) {
	clock := n.Clock()
	fmt.Printf(`Starting %v
    Clock        [ height #%v epoch %v (length %v) era %v ]
    Interval     [ %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		"Capacity "+fullVersion(),
		clock.Height, clock.Epoch, clock.EpochLength, clock.Era,
		interval,
		dataDir,
		apiURL,
		func() string {
			if metricsURL == "" {
				return "disabled"
			}
			return metricsURL
		}(),
		func() string {
			if adminEnabled {
				return "enabled"
			}
			return "disabled, set --" + adminTokenFlag.Name + " to enable"
		}())
}
