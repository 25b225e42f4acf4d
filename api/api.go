// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/capacity/api/accounts"
	"github.com/vechain/capacity/api/admin"
	"github.com/vechain/capacity/api/capacity"
	"github.com/vechain/capacity/api/clock"
	"github.com/vechain/capacity/api/doc"
	"github.com/vechain/capacity/api/middleware"
	"github.com/vechain/capacity/api/subscriptions"
	"github.com/vechain/capacity/api/targets"
	"github.com/vechain/capacity/health"
	"github.com/vechain/capacity/log"
	"github.com/vechain/capacity/node"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	AdminToken           string
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	LogLevel             *slog.LevelVar
	Health               *health.Health
}

// New return api router
func New(n *node.Node, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	if opts.EnableReqLogger == nil {
		opts.EnableReqLogger = &atomic.Bool{}
	}

	router := mux.NewRouter()

	// to serve the api docs
	router.PathPrefix("/doc").Handler(
		http.StripPrefix("/doc/", http.FileServer(http.FS(doc.FS))),
	)

	clock.New(n).
		Mount(router, "/clock")
	accounts.New(n).
		Mount(router, "/accounts")
	capacity.New(n, opts.AdminToken).
		Mount(router, "/capacity")
	targets.New(n, opts.AdminToken).
		Mount(router, "/targets")
	admin.New(n, admin.Options{
		Token:    opts.AdminToken,
		LogLevel: opts.LogLevel,
		APILogs:  opts.EnableReqLogger,
		Health:   opts.Health,
	}).Mount(router, "/admin")
	subs := subscriptions.New(n, origins)
	subs.Mount(router, "/subscriptions")

	for _, path := range undocumentedRoutes(router) {
		logger.Warn("route missing from api doc", "path", path)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handleXCapacityVersion(handler)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "authorization"}),
		handlers.ExposedHeaders([]string{"x-capacity-ver"}),
	)(handler)
	handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}

// undocumentedRoutes lists the path templates of named routes that the api doc does not describe.
func undocumentedRoutes(router *mux.Router) []string {
	var missing []string
	router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if route.GetName() == "" {
			return nil
		}
		if tpl, err := route.GetPathTemplate(); err == nil && !doc.Documented(tpl) {
			missing = append(missing, tpl)
		}
		return nil
	})
	return missing
}

func handleXCapacityVersion(h http.Handler) http.Handler {
	ver := doc.Version()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-capacity-ver", ver)
		h.ServeHTTP(w, r)
	})
}
