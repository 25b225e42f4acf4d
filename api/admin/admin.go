// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"sync/atomic"

	"github.com/gorilla/mux"

	"github.com/vechain/capacity/api/admin/apilogs"
	"github.com/vechain/capacity/api/admin/epochlength"
	"github.com/vechain/capacity/api/admin/loglevel"
	"github.com/vechain/capacity/health"
	"github.com/vechain/capacity/node"

	healthAPI "github.com/vechain/capacity/api/admin/health"
)

// Options carries the runtime controls exposed to operators.
// Every mutating route requires Token as bearer token.
type Options struct {
	Token    string
	LogLevel *slog.LevelVar
	APILogs  *atomic.Bool
	Health   *health.Health
}

type Admin struct {
	node *node.Node
	opts Options
}

func New(node *node.Node, opts Options) *Admin {
	return &Admin{node: node, opts: opts}
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	epochlength.New(a.node, a.opts.Token).Mount(sub, "/epoch-length")
	if a.opts.LogLevel != nil {
		loglevel.New(a.opts.LogLevel, a.opts.Token).Mount(sub, "/loglevel")
	}
	if a.opts.APILogs != nil {
		apilogs.New(a.opts.APILogs, a.opts.Token).Mount(sub, "/apilogs")
	}
	if a.opts.Health != nil {
		healthAPI.NewAPI(a.opts.Health).Mount(sub, "/health")
	}
}
