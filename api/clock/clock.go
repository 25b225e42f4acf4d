// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/capacity/api/utils"
	"github.com/vechain/capacity/node"
)

type Clock struct {
	node *node.Node
}

func New(node *node.Node) *Clock {
	return &Clock{node}
}

func (c *Clock) handleGetClock(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, c.node.Clock())
}

func (c *Clock) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("clock_get").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetClock))
}
