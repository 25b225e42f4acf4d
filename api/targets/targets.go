// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package targets

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/capacity/api/utils"
	"github.com/vechain/capacity/node"
	"github.com/vechain/capacity/registry"
)

type Targets struct {
	node       *node.Node
	adminToken string
}

func New(node *node.Node, adminToken string) *Targets {
	return &Targets{node, adminToken}
}

func (t *Targets) handleList(w http.ResponseWriter, _ *http.Request) error {
	var entries []*registry.Entry
	err := t.node.View(func(l *node.Ledger) (err error) {
		entries, err = l.Registry.List()
		return err
	})
	if err != nil {
		return err
	}
	list := make([]*Target, 0, len(entries))
	for _, e := range entries {
		list = append(list, convertTarget(e.ID, e.Provider))
	}
	return utils.WriteJSON(w, list)
}

func (t *Targets) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.TargetVar(req, "id")
	if err != nil {
		return err
	}
	var p *registry.Provider
	err = t.node.View(func(l *node.Ledger) (err error) {
		p, err = l.Registry.Get(id)
		return err
	})
	if err != nil {
		return err
	}
	if p == nil {
		return utils.NotFound(errors.New("target not found"))
	}
	return utils.WriteJSON(w, convertTarget(id, p))
}

func (t *Targets) handleRegister(w http.ResponseWriter, req *http.Request) error {
	var body RegisterRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Owner == nil {
		return utils.BadRequest(errors.New("body: owner is required"))
	}
	if body.Name == "" {
		return utils.BadRequest(errors.New("body: name is required"))
	}
	height, err := t.node.Height()
	if err != nil {
		return err
	}
	p := &registry.Provider{Name: body.Name, Owner: *body.Owner, RegisteredAt: height}
	err = t.node.Apply(func(l *node.Ledger) error {
		return l.Registry.Register(body.ID, p)
	})
	if err != nil {
		if errors.Is(err, registry.ErrAlreadyRegistered) {
			return utils.Conflict(err)
		}
		return err
	}
	return utils.WriteJSON(w, convertTarget(body.ID, p))
}

func (t *Targets) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("targets_list").
		HandlerFunc(utils.WrapHandlerFunc(t.handleList))
	sub.Path("").
		Methods(http.MethodPost).
		Name("targets_register").
		HandlerFunc(utils.WrapHandlerFunc(utils.RequireBearer(t.adminToken, t.handleRegister)))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("targets_get").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGet))
}
