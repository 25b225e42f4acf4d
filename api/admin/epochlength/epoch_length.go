// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epochlength

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/capacity/api/utils"
	"github.com/vechain/capacity/node"
)

type Request struct {
	Length *uint32 `json:"length"`
}

type Response struct {
	Length    uint32 `json:"length"`
	MaxLength uint32 `json:"maxLength"`
}

type EpochLength struct {
	node  *node.Node
	token string
}

func New(node *node.Node, token string) *EpochLength {
	return &EpochLength{node: node, token: token}
}

func (e *EpochLength) response() (*Response, error) {
	var res Response
	err := e.node.View(func(l *node.Ledger) (err error) {
		res.MaxLength = l.Capacity.Config().MaxEpochLength
		res.Length, err = l.Capacity.EpochLength()
		return err
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (e *EpochLength) handleGet(w http.ResponseWriter, _ *http.Request) error {
	res, err := e.response()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (e *EpochLength) handleSet(w http.ResponseWriter, r *http.Request) error {
	var req Request
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if req.Length == nil {
		return utils.BadRequest(errors.New("body: length is required"))
	}
	err := e.node.Apply(func(l *node.Ledger) error {
		return l.Capacity.SetEpochLength(*req.Length)
	})
	if err != nil {
		return utils.Revert(err)
	}
	return e.handleGet(w, r)
}

func (e *EpochLength) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("admin_get_epoch_length").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGet))

	sub.Path("").
		Methods(http.MethodPost).
		Name("admin_set_epoch_length").
		HandlerFunc(utils.WrapHandlerFunc(utils.RequireBearer(e.token, e.handleSet)))
}
