// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/capacity/api/utils"
	"github.com/vechain/capacity/node"
	"github.com/vechain/capacity/thor"
)

type Accounts struct {
	node *node.Node
}

func New(node *node.Node) *Accounts {
	return &Accounts{node}
}

func (a *Accounts) getAccount(addr thor.Address) (*Account, error) {
	var acc Account
	err := a.node.View(func(l *node.Ledger) (err error) {
		if acc.Balance, err = l.Token.BalanceOf(addr); err != nil {
			return err
		}
		if acc.Frozen, err = l.Token.Frozen(addr); err != nil {
			return err
		}
		if acc.Spendable, err = l.Token.Spendable(addr); err != nil {
			return err
		}
		details, err := l.Capacity.StakingDetails(addr)
		if err != nil {
			return err
		}
		acc.Staking = convertStaking(details)

		unlocks, err := l.Capacity.UnlockChunks(addr)
		if err != nil {
			return err
		}
		acc.Unlocking = convertUnlocks(unlocks)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	acc, err := a.getAccount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	from, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.To == nil {
		return utils.BadRequest(errors.New("body: to is required"))
	}
	err = a.node.Apply(func(l *node.Ledger) error {
		return l.Token.Transfer(from, *body.To, body.Amount)
	})
	if err != nil {
		return utils.Revert(err)
	}
	acc, err := a.getAccount(from)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("accounts_get_account").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/transfer").
		Methods(http.MethodPost).
		Name("accounts_transfer").
		HandlerFunc(utils.WrapHandlerFunc(a.handleTransfer))
}
