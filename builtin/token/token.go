// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the fungible token that stakes are frozen in.
package token

import (
	"github.com/pkg/errors"

	"github.com/vechain/capacity/builtin/capacity/fixedpoint"
	"github.com/vechain/capacity/builtin/capacity/reverts"
	"github.com/vechain/capacity/builtin/solidity"
	"github.com/vechain/capacity/state"
	"github.com/vechain/capacity/thor"
)

// MaxFreezes bounds the distinct freeze reasons held on one account.
const MaxFreezes = 8

var (
	slotBalances = thor.BytesToBytes32([]byte("token-balances"))
	slotFreezes  = thor.BytesToBytes32([]byte("token-freezes"))
	slotSupply   = thor.BytesToBytes32([]byte("token-supply"))

	ErrTooManyFreezes = errors.New("too many freezes")
)

// Freeze is an amount of balance held for a reason.
type Freeze struct {
	Reason string
	Amount uint64
}

// Token is a state backed token ledger.
// Freezes overlap: the frozen part of a balance is the largest freeze.
type Token struct {
	balances *solidity.Mapping[thor.Address, uint64]
	freezes  *solidity.Mapping[thor.Address, []Freeze]
	supply   *solidity.Raw[uint64]
}

func New(addr thor.Address, state *state.State) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		balances: solidity.NewMapping[thor.Address, uint64](sctx, slotBalances),
		freezes:  solidity.NewMapping[thor.Address, []Freeze](sctx, slotFreezes),
		supply:   solidity.NewRaw[uint64](sctx, slotSupply),
	}
}

func (t *Token) BalanceOf(account thor.Address) (uint64, error) {
	balance, err := t.balances.Get(account)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get balance")
	}
	return balance, nil
}

func (t *Token) TotalSupply() (uint64, error) {
	supply, err := t.supply.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get total supply")
	}
	return supply, nil
}

func (t *Token) Freezes(account thor.Address) ([]Freeze, error) {
	freezes, err := t.freezes.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get freezes")
	}
	return freezes, nil
}

// Frozen returns the part of the balance that cannot be transferred.
func (t *Token) Frozen(account thor.Address) (uint64, error) {
	freezes, err := t.Freezes(account)
	if err != nil {
		return 0, err
	}
	var frozen uint64
	for _, f := range freezes {
		frozen = max(frozen, f.Amount)
	}
	return frozen, nil
}

// Spendable returns the balance minus the frozen part.
func (t *Token) Spendable(account thor.Address) (uint64, error) {
	balance, err := t.BalanceOf(account)
	if err != nil {
		return 0, err
	}
	frozen, err := t.Frozen(account)
	if err != nil {
		return 0, err
	}
	return fixedpoint.SaturatingSub(balance, frozen), nil
}

// Freeze sets the amount held for reason to total, replacing any previous amount.
func (t *Token) Freeze(reason string, account thor.Address, total uint64) error {
	balance, err := t.BalanceOf(account)
	if err != nil {
		return err
	}
	if total > balance {
		return reverts.ErrInsufficientBalance
	}
	freezes, err := t.Freezes(account)
	if err != nil {
		return err
	}
	for i := range freezes {
		if freezes[i].Reason == reason {
			freezes[i].Amount = total
			return t.setFreezes(account, freezes)
		}
	}
	if len(freezes) >= MaxFreezes {
		return ErrTooManyFreezes
	}
	return t.setFreezes(account, append(freezes, Freeze{Reason: reason, Amount: total}))
}

// Thaw releases the hold for reason.
func (t *Token) Thaw(reason string, account thor.Address) error {
	freezes, err := t.Freezes(account)
	if err != nil {
		return err
	}
	kept := freezes[:0]
	for _, f := range freezes {
		if f.Reason != reason {
			kept = append(kept, f)
		}
	}
	return t.setFreezes(account, kept)
}

func (t *Token) setFreezes(account thor.Address, freezes []Freeze) error {
	if len(freezes) == 0 {
		t.freezes.Delete(account)
		return nil
	}
	return t.freezes.Set(account, freezes)
}

// Mint credits amount to the account and the total supply.
func (t *Token) Mint(account thor.Address, amount uint64) error {
	supply, err := t.TotalSupply()
	if err != nil {
		return err
	}
	if supply, err = fixedpoint.CheckedAdd(supply, amount); err != nil {
		return err
	}
	if err := t.add(account, amount); err != nil {
		return err
	}
	return t.supply.Upsert(supply)
}

// Transfer moves amount of spendable balance between accounts.
func (t *Token) Transfer(from, to thor.Address, amount uint64) error {
	spendable, err := t.Spendable(from)
	if err != nil {
		return err
	}
	if amount > spendable {
		return reverts.ErrInsufficientBalance
	}
	if err := t.sub(from, amount); err != nil {
		return err
	}
	return t.add(to, amount)
}

func (t *Token) add(account thor.Address, amount uint64) error {
	balance, err := t.BalanceOf(account)
	if err != nil {
		return err
	}
	if balance, err = fixedpoint.CheckedAdd(balance, amount); err != nil {
		return err
	}
	return t.setBalance(account, balance)
}

func (t *Token) sub(account thor.Address, amount uint64) error {
	balance, err := t.BalanceOf(account)
	if err != nil {
		return err
	}
	if balance, err = fixedpoint.CheckedSub(balance, amount); err != nil {
		return err
	}
	return t.setBalance(account, balance)
}

func (t *Token) setBalance(account thor.Address, balance uint64) error {
	if balance == 0 {
		t.balances.Delete(account)
		return nil
	}
	return t.balances.Set(account, balance)
}
