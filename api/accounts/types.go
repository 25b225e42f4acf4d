// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/vechain/capacity/builtin/capacity/ledger"
	"github.com/vechain/capacity/thor"
)

type Staking struct {
	Active      uint64 `json:"active"`
	StakingType string `json:"stakingType"`
}

type UnlockChunk struct {
	Value     uint64 `json:"value"`
	ThawEpoch uint32 `json:"thawEpoch"`
}

// Account is the token and staking view of an address.
type Account struct {
	Balance   uint64        `json:"balance"`
	Frozen    uint64        `json:"frozen"`
	Spendable uint64        `json:"spendable"`
	Staking   *Staking      `json:"staking"`
	Unlocking []UnlockChunk `json:"unlocking"`
}

type TransferRequest struct {
	To     *thor.Address `json:"to"`
	Amount uint64        `json:"amount"`
}

func convertStaking(d *ledger.StakingDetails) *Staking {
	if d == nil {
		return nil
	}
	return &Staking{
		Active:      d.Active,
		StakingType: d.StakingType.String(),
	}
}

func convertUnlocks(chunks ledger.UnlockChunks) []UnlockChunk {
	out := make([]UnlockChunk, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, UnlockChunk{Value: c.Value, ThawEpoch: c.ThawEpoch})
	}
	return out
}
