// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package targets

import (
	"github.com/vechain/capacity/registry"
	"github.com/vechain/capacity/thor"
)

// Target is a registered provider.
type Target struct {
	ID           thor.TargetID `json:"id"`
	Name         string        `json:"name"`
	Owner        thor.Address  `json:"owner"`
	RegisteredAt uint32        `json:"registeredAt"`
}

type RegisterRequest struct {
	ID    thor.TargetID `json:"id"`
	Name  string        `json:"name"`
	Owner *thor.Address `json:"owner"`
}

func convertTarget(id thor.TargetID, p *registry.Provider) *Target {
	return &Target{
		ID:           id,
		Name:         p.Name,
		Owner:        p.Owner,
		RegisteredAt: p.RegisteredAt,
	}
}
