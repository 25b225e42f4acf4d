// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/vechain/capacity/registry"
	"github.com/vechain/capacity/thor"
)

// Allocation is a token balance minted at genesis.
type Allocation struct {
	Address thor.Address `yaml:"address"`
	Amount  uint64       `yaml:"amount"`
}

// Target is a provider registered at genesis.
type Target struct {
	ID    thor.TargetID `yaml:"id"`
	Name  string        `yaml:"name"`
	Owner thor.Address  `yaml:"owner"`
}

// Genesis seeds an empty ledger.
type Genesis struct {
	EpochLength uint32       `yaml:"epoch-length"`
	Allocations []Allocation `yaml:"allocations"`
	Targets     []Target     `yaml:"targets"`
}

// InitGenesis applies g once. Later calls are ignored.
func (n *Node) InitGenesis(g *Genesis) (bool, error) {
	applied := false
	err := n.Apply(func(l *Ledger) error {
		done, err := n.gen.Get()
		if err != nil || done {
			return err
		}
		if err := l.Capacity.SetEpochLength(g.EpochLength); err != nil {
			return err
		}
		for _, a := range g.Allocations {
			if err := l.Token.Mint(a.Address, a.Amount); err != nil {
				return err
			}
		}
		for _, t := range g.Targets {
			exists, err := l.Registry.IsValidTarget(t.ID)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			if err := l.Registry.Register(t.ID, &registry.Provider{Name: t.Name, Owner: t.Owner}); err != nil {
				return err
			}
		}
		applied = true
		return n.gen.Upsert(true)
	})
	if err != nil {
		return false, err
	}
	if applied {
		logger.Info("initialized genesis", "allocations", len(g.Allocations), "targets", len(g.Targets))
		n.mu.Lock()
		clock, err := n.clock()
		n.mu.Unlock()
		if err != nil {
			return false, err
		}
		n.feed.Send(clock)
	}
	return applied, nil
}
