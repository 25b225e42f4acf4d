// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testnode builds in-memory ledger nodes for tests.
package testnode

import (
	"fmt"

	"github.com/vechain/capacity/builtin/capacity"
	"github.com/vechain/capacity/builtin/capacity/economics"
	"github.com/vechain/capacity/lvldb"
	"github.com/vechain/capacity/node"
	"github.com/vechain/capacity/thor"
)

var (
	Alice = thor.BytesToAddress([]byte("alice"))
	Bob   = thor.BytesToAddress([]byte("bob"))
	Owner = thor.BytesToAddress([]byte("owner"))
)

// DefaultConfig is a small configuration that makes epochs and eras pass in a few ticks.
func DefaultConfig() capacity.Config {
	cfg := capacity.DefaultConfig()
	cfg.MinimumStakingAmount = 10
	cfg.MinimumTokenBalance = 10
	cfg.MaxUnlockingChunks = 4
	cfg.UnstakingThawPeriod = 2
	cfg.MaxEpochLength = 100
	cfg.EraLength = 10
	return cfg
}

// DefaultGenesis funds Alice and Bob and registers targets 1 and 2.
func DefaultGenesis() *node.Genesis {
	return &node.Genesis{
		EpochLength: 5,
		Allocations: []node.Allocation{
			{Address: Alice, Amount: 10_000},
			{Address: Bob, Amount: 10_000},
		},
		Targets: []node.Target{
			{ID: 1, Name: "alpha", Owner: Owner},
			{ID: 2, Name: "beta", Owner: Owner},
		},
	}
}

// Builder implements the builder pattern for creating a test node.
type Builder struct {
	config  capacity.Config
	genesis *node.Genesis
	model   capacity.EconomicModel
}

// NewBuilder creates a Builder with DefaultConfig, DefaultGenesis and the default economics.
func NewBuilder() *Builder {
	return &Builder{
		config:  DefaultConfig(),
		genesis: DefaultGenesis(),
		model:   economics.Default(),
	}
}

// WithConfig replaces the engine parameters.
func (b *Builder) WithConfig(config capacity.Config) *Builder {
	b.config = config
	return b
}

// WithGenesis replaces the genesis. A nil genesis leaves the ledger empty.
func (b *Builder) WithGenesis(genesis *node.Genesis) *Builder {
	b.genesis = genesis
	return b
}

// WithModel replaces the economic model.
func (b *Builder) WithModel(model capacity.EconomicModel) *Builder {
	b.model = model
	return b
}

// Build opens a node over an in-memory store and applies the genesis.
func (b *Builder) Build() (*node.Node, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, fmt.Errorf("failed to open memory db: %w", err)
	}
	n, err := node.New(db, b.config, b.model)
	if err != nil {
		return nil, fmt.Errorf("failed to create node: %w", err)
	}
	if b.genesis != nil {
		if _, err := n.InitGenesis(b.genesis); err != nil {
			return nil, fmt.Errorf("failed to init genesis: %w", err)
		}
	}
	return n, nil
}

// New builds a node with the defaults.
func New() (*node.Node, error) {
	return NewBuilder().Build()
}
