// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node drives the capacity ledger: it serializes operations, ticks the height
// clock and persists every successful change.
package node

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/capacity/builtin/capacity"
	"github.com/vechain/capacity/builtin/solidity"
	"github.com/vechain/capacity/builtin/token"
	"github.com/vechain/capacity/co"
	"github.com/vechain/capacity/kv"
	"github.com/vechain/capacity/log"
	"github.com/vechain/capacity/registry"
	"github.com/vechain/capacity/state"
	"github.com/vechain/capacity/thor"
)

var logger = log.WithContext("pkg", "node")

var (
	CapacityAddress = thor.BytesToAddress([]byte("capacity"))
	TokenAddress    = thor.BytesToAddress([]byte("token"))
	nodeAddress     = thor.BytesToAddress([]byte("node"))

	slotHeight  = thor.BytesToBytes32([]byte("height"))
	slotGenesis = thor.BytesToBytes32([]byte("genesis"))

	stateBucket    = kv.Bucket("s")
	registryBucket = kv.Bucket("r")
)

// Ledger is the set of components an operation may act on.
type Ledger struct {
	Capacity *capacity.Capacity
	Token    *token.Token
	Registry *registry.Registry
}

// Clock is the state of the height, epoch and era clocks after a tick.
type Clock struct {
	Height       uint32 `json:"height"`
	Epoch        uint32 `json:"epoch"`
	EpochStart   uint32 `json:"epochStart"`
	EpochLength  uint32 `json:"epochLength"`
	Era          uint32 `json:"era"`
	EraStartedAt uint32 `json:"eraStartedAt"`
}

// Node is the single writer of the ledger.
type Node struct {
	mu     sync.Mutex
	state  *state.State
	ledger *Ledger
	height *solidity.Raw[uint32]
	gen    *solidity.Raw[bool]
	feed   co.Feed[*Clock]
}

// New opens the ledger kept in store.
func New(store kv.Store, config capacity.Config, model capacity.EconomicModel) (*Node, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	st := state.New(stateBucket.NewStore(store))
	reg := registry.New(registryBucket.NewStore(store))
	tk := token.New(TokenAddress, st)
	sctx := solidity.NewContext(nodeAddress, st)

	n := &Node{
		state: st,
		ledger: &Ledger{
			Capacity: capacity.New(CapacityAddress, st, config, tk, reg, model),
			Token:    tk,
			Registry: reg,
		},
		height: solidity.NewRaw[uint32](sctx, slotHeight),
		gen:    solidity.NewRaw[bool](sctx, slotGenesis),
	}
	clock, err := n.clock()
	if err != nil {
		return nil, err
	}
	n.feed.Send(clock)
	return n, nil
}

// Apply runs fn as one operation. Its changes are committed when it succeeds and dropped otherwise.
func (n *Node) Apply(fn func(l *Ledger) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	rev := n.state.NewCheckpoint()
	if err := fn(n.ledger); err != nil {
		n.state.RevertTo(rev)
		return err
	}
	return n.commit()
}

// View runs fn against the last committed ledger.
func (n *Node) View(fn func(l *Ledger) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return fn(n.ledger)
}

func (n *Node) commit() error {
	stage := n.state.Stage()
	if stage.Len() == 0 {
		return nil
	}
	if err := stage.Commit(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	return nil
}

// Height returns the height of the last tick.
func (n *Node) Height() (uint32, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.height.Get()
}

// Tick advances the height by one and runs the block hook.
func (n *Node) Tick() (*capacity.Transition, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	height, err := n.height.Get()
	if err != nil {
		return nil, err
	}
	height++

	rev := n.state.NewCheckpoint()
	transition, err := n.ledger.Capacity.OnBlock(height)
	if err == nil {
		err = n.height.Upsert(height)
	}
	if err != nil {
		n.state.RevertTo(rev)
		return nil, err
	}
	if err := n.commit(); err != nil {
		return nil, err
	}
	metricHeight().Set(int64(height))

	clock, err := n.clock()
	if err != nil {
		return nil, err
	}
	n.feed.Send(clock)
	return transition, nil
}

// Clock returns the clock as of the last tick.
func (n *Node) Clock() *Clock {
	clock, _ := n.feed.Latest()
	return clock
}

// SubscribeClock streams the clock after every tick.
func (n *Node) SubscribeClock() *co.Subscription[*Clock] {
	return n.feed.Subscribe()
}

func (n *Node) clock() (*Clock, error) {
	height, err := n.height.Get()
	if err != nil {
		return nil, err
	}
	c := n.ledger.Capacity
	epoch, err := c.CurrentEpoch()
	if err != nil {
		return nil, err
	}
	epochInfo, err := c.EpochInfo()
	if err != nil {
		return nil, err
	}
	epochLength, err := c.EpochLength()
	if err != nil {
		return nil, err
	}
	era, err := c.CurrentEra()
	if err != nil {
		return nil, err
	}
	return &Clock{
		Height:       height,
		Epoch:        epoch,
		EpochStart:   epochInfo.EpochStart,
		EpochLength:  epochLength,
		Era:          era.EraIndex,
		EraStartedAt: era.StartedAt,
	}, nil
}

// Run ticks the clock every interval until ctx is done.
func (n *Node) Run(ctx context.Context, interval time.Duration) {
	goes := &co.Goes{}
	defer goes.Wait()

	logger.Info("started block clock", "interval", interval)
	goes.Every(ctx, interval, func() {
		if _, err := n.Tick(); err != nil {
			logger.Error("failed to tick", "err", err)
		}
	})
	<-ctx.Done()
	logger.Info("stopping block clock......")
}
