// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package capacity implements the staking ledger that issues capacity to targets
// and rewards provider boosters each era.
package capacity

import (
	"github.com/vechain/capacity/builtin/capacity/boost"
	"github.com/vechain/capacity/builtin/capacity/epoch"
	"github.com/vechain/capacity/builtin/capacity/era"
	"github.com/vechain/capacity/builtin/capacity/fixedpoint"
	"github.com/vechain/capacity/builtin/capacity/ledger"
	"github.com/vechain/capacity/builtin/capacity/reverts"
	"github.com/vechain/capacity/builtin/solidity"
	"github.com/vechain/capacity/log"
	"github.com/vechain/capacity/state"
	"github.com/vechain/capacity/thor"
)

var logger = log.WithContext("pkg", "capacity")

func SetLogger(l log.Logger) {
	logger = l
}

// Capacity implements the staking, metering and reward operations.
// Every mutating operation either applies all of its effects or none.
type Capacity struct {
	state   *state.State
	config  Config
	token   Token
	targets TargetValidator
	model   EconomicModel

	epochService  *epoch.Service
	eraService    *era.Service
	ledgerService *ledger.Service
	boostService  *boost.Service
}

// New create a new instance. The config is expected to be validated.
func New(addr thor.Address, state *state.State, config Config, token Token, targets TargetValidator, model EconomicModel) *Capacity {
	sctx := solidity.NewContext(addr, state)

	return &Capacity{
		state:   state,
		config:  config,
		token:   token,
		targets: targets,
		model:   model,

		epochService:  epoch.New(sctx, config.MaxEpochLength),
		eraService:    era.New(sctx, era.Params{EraLength: config.EraLength, HistoryLimit: config.HistoryLimit, ChunkLength: config.RewardPoolChunkLength}),
		ledgerService: ledger.New(sctx),
		boostService:  boost.New(sctx, config.HistoryLimit, config.MaxRetargetsPerRewardEra),
	}
}

func (c *Capacity) Config() Config {
	return c.config
}

// atomic runs fn inside a checkpoint and reverts every change fn made when it fails.
func (c *Capacity) atomic(op string, fn func() error) error {
	rev := c.state.NewCheckpoint()
	if err := fn(); err != nil {
		c.state.RevertTo(rev)
		metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": resultOf(err)})
		if !reverts.IsRevertErr(err) {
			logger.Warn("operation failed", "op", op, "err", err)
		}
		return err
	}
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	return nil
}

func resultOf(err error) string {
	if kind, ok := reverts.KindOf(err); ok {
		return kind.String()
	}
	return "error"
}

//
// Getters - no state change
//

func (c *Capacity) CurrentEpoch() (uint32, error) {
	return c.epochService.Current()
}

func (c *Capacity) EpochInfo() (epoch.Info, error) {
	return c.epochService.Info()
}

// EpochLength returns the configured epoch length, zero meaning the maximum.
func (c *Capacity) EpochLength() (uint32, error) {
	return c.epochService.Length()
}

func (c *Capacity) CurrentEra() (era.Info, error) {
	return c.eraService.Current()
}

// EraRunningTotal returns the boosted stake accumulated for the running era.
func (c *Capacity) EraRunningTotal() (uint64, error) {
	return c.eraService.RunningTotal()
}

func (c *Capacity) TotalStakeForPastEra(eraIndex uint32) (uint64, error) {
	return c.eraService.TotalStakeForPastEra(eraIndex)
}

// StakingDetails returns the staker's account, nil if none.
func (c *Capacity) StakingDetails(staker thor.Address) (*ledger.StakingDetails, error) {
	return c.ledgerService.Account(staker)
}

// StakingTarget returns the staker's contribution to target, nil if none.
func (c *Capacity) StakingTarget(staker thor.Address, target thor.TargetID) (*ledger.StakingTarget, error) {
	return c.ledgerService.Target(staker, target)
}

// CapacityDetails returns the target's capacity ledger, nil if none.
func (c *Capacity) CapacityDetails(target thor.TargetID) (*ledger.CapacityDetails, error) {
	return c.ledgerService.Capacity(target)
}

func (c *Capacity) UnlockChunks(staker thor.Address) (ledger.UnlockChunks, error) {
	return c.ledgerService.Unlocks(staker)
}

// BoostHistory returns the staker's boost history, nil if none.
func (c *Capacity) BoostHistory(staker thor.Address) (*boost.History, error) {
	return c.boostService.History(staker)
}

// RetargetRecord returns the staker's retarget record, nil if none.
func (c *Capacity) RetargetRecord(staker thor.Address) (*boost.RetargetRecord, error) {
	return c.boostService.RetargetRecord(staker)
}

// FrozenTotal returns the amount the engine holds frozen for the staker.
func (c *Capacity) FrozenTotal(staker thor.Address) (uint64, error) {
	account, err := c.ledgerService.Account(staker)
	if err != nil {
		return 0, err
	}
	unlocks, err := c.ledgerService.Unlocks(staker)
	if err != nil {
		return 0, err
	}
	unlocking, err := unlocks.Total()
	if err != nil {
		return 0, err
	}
	var active uint64
	if account != nil {
		active = account.Active
	}
	return fixedpoint.CheckedAdd(active, unlocking)
}
