// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package capacity

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/capacity/api/utils"
	"github.com/vechain/capacity/builtin/capacity"
	"github.com/vechain/capacity/node"
)

type Capacity struct {
	node       *node.Node
	adminToken string
}

// New returns the capacity endpoints. Metering a target's capacity requires adminToken.
func New(node *node.Node, adminToken string) *Capacity {
	return &Capacity{node, adminToken}
}

func parseBody(req *http.Request, v any) error {
	if err := utils.ParseJSON(req.Body, v); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return nil
}

func (c *Capacity) parseStake(req *http.Request) (*StakeRequest, error) {
	var body StakeRequest
	if err := parseBody(req, &body); err != nil {
		return nil, err
	}
	if err := body.validate(); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return &body, nil
}

func (c *Capacity) handleStake(w http.ResponseWriter, req *http.Request) error {
	body, err := c.parseStake(req)
	if err != nil {
		return err
	}
	var result StakeResult
	err = c.node.Apply(func(l *node.Ledger) (err error) {
		result.Staked, result.CapacityIssued, err = l.Capacity.Stake(*body.Staker, body.Target, body.Amount)
		return err
	})
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, &result)
}

func (c *Capacity) handleBoost(w http.ResponseWriter, req *http.Request) error {
	body, err := c.parseStake(req)
	if err != nil {
		return err
	}
	var result StakeResult
	err = c.node.Apply(func(l *node.Ledger) (err error) {
		result.Staked, result.CapacityIssued, err = l.Capacity.ProviderBoost(*body.Staker, body.Target, body.Amount)
		return err
	})
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, &result)
}

func (c *Capacity) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	body, err := c.parseStake(req)
	if err != nil {
		return err
	}
	var result UnstakeResult
	err = c.node.Apply(func(l *node.Ledger) (err error) {
		result.Unstaked, err = l.Capacity.Unstake(*body.Staker, body.Target, body.Amount)
		return err
	})
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, &result)
}

func (c *Capacity) handleRetarget(w http.ResponseWriter, req *http.Request) error {
	var body RetargetRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	if body.Staker == nil {
		return utils.BadRequest(errors.New("body: staker is required"))
	}
	err := c.node.Apply(func(l *node.Ledger) error {
		return l.Capacity.ChangeStakingTarget(*body.Staker, body.From, body.To, body.Amount)
	})
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, utils.M{})
}

func (c *Capacity) parseStaker(req *http.Request) (*StakerRequest, error) {
	var body StakerRequest
	if err := parseBody(req, &body); err != nil {
		return nil, err
	}
	if body.Staker == nil {
		return nil, utils.BadRequest(errors.New("body: staker is required"))
	}
	return &body, nil
}

func (c *Capacity) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	body, err := c.parseStaker(req)
	if err != nil {
		return err
	}
	var result WithdrawResult
	err = c.node.Apply(func(l *node.Ledger) (err error) {
		result.Withdrawn, err = l.Capacity.WithdrawUnstaked(*body.Staker)
		return err
	})
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, &result)
}

func (c *Capacity) handleClaim(w http.ResponseWriter, req *http.Request) error {
	body, err := c.parseStaker(req)
	if err != nil {
		return err
	}
	var result ClaimResult
	err = c.node.Apply(func(l *node.Ledger) (err error) {
		result.Claimed, err = l.Capacity.ClaimStakingRewards(*body.Staker)
		return err
	})
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, &result)
}

func (c *Capacity) handleGetRewards(w http.ResponseWriter, req *http.Request) error {
	staker, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var rewards []*capacity.UnclaimedRewardInfo
	err = c.node.View(func(l *node.Ledger) (err error) {
		rewards, err = l.Capacity.ListUnclaimedRewards(staker)
		return err
	})
	if err != nil {
		return utils.Revert(err)
	}
	if rewards == nil {
		rewards = []*capacity.UnclaimedRewardInfo{}
	}
	return utils.WriteJSON(w, rewards)
}

func (c *Capacity) handleGetBoost(w http.ResponseWriter, req *http.Request) error {
	staker, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var result Boost
	err = c.node.View(func(l *node.Ledger) error {
		history, err := l.Capacity.BoostHistory(staker)
		if err != nil {
			return err
		}
		result.History = convertHistory(history)

		record, err := l.Capacity.RetargetRecord(staker)
		if err != nil {
			return err
		}
		if record != nil {
			result.RetargetEra, result.RetargetCount = record.Era, record.Count
		}
		result.UnclaimedReward, err = l.Capacity.HasUnclaimedRewards(staker)
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &result)
}

func (c *Capacity) handleGetStakingTarget(w http.ResponseWriter, req *http.Request) error {
	staker, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	target, err := utils.TargetVar(req, "id")
	if err != nil {
		return err
	}
	var result *StakingTarget
	err = c.node.View(func(l *node.Ledger) error {
		t, err := l.Capacity.StakingTarget(staker, target)
		if err != nil || t == nil {
			return err
		}
		result = &StakingTarget{Amount: t.Amount, Capacity: t.Capacity}
		return nil
	})
	if err != nil {
		return err
	}
	if result == nil {
		return utils.NotFound(errors.New("staking target not found"))
	}
	return utils.WriteJSON(w, result)
}

func (c *Capacity) handleGetTarget(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.TargetVar(req, "id")
	if err != nil {
		return err
	}
	var result *Target
	err = c.node.View(func(l *node.Ledger) error {
		details, err := l.Capacity.CapacityDetails(id)
		if err != nil || details == nil {
			return err
		}
		remaining, err := l.Capacity.Remaining(id)
		if err != nil {
			return err
		}
		result = convertTarget(remaining, details)
		return nil
	})
	if err != nil {
		return err
	}
	if result == nil {
		return utils.NotFound(errors.New("target capacity not found"))
	}
	return utils.WriteJSON(w, result)
}

func (c *Capacity) handleDeduct(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.TargetVar(req, "id")
	if err != nil {
		return err
	}
	var body DeductRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	if err := c.node.Apply(func(l *node.Ledger) error {
		return l.Capacity.Deduct(id, body.Amount)
	}); err != nil {
		return utils.Revert(err)
	}
	return c.handleGetTarget(w, req)
}

func (c *Capacity) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.TargetVar(req, "id")
	if err != nil {
		return err
	}
	var body DepositRequest
	if err := parseBody(req, &body); err != nil {
		return err
	}
	if err := c.node.Apply(func(l *node.Ledger) error {
		return l.Capacity.Deposit(id, body.Tokens, body.Capacity)
	}); err != nil {
		return utils.Revert(err)
	}
	return c.handleGetTarget(w, req)
}

func (c *Capacity) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/stake").
		Methods(http.MethodPost).
		Name("capacity_stake").
		HandlerFunc(utils.WrapHandlerFunc(c.handleStake))
	sub.Path("/boost").
		Methods(http.MethodPost).
		Name("capacity_boost").
		HandlerFunc(utils.WrapHandlerFunc(c.handleBoost))
	sub.Path("/unstake").
		Methods(http.MethodPost).
		Name("capacity_unstake").
		HandlerFunc(utils.WrapHandlerFunc(c.handleUnstake))
	sub.Path("/retarget").
		Methods(http.MethodPost).
		Name("capacity_retarget").
		HandlerFunc(utils.WrapHandlerFunc(c.handleRetarget))
	sub.Path("/withdraw").
		Methods(http.MethodPost).
		Name("capacity_withdraw").
		HandlerFunc(utils.WrapHandlerFunc(c.handleWithdraw))
	sub.Path("/claim").
		Methods(http.MethodPost).
		Name("capacity_claim").
		HandlerFunc(utils.WrapHandlerFunc(c.handleClaim))
	sub.Path("/stakers/{address}/rewards").
		Methods(http.MethodGet).
		Name("capacity_get_rewards").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetRewards))
	sub.Path("/stakers/{address}/boost").
		Methods(http.MethodGet).
		Name("capacity_get_boost").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetBoost))
	sub.Path("/stakers/{address}/targets/{id}").
		Methods(http.MethodGet).
		Name("capacity_get_staking_target").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetStakingTarget))
	sub.Path("/targets/{id}").
		Methods(http.MethodGet).
		Name("capacity_get_target").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetTarget))
	sub.Path("/targets/{id}/deduct").
		Methods(http.MethodPost).
		Name("capacity_deduct").
		HandlerFunc(utils.WrapHandlerFunc(utils.RequireBearer(c.adminToken, c.handleDeduct)))
	sub.Path("/targets/{id}/deposit").
		Methods(http.MethodPost).
		Name("capacity_deposit").
		HandlerFunc(utils.WrapHandlerFunc(utils.RequireBearer(c.adminToken, c.handleDeposit)))
}
