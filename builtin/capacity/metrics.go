// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package capacity

import (
	"github.com/vechain/capacity/metrics"
)

var (
	metricOperations       = metrics.LazyLoadCounterVec("capacity_operations_count", []string{"op", "result"})
	metricCapacityDeducted = metrics.LazyLoadCounter("capacity_deducted_count")
	metricRewardsMinted    = metrics.LazyLoadCounter("capacity_rewards_minted_count")
	metricCurrentEpoch     = metrics.LazyLoadGauge("capacity_current_epoch")
	metricCurrentEra       = metrics.LazyLoadGauge("capacity_current_era")
)
