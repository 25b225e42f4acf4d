// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/capacity/co"
)

func TestGoesEvery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var (
		goes  co.Goes
		ticks atomic.Int32
	)
	goes.Every(ctx, time.Millisecond, func() { ticks.Add(1) })

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	goes.Wait()

	stopped := ticks.Load()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, stopped, ticks.Load(), "no tick after the context is done")
}
