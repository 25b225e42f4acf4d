// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/vechain/capacity/node"
)

const delayBuffer = 5 * time.Second

type TickIngestion struct {
	Height    uint32     `json:"height"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy bool           `json:"healthy"`
	Tick    *TickIngestion `json:"tick"`
}

// Health tracks whether the block clock keeps ticking.
type Health struct {
	lock         sync.RWMutex
	lastTick     time.Time
	height       uint32
	tickInterval time.Duration
}

func New(tickInterval time.Duration) *Health {
	return &Health{tickInterval: tickInterval}
}

func (h *Health) NewTick(height uint32) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastTick = time.Now()
	h.height = height
}

// Status is healthy while the last tick is no older than the tick interval plus a grace delay.
func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	var ts *time.Time
	if !h.lastTick.IsZero() {
		t := h.lastTick
		ts = &t
	}
	return &Status{
		Healthy: ts != nil && time.Since(h.lastTick) <= h.tickInterval+delayBuffer,
		Tick: &TickIngestion{
			Height:    h.height,
			Timestamp: ts,
		},
	}
}

// Run records every clock change of n until ctx is done.
func (h *Health) Run(ctx context.Context, n *node.Node) {
	sub := n.SubscribeClock()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.C():
			if clock, ok := sub.Next(); ok && clock != nil {
				h.NewTick(clock.Height)
			}
		}
	}
}
