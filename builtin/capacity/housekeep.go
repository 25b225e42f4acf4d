// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package capacity

// Transition reports which clocks a block advanced.
type Transition struct {
	Height       uint32
	EpochStarted bool
	EraRotated   bool
}

// OnBlock advances the epoch and era clocks for height.
// Calling it again at the same height changes nothing.
func (c *Capacity) OnBlock(height uint32) (*Transition, error) {
	transition := &Transition{Height: height}
	err := c.atomic("on_block", func() (err error) {
		if transition.EpochStarted, err = c.epochService.OnBlock(height); err != nil {
			return err
		}
		transition.EraRotated, err = c.eraService.OnBlock(height)
		return err
	})
	if err != nil {
		return nil, err
	}

	if transition.EpochStarted {
		current, err := c.epochService.Current()
		if err != nil {
			return nil, err
		}
		metricCurrentEpoch().Set(int64(current))
		logger.Debug("started epoch", "epoch", current, "height", height)
	}
	if transition.EraRotated {
		info, err := c.eraService.Current()
		if err != nil {
			return nil, err
		}
		metricCurrentEra().Set(int64(info.EraIndex))
		logger.Info("rotated reward era", "era", info.EraIndex, "height", height)
	}
	return transition, nil
}

// SetEpochLength changes the epoch length. Zero selects the maximum.
func (c *Capacity) SetEpochLength(length uint32) error {
	err := c.atomic("set_epoch_length", func() error {
		return c.epochService.SetLength(length)
	})
	if err != nil {
		return err
	}
	logger.Info("set epoch length", "length", length)
	return nil
}
