// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prediction

import (
	"math/big"

	"github.com/pollvenue/venue/poll"
	"github.com/pollvenue/venue/venue"
)

// Config returns the current poll config.
func (e *Engine) Config() (*poll.Config, error) {
	return e.store.Config()
}

// State returns the current lifecycle state.
func (e *Engine) State() (*poll.State, error) {
	return e.store.State()
}

// Status returns the derived lifecycle status.
func (e *Engine) Status() (poll.Status, error) {
	cfg, st, err := e.load()
	if err != nil {
		return 0, err
	}
	return deriveStatus(cfg, st, e.now()), nil
}

// BetLive reports whether bets are currently accepted.
func (e *Engine) BetLive() (bool, error) {
	status, err := e.Status()
	if err != nil {
		return false, err
	}
	return status == poll.StatusBetting, nil
}

// RewardLive reports whether rewards are currently claimable.
func (e *Engine) RewardLive() (bool, error) {
	status, err := e.Status()
	if err != nil {
		return false, err
	}
	return status == poll.StatusReward, nil
}

// UserBet returns a participant's stake on a side, zero if none.
func (e *Engine) UserBet(participant venue.Address, side uint8) (*big.Int, error) {
	return e.store.Stake(side, participant)
}

// UserTotal returns a participant's aggregate stake across sides, zero if none.
func (e *Engine) UserTotal(participant venue.Address) (*big.Int, error) {
	return e.store.UserTotal(participant)
}

// UserReward returns a participant's claimable reward, zero if none.
func (e *Engine) UserReward(participant venue.Address) (*big.Int, error) {
	return e.store.Reward(participant)
}

// SideTotals returns the staked amount per side, indexed by side.
func (e *Engine) SideTotals() ([]*big.Int, error) {
	cfg, err := e.store.Config()
	if err != nil {
		return nil, err
	}
	totals := make([]*big.Int, cfg.NumSides)
	for i := range totals {
		totals[i] = new(big.Int)
	}
	err = e.store.IterateSideTotals(func(side uint8, amount *big.Int) error {
		if int(side) < len(totals) {
			totals[side] = amount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return totals, nil
}
