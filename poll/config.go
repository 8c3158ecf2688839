// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package poll

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/pollvenue/venue/venue"
)

// Config holds the per-poll parameters fixed at instantiation.
// Only the owner and the minimum bet amount may change afterwards, through
// the explicit admin operations.
type Config struct {
	Owner                venue.Address `json:"owner" yaml:"owner"`
	Generator            venue.Address `json:"generator" yaml:"generator"`
	TokenContract        venue.Address `json:"token_contract" yaml:"token_contract"`
	DepositAmount        *big.Int      `json:"deposit_amount" yaml:"deposit_amount"`
	ReclaimableThreshold *big.Int      `json:"reclaimable_threshold" yaml:"reclaimable_threshold"`
	PollName             string        `json:"poll_name" yaml:"poll_name"`
	Denom                string        `json:"denom" yaml:"denom"`
	StartTime            uint64        `json:"start_time" yaml:"start_time"`
	EndTime              uint64        `json:"end_time" yaml:"end_time"`
	ResolutionTime       uint64        `json:"resolution_time" yaml:"resolution_time"`
	CancelHold           uint64        `json:"cancel_hold" yaml:"cancel_hold"`
	NumSides             uint8         `json:"num_side" yaml:"num_side"`
	MinimumBetAmount     *big.Int      `json:"minimum_bet_amount" yaml:"minimum_bet_amount"`
	TaxPercent           uint8         `json:"tax_percentage" yaml:"tax_percentage"`
}

// Validate checks instantiation parameters.
func (c *Config) Validate() error {
	if c.Owner.IsZero() {
		return errors.New("config: owner required")
	}
	if c.NumSides < 2 {
		return errors.New("config: at least two sides required")
	}
	if c.EndTime <= c.StartTime {
		return errors.New("config: end time must come after start time")
	}
	if c.TaxPercent > 100 {
		return errors.New("config: tax percentage out of range")
	}
	if c.Denom == "" {
		return errors.New("config: denom required")
	}
	return nil
}

// sanitized returns a copy with nil amounts normalized to zero,
// so storage encoding never sees nil big ints.
func (c *Config) Sanitized() *Config {
	cpy := *c
	if cpy.DepositAmount == nil {
		cpy.DepositAmount = new(big.Int)
	}
	if cpy.ReclaimableThreshold == nil {
		cpy.ReclaimableThreshold = new(big.Int)
	}
	if cpy.MinimumBetAmount == nil {
		cpy.MinimumBetAmount = new(big.Int)
	}
	return &cpy
}
