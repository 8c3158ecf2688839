// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package polls

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/pollvenue/venue/poll"
	"github.com/pollvenue/venue/venue"
)

// Coin is the wire form of a denominated amount.
type Coin struct {
	Denom  string                `json:"denom"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func (c *Coin) toVenue() venue.Coin {
	amount := new(big.Int)
	if c.Amount != nil {
		amount = (*big.Int)(c.Amount)
	}
	return venue.Coin{Denom: c.Denom, Amount: amount}
}

// Execution is the wire form of a poll operation request. Type selects
// the operation; the remaining fields are read per operation.
type Execution struct {
	Caller   venue.Address `json:"caller"`
	Type     string        `json:"type"`
	Side     uint8         `json:"side,omitempty"`
	Funds    []Coin        `json:"funds,omitempty"`
	Winner   uint8         `json:"winner,omitempty"`
	Forced   bool          `json:"forced,omitempty"`
	PollName string        `json:"poll_name,omitempty"`

	StartTime uint64 `json:"start_time,omitempty"`
	EndTime   uint64 `json:"end_time,omitempty"`

	NewOwner *venue.Address        `json:"new_owner,omitempty"`
	Amount   *math.HexOrDecimal256 `json:"amount,omitempty"`
}

func (ex *Execution) funds() []venue.Coin {
	if len(ex.Funds) == 0 {
		return nil
	}
	coins := make([]venue.Coin, 0, len(ex.Funds))
	for i := range ex.Funds {
		coins = append(coins, ex.Funds[i].toVenue())
	}
	return coins
}

// Movement is the wire form of a single fund-movement instruction.
type Movement struct {
	Recipient *venue.Address        `json:"recipient,omitempty"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
}

// ExecutionResult carries the fund movements an accepted operation produced.
type ExecutionResult struct {
	Transfers      []Movement `json:"transfers"`
	TokenTransfers []Movement `json:"token_transfers"`
	TokenBurns     []Movement `json:"token_burns"`
}

func convertOutput(out *poll.Output) *ExecutionResult {
	res := &ExecutionResult{
		Transfers:      []Movement{},
		TokenTransfers: []Movement{},
		TokenBurns:     []Movement{},
	}
	for _, t := range out.Transfers {
		recipient := t.Recipient
		res.Transfers = append(res.Transfers, Movement{
			Recipient: &recipient,
			Amount:    (*math.HexOrDecimal256)(t.Amount),
		})
	}
	for _, t := range out.TokenTransfers {
		recipient := t.Recipient
		res.TokenTransfers = append(res.TokenTransfers, Movement{
			Recipient: &recipient,
			Amount:    (*math.HexOrDecimal256)(t.Amount),
		})
	}
	for _, b := range out.TokenBurns {
		res.TokenBurns = append(res.TokenBurns, Movement{
			Amount: (*math.HexOrDecimal256)(b.Amount),
		})
	}
	return res
}

// Summary is one row of the poll listing.
type Summary struct {
	Name   string      `json:"name"`
	Kind   string      `json:"kind"`
	Status poll.Status `json:"status"`
}

// StatusResponse reports the derived lifecycle status of a poll.
type StatusResponse struct {
	Status poll.Status `json:"status"`
	Live   bool        `json:"live"`
}

// Participation reports what one address holds in a poll. Stakes, Total
// and Reward are set for prediction polls, Voted and Side for opinion
// polls.
type Participation struct {
	Total  *math.HexOrDecimal256   `json:"total,omitempty"`
	Reward *math.HexOrDecimal256   `json:"reward,omitempty"`
	Stakes []*math.HexOrDecimal256 `json:"stakes,omitempty"`
	Voted  *bool                   `json:"voted,omitempty"`
	Side   *uint8                  `json:"side,omitempty"`
}

// SideBreakdown reports the per-side standings. Totals is set for
// prediction polls, Votes for opinion polls.
type SideBreakdown struct {
	Totals []*math.HexOrDecimal256 `json:"totals,omitempty"`
	Votes  []uint64                `json:"votes,omitempty"`
}
