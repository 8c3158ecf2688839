// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prediction

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/pollvenue/venue/poll"
	"github.com/pollvenue/venue/venue"
)

// Command is the tagged union of prediction poll operations.
// One variant per operation; Execute is the single dispatch point.
type Command interface {
	isCommand()
}

type BetCommand struct {
	Side  uint8        `json:"side"`
	Funds []venue.Coin `json:"funds"`
}

type CancelBetCommand struct {
	Side uint8 `json:"side"`
}

type FinishPollCommand struct {
	Winner uint8 `json:"winner"`
	Forced bool  `json:"forced"`
}

type RevertPollCommand struct{}

type ClaimCommand struct{}

type ReclaimDepositCommand struct{}

type ResetPollCommand struct {
	PollName  string `json:"poll_name"`
	StartTime uint64 `json:"start_time"`
	EndTime   uint64 `json:"end_time"`
}

type TransferOwnerCommand struct {
	NewOwner venue.Address `json:"new_owner"`
}

type SetMinimumBetCommand struct {
	Amount *big.Int `json:"amount"`
}

func (*BetCommand) isCommand()            {}
func (*CancelBetCommand) isCommand()      {}
func (*FinishPollCommand) isCommand()     {}
func (*RevertPollCommand) isCommand()     {}
func (*ClaimCommand) isCommand()          {}
func (*ReclaimDepositCommand) isCommand() {}
func (*ResetPollCommand) isCommand()      {}
func (*TransferOwnerCommand) isCommand()  {}
func (*SetMinimumBetCommand) isCommand()  {}

// Execute routes a command to its operation.
func (e *Engine) Execute(caller venue.Address, cmd Command) (*poll.Output, error) {
	switch c := cmd.(type) {
	case *BetCommand:
		return e.Bet(caller, c.Side, c.Funds)
	case *CancelBetCommand:
		return e.CancelBet(caller, c.Side)
	case *FinishPollCommand:
		return e.FinishPoll(caller, c.Winner, c.Forced)
	case *RevertPollCommand:
		return e.RevertPoll(caller)
	case *ClaimCommand:
		return e.Claim(caller)
	case *ReclaimDepositCommand:
		return e.ReclaimDeposit(caller)
	case *ResetPollCommand:
		return e.ResetPoll(caller, c.PollName, c.StartTime, c.EndTime)
	case *TransferOwnerCommand:
		return e.TransferOwner(caller, c.NewOwner)
	case *SetMinimumBetCommand:
		return e.SetMinimumBet(caller, c.Amount)
	default:
		return nil, errors.Errorf("prediction: unknown command %T", cmd)
	}
}
