// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package opinion

import (
	"github.com/pkg/errors"

	"github.com/pollvenue/venue/poll"
	"github.com/pollvenue/venue/venue"
)

// Command is the tagged union of opinion poll operations.
type Command interface {
	isCommand()
}

type VoteCommand struct {
	Side  uint8        `json:"side"`
	Funds []venue.Coin `json:"funds"`
}

type ChangeSideCommand struct {
	Side uint8 `json:"side"`
}

type FinishPollCommand struct {
	Forced bool `json:"forced"`
}

type ReclaimDepositCommand struct{}

type TransferOwnerCommand struct {
	NewOwner venue.Address `json:"new_owner"`
}

func (*VoteCommand) isCommand()           {}
func (*ChangeSideCommand) isCommand()     {}
func (*FinishPollCommand) isCommand()     {}
func (*ReclaimDepositCommand) isCommand() {}
func (*TransferOwnerCommand) isCommand()  {}

// Execute routes a command to its operation.
func (e *Engine) Execute(caller venue.Address, cmd Command) (*poll.Output, error) {
	switch c := cmd.(type) {
	case *VoteCommand:
		return e.Vote(caller, c.Side, c.Funds)
	case *ChangeSideCommand:
		return e.ChangeSide(caller, c.Side)
	case *FinishPollCommand:
		return e.FinishPoll(caller, c.Forced)
	case *ReclaimDepositCommand:
		return e.ReclaimDeposit(caller)
	case *TransferOwnerCommand:
		return e.TransferOwner(caller, c.NewOwner)
	default:
		return nil, errors.Errorf("opinion: unknown command %T", cmd)
	}
}
