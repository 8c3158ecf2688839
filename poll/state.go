// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package poll

import "math/big"

// State is the mutable lifecycle state of a poll instance.
//
// TotalAmount must always equal the sum of all side totals, which must
// always equal the sum of all per-(side, participant) stakes. Balance
// tracks the native currency the venue is entitled to assume it holds:
// stakes received minus transfer instructions emitted.
type State struct {
	Status           Status   `json:"status"`
	TotalAmount      *big.Int `json:"total_amount"`
	Balance          *big.Int `json:"balance"`
	DepositReclaimed bool     `json:"deposit_reclaimed"`
	WinningSides     []byte   `json:"winning_sides"`
}

// NewState returns the initial lifecycle state of a freshly created poll.
func NewState() *State {
	return &State{
		Status:      StatusCreated,
		TotalAmount: new(big.Int),
		Balance:     new(big.Int),
	}
}

// Finished reports whether settlement or revert already happened.
func (s *State) Finished() bool {
	return s.Status.Terminal()
}
