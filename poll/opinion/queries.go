// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package opinion

import (
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

// Status returns the derived lifecycle status. An opinion poll has no
// reward phase, so past the end of the window it reads as closed.
func (e *Engine) Status() (poll.Status, error) {
	cfg, st, err := e.load()
	if err != nil {
		return 0, err
	}
	if st.Status.Terminal() {
		return st.Status, nil
	}
	now := e.now()
	switch {
	case now < cfg.StartTime:
		return poll.StatusCreated, nil
	case now < cfg.EndTime:
		return poll.StatusBetting, nil
	default:
		return poll.StatusBetHold, nil
	}
}

// VoteLive reports whether votes are currently accepted.
func (e *Engine) VoteLive() (bool, error) {
	status, err := e.Status()
	if err != nil {
		return false, err
	}
	return status == poll.StatusBetting, nil
}

// UserVote returns the side a participant voted for, if any.
func (e *Engine) UserVote(participant venue.Address) (uint8, bool, error) {
	return e.store.Vote(participant)
}

// VotesPerSide returns the vote count per side, indexed by side.
func (e *Engine) VotesPerSide() ([]uint64, error) {
	cfg, err := e.store.Config()
	if err != nil {
		return nil, err
	}
	counts := make([]uint64, cfg.NumSides)
	err = e.store.IterateSideCounts(func(side uint8, count uint64) error {
		if int(side) < len(counts) {
			counts[side] = count
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// Winners returns the winning side set, empty before the poll is finished.
func (e *Engine) Winners() ([]byte, error) {
	st, err := e.store.State()
	if err != nil {
		return nil, err
	}
	return st.WinningSides, nil
}
