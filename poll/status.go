// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package poll

import "fmt"

// Status is the lifecycle status of a poll.
//
// Only Created, Reward and Closed are ever persisted; Betting and BetHold
// are derived from the clock against the configured window, so a poll whose
// window lapsed without any call still reports the right status.
type Status uint8

const (
	StatusCreated Status = iota
	StatusBetting
	StatusBetHold
	StatusReward
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusBetting:
		return "betting"
	case StatusBetHold:
		return "bet_hold"
	case StatusReward:
		return "reward"
	case StatusClosed:
		return "closed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusCreated, StatusBetting, StatusBetHold, StatusReward, StatusClosed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown poll status %q", text)
}

// Terminal reports whether the status ends the betting lifecycle.
// Reward still accepts claims; Closed accepts nothing but reset.
func (s Status) Terminal() bool {
	return s == StatusReward || s == StatusClosed
}
