// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package poll

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a rejected-precondition kind.
// Every precondition violation maps to exactly one code so callers can
// branch without parsing messages.
type ErrorCode int

const (
	CodeUnauthorized ErrorCode = iota + 1
	CodeNotLive
	CodeInvalidSide
	CodeInvalidFunds
	CodeBelowMinimumBet
	CodeAlreadyFinished
	CodeAlreadyReverted
	CodeAlreadyReclaimed
	CodeTooEarlyToFinish
	CodeTooEarlyToReset
	CodeNotClaimable
	CodeNothingToClaim
	CodeNothingToCancel
	CodeBelowThreshold
	CodeNoChange
	CodeAlreadyVoted
	CodeNotVoted
)

func (c ErrorCode) String() string {
	switch c {
	case CodeUnauthorized:
		return "unauthorized"
	case CodeNotLive:
		return "not_live"
	case CodeInvalidSide:
		return "invalid_side"
	case CodeInvalidFunds:
		return "invalid_funds"
	case CodeBelowMinimumBet:
		return "below_minimum_bet"
	case CodeAlreadyFinished:
		return "already_finished"
	case CodeAlreadyReverted:
		return "already_reverted"
	case CodeAlreadyReclaimed:
		return "already_reclaimed"
	case CodeTooEarlyToFinish:
		return "too_early_to_finish"
	case CodeTooEarlyToReset:
		return "too_early_to_reset"
	case CodeNotClaimable:
		return "not_claimable"
	case CodeNothingToClaim:
		return "nothing_to_claim"
	case CodeNothingToCancel:
		return "nothing_to_cancel"
	case CodeBelowThreshold:
		return "below_reclaim_threshold"
	case CodeNoChange:
		return "no_change_requested"
	case CodeAlreadyVoted:
		return "already_voted"
	case CodeNotVoted:
		return "not_voted"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Error is a typed, terminal rejection of an operation.
// Operations fail before any mutation, so an Error always implies
// untouched state.
type Error struct {
	code ErrorCode
	msg  string
}

// NewError creates a typed error.
func NewError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.msg
}

// Code returns the error kind.
func (e *Error) Code() ErrorCode {
	return e.code
}

// CodeOf extracts the ErrorCode from err, or 0 if err carries none.
func CodeOf(err error) ErrorCode {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.code
	}
	return 0
}

// IsCode reports whether err is a poll error of the given kind.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
