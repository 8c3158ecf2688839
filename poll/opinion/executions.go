// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package opinion

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/pollvenue/venue/poll"
	"github.com/pollvenue/venue/venue"
)

// Vote casts the caller's single vote on the given side.
// Votes are free: attached funds are rejected.
func (e *Engine) Vote(caller venue.Address, side uint8, funds []venue.Coin) (*poll.Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, err := e.load()
	if err != nil {
		return nil, err
	}

	if err := e.checkVoteLive(cfg, st); err != nil {
		return nil, reject("vote", err)
	}
	if side >= cfg.NumSides {
		return nil, reject("vote", poll.NewError(poll.CodeInvalidSide,
			"side %d out of range, the poll has %d sides", side, cfg.NumSides))
	}
	if len(funds) > 0 {
		return nil, reject("vote", poll.NewError(poll.CodeInvalidFunds, "you'd better not send funds"))
	}
	if _, voted, err := e.store.Vote(caller); err != nil {
		return nil, err
	} else if voted {
		return nil, reject("vote", poll.NewError(poll.CodeAlreadyVoted, "already participated"))
	}

	count, err := e.store.SideCount(side)
	if err != nil {
		return nil, err
	}

	stage := e.store.NewStage()
	stage.SetVote(caller, side)
	stage.SetSideCount(side, count+1)
	st.TotalAmount.Add(st.TotalAmount, big.NewInt(1))
	if err := stage.SetState(st); err != nil {
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, err
	}

	logger.Debug("vote cast", "participant", caller, "side", side)
	e.record("vote", cfg, caller, int16(side), nil)
	return &poll.Output{}, nil
}

// ChangeSide moves the caller's vote to another side.
// A change to the identical side is rejected.
func (e *Engine) ChangeSide(caller venue.Address, side uint8) (*poll.Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, err := e.load()
	if err != nil {
		return nil, err
	}

	if err := e.checkVoteLive(cfg, st); err != nil {
		return nil, reject("change_side", err)
	}
	if side >= cfg.NumSides {
		return nil, reject("change_side", poll.NewError(poll.CodeInvalidSide,
			"side %d out of range, the poll has %d sides", side, cfg.NumSides))
	}
	original, voted, err := e.store.Vote(caller)
	if err != nil {
		return nil, err
	}
	if !voted {
		return nil, reject("change_side", poll.NewError(poll.CodeNotVoted, "not participated yet"))
	}
	if original == side {
		return nil, reject("change_side", poll.NewError(poll.CodeNoChange, "cannot change to the same side"))
	}

	newCount, err := e.store.SideCount(side)
	if err != nil {
		return nil, err
	}
	oldCount, err := e.store.SideCount(original)
	if err != nil {
		return nil, err
	}
	if oldCount == 0 {
		return nil, errors.New("opinion: ledger invariant violated on change side")
	}

	stage := e.store.NewStage()
	stage.SetVote(caller, side)
	stage.SetSideCount(side, newCount+1)
	stage.SetSideCount(original, oldCount-1)
	if err := stage.Commit(); err != nil {
		return nil, err
	}

	logger.Debug("vote moved", "participant", caller, "from", original, "to", side)
	e.record("change_side", cfg, caller, int16(side), nil)
	return &poll.Output{}, nil
}

// FinishPoll closes voting and records the side(s) holding the maximum
// vote count as winners; ties produce several winners, each full weight.
// The creator deposit is disposed of by the reclaimable threshold.
// forced bypasses the timing check only.
func (e *Engine) FinishPoll(caller venue.Address, forced bool) (*poll.Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, err := e.load()
	if err != nil {
		return nil, err
	}

	if caller != cfg.Owner {
		return nil, reject("finish_poll", poll.NewError(poll.CodeUnauthorized,
			"only the original owner can finish poll"))
	}
	if st.Status.Terminal() {
		return nil, reject("finish_poll", poll.NewError(poll.CodeAlreadyFinished, "already finished poll"))
	}
	closeTime := cfg.ResolutionTime
	if closeTime == 0 {
		closeTime = cfg.EndTime
	}
	if !forced && e.now() < closeTime {
		return nil, reject("finish_poll", poll.NewError(poll.CodeTooEarlyToFinish,
			"vote is live now, the poll cannot be finished before time %d", closeTime))
	}

	var (
		winners  []byte
		countMax uint64
	)
	err = e.store.IterateSideCounts(func(side uint8, count uint64) error {
		switch {
		case count > countMax:
			winners = append(winners[:0], side)
			countMax = count
		case count == countMax && count > 0:
			winners = append(winners, side)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &poll.Output{}
	if !st.DepositReclaimed {
		if st.TotalAmount.Cmp(cfg.ReclaimableThreshold) > 0 {
			out.AddTokenTransfer(cfg.Generator, cfg.DepositAmount)
		} else {
			out.AddTokenBurn(cfg.DepositAmount)
		}
		st.DepositReclaimed = true
	}

	stage := e.store.NewStage()
	st.Status = poll.StatusClosed
	st.WinningSides = winners
	if err := stage.SetState(st); err != nil {
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, err
	}

	logger.Info("poll finished", "name", cfg.PollName, "winners", winners, "votes", countMax)
	e.record("finish_poll", cfg, caller, -1, st.TotalAmount)
	return out, nil
}

// ReclaimDeposit returns the creator deposit to the generator once the
// vote count crossed the reclaimable threshold, ahead of finish.
func (e *Engine) ReclaimDeposit(caller venue.Address) (*poll.Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, err := e.load()
	if err != nil {
		return nil, err
	}

	if st.DepositReclaimed {
		return nil, reject("reclaim_deposit", poll.NewError(poll.CodeAlreadyReclaimed, "already reclaimed"))
	}
	if st.TotalAmount.Cmp(cfg.ReclaimableThreshold) < 0 {
		return nil, reject("reclaim_deposit", poll.NewError(poll.CodeBelowThreshold,
			"not enough total amount to reclaim the deposit, %s is less than %s",
			st.TotalAmount, cfg.ReclaimableThreshold))
	}

	stage := e.store.NewStage()
	st.DepositReclaimed = true
	if err := stage.SetState(st); err != nil {
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, err
	}

	out := &poll.Output{}
	out.AddTokenTransfer(cfg.Generator, cfg.DepositAmount)
	logger.Info("deposit reclaimed", "name", cfg.PollName, "generator", cfg.Generator, "amount", cfg.DepositAmount)
	e.record("reclaim_deposit", cfg, caller, -1, cfg.DepositAmount)
	return out, nil
}

// TransferOwner hands poll administration to a new owner.
func (e *Engine) TransferOwner(caller, newOwner venue.Address) (*poll.Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, _, err := e.load()
	if err != nil {
		return nil, err
	}
	if caller != cfg.Owner {
		return nil, reject("transfer_owner", poll.NewError(poll.CodeUnauthorized,
			"only the original owner can transfer the ownership"))
	}
	if newOwner.IsZero() {
		return nil, errors.New("opinion: new owner required")
	}

	stage := e.store.NewStage()
	cfg.Owner = newOwner
	if err := stage.SetConfig(cfg); err != nil {
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, err
	}

	logger.Info("owner transferred", "name", cfg.PollName, "new_owner", newOwner)
	e.record("transfer_owner", cfg, caller, -1, nil)
	return &poll.Output{}, nil
}
