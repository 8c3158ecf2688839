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

// Bet stakes the attached funds on the given side.
// Repeated bets accumulate, on the same side or across sides.
func (e *Engine) Bet(caller venue.Address, side uint8, funds []venue.Coin) (*poll.Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, err := e.load()
	if err != nil {
		return nil, err
	}

	now := e.now()
	if st.Status.Terminal() || now < cfg.StartTime || now >= cfg.EndTime {
		return nil, reject("bet", poll.NewError(poll.CodeNotLive,
			"bet is not live. current time: %d, betting window: [%d, %d)", now, cfg.StartTime, cfg.EndTime))
	}
	if side >= cfg.NumSides {
		return nil, reject("bet", poll.NewError(poll.CodeInvalidSide,
			"side %d out of range, the poll has %d sides", side, cfg.NumSides))
	}
	sent, err := requireFunds(funds, cfg.Denom)
	if err != nil {
		return nil, reject("bet", err)
	}
	if sent.Cmp(cfg.MinimumBetAmount) < 0 {
		return nil, reject("bet", poll.NewError(poll.CodeBelowMinimumBet,
			"the bet amount should be at least %s", cfg.MinimumBetAmount))
	}

	stage := e.store.NewStage()
	stake, err := stage.Stake(side, caller)
	if err != nil {
		return nil, err
	}
	userTotal, err := stage.UserTotal(caller)
	if err != nil {
		return nil, err
	}
	sideTotal, err := stage.SideTotal(side)
	if err != nil {
		return nil, err
	}

	stage.SetStake(side, caller, stake.Add(stake, sent))
	stage.SetUserTotal(caller, userTotal.Add(userTotal, sent))
	stage.SetSideTotal(side, sideTotal.Add(sideTotal, sent))
	st.TotalAmount.Add(st.TotalAmount, sent)
	st.Balance.Add(st.Balance, sent)
	if err := stage.SetState(st); err != nil {
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, err
	}

	logger.Debug("bet placed", "participant", caller, "side", side, "amount", sent)
	e.record("bet", cfg, caller, int16(side), sent)
	return &poll.Output{}, nil
}

// requireFunds validates that exactly one positive coin of the required
// denomination is attached, and returns its amount.
func requireFunds(funds []venue.Coin, denom string) (*big.Int, error) {
	switch len(funds) {
	case 0:
		return nil, poll.NewError(poll.CodeInvalidFunds, "you need to send some %s in order to bet", denom)
	case 1:
	default:
		return nil, poll.NewError(poll.CodeInvalidFunds, "only send %s to bet", denom)
	}
	if funds[0].Denom != denom {
		return nil, poll.NewError(poll.CodeInvalidFunds, "you need to send %s in order to bet", denom)
	}
	if funds[0].Amount == nil || funds[0].Amount.Sign() <= 0 {
		return nil, poll.NewError(poll.CodeInvalidFunds, "you need to send some %s in order to bet", denom)
	}
	return funds[0].Amount, nil
}

// CancelBet withdraws the caller's entire stake on one side and refunds it.
// Allowed only while the cancel hold has not lapsed.
func (e *Engine) CancelBet(caller venue.Address, side uint8) (*poll.Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, err := e.load()
	if err != nil {
		return nil, err
	}

	now := e.now()
	if st.Status.Terminal() || now > cfg.CancelHold {
		return nil, reject("cancel_bet", poll.NewError(poll.CodeNotLive,
			"cannot cancel after time %d", cfg.CancelHold))
	}
	if side >= cfg.NumSides {
		return nil, reject("cancel_bet", poll.NewError(poll.CodeInvalidSide,
			"side %d out of range, the poll has %d sides", side, cfg.NumSides))
	}

	stage := e.store.NewStage()
	stake, err := stage.Stake(side, caller)
	if err != nil {
		return nil, err
	}
	if stake.Sign() == 0 {
		return nil, reject("cancel_bet", poll.NewError(poll.CodeNothingToCancel, "there's no bet to cancel"))
	}
	userTotal, err := stage.UserTotal(caller)
	if err != nil {
		return nil, err
	}
	sideTotal, err := stage.SideTotal(side)
	if err != nil {
		return nil, err
	}
	if userTotal.Cmp(stake) < 0 || sideTotal.Cmp(stake) < 0 || st.TotalAmount.Cmp(stake) < 0 {
		return nil, errors.New("prediction: ledger invariant violated on cancel")
	}

	stage.SetStake(side, caller, new(big.Int))
	stage.SetUserTotal(caller, userTotal.Sub(userTotal, stake))
	stage.SetSideTotal(side, sideTotal.Sub(sideTotal, stake))
	st.TotalAmount.Sub(st.TotalAmount, stake)
	st.Balance.Sub(st.Balance, stake)
	if err := stage.SetState(st); err != nil {
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, err
	}

	out := &poll.Output{}
	out.AddTransfer(caller, stake)
	logger.Debug("bet cancelled", "participant", caller, "side", side, "amount", stake)
	e.record("cancel_bet", cfg, caller, int16(side), stake)
	return out, nil
}

// FinishPoll settles the poll: computes rewards for the winning side from
// the fee-adjusted pool, sweeps the residual to the owner and disposes of
// the creator deposit. forced bypasses the timing check only.
func (e *Engine) FinishPoll(caller venue.Address, winner uint8, forced bool) (*poll.Output, error) {
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
			"bet is live now, the poll cannot be finished before time %d", closeTime))
	}
	if winner >= cfg.NumSides {
		return nil, reject("finish_poll", poll.NewError(poll.CodeInvalidSide,
			"side %d out of range, the poll has %d sides", winner, cfg.NumSides))
	}

	winnerTotal, err := e.store.SideTotal(winner)
	if err != nil {
		return nil, err
	}

	stage := e.store.NewStage()
	rewardSum := new(big.Int)
	if winnerTotal.Sign() == 0 {
		// Nobody staked the winning side: every participant gets the
		// principal back in full, no fee, regardless of side.
		err = e.store.IterateUserTotals(func(p venue.Address, total *big.Int) error {
			stage.SetReward(p, total)
			rewardSum.Add(rewardSum, total)
			return nil
		})
	} else {
		losing := new(big.Int).Sub(st.TotalAmount, winnerTotal)
		adjusted := new(big.Int).Add(winnerTotal, venue.ApplyPercent(losing, 100-cfg.TaxPercent))
		err = e.store.IterateStakes(winner, func(p venue.Address, stake *big.Int) error {
			reward := venue.MulDiv(stake, adjusted, winnerTotal)
			stage.SetReward(p, reward)
			rewardSum.Add(rewardSum, reward)
			return nil
		})
	}
	if err != nil {
		return nil, err
	}

	out := &poll.Output{}

	// truncation remainder goes to the owner
	residual := new(big.Int).Sub(st.Balance, rewardSum)
	if residual.Sign() > 0 {
		out.AddTransfer(cfg.Owner, residual)
		st.Balance.Sub(st.Balance, residual)
	}

	if !st.DepositReclaimed {
		if st.TotalAmount.Cmp(cfg.ReclaimableThreshold) > 0 {
			out.AddTokenTransfer(cfg.Generator, cfg.DepositAmount)
		} else {
			out.AddTokenBurn(cfg.DepositAmount)
		}
		st.DepositReclaimed = true
	}

	st.Status = poll.StatusReward
	st.WinningSides = []byte{winner}
	if err := stage.SetState(st); err != nil {
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, err
	}

	logger.Info("poll finished",
		"name", cfg.PollName,
		"winner", winner,
		"winner_total", winnerTotal,
		"rewards", rewardSum,
		"residual", residual)
	e.record("finish_poll", cfg, caller, int16(winner), rewardSum)
	return out, nil
}

// RevertPoll aborts the poll, refunding every participant their full total.
// The stake tables are left as historical record; only Reset clears them.
func (e *Engine) RevertPoll(caller venue.Address) (*poll.Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, err := e.load()
	if err != nil {
		return nil, err
	}

	if caller != cfg.Owner {
		return nil, reject("revert_poll", poll.NewError(poll.CodeUnauthorized,
			"only the original owner can revert poll"))
	}
	if st.Status == poll.StatusClosed {
		return nil, reject("revert_poll", poll.NewError(poll.CodeAlreadyReverted, "already reverted poll"))
	}

	out := &poll.Output{}
	refundSum := new(big.Int)
	err = e.store.IterateUserTotals(func(p venue.Address, total *big.Int) error {
		out.AddTransfer(p, total)
		refundSum.Add(refundSum, total)
		return nil
	})
	if err != nil {
		return nil, err
	}

	stage := e.store.NewStage()
	st.Status = poll.StatusClosed
	st.Balance.Sub(st.Balance, refundSum)
	if st.Balance.Sign() < 0 {
		// reverting after settlement refunds more than the venue holds
		st.Balance.SetInt64(0)
	}
	if err := stage.SetState(st); err != nil {
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, err
	}

	logger.Info("poll reverted", "name", cfg.PollName, "refunded", refundSum, "participants", len(out.Transfers))
	e.record("revert_poll", cfg, caller, -1, refundSum)
	return out, nil
}

// Claim pays out the caller's reward. One shot: the record is removed on
// success, so a second claim fails with NothingToClaim.
func (e *Engine) Claim(caller venue.Address) (*poll.Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, err := e.load()
	if err != nil {
		return nil, err
	}

	if st.Status != poll.StatusReward {
		return nil, reject("claim", poll.NewError(poll.CodeNotClaimable,
			"cannot claim rewards, current status: %s", st.Status))
	}
	reward, err := e.store.Reward(caller)
	if err != nil {
		return nil, err
	}
	if reward.Sign() == 0 {
		return nil, reject("claim", poll.NewError(poll.CodeNothingToClaim, "there's no rewards to claim"))
	}

	stage := e.store.NewStage()
	stage.DeleteReward(caller)
	st.Balance.Sub(st.Balance, reward)
	if err := stage.SetState(st); err != nil {
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, err
	}

	out := &poll.Output{}
	out.AddTransfer(caller, reward)
	logger.Debug("reward claimed", "participant", caller, "amount", reward)
	e.record("claim", cfg, caller, -1, reward)
	return out, nil
}

// ReclaimDeposit returns the creator deposit to the generator once the
// staked total crossed the reclaimable threshold, ahead of settlement.
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

// ResetPoll refunds unclaimed rewards, sweeps the remaining balance to the
// owner, erases the whole ledger and reopens the instance with a fresh
// name and betting window. Config identity survives.
func (e *Engine) ResetPoll(caller venue.Address, name string, startTime, endTime uint64) (*poll.Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, err := e.load()
	if err != nil {
		return nil, err
	}

	if caller != cfg.Owner {
		return nil, reject("reset_poll", poll.NewError(poll.CodeUnauthorized,
			"only the original owner can reset the poll"))
	}
	if !st.Status.Terminal() {
		return nil, reject("reset_poll", poll.NewError(poll.CodeTooEarlyToReset,
			"you can't reset the poll until the poll ends"))
	}
	if endTime <= startTime {
		return nil, errors.New("prediction: reset end time must come after start time")
	}

	out := &poll.Output{}
	refundSum := new(big.Int)
	err = e.store.IterateRewards(func(p venue.Address, reward *big.Int) error {
		out.AddTransfer(p, reward)
		refundSum.Add(refundSum, reward)
		return nil
	})
	if err != nil {
		return nil, err
	}
	remaining := new(big.Int).Sub(st.Balance, refundSum)
	out.AddTransfer(cfg.Owner, remaining)

	stage := e.store.NewStage()
	if err := stage.ClearLedger(); err != nil {
		return nil, err
	}

	cfg.PollName = name
	cfg.StartTime = startTime
	cfg.EndTime = endTime
	cfg.ResolutionTime = endTime
	if err := stage.SetConfig(cfg); err != nil {
		return nil, err
	}

	fresh := poll.NewState()
	fresh.DepositReclaimed = st.DepositReclaimed
	if err := stage.SetState(fresh); err != nil {
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, err
	}

	logger.Info("poll reset", "name", name, "start", startTime, "end", endTime, "refunded", refundSum)
	e.record("reset_poll", cfg, caller, -1, refundSum)
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
		return nil, errors.New("prediction: new owner required")
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

// SetMinimumBet updates the minimum bet amount.
func (e *Engine) SetMinimumBet(caller venue.Address, amount *big.Int) (*poll.Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, _, err := e.load()
	if err != nil {
		return nil, err
	}
	if caller != cfg.Owner {
		return nil, reject("set_minimum_bet", poll.NewError(poll.CodeUnauthorized,
			"only the original owner can set the minimum bet amount"))
	}

	stage := e.store.NewStage()
	cfg.MinimumBetAmount = amount
	if err := stage.SetConfig(cfg); err != nil {
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, err
	}

	logger.Info("minimum bet updated", "name", cfg.PollName, "amount", amount)
	e.record("set_minimum_bet", cfg, caller, -1, amount)
	return &poll.Output{}, nil
}
