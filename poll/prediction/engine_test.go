// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package prediction

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pollvenue/venue/lvldb"
	"github.com/pollvenue/venue/poll"
	"github.com/pollvenue/venue/venue"
)

var (
	owner     = venue.BytesToAddress([]byte("owner"))
	generator = venue.BytesToAddress([]byte("generator"))
	alice     = venue.BytesToAddress([]byte("alice"))
	bob       = venue.BytesToAddress([]byte("bob"))
	carol     = venue.BytesToAddress([]byte("carol"))
)

type testClock struct {
	now uint64
}

func testConfig() *poll.Config {
	return &poll.Config{
		Owner:                owner,
		Generator:            generator,
		TokenContract:        venue.BytesToAddress([]byte("token")),
		DepositAmount:        big.NewInt(1000),
		ReclaimableThreshold: big.NewInt(10000000),
		MinimumBetAmount:     big.NewInt(1000),
		PollName:             "who wins",
		Denom:                "uusd",
		StartTime:            100,
		EndTime:              200,
		ResolutionTime:       300,
		CancelHold:           150,
		NumSides:             2,
		TaxPercent:           1,
	}
}

func newTestEngine(t *testing.T, cfg *poll.Config) (*Engine, *testClock) {
	db, err := lvldb.NewMem()
	assert.Nil(t, err)
	t.Cleanup(func() { db.Close() })

	clock := &testClock{now: 100}
	e := New(db, func() uint64 { return clock.now })
	assert.Nil(t, e.Initialize(cfg))
	return e, clock
}

func uusd(amount int64) []venue.Coin {
	return []venue.Coin{{Denom: "uusd", Amount: big.NewInt(amount)}}
}

func TestInitialize(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())

	ok, err := e.Initialized()
	assert.Nil(t, err)
	assert.True(t, ok)

	// double init rejected
	assert.Error(t, e.Initialize(testConfig()))

	status, err := e.Status()
	assert.Nil(t, err)
	assert.Equal(t, poll.StatusBetting, status)
}

func TestInitializeValidatesConfig(t *testing.T) {
	db, err := lvldb.NewMem()
	assert.Nil(t, err)
	defer db.Close()

	cfg := testConfig()
	cfg.NumSides = 1
	assert.Error(t, New(db, nil).Initialize(cfg))
}

func TestBetWindow(t *testing.T) {
	e, clock := newTestEngine(t, testConfig())

	clock.now = 99
	_, err := e.Bet(alice, 0, uusd(1000))
	assert.True(t, poll.IsCode(err, poll.CodeNotLive))

	clock.now = 100
	_, err = e.Bet(alice, 0, uusd(1000))
	assert.Nil(t, err)

	// end boundary is exclusive
	clock.now = 200
	_, err = e.Bet(alice, 0, uusd(1000))
	assert.True(t, poll.IsCode(err, poll.CodeNotLive))

	clock.now = 199
	_, err = e.Bet(alice, 0, uusd(1000))
	assert.Nil(t, err)
}

func TestBetValidation(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())

	_, err := e.Bet(alice, 2, uusd(1000))
	assert.True(t, poll.IsCode(err, poll.CodeInvalidSide))

	_, err = e.Bet(alice, 0, nil)
	assert.True(t, poll.IsCode(err, poll.CodeInvalidFunds))

	_, err = e.Bet(alice, 0, []venue.Coin{{Denom: "ukrw", Amount: big.NewInt(1000)}})
	assert.True(t, poll.IsCode(err, poll.CodeInvalidFunds))

	_, err = e.Bet(alice, 0, append(uusd(1000), uusd(1000)...))
	assert.True(t, poll.IsCode(err, poll.CodeInvalidFunds))

	_, err = e.Bet(alice, 0, uusd(999))
	assert.True(t, poll.IsCode(err, poll.CodeBelowMinimumBet))

	// rejected bets leave no trace
	total, err := e.UserTotal(alice)
	assert.Nil(t, err)
	assert.Equal(t, 0, total.Sign())
}

func TestBetAccumulates(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())

	_, err := e.Bet(alice, 0, uusd(1000))
	assert.Nil(t, err)
	_, err = e.Bet(alice, 0, uusd(2000))
	assert.Nil(t, err)
	_, err = e.Bet(alice, 1, uusd(4000))
	assert.Nil(t, err)
	_, err = e.Bet(bob, 1, uusd(8000))
	assert.Nil(t, err)

	stake, err := e.UserBet(alice, 0)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(3000), stake)

	total, err := e.UserTotal(alice)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(7000), total)

	totals, err := e.SideTotals()
	assert.Nil(t, err)
	assert.Equal(t, []*big.Int{big.NewInt(3000), big.NewInt(12000)}, totals)

	st, err := e.State()
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(15000), st.TotalAmount)
	assert.Equal(t, big.NewInt(15000), st.Balance)
}

func TestFinishPayouts(t *testing.T) {
	e, clock := newTestEngine(t, testConfig())

	_, err := e.Bet(alice, 0, uusd(1000000))
	assert.Nil(t, err)
	_, err = e.Bet(bob, 1, uusd(1500000))
	assert.Nil(t, err)
	_, err = e.Bet(carol, 1, uusd(500000))
	assert.Nil(t, err)

	clock.now = 300
	out, err := e.FinishPoll(owner, 0, false)
	assert.Nil(t, err)

	// losing pool 2,000,000 keeps 99% after 1% tax; winner stake rides on top
	reward, err := e.UserReward(alice)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(2980000), reward)

	// the tax residual goes to the owner
	assert.Len(t, out.Transfers, 1)
	assert.Equal(t, owner, out.Transfers[0].Recipient)
	assert.Equal(t, big.NewInt(20000), out.Transfers[0].Amount)

	// total below threshold burns the deposit
	assert.Len(t, out.TokenBurns, 1)
	assert.Equal(t, big.NewInt(1000), out.TokenBurns[0].Amount)
	assert.Empty(t, out.TokenTransfers)

	st, err := e.State()
	assert.Nil(t, err)
	assert.Equal(t, poll.StatusReward, st.Status)
	assert.Equal(t, []byte{0}, st.WinningSides)
	assert.True(t, st.DepositReclaimed)

	// losers hold no reward
	reward, err = e.UserReward(bob)
	assert.Nil(t, err)
	assert.Equal(t, 0, reward.Sign())
}

func TestFinishSplitsProportionally(t *testing.T) {
	cfg := testConfig()
	cfg.TaxPercent = 0
	e, clock := newTestEngine(t, cfg)

	_, err := e.Bet(alice, 0, uusd(1000000))
	assert.Nil(t, err)
	_, err = e.Bet(bob, 0, uusd(3000000))
	assert.Nil(t, err)
	_, err = e.Bet(carol, 1, uusd(4000000))
	assert.Nil(t, err)

	clock.now = 300
	out, err := e.FinishPoll(owner, 0, false)
	assert.Nil(t, err)

	reward, err := e.UserReward(alice)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(2000000), reward)

	reward, err = e.UserReward(bob)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(6000000), reward)

	// nothing left over with zero tax and even division
	assert.Empty(t, out.Transfers)
}

func TestFinishZeroWinnerRefunds(t *testing.T) {
	e, clock := newTestEngine(t, testConfig())

	_, err := e.Bet(alice, 1, uusd(1000000))
	assert.Nil(t, err)
	_, err = e.Bet(bob, 1, uusd(2000000))
	assert.Nil(t, err)

	clock.now = 300
	out, err := e.FinishPoll(owner, 0, false)
	assert.Nil(t, err)

	// nobody staked the winner: full refunds, no fee
	reward, err := e.UserReward(alice)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(1000000), reward)

	reward, err = e.UserReward(bob)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(2000000), reward)

	assert.Empty(t, out.Transfers)
}

func TestFinishAuthAndTiming(t *testing.T) {
	e, clock := newTestEngine(t, testConfig())

	_, err := e.Bet(alice, 0, uusd(1000))
	assert.Nil(t, err)

	_, err = e.FinishPoll(alice, 0, false)
	assert.True(t, poll.IsCode(err, poll.CodeUnauthorized))

	clock.now = 250
	_, err = e.FinishPoll(owner, 0, false)
	assert.True(t, poll.IsCode(err, poll.CodeTooEarlyToFinish))

	_, err = e.FinishPoll(owner, 2, true)
	assert.True(t, poll.IsCode(err, poll.CodeInvalidSide))

	// forced bypasses timing only
	_, err = e.FinishPoll(owner, 0, true)
	assert.Nil(t, err)

	_, err = e.FinishPoll(owner, 0, true)
	assert.True(t, poll.IsCode(err, poll.CodeAlreadyFinished))
}

func TestClaimOneShot(t *testing.T) {
	e, clock := newTestEngine(t, testConfig())

	_, err := e.Bet(alice, 0, uusd(1000000))
	assert.Nil(t, err)
	_, err = e.Bet(bob, 1, uusd(2000000))
	assert.Nil(t, err)

	// not claimable before finish
	_, err = e.Claim(alice)
	assert.True(t, poll.IsCode(err, poll.CodeNotClaimable))

	clock.now = 300
	_, err = e.FinishPoll(owner, 0, false)
	assert.Nil(t, err)

	out, err := e.Claim(alice)
	assert.Nil(t, err)
	assert.Len(t, out.Transfers, 1)
	assert.Equal(t, alice, out.Transfers[0].Recipient)
	assert.Equal(t, big.NewInt(2980000), out.Transfers[0].Amount)

	// second claim fails
	_, err = e.Claim(alice)
	assert.True(t, poll.IsCode(err, poll.CodeNothingToClaim))

	// loser never had a claim
	_, err = e.Claim(bob)
	assert.True(t, poll.IsCode(err, poll.CodeNothingToClaim))
}

func TestReclaimDeposit(t *testing.T) {
	e, clock := newTestEngine(t, testConfig())

	_, err := e.Bet(alice, 0, uusd(1000000))
	assert.Nil(t, err)

	_, err = e.ReclaimDeposit(generator)
	assert.True(t, poll.IsCode(err, poll.CodeBelowThreshold))
	assert.Contains(t, err.Error(), "1000000 is less than 10000000")

	_, err = e.Bet(bob, 1, uusd(9000000))
	assert.Nil(t, err)

	out, err := e.ReclaimDeposit(generator)
	assert.Nil(t, err)
	assert.Len(t, out.TokenTransfers, 1)
	assert.Equal(t, generator, out.TokenTransfers[0].Recipient)
	assert.Equal(t, big.NewInt(1000), out.TokenTransfers[0].Amount)

	_, err = e.ReclaimDeposit(generator)
	assert.True(t, poll.IsCode(err, poll.CodeAlreadyReclaimed))

	// settlement must not pay the deposit twice
	clock.now = 300
	out, err = e.FinishPoll(owner, 0, false)
	assert.Nil(t, err)
	assert.Empty(t, out.TokenTransfers)
	assert.Empty(t, out.TokenBurns)
}

func TestRevert(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())

	_, err := e.Bet(alice, 0, uusd(1000000))
	assert.Nil(t, err)
	_, err = e.Bet(alice, 1, uusd(4000000))
	assert.Nil(t, err)
	_, err = e.Bet(bob, 1, uusd(10000000))
	assert.Nil(t, err)

	_, err = e.RevertPoll(alice)
	assert.True(t, poll.IsCode(err, poll.CodeUnauthorized))

	out, err := e.RevertPoll(owner)
	assert.Nil(t, err)

	refunds := make(map[venue.Address]*big.Int)
	for _, tr := range out.Transfers {
		refunds[tr.Recipient] = tr.Amount
	}
	assert.Equal(t, big.NewInt(5000000), refunds[alice])
	assert.Equal(t, big.NewInt(10000000), refunds[bob])

	st, err := e.State()
	assert.Nil(t, err)
	assert.Equal(t, poll.StatusClosed, st.Status)
	assert.Equal(t, 0, st.Balance.Sign())

	_, err = e.RevertPoll(owner)
	assert.True(t, poll.IsCode(err, poll.CodeAlreadyReverted))
}

func TestRevertWithoutParticipants(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())

	out, err := e.RevertPoll(owner)
	assert.Nil(t, err)
	assert.Empty(t, out.Transfers)

	status, err := e.Status()
	assert.Nil(t, err)
	assert.Equal(t, poll.StatusClosed, status)
}

func TestCancelBet(t *testing.T) {
	e, clock := newTestEngine(t, testConfig())

	_, err := e.Bet(alice, 0, uusd(5000))
	assert.Nil(t, err)
	_, err = e.Bet(alice, 1, uusd(3000))
	assert.Nil(t, err)

	clock.now = 120
	_, err = e.CancelBet(alice, 1)
	assert.Nil(t, err)

	_, err = e.CancelBet(bob, 0)
	assert.True(t, poll.IsCode(err, poll.CodeNothingToCancel))

	stake, err := e.UserBet(alice, 1)
	assert.Nil(t, err)
	assert.Equal(t, 0, stake.Sign())

	total, err := e.UserTotal(alice)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(5000), total)

	st, err := e.State()
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(5000), st.TotalAmount)

	// past the hold nothing can be cancelled
	clock.now = 151
	_, err = e.CancelBet(alice, 0)
	assert.True(t, poll.IsCode(err, poll.CodeNotLive))
}

func TestReset(t *testing.T) {
	e, clock := newTestEngine(t, testConfig())

	_, err := e.Bet(alice, 0, uusd(1000000))
	assert.Nil(t, err)
	_, err = e.Bet(bob, 1, uusd(2000000))
	assert.Nil(t, err)

	_, err = e.ResetPoll(owner, "round 2", 400, 500)
	assert.True(t, poll.IsCode(err, poll.CodeTooEarlyToReset))

	clock.now = 300
	_, err = e.FinishPoll(owner, 0, false)
	assert.Nil(t, err)

	_, err = e.ResetPoll(alice, "round 2", 400, 500)
	assert.True(t, poll.IsCode(err, poll.CodeUnauthorized))

	out, err := e.ResetPoll(owner, "round 2", 400, 500)
	assert.Nil(t, err)

	// the unclaimed reward is refunded
	refunds := make(map[venue.Address]*big.Int)
	for _, tr := range out.Transfers {
		refunds[tr.Recipient] = tr.Amount
	}
	assert.Equal(t, big.NewInt(2980000), refunds[alice])

	// the ledger is gone, config identity survives
	n, err := e.store.EntryCount()
	assert.Nil(t, err)
	assert.Equal(t, 2, n)

	cfg, err := e.Config()
	assert.Nil(t, err)
	assert.Equal(t, "round 2", cfg.PollName)
	assert.Equal(t, uint64(400), cfg.StartTime)
	assert.Equal(t, uint64(500), cfg.EndTime)
	assert.Equal(t, owner, cfg.Owner)

	st, err := e.State()
	assert.Nil(t, err)
	assert.Equal(t, 0, st.TotalAmount.Sign())
	assert.Equal(t, 0, st.Balance.Sign())
	assert.Empty(t, st.WinningSides)

	// a fresh round accepts bets again
	clock.now = 450
	_, err = e.Bet(carol, 1, uusd(1000))
	assert.Nil(t, err)
}

func TestTransferOwner(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())

	_, err := e.TransferOwner(alice, bob)
	assert.True(t, poll.IsCode(err, poll.CodeUnauthorized))

	_, err = e.TransferOwner(owner, bob)
	assert.Nil(t, err)

	// the old owner lost its rights
	_, err = e.SetMinimumBet(owner, big.NewInt(5))
	assert.True(t, poll.IsCode(err, poll.CodeUnauthorized))

	_, err = e.SetMinimumBet(bob, big.NewInt(5))
	assert.Nil(t, err)

	cfg, err := e.Config()
	assert.Nil(t, err)
	assert.Equal(t, bob, cfg.Owner)
	assert.Equal(t, big.NewInt(5), cfg.MinimumBetAmount)
}

func TestStatusDerivation(t *testing.T) {
	e, clock := newTestEngine(t, testConfig())

	clock.now = 50
	status, err := e.Status()
	assert.Nil(t, err)
	assert.Equal(t, poll.StatusCreated, status)

	clock.now = 150
	status, err = e.Status()
	assert.Nil(t, err)
	assert.Equal(t, poll.StatusBetting, status)

	live, err := e.BetLive()
	assert.Nil(t, err)
	assert.True(t, live)

	clock.now = 250
	status, err = e.Status()
	assert.Nil(t, err)
	assert.Equal(t, poll.StatusBetHold, status)

	clock.now = 300
	_, err = e.FinishPoll(owner, 0, false)
	assert.Nil(t, err)

	live, err = e.RewardLive()
	assert.Nil(t, err)
	assert.True(t, live)
}

func TestExecuteDispatch(t *testing.T) {
	e, clock := newTestEngine(t, testConfig())

	_, err := e.Execute(alice, &BetCommand{Side: 0, Funds: uusd(1000000)})
	assert.Nil(t, err)

	clock.now = 300
	_, err = e.Execute(owner, &FinishPollCommand{Winner: 0})
	assert.Nil(t, err)

	out, err := e.Execute(alice, &ClaimCommand{})
	assert.Nil(t, err)
	assert.Len(t, out.Transfers, 1)
	assert.Equal(t, big.NewInt(1000000), out.Transfers[0].Amount)
}
