// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pollstore

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pollvenue/venue/lvldb"
	"github.com/pollvenue/venue/poll"
	"github.com/pollvenue/venue/venue"
)

func newTestStore(t *testing.T) *Store {
	db, err := lvldb.NewMem()
	assert.Nil(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func testConfig() *poll.Config {
	return &poll.Config{
		Owner:                venue.BytesToAddress([]byte("owner")),
		Generator:            venue.BytesToAddress([]byte("generator")),
		TokenContract:        venue.BytesToAddress([]byte("token")),
		DepositAmount:        big.NewInt(1000),
		ReclaimableThreshold: big.NewInt(10000000),
		MinimumBetAmount:     big.NewInt(1000),
		PollName:             "who wins",
		Denom:                "uusd",
		StartTime:            100,
		EndTime:              200,
		ResolutionTime:       300,
		NumSides:             2,
		TaxPercent:           1,
	}
}

func TestStoreConfigRoundTrip(t *testing.T) {
	store := newTestStore(t)

	ok, err := store.Exists()
	assert.Nil(t, err)
	assert.False(t, ok)

	_, err = store.Config()
	assert.Error(t, err)

	cfg := testConfig()
	stage := store.NewStage()
	assert.Nil(t, stage.SetConfig(cfg))
	assert.Nil(t, stage.SetState(poll.NewState()))
	assert.Nil(t, stage.Commit())

	ok, err = store.Exists()
	assert.Nil(t, err)
	assert.True(t, ok)

	got, err := store.Config()
	assert.Nil(t, err)
	assert.Equal(t, cfg, got)

	st, err := store.State()
	assert.Nil(t, err)
	assert.Equal(t, poll.StatusCreated, st.Status)
	assert.Equal(t, new(big.Int), st.TotalAmount)
}

func TestStoreAmountsDefaultZero(t *testing.T) {
	store := newTestStore(t)
	addr := venue.BytesToAddress([]byte("alice"))

	stake, err := store.Stake(0, addr)
	assert.Nil(t, err)
	assert.Equal(t, 0, stake.Sign())

	total, err := store.UserTotal(addr)
	assert.Nil(t, err)
	assert.Equal(t, 0, total.Sign())

	reward, err := store.Reward(addr)
	assert.Nil(t, err)
	assert.Equal(t, 0, reward.Sign())

	_, voted, err := store.Vote(addr)
	assert.Nil(t, err)
	assert.False(t, voted)

	count, err := store.SideCount(1)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestStageOverlayReads(t *testing.T) {
	store := newTestStore(t)
	addr := venue.BytesToAddress([]byte("alice"))

	stage := store.NewStage()
	stage.SetStake(1, addr, big.NewInt(500))

	// staged value visible through the stage
	staged, err := stage.Stake(1, addr)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(500), staged)

	// not visible in committed state yet
	committed, err := store.Stake(1, addr)
	assert.Nil(t, err)
	assert.Equal(t, 0, committed.Sign())

	assert.Nil(t, stage.Commit())
	committed, err = store.Stake(1, addr)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(500), committed)
}

func TestStageDeleteOverlay(t *testing.T) {
	store := newTestStore(t)
	addr := venue.BytesToAddress([]byte("alice"))

	stage := store.NewStage()
	stage.SetReward(addr, big.NewInt(42))
	assert.Nil(t, stage.Commit())

	stage = store.NewStage()
	stage.DeleteReward(addr)

	reward, err := stage.Reward(addr)
	assert.Nil(t, err)
	assert.Equal(t, 0, reward.Sign())

	// committed record still there until commit
	reward, err = store.Reward(addr)
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(42), reward)

	assert.Nil(t, stage.Commit())
	reward, err = store.Reward(addr)
	assert.Nil(t, err)
	assert.Equal(t, 0, reward.Sign())
}

func TestStageDropWithoutCommit(t *testing.T) {
	store := newTestStore(t)
	addr := venue.BytesToAddress([]byte("alice"))

	stage := store.NewStage()
	stage.SetStake(0, addr, big.NewInt(100))
	stage.SetUserTotal(addr, big.NewInt(100))
	// stage dropped, no commit

	n, err := store.EntryCount()
	assert.Nil(t, err)
	assert.Equal(t, 0, n)
}

func TestIterateStakes(t *testing.T) {
	store := newTestStore(t)
	alice := venue.BytesToAddress([]byte("alice"))
	bob := venue.BytesToAddress([]byte("bob"))

	stage := store.NewStage()
	stage.SetStake(0, alice, big.NewInt(100))
	stage.SetStake(0, bob, big.NewInt(200))
	stage.SetStake(1, alice, big.NewInt(300))
	stage.SetStake(0, venue.BytesToAddress([]byte("carol")), new(big.Int))
	assert.Nil(t, stage.Commit())

	sum := new(big.Int)
	n := 0
	err := store.IterateStakes(0, func(_ venue.Address, amount *big.Int) error {
		sum.Add(sum, amount)
		n++
		return nil
	})
	assert.Nil(t, err)
	// zero-amount records are skipped
	assert.Equal(t, 2, n)
	assert.Equal(t, big.NewInt(300), sum)
}

func TestIterateSideCounts(t *testing.T) {
	store := newTestStore(t)

	stage := store.NewStage()
	stage.SetSideCount(0, 3)
	stage.SetSideCount(1, 7)
	stage.SetSideCount(2, 7)
	assert.Nil(t, stage.Commit())

	var sides []uint8
	var counts []uint64
	err := store.IterateSideCounts(func(side uint8, count uint64) error {
		sides = append(sides, side)
		counts = append(counts, count)
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []uint8{0, 1, 2}, sides)
	assert.Equal(t, []uint64{3, 7, 7}, counts)
}

func TestClearLedger(t *testing.T) {
	store := newTestStore(t)
	addr := venue.BytesToAddress([]byte("alice"))

	stage := store.NewStage()
	assert.Nil(t, stage.SetConfig(testConfig()))
	assert.Nil(t, stage.SetState(poll.NewState()))
	stage.SetStake(0, addr, big.NewInt(100))
	stage.SetUserTotal(addr, big.NewInt(100))
	stage.SetSideTotal(0, big.NewInt(100))
	stage.SetReward(addr, big.NewInt(50))
	stage.SetVote(addr, 1)
	stage.SetSideCount(1, 1)
	assert.Nil(t, stage.Commit())

	n, err := store.EntryCount()
	assert.Nil(t, err)
	assert.Equal(t, 8, n)

	stage = store.NewStage()
	assert.Nil(t, stage.ClearLedger())
	assert.Nil(t, stage.Commit())

	// only config and state survive
	n, err = store.EntryCount()
	assert.Nil(t, err)
	assert.Equal(t, 2, n)

	ok, err := store.Exists()
	assert.Nil(t, err)
	assert.True(t, ok)
}
