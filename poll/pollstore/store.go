// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pollstore provides the typed storage arena of a single poll
// instance. All ledger tables live as prefixed entries in one kv store;
// mutations are staged in a journal and hit the disk only through an
// atomic batch commit.
package pollstore

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/pollvenue/venue/kv"
	"github.com/pollvenue/venue/poll"
	"github.com/pollvenue/venue/venue"
)

// table prefixes inside the store.
const (
	keyConfig = "c"
	keyState  = "s"

	prefixStake     = "b" // side byte + participant -> amount
	prefixUserTotal = "u" // participant -> amount over all sides
	prefixSideTotal = "t" // side byte -> amount over all participants
	prefixReward    = "r" // participant -> claimable amount
	prefixVote      = "v" // participant -> chosen side (opinion variant)
	prefixSideCount = "d" // side byte -> vote count (opinion variant)
)

// the prefixes erased by ClearLedger.
var ledgerPrefixes = []string{
	prefixStake, prefixUserTotal, prefixSideTotal, prefixReward, prefixVote, prefixSideCount,
}

// Store reads the committed state of one poll instance.
// Writes go through a Stage.
type Store struct {
	db kv.GetPutter
}

// New creates a store over the given kv space.
// Callers typically hand in a kv.Bucket-scoped store, one bucket per poll.
func New(db kv.GetPutter) *Store {
	return &Store{db: db}
}

// NewStage starts an empty staging journal on top of the committed state.
func (s *Store) NewStage() *Stage {
	return &Stage{
		store: s,
		index: make(map[string]int),
	}
}

func (s *Store) get(key []byte) ([]byte, bool, error) {
	val, err := s.db.Get(key)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "pollstore get")
	}
	return val, true, nil
}

// Exists reports whether the poll instance has been initialized.
func (s *Store) Exists() (bool, error) {
	_, ok, err := s.get([]byte(keyConfig))
	return ok, err
}

// Config loads the poll config.
func (s *Store) Config() (*poll.Config, error) {
	val, ok, err := s.get([]byte(keyConfig))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("pollstore: config not initialized")
	}
	var cfg poll.Config
	if err := rlp.DecodeBytes(val, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	return &cfg, nil
}

// State loads the poll lifecycle state.
func (s *Store) State() (*poll.State, error) {
	val, ok, err := s.get([]byte(keyState))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("pollstore: state not initialized")
	}
	var st poll.State
	if err := rlp.DecodeBytes(val, &st); err != nil {
		return nil, errors.Wrap(err, "decode state")
	}
	return &st, nil
}

func stakeKey(side uint8, participant venue.Address) []byte {
	return append([]byte{prefixStake[0], side}, participant.Bytes()...)
}

func userTotalKey(participant venue.Address) []byte {
	return append([]byte(prefixUserTotal), participant.Bytes()...)
}

func sideTotalKey(side uint8) []byte {
	return []byte{prefixSideTotal[0], side}
}

func rewardKey(participant venue.Address) []byte {
	return append([]byte(prefixReward), participant.Bytes()...)
}

func voteKey(participant venue.Address) []byte {
	return append([]byte(prefixVote), participant.Bytes()...)
}

func sideCountKey(side uint8) []byte {
	return []byte{prefixSideCount[0], side}
}

func (s *Store) getAmount(key []byte) (*big.Int, error) {
	val, ok, err := s.get(key)
	if err != nil || !ok {
		return new(big.Int), err
	}
	return new(big.Int).SetBytes(val), nil
}

// Stake returns the committed stake of a participant on a side, zero if absent.
func (s *Store) Stake(side uint8, participant venue.Address) (*big.Int, error) {
	return s.getAmount(stakeKey(side, participant))
}

// UserTotal returns the committed total staked by a participant over all sides.
func (s *Store) UserTotal(participant venue.Address) (*big.Int, error) {
	return s.getAmount(userTotalKey(participant))
}

// SideTotal returns the committed total staked on a side.
func (s *Store) SideTotal(side uint8) (*big.Int, error) {
	return s.getAmount(sideTotalKey(side))
}

// Reward returns the committed unclaimed reward of a participant, zero if absent.
func (s *Store) Reward(participant venue.Address) (*big.Int, error) {
	return s.getAmount(rewardKey(participant))
}

// Vote returns the committed vote of a participant, and whether one exists.
func (s *Store) Vote(participant venue.Address) (uint8, bool, error) {
	val, ok, err := s.get(voteKey(participant))
	if err != nil || !ok {
		return 0, false, err
	}
	if len(val) != 1 {
		return 0, false, errors.New("pollstore: malformed vote record")
	}
	return val[0], true, nil
}

// SideCount returns the committed vote count of a side.
func (s *Store) SideCount(side uint8) (uint64, error) {
	val, ok, err := s.get(sideCountKey(side))
	if err != nil || !ok {
		return 0, err
	}
	if len(val) != 8 {
		return 0, errors.New("pollstore: malformed side count record")
	}
	return binary.BigEndian.Uint64(val), nil
}

func (s *Store) iterateAmounts(prefix []byte, keyLen int, fn func(key []byte, amount *big.Int) error) error {
	it := s.db.NewIterator(kv.PrefixRange(prefix))
	defer it.Release()
	for it.Next() {
		key := it.Key()
		if len(key) != keyLen {
			return errors.Errorf("pollstore: malformed key in table %q", prefix)
		}
		amount := new(big.Int).SetBytes(it.Value())
		if amount.Sign() == 0 {
			continue
		}
		k := append([]byte(nil), key[len(prefix):]...)
		if err := fn(k, amount); err != nil {
			return err
		}
	}
	return errors.Wrap(it.Error(), "pollstore iterate")
}

// IterateStakes walks all nonzero committed stakes on the given side,
// in ascending participant order.
func (s *Store) IterateStakes(side uint8, fn func(participant venue.Address, amount *big.Int) error) error {
	prefix := []byte{prefixStake[0], side}
	return s.iterateAmounts(prefix, len(prefix)+venue.AddressLength, func(key []byte, amount *big.Int) error {
		return fn(venue.BytesToAddress(key), amount)
	})
}

// IterateUserTotals walks all nonzero committed participant totals.
func (s *Store) IterateUserTotals(fn func(participant venue.Address, amount *big.Int) error) error {
	prefix := []byte(prefixUserTotal)
	return s.iterateAmounts(prefix, len(prefix)+venue.AddressLength, func(key []byte, amount *big.Int) error {
		return fn(venue.BytesToAddress(key), amount)
	})
}

// IterateRewards walks all nonzero committed unclaimed rewards.
func (s *Store) IterateRewards(fn func(participant venue.Address, amount *big.Int) error) error {
	prefix := []byte(prefixReward)
	return s.iterateAmounts(prefix, len(prefix)+venue.AddressLength, func(key []byte, amount *big.Int) error {
		return fn(venue.BytesToAddress(key), amount)
	})
}

// IterateSideTotals walks all nonzero committed side totals in side order.
func (s *Store) IterateSideTotals(fn func(side uint8, amount *big.Int) error) error {
	prefix := []byte(prefixSideTotal)
	return s.iterateAmounts(prefix, len(prefix)+1, func(key []byte, amount *big.Int) error {
		return fn(key[0], amount)
	})
}

// IterateSideCounts walks all committed vote counts in side order.
func (s *Store) IterateSideCounts(fn func(side uint8, count uint64) error) error {
	it := s.db.NewIterator(kv.PrefixRange([]byte(prefixSideCount)))
	defer it.Release()
	for it.Next() {
		key := it.Key()
		if len(key) != 2 || len(it.Value()) != 8 {
			return errors.New("pollstore: malformed side count record")
		}
		if err := fn(key[1], binary.BigEndian.Uint64(it.Value())); err != nil {
			return err
		}
	}
	return errors.Wrap(it.Error(), "pollstore iterate")
}

// EntryCount counts all committed entries of the poll instance, config and
// state included.
func (s *Store) EntryCount() (int, error) {
	it := s.db.NewIterator(kv.Range{})
	defer it.Release()
	n := 0
	for it.Next() {
		n++
	}
	return n, errors.Wrap(it.Error(), "pollstore iterate")
}
