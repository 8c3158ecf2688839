// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

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

// Stage is a journaled write buffer over the committed poll state.
// An operation stages every mutation here and flushes with Commit only
// after all preconditions and computations succeeded; dropping the stage
// leaves zero observable change.
type Stage struct {
	store   *Store
	entries []entry
	index   map[string]int
}

type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

func (st *Stage) put(key, value []byte) {
	if i, ok := st.index[string(key)]; ok {
		st.entries[i] = entry{key: key, value: value}
		return
	}
	st.index[string(key)] = len(st.entries)
	st.entries = append(st.entries, entry{key: key, value: value})
}

func (st *Stage) delete(key []byte) {
	if i, ok := st.index[string(key)]; ok {
		st.entries[i] = entry{key: key, deleted: true}
		return
	}
	st.index[string(key)] = len(st.entries)
	st.entries = append(st.entries, entry{key: key, deleted: true})
}

// get reads through the journal, falling back to committed state.
func (st *Stage) get(key []byte) ([]byte, bool, error) {
	if i, ok := st.index[string(key)]; ok {
		e := st.entries[i]
		if e.deleted {
			return nil, false, nil
		}
		return e.value, true, nil
	}
	return st.store.get(key)
}

func (st *Stage) getAmount(key []byte) (*big.Int, error) {
	val, ok, err := st.get(key)
	if err != nil || !ok {
		return new(big.Int), err
	}
	return new(big.Int).SetBytes(val), nil
}

// SetConfig stages the poll config.
func (st *Stage) SetConfig(cfg *poll.Config) error {
	val, err := rlp.EncodeToBytes(cfg.Sanitized())
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	st.put([]byte(keyConfig), val)
	return nil
}

// SetState stages the poll lifecycle state.
func (st *Stage) SetState(s *poll.State) error {
	val, err := rlp.EncodeToBytes(s)
	if err != nil {
		return errors.Wrap(err, "encode state")
	}
	st.put([]byte(keyState), val)
	return nil
}

// Stake reads a stake through the journal.
func (st *Stage) Stake(side uint8, participant venue.Address) (*big.Int, error) {
	return st.getAmount(stakeKey(side, participant))
}

// UserTotal reads a participant total through the journal.
func (st *Stage) UserTotal(participant venue.Address) (*big.Int, error) {
	return st.getAmount(userTotalKey(participant))
}

// SideTotal reads a side total through the journal.
func (st *Stage) SideTotal(side uint8) (*big.Int, error) {
	return st.getAmount(sideTotalKey(side))
}

// Reward reads a reward through the journal.
func (st *Stage) Reward(participant venue.Address) (*big.Int, error) {
	return st.getAmount(rewardKey(participant))
}

// SetStake stages a stake record.
func (st *Stage) SetStake(side uint8, participant venue.Address, amount *big.Int) {
	st.put(stakeKey(side, participant), amount.Bytes())
}

// SetUserTotal stages a participant total.
func (st *Stage) SetUserTotal(participant venue.Address, amount *big.Int) {
	st.put(userTotalKey(participant), amount.Bytes())
}

// SetSideTotal stages a side total.
func (st *Stage) SetSideTotal(side uint8, amount *big.Int) {
	st.put(sideTotalKey(side), amount.Bytes())
}

// SetReward stages a reward record, overwriting any previous one.
func (st *Stage) SetReward(participant venue.Address, amount *big.Int) {
	st.put(rewardKey(participant), amount.Bytes())
}

// DeleteReward stages removal of a reward record. Removal, not zeroing:
// a claimed reward and a never-existing one are indistinguishable.
func (st *Stage) DeleteReward(participant venue.Address) {
	st.delete(rewardKey(participant))
}

// SetVote stages a participant's vote.
func (st *Stage) SetVote(participant venue.Address, side uint8) {
	st.put(voteKey(participant), []byte{side})
}

// SetSideCount stages a side's vote count.
func (st *Stage) SetSideCount(side uint8, count uint64) {
	var val [8]byte
	binary.BigEndian.PutUint64(val[:], count)
	st.put(sideCountKey(side), val[:])
}

// ClearLedger stages deletion of every committed ledger entry: stakes,
// side totals, participant totals, rewards, votes and vote counts.
// Config and lifecycle state survive.
func (st *Stage) ClearLedger() error {
	for _, prefix := range ledgerPrefixes {
		it := st.store.db.NewIterator(kv.PrefixRange([]byte(prefix)))
		for it.Next() {
			st.delete(append([]byte(nil), it.Key()...))
		}
		err := it.Error()
		it.Release()
		if err != nil {
			return errors.Wrap(err, "pollstore clear")
		}
	}
	return nil
}

// Commit flushes the journal to the underlying store in one batch.
// Either every staged write lands or none does.
func (st *Stage) Commit() error {
	if len(st.entries) == 0 {
		return nil
	}
	batch := st.store.db.NewBatch()
	for _, e := range st.entries {
		var err error
		if e.deleted {
			err = batch.Delete(e.key)
		} else {
			err = batch.Put(e.key, e.value)
		}
		if err != nil {
			return errors.Wrap(err, "pollstore commit")
		}
	}
	return errors.Wrap(batch.Write(), "pollstore commit")
}
