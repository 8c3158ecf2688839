// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pollvenue/venue/kv"
)

func TestLevelDB(t *testing.T) {
	persisted, err := New(filepath.Join(t.TempDir(), "main.db"), Options{})
	assert.Nil(t, err)
	defer persisted.Close()

	mem, err := NewMem()
	assert.Nil(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persisted, mem} {
		key := []byte("key")
		value := []byte("value")

		assert.Nil(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.Nil(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.Nil(t, err)
		assert.True(t, has)

		has, err = db.Has([]byte("absent"))
		assert.Nil(t, err)
		assert.False(t, has)

		_, err = db.Get([]byte("absent"))
		assert.True(t, db.IsNotFound(err))

		assert.Nil(t, db.Delete(key))
		has, err = db.Has(key)
		assert.Nil(t, err)
		assert.False(t, has)
	}
}

func TestLevelDBBatch(t *testing.T) {
	db, err := NewMem()
	assert.Nil(t, err)
	defer db.Close()

	batch := db.NewBatch()
	assert.Nil(t, batch.Put([]byte("k1"), []byte("v1")))
	assert.Nil(t, batch.Put([]byte("k2"), []byte("v2")))
	assert.Nil(t, batch.Delete([]byte("k1")))
	assert.Nil(t, batch.Write())

	has, err := db.Has([]byte("k1"))
	assert.Nil(t, err)
	assert.False(t, has)

	got, err := db.Get([]byte("k2"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestLevelDBIterator(t *testing.T) {
	db, err := NewMem()
	assert.Nil(t, err)
	defer db.Close()

	for _, k := range []string{"a", "b", "c"} {
		assert.Nil(t, db.Put([]byte(k), []byte(k)))
	}

	it := db.NewIterator(kv.Range{From: []byte("a"), To: []byte("c")})
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.Nil(t, it.Error())
	assert.Equal(t, []string{"a", "b"}, keys)
}
