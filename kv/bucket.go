// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket provides a logical key space inside a kv store, by key prefixing.
type Bucket string

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src GetPutter) GetPutter {
	return &bucketStore{string(b), src}
}

type bucketStore struct {
	prefix string
	src    GetPutter
}

func (s *bucketStore) makeKey(key []byte) []byte {
	return append([]byte(s.prefix), key...)
}

func (s *bucketStore) Get(key []byte) ([]byte, error) {
	return s.src.Get(s.makeKey(key))
}

func (s *bucketStore) Has(key []byte) (bool, error) {
	return s.src.Has(s.makeKey(key))
}

func (s *bucketStore) IsNotFound(err error) bool {
	return s.src.IsNotFound(err)
}

func (s *bucketStore) Put(key, value []byte) error {
	return s.src.Put(s.makeKey(key), value)
}

func (s *bucketStore) Delete(key []byte) error {
	return s.src.Delete(s.makeKey(key))
}

func (s *bucketStore) NewBatch() Batch {
	return &bucketBatch{s.makeKey, s.src.NewBatch()}
}

func (s *bucketStore) NewIterator(r Range) Iterator {
	from := s.makeKey(r.From)
	to := PrefixRange([]byte(s.prefix)).To
	if r.To != nil {
		to = s.makeKey(r.To)
	}
	return &bucketIter{len(s.prefix), s.src.NewIterator(Range{From: from, To: to})}
}

type bucketBatch struct {
	makeKey func([]byte) []byte
	batch   Batch
}

func (b *bucketBatch) Put(key, value []byte) error {
	return b.batch.Put(b.makeKey(key), value)
}

func (b *bucketBatch) Delete(key []byte) error {
	return b.batch.Delete(b.makeKey(key))
}

func (b *bucketBatch) NewBatch() Batch { return b }
func (b *bucketBatch) Len() int        { return b.batch.Len() }
func (b *bucketBatch) Write() error    { return b.batch.Write() }

type bucketIter struct {
	prefixLen int
	Iterator
}

// Key strips the bucket prefix from the underlying key.
func (i *bucketIter) Key() []byte {
	return i.Iterator.Key()[i.prefixLen:]
}
