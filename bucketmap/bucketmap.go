// Package bucketmap implements the two-level open-addressing table the
// E2LSH manual describes: the probe position comes from t1 (the bucket
// index), the stored comparison key is t2 (the fingerprint) — never the
// original k-vector. Two distinct k-vectors that collide on both t1 and t2
// share a slot; that false-positive rate is the price of not storing the
// k-vector itself, and the caller's exact-distance filter removes them.
package bucketmap

import (
	"sync"

	"github.com/nearestbit/rnnlsh/lsherrors"
)

const (
	stateEmpty = iota
	stateOccupied
)

type slot struct {
	state  uint8
	key    uint64
	values []int32
}

// BucketMap is sized once, at construction, to a power of two at least
// CapacityFactor * n and never rehashes. Growing it would require
// recomputing t1 for every stored entry from some source of truth (the
// owning collection and the dataset); the reference design avoids that
// entirely by pre-sizing generously instead.
type BucketMap struct {
	mu       sync.Mutex
	slots    []slot
	capacity uint64
	mask     uint64
}

// New allocates a table with capacity = nextPow2(factor*n). factor<=0
// defaults to 2, matching the spec's default capacity factor.
func New(n, factor int) *BucketMap {
	if factor <= 0 {
		factor = 2
	}
	want := uint64(n) * uint64(factor)
	if want < 1 {
		want = 1
	}
	size := nextPow2(want)
	return &BucketMap{
		slots:    make([]slot, size),
		capacity: size,
		mask:     size - 1,
	}
}

func nextPow2(n uint64) uint64 {
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

// Capacity returns the number of slots, a power of two. t1 hash functions
// should be constructed with this as their output width so their output
// lands directly in [0, Capacity()).
func (b *BucketMap) Capacity() uint64 {
	return b.capacity
}

// probe is deterministic given (bucket, capacity): triangular-number
// quadratic probing, which visits every slot of a power-of-two-sized table
// exactly once before repeating.
func (b *BucketMap) probe(bucket, i uint64) uint64 {
	return (bucket + i*(i+1)/2) & b.mask
}

// Insert places id under the slot reached by probing from bucket, using
// fingerprint as the stored comparison key. An empty slot along the probe
// sequence is claimed; an occupied slot whose key matches fingerprint gets
// id appended; any other occupied slot is skipped.
func (b *BucketMap) Insert(bucket, fingerprint uint64, id int32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := uint64(0); i < b.capacity; i++ {
		pos := b.probe(bucket, i)
		s := &b.slots[pos]
		if s.state == stateEmpty {
			s.state = stateOccupied
			s.key = fingerprint
			s.values = append(s.values, id)
			return nil
		}
		if s.key == fingerprint {
			s.values = append(s.values, id)
			return nil
		}
	}
	return lsherrors.CapacityExceeded
}

// Lookup probes from bucket until it hits an empty slot (miss) or a slot
// whose stored key equals fingerprint (hit). A hit may return the entry
// list of a different k-vector that happened to collide on both t1 and t2;
// that is an accepted false-positive source, not a bug.
func (b *BucketMap) Lookup(bucket, fingerprint uint64) ([]int32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := uint64(0); i < b.capacity; i++ {
		pos := b.probe(bucket, i)
		s := &b.slots[pos]
		if s.state == stateEmpty {
			return nil, false
		}
		if s.key == fingerprint {
			return s.values, true
		}
	}
	return nil, false
}
