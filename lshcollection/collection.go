// Package lshcollection implements the g- and u-function layer: concatenating
// several AM04Hash outputs into a k-vector, and — for u-functions — sharing
// a pool of half-size collections across many tables so a point's hash cost
// is O(k*m) instead of O(k*L).
package lshcollection

import (
	"math/rand"

	"github.com/nearestbit/rnnlsh/hashfamily"
	"github.com/nearestbit/rnnlsh/lsherrors"
	"github.com/nearestbit/rnnlsh/vector"
)

// Collection is a hash collection: evaluating it on a point yields an
// ordered int32 k-vector. Both HashCollection (g) and CompositeHashCollection
// (u) satisfy it, so LSHIndex can be built generically over either family.
type Collection interface {
	// Width returns k, the length of the emitted vector.
	Width() int
	// Apply evaluates the collection directly against a raw point, O(k*d).
	Apply(p vector.Point) ([]int32, error)
	// ApplyPrecomputed evaluates using a cache shared across every
	// collection keyed to the same pool: O(k) for a composite collection,
	// still O(k*d) for a plain HashCollection.
	ApplyPrecomputed(pre Precomputed) ([]int32, error)
}

// Precomputed is produced once per point (or query) and passed to every
// table that shares its pool. For a plain HashCollection it is just the
// point itself (identity precomputation); for a CompositeHashCollection it
// holds all m half-evaluations plus a pointer identifying the pool they
// came from.
type Precomputed struct {
	point  vector.Point
	pool   *Pool
	halves [][]int32
}

// Identity returns the precomputation g-functions (and dummy families) use:
// the point unchanged.
func Identity(p vector.Point) Precomputed {
	return Precomputed{point: p}
}

// HashCollection is a g-function: a k-tuple of independent AM04 hashes.
type HashCollection struct {
	hashes []*hashfamily.AM04Hash
}

// NewHashCollection samples k independent hashes from family using rng.
func NewHashCollection(family *hashfamily.AM04HashFamily, k int, rng *rand.Rand) (*HashCollection, error) {
	if k <= 0 {
		return nil, lsherrors.InvalidParameters
	}
	hashes := make([]*hashfamily.AM04Hash, k)
	for i := range hashes {
		hashes[i] = family.Sample(rng)
	}
	return &HashCollection{hashes: hashes}, nil
}

// Width returns k.
func (c *HashCollection) Width() int {
	return len(c.hashes)
}

// Apply evaluates every one of the k hashes against p.
func (c *HashCollection) Apply(p vector.Point) ([]int32, error) {
	out := make([]int32, len(c.hashes))
	for i, h := range c.hashes {
		v, err := h.Apply(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ApplyPrecomputed ignores pre.pool and re-evaluates against the cached
// point — still O(k*d), since
// g-functions have nothing cheaper to fall back to; the O(k) shortcut is
// the composite collections' contribution.
func (c *HashCollection) ApplyPrecomputed(pre Precomputed) ([]int32, error) {
	return c.Apply(pre.point)
}

// Pool owns m half-width HashCollections shared by every
// CompositeHashCollection built against it.
type Pool struct {
	halves []*HashCollection
}

// NewPool samples m independent HashCollections of width halfK.
func NewPool(family *hashfamily.AM04HashFamily, halfK, m int, rng *rand.Rand) (*Pool, error) {
	if m <= 0 || halfK <= 0 {
		return nil, lsherrors.InvalidParameters
	}
	halves := make([]*HashCollection, m)
	for i := range halves {
		hc, err := NewHashCollection(family, halfK, rng)
		if err != nil {
			return nil, err
		}
		halves[i] = hc
	}
	return &Pool{halves: halves}, nil
}

// Size returns m, the number of half-collections in the pool.
func (p *Pool) Size() int {
	return len(p.halves)
}

// PrecomputeFor evaluates all m half-collections against point once, in
// O(k*m), producing the value every CompositeHashCollection sharing this
// pool reads from in O(k).
func (p *Pool) PrecomputeFor(point vector.Point) (Precomputed, error) {
	halves := make([][]int32, len(p.halves))
	for i, hc := range p.halves {
		v, err := hc.Apply(point)
		if err != nil {
			return Precomputed{}, err
		}
		halves[i] = v
	}
	return Precomputed{pool: p, halves: halves}, nil
}

// CompositeHashCollection is a u-function: the concatenation of pool[i] and
// pool[j]'s outputs, i<j, amortizing precomputation across L = m(m-1)/2
// collections drawn from one pool of size m.
type CompositeHashCollection struct {
	pool *Pool
	i, j int
}

func newComposite(pool *Pool, i, j int) *CompositeHashCollection {
	return &CompositeHashCollection{pool: pool, i: i, j: j}
}

// Width returns the combined width of the two half-collections it pairs.
func (c *CompositeHashCollection) Width() int {
	return c.pool.halves[c.i].Width() + c.pool.halves[c.j].Width()
}

// Apply evaluates both half-collections directly, O(k*d) — used only when a
// caller has no precomputation to offer.
func (c *CompositeHashCollection) Apply(p vector.Point) ([]int32, error) {
	left, err := c.pool.halves[c.i].Apply(p)
	if err != nil {
		return nil, err
	}
	right, err := c.pool.halves[c.j].Apply(p)
	if err != nil {
		return nil, err
	}
	return concat(left, right), nil
}

// ApplyPrecomputed concatenates pre.halves[i] and pre.halves[j]. If pre was
// computed against a different pool, it raises PoolMismatch rather than
// silently falling back to raw evaluation — the reference design asserts
// pool identity.
func (c *CompositeHashCollection) ApplyPrecomputed(pre Precomputed) ([]int32, error) {
	if pre.pool != c.pool {
		return nil, lsherrors.PoolMismatch
	}
	return concat(pre.halves[c.i], pre.halves[c.j]), nil
}

func concat(a, b []int32) []int32 {
	out := make([]int32, len(a)+len(b))
	copy(out, a)
	copy(out[len(a):], b)
	return out
}

// BuildG returns l independent g-function collections of width k.
func BuildG(family *hashfamily.AM04HashFamily, k, l int, rng *rand.Rand) ([]Collection, error) {
	if k <= 0 || l <= 0 {
		return nil, lsherrors.InvalidParameters
	}
	out := make([]Collection, l)
	for i := range out {
		hc, err := NewHashCollection(family, k, rng)
		if err != nil {
			return nil, err
		}
		out[i] = hc
	}
	return out, nil
}

// BuildU returns the L = m(m-1)/2 composite collections for a pool of m
// half-collections of width k/2, enumerated over pairs (i,j), i<j, in
// lexicographic order, along with the pool itself so callers can
// precompute per point.
func BuildU(family *hashfamily.AM04HashFamily, k, m int, rng *rand.Rand) ([]Collection, *Pool, error) {
	if m <= 1 {
		return nil, nil, lsherrors.InvalidParameters
	}
	if k <= 0 || k%2 != 0 {
		return nil, nil, lsherrors.InvalidParameters
	}
	pool, err := NewPool(family, k/2, m, rng)
	if err != nil {
		return nil, nil, err
	}
	out := make([]Collection, 0, m*(m-1)/2)
	for i := 0; i < m; i++ {
		for j := i + 1; j < m; j++ {
			out = append(out, newComposite(pool, i, j))
		}
	}
	return out, pool, nil
}
