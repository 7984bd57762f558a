package hashfamily

import (
	"math/rand"

	"github.com/nearestbit/rnnlsh/lsherrors"
)

// ModPPrime is the largest prime below 2^32, used as the modulus for the
// universal hash that reduces a k-vector to a bucket index (t1) or a
// fingerprint (t2).
const ModPPrime uint64 = 1<<32 - 5

// ModPHash computes a universal hash of an int32 vector: the dot product
// of the input with a random coefficient vector r, reduced mod ModPPrime,
// then truncated to an output width by a final modulo.
//
// Two ModPHash instances are built per table: one sized to the table's
// capacity (t1, the probe/bucket index) and one sized to the fingerprint
// width (t2, the stored key).
type ModPHash struct {
	r     []uint32
	width uint64 // 0 means no truncation beyond ModPPrime
}

// NewModPHash draws d coefficients uniformly from [0, 2^32) using rng and
// returns a hash whose output is truncated modulo width (width == 0 leaves
// the raw mod-P value untouched).
func NewModPHash(rng *rand.Rand, d int, width uint64) (*ModPHash, error) {
	if d <= 0 {
		return nil, lsherrors.InvalidParameters
	}
	r := make([]uint32, d)
	for i := range r {
		r[i] = rng.Uint32()
	}
	return &ModPHash{r: r, width: width}, nil
}

// Dimension returns the length of the coefficient vector r.
func (m *ModPHash) Dimension() int {
	return len(m.r)
}

// Hash computes Sum(z[i]*r[i]) mod P, accumulating the running sum mod P at
// each step so the result is independent of evaluation order, then reduces
// modulo the configured output width.
func (m *ModPHash) Hash(z []int32) (uint64, error) {
	if len(z) != len(m.r) {
		return 0, lsherrors.InvalidDimension
	}
	var result uint64
	p := int64(ModPPrime)
	for i, zi := range z {
		prod := int64(zi) * int64(m.r[i])
		pm := prod % p
		if pm < 0 {
			pm += p
		}
		result = (result + uint64(pm)) % ModPPrime
	}
	if m.width == 0 {
		return result, nil
	}
	return result % m.width, nil
}

// HashScalar is the d'=1 form of Hash, for callers that never build a slice.
func (m *ModPHash) HashScalar(z int32) (uint64, error) {
	return m.Hash([]int32{z})
}
