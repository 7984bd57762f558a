package lshindex

import (
	"math/rand"

	"github.com/nearestbit/rnnlsh/hashfamily"
	"github.com/nearestbit/rnnlsh/lshcollection"
	"github.com/nearestbit/rnnlsh/lsherrors"
)

// BuildG samples an AM04HashFamily(d, w, r) and returns l independent
// g-function collections of width k, suitable for passing to Build.
func BuildG(rng *rand.Rand, d int, w float64, k, l int, r float64) ([]lshcollection.Collection, error) {
	family, err := hashfamily.NewAM04HashFamily(d, w, r)
	if err != nil {
		return nil, err
	}
	return lshcollection.BuildG(family, k, l, rng)
}

// BuildU samples an AM04HashFamily(d, w, r) and returns the L = m(m-1)/2
// u-function collections for a pool of m half-collections of width k/2,
// along with the pool itself (callers pass it straight through to Build).
// It fails with InvalidParameters if k is odd or l != m(m-1)/2.
func BuildU(rng *rand.Rand, d int, w float64, k, l int, r float64, m int) ([]lshcollection.Collection, *lshcollection.Pool, error) {
	if m <= 1 {
		return nil, nil, lsherrors.InvalidParameters
	}
	if l != m*(m-1)/2 {
		return nil, nil, lsherrors.InvalidParameters
	}
	family, err := hashfamily.NewAM04HashFamily(d, w, r)
	if err != nil {
		return nil, nil, err
	}
	return lshcollection.BuildU(family, k, m, rng)
}
