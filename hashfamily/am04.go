// Package hashfamily implements the AM04 p-stable hash family and the
// universal hash (ModPHash) used to fold a k-vector of AM04 outputs into a
// table bucket index and a stored fingerprint. See [AM04], the E2LSH
// manual, and spec section 4.1-4.2 for the underlying algorithm.
package hashfamily

import (
	"math"
	"math/rand"

	"github.com/nearestbit/rnnlsh/lsherrors"
	"github.com/nearestbit/rnnlsh/vector"
)

// AM04Hash is a single p-stable hash h_{a,b}(v) = floor(a.v/R + b), with a
// sampled from a Gaussian and b from U[0,1). Immutable once constructed.
type AM04Hash struct {
	a vector.Point
	b float64
	r float64
}

// Dimension returns the dimension d of the projection vector a.
func (h *AM04Hash) Dimension() int {
	return h.a.N
}

// Apply evaluates h(v) = floor((a.v)/R + b).
//
// The divisor is R, not w — this mirrors the reference AM04/E2LSH source
// (spec Design Notes, item d) even though some LSH literature divides by w.
func (h *AM04Hash) Apply(v vector.Point) (int32, error) {
	dot, err := vector.Dot(h.a, v)
	if err != nil {
		return 0, lsherrors.InvalidDimension
	}
	return int32(math.Floor(dot/h.r + h.b)), nil
}

// AM04HashFamily samples AM04Hash instances for a fixed dimension d, bucket
// width w, and radius R. sigma of the projection coordinates is 1/w.
type AM04HashFamily struct {
	Dim int
	W   float64
	R   float64
}

// NewAM04HashFamily validates and constructs a family. d must be positive,
// w and R must be positive.
func NewAM04HashFamily(d int, w, r float64) (*AM04HashFamily, error) {
	if d <= 0 || w <= 0 || r <= 0 {
		return nil, lsherrors.InvalidParameters
	}
	return &AM04HashFamily{Dim: d, W: w, R: r}, nil
}

// Sample draws a new AM04Hash: a[i] ~ N(0, 1/w^2) independently, b ~ U[0,1).
//
// NormFloat64 draws from the standard normal via the Ziggurat algorithm, not
// a Box-Muller approximation, so the tails stay correct at the probabilities
// this hash family relies on.
func (f *AM04HashFamily) Sample(rng *rand.Rand) *AM04Hash {
	sigma := 1.0 / f.W
	a := make([]float64, f.Dim)
	for i := range a {
		a[i] = rng.NormFloat64() * sigma
	}
	return &AM04Hash{
		a: vector.New(a),
		b: rng.Float64(),
		r: f.R,
	}
}
