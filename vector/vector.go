// Package vector holds the point representation and the handful of
// Euclidean operations the LSH core needs: projection dot products during
// hashing and exact distance verification during query.
package vector

import (
	"errors"

	"gonum.org/v1/gonum/blas/blas64"
)

// ErrDimensionMismatch is returned whenever two vectors participating in an
// operation disagree on length.
var ErrDimensionMismatch = errors.New("vector: dimension mismatch")

// Point is a fixed-dimension real vector. Identity is positional: callers
// own the backing dataset slice, the index only borrows it.
type Point = blas64.Vector

// New wraps a slice of float64 as a Point without copying.
func New(data []float64) Point {
	if data == nil {
		data = make([]float64, 0)
	}
	return blas64.Vector{N: len(data), Inc: 1, Data: data}
}

// Dot returns the dot product a.b.
func Dot(a, b Point) (float64, error) {
	if a.N != b.N {
		return 0, ErrDimensionMismatch
	}
	return blas64.Dot(a, b), nil
}

// L2 returns the Euclidean distance between a and b.
func L2(a, b Point) (float64, error) {
	if a.N != b.N {
		return 0, ErrDimensionMismatch
	}
	diff := New(make([]float64, a.N))
	blas64.Copy(b, diff)
	blas64.Axpy(-1.0, a, diff)
	return blas64.Nrm2(diff), nil
}
