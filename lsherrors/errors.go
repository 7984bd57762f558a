// Package lsherrors collects the sentinel errors the indexing core can
// raise, named after the error kinds in the design: a hash function fed a
// vector of the wrong length, a builder given inconsistent parameters, a
// bucket map that cannot accept another insert, and a composite collection
// handed precomputed state from a pool it does not belong to.
package lsherrors

import "errors"

var (
	// InvalidDimension is returned when an input vector's length disagrees
	// with a hash function's configured dimension.
	InvalidDimension = errors.New("lsh: input dimension does not match hash function dimension")

	// InvalidParameters is returned by builders when k is odd for a
	// u-family, L is inconsistent with m, or R, w, or d are non-positive.
	InvalidParameters = errors.New("lsh: invalid hash family parameters")

	// CapacityExceeded is returned when a bucket map's fixed-size slot
	// array fills before an insert completes its probe sequence.
	CapacityExceeded = errors.New("lsh: bucket map capacity exceeded")

	// PoolMismatch is returned when a CompositeHashCollection is handed a
	// Precomputed value keyed to a different pool than its own.
	PoolMismatch = errors.New("lsh: precomputed hashes belong to a different pool")
)
