package hashfamily

import (
	"math/rand"
	"testing"

	"github.com/nearestbit/rnnlsh/lsherrors"
)

func TestModPHashDimensionMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	h, err := NewModPHash(rng, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.Hash([]int32{1, 2}); err != lsherrors.InvalidDimension {
		t.Fatal("expected InvalidDimension for a mismatched vector length")
	}
}

func TestModPHashScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	h, err := NewModPHash(rng, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := h.HashScalar(7)
	if err != nil {
		t.Fatal(err)
	}
	want, err := h.Hash([]int32{7})
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("HashScalar(7) = %v, Hash([7]) = %v", got, want)
	}
}

// TestModPHashLinearity checks property 7 from the testable-properties
// list: hash(x+y) == hash(x) + hash(y) (mod P), before any output-width
// truncation is applied.
func TestModPHashLinearity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	h, err := NewModPHash(rng, 4, 0)
	if err != nil {
		t.Fatal(err)
	}
	x := []int32{3, -7, 100, -2}
	y := []int32{-5, 11, -40, 9}
	xy := make([]int32, len(x))
	for i := range x {
		xy[i] = x[i] + y[i]
	}
	hx, _ := h.Hash(x)
	hy, _ := h.Hash(y)
	hxy, _ := h.Hash(xy)
	want := (hx + hy) % ModPPrime
	if hxy != want {
		t.Fatalf("hash(x+y) = %v, want (hash(x)+hash(y)) mod P = %v", hxy, want)
	}
}

func TestModPHashWidthTruncation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	h, err := NewModPHash(rng, 2, 16)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		z := []int32{int32(rng.Intn(1000) - 500), int32(rng.Intn(1000) - 500)}
		v, err := h.Hash(z)
		if err != nil {
			t.Fatal(err)
		}
		if v >= 16 {
			t.Fatalf("truncated hash %v exceeds configured width 16", v)
		}
	}
}

func TestNewModPHashInvalidDimension(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := NewModPHash(rng, 0, 0); err != lsherrors.InvalidParameters {
		t.Fatal("expected InvalidParameters for non-positive dimension")
	}
}
