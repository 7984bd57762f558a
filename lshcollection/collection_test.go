package lshcollection

import (
	"math/rand"
	"testing"

	"github.com/nearestbit/rnnlsh/hashfamily"
	"github.com/nearestbit/rnnlsh/lsherrors"
	"github.com/nearestbit/rnnlsh/vector"
)

func newFamily(t *testing.T, d int) *hashfamily.AM04HashFamily {
	t.Helper()
	f, err := hashfamily.NewAM04HashFamily(d, 4.0, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestHashCollectionWidthAndApply(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	family := newFamily(t, 5)
	c, err := NewHashCollection(family, 4, rng)
	if err != nil {
		t.Fatal(err)
	}
	if c.Width() != 4 {
		t.Fatalf("Width() = %v, want 4", c.Width())
	}
	p := vector.New([]float64{1, 2, 3, 4, 5})
	z, err := c.Apply(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(z) != 4 {
		t.Fatalf("Apply produced %v values, want 4", len(z))
	}
}

// TestPrecomputeEquivalenceHashCollection is testable property 6 for a
// g-function: c(v) == c(v, precompute(v)) elementwise.
func TestPrecomputeEquivalenceHashCollection(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	family := newFamily(t, 3)
	c, err := NewHashCollection(family, 4, rng)
	if err != nil {
		t.Fatal(err)
	}
	p := vector.New([]float64{0.5, -1.5, 2.0})
	direct, err := c.Apply(p)
	if err != nil {
		t.Fatal(err)
	}
	via, err := c.ApplyPrecomputed(Identity(p))
	if err != nil {
		t.Fatal(err)
	}
	if len(direct) != len(via) {
		t.Fatal("precomputed and direct evaluations differ in length")
	}
	for i := range direct {
		if direct[i] != via[i] {
			t.Fatalf("index %d: direct=%v precomputed=%v", i, direct[i], via[i])
		}
	}
}

// TestBuildUArity is testable property / scenario S4: buildU(d=10,w=4,k=6,m=5)
// emits exactly 10 composite collections, indexed lexicographically.
func TestBuildUArity(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	family := newFamily(t, 10)
	collections, pool, err := BuildU(family, 6, 5, rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(collections) != 10 {
		t.Fatalf("got %d composite collections, want 10", len(collections))
	}
	wantPairs := [][2]int{
		{0, 1}, {0, 2}, {0, 3}, {0, 4},
		{1, 2}, {1, 3}, {1, 4},
		{2, 3}, {2, 4},
		{3, 4},
	}
	for idx, c := range collections {
		comp := c.(*CompositeHashCollection)
		if comp.i != wantPairs[idx][0] || comp.j != wantPairs[idx][1] {
			t.Fatalf("pair %d: got (%d,%d), want (%d,%d)", idx, comp.i, comp.j, wantPairs[idx][0], wantPairs[idx][1])
		}
		if comp.pool != pool {
			t.Fatalf("pair %d: composite does not reference the returned pool", idx)
		}
	}
}

func TestBuildURejectsOddK(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	family := newFamily(t, 10)
	if _, _, err := BuildU(family, 5, 5, rng); err != lsherrors.InvalidParameters {
		t.Fatal("expected InvalidParameters for odd k")
	}
}

// TestPrecomputeEquivalenceComposite is S5: for every point v in a random
// dataset under a u-family, composite(v) == composite(v, precompute(v))
// elementwise, for every one of the L composites sharing the pool.
func TestPrecomputeEquivalenceComposite(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	family := newFamily(t, 10)
	collections, pool, err := BuildU(family, 6, 5, rng)
	if err != nil {
		t.Fatal(err)
	}
	points := make([]vector.Point, 20)
	for i := range points {
		data := make([]float64, 10)
		for j := range data {
			data[j] = rng.Float64()*10 - 5
		}
		points[i] = vector.New(data)
	}
	for _, p := range points {
		pre, err := pool.PrecomputeFor(p)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range collections {
			direct, err := c.Apply(p)
			if err != nil {
				t.Fatal(err)
			}
			via, err := c.ApplyPrecomputed(pre)
			if err != nil {
				t.Fatal(err)
			}
			for i := range direct {
				if direct[i] != via[i] {
					t.Fatalf("precompute mismatch at point with value %v", p.Data)
				}
			}
		}
	}
}

func TestCompositePoolMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	family := newFamily(t, 10)
	collections, _, err := BuildU(family, 6, 5, rng)
	if err != nil {
		t.Fatal(err)
	}
	_, otherPool, err := BuildU(family, 6, 5, rng)
	if err != nil {
		t.Fatal(err)
	}
	p := vector.New([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	pre, err := otherPool.PrecomputeFor(p)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := collections[0].ApplyPrecomputed(pre); err != lsherrors.PoolMismatch {
		t.Fatal("expected PoolMismatch when precomputation belongs to a different pool")
	}
}

func TestBuildGArity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	family := newFamily(t, 10)
	collections, err := BuildG(family, 4, 20, rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(collections) != 20 {
		t.Fatalf("got %d collections, want 20", len(collections))
	}
	for _, c := range collections {
		if c.Width() != 4 {
			t.Fatalf("collection width = %v, want 4", c.Width())
		}
	}
}
