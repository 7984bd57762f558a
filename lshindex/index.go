// Package lshindex ties the hash collections and bucket maps together into
// the L-table index: build inserts every point into every table once;
// query probes all L tables, deduplicates candidates against a tried
// bitset, and verifies each by exact Euclidean distance.
package lshindex

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/nearestbit/rnnlsh/bucketmap"
	"github.com/nearestbit/rnnlsh/hashfamily"
	"github.com/nearestbit/rnnlsh/lshcollection"
	"github.com/nearestbit/rnnlsh/lsherrors"
	"github.com/nearestbit/rnnlsh/vector"
)

// PointId is a point's position in the dataset slice LSHIndex borrows.
type PointId int32

// Config holds the knobs from spec section 6 that aren't tied to a single
// hash family: the capacity factor per table, the fingerprint (t2) output
// width DK, and whether build/query fan out across the L tables.
// FingerprintWidth == 0 means "default u32" — the raw mod-P value, truncated
// no further. Parallel defaults to false — sequential, matching the
// reference design.
type Config struct {
	CapacityFactor   int
	FingerprintWidth uint64
	Parallel         bool
}

// LSHIndex owns the L tables, the collections that feed them, and a
// borrowed reference to the dataset. It is built once and is immutable
// thereafter; only the tables' internal slots are still being written to
// during Build.
type LSHIndex struct {
	r           float64
	points      []vector.Point
	collections []lshcollection.Collection
	pool        *lshcollection.Pool
	tables      []*bucketmap.BucketMap
	t1          []*hashfamily.ModPHash
	t2          []*hashfamily.ModPHash
	config      Config
}

// Build constructs one BucketMap per collection, sized to
// config.CapacityFactor*len(points) (default factor 2), then inserts every
// point into every table. points is borrowed: the index holds onto the
// slice for its lifetime and never copies or mutates it.
func Build(rng *rand.Rand, r float64, collections []lshcollection.Collection, pool *lshcollection.Pool, points []vector.Point, config Config) (*LSHIndex, error) {
	if r <= 0 {
		return nil, lsherrors.InvalidParameters
	}
	if len(collections) == 0 {
		return nil, lsherrors.InvalidParameters
	}

	idx := &LSHIndex{
		r:           r,
		points:      points,
		collections: collections,
		pool:        pool,
		config:      config,
		tables:      make([]*bucketmap.BucketMap, len(collections)),
		t1:          make([]*hashfamily.ModPHash, len(collections)),
		t2:          make([]*hashfamily.ModPHash, len(collections)),
	}

	n := len(points)
	for i, c := range collections {
		idx.tables[i] = bucketmap.New(n, config.CapacityFactor)
		t1h, err := hashfamily.NewModPHash(rng, c.Width(), idx.tables[i].Capacity())
		if err != nil {
			return nil, err
		}
		t2h, err := hashfamily.NewModPHash(rng, c.Width(), config.FingerprintWidth)
		if err != nil {
			return nil, err
		}
		idx.t1[i] = t1h
		idx.t2[i] = t2h
	}

	insert := func(id int32) error {
		pre, err := idx.precompute(points[id])
		if err != nil {
			return err
		}
		for ti, c := range idx.collections {
			z, err := c.ApplyPrecomputed(pre)
			if err != nil {
				return err
			}
			bucket, err := idx.t1[ti].Hash(z)
			if err != nil {
				return err
			}
			fingerprint, err := idx.t2[ti].Hash(z)
			if err != nil {
				return err
			}
			if err := idx.tables[ti].Insert(bucket, fingerprint, id); err != nil {
				return err
			}
		}
		return nil
	}

	if !config.Parallel {
		for id := 0; id < n; id++ {
			if err := insert(int32(id)); err != nil {
				return nil, err
			}
		}
		return idx, nil
	}

	if err := fanOut(n, insert); err != nil {
		return nil, err
	}
	return idx, nil
}

// Query precomputes q once, probes every table, and returns the distinct
// PointIds within R of q. Each candidate surfaced by bucket lookup is
// distance-checked at most once, via the tried bitset, regardless of how
// many tables surface it.
func (idx *LSHIndex) Query(q vector.Point) ([]PointId, error) {
	pre, err := idx.precompute(q)
	if err != nil {
		return nil, err
	}

	tried := make([]bool, len(idx.points))
	results := make(map[PointId]struct{})
	var mu sync.Mutex

	checkCandidate := func(id int32) error {
		mu.Lock()
		if tried[id] {
			mu.Unlock()
			return nil
		}
		tried[id] = true
		mu.Unlock()

		dist, err := vector.L2(idx.points[id], q)
		if err != nil {
			return err
		}
		if dist <= idx.r {
			mu.Lock()
			results[PointId(id)] = struct{}{}
			mu.Unlock()
		}
		return nil
	}

	probeTable := func(ti int) error {
		c := idx.collections[ti]
		z, err := c.ApplyPrecomputed(pre)
		if err != nil {
			return err
		}
		bucket, err := idx.t1[ti].Hash(z)
		if err != nil {
			return err
		}
		fingerprint, err := idx.t2[ti].Hash(z)
		if err != nil {
			return err
		}
		candidates, ok := idx.tables[ti].Lookup(bucket, fingerprint)
		if !ok {
			return nil
		}
		for _, id := range candidates {
			if err := checkCandidate(id); err != nil {
				return err
			}
		}
		return nil
	}

	if !idx.config.Parallel {
		for ti := range idx.collections {
			if err := probeTable(ti); err != nil {
				return nil, err
			}
		}
	} else {
		indices := make([]int, len(idx.collections))
		for i := range indices {
			indices[i] = i
		}
		if err := fanOutIndices(indices, probeTable); err != nil {
			return nil, err
		}
	}

	out := make([]PointId, 0, len(results))
	for id := range results {
		out = append(out, id)
	}
	return out, nil
}

func (idx *LSHIndex) precompute(p vector.Point) (lshcollection.Precomputed, error) {
	if idx.pool != nil {
		return idx.pool.PrecomputeFor(p)
	}
	return lshcollection.Identity(p), nil
}

// NumPoints returns the size of the borrowed dataset.
func (idx *LSHIndex) NumPoints() int {
	return len(idx.points)
}

// fanOut runs work(0..n) across a bounded worker pool, mirroring the
// per-unit-of-work goroutine + sync.WaitGroup pattern the teacher's
// Hasher.build uses for its L trees, but capped at GOMAXPROCS workers since
// n here is dataset size rather than table count.
func fanOut(n int, work func(int32) error) error {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int32)
	errCh := make(chan error, n)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				if err := work(id); err != nil {
					errCh <- err
				}
			}
		}()
	}
	for id := 0; id < n; id++ {
		jobs <- int32(id)
	}
	close(jobs)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// fanOutIndices runs work over a small fixed set of table indices — one
// goroutine per table, matching Hasher.getHashes's per-tree goroutine
// fan-out (L is small, unlike dataset size, so no worker pool is needed).
func fanOutIndices(indices []int, work func(int) error) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(indices))
	wg.Add(len(indices))
	for _, i := range indices {
		go func(i int) {
			defer wg.Done()
			if err := work(i); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}
