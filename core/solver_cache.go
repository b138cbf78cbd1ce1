package core

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/signalsfoundry/search-planner/model"
)

// DefaultSolverCacheSize bounds the number of memoised boundary queries.
const DefaultSolverCacheSize = 4096

type solveKey struct {
	boundary uint64
	axis     axis
	obj      Objective
	fixedY   uint64
}

type solveResult struct {
	value float64
	err   error
}

// CachedSolver memoises another BoundarySolver. A lawnmower pattern asks
// for the same row extremes repeatedly (once per altitude stack), so the
// solver is otherwise the latency bottleneck. Failures are cached too.
// Safe for concurrent use.
type CachedSolver struct {
	next  BoundarySolver
	cache *lru.Cache[solveKey, solveResult]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedSolver wraps next with an LRU of the given size.
func NewCachedSolver(next BoundarySolver, size int) (*CachedSolver, error) {
	if next == nil {
		return nil, fmt.Errorf("NewCachedSolver: next solver is nil")
	}
	if size <= 0 {
		size = DefaultSolverCacheSize
	}
	cache, err := lru.New[solveKey, solveResult](size)
	if err != nil {
		return nil, fmt.Errorf("NewCachedSolver: %w", err)
	}
	return &CachedSolver{next: next, cache: cache}, nil
}

// ExtremeX implements BoundarySolver.
func (c *CachedSolver) ExtremeX(boundary []model.Point, fixedY float64, obj Objective) (float64, error) {
	key := solveKey{boundary: fingerprint(boundary), axis: axisX, obj: obj, fixedY: math.Float64bits(fixedY)}
	return c.lookup(key, func() (float64, error) {
		return c.next.ExtremeX(boundary, fixedY, obj)
	})
}

// ExtremeY implements BoundarySolver.
func (c *CachedSolver) ExtremeY(boundary []model.Point, obj Objective) (float64, error) {
	key := solveKey{boundary: fingerprint(boundary), axis: axisY, obj: obj}
	return c.lookup(key, func() (float64, error) {
		return c.next.ExtremeY(boundary, obj)
	})
}

func (c *CachedSolver) lookup(key solveKey, solve func() (float64, error)) (float64, error) {
	if r, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return r.value, r.err
	}
	c.misses.Add(1)
	v, err := solve()
	c.cache.Add(key, solveResult{value: v, err: err})
	return v, err
}

// Stats returns the number of cache hits and misses so far.
func (c *CachedSolver) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Purge drops every memoised result.
func (c *CachedSolver) Purge() {
	c.cache.Purge()
}

// fingerprint hashes the vertex coordinates in order. Winding is part of
// the identity: the same vertices in reverse order hash differently.
func fingerprint(boundary []model.Point) uint64 {
	buf := make([]byte, 0, len(boundary)*16)
	for _, p := range boundary {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.X))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.Y))
	}
	return xxhash.Sum64(buf)
}
