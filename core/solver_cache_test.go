package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/signalsfoundry/search-planner/model"
)

type countingSolver struct {
	BoundarySolver
	calls int
}

func (c *countingSolver) ExtremeX(b []model.Point, y float64, obj Objective) (float64, error) {
	c.calls++
	return c.BoundarySolver.ExtremeX(b, y, obj)
}

func (c *countingSolver) ExtremeY(b []model.Point, obj Objective) (float64, error) {
	c.calls++
	return c.BoundarySolver.ExtremeY(b, obj)
}

func TestCachedSolver_MemoisesQueries(t *testing.T) {
	inner := &countingSolver{BoundarySolver: NewSimplexSolver()}
	cached, err := NewCachedSolver(inner, 16)
	if err != nil {
		t.Fatalf("NewCachedSolver: %v", err)
	}

	for range 3 {
		if v, err := cached.ExtremeX(square10, 5, Maximize); err != nil || v != 10 {
			t.Fatalf("ExtremeX = %v, %v; want 10", v, err)
		}
		if v, err := cached.ExtremeY(square10, Minimize); err != nil || v != 0 {
			t.Fatalf("ExtremeY = %v, %v; want 0", v, err)
		}
	}

	if inner.calls != 2 {
		t.Errorf("inner solver calls = %d, want 2", inner.calls)
	}
	hits, misses := cached.Stats()
	if hits != 4 || misses != 2 {
		t.Errorf("Stats = (%d, %d), want (4, 2)", hits, misses)
	}
}

func TestCachedSolver_DistinguishesQueries(t *testing.T) {
	inner := &countingSolver{BoundarySolver: NewSimplexSolver()}
	cached, err := NewCachedSolver(inner, 0)
	if err != nil {
		t.Fatalf("NewCachedSolver: %v", err)
	}

	_, _ = cached.ExtremeX(square10, 5, Minimize)
	_, _ = cached.ExtremeX(square10, 5, Maximize)
	_, _ = cached.ExtremeX(square10, 6, Minimize)
	_, _ = cached.ExtremeX(reversed(square10), 5, Minimize)

	if inner.calls != 4 {
		t.Errorf("inner solver calls = %d, want 4", inner.calls)
	}
}

func TestCachedSolver_CachesFailures(t *testing.T) {
	inner := &countingSolver{BoundarySolver: NewSimplexSolver()}
	cached, err := NewCachedSolver(inner, 8)
	if err != nil {
		t.Fatalf("NewCachedSolver: %v", err)
	}
	for range 2 {
		if _, err := cached.ExtremeX(square10, 50, Minimize); !errors.Is(err, ErrInfeasibleBoundary) {
			t.Fatalf("err = %v, want ErrInfeasibleBoundary", err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner solver calls = %d, want 1", inner.calls)
	}

	cached.Purge()
	_, _ = cached.ExtremeX(square10, 50, Minimize)
	if inner.calls != 2 {
		t.Errorf("inner solver calls after purge = %d, want 2", inner.calls)
	}
}

func TestCachedSolver_ConcurrentQueries(t *testing.T) {
	cached, err := NewCachedSolver(NewSimplexSolver(), 64)
	if err != nil {
		t.Fatalf("NewCachedSolver: %v", err)
	}

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		y := float64(i % 10)
		wg.Add(2)
		go func() {
			defer wg.Done()
			if v, err := cached.ExtremeX(square10, y, Maximize); err != nil || v != 10 {
				t.Errorf("ExtremeX(y=%v) = %v, %v; want 10", y, v, err)
			}
		}()
		go func() {
			defer wg.Done()
			if v, err := cached.ExtremeY(square10, Minimize); err != nil || v != 0 {
				t.Errorf("ExtremeY = %v, %v; want 0", v, err)
			}
		}()
	}
	wg.Wait()

	hits, misses := cached.Stats()
	if hits+misses != 2*workers {
		t.Errorf("hits+misses = %d, want %d", hits+misses, 2*workers)
	}
	// Eleven distinct queries: each must miss at least once.
	if misses < 11 {
		t.Errorf("misses = %d, want at least 11", misses)
	}
}

func TestNewCachedSolver_NilInner(t *testing.T) {
	if _, err := NewCachedSolver(nil, 1); err == nil {
		t.Fatalf("expected error for nil inner solver")
	}
}
