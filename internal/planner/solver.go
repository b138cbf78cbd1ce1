package planner

import (
	"errors"
	"time"

	"github.com/signalsfoundry/search-planner/core"
	"github.com/signalsfoundry/search-planner/internal/observability"
	"github.com/signalsfoundry/search-planner/model"
)

// InstrumentedSolver counts and times every query that reaches the wrapped
// solver.
type InstrumentedSolver struct {
	next    core.BoundarySolver
	metrics *observability.PlannerCollector
	now     func() time.Time
}

// NewInstrumentedSolver wraps next. A nil collector disables recording.
func NewInstrumentedSolver(next core.BoundarySolver, metrics *observability.PlannerCollector) *InstrumentedSolver {
	return &InstrumentedSolver{next: next, metrics: metrics, now: time.Now}
}

func (s *InstrumentedSolver) ExtremeX(boundary []model.Point, fixedY float64, obj core.Objective) (float64, error) {
	start := s.now()
	v, err := s.next.ExtremeX(boundary, fixedY, obj)
	s.metrics.ObserveSolve("x", obj.String(), solveOutcome(err), s.now().Sub(start))
	return v, err
}

func (s *InstrumentedSolver) ExtremeY(boundary []model.Point, obj core.Objective) (float64, error) {
	start := s.now()
	v, err := s.next.ExtremeY(boundary, obj)
	s.metrics.ObserveSolve("y", obj.String(), solveOutcome(err), s.now().Sub(start))
	return v, err
}

func solveOutcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, core.ErrInfeasibleBoundary):
		return observability.OutcomeInfeasible
	default:
		return observability.OutcomeError
	}
}
