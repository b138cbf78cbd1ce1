package core

import "errors"

var (
	// ErrInvalidConfiguration is returned before any generation starts when
	// a pattern parameter is out of range.
	ErrInvalidConfiguration = errors.New("invalid pattern configuration")

	// ErrInfeasibleBoundary is returned when a boundary query has no
	// feasible point, or the solver cannot produce a bounded optimum.
	ErrInfeasibleBoundary = errors.New("infeasible boundary")

	// ErrNumericDegenerate marks a computation whose inputs have no
	// well-defined numeric answer (zero-length segment, pole crossing).
	ErrNumericDegenerate = errors.New("numerically degenerate input")
)
