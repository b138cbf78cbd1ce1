package core

import (
	"errors"
	"fmt"

	"github.com/signalsfoundry/search-planner/model"
)

func validRangeMode(m model.RangeMode) bool {
	return m == model.RangeWalk || m == model.RangeRange
}

// ValidatePatternConfig checks a spiral configuration. Every violation is
// reported, each wrapping ErrInvalidConfiguration.
func ValidatePatternConfig(cfg model.PatternConfig) error {
	var errs []error
	if cfg.CellSize < 1 {
		errs = append(errs, fmt.Errorf("cell size %d must be at least 1: %w", cfg.CellSize, ErrInvalidConfiguration))
	}
	if cfg.SwarmIndex < 0 {
		errs = append(errs, fmt.Errorf("swarm index %d must not be negative: %w", cfg.SwarmIndex, ErrInvalidConfiguration))
	}
	if cfg.LoopCount < 1 {
		errs = append(errs, fmt.Errorf("loop count %d must be positive: %w", cfg.LoopCount, ErrInvalidConfiguration))
	}
	if !(cfg.Radius > 0) {
		errs = append(errs, fmt.Errorf("radius %v must be positive: %w", cfg.Radius, ErrInvalidConfiguration))
	}
	if !(cfg.StepLength > 0) {
		errs = append(errs, fmt.Errorf("step length %v must be positive: %w", cfg.StepLength, ErrInvalidConfiguration))
	}
	if cfg.StackCount < 1 {
		errs = append(errs, fmt.Errorf("stack count %d must be at least 1: %w", cfg.StackCount, ErrInvalidConfiguration))
	}
	if !validRangeMode(cfg.RangeMode) {
		errs = append(errs, fmt.Errorf("range mode %v: %w", cfg.RangeMode, ErrInvalidConfiguration))
	}
	return errors.Join(errs...)
}

// ValidateLawnmowerConfig checks a coverage configuration.
func ValidateLawnmowerConfig(cfg model.LawnmowerConfig) error {
	var errs []error
	if len(cfg.Boundary) < 3 {
		errs = append(errs, fmt.Errorf("boundary has %d vertices, need at least 3: %w", len(cfg.Boundary), ErrInvalidConfiguration))
	}
	if !(cfg.StepLength > 0) {
		errs = append(errs, fmt.Errorf("step length %v must be positive: %w", cfg.StepLength, ErrInvalidConfiguration))
	}
	if cfg.StackCount < 1 {
		errs = append(errs, fmt.Errorf("stack count %d must be at least 1: %w", cfg.StackCount, ErrInvalidConfiguration))
	}
	if !validRangeMode(cfg.RangeMode) {
		errs = append(errs, fmt.Errorf("range mode %v: %w", cfg.RangeMode, ErrInvalidConfiguration))
	}
	return errors.Join(errs...)
}

// stack builds count layers with build and joins them, reversing every odd
// layer so that consecutive layers meet end to end.
func stack[T any](count int, build func(layer int) ([]T, error)) ([]T, error) {
	var out []T
	for layer := range count {
		pts, err := build(layer)
		if err != nil {
			return nil, fmt.Errorf("stack %d: %w", layer, err)
		}
		if layer%2 == 1 {
			pts = reversed(pts)
		}
		out = append(out, pts...)
	}
	return out, nil
}
