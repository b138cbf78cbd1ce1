package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/signalsfoundry/search-planner/model"
)

// LawnmowerStats describes how a coverage pattern was built.
type LawnmowerStats struct {
	Rows        int // row queries attempted, forward and return
	SkippedRows int // rows dropped because the boundary query was infeasible
}

// BuildLawnmowerWaypoints returns a boundary-clipped back-and-forth sweep at
// cfg.Altitude. Rows run along x; each iteration flies a forward row at y
// and a return row at y+StepLength, so forward rows are 2·StepLength apart.
// Row ends come from solver; a row whose ends cannot be solved is skipped.
// A boundary shorter than one metre in y, or one that encloses no area,
// produces no rows and no error.
func BuildLawnmowerWaypoints(solver BoundarySolver, cfg model.LawnmowerConfig) ([]model.Waypoint, error) {
	wps, _, err := BuildLawnmowerWaypointsWithStats(solver, cfg)
	return wps, err
}

// BuildLawnmowerWaypointsWithStats is BuildLawnmowerWaypoints that also
// reports row accounting.
func BuildLawnmowerWaypointsWithStats(solver BoundarySolver, cfg model.LawnmowerConfig) ([]model.Waypoint, LawnmowerStats, error) {
	if solver == nil {
		return nil, LawnmowerStats{}, fmt.Errorf("lawnmower: solver is nil: %w", ErrInvalidConfiguration)
	}
	if err := ValidateLawnmowerConfig(cfg); err != nil {
		return nil, LawnmowerStats{}, err
	}
	return buildLawnmower(solver, cfg, cfg.Altitude)
}

// Build3DLawnmowerWaypoints repeats the sweep at stackCount altitudes one
// metre apart, reversing odd stacks.
func Build3DLawnmowerWaypoints(solver BoundarySolver, cfg model.LawnmowerConfig, stackCount int) ([]model.Waypoint, error) {
	wps, _, err := Build3DLawnmowerWaypointsWithStats(solver, cfg, stackCount)
	return wps, err
}

// Build3DLawnmowerWaypointsWithStats is Build3DLawnmowerWaypoints with row
// accounting summed over all stacks.
func Build3DLawnmowerWaypointsWithStats(solver BoundarySolver, cfg model.LawnmowerConfig, stackCount int) ([]model.Waypoint, LawnmowerStats, error) {
	if solver == nil {
		return nil, LawnmowerStats{}, fmt.Errorf("lawnmower: solver is nil: %w", ErrInvalidConfiguration)
	}
	cfg.StackCount = stackCount
	if err := ValidateLawnmowerConfig(cfg); err != nil {
		return nil, LawnmowerStats{}, err
	}
	var total LawnmowerStats
	wps, err := stack(stackCount, func(layer int) ([]model.Waypoint, error) {
		wps, st, err := buildLawnmower(solver, cfg, cfg.Altitude+float64(layer))
		total.Rows += st.Rows
		total.SkippedRows += st.SkippedRows
		return wps, err
	})
	if err != nil {
		return nil, total, err
	}
	return wps, total, nil
}

// rowExtent solves both ends of the row at y.
func rowExtent(solver BoundarySolver, boundary []model.Point, y float64) (minX, maxX float64, err error) {
	if minX, err = solver.ExtremeX(boundary, y, Minimize); err != nil {
		return 0, 0, err
	}
	if maxX, err = solver.ExtremeX(boundary, y, Maximize); err != nil {
		return 0, 0, err
	}
	return minX, maxX, nil
}

// columnExtent solves the lowest and highest y of the region.
func columnExtent(solver BoundarySolver, boundary []model.Point) (minY, maxY float64, err error) {
	if minY, err = solver.ExtremeY(boundary, Minimize); err != nil {
		return 0, 0, err
	}
	if maxY, err = solver.ExtremeY(boundary, Maximize); err != nil {
		return 0, 0, err
	}
	return minY, maxY, nil
}

func buildLawnmower(solver BoundarySolver, cfg model.LawnmowerConfig, altitude float64) ([]model.Waypoint, LawnmowerStats, error) {
	var stats LawnmowerStats
	boundary := BoundaryToLocal(cfg.LocalOrigin, cfg.Reference, cfg.Boundary)

	minY, maxY, err := columnExtent(solver, boundary)
	if errors.Is(err, ErrInfeasibleBoundary) {
		// Collinear or otherwise empty boundary: nothing to cover.
		return nil, stats, nil
	}
	if err != nil {
		return nil, stats, fmt.Errorf("lawnmower: %w", err)
	}

	step := cfg.StepLength
	direction := 1.0
	if !(minY < maxY) {
		direction = -1
	}

	var wps []model.Waypoint
	emit := func(p model.Point) {
		wps = append(wps, model.Waypoint{Position: p, Orientation: cfg.Orientation})
	}
	sweep := func(from, to model.Point) error {
		pts, err := Sample(cfg.RangeMode, from, to, step)
		if err != nil && !errors.Is(err, ErrNumericDegenerate) {
			return err
		}
		for _, p := range pts {
			emit(p)
		}
		return nil
	}
	// skip reports whether err only rules out the current row.
	skip := func(err error) (bool, error) {
		if errors.Is(err, ErrInfeasibleBoundary) {
			stats.SkippedRows++
			return true, nil
		}
		return false, err
	}

	first := math.Ceil(minY)
	last := math.Floor(maxY)
	for i := 0; ; i++ {
		y := first + float64(i)*2*step
		if y >= last {
			break
		}

		stats.Rows++
		minX, maxX, err := rowExtent(solver, boundary, y)
		if err != nil {
			if ok, err := skip(err); !ok {
				return nil, stats, fmt.Errorf("lawnmower row y=%.3f: %w", y, err)
			}
		} else {
			emit(model.Point{X: minX, Y: y, Z: altitude})
			if err := sweep(model.Point{X: minX, Y: y, Z: altitude}, model.Point{X: maxX, Y: y, Z: altitude}); err != nil {
				return nil, stats, fmt.Errorf("lawnmower row y=%.3f: %w", y, err)
			}
		}

		stats.Rows++
		back := y + step
		minX, maxX, err = rowExtent(solver, boundary, back)
		if err != nil {
			if ok, err := skip(err); !ok {
				return nil, stats, fmt.Errorf("lawnmower row y=%.3f: %w", back, err)
			}
			continue
		}
		emit(model.Point{X: maxX, Y: back, Z: altitude})
		sweepY := y + direction*step
		if err := sweep(model.Point{X: maxX, Y: sweepY, Z: altitude}, model.Point{X: minX, Y: sweepY, Z: altitude}); err != nil {
			return nil, stats, fmt.Errorf("lawnmower row y=%.3f: %w", back, err)
		}
	}
	return wps, stats, nil
}
