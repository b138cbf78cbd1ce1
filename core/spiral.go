package core

import (
	"errors"
	"fmt"

	"github.com/signalsfoundry/search-planner/model"
)

// BuildSpiralWaypoints returns the expanding-square (DDSA) search path for
// cfg at cfg.Altitude. The first point is the vehicle's start slot,
// (-SwarmIndex·Radius, 0); each loop visits four corners one cell further
// out than the last, and the segments between corners are filled by Sample
// in cfg.RangeMode.
//
// SwarmIndex shifts every corner outward by one cell per slot, so vehicles
// flying the same centre stay at least Radius apart on every loop.
func BuildSpiralWaypoints(cfg model.PatternConfig) ([]model.Point, error) {
	if err := ValidatePatternConfig(cfg); err != nil {
		return nil, err
	}
	return buildSpiral(cfg, cfg.Altitude)
}

// Build3DSpiralWaypoints repeats the spiral at stackCount altitudes one
// metre apart, starting at cfg.Altitude. Odd stacks are flown in reverse so
// each stack begins where the previous one ended.
func Build3DSpiralWaypoints(cfg model.PatternConfig, stackCount int) ([]model.Point, error) {
	cfg.StackCount = stackCount
	if err := ValidatePatternConfig(cfg); err != nil {
		return nil, err
	}
	return stack(stackCount, func(layer int) ([]model.Point, error) {
		return buildSpiral(cfg, cfg.Altitude+float64(layer))
	})
}

func buildSpiral(cfg model.PatternConfig, altitude float64) ([]model.Point, error) {
	size := float64(cfg.CellSize)
	index := float64(cfg.SwarmIndex)

	start := model.Point{X: -(index * cfg.Radius), Y: 0, Z: altitude}
	points := []model.Point{start}
	previous := start

	for loop := range cfg.LoopCount {
		l := float64(loop)
		for corner := range 4 {
			xoffset := l*size + index + 1
			yoffset := xoffset
			if corner == 0 {
				xoffset = -size*l - index
			}
			if corner == 2 || corner == 3 {
				yoffset = -yoffset
			}
			if corner == 3 {
				xoffset = -xoffset - (size - 1)
				// close the square on the last loop
				if loop == cfg.LoopCount-1 {
					xoffset += index + 1
				}
			}

			next := model.Point{X: xoffset * cfg.Radius, Y: yoffset * cfg.Radius, Z: altitude}
			segment, err := Sample(cfg.RangeMode, previous, next, cfg.StepLength)
			if err != nil && !errors.Is(err, ErrNumericDegenerate) {
				return nil, fmt.Errorf("loop %d corner %d: %w", loop, corner, err)
			}
			points = append(points, segment...)
			previous = next
		}
	}
	return points, nil
}
