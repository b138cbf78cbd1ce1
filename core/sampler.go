package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/search-planner/model"
)

// walkEpsilon absorbs round-off in distance/step so that a segment that is
// an exact multiple of the step yields its last point. A point pushed past
// end by it is clamped to end.
const walkEpsilon = 1e-9

// Sample fills the segment from start to end according to mode.
//
// RangeWalk returns floor(|end-start|/stepLength) points spaced stepLength
// apart along the segment, the first one step past start. start is never
// returned and the trailing remainder is dropped, so end itself appears only
// when the length is an exact multiple of the step.
//
// RangeRange returns exactly [end].
//
// A zero-length segment in walk mode returns [end] together with
// ErrNumericDegenerate; callers should keep the point and carry on.
func Sample(mode model.RangeMode, start, end model.Point, stepLength float64) ([]model.Point, error) {
	switch mode {
	case model.RangeRange:
		return []model.Point{end}, nil
	case model.RangeWalk:
	default:
		return nil, fmt.Errorf("range mode %v: %w", mode, ErrInvalidConfiguration)
	}

	if !(stepLength > 0) {
		return nil, fmt.Errorf("step length %v: %w", stepLength, ErrInvalidConfiguration)
	}

	d := distance(start, end)
	if d == 0 {
		return []model.Point{end}, fmt.Errorf("segment at (%.3f, %.3f, %.3f): %w", start.X, start.Y, start.Z, ErrNumericDegenerate)
	}

	n := int(math.Floor(d/stepLength + walkEpsilon))
	ux := (end.X - start.X) / d
	uy := (end.Y - start.Y) / d
	uz := (end.Z - start.Z) / d

	points := make([]model.Point, 0, n)
	for i := 1; i <= n; i++ {
		s := float64(i) * stepLength
		if s >= d {
			points = append(points, end)
			break
		}
		points = append(points, model.Point{
			X: start.X + s*ux,
			Y: start.Y + s*uy,
			Z: start.Z + s*uz,
		})
	}
	return points, nil
}
