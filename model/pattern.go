package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RangeMode selects how a segment between two pattern points is filled.
type RangeMode int

const (
	// RangeWalk subdivides a segment into evenly spaced intermediate points.
	RangeWalk RangeMode = iota + 1
	// RangeRange emits only the end of each segment.
	RangeRange
)

func (m RangeMode) String() string {
	switch m {
	case RangeWalk:
		return "walk"
	case RangeRange:
		return "range"
	default:
		return fmt.Sprintf("RangeMode(%d)", int(m))
	}
}

// ParseRangeMode converts a mode name into a RangeMode.
func ParseRangeMode(value string) (RangeMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "walk":
		return RangeWalk, nil
	case "range":
		return RangeRange, nil
	default:
		return 0, fmt.Errorf("unknown range mode %q", value)
	}
}

// MarshalJSON writes the mode by name.
func (m RangeMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts the mode name.
func (m *RangeMode) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseRangeMode(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// PatternKind names the search pattern a plan was built from.
type PatternKind string

const (
	PatternSpiral    PatternKind = "spiral"
	PatternLawnmower PatternKind = "lawnmower"
)

// PatternConfig parameterises the expanding-square (DDSA) search.
type PatternConfig struct {
	// CellSize is the growth of the square per loop, in radius units.
	CellSize int
	// SwarmIndex is the slot of this vehicle among vehicles flying
	// staggered concentric patterns about the same centre.
	SwarmIndex int
	LoopCount  int
	Radius     float64 // metres per cell unit
	Altitude   float64
	StepLength float64 // metres between walked points
	StackCount int
	RangeMode  RangeMode
}

// LawnmowerConfig parameterises a boundary-clipped coverage sweep.
type LawnmowerConfig struct {
	Boundary    Boundary
	LocalOrigin Point
	Reference   GeoPoint
	Altitude    float64
	// StepLength is both the spacing of walked points and half the
	// pitch between forward rows.
	StepLength  float64
	Orientation Quaternion
	RangeMode   RangeMode
	StackCount  int
}
