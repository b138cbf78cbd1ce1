// Package config loads mission files that parameterise the search patterns.
//
// Mission files are HuJSON: standard JSON that may also carry comments and
// trailing commas. Fields omitted from a file keep their defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/signalsfoundry/search-planner/core"
	"github.com/signalsfoundry/search-planner/model"
	"github.com/tailscale/hujson"
)

// Environment variables that override mission file values.
const (
	EnvStepLength = "PLANNER_STEP_LENGTH"
	EnvAltitude   = "PLANNER_ALTITUDE"
)

const (
	maxFileSize = 1 * 1024 * 1024 // 1MB
	degToRad    = math.Pi / 180
)

// VehicleSection identifies the vehicle a mission is flown by.
type VehicleSection struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	// SwarmIndex < 0 lets the fleet registry pick a slot.
	SwarmIndex int `json:"swarm_index"`
}

// SpiralSection holds the expanding-square parameters.
type SpiralSection struct {
	CellSize  int     `json:"cell_size"`
	LoopCount int     `json:"loop_count"`
	Radius    float64 `json:"radius"`
	YawDeg    float64 `json:"yaw_deg"`
}

// LawnmowerSection holds the coverage sweep parameters.
type LawnmowerSection struct {
	Boundary model.Boundary `json:"boundary"`
	YawDeg   float64        `json:"yaw_deg"`
}

// MissionFile is the root of a mission file.
type MissionFile struct {
	Vehicle     VehicleSection  `json:"vehicle"`
	Reference   model.GeoPoint  `json:"reference"`
	LocalOrigin model.Point     `json:"local_origin"`
	Altitude    float64         `json:"altitude"`
	StepLength  float64         `json:"step_length"`
	RangeMode   model.RangeMode `json:"range_mode"`
	StackCount  int             `json:"stack_count"`
	// HoldTime is the loiter in seconds at each mission item.
	HoldTime float64 `json:"hold_time"`

	Spiral    SpiralSection    `json:"spiral"`
	Lawnmower LawnmowerSection `json:"lawnmower"`
}

// Default returns a mission with every optional field populated.
func Default() *MissionFile {
	return &MissionFile{
		Vehicle:    VehicleSection{ID: "uav-1", SwarmIndex: -1},
		Altitude:   10,
		StepLength: 1,
		RangeMode:  model.RangeWalk,
		StackCount: 1,
		HoldTime:   1,
		Spiral: SpiralSection{
			CellSize:  1,
			LoopCount: 1,
			Radius:    1,
		},
	}
}

// Load reads, parses and validates a mission file. Environment overrides
// are applied after parsing and before validation.
func Load(path string) (*MissionFile, error) {
	cleanPath := filepath.Clean(path)
	switch ext := filepath.Ext(cleanPath); ext {
	case ".json", ".hujson", ".jsonc":
	default:
		return nil, fmt.Errorf("mission file must have .json, .hujson or .jsonc extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat mission file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("mission file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mission file: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	return m, nil
}

// Parse decodes HuJSON mission data over the defaults.
func Parse(data []byte) (*MissionFile, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mission HuJSON: %w", err)
	}

	m := Default()
	if err := json.Unmarshal(std, m); err != nil {
		return nil, fmt.Errorf("failed to decode mission: %w", err)
	}
	if err := m.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mission: %w", err)
	}
	return m, nil
}

// ApplyEnv overrides step length and altitude from the environment.
func (m *MissionFile) ApplyEnv(lookup func(string) (string, bool)) error {
	if raw, ok := lookup(EnvStepLength); ok && raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvStepLength, raw, err)
		}
		m.StepLength = v
	}
	if raw, ok := lookup(EnvAltitude); ok && raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvAltitude, raw, err)
		}
		m.Altitude = v
	}
	return nil
}

// Validate checks fields common to both patterns. Pattern specific checks
// live with the generators and run when a pattern is requested.
func (m *MissionFile) Validate() error {
	var errs []error
	if m.Vehicle.ID == "" {
		errs = append(errs, errors.New("vehicle.id is required"))
	}
	if m.StepLength <= 0 {
		errs = append(errs, fmt.Errorf("step_length must be positive, got %g", m.StepLength))
	}
	if m.StackCount < 1 {
		errs = append(errs, fmt.Errorf("stack_count must be at least 1, got %d", m.StackCount))
	}
	if m.HoldTime < 0 {
		errs = append(errs, fmt.Errorf("hold_time must be non-negative, got %g", m.HoldTime))
	}
	if m.Reference.Latitude < -90 || m.Reference.Latitude > 90 {
		errs = append(errs, fmt.Errorf("reference.latitude out of range: %g", m.Reference.Latitude))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", core.ErrInvalidConfiguration, errors.Join(errs...))
}

// PatternConfig builds the spiral parameters for a vehicle in the given
// swarm slot.
func (m *MissionFile) PatternConfig(swarmIndex int) model.PatternConfig {
	return model.PatternConfig{
		CellSize:   m.Spiral.CellSize,
		SwarmIndex: swarmIndex,
		LoopCount:  m.Spiral.LoopCount,
		Radius:     m.Spiral.Radius,
		Altitude:   m.Altitude,
		StepLength: m.StepLength,
		StackCount: m.StackCount,
		RangeMode:  m.RangeMode,
	}
}

// LawnmowerConfig builds the coverage sweep parameters.
func (m *MissionFile) LawnmowerConfig() model.LawnmowerConfig {
	return model.LawnmowerConfig{
		Boundary:    m.Lawnmower.Boundary,
		LocalOrigin: m.LocalOrigin,
		Reference:   m.Reference,
		Altitude:    m.Altitude,
		StepLength:  m.StepLength,
		Orientation: yawQuaternion(m.Lawnmower.YawDeg),
		RangeMode:   m.RangeMode,
		StackCount:  m.StackCount,
	}
}

// SpiralOrientation is the heading held on every spiral waypoint.
func (m *MissionFile) SpiralOrientation() model.Quaternion {
	return yawQuaternion(m.Spiral.YawDeg)
}

func yawQuaternion(deg float64) model.Quaternion {
	if deg == 0 {
		return core.IdentityQuaternion()
	}
	return core.EulerToQuaternion(0, 0, deg*degToRad)
}
