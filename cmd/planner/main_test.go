package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalsfoundry/search-planner/core"
	"github.com/signalsfoundry/search-planner/internal/logging"
	"github.com/signalsfoundry/search-planner/internal/planner"
	"github.com/signalsfoundry/search-planner/model"
)

var testReference = model.GeoPoint{Latitude: 0.5, Longitude: 0.25}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("LOG_FILE", "")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("PLANNER_TRACING_ENABLED", "")
	t.Setenv("PLANNER_STEP_LENGTH", "")
	t.Setenv("PLANNER_ALTITUDE", "")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeMission(t *testing.T) string {
	t.Helper()
	var boundary model.Boundary
	for _, p := range []model.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}} {
		g, err := core.LocalToGeodetic(model.Point{}, testReference, p)
		require.NoError(t, err)
		boundary = append(boundary, g)
	}
	mission := map[string]any{
		"vehicle":     map[string]any{"id": "uav-3", "swarm_index": 1},
		"reference":   testReference,
		"altitude":    20,
		"step_length": 1,
		"range_mode":  "range",
		"spiral":      map[string]any{"cell_size": 1, "loop_count": 2, "radius": 5},
		"lawnmower":   map[string]any{"boundary": boundary},
	}
	data, err := json.MarshalIndent(mission, "", "  ")
	require.NoError(t, err)

	// a comment and trailing comma keep the file HuJSON, not plain JSON
	body := "// generated for tests\n" + strings.Replace(string(data), "\n}", ",\n}", 1)
	path := filepath.Join(t.TempDir(), "mission.hujson")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSpiralCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "spiral", "--mission", writeMission(t))
	require.NoError(t, err)

	plan, err := planner.DecodePlan(strings.NewReader(stdout), planner.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "uav-3", plan.VehicleID)
	assert.Equal(t, model.PatternSpiral, plan.Pattern)
	require.NotEmpty(t, plan.Waypoints)
	// swarm slot 1 at radius 5 starts five metres west of centre
	assert.Equal(t, model.Point{X: -5, Y: 0, Z: 20}, plan.Waypoints[0].Position)
	assert.Len(t, plan.Items, len(plan.Waypoints))
}

func TestLawnmowerCommandWritesFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "plan.msgpack")
	prom := filepath.Join(dir, "planner.prom")

	stdout, _, err := runCLI(t, "lawnmower",
		"--mission", writeMission(t),
		"--format", "msgpack",
		"--out", out,
		"--metrics-textfile", prom,
		"--vehicle", "uav-9",
	)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	plan, err := planner.DecodePlan(f, planner.FormatMsgpack)
	require.NoError(t, err)
	assert.Equal(t, "uav-9", plan.VehicleID)
	assert.Len(t, plan.Waypoints, 20)

	metrics, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `planner_plans_total{outcome="ok",pattern="lawnmower"} 1`)
	assert.Contains(t, string(metrics), "planner_lp_solves_total")
}

func TestFlagsOverrideMission(t *testing.T) {
	stdout, _, err := runCLI(t, "lawnmower", "--mission", writeMission(t), "--altitude", "30", "--stacks", "2")
	require.NoError(t, err)

	plan, err := planner.DecodePlan(strings.NewReader(stdout), planner.FormatJSON)
	require.NoError(t, err)
	require.Len(t, plan.Waypoints, 40)
	assert.Equal(t, 30.0, plan.Waypoints[0].Position.Z)
	assert.Equal(t, 31.0, plan.Waypoints[20].Position.Z)
}

func TestCommandErrors(t *testing.T) {
	mission := writeMission(t)

	_, _, err := runCLI(t, "spiral")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mission")

	_, _, err = runCLI(t, "spiral", "--mission", mission, "--format", "xml")
	require.Error(t, err)

	_, _, err = runCLI(t, "spiral", "--mission", mission, "--step-length", "0")
	require.ErrorIs(t, err, core.ErrInvalidConfiguration)
}

func TestShutdownOnError(t *testing.T) {
	calls := 0
	shutdown := func(context.Context) error {
		calls++
		return nil
	}

	var setupErr error
	shutdownOnError(context.Background(), &setupErr, shutdown, logging.Noop())
	assert.Equal(t, 0, calls, "successful setup must leave shutdown to finish")

	setupErr = errors.New("vehicle with ID \"uav-3\" already exists")
	shutdownOnError(context.Background(), &setupErr, shutdown, logging.Noop())
	assert.Equal(t, 1, calls, "failed setup must flush tracing")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "planner dev\n", stdout)
}
