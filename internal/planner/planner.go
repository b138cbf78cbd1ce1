// Package planner turns mission parameters into stored, flight-ready plans.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/search-planner/core"
	"github.com/signalsfoundry/search-planner/internal/logging"
	"github.com/signalsfoundry/search-planner/internal/observability"
	"github.com/signalsfoundry/search-planner/kb"
	"github.com/signalsfoundry/search-planner/model"
)

// ErrUnknownVehicle is returned when a plan is requested for a vehicle the
// registry does not hold.
var ErrUnknownVehicle = errors.New("unknown vehicle")

// SpiralRequest describes an expanding-square search. Config.SwarmIndex is
// taken from the registry, not from the request.
type SpiralRequest struct {
	Config      model.PatternConfig
	Reference   model.GeoPoint
	LocalOrigin model.Point
	// Orientation is held at every waypoint; zero means identity.
	Orientation model.Quaternion
	HoldTime    float64
}

// LawnmowerRequest describes a boundary coverage sweep.
type LawnmowerRequest struct {
	Config   model.LawnmowerConfig
	HoldTime float64
}

// Options configures a Planner.
type Options struct {
	Registry *kb.FleetRegistry
	Metrics  *observability.PlannerCollector
	Logger   logging.Logger
	// Solver answers boundary queries. Defaults to the simplex solver.
	Solver core.BoundarySolver
	// CacheSize bounds the solver cache; <= 0 uses the core default.
	CacheSize int
	Now       func() time.Time
}

// Planner generates search plans for registered vehicles.
type Planner struct {
	registry *kb.FleetRegistry
	metrics  *observability.PlannerCollector
	log      logging.Logger
	solver   *core.CachedSolver
	now      func() time.Time
}

// New builds a Planner. The solver chain is cache, then instrumentation,
// then the LP backend, so metrics count real solves only.
func New(opts Options) (*Planner, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("planner: registry is required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	backend := opts.Solver
	if backend == nil {
		backend = core.NewSimplexSolver()
	}
	cached, err := core.NewCachedSolver(NewInstrumentedSolver(backend, opts.Metrics), opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	return &Planner{
		registry: opts.Registry,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		solver:   cached,
		now:      opts.Now,
	}, nil
}

// Solver exposes the cached solver chain.
func (p *Planner) Solver() *core.CachedSolver { return p.solver }

// PlanSpiral builds, converts and stores a spiral plan for vehicleID.
func (p *Planner) PlanSpiral(ctx context.Context, vehicleID string, req SpiralRequest) (*model.Plan, error) {
	ctx, log := logging.WithMissionLogger(ctx, p.log)
	ctx, span := observability.StartPlanSpan(ctx, "planner.PlanSpiral", vehicleID, string(model.PatternSpiral))
	defer span.End()
	start := p.now()

	plan, err := p.planSpiral(ctx, vehicleID, req)
	p.finish(ctx, log, span, model.PatternSpiral, plan, err, start)
	return plan, err
}

func (p *Planner) planSpiral(ctx context.Context, vehicleID string, req SpiralRequest) (*model.Plan, error) {
	vehicle, err := p.vehicle(vehicleID)
	if err != nil {
		return nil, err
	}
	cfg := req.Config
	cfg.SwarmIndex = vehicle.SwarmIndex
	if cfg.StackCount == 0 {
		cfg.StackCount = 1
	}

	var points []model.Point
	if cfg.StackCount > 1 {
		points, err = core.Build3DSpiralWaypoints(cfg, cfg.StackCount)
	} else {
		points, err = core.BuildSpiralWaypoints(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("spiral for %s: %w", vehicleID, err)
	}

	return p.store(ctx, vehicleID, model.PatternSpiral, req.Reference, req.LocalOrigin,
		withOrientation(points, req.Orientation), req.HoldTime)
}

// PlanLawnmower builds, converts and stores a coverage plan for vehicleID.
func (p *Planner) PlanLawnmower(ctx context.Context, vehicleID string, req LawnmowerRequest) (*model.Plan, error) {
	ctx, log := logging.WithMissionLogger(ctx, p.log)
	ctx, span := observability.StartPlanSpan(ctx, "planner.PlanLawnmower", vehicleID, string(model.PatternLawnmower))
	defer span.End()
	start := p.now()

	plan, err := p.planLawnmower(ctx, log, vehicleID, req)
	p.finish(ctx, log, span, model.PatternLawnmower, plan, err, start)
	return plan, err
}

func (p *Planner) planLawnmower(ctx context.Context, log logging.Logger, vehicleID string, req LawnmowerRequest) (*model.Plan, error) {
	if _, err := p.vehicle(vehicleID); err != nil {
		return nil, err
	}
	cfg := req.Config
	if cfg.StackCount == 0 {
		cfg.StackCount = 1
	}

	var (
		wps   []model.Waypoint
		stats core.LawnmowerStats
		err   error
	)
	if cfg.StackCount > 1 {
		wps, stats, err = core.Build3DLawnmowerWaypointsWithStats(p.solver, cfg, cfg.StackCount)
	} else {
		wps, stats, err = core.BuildLawnmowerWaypointsWithStats(p.solver, cfg)
	}
	p.metrics.SetSolverCacheStats(p.solver.Stats())
	if err != nil {
		return nil, fmt.Errorf("lawnmower for %s: %w", vehicleID, err)
	}
	p.metrics.AddSkippedRows(stats.SkippedRows)
	if stats.SkippedRows > 0 {
		log.Warn(ctx, "coverage rows skipped",
			logging.Int("rows", stats.Rows),
			logging.Int("skipped", stats.SkippedRows),
		)
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("planner.rows", stats.Rows),
		attribute.Int("planner.rows_skipped", stats.SkippedRows),
	)

	return p.store(ctx, vehicleID, model.PatternLawnmower, cfg.Reference, cfg.LocalOrigin, wps, req.HoldTime)
}

func (p *Planner) vehicle(id string) (model.Vehicle, error) {
	v, ok := p.registry.GetVehicle(id)
	if !ok {
		return model.Vehicle{}, fmt.Errorf("%w: %q", ErrUnknownVehicle, id)
	}
	return v, nil
}

func (p *Planner) store(ctx context.Context, vehicleID string, kind model.PatternKind, ref model.GeoPoint, origin model.Point, wps []model.Waypoint, holdTime float64) (*model.Plan, error) {
	if !core.FiniteWaypoints(wps) {
		return nil, fmt.Errorf("%s for %s produced a non-finite waypoint: %w", kind, vehicleID, core.ErrNumericDegenerate)
	}
	items, err := ToMissionItems(origin, ref, wps, holdTime)
	if err != nil {
		return nil, err
	}
	plan := &model.Plan{
		ID:          logging.MissionIDFromContext(ctx),
		VehicleID:   vehicleID,
		Pattern:     kind,
		Reference:   ref,
		LocalOrigin: origin,
		Waypoints:   wps,
		Items:       items,
		CreatedAt:   p.now().UTC(),
	}
	if err := p.registry.StorePlan(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (p *Planner) finish(ctx context.Context, log logging.Logger, span trace.Span, kind model.PatternKind, plan *model.Plan, err error, start time.Time) {
	elapsed := p.now().Sub(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.metrics.ObservePlan(string(kind), planOutcome(err), 0, elapsed)
		log.Error(ctx, "plan failed", logging.String("pattern", string(kind)), logging.Err(err))
		return
	}
	span.SetAttributes(attribute.Int("planner.waypoints", len(plan.Waypoints)))
	p.metrics.ObservePlan(string(kind), observability.OutcomeOK, len(plan.Waypoints), elapsed)
	log.Info(ctx, "plan stored",
		logging.String("pattern", string(kind)),
		logging.String("vehicle_id", plan.VehicleID),
		logging.Int("waypoints", len(plan.Waypoints)),
		logging.Float64("duration_ms", float64(elapsed.Microseconds())/1000),
	)
}

func planOutcome(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidConfiguration), errors.Is(err, ErrUnknownVehicle):
		return observability.OutcomeInvalid
	case errors.Is(err, core.ErrInfeasibleBoundary):
		return observability.OutcomeInfeasible
	default:
		return observability.OutcomeError
	}
}
