package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for solver and plan metrics.
const (
	OutcomeOK         = "ok"
	OutcomeInfeasible = "infeasible"
	OutcomeInvalid    = "invalid"
	OutcomeError      = "error"
)

// PlannerCollector bundles Prometheus metrics for pattern generation and
// the boundary solver.
type PlannerCollector struct {
	gatherer prometheus.Gatherer

	LPSolves        *prometheus.CounterVec
	LPSolveDuration *prometheus.HistogramVec

	Plans              *prometheus.CounterVec
	PlanDuration       *prometheus.HistogramVec
	WaypointsGenerated *prometheus.CounterVec
	RowsSkipped        prometheus.Counter
	SolverCacheRatio   prometheus.Gauge
}

// NewPlannerCollector registers planner metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewPlannerCollector(reg prometheus.Registerer) (*PlannerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	solves, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_lp_solves_total",
		Help: "Boundary LP solves, labeled by queried axis, objective, and outcome.",
	}, []string{"axis", "objective", "outcome"}), "planner_lp_solves_total")
	if err != nil {
		return nil, err
	}

	solveDuration, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_lp_solve_duration_seconds",
		Help:    "Latency of a single boundary LP solve in seconds.",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}, []string{"axis"}), "planner_lp_solve_duration_seconds")
	if err != nil {
		return nil, err
	}

	plans, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_plans_total",
		Help: "Plan requests, labeled by pattern and outcome.",
	}, []string{"pattern", "outcome"}), "planner_plans_total")
	if err != nil {
		return nil, err
	}

	planDuration, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_plan_duration_seconds",
		Help:    "Time to generate a complete plan in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"pattern"}), "planner_plan_duration_seconds")
	if err != nil {
		return nil, err
	}

	waypoints, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_waypoints_generated_total",
		Help: "Waypoints emitted, labeled by pattern.",
	}, []string{"pattern"}), "planner_waypoints_generated_total")
	if err != nil {
		return nil, err
	}

	skipped, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_rows_skipped_total",
		Help: "Coverage rows dropped because the boundary query was infeasible.",
	}), "planner_rows_skipped_total")
	if err != nil {
		return nil, err
	}

	cacheRatio, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planner_solver_cache_hit_ratio",
		Help: "Hit ratio of the boundary solver cache.",
	}), "planner_solver_cache_hit_ratio")
	if err != nil {
		return nil, err
	}

	return &PlannerCollector{
		gatherer:           gatherer,
		LPSolves:           solves,
		LPSolveDuration:    solveDuration,
		Plans:              plans,
		PlanDuration:       planDuration,
		WaypointsGenerated: waypoints,
		RowsSkipped:        skipped,
		SolverCacheRatio:   cacheRatio,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *PlannerCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler exposes a ready-to-use /metrics handler.
func (c *PlannerCollector) Handler() http.Handler {
	gatherer := c.Gatherer()
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current metrics in the Prometheus text format,
// for pickup by a node exporter textfile collector.
func (c *PlannerCollector) WriteTextfile(path string) error {
	gatherer := c.Gatherer()
	if gatherer == nil {
		return fmt.Errorf("no gatherer configured")
	}
	return prometheus.WriteToTextfile(path, gatherer)
}

// ObserveSolve records one LP solve.
func (c *PlannerCollector) ObserveSolve(axis, objective, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	if c.LPSolves != nil {
		c.LPSolves.WithLabelValues(axis, objective, outcome).Inc()
	}
	if c.LPSolveDuration != nil {
		c.LPSolveDuration.WithLabelValues(axis).Observe(d.Seconds())
	}
}

// ObservePlan records a finished plan request.
func (c *PlannerCollector) ObservePlan(pattern, outcome string, waypoints int, d time.Duration) {
	if c == nil {
		return
	}
	if c.Plans != nil {
		c.Plans.WithLabelValues(pattern, outcome).Inc()
	}
	if c.PlanDuration != nil {
		c.PlanDuration.WithLabelValues(pattern).Observe(d.Seconds())
	}
	if c.WaypointsGenerated != nil && waypoints > 0 {
		c.WaypointsGenerated.WithLabelValues(pattern).Add(float64(waypoints))
	}
}

// AddSkippedRows counts coverage rows dropped by the lawnmower generator.
func (c *PlannerCollector) AddSkippedRows(n int) {
	if c == nil || c.RowsSkipped == nil || n <= 0 {
		return
	}
	c.RowsSkipped.Add(float64(n))
}

// SetSolverCacheStats updates the cache hit ratio gauge.
func (c *PlannerCollector) SetSolverCacheStats(hits, misses uint64) {
	if c == nil || c.SolverCacheRatio == nil || hits+misses == 0 {
		return
	}
	c.SolverCacheRatio.Set(float64(hits) / float64(hits+misses))
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
