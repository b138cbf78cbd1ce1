package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/search-planner/internal/config"
	"github.com/signalsfoundry/search-planner/internal/logging"
	"github.com/signalsfoundry/search-planner/internal/observability"
	"github.com/signalsfoundry/search-planner/internal/planner"
	"github.com/signalsfoundry/search-planner/kb"
	"github.com/signalsfoundry/search-planner/model"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// planFlags are shared by the pattern subcommands.
type planFlags struct {
	mission         string
	vehicle         string
	format          string
	out             string
	metricsTextfile string
	stepLength      float64
	altitude        float64
	stacks          int
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "planner",
		Short: "Search and coverage flight planner",
		Long: `Generate waypoint plans for search missions.

Examples:
  planner spiral --mission mission.hujson                  # Expanding-square search
  planner lawnmower --mission field.json --format msgpack  # Boundary coverage sweep
  planner lawnmower --mission field.json --out plan.json --metrics-textfile planner.prom`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	root.AddCommand(newSpiralCmd(), newLawnmowerCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the planner version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "planner %s\n", version)
		},
	}
}

func bindPlanFlags(cmd *cobra.Command, f *planFlags) {
	cmd.Flags().StringVarP(&f.mission, "mission", "m", "", "mission file (.json or .hujson)")
	cmd.Flags().StringVar(&f.vehicle, "vehicle", "", "vehicle ID, overrides the mission file")
	cmd.Flags().StringVarP(&f.format, "format", "f", string(planner.FormatJSON), "plan encoding: json or msgpack")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the plan to this file instead of stdout")
	cmd.Flags().StringVar(&f.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")
	cmd.Flags().Float64Var(&f.stepLength, "step-length", 0, "metres between walked points, overrides the mission file")
	cmd.Flags().Float64Var(&f.altitude, "altitude", 0, "base altitude in metres, overrides the mission file")
	cmd.Flags().IntVar(&f.stacks, "stacks", 0, "number of altitude layers, overrides the mission file")
	_ = cmd.MarkFlagRequired("mission")
}

// session is the wiring for a single planning run.
type session struct {
	mission *config.MissionFile
	vehicle model.Vehicle
	planner *planner.Planner
	metrics *observability.PlannerCollector
	log     logging.Logger
	format  planner.Format
	flags   *planFlags

	shutdownTracing func(context.Context) error
}

func newSession(cmd *cobra.Command, f *planFlags) (_ *session, err error) {
	format, err := planner.ParseFormat(f.format)
	if err != nil {
		return nil, err
	}

	m, err := config.Load(f.mission)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("step-length") {
		m.StepLength = f.stepLength
	}
	if cmd.Flags().Changed("altitude") {
		m.Altitude = f.altitude
	}
	if cmd.Flags().Changed("stacks") {
		m.StackCount = f.stacks
	}
	if f.vehicle != "" {
		m.Vehicle.ID = f.vehicle
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	log := newLogger(cmd.ErrOrStderr())
	ctx := cmd.Context()
	tracingCfg := observability.TracingConfigFromEnv()
	tracingCfg.Writer = cmd.ErrOrStderr()
	tracingCfg.Version = version
	tracingCfg.VehicleID = m.Vehicle.ID
	tracingCfg.SwarmIndex = m.Vehicle.SwarmIndex
	shutdown, err := observability.InitTracing(ctx, tracingCfg, log)
	if err != nil {
		return nil, err
	}
	defer shutdownOnError(ctx, &err, shutdown, log)

	metrics, err := observability.NewPlannerCollector(prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}

	registry := kb.NewFleetRegistry()
	unsubscribe := registry.Subscribe(func(e kb.Event) {
		if e.Type == kb.EventVehicleAdded {
			log.Debug(ctx, "vehicle registered",
				logging.String("vehicle_id", e.Vehicle.ID),
				logging.Int("swarm_index", e.Vehicle.SwarmIndex),
			)
		}
	})
	defer unsubscribe()
	vehicle, err := registry.AddVehicle(model.Vehicle{
		ID:         m.Vehicle.ID,
		Name:       m.Vehicle.Name,
		SwarmIndex: m.Vehicle.SwarmIndex,
		Home:       m.Reference,
	})
	if err != nil {
		return nil, err
	}

	p, err := planner.New(planner.Options{
		Registry: registry,
		Metrics:  metrics,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	return &session{
		mission:         m,
		vehicle:         vehicle,
		planner:         p,
		metrics:         metrics,
		log:             log,
		format:          format,
		flags:           f,
		shutdownTracing: shutdown,
	}, nil
}

// shutdownOnError flushes tracing when setup fails after tracing has
// started. On success the session's finish owns the shutdown.
func shutdownOnError(ctx context.Context, err *error, shutdown func(context.Context) error, log logging.Logger) {
	if *err != nil {
		observability.ShutdownWithTimeout(ctx, shutdown, log)
	}
}

func newLogger(stderr io.Writer) logging.Logger {
	cfg := logging.ConfigFromEnv()
	if cfg.File != "" {
		return logging.New(cfg)
	}
	return logging.NewWithWriter(cfg, stderr)
}

// finish writes the plan and metrics and flushes tracing.
func (s *session) finish(cmd *cobra.Command, plan *model.Plan, planErr error) error {
	ctx := cmd.Context()
	defer observability.ShutdownWithTimeout(ctx, s.shutdownTracing, s.log)

	if s.flags.metricsTextfile != "" {
		if err := s.metrics.WriteTextfile(s.flags.metricsTextfile); err != nil {
			s.log.Warn(ctx, "failed to write metrics textfile",
				logging.String("path", s.flags.metricsTextfile),
				logging.Err(err),
			)
		}
	}
	if planErr != nil {
		return planErr
	}
	return writePlan(cmd.OutOrStdout(), s.flags.out, plan, s.format)
}

func writePlan(stdout io.Writer, path string, plan *model.Plan, format planner.Format) error {
	if path == "" {
		return planner.EncodePlan(stdout, plan, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plan file: %w", err)
	}
	if err := planner.EncodePlan(f, plan, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
