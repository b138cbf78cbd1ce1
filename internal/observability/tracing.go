package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/signalsfoundry/search-planner/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// TracerName is the instrumentation scope used by the planner.
const TracerName = "github.com/signalsfoundry/search-planner"

// Span attribute keys shared by every plan span.
const (
	AttrVehicleID = attribute.Key("planner.vehicle_id")
	AttrPattern   = attribute.Key("planner.pattern")
	AttrMissionID = attribute.Key("planner.mission_id")
)

// TracingConfig governs how planner tracing is initialised.
type TracingConfig struct {
	Enabled     bool
	Exporter    string // stdout | otlp
	Endpoint    string // used when Exporter == otlp
	SampleRatio float64

	// Vehicles are always traced, whatever SampleRatio says. A swarm
	// operator uses it to follow one misbehaving vehicle.
	Vehicles []string

	// Resource identity of the run, normally filled from the mission file.
	Version    string
	VehicleID  string
	SwarmIndex int

	// Writer receives spans from the stdout exporter. Defaults to stderr so
	// plans written to stdout stay clean.
	Writer io.Writer
}

// TracingConfigFromEnv reads PLANNER_TRACING_* and PLANNER_OTLP_ENDPOINT.
// A bad sample ratio falls back to 1.
func TracingConfigFromEnv() TracingConfig {
	cfg := TracingConfig{
		Enabled:     strings.EqualFold(os.Getenv("PLANNER_TRACING_ENABLED"), "true"),
		Exporter:    strings.ToLower(os.Getenv("PLANNER_TRACING_EXPORTER")),
		Endpoint:    os.Getenv("PLANNER_OTLP_ENDPOINT"),
		SampleRatio: 1,
	}
	if cfg.Exporter == "" {
		cfg.Exporter = "stdout"
	}
	if raw := os.Getenv("PLANNER_TRACING_SAMPLE_RATIO"); raw != "" {
		if r, err := strconv.ParseFloat(raw, 64); err == nil && r >= 0 && r <= 1 {
			cfg.SampleRatio = r
		}
	}
	for _, v := range strings.Split(os.Getenv("PLANNER_TRACING_VEHICLES"), ",") {
		if v = strings.TrimSpace(v); v != "" {
			cfg.Vehicles = append(cfg.Vehicles, v)
		}
	}
	return cfg
}

// InitTracing installs a global tracer provider built from cfg and returns a
// shutdown function that flushes pending spans. With tracing disabled the
// global provider is left untouched and shutdown is a no-op.
func InitTracing(ctx context.Context, cfg TracingConfig, log logging.Logger) (func(context.Context) error, error) {
	if log == nil {
		log = logging.Noop()
	}
	if !cfg.Enabled {
		log.Debug(ctx, "tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	exp, err := exporterFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(planResource(cfg)...))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	sampler := NewPlanSampler(cfg.SampleRatio, cfg.Vehicles...)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	log.Info(ctx, "tracing enabled",
		logging.String("exporter", cfg.Exporter),
		logging.String("sampler", sampler.Description()),
	)
	return tp.Shutdown, nil
}

func planResource(cfg TracingConfig) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("service.name", "search-planner")}
	if cfg.Version != "" {
		attrs = append(attrs, attribute.String("service.version", cfg.Version))
	}
	if cfg.VehicleID != "" {
		attrs = append(attrs,
			AttrVehicleID.String(cfg.VehicleID),
			attribute.Int("planner.swarm_index", cfg.SwarmIndex),
		)
	}
	return attrs
}

func exporterFromConfig(ctx context.Context, cfg TracingConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "stdout", "":
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		return stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithoutTimestamps())
	case "otlp":
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = "localhost:4317"
		}
		return otlptrace.New(ctx, otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		))
	default:
		return nil, fmt.Errorf("unsupported tracing exporter: %s", cfg.Exporter)
	}
}

// planSampler samples root plan spans of the listed vehicles outright and
// the rest by trace ID ratio. Child spans follow their parent.
type planSampler struct {
	vehicles []string
	ratio    sdktrace.Sampler
}

// NewPlanSampler returns the sampler InitTracing installs.
func NewPlanSampler(ratio float64, vehicles ...string) sdktrace.Sampler {
	return sdktrace.ParentBased(planSampler{
		vehicles: vehicles,
		ratio:    sdktrace.TraceIDRatioBased(ratio),
	})
}

func (s planSampler) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	for _, kv := range p.Attributes {
		if kv.Key == AttrVehicleID && slices.Contains(s.vehicles, kv.Value.AsString()) {
			return sdktrace.SamplingResult{
				Decision:   sdktrace.RecordAndSample,
				Tracestate: trace.SpanContextFromContext(p.ParentContext).TraceState(),
			}
		}
	}
	return s.ratio.ShouldSample(p)
}

func (s planSampler) Description() string {
	if len(s.vehicles) == 0 {
		return s.ratio.Description()
	}
	return fmt.Sprintf("PlanSampler{vehicles=%s,%s}", strings.Join(s.vehicles, "|"), s.ratio.Description())
}

// StartPlanSpan starts the span wrapping one plan request. The mission ID
// is taken from ctx when the mission logger has set one.
func StartPlanSpan(ctx context.Context, name, vehicleID, pattern string, extra ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs := make([]attribute.KeyValue, 0, len(extra)+3)
	attrs = append(attrs, AttrVehicleID.String(vehicleID), AttrPattern.String(pattern))
	if id := logging.MissionIDFromContext(ctx); id != "" {
		attrs = append(attrs, AttrMissionID.String(id))
	}
	attrs = append(attrs, extra...)
	return otel.Tracer(TracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// ShutdownWithTimeout invokes shutdown with a bounded timeout, logging rather
// than returning any error.
func ShutdownWithTimeout(ctx context.Context, shutdown func(context.Context) error, log logging.Logger) {
	if shutdown == nil {
		return
	}
	if log == nil {
		log = logging.Noop()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warn(ctx, "tracing shutdown failed", logging.Err(err))
	}
}
