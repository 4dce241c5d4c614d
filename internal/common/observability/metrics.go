package observability

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// Observability owns the otel meter and tracer used by the enrichment pipeline.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider shutdowner
	tracer         trace.Tracer

	enrichCounter  otelmetric.Int64Counter
	enrichDuration otelmetric.Float64Histogram
	stageDuration  otelmetric.Float64Histogram
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// Options configures New.
type Options struct {
	ServiceName    string
	JaegerEndpoint string
	// Registerer is passed to the prometheus exporter; nil means the default registry.
	Registerer promclient.Registerer
}

// New builds the meter provider on a prometheus exporter and, when a jaeger
// endpoint is configured, a batching tracer provider. Failures degrade to
// no-op instruments and are returned for logging.
func New(opts Options) (*Observability, error) {
	o := &Observability{tracer: otel.Tracer(opts.ServiceName)}

	exporterOpts := []prometheus.Option{}
	if opts.Registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(opts.Registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		return o, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	o.meterProvider = provider

	meter := provider.Meter(opts.ServiceName)

	o.enrichCounter, _ = meter.Int64Counter(
		"enrichments.processed",
		otelmetric.WithDescription("Number of lead enrichments processed"),
	)
	o.enrichDuration, _ = meter.Float64Histogram(
		"enrichments.duration",
		otelmetric.WithDescription("End to end enrichment duration"),
		otelmetric.WithUnit("ms"),
	)
	o.stageDuration, _ = meter.Float64Histogram(
		"enrichments.stage.duration",
		otelmetric.WithDescription("Duration of a single pipeline stage"),
		otelmetric.WithUnit("ms"),
	)

	if opts.JaegerEndpoint != "" {
		tp, err := newJaegerProvider(opts.ServiceName, opts.JaegerEndpoint)
		if err != nil {
			return o, err
		}
		otel.SetTracerProvider(tp)
		o.tracerProvider = tp
		o.tracer = tp.Tracer(opts.ServiceName)
	}

	return o, nil
}

// RecordEnrichment counts one enrichment and its duration under status.
func (o *Observability) RecordEnrichment(ctx context.Context, duration time.Duration, status string) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("status", status))
	if o.enrichCounter != nil {
		o.enrichCounter.Add(ctx, 1, attrs)
	}
	if o.enrichDuration != nil {
		o.enrichDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

// RecordStage records the duration of one named pipeline stage.
func (o *Observability) RecordStage(ctx context.Context, stage string, duration time.Duration, err error) {
	if o == nil || o.stageDuration == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.stageDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
