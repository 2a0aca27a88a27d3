package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// Observability holds the OpenTelemetry meter and tracer for the intake
// services. A nil *Observability is valid and records nothing.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	tracer        trace.Tracer

	submissions otelmetric.Int64Counter
	exports     otelmetric.Int64Counter
	exportRows  otelmetric.Int64Histogram
	opDuration  otelmetric.Float64Histogram
}

// New exports metrics through the default Prometheus registry.
func New(serviceName string) (*Observability, error) {
	return NewWithRegisterer(serviceName, promclient.DefaultRegisterer)
}

func NewWithRegisterer(serviceName string, reg promclient.Registerer) (*Observability, error) {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)
	o := &Observability{
		meterProvider: provider,
		meter:         meter,
		tracer:        otel.Tracer(serviceName),
	}

	if o.submissions, err = meter.Int64Counter(
		"applications.submissions",
		otelmetric.WithDescription("Application submissions by outcome"),
	); err != nil {
		return nil, err
	}
	if o.exports, err = meter.Int64Counter(
		"applications.exports",
		otelmetric.WithDescription("Export and listing requests by outcome"),
	); err != nil {
		return nil, err
	}
	if o.exportRows, err = meter.Int64Histogram(
		"applications.export.rows",
		otelmetric.WithDescription("Records written per export"),
	); err != nil {
		return nil, err
	}
	if o.opDuration, err = meter.Float64Histogram(
		"applications.operation.duration",
		otelmetric.WithDescription("Service operation duration"),
		otelmetric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	return o, nil
}

// StartSpan starts a span on the global tracer provider.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordSubmission(ctx context.Context, status string) {
	if o == nil || o.submissions == nil {
		return
	}
	o.submissions.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("status", status)))
}

func (o *Observability) RecordExport(ctx context.Context, kind, status string, rows int) {
	if o == nil || o.exports == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	)
	o.exports.Add(ctx, 1, attrs)
	if status == "success" {
		o.exportRows.Record(ctx, int64(rows), otelmetric.WithAttributes(attribute.String("kind", kind)))
	}
}

func (o *Observability) RecordOperationDuration(ctx context.Context, operation string, d time.Duration, status string) {
	if o == nil || o.opDuration == nil {
		return
	}
	o.opDuration.Record(ctx, float64(d.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
