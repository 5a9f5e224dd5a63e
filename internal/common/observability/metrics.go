package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	invocationCount otelmetric.Int64Counter
	invocationTime  otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	invocationCount, _ := meter.Int64Counter(
		"handlers.invocations",
		otelmetric.WithDescription("Number of handler invocations"),
	)

	invocationTime, _ := meter.Float64Histogram(
		"handlers.duration",
		otelmetric.WithDescription("Handler processing duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		invocationCount: invocationCount,
		invocationTime:  invocationTime,
	}
}

func (o *Observability) RecordInvocation(ctx context.Context, handler, status string) {
	if o.invocationCount != nil {
		o.invocationCount.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("handler", handler),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordDuration(ctx context.Context, handler string, duration time.Duration) {
	if o.invocationTime != nil {
		o.invocationTime.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("handler", handler),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
