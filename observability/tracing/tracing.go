// Package tracing builds an OpenTelemetry TracerProvider for the
// graph/reasoning core, grounded on the teacher's own tracing
// initializer (environment-driven sampling, resource attribution,
// otel.SetTracerProvider). Unlike the teacher, this package takes the
// span exporter as a parameter instead of constructing an OTLP/gRPC
// exporter itself: this module's go.mod carries otel's API and SDK but
// no exporter package, so the exporter is the caller's choice (stdout
// for local debugging, OTLP in a real deployment, tracetest in tests).
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Config names the service and its sampling behavior.
type Config struct {
	ServiceName string
	Environment string
	SampleRate  float64 // ignored when Environment == "development" (always-on)
}

// NewProvider builds an sdktrace.TracerProvider exporting through
// exporter, sets it as the global provider, and returns a Tracer scoped
// to cfg.ServiceName.
func NewProvider(ctx context.Context, exporter sdktrace.SpanExporter, cfg Config) (*sdktrace.TracerProvider, trace.Tracer, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "graphreason"
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.environment", cfg.Environment),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("tracing: build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg)),
	)
	otel.SetTracerProvider(tp)

	return tp, tp.Tracer(cfg.ServiceName), nil
}

func samplerFor(cfg Config) sdktrace.Sampler {
	if cfg.Environment == "development" {
		return sdktrace.AlwaysSample()
	}
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 0.1
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
}

// StartStoreTransaction starts one span per Store transaction — the
// instrumentation boundary the spec names explicitly (§5 "a suspension
// point is any Store call").
func StartStoreTransaction(ctx context.Context, tracer trace.Tracer, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "kv.WithTransaction", trace.WithAttributes(attribute.String("op", op)))
}

// StartSatisfiabilityCheck starts one span per CheckSatisfiability call.
func StartSatisfiabilityCheck(ctx context.Context, tracer trace.Tracer, canonicalClass string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "tableaux.CheckSatisfiability", trace.WithAttributes(attribute.String("class", canonicalClass)))
}
