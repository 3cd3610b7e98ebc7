// Package telemetry sets up tracing and error reporting. Both are optional:
// with no endpoint or DSN configured every call here is a no-op.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/emilythestrangee/yatube/internal/logger"
)

// ShutdownFunc flushes and stops a provider.
type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// InitTracer installs a global OTLP/HTTP tracer provider. endpoint is a full
// URL such as http://localhost:4318; empty disables tracing.
func InitTracer(ctx context.Context, serviceName, endpoint string) (ShutdownFunc, error) {
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, fmt.Errorf("otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("tracing enabled", zap.String("endpoint", endpoint), zap.String("service", serviceName))
	return tp.Shutdown, nil
}
