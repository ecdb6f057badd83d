package tracing

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ozzus/club-sanctions/cmd"

type Config struct {
	Service   string
	Env       string
	Collector string
}

// Shutdown flushes buffered spans and stops the exporter.
type Shutdown func(context.Context) error

// Setup installs the global tracer provider exporting to a jaeger collector.
// Without a collector nothing is installed and spans are dropped.
func Setup(cfg Config) (Shutdown, error) {
	if strings.TrimSpace(cfg.Collector) == "" {
		return func(context.Context) error { return nil }, nil
	}

	endpoint, err := collectorURL(cfg.Collector)
	if err != nil {
		return nil, err
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
	if err != nil {
		return nil, fmt.Errorf("jaeger exporter for %s: %w", endpoint, err)
	}

	provider := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.Service),
			semconv.DeploymentEnvironment(cfg.Env),
		)),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}

// StartCommand opens the span for one CLI invocation. Notion requests made
// with the returned context become its children. The returned func ends the
// span and records the command's error, if any.
func StartCommand(ctx context.Context, path string) (context.Context, func(error)) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, path, trace.WithSpanKind(trace.SpanKindInternal))

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// collectorURL accepts host:port or a full URL. A bare host gets the collector's
// HTTP thrift path.
func collectorURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse jaeger collector %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("jaeger collector %q has no host", raw)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/api/traces"
	}
	return u.String(), nil
}
