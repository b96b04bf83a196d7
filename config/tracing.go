package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

const defaultOTLPTracesPath = "/v1/traces"

type TracingConfig struct {
	Endpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"http://localhost:4318"`
	SampleRatio float64 `env:"OTEL_TRACES_SAMPLE_RATIO" envDefault:"1"`
}

// SetupTracing installs a global OTLP/HTTP tracer provider when OTEL_TRACES_ENABLED
// is set and returns its shutdown hook; otherwise it returns nil.
func SetupTracing(logger *log.Logger) (func(context.Context) error, error) {
	if !utils.IsTracingEnabled() {
		return nil, nil
	}

	var cfg TracingConfig
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	serviceName := utils.OTelServiceName()

	hostport, urlPath, insecure, err := parseOTLPEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(hostport),
		otlptracehttp.WithURLPath(urlPath),
	}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("setup tracing exporter: %w", err)
	}

	attrs := []attribute.KeyValue{attribute.String("service.name", serviceName)}
	if appEnv := GetAppEnv(); appEnv != "" {
		attrs = append(attrs, attribute.String("deployment.environment", appEnv))
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("setup tracing resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(clampRatio(cfg.SampleRatio)))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Info("OpenTelemetry tracing enabled", "service", serviceName, "endpoint", cfg.Endpoint, "sample_ratio", cfg.SampleRatio)

	return tp.Shutdown, nil
}

func clampRatio(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}

// parseOTLPEndpoint accepts http(s)://host:port[/path] or a bare host:port.
func parseOTLPEndpoint(raw string) (hostport string, urlPath string, insecure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false, fmt.Errorf("empty OTLP endpoint")
	}

	if !strings.Contains(raw, "://") {
		if strings.ContainsAny(raw, "/?#") {
			return "", "", false, fmt.Errorf("invalid OTLP endpoint %q: a path requires a scheme, e.g. \"http://host:port/path\"", raw)
		}
		return raw, defaultOTLPTracesPath, true, nil
	}

	u, parseErr := url.Parse(raw)
	if parseErr != nil {
		return "", "", false, fmt.Errorf("invalid OTLP endpoint %q: %w", raw, parseErr)
	}
	if u.Host == "" {
		return "", "", false, fmt.Errorf("invalid OTLP endpoint %q: missing host", raw)
	}

	switch strings.ToLower(u.Scheme) {
	case "http":
		insecure = true
	case "https":
	default:
		return "", "", false, fmt.Errorf("unsupported OTLP endpoint scheme %q in %q", u.Scheme, raw)
	}

	urlPath = u.EscapedPath()
	if urlPath == "" || urlPath == "/" {
		urlPath = defaultOTLPTracesPath
	}

	return u.Host, urlPath, insecure, nil
}
