package projector

import (
	"github.com/dogmatiq/projector/internal/config"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/slog"
)

// WithTracerProvider is a [StoreOption] that sets the OpenTelemetry tracer
// provider used by the store.
func WithTracerProvider(p trace.TracerProvider) StoreOption {
	if p == nil {
		panic("tracer provider must not be nil")
	}

	return func(cfg *config.Config) {
		cfg.Telemetry.TracerProvider = p
	}
}

// WithMeterProvider is a [StoreOption] that sets the OpenTelemetry meter
// provider used by the store.
func WithMeterProvider(p metric.MeterProvider) StoreOption {
	if p == nil {
		panic("meter provider must not be nil")
	}

	return func(cfg *config.Config) {
		cfg.Telemetry.MeterProvider = p
	}
}

// WithLogger is a [StoreOption] that sets the logger used by the store.
func WithLogger(l *slog.Logger) StoreOption {
	if l == nil {
		panic("logger must not be nil")
	}

	return func(cfg *config.Config) {
		cfg.Telemetry.Logger = l
	}
}
