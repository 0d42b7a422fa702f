package config

import (
	"go.opentelemetry.io/otel"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/exp/slog"
)

func (c *Config) finalizeTelemetry() {
	if c.Telemetry.TracerProvider == nil {
		if c.UseEnv {
			c.Telemetry.TracerProvider = otel.GetTracerProvider()
		} else {
			c.Telemetry.TracerProvider = nooptrace.NewTracerProvider()
		}
	}

	if c.Telemetry.MeterProvider == nil {
		if c.UseEnv {
			c.Telemetry.MeterProvider = otel.GetMeterProvider()
		} else {
			c.Telemetry.MeterProvider = noopmetric.NewMeterProvider()
		}
	}

	if c.Telemetry.Logger == nil {
		c.Telemetry.Logger = slog.Default()
	}
}
