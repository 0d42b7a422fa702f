package telemetry

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/slog"
)

// Recorder records traces, metrics and logs for a particular subsystem.
type Recorder struct {
	tracer trace.Tracer
	meter  metric.Meter
	logger *slog.Logger

	errorCount Instrument[int64]
}
