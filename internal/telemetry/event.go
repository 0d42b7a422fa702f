package telemetry

import (
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/slog"
)

// Debug logs a debug-level event.
func (s *Span) Debug(message string, attrs ...Attr) {
	s.log(slog.LevelDebug, message, attrs)
}

// Error logs an error-level event.
//
// It marks the span as an error and increments the "errors" metric.
func (s *Span) Error(message string, err error, attrs ...Attr) {
	s.span.SetStatus(codes.Error, err.Error())
	s.span.RecordError(err, trace.WithAttributes(asAttrKeyValues(attrs)...))
	s.recorder.errorCount(s.ctx, 1)

	if !s.logger.Enabled(s.ctx, slog.LevelError) {
		return
	}

	s.logger.Log(
		s.ctx,
		slog.LevelError,
		message,
		append(
			asLoggerArgs(attrs),
			slog.String("error", err.Error()),
		)...,
	)
}

func (s *Span) log(level slog.Level, message string, attrs []Attr) {
	if !s.logger.Enabled(s.ctx, level) {
		return
	}

	s.span.AddEvent(
		message,
		trace.WithAttributes(asAttrKeyValues(attrs)...),
	)

	s.logger.Log(
		s.ctx,
		level,
		message,
		asLoggerArgs(attrs)...,
	)
}
