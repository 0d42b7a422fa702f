package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/slog"
)

// Span represents a single named and timed operation of a workflow.
type Span struct {
	recorder *Recorder
	ctx      context.Context
	span     trace.Span
	logger   *slog.Logger
}

// StartSpan starts a new span.
func (r *Recorder) StartSpan(
	ctx context.Context,
	name string,
	attrs ...Attr,
) (context.Context, *Span) {
	ctx, span := r.tracer.Start(
		ctx,
		name,
		trace.WithAttributes(asAttrKeyValues(attrs)...),
	)

	loggerArgs := append(
		asLoggerArgs(attrs),
		slog.String("span_name", name),
	)

	sctx := span.SpanContext()
	if sctx.HasTraceID() {
		loggerArgs = append(
			loggerArgs,
			slog.String("trace_id", sctx.TraceID().String()),
		)
	}
	if sctx.HasSpanID() {
		loggerArgs = append(
			loggerArgs,
			slog.String("span_id", sctx.SpanID().String()),
		)
	}

	return ctx, &Span{
		r,
		ctx,
		span,
		r.logger.With(loggerArgs...),
	}
}

// End completes the span.
func (s *Span) End() {
	s.span.End()
}

// SetAttributes sets attributes on the span.
//
// The attributes are also included in any subsequent log messages.
func (s *Span) SetAttributes(attrs ...Attr) {
	s.span.SetAttributes(asAttrKeyValues(attrs)...)

	if args := asLoggerArgs(attrs); len(args) != 0 {
		s.logger = s.logger.With(args...)
	}
}
