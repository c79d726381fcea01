package obs

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TraceFields returns the zap fields identifying the span in ctx, or nil
// when ctx carries no valid span.
func TraceFields(ctx context.Context) []zap.Field {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	fields := []zap.Field{
		zap.Stringer("trace_id", sc.TraceID()),
		zap.Stringer("span_id", sc.SpanID()),
	}
	if sc.IsRemote() {
		fields = append(fields, zap.Bool("trace_remote", true))
	}
	return fields
}

// WithTrace returns log tagged with the span ids from ctx. A nil log falls
// back to the global logger.
func WithTrace(ctx context.Context, log *zap.Logger) *zap.Logger {
	if log == nil {
		log = zap.L()
	}
	if f := TraceFields(ctx); f != nil {
		return log.With(f...)
	}
	return log
}
