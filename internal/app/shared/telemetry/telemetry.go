// Package telemetry ends use case spans and feeds the operation counters.
package telemetry

import (
	"surgame/internal/app/apperr"
	"surgame/internal/app/ports"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Finish records the outcome of operation on span and metrics, then ends the
// span. metrics may be nil.
func Finish(span trace.Span, metrics ports.OperationMetrics, operation string, err error) {
	defer span.End()
	if err == nil {
		if metrics != nil {
			metrics.RecordSuccess(operation)
		}
		return
	}
	span.RecordError(err)
	code, ok := apperr.Code(err)
	if !ok {
		code = apperr.CodeSystem
		span.SetStatus(codes.Error, err.Error())
	}
	if metrics != nil {
		metrics.RecordFailure(operation, code)
	}
}

// Logger returns l, or a no-op logger when l is nil.
func Logger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
