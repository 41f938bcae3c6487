package resource

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// fetchAttrs builds the span attributes for one fetch attempt.
func fetchAttrs(key string, gen uint64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("resource.key", key),
		attribute.Int64("resource.generation", int64(gen)),
	}
}

// recordSpanOutcome records the fetch result on the span: error details
// and status, plus the HTTP status code when the failure carries one.
func recordSpanOutcome(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		span.SetAttributes(attribute.Int("http.status_code", statusErr.Code))
	}
}
