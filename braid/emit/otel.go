package emit

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter implements Emitter by recording each event as an
// already-ended OpenTelemetry span, named after the event's Kind. It is
// meant for point-in-time events (this braid never has long-lived spans to
// keep open across a worker's lifetime, since handlers publish results
// through the result table, not through a span context).
//
// The caller owns tracer-provider setup (exporters, processors); this type
// only touches the tracer API surface, not the SDK.
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter creates an OTelEmitter backed by tracer, typically obtained
// via otel.Tracer("braid").
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit starts and immediately ends a span named event.Kind, carrying Key and
// Meta as attributes and recording an error status if Meta["error"] is set.
func (o *OTelEmitter) Emit(event Event) {
	_, span := o.tracer.Start(context.Background(), event.Kind)
	defer span.End()

	span.SetAttributes(keyAttr(event.Key))
	for k, v := range event.Meta {
		span.SetAttributes(metaAttr(k, v))
	}
	if errMsg, ok := event.Meta["error"].(string); ok {
		span.SetStatus(codes.Error, errMsg)
		span.RecordError(fmt.Errorf("%s", errMsg))
	}
}
