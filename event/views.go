package event

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/xorca-lab/xorca-event/schema"
)

// extensionFields is the authoritative ordered list of xorca extension
// names. The base-CloudEvents projection is computed by filtering against
// this list, so core and extension views stay a disjoint, exhaustive
// partition of the envelope.
var extensionFields = []string{
	schema.FieldTo,
	schema.FieldRedirectTo,
	schema.FieldTraceParent,
	schema.FieldTraceState,
	schema.FieldExecutionUnits,
	schema.FieldElapsedTime,
}

// OpenTelemetry attribute keys for the envelope.
const (
	AttrEventID             = "cloudevents.event_id"
	AttrEventSource         = "cloudevents.event_source"
	AttrEventSpecVersion    = "cloudevents.event_spec_version"
	AttrEventSubject        = "cloudevents.event_subject"
	AttrEventType           = "cloudevents.event_type"
	AttrEventRedirectTo     = "cloudevents.xorca.event_redirectto"
	AttrEventTo             = "cloudevents.xorca.event_to"
	AttrEventExecutionUnits = "cloudevents.xorca.event_executionunits"
	AttrEventElapsedTime    = "cloudevents.xorca.event_elapsedtime"
)

// ExtensionFields returns the ordered xorca extension-field names.
func (e *Event) ExtensionFields() []string {
	return append([]string(nil), extensionFields...)
}

// Extensions returns a record holding exactly the six extension fields,
// values as stored. Unset fields appear with an explicit nil value.
func (e *Event) Extensions() map[string]any {
	return map[string]any{
		schema.FieldTo:             nullable(e.to),
		schema.FieldRedirectTo:     nullable(e.redirectTo),
		schema.FieldTraceParent:    nullable(e.traceParent),
		schema.FieldTraceState:     nullable(e.traceState),
		schema.FieldExecutionUnits: nullable(e.executionUnits),
		schema.FieldElapsedTime:    nullable(e.elapsedTime),
	}
}

// CloudEvent returns the base-specification projection: every envelope
// field except the extension fields.
func (e *Event) CloudEvent() map[string]any {
	snapshot := e.ToJSON()
	for _, field := range extensionFields {
		delete(snapshot, field)
	}
	return snapshot
}

// OpenTelemetryAttributes returns the envelope as a flat tracing
// attribute set. Null extension values map to empty strings, never to a
// "null" literal.
func (e *Event) OpenTelemetryAttributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrEventID, e.id),
		attribute.String(AttrEventSource, e.source),
		attribute.String(AttrEventSpecVersion, e.specVersion),
		attribute.String(AttrEventSubject, e.subject),
		attribute.String(AttrEventType, e.eventType),
		attribute.String(AttrEventRedirectTo, orEmpty(e.redirectTo)),
		attribute.String(AttrEventTo, orEmpty(e.to)),
		attribute.String(AttrEventExecutionUnits, orEmpty(e.executionUnits)),
		attribute.String(AttrEventElapsedTime, orEmpty(e.elapsedTime)),
	}
}

// nullable widens *string into the any-typed view value: nil stays nil so
// it serializes as an explicit JSON null.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
