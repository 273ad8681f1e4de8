package event

import (
	"encoding/json"

	"github.com/xorca-lab/xorca-event/schema"
)

// ToJSON returns a plain snapshot of all fourteen wire fields, lowercase
// names, unset extensions as explicit nulls. The returned map is a copy;
// mutating it does not affect the Event.
func (e *Event) ToJSON() map[string]any {
	return map[string]any{
		schema.FieldID:              e.id,
		schema.FieldType:            e.eventType,
		schema.FieldSource:          e.source,
		schema.FieldSpecVersion:     e.specVersion,
		schema.FieldDataContentType: e.dataContentType,
		schema.FieldSubject:         e.subject,
		schema.FieldTime:            e.time,
		schema.FieldData:            copyRecord(e.data),
		schema.FieldTo:              nullable(e.to),
		schema.FieldRedirectTo:      nullable(e.redirectTo),
		schema.FieldTraceParent:     nullable(e.traceParent),
		schema.FieldTraceState:      nullable(e.traceState),
		schema.FieldExecutionUnits:  nullable(e.executionUnits),
		schema.FieldElapsedTime:     nullable(e.elapsedTime),
	}
}

// MarshalJSON encodes the ToJSON snapshot.
func (e *Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToJSON())
}

// String returns the JSON-encoded snapshot.
func (e *Event) String() string {
	b, err := json.Marshal(e.ToJSON())
	if err != nil {
		return "{}"
	}
	return string(b)
}
