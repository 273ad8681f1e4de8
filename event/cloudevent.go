package event

import (
	"fmt"
	"time"

	ce "github.com/cloudevents/sdk-go/v2/event"
)

// ToCloudEvent converts the envelope into the standard CloudEvents object
// model, the boundary adapter for callers speaking the base specification.
// The spec-mandated attributes come from the full field snapshot; non-null
// xorca extensions carry over as CloudEvents extension attributes.
func (e *Event) ToCloudEvent() (ce.Event, error) {
	out := ce.New(ce.CloudEventsVersionV1)
	out.SetSpecVersion(e.specVersion)
	out.SetID(e.id)
	out.SetType(e.eventType)
	out.SetSource(e.source)
	out.SetSubject(e.subject)

	t, err := time.Parse(time.RFC3339Nano, e.time)
	if err != nil {
		return ce.Event{}, fmt.Errorf("to cloudevent: %w", err)
	}
	out.SetTime(t)

	// The SDK's data codec only knows the plain media types, so encode the
	// payload as JSON and restore the envelope's content type afterwards
	// (SetData overwrites it).
	if err := out.SetData(ce.ApplicationJSON, e.data); err != nil {
		return ce.Event{}, fmt.Errorf("to cloudevent: set data: %w", err)
	}
	out.SetDataContentType(e.dataContentType)

	for name, value := range e.Extensions() {
		if value == nil {
			continue
		}
		out.SetExtension(name, value)
	}

	if err := out.Validate(); err != nil {
		return ce.Event{}, fmt.Errorf("to cloudevent: %w", err)
	}
	return out, nil
}
