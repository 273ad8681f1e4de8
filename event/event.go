// Package event constructs immutable, normalized xorca event envelopes
// from raw candidate records and exposes their derived views: the
// extension-only record, the base CloudEvents projection, and the
// OpenTelemetry attribute set.
package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xorca-lab/xorca-event/schema"
)

// Event is the immutable xorca envelope. All fields are set once during
// construction and read through accessors; there are no setters. A
// "changed" event is always a newly constructed one.
type Event struct {
	id              string
	eventType       string
	source          string
	specVersion     string
	dataContentType string
	subject         string
	time            string
	data            map[string]any

	// Extension fields. nil means explicit null on the wire.
	to             *string
	redirectTo     *string
	traceParent    *string
	traceState     *string
	executionUnits *string
	elapsedTime    *string
}

// NormalizationError reports a schema-passing value that failed a format
// conversion during construction (an unparseable timestamp, a string not
// representable as a URI reference). No partial Event is returned.
type NormalizationError struct {
	Field string
	Value any
	Err   error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s: %v", e.Field, e.Err)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}

type options struct {
	newID func() string
	now   func() time.Time
}

// Option overrides an injected constructor capability.
type Option func(*options)

// WithIDGenerator overrides the id default generator (UUIDv4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// WithClock overrides the time source used when the record omits time.
func WithClock(fn func() time.Time) Option {
	return func(o *options) { o.now = fn }
}

// New normalizes a raw candidate record into an immutable Event. The
// record is expected to have passed schema validation; New applies the
// defaulting and normalization steps only:
//
//	id               caller value, else a fresh UUIDv4
//	time             ISO-8601 conversion, else current time
//	source           percent-encoded
//	datacontenttype  caller value, else the canonical default
//	to, redirectto   percent-encoded when present, else null
//	traceparent, tracestate, executionunits, elapsedtime
//	                 caller value, else null
//	specversion      caller value, else "1.0"
//
// Constructing from an unvalidated record is unsupported: missing
// required fields surface as whatever the conversion step does with an
// absent input, not as a guaranteed-safe result.
func New(raw map[string]any, opts ...Option) (*Event, error) {
	o := options{newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Event{data: recordField(raw, schema.FieldData)}

	var err error
	if e.id, err = stringOrDefault(raw, schema.FieldID, o.newID); err != nil {
		return nil, err
	}
	if e.eventType, err = stringField(raw, schema.FieldType); err != nil {
		return nil, err
	}
	if e.subject, err = stringField(raw, schema.FieldSubject); err != nil {
		return nil, err
	}
	if e.specVersion, err = stringOrDefault(raw, schema.FieldSpecVersion, func() string { return schema.SpecVersion }); err != nil {
		return nil, err
	}
	if e.dataContentType, err = stringOrDefault(raw, schema.FieldDataContentType, func() string { return schema.DefaultContentType }); err != nil {
		return nil, err
	}

	if value, present := raw[schema.FieldTime]; present && value != nil {
		if e.time, err = schema.NormalizeTimestamp(value); err != nil {
			return nil, &NormalizationError{Field: schema.FieldTime, Value: value, Err: err}
		}
	} else {
		e.time = schema.FormatTimestamp(o.now())
	}

	src, err := stringField(raw, schema.FieldSource)
	if err != nil {
		return nil, err
	}
	if e.source, err = schema.EncodeURIRef(src); err != nil {
		return nil, &NormalizationError{Field: schema.FieldSource, Value: src, Err: err}
	}

	if e.to, err = encodedExtension(raw, schema.FieldTo); err != nil {
		return nil, err
	}
	if e.redirectTo, err = encodedExtension(raw, schema.FieldRedirectTo); err != nil {
		return nil, err
	}
	if e.traceParent, err = passthroughExtension(raw, schema.FieldTraceParent); err != nil {
		return nil, err
	}
	if e.traceState, err = passthroughExtension(raw, schema.FieldTraceState); err != nil {
		return nil, err
	}
	if e.executionUnits, err = passthroughExtension(raw, schema.FieldExecutionUnits); err != nil {
		return nil, err
	}
	if e.elapsedTime, err = passthroughExtension(raw, schema.FieldElapsedTime); err != nil {
		return nil, err
	}

	return e, nil
}

// FromRecord validates raw against spec, then constructs the Event. A nil
// spec validates against the canonical event schema. This is the
// supported entry point for untrusted records; validation failures are
// returned unwrapped so callers can inspect field-level detail.
func FromRecord(spec *schema.Spec, raw map[string]any, opts ...Option) (*Event, error) {
	if spec == nil {
		spec = schema.Event()
	}
	if err := spec.Validate(raw); err != nil {
		return nil, err
	}
	return New(raw, opts...)
}

// ID returns the unique event identifier.
func (e *Event) ID() string { return e.id }

// Type returns the event category.
func (e *Event) Type() string { return e.eventType }

// Source returns the percent-encoded producer URI reference.
func (e *Event) Source() string { return e.source }

// SpecVersion returns the CloudEvents spec version, always "1.0".
func (e *Event) SpecVersion() string { return e.specVersion }

// DataContentType returns the payload content type, never empty.
func (e *Event) DataContentType() string { return e.dataContentType }

// Subject returns the event subject.
func (e *Event) Subject() string { return e.subject }

// Time returns the ISO-8601 event timestamp.
func (e *Event) Time() string { return e.time }

// Data returns a shallow copy of the payload record, so callers cannot
// mutate the envelope through the returned map.
func (e *Event) Data() map[string]any {
	return copyRecord(e.data)
}

// To returns the intended recipient, or nil for null.
func (e *Event) To() *string { return e.to }

// RedirectTo returns the forwarding target, or nil for null.
func (e *Event) RedirectTo() *string { return e.redirectTo }

// TraceParent returns the distributed-trace context, or nil for null.
func (e *Event) TraceParent() *string { return e.traceParent }

// TraceState returns the vendor trace state, or nil for null.
func (e *Event) TraceState() *string { return e.traceState }

// ExecutionUnits returns the cost/usage metric, or nil for null.
func (e *Event) ExecutionUnits() *string { return e.executionUnits }

// ElapsedTime returns the duration metric, or nil for null.
func (e *Event) ElapsedTime() *string { return e.elapsedTime }

// stringField reads a plain string field. Absent or null reads as "";
// validated records never hit that path for required fields.
func stringField(raw map[string]any, field string) (string, error) {
	value, present := raw[field]
	if !present || value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", &NormalizationError{Field: field, Value: value, Err: fmt.Errorf("expected string, got %T", value)}
	}
	return s, nil
}

// stringOrDefault reads a string field, substituting the default provider
// for absent, null or empty values.
func stringOrDefault(raw map[string]any, field string, def func() string) (string, error) {
	s, err := stringField(raw, field)
	if err != nil {
		return "", err
	}
	if s == "" {
		return def(), nil
	}
	return s, nil
}

// encodedExtension reads an optional URI-reference extension: present
// values are stored percent-encoded, absent or null reads as nil.
func encodedExtension(raw map[string]any, field string) (*string, error) {
	value, present := raw[field]
	if !present || value == nil {
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, &NormalizationError{Field: field, Value: value, Err: fmt.Errorf("expected string, got %T", value)}
	}
	enc, err := schema.EncodeURIRef(s)
	if err != nil {
		return nil, &NormalizationError{Field: field, Value: s, Err: err}
	}
	return &enc, nil
}

// passthroughExtension reads an optional string extension unmodified.
func passthroughExtension(raw map[string]any, field string) (*string, error) {
	value, present := raw[field]
	if !present || value == nil {
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, &NormalizationError{Field: field, Value: value, Err: fmt.Errorf("expected string, got %T", value)}
	}
	return &s, nil
}

func recordField(raw map[string]any, field string) map[string]any {
	if value, ok := raw[field].(map[string]any); ok {
		return copyRecord(value)
	}
	return nil
}

func copyRecord(record map[string]any) map[string]any {
	if record == nil {
		return nil
	}
	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}
