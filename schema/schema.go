// Package schema declares the structural contract for xorca event
// envelopes: a declarative field table (required flag, kind tag, default
// provider) interpreted by a generic validation routine, plus a pure
// generator for stricter or narrower schema variants.
package schema

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SpecVersion is the only CloudEvents spec version xorca events carry.
	SpecVersion = "1.0"

	// DefaultContentType is applied when a candidate record omits
	// datacontenttype.
	DefaultContentType = "application/cloudevents+json; charset=UTF-8; profile=xorca"
)

// Kind is the type tag dispatched on by the generic validator.
type Kind string

const (
	// KindString accepts any string value.
	KindString Kind = "string"

	// KindRecord accepts a keyed record (map[string]any) of arbitrary shape.
	KindRecord Kind = "record"

	// KindTimestamp accepts a timestamp-like value: an ISO-8601 string,
	// an epoch-milliseconds number, or a time.Time.
	KindTimestamp Kind = "timestamp"

	// KindURIRef accepts a string representable as a URI reference after
	// percent-encoding.
	KindURIRef Kind = "urireference"
)

// Field declares the contract for a single envelope field.
type Field struct {
	// Kind selects the format check applied to present values.
	Kind Kind

	// Required rejects records where the field is absent or null.
	Required bool

	// Nullable accepts an explicit null for an optional field.
	Nullable bool

	// Default, when non-nil, provides the value the constructor applies
	// for an absent field. Validation never invokes it.
	Default func() any
}

// Spec is an ordered field table. Order drives deterministic validation
// and error reporting; Fields holds the per-field contracts.
type Spec struct {
	Name   string
	Order  []string
	Fields map[string]Field
}

// Envelope field names, in canonical wire order.
const (
	FieldID              = "id"
	FieldType            = "type"
	FieldSource          = "source"
	FieldSpecVersion     = "specversion"
	FieldDataContentType = "datacontenttype"
	FieldSubject         = "subject"
	FieldTime            = "time"
	FieldData            = "data"
	FieldTo              = "to"
	FieldRedirectTo      = "redirectto"
	FieldTraceParent     = "traceparent"
	FieldTraceState      = "tracestate"
	FieldExecutionUnits  = "executionunits"
	FieldElapsedTime     = "elapsedtime"
)

// Event returns the canonical xorca event schema. Each call builds a
// fresh table, so callers and the variant generator may derive from it
// without coordinating.
func Event() *Spec {
	return &Spec{
		Name: "xorca.event",
		Order: []string{
			FieldID, FieldType, FieldSource, FieldSpecVersion,
			FieldDataContentType, FieldSubject, FieldTime, FieldData,
			FieldTo, FieldRedirectTo, FieldTraceParent, FieldTraceState,
			FieldExecutionUnits, FieldElapsedTime,
		},
		Fields: map[string]Field{
			FieldID:              {Kind: KindString, Default: func() any { return uuid.NewString() }},
			FieldType:            {Kind: KindString, Required: true},
			FieldSource:          {Kind: KindURIRef, Required: true},
			FieldSpecVersion:     {Kind: KindString, Default: func() any { return SpecVersion }},
			FieldDataContentType: {Kind: KindString, Default: func() any { return DefaultContentType }},
			FieldSubject:         {Kind: KindString, Required: true},
			FieldTime:            {Kind: KindTimestamp, Default: func() any { return FormatTimestamp(time.Now()) }},
			FieldData:            {Kind: KindRecord, Required: true},
			FieldTo:              {Kind: KindURIRef, Nullable: true},
			FieldRedirectTo:      {Kind: KindURIRef, Nullable: true},
			FieldTraceParent:     {Kind: KindString, Nullable: true},
			FieldTraceState:      {Kind: KindString, Nullable: true},
			FieldExecutionUnits:  {Kind: KindString, Nullable: true},
			FieldElapsedTime:     {Kind: KindString, Nullable: true},
		},
	}
}

// clone returns a deep copy of the spec's table. Field values are copied
// by assignment; Default providers are shared, which is safe because they
// are pure.
func (s *Spec) clone() *Spec {
	out := &Spec{
		Name:   s.Name,
		Order:  append([]string(nil), s.Order...),
		Fields: make(map[string]Field, len(s.Fields)),
	}
	for name, f := range s.Fields {
		out.Fields[name] = f
	}
	return out
}
