package event

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/xorca-lab/xorca-event/schema"
)

func orderCreated() map[string]any {
	return map[string]any{
		"type":    "order.created",
		"source":  "svc/orders",
		"subject": "order-42",
		"data":    map[string]any{"amount": 10},
	}
}

func TestNew_Defaults(t *testing.T) {
	before := time.Now()
	e, err := New(orderCreated())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	after := time.Now()

	id, err := uuid.Parse(e.ID())
	if err != nil {
		t.Fatalf("generated id %q is not a UUID: %v", e.ID(), err)
	}
	if id.Version() != 4 {
		t.Errorf("generated id version = %d, want 4", id.Version())
	}

	if e.SpecVersion() != "1.0" {
		t.Errorf("SpecVersion() = %q, want %q", e.SpecVersion(), "1.0")
	}
	if e.DataContentType() != "application/cloudevents+json; charset=UTF-8; profile=xorca" {
		t.Errorf("DataContentType() = %q", e.DataContentType())
	}

	ts, err := time.Parse(time.RFC3339Nano, e.Time())
	if err != nil {
		t.Fatalf("Time() %q is not ISO-8601: %v", e.Time(), err)
	}
	if ts.Before(before.Add(-time.Second)) || ts.After(after.Add(time.Second)) {
		t.Errorf("Time() = %v, want approximately now", ts)
	}

	if e.To() != nil || e.RedirectTo() != nil || e.TraceParent() != nil ||
		e.TraceState() != nil || e.ExecutionUnits() != nil || e.ElapsedTime() != nil {
		t.Error("unset extensions should all be nil")
	}
}

func TestNew_CallerValuesPreserved(t *testing.T) {
	raw := orderCreated()
	raw["id"] = "evt-explicit"
	raw["time"] = "2026-03-01T12:30:45.123Z"
	raw["datacontenttype"] = "application/json"
	raw["traceparent"] = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	raw["tracestate"] = "vendor=value"
	raw["executionunits"] = "3"
	raw["elapsedtime"] = "120"

	e, err := New(raw)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if e.ID() != "evt-explicit" {
		t.Errorf("ID() = %q, want caller value preserved", e.ID())
	}
	if e.Time() != "2026-03-01T12:30:45.123Z" {
		t.Errorf("Time() = %q, want caller value normalized in place", e.Time())
	}
	if e.DataContentType() != "application/json" {
		t.Errorf("DataContentType() = %q", e.DataContentType())
	}
	if got := e.TraceParent(); got == nil || *got != "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01" {
		t.Errorf("TraceParent() = %v, want pass-through", got)
	}
	if got := e.TraceState(); got == nil || *got != "vendor=value" {
		t.Errorf("TraceState() = %v, want pass-through", got)
	}
	if got := e.ExecutionUnits(); got == nil || *got != "3" {
		t.Errorf("ExecutionUnits() = %v", got)
	}
	if got := e.ElapsedTime(); got == nil || *got != "120" {
		t.Errorf("ElapsedTime() = %v", got)
	}
}

func TestNew_InjectedCapabilities(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	e, err := New(orderCreated(),
		WithIDGenerator(func() string { return "deterministic-id" }),
		WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if e.ID() != "deterministic-id" {
		t.Errorf("ID() = %q", e.ID())
	}
	if e.Time() != "2026-03-01T12:00:00.000Z" {
		t.Errorf("Time() = %q, want fixed clock value", e.Time())
	}
}

func TestNew_Normalization(t *testing.T) {
	raw := orderCreated()
	raw["source"] = "svc name/topic"
	raw["to"] = "svc/billing"
	raw["redirectto"] = "svc/audit log"
	raw["time"] = int64(1700000000000)

	e, err := New(raw)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if e.Source() != "svc%20name%2Ftopic" {
		t.Errorf("Source() = %q, want percent-encoded", e.Source())
	}
	if got := e.To(); got == nil || *got != "svc%2Fbilling" {
		t.Errorf("To() = %v, want percent-encoded", got)
	}
	if got := e.RedirectTo(); got == nil || *got != "svc%2Faudit%20log" {
		t.Errorf("RedirectTo() = %v, want percent-encoded", got)
	}
	if e.Time() != "2023-11-14T22:13:20.000Z" {
		t.Errorf("Time() = %q, want epoch conversion", e.Time())
	}
}

func TestNew_NormalizationErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(map[string]any)
		wantField string
	}{
		{
			name:      "unparseable time string",
			mutate:    func(m map[string]any) { m["time"] = "noonish" },
			wantField: "time",
		},
		{
			name:      "source not URI representable",
			mutate:    func(m map[string]any) { m["source"] = string([]byte{0xff, 0xfe}) },
			wantField: "source",
		},
		{
			name:      "to not URI representable",
			mutate:    func(m map[string]any) { m["to"] = string([]byte{0xff}) },
			wantField: "to",
		},
		{
			name:      "non-string extension",
			mutate:    func(m map[string]any) { m["traceparent"] = 7 },
			wantField: "traceparent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := orderCreated()
			tt.mutate(raw)

			_, err := New(raw)
			var ne *NormalizationError
			if !errors.As(err, &ne) {
				t.Fatalf("New() error = %v, want *NormalizationError", err)
			}
			if ne.Field != tt.wantField {
				t.Errorf("error field = %q, want %q", ne.Field, tt.wantField)
			}
		})
	}
}

func TestNew_Immutability(t *testing.T) {
	e, err := New(orderCreated())
	if err != nil {
		t.Fatal(err)
	}

	// Mutating the input record after construction changes nothing.
	raw := orderCreated()
	e2, err := New(raw)
	if err != nil {
		t.Fatal(err)
	}
	raw["subject"] = "hijacked"
	raw["data"].(map[string]any)["amount"] = 999
	if e2.Subject() != "order-42" {
		t.Errorf("Subject() = %q after input mutation", e2.Subject())
	}
	if e2.Data()["amount"] != 10 {
		t.Errorf("Data()[amount] = %v after input mutation", e2.Data()["amount"])
	}

	// Mutating accessor copies changes nothing.
	e.Data()["amount"] = 999
	if e.Data()["amount"] != 10 {
		t.Errorf("Data()[amount] = %v after view mutation", e.Data()["amount"])
	}
	e.ToJSON()["id"] = "hijacked"
	if e.ToJSON()["id"] == "hijacked" {
		t.Error("ToJSON() snapshot mutation leaked into the event")
	}
}

func TestFromRecord(t *testing.T) {
	t.Run("valid record constructs", func(t *testing.T) {
		e, err := FromRecord(nil, orderCreated())
		if err != nil {
			t.Fatalf("FromRecord() error = %v", err)
		}
		if e.Type() != "order.created" {
			t.Errorf("Type() = %q", e.Type())
		}
	})

	t.Run("invalid record fails validation", func(t *testing.T) {
		raw := orderCreated()
		delete(raw, "subject")

		_, err := FromRecord(nil, raw)
		var ve *schema.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("FromRecord() error = %v, want *schema.ValidationError", err)
		}
		if ve.Field != "subject" {
			t.Errorf("error field = %q, want subject", ve.Field)
		}
	})

	t.Run("variant spec enforced", func(t *testing.T) {
		strict, err := schema.Variant(schema.Event(), "strict", schema.VariantConfig{
			Require: []string{schema.FieldTo},
		})
		if err != nil {
			t.Fatal(err)
		}

		_, err = FromRecord(strict, orderCreated())
		var ve *schema.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("FromRecord() error = %v, want *schema.ValidationError", err)
		}
		if ve.Field != "to" {
			t.Errorf("error field = %q, want to", ve.Field)
		}
	})
}

func TestNew_EndToEndExample(t *testing.T) {
	e, err := New(map[string]any{
		"type":    "order.created",
		"source":  "svc/orders",
		"subject": "order-42",
		"data":    map[string]any{"amount": 10},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if e.SpecVersion() != "1.0" {
		t.Errorf("specversion = %q", e.SpecVersion())
	}
	if e.DataContentType() != schema.DefaultContentType {
		t.Errorf("datacontenttype = %q", e.DataContentType())
	}
	if e.Source() != "svc%2Forders" {
		t.Errorf("source = %q, want svc%%2Forders", e.Source())
	}
	if e.To() != nil || e.RedirectTo() != nil {
		t.Error("to and redirectto should be null")
	}
	if e.ID() == "" {
		t.Error("id should be generated")
	}
	if _, err := time.Parse(time.RFC3339Nano, e.Time()); err != nil {
		t.Errorf("time %q not ISO-8601: %v", e.Time(), err)
	}

	projected := e.CloudEvent()
	for _, name := range e.ExtensionFields() {
		if _, ok := projected[name]; ok {
			t.Errorf("cloudevent view leaked extension %q", name)
		}
	}
}
