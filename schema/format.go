package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"time"
	"unicode/utf8"
)

// TimestampLayout is the canonical ISO-8601 shape for the time field:
// UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in the canonical ISO-8601 shape.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NormalizeTimestamp converts a timestamp-like value into the canonical
// ISO-8601 string. Accepted inputs: an RFC 3339 string, an epoch value in
// milliseconds (int, int64, float64 or json.Number), or a time.Time.
// Feeding a normalized timestamp back in yields the same string.
func NormalizeTimestamp(v any) (string, error) {
	switch t := v.(type) {
	case time.Time:
		return FormatTimestamp(t), nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return "", fmt.Errorf("unparseable timestamp %q: %w", t, err)
		}
		return FormatTimestamp(parsed), nil
	case int:
		return FormatTimestamp(time.UnixMilli(int64(t))), nil
	case int64:
		return FormatTimestamp(time.UnixMilli(t)), nil
	case float64:
		return FormatTimestamp(time.UnixMilli(int64(math.Round(t)))), nil
	case json.Number:
		ms, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return "", fmt.Errorf("unparseable epoch %q: %w", t.String(), ferr)
			}
			ms = int64(math.Round(f))
		}
		return FormatTimestamp(time.UnixMilli(ms)), nil
	default:
		return "", fmt.Errorf("unsupported timestamp type %T", v)
	}
}

// EncodeURIRef percent-encodes s into URI-reference form. Reserved
// characters are escaped ("svc/orders" becomes "svc%2Forders", spaces
// become %20). Strings that cannot be represented even after encoding
// (invalid UTF-8) fail.
func EncodeURIRef(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("not representable as a URI reference: invalid UTF-8")
	}
	enc := url.PathEscape(s)
	if _, err := url.Parse(enc); err != nil {
		return "", fmt.Errorf("not representable as a URI reference: %w", err)
	}
	return enc, nil
}
