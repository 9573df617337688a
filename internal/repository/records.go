package repository

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// stampLayout is fixed width so stored timestamps order lexicographically.
const stampLayout = "2006-01-02T15:04:05.000Z07:00"

// SchemaVersion is stamped on every record this service writes. Documents
// without it predate the typed mappers and go through legacy normalization.
const SchemaVersion = 2

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// stamp is a timestamp stored as an RFC 3339 UTC string. Zone-less values are
// read as UTC; values that do not parse read as missing.
type stamp struct {
	time.Time
}

func newStamp(t time.Time) *stamp {
	if t.IsZero() {
		return nil
	}
	return &stamp{Time: t.UTC()}
}

func (s *stamp) value() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.Time
}

func (s *stamp) ptr() *time.Time {
	if s == nil || s.IsZero() {
		return nil
	}
	t := s.Time
	return &t
}

func (s stamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.UTC().Format(stampLayout))
}

func (s *stamp) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		s.Time = time.Time{}
		return nil
	}
	s.Time = ParseTimestamp(raw)
	return nil
}

// ParseTimestamp parses the timestamp shapes found in stored documents.
func ParseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// flexInt decodes integers that may have been stored as floats or strings.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		var raw string
		if json.Unmarshal(b, &raw) == nil {
			f, _ = strconv.ParseFloat(strings.TrimSpace(raw), 64)
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	*n = flexInt(f)
	return nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func boolPtr(v bool) *bool {
	return &v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// toFields flattens a record into the top-level map used for merge writes.
func toFields(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func newStampPtr(t *time.Time) *stamp {
	if t == nil {
		return nil
	}
	return newStamp(*t)
}

func normalizeUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
