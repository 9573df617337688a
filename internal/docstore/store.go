// Package docstore is a small document database abstraction: JSON documents
// keyed by id inside named collections, with create-only, upsert and merge
// writes plus equality and membership queries.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrAlreadyExists is returned by Create when the id is taken.
	ErrAlreadyExists = errors.New("docstore: document already exists")
)

// Store is implemented by every backend.
type Store interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Create writes the document only if the id is free.
	Create(ctx context.Context, collection, id string, data any) error
	// Set replaces the document, creating it when missing.
	Set(ctx context.Context, collection, id string, data any) error
	// Update merges top-level fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, q Query) ([]*Document, error)
	Count(ctx context.Context, collection string, filters ...Filter) (int64, error)
	Ping(ctx context.Context) error
}

// Document is a stored JSON object.
type Document struct {
	ID         string
	Data       json.RawMessage
	CreateTime time.Time
	UpdateTime time.Time
}

// DataTo decodes the document body into v.
func (d *Document) DataTo(v any) error {
	if d == nil {
		return ErrNotFound
	}
	return json.Unmarshal(d.Data, v)
}

// Fields decodes the document body into a generic map.
func (d *Document) Fields() (map[string]any, error) {
	out := map[string]any{}
	if d == nil || len(d.Data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(d.Data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Operator is a filter comparison.
type Operator string

const (
	OpEq Operator = "=="
	OpIn Operator = "in"
)

// Filter restricts a query to documents whose Field matches Value.
// Field may use dots to address nested objects.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Eq matches documents where field equals value.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// In matches documents where field equals any of values.
func In[T any](field string, values ...T) Filter {
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return Filter{Field: field, Op: OpIn, Value: vals}
}

// Query describes a filtered, optionally ordered and limited read.
// Documents missing the OrderBy field sort last.
type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

func (f Filter) values() ([]any, error) {
	switch f.Op {
	case OpEq:
		return []any{f.Value}, nil
	case OpIn:
		vals, ok := f.Value.([]any)
		if !ok {
			return nil, fmt.Errorf("docstore: filter %q: in requires a list", f.Field)
		}
		return vals, nil
	default:
		return nil, fmt.Errorf("docstore: unsupported operator %q", f.Op)
	}
}

// encodeObject marshals data and ensures it is a JSON object.
func encodeObject(data any) (json.RawMessage, error) {
	if raw, ok := data.(json.RawMessage); ok {
		data = []byte(raw)
	}
	var raw []byte
	switch v := data.(type) {
	case []byte:
		raw = v
	default:
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("docstore: encode document: %w", err)
		}
		raw = b
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("docstore: document must be a JSON object")
	}
	return json.RawMessage(trimmed), nil
}

// normalize round-trips v through JSON so it compares equal to decoded
// document values.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
