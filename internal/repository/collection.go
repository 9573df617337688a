package repository

import (
	"context"
	"strings"

	"github.com/campus-aura/backend/internal/docstore"
)

// collection adapts a docstore collection to a typed entity through a record
// type R and a pair of mapping functions.
type collection[T any, R any] struct {
	store    docstore.Store
	name     string
	toRecord func(*T) *R
	toDomain func(id string, r *R, doc *docstore.Document) *T
}

func (c *collection[T, R]) get(ctx context.Context, id string) (*T, error) {
	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return nil, err
	}
	return c.decode(doc)
}

func (c *collection[T, R]) create(ctx context.Context, id string, entity *T) error {
	return c.store.Create(ctx, c.name, id, c.toRecord(entity))
}

// merge writes every record field onto the stored document, keeping unknown
// fields. Fails with docstore.ErrNotFound when the document is gone.
func (c *collection[T, R]) merge(ctx context.Context, id string, entity *T) error {
	fields, err := toFields(c.toRecord(entity))
	if err != nil {
		return err
	}
	return c.store.Update(ctx, c.name, id, fields)
}

func (c *collection[T, R]) patch(ctx context.Context, id string, fields map[string]any) error {
	fields["schemaVersion"] = SchemaVersion
	return c.store.Update(ctx, c.name, id, fields)
}

func (c *collection[T, R]) delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}

func (c *collection[T, R]) find(ctx context.Context, q docstore.Query) ([]*T, error) {
	docs, err := c.store.Query(ctx, c.name, q)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		entity, err := c.decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

func (c *collection[T, R]) count(ctx context.Context, filters ...docstore.Filter) (int64, error) {
	return c.store.Count(ctx, c.name, filters...)
}

func (c *collection[T, R]) decode(doc *docstore.Document) (*T, error) {
	var record R
	if err := doc.DataTo(&record); err != nil {
		return nil, err
	}
	return c.toDomain(doc.ID, &record, doc), nil
}

// statusValues matches both the canonical and the lower-cased legacy spelling.
func statusValues(status string) docstore.Filter {
	return docstore.In("status", status, strings.ToLower(status))
}
