package docstore

import (
	"context"
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryDoc struct {
	fields  map[string]any
	created time.Time
	updated time.Time
}

// MemoryStore keeps documents in process memory. Used for development and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*memoryDoc
	now         func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]*memoryDoc),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc.toDocument(id)
}

func (s *MemoryStore) Create(_ context.Context, collection, id string, data any) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collection(collection)
	if _, exists := coll[id]; exists {
		return ErrAlreadyExists
	}
	now := s.now()
	coll[id] = &memoryDoc{fields: fields, created: now, updated: now}
	return nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, data any) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collection(collection)
	now := s.now()
	if existing, ok := coll[id]; ok {
		existing.fields = fields
		existing.updated = now
		return nil
	}
	coll[id] = &memoryDoc{fields: fields, created: now, updated: now}
	return nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, fields map[string]any) error {
	patch, err := decodeFields(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	merged := make(map[string]any, len(doc.fields)+len(patch))
	for k, v := range doc.fields {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	doc.fields = merged
	doc.updated = s.now()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		return ErrNotFound
	}
	if _, ok := coll[id]; !ok {
		return ErrNotFound
	}
	delete(coll, id)
	return nil
}

func (s *MemoryStore) Query(_ context.Context, collection string, q Query) ([]*Document, error) {
	matchers, err := compileFilters(q.Filters)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	type hit struct {
		id  string
		doc *memoryDoc
	}
	hits := make([]hit, 0)
	for id, doc := range s.collections[collection] {
		if matchAll(doc.fields, matchers) {
			hits = append(hits, hit{id: id, doc: doc})
		}
	}
	s.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool { return hits[i].id < hits[j].id })
	if q.OrderBy != "" {
		sort.SliceStable(hits, func(i, j int) bool {
			a, aok := lookup(hits[i].doc.fields, q.OrderBy)
			b, bok := lookup(hits[j].doc.fields, q.OrderBy)
			return lessMissingLast(a, aok, b, bok, q.Descending)
		})
	}
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	out := make([]*Document, 0, len(hits))
	for _, h := range hits {
		doc, err := h.doc.toDocument(h.id)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *MemoryStore) Count(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	docs, err := s.Query(ctx, collection, Query{Filters: filters})
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) collection(name string) map[string]*memoryDoc {
	coll, ok := s.collections[name]
	if !ok {
		coll = make(map[string]*memoryDoc)
		s.collections[name] = coll
	}
	return coll
}

func (d *memoryDoc) toDocument(id string) (*Document, error) {
	raw, err := json.Marshal(d.fields)
	if err != nil {
		return nil, err
	}
	return &Document{ID: id, Data: raw, CreateTime: d.created, UpdateTime: d.updated}, nil
}

func decodeFields(data any) (map[string]any, error) {
	raw, err := encodeObject(data)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

type matcher struct {
	field  string
	values []any
}

func compileFilters(filters []Filter) ([]matcher, error) {
	out := make([]matcher, 0, len(filters))
	for _, f := range filters {
		vals, err := f.values()
		if err != nil {
			return nil, err
		}
		norm := make([]any, 0, len(vals))
		for _, v := range vals {
			n, err := normalize(v)
			if err != nil {
				return nil, err
			}
			norm = append(norm, n)
		}
		out = append(out, matcher{field: f.Field, values: norm})
	}
	return out, nil
}

func matchAll(fields map[string]any, matchers []matcher) bool {
	for _, m := range matchers {
		got, ok := lookup(fields, m.field)
		if !ok {
			return false
		}
		matched := false
		for _, want := range m.values {
			if reflect.DeepEqual(got, want) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func lookup(fields map[string]any, path string) (any, bool) {
	var cur any = fields
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

func lessMissingLast(a any, aok bool, b any, bok bool, desc bool) bool {
	switch {
	case !aok && !bok:
		return false
	case !aok:
		return false
	case !bok:
		return true
	}
	c := compareValues(a, b)
	if desc {
		return c > 0
	}
	return c < 0
}

func compareValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return ra - rb
	}
	switch av := a.(type) {
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case string:
		return strings.Compare(av, b.(string))
	default:
		return 0
	}
}

func typeRank(v any) int {
	switch v.(type) {
	case bool:
		return 1
	case float64:
		return 2
	case string:
		return 3
	default:
		return 4
	}
}
