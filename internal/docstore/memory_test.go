package docstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Count    int    `json:"count"`
	Category string `json:"category,omitempty"`
}

func TestMemoryStoreCreateIsCreateOnly(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Create(ctx, "users", "u1", sample{Name: "first"}))
	err := store.Create(ctx, "users", "u1", sample{Name: "second"})
	require.ErrorIs(t, err, ErrAlreadyExists)

	doc, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	var got sample
	require.NoError(t, doc.DataTo(&got))
	assert.Equal(t, "first", got.Name)
}

func TestMemoryStoreConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  int
		attempts = 20
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Create(ctx, "users", "same", sample{Name: "x"}); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestMemoryStoreUpdateMergesAndRequiresExisting(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Update(ctx, "events", "missing", map[string]any{"status": "DRAFT"})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "events", "e1", sample{Name: "gala", Status: "DRAFT", Count: 3}))
	require.NoError(t, store.Update(ctx, "events", "e1", map[string]any{"status": "PUBLISHED"}))

	doc, err := store.Get(ctx, "events", "e1")
	require.NoError(t, err)
	var got sample
	require.NoError(t, doc.DataTo(&got))
	assert.Equal(t, sample{Name: "gala", Status: "PUBLISHED", Count: 3}, got)
	assert.False(t, doc.UpdateTime.Before(doc.CreateTime))
}

func TestMemoryStoreDeleteMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.ErrorIs(t, store.Delete(ctx, "events", "nope"), ErrNotFound)

	require.NoError(t, store.Set(ctx, "events", "e1", sample{Name: "a"}))
	require.NoError(t, store.Delete(ctx, "events", "e1"))
	_, err := store.Get(ctx, "events", "e1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreQueryFiltersOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "events", "a", sample{Name: "a", Status: "PUBLISHED", Count: 5}))
	require.NoError(t, store.Set(ctx, "events", "b", sample{Name: "b", Status: "ONGOING", Count: 9}))
	require.NoError(t, store.Set(ctx, "events", "c", sample{Name: "c", Status: "DRAFT", Count: 1}))
	require.NoError(t, store.Set(ctx, "events", "d", map[string]any{"name": "d", "status": "PUBLISHED"}))

	docs, err := store.Query(ctx, "events", Query{
		Filters:    []Filter{In("status", "PUBLISHED", "ONGOING")},
		OrderBy:    "count",
		Descending: true,
	})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, []string{"b", "a", "d"}, ids(docs))

	docs, err = store.Query(ctx, "events", Query{OrderBy: "count", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids(docs))

	docs, err = store.Query(ctx, "events", Query{Filters: []Filter{Eq("count", 5)}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(docs))

	docs, err = store.Query(ctx, "events", Query{Filters: []Filter{Eq("status", "ARCHIVED")}})
	require.NoError(t, err)
	assert.Empty(t, docs)

	n, err := store.Count(ctx, "events", Eq("status", "PUBLISHED"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMemoryStoreNestedFilter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "events", "a", map[string]any{"accountDetails": map[string]any{"role": "treasurer"}}))
	require.NoError(t, store.Set(ctx, "events", "b", map[string]any{"accountDetails": map[string]any{"role": "president"}}))

	docs, err := store.Query(ctx, "events", Query{Filters: []Filter{Eq("accountDetails.role", "president")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(docs))
}

func TestMemoryStoreRejectsNonObject(t *testing.T) {
	store := NewMemoryStore()
	err := store.Set(context.Background(), "events", "a", []string{"x"})
	require.Error(t, err)
}

func TestDocumentFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "misc", "a", map[string]any{"k": "v", "n": 2}))

	doc, err := store.Get(ctx, "misc", "a")
	require.NoError(t, err)
	fields, err := doc.Fields()
	require.NoError(t, err)
	assert.Equal(t, "v", fields["k"])
	assert.Equal(t, float64(2), fields["n"])
}

func ids(docs []*Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}
