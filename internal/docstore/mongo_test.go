package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create duplicate maps to already exists", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		store := NewMongoStore(mt.DB)

		err := store.Create(context.Background(), "users", "u1", map[string]any{"name": "a"})
		require.ErrorIs(t, err, ErrAlreadyExists)
	})

	mt.Run("get decodes data envelope", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".events"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "e1"},
			{Key: "data", Value: bson.D{{Key: "title", Value: "Gala"}, {Key: "attendeeCount", Value: int32(4)}}},
		}))
		store := NewMongoStore(mt.DB)

		doc, err := store.Get(context.Background(), "events", "e1")
		require.NoError(t, err)
		fields, err := doc.Fields()
		require.NoError(t, err)
		assert.Equal(t, "e1", doc.ID)
		assert.Equal(t, "Gala", fields["title"])
		assert.Equal(t, float64(4), fields["attendeeCount"])
	})

	mt.Run("get missing maps to not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".events", mtest.FirstBatch))
		store := NewMongoStore(mt.DB)

		_, err := store.Get(context.Background(), "events", "nope")
		require.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("delete missing maps to not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		store := NewMongoStore(mt.DB)

		err := store.Delete(context.Background(), "events", "nope")
		require.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("update missing maps to not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		store := NewMongoStore(mt.DB)

		err := store.Update(context.Background(), "events", "nope", map[string]any{"status": "DRAFT"})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMongoFilter(t *testing.T) {
	filter, err := mongoFilter([]Filter{Eq("status", "DRAFT"), In("category", "Music", "Tech")})
	require.NoError(t, err)

	assert.Equal(t, bson.D{
		{Key: "data.status", Value: "DRAFT"},
		{Key: "data.category", Value: bson.D{{Key: "$in", Value: bson.A{"Music", "Tech"}}}},
	}, filter)
}
