package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoDoc is the envelope each document is stored in.
type mongoDoc struct {
	ID         string    `bson:"_id"`
	Data       bson.Raw  `bson:"data"`
	CreateTime time.Time `bson:"createTime"`
	UpdateTime time.Time `bson:"updateTime"`
}

// MongoStore maps each collection onto a MongoDB collection of the same name.
type MongoStore struct {
	db  *mongo.Database
	now func() time.Time
}

// NewMongoStore wraps a database handle.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	var doc mongoDoc
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return doc.toDocument()
}

func (s *MongoStore) Create(ctx context.Context, collection, id string, data any) error {
	body, err := toBSON(data)
	if err != nil {
		return err
	}
	now := s.now()
	_, err = s.db.Collection(collection).InsertOne(ctx, bson.D{
		{Key: "_id", Value: id},
		{Key: "data", Value: body},
		{Key: "createTime", Value: now},
		{Key: "updateTime", Value: now},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, data any) error {
	body, err := toBSON(data)
	if err != nil {
		return err
	}
	now := s.now()
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "data", Value: body}, {Key: "updateTime", Value: now}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "createTime", Value: now}}},
	}
	_, err = s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	body, err := toBSON(fields)
	if err != nil {
		return err
	}
	set := make(bson.D, 0, len(body)+1)
	for _, e := range body {
		set = append(set, bson.E{Key: "data." + e.Key, Value: e.Value})
	}
	set = append(set, bson.E{Key: "updateTime", Value: s.now()})

	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Query(ctx context.Context, collection string, q Query) ([]*Document, error) {
	filter, err := mongoFilter(q.Filters)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: "data." + q.OrderBy, Value: dir}, {Key: "_id", Value: 1}})
	} else {
		opts.SetSort(bson.D{{Key: "_id", Value: 1}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	out := make([]*Document, 0)
	for cursor.Next(ctx) {
		var doc mongoDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		d, err := doc.toDocument()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	return out, nil
}

func (s *MongoStore) Count(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	filter, err := mongoFilter(filters)
	if err != nil {
		return 0, err
	}
	n, err := s.db.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (d mongoDoc) toDocument() (*Document, error) {
	data := json.RawMessage("{}")
	if len(d.Data) > 0 {
		raw, err := bson.MarshalExtJSON(d.Data, false, false)
		if err != nil {
			return nil, fmt.Errorf("decode document %s: %w", d.ID, err)
		}
		data = raw
	}
	return &Document{ID: d.ID, Data: data, CreateTime: d.CreateTime, UpdateTime: d.UpdateTime}, nil
}

// toBSON converts a JSON-serializable value into an ordered BSON document.
func toBSON(data any) (bson.D, error) {
	raw, err := encodeObject(data)
	if err != nil {
		return nil, err
	}
	var out bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &out); err != nil {
		return nil, fmt.Errorf("docstore: convert document: %w", err)
	}
	return out, nil
}

func mongoFilter(filters []Filter) (bson.D, error) {
	out := bson.D{}
	for _, f := range filters {
		vals, err := f.values()
		if err != nil {
			return nil, err
		}
		key := "data." + f.Field
		if f.Op == OpEq {
			out = append(out, bson.E{Key: key, Value: vals[0]})
			continue
		}
		out = append(out, bson.E{Key: key, Value: bson.D{{Key: "$in", Value: bson.A(vals)}}})
	}
	return out, nil
}
