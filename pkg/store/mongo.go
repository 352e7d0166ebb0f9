package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// MongoStore is a MongoDB-backed spec store for the server.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoRecord is the document shape. The spec itself is stored as its
// canonical JSON so the wire format stays the single source of truth;
// BSON only carries the queryable metadata.
type mongoRecord struct {
	ID        string    `bson:"_id"`
	Kind      string    `bson:"kind"`
	Name      string    `bson:"name"`
	Owner     string    `bson:"owner,omitempty"`
	SpecJSON  []byte    `bson:"spec_json"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and uses the given database's
// "specs" collection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection("specs"),
	}, nil
}

// Get retrieves a record by id. Missing records return nil, nil.
func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find spec: %w", err)
	}
	return fromMongo(doc)
}

// Put upserts a record.
func (s *MongoStore) Put(ctx context.Context, rec *Record) error {
	rec.UpdatedAt = time.Now().UTC()
	doc, err := toMongo(rec)
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert spec: %w", err)
	}
	return nil
}

// Delete removes a record.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete spec: %w", err)
	}
	return nil
}

// List returns records matching the filter, newest first.
func (s *MongoStore) List(ctx context.Context, f Filter) ([]*Record, error) {
	query := bson.M{}
	if f.Kind != "" {
		query["kind"] = string(f.Kind)
	}
	if f.Owner != "" {
		query["owner"] = f.Owner
	}

	cursor, err := s.coll.Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list specs: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*Record
	for cursor.Next(ctx) {
		var doc mongoRecord
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode spec: %w", err)
		}
		rec, err := fromMongo(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, cursor.Err()
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func toMongo(rec *Record) (mongoRecord, error) {
	data, err := spec.Marshal(rec.Spec)
	if err != nil {
		return mongoRecord{}, fmt.Errorf("marshal spec: %w", err)
	}
	return mongoRecord{
		ID:        rec.ID,
		Kind:      string(rec.Kind),
		Name:      rec.Name,
		Owner:     rec.Owner,
		SpecJSON:  data,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func fromMongo(doc mongoRecord) (*Record, error) {
	s, err := spec.Unmarshal(doc.SpecJSON)
	if err != nil {
		return nil, fmt.Errorf("unmarshal spec %s: %w", doc.ID, err)
	}
	return &Record{
		ID:        doc.ID,
		Kind:      spec.Kind(doc.Kind),
		Name:      doc.Name,
		Owner:     doc.Owner,
		Spec:      s,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
