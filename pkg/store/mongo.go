package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoDatabase is used when the URI names no database.
const DefaultMongoDatabase = "placer"

// MongoStore keeps documents and runs in two MongoDB collections.
type MongoStore struct {
	client    *mongo.Client
	documents *mongo.Collection
	runs      *mongo.Collection
}

// NewMongoStore connects to uri and uses database db, or
// [DefaultMongoDatabase] when db is empty.
func NewMongoStore(ctx context.Context, uri, db string) (*MongoStore, error) {
	if db == "" {
		db = DefaultMongoDatabase
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	database := client.Database(db)
	s := &MongoStore{
		client:    client,
		documents: database.Collection("documents"),
		runs:      database.Collection("runs"),
	}
	_, err = s.runs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "document_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("create run index: %w", err)
	}
	return s, nil
}

func (s *MongoStore) SaveDocument(ctx context.Context, doc *Document) error {
	stamp(doc, time.Now().UTC().Truncate(time.Millisecond))
	_, err := s.documents.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *MongoStore) GetDocument(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := s.documents.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

func (s *MongoStore) ListDocuments(ctx context.Context) ([]*Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.documents.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	var docs []*Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return docs, nil
}

func (s *MongoStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.documents.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	if _, err := s.runs.DeleteMany(ctx, bson.M{"document_id": id}); err != nil {
		return fmt.Errorf("delete runs: %w", err)
	}
	return nil
}

func (s *MongoStore) SaveRun(ctx context.Context, run *Run) error {
	stampRun(run, time.Now().UTC().Truncate(time.Millisecond))
	if _, err := s.runs.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (s *MongoStore) ListRuns(ctx context.Context, documentID string) ([]*Run, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.runs.Find(ctx, bson.M{"document_id": documentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	var runs []*Run
	if err := cur.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	return runs, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
