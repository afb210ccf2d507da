package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/funnel/pkg/io"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "funnel"
	DefaultMongoCollection = "sessions"
)

// mongoRecord is the stored form of a Session. The document is kept as JSON
// so its field names match the import format.
type mongoRecord struct {
	ID        string    `bson:"_id"`
	Document  []byte    `bson:"document"`
	Width     float64   `bson:"width"`
	Height    float64   `bson:"height"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// MongoStore stores sessions in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses database.collection. Empty names
// fall back to DefaultMongoDatabase and DefaultMongoCollection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Session, error) {
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	sess := &Session{
		ID:        rec.ID,
		Width:     rec.Width,
		Height:    rec.Height,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}
	if sess.IsExpired(time.Now()) {
		return nil, nil
	}
	doc := io.NewDocument()
	if err := json.Unmarshal(rec.Document, doc); err != nil {
		return nil, fmt.Errorf("parse session document: %w", err)
	}
	sess.Document = doc
	return sess, nil
}

func (s *MongoStore) Set(ctx context.Context, sess *Session) error {
	doc, err := json.Marshal(sess.Document)
	if err != nil {
		return fmt.Errorf("marshal session document: %w", err)
	}
	rec := mongoRecord{
		ID:        sess.ID,
		Document:  doc,
		Width:     sess.Width,
		Height:    sess.Height,
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": sess.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *MongoStore) Cleanup(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now()}})
	if err != nil {
		return fmt.Errorf("cleanup sessions: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
