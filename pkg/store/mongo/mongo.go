// Package mongo stores computed layouts as MongoDB documents.
//
// Each [graph.Layout] is one document keyed by its ID. The HTTP API uses
// the store to serve GET /v1/layouts/{id} for layouts computed earlier.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/hiveplot/pkg/cache"
	herrors "github.com/matzehuels/hiveplot/pkg/errors"
	"github.com/matzehuels/hiveplot/pkg/graph"
)

// DefaultCollection is the collection used when none is configured.
const DefaultCollection = "layouts"

// Store is a layout document store backed by a MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect dials uri, verifies the connection and returns a store using
// the given database and collection. An empty collection selects
// [DefaultCollection].
func Connect(ctx context.Context, uri, database, collection string) (*Store, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeInvalidConfig, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, classify(err, "ping mongodb")
	}

	s := &Store{client: client, coll: client.Database(database).Collection(collection)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return classify(err, "create indexes")
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Save inserts or replaces a layout. The layout must carry an ID.
func (s *Store) Save(ctx context.Context, l graph.Layout) error {
	if l.ID == "" {
		return herrors.New(herrors.ErrCodeInvalidInput, "layout id is required")
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": l.ID}, l, options.Replace().SetUpsert(true))
	if err != nil {
		return classify(err, "save layout %s", l.ID)
	}
	return nil
}

// Get loads a layout by ID. A missing document yields LAYOUT_NOT_FOUND.
func (s *Store) Get(ctx context.Context, id string) (graph.Layout, error) {
	var l graph.Layout
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return graph.Layout{}, notFound(id)
	}
	if err != nil {
		return graph.Layout{}, classify(err, "load layout %s", id)
	}
	return l, nil
}

// List returns the most recent layouts, newest first, without their node
// placements. limit <= 0 means 50.
func (s *Store) List(ctx context.Context, limit int) ([]graph.Layout, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"nodes": 0})

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify(err, "list layouts")
	}
	var out []graph.Layout
	if err := cur.All(ctx, &out); err != nil {
		return nil, classify(err, "decode layouts")
	}
	return out, nil
}

// Delete removes a layout. A missing document yields LAYOUT_NOT_FOUND.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return classify(err, "delete layout %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func notFound(id string) error {
	return herrors.New(herrors.ErrCodeLayoutNotFound, "layout %q not found", id)
}

// classify wraps a driver error. Network failures and timeouts are marked
// retryable so callers can use cache.RetryWithBackoff.
func classify(err error, format string, args ...any) error {
	wrapped := herrors.Wrap(herrors.ErrCodeInternal, err, format, args...)
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return cache.Retryable(wrapped)
	}
	return wrapped
}
