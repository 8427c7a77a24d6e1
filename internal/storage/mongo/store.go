package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"travel_booking/internal/adapters/observability"
	"travel_booking/internal/domain"
)

const (
	destinationsColl = "destinations"
	hotelsColl       = "hotels"
)

// Connect opens a client for uri and verifies it with a ping. Nested
// documents decode as maps so additional fields round-trip to JSON cleanly.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return client, nil
}

type Store struct {
	db           *mongo.Database
	destinations *mongo.Collection
	hotels       *mongo.Collection
	now          func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{
		db:           db,
		destinations: db.Collection(destinationsColl),
		hotels:       db.Collection(hotelsColl),
		// BSON dates carry millisecond precision
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the lookup indexes; existing ones are left alone.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.destinations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}, {Key: "country", Value: 1}},
	}); err != nil {
		return &domain.StoreError{Op: "destinations.createIndexes", Err: err}
	}
	if _, err := s.hotels.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "destinationId", Value: 1}}},
		{Keys: bson.D{{Key: "starRating", Value: 1}}},
		{Keys: bson.D{{Key: "pricePerNight", Value: 1}}},
	}); err != nil {
		return &domain.StoreError{Op: "hotels.createIndexes", Err: err}
	}
	return nil
}

// observe records the operation and converts driver errors: a missing
// document becomes domain.ErrNotFound, anything else a StoreError.
func observe(coll, op, id string, start time.Time, err error) error {
	switch {
	case err == nil:
		observability.ObserveStore(coll, op, "ok", time.Since(start))
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		observability.ObserveStore(coll, op, "not_found", time.Since(start))
		return fmt.Errorf("%s %s: %w", coll, id, domain.ErrNotFound)
	default:
		observability.ObserveStore(coll, op, "error", time.Since(start))
		return &domain.StoreError{Op: coll + "." + op, Err: err}
	}
}

// objectID parses a hex id. Malformed ids cannot name a document, so they
// are reported as not found.
func objectID(coll, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s %q: %w", coll, id, domain.ErrNotFound)
	}
	return oid, nil
}

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
