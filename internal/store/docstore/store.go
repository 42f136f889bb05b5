// Package docstore is the MongoDB adapter. It offers the same operations as
// the SQLite store, keeps integer ids through a counters collection and
// returns the store package's sentinel errors.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Harikrish-25/period-care/internal/store"
)

const (
	colCounters     = "counters"
	colUsers        = "users"
	colKits         = "kits"
	colFruits       = "fruits"
	colNutrients    = "nutrients"
	colOrders       = "orders"
	colReminders    = "reminders"
	colBenefits     = "benefits"
	colTestimonials = "testimonials"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to uri, selects database and makes sure the indexes exist.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if strings.TrimSpace(database) == "" {
		return nil, fmt.Errorf("mongo database is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Drop removes the whole database. Tests use it to clean up.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email_lower", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "last_order_date", Value: 1}, {Key: "reminder_sent", Value: 1}, {Key: "is_active", Value: 1}}},
		},
		colOrders: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		colReminders: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
		},
	}
	for coll, idx := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

// nextID hands out the next integer id for a collection.
func (s *Store) nextID(ctx context.Context, coll string) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := s.db.Collection(colCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": coll},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", coll, err)
	}
	return counter.Seq, nil
}

// findOne decodes the document with the given id into dst.
func (s *Store) findOne(ctx context.Context, coll string, id int, dst any) error {
	err := s.db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(dst)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", coll, err)
	}
	return nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	var docs []T
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return docs, nil
}

func (s *Store) updateOne(ctx context.Context, coll string, id int, set bson.M) error {
	res, err := s.db.Collection(coll).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update %s: %w", coll, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) deleteOne(ctx context.Context, coll string, id int) error {
	res, err := s.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", coll, err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func toDateTime(t time.Time) primitive.DateTime {
	return primitive.NewDateTimeFromTime(t)
}

func fromDateTime(dt primitive.DateTime) time.Time {
	return dt.Time().UTC()
}

func now() primitive.DateTime {
	return toDateTime(time.Now())
}

func stamp(created, updated *time.Time) {
	n := time.Now().UTC()
	if created.IsZero() {
		*created = n
	}
	if updated.IsZero() {
		*updated = *created
	}
}

// activeFilter returns an empty filter or one that requires field == true.
func activeFilter(field string, only bool) bson.M {
	if !only {
		return bson.M{}
	}
	return bson.M{field: true}
}
