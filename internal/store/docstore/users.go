package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/store"
)

func (s *Store) GetUser(ctx context.Context, id int) (*models.User, error) {
	var d userDoc
	if err := s.findOne(ctx, colUsers, id, &d); err != nil {
		return nil, err
	}
	u := d.model()
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var d userDoc
	err := s.db.Collection(colUsers).FindOne(ctx, bson.M{"email_lower": strings.ToLower(strings.TrimSpace(email))}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	u := d.model()
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context, offset, limit int) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	docs, err := findAll[userDoc](ctx, s.db.Collection(colUsers), bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return userModels(docs), nil
}

func userModels(docs []userDoc) []models.User {
	var users []models.User
	for _, d := range docs {
		users = append(users, d.model())
	}
	return users
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	id, err := s.nextID(ctx, colUsers)
	if err != nil {
		return err
	}
	stamp(&u.CreatedAt, &u.UpdatedAt)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.ID = id
	if _, err := s.db.Collection(colUsers).InsertOne(ctx, newUserDoc(u)); err != nil {
		u.ID = 0
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	return s.updateOne(ctx, colUsers, u.ID, bson.M{
		"name":       u.Name,
		"mobile":     u.Mobile,
		"address":    u.Address,
		"password":   u.Password,
		"role":       string(u.Role),
		"is_active":  u.IsActive,
		"updated_at": toDateTime(u.UpdatedAt),
	})
}

func (s *Store) UsersDueForReminder(ctx context.Context, from, to models.Date) ([]models.User, error) {
	filter := bson.M{
		"last_order_date": bson.M{"$gte": string(from), "$lte": string(to)},
		"reminder_sent":   false,
		"is_active":       true,
	}
	docs, err := findAll[userDoc](ctx, s.db.Collection(colUsers), filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return userModels(docs), nil
}

func (s *Store) SetReminderSent(ctx context.Context, userID int, sent bool) error {
	return s.updateOne(ctx, colUsers, userID, bson.M{"reminder_sent": sent, "updated_at": now()})
}
