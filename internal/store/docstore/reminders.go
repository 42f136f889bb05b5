package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Harikrish-25/period-care/internal/models"
)

func (s *Store) CreateReminder(ctx context.Context, r *models.Reminder) error {
	id, err := s.nextID(ctx, colReminders)
	if err != nil {
		return err
	}
	stamp(&r.CreatedAt, &r.UpdatedAt)
	if r.Status == "" {
		r.Status = models.ReminderPending
	}
	if r.Type == "" {
		r.Type = models.ReminderMonthly
	}
	r.ID = id
	if _, err := s.db.Collection(colReminders).InsertOne(ctx, newReminderDoc(r)); err != nil {
		r.ID = 0
		return fmt.Errorf("create reminder: %w", err)
	}
	return nil
}

func (s *Store) GetReminder(ctx context.Context, id int) (*models.ReminderWithUser, error) {
	var d reminderDoc
	if err := s.findOne(ctx, colReminders, id, &d); err != nil {
		return nil, err
	}
	out, err := s.withUsers(ctx, []reminderDoc{d})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *Store) ListReminders(ctx context.Context, status models.ReminderStatus) ([]models.ReminderWithUser, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	docs, err := findAll[reminderDoc](ctx, s.db.Collection(colReminders), filter, opts)
	if err != nil {
		return nil, err
	}
	return s.withUsers(ctx, docs)
}

func (s *Store) withUsers(ctx context.Context, docs []reminderDoc) ([]models.ReminderWithUser, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	ids := make([]int, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.UserID)
	}
	users, err := findAll[userDoc](ctx, s.db.Collection(colUsers), bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	byID := make(map[int]userDoc, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]models.ReminderWithUser, 0, len(docs))
	for _, d := range docs {
		r := models.ReminderWithUser{Reminder: d.model()}
		if u, ok := byID[d.UserID]; ok {
			r.UserName, r.UserEmail, r.UserMobile = u.Name, u.Email, u.Mobile
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) UpdateReminderStatus(ctx context.Context, id int, status models.ReminderStatus, at time.Time) error {
	set := bson.M{"status": string(status), "updated_at": toDateTime(at)}
	if status == models.ReminderSent {
		set["reminder_date"] = toDateTime(at)
	}
	return s.updateOne(ctx, colReminders, id, set)
}

func (s *Store) SetRemindersAdminNotified(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.Collection(colReminders).UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"admin_notified": true, "updated_at": now()}})
	if err != nil {
		return fmt.Errorf("set reminders admin notified: %w", err)
	}
	return nil
}

func (s *Store) DeleteCompletedReminders(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.Collection(colReminders).DeleteMany(ctx, bson.M{
		"status":     string(models.ReminderCompleted),
		"created_at": bson.M{"$lt": toDateTime(cutoff)},
	})
	if err != nil {
		return 0, fmt.Errorf("delete completed reminders: %w", err)
	}
	return int(res.DeletedCount), nil
}
