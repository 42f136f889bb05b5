package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Harikrish-25/period-care/internal/models"
)

const reminderColumns = `
	r.id, r.user_id, r.reminder_type, r.last_order_date, r.reminder_date, r.status, r.admin_notified,
	r.created_at, r.updated_at,
	COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.mobile, '')`

func scanReminder(row rowScanner) (models.ReminderWithUser, error) {
	var (
		r                       models.ReminderWithUser
		kind, lastOrder, status string
		reminderDate            sql.NullInt64
		notified                int
		created, updated        int64
	)
	if err := row.Scan(&r.ID, &r.UserID, &kind, &lastOrder, &reminderDate, &status, &notified,
		&created, &updated, &r.UserName, &r.UserEmail, &r.UserMobile); err != nil {
		return models.ReminderWithUser{}, err
	}
	r.Type = models.ReminderType(kind)
	r.LastOrderDate = models.Date(lastOrder)
	if reminderDate.Valid {
		t := fromMillis(reminderDate.Int64)
		r.ReminderDate = &t
	}
	r.Status = models.ReminderStatus(status)
	r.AdminNotified = notified == 1
	r.CreatedAt = fromMillis(created)
	r.UpdatedAt = fromMillis(updated)
	return r, nil
}

func (s *Store) CreateReminder(ctx context.Context, r *models.Reminder) error {
	stamp(&r.CreatedAt, &r.UpdatedAt)
	if r.Status == "" {
		r.Status = models.ReminderPending
	}
	if r.Type == "" {
		r.Type = models.ReminderMonthly
	}
	var reminderDate any
	if r.ReminderDate != nil {
		reminderDate = toMillis(*r.ReminderDate)
	}
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO reminders (user_id, reminder_type, last_order_date, reminder_date, status, admin_notified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, string(r.Type), string(r.LastOrderDate), reminderDate, string(r.Status),
		boolInt(r.AdminNotified), toMillis(r.CreatedAt), toMillis(r.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = int(id)
	return nil
}

func (s *Store) GetReminder(ctx context.Context, id int) (*models.ReminderWithUser, error) {
	r, err := scanReminder(s.DB.QueryRowContext(ctx, `SELECT `+reminderColumns+`
		FROM reminders r LEFT JOIN users u ON r.user_id = u.id WHERE r.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reminder: %w", err)
	}
	return &r, nil
}

// ListReminders returns reminders newest first; an empty status lists all.
func (s *Store) ListReminders(ctx context.Context, status models.ReminderStatus) ([]models.ReminderWithUser, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders r LEFT JOIN users u ON r.user_id = u.id`
	var args []any
	if status != "" {
		query += ` WHERE r.status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY r.created_at DESC, r.id DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.ReminderWithUser
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// UpdateReminderStatus moves a reminder to status. Moving to "sent" stamps
// the reminder date with at.
func (s *Store) UpdateReminderStatus(ctx context.Context, id int, status models.ReminderStatus, at time.Time) error {
	var err error
	if status == models.ReminderSent {
		err = affectedOne(s.DB.ExecContext(ctx, `UPDATE reminders SET status = ?, reminder_date = ?, updated_at = ? WHERE id = ?`,
			string(status), toMillis(at), toMillis(at), id))
	} else {
		err = affectedOne(s.DB.ExecContext(ctx, `UPDATE reminders SET status = ?, updated_at = ? WHERE id = ?`,
			string(status), toMillis(at), id))
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("update reminder status: %w", err)
	}
	return err
}

func (s *Store) SetRemindersAdminNotified(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, toMillis(time.Now()))
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := s.DB.ExecContext(ctx, `UPDATE reminders SET admin_notified = 1, updated_at = ? WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("set reminders admin notified: %w", err)
	}
	return nil
}

// DeleteCompletedReminders removes completed reminders created before cutoff
// and returns how many were removed.
func (s *Store) DeleteCompletedReminders(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM reminders WHERE status = ? AND created_at < ?`,
		string(models.ReminderCompleted), toMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("delete completed reminders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
