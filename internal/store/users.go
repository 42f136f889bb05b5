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

const userColumns = `id, name, email, mobile, address, password, role, last_order_date, reminder_sent, is_active, created_at, updated_at`

func scanUser(row rowScanner) (models.User, error) {
	var (
		u                      models.User
		role                   string
		lastOrder              sql.NullString
		reminderSent, isActive int
		created, updated       int64
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Mobile, &u.Address, &u.Password, &role, &lastOrder, &reminderSent, &isActive, &created, &updated); err != nil {
		return models.User{}, err
	}
	u.Role = models.Role(role)
	if lastOrder.Valid && lastOrder.String != "" {
		d := models.Date(lastOrder.String)
		u.LastOrderDate = &d
	}
	u.ReminderSent = reminderSent == 1
	u.IsActive = isActive == 1
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)
	return u, nil
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) getUserWhere(ctx context.Context, where string, arg any) (*models.User, error) {
	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.getUserWhere(ctx, `id = ?`, id)
}

// GetUserByEmail matches case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUserWhere(ctx, `LOWER(email) = LOWER(?)`, strings.TrimSpace(email))
}

func (s *Store) ListUsers(ctx context.Context, offset, limit int) ([]models.User, error) {
	users, err := s.queryUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC LIMIT ? OFFSET ?`, noLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser inserts a user; the email must be unique.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	stamp(&u.CreatedAt, &u.UpdatedAt)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (name, email, mobile, address, password, role, last_order_date, reminder_sent, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Name, strings.TrimSpace(u.Email), u.Mobile, u.Address, u.Password, string(u.Role), nullDate(u.LastOrderDate),
		boolInt(u.ReminderSent), boolInt(u.IsActive), toMillis(u.CreatedAt), toMillis(u.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = int(id)
	return nil
}

// UpdateUser writes the editable profile fields plus role and active flag.
// Order and reminder bookkeeping go through CreateOrder and SetReminderSent.
func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	err := affectedOne(s.DB.ExecContext(ctx, `
		UPDATE users SET name = ?, mobile = ?, address = ?, password = ?, role = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		u.Name, u.Mobile, u.Address, u.Password, string(u.Role), boolInt(u.IsActive), toMillis(u.UpdatedAt), u.ID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("update user: %w", err)
	}
	return err
}

// UsersDueForReminder returns active, not-yet-reminded users whose last order
// falls on a day in [from, to].
func (s *Store) UsersDueForReminder(ctx context.Context, from, to models.Date) ([]models.User, error) {
	users, err := s.queryUsers(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE last_order_date >= ? AND last_order_date <= ?
		  AND reminder_sent = 0 AND is_active = 1
		ORDER BY id ASC`, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("users due for reminder: %w", err)
	}
	return users, nil
}

func (s *Store) SetReminderSent(ctx context.Context, userID int, sent bool) error {
	err := affectedOne(s.DB.ExecContext(ctx, `UPDATE users SET reminder_sent = ?, updated_at = ? WHERE id = ?`,
		boolInt(sent), toMillis(time.Now()), userID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("set reminder sent: %w", err)
	}
	return err
}

func nullDate(d *models.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return string(*d)
}
