package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Harikrish-25/period-care/internal/models"
)

// addOnTable maps a kind onto its table name. Only the two known kinds are
// ever interpolated into SQL.
func addOnTable(kind models.AddOnKind) (string, error) {
	switch kind {
	case models.Fruits:
		return "fruits", nil
	case models.Nutrients:
		return "nutrients", nil
	}
	return "", fmt.Errorf("unknown add-on kind %q", kind)
}

const addOnColumns = `id, name, price, description, emoji_icon, is_available, created_at, updated_at`

func scanAddOn(row rowScanner, kind models.AddOnKind) (models.AddOn, error) {
	var (
		a                models.AddOn
		available        int
		created, updated int64
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Price, &a.Description, &a.EmojiIcon, &available, &created, &updated); err != nil {
		return models.AddOn{}, err
	}
	a.Kind = kind
	a.IsAvailable = available == 1
	a.CreatedAt = fromMillis(created)
	a.UpdatedAt = fromMillis(updated)
	return a, nil
}

func (s *Store) ListAddOns(ctx context.Context, kind models.AddOnKind, availableOnly bool) ([]models.AddOn, error) {
	table, err := addOnTable(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + addOnColumns + ` FROM ` + table
	if availableOnly {
		query += ` WHERE is_available = 1`
	}
	query += ` ORDER BY id ASC`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var items []models.AddOn
	for rows.Next() {
		a, err := scanAddOn(rows, kind)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (s *Store) GetAddOn(ctx context.Context, kind models.AddOnKind, id int) (*models.AddOn, error) {
	table, err := addOnTable(kind)
	if err != nil {
		return nil, err
	}
	a, err := scanAddOn(s.DB.QueryRowContext(ctx, `SELECT `+addOnColumns+` FROM `+table+` WHERE id = ?`, id), kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return &a, nil
}

func (s *Store) CreateAddOn(ctx context.Context, a *models.AddOn) error {
	table, err := addOnTable(a.Kind)
	if err != nil {
		return err
	}
	stamp(&a.CreatedAt, &a.UpdatedAt)
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO `+table+` (name, price, description, emoji_icon, is_available, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.Price, a.Description, a.EmojiIcon, boolInt(a.IsAvailable), toMillis(a.CreatedAt), toMillis(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = int(id)
	return nil
}

func (s *Store) UpdateAddOn(ctx context.Context, a *models.AddOn) error {
	table, err := addOnTable(a.Kind)
	if err != nil {
		return err
	}
	a.UpdatedAt = time.Now().UTC()
	err = affectedOne(s.DB.ExecContext(ctx, `
		UPDATE `+table+`
		SET name = ?, price = ?, description = ?, emoji_icon = ?, is_available = ?, updated_at = ?
		WHERE id = ?`,
		a.Name, a.Price, a.Description, a.EmojiIcon, boolInt(a.IsAvailable), toMillis(a.UpdatedAt), a.ID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return err
}

func (s *Store) DeleteAddOn(ctx context.Context, kind models.AddOnKind, id int) error {
	table, err := addOnTable(kind)
	if err != nil {
		return err
	}
	err = affectedOne(s.DB.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return err
}
