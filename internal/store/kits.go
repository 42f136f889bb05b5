package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Harikrish-25/period-care/internal/models"
)

const kitColumns = `id, name, type, base_price, image_url, included_items, description, is_available, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanKit(row rowScanner) (models.Kit, error) {
	var (
		k                 models.Kit
		kitType, included string
		available         int
		created, updated  int64
	)
	if err := row.Scan(&k.ID, &k.Name, &kitType, &k.BasePrice, &k.ImageURL, &included, &k.Description, &available, &created, &updated); err != nil {
		return models.Kit{}, err
	}
	k.Type = models.KitType(kitType)
	k.IsAvailable = available == 1
	k.CreatedAt = fromMillis(created)
	k.UpdatedAt = fromMillis(updated)
	if included != "" {
		if err := json.Unmarshal([]byte(included), &k.IncludedItems); err != nil {
			return models.Kit{}, fmt.Errorf("decode included items of kit %d: %w", k.ID, err)
		}
	}
	return k, nil
}

func (s *Store) queryKits(ctx context.Context, query string, args ...any) ([]models.Kit, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kits []models.Kit
	for rows.Next() {
		k, err := scanKit(rows)
		if err != nil {
			return nil, err
		}
		kits = append(kits, k)
	}
	return kits, rows.Err()
}

func (s *Store) ListKits(ctx context.Context, availableOnly bool) ([]models.Kit, error) {
	query := `SELECT ` + kitColumns + ` FROM kits`
	if availableOnly {
		query += ` WHERE is_available = 1`
	}
	query += ` ORDER BY base_price ASC, id ASC`
	kits, err := s.queryKits(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list kits: %w", err)
	}
	return kits, nil
}

// ListKitsByType returns the available kits of one tier.
func (s *Store) ListKitsByType(ctx context.Context, kitType models.KitType) ([]models.Kit, error) {
	kits, err := s.queryKits(ctx, `SELECT `+kitColumns+` FROM kits WHERE type = ? AND is_available = 1 ORDER BY id ASC`, string(kitType))
	if err != nil {
		return nil, fmt.Errorf("list kits by type: %w", err)
	}
	return kits, nil
}

func (s *Store) GetKit(ctx context.Context, id int) (*models.Kit, error) {
	k, err := scanKit(s.DB.QueryRowContext(ctx, `SELECT `+kitColumns+` FROM kits WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get kit: %w", err)
	}
	return &k, nil
}

func (s *Store) CreateKit(ctx context.Context, kit *models.Kit) error {
	stamp(&kit.CreatedAt, &kit.UpdatedAt)
	included, err := json.Marshal(nonNilStrings(kit.IncludedItems))
	if err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO kits (name, type, base_price, image_url, included_items, description, is_available, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		kit.Name, string(kit.Type), kit.BasePrice, kit.ImageURL, string(included), kit.Description,
		boolInt(kit.IsAvailable), toMillis(kit.CreatedAt), toMillis(kit.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create kit: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	kit.ID = int(id)
	return nil
}

func (s *Store) UpdateKit(ctx context.Context, kit *models.Kit) error {
	kit.UpdatedAt = time.Now().UTC()
	included, err := json.Marshal(nonNilStrings(kit.IncludedItems))
	if err != nil {
		return err
	}
	err = affectedOne(s.DB.ExecContext(ctx, `
		UPDATE kits
		SET name = ?, type = ?, base_price = ?, image_url = ?, included_items = ?, description = ?, is_available = ?, updated_at = ?
		WHERE id = ?`,
		kit.Name, string(kit.Type), kit.BasePrice, kit.ImageURL, string(included), kit.Description,
		boolInt(kit.IsAvailable), toMillis(kit.UpdatedAt), kit.ID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("update kit: %w", err)
	}
	return err
}

func (s *Store) SetKitImage(ctx context.Context, id int, imageURL string) error {
	err := affectedOne(s.DB.ExecContext(ctx, `UPDATE kits SET image_url = ?, updated_at = ? WHERE id = ?`,
		imageURL, toMillis(time.Now()), id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("set kit image: %w", err)
	}
	return err
}

func (s *Store) DeleteKit(ctx context.Context, id int) error {
	err := affectedOne(s.DB.ExecContext(ctx, `DELETE FROM kits WHERE id = ?`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete kit: %w", err)
	}
	return err
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
