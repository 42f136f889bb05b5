package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Harikrish-25/period-care/internal/models"
)

const benefitColumns = `id, title, description, icon_emoji, display_order, is_active, created_at, updated_at`

func scanBenefit(row rowScanner) (models.Benefit, error) {
	var (
		b                models.Benefit
		active           int
		created, updated int64
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Description, &b.IconEmoji, &b.DisplayOrder, &active, &created, &updated); err != nil {
		return models.Benefit{}, err
	}
	b.IsActive = active == 1
	b.CreatedAt = fromMillis(created)
	b.UpdatedAt = fromMillis(updated)
	return b, nil
}

func (s *Store) ListBenefits(ctx context.Context, activeOnly bool) ([]models.Benefit, error) {
	query := `SELECT ` + benefitColumns + ` FROM benefits`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY display_order ASC, id ASC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list benefits: %w", err)
	}
	defer rows.Close()

	var benefits []models.Benefit
	for rows.Next() {
		b, err := scanBenefit(rows)
		if err != nil {
			return nil, err
		}
		benefits = append(benefits, b)
	}
	return benefits, rows.Err()
}

func (s *Store) GetBenefit(ctx context.Context, id int) (*models.Benefit, error) {
	b, err := scanBenefit(s.DB.QueryRowContext(ctx, `SELECT `+benefitColumns+` FROM benefits WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get benefit: %w", err)
	}
	return &b, nil
}

func (s *Store) CreateBenefit(ctx context.Context, b *models.Benefit) error {
	stamp(&b.CreatedAt, &b.UpdatedAt)
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO benefits (title, description, icon_emoji, display_order, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.Title, b.Description, b.IconEmoji, b.DisplayOrder, boolInt(b.IsActive), toMillis(b.CreatedAt), toMillis(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create benefit: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = int(id)
	return nil
}

func (s *Store) UpdateBenefit(ctx context.Context, b *models.Benefit) error {
	b.UpdatedAt = time.Now().UTC()
	err := affectedOne(s.DB.ExecContext(ctx, `
		UPDATE benefits SET title = ?, description = ?, icon_emoji = ?, display_order = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		b.Title, b.Description, b.IconEmoji, b.DisplayOrder, boolInt(b.IsActive), toMillis(b.UpdatedAt), b.ID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("update benefit: %w", err)
	}
	return err
}

func (s *Store) DeleteBenefit(ctx context.Context, id int) error {
	err := affectedOne(s.DB.ExecContext(ctx, `DELETE FROM benefits WHERE id = ?`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete benefit: %w", err)
	}
	return err
}

const testimonialColumns = `id, name, rating, testimonial_text, location, is_featured, is_active, created_at, updated_at`

func scanTestimonial(row rowScanner) (models.Testimonial, error) {
	var (
		t                models.Testimonial
		featured, active int
		created, updated int64
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Rating, &t.Text, &t.Location, &featured, &active, &created, &updated); err != nil {
		return models.Testimonial{}, err
	}
	t.IsFeatured = featured == 1
	t.IsActive = active == 1
	t.CreatedAt = fromMillis(created)
	t.UpdatedAt = fromMillis(updated)
	return t, nil
}

// ListTestimonials returns testimonials best rated first.
func (s *Store) ListTestimonials(ctx context.Context, activeOnly, featuredOnly bool) ([]models.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials WHERE 1 = 1`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	if featuredOnly {
		query += ` AND is_featured = 1`
	}
	query += ` ORDER BY rating DESC, id ASC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	var testimonials []models.Testimonial
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		testimonials = append(testimonials, t)
	}
	return testimonials, rows.Err()
}

func (s *Store) GetTestimonial(ctx context.Context, id int) (*models.Testimonial, error) {
	t, err := scanTestimonial(s.DB.QueryRowContext(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	return &t, nil
}

func (s *Store) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	stamp(&t.CreatedAt, &t.UpdatedAt)
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO testimonials (name, rating, testimonial_text, location, is_featured, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Name, t.Rating, t.Text, t.Location, boolInt(t.IsFeatured), boolInt(t.IsActive), toMillis(t.CreatedAt), toMillis(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create testimonial: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = int(id)
	return nil
}

func (s *Store) UpdateTestimonial(ctx context.Context, t *models.Testimonial) error {
	t.UpdatedAt = time.Now().UTC()
	err := affectedOne(s.DB.ExecContext(ctx, `
		UPDATE testimonials SET name = ?, rating = ?, testimonial_text = ?, location = ?, is_featured = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		t.Name, t.Rating, t.Text, t.Location, boolInt(t.IsFeatured), boolInt(t.IsActive), toMillis(t.UpdatedAt), t.ID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("update testimonial: %w", err)
	}
	return err
}

func (s *Store) DeleteTestimonial(ctx context.Context, id int) error {
	err := affectedOne(s.DB.ExecContext(ctx, `DELETE FROM testimonials WHERE id = ?`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	return err
}
