package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Harikrish-25/period-care/internal/models"
)

func (s *Store) ListBenefits(ctx context.Context, activeOnly bool) ([]models.Benefit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}, {Key: "_id", Value: 1}})
	docs, err := findAll[benefitDoc](ctx, s.db.Collection(colBenefits), activeFilter("is_active", activeOnly), opts)
	if err != nil {
		return nil, err
	}
	var out []models.Benefit
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (s *Store) GetBenefit(ctx context.Context, id int) (*models.Benefit, error) {
	var d benefitDoc
	if err := s.findOne(ctx, colBenefits, id, &d); err != nil {
		return nil, err
	}
	b := d.model()
	return &b, nil
}

func (s *Store) CreateBenefit(ctx context.Context, b *models.Benefit) error {
	id, err := s.nextID(ctx, colBenefits)
	if err != nil {
		return err
	}
	stamp(&b.CreatedAt, &b.UpdatedAt)
	b.ID = id
	if _, err := s.db.Collection(colBenefits).InsertOne(ctx, newBenefitDoc(b)); err != nil {
		b.ID = 0
		return fmt.Errorf("create benefit: %w", err)
	}
	return nil
}

func (s *Store) UpdateBenefit(ctx context.Context, b *models.Benefit) error {
	b.UpdatedAt = time.Now().UTC()
	return s.updateOne(ctx, colBenefits, b.ID, bson.M{
		"title":         b.Title,
		"description":   b.Description,
		"icon_emoji":    b.IconEmoji,
		"display_order": b.DisplayOrder,
		"is_active":     b.IsActive,
		"updated_at":    toDateTime(b.UpdatedAt),
	})
}

func (s *Store) DeleteBenefit(ctx context.Context, id int) error {
	return s.deleteOne(ctx, colBenefits, id)
}

func (s *Store) ListTestimonials(ctx context.Context, activeOnly, featuredOnly bool) ([]models.Testimonial, error) {
	filter := activeFilter("is_active", activeOnly)
	if featuredOnly {
		filter["is_featured"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}})
	docs, err := findAll[testimonialDoc](ctx, s.db.Collection(colTestimonials), filter, opts)
	if err != nil {
		return nil, err
	}
	var out []models.Testimonial
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (s *Store) GetTestimonial(ctx context.Context, id int) (*models.Testimonial, error) {
	var d testimonialDoc
	if err := s.findOne(ctx, colTestimonials, id, &d); err != nil {
		return nil, err
	}
	t := d.model()
	return &t, nil
}

func (s *Store) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	id, err := s.nextID(ctx, colTestimonials)
	if err != nil {
		return err
	}
	stamp(&t.CreatedAt, &t.UpdatedAt)
	t.ID = id
	if _, err := s.db.Collection(colTestimonials).InsertOne(ctx, newTestimonialDoc(t)); err != nil {
		t.ID = 0
		return fmt.Errorf("create testimonial: %w", err)
	}
	return nil
}

func (s *Store) UpdateTestimonial(ctx context.Context, t *models.Testimonial) error {
	t.UpdatedAt = time.Now().UTC()
	return s.updateOne(ctx, colTestimonials, t.ID, bson.M{
		"name":             t.Name,
		"rating":           t.Rating,
		"testimonial_text": t.Text,
		"location":         t.Location,
		"is_featured":      t.IsFeatured,
		"is_active":        t.IsActive,
		"updated_at":       toDateTime(t.UpdatedAt),
	})
}

func (s *Store) DeleteTestimonial(ctx context.Context, id int) error {
	return s.deleteOne(ctx, colTestimonials, id)
}
