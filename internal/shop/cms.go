package shop

import (
	"context"
	"fmt"
	"strings"

	"github.com/Harikrish-25/period-care/internal/models"
)

// CMS manages the landing page's benefits and testimonials.
type CMS struct {
	repo ContentRepository
}

func NewCMS(repo ContentRepository) *CMS {
	return &CMS{repo: repo}
}

func (c *CMS) Benefits(ctx context.Context, activeOnly bool) ([]models.Benefit, error) {
	return c.repo.ListBenefits(ctx, activeOnly)
}

func validateBenefit(b *models.Benefit) error {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return nil
}

func (c *CMS) CreateBenefit(ctx context.Context, b *models.Benefit) error {
	if err := validateBenefit(b); err != nil {
		return err
	}
	return c.repo.CreateBenefit(ctx, b)
}

func (c *CMS) UpdateBenefit(ctx context.Context, b *models.Benefit) error {
	if err := validateBenefit(b); err != nil {
		return err
	}
	if err := c.repo.UpdateBenefit(ctx, b); err != nil {
		return notFound(err, "benefit", b.ID)
	}
	return nil
}

func (c *CMS) DeleteBenefit(ctx context.Context, id int) error {
	return notFound(c.repo.DeleteBenefit(ctx, id), "benefit", id)
}

func (c *CMS) GetBenefit(ctx context.Context, id int) (*models.Benefit, error) {
	b, err := c.repo.GetBenefit(ctx, id)
	if err != nil {
		return nil, notFound(err, "benefit", id)
	}
	return b, nil
}

func (c *CMS) Testimonials(ctx context.Context, activeOnly, featuredOnly bool) ([]models.Testimonial, error) {
	return c.repo.ListTestimonials(ctx, activeOnly, featuredOnly)
}

func validateTestimonial(t *models.Testimonial) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Text = strings.TrimSpace(t.Text)
	if t.Name == "" || t.Text == "" {
		return fmt.Errorf("%w: name and testimonial text are required", ErrInvalidInput)
	}
	if t.Rating < 1 || t.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	return nil
}

func (c *CMS) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	if err := validateTestimonial(t); err != nil {
		return err
	}
	return c.repo.CreateTestimonial(ctx, t)
}

func (c *CMS) UpdateTestimonial(ctx context.Context, t *models.Testimonial) error {
	if err := validateTestimonial(t); err != nil {
		return err
	}
	if err := c.repo.UpdateTestimonial(ctx, t); err != nil {
		return notFound(err, "testimonial", t.ID)
	}
	return nil
}

func (c *CMS) DeleteTestimonial(ctx context.Context, id int) error {
	return notFound(c.repo.DeleteTestimonial(ctx, id), "testimonial", id)
}

func (c *CMS) GetTestimonial(ctx context.Context, id int) (*models.Testimonial, error) {
	t, err := c.repo.GetTestimonial(ctx, id)
	if err != nil {
		return nil, notFound(err, "testimonial", id)
	}
	return t, nil
}
