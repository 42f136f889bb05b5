package shop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harikrish-25/period-care/internal/models"
)

func TestTestimonialRatingBounds(t *testing.T) {
	ctx := context.Background()
	cms := NewCMS(openTempStore(t))

	for _, rating := range []int{0, 6} {
		err := cms.CreateTestimonial(ctx, &models.Testimonial{Name: "Priya", Text: "Lovely", Rating: rating})
		assert.ErrorIs(t, err, ErrInvalidInput, "rating %d", rating)
	}

	tm := &models.Testimonial{Name: "Priya", Text: "Lovely", Rating: 5, IsFeatured: true, IsActive: true}
	require.NoError(t, cms.CreateTestimonial(ctx, tm))
	featured, err := cms.Testimonials(ctx, true, true)
	require.NoError(t, err)
	assert.Len(t, featured, 1)

	tm.Rating = 4
	require.NoError(t, cms.UpdateTestimonial(ctx, tm))
	got, err := cms.GetTestimonial(ctx, tm.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)

	require.NoError(t, cms.DeleteTestimonial(ctx, tm.ID))
	assert.ErrorIs(t, cms.DeleteTestimonial(ctx, tm.ID), ErrNotFound)
}

func TestBenefits(t *testing.T) {
	ctx := context.Background()
	cms := NewCMS(openTempStore(t))

	assert.ErrorIs(t, cms.CreateBenefit(ctx, &models.Benefit{Title: " "}), ErrInvalidInput)

	b := &models.Benefit{Title: "Doorstep delivery", IconEmoji: "🚚", DisplayOrder: 1, IsActive: true}
	require.NoError(t, cms.CreateBenefit(ctx, b))
	list, err := cms.Benefits(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 1)

	missing := &models.Benefit{ID: 404, Title: "Ghost"}
	assert.ErrorIs(t, cms.UpdateBenefit(ctx, missing), ErrNotFound)
	_, err = cms.GetBenefit(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
