package shop

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harikrish-25/period-care/internal/models"
)

func TestCalculateSkipsUnavailableAddOns(t *testing.T) {
	s := openTempStore(t)
	kit := addKit(t, s, "Basic Comfort", 299, true)
	mango := addAddOn(t, s, models.Fruits, "Mango", 50, true)
	kiwi := addAddOn(t, s, models.Fruits, "Kiwi", 40, false)

	calc := NewCalculator(s, PolicySkip)
	q, err := calc.Calculate(context.Background(), models.Selection{
		KitID:          kit.ID,
		SelectedFruits: models.IDList{mango.ID, kiwi.ID, 9999},
	})
	require.NoError(t, err)

	want := models.OrderCalculation{
		KitPrice:       299,
		FruitsTotal:    50,
		NutrientsTotal: 0,
		TotalAmount:    349,
		Breakdown: models.Breakdown{
			Kit:       models.LineItem{ID: kit.ID, Name: "Basic Comfort", Price: 299},
			Fruits:    []models.LineItem{{ID: mango.ID, Name: "Mango", Price: 50}},
			Nutrients: []models.LineItem{},
		},
	}
	if diff := cmp.Diff(want, q.OrderCalculation); diff != "" {
		t.Errorf("calculation mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, q.Fruits, 1)
	assert.Equal(t, "Mango", q.Fruits[0].Name)
}

func TestCalculateAddsNutrients(t *testing.T) {
	s := openTempStore(t)
	kit := addKit(t, s, "Premium Care", 899, true)
	iron := addAddOn(t, s, models.Nutrients, "Iron", 120, true)
	b12 := addAddOn(t, s, models.Nutrients, "B12", 80.5, true)

	q, err := NewCalculator(s, "").Calculate(context.Background(), models.Selection{
		KitID:             kit.ID,
		SelectedNutrients: models.IDList{iron.ID, b12.ID},
	})
	require.NoError(t, err)
	assert.InDelta(t, 200.5, q.NutrientsTotal, 1e-9)
	assert.InDelta(t, 1099.5, q.TotalAmount, 1e-9)
	assert.Len(t, q.Breakdown.Nutrients, 2)
	assert.Empty(t, q.Breakdown.Fruits)
}

func TestCalculateRejectsBadKit(t *testing.T) {
	s := openTempStore(t)
	hidden := addKit(t, s, "Retired Kit", 199, false)
	calc := NewCalculator(s, PolicySkip)

	_, err := calc.Calculate(context.Background(), models.Selection{KitID: hidden.ID})
	assert.ErrorIs(t, err, ErrInvalidSelection)

	_, err = calc.Calculate(context.Background(), models.Selection{KitID: 404})
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestCalculateStrictPolicy(t *testing.T) {
	s := openTempStore(t)
	kit := addKit(t, s, "Basic Comfort", 299, true)
	mango := addAddOn(t, s, models.Fruits, "Mango", 50, true)
	kiwi := addAddOn(t, s, models.Fruits, "Kiwi", 40, false)
	calc := NewCalculator(s, PolicyStrict)

	_, err := calc.Calculate(context.Background(), models.Selection{KitID: kit.ID, SelectedFruits: models.IDList{mango.ID, kiwi.ID}})
	assert.ErrorIs(t, err, ErrInvalidSelection)

	_, err = calc.Calculate(context.Background(), models.Selection{KitID: kit.ID, SelectedNutrients: models.IDList{77}})
	assert.ErrorIs(t, err, ErrInvalidSelection)

	q, err := calc.Calculate(context.Background(), models.Selection{KitID: kit.ID, SelectedFruits: models.IDList{mango.ID}})
	require.NoError(t, err)
	assert.Equal(t, 349.0, q.TotalAmount)
}

func TestParseAddOnPolicy(t *testing.T) {
	for in, want := range map[string]AddOnPolicy{"": PolicySkip, "skip": PolicySkip, " Strict ": PolicyStrict} {
		got, err := ParseAddOnPolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseAddOnPolicy("lenient")
	assert.Error(t, err)
}
