package shop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harikrish-25/period-care/internal/cache"
	"github.com/Harikrish-25/period-care/internal/models"
)

func TestCatalogValidatesKits(t *testing.T) {
	c := NewCatalog(openTempStore(t), cache.NewMemory(), nil)
	ctx := context.Background()

	tests := map[string]models.Kit{
		"no name":    {Type: models.KitBasic, BasePrice: 100},
		"bad type":   {Name: "X", Type: "deluxe", BasePrice: 100},
		"zero price": {Name: "X", Type: models.KitBasic},
	}
	for name, kit := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, c.CreateKit(ctx, &kit), ErrInvalidInput)
		})
	}

	_, err := c.KitsByType(ctx, "deluxe")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, c.CreateAddOn(ctx, &models.AddOn{Kind: models.Fruits, Name: "Mango"}), ErrInvalidInput)
	assert.ErrorIs(t, c.CreateAddOn(ctx, &models.AddOn{Kind: "snacks", Name: "Chips", Price: 10}), ErrInvalidInput)
}

func TestCatalogCacheIsInvalidatedOnWrite(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)
	mem := cache.NewMemory()
	c := NewCatalog(s, mem, nil)

	kit := &models.Kit{Name: "Basic Comfort", Type: models.KitBasic, BasePrice: 299, IsAvailable: true}
	require.NoError(t, c.CreateKit(ctx, kit))

	kits, err := c.ListKits(ctx, true)
	require.NoError(t, err)
	require.Len(t, kits, 1)
	_, ok := mem.Get(ctx, listKey("kits"))
	require.True(t, ok)

	// A write behind the service's back is not seen until the entry goes.
	require.NoError(t, s.CreateKit(ctx, &models.Kit{Name: "Side", Type: models.KitMedium, BasePrice: 499, IsAvailable: true}))
	kits, err = c.ListKits(ctx, true)
	require.NoError(t, err)
	assert.Len(t, kits, 1)

	toggled, err := c.ToggleKit(ctx, kit.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsAvailable)

	kits, err = c.ListKits(ctx, true)
	require.NoError(t, err)
	require.Len(t, kits, 1)
	assert.Equal(t, "Side", kits[0].Name)

	all, err := c.ListKits(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalogAddOns(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(openTempStore(t), nil, nil)

	mango := &models.AddOn{Kind: models.Fruits, Name: "Mango", Price: 50, EmojiIcon: "🥭", IsAvailable: true}
	require.NoError(t, c.CreateAddOn(ctx, mango))
	iron := &models.AddOn{Kind: models.Nutrients, Name: "Iron", Price: 120, IsAvailable: true}
	require.NoError(t, c.CreateAddOn(ctx, iron))

	fruits, err := c.ListAddOns(ctx, models.Fruits, true)
	require.NoError(t, err)
	require.Len(t, fruits, 1)
	assert.Equal(t, models.Fruits, fruits[0].Kind)
	assert.Equal(t, "🥭", fruits[0].EmojiIcon)

	toggled, err := c.ToggleAddOn(ctx, models.Fruits, mango.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsAvailable)
	fruits, err = c.ListAddOns(ctx, models.Fruits, true)
	require.NoError(t, err)
	assert.Empty(t, fruits)

	require.NoError(t, c.DeleteAddOn(ctx, models.Nutrients, iron.ID))
	_, err = c.GetAddOn(ctx, models.Nutrients, iron.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, c.DeleteAddOn(ctx, models.Nutrients, iron.ID), ErrNotFound)
}

func TestCatalogKitImageAndDelete(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(openTempStore(t), nil, nil)
	kit := &models.Kit{Name: "Premium Care", Type: models.KitPremium, BasePrice: 899, IsAvailable: true}
	require.NoError(t, c.CreateKit(ctx, kit))

	updated, err := c.SetKitImage(ctx, kit.ID, "/uploads/kit.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/kit.jpg", updated.ImageURL)

	premium, err := c.KitsByType(ctx, models.KitPremium)
	require.NoError(t, err)
	assert.Len(t, premium, 1)

	require.NoError(t, c.DeleteKit(ctx, kit.ID))
	_, err = c.GetKit(ctx, kit.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.SetKitImage(ctx, kit.ID, "/uploads/x.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}
