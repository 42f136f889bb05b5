package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/store"
)

func openTempStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDefaultCatalog(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	assert.Len(t, f.Kits, 3)
	assert.Len(t, f.Fruits, 6)
	assert.Len(t, f.Nutrients, 5)
	assert.Len(t, f.Benefits, 4)
	assert.Len(t, f.Testimonials, 3)
	assert.Equal(t, "🍌", f.Fruits[1].Emoji)
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)
	f, err := Default()
	require.NoError(t, err)

	c, err := Apply(ctx, s, f)
	require.NoError(t, err)
	assert.Equal(t, Counts{Kits: 3, Fruits: 6, Nutrients: 5, Benefits: 4, Testimonials: 3}, c)
	assert.Equal(t, 21, c.Total())

	again, err := Apply(ctx, s, f)
	require.NoError(t, err)
	assert.Zero(t, again.Total())

	kits, err := s.ListKitsByType(ctx, models.KitPremium)
	require.NoError(t, err)
	require.Len(t, kits, 1)
	assert.Equal(t, "Premium Wellness Kit", kits[0].Name)
	assert.Len(t, kits[0].IncludedItems, 6)
	assert.True(t, kits[0].IsAvailable)

	featured, err := s.ListTestimonials(ctx, true, true)
	require.NoError(t, err)
	assert.Len(t, featured, 3)
}

func TestLoadFileHonoursAvailability(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fruits:
  - {name: Kiwi, price: 40, available: false}
  - {name: Mango, price: 55}
`), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)

	ctx := context.Background()
	s := openTempStore(t)
	c, err := Apply(ctx, s, f)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Fruits)

	available, err := s.ListAddOns(ctx, models.Fruits, true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Mango", available[0].Name)
}

func TestParseRejectsBadRecords(t *testing.T) {
	_, err := Parse([]byte("kits:\n  - {name: X, type: deluxe, base_price: 10}\n"))
	assert.Error(t, err)
	_, err = Parse([]byte("testimonials:\n  - {name: X, rating: 9, text: hi}\n"))
	assert.Error(t, err)
	_, err = Parse([]byte("kits: [\n"))
	assert.Error(t, err)
	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
