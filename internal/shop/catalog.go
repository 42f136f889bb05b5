package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Harikrish-25/period-care/internal/cache"
	"github.com/Harikrish-25/period-care/internal/models"
)

const catalogTTL = 5 * time.Minute

type catalogRepository interface {
	KitRepository
	AddOnRepository
}

// Catalog manages kits, fruits and nutrients. Public listings of available
// items are cached and dropped on every write.
type Catalog struct {
	repo   catalogRepository
	cache  cache.Store
	logger *slog.Logger
}

func NewCatalog(repo catalogRepository, c cache.Store, logger *slog.Logger) *Catalog {
	if c == nil {
		c = cache.NewMemory()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{repo: repo, cache: c, logger: logger}
}

func listKey(kind string) string { return "catalog:" + kind + ":available" }

func (c *Catalog) invalidate(ctx context.Context) {
	c.cache.Delete(ctx, listKey("kits"), listKey(string(models.Fruits)), listKey(string(models.Nutrients)))
}

// cached serves availableOnly listings from the cache, loading on a miss.
func cached[T any](ctx context.Context, c *Catalog, key string, load func() ([]T, error)) ([]T, error) {
	if raw, ok := c.cache.Get(ctx, key); ok {
		var items []T
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
		c.logger.Warn("Dropping unreadable cache entry", "key", key)
	}
	items, err := load()
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(items); err == nil {
		c.cache.Set(ctx, key, raw, catalogTTL)
	}
	return items, nil
}

func validateKit(k *models.Kit) error {
	k.Name = strings.TrimSpace(k.Name)
	if k.Name == "" {
		return fmt.Errorf("%w: kit name is required", ErrInvalidInput)
	}
	if !k.Type.Valid() {
		return fmt.Errorf("%w: kit type must be basic, medium or premium", ErrInvalidInput)
	}
	if k.BasePrice <= 0 {
		return fmt.Errorf("%w: base price must be greater than zero", ErrInvalidInput)
	}
	return nil
}

func validateAddOn(a *models.AddOn) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if a.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than zero", ErrInvalidInput)
	}
	return nil
}

func checkKind(kind models.AddOnKind) error {
	if kind != models.Fruits && kind != models.Nutrients {
		return fmt.Errorf("%w: unknown catalog kind %q", ErrInvalidInput, kind)
	}
	return nil
}

func (c *Catalog) ListKits(ctx context.Context, availableOnly bool) ([]models.Kit, error) {
	if !availableOnly {
		return c.repo.ListKits(ctx, false)
	}
	return cached(ctx, c, listKey("kits"), func() ([]models.Kit, error) {
		return c.repo.ListKits(ctx, true)
	})
}

func (c *Catalog) KitsByType(ctx context.Context, kitType models.KitType) ([]models.Kit, error) {
	if !kitType.Valid() {
		return nil, fmt.Errorf("%w: kit type must be basic, medium or premium", ErrInvalidInput)
	}
	return c.repo.ListKitsByType(ctx, kitType)
}

func (c *Catalog) GetKit(ctx context.Context, id int) (*models.Kit, error) {
	k, err := c.repo.GetKit(ctx, id)
	if err != nil {
		return nil, notFound(err, "kit", id)
	}
	return k, nil
}

func (c *Catalog) CreateKit(ctx context.Context, k *models.Kit) error {
	if err := validateKit(k); err != nil {
		return err
	}
	if err := c.repo.CreateKit(ctx, k); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// UpdateKit replaces an existing kit's editable fields.
func (c *Catalog) UpdateKit(ctx context.Context, k *models.Kit) error {
	if err := validateKit(k); err != nil {
		return err
	}
	if err := c.repo.UpdateKit(ctx, k); err != nil {
		return notFound(err, "kit", k.ID)
	}
	c.invalidate(ctx)
	return nil
}

func (c *Catalog) SetKitImage(ctx context.Context, id int, imageURL string) (*models.Kit, error) {
	if err := c.repo.SetKitImage(ctx, id, imageURL); err != nil {
		return nil, notFound(err, "kit", id)
	}
	c.invalidate(ctx)
	return c.GetKit(ctx, id)
}

func (c *Catalog) DeleteKit(ctx context.Context, id int) error {
	if err := c.repo.DeleteKit(ctx, id); err != nil {
		return notFound(err, "kit", id)
	}
	c.invalidate(ctx)
	return nil
}

func (c *Catalog) ToggleKit(ctx context.Context, id int) (*models.Kit, error) {
	k, err := c.GetKit(ctx, id)
	if err != nil {
		return nil, err
	}
	k.IsAvailable = !k.IsAvailable
	if err := c.repo.UpdateKit(ctx, k); err != nil {
		return nil, notFound(err, "kit", id)
	}
	c.invalidate(ctx)
	return k, nil
}

func (c *Catalog) ListAddOns(ctx context.Context, kind models.AddOnKind, availableOnly bool) ([]models.AddOn, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if !availableOnly {
		return c.repo.ListAddOns(ctx, kind, false)
	}
	items, err := cached(ctx, c, listKey(string(kind)), func() ([]models.AddOn, error) {
		return c.repo.ListAddOns(ctx, kind, true)
	})
	if err != nil {
		return nil, err
	}
	// Kind is not part of the JSON form.
	for i := range items {
		items[i].Kind = kind
	}
	return items, nil
}

func (c *Catalog) GetAddOn(ctx context.Context, kind models.AddOnKind, id int) (*models.AddOn, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	a, err := c.repo.GetAddOn(ctx, kind, id)
	if err != nil {
		return nil, notFound(err, singular(kind), id)
	}
	return a, nil
}

func (c *Catalog) CreateAddOn(ctx context.Context, a *models.AddOn) error {
	if err := checkKind(a.Kind); err != nil {
		return err
	}
	if err := validateAddOn(a); err != nil {
		return err
	}
	if err := c.repo.CreateAddOn(ctx, a); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *Catalog) UpdateAddOn(ctx context.Context, a *models.AddOn) error {
	if err := checkKind(a.Kind); err != nil {
		return err
	}
	if err := validateAddOn(a); err != nil {
		return err
	}
	if err := c.repo.UpdateAddOn(ctx, a); err != nil {
		return notFound(err, singular(a.Kind), a.ID)
	}
	c.invalidate(ctx)
	return nil
}

func (c *Catalog) DeleteAddOn(ctx context.Context, kind models.AddOnKind, id int) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	if err := c.repo.DeleteAddOn(ctx, kind, id); err != nil {
		return notFound(err, singular(kind), id)
	}
	c.invalidate(ctx)
	return nil
}

func (c *Catalog) ToggleAddOn(ctx context.Context, kind models.AddOnKind, id int) (*models.AddOn, error) {
	a, err := c.GetAddOn(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	a.IsAvailable = !a.IsAvailable
	if err := c.repo.UpdateAddOn(ctx, a); err != nil {
		return nil, notFound(err, singular(kind), id)
	}
	c.invalidate(ctx)
	return a, nil
}

func singular(kind models.AddOnKind) string {
	return strings.TrimSuffix(string(kind), "s")
}
