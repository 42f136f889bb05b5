package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/store"
)

// AddOnPolicy decides what happens to add-on ids that are unknown or
// unavailable at pricing time.
type AddOnPolicy string

const (
	// PolicySkip drops such ids from the order and its total.
	PolicySkip AddOnPolicy = "skip"
	// PolicyStrict rejects the whole selection.
	PolicyStrict AddOnPolicy = "strict"
)

func ParseAddOnPolicy(s string) (AddOnPolicy, error) {
	switch p := AddOnPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicySkip:
		return PolicySkip, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown add-on policy %q", s)
	}
}

// CatalogReader is the read side of the catalog that pricing needs.
type CatalogReader interface {
	GetKit(ctx context.Context, id int) (*models.Kit, error)
	GetAddOn(ctx context.Context, kind models.AddOnKind, id int) (*models.AddOn, error)
}

// Quote is a priced selection together with the records it resolved to.
type Quote struct {
	models.OrderCalculation
	Kit       models.Kit
	Fruits    []models.AddOn
	Nutrients []models.AddOn
}

type Calculator struct {
	catalog CatalogReader
	policy  AddOnPolicy
}

func NewCalculator(catalog CatalogReader, policy AddOnPolicy) *Calculator {
	if policy == "" {
		policy = PolicySkip
	}
	return &Calculator{catalog: catalog, policy: policy}
}

func (c *Calculator) Policy() AddOnPolicy { return c.policy }

// Calculate prices a kit plus its add-ons. The kit must exist and be
// available; add-ons are handled according to the calculator's policy.
func (c *Calculator) Calculate(ctx context.Context, sel models.Selection) (*Quote, error) {
	kit, err := c.catalog.GetKit(ctx, sel.KitID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !kit.IsAvailable) {
		return nil, fmt.Errorf("%w: kit not found or unavailable", ErrInvalidSelection)
	}
	if err != nil {
		return nil, fmt.Errorf("load kit %d: %w", sel.KitID, err)
	}

	q := &Quote{Kit: *kit}
	q.KitPrice = kit.BasePrice
	q.Breakdown.Kit = models.LineItem{ID: kit.ID, Name: kit.Name, Price: kit.BasePrice}

	q.Fruits, err = c.resolve(ctx, models.Fruits, sel.SelectedFruits)
	if err != nil {
		return nil, err
	}
	q.Nutrients, err = c.resolve(ctx, models.Nutrients, sel.SelectedNutrients)
	if err != nil {
		return nil, err
	}

	q.Breakdown.Fruits, q.FruitsTotal = lineItems(q.Fruits)
	q.Breakdown.Nutrients, q.NutrientsTotal = lineItems(q.Nutrients)
	q.TotalAmount = q.KitPrice + q.FruitsTotal + q.NutrientsTotal
	return q, nil
}

func (c *Calculator) resolve(ctx context.Context, kind models.AddOnKind, ids models.IDList) ([]models.AddOn, error) {
	out := make([]models.AddOn, 0, len(ids))
	for _, id := range ids {
		a, err := c.catalog.GetAddOn(ctx, kind, id)
		switch {
		case errors.Is(err, store.ErrNotFound), err == nil && !a.IsAvailable:
			if c.policy == PolicyStrict {
				return nil, fmt.Errorf("%w: %s %d not found or unavailable", ErrInvalidSelection, kind, id)
			}
			continue
		case err != nil:
			return nil, fmt.Errorf("load %s %d: %w", kind, id, err)
		}
		out = append(out, *a)
	}
	return out, nil
}

func lineItems(addOns []models.AddOn) ([]models.LineItem, float64) {
	items := make([]models.LineItem, 0, len(addOns))
	var total float64
	for _, a := range addOns {
		items = append(items, models.LineItem{ID: a.ID, Name: a.Name, Price: a.Price})
		total += a.Price
	}
	return items, total
}
