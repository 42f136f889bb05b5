// Package seed loads a starter catalog and landing page content from YAML.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Harikrish-25/period-care/internal/models"
)

//go:embed default.yaml
var defaultCatalog []byte

type Kit struct {
	Name          string   `yaml:"name"`
	Type          string   `yaml:"type"`
	BasePrice     float64  `yaml:"base_price"`
	ImageURL      string   `yaml:"image_url"`
	Description   string   `yaml:"description"`
	IncludedItems []string `yaml:"included_items"`
	Available     *bool    `yaml:"available"`
}

type AddOn struct {
	Name        string  `yaml:"name"`
	Price       float64 `yaml:"price"`
	Description string  `yaml:"description"`
	Emoji       string  `yaml:"emoji"`
	Available   *bool   `yaml:"available"`
}

type Benefit struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Order       int    `yaml:"order"`
}

type Testimonial struct {
	Name     string `yaml:"name"`
	Rating   int    `yaml:"rating"`
	Text     string `yaml:"text"`
	Location string `yaml:"location"`
	Featured bool   `yaml:"featured"`
}

// File is the seed file layout.
type File struct {
	Kits         []Kit         `yaml:"kits"`
	Fruits       []AddOn       `yaml:"fruits"`
	Nutrients    []AddOn       `yaml:"nutrients"`
	Benefits     []Benefit     `yaml:"benefits"`
	Testimonials []Testimonial `yaml:"testimonials"`
}

// Counts reports how many records Apply created.
type Counts struct {
	Kits, Fruits, Nutrients, Benefits, Testimonials int
}

func (c Counts) Total() int {
	return c.Kits + c.Fruits + c.Nutrients + c.Benefits + c.Testimonials
}

// LoadFile reads a seed file, or the built-in catalog when path is empty.
func LoadFile(path string) (*File, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return Parse(data)
}

func Default() (*File, error) {
	return Parse(defaultCatalog)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	for _, k := range f.Kits {
		if !models.KitType(k.Type).Valid() {
			return fmt.Errorf("kit %q: unknown type %q", k.Name, k.Type)
		}
		if k.BasePrice <= 0 {
			return fmt.Errorf("kit %q: base price must be positive", k.Name)
		}
	}
	for _, t := range f.Testimonials {
		if t.Rating < 1 || t.Rating > 5 {
			return fmt.Errorf("testimonial by %q: rating must be between 1 and 5", t.Name)
		}
	}
	return nil
}

// Repository is the subset of the storage contract seeding writes through.
type Repository interface {
	ListKits(ctx context.Context, availableOnly bool) ([]models.Kit, error)
	CreateKit(ctx context.Context, kit *models.Kit) error
	ListAddOns(ctx context.Context, kind models.AddOnKind, availableOnly bool) ([]models.AddOn, error)
	CreateAddOn(ctx context.Context, a *models.AddOn) error
	ListBenefits(ctx context.Context, activeOnly bool) ([]models.Benefit, error)
	CreateBenefit(ctx context.Context, b *models.Benefit) error
	ListTestimonials(ctx context.Context, activeOnly, featuredOnly bool) ([]models.Testimonial, error)
	CreateTestimonial(ctx context.Context, t *models.Testimonial) error
}

func orTrue(b *bool) bool { return b == nil || *b }

func key(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Apply creates every record in f whose name is not already present, so
// seeding twice is harmless.
func Apply(ctx context.Context, repo Repository, f *File) (Counts, error) {
	var c Counts

	kits, err := repo.ListKits(ctx, false)
	if err != nil {
		return c, err
	}
	seen := make(map[string]bool, len(kits))
	for _, k := range kits {
		seen[key(k.Name)] = true
	}
	for _, k := range f.Kits {
		if seen[key(k.Name)] {
			continue
		}
		kit := &models.Kit{
			Name:          k.Name,
			Type:          models.KitType(k.Type),
			BasePrice:     k.BasePrice,
			ImageURL:      k.ImageURL,
			Description:   k.Description,
			IncludedItems: k.IncludedItems,
			IsAvailable:   orTrue(k.Available),
		}
		if err := repo.CreateKit(ctx, kit); err != nil {
			return c, fmt.Errorf("seed kit %q: %w", k.Name, err)
		}
		seen[key(k.Name)] = true
		c.Kits++
	}

	if c.Fruits, err = applyAddOns(ctx, repo, models.Fruits, f.Fruits); err != nil {
		return c, err
	}
	if c.Nutrients, err = applyAddOns(ctx, repo, models.Nutrients, f.Nutrients); err != nil {
		return c, err
	}

	benefits, err := repo.ListBenefits(ctx, false)
	if err != nil {
		return c, err
	}
	seen = make(map[string]bool, len(benefits))
	for _, b := range benefits {
		seen[key(b.Title)] = true
	}
	for _, b := range f.Benefits {
		if seen[key(b.Title)] {
			continue
		}
		if err := repo.CreateBenefit(ctx, &models.Benefit{
			Title:        b.Title,
			Description:  b.Description,
			IconEmoji:    b.Icon,
			DisplayOrder: b.Order,
			IsActive:     true,
		}); err != nil {
			return c, fmt.Errorf("seed benefit %q: %w", b.Title, err)
		}
		seen[key(b.Title)] = true
		c.Benefits++
	}

	testimonials, err := repo.ListTestimonials(ctx, false, false)
	if err != nil {
		return c, err
	}
	seen = make(map[string]bool, len(testimonials))
	for _, t := range testimonials {
		seen[key(t.Name+"|"+t.Text)] = true
	}
	for _, t := range f.Testimonials {
		if seen[key(t.Name+"|"+t.Text)] {
			continue
		}
		if err := repo.CreateTestimonial(ctx, &models.Testimonial{
			Name:       t.Name,
			Rating:     t.Rating,
			Text:       strings.TrimSpace(t.Text),
			Location:   t.Location,
			IsFeatured: t.Featured,
			IsActive:   true,
		}); err != nil {
			return c, fmt.Errorf("seed testimonial by %q: %w", t.Name, err)
		}
		seen[key(t.Name+"|"+t.Text)] = true
		c.Testimonials++
	}
	return c, nil
}

func applyAddOns(ctx context.Context, repo Repository, kind models.AddOnKind, items []AddOn) (int, error) {
	existing, err := repo.ListAddOns(ctx, kind, false)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, a := range existing {
		seen[key(a.Name)] = true
	}
	n := 0
	for _, it := range items {
		if seen[key(it.Name)] {
			continue
		}
		a := &models.AddOn{
			Kind:        kind,
			Name:        it.Name,
			Price:       it.Price,
			Description: it.Description,
			EmojiIcon:   it.Emoji,
			IsAvailable: orTrue(it.Available),
		}
		if err := repo.CreateAddOn(ctx, a); err != nil {
			return n, fmt.Errorf("seed %s %q: %w", kind, it.Name, err)
		}
		seen[key(it.Name)] = true
		n++
	}
	return n, nil
}
