package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Harikrish-25/period-care/internal/models"
)

func (s *Store) ListKits(ctx context.Context, availableOnly bool) ([]models.Kit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "base_price", Value: 1}, {Key: "_id", Value: 1}})
	docs, err := findAll[kitDoc](ctx, s.db.Collection(colKits), activeFilter("is_available", availableOnly), opts)
	if err != nil {
		return nil, err
	}
	return kitModels(docs), nil
}

func (s *Store) ListKitsByType(ctx context.Context, kitType models.KitType) ([]models.Kit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	docs, err := findAll[kitDoc](ctx, s.db.Collection(colKits), bson.M{"type": string(kitType), "is_available": true}, opts)
	if err != nil {
		return nil, err
	}
	return kitModels(docs), nil
}

func kitModels(docs []kitDoc) []models.Kit {
	var kits []models.Kit
	for _, d := range docs {
		kits = append(kits, d.model())
	}
	return kits
}

func (s *Store) GetKit(ctx context.Context, id int) (*models.Kit, error) {
	var d kitDoc
	if err := s.findOne(ctx, colKits, id, &d); err != nil {
		return nil, err
	}
	k := d.model()
	return &k, nil
}

func (s *Store) CreateKit(ctx context.Context, kit *models.Kit) error {
	id, err := s.nextID(ctx, colKits)
	if err != nil {
		return err
	}
	stamp(&kit.CreatedAt, &kit.UpdatedAt)
	kit.ID = id
	if _, err := s.db.Collection(colKits).InsertOne(ctx, newKitDoc(kit)); err != nil {
		kit.ID = 0
		return fmt.Errorf("create kit: %w", err)
	}
	return nil
}

func (s *Store) UpdateKit(ctx context.Context, kit *models.Kit) error {
	kit.UpdatedAt = time.Now().UTC()
	d := newKitDoc(kit)
	return s.updateOne(ctx, colKits, kit.ID, bson.M{
		"name":           d.Name,
		"type":           d.Type,
		"base_price":     d.BasePrice,
		"image_url":      d.ImageURL,
		"included_items": d.IncludedItems,
		"description":    d.Description,
		"is_available":   d.IsAvailable,
		"updated_at":     d.UpdatedAt,
	})
}

func (s *Store) SetKitImage(ctx context.Context, id int, imageURL string) error {
	return s.updateOne(ctx, colKits, id, bson.M{"image_url": imageURL, "updated_at": now()})
}

func (s *Store) DeleteKit(ctx context.Context, id int) error {
	return s.deleteOne(ctx, colKits, id)
}

func addOnCollection(kind models.AddOnKind) (string, error) {
	switch kind {
	case models.Fruits:
		return colFruits, nil
	case models.Nutrients:
		return colNutrients, nil
	}
	return "", fmt.Errorf("unknown add-on kind %q", kind)
}

func (s *Store) ListAddOns(ctx context.Context, kind models.AddOnKind, availableOnly bool) ([]models.AddOn, error) {
	coll, err := addOnCollection(kind)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	docs, err := findAll[addOnDoc](ctx, s.db.Collection(coll), activeFilter("is_available", availableOnly), opts)
	if err != nil {
		return nil, err
	}
	var items []models.AddOn
	for _, d := range docs {
		items = append(items, d.model(kind))
	}
	return items, nil
}

func (s *Store) GetAddOn(ctx context.Context, kind models.AddOnKind, id int) (*models.AddOn, error) {
	coll, err := addOnCollection(kind)
	if err != nil {
		return nil, err
	}
	var d addOnDoc
	if err := s.findOne(ctx, coll, id, &d); err != nil {
		return nil, err
	}
	a := d.model(kind)
	return &a, nil
}

func (s *Store) CreateAddOn(ctx context.Context, a *models.AddOn) error {
	coll, err := addOnCollection(a.Kind)
	if err != nil {
		return err
	}
	id, err := s.nextID(ctx, coll)
	if err != nil {
		return err
	}
	stamp(&a.CreatedAt, &a.UpdatedAt)
	a.ID = id
	if _, err := s.db.Collection(coll).InsertOne(ctx, newAddOnDoc(a)); err != nil {
		a.ID = 0
		return fmt.Errorf("create %s: %w", coll, err)
	}
	return nil
}

func (s *Store) UpdateAddOn(ctx context.Context, a *models.AddOn) error {
	coll, err := addOnCollection(a.Kind)
	if err != nil {
		return err
	}
	a.UpdatedAt = time.Now().UTC()
	return s.updateOne(ctx, coll, a.ID, bson.M{
		"name":         a.Name,
		"price":        a.Price,
		"description":  a.Description,
		"emoji_icon":   a.EmojiIcon,
		"is_available": a.IsAvailable,
		"updated_at":   toDateTime(a.UpdatedAt),
	})
}

func (s *Store) DeleteAddOn(ctx context.Context, kind models.AddOnKind, id int) error {
	coll, err := addOnCollection(kind)
	if err != nil {
		return err
	}
	return s.deleteOne(ctx, coll, id)
}
