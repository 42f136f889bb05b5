package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/store"
)

// CreateOrder inserts the order and then stamps the owner's last order date
// and clears the reminder flag. A standalone server has no multi-document
// transactions, so the owner is checked before the insert.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	if _, err := s.GetUser(ctx, o.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("order owner %d: %w", o.UserID, store.ErrNotFound)
		}
		return err
	}
	id, err := s.nextID(ctx, colOrders)
	if err != nil {
		return err
	}
	stamp(&o.CreatedAt, &o.UpdatedAt)
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	o.ID = id
	if _, err := s.db.Collection(colOrders).InsertOne(ctx, newOrderDoc(o)); err != nil {
		o.ID = 0
		return fmt.Errorf("create order: %w", err)
	}
	err = s.updateOne(ctx, colUsers, o.UserID, bson.M{
		"last_order_date": string(models.DateOf(o.CreatedAt)),
		"reminder_sent":   false,
		"updated_at":      toDateTime(o.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("touch order owner: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id int) (*models.OrderDetails, error) {
	var d orderDoc
	if err := s.findOne(ctx, colOrders, id, &d); err != nil {
		return nil, err
	}
	details, err := s.withDetails(ctx, []orderDoc{d})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *Store) ListOrders(ctx context.Context, f store.OrderFilter) ([]models.OrderDetails, error) {
	filter := bson.M{}
	if f.UserID != 0 {
		filter["user_id"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if !f.Since.IsZero() {
		filter["created_at"] = bson.M{"$gte": toDateTime(f.Since)}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(f.Offset))
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	docs, err := findAll[orderDoc](ctx, s.db.Collection(colOrders), filter, opts)
	if err != nil {
		return nil, err
	}
	return s.withDetails(ctx, docs)
}

// withDetails joins orders with their kits and owners in two lookups.
func (s *Store) withDetails(ctx context.Context, docs []orderDoc) ([]models.OrderDetails, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	kitIDs := make([]int, 0, len(docs))
	userIDs := make([]int, 0, len(docs))
	for _, d := range docs {
		kitIDs = append(kitIDs, d.KitID)
		userIDs = append(userIDs, d.UserID)
	}

	kits, err := findAll[kitDoc](ctx, s.db.Collection(colKits), bson.M{"_id": bson.M{"$in": kitIDs}})
	if err != nil {
		return nil, err
	}
	kitByID := make(map[int]kitDoc, len(kits))
	for _, k := range kits {
		kitByID[k.ID] = k
	}
	users, err := findAll[userDoc](ctx, s.db.Collection(colUsers), bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	userByID := make(map[int]userDoc, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	out := make([]models.OrderDetails, 0, len(docs))
	for _, d := range docs {
		details := models.OrderDetails{Order: d.model()}
		if k, ok := kitByID[d.KitID]; ok {
			details.KitName = k.Name
			details.KitType = models.KitType(k.Type)
			details.KitBasePrice = k.BasePrice
		}
		if u, ok := userByID[d.UserID]; ok {
			details.UserName = u.Name
			details.UserEmail = u.Email
			details.UserMobile = u.Mobile
		}
		out = append(out, details)
	}
	return out, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) error {
	return s.updateOne(ctx, colOrders, id, bson.M{"status": string(status), "updated_at": now()})
}

func (s *Store) MarkOrderNotified(ctx context.Context, id int) error {
	return s.updateOne(ctx, colOrders, id, bson.M{"notification_sent": true, "updated_at": now()})
}

// KitSales groups orders in the given status by kit, best sellers first.
func (s *Store) KitSales(ctx context.Context, status models.OrderStatus) ([]store.KitSales, error) {
	pipeline := bson.A{
		bson.M{"$match": bson.M{"status": string(status)}},
		bson.M{"$group": bson.M{
			"_id":     "$kit_id",
			"orders":  bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$total_amount"},
		}},
		bson.M{"$sort": bson.D{{Key: "orders", Value: -1}, {Key: "_id", Value: 1}}},
	}
	cur, err := s.db.Collection(colOrders).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("kit sales: %w", err)
	}
	var groups []struct {
		KitID   int     `bson:"_id"`
		Orders  int     `bson:"orders"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("decode kit sales: %w", err)
	}
	if len(groups) == 0 {
		return nil, nil
	}

	ids := make([]int, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.KitID)
	}
	kits, err := findAll[kitDoc](ctx, s.db.Collection(colKits), bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(kits))
	for _, k := range kits {
		names[k.ID] = k.Name
	}

	sales := make([]store.KitSales, 0, len(groups))
	for _, g := range groups {
		sales = append(sales, store.KitSales{KitID: g.KitID, KitName: names[g.KitID], Orders: g.Orders, Revenue: g.Revenue})
	}
	return sales, nil
}
