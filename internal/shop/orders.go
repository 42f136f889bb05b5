package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/notify"
	"github.com/Harikrish-25/period-care/internal/store"
	"github.com/Harikrish-25/period-care/internal/telemetry"
)

// PlaceOrder is a customer's checkout request.
type PlaceOrder struct {
	models.Selection
	ScheduledDate   models.Date `json:"scheduled_date"`
	DeliveryAddress string      `json:"delivery_address"`
}

type orderRepository interface {
	OrderRepository
	CatalogReader
}

type Orders struct {
	repo   orderRepository
	calc   *Calculator
	notify Notifier
	logger *slog.Logger
	Now    func() time.Time
}

func NewOrders(repo orderRepository, calc *Calculator, n Notifier, logger *slog.Logger) *Orders {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orders{repo: repo, calc: calc, notify: n, logger: logger, Now: time.Now}
}

// Calculate prices a selection without placing an order.
func (o *Orders) Calculate(ctx context.Context, sel models.Selection) (*models.OrderCalculation, error) {
	q, err := o.calc.Calculate(ctx, sel)
	if err != nil {
		return nil, err
	}
	return &q.OrderCalculation, nil
}

// Place prices the selection, stores the order with its total frozen and
// notifies the admin and the customer. The add-on ids are stored as
// requested; only the priced ones count towards the total. Notification failures do not fail
// the order.
func (o *Orders) Place(ctx context.Context, userID int, req PlaceOrder) (*models.OrderDetails, error) {
	now := clock(o.Now)()
	req.DeliveryAddress = strings.TrimSpace(req.DeliveryAddress)
	if req.DeliveryAddress == "" {
		return nil, fmt.Errorf("%w: delivery address is required", ErrInvalidInput)
	}
	if req.ScheduledDate.IsZero() {
		return nil, fmt.Errorf("%w: scheduled date is required", ErrInvalidInput)
	}
	if req.ScheduledDate < models.DateOf(now) {
		return nil, fmt.Errorf("%w: scheduled date %s is in the past", ErrInvalidInput, req.ScheduledDate)
	}

	q, err := o.calc.Calculate(ctx, req.Selection)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:            userID,
		KitID:             q.Kit.ID,
		SelectedFruits:    req.SelectedFruits,
		SelectedNutrients: req.SelectedNutrients,
		ScheduledDate:     req.ScheduledDate,
		DeliveryAddress:   req.DeliveryAddress,
		TotalAmount:       q.TotalAmount,
		Status:            models.OrderPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := o.repo.CreateOrder(ctx, order); err != nil {
		return nil, notFound(err, "user", userID)
	}
	telemetry.OrdersPlaced.Inc()
	telemetry.OrderRevenue.Add(order.TotalAmount)
	o.logger.Info("Order placed", "order_id", order.ID, "user_id", userID, "total", order.TotalAmount)

	details, err := o.repo.GetOrder(ctx, order.ID)
	if err != nil {
		o.logger.Error("Failed to reload order", "order_id", order.ID, "error", err)
		details = &models.OrderDetails{Order: *order, KitName: q.Kit.Name, KitType: q.Kit.Type, KitBasePrice: q.Kit.BasePrice}
	}

	msg := notify.OrderMessage{Order: *details, Fruits: q.Fruits, Nutrients: q.Nutrients}
	if o.notify.OrderPlaced(ctx, msg) {
		if err := o.repo.MarkOrderNotified(ctx, order.ID); err != nil {
			o.logger.Error("Failed to flag order as notified", "order_id", order.ID, "error", err)
		} else {
			details.NotificationSent = true
		}
	}
	o.notify.OrderConfirmation(ctx, msg)
	return details, nil
}

// Get returns an order to its owner or to an admin.
func (o *Orders) Get(ctx context.Context, requester *models.User, id int) (*models.OrderDetails, error) {
	d, err := o.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	if requester == nil || (d.UserID != requester.ID && !requester.IsAdmin()) {
		return nil, fmt.Errorf("%w: not your order", ErrForbidden)
	}
	return d, nil
}

func (o *Orders) ListForUser(ctx context.Context, userID, offset, limit int) ([]models.OrderDetails, error) {
	return o.repo.ListOrders(ctx, store.OrderFilter{UserID: userID, Offset: offset, Limit: limit})
}

func (o *Orders) ListAll(ctx context.Context, offset, limit int) ([]models.OrderDetails, error) {
	return o.repo.ListOrders(ctx, store.OrderFilter{Offset: offset, Limit: limit})
}

func (o *Orders) ListByStatus(ctx context.Context, status models.OrderStatus, offset, limit int) ([]models.OrderDetails, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, status)
	}
	return o.repo.ListOrders(ctx, store.OrderFilter{Status: status, Offset: offset, Limit: limit})
}

// Recent lists orders created since the start of the day days ago.
func (o *Orders) Recent(ctx context.Context, days, limit int) ([]models.OrderDetails, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days must not be negative", ErrInvalidInput)
	}
	since := models.DateOf(clock(o.Now)()).AddDays(-days).Time()
	return o.repo.ListOrders(ctx, store.OrderFilter{Since: since, Limit: limit})
}

func (o *Orders) UpdateStatus(ctx context.Context, id int, status models.OrderStatus) (*models.OrderDetails, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, status)
	}
	if err := o.repo.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, notFound(err, "order", id)
	}
	o.logger.Info("Order status updated", "order_id", id, "status", status)
	d, err := o.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return d, nil
}

// Renotify sends the admin order message again and reports whether it went
// out.
func (o *Orders) Renotify(ctx context.Context, id int) (bool, error) {
	d, err := o.repo.GetOrder(ctx, id)
	if err != nil {
		return false, notFound(err, "order", id)
	}
	msg := notify.OrderMessage{
		Order:     *d,
		Fruits:    o.lookupAddOns(ctx, models.Fruits, d.SelectedFruits),
		Nutrients: o.lookupAddOns(ctx, models.Nutrients, d.SelectedNutrients),
	}
	if !o.notify.OrderPlaced(ctx, msg) {
		return false, nil
	}
	if err := o.repo.MarkOrderNotified(ctx, id); err != nil {
		return true, fmt.Errorf("flag order %d as notified: %w", id, err)
	}
	return true, nil
}

// lookupAddOns resolves stored ids for display; ids deleted since the order
// was placed are left out.
func (o *Orders) lookupAddOns(ctx context.Context, kind models.AddOnKind, ids models.IDList) []models.AddOn {
	out := make([]models.AddOn, 0, len(ids))
	for _, id := range ids {
		a, err := o.repo.GetAddOn(ctx, kind, id)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				o.logger.Warn("Failed to load add-on", "kind", kind, "id", id, "error", err)
			}
			continue
		}
		out = append(out, *a)
	}
	return out
}
