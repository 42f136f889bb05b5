package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/store"
)

type UserStats struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Inactive       int `json:"inactive"`
	DueForReminder int `json:"due_for_reminder"`
}

type OrderStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	ThisWeek  int `json:"this_week"`
	ThisMonth int `json:"this_month"`
}

// RevenueStats only counts completed orders.
type RevenueStats struct {
	Total             float64 `json:"total"`
	ThisWeek          float64 `json:"this_week"`
	ThisMonth         float64 `json:"this_month"`
	AverageOrderValue float64 `json:"average_order_value"`
}

type Availability struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

type ProductStats struct {
	Kits      Availability `json:"kits"`
	Fruits    Availability `json:"fruits"`
	Nutrients Availability `json:"nutrients"`
}

type DashboardStats struct {
	Users    UserStats    `json:"users"`
	Orders   OrderStats   `json:"orders"`
	Revenue  RevenueStats `json:"revenue"`
	Products ProductStats `json:"products"`
}

// TopProducts is the best-selling kits report.
type TopProducts struct {
	TopKits      []store.KitSales `json:"top_kits"`
	TotalRevenue float64          `json:"total_revenue"`
}

type adminRepository interface {
	ListUsers(ctx context.Context, offset, limit int) ([]models.User, error)
	ListOrders(ctx context.Context, f store.OrderFilter) ([]models.OrderDetails, error)
	KitSales(ctx context.Context, status models.OrderStatus) ([]store.KitSales, error)
	ListKits(ctx context.Context, availableOnly bool) ([]models.Kit, error)
	ListAddOns(ctx context.Context, kind models.AddOnKind, availableOnly bool) ([]models.AddOn, error)
}

// Admin computes dashboard figures from the storage contract, so every
// adapter supports them without adapter-specific queries.
type Admin struct {
	repo      adminRepository
	reminders *Reminders
	Now       func() time.Time
}

func NewAdmin(repo adminRepository, reminders *Reminders) *Admin {
	return &Admin{repo: repo, reminders: reminders, Now: time.Now}
}

func (a *Admin) Stats(ctx context.Context) (*DashboardStats, error) {
	var st DashboardStats
	today := models.DateOf(clock(a.Now)())
	weekAgo := today.AddDays(-7).Time()
	monthAgo := today.AddDays(-30).Time()

	users, err := a.repo.ListUsers(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("dashboard users: %w", err)
	}
	st.Users.Total = len(users)
	for _, u := range users {
		if u.IsActive {
			st.Users.Active++
		}
	}
	st.Users.Inactive = st.Users.Total - st.Users.Active
	due, err := a.reminders.DueUsers(ctx)
	if err != nil {
		return nil, err
	}
	st.Users.DueForReminder = len(due)

	orders, err := a.repo.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("dashboard orders: %w", err)
	}
	st.Orders.Total = len(orders)
	completed := 0
	for _, o := range orders {
		inWeek := !o.CreatedAt.Before(weekAgo)
		inMonth := !o.CreatedAt.Before(monthAgo)
		if inWeek {
			st.Orders.ThisWeek++
		}
		if inMonth {
			st.Orders.ThisMonth++
		}
		switch o.Status {
		case models.OrderPending:
			st.Orders.Pending++
		case models.OrderCancelled:
			st.Orders.Cancelled++
		case models.OrderCompleted:
			st.Orders.Completed++
			completed++
			st.Revenue.Total += o.TotalAmount
			if inWeek {
				st.Revenue.ThisWeek += o.TotalAmount
			}
			if inMonth {
				st.Revenue.ThisMonth += o.TotalAmount
			}
		}
	}
	if completed > 0 {
		st.Revenue.AverageOrderValue = st.Revenue.Total / float64(completed)
	}

	if st.Products.Kits, err = a.kitAvailability(ctx); err != nil {
		return nil, err
	}
	if st.Products.Fruits, err = a.addOnAvailability(ctx, models.Fruits); err != nil {
		return nil, err
	}
	if st.Products.Nutrients, err = a.addOnAvailability(ctx, models.Nutrients); err != nil {
		return nil, err
	}
	return &st, nil
}

func (a *Admin) kitAvailability(ctx context.Context) (Availability, error) {
	kits, err := a.repo.ListKits(ctx, false)
	if err != nil {
		return Availability{}, fmt.Errorf("dashboard kits: %w", err)
	}
	av := Availability{Total: len(kits)}
	for _, k := range kits {
		if k.IsAvailable {
			av.Available++
		}
	}
	return av, nil
}

func (a *Admin) addOnAvailability(ctx context.Context, kind models.AddOnKind) (Availability, error) {
	items, err := a.repo.ListAddOns(ctx, kind, false)
	if err != nil {
		return Availability{}, fmt.Errorf("dashboard %s: %w", kind, err)
	}
	av := Availability{Total: len(items)}
	for _, it := range items {
		if it.IsAvailable {
			av.Available++
		}
	}
	return av, nil
}

// TopProducts ranks kits by completed sales; limit <= 0 keeps them all.
func (a *Admin) TopProducts(ctx context.Context, limit int) (*TopProducts, error) {
	sales, err := a.repo.KitSales(ctx, models.OrderCompleted)
	if err != nil {
		return nil, fmt.Errorf("kit sales: %w", err)
	}
	out := &TopProducts{TopKits: sales}
	for _, s := range sales {
		out.TotalRevenue += s.Revenue
	}
	if limit > 0 && len(out.TopKits) > limit {
		out.TopKits = out.TopKits[:limit]
	}
	if out.TopKits == nil {
		out.TopKits = []store.KitSales{}
	}
	return out, nil
}
