// Package shop holds the storefront's business rules: pricing, order
// placement, reorder reminders, accounts, the admin dashboard and site
// content. Services depend on the storage contract below, so the SQLite and
// MongoDB adapters are interchangeable.
package shop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/notify"
	"github.com/Harikrish-25/period-care/internal/store"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidSelection  = errors.New("invalid selection")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type KitRepository interface {
	ListKits(ctx context.Context, availableOnly bool) ([]models.Kit, error)
	ListKitsByType(ctx context.Context, kitType models.KitType) ([]models.Kit, error)
	GetKit(ctx context.Context, id int) (*models.Kit, error)
	CreateKit(ctx context.Context, kit *models.Kit) error
	UpdateKit(ctx context.Context, kit *models.Kit) error
	SetKitImage(ctx context.Context, id int, imageURL string) error
	DeleteKit(ctx context.Context, id int) error
}

type AddOnRepository interface {
	ListAddOns(ctx context.Context, kind models.AddOnKind, availableOnly bool) ([]models.AddOn, error)
	GetAddOn(ctx context.Context, kind models.AddOnKind, id int) (*models.AddOn, error)
	CreateAddOn(ctx context.Context, a *models.AddOn) error
	UpdateAddOn(ctx context.Context, a *models.AddOn) error
	DeleteAddOn(ctx context.Context, kind models.AddOnKind, id int) error
}

type UserRepository interface {
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	UsersDueForReminder(ctx context.Context, from, to models.Date) ([]models.User, error)
	SetReminderSent(ctx context.Context, userID int, sent bool) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id int) (*models.OrderDetails, error)
	ListOrders(ctx context.Context, f store.OrderFilter) ([]models.OrderDetails, error)
	UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) error
	MarkOrderNotified(ctx context.Context, id int) error
	KitSales(ctx context.Context, status models.OrderStatus) ([]store.KitSales, error)
}

type ReminderRepository interface {
	CreateReminder(ctx context.Context, r *models.Reminder) error
	GetReminder(ctx context.Context, id int) (*models.ReminderWithUser, error)
	ListReminders(ctx context.Context, status models.ReminderStatus) ([]models.ReminderWithUser, error)
	UpdateReminderStatus(ctx context.Context, id int, status models.ReminderStatus, at time.Time) error
	SetRemindersAdminNotified(ctx context.Context, ids []int) error
	DeleteCompletedReminders(ctx context.Context, cutoff time.Time) (int, error)
}

type ContentRepository interface {
	ListBenefits(ctx context.Context, activeOnly bool) ([]models.Benefit, error)
	GetBenefit(ctx context.Context, id int) (*models.Benefit, error)
	CreateBenefit(ctx context.Context, b *models.Benefit) error
	UpdateBenefit(ctx context.Context, b *models.Benefit) error
	DeleteBenefit(ctx context.Context, id int) error
	ListTestimonials(ctx context.Context, activeOnly, featuredOnly bool) ([]models.Testimonial, error)
	GetTestimonial(ctx context.Context, id int) (*models.Testimonial, error)
	CreateTestimonial(ctx context.Context, t *models.Testimonial) error
	UpdateTestimonial(ctx context.Context, t *models.Testimonial) error
	DeleteTestimonial(ctx context.Context, id int) error
}

// Repository is the full storage contract every adapter implements.
type Repository interface {
	KitRepository
	AddOnRepository
	UserRepository
	OrderRepository
	ReminderRepository
	ContentRepository
}

// Notifier delivers customer and admin messages. Every method reports
// whether delivery succeeded; failures are never errors.
type Notifier interface {
	OrderPlaced(ctx context.Context, msg notify.OrderMessage) bool
	OrderConfirmation(ctx context.Context, msg notify.OrderMessage) bool
	Welcome(ctx context.Context, u models.User) bool
	ReminderEmail(ctx context.Context, msg notify.ReminderMessage) bool
	ReminderChat(ctx context.Context, msg notify.ReminderMessage) bool
	ReminderDigest(ctx context.Context, msgs []notify.ReminderMessage) bool
}

// notFound translates a storage miss into ErrNotFound naming what was missing.
func notFound(err error, what string, id any) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
	}
	return err
}

func clock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
