package models

import (
	"time"
)

type KitType string

const (
	KitBasic   KitType = "basic"
	KitMedium  KitType = "medium"
	KitPremium KitType = "premium"
)

func (t KitType) Valid() bool {
	switch t {
	case KitBasic, KitMedium, KitPremium:
		return true
	}
	return false
}

type Kit struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Type          KitType   `json:"type"`
	BasePrice     float64   `json:"base_price"`
	ImageURL      string    `json:"image_url"`
	IncludedItems []string  `json:"included_items"`
	Description   string    `json:"description"`
	IsAvailable   bool      `json:"is_available"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AddOnKind distinguishes the two add-on tables. Fruits and nutrients share
// one shape and one set of storage operations.
type AddOnKind string

const (
	Fruits    AddOnKind = "fruits"
	Nutrients AddOnKind = "nutrients"
)

// AddOn is a fruit or nutrient sold alongside a kit.
type AddOn struct {
	ID          int       `json:"id"`
	Kind        AddOnKind `json:"-"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"` // benefits for fruits
	EmojiIcon   string    `json:"emoji_icon,omitempty"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID                int         `json:"id"`
	UserID            int         `json:"user_id"`
	KitID             int         `json:"kit_id"`
	SelectedFruits    IDList      `json:"selected_fruits"`
	SelectedNutrients IDList      `json:"selected_nutrients"`
	ScheduledDate     Date        `json:"scheduled_date"`
	DeliveryAddress   string      `json:"delivery_address"`
	TotalAmount       float64     `json:"total_amount"`
	Status            OrderStatus `json:"status"`
	NotificationSent  bool        `json:"notification_sent"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// OrderDetails is an order joined with its owner and kit, for admin views
// and notification messages.
type OrderDetails struct {
	Order
	KitName      string  `json:"kit_name"`
	KitType      KitType `json:"kit_type"`
	KitBasePrice float64 `json:"kit_base_price"`
	UserName     string  `json:"user_name"`
	UserEmail    string  `json:"user_email"`
	UserMobile   string  `json:"user_mobile"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Mobile        string    `json:"mobile"`
	Address       string    `json:"address"`
	Password      string    `json:"-"` // bcrypt hash
	Role          Role      `json:"role"`
	LastOrderDate *Date     `json:"last_order_date"`
	ReminderSent  bool      `json:"reminder_sent"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type ReminderType string

const (
	ReminderMonthly ReminderType = "monthly_reorder"
	ReminderManual  ReminderType = "manual_reminder"
)

type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderSent      ReminderStatus = "sent"
	ReminderCompleted ReminderStatus = "completed"
)

func (s ReminderStatus) rank() int {
	switch s {
	case ReminderPending:
		return 1
	case ReminderSent:
		return 2
	case ReminderCompleted:
		return 3
	}
	return 0
}

// CanAdvanceTo reports whether a reminder in status s may move to next.
// Statuses only ever move forward.
func (s ReminderStatus) CanAdvanceTo(next ReminderStatus) bool {
	return s.rank() > 0 && next.rank() > s.rank()
}

type Reminder struct {
	ID            int            `json:"id"`
	UserID        int            `json:"user_id"`
	Type          ReminderType   `json:"reminder_type"`
	LastOrderDate Date           `json:"last_order_date"`
	ReminderDate  *time.Time     `json:"reminder_date"`
	Status        ReminderStatus `json:"status"`
	AdminNotified bool           `json:"admin_notified"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ReminderWithUser carries the contact fields admins need next to a reminder.
type ReminderWithUser struct {
	Reminder
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	UserMobile string `json:"user_mobile"`
}

type Benefit struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	IconEmoji    string    `json:"icon_emoji"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Testimonial struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Rating     int       `json:"rating"`
	Text       string    `json:"testimonial_text"`
	Location   string    `json:"location"`
	IsFeatured bool      `json:"is_featured"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
