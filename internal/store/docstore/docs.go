package docstore

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Harikrish-25/period-care/internal/models"
)

type kitDoc struct {
	ID            int                `bson:"_id"`
	Name          string             `bson:"name"`
	Type          string             `bson:"type"`
	BasePrice     float64            `bson:"base_price"`
	ImageURL      string             `bson:"image_url"`
	IncludedItems []string           `bson:"included_items"`
	Description   string             `bson:"description"`
	IsAvailable   bool               `bson:"is_available"`
	CreatedAt     primitive.DateTime `bson:"created_at"`
	UpdatedAt     primitive.DateTime `bson:"updated_at"`
}

func newKitDoc(k *models.Kit) kitDoc {
	items := k.IncludedItems
	if items == nil {
		items = []string{}
	}
	return kitDoc{
		ID:            k.ID,
		Name:          k.Name,
		Type:          string(k.Type),
		BasePrice:     k.BasePrice,
		ImageURL:      k.ImageURL,
		IncludedItems: items,
		Description:   k.Description,
		IsAvailable:   k.IsAvailable,
		CreatedAt:     toDateTime(k.CreatedAt),
		UpdatedAt:     toDateTime(k.UpdatedAt),
	}
}

func (d kitDoc) model() models.Kit {
	return models.Kit{
		ID:            d.ID,
		Name:          d.Name,
		Type:          models.KitType(d.Type),
		BasePrice:     d.BasePrice,
		ImageURL:      d.ImageURL,
		IncludedItems: d.IncludedItems,
		Description:   d.Description,
		IsAvailable:   d.IsAvailable,
		CreatedAt:     fromDateTime(d.CreatedAt),
		UpdatedAt:     fromDateTime(d.UpdatedAt),
	}
}

type addOnDoc struct {
	ID          int                `bson:"_id"`
	Name        string             `bson:"name"`
	Price       float64            `bson:"price"`
	Description string             `bson:"description"`
	EmojiIcon   string             `bson:"emoji_icon,omitempty"`
	IsAvailable bool               `bson:"is_available"`
	CreatedAt   primitive.DateTime `bson:"created_at"`
	UpdatedAt   primitive.DateTime `bson:"updated_at"`
}

func newAddOnDoc(a *models.AddOn) addOnDoc {
	return addOnDoc{
		ID:          a.ID,
		Name:        a.Name,
		Price:       a.Price,
		Description: a.Description,
		EmojiIcon:   a.EmojiIcon,
		IsAvailable: a.IsAvailable,
		CreatedAt:   toDateTime(a.CreatedAt),
		UpdatedAt:   toDateTime(a.UpdatedAt),
	}
}

func (d addOnDoc) model(kind models.AddOnKind) models.AddOn {
	return models.AddOn{
		ID:          d.ID,
		Kind:        kind,
		Name:        d.Name,
		Price:       d.Price,
		Description: d.Description,
		EmojiIcon:   d.EmojiIcon,
		IsAvailable: d.IsAvailable,
		CreatedAt:   fromDateTime(d.CreatedAt),
		UpdatedAt:   fromDateTime(d.UpdatedAt),
	}
}

type userDoc struct {
	ID            int                `bson:"_id"`
	Name          string             `bson:"name"`
	Email         string             `bson:"email"`
	EmailLower    string             `bson:"email_lower"`
	Mobile        string             `bson:"mobile"`
	Address       string             `bson:"address"`
	Password      string             `bson:"password"`
	Role          string             `bson:"role"`
	LastOrderDate string             `bson:"last_order_date,omitempty"`
	ReminderSent  bool               `bson:"reminder_sent"`
	IsActive      bool               `bson:"is_active"`
	CreatedAt     primitive.DateTime `bson:"created_at"`
	UpdatedAt     primitive.DateTime `bson:"updated_at"`
}

func newUserDoc(u *models.User) userDoc {
	email := strings.TrimSpace(u.Email)
	d := userDoc{
		ID:           u.ID,
		Name:         u.Name,
		Email:        email,
		EmailLower:   strings.ToLower(email),
		Mobile:       u.Mobile,
		Address:      u.Address,
		Password:     u.Password,
		Role:         string(u.Role),
		ReminderSent: u.ReminderSent,
		IsActive:     u.IsActive,
		CreatedAt:    toDateTime(u.CreatedAt),
		UpdatedAt:    toDateTime(u.UpdatedAt),
	}
	if u.LastOrderDate != nil {
		d.LastOrderDate = string(*u.LastOrderDate)
	}
	return d
}

func (d userDoc) model() models.User {
	u := models.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		Mobile:       d.Mobile,
		Address:      d.Address,
		Password:     d.Password,
		Role:         models.Role(d.Role),
		ReminderSent: d.ReminderSent,
		IsActive:     d.IsActive,
		CreatedAt:    fromDateTime(d.CreatedAt),
		UpdatedAt:    fromDateTime(d.UpdatedAt),
	}
	if d.LastOrderDate != "" {
		day := models.Date(d.LastOrderDate)
		u.LastOrderDate = &day
	}
	return u
}

type orderDoc struct {
	ID                int                `bson:"_id"`
	UserID            int                `bson:"user_id"`
	KitID             int                `bson:"kit_id"`
	SelectedFruits    []int              `bson:"selected_fruits"`
	SelectedNutrients []int              `bson:"selected_nutrients"`
	ScheduledDate     string             `bson:"scheduled_date"`
	DeliveryAddress   string             `bson:"delivery_address"`
	TotalAmount       float64            `bson:"total_amount"`
	Status            string             `bson:"status"`
	NotificationSent  bool               `bson:"notification_sent"`
	CreatedAt         primitive.DateTime `bson:"created_at"`
	UpdatedAt         primitive.DateTime `bson:"updated_at"`
}

func newOrderDoc(o *models.Order) orderDoc {
	return orderDoc{
		ID:                o.ID,
		UserID:            o.UserID,
		KitID:             o.KitID,
		SelectedFruits:    nonNilInts(o.SelectedFruits),
		SelectedNutrients: nonNilInts(o.SelectedNutrients),
		ScheduledDate:     string(o.ScheduledDate),
		DeliveryAddress:   o.DeliveryAddress,
		TotalAmount:       o.TotalAmount,
		Status:            string(o.Status),
		NotificationSent:  o.NotificationSent,
		CreatedAt:         toDateTime(o.CreatedAt),
		UpdatedAt:         toDateTime(o.UpdatedAt),
	}
}

func (d orderDoc) model() models.Order {
	o := models.Order{
		ID:               d.ID,
		UserID:           d.UserID,
		KitID:            d.KitID,
		ScheduledDate:    models.Date(d.ScheduledDate),
		DeliveryAddress:  d.DeliveryAddress,
		TotalAmount:      d.TotalAmount,
		Status:           models.OrderStatus(d.Status),
		NotificationSent: d.NotificationSent,
		CreatedAt:        fromDateTime(d.CreatedAt),
		UpdatedAt:        fromDateTime(d.UpdatedAt),
	}
	if len(d.SelectedFruits) > 0 {
		o.SelectedFruits = d.SelectedFruits
	}
	if len(d.SelectedNutrients) > 0 {
		o.SelectedNutrients = d.SelectedNutrients
	}
	return o
}

type reminderDoc struct {
	ID            int                 `bson:"_id"`
	UserID        int                 `bson:"user_id"`
	Type          string              `bson:"reminder_type"`
	LastOrderDate string              `bson:"last_order_date"`
	ReminderDate  *primitive.DateTime `bson:"reminder_date,omitempty"`
	Status        string              `bson:"status"`
	AdminNotified bool                `bson:"admin_notified"`
	CreatedAt     primitive.DateTime  `bson:"created_at"`
	UpdatedAt     primitive.DateTime  `bson:"updated_at"`
}

func newReminderDoc(r *models.Reminder) reminderDoc {
	d := reminderDoc{
		ID:            r.ID,
		UserID:        r.UserID,
		Type:          string(r.Type),
		LastOrderDate: string(r.LastOrderDate),
		Status:        string(r.Status),
		AdminNotified: r.AdminNotified,
		CreatedAt:     toDateTime(r.CreatedAt),
		UpdatedAt:     toDateTime(r.UpdatedAt),
	}
	if r.ReminderDate != nil {
		dt := toDateTime(*r.ReminderDate)
		d.ReminderDate = &dt
	}
	return d
}

func (d reminderDoc) model() models.Reminder {
	r := models.Reminder{
		ID:            d.ID,
		UserID:        d.UserID,
		Type:          models.ReminderType(d.Type),
		LastOrderDate: models.Date(d.LastOrderDate),
		Status:        models.ReminderStatus(d.Status),
		AdminNotified: d.AdminNotified,
		CreatedAt:     fromDateTime(d.CreatedAt),
		UpdatedAt:     fromDateTime(d.UpdatedAt),
	}
	if d.ReminderDate != nil {
		t := fromDateTime(*d.ReminderDate)
		r.ReminderDate = &t
	}
	return r
}

type benefitDoc struct {
	ID           int                `bson:"_id"`
	Title        string             `bson:"title"`
	Description  string             `bson:"description"`
	IconEmoji    string             `bson:"icon_emoji"`
	DisplayOrder int                `bson:"display_order"`
	IsActive     bool               `bson:"is_active"`
	CreatedAt    primitive.DateTime `bson:"created_at"`
	UpdatedAt    primitive.DateTime `bson:"updated_at"`
}

func newBenefitDoc(b *models.Benefit) benefitDoc {
	return benefitDoc{
		ID:           b.ID,
		Title:        b.Title,
		Description:  b.Description,
		IconEmoji:    b.IconEmoji,
		DisplayOrder: b.DisplayOrder,
		IsActive:     b.IsActive,
		CreatedAt:    toDateTime(b.CreatedAt),
		UpdatedAt:    toDateTime(b.UpdatedAt),
	}
}

func (d benefitDoc) model() models.Benefit {
	return models.Benefit{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		IconEmoji:    d.IconEmoji,
		DisplayOrder: d.DisplayOrder,
		IsActive:     d.IsActive,
		CreatedAt:    fromDateTime(d.CreatedAt),
		UpdatedAt:    fromDateTime(d.UpdatedAt),
	}
}

type testimonialDoc struct {
	ID         int                `bson:"_id"`
	Name       string             `bson:"name"`
	Rating     int                `bson:"rating"`
	Text       string             `bson:"testimonial_text"`
	Location   string             `bson:"location"`
	IsFeatured bool               `bson:"is_featured"`
	IsActive   bool               `bson:"is_active"`
	CreatedAt  primitive.DateTime `bson:"created_at"`
	UpdatedAt  primitive.DateTime `bson:"updated_at"`
}

func newTestimonialDoc(t *models.Testimonial) testimonialDoc {
	return testimonialDoc{
		ID:         t.ID,
		Name:       t.Name,
		Rating:     t.Rating,
		Text:       t.Text,
		Location:   t.Location,
		IsFeatured: t.IsFeatured,
		IsActive:   t.IsActive,
		CreatedAt:  toDateTime(t.CreatedAt),
		UpdatedAt:  toDateTime(t.UpdatedAt),
	}
}

func (d testimonialDoc) model() models.Testimonial {
	return models.Testimonial{
		ID:         d.ID,
		Name:       d.Name,
		Rating:     d.Rating,
		Text:       d.Text,
		Location:   d.Location,
		IsFeatured: d.IsFeatured,
		IsActive:   d.IsActive,
		CreatedAt:  fromDateTime(d.CreatedAt),
		UpdatedAt:  fromDateTime(d.UpdatedAt),
	}
}

func nonNilInts(ids models.IDList) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
