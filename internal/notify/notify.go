// Package notify renders and delivers customer and admin messages over email
// and WhatsApp. Delivery failures are logged and reported as false, never
// returned to callers.
package notify

import (
	"context"
	"log/slog"

	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/telemetry"
)

// OrderMessage is an order with the add-ons it resolved to.
type OrderMessage struct {
	Order     models.OrderDetails
	Fruits    []models.AddOn
	Nutrients []models.AddOn
}

// ReminderMessage is what a reorder reminder says about its recipient.
type ReminderMessage struct {
	Name          string
	Email         string
	Mobile        string
	LastKitName   string
	LastOrderDate string
}

type Notifier struct {
	mail      Mailer
	chat      Chat
	templates *TemplateCache
	logger    *slog.Logger
}

// New loads the message templates; frontendURL is linked from customer
// messages.
func New(mailer Mailer, chat Chat, frontendURL string, logger *slog.Logger) (*Notifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tc := NewTemplateCache()
	tc.AddFunc("site", func() string { return frontendURL })
	if err := tc.LoadDefault(); err != nil {
		return nil, err
	}
	return &Notifier{mail: mailer, chat: chat, templates: tc, logger: logger}, nil
}

func (n *Notifier) email(ctx context.Context, to, tmpl string, data any) bool {
	subject, err := n.templates.Render(tmpl, "subject", data)
	if err != nil {
		n.logger.ErrorContext(ctx, "Failed to render email", "template", tmpl, "error", err)
		return false
	}
	body, err := n.templates.Render(tmpl, "body", data)
	if err != nil {
		n.logger.ErrorContext(ctx, "Failed to render email", "template", tmpl, "error", err)
		return false
	}
	if err := n.mail.Send(ctx, to, subject, body); err != nil {
		n.logger.WarnContext(ctx, "Failed to send email", "template", tmpl, "to", to, "error", err)
		telemetry.Notification("email", false)
		return false
	}
	telemetry.Notification("email", true)
	return true
}

func (n *Notifier) message(ctx context.Context, phone, tmpl string, data any) bool {
	body, err := n.templates.Render(tmpl, "body", data)
	if err != nil {
		n.logger.ErrorContext(ctx, "Failed to render chat message", "template", tmpl, "error", err)
		return false
	}
	if err := n.chat.Send(ctx, phone, body); err != nil {
		n.logger.WarnContext(ctx, "Failed to send chat message", "template", tmpl, "to", phone, "error", err)
		telemetry.Notification("whatsapp", false)
		return false
	}
	telemetry.Notification("whatsapp", true)
	return true
}

// Direct sends text as written. An empty phone means the admin number.
func (n *Notifier) Direct(ctx context.Context, phone, text string) bool {
	if err := n.chat.Send(ctx, phone, text); err != nil {
		n.logger.WarnContext(ctx, "Failed to send chat message", "to", phone, "error", err)
		telemetry.Notification("whatsapp", false)
		return false
	}
	telemetry.Notification("whatsapp", true)
	return true
}

// OrderPlaced tells the admin about a new order.
func (n *Notifier) OrderPlaced(ctx context.Context, msg OrderMessage) bool {
	return n.message(ctx, "", "order_placed", msg)
}

// OrderConfirmation emails the customer a summary of the order.
func (n *Notifier) OrderConfirmation(ctx context.Context, msg OrderMessage) bool {
	return n.email(ctx, msg.Order.UserEmail, "order_confirmation", msg)
}

func (n *Notifier) Welcome(ctx context.Context, u models.User) bool {
	return n.email(ctx, u.Email, "welcome", u)
}

func (n *Notifier) ReminderEmail(ctx context.Context, msg ReminderMessage) bool {
	return n.email(ctx, msg.Email, "reminder_email", msg)
}

// ReminderChat messages the customer's mobile. A customer without a mobile
// number falls back to the admin number.
func (n *Notifier) ReminderChat(ctx context.Context, msg ReminderMessage) bool {
	return n.message(ctx, msg.Mobile, "reminder_chat", msg)
}

// ReminderDigest sends the admin the list of customers reminded in a scan.
func (n *Notifier) ReminderDigest(ctx context.Context, msgs []ReminderMessage) bool {
	if len(msgs) == 0 {
		return false
	}
	return n.message(ctx, "", "reminder_digest", msgs)
}
