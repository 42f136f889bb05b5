package shop

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/notify"
	"github.com/Harikrish-25/period-care/internal/store"
	"github.com/Harikrish-25/period-care/internal/telemetry"
)

const (
	DefaultReminderOffsetDays = 30
	defaultKitName            = "Period Care Kit"
)

// ReminderPolicy says which users a scan picks up. A user is due when their
// last order fell OffsetDays ago, or with CatchUpDays > 0 up to that many
// days earlier.
type ReminderPolicy struct {
	OffsetDays  int
	CatchUpDays int
}

// ScanResult counts what one reminder scan did.
type ScanResult struct {
	UsersFound    int `json:"users_found"`
	RemindersSent int `json:"reminders_sent"`
	EmailsSent    int `json:"emails_sent"`
	ChatsSent     int `json:"chats_sent"`
	AdminNotified int `json:"admin_notified"`
}

type ReminderStats struct {
	Pending   int `json:"pending"`
	Sent      int `json:"sent"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
	UsersDue  int `json:"users_due"`
}

type reminderRepository interface {
	ReminderRepository
	GetUser(ctx context.Context, id int) (*models.User, error)
	UsersDueForReminder(ctx context.Context, from, to models.Date) ([]models.User, error)
	SetReminderSent(ctx context.Context, userID int, sent bool) error
	ListOrders(ctx context.Context, f store.OrderFilter) ([]models.OrderDetails, error)
}

type Reminders struct {
	repo   reminderRepository
	notify Notifier
	policy ReminderPolicy
	logger *slog.Logger
	Now    func() time.Time
}

func NewReminders(repo reminderRepository, n Notifier, policy ReminderPolicy, logger *slog.Logger) *Reminders {
	if policy.OffsetDays <= 0 {
		policy.OffsetDays = DefaultReminderOffsetDays
	}
	if policy.CatchUpDays < 0 {
		policy.CatchUpDays = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reminders{repo: repo, notify: n, policy: policy, logger: logger, Now: time.Now}
}

// DueUsers returns the active users who have not been reminded and whose
// last order falls in the reminder window ending OffsetDays before today.
func (r *Reminders) DueUsers(ctx context.Context) ([]models.User, error) {
	target := models.DateOf(clock(r.Now)()).AddDays(-r.policy.OffsetDays)
	users, err := r.repo.UsersDueForReminder(ctx, target.AddDays(-r.policy.CatchUpDays), target)
	if err != nil {
		return nil, fmt.Errorf("users due for reminder: %w", err)
	}
	return users, nil
}

// Scan reminds every due user by email and chat. A user's reminder is marked
// sent, and the user flagged, only when at least one channel delivered.
// Per-user storage failures are logged and the scan moves on.
func (r *Reminders) Scan(ctx context.Context) (ScanResult, error) {
	var res ScanResult
	users, err := r.DueUsers(ctx)
	if err != nil {
		return res, err
	}
	telemetry.ReminderScans.Inc()
	res.UsersFound = len(users)
	r.logger.Info("Reminder scan started", "users_due", len(users))

	open, err := r.openReminders(ctx)
	if err != nil {
		return res, err
	}

	var (
		digest []notify.ReminderMessage
		ids    []int
	)
	for _, u := range users {
		now := clock(r.Now)()
		rem, ok := open[reminderKey{u.ID, *u.LastOrderDate}]
		if !ok {
			rem = &models.Reminder{
				UserID:        u.ID,
				Type:          models.ReminderMonthly,
				LastOrderDate: *u.LastOrderDate,
				Status:        models.ReminderPending,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := r.repo.CreateReminder(ctx, rem); err != nil {
				r.logger.Error("Failed to create reminder", "user_id", u.ID, "error", err)
				continue
			}
		}
		ids = append(ids, rem.ID)

		msg := r.message(ctx, u)
		digest = append(digest, msg)

		emailOK := r.notify.ReminderEmail(ctx, msg)
		chatOK := r.notify.ReminderChat(ctx, msg)
		if emailOK {
			res.EmailsSent++
		}
		if chatOK {
			res.ChatsSent++
		}
		if !emailOK && !chatOK {
			r.logger.Warn("Reminder not delivered", "user_id", u.ID, "reminder_id", rem.ID)
			continue
		}

		if err := r.repo.UpdateReminderStatus(ctx, rem.ID, models.ReminderSent, now); err != nil {
			r.logger.Error("Failed to mark reminder sent", "reminder_id", rem.ID, "error", err)
			continue
		}
		if err := r.repo.SetReminderSent(ctx, u.ID, true); err != nil {
			r.logger.Error("Failed to flag user as reminded", "user_id", u.ID, "error", err)
			continue
		}
		res.RemindersSent++
		telemetry.RemindersSent.Inc()
	}

	if len(digest) > 0 && r.notify.ReminderDigest(ctx, digest) {
		res.AdminNotified = 1
		if err := r.repo.SetRemindersAdminNotified(ctx, ids); err != nil {
			r.logger.Error("Failed to flag reminders as admin notified", "error", err)
		}
	}

	r.logger.Info("Reminder scan finished",
		"users_found", res.UsersFound,
		"reminders_sent", res.RemindersSent,
		"emails_sent", res.EmailsSent,
		"chats_sent", res.ChatsSent,
	)
	return res, nil
}

type reminderKey struct {
	userID    int
	lastOrder models.Date
}

// openReminders indexes pending reminders by user and last order date.
func (r *Reminders) openReminders(ctx context.Context) (map[reminderKey]*models.Reminder, error) {
	pending, err := r.repo.ListReminders(ctx, models.ReminderPending)
	if err != nil {
		return nil, fmt.Errorf("pending reminders: %w", err)
	}
	open := make(map[reminderKey]*models.Reminder, len(pending))
	for i := range pending {
		rem := &pending[i].Reminder
		open[reminderKey{rem.UserID, rem.LastOrderDate}] = rem
	}
	return open, nil
}

func (r *Reminders) message(ctx context.Context, u models.User) notify.ReminderMessage {
	msg := notify.ReminderMessage{
		Name:          u.Name,
		Email:         u.Email,
		Mobile:        u.Mobile,
		LastKitName:   defaultKitName,
		LastOrderDate: "N/A",
	}
	if u.LastOrderDate != nil {
		msg.LastOrderDate = u.LastOrderDate.String()
	}
	orders, err := r.repo.ListOrders(ctx, store.OrderFilter{UserID: u.ID, Limit: 1})
	if err != nil {
		r.logger.Warn("Failed to load last order", "user_id", u.ID, "error", err)
	} else if len(orders) > 0 && orders[0].KitName != "" {
		msg.LastKitName = orders[0].KitName
	}
	return msg
}

// SendManual reminds one user now, whatever their order history. On delivery
// a manual reminder is recorded as already sent.
func (r *Reminders) SendManual(ctx context.Context, userID int) (bool, error) {
	u, err := r.repo.GetUser(ctx, userID)
	if err != nil {
		return false, notFound(err, "user", userID)
	}
	msg := r.message(ctx, *u)
	emailOK := r.notify.ReminderEmail(ctx, msg)
	chatOK := r.notify.ReminderChat(ctx, msg)
	if !emailOK && !chatOK {
		return false, nil
	}

	now := clock(r.Now)()
	last := models.DateOf(now)
	if u.LastOrderDate != nil {
		last = *u.LastOrderDate
	}
	rem := &models.Reminder{
		UserID:        u.ID,
		Type:          models.ReminderManual,
		LastOrderDate: last,
		ReminderDate:  &now,
		Status:        models.ReminderSent,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.repo.CreateReminder(ctx, rem); err != nil {
		return true, fmt.Errorf("record manual reminder: %w", err)
	}
	if err := r.repo.SetReminderSent(ctx, u.ID, true); err != nil {
		return true, fmt.Errorf("flag user %d as reminded: %w", u.ID, err)
	}
	telemetry.RemindersSent.Inc()
	return true, nil
}

// Complete closes a reminder. Statuses only move forward, so completing a
// completed reminder fails.
func (r *Reminders) Complete(ctx context.Context, id int) (*models.ReminderWithUser, error) {
	rem, err := r.repo.GetReminder(ctx, id)
	if err != nil {
		return nil, notFound(err, "reminder", id)
	}
	if !rem.Status.CanAdvanceTo(models.ReminderCompleted) {
		return nil, fmt.Errorf("%w: reminder %d is %s", ErrInvalidTransition, id, rem.Status)
	}
	now := clock(r.Now)()
	if err := r.repo.UpdateReminderStatus(ctx, id, models.ReminderCompleted, now); err != nil {
		return nil, notFound(err, "reminder", id)
	}
	rem.Status = models.ReminderCompleted
	rem.UpdatedAt = now
	return rem, nil
}

// Cleanup deletes completed reminders created more than retentionDays ago.
func (r *Reminders) Cleanup(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays < 0 {
		return 0, fmt.Errorf("%w: retention must not be negative", ErrInvalidInput)
	}
	cutoff := clock(r.Now)().AddDate(0, 0, -retentionDays)
	n, err := r.repo.DeleteCompletedReminders(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup reminders: %w", err)
	}
	if n > 0 {
		r.logger.Info("Old reminders removed", "count", n, "retention_days", retentionDays)
	}
	return n, nil
}

// List returns reminders with the given status, or all of them for "".
func (r *Reminders) List(ctx context.Context, status models.ReminderStatus) ([]models.ReminderWithUser, error) {
	switch status {
	case "", models.ReminderPending, models.ReminderSent, models.ReminderCompleted:
	default:
		return nil, fmt.Errorf("%w: unknown reminder status %q", ErrInvalidInput, status)
	}
	return r.repo.ListReminders(ctx, status)
}

func (r *Reminders) Pending(ctx context.Context) ([]models.ReminderWithUser, error) {
	return r.repo.ListReminders(ctx, models.ReminderPending)
}

func (r *Reminders) Stats(ctx context.Context) (ReminderStats, error) {
	var st ReminderStats
	all, err := r.repo.ListReminders(ctx, "")
	if err != nil {
		return st, err
	}
	for _, rem := range all {
		switch rem.Status {
		case models.ReminderPending:
			st.Pending++
		case models.ReminderSent:
			st.Sent++
		case models.ReminderCompleted:
			st.Completed++
		}
	}
	st.Total = len(all)
	due, err := r.DueUsers(ctx)
	if err != nil {
		return st, err
	}
	st.UsersDue = len(due)
	return st, nil
}
