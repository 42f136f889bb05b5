package shop

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/notify"
	"github.com/Harikrish-25/period-care/internal/store"
)

var testNow = time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func openTempStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fakeNotifier records what would have been sent. Each channel succeeds
// unless its fail flag is set.
type fakeNotifier struct {
	mu sync.Mutex

	failPlaced, failEmail, failChat, failDigest bool

	placed        []notify.OrderMessage
	confirmations []notify.OrderMessage
	welcomed      []models.User
	emails        []notify.ReminderMessage
	chats         []notify.ReminderMessage
	digests       [][]notify.ReminderMessage
}

func (f *fakeNotifier) OrderPlaced(_ context.Context, msg notify.OrderMessage) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placed = append(f.placed, msg)
	return !f.failPlaced
}

func (f *fakeNotifier) OrderConfirmation(_ context.Context, msg notify.OrderMessage) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations = append(f.confirmations, msg)
	return !f.failEmail
}

func (f *fakeNotifier) Welcome(_ context.Context, u models.User) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcomed = append(f.welcomed, u)
	return !f.failEmail
}

func (f *fakeNotifier) ReminderEmail(_ context.Context, msg notify.ReminderMessage) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails = append(f.emails, msg)
	return !f.failEmail
}

func (f *fakeNotifier) ReminderChat(_ context.Context, msg notify.ReminderMessage) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, msg)
	return !f.failChat
}

func (f *fakeNotifier) ReminderDigest(_ context.Context, msgs []notify.ReminderMessage) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.digests = append(f.digests, msgs)
	return !f.failDigest
}

func addUser(t *testing.T, s *store.Store, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Asha", Email: email, Mobile: "+919876543210", Address: "12 MG Road", Password: "x", IsActive: true}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func addKit(t *testing.T, s *store.Store, name string, price float64, available bool) *models.Kit {
	t.Helper()
	k := &models.Kit{Name: name, Type: models.KitBasic, BasePrice: price, IncludedItems: []string{"pads"}, IsAvailable: available}
	require.NoError(t, s.CreateKit(context.Background(), k))
	return k
}

func addAddOn(t *testing.T, s *store.Store, kind models.AddOnKind, name string, price float64, available bool) *models.AddOn {
	t.Helper()
	a := &models.AddOn{Kind: kind, Name: name, Price: price, IsAvailable: available}
	require.NoError(t, s.CreateAddOn(context.Background(), a))
	return a
}

// orderAt records an order for u as if it had been placed at when.
func orderAt(t *testing.T, s *store.Store, u *models.User, k *models.Kit, when time.Time) *models.Order {
	t.Helper()
	o := &models.Order{
		UserID:          u.ID,
		KitID:           k.ID,
		ScheduledDate:   models.DateOf(when.AddDate(0, 0, 2)),
		DeliveryAddress: "12 MG Road",
		TotalAmount:     k.BasePrice,
		CreatedAt:       when,
	}
	require.NoError(t, s.CreateOrder(context.Background(), o))
	return o
}
