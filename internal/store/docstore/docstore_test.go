package docstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/store"
)

func TestOpenRequiresURIAndDatabase(t *testing.T) {
	_, err := Open(context.Background(), "", "periodcare")
	assert.Error(t, err)
	_, err = Open(context.Background(), "mongodb://localhost:27017", " ")
	assert.Error(t, err)
}

func TestUserDocLowersEmailAndKeepsDate(t *testing.T) {
	day := models.Date("2026-02-01")
	created := time.Date(2026, time.February, 1, 8, 30, 0, 0, time.UTC)
	u := &models.User{ID: 7, Name: "Asha", Email: " Asha@Example.com ", Role: models.RoleUser, LastOrderDate: &day,
		IsActive: true, CreatedAt: created, UpdatedAt: created}

	d := newUserDoc(u)
	assert.Equal(t, "asha@example.com", d.EmailLower)
	assert.Equal(t, "Asha@Example.com", d.Email)

	back := d.model()
	require.NotNil(t, back.LastOrderDate)
	assert.Equal(t, day, *back.LastOrderDate)
	assert.True(t, back.CreatedAt.Equal(created))
}

func TestOrderDocRoundTrip(t *testing.T) {
	created := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	o := models.Order{
		ID:              3,
		UserID:          1,
		KitID:           2,
		SelectedFruits:  models.IDList{4, 5},
		ScheduledDate:   "2026-03-10",
		DeliveryAddress: "12 MG Road",
		TotalAmount:     389,
		Status:          models.OrderPending,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	d := newOrderDoc(&o)
	assert.Equal(t, []int{}, d.SelectedNutrients)

	if diff := cmp.Diff(o, d.model()); diff != "" {
		t.Fatalf("order round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReminderDocKeepsReminderDate(t *testing.T) {
	at := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	r := models.Reminder{ID: 1, UserID: 2, Type: models.ReminderManual, LastOrderDate: "2026-02-01",
		ReminderDate: &at, Status: models.ReminderSent, CreatedAt: at, UpdatedAt: at}

	if diff := cmp.Diff(r, newReminderDoc(&r).model()); diff != "" {
		t.Fatalf("reminder round trip mismatch (-want +got):\n%s", diff)
	}
}

// openMongo connects to PERIODCARE_TEST_MONGO_URI and skips the test when it
// is not set.
func openMongo(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("PERIODCARE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("PERIODCARE_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := Open(ctx, uri, fmt.Sprintf("periodcare_test_%d", time.Now().UnixNano()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Drop(context.Background())
		_ = s.Close(context.Background())
	})
	return s
}

func TestMongoOrderTouchesOwner(t *testing.T) {
	s := openMongo(t)
	ctx := context.Background()

	u := &models.User{Name: "Asha", Email: "asha@example.com", Mobile: "1", Password: "x", IsActive: true, ReminderSent: true}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{Name: "B", Email: "ASHA@example.com"}), store.ErrAlreadyExists)

	k := &models.Kit{Name: "Comfort", Type: models.KitBasic, BasePrice: 299, IsAvailable: true}
	require.NoError(t, s.CreateKit(ctx, k))

	created := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	o := &models.Order{UserID: u.ID, KitID: k.ID, ScheduledDate: "2026-03-10", DeliveryAddress: "x", TotalAmount: 299, CreatedAt: created}
	require.NoError(t, s.CreateOrder(ctx, o))

	owner, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, owner.LastOrderDate)
	assert.Equal(t, models.Date("2026-03-05"), *owner.LastOrderDate)
	assert.False(t, owner.ReminderSent)

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Comfort", got.KitName)
	assert.Equal(t, "asha@example.com", got.UserEmail)

	due, err := s.UsersDueForReminder(ctx, "2026-03-05", "2026-03-05")
	require.NoError(t, err)
	require.Len(t, due, 1)

	require.NoError(t, s.UpdateOrderStatus(ctx, o.ID, models.OrderCompleted))
	sales, err := s.KitSales(ctx, models.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, []store.KitSales{{KitID: k.ID, KitName: "Comfort", Orders: 1, Revenue: 299}}, sales)

	err = s.CreateOrder(ctx, &models.Order{UserID: 999, KitID: k.ID})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMongoReminderCleanup(t *testing.T) {
	s := openMongo(t)
	ctx := context.Background()
	u := &models.User{Name: "Asha", Email: "asha@example.com", IsActive: true}
	require.NoError(t, s.CreateUser(ctx, u))

	old := time.Now().AddDate(0, 0, -120)
	require.NoError(t, s.CreateReminder(ctx, &models.Reminder{UserID: u.ID, LastOrderDate: "2026-01-01", Status: models.ReminderCompleted, CreatedAt: old}))
	require.NoError(t, s.CreateReminder(ctx, &models.Reminder{UserID: u.ID, LastOrderDate: "2026-01-01"}))

	n, err := s.DeleteCompletedReminders(ctx, time.Now().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	left, err := s.ListReminders(ctx, "")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "Asha", left[0].UserName)
}
