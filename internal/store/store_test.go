package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harikrish-25/period-care/internal/models"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "periodcare.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createUser(t *testing.T, s *Store, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Asha", Email: email, Mobile: "+911234567890", Password: "hash", IsActive: true}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func createKit(t *testing.T, s *Store, name string, price float64) *models.Kit {
	t.Helper()
	k := &models.Kit{Name: name, Type: models.KitBasic, BasePrice: price, IncludedItems: []string{"pads"}, IsAvailable: true}
	require.NoError(t, s.CreateKit(context.Background(), k))
	return k
}

func TestNewStoreRequiresPath(t *testing.T) {
	if _, err := NewStore(" "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTempStore(t)
	require.NoError(t, s.Migrate())

	var n int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestMigrateFSAppliesOnlyUpSection(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer s.Close()

	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE a (id INTEGER);\n-- +migrate Down\nDROP TABLE a;\n")},
		"002_b.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
	}
	require.NoError(t, s.MigrateFS(fsys))

	for _, table := range []string{"a", "b"} {
		var name string
		require.NoError(t, s.DB.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name))
	}
}

func TestKitRoundTrip(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	k := createKit(t, s, "Comfort", 299)
	got, err := s.GetKit(ctx, k.ID)
	require.NoError(t, err)
	assert.Equal(t, "Comfort", got.Name)
	assert.Equal(t, models.KitBasic, got.Type)
	assert.Equal(t, []string{"pads"}, got.IncludedItems)
	assert.True(t, got.IsAvailable)

	got.IsAvailable = false
	got.BasePrice = 349
	require.NoError(t, s.UpdateKit(ctx, got))

	available, err := s.ListKits(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, available)

	all, err := s.ListKits(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 349.0, all[0].BasePrice)

	require.NoError(t, s.SetKitImage(ctx, k.ID, "/uploads/kit.jpg"))
	got, err = s.GetKit(ctx, k.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/kit.jpg", got.ImageURL)

	require.NoError(t, s.DeleteKit(ctx, k.ID))
	_, err = s.GetKit(ctx, k.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteKit(ctx, k.ID), ErrNotFound)
}

func TestListKitsByTypeOnlyAvailable(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	createKit(t, s, "Basic", 199)
	premium := &models.Kit{Name: "Premium", Type: models.KitPremium, BasePrice: 599, IsAvailable: true}
	require.NoError(t, s.CreateKit(ctx, premium))
	hidden := &models.Kit{Name: "Old Premium", Type: models.KitPremium, BasePrice: 499}
	require.NoError(t, s.CreateKit(ctx, hidden))

	kits, err := s.ListKitsByType(ctx, models.KitPremium)
	require.NoError(t, err)
	require.Len(t, kits, 1)
	assert.Equal(t, premium.ID, kits[0].ID)
}

func TestAddOnsAreKeptPerKind(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	apple := &models.AddOn{Kind: models.Fruits, Name: "Apple", Price: 50, IsAvailable: true}
	require.NoError(t, s.CreateAddOn(ctx, apple))
	iron := &models.AddOn{Kind: models.Nutrients, Name: "Iron", Price: 80, EmojiIcon: "💊", IsAvailable: true}
	require.NoError(t, s.CreateAddOn(ctx, iron))

	fruits, err := s.ListAddOns(ctx, models.Fruits, false)
	require.NoError(t, err)
	require.Len(t, fruits, 1)
	assert.Equal(t, "Apple", fruits[0].Name)
	assert.Equal(t, models.Fruits, fruits[0].Kind)

	got, err := s.GetAddOn(ctx, models.Nutrients, iron.ID)
	require.NoError(t, err)
	assert.Equal(t, "💊", got.EmojiIcon)

	got.IsAvailable = false
	require.NoError(t, s.UpdateAddOn(ctx, got))
	available, err := s.ListAddOns(ctx, models.Nutrients, true)
	require.NoError(t, err)
	assert.Empty(t, available)

	require.NoError(t, s.DeleteAddOn(ctx, models.Fruits, apple.ID))
	_, err = s.GetAddOn(ctx, models.Fruits, apple.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ListAddOns(ctx, models.AddOnKind("candy"), false)
	assert.Error(t, err)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	s := openTempStore(t)
	createUser(t, s, "asha@example.com")

	err := s.CreateUser(context.Background(), &models.User{Name: "B", Email: "asha@example.com", Mobile: "1", Password: "x"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("duplicate create error = %v, want %v", err, ErrAlreadyExists)
	}
}

func TestGetUserByEmailIgnoresCase(t *testing.T) {
	s := openTempStore(t)
	u := createUser(t, s, "Asha@Example.com")

	got, err := s.GetUserByEmail(context.Background(), "asha@example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, models.RoleUser, got.Role)
	assert.Nil(t, got.LastOrderDate)

	_, err = s.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOrderTouchesOwner(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	u := createUser(t, s, "asha@example.com")
	require.NoError(t, s.SetReminderSent(ctx, u.ID, true))
	k := createKit(t, s, "Comfort", 299)

	created := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	o := &models.Order{
		UserID:          u.ID,
		KitID:           k.ID,
		SelectedFruits:  models.IDList{1, 2},
		ScheduledDate:   "2026-03-10",
		DeliveryAddress: "12 MG Road",
		TotalAmount:     389,
		CreatedAt:       created,
	}
	require.NoError(t, s.CreateOrder(ctx, o))
	require.NotZero(t, o.ID)
	assert.Equal(t, models.OrderPending, o.Status)

	owner, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, owner.LastOrderDate)
	assert.Equal(t, models.Date("2026-03-05"), *owner.LastOrderDate)
	assert.False(t, owner.ReminderSent)

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IDList{1, 2}, got.SelectedFruits)
	assert.Nil(t, got.SelectedNutrients)
	assert.Equal(t, "Comfort", got.KitName)
	assert.Equal(t, "asha@example.com", got.UserEmail)
	assert.Equal(t, 389.0, got.TotalAmount)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestCreateOrderUnknownOwnerRollsBack(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()
	k := createKit(t, s, "Comfort", 299)

	err := s.CreateOrder(ctx, &models.Order{UserID: 42, KitID: k.ID, ScheduledDate: "2026-03-10", DeliveryAddress: "x", TotalAmount: 299})
	require.ErrorIs(t, err, ErrNotFound)

	orders, err := s.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestListOrdersFilters(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	a := createUser(t, s, "a@example.com")
	b := createUser(t, s, "b@example.com")
	k := createKit(t, s, "Comfort", 299)

	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	for i, uid := range []int{a.ID, a.ID, b.ID} {
		o := &models.Order{UserID: uid, KitID: k.ID, ScheduledDate: "2026-03-10", DeliveryAddress: "x", TotalAmount: 299,
			CreatedAt: base.AddDate(0, 0, i)}
		require.NoError(t, s.CreateOrder(ctx, o))
	}

	mine, err := s.ListOrders(ctx, OrderFilter{UserID: a.ID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, mine[0].CreatedAt.After(mine[1].CreatedAt), "newest first")

	recent, err := s.ListOrders(ctx, OrderFilter{Since: base.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	page, err := s.ListOrders(ctx, OrderFilter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)

	require.NoError(t, s.UpdateOrderStatus(ctx, page[0].ID, models.OrderCompleted))
	require.NoError(t, s.MarkOrderNotified(ctx, page[0].ID))
	done, err := s.ListOrders(ctx, OrderFilter{Status: models.OrderCompleted})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.True(t, done[0].NotificationSent)

	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, 999, models.OrderCompleted), ErrNotFound)
}

func TestKitSalesCountsCompletedOrders(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	u := createUser(t, s, "a@example.com")
	comfort := createKit(t, s, "Comfort", 299)
	deluxe := createKit(t, s, "Deluxe", 599)

	place := func(kitID int, total float64, status models.OrderStatus) {
		o := &models.Order{UserID: u.ID, KitID: kitID, ScheduledDate: "2026-03-10", DeliveryAddress: "x", TotalAmount: total}
		require.NoError(t, s.CreateOrder(ctx, o))
		require.NoError(t, s.UpdateOrderStatus(ctx, o.ID, status))
	}
	place(comfort.ID, 299, models.OrderCompleted)
	place(deluxe.ID, 599, models.OrderCompleted)
	place(deluxe.ID, 649, models.OrderCompleted)
	place(comfort.ID, 299, models.OrderCancelled)

	sales, err := s.KitSales(ctx, models.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, []KitSales{
		{KitID: deluxe.ID, KitName: "Deluxe", Orders: 2, Revenue: 1248},
		{KitID: comfort.ID, KitName: "Comfort", Orders: 1, Revenue: 299},
	}, sales)
}

func TestUsersDueForReminderRange(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()
	k := createKit(t, s, "Comfort", 299)

	placeOn := func(email string, day time.Time) *models.User {
		u := createUser(t, s, email)
		require.NoError(t, s.CreateOrder(ctx, &models.Order{UserID: u.ID, KitID: k.ID, ScheduledDate: "2026-01-01",
			DeliveryAddress: "x", TotalAmount: 299, CreatedAt: day}))
		return u
	}
	target := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	due := placeOn("due@example.com", target)
	placeOn("early@example.com", target.AddDate(0, 0, -1))
	placeOn("late@example.com", target.AddDate(0, 0, 1))
	reminded := placeOn("reminded@example.com", target)
	require.NoError(t, s.SetReminderSent(ctx, reminded.ID, true))
	inactive := placeOn("inactive@example.com", target)
	inactive.IsActive = false
	require.NoError(t, s.UpdateUser(ctx, inactive))

	users, err := s.UsersDueForReminder(ctx, "2026-02-01", "2026-02-01")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, due.ID, users[0].ID)

	users, err = s.UsersDueForReminder(ctx, "2026-01-31", "2026-02-01")
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestReminderLifecycle(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()
	u := createUser(t, s, "asha@example.com")

	r := &models.Reminder{UserID: u.ID, LastOrderDate: "2026-02-01"}
	require.NoError(t, s.CreateReminder(ctx, r))
	assert.Equal(t, models.ReminderPending, r.Status)
	assert.Equal(t, models.ReminderMonthly, r.Type)

	sentAt := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpdateReminderStatus(ctx, r.ID, models.ReminderSent, sentAt))
	require.NoError(t, s.SetRemindersAdminNotified(ctx, []int{r.ID}))

	got, err := s.GetReminder(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderSent, got.Status)
	require.NotNil(t, got.ReminderDate)
	assert.True(t, got.ReminderDate.Equal(sentAt))
	assert.True(t, got.AdminNotified)
	assert.Equal(t, "Asha", got.UserName)

	pending, err := s.ListReminders(ctx, models.ReminderPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
	all, err := s.ListReminders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.ErrorIs(t, s.UpdateReminderStatus(ctx, 999, models.ReminderSent, sentAt), ErrNotFound)
}

func TestDeleteCompletedRemindersHonoursCutoff(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()
	u := createUser(t, s, "asha@example.com")
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	mk := func(status models.ReminderStatus, age time.Duration) {
		r := &models.Reminder{UserID: u.ID, LastOrderDate: "2026-01-01", Status: status, CreatedAt: now.Add(-age)}
		require.NoError(t, s.CreateReminder(ctx, r))
	}
	mk(models.ReminderCompleted, 100*24*time.Hour)
	mk(models.ReminderCompleted, 10*24*time.Hour)
	mk(models.ReminderSent, 100*24*time.Hour)

	n, err := s.DeleteCompletedReminders(ctx, now.AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	left, err := s.ListReminders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestBenefitsOrderedByDisplayOrder(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	second := &models.Benefit{Title: "Hydration", Description: "d", DisplayOrder: 2, IsActive: true}
	first := &models.Benefit{Title: "Comfort", Description: "d", DisplayOrder: 1, IsActive: true}
	hidden := &models.Benefit{Title: "Old", Description: "d", DisplayOrder: 0}
	for _, b := range []*models.Benefit{second, first, hidden} {
		require.NoError(t, s.CreateBenefit(ctx, b))
	}

	active, err := s.ListBenefits(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Comfort", active[0].Title)
	assert.Equal(t, "Hydration", active[1].Title)

	hidden.IsActive = true
	require.NoError(t, s.UpdateBenefit(ctx, hidden))
	all, err := s.ListBenefits(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "Old", all[0].Title)

	require.NoError(t, s.DeleteBenefit(ctx, hidden.ID))
	_, err = s.GetBenefit(ctx, hidden.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTestimonialsFilters(t *testing.T) {
	s := openTempStore(t)
	ctx := context.Background()

	for _, tm := range []*models.Testimonial{
		{Name: "A", Rating: 4, Text: "good", IsActive: true},
		{Name: "B", Rating: 5, Text: "great", IsActive: true, IsFeatured: true},
		{Name: "C", Rating: 5, Text: "hidden", IsFeatured: true},
	} {
		require.NoError(t, s.CreateTestimonial(ctx, tm))
	}

	active, err := s.ListTestimonials(ctx, true, false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "B", active[0].Name)

	featured, err := s.ListTestimonials(ctx, true, true)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "great", featured[0].Text)

	got, err := s.GetTestimonial(ctx, featured[0].ID)
	require.NoError(t, err)
	got.Rating = 3
	require.NoError(t, s.UpdateTestimonial(ctx, got))
	require.NoError(t, s.DeleteTestimonial(ctx, got.ID))
	assert.ErrorIs(t, s.DeleteTestimonial(ctx, got.ID), ErrNotFound)
}
