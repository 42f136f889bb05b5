package shop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harikrish-25/period-care/internal/models"
)

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)
	basic := addKit(t, s, "Basic Comfort", 300, true)
	premium := addKit(t, s, "Premium Care", 900, true)
	addKit(t, s, "Retired", 100, false)
	addAddOn(t, s, models.Fruits, "Mango", 50, true)
	addAddOn(t, s, models.Nutrients, "Iron", 120, false)

	asha := addUser(t, s, "asha@example.com")
	meera := addUser(t, s, "meera@example.com")
	gone := addUser(t, s, "gone@example.com")
	gone.IsActive = false
	require.NoError(t, s.UpdateUser(ctx, gone))

	old := orderAt(t, s, asha, premium, testNow.AddDate(0, 0, -40))
	mid := orderAt(t, s, meera, basic, testNow.AddDate(0, 0, -30))
	recent := orderAt(t, s, asha, basic, testNow.AddDate(0, 0, -1))
	cancelled := orderAt(t, s, asha, basic, testNow.AddDate(0, 0, -2))
	for _, id := range []int{old.ID, mid.ID, recent.ID} {
		require.NoError(t, s.UpdateOrderStatus(ctx, id, models.OrderCompleted))
	}
	require.NoError(t, s.UpdateOrderStatus(ctx, cancelled.ID, models.OrderCancelled))

	reminders := newReminders(s, &fakeNotifier{}, ReminderPolicy{})
	admin := NewAdmin(s, reminders)
	admin.Now = fixedClock

	st, err := admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, UserStats{Total: 3, Active: 2, Inactive: 1, DueForReminder: 1}, st.Users)
	assert.Equal(t, OrderStats{Total: 4, Completed: 3, Cancelled: 1, ThisWeek: 2, ThisMonth: 3}, st.Orders)
	assert.Equal(t, RevenueStats{Total: 1500, ThisWeek: 300, ThisMonth: 600, AverageOrderValue: 500}, st.Revenue)
	assert.Equal(t, ProductStats{
		Kits:      Availability{Total: 3, Available: 2},
		Fruits:    Availability{Total: 1, Available: 1},
		Nutrients: Availability{Total: 1, Available: 0},
	}, st.Products)

	top, err := admin.TopProducts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top.TopKits, 1)
	assert.Equal(t, basic.ID, top.TopKits[0].KitID)
	assert.Equal(t, 2, top.TopKits[0].Orders)
	assert.Equal(t, 1500.0, top.TotalRevenue)
}

func TestTopProductsWithoutSales(t *testing.T) {
	s := openTempStore(t)
	admin := NewAdmin(s, newReminders(s, &fakeNotifier{}, ReminderPolicy{}))

	top, err := admin.TopProducts(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, top.TopKits)
	assert.Empty(t, top.TopKits)
}
