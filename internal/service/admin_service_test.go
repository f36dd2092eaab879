package service

import (
	"context"
	"testing"

	"gadget-rental/internal/rental"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "arun")
	camera := f.gadget(t, "Sony A7 IV", 150000, 4)
	f.gadget(t, "GoPro Hero 12", 50000, 10)

	paid := f.placeOrder(t, u.ID, camera.ID, 1)
	_, err := f.payments.Pay(ctx, u.ID, &PaymentRequest{OrderID: paid.ID, Method: rental.MethodUPI})
	require.NoError(t, err)
	_, err = f.orders.Transition(ctx, paid.ID, rental.ActionApprove)
	require.NoError(t, err)
	_, err = f.orders.Transition(ctx, paid.ID, rental.ActionActivate)
	require.NoError(t, err)

	f.placeOrder(t, u.ID, camera.ID, 1)
	f.store.Order(paid.ID).CreatedAt = testNow

	stats, err := f.admin.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalGadgets)
	assert.Equal(t, 1, stats.ActiveRentals)
	assert.Equal(t, 1, stats.PendingApprovals)
	assert.Equal(t, int64(300000), stats.TotalRevenue)
	assert.Equal(t, int64(300000), stats.TodayRevenue)
	assert.Equal(t, 1, stats.LowStockAlerts)
	require.Len(t, stats.LowStockItems, 1)
	assert.Equal(t, camera.ID, stats.LowStockItems[0].ID)
}
