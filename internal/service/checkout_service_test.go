package service

import (
	"context"
	"fmt"
	"testing"

	"gadget-rental/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutPlacesOrdersAndTakesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "arun")
	camera := f.gadget(t, "Sony A7 IV", 150000, 2)
	kindle := f.gadget(t, "Kindle Paperwhite", 20000, 5)
	coupon := f.coupon("WELCOME10", 10)

	f.addToCart(t, u.ID, camera.ID, "2024-06-12", "2024-06-13")
	f.addToCart(t, u.ID, kindle.ID, "2024-06-12", "2024-06-14")

	res, err := f.checkout.Checkout(ctx, u.ID, &CheckoutRequest{Address: "12 MG Road", PromoCode: "WELCOME10"})
	require.NoError(t, err)
	require.Len(t, res.Orders, 2)
	assert.Equal(t, int64(474000), res.Payable)

	cam := res.Orders[0]
	assert.Equal(t, models.OrderStatusBooked, cam.Status)
	assert.Equal(t, models.PaymentStatusPending, cam.PaymentStatus)
	assert.Equal(t, 2, cam.TotalDays)
	assert.Equal(t, int64(300000), cam.TotalPrice)
	assert.Equal(t, int64(150000), cam.SecurityDeposit)
	assert.Equal(t, int64(30000), cam.DiscountAmount)
	assert.Equal(t, "WELCOME10", cam.PromoCode)
	assert.Equal(t, int64(6000), res.Orders[1].DiscountAmount)

	assert.Equal(t, 1, f.stock(t, camera.ID))
	assert.Equal(t, 4, f.stock(t, kindle.ID))
	assert.Equal(t, 1, f.store.Coupon("WELCOME10").TimesUsed)
	assert.Equal(t, coupon.ID, f.store.Coupon("WELCOME10").ID)

	n, err := f.store.CountCartItems(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	profile, err := f.store.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 MG Road", profile.Address)

	assert.Equal(t, 2, f.events.Count(func(e interface{}) bool {
		_, ok := e.(*models.OrderPlacedEvent)
		return ok
	}))
}

func TestCheckoutRejectsShortStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "arun")
	camera := f.gadget(t, "Sony A7 IV", 150000, 2)

	item := f.addToCart(t, u.ID, camera.ID, "2024-06-12", "2024-06-13")
	_, err := f.cart.UpdateQuantity(ctx, u.ID, item.ID, 3)
	require.NoError(t, err)

	_, err = f.checkout.Checkout(ctx, u.ID, &CheckoutRequest{Address: "12 MG Road"})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Sony A7 IV")
	assert.Contains(t, err.Error(), "Available: 2")

	assert.Equal(t, 2, f.stock(t, camera.ID))
	n, err := f.store.CountCartItems(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCheckoutCountsStockAcrossLines(t *testing.T) {
	f := newFixture(t)
	u := f.customer(t, "arun")
	camera := f.gadget(t, "Sony A7 IV", 150000, 1)

	f.addToCart(t, u.ID, camera.ID, "2024-06-12", "2024-06-13")
	f.addToCart(t, u.ID, camera.ID, "2024-06-20", "2024-06-21")

	_, err := f.checkout.Checkout(context.Background(), u.ID, &CheckoutRequest{Address: "12 MG Road"})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 1, f.stock(t, camera.ID))
}

func TestCheckoutInputErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "arun")
	camera := f.gadget(t, "Sony A7 IV", 150000, 2)

	_, err := f.checkout.Checkout(ctx, u.ID, &CheckoutRequest{Address: "12 MG Road"})
	assert.ErrorIs(t, err, ErrInvalidInput, "empty cart")

	f.addToCart(t, u.ID, camera.ID, "2024-06-12", "2024-06-13")

	_, err = f.checkout.Checkout(ctx, u.ID, &CheckoutRequest{Address: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput, "blank address")

	used := 1
	c := f.coupon("ONCE", 50)
	c.MaxUses, c.TimesUsed = &used, 1
	_, err = f.checkout.Checkout(ctx, u.ID, &CheckoutRequest{Address: "12 MG Road", PromoCode: "ONCE"})
	assert.ErrorIs(t, err, ErrInvalidInput, "used up coupon")

	assert.Equal(t, 2, f.stock(t, camera.ID))
}

func TestCheckoutRejectsStaleDates(t *testing.T) {
	f := newFixture(t)
	u := f.customer(t, "arun")
	camera := f.gadget(t, "Sony A7 IV", 150000, 2)
	item := f.addToCart(t, u.ID, camera.ID, "2024-06-12", "2024-06-13")

	f.store.CartItem(item.ID).StartDate = testNow.AddDate(0, 0, -2)

	_, err := f.checkout.Checkout(context.Background(), u.ID, &CheckoutRequest{Address: "12 MG Road"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCheckoutReplaysIdempotencyKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "arun")
	camera := f.gadget(t, "Sony A7 IV", 150000, 3)

	f.addToCart(t, u.ID, camera.ID, "2024-06-12", "2024-06-13")
	first, err := f.checkout.Checkout(ctx, u.ID, &CheckoutRequest{Address: "12 MG Road", IdempotencyKey: "k-1"})
	require.NoError(t, err)

	f.addToCart(t, u.ID, camera.ID, "2024-06-15", "2024-06-16")
	again, err := f.checkout.Checkout(ctx, u.ID, &CheckoutRequest{Address: "12 MG Road", IdempotencyKey: "k-1"})
	require.NoError(t, err)

	assert.True(t, again.Replayed)
	require.Len(t, again.Orders, 1)
	assert.Equal(t, first.Orders[0].ID, again.Orders[0].ID)
	assert.Equal(t, first.Payable, again.Payable)
	assert.Equal(t, 2, f.stock(t, camera.ID))

	orders, err := f.orders.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCheckoutRefusesConcurrentSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "arun")
	camera := f.gadget(t, "Sony A7 IV", 150000, 3)
	f.addToCart(t, u.ID, camera.ID, "2024-06-12", "2024-06-13")
	lockKey := fmt.Sprintf("checkout:%d", u.ID)

	ok, err := f.cache.AcquireLock(ctx, lockKey, "someone-else", 0)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.checkout.Checkout(ctx, u.ID, &CheckoutRequest{Address: "12 MG Road"})
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, f.cache.ReleaseLock(ctx, lockKey, "someone-else"))
	_, err = f.checkout.Checkout(ctx, u.ID, &CheckoutRequest{Address: "12 MG Road"})
	assert.NoError(t, err)
}
