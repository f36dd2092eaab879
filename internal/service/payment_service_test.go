package service

import (
	"context"
	"fmt"
	"testing"

	"gadget-rental/internal/models"
	"gadget-rental/internal/rental"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayByCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "arun")
	camera := f.gadget(t, "Sony A7 IV", 150000, 2)
	order := f.placeOrder(t, u.ID, camera.ID, 1)

	res, err := f.payments.Pay(ctx, u.ID, &PaymentRequest{
		OrderID: order.ID, Method: rental.MethodCard, CardNumber: rental.CardApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, res.PaymentStatus)
	assert.Equal(t, fmt.Sprintf("TXN_%d", testNow.UnixMicro()), res.TransactionID)
	assert.Equal(t, int64(300000+150000), res.Amount)

	stored, err := f.store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, res.TransactionID, stored.TransactionID)

	assert.Contains(t, f.store.Messages(u.ID), fmt.Sprintf("Your payment for order #%d was successful.", order.ID))
	assert.Equal(t, 1, f.events.Count(func(e interface{}) bool {
		ev, ok := e.(*models.PaymentReceivedEvent)
		return ok && ev.OrderID == order.ID && ev.Amount == 450000
	}))

	_, err = f.payments.Pay(ctx, u.ID, &PaymentRequest{OrderID: order.ID, Method: rental.MethodUPI})
	assert.ErrorIs(t, err, rental.ErrNotPayable)
}

func TestFailedPaymentCanBeRetried(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "arun")
	camera := f.gadget(t, "Sony A7 IV", 150000, 2)
	order := f.placeOrder(t, u.ID, camera.ID, 1)

	res, err := f.payments.Pay(ctx, u.ID, &PaymentRequest{
		OrderID: order.ID, Method: rental.MethodCard, CardNumber: rental.CardInsufficientFunds,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, res.PaymentStatus)
	assert.Equal(t, "Payment failed: Insufficient funds.", res.Message)

	res, err = f.payments.Pay(ctx, u.ID, &PaymentRequest{Method: rental.MethodCard, CardNumber: "1234"})
	require.NoError(t, err)
	assert.Equal(t, order.ID, res.OrderID, "latest payable order is picked")
	assert.Equal(t, "Payment failed: Invalid card number.", res.Message)

	res, err = f.payments.Pay(ctx, u.ID, &PaymentRequest{OrderID: order.ID, Method: rental.MethodUPI})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, res.PaymentStatus)
}

func TestCashOnPickupStaysPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "arun")
	camera := f.gadget(t, "Sony A7 IV", 150000, 2)
	order := f.placeOrder(t, u.ID, camera.ID, 1)

	res, err := f.payments.Pay(ctx, u.ID, &PaymentRequest{OrderID: order.ID, Method: rental.MethodCashOnPickup})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, res.PaymentStatus)
	assert.Contains(t, f.store.Messages(u.ID), fmt.Sprintf("Order #%d confirmed. Pay at pickup.", order.ID))
	assert.Zero(t, f.events.Count(func(e interface{}) bool {
		_, ok := e.(*models.PaymentReceivedEvent)
		return ok
	}))
}

func TestPaymentErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	arun := f.customer(t, "arun")
	meera := f.customer(t, "meera")
	camera := f.gadget(t, "Sony A7 IV", 150000, 2)

	_, err := f.payments.Pay(ctx, arun.ID, &PaymentRequest{Method: rental.MethodUPI})
	assert.ErrorIs(t, err, ErrNotFound, "nothing to pay")

	order := f.placeOrder(t, arun.ID, camera.ID, 1)

	_, err = f.payments.Pay(ctx, arun.ID, &PaymentRequest{OrderID: order.ID, Method: "bitcoin"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.payments.Pay(ctx, meera.ID, &PaymentRequest{OrderID: order.ID, Method: rental.MethodUPI})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.orders.Cancel(ctx, arun.ID, order.ID)
	require.NoError(t, err)
	_, err = f.payments.Pay(ctx, arun.ID, &PaymentRequest{OrderID: order.ID, Method: rental.MethodUPI})
	assert.ErrorIs(t, err, rental.ErrNotPayable)
}
