package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"gadget-rental/internal/models"
	"gadget-rental/internal/rental"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslatePostgresErrors(t *testing.T) {
	err := translate(&pq.Error{Code: pqUniqueViolation, Constraint: "users_email_key"})
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.Contains(t, err.Error(), "users_email_key")

	err = translate(&pq.Error{Code: pqForeignKeyViolation})
	assert.True(t, errors.Is(err, ErrInUse))

	plain := errors.New("boom")
	assert.Equal(t, plain, translate(plain))
	assert.NoError(t, translate(nil))
}

func TestGadgetOrder(t *testing.T) {
	assert.Equal(t, "price_per_day ASC, id", gadgetOrder(SortPriceLowHigh))
	assert.Equal(t, "created_at DESC, id DESC", gadgetOrder(SortNewest))
	assert.Equal(t, "rental_count DESC, id", gadgetOrder(SortPopularity))
	assert.Equal(t, "rental_count DESC, id", gadgetOrder("anything else"))
}

// integrationStore connects to TEST_DATABASE_URL or skips the test
func integrationStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test - requires database (set TEST_DATABASE_URL)")
	}

	s, err := NewStore(url)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedCustomerAndGadget(t *testing.T, s *Store, stock int) (*models.User, *models.Gadget) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{
		Name:         "Arun",
		Email:        "arun-" + time.Now().Format("150405.000000") + "@example.com",
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, s.CreateUser(ctx, user))

	gadget := &models.Gadget{Name: "Sony A7 IV", Category: "Cameras", PricePerDay: 150000, Stock: stock, IsActive: true}
	require.NoError(t, s.CreateGadget(ctx, gadget))
	return user, gadget
}

func TestPlaceOrdersNeverOversells(t *testing.T) {
	s := integrationStore(t)
	ctx := context.Background()
	user, gadget := seedCustomerAndGadget(t, s, 1)

	start := rental.Day(time.Now().AddDate(0, 0, 3))
	order := &models.RentalOrder{
		UserID: user.ID, GadgetID: gadget.ID, Quantity: 2,
		StartDate: start, EndDate: start, TotalDays: 1, TotalPrice: 300000,
		Status: models.OrderStatusBooked, PaymentStatus: models.PaymentStatusPending,
	}

	err := s.PlaceOrders(ctx, PlaceOrdersParams{UserID: user.ID, Address: "Street 1", Orders: []*models.RentalOrder{order}})
	assert.ErrorIs(t, err, ErrOutOfStock)

	g, err := s.GetGadget(ctx, gadget.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Stock)
}

func TestApplyTransitionRestocksOnce(t *testing.T) {
	s := integrationStore(t)
	ctx := context.Background()
	user, gadget := seedCustomerAndGadget(t, s, 3)

	start := rental.Day(time.Now().AddDate(0, 0, 3))
	order := &models.RentalOrder{
		UserID: user.ID, GadgetID: gadget.ID, Quantity: 2,
		StartDate: start, EndDate: start, TotalDays: 1, TotalPrice: 300000,
		Status: models.OrderStatusBooked, PaymentStatus: models.PaymentStatusPending,
	}
	require.NoError(t, s.PlaceOrders(ctx, PlaceOrdersParams{UserID: user.ID, Address: "Street 1", Orders: []*models.RentalOrder{order}}))

	step, err := rental.Transition(order, rental.ActionReject, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.ApplyTransition(ctx, order, step, &models.Notification{UserID: user.ID, Message: step.Notice}))

	// replaying the same step finds the order no longer booked
	err = s.ApplyTransition(ctx, order, step, nil)
	assert.ErrorIs(t, err, ErrStaleState)

	g, err := s.GetGadget(ctx, gadget.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Stock)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := integrationStore(t)
	ctx := context.Background()
	user, _ := seedCustomerAndGadget(t, s, 1)

	dup := &models.User{Name: "Other", Email: user.Email, PasswordHash: "y", IsActive: true}
	err := s.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicate)
}
