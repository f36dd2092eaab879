package service

import (
	"context"
	"testing"
	"time"

	"gadget-rental/internal/models"
	"gadget-rental/internal/service/servicetest"

	"github.com/stretchr/testify/require"
)

var (
	_ Store     = (*servicetest.Store)(nil)
	_ Cache     = (*servicetest.Cache)(nil)
	_ Publisher = (*servicetest.Publisher)(nil)
)

var testNow = time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

// fixture wires every service to the same in-memory backends with a fixed clock
type fixture struct {
	store  *servicetest.Store
	cache  *servicetest.Cache
	events *servicetest.Publisher

	accounts      *AccountService
	catalog       *CatalogService
	cart          *CartService
	checkout      *CheckoutService
	payments      *PaymentService
	orders        *OrderService
	reviews       *ReviewService
	wishlist      *WishlistService
	notifications *NotificationService
	feedback      *FeedbackService
	admin         *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, cache, events := servicetest.NewStore(), servicetest.NewCache(), &servicetest.Publisher{}
	settings := DefaultSettings()
	clock := func() time.Time { return testNow }

	f := &fixture{
		store:         st,
		cache:         cache,
		events:        events,
		accounts:      NewAccountService(st, cache, events, settings),
		catalog:       NewCatalogService(st, settings),
		cart:          NewCartService(st, cache, settings),
		checkout:      NewCheckoutService(st, cache, events, settings),
		payments:      NewPaymentService(st, events),
		orders:        NewOrderService(st, events),
		reviews:       NewReviewService(st),
		notifications: NewNotificationService(st),
		feedback:      NewFeedbackService(st),
		admin:         NewAdminService(st, settings),
	}
	f.cart.now = clock
	f.checkout.now = clock
	f.payments.now = clock
	f.orders.now = clock
	f.admin.now = clock
	f.wishlist = NewWishlistService(st, f.cart)
	return f
}

func (f *fixture) customer(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := f.accounts.Register(context.Background(), &RegisterRequest{
		Name: name, Email: name + "@example.com", Password: "secret", Phone: "9999999999",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) adminUser(t *testing.T) *models.User {
	t.Helper()
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	u := &models.User{Name: "Admin", Email: "admin@gmail.com", PasswordHash: hash, IsAdmin: true, IsActive: true}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) gadget(t *testing.T, name string, pricePerDay int64, stock int) *models.Gadget {
	t.Helper()
	g := &models.Gadget{Name: name, Category: "Cameras", PricePerDay: pricePerDay, Stock: stock, IsActive: true}
	require.NoError(t, f.store.CreateGadget(context.Background(), g))
	return g
}

func (f *fixture) coupon(code string, percent float64) *models.Coupon {
	return f.store.AddCoupon(code, percent)
}

func (f *fixture) addToCart(t *testing.T, userID, gadgetID int64, start, end string) *models.CartItem {
	t.Helper()
	item, err := f.cart.Add(context.Background(), userID, &AddToCartRequest{GadgetID: gadgetID, StartDate: start, EndDate: end})
	require.NoError(t, err)
	return item
}

// placeOrder puts qty units of a gadget in the cart and checks out
func (f *fixture) placeOrder(t *testing.T, userID, gadgetID int64, qty int) *models.RentalOrder {
	t.Helper()
	ctx := context.Background()
	item := f.addToCart(t, userID, gadgetID, "2024-06-12", "2024-06-13")
	if qty > 1 {
		_, err := f.cart.UpdateQuantity(ctx, userID, item.ID, qty)
		require.NoError(t, err)
	}
	res, err := f.checkout.Checkout(ctx, userID, &CheckoutRequest{Address: "12 MG Road"})
	require.NoError(t, err)
	require.Len(t, res.Orders, 1)
	return res.Orders[0]
}

func (f *fixture) stock(t *testing.T, gadgetID int64) int {
	t.Helper()
	g, err := f.store.GetGadget(context.Background(), gadgetID)
	require.NoError(t, err)
	return g.Stock
}
