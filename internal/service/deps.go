package service

import (
	"context"
	"time"

	"gadget-rental/internal/models"
	"gadget-rental/internal/rental"
	"gadget-rental/internal/store"
)

// Store is everything the services read and write. *store.Store satisfies it;
// tests use an in-memory implementation.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	ListCustomers(ctx context.Context) ([]models.User, error)
	ListAdmins(ctx context.Context) ([]models.User, error)
	ListUserIDs(ctx context.Context) ([]int64, error)
	SetUserVerified(ctx context.Context, id int64) (bool, error)
	DeactivateUser(ctx context.Context, id int64) (bool, error)

	GetGadget(ctx context.Context, id int64) (*models.Gadget, error)
	ListFeaturedGadgets(ctx context.Context, limit int) ([]models.Gadget, error)
	ListPopularGadgets(ctx context.Context, limit int) ([]models.Gadget, error)
	ListCategories(ctx context.Context) ([]string, error)
	SearchGadgets(ctx context.Context, f store.GadgetFilter) ([]models.Gadget, error)
	ListAllGadgets(ctx context.Context) ([]models.Gadget, error)
	ListLowStockGadgets(ctx context.Context, threshold int) ([]models.Gadget, error)
	IncrementGadgetViews(ctx context.Context, id int64) error
	CreateGadget(ctx context.Context, g *models.Gadget) error
	UpdateGadget(ctx context.Context, g *models.Gadget) error
	ToggleGadgetFeatured(ctx context.Context, id int64) (bool, error)
	DeleteGadget(ctx context.Context, id int64) error

	ListCartLines(ctx context.Context, userID int64) ([]models.CartLine, error)
	CountCartItems(ctx context.Context, userID int64) (int, error)
	GetCartItem(ctx context.Context, id int64) (*models.CartItem, error)
	FindCartItem(ctx context.Context, userID, gadgetID int64, start, end time.Time) (*models.CartItem, error)
	CreateCartItem(ctx context.Context, item *models.CartItem) error
	SetCartItemQuantity(ctx context.Context, id int64, quantity int) error
	DeleteCartItem(ctx context.Context, id int64) error
	ClearCart(ctx context.Context, userID int64) error
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)

	PlaceOrders(ctx context.Context, p store.PlaceOrdersParams) error
	GetOrder(ctx context.Context, id int64) (*models.RentalOrder, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]models.RentalOrder, error)
	ListOrders(ctx context.Context, status string) ([]models.RentalOrder, error)
	LatestPayableOrder(ctx context.Context, userID int64) (*models.RentalOrder, error)
	RecordPayment(ctx context.Context, orderID int64, status, txID string, notice *models.Notification) error
	ApplyTransition(ctx context.Context, order *models.RentalOrder, step *rental.Step, notice *models.Notification) error
	MarkDepositRefunded(ctx context.Context, orderID int64, notice *models.Notification) error

	GetReviewByOrder(ctx context.Context, orderID int64) (*models.Review, error)
	CreateReview(ctx context.Context, review *models.Review, notice *models.Notification) error
	ListReviews(ctx context.Context) ([]models.Review, error)
	ListReviewsByGadget(ctx context.Context, gadgetID int64) ([]models.Review, error)
	AddWishlistItem(ctx context.Context, userID, gadgetID int64) (bool, error)
	GetWishlistItem(ctx context.Context, id int64) (*models.WishlistItem, error)
	ListWishlist(ctx context.Context, userID int64) ([]models.WishlistItem, error)
	DeleteWishlistItem(ctx context.Context, id int64) error
	CreateNotifications(ctx context.Context, notes ...models.Notification) error
	ListNotifications(ctx context.Context, userID int64) ([]models.Notification, error)
	GetNotification(ctx context.Context, id int64) (*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context, userID int64) error
	CreateFeedback(ctx context.Context, fb *models.Feedback) error
	GetFeedback(ctx context.Context, id int64) (*models.Feedback, error)
	ListFeedback(ctx context.Context) ([]models.Feedback, error)
	ResolveFeedback(ctx context.Context, id int64, notice *models.Notification) error

	DashboardStats(ctx context.Context, today time.Time) (*models.DashboardStats, error)
	DailyRevenue(ctx context.Context) ([]models.DailyRevenueRow, error)
	MostRentedGadgets(ctx context.Context) ([]models.GadgetRentalRow, error)
	UserActivity(ctx context.Context) ([]models.UserActivityRow, error)
}

// Cache is the Redis side of the services: sessions, locks, idempotency
// keys and reminder cooldowns. *redisclient.Client satisfies it.
type Cache interface {
	CreateSession(ctx context.Context, token string, userID int64, ttl time.Duration) error
	GetSession(ctx context.Context, token string) (int64, error)
	DeleteSession(ctx context.Context, token string) error
	AcquireLock(ctx context.Context, lockKey, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey, token string) error
	SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetIdempotencyKey(ctx context.Context, key string) (string, bool, error)
	MarkReminderSent(ctx context.Context, userID int64, ttl time.Duration) (bool, error)
}

// Publisher emits rental events. *broker.EventPublisher satisfies it.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, event *models.UserRegisteredEvent) error
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishPaymentReceived(ctx context.Context, event *models.PaymentReceivedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
	PublishDepositRefunded(ctx context.Context, event *models.DepositRefundedEvent) error
}

// Settings are the business knobs the services read from config
type Settings struct {
	Policy            rental.Policy
	LowStockThreshold int
	FeaturedLimit     int
	SessionTTL        time.Duration
	CheckoutLockTTL   time.Duration
	IdempotencyTTL    time.Duration
	ReminderCooldown  time.Duration
}

// DefaultSettings mirrors the config defaults
func DefaultSettings() Settings {
	return Settings{
		Policy:            rental.DefaultPolicy(),
		LowStockThreshold: 3,
		FeaturedLimit:     6,
		SessionTTL:        7 * 24 * time.Hour,
		CheckoutLockTTL:   30 * time.Second,
		IdempotencyTTL:    24 * time.Hour,
		ReminderCooldown:  24 * time.Hour,
	}
}

func recipient(u *models.User) models.Recipient {
	return models.Recipient{UserID: u.ID, Email: u.Email, Name: u.Name}
}
