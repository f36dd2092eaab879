package models

import "time"

// User is a customer or an administrator account
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Phone        string    `db:"phone" json:"phone"`
	Address      string    `db:"address" json:"address"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	IsVerified   bool      `db:"is_verified" json:"is_verified"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	TrustScore   int       `db:"trust_score" json:"trust_score"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Gadget is a rentable catalog item. Prices are in paise.
type Gadget struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	PricePerDay int64     `db:"price_per_day" json:"price_per_day"`
	Stock       int       `db:"stock" json:"stock"`
	Image       string    `db:"image" json:"image"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	IsFeatured  bool      `db:"is_featured" json:"is_featured"`
	ViewCount   int       `db:"view_count" json:"view_count"`
	RentalCount int       `db:"rental_count" json:"rental_count"`
	AvgRating   float64   `db:"avg_rating" json:"avg_rating"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DefaultGadgetImage is used when a gadget has no image of its own
const DefaultGadgetImage = "default_gadget.png"

// CartItem is one line of a user's cart
type CartItem struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	GadgetID  int64     `db:"gadget_id" json:"gadget_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
}

// CartLine is a cart item joined with the gadget it refers to
type CartLine struct {
	CartItem
	GadgetName  string `db:"gadget_name" json:"gadget_name"`
	PricePerDay int64  `db:"price_per_day" json:"price_per_day"`
	Stock       int    `db:"stock" json:"stock"`
}

// RentalOrder is a booking of one gadget for a date range
type RentalOrder struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	GadgetID        int64     `db:"gadget_id" json:"gadget_id"`
	Quantity        int       `db:"quantity" json:"quantity"`
	StartDate       time.Time `db:"start_date" json:"start_date"`
	EndDate         time.Time `db:"end_date" json:"end_date"`
	TotalDays       int       `db:"total_days" json:"total_days"`
	TotalPrice      int64     `db:"total_price" json:"total_price"`
	SecurityDeposit int64     `db:"security_deposit" json:"security_deposit"`
	DepositReturned bool      `db:"deposit_returned" json:"deposit_returned"`
	PromoCode       string    `db:"promo_code" json:"promo_code,omitempty"`
	DiscountAmount  int64     `db:"discount_amount" json:"discount_amount"`
	Status          string    `db:"status" json:"status"`
	PaymentStatus   string    `db:"payment_status" json:"payment_status"`
	TransactionID   string    `db:"transaction_id" json:"transaction_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`

	GadgetName string `db:"gadget_name" json:"gadget_name,omitempty"`
}

// Order statuses
const (
	OrderStatusBooked    = "booked"
	OrderStatusApproved  = "approved"
	OrderStatusActive    = "active"
	OrderStatusDelivered = "delivered"
	OrderStatusReturned  = "returned"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists every order status in lifecycle order
var OrderStatuses = []string{
	OrderStatusBooked,
	OrderStatusApproved,
	OrderStatusActive,
	OrderStatusDelivered,
	OrderStatusReturned,
	OrderStatusCancelled,
}

// Payment statuses
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Review is a customer's rating of a returned rental
type Review struct {
	ID        int64     `db:"id" json:"id"`
	OrderID   int64     `db:"order_id" json:"order_id"`
	GadgetID  int64     `db:"gadget_id" json:"gadget_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	UserName   string `db:"user_name" json:"user_name,omitempty"`
	GadgetName string `db:"gadget_name" json:"gadget_name,omitempty"`
}

// WishlistItem is a gadget saved for later
type WishlistItem struct {
	ID       int64     `db:"id" json:"id"`
	UserID   int64     `db:"user_id" json:"user_id"`
	GadgetID int64     `db:"gadget_id" json:"gadget_id"`
	AddedAt  time.Time `db:"added_at" json:"added_at"`

	GadgetName  string `db:"gadget_name" json:"gadget_name,omitempty"`
	PricePerDay int64  `db:"price_per_day" json:"price_per_day,omitempty"`
}

// Notification is an in-app message for a user
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Feedback is a message from a customer to the administrators
type Feedback struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	UserName string `db:"user_name" json:"user_name,omitempty"`
}

// Feedback statuses
const (
	FeedbackStatusPending  = "pending"
	FeedbackStatusResolved = "resolved"
)

// Coupon is a promo code giving a percentage off the rental total
type Coupon struct {
	ID              int64      `db:"id" json:"id"`
	Code            string     `db:"code" json:"code"`
	Description     string     `db:"description" json:"description"`
	DiscountPercent float64    `db:"discount_percent" json:"discount_percent"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	ExpiresAt       *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	MaxUses         *int       `db:"max_uses" json:"max_uses,omitempty"`
	TimesUsed       int        `db:"times_used" json:"times_used"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// Usable reports whether the coupon can be redeemed at the given time
func (c *Coupon) Usable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	if c.MaxUses != nil && c.TimesUsed >= *c.MaxUses {
		return false
	}
	return true
}
