package models

import "time"

// Event types
const (
	EventTypeUserRegistered     = "USER_REGISTERED"
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypePaymentReceived    = "PAYMENT_RECEIVED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeDepositRefunded    = "DEPOSIT_REFUNDED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// Recipient identifies who an email-bearing event is addressed to
type Recipient struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// UserRegisteredEvent published when an account is created
type UserRegisteredEvent struct {
	BaseEvent
	Recipient
}

// OrderPlacedEvent published for every order created at checkout
type OrderPlacedEvent struct {
	BaseEvent
	Recipient
	OrderID    int64     `json:"order_id"`
	GadgetName string    `json:"gadget_name"`
	TotalPrice int64     `json:"total_price"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

// PaymentReceivedEvent published when a payment succeeds
type PaymentReceivedEvent struct {
	BaseEvent
	Recipient
	OrderID       int64  `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
}

// OrderStatusChangedEvent published on every lifecycle transition
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID int64  `json:"order_id"`
	UserID  int64  `json:"user_id"`
	Action  string `json:"action"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// DepositRefundedEvent published when a security deposit is paid back
type DepositRefundedEvent struct {
	BaseEvent
	Recipient
	OrderID int64 `json:"order_id"`
	Amount  int64 `json:"amount"`
}
