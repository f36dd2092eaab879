package rental

import (
	"errors"
	"fmt"
	"time"

	"gadget-rental/internal/models"
)

// Payment methods accepted at the mock gateway
const (
	MethodCard         = "card"
	MethodUPI          = "upi"
	MethodCashOnPickup = "cash_on_pickup"
)

// Test card numbers understood by the mock gateway
const (
	CardApproved          = "4242424242424242"
	CardInsufficientFunds = "4000000000000000"
)

var (
	ErrUnknownPaymentMethod = errors.New("invalid payment method")
	ErrNotPayable           = errors.New("order is not awaiting payment")
)

// PaymentOutcome is what the mock gateway answered
type PaymentOutcome struct {
	Status  string `json:"payment_status"`
	Message string `json:"message"`
}

// SimulatePayment plays the part of a payment provider
func SimulatePayment(method, cardNumber string) (PaymentOutcome, error) {
	switch method {
	case MethodCard:
		switch cardNumber {
		case CardApproved:
			return PaymentOutcome{models.PaymentStatusPaid, "Payment completed successfully!"}, nil
		case CardInsufficientFunds:
			return PaymentOutcome{models.PaymentStatusFailed, "Payment failed: Insufficient funds."}, nil
		default:
			return PaymentOutcome{models.PaymentStatusFailed, "Payment failed: Invalid card number."}, nil
		}
	case MethodUPI:
		return PaymentOutcome{models.PaymentStatusPaid, "UPI Payment completed successfully!"}, nil
	case MethodCashOnPickup:
		return PaymentOutcome{models.PaymentStatusPending, "Order confirmed. Payment to be made on pickup."}, nil
	default:
		return PaymentOutcome{}, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, method)
	}
}

// CanPay reports whether a payment may be attempted for order. A failed
// attempt leaves the order payable.
func CanPay(order *models.RentalOrder) error {
	if order.Status == models.OrderStatusCancelled {
		return fmt.Errorf("%w: order %d is cancelled", ErrNotPayable, order.ID)
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return fmt.Errorf("%w: order %d is already paid", ErrNotPayable, order.ID)
	}
	return nil
}

// Payable is what the customer owes for an order: rental plus deposit, less discount
func Payable(order *models.RentalOrder) int64 {
	return order.TotalPrice + order.SecurityDeposit - order.DiscountAmount
}

// TransactionID builds the gateway reference for an attempt made at now
func TransactionID(now time.Time) string {
	return fmt.Sprintf("TXN_%d", now.UnixMicro())
}
