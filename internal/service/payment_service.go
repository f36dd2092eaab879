package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gadget-rental/internal/models"
	"gadget-rental/internal/rental"
	"gadget-rental/internal/util"

	"go.uber.org/zap"
)

// PaymentService handles payments through the mock gateway
type PaymentService struct {
	store  Store
	events Publisher
	now    func() time.Time
	logger *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(store Store, events Publisher) *PaymentService {
	return &PaymentService{
		store:  store,
		events: events,
		now:    time.Now,
		logger: util.GetLogger(),
	}
}

// PaymentRequest pays an order. Without an order id the user's most recent
// unpaid order is used.
type PaymentRequest struct {
	OrderID    int64  `json:"order_id"`
	Method     string `json:"payment_method" binding:"required"`
	CardNumber string `json:"card_number"`
}

// PaymentResult is the gateway's answer for one attempt
type PaymentResult struct {
	OrderID       int64  `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Message       string `json:"message"`
}

// Pay runs a payment attempt and records its outcome on the order
func (ps *PaymentService) Pay(ctx context.Context, userID int64, req *PaymentRequest) (*PaymentResult, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.Pay")
	defer span.End()

	order, err := ps.payableOrder(ctx, userID, req.OrderID)
	if err != nil {
		return nil, err
	}

	if err := rental.CanPay(order); err != nil {
		return nil, err
	}

	outcome, err := rental.SimulatePayment(req.Method, req.CardNumber)
	if err != nil {
		util.PaymentAttemptsTotal.WithLabelValues("unknown", "rejected").Inc()
		return nil, classify(err)
	}

	txID := rental.TransactionID(ps.now())
	var notice *models.Notification
	switch {
	case outcome.Status == models.PaymentStatusPaid:
		notice = &models.Notification{
			UserID:  userID,
			Message: fmt.Sprintf("Your payment for order #%d was successful.", order.ID),
		}
	case req.Method == rental.MethodCashOnPickup:
		notice = &models.Notification{
			UserID:  userID,
			Message: fmt.Sprintf("Order #%d confirmed. Pay at pickup.", order.ID),
		}
	}

	if err := ps.store.RecordPayment(ctx, order.ID, outcome.Status, txID, notice); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", classify(err))
	}

	util.PaymentAttemptsTotal.WithLabelValues(req.Method, outcome.Status).Inc()
	amount := rental.Payable(order)

	ps.logger.Info("Payment processed",
		zap.Int64("order_id", order.ID),
		zap.String("method", req.Method),
		zap.String("status", outcome.Status),
		zap.String("tx_id", txID))

	if outcome.Status == models.PaymentStatusPaid {
		ps.publishReceipt(ctx, order, txID, amount)
	}

	return &PaymentResult{
		OrderID:       order.ID,
		PaymentStatus: outcome.Status,
		TransactionID: txID,
		Amount:        amount,
		Message:       outcome.Message,
	}, nil
}

func (ps *PaymentService) payableOrder(ctx context.Context, userID, orderID int64) (*models.RentalOrder, error) {
	if orderID == 0 {
		order, err := ps.store.LatestPayableOrder(ctx, userID)
		if err != nil {
			if errors.Is(classify(err), ErrNotFound) {
				return nil, fmt.Errorf("%w: no pending orders to pay for", ErrNotFound)
			}
			return nil, err
		}
		return order, nil
	}

	order, err := ps.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, classify(err)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %d belongs to another user", ErrForbidden, orderID)
	}
	return order, nil
}

func (ps *PaymentService) publishReceipt(ctx context.Context, order *models.RentalOrder, txID string, amount int64) {
	user, err := ps.store.GetUserByID(ctx, order.UserID)
	if err != nil {
		ps.logger.Error("Failed to load payer for receipt", zap.Int64("order_id", order.ID), zap.Error(err))
		return
	}

	event := &models.PaymentReceivedEvent{
		Recipient:     recipient(user),
		OrderID:       order.ID,
		TransactionID: txID,
		Amount:        amount,
	}
	if err := ps.events.PublishPaymentReceived(ctx, event); err != nil {
		ps.logger.Error("Failed to publish PaymentReceived event", zap.Error(err))
	}
}
