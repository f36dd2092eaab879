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

// OrderService drives the rental order lifecycle for customers and admins
type OrderService struct {
	store  Store
	events Publisher
	now    func() time.Time
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store Store, events Publisher) *OrderService {
	return &OrderService{
		store:  store,
		events: events,
		now:    time.Now,
		logger: util.GetLogger(),
	}
}

// ListForUser returns a customer's orders, newest first
func (s *OrderService) ListForUser(ctx context.Context, userID int64) ([]models.RentalOrder, error) {
	return s.store.ListOrdersByUser(ctx, userID)
}

// ListForAdmin returns all orders, or only those in status when it names one
func (s *OrderService) ListForAdmin(ctx context.Context, status string) ([]models.RentalOrder, error) {
	if status == "all" {
		status = ""
	}
	if status != "" && !isOrderStatus(status) {
		return nil, invalid("unknown order status %q", status)
	}
	return s.store.ListOrders(ctx, status)
}

func isOrderStatus(status string) bool {
	for _, st := range models.OrderStatuses {
		if st == status {
			return true
		}
	}
	return false
}

// Get returns one of the customer's own orders
func (s *OrderService) Get(ctx context.Context, userID, orderID int64) (*models.RentalOrder, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, classify(err)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %d belongs to another user", ErrForbidden, orderID)
	}
	return order, nil
}

// Cancel lets a customer cancel their own booked order before it starts
func (s *OrderService) Cancel(ctx context.Context, userID, orderID int64) (*models.RentalOrder, error) {
	order, err := s.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, order, rental.ActionCancel)
}

// Transition applies an admin action to any order
func (s *OrderService) Transition(ctx context.Context, orderID int64, action rental.Action) (*models.RentalOrder, error) {
	if action == rental.ActionCancel {
		action = rental.ActionAdminCancel
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, classify(err)
	}
	return s.apply(ctx, order, action)
}

// apply checks the lifecycle rules, persists the step with its restock and
// notification, and announces the change.
func (s *OrderService) apply(ctx context.Context, order *models.RentalOrder, action rental.Action) (*models.RentalOrder, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Transition")
	defer span.End()

	step, err := rental.Transition(order, action, s.now())
	if err != nil {
		util.OrderTransitionsRejected.WithLabelValues(string(action)).Inc()
		return nil, classify(err)
	}

	notice := &models.Notification{UserID: order.UserID, Message: step.Notice}
	if err := s.store.ApplyTransition(ctx, order, step, notice); err != nil {
		util.OrderTransitionsRejected.WithLabelValues(string(action)).Inc()
		return nil, fmt.Errorf("failed to apply %s: %w", action, classify(err))
	}

	util.OrderTransitionsTotal.WithLabelValues(string(action), step.To).Inc()
	if step.Restock > 0 {
		util.StockRestoredTotal.Add(float64(step.Restock))
	}

	s.logger.Info("Order status changed",
		zap.Int64("order_id", order.ID),
		zap.String("action", string(action)),
		zap.String("from", step.From),
		zap.String("to", step.To),
		zap.Int("restocked", step.Restock))

	order.Status = step.To
	order.UpdatedAt = s.now()

	event := &models.OrderStatusChangedEvent{
		OrderID: order.ID,
		UserID:  order.UserID,
		Action:  string(action),
		From:    step.From,
		To:      step.To,
	}
	if err := s.events.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}
	return order, nil
}

// RefundDeposit pays back the security deposit of a returned order, once
func (s *OrderService) RefundDeposit(ctx context.Context, orderID int64) (*models.RentalOrder, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.RefundDeposit")
	defer span.End()

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, classify(err)
	}

	message, err := rental.RefundDeposit(order)
	if err != nil {
		return nil, err
	}

	notice := &models.Notification{UserID: order.UserID, Message: message}
	if err := s.store.MarkDepositRefunded(ctx, order.ID, notice); err != nil {
		err = classify(err)
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: order %d deposit already refunded", rental.ErrDepositNotRefundable, order.ID)
		}
		return nil, fmt.Errorf("failed to refund deposit: %w", err)
	}

	order.DepositReturned = true
	util.DepositsRefundedTotal.Inc()
	s.logger.Info("Deposit refunded",
		zap.Int64("order_id", order.ID),
		zap.Int64("amount", order.SecurityDeposit))

	user, err := s.store.GetUserByID(ctx, order.UserID)
	if err != nil {
		s.logger.Error("Failed to load user for refund email", zap.Int64("order_id", order.ID), zap.Error(err))
		return order, nil
	}
	event := &models.DepositRefundedEvent{
		Recipient: recipient(user),
		OrderID:   order.ID,
		Amount:    order.SecurityDeposit,
	}
	if err := s.events.PublishDepositRefunded(ctx, event); err != nil {
		s.logger.Error("Failed to publish DepositRefunded event", zap.Error(err))
	}
	return order, nil
}

// UserHistory returns the rental history of a customer for administrators
func (s *OrderService) UserHistory(ctx context.Context, userID int64) (*models.User, []models.RentalOrder, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, classify(err)
	}
	orders, err := s.store.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, orders, nil
}
