package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gadget-rental/internal/models"
	"gadget-rental/internal/rental"
	"gadget-rental/internal/store"
	"gadget-rental/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService turns carts into rental orders
type CheckoutService struct {
	store    Store
	cache    Cache
	events   Publisher
	settings Settings
	now      func() time.Time
	logger   *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(store Store, cache Cache, events Publisher, settings Settings) *CheckoutService {
	return &CheckoutService{
		store:    store,
		cache:    cache,
		events:   events,
		settings: settings,
		now:      time.Now,
		logger:   util.GetLogger(),
	}
}

// CheckoutRequest places the whole cart
type CheckoutRequest struct {
	Address        string `json:"address" binding:"required"`
	PromoCode      string `json:"promo_code"`
	IdempotencyKey string `json:"-"`
}

// CheckoutResult lists the orders created from the cart
type CheckoutResult struct {
	Orders   []*models.RentalOrder `json:"orders"`
	Payable  int64                 `json:"payable"`
	Replayed bool                  `json:"replayed,omitempty"`
}

// Checkout places one booked, unpaid order per cart line. Stock is taken in
// the same transaction, so a line that no longer fits fails the whole cart.
func (s *CheckoutService) Checkout(ctx context.Context, userID int64, req *CheckoutRequest) (*CheckoutResult, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	idemKey := ""
	if req.IdempotencyKey != "" {
		idemKey = fmt.Sprintf("checkout:%d:%s", userID, req.IdempotencyKey)
		if prior, err := s.replay(ctx, userID, idemKey); err != nil || prior != nil {
			return prior, err
		}
	}

	lockKey := fmt.Sprintf("checkout:%d", userID)
	lockToken := uuid.New().String()
	locked, err := s.cache.AcquireLock(ctx, lockKey, lockToken, s.settings.CheckoutLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire checkout lock: %w", err)
	}
	if !locked {
		util.CheckoutsFailedTotal.WithLabelValues("in_progress").Inc()
		return nil, fmt.Errorf("%w: a checkout is already in progress", ErrConflict)
	}
	defer func() {
		if err := s.cache.ReleaseLock(ctx, lockKey, lockToken); err != nil {
			s.logger.Warn("Failed to release checkout lock", zap.Int64("user_id", userID), zap.Error(err))
		}
	}()

	result, err := s.place(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	if idemKey != "" {
		ids := make([]int64, 0, len(result.Orders))
		for _, o := range result.Orders {
			ids = append(ids, o.ID)
		}
		payload, _ := json.Marshal(ids)
		if err := s.cache.SetIdempotencyKey(ctx, idemKey, string(payload), s.settings.IdempotencyTTL); err != nil {
			s.logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}
	return result, nil
}

// replay returns the orders of an earlier checkout made with the same key
func (s *CheckoutService) replay(ctx context.Context, userID int64, key string) (*CheckoutResult, error) {
	raw, found, err := s.cache.GetIdempotencyKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if !found {
		return nil, nil
	}

	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("corrupt idempotency record %s: %w", key, err)
	}

	result := &CheckoutResult{Replayed: true}
	for _, id := range ids {
		order, err := s.store.GetOrder(ctx, id)
		if err != nil {
			return nil, classify(err)
		}
		if order.UserID != userID {
			return nil, fmt.Errorf("%w: order %d", ErrForbidden, id)
		}
		result.Orders = append(result.Orders, order)
		result.Payable += rental.Payable(order)
	}

	s.logger.Info("Duplicate checkout request detected",
		zap.String("idempotency_key", key),
		zap.Int("orders", len(ids)))
	return result, nil
}

func (s *CheckoutService) place(ctx context.Context, userID int64, req *CheckoutRequest) (*CheckoutResult, error) {
	address := strings.TrimSpace(req.Address)
	if address == "" {
		util.CheckoutsFailedTotal.WithLabelValues("no_address").Inc()
		return nil, invalid("delivery address is required")
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}

	lines, err := s.store.ListCartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(lines) == 0 {
		util.CheckoutsFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, invalid("your cart is empty")
	}

	var coupon *models.Coupon
	if strings.TrimSpace(req.PromoCode) != "" {
		if coupon, err = usableCoupon(ctx, s.store, req.PromoCode, s.now()); err != nil {
			util.CheckoutsFailedTotal.WithLabelValues("bad_promo").Inc()
			return nil, err
		}
	}

	if err := s.checkLines(lines); err != nil {
		return nil, err
	}

	q := quote(s.settings.Policy, lines, coupon)
	orders := make([]*models.RentalOrder, 0, len(q.Lines))
	for _, l := range q.Lines {
		orders = append(orders, &models.RentalOrder{
			UserID:          userID,
			GadgetID:        l.GadgetID,
			Quantity:        l.Quantity,
			StartDate:       l.StartDate,
			EndDate:         l.EndDate,
			TotalDays:       l.Days,
			TotalPrice:      l.Subtotal,
			SecurityDeposit: l.Deposit,
			PromoCode:       q.PromoCode,
			DiscountAmount:  l.Discount,
			Status:          models.OrderStatusBooked,
			PaymentStatus:   models.PaymentStatusPending,
			GadgetName:      l.GadgetName,
		})
	}

	params := store.PlaceOrdersParams{UserID: userID, Address: address, Orders: orders}
	if coupon != nil {
		params.CouponID = coupon.ID
	}
	if err := s.store.PlaceOrders(ctx, params); err != nil {
		err = classify(err)
		switch {
		case errors.Is(err, ErrInsufficientStock):
			util.CheckoutsFailedTotal.WithLabelValues("insufficient_stock").Inc()
		case errors.Is(err, ErrConflict):
			util.CheckoutsFailedTotal.WithLabelValues("coupon_used_up").Inc()
		default:
			util.CheckoutsFailedTotal.WithLabelValues("db_error").Inc()
		}
		return nil, fmt.Errorf("failed to place orders: %w", err)
	}

	util.OrdersPlacedTotal.Add(float64(len(orders)))
	s.logger.Info("Checkout completed",
		zap.Int64("user_id", userID),
		zap.Int("orders", len(orders)),
		zap.Int64("payable", q.Payable))

	for _, o := range orders {
		event := &models.OrderPlacedEvent{
			Recipient:  recipient(user),
			OrderID:    o.ID,
			GadgetName: o.GadgetName,
			TotalPrice: o.TotalPrice,
			StartDate:  o.StartDate,
			EndDate:    o.EndDate,
		}
		if err := s.events.PublishOrderPlaced(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderPlaced event", zap.Int64("order_id", o.ID), zap.Error(err))
		}
	}

	return &CheckoutResult{Orders: orders, Payable: q.Payable}, nil
}

// checkLines verifies every gadget still has enough stock for all the cart
// lines that want it and that no rental has started in the past.
func (s *CheckoutService) checkLines(lines []models.CartLine) error {
	today := rental.Day(s.now())
	wanted := make(map[int64]int)
	for _, l := range lines {
		if rental.Day(l.StartDate).Before(today) {
			util.CheckoutsFailedTotal.WithLabelValues("stale_dates").Inc()
			return invalid("rental of %s starts in the past; please update your cart", l.GadgetName)
		}
		wanted[l.GadgetID] += l.Quantity
		if wanted[l.GadgetID] > l.Stock {
			util.CheckoutsFailedTotal.WithLabelValues("insufficient_stock").Inc()
			return fmt.Errorf("%w: not enough stock for %s. Available: %d",
				ErrInsufficientStock, l.GadgetName, l.Stock)
		}
	}
	return nil
}
