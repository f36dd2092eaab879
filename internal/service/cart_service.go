package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gadget-rental/internal/models"
	"gadget-rental/internal/rental"
	"gadget-rental/internal/util"

	"go.uber.org/zap"
)

const cartReminderMessage = "You have items in your cart! Complete your order soon."

// CartService manages carts, promo quotes and cart reminders
type CartService struct {
	store    Store
	cache    Cache
	settings Settings
	now      func() time.Time
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store Store, cache Cache, settings Settings) *CartService {
	return &CartService{
		store:    store,
		cache:    cache,
		settings: settings,
		now:      time.Now,
		logger:   util.GetLogger(),
	}
}

// AddToCartRequest puts a gadget in the cart for a date range (YYYY-MM-DD)
type AddToCartRequest struct {
	GadgetID  int64  `json:"gadget_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// CartView is the cart as the customer sees it
type CartView struct {
	Items []models.CartLine `json:"items"`
	Quote rental.Quote      `json:"quote"`
}

// Add puts a gadget in the cart. The same gadget over the same dates bumps
// the existing line's quantity by one.
func (s *CartService) Add(ctx context.Context, userID int64, req *AddToCartRequest) (*models.CartItem, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Add")
	defer span.End()

	start, err := rental.ParseDay(req.StartDate)
	if err != nil {
		return nil, classify(err)
	}
	end, err := rental.ParseDay(req.EndDate)
	if err != nil {
		return nil, classify(err)
	}
	if err := s.settings.Policy.ValidateWindow(start, end, s.now()); err != nil {
		return nil, classify(err)
	}

	gadget, err := s.store.GetGadget(ctx, req.GadgetID)
	if err != nil {
		return nil, classify(err)
	}
	if !gadget.IsActive {
		return nil, fmt.Errorf("%w: gadget %d is not available", ErrNotFound, gadget.ID)
	}

	return s.addLine(ctx, userID, gadget.ID, start, end)
}

func (s *CartService) addLine(ctx context.Context, userID, gadgetID int64, start, end time.Time) (*models.CartItem, error) {
	existing, err := s.store.FindCartItem(ctx, userID, gadgetID, start, end)
	switch {
	case err == nil:
		existing.Quantity++
		if err := s.store.SetCartItemQuantity(ctx, existing.ID, existing.Quantity); err != nil {
			return nil, classify(err)
		}
		return existing, nil
	case !errors.Is(classify(err), ErrNotFound):
		return nil, err
	}

	item := &models.CartItem{
		UserID:    userID,
		GadgetID:  gadgetID,
		Quantity:  1,
		StartDate: start,
		EndDate:   end,
	}
	if err := s.store.CreateCartItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", classify(err))
	}
	return item, nil
}

// View returns the cart priced with an optional promo code
func (s *CartService) View(ctx context.Context, userID int64, promoCode string) (*CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.View")
	defer span.End()

	lines, err := s.store.ListCartLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var coupon *models.Coupon
	if strings.TrimSpace(promoCode) != "" {
		if coupon, err = s.coupon(ctx, promoCode); err != nil {
			return nil, err
		}
	}

	return &CartView{Items: lines, Quote: quote(s.settings.Policy, lines, coupon)}, nil
}

// coupon looks up a usable promo code
func (s *CartService) coupon(ctx context.Context, code string) (*models.Coupon, error) {
	return usableCoupon(ctx, s.store, code, s.now())
}

func usableCoupon(ctx context.Context, st Store, code string, now time.Time) (*models.Coupon, error) {
	c, err := st.GetCouponByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(classify(err), ErrNotFound) {
			return nil, invalid("invalid promo code")
		}
		return nil, err
	}
	if !c.Usable(now) {
		return nil, invalid("promo code %s is no longer valid", c.Code)
	}
	return c, nil
}

func quote(p rental.Policy, lines []models.CartLine, coupon *models.Coupon) rental.Quote {
	priced := make([]rental.Line, 0, len(lines))
	for _, l := range lines {
		priced = append(priced, rental.Line{
			CartItemID:  l.ID,
			GadgetID:    l.GadgetID,
			GadgetName:  l.GadgetName,
			PricePerDay: l.PricePerDay,
			Quantity:    l.Quantity,
			StartDate:   l.StartDate,
			EndDate:     l.EndDate,
		})
	}
	if coupon == nil {
		return p.QuoteCart(priced, "", 0)
	}
	return p.QuoteCart(priced, strings.ToUpper(coupon.Code), coupon.DiscountPercent)
}

// ownedItem loads a cart line and checks it belongs to userID
func (s *CartService) ownedItem(ctx context.Context, userID, itemID int64) (*models.CartItem, error) {
	item, err := s.store.GetCartItem(ctx, itemID)
	if err != nil {
		return nil, classify(err)
	}
	if item.UserID != userID {
		return nil, fmt.Errorf("%w: cart item %d belongs to another user", ErrForbidden, itemID)
	}
	return item, nil
}

// UpdateQuantity sets a cart line's quantity
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, invalid("quantity must be at least 1")
	}
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetCartItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, classify(err)
	}
	item.Quantity = quantity
	return item, nil
}

// Remove deletes a cart line
func (s *CartService) Remove(ctx context.Context, userID, itemID int64) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.store.DeleteCartItem(ctx, item.ID)
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.store.ClearCart(ctx, userID)
}

// SendReminder nudges a user with a non-empty cart. It reports false when the
// cart is empty or a reminder already went out within the cooldown.
func (s *CartService) SendReminder(ctx context.Context, userID int64) (bool, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return false, classify(err)
	}

	n, err := s.store.CountCartItems(ctx, userID)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	fresh, err := s.cache.MarkReminderSent(ctx, userID, s.settings.ReminderCooldown)
	if err != nil {
		return false, fmt.Errorf("failed to check reminder cooldown: %w", err)
	}
	if !fresh {
		return false, nil
	}

	if err := s.store.CreateNotifications(ctx, models.Notification{UserID: userID, Message: cartReminderMessage}); err != nil {
		return false, err
	}
	s.logger.Info("Cart reminder sent", zap.Int64("user_id", userID))
	return true, nil
}
