package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gadget-rental/internal/models"
)

// ListCartLines returns a user's cart joined with the current gadget data
func (s *Store) ListCartLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := s.db.SelectContext(ctx, &lines, `
		SELECT c.id, c.user_id, c.gadget_id, c.quantity, c.start_date, c.end_date,
		       g.name AS gadget_name, g.price_per_day, g.stock
		FROM cart_items c
		JOIN gadgets g ON g.id = c.gadget_id
		WHERE c.user_id = $1
		ORDER BY c.id`, userID)
	return lines, err
}

// CountCartItems counts the lines in a user's cart
func (s *Store) CountCartItems(ctx context.Context, userID int64) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM cart_items WHERE user_id = $1", userID)
	return n, err
}

// GetCartItem retrieves one cart line
func (s *Store) GetCartItem(ctx context.Context, id int64) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item, "SELECT * FROM cart_items WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindCartItem looks up the line for a gadget over exactly the given dates
func (s *Store) FindCartItem(ctx context.Context, userID, gadgetID int64, start, end time.Time) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item, `
		SELECT * FROM cart_items
		WHERE user_id = $1 AND gadget_id = $2 AND start_date = $3 AND end_date = $4`,
		userID, gadgetID, start, end)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart item for gadget %d: %w", gadgetID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateCartItem inserts a cart line
func (s *Store) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	query := `
		INSERT INTO cart_items (user_id, gadget_id, quantity, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := s.db.GetContext(ctx, &item.ID, query,
		item.UserID, item.GadgetID, item.Quantity, item.StartDate, item.EndDate)
	return translate(err)
}

// SetCartItemQuantity replaces the quantity of a cart line
func (s *Store) SetCartItemQuantity(ctx context.Context, id int64, quantity int) error {
	n, err := affected(s.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $1 WHERE id = $2", quantity, id))
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("cart item %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCartItem removes a cart line
func (s *Store) DeleteCartItem(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE id = $1", id)
	return err
}

// ClearCart removes every line of a user's cart
func (s *Store) ClearCart(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	return err
}

// GetCouponByCode retrieves a coupon, ignoring case
func (s *Store) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.db.GetContext(ctx, &coupon, "SELECT * FROM coupons WHERE UPPER(code) = UPPER($1)", code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("coupon %s: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// UpsertCoupon creates a coupon or refreshes its terms
func (s *Store) UpsertCoupon(ctx context.Context, c *models.Coupon) error {
	query := `
		INSERT INTO coupons (code, description, discount_percent, is_active, expires_at, max_uses)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO UPDATE
		SET description = EXCLUDED.description,
		    discount_percent = EXCLUDED.discount_percent,
		    is_active = EXCLUDED.is_active,
		    expires_at = EXCLUDED.expires_at,
		    max_uses = EXCLUDED.max_uses
		RETURNING id, times_used, created_at`

	return s.db.QueryRowxContext(ctx, query,
		c.Code, c.Description, c.DiscountPercent, c.IsActive, c.ExpiresAt, c.MaxUses,
	).Scan(&c.ID, &c.TimesUsed, &c.CreatedAt)
}
