package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gadget-rental/internal/models"
	"gadget-rental/internal/rental"

	"github.com/jmoiron/sqlx"
)

const orderColumns = `o.id, o.user_id, o.gadget_id, o.quantity, o.start_date, o.end_date, o.total_days,
	o.total_price, o.security_deposit, o.deposit_returned, o.promo_code, o.discount_amount,
	o.status, o.payment_status, o.transaction_id, o.created_at, o.updated_at, g.name AS gadget_name`

// PlaceOrdersParams is everything checkout writes in one go
type PlaceOrdersParams struct {
	UserID   int64
	Address  string
	Orders   []*models.RentalOrder
	CouponID int64
}

// PlaceOrders turns a cart into orders atomically: it saves the delivery
// address, takes stock for every order, inserts the orders, redeems the coupon
// and empties the cart. Stock is decremented only where enough is left, so a
// short gadget aborts the whole checkout with ErrOutOfStock.
func (s *Store) PlaceOrders(ctx context.Context, p PlaceOrdersParams) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE users SET address = $1 WHERE id = $2", p.Address, p.UserID); err != nil {
			return fmt.Errorf("failed to save address: %w", err)
		}

		for _, o := range p.Orders {
			n, err := affected(tx.ExecContext(ctx, `
				UPDATE gadgets
				SET stock = stock - $1, rental_count = rental_count + $1
				WHERE id = $2 AND stock >= $1`,
				o.Quantity, o.GadgetID))
			if err != nil {
				return fmt.Errorf("failed to take stock: %w", err)
			}
			if n == 0 {
				return fmt.Errorf("gadget %d: %w", o.GadgetID, ErrOutOfStock)
			}

			err = tx.QueryRowxContext(ctx, `
				INSERT INTO rental_orders (user_id, gadget_id, quantity, start_date, end_date, total_days,
				    total_price, security_deposit, promo_code, discount_amount, status, payment_status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
				RETURNING id, created_at, updated_at`,
				o.UserID, o.GadgetID, o.Quantity, o.StartDate, o.EndDate, o.TotalDays,
				o.TotalPrice, o.SecurityDeposit, o.PromoCode, o.DiscountAmount, o.Status, o.PaymentStatus,
			).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to create order: %w", translate(err))
			}
		}

		if p.CouponID != 0 {
			n, err := affected(tx.ExecContext(ctx, `
				UPDATE coupons SET times_used = times_used + 1
				WHERE id = $1 AND (max_uses IS NULL OR times_used < max_uses)`, p.CouponID))
			if err != nil {
				return fmt.Errorf("failed to redeem coupon: %w", err)
			}
			if n == 0 {
				return fmt.Errorf("coupon %d used up: %w", p.CouponID, ErrStaleState)
			}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", p.UserID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
}

// GetOrder retrieves an order with its gadget name
func (s *Store) GetOrder(ctx context.Context, id int64) (*models.RentalOrder, error) {
	var order models.RentalOrder
	err := s.db.GetContext(ctx, &order,
		"SELECT "+orderColumns+" FROM rental_orders o JOIN gadgets g ON g.id = o.gadget_id WHERE o.id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersByUser returns a user's orders, newest first
func (s *Store) ListOrdersByUser(ctx context.Context, userID int64) ([]models.RentalOrder, error) {
	var orders []models.RentalOrder
	err := s.db.SelectContext(ctx, &orders,
		"SELECT "+orderColumns+` FROM rental_orders o JOIN gadgets g ON g.id = o.gadget_id
		WHERE o.user_id = $1 ORDER BY o.created_at DESC, o.id DESC`, userID)
	return orders, err
}

// ListOrders returns every order, optionally only those in one status
func (s *Store) ListOrders(ctx context.Context, status string) ([]models.RentalOrder, error) {
	query := "SELECT " + orderColumns + " FROM rental_orders o JOIN gadgets g ON g.id = o.gadget_id"
	args := []interface{}{}
	if status != "" {
		query += " WHERE o.status = $1"
		args = append(args, status)
	}
	query += " ORDER BY o.created_at DESC, o.id DESC"

	var orders []models.RentalOrder
	err := s.db.SelectContext(ctx, &orders, query, args...)
	return orders, err
}

// LatestPayableOrder finds the user's most recent order still awaiting payment
func (s *Store) LatestPayableOrder(ctx context.Context, userID int64) (*models.RentalOrder, error) {
	var order models.RentalOrder
	err := s.db.GetContext(ctx, &order,
		"SELECT "+orderColumns+` FROM rental_orders o JOIN gadgets g ON g.id = o.gadget_id
		WHERE o.user_id = $1 AND o.payment_status IN ('pending', 'failed') AND o.status <> 'cancelled'
		ORDER BY o.created_at DESC, o.id DESC LIMIT 1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payable order for user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// RecordPayment stores a payment attempt on an unpaid order, with an optional
// notification for the customer.
func (s *Store) RecordPayment(ctx context.Context, orderID int64, status, txID string, notice *models.Notification) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		n, err := affected(tx.ExecContext(ctx, `
			UPDATE rental_orders
			SET payment_status = $1, transaction_id = $2, updated_at = NOW()
			WHERE id = $3 AND payment_status <> 'paid' AND status <> 'cancelled'`,
			status, txID, orderID))
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("order %d payment: %w", orderID, ErrStaleState)
		}
		if notice != nil {
			return insertNotifications(ctx, tx, *notice)
		}
		return nil
	})
}

// ApplyTransition moves an order along its lifecycle. The update only matches
// while the order is still in step.From, gives back step.Restock units and
// writes the customer notification in the same transaction.
func (s *Store) ApplyTransition(ctx context.Context, order *models.RentalOrder, step *rental.Step, notice *models.Notification) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		n, err := affected(tx.ExecContext(ctx,
			"UPDATE rental_orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3",
			step.To, order.ID, step.From))
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("order %d no longer %s: %w", order.ID, step.From, ErrStaleState)
		}

		if step.Restock > 0 {
			if _, err := tx.ExecContext(ctx,
				"UPDATE gadgets SET stock = stock + $1 WHERE id = $2", step.Restock, order.GadgetID); err != nil {
				return fmt.Errorf("failed to restock gadget %d: %w", order.GadgetID, err)
			}
		}

		if notice != nil {
			return insertNotifications(ctx, tx, *notice)
		}
		return nil
	})
}

// MarkDepositRefunded flags a returned order's deposit as paid back, once
func (s *Store) MarkDepositRefunded(ctx context.Context, orderID int64, notice *models.Notification) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		n, err := affected(tx.ExecContext(ctx, `
			UPDATE rental_orders SET deposit_returned = TRUE, updated_at = NOW()
			WHERE id = $1 AND status = 'returned' AND deposit_returned = FALSE`, orderID))
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("order %d deposit: %w", orderID, ErrStaleState)
		}
		if notice != nil {
			return insertNotifications(ctx, tx, *notice)
		}
		return nil
	})
}
