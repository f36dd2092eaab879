package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gadget-rental/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetReviewByOrder retrieves the review left for an order
func (s *Store) GetReviewByOrder(ctx context.Context, orderID int64) (*models.Review, error) {
	var review models.Review
	err := s.db.GetContext(ctx, &review, "SELECT * FROM reviews WHERE order_id = $1", orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("review for order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// CreateReview saves a review, refreshes the gadget's average rating and
// notifies the reviewer.
func (s *Store) CreateReview(ctx context.Context, review *models.Review, notice *models.Notification) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO reviews (order_id, gadget_id, user_id, rating, comment)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			review.OrderID, review.GadgetID, review.UserID, review.Rating, review.Comment,
		).Scan(&review.ID, &review.CreatedAt)
		if err != nil {
			return translate(err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE gadgets
			SET avg_rating = (SELECT AVG(rating) FROM reviews WHERE gadget_id = $1)
			WHERE id = $1`, review.GadgetID); err != nil {
			return fmt.Errorf("failed to update rating: %w", err)
		}

		if notice != nil {
			return insertNotifications(ctx, tx, *notice)
		}
		return nil
	})
}

// ListReviews returns all reviews, newest first
func (s *Store) ListReviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.SelectContext(ctx, &reviews, `
		SELECT r.*, u.name AS user_name, g.name AS gadget_name
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		JOIN gadgets g ON g.id = r.gadget_id
		ORDER BY r.created_at DESC, r.id DESC`)
	return reviews, err
}

// ListReviewsByGadget returns a gadget's reviews, newest first
func (s *Store) ListReviewsByGadget(ctx context.Context, gadgetID int64) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.SelectContext(ctx, &reviews, `
		SELECT r.*, u.name AS user_name, g.name AS gadget_name
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		JOIN gadgets g ON g.id = r.gadget_id
		WHERE r.gadget_id = $1
		ORDER BY r.created_at DESC, r.id DESC`, gadgetID)
	return reviews, err
}

// AddWishlistItem saves a gadget to a wishlist; it reports false when it was already there
func (s *Store) AddWishlistItem(ctx context.Context, userID, gadgetID int64) (bool, error) {
	n, err := affected(s.db.ExecContext(ctx, `
		INSERT INTO wishlist_items (user_id, gadget_id) VALUES ($1, $2)
		ON CONFLICT (user_id, gadget_id) DO NOTHING`, userID, gadgetID))
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetWishlistItem retrieves one wishlist entry
func (s *Store) GetWishlistItem(ctx context.Context, id int64) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := s.db.GetContext(ctx, &item, "SELECT * FROM wishlist_items WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("wishlist item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListWishlist returns a user's wishlist with gadget names
func (s *Store) ListWishlist(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := s.db.SelectContext(ctx, &items, `
		SELECT w.*, g.name AS gadget_name, g.price_per_day
		FROM wishlist_items w
		JOIN gadgets g ON g.id = w.gadget_id
		WHERE w.user_id = $1
		ORDER BY w.added_at DESC, w.id DESC`, userID)
	return items, err
}

// DeleteWishlistItem removes a wishlist entry
func (s *Store) DeleteWishlistItem(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM wishlist_items WHERE id = $1", id)
	return err
}

// CreateNotifications stores one or more notifications
func (s *Store) CreateNotifications(ctx context.Context, notes ...models.Notification) error {
	return insertNotifications(ctx, s.db, notes...)
}

func insertNotifications(ctx context.Context, ext sqlx.ExtContext, notes ...models.Notification) error {
	for _, n := range notes {
		if _, err := ext.ExecContext(ctx,
			"INSERT INTO notifications (user_id, message) VALUES ($1, $2)", n.UserID, n.Message); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
	}
	return nil
}

// ListNotifications returns a user's notifications, newest first
func (s *Store) ListNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	var notes []models.Notification
	err := s.db.SelectContext(ctx, &notes,
		"SELECT * FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id DESC", userID)
	return notes, err
}

// GetNotification retrieves one notification
func (s *Store) GetNotification(ctx context.Context, id int64) (*models.Notification, error) {
	var note models.Notification
	err := s.db.GetContext(ctx, &note, "SELECT * FROM notifications WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// MarkNotificationRead flags one notification as read
func (s *Store) MarkNotificationRead(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "UPDATE notifications SET is_read = TRUE WHERE id = $1", id)
	return err
}

// MarkAllNotificationsRead flags every notification of a user as read
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE", userID)
	return err
}

// CreateFeedback stores a feedback message
func (s *Store) CreateFeedback(ctx context.Context, fb *models.Feedback) error {
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO feedback (user_id, subject, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		fb.UserID, fb.Subject, fb.Message, fb.Status,
	).Scan(&fb.ID, &fb.CreatedAt)
}

// GetFeedback retrieves one feedback message
func (s *Store) GetFeedback(ctx context.Context, id int64) (*models.Feedback, error) {
	var fb models.Feedback
	err := s.db.GetContext(ctx, &fb, "SELECT * FROM feedback WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("feedback %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

// ListFeedback returns all feedback with author names, newest first
func (s *Store) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	var items []models.Feedback
	err := s.db.SelectContext(ctx, &items, `
		SELECT f.*, u.name AS user_name
		FROM feedback f
		JOIN users u ON u.id = f.user_id
		ORDER BY f.created_at DESC, f.id DESC`)
	return items, err
}

// ResolveFeedback marks feedback resolved and notifies its author; it fails
// with ErrStaleState when the feedback was already resolved.
func (s *Store) ResolveFeedback(ctx context.Context, id int64, notice *models.Notification) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		n, err := affected(tx.ExecContext(ctx,
			"UPDATE feedback SET status = 'resolved' WHERE id = $1 AND status <> 'resolved'", id))
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("feedback %d: %w", id, ErrStaleState)
		}
		if notice != nil {
			return insertNotifications(ctx, tx, *notice)
		}
		return nil
	})
}
