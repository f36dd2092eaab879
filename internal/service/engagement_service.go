package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gadget-rental/internal/models"
	"gadget-rental/internal/rental"
	"gadget-rental/internal/util"

	"go.uber.org/zap"
)

// ReviewService handles ratings of returned rentals
type ReviewService struct {
	store  Store
	logger *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(store Store) *ReviewService {
	return &ReviewService{store: store, logger: util.GetLogger()}
}

// ReviewRequest rates a rental from 1 to 5
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// Submit reviews one of the user's returned orders. Each order takes one review.
func (s *ReviewService) Submit(ctx context.Context, userID, orderID int64, req *ReviewRequest) (*models.Review, error) {
	ctx, span := util.StartSpan(ctx, "ReviewService.Submit")
	defer span.End()

	if req.Rating < 1 || req.Rating > 5 {
		return nil, invalid("rating must be between 1 and 5")
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, classify(err)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %d belongs to another user", ErrForbidden, orderID)
	}
	if order.Status != models.OrderStatusReturned {
		return nil, fmt.Errorf("%w: you can only review returned orders", ErrConflict)
	}

	if _, err := s.store.GetReviewByOrder(ctx, orderID); err == nil {
		return nil, fmt.Errorf("%w: you have already reviewed this order", ErrConflict)
	} else if !errors.Is(classify(err), ErrNotFound) {
		return nil, err
	}

	review := &models.Review{
		OrderID:    order.ID,
		GadgetID:   order.GadgetID,
		UserID:     userID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
		GadgetName: order.GadgetName,
	}
	notice := &models.Notification{
		UserID:  userID,
		Message: fmt.Sprintf("Thank you! Your review for %s has been submitted.", order.GadgetName),
	}
	if err := s.store.CreateReview(ctx, review, notice); err != nil {
		err = classify(err)
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: you have already reviewed this order", ErrConflict)
		}
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	s.logger.Info("Review submitted", zap.Int64("order_id", orderID), zap.Int("rating", req.Rating))
	return review, nil
}

// List returns every review, newest first
func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	return s.store.ListReviews(ctx)
}

// WishlistService handles saved gadgets
type WishlistService struct {
	store Store
	cart  *CartService
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(store Store, cart *CartService) *WishlistService {
	return &WishlistService{store: store, cart: cart}
}

// Add saves a gadget; it reports false when it was already on the wishlist
func (s *WishlistService) Add(ctx context.Context, userID, gadgetID int64) (bool, error) {
	if _, err := s.store.GetGadget(ctx, gadgetID); err != nil {
		return false, classify(err)
	}
	return s.store.AddWishlistItem(ctx, userID, gadgetID)
}

// List returns the user's wishlist
func (s *WishlistService) List(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	return s.store.ListWishlist(ctx, userID)
}

func (s *WishlistService) owned(ctx context.Context, userID, itemID int64) (*models.WishlistItem, error) {
	item, err := s.store.GetWishlistItem(ctx, itemID)
	if err != nil {
		return nil, classify(err)
	}
	if item.UserID != userID {
		return nil, fmt.Errorf("%w: wishlist item %d belongs to another user", ErrForbidden, itemID)
	}
	return item, nil
}

// Remove deletes a wishlist entry
func (s *WishlistService) Remove(ctx context.Context, userID, itemID int64) error {
	item, err := s.owned(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.store.DeleteWishlistItem(ctx, item.ID)
}

// MoveToCart puts a wishlisted gadget in the cart for today and drops it
// from the wishlist.
func (s *WishlistService) MoveToCart(ctx context.Context, userID, itemID int64) (*models.CartItem, error) {
	item, err := s.owned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	today := rental.Day(s.cart.now())
	cartItem, err := s.cart.addLine(ctx, userID, item.GadgetID, today, today)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteWishlistItem(ctx, item.ID); err != nil {
		return nil, err
	}
	return cartItem, nil
}

// NotificationService handles in-app messages
type NotificationService struct {
	store Store
}

// NewNotificationService creates a new notification service
func NewNotificationService(store Store) *NotificationService {
	return &NotificationService{store: store}
}

// ListAndMarkRead returns the user's notifications newest first and marks
// them all read; the returned copies still show which were unread.
func (s *NotificationService) ListAndMarkRead(ctx context.Context, userID int64) ([]models.Notification, error) {
	notes, err := s.store.ListNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.MarkAllNotificationsRead(ctx, userID); err != nil {
		return nil, err
	}
	return notes, nil
}

// MarkRead flags one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	note, err := s.store.GetNotification(ctx, id)
	if err != nil {
		return classify(err)
	}
	if note.UserID != userID {
		return fmt.Errorf("%w: notification %d belongs to another user", ErrForbidden, id)
	}
	return s.store.MarkNotificationRead(ctx, id)
}

// broadcast sends message to every account
func broadcast(ctx context.Context, st Store, message string) error {
	ids, err := st.ListUserIDs(ctx)
	if err != nil {
		return err
	}
	notes := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		notes = append(notes, models.Notification{UserID: id, Message: message})
	}
	if len(notes) == 0 {
		return nil
	}
	return st.CreateNotifications(ctx, notes...)
}

// notifyAdmins sends message to every administrator
func notifyAdmins(ctx context.Context, st Store, message string) error {
	admins, err := st.ListAdmins(ctx)
	if err != nil {
		return err
	}
	notes := make([]models.Notification, 0, len(admins))
	for _, a := range admins {
		notes = append(notes, models.Notification{UserID: a.ID, Message: message})
	}
	if len(notes) == 0 {
		return nil
	}
	return st.CreateNotifications(ctx, notes...)
}

// FeedbackService handles customer feedback to the administrators
type FeedbackService struct {
	store  Store
	logger *zap.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(store Store) *FeedbackService {
	return &FeedbackService{store: store, logger: util.GetLogger()}
}

// FeedbackRequest is a message to the administrators
type FeedbackRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Submit stores feedback and alerts every administrator
func (s *FeedbackService) Submit(ctx context.Context, user *models.User, req *FeedbackRequest) (*models.Feedback, error) {
	subject, message := strings.TrimSpace(req.Subject), strings.TrimSpace(req.Message)
	if subject == "" || message == "" {
		return nil, invalid("please fill in both subject and message")
	}

	fb := &models.Feedback{
		UserID:   user.ID,
		Subject:  subject,
		Message:  message,
		Status:   models.FeedbackStatusPending,
		UserName: user.Name,
	}
	if err := s.store.CreateFeedback(ctx, fb); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	alert := fmt.Sprintf("New feedback from %s: %s", user.Name, subject)
	if err := notifyAdmins(ctx, s.store, alert); err != nil {
		s.logger.Error("Failed to notify admins of feedback", zap.Int64("feedback_id", fb.ID), zap.Error(err))
	}
	return fb, nil
}

// List returns all feedback, newest first
func (s *FeedbackService) List(ctx context.Context) ([]models.Feedback, error) {
	return s.store.ListFeedback(ctx)
}

// Resolve closes a feedback item and tells its author
func (s *FeedbackService) Resolve(ctx context.Context, id int64) error {
	fb, err := s.store.GetFeedback(ctx, id)
	if err != nil {
		return classify(err)
	}
	if fb.Status == models.FeedbackStatusResolved {
		return fmt.Errorf("%w: feedback %d is already resolved", ErrConflict, id)
	}

	notice := &models.Notification{
		UserID:  fb.UserID,
		Message: fmt.Sprintf("Your feedback '%s' has been marked as resolved by admin.", fb.Subject),
	}
	if err := s.store.ResolveFeedback(ctx, id, notice); err != nil {
		return classify(err)
	}
	return nil
}
