package service

import (
	"context"
	"fmt"
	"testing"

	"gadget-rental/internal/models"
	"gadget-rental/internal/rental"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func returnedOrder(t *testing.T, f *fixture, userID, gadgetID int64) *models.RentalOrder {
	t.Helper()
	order := f.placeOrder(t, userID, gadgetID, 1)
	for _, a := range []rental.Action{rental.ActionApprove, rental.ActionActivate, rental.ActionReturn} {
		_, err := f.orders.Transition(context.Background(), order.ID, a)
		require.NoError(t, err)
	}
	return order
}

func TestReviewOnlyReturnedOrdersOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "arun")
	other := f.customer(t, "meera")
	camera := f.gadget(t, "Sony A7 IV", 150000, 3)

	booked := f.placeOrder(t, u.ID, camera.ID, 1)
	_, err := f.reviews.Submit(ctx, u.ID, booked.ID, &ReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, ErrConflict, "not returned yet")

	order := returnedOrder(t, f, u.ID, camera.ID)

	_, err = f.reviews.Submit(ctx, u.ID, order.ID, &ReviewRequest{Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.reviews.Submit(ctx, other.ID, order.ID, &ReviewRequest{Rating: 4})
	assert.ErrorIs(t, err, ErrForbidden)

	review, err := f.reviews.Submit(ctx, u.ID, order.ID, &ReviewRequest{Rating: 4, Comment: " Sharp images "})
	require.NoError(t, err)
	assert.Equal(t, "Sharp images", review.Comment)

	_, err = f.reviews.Submit(ctx, u.ID, order.ID, &ReviewRequest{Rating: 2})
	assert.ErrorIs(t, err, ErrConflict)

	g, err := f.store.GetGadget(ctx, camera.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, g.AvgRating, 0.001)

	assert.Contains(t, f.store.Messages(u.ID), "Thank you! Your review for Sony A7 IV has been submitted.")

	all, err := f.reviews.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWishlistAddAndMoveToCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "arun")
	other := f.customer(t, "meera")
	camera := f.gadget(t, "Sony A7 IV", 150000, 3)

	added, err := f.wishlist.Add(ctx, u.ID, camera.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = f.wishlist.Add(ctx, u.ID, camera.ID)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = f.wishlist.Add(ctx, u.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := f.wishlist.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Sony A7 IV", items[0].GadgetName)

	_, err = f.wishlist.MoveToCart(ctx, other.ID, items[0].ID)
	assert.ErrorIs(t, err, ErrForbidden)

	cartItem, err := f.wishlist.MoveToCart(ctx, u.ID, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, rental.Day(testNow), cartItem.StartDate)
	assert.Equal(t, rental.Day(testNow), cartItem.EndDate)

	items, err = f.wishlist.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// moving the same gadget again merges into the existing line
	_, err = f.wishlist.Add(ctx, u.ID, camera.ID)
	require.NoError(t, err)
	items, err = f.wishlist.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	again, err := f.wishlist.MoveToCart(ctx, u.ID, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, cartItem.ID, again.ID)
	assert.Equal(t, 2, again.Quantity)
}

func TestNotificationsMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "arun")
	other := f.customer(t, "meera")
	require.NoError(t, f.store.CreateNotifications(ctx,
		models.Notification{UserID: u.ID, Message: "first"},
		models.Notification{UserID: u.ID, Message: "second"},
	))

	notes, err := f.store.ListNotifications(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].Message)

	assert.ErrorIs(t, f.notifications.MarkRead(ctx, other.ID, notes[0].ID), ErrForbidden)
	require.NoError(t, f.notifications.MarkRead(ctx, u.ID, notes[0].ID))

	listed, err := f.notifications.ListAndMarkRead(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, listed[0].IsRead)
	assert.False(t, listed[1].IsRead, "returned as it was before the listing")

	after, err := f.store.ListNotifications(ctx, u.ID)
	require.NoError(t, err)
	for _, n := range after {
		assert.True(t, n.IsRead)
	}
}

func TestFeedbackNotifiesAdminsAndAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.adminUser(t)
	u := f.customer(t, "arun")

	_, err := f.feedback.Submit(ctx, u, &FeedbackRequest{Subject: "Late delivery", Message: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	fb, err := f.feedback.Submit(ctx, u, &FeedbackRequest{Subject: "Late delivery", Message: "Camera came a day late"})
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackStatusPending, fb.Status)
	assert.Equal(t, []string{"New feedback from arun: Late delivery"}, f.store.Messages(admin.ID))

	require.NoError(t, f.feedback.Resolve(ctx, fb.ID))
	assert.Equal(t,
		[]string{fmt.Sprintf("Your feedback '%s' has been marked as resolved by admin.", "Late delivery")},
		f.store.Messages(u.ID))

	assert.ErrorIs(t, f.feedback.Resolve(ctx, fb.ID), ErrConflict)
	assert.ErrorIs(t, f.feedback.Resolve(ctx, 9999), ErrNotFound)
}
