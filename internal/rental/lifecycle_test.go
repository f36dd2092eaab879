package rental

import (
	"testing"

	"gadget-rental/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(status string) *models.RentalOrder {
	return &models.RentalOrder{
		ID:        7,
		Status:    status,
		Quantity:  2,
		StartDate: date("2026-03-20"),
		EndDate:   date("2026-03-22"),
	}
}

func TestTransitionGraph(t *testing.T) {
	today := date("2026-03-10")

	allowed := map[Action]map[string]string{
		ActionApprove:  {models.OrderStatusBooked: models.OrderStatusApproved},
		ActionReject:   {models.OrderStatusBooked: models.OrderStatusCancelled},
		ActionActivate: {models.OrderStatusApproved: models.OrderStatusActive},
		ActionDeliver:  {models.OrderStatusActive: models.OrderStatusDelivered},
		ActionReturn: {
			models.OrderStatusActive:    models.OrderStatusReturned,
			models.OrderStatusDelivered: models.OrderStatusReturned,
		},
		ActionCancel: {models.OrderStatusBooked: models.OrderStatusCancelled},
		ActionAdminCancel: {
			models.OrderStatusBooked:    models.OrderStatusCancelled,
			models.OrderStatusApproved:  models.OrderStatusCancelled,
			models.OrderStatusActive:    models.OrderStatusCancelled,
			models.OrderStatusDelivered: models.OrderStatusCancelled,
		},
	}

	for action, from := range allowed {
		for _, status := range models.OrderStatuses {
			step, err := Transition(order(status), action, today)
			want, ok := from[status]
			if !ok {
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s from %s", action, status)
				continue
			}
			require.NoError(t, err, "%s from %s", action, status)
			assert.Equal(t, status, step.From)
			assert.Equal(t, want, step.To)
		}
	}
}

func TestTransitionRestock(t *testing.T) {
	today := date("2026-03-10")

	step, err := Transition(order(models.OrderStatusBooked), ActionApprove, today)
	require.NoError(t, err)
	assert.Zero(t, step.Restock)

	step, err = Transition(order(models.OrderStatusBooked), ActionReject, today)
	require.NoError(t, err)
	assert.Equal(t, 2, step.Restock)

	step, err = Transition(order(models.OrderStatusDelivered), ActionReturn, today)
	require.NoError(t, err)
	assert.Equal(t, 2, step.Restock)
	assert.Equal(t, "Your order #7 has been marked Returned. Thank you!", step.Notice)

	step, err = Transition(order(models.OrderStatusApproved), ActionAdminCancel, today)
	require.NoError(t, err)
	assert.Equal(t, 2, step.Restock)
}

func TestCustomerCancelOnlyBeforeStart(t *testing.T) {
	o := order(models.OrderStatusBooked)

	_, err := Transition(o, ActionCancel, date("2026-03-19"))
	assert.NoError(t, err)

	_, err = Transition(o, ActionCancel, date("2026-03-20"))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Transition(o, ActionCancel, date("2026-03-21"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTerminalStatesHaveNoExit(t *testing.T) {
	for _, status := range []string{models.OrderStatusReturned, models.OrderStatusCancelled} {
		assert.True(t, IsTerminal(status))
		for action := range rules {
			_, err := Transition(order(status), action, date("2026-03-01"))
			assert.Error(t, err, "%s from %s", action, status)
		}
	}
	assert.False(t, IsTerminal(models.OrderStatusDelivered))
}

func TestUnknownAction(t *testing.T) {
	_, err := Transition(order(models.OrderStatusBooked), Action("teleport"), date("2026-03-01"))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestRefundDepositAtMostOnce(t *testing.T) {
	o := order(models.OrderStatusDelivered)
	_, err := RefundDeposit(o)
	assert.ErrorIs(t, err, ErrDepositNotRefundable)

	o.Status = models.OrderStatusReturned
	notice, err := RefundDeposit(o)
	require.NoError(t, err)
	assert.Equal(t, "Your security deposit for order #7 has been refunded.", notice)

	o.DepositReturned = true
	_, err = RefundDeposit(o)
	assert.ErrorIs(t, err, ErrDepositNotRefundable)
}
