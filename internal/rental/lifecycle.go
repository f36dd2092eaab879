package rental

import (
	"errors"
	"fmt"
	"time"

	"gadget-rental/internal/models"
)

var (
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrDepositNotRefundable = errors.New("deposit cannot be refunded")
	ErrUnknownAction        = errors.New("unknown order action")
)

// Action is something a customer or an administrator does to an order
type Action string

const (
	ActionApprove     Action = "approve"
	ActionReject      Action = "reject"
	ActionActivate    Action = "activate"
	ActionDeliver     Action = "deliver"
	ActionReturn      Action = "return"
	ActionCancel      Action = "cancel"
	ActionAdminCancel Action = "admin_cancel"
)

type rule struct {
	from    []string
	to      string
	restock bool
	notice  string
}

// Stock is taken at checkout, so every path into cancelled or returned gives
// the ordered quantity back.
var rules = map[Action]rule{
	ActionApprove: {
		from:   []string{models.OrderStatusBooked},
		to:     models.OrderStatusApproved,
		notice: "Your order #%d has been approved.",
	},
	ActionReject: {
		from:    []string{models.OrderStatusBooked},
		to:      models.OrderStatusCancelled,
		restock: true,
		notice:  "Your order #%d has been rejected.",
	},
	ActionActivate: {
		from:   []string{models.OrderStatusApproved},
		to:     models.OrderStatusActive,
		notice: "Your order #%d is now Active and being processed.",
	},
	ActionDeliver: {
		from:   []string{models.OrderStatusActive},
		to:     models.OrderStatusDelivered,
		notice: "Your order #%d has been delivered.",
	},
	ActionReturn: {
		from:    []string{models.OrderStatusActive, models.OrderStatusDelivered},
		to:      models.OrderStatusReturned,
		restock: true,
		notice:  "Your order #%d has been marked Returned. Thank you!",
	},
	ActionCancel: {
		from:    []string{models.OrderStatusBooked},
		to:      models.OrderStatusCancelled,
		restock: true,
		notice:  "Your order #%d has been cancelled.",
	},
	ActionAdminCancel: {
		from: []string{
			models.OrderStatusBooked,
			models.OrderStatusApproved,
			models.OrderStatusActive,
			models.OrderStatusDelivered,
		},
		to:      models.OrderStatusCancelled,
		restock: true,
		notice:  "Your order #%d has been cancelled by the admin.",
	},
}

// Step is an allowed transition, ready to be persisted
type Step struct {
	Action  Action
	From    string
	To      string
	Restock int
	Notice  string
}

// Transition decides whether action may be applied to order today
func Transition(order *models.RentalOrder, action Action, today time.Time) (*Step, error) {
	r, ok := rules[action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if !contains(r.from, order.Status) {
		return nil, fmt.Errorf("%w: order %d cannot %s from %s",
			ErrInvalidTransition, order.ID, action, order.Status)
	}

	// customers may only cancel before the rental starts
	if action == ActionCancel && !Day(order.StartDate).After(Day(today)) {
		return nil, fmt.Errorf("%w: order %d has already started", ErrInvalidTransition, order.ID)
	}

	step := &Step{
		Action: action,
		From:   order.Status,
		To:     r.to,
		Notice: fmt.Sprintf(r.notice, order.ID),
	}
	if r.restock {
		step.Restock = order.Quantity
	}
	return step, nil
}

// IsTerminal reports whether no further transition can leave status
func IsTerminal(status string) bool {
	return status == models.OrderStatusReturned || status == models.OrderStatusCancelled
}

// RefundDeposit checks that the deposit of order can be paid back now and
// returns the user notice for it.
func RefundDeposit(order *models.RentalOrder) (string, error) {
	if order.Status != models.OrderStatusReturned {
		return "", fmt.Errorf("%w: order %d is %s", ErrDepositNotRefundable, order.ID, order.Status)
	}
	if order.DepositReturned {
		return "", fmt.Errorf("%w: order %d deposit already refunded", ErrDepositNotRefundable, order.ID)
	}
	return fmt.Sprintf("Your security deposit for order #%d has been refunded.", order.ID), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
