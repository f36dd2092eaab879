package service

import (
	"errors"
	"fmt"

	"gadget-rental/internal/rental"
	"gadget-rental/internal/store"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// classify attaches the service sentinel matching a lower-level error while
// keeping the original in the chain.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, store.ErrOutOfStock):
		return fmt.Errorf("%w: %w", ErrInsufficientStock, err)
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInUse),
		errors.Is(err, store.ErrStaleState):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, rental.ErrInvalidWindow),
		errors.Is(err, rental.ErrUnknownPaymentMethod),
		errors.Is(err, rental.ErrUnknownAction):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
