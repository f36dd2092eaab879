package servicetest

import (
	"context"
	"sync"

	"gadget-rental/internal/models"
)

// Publisher keeps every published event
type Publisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (p *Publisher) record(e interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *Publisher) PublishUserRegistered(_ context.Context, e *models.UserRegisteredEvent) error {
	return p.record(e)
}

func (p *Publisher) PublishOrderPlaced(_ context.Context, e *models.OrderPlacedEvent) error {
	return p.record(e)
}

func (p *Publisher) PublishPaymentReceived(_ context.Context, e *models.PaymentReceivedEvent) error {
	return p.record(e)
}

func (p *Publisher) PublishOrderStatusChanged(_ context.Context, e *models.OrderStatusChangedEvent) error {
	return p.record(e)
}

func (p *Publisher) PublishDepositRefunded(_ context.Context, e *models.DepositRefundedEvent) error {
	return p.record(e)
}

// Count reports how many recorded events match
func (p *Publisher) Count(match func(interface{}) bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if match(e) {
			n++
		}
	}
	return n
}
