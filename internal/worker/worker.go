package worker

import (
	"context"

	"gadget-rental/internal/broker"
	"gadget-rental/internal/notify"
	"gadget-rental/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageSource is where the worker reads rental events from
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// EmailWorker turns rental events into customer emails
type EmailWorker struct {
	consumer     MessageSource
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewEmailWorker creates a new email worker
func NewEmailWorker(consumer MessageSource, mailer *notify.Mailer) *EmailWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnUserRegistered(mailer.HandleUserRegistered)
	eventHandler.OnOrderPlaced(mailer.HandleOrderPlaced)
	eventHandler.OnPaymentReceived(mailer.HandlePaymentReceived)
	eventHandler.OnDepositRefunded(mailer.HandleDepositRefunded)

	return &EmailWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Handle processes one message
func (w *EmailWorker) Handle(ctx context.Context, msg kafka.Message) error {
	return w.eventHandler.HandleMessage(ctx, msg)
}

// Start starts the worker
func (w *EmailWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting email worker")
	return w.consumer.StartConsuming(ctx, w.Handle)
}

// Stop stops the worker
func (w *EmailWorker) Stop() error {
	w.logger.Info("Stopping email worker")
	return w.consumer.Close()
}
