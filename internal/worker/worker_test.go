package worker

import (
	"context"
	"encoding/json"
	"testing"

	"gadget-rental/internal/broker"
	"gadget-rental/internal/models"
	"gadget-rental/internal/notify"
	"gadget-rental/internal/util"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// replaySource feeds a fixed list of messages to the handler
type replaySource struct {
	msgs   []kafka.Message
	errs   []error
	closed bool
}

func (s *replaySource) StartConsuming(ctx context.Context, handler broker.MessageHandler) error {
	for _, msg := range s.msgs {
		s.errs = append(s.errs, handler(ctx, msg))
	}
	return nil
}

func (s *replaySource) Close() error {
	s.closed = true
	return nil
}

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	b, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: b}
}

func TestEmailWorkerSendsOneEmailPerMailableEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := util.GetLogger()
	util.SetLogger(zap.New(core))
	t.Cleanup(func() { util.SetLogger(prev) })

	to := models.Recipient{UserID: 1, Email: "arun@example.com", Name: "Arun"}
	src := &replaySource{msgs: []kafka.Message{
		message(t, models.UserRegisteredEvent{BaseEvent: models.BaseEvent{EventType: models.EventTypeUserRegistered}, Recipient: to}),
		message(t, models.OrderPlacedEvent{BaseEvent: models.BaseEvent{EventType: models.EventTypeOrderPlaced}, Recipient: to, OrderID: 1}),
		message(t, models.OrderStatusChangedEvent{BaseEvent: models.BaseEvent{EventType: models.EventTypeOrderStatusChanged}, OrderID: 1}),
		message(t, models.PaymentReceivedEvent{BaseEvent: models.BaseEvent{EventType: models.EventTypePaymentReceived}, Recipient: to, OrderID: 1}),
		message(t, models.DepositRefundedEvent{BaseEvent: models.BaseEvent{EventType: models.EventTypeDepositRefunded}, Recipient: to, OrderID: 1}),
	}}

	w := NewEmailWorker(src, notify.NewMailer("INR"))
	require.NoError(t, w.Start(context.Background()))

	for _, err := range src.errs {
		assert.NoError(t, err)
	}

	sent := logs.FilterMessage("Sending email").All()
	require.Len(t, sent, 4)
	kinds := []interface{}{}
	for _, e := range sent {
		kinds = append(kinds, e.ContextMap()["kind"])
	}
	assert.Equal(t, []interface{}{notify.KindWelcome, notify.KindOrderConfirm, notify.KindPaymentRecpt, notify.KindDepositRefund}, kinds)

	require.NoError(t, w.Stop())
	assert.True(t, src.closed)
}
