package notify

import (
	"context"
	"testing"
	"time"

	"gadget-rental/internal/models"
	"gadget-rental/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedMailer(t *testing.T) (*Mailer, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	prev := util.GetLogger()
	util.SetLogger(zap.New(core))
	t.Cleanup(func() { util.SetLogger(prev) })
	return NewMailer("INR"), logs
}

func TestOrderConfirmationWording(t *testing.T) {
	m := NewMailer("INR")
	email := m.OrderConfirmation(&models.OrderPlacedEvent{
		Recipient:  models.Recipient{Email: "arun@example.com", Name: "Arun"},
		OrderID:    12,
		GadgetName: "Sony A7 IV",
		TotalPrice: 450050,
		StartDate:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
	})

	assert.Equal(t, "Your Gadget Rental Order Confirmation", email.Subject)
	assert.Equal(t, "arun@example.com", email.To)
	assert.Contains(t, email.Body, "Dear Arun,")
	assert.Contains(t, email.Body, "Your order for Sony A7 IV (Order ID: 12) has been successfully placed.")
	assert.Contains(t, email.Body, "Rental Dates: 2024-06-01 to 2024-06-03.")
	assert.Contains(t, email.Body, "Total Price: INR 4500.50.")
}

func TestPaymentReceiptAndRefundAmounts(t *testing.T) {
	m := NewMailer("")

	receipt := m.PaymentReceipt(&models.PaymentReceivedEvent{
		Recipient: models.Recipient{Email: "a@b.c", Name: "A"}, OrderID: 3, TransactionID: "TXN_99", Amount: 120000,
	})
	assert.Contains(t, receipt.Body, "Transaction ID: TXN_99")
	assert.Contains(t, receipt.Body, "Amount Paid: INR 1200.00")

	refund := m.DepositRefund(&models.DepositRefundedEvent{
		Recipient: models.Recipient{Email: "a@b.c", Name: "A"}, OrderID: 3, Amount: 60000,
	})
	assert.Equal(t, "Security Deposit Refund Confirmation", refund.Subject)
	assert.Contains(t, refund.Body, "Refund Amount: INR 600.00")
}

func TestSendLogsEmail(t *testing.T) {
	m, logs := observedMailer(t)

	err := m.HandleUserRegistered(context.Background(), &models.UserRegisteredEvent{
		Recipient: models.Recipient{UserID: 1, Email: "meera@example.com", Name: "Meera"},
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("Sending email").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, KindWelcome, fields["kind"])
	assert.Equal(t, "meera@example.com", fields["to"])
}

func TestSendRequiresRecipient(t *testing.T) {
	m := NewMailer("INR")
	err := m.Send(context.Background(), Email{Kind: KindWelcome})
	assert.Error(t, err)
}
