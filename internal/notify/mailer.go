// Package notify renders the customer emails sent for rental events.
// Delivery is simulated: a rendered email is written to the log.
package notify

import (
	"context"
	"fmt"
	"strings"

	"gadget-rental/internal/models"
	"gadget-rental/internal/rental"
	"gadget-rental/internal/util"

	"go.uber.org/zap"
)

const signature = "Best regards,\nThe Gadget Rental Team"

// Email kinds, also used as the metrics label
const (
	KindWelcome       = "welcome"
	KindOrderConfirm  = "order_confirmation"
	KindPaymentRecpt  = "payment_receipt"
	KindDepositRefund = "deposit_refund"
)

// Email is one rendered message
type Email struct {
	Kind    string
	To      string
	Subject string
	Body    string
}

// Mailer renders emails from events and hands them to the log
type Mailer struct {
	logger   *zap.Logger
	currency string
}

// NewMailer creates a mailer quoting amounts in currency (e.g. "INR")
func NewMailer(currency string) *Mailer {
	if currency == "" {
		currency = "INR"
	}
	return &Mailer{logger: util.GetLogger(), currency: currency}
}

func (m *Mailer) amount(paise int64) string {
	return m.currency + " " + rental.FormatMoney(paise)
}

// Welcome renders the account-created email
func (m *Mailer) Welcome(e *models.UserRegisteredEvent) Email {
	body := fmt.Sprintf("Dear %s,\n\n"+
		"Welcome to Gadget Rental! Your account has been created successfully.\n\n"+
		"We are excited to have you on board.\n\n%s", e.Name, signature)
	return Email{Kind: KindWelcome, To: e.Email, Subject: "Welcome to Gadget Rental!", Body: body}
}

// OrderConfirmation renders the email sent for each placed order
func (m *Mailer) OrderConfirmation(e *models.OrderPlacedEvent) Email {
	body := fmt.Sprintf("Dear %s,\n\n"+
		"Your order for %s (Order ID: %d) has been successfully placed.\n"+
		"Rental Dates: %s to %s.\n"+
		"Total Price: %s.\n\n"+
		"We will notify you once your order is approved.\n\n%s",
		e.Name, e.GadgetName, e.OrderID,
		e.StartDate.Format("2006-01-02"), e.EndDate.Format("2006-01-02"),
		m.amount(e.TotalPrice), signature)
	return Email{Kind: KindOrderConfirm, To: e.Email, Subject: "Your Gadget Rental Order Confirmation", Body: body}
}

// PaymentReceipt renders the receipt for a successful payment
func (m *Mailer) PaymentReceipt(e *models.PaymentReceivedEvent) Email {
	body := fmt.Sprintf("Dear %s,\n\n"+
		"Your payment for Order ID %d has been received successfully.\n"+
		"Transaction ID: %s\n"+
		"Amount Paid: %s\n\n"+
		"Thank you for renting with us!\n\n%s",
		e.Name, e.OrderID, e.TransactionID, m.amount(e.Amount), signature)
	return Email{Kind: KindPaymentRecpt, To: e.Email, Subject: "Payment Receipt - Gadget Rental", Body: body}
}

// DepositRefund renders the security deposit refund confirmation
func (m *Mailer) DepositRefund(e *models.DepositRefundedEvent) Email {
	body := fmt.Sprintf("Dear %s,\n\n"+
		"Your security deposit for Order ID %d has been refunded.\n"+
		"Refund Amount: %s\n\n"+
		"Thank you for using Gadget Rental!\n\n%s",
		e.Name, e.OrderID, m.amount(e.Amount), signature)
	return Email{Kind: KindDepositRefund, To: e.Email, Subject: "Security Deposit Refund Confirmation", Body: body}
}

// Send delivers an email by logging it
func (m *Mailer) Send(ctx context.Context, email Email) error {
	if strings.TrimSpace(email.To) == "" {
		return fmt.Errorf("%s email has no recipient", email.Kind)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.logger.Info("Sending email",
		zap.String("kind", email.Kind),
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("body", email.Body))
	util.EmailsSentTotal.WithLabelValues(email.Kind).Inc()
	return nil
}

// HandleUserRegistered sends the welcome email
func (m *Mailer) HandleUserRegistered(ctx context.Context, e *models.UserRegisteredEvent) error {
	return m.Send(ctx, m.Welcome(e))
}

// HandleOrderPlaced sends the order confirmation
func (m *Mailer) HandleOrderPlaced(ctx context.Context, e *models.OrderPlacedEvent) error {
	return m.Send(ctx, m.OrderConfirmation(e))
}

// HandlePaymentReceived sends the payment receipt
func (m *Mailer) HandlePaymentReceived(ctx context.Context, e *models.PaymentReceivedEvent) error {
	return m.Send(ctx, m.PaymentReceipt(e))
}

// HandleDepositRefunded sends the refund confirmation
func (m *Mailer) HandleDepositRefunded(ctx context.Context, e *models.DepositRefundedEvent) error {
	return m.Send(ctx, m.DepositRefund(e))
}
