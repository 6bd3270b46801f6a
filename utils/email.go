// utils/email.go
package utils

import (
	"fmt"
	"mediease/models"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	from   string
}

// NewEmailService initializes an EmailService sending from the given address.
func NewEmailService(serverToken, from string) *EmailService {
	return &EmailService{
		client: postmark.NewClient(serverToken, ""),
		from:   from,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.from,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	Debug("Email %q sent to %s", subject, toEmail)
	return nil
}

// SendPaymentSettledEmail tells the buyer their payment was confirmed.
func (es *EmailService) SendPaymentSettledEmail(payment models.Payment) error {
	subject := "Payment Confirmed - MediEase"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Your payment (transaction %s) of <strong>$%.2f</strong> has been confirmed.<br><br>Thank you for shopping with MediEase!",
		payment.TransactionID,
		payment.Price,
	)

	return es.SendEmail(payment.Email, subject, htmlContent)
}
