package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/keighl/postmark"

	"scrunchie-store/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		panic("POSTMARK_API_TOKEN is not set in environment variables")
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmation sends the order confirmation email after placement.
func (es *EmailService) SendOrderConfirmation(toEmail, name string, order *models.Order) error {
	subject := "Order Confirmed - Scrunchie Store"

	var items strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&items, "<li>%s x %d</li>", item.Name, item.Quantity)
	}
	htmlContent := fmt.Sprintf(
		"<strong>Hi %s,</strong><br><br>Thank you for your order! Your order (ID: %s) has been placed successfully.<br><br>"+
			"Total Amount: <strong>₹%.2f</strong><br>Payment Method: <strong>%s</strong><br><br>"+
			"<strong>Order Items:</strong><ul>%s</ul>"+
			"We'll send you updates as your order progresses.<br><br>Thank you for shopping with us!",
		name, order.ID.Hex(), order.Amount, order.PaymentMethod, items.String(),
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendStatusUpdate sends the status-specific notification for a transition
// into Shipped, Out for Delivery, or Delivered.
func (es *EmailService) SendStatusUpdate(toEmail, name, orderID, status string) error {
	var subject, line string
	switch status {
	case models.StatusShipped:
		subject = "Your Order Has Been Shipped - Scrunchie Store"
		line = "Great news! Your order is on its way."
	case models.StatusOutForDelivery:
		subject = "Your Order Is Out for Delivery - Scrunchie Store"
		line = "Your order is out for delivery and should reach you today."
	case models.StatusDelivered:
		subject = "Your Order Has Been Delivered - Scrunchie Store"
		line = "Your order has been delivered. We hope you love it!"
	default:
		return nil
	}
	htmlContent := fmt.Sprintf(
		"<strong>Hi %s,</strong><br><br>%s<br><br>Order ID: <strong>%s</strong><br><br>Thank you for shopping with us!",
		name, line, orderID,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendOrderCancelled notifies the customer that their order was cancelled.
func (es *EmailService) SendOrderCancelled(toEmail, name, orderID string) error {
	subject := "Order Cancelled - Scrunchie Store"
	htmlContent := fmt.Sprintf(
		"<strong>Hi %s,</strong><br><br>Your order (ID: %s) has been cancelled. "+
			"If a payment was made, the refund will be processed shortly.<br><br>Thank you for shopping with us!",
		name, orderID,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendAdminCancelNotice notifies the store admin about a customer
// cancellation.
func (es *EmailService) SendAdminCancelNotice(adminEmail string, order *models.Order) error {
	subject := "Order Cancelled by Customer"
	htmlContent := fmt.Sprintf(
		"Order <strong>%s</strong> was cancelled by %s (%s).<br>Amount: ₹%.2f<br>Reason: %s",
		order.ID.Hex(), order.UserName, order.UserEmail, order.Amount, order.CancellationReason,
	)
	return es.SendEmail(adminEmail, subject, htmlContent)
}
