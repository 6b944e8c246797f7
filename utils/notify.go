package utils

import (
	"log"
	"time"

	"scrunchie-store/models"
)

// Notifier dispatches order-lifecycle notifications. Implementations must be
// fire-and-forget: they never block the caller and never surface failures.
type Notifier interface {
	OrderConfirmed(order *models.Order)
	OrderStatusChanged(order *models.Order, status string)
	OrderCancelled(order *models.Order, by string)
}

// EmailNotifier sends notifications through the EmailService on detached
// goroutines. Each send gets a hard timeout so a slow mail provider cannot
// pile up goroutines forever; timeouts and errors are logged and swallowed.
type EmailNotifier struct {
	Service    *EmailService
	AdminEmail string
	Timeout    time.Duration
}

// NewEmailNotifier wraps an EmailService with a 30 second send timeout.
func NewEmailNotifier(service *EmailService, adminEmail string) *EmailNotifier {
	return &EmailNotifier{
		Service:    service,
		AdminEmail: adminEmail,
		Timeout:    30 * time.Second,
	}
}

// OrderConfirmed sends the confirmation email for a freshly placed order.
func (n *EmailNotifier) OrderConfirmed(order *models.Order) {
	if order.UserEmail == "" {
		return
	}
	o := *order
	n.dispatch("order confirmation", func() error {
		return n.Service.SendOrderConfirmation(o.UserEmail, o.UserName, &o)
	})
}

// OrderStatusChanged sends the notification for a transition into Shipped,
// Out for Delivery, or Delivered. Other statuses are silent.
func (n *EmailNotifier) OrderStatusChanged(order *models.Order, status string) {
	switch status {
	case models.StatusShipped, models.StatusOutForDelivery, models.StatusDelivered:
	default:
		return
	}
	if order.UserEmail == "" {
		return
	}
	email, name, orderID := order.UserEmail, order.UserName, order.ID.Hex()
	n.dispatch("status update", func() error {
		return n.Service.SendStatusUpdate(email, name, orderID, status)
	})
}

// OrderCancelled notifies the customer, and the store admin when the
// cancellation was customer-initiated.
func (n *EmailNotifier) OrderCancelled(order *models.Order, by string) {
	o := *order
	if o.UserEmail != "" {
		n.dispatch("cancellation", func() error {
			return n.Service.SendOrderCancelled(o.UserEmail, o.UserName, o.ID.Hex())
		})
	}
	if by == models.CancelledByCustomer && n.AdminEmail != "" {
		n.dispatch("admin cancellation notice", func() error {
			return n.Service.SendAdminCancelNotice(n.AdminEmail, &o)
		})
	}
}

func (n *EmailNotifier) dispatch(what string, send func() error) {
	go func() {
		done := make(chan error, 1)
		go func() { done <- send() }()

		select {
		case err := <-done:
			if err != nil {
				log.Printf("Failed to send %s email: %v", what, err)
			}
		case <-time.After(n.Timeout):
			log.Printf("Timed out sending %s email after %s", what, n.Timeout)
		}
	}()
}
