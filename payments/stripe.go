package payments

import (
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"

	"scrunchie-store/models"
)

// SessionRequest describes a hosted checkout session to create. Metadata must
// carry everything needed to rebuild the order server-side at verification
// time; nothing order-shaped is trusted from the client afterwards.
type SessionRequest struct {
	Items      []models.OrderItem
	Metadata   map[string]string
	SuccessURL string
	CancelURL  string
}

// SessionInfo is the subset of a checkout session the order flow needs.
type SessionInfo struct {
	ID              string
	Paid            bool
	PaymentIntentID string
	Metadata        map[string]string
}

// StripeGateway wraps the two checkout-session round trips so the order
// controller can be exercised without the provider.
type StripeGateway interface {
	CreateCheckoutSession(req SessionRequest) (string, error)
	RetrieveSession(id string) (*SessionInfo, error)
}

type stripeGateway struct{}

// NewStripeGateway returns the live gateway. stripe.Key must already be set.
func NewStripeGateway() StripeGateway {
	return stripeGateway{}
}

// CreateCheckoutSession opens a hosted payment session for the given order
// snapshot. Unit amounts are rupees converted to paise.
func (stripeGateway) CreateCheckoutSession(req SessionRequest) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, item := range req.Items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Image != "" {
			productData.Images = stripe.StringSlice([]string{item.Image})
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String("inr"),
				ProductData: productData,
				UnitAmount:  stripe.Int64(int64(math.Round(item.Price * 100))),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems:  lineItems,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe session create: %w", err)
	}
	return s.ID, nil
}

// RetrieveSession fetches a session and reports whether it was paid.
func (stripeGateway) RetrieveSession(id string) (*SessionInfo, error) {
	s, err := session.Get(id, nil)
	if err != nil {
		return nil, fmt.Errorf("stripe session retrieve: %w", err)
	}
	info := &SessionInfo{
		ID:       s.ID,
		Paid:     s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Metadata: s.Metadata,
	}
	if s.PaymentIntent != nil {
		info.PaymentIntentID = s.PaymentIntent.ID
	}
	return info, nil
}
