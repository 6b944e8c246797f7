package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
)

// Razorpay verifies the signature Razorpay's checkout hands to the client
// after a successful payment: HMAC-SHA256 over "orderID|paymentID" keyed with
// the account secret, hex encoded.
type Razorpay struct {
	Secret string
}

// Verify recomputes the expected signature and compares it in constant time.
func (r Razorpay) Verify(payload Payload) Result {
	if payload.RazorpayOrderID == "" || payload.RazorpayPaymentID == "" || payload.RazorpaySignature == "" {
		return Result{Reason: "Missing payment details"}
	}

	mac := hmac.New(sha256.New, []byte(r.Secret))
	mac.Write([]byte(payload.RazorpayOrderID + "|" + payload.RazorpayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(payload.RazorpaySignature)) {
		return Result{Reason: "Payment verification failed"}
	}
	return Result{Verified: true, Confirmed: true, PaymentID: payload.RazorpayPaymentID}
}

// ProviderOrder is the provider-side order a client pays against.
type ProviderOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// RazorpayGateway creates provider orders ahead of the client-side checkout.
type RazorpayGateway interface {
	CreateOrder(amount float64) (*ProviderOrder, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway builds a gateway from the account key pair.
func NewRazorpayGateway(keyID, secret string) RazorpayGateway {
	return &razorpayGateway{client: razorpay.NewClient(keyID, secret)}
}

// CreateOrder registers an order with Razorpay. Amounts are rupees here and
// paise on the wire.
func (g *razorpayGateway) CreateOrder(amount float64) (*ProviderOrder, error) {
	data := map[string]interface{}{
		"amount":   int64(math.Round(amount * 100)),
		"currency": "INR",
		"receipt":  "receipt_" + uuid.NewString(),
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay order create: no order id in response")
	}
	order := &ProviderOrder{ID: id, Currency: "INR", Amount: int64(math.Round(amount * 100))}
	if n, ok := body["amount"].(float64); ok {
		order.Amount = int64(n)
	}
	if c, ok := body["currency"].(string); ok && c != "" {
		order.Currency = c
	}
	return order, nil
}
