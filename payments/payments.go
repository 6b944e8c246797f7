// Package payments holds the per-provider verification strategies that gate
// order creation, plus thin gateways to the payment providers themselves.
package payments

// Payload carries the provider-specific fields a client submits alongside an
// order placement.
type Payload struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	StripePaymentID   string `json:"stripe_payment_id"`
}

// Result is the outcome of a verification strategy. Verified gates order
// creation; Confirmed records whether money actually moved (COD is verified
// but unconfirmed until physical collection).
type Result struct {
	Verified  bool
	Confirmed bool
	PaymentID string
	Reason    string
}

// Verifier is a pure check over an order placement payload.
type Verifier interface {
	Verify(payload Payload) Result
}

// COD trusts cash-on-delivery placements immediately; payment stays
// unconfirmed until collection.
type COD struct{}

// Verify always accepts.
func (COD) Verify(Payload) Result {
	return Result{Verified: true, Confirmed: false}
}
