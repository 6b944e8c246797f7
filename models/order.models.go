package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses, in delivery sequence. Processing is a legacy value still
// present on old orders; it only matters for cancellation gating.
const (
	StatusOrderPlaced    = "Order Placed"
	StatusProcessing     = "Processing"
	StatusPacking        = "Packing"
	StatusShipped        = "Shipped"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
)

// CancelledByCustomer and CancelledByAdmin record who cancelled an order.
const (
	CancelledByCustomer = "customer"
	CancelledByAdmin    = "admin"
)

// OrderItem is the frozen product snapshot captured into an order at
// placement time. Later catalog edits never change it.
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Image     string  `bson:"image" json:"image"`
	Category  string  `bson:"category" json:"category"`
	Quantity  int     `bson:"quantity" json:"quantity"`
}

// Order represents a placed order. Orders are never deleted; only the status
// and cancellation fields mutate after creation.
type Order struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID             string             `bson:"user_id" json:"userId"`
	UserName           string             `bson:"user_name" json:"userName"`
	UserEmail          string             `bson:"user_email" json:"userEmail"`
	UserPhone          string             `bson:"user_phone" json:"userPhone"`
	Items              []OrderItem        `bson:"items" json:"items"`
	Amount             float64            `bson:"amount" json:"amount"`
	Address            Address            `bson:"address" json:"address"`
	Status             string             `bson:"status" json:"status"`
	PaymentMethod      string             `bson:"payment_method" json:"paymentMethod"`
	Payment            bool               `bson:"payment" json:"payment"`
	Date               time.Time          `bson:"date" json:"date"`
	RazorpayPaymentID  string             `bson:"razorpay_payment_id,omitempty" json:"razorpayPaymentId,omitempty"`
	StripePaymentID    string             `bson:"stripe_payment_id,omitempty" json:"stripePaymentId,omitempty"`
	StripeSessionID    string             `bson:"stripe_session_id,omitempty" json:"stripeSessionId,omitempty"`
	Cancelled          bool               `bson:"cancelled" json:"cancelled"`
	CancellationDate   *time.Time         `bson:"cancellation_date,omitempty" json:"cancellationDate,omitempty"`
	CancellationReason string             `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	CancelledBy        string             `bson:"cancelled_by,omitempty" json:"cancelledBy,omitempty"`
}

// Cancellation records who cancelled an order, when, and why.
type Cancellation struct {
	Reason string
	By     string
	Date   time.Time
}

// statusRank orders the delivery sequence. Cancelled has no rank; it is
// reachable from any non-terminal status.
var statusRank = map[string]int{
	StatusOrderPlaced:    0,
	StatusProcessing:     1,
	StatusPacking:        2,
	StatusShipped:        3,
	StatusOutForDelivery: 4,
	StatusDelivered:      5,
}

// ValidStatus reports whether s is a recognized order status.
func ValidStatus(s string) bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// IsTerminal reports whether no further transition is permitted from s.
func IsTerminal(s string) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to another.
// Terminal statuses are frozen, Cancelled is reachable from any non-terminal
// status, and otherwise only forward moves along the delivery sequence are
// allowed (skipping stages is fine, going backwards is not).
func CanTransition(from, to string) bool {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false
	}
	if IsTerminal(from) {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return statusRank[to] > statusRank[from]
}

// CustomerCancellable reports whether a customer may still cancel an order in
// the given status. Once packing is done the order is out of their hands.
func CustomerCancellable(status string) bool {
	switch status {
	case StatusOrderPlaced, StatusProcessing, StatusPacking:
		return true
	}
	return false
}
