package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"scrunchie-store/models"
	"scrunchie-store/payments"
	"scrunchie-store/store"
	"scrunchie-store/utils"
)

var errEmptyCart = errors.New("cart is empty")

// OrderController handles order placement, listing, status updates, and
// cancellation.
type OrderController struct {
	Users    store.UserStore
	Products store.ProductStore
	Orders   store.OrderStore

	Stripe        payments.StripeGateway
	Razorpay      payments.RazorpayGateway
	RazorpayKeyID string
	Verifiers     map[string]payments.Verifier

	Notifier    utils.Notifier
	DeliveryFee float64
	FrontendURL string
}

// NewOrderController creates a new OrderController. Verifiers are keyed by
// payment method name.
func NewOrderController(users store.UserStore, products store.ProductStore, orders store.OrderStore,
	stripeGW payments.StripeGateway, razorpayGW payments.RazorpayGateway, razorpayKeyID string,
	verifiers map[string]payments.Verifier, notifier utils.Notifier, deliveryFee float64, frontendURL string) *OrderController {
	return &OrderController{
		Users:         users,
		Products:      products,
		Orders:        orders,
		Stripe:        stripeGW,
		Razorpay:      razorpayGW,
		RazorpayKeyID: razorpayKeyID,
		Verifiers:     verifiers,
		Notifier:      notifier,
		DeliveryFee:   deliveryFee,
		FrontendURL:   frontendURL,
	}
}

// snapshotCart freezes the user's reconciled cart into order items, resolving
// each entry against the current catalog so the order captures price and name
// at time of purchase. Entries for unknown products are dropped. The returned
// amount is catalog subtotal plus the delivery fee; client-submitted amounts
// are never trusted.
func (oc *OrderController) snapshotCart(ctx context.Context, user *models.User) ([]models.OrderItem, float64, error) {
	cart := models.NormalizeCart(user.CartData)
	if len(cart) == 0 {
		return nil, 0, errEmptyCart
	}

	ids := make([]string, 0, len(cart))
	for itemID := range cart {
		ids = append(ids, itemID)
	}
	products, err := oc.Products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve cart products: %w", err)
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID.Hex()] = p
	}

	items := make([]models.OrderItem, 0, len(cart))
	subtotal := 0.0
	for itemID, quantity := range cart {
		product, ok := byID[itemID]
		if !ok {
			continue
		}
		items = append(items, models.OrderItem{
			ProductID: itemID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.FirstImage(),
			Category:  product.Category,
			Quantity:  quantity,
		})
		subtotal += product.Price * float64(quantity)
	}
	if len(items) == 0 {
		return nil, 0, errEmptyCart
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	return items, subtotal + oc.DeliveryFee, nil
}

func validAddress(a models.Address) bool {
	return a.FirstName != "" && a.Street != "" && a.City != "" && a.ZipCode != "" && a.Phone != ""
}

func customerName(a models.Address, user *models.User) string {
	if a.FirstName != "" && a.LastName != "" {
		return a.FirstName + " " + a.LastName
	}
	if user.Name != "" {
		return user.Name
	}
	return "Unknown"
}

// PlaceOrder places a COD or Razorpay order synchronously. The order is built
// from the server-side cart, the payment payload is verified, the order is
// written, and only then is the cart cleared.
func (oc *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var body struct {
		Address       models.Address   `json:"address"`
		PaymentMethod string           `json:"paymentMethod"`
		PaymentInfo   payments.Payload `json:"paymentInfo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondFailure(w, "Invalid request body")
		return
	}

	method := body.PaymentMethod
	if method == "" {
		method = "COD"
	}
	verifier, ok := oc.Verifiers[method]
	if !ok {
		respondFailure(w, "Invalid payment method")
		return
	}
	if !validAddress(body.Address) {
		respondFailure(w, "Delivery address is incomplete")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := oc.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		respondFailure(w, "User not found")
		return
	}

	items, amount, err := oc.snapshotCart(ctx, user)
	if err != nil {
		if errors.Is(err, errEmptyCart) {
			respondFailure(w, "Cart is empty")
			return
		}
		respondFailure(w, "Failed to load cart")
		return
	}

	// Payment verification gates the write. On failure nothing has been
	// persisted and the cart is untouched.
	result := verifier.Verify(body.PaymentInfo)
	if !result.Verified {
		reason := result.Reason
		if reason == "" {
			reason = "Payment verification failed"
		}
		respondFailure(w, reason)
		return
	}

	email := body.Address.Email
	if email == "" {
		email = user.Email
	}
	order := &models.Order{
		UserID:        claims.UserID,
		UserName:      customerName(body.Address, user),
		UserEmail:     email,
		UserPhone:     body.Address.Phone,
		Items:         items,
		Amount:        amount,
		Address:       body.Address,
		Status:        models.StatusOrderPlaced,
		PaymentMethod: method,
		Payment:       result.Confirmed,
		Date:          time.Now(),
	}
	if method == "Razorpay" {
		order.RazorpayPaymentID = result.PaymentID
	}

	if _, err := oc.Orders.InsertOrder(ctx, order); err != nil {
		respondFailure(w, "Failed to place order")
		return
	}

	// The cart is cleared strictly after the order write so a failure can
	// never lose both. A failed clear is logged, not surfaced: the order
	// exists and the stale cart self-corrects on the next read.
	if err := oc.Users.ClearCart(ctx, claims.UserID); err != nil {
		log.Printf("Order %s placed but cart clear failed for user %s: %v", order.ID.Hex(), claims.UserID, err)
	}

	oc.Notifier.OrderConfirmed(order)
	respondMessage(w, "Order Placed")
}

// PlaceOrderRazorpay creates the provider-side order the client pays
// against. No store order is written yet.
func (oc *OrderController) PlaceOrderRazorpay(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := oc.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		respondFailure(w, "User not found")
		return
	}
	_, amount, err := oc.snapshotCart(ctx, user)
	if err != nil {
		if errors.Is(err, errEmptyCart) {
			respondFailure(w, "Cart is empty")
			return
		}
		respondFailure(w, "Failed to load cart")
		return
	}

	providerOrder, err := oc.Razorpay.CreateOrder(amount)
	if err != nil {
		log.Printf("Razorpay order creation failed for user %s: %v", claims.UserID, err)
		respondFailure(w, "Failed to create payment order")
		return
	}

	respond(w, map[string]interface{}{
		"success": true,
		"order":   providerOrder,
		"key":     oc.RazorpayKeyID,
	})
}

// PlaceOrderStripe opens a hosted checkout session for the user's cart. The
// order facts travel in session metadata and come back at verification time;
// nothing is re-submitted by the client.
func (oc *OrderController) PlaceOrderStripe(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var body struct {
		Address models.Address `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondFailure(w, "Invalid request body")
		return
	}
	if !validAddress(body.Address) {
		respondFailure(w, "Delivery address is incomplete")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := oc.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		respondFailure(w, "User not found")
		return
	}
	items, amount, err := oc.snapshotCart(ctx, user)
	if err != nil {
		if errors.Is(err, errEmptyCart) {
			respondFailure(w, "Cart is empty")
			return
		}
		respondFailure(w, "Failed to load cart")
		return
	}

	addressJSON, err := json.Marshal(body.Address)
	if err != nil {
		respondFailure(w, "Invalid address")
		return
	}
	itemIDs := make([]string, 0, len(items))
	itemQuantities := make(map[string]int, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ProductID)
		itemQuantities[item.ProductID] = item.Quantity
	}
	quantitiesJSON, _ := json.Marshal(itemQuantities)

	sessionID, err := oc.Stripe.CreateCheckoutSession(payments.SessionRequest{
		Items: items,
		Metadata: map[string]string{
			"user_id":         claims.UserID,
			"address":         string(addressJSON),
			"item_ids":        strings.Join(itemIDs, ","),
			"item_quantities": string(quantitiesJSON),
			"amount":          strconv.FormatFloat(amount, 'f', 2, 64),
		},
		SuccessURL: oc.FrontendURL + "/orders?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  oc.FrontendURL + "/cart",
	})
	if err != nil {
		log.Printf("Stripe session creation failed for user %s: %v", claims.UserID, err)
		respondFailure(w, "Failed to create payment session")
		return
	}

	respond(w, map[string]interface{}{"success": true, "session_id": sessionID})
}

// VerifyStripe checks a checkout session and creates the order on the first
// successful call. The order is rebuilt from session metadata against the
// catalog, never from the request. A session that already produced an order
// reports success without writing a second one.
func (oc *OrderController) VerifyStripe(w http.ResponseWriter, r *http.Request) {
	if _, ok := claimsFrom(w, r); !ok {
		return
	}

	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SessionID == "" {
		respondFailure(w, "Session ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if existing, err := oc.Orders.GetOrderByStripeSession(ctx, body.SessionID); err == nil && existing != nil {
		respondMessage(w, "Order Placed")
		return
	}

	info, err := oc.Stripe.RetrieveSession(body.SessionID)
	if err != nil {
		log.Printf("Stripe session retrieve failed: %v", err)
		respondFailure(w, "Payment verification failed")
		return
	}
	if !info.Paid {
		respondFailure(w, "Payment not completed")
		return
	}

	userID := info.Metadata["user_id"]
	if userID == "" {
		respondFailure(w, "Payment session is missing order details")
		return
	}

	var address models.Address
	if err := json.Unmarshal([]byte(info.Metadata["address"]), &address); err != nil {
		respondFailure(w, "Payment session is missing order details")
		return
	}

	itemIDs := strings.Split(info.Metadata["item_ids"], ",")
	quantities := map[string]int{}
	if raw := info.Metadata["item_quantities"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &quantities); err != nil {
			log.Printf("Failed to parse item quantities from session %s: %v", info.ID, err)
		}
	}

	products, err := oc.Products.GetProductsByIDs(ctx, itemIDs)
	if err != nil || len(products) == 0 {
		respondFailure(w, "Payment session is missing order details")
		return
	}
	items := make([]models.OrderItem, 0, len(products))
	for _, product := range products {
		quantity := quantities[product.ID.Hex()]
		if quantity <= 0 {
			quantity = 1
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID.Hex(),
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.FirstImage(),
			Category:  product.Category,
			Quantity:  quantity,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	amount, err := strconv.ParseFloat(info.Metadata["amount"], 64)
	if err != nil {
		respondFailure(w, "Payment session is missing order details")
		return
	}

	var userName, userEmail string
	if user, err := oc.Users.GetUser(ctx, userID); err == nil {
		userName = user.Name
		userEmail = user.Email
	}
	if address.Email != "" {
		userEmail = address.Email
	}

	order := &models.Order{
		UserID:          userID,
		UserName:        userName,
		UserEmail:       userEmail,
		UserPhone:       address.Phone,
		Items:           items,
		Amount:          amount,
		Address:         address,
		Status:          models.StatusOrderPlaced,
		PaymentMethod:   "Stripe",
		Payment:         true,
		StripePaymentID: info.PaymentIntentID,
		StripeSessionID: info.ID,
		Date:            time.Now(),
	}
	if _, err := oc.Orders.InsertOrder(ctx, order); err != nil {
		respondFailure(w, "Failed to place order")
		return
	}

	if err := oc.Users.ClearCart(ctx, userID); err != nil {
		log.Printf("Order %s placed but cart clear failed for user %s: %v", order.ID.Hex(), userID, err)
	}

	oc.Notifier.OrderConfirmed(order)
	respondMessage(w, "Order Placed")
}

// UserOrders returns the authenticated user's orders, newest first.
func (oc *OrderController) UserOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := oc.Orders.ListUserOrders(ctx, claims.UserID)
	if err != nil {
		respondFailure(w, "Failed to retrieve orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	respond(w, map[string]interface{}{"success": true, "orders": orders})
}

// AllOrders returns every order for the admin panel, newest first.
func (oc *OrderController) AllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := oc.Orders.ListOrders(ctx)
	if err != nil {
		respondFailure(w, "Failed to retrieve orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	respond(w, map[string]interface{}{"success": true, "orders": orders})
}

// UpdateStatus moves an order along the delivery sequence. Transitions out of
// Delivered or Cancelled, backwards moves, and unknown statuses are rejected.
func (oc *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OrderID == "" {
		respondFailure(w, "Order ID is required")
		return
	}
	if !models.ValidStatus(body.Status) {
		respondFailure(w, "Invalid status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Orders.GetOrder(ctx, body.OrderID)
	if err != nil {
		respondFailure(w, "Order not found")
		return
	}
	if !models.CanTransition(order.Status, body.Status) {
		respondFailure(w, fmt.Sprintf("Cannot change status from %s to %s", order.Status, body.Status))
		return
	}

	if body.Status == models.StatusCancelled {
		cancellation := models.Cancellation{
			Reason: "Cancelled by admin",
			By:     models.CancelledByAdmin,
			Date:   time.Now(),
		}
		if err := oc.Orders.CancelOrder(ctx, body.OrderID, cancellation); err != nil {
			respondFailure(w, "Failed to update order status")
			return
		}
		oc.Notifier.OrderCancelled(order, models.CancelledByAdmin)
		respondMessage(w, "Order Status Updated")
		return
	}

	if err := oc.Orders.UpdateStatus(ctx, body.OrderID, body.Status); err != nil {
		respondFailure(w, "Failed to update order status")
		return
	}
	oc.Notifier.OrderStatusChanged(order, body.Status)
	respondMessage(w, "Order Status Updated")
}

// CancelOrder cancels the caller's own order. Allowed only before the order
// has shipped.
func (oc *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var body struct {
		OrderID string `json:"orderId"`
		Reason  string `json:"cancellationReason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OrderID == "" {
		respondFailure(w, "Order ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Orders.GetOrder(ctx, body.OrderID)
	if err != nil {
		respondFailure(w, "Order not found")
		return
	}
	if order.UserID != claims.UserID {
		respondFailure(w, "Unauthorized: Cannot cancel this order")
		return
	}
	if order.Cancelled {
		respondFailure(w, "This order is already cancelled")
		return
	}
	if !models.CustomerCancellable(order.Status) {
		respondFailure(w, fmt.Sprintf("Cannot cancel order with status: %s", order.Status))
		return
	}

	reason := body.Reason
	if reason == "" {
		reason = "Customer requested cancellation"
	}
	cancellation := models.Cancellation{
		Reason: reason,
		By:     models.CancelledByCustomer,
		Date:   time.Now(),
	}
	if err := oc.Orders.CancelOrder(ctx, body.OrderID, cancellation); err != nil {
		respondFailure(w, "Failed to cancel order")
		return
	}

	order.CancellationReason = reason
	oc.Notifier.OrderCancelled(order, models.CancelledByCustomer)
	respondMessage(w, "Order cancelled successfully")
}

// AdminCancelOrder cancels an order from any non-cancelled status.
func (oc *OrderController) AdminCancelOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrderID string `json:"orderId"`
		Reason  string `json:"cancellationReason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OrderID == "" {
		respondFailure(w, "Order ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Orders.GetOrder(ctx, body.OrderID)
	if err != nil {
		respondFailure(w, "Order not found")
		return
	}
	if order.Cancelled {
		respondFailure(w, "This order is already cancelled")
		return
	}

	reason := body.Reason
	if reason == "" {
		reason = "Cancelled by admin"
	}
	cancellation := models.Cancellation{
		Reason: reason,
		By:     models.CancelledByAdmin,
		Date:   time.Now(),
	}
	if err := oc.Orders.CancelOrder(ctx, body.OrderID, cancellation); err != nil {
		respondFailure(w, "Failed to cancel order")
		return
	}

	oc.Notifier.OrderCancelled(order, models.CancelledByAdmin)
	respondMessage(w, "Order cancelled successfully by admin")
}
