package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"scrunchie-store/middleware"
	"scrunchie-store/models"
	"scrunchie-store/payments"
	"scrunchie-store/store"
	"scrunchie-store/utils"
)

// fakeStore is an in-memory UserStore + ProductStore + OrderStore with
// failure injection hooks.
type fakeStore struct {
	users    map[string]*models.User
	products map[string]models.Product
	orders   map[string]*models.Order

	failClearCart bool
	failSaveCart  bool
	failInsert    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]*models.User{},
		products: map[string]models.Product{},
		orders:   map[string]*models.Order{},
	}
}

func (f *fakeStore) addUser(cart map[string]interface{}) string {
	id := primitive.NewObjectID()
	if cart == nil {
		cart = map[string]interface{}{}
	}
	f.users[id.Hex()] = &models.User{
		ID:       id,
		Name:     "Test User",
		Email:    "user@example.com",
		Role:     "user",
		CartData: cart,
		Wishlist: []string{},
	}
	return id.Hex()
}

func (f *fakeStore) addProduct(name string, price float64) string {
	id := primitive.NewObjectID()
	f.products[id.Hex()] = models.Product{
		ID:       id,
		Name:     name,
		Price:    price,
		Category: "Scrunchies",
		Images:   []string{"https://cdn.example.com/" + name + ".jpg"},
		InStock:  true,
	}
	return id.Hex()
}

func (f *fakeStore) addOrder(order models.Order) string {
	order.ID = primitive.NewObjectID()
	f.orders[order.ID.Hex()] = &order
	return order.ID.Hex()
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errNotFound()
	}
	copied := *user
	return &copied, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errNotFound()
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) (string, error) {
	user.ID = primitive.NewObjectID()
	copied := *user
	f.users[user.ID.Hex()] = &copied
	return user.ID.Hex(), nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, id, name, phone, address string) error {
	user, ok := f.users[id]
	if !ok {
		return errNotFound()
	}
	user.Name, user.Phone, user.Address = name, phone, address
	return nil
}

func (f *fakeStore) SetWishlist(_ context.Context, id string, wishlist []string) error {
	user, ok := f.users[id]
	if !ok {
		return errNotFound()
	}
	user.Wishlist = wishlist
	return nil
}

func (f *fakeStore) SaveCart(_ context.Context, userID string, cart map[string]int) error {
	if f.failSaveCart {
		return errors.New("save cart failed")
	}
	user, ok := f.users[userID]
	if !ok {
		return errNotFound()
	}
	user.CartData = models.RawCart(cart)
	return nil
}

func (f *fakeStore) ClearCart(ctx context.Context, userID string) error {
	if f.failClearCart {
		return errors.New("clear cart failed")
	}
	return f.SaveCart(ctx, userID, map[string]int{})
}

func (f *fakeStore) ListProducts(_ context.Context) ([]models.Product, error) {
	var products []models.Product
	for _, p := range f.products {
		products = append(products, p)
	}
	return products, nil
}

func (f *fakeStore) GetProduct(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, errNotFound()
	}
	return &p, nil
}

func (f *fakeStore) GetProductsByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	var products []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (f *fakeStore) CreateProduct(_ context.Context, product *models.Product) (string, error) {
	product.ID = primitive.NewObjectID()
	f.products[product.ID.Hex()] = *product
	return product.ID.Hex(), nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, id string, product *models.Product) error {
	existing, ok := f.products[id]
	if !ok {
		return errNotFound()
	}
	product.ID = existing.ID
	f.products[id] = *product
	return nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return errNotFound()
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) InsertOrder(_ context.Context, order *models.Order) (string, error) {
	if f.failInsert {
		return "", errors.New("insert failed")
	}
	order.ID = primitive.NewObjectID()
	copied := *order
	copied.Items = append([]models.OrderItem(nil), order.Items...)
	f.orders[order.ID.Hex()] = &copied
	return order.ID.Hex(), nil
}

func (f *fakeStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, errNotFound()
	}
	copied := *order
	return &copied, nil
}

func (f *fakeStore) GetOrderByStripeSession(_ context.Context, sessionID string) (*models.Order, error) {
	for _, order := range f.orders {
		if order.StripeSessionID == sessionID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, errNotFound()
}

func (f *fakeStore) ListOrders(_ context.Context) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range f.orders {
		orders = append(orders, *order)
	}
	return orders, nil
}

func (f *fakeStore) ListUserOrders(_ context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id, status string) error {
	order, ok := f.orders[id]
	if !ok {
		return errNotFound()
	}
	order.Status = status
	return nil
}

func (f *fakeStore) CancelOrder(_ context.Context, id string, c models.Cancellation) error {
	order, ok := f.orders[id]
	if !ok {
		return errNotFound()
	}
	order.Status = models.StatusCancelled
	order.Cancelled = true
	order.CancellationDate = &c.Date
	order.CancellationReason = c.Reason
	order.CancelledBy = c.By
	return nil
}

func errNotFound() error {
	return store.ErrNotFound
}

// fakeNotifier records dispatched notifications.
type fakeNotifier struct {
	confirmed []string
	statuses  []string
	cancelled []string
}

func (n *fakeNotifier) OrderConfirmed(order *models.Order) {
	n.confirmed = append(n.confirmed, order.ID.Hex())
}

func (n *fakeNotifier) OrderStatusChanged(_ *models.Order, status string) {
	n.statuses = append(n.statuses, status)
}

func (n *fakeNotifier) OrderCancelled(_ *models.Order, by string) {
	n.cancelled = append(n.cancelled, by)
}

// fakeStripe serves canned checkout sessions.
type fakeStripe struct {
	created     []payments.SessionRequest
	sessions    map[string]*payments.SessionInfo
	retrieveErr error
}

func newFakeStripe() *fakeStripe {
	return &fakeStripe{sessions: map[string]*payments.SessionInfo{}}
}

func (s *fakeStripe) CreateCheckoutSession(req payments.SessionRequest) (string, error) {
	s.created = append(s.created, req)
	id := "cs_test_1"
	s.sessions[id] = &payments.SessionInfo{
		ID:              id,
		Paid:            false,
		PaymentIntentID: "pi_test_1",
		Metadata:        req.Metadata,
	}
	return id, nil
}

func (s *fakeStripe) RetrieveSession(id string) (*payments.SessionInfo, error) {
	if s.retrieveErr != nil {
		return nil, s.retrieveErr
	}
	info, ok := s.sessions[id]
	if !ok {
		return nil, errors.New("no such session")
	}
	return info, nil
}

// fakeRazorpay returns a static provider order.
type fakeRazorpay struct{}

func (fakeRazorpay) CreateOrder(amount float64) (*payments.ProviderOrder, error) {
	return &payments.ProviderOrder{ID: "order_test", Amount: int64(amount * 100), Currency: "INR"}, nil
}

func newOrderController(store *fakeStore, stripeGW payments.StripeGateway, notifier utils.Notifier) *OrderController {
	return NewOrderController(
		store, store, store,
		stripeGW, fakeRazorpay{}, "rzp_test_key",
		map[string]payments.Verifier{
			"COD":      payments.COD{},
			"Razorpay": payments.Razorpay{Secret: "s3cret"},
		},
		notifier,
		5.0,
		"http://localhost:5173",
	)
}

func authedRequest(t *testing.T, method, target string, body interface{}, claims *utils.Claims) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if claims != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
	}
	return req
}

func userClaims(userID string) *utils.Claims {
	return &utils.Claims{UserID: userID, Email: "user@example.com", Role: "user"}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope
}

func testAddress() models.Address {
	return models.Address{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Street:    "12 Analytical St",
		City:      "London",
		State:     "LDN",
		ZipCode:   "E1 6AN",
		Country:   "UK",
		Phone:     "5551234",
	}
}
