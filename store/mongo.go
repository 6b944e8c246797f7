package store

import (
	"context"
	"errors"

	"scrunchie-store/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implements UserStore, ProductStore, and OrderStore on top of the
// ecommerce database.
type Mongo struct {
	Users    *mongo.Collection
	Products *mongo.Collection
	Orders   *mongo.Collection
}

// NewMongo wires the store collections from a connected client.
func NewMongo(client *mongo.Client) *Mongo {
	db := client.Database("ecommerce")
	return &Mongo{
		Users:    db.Collection("users"),
		Products: db.Collection("products"),
		Orders:   db.Collection("orders"),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// GetUser looks a user up by hex id.
func (m *Mongo) GetUser(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := m.Users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

// GetUserByEmail looks a user up by email address.
func (m *Mongo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := m.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

// CreateUser inserts a user and returns the new hex id. Every user starts
// with an empty cart.
func (m *Mongo) CreateUser(ctx context.Context, user *models.User) (string, error) {
	if user.CartData == nil {
		user.CartData = map[string]interface{}{}
	}
	if user.Wishlist == nil {
		user.Wishlist = []string{}
	}
	result, err := m.Users.InsertOne(ctx, user)
	if err != nil {
		return "", err
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

// UpdateProfile overwrites the mutable profile fields.
func (m *Mongo) UpdateProfile(ctx context.Context, id, name, phone, address string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"name": name, "phone": phone, "address": address}}
	result, err := m.Users.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetWishlist replaces the user's wishlist.
func (m *Mongo) SetWishlist(ctx context.Context, id string, wishlist []string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := m.Users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"wishlist": wishlist}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveCart replaces the user's stored cart with a canonical mapping.
func (m *Mongo) SaveCart(ctx context.Context, userID string, cart map[string]int) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"cart_data": models.RawCart(cart)}}
	result, err := m.Users.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearCart empties the user's cart. Called only after a successful order
// write.
func (m *Mongo) ClearCart(ctx context.Context, userID string) error {
	return m.SaveCart(ctx, userID, map[string]int{})
}

// ListProducts returns the whole catalog, newest first.
func (m *Mongo) ListProducts(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.M{"date": -1})
	cursor, err := m.Products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct looks a product up by hex id.
func (m *Mongo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var product models.Product
	if err := m.Products.FindOne(ctx, bson.M{"_id": oid}).Decode(&product); err != nil {
		return nil, wrapNotFound(err)
	}
	return &product, nil
}

// GetProductsByIDs fetches the products whose hex ids appear in ids. Unknown
// ids are simply absent from the result.
func (m *Mongo) GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return nil, nil
	}
	cursor, err := m.Products.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct inserts a product and returns the new hex id.
func (m *Mongo) CreateProduct(ctx context.Context, product *models.Product) (string, error) {
	result, err := m.Products.InsertOne(ctx, product)
	if err != nil {
		return "", err
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

// UpdateProduct overwrites a product document.
func (m *Mongo) UpdateProduct(ctx context.Context, id string, product *models.Product) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	product.ID = oid
	result, err := m.Products.ReplaceOne(ctx, bson.M{"_id": oid}, product)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct removes a product from the catalog.
func (m *Mongo) DeleteProduct(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := m.Products.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertOrder appends an order to the ledger and returns the new hex id.
func (m *Mongo) InsertOrder(ctx context.Context, order *models.Order) (string, error) {
	result, err := m.Orders.InsertOne(ctx, order)
	if err != nil {
		return "", err
	}
	oid := result.InsertedID.(primitive.ObjectID)
	order.ID = oid
	return oid.Hex(), nil
}

// GetOrder looks an order up by hex id.
func (m *Mongo) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := m.Orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&order); err != nil {
		return nil, wrapNotFound(err)
	}
	return &order, nil
}

// GetOrderByStripeSession finds the order created for a checkout session, if
// one exists. Used to keep session verification idempotent.
func (m *Mongo) GetOrderByStripeSession(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	if err := m.Orders.FindOne(ctx, bson.M{"stripe_session_id": sessionID}).Decode(&order); err != nil {
		return nil, wrapNotFound(err)
	}
	return &order, nil
}

// ListOrders returns every order, newest first. Admin use.
func (m *Mongo) ListOrders(ctx context.Context) ([]models.Order, error) {
	return m.findOrders(ctx, bson.M{})
}

// ListUserOrders returns a user's orders, newest first.
func (m *Mongo) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return m.findOrders(ctx, bson.M{"user_id": userID})
}

func (m *Mongo) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"date": -1})
	cursor, err := m.Orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus writes a new status value on an order.
func (m *Mongo) UpdateStatus(ctx context.Context, id, status string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := m.Orders.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CancelOrder marks an order cancelled with the recorded reason and actor.
func (m *Mongo) CancelOrder(ctx context.Context, id string, c models.Cancellation) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"status":              models.StatusCancelled,
		"cancelled":           true,
		"cancellation_date":   c.Date,
		"cancellation_reason": c.Reason,
		"cancelled_by":        c.By,
	}}
	result, err := m.Orders.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
