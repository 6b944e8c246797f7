package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address represents a delivery address captured from the checkout form
type Address struct {
	FirstName string `bson:"first_name" json:"firstName"`
	LastName  string `bson:"last_name" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	ZipCode   string `bson:"zipcode" json:"zipcode"`
	Country   string `bson:"country" json:"country"`
	Phone     string `bson:"phone" json:"phone"`
}

// User represents a user in the system. CartData is stored raw because older
// clients wrote several shapes into it; models.NormalizeCart is the only code
// allowed to interpret it.
type User struct {
	ID       primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string                 `bson:"name" json:"name"`
	Email    string                 `bson:"email" json:"email"`
	Password string                 `bson:"password,omitempty" json:"-"`
	Phone    string                 `bson:"phone" json:"phone"`
	Address  string                 `bson:"address" json:"address"`
	Role     string                 `bson:"role" json:"role"` // "user" or "admin"
	CartData map[string]interface{} `bson:"cart_data" json:"cartData"`
	Wishlist []string               `bson:"wishlist" json:"wishlist"`
}
