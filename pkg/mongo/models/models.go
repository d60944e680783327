package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Collection names. The User collection embeds each rack as an array so a
// user's whole rack travels in one document; products are referenced by _id.
const (
	ProductCollection = "Product"
	UserCollection    = "User"
)

// Product is the catalog document. OnRackCount is derived from the counter
// cache at read time and never persisted.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

// RackItem is one entry in a user's rack. ProductID references a Product
// document; it is not an ownership relation, so many users' racks may point
// at the same product.
type RackItem struct {
	ProductID     primitive.ObjectID `bson:"product_id" json:"product_id"`
	PurchasedDate string             `bson:"purchased_date" json:"purchased_date"`
}

// UserProfile carries the nested business identity. UserID is the external
// key, distinct from the document's _id.
type UserProfile struct {
	UserID int    `bson:"user_id" json:"user_id"`
	Name   string `bson:"name,omitempty" json:"name,omitempty"`
	Email  string `bson:"email,omitempty" json:"email,omitempty"`
}

// User is the rack-owner document. Users are never created or deleted here;
// only Rack is mutated.
type User struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Profile UserProfile        `bson:"user" json:"user"`
	Rack    []RackItem         `bson:"rack" json:"rack"`
}
