package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem represents one medicine in a user's cart. Each item is its own
// document, keyed by the owner's email.
type CartItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email       string             `bson:"email" json:"email" validate:"required,email"`
	MedicineID  string             `bson:"medicineId" json:"medicineId" validate:"required"`
	Name        string             `bson:"name" json:"name"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Company     string             `bson:"company,omitempty" json:"company,omitempty"`
	SellerEmail string             `bson:"sellerEmail,omitempty" json:"sellerEmail,omitempty"`
	Price       float64            `bson:"price" json:"price" validate:"gte=0"`
	Quantity    int                `bson:"quantity" json:"quantity" validate:"gte=0"`
}

// CartQuantityUpdate is the body of a cart quantity change.
type CartQuantityUpdate struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}
