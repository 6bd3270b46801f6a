package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Medicine is a catalog entry listed by a seller.
type Medicine struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	GenericName string             `bson:"genericName,omitempty" json:"genericName,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Category    string             `bson:"category" json:"category" validate:"required"`
	Company     string             `bson:"company,omitempty" json:"company,omitempty"`
	MassUnit    string             `bson:"massUnit,omitempty" json:"massUnit,omitempty"`
	Price       float64            `bson:"price" json:"price" validate:"gt=0"`
	Discount    float64            `bson:"discount" json:"discount" validate:"gte=0,lte=100"` // percentage
	SellerEmail string             `bson:"sellerEmail" json:"sellerEmail" validate:"required,email"`
}
