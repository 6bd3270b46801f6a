package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Advertisement statuses. Anything other than AdStatusActive is hidden
// from the public slider.
const (
	AdStatusActive   = "active"
	AdStatusInactive = "inactive"
)

// Advertisement is a seller's request to feature a medicine on the home page.
type Advertisement struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	MedicineName string             `bson:"medicineName" json:"medicineName" validate:"required"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`
	SellerEmail  string             `bson:"sellerEmail" json:"sellerEmail" validate:"required,email"`
	Status       string             `bson:"status" json:"status"`
}

// AdvertisementStatusUpdate is the body an admin sends to toggle an ad.
type AdvertisementStatusUpdate struct {
	Status string `json:"status" validate:"required"`
}
