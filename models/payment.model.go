package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses. A payment only ever moves from pending to paid.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// Payment records a checkout. CartIDs and MedicineItemIDs hold hex ObjectIDs
// as sent by the client.
type Payment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email           string             `bson:"email" json:"email" validate:"required,email"`
	Price           float64            `bson:"price" json:"price" validate:"gt=0"`
	TransactionID   string             `bson:"transactionId" json:"transactionId"`
	Date            time.Time          `bson:"date" json:"date"`
	CartIDs         []string           `bson:"cartIds" json:"cartIds" validate:"required,min=1,dive,len=24,hexadecimal"`
	MedicineItemIDs []string           `bson:"medicineItemIds" json:"medicineItemIds" validate:"dive,len=24,hexadecimal"`
	Status          string             `bson:"status" json:"status"`
}

// PaymentIntentRequest is the body of a payment-intent request; Price is in dollars.
type PaymentIntentRequest struct {
	Price float64 `json:"price" validate:"gt=0"`
}
