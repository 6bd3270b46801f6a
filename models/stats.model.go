package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RevenueStats is the dashboard summary. Revenue sums every payment's price
// regardless of status.
type RevenueStats struct {
	Revenue       float64 `bson:"revenue" json:"revenue"`
	PendingStatus int64   `bson:"pendingStatus" json:"pendingStatus"`
	PaidStatus    int64   `bson:"paidStatus" json:"paidStatus"`
}

// SaleDetail is one purchased medicine joined with its payment.
type SaleDetail struct {
	PaymentID     primitive.ObjectID `bson:"paymentId" json:"paymentId"`
	BuyerEmail    string             `bson:"buyerEmail" json:"buyerEmail"`
	MedicineName  string             `bson:"medicineName" json:"medicineName"`
	SellerEmail   string             `bson:"sellerEmail" json:"sellerEmail"`
	Price         float64            `bson:"price" json:"price"`
	Status        string             `bson:"status" json:"status"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	Date          time.Time          `bson:"date" json:"date"`
}

// CategoryStat aggregates sold quantity and revenue for one category.
type CategoryStat struct {
	Category string  `bson:"category" json:"category"`
	Quantity int64   `bson:"quantity" json:"quantity"`
	Revenue  float64 `bson:"revenue" json:"revenue"`
}
