package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups medicines on the home page.
type Category struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Category string             `bson:"category" json:"category" validate:"required"`
	Image    string             `bson:"image" json:"image"`
}
