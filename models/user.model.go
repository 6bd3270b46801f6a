package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold. A user has exactly one.
const (
	RoleUser   = "user"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User represents a user in the system
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Email string             `bson:"email" json:"email" validate:"required,email"`
	Photo string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role  string             `bson:"role" json:"role" validate:"omitempty,oneof=user seller admin"`
}
