package controllers

import (
	"context"
	"errors"
	"fmt"
	"mediease/models"
	"mediease/utils"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserController handles user-related requests
type UserController struct {
	Collection *mongo.Collection
	Timeout    time.Duration
}

// NewUserController creates a new UserController
func NewUserController(db *mongo.Database, timeout time.Duration) *UserController {
	return &UserController{
		Collection: db.Collection(usersCollection),
		Timeout:    timeout,
	}
}

// FindByEmail returns the user with email, or nil when there is none.
func (uc *UserController) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if uc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.Timeout)
		defer cancel()
	}

	var user models.User
	err := uc.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// ListUsers returns every user (admin only).
func (uc *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r, uc.Timeout)
	defer cancel()

	users, err := findAll[models.User](ctx, uc.Collection, bson.M{})
	if err != nil {
		storeFailed(w, r, "fetch users", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, users)
}

// IsAdmin reports whether the user in the path is an admin.
func (uc *UserController) IsAdmin(w http.ResponseWriter, r *http.Request) {
	uc.hasRole(w, r, models.RoleAdmin, "admin")
}

// IsSeller reports whether the user in the path is a seller.
func (uc *UserController) IsSeller(w http.ResponseWriter, r *http.Request) {
	uc.hasRole(w, r, models.RoleSeller, "seller")
}

func (uc *UserController) hasRole(w http.ResponseWriter, r *http.Request, role, key string) {
	user, err := uc.FindByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		storeFailed(w, r, "fetch user", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{key: user != nil && user.Role == role})
}

// CreateUser stores a user on first sign-in. An existing email is answered
// with a null insertedId and nothing is written. The check and the insert
// are separate operations, so two concurrent sign-ins can both insert.
func (uc *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !decodeBody(w, r, &user) {
		return
	}

	existing, err := uc.FindByEmail(r.Context(), user.Email)
	if err != nil {
		storeFailed(w, r, "check user", err)
		return
	}
	if existing != nil {
		utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message":    "User already exist",
			"insertedId": nil,
		})
		return
	}

	// Roles only change through the role endpoints.
	user.Role = models.RoleUser

	ctx, cancel := storeContext(r, uc.Timeout)
	defer cancel()
	result, err := uc.Collection.InsertOne(ctx, user)
	if err != nil {
		storeFailed(w, r, "create user", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewInsertResult(result))
}

// DeleteUser removes a user by id (admin only).
func (uc *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := storeContext(r, uc.Timeout)
	defer cancel()
	result, err := uc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		storeFailed(w, r, "delete user", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewDeleteResult(result))
}

// SetRole returns a handler that sets the role of the user in the path.
func (uc *UserController) SetRole(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := objectIDParam(w, r, "id")
		if !ok {
			return
		}

		ctx, cancel := storeContext(r, uc.Timeout)
		defer cancel()
		update := bson.M{"$set": bson.M{"role": role}}
		result, err := uc.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
		if err != nil {
			storeFailed(w, r, "update role", err)
			return
		}

		utils.WriteJSON(w, http.StatusOK, models.NewUpdateResult(result))
	}
}
