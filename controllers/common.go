package controllers

import (
	"context"
	"encoding/json"
	"mediease/middleware"
	"mediease/utils"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names in the MediEase database.
const (
	usersCollection          = "users"
	medicinesCollection      = "medicines"
	categoriesCollection     = "categories"
	cartsCollection          = "carts"
	advertisementsCollection = "advertisements"
	paymentsCollection       = "payments"
)

const defaultTimeout = 5 * time.Second

// storeContext bounds a store call by d, falling back to defaultTimeout.
// It derives from the request context so a dropped client cancels the call.
func storeContext(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(r.Context(), d)
}

// objectIDParam parses the path variable name as an ObjectID, writing a 400
// when it is malformed.
func objectIDParam(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// decodeBody decodes and validates the request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := utils.DecodeJSON(r, v); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ValidationMessage(err))
		return false
	}
	return true
}

// readBody decodes the request body without validating it, so the caller can
// fill defaults first and then call validBody.
func readBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func validBody(w http.ResponseWriter, v interface{}) bool {
	if err := utils.Validate(v); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ValidationMessage(err))
		return false
	}
	return true
}

// storeFailed logs a failed store call and writes a generic 500. Store errors
// are not mapped to domain errors.
func storeFailed(w http.ResponseWriter, r *http.Request, op string, err error) {
	utils.Error("[%s] %s: %v", middleware.RequestIDFromContext(r.Context()), op, err)
	utils.WriteError(w, http.StatusInternalServerError, "failed to "+op)
}

// findAll runs a find and decodes every document into a non-nil slice.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}) ([]T, error) {
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := make([]T, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// aggregateAll runs pipeline and decodes every row into a non-nil slice.
func aggregateAll[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]T, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := make([]T, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Root is the liveness response.
func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("MediEase is waiting for you"))
}
