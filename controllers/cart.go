package controllers

import (
	"mediease/models"
	"mediease/utils"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CartController handles cart-related requests
type CartController struct {
	Collection *mongo.Collection
	Timeout    time.Duration
}

// NewCartController creates a new CartController
func NewCartController(db *mongo.Database, timeout time.Duration) *CartController {
	return &CartController{
		Collection: db.Collection(cartsCollection),
		Timeout:    timeout,
	}
}

// GetCart returns the cart items owned by the email query parameter.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r, cc.Timeout)
	defer cancel()

	items, err := findAll[models.CartItem](ctx, cc.Collection, bson.M{"email": r.URL.Query().Get("email")})
	if err != nil {
		storeFailed(w, r, "fetch cart", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, items)
}

// AddToCart inserts one cart item. Repeated adds create separate items.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var item models.CartItem
	if !decodeBody(w, r, &item) {
		return
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	ctx, cancel := storeContext(r, cc.Timeout)
	defer cancel()
	result, err := cc.Collection.InsertOne(ctx, item)
	if err != nil {
		storeFailed(w, r, "add to cart", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewInsertResult(result))
}

// UpdateQuantity sets the quantity of one cart item.
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	var body models.CartQuantityUpdate
	if !decodeBody(w, r, &body) {
		return
	}

	ctx, cancel := storeContext(r, cc.Timeout)
	defer cancel()
	update := bson.M{"$set": bson.M{"quantity": body.Quantity}}
	result, err := cc.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		storeFailed(w, r, "update cart", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewUpdateResult(result))
}

// RemoveFromCart deletes one cart item by id.
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := storeContext(r, cc.Timeout)
	defer cancel()
	result, err := cc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		storeFailed(w, r, "remove from cart", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewDeleteResult(result))
}

// ClearCart deletes every cart item owned by the email in the path.
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r, cc.Timeout)
	defer cancel()
	result, err := cc.Collection.DeleteMany(ctx, bson.M{"email": mux.Vars(r)["email"]})
	if err != nil {
		storeFailed(w, r, "clear cart", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewDeleteResult(result))
}
