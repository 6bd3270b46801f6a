package controllers

import (
	"mediease/middleware"
	"mediease/models"
	"mediease/utils"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdvertisementController handles the home page slider ads.
type AdvertisementController struct {
	Collection *mongo.Collection
	Timeout    time.Duration
}

func NewAdvertisementController(db *mongo.Database, timeout time.Duration) *AdvertisementController {
	return &AdvertisementController{
		Collection: db.Collection(advertisementsCollection),
		Timeout:    timeout,
	}
}

func (ac *AdvertisementController) list(w http.ResponseWriter, r *http.Request, filter bson.M) {
	ctx, cancel := storeContext(r, ac.Timeout)
	defer cancel()

	ads, err := findAll[models.Advertisement](ctx, ac.Collection, filter)
	if err != nil {
		storeFailed(w, r, "fetch advertisements", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, ads)
}

// ListAdvertisements returns every ad (admin only).
func (ac *AdvertisementController) ListAdvertisements(w http.ResponseWriter, r *http.Request) {
	ac.list(w, r, bson.M{})
}

// SellerAdvertisements returns the ads of the seller in the path.
func (ac *AdvertisementController) SellerAdvertisements(w http.ResponseWriter, r *http.Request) {
	ac.list(w, r, bson.M{"sellerEmail": mux.Vars(r)["email"]})
}

// ActiveAdvertisements returns the ads shown publicly.
func (ac *AdvertisementController) ActiveAdvertisements(w http.ResponseWriter, r *http.Request) {
	ac.list(w, r, bson.M{"status": models.AdStatusActive})
}

// CreateAdvertisement stores a seller's ad request. New ads start inactive
// until an admin turns them on.
func (ac *AdvertisementController) CreateAdvertisement(w http.ResponseWriter, r *http.Request) {
	var ad models.Advertisement
	if !readBody(w, r, &ad) {
		return
	}
	if ad.SellerEmail == "" {
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			ad.SellerEmail = claims.Email
		}
	}
	if !validBody(w, &ad) {
		return
	}
	ad.Status = models.AdStatusInactive

	ctx, cancel := storeContext(r, ac.Timeout)
	defer cancel()
	result, err := ac.Collection.InsertOne(ctx, ad)
	if err != nil {
		storeFailed(w, r, "create advertisement", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewInsertResult(result))
}

// UpdateStatus sets an ad's status (admin only).
func (ac *AdvertisementController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	var body models.AdvertisementStatusUpdate
	if !decodeBody(w, r, &body) {
		return
	}

	ctx, cancel := storeContext(r, ac.Timeout)
	defer cancel()
	update := bson.M{"$set": bson.M{"status": body.Status}}
	result, err := ac.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		storeFailed(w, r, "update advertisement", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewUpdateResult(result))
}
