package controllers

import (
	"errors"
	"mediease/middleware"
	"mediease/models"
	"mediease/utils"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MedicineController handles medicine catalog requests
type MedicineController struct {
	Collection *mongo.Collection
	Timeout    time.Duration
}

// NewMedicineController creates a new MedicineController
func NewMedicineController(db *mongo.Database, timeout time.Duration) *MedicineController {
	return &MedicineController{
		Collection: db.Collection(medicinesCollection),
		Timeout:    timeout,
	}
}

// ListMedicines returns the catalog, optionally narrowed by the category and
// sellerEmail query parameters.
func (mc *MedicineController) ListMedicines(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	query := r.URL.Query()
	if category := query.Get("category"); category != "" {
		filter["category"] = category
	}
	if seller := query.Get("sellerEmail"); seller != "" {
		filter["sellerEmail"] = seller
	}

	ctx, cancel := storeContext(r, mc.Timeout)
	defer cancel()
	medicines, err := findAll[models.Medicine](ctx, mc.Collection, filter)
	if err != nil {
		storeFailed(w, r, "fetch medicines", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, medicines)
}

// DiscountedMedicines returns medicines with a positive discount.
func (mc *MedicineController) DiscountedMedicines(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r, mc.Timeout)
	defer cancel()
	medicines, err := findAll[models.Medicine](ctx, mc.Collection, bson.M{"discount": bson.M{"$gt": 0}})
	if err != nil {
		storeFailed(w, r, "fetch discounted medicines", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, medicines)
}

// GetMedicine returns one medicine, or null.
func (mc *MedicineController) GetMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := storeContext(r, mc.Timeout)
	defer cancel()
	var medicine models.Medicine
	err := mc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&medicine)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.WriteJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		storeFailed(w, r, "fetch medicine", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, medicine)
}

// CreateMedicine inserts a medicine (seller only). When the body names no
// seller, the caller's email is used.
func (mc *MedicineController) CreateMedicine(w http.ResponseWriter, r *http.Request) {
	var medicine models.Medicine
	if !readBody(w, r, &medicine) {
		return
	}
	if medicine.SellerEmail == "" {
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			medicine.SellerEmail = claims.Email
		}
	}
	if !validBody(w, &medicine) {
		return
	}

	ctx, cancel := storeContext(r, mc.Timeout)
	defer cancel()
	result, err := mc.Collection.InsertOne(ctx, medicine)
	if err != nil {
		storeFailed(w, r, "create medicine", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewInsertResult(result))
}
