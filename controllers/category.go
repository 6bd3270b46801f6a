package controllers

import (
	"errors"
	"mediease/models"
	"mediease/utils"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CategoryController handles category CRUD.
type CategoryController struct {
	Collection *mongo.Collection
	Timeout    time.Duration
}

func NewCategoryController(db *mongo.Database, timeout time.Duration) *CategoryController {
	return &CategoryController{
		Collection: db.Collection(categoriesCollection),
		Timeout:    timeout,
	}
}

func (cc *CategoryController) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r, cc.Timeout)
	defer cancel()

	categories, err := findAll[models.Category](ctx, cc.Collection, bson.M{})
	if err != nil {
		storeFailed(w, r, "fetch categories", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, categories)
}

// GetCategory returns one category, or null.
func (cc *CategoryController) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := storeContext(r, cc.Timeout)
	defer cancel()
	var category models.Category
	err := cc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.WriteJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		storeFailed(w, r, "fetch category", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, category)
}

func (cc *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if !decodeBody(w, r, &category) {
		return
	}

	ctx, cancel := storeContext(r, cc.Timeout)
	defer cancel()
	result, err := cc.Collection.InsertOne(ctx, category)
	if err != nil {
		storeFailed(w, r, "create category", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewInsertResult(result))
}

// UpdateCategory replaces the name and image of a category.
func (cc *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	var category models.Category
	if !decodeBody(w, r, &category) {
		return
	}

	ctx, cancel := storeContext(r, cc.Timeout)
	defer cancel()
	update := bson.M{"$set": bson.M{
		"category": category.Category,
		"image":    category.Image,
	}}
	result, err := cc.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		storeFailed(w, r, "update category", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewUpdateResult(result))
}

func (cc *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := storeContext(r, cc.Timeout)
	defer cancel()
	result, err := cc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		storeFailed(w, r, "delete category", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewDeleteResult(result))
}
