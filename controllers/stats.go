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

// StatsController serves the dashboard reports. Every report is a single
// aggregation over the payments collection.
type StatsController struct {
	Payments *mongo.Collection
	Timeout  time.Duration
}

func NewStatsController(db *mongo.Database, timeout time.Duration) *StatsController {
	return &StatsController{
		Payments: db.Collection(paymentsCollection),
		Timeout:  timeout,
	}
}

func countStatus(status string) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
}

// RevenuePipeline totals revenue and counts payments by status.
func RevenuePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "revenue", Value: bson.M{"$sum": "$price"}},
			{Key: "pendingStatus", Value: countStatus(models.PaymentPending)},
			{Key: "paidStatus", Value: countStatus(models.PaymentPaid)},
		}}},
	}
}

// joinMedicines expands each payment into one row per purchased medicine.
// Ids that are not valid ObjectIDs become null and join nothing.
func joinMedicines() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$medicineItemIds"}},
		{{Key: "$addFields", Value: bson.M{
			"medicineObjectId": bson.M{"$convert": bson.M{
				"input":   "$medicineItemIds",
				"to":      "objectId",
				"onError": nil,
				"onNull":  nil,
			}},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         medicinesCollection,
			"localField":   "medicineObjectId",
			"foreignField": "_id",
			"as":           "medicine",
		}}},
		{{Key: "$unwind", Value: "$medicine"}},
	}
}

// SalesDetailPipeline lists one row per sold medicine. A non-empty match is
// applied after the join, so it may filter on medicine fields.
func SalesDetailPipeline(match bson.D) mongo.Pipeline {
	pipeline := joinMedicines()
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	return append(pipeline, bson.D{{Key: "$project", Value: bson.D{
		{Key: "_id", Value: 0},
		{Key: "paymentId", Value: "$_id"},
		{Key: "buyerEmail", Value: "$email"},
		{Key: "medicineName", Value: "$medicine.name"},
		{Key: "sellerEmail", Value: "$medicine.sellerEmail"},
		{Key: "price", Value: "$medicine.price"},
		{Key: "status", Value: "$status"},
		{Key: "transactionId", Value: "$transactionId"},
		{Key: "date", Value: "$date"},
	}}})
}

// CategoryStatsPipeline sums sold quantity and revenue per medicine category.
func CategoryStatsPipeline() mongo.Pipeline {
	return append(joinMedicines(),
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$medicine.category"},
			{Key: "quantity", Value: bson.M{"$sum": 1}},
			{Key: "revenue", Value: bson.M{"$sum": "$medicine.price"}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "category", Value: "$_id"},
			{Key: "quantity", Value: 1},
			{Key: "revenue", Value: 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "category", Value: 1}}}},
	)
}

// RevenueStats serves both the seller and admin dashboards.
func (sc *StatsController) RevenueStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r, sc.Timeout)
	defer cancel()

	rows, err := aggregateAll[models.RevenueStats](ctx, sc.Payments, RevenuePipeline())
	if err != nil {
		storeFailed(w, r, "compute revenue", err)
		return
	}

	stats := models.RevenueStats{}
	if len(rows) > 0 {
		stats = rows[0]
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

func (sc *StatsController) sales(w http.ResponseWriter, r *http.Request, match bson.D) {
	ctx, cancel := storeContext(r, sc.Timeout)
	defer cancel()

	rows, err := aggregateAll[models.SaleDetail](ctx, sc.Payments, SalesDetailPipeline(match))
	if err != nil {
		storeFailed(w, r, "fetch sales", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, rows)
}

// SalesInfo lists every sold medicine (admin only).
func (sc *StatsController) SalesInfo(w http.ResponseWriter, r *http.Request) {
	sc.sales(w, r, nil)
}

// SellerSales lists the sold medicines of the seller in the path.
func (sc *StatsController) SellerSales(w http.ResponseWriter, r *http.Request) {
	sc.sales(w, r, bson.D{{Key: "medicine.sellerEmail", Value: mux.Vars(r)["email"]}})
}

func (sc *StatsController) CategoryStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r, sc.Timeout)
	defer cancel()

	rows, err := aggregateAll[models.CategoryStat](ctx, sc.Payments, CategoryStatsPipeline())
	if err != nil {
		storeFailed(w, r, "compute category stats", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, rows)
}
