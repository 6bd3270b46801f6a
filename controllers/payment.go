package controllers

import (
	"context"
	"errors"
	"fmt"
	"mediease/middleware"
	"mediease/models"
	"mediease/utils"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PaymentIntentCreator creates a card payment intent for amount cents and
// returns its client secret.
type PaymentIntentCreator interface {
	CreatePaymentIntent(ctx context.Context, amount int64, idempotencyKey string) (string, error)
}

// PaymentNotifier tells a buyer that their payment was settled.
type PaymentNotifier interface {
	SendPaymentSettledEmail(payment models.Payment) error
}

// PaymentController handles checkout and payment records
type PaymentController struct {
	Payments *mongo.Collection
	Carts    *mongo.Collection
	Timeout  time.Duration

	// Intents and Notifier are optional.
	Intents  PaymentIntentCreator
	Notifier PaymentNotifier

	notifications sync.WaitGroup
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(db *mongo.Database, timeout time.Duration) *PaymentController {
	return &PaymentController{
		Payments: db.Collection(paymentsCollection),
		Carts:    db.Collection(cartsCollection),
		Timeout:  timeout,
	}
}

// CreatePaymentIntent asks the payment processor for a card intent covering
// the posted price.
func (pc *PaymentController) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	if pc.Intents == nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "payments are not configured")
		return
	}
	var body models.PaymentIntentRequest
	if !decodeBody(w, r, &body) {
		return
	}

	// X-Request-ID is caller-controlled and never used as the key.
	key := uuid.NewString()
	secret, err := pc.Intents.CreatePaymentIntent(r.Context(), utils.AmountInCents(body.Price), key)
	if err != nil {
		utils.Error("[%s] intent %s: %v", middleware.RequestIDFromContext(r.Context()), key, err)
		utils.WriteError(w, http.StatusBadGateway, "failed to create payment intent")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"clientSecret": secret})
}

func (pc *PaymentController) list(w http.ResponseWriter, r *http.Request, filter bson.M) {
	ctx, cancel := storeContext(r, pc.Timeout)
	defer cancel()

	payments, err := findAll[models.Payment](ctx, pc.Payments, filter)
	if err != nil {
		storeFailed(w, r, "fetch payments", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, payments)
}

// ListPayments returns every payment (admin only).
func (pc *PaymentController) ListPayments(w http.ResponseWriter, r *http.Request) {
	pc.list(w, r, bson.M{})
}

// UserPayments returns the payment history of the buyer in the path.
func (pc *PaymentController) UserPayments(w http.ResponseWriter, r *http.Request) {
	pc.list(w, r, bson.M{"email": mux.Vars(r)["email"]})
}

// CreatePayment records a checkout and then removes the purchased items from
// the cart. The two writes are independent: if the delete fails the payment
// stays recorded.
func (pc *PaymentController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var payment models.Payment
	if !decodeBody(w, r, &payment) {
		return
	}

	cartIDs := make([]primitive.ObjectID, 0, len(payment.CartIDs))
	for _, hex := range payment.CartIDs {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "cartIds must contain valid ids")
			return
		}
		cartIDs = append(cartIDs, id)
	}

	payment.Status = models.PaymentPending
	if payment.Date.IsZero() {
		payment.Date = time.Now().UTC()
	}

	ctx, cancel := storeContext(r, pc.Timeout)
	defer cancel()
	inserted, err := pc.Payments.InsertOne(ctx, payment)
	if err != nil {
		storeFailed(w, r, "create payment", err)
		return
	}

	deleted, err := pc.Carts.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": cartIDs}})
	if err != nil {
		storeFailed(w, r, "clear purchased cart items", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"paymentResult": models.NewInsertResult(inserted),
		"deleteResult":  models.NewDeleteResult(deleted),
	})
}

// SettlePayment marks a pending payment as paid. Only pending documents
// match, so a settled payment is never rewritten.
func (pc *PaymentController) SettlePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := storeContext(r, pc.Timeout)
	defer cancel()
	filter := bson.M{"_id": id, "status": models.PaymentPending}
	update := bson.M{"$set": bson.M{"status": models.PaymentPaid}}
	result, err := pc.Payments.UpdateOne(ctx, filter, update)
	if err != nil {
		storeFailed(w, r, "settle payment", err)
		return
	}

	if result.ModifiedCount > 0 && pc.Notifier != nil {
		pc.notifySettled(ctx, r, id)
	}

	utils.WriteJSON(w, http.StatusOK, models.NewUpdateResult(result))
}

// notifySettled loads the payment and emails the buyer in the background.
func (pc *PaymentController) notifySettled(ctx context.Context, r *http.Request, id primitive.ObjectID) {
	requestID := middleware.RequestIDFromContext(r.Context())

	var payment models.Payment
	err := pc.Payments.FindOne(ctx, bson.M{"_id": id}).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return
	}
	if err != nil {
		utils.Warn("[%s] load settled payment %s: %v", requestID, id.Hex(), err)
		return
	}

	pc.notifications.Add(1)
	go func() {
		defer pc.notifications.Done()
		if err := pc.Notifier.SendPaymentSettledEmail(payment); err != nil {
			utils.Warn("[%s] notify %s: %v", requestID, payment.Email, err)
		}
	}()
}

// WaitForNotifications blocks until every settlement email started so far
// has been sent or has failed, or until ctx is done.
func (pc *PaymentController) WaitForNotifications(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		pc.notifications.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("pending settlement emails: %w", ctx.Err())
	}
}
