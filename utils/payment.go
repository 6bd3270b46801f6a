package utils

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripePayments creates card payment intents in USD.
type StripePayments struct {
	api *client.API
}

// NewStripePayments returns a Stripe client authenticated with secretKey.
func NewStripePayments(secretKey string) *StripePayments {
	return &StripePayments{api: client.New(secretKey, nil)}
}

// CreatePaymentIntent creates an intent for amount cents and returns its
// client secret. A non-empty idempotencyKey makes retries of the same
// request return the same intent.
func (s *StripePayments) CreatePaymentIntent(ctx context.Context, amount int64, idempotencyKey string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	if idempotencyKey != "" {
		params.SetIdempotencyKey(idempotencyKey)
	}

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}

// AmountInCents converts a dollar price to the smallest currency unit,
// rounding half away from zero.
func AmountInCents(price float64) int64 {
	return decimal.NewFromFloat(price).Shift(2).Round(0).IntPart()
}
