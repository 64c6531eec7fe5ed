package payment

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-faster/errors"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeConfig carries the Stripe API credentials.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// StripeClient implements IntentCreator against the Stripe API.
type StripeClient struct {
	api *client.API
	cfg StripeConfig
}

func NewStripeClient(cfg StripeConfig) *StripeClient {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeClient{api: api, cfg: cfg}
}

// CreateIntent creates a payment intent carrying the order ID in metadata.
func (c *StripeClient) CreateIntent(ctx context.Context, amountMinor int64, currency, orderID string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_id", orderID)

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return "", "", errors.Wrap(err, "stripe payment intent")
	}
	return pi.ID, pi.ClientSecret, nil
}

// WebhookEvent is the subset of a Stripe event the payment flow consumes.
type WebhookEvent struct {
	IntentID  string
	Succeeded bool
}

// ParseWebhook verifies the webhook signature and extracts the payment
// outcome. Event types other than the two payment intent outcomes return a
// nil event and are acknowledged without action.
func (c *StripeClient) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.cfg.WebhookSecret)
	if err != nil {
		return nil, errors.Wrap(err, "verify webhook signature")
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
	default:
		return nil, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, errors.Wrap(err, "decode payment intent")
	}
	return &WebhookEvent{
		IntentID:  pi.ID,
		Succeeded: event.Type == "payment_intent.succeeded",
	}, nil
}
