// Package payment drives order payment flows: cash on delivery, Stripe card
// payments and the external gateway.
package payment

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zahrashop/backend/internal/domain/order"
	"github.com/zahrashop/backend/internal/gateway"
)

// BadRequest-class sentinels.
var (
	ErrAlreadyPaid = errors.New("order is already paid")
	ErrWrongMethod = errors.New("order uses a different payment method")
)

// ErrSessionFailed signals that the external gateway refused or failed to
// open a payment session. The upstream cause is logged, not surfaced.
var ErrSessionFailed = errors.New("payment session creation failed")

// SessionCreator opens a payment session with the external gateway.
type SessionCreator interface {
	CreatePayment(ctx context.Context, orderID string, amount decimal.Decimal, currency string) (*gateway.Session, error)
}

// StripeGateway is the Stripe surface the payment flow needs: intent
// creation and webhook verification.
type StripeGateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency, orderID string) (id, clientSecret string, err error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// Service coordinates payments against the order store.
type Service struct {
	orders    order.Repository
	gateway   SessionCreator
	stripe    StripeGateway
	publisher order.EventPublisher
}

func NewService(orders order.Repository, gw SessionCreator, stripe StripeGateway, publisher order.EventPublisher) *Service {
	return &Service{
		orders:    orders,
		gateway:   gw,
		stripe:    stripe,
		publisher: publisher,
	}
}

// ConfirmCashOnDelivery acknowledges a cash-on-delivery order. The payment
// itself settles at the door, so the order stays pending; the call only
// validates that COD is applicable.
func (s *Service) ConfirmCashOnDelivery(ctx context.Context, orderID, userID string) (*order.Order, error) {
	o, err := s.orders.GetByUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if err := requireMethod(o, order.PaymentCashOnDelivery); err != nil {
		return nil, err
	}
	return o, nil
}

// StripeIntent is the client-side handle for completing a card payment.
type StripeIntent struct {
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
}

// CreateStripeIntent creates a payment intent for a card order and records
// its ID on the order so the webhook can find it.
func (s *Service) CreateStripeIntent(ctx context.Context, orderID, userID string) (*StripeIntent, error) {
	o, err := s.orders.GetByUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if err := requireMethod(o, order.PaymentCard); err != nil {
		return nil, err
	}

	// Stripe amounts are integer minor units.
	minor := o.TotalAmount.Mul(decimal.NewFromInt(100)).IntPart()
	id, secret, err := s.stripe.CreateIntent(ctx, minor, o.Currency, o.ID)
	if err != nil {
		return nil, errors.Wrap(err, "create payment intent")
	}

	if err := s.orders.UpdatePayment(ctx, o.ID, order.PaymentPending, order.StatusPending, id); err != nil {
		return nil, errors.Wrap(err, "store intent id")
	}
	return &StripeIntent{IntentID: id, ClientSecret: secret}, nil
}

// CreateGatewaySession opens an external gateway session for the order and
// records its transaction ID for callback correlation.
func (s *Service) CreateGatewaySession(ctx context.Context, orderID, userID string) (*gateway.Session, error) {
	o, err := s.orders.GetByUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if err := requireMethod(o, order.PaymentGateway); err != nil {
		return nil, err
	}

	session, err := s.gateway.CreatePayment(ctx, o.ID, o.TotalAmount, o.Currency)
	if err != nil {
		zctx.From(ctx).Error("create gateway session",
			zap.String("order_id", o.ID), zap.Error(err))
		return nil, ErrSessionFailed
	}

	if err := s.orders.UpdatePayment(ctx, o.ID, order.PaymentPending, order.StatusPending, session.TransactionID); err != nil {
		return nil, errors.Wrap(err, "store transaction id")
	}
	return session, nil
}

// HandleGatewayCallback settles a gateway payment. The gateway reports
// "success" or "paid" on success; anything else fails the payment.
func (s *Service) HandleGatewayCallback(ctx context.Context, transactionID, status string) error {
	o, err := s.orders.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return err
	}
	if status == "success" || status == "paid" {
		return s.markPaid(ctx, o)
	}
	return s.markFailed(ctx, o)
}

// ParseStripeWebhook verifies a webhook payload and extracts the payment
// outcome. A nil event means the type is not handled here.
func (s *Service) ParseStripeWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	return s.stripe.ParseWebhook(payload, signature)
}

// SettleIntent settles a card payment reported by the Stripe webhook.
func (s *Service) SettleIntent(ctx context.Context, intentID string, succeeded bool) error {
	o, err := s.orders.GetByTransactionID(ctx, intentID)
	if err != nil {
		return err
	}
	if succeeded {
		return s.markPaid(ctx, o)
	}
	return s.markFailed(ctx, o)
}

func (s *Service) markPaid(ctx context.Context, o *order.Order) error {
	if o.PaymentStatus == order.PaymentPaid {
		return ErrAlreadyPaid
	}
	if err := s.orders.UpdatePayment(ctx, o.ID, order.PaymentPaid, order.StatusPaid, o.PaymentTransactionID); err != nil {
		return errors.Wrap(err, "mark order paid")
	}
	o.PaymentStatus = order.PaymentPaid
	o.Status = order.StatusPaid
	s.publishStatusChanged(ctx, o)
	return nil
}

func (s *Service) markFailed(ctx context.Context, o *order.Order) error {
	if o.PaymentStatus == order.PaymentPaid {
		return ErrAlreadyPaid
	}
	if err := s.orders.UpdatePayment(ctx, o.ID, order.PaymentFailed, order.StatusFailed, o.PaymentTransactionID); err != nil {
		return errors.Wrap(err, "mark order failed")
	}
	o.PaymentStatus = order.PaymentFailed
	o.Status = order.StatusFailed
	s.publishStatusChanged(ctx, o)
	return nil
}

func (s *Service) publishStatusChanged(ctx context.Context, o *order.Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.OrderStatusChanged(ctx, o); err != nil {
		zctx.From(ctx).Warn("publish payment status change",
			zap.String("order_id", o.ID), zap.Error(err))
	}
}

func requireMethod(o *order.Order, method order.PaymentMethod) error {
	if o.PaymentStatus == order.PaymentPaid {
		return ErrAlreadyPaid
	}
	if o.PaymentMethod != method {
		return ErrWrongMethod
	}
	return nil
}
