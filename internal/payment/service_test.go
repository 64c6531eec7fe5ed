package payment

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zahrashop/backend/internal/domain/order"
	"github.com/zahrashop/backend/internal/gateway"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

type mockOrderRepo struct {
	byID   map[string]*order.Order
	byTxID map[string]*order.Order

	updatedStatus order.Status
	updatedPS     order.PaymentStatus
	updatedTxID   string
	updates       int
}

func (m *mockOrderRepo) Create(_ context.Context, _ *order.Order) error { return nil }

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) GetByUser(_ context.Context, id, userID string) (*order.Order, error) {
	o, ok := m.byID[id]
	if !ok || o.UserID != userID {
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) GetByTransactionID(_ context.Context, txID string) (*order.Order, error) {
	o, ok := m.byTxID[txID]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, _ string) ([]order.Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]order.Order, error) { return nil, nil }

func (m *mockOrderRepo) UpdateStatus(_ context.Context, _ string, _ order.Status) error {
	return nil
}

func (m *mockOrderRepo) UpdatePayment(_ context.Context, _ string, ps order.PaymentStatus, status order.Status, txID string) error {
	m.updatedPS = ps
	m.updatedStatus = status
	m.updatedTxID = txID
	m.updates++
	return nil
}

type mockGateway struct {
	session *gateway.Session
	err     error
	orderID string
}

func (m *mockGateway) CreatePayment(_ context.Context, orderID string, _ decimal.Decimal, _ string) (*gateway.Session, error) {
	m.orderID = orderID
	return m.session, m.err
}

type mockStripe struct {
	amountMinor int64
	currency    string
	err         error
}

func (m *mockStripe) CreateIntent(_ context.Context, amountMinor int64, currency, _ string) (string, string, error) {
	m.amountMinor = amountMinor
	m.currency = currency
	if m.err != nil {
		return "", "", m.err
	}
	return "pi_123", "secret_123", nil
}

func (m *mockStripe) ParseWebhook(_ []byte, _ string) (*WebhookEvent, error) {
	return nil, nil
}

type mockPublisher struct {
	statusChanged []string
}

func (m *mockPublisher) OrderCreated(_ context.Context, _ *order.Order) error { return nil }

func (m *mockPublisher) OrderStatusChanged(_ context.Context, o *order.Order) error {
	m.statusChanged = append(m.statusChanged, o.ID)
	return nil
}

func testOrder(method order.PaymentMethod) *order.Order {
	return &order.Order{
		ID:            "o1",
		UserID:        "u1",
		TotalAmount:   d("230.50"),
		Currency:      "EGP",
		Status:        order.StatusPending,
		PaymentMethod: method,
		PaymentStatus: order.PaymentPending,
	}
}

func TestConfirmCashOnDelivery(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		orders := &mockOrderRepo{byID: map[string]*order.Order{"o1": testOrder(order.PaymentCashOnDelivery)}}
		svc := NewService(orders, nil, nil, nil)

		o, err := svc.ConfirmCashOnDelivery(context.Background(), "o1", "u1")
		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, o.Status)
	})

	t.Run("wrong method", func(t *testing.T) {
		orders := &mockOrderRepo{byID: map[string]*order.Order{"o1": testOrder(order.PaymentCard)}}
		svc := NewService(orders, nil, nil, nil)

		_, err := svc.ConfirmCashOnDelivery(context.Background(), "o1", "u1")
		require.ErrorIs(t, err, ErrWrongMethod)
	})

	t.Run("already paid", func(t *testing.T) {
		o := testOrder(order.PaymentCashOnDelivery)
		o.PaymentStatus = order.PaymentPaid
		orders := &mockOrderRepo{byID: map[string]*order.Order{"o1": o}}
		svc := NewService(orders, nil, nil, nil)

		_, err := svc.ConfirmCashOnDelivery(context.Background(), "o1", "u1")
		require.ErrorIs(t, err, ErrAlreadyPaid)
	})

	t.Run("foreign order", func(t *testing.T) {
		orders := &mockOrderRepo{byID: map[string]*order.Order{"o1": testOrder(order.PaymentCashOnDelivery)}}
		svc := NewService(orders, nil, nil, nil)

		_, err := svc.ConfirmCashOnDelivery(context.Background(), "o1", "intruder")
		require.ErrorIs(t, err, order.ErrNotFound)
	})
}

func TestCreateStripeIntent(t *testing.T) {
	orders := &mockOrderRepo{byID: map[string]*order.Order{"o1": testOrder(order.PaymentCard)}}
	stripe := &mockStripe{}
	svc := NewService(orders, nil, stripe, nil)

	intent, err := svc.CreateStripeIntent(context.Background(), "o1", "u1")
	require.NoError(t, err)

	assert.Equal(t, "pi_123", intent.IntentID)
	assert.Equal(t, "secret_123", intent.ClientSecret)
	// 230.50 EGP in minor units.
	assert.Equal(t, int64(23050), stripe.amountMinor)
	assert.Equal(t, "EGP", stripe.currency)
	assert.Equal(t, "pi_123", orders.updatedTxID)
	assert.Equal(t, order.PaymentPending, orders.updatedPS)
}

func TestCreateStripeIntent_WrongMethod(t *testing.T) {
	orders := &mockOrderRepo{byID: map[string]*order.Order{"o1": testOrder(order.PaymentGateway)}}
	svc := NewService(orders, nil, &mockStripe{}, nil)

	_, err := svc.CreateStripeIntent(context.Background(), "o1", "u1")
	require.ErrorIs(t, err, ErrWrongMethod)
	assert.Zero(t, orders.updates)
}

func TestCreateGatewaySession(t *testing.T) {
	orders := &mockOrderRepo{byID: map[string]*order.Order{"o1": testOrder(order.PaymentGateway)}}
	gw := &mockGateway{session: &gateway.Session{TransactionID: "tx_9", PaymentURL: "https://pay.example/tx_9"}}
	svc := NewService(orders, gw, nil, nil)

	session, err := svc.CreateGatewaySession(context.Background(), "o1", "u1")
	require.NoError(t, err)

	assert.Equal(t, "o1", gw.orderID)
	assert.Equal(t, "tx_9", session.TransactionID)
	assert.Equal(t, "tx_9", orders.updatedTxID)
}

func TestCreateGatewaySession_UpstreamFailure(t *testing.T) {
	orders := &mockOrderRepo{byID: map[string]*order.Order{"o1": testOrder(order.PaymentGateway)}}
	gw := &mockGateway{err: errors.New("gateway timeout")}
	svc := NewService(orders, gw, nil, nil)

	_, err := svc.CreateGatewaySession(context.Background(), "o1", "u1")
	// The raw upstream error stays in the logs; callers get the sentinel.
	require.ErrorIs(t, err, ErrSessionFailed)
	assert.Empty(t, orders.updatedTxID)
}

func TestHandleGatewayCallback(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		wantPS     order.PaymentStatus
		wantStatus order.Status
	}{
		{"success", "success", order.PaymentPaid, order.StatusPaid},
		{"paid alias", "paid", order.PaymentPaid, order.StatusPaid},
		{"declined", "declined", order.PaymentFailed, order.StatusFailed},
		{"anything else fails", "expired", order.PaymentFailed, order.StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testOrder(order.PaymentGateway)
			o.PaymentTransactionID = "tx_9"
			orders := &mockOrderRepo{byTxID: map[string]*order.Order{"tx_9": o}}
			pub := &mockPublisher{}
			svc := NewService(orders, nil, nil, pub)

			err := svc.HandleGatewayCallback(context.Background(), "tx_9", tt.status)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPS, orders.updatedPS)
			assert.Equal(t, tt.wantStatus, orders.updatedStatus)
			assert.Equal(t, []string{"o1"}, pub.statusChanged)
		})
	}
}

func TestHandleGatewayCallback_AlreadyPaid(t *testing.T) {
	o := testOrder(order.PaymentGateway)
	o.PaymentStatus = order.PaymentPaid
	orders := &mockOrderRepo{byTxID: map[string]*order.Order{"tx_9": o}}
	svc := NewService(orders, nil, nil, nil)

	err := svc.HandleGatewayCallback(context.Background(), "tx_9", "success")
	require.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Zero(t, orders.updates)
}

func TestHandleGatewayCallback_UnknownTransaction(t *testing.T) {
	svc := NewService(&mockOrderRepo{}, nil, nil, nil)

	err := svc.HandleGatewayCallback(context.Background(), "nope", "success")
	require.ErrorIs(t, err, order.ErrNotFound)
}

func TestSettleIntent(t *testing.T) {
	o := testOrder(order.PaymentCard)
	o.PaymentTransactionID = "pi_123"
	orders := &mockOrderRepo{byTxID: map[string]*order.Order{"pi_123": o}}
	svc := NewService(orders, nil, nil, nil)

	require.NoError(t, svc.SettleIntent(context.Background(), "pi_123", true))
	assert.Equal(t, order.PaymentPaid, orders.updatedPS)
	assert.Equal(t, order.StatusPaid, orders.updatedStatus)
}

func TestSettleIntent_Failed(t *testing.T) {
	o := testOrder(order.PaymentCard)
	o.PaymentTransactionID = "pi_123"
	orders := &mockOrderRepo{byTxID: map[string]*order.Order{"pi_123": o}}
	svc := NewService(orders, nil, nil, nil)

	require.NoError(t, svc.SettleIntent(context.Background(), "pi_123", false))
	assert.Equal(t, order.PaymentFailed, orders.updatedPS)
}
