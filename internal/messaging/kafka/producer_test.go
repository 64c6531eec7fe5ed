package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zahrashop/backend/internal/domain/order"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testProducer(t *testing.T) (*Producer, *mocks.SyncProducer) {
	t.Helper()
	mock := mocks.NewSyncProducer(t, nil)
	return &Producer{
		producer: mock,
		topic:    DefaultTopic,
		lg:       zap.NewNop(),
		now:      func() time.Time { return testNow },
	}, mock
}

func testOrder() *order.Order {
	return &order.Order{
		ID:            "o1",
		UserID:        "u1",
		TotalAmount:   decimal.RequireFromString("230"),
		Currency:      "EGP",
		Status:        order.StatusPending,
		PaymentStatus: order.PaymentPending,
	}
}

func TestOrderCreated(t *testing.T) {
	p, mock := testProducer(t)

	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(raw []byte) error {
		d := jx.DecodeBytes(raw)
		fields := map[string]string{}
		err := d.Obj(func(d *jx.Decoder, key string) error {
			v, err := d.Str()
			fields[key] = v
			return err
		})
		require.NoError(t, err)

		assert.Equal(t, EventOrderCreated, fields["type"])
		assert.Equal(t, "o1", fields["orderId"])
		assert.Equal(t, "pending", fields["status"])
		assert.Equal(t, "230", fields["total"])
		assert.Equal(t, "EGP", fields["currency"])
		return nil
	})

	require.NoError(t, p.OrderCreated(context.Background(), testOrder()))
	require.NoError(t, mock.Close())
}

func TestOrderStatusChanged_BrokerError(t *testing.T) {
	p, mock := testProducer(t)
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := p.OrderStatusChanged(context.Background(), testOrder())
	require.Error(t, err)
	require.NoError(t, mock.Close())
}
