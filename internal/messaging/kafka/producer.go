// Package kafka publishes order lifecycle events to the message broker.
package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/zap"

	"github.com/zahrashop/backend/internal/domain/order"
)

// DefaultTopic is where order events land unless configured otherwise.
const DefaultTopic = "zahra.order.events"

// Event kinds carried in the envelope.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// Envelope is the wire format of an order event. Orders are keyed by ID so
// one order's events stay in partition order.
type Envelope struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	Total         string    `json:"total"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Producer publishes order events over a synchronous Kafka producer. It
// implements order.EventPublisher.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	lg       *zap.Logger
	now      func() time.Time
}

var _ order.EventPublisher = (*Producer)(nil)

// NewProducer connects an idempotent, all-acks sync producer to brokers.
func NewProducer(brokers []string, topic string, lg *zap.Logger) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create kafka producer")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	return &Producer{
		producer: producer,
		topic:    topic,
		lg:       lg.Named("kafka"),
		now:      time.Now,
	}, nil
}

func (p *Producer) OrderCreated(ctx context.Context, o *order.Order) error {
	return p.publish(ctx, EventOrderCreated, o)
}

func (p *Producer) OrderStatusChanged(ctx context.Context, o *order.Order) error {
	return p.publish(ctx, EventOrderStatusChanged, o)
}

func (p *Producer) publish(_ context.Context, kind string, o *order.Order) error {
	env := Envelope{
		Type:          kind,
		OrderID:       o.ID,
		UserID:        o.UserID,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		Total:         o.TotalAmount.String(),
		Currency:      o.Currency,
		OccurredAt:    p.now(),
	}

	var e jx.Encoder
	encodeEnvelope(&e, env)

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(o.ID),
		Value:     sarama.ByteEncoder(e.Bytes()),
		Timestamp: env.OccurredAt,
	})
	if err != nil {
		return errors.Wrap(err, "send order event")
	}

	p.lg.Debug("order event published",
		zap.String("type", kind),
		zap.String("order_id", o.ID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

func encodeEnvelope(e *jx.Encoder, env Envelope) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("type", func(e *jx.Encoder) { e.Str(env.Type) })
		e.Field("orderId", func(e *jx.Encoder) { e.Str(env.OrderID) })
		e.Field("userId", func(e *jx.Encoder) { e.Str(env.UserID) })
		e.Field("status", func(e *jx.Encoder) { e.Str(env.Status) })
		e.Field("paymentStatus", func(e *jx.Encoder) { e.Str(env.PaymentStatus) })
		e.Field("total", func(e *jx.Encoder) { e.Str(env.Total) })
		e.Field("currency", func(e *jx.Encoder) { e.Str(env.Currency) })
		e.Field("occurredAt", func(e *jx.Encoder) { e.Str(env.OccurredAt.Format(time.RFC3339Nano)) })
	})
}

// Close flushes and closes the underlying producer.
func (p *Producer) Close() error {
	return errors.Wrap(p.producer.Close(), "close kafka producer")
}
