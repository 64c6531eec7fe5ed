// Package order implements checkout and the order lifecycle: frozen line-item
// snapshots, the status machine, shipping costs, and order events.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/zahrashop/backend/internal/i18n"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// ProductNotFoundError indicates a cart line references a product that no
// longer exists. At checkout this aborts the whole order.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidTransitionError indicates a disallowed status change.
type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// Status is the order lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFailed    Status = "failed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCanceled  Status = "canceled"
)

// transitions is the allowed status machine. Delivered and canceled are
// terminal.
var transitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusFailed, StatusCanceled},
	StatusPaid:    {StatusShipped, StatusCanceled},
	StatusFailed:  {StatusCanceled},
	StatusShipped: {StatusDelivered, StatusCanceled},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed, StatusShipped, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

// CanTransition reports whether the status machine allows moving from s to
// next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethod enumerates how an order is paid.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentCard           PaymentMethod = "card"
	PaymentGateway        PaymentMethod = "gateway"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCashOnDelivery, PaymentCard, PaymentGateway:
		return true
	}
	return false
}

// PaymentStatus tracks the payment state independently of fulfilment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// ShippingType selects a flat shipping rate.
type ShippingType string

const (
	ShippingNormal  ShippingType = "normal"
	ShippingExpress ShippingType = "express"
)

// Valid reports whether t is a known shipping type.
func (t ShippingType) Valid() bool {
	return t == ShippingNormal || t == ShippingExpress
}

// Rates maps shipping types to flat costs. Shipping is never computed from
// weight or distance.
type Rates map[ShippingType]decimal.Decimal

// DefaultRates returns the standard flat shipping costs in EGP.
func DefaultRates() Rates {
	return Rates{
		ShippingNormal:  decimal.NewFromInt(50),
		ShippingExpress: decimal.NewFromInt(100),
	}
}

// Cost returns the flat cost for a shipping type; unknown types cost the
// normal rate.
func (r Rates) Cost(t ShippingType) decimal.Decimal {
	if c, ok := r[t]; ok {
		return c
	}
	return r[ShippingNormal]
}

// Address is the delivery destination captured at checkout.
type Address struct {
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone"`
	Street      string `json:"street"`
	City        string `json:"city"`
	Governorate string `json:"governorate,omitempty"`
	Country     string `json:"country"`
	Notes       string `json:"notes,omitempty"`
}

// Item is a frozen snapshot of a product at order time. Later product edits
// never affect persisted orders.
type Item struct {
	ProductID   string          `json:"productId"`
	Name        i18n.Text       `json:"name"`
	Description i18n.Text       `json:"description"`
	Images      []string        `json:"images"`
	Price       decimal.Decimal `json:"price"`
	FinalPrice  decimal.Decimal `json:"finalPrice"`
	Currency    string          `json:"currency"`
	SizeID      string          `json:"sizeId"`
	Size        string          `json:"size"`
	ColorID     string          `json:"colorId"`
	Color       string          `json:"color"`
	Quantity    int             `json:"quantity"`
}

// Order is a placed customer order. Items are immutable once persisted.
type Order struct {
	ID                   string
	UserID               string
	Items                []Item
	Subtotal             decimal.Decimal
	ShippingCost         decimal.Decimal
	TotalAmount          decimal.Decimal
	Currency             string
	Status               Status
	PaymentMethod        PaymentMethod
	PaymentStatus        PaymentStatus
	PaymentTransactionID string
	ShippingAddress      Address
	ShippingType         ShippingType
	Notes                string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	// GetByUser returns the order only when it belongs to userID.
	GetByUser(ctx context.Context, id, userID string) (*Order, error)
	GetByTransactionID(ctx context.Context, txID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	// UpdatePayment records the outcome of a payment attempt.
	UpdatePayment(ctx context.Context, id string, ps PaymentStatus, status Status, txID string) error
}

// EventPublisher emits order lifecycle events to downstream consumers.
type EventPublisher interface {
	OrderCreated(ctx context.Context, o *Order) error
	OrderStatusChanged(ctx context.Context, o *Order) error
}
