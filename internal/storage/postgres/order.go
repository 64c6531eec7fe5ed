package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zahrashop/backend/internal/domain/order"
)

const (
	orderColumns = `id, user_id, items, subtotal, shipping_cost, total, currency,
	status, payment_method, payment_status, payment_transaction_id,
	shipping_address, shipping_type, notes, created_at, updated_at`

	createOrderSQL = `INSERT INTO orders
	(id, user_id, items, subtotal, shipping_cost, total, currency, status, payment_method, payment_status, payment_transaction_id, shipping_address, shipping_type, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	getOrderByIDSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	getOrderByUserSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`

	getOrderByTransactionSQL = `SELECT ` + orderColumns + ` FROM orders
	WHERE payment_transaction_id = $1 AND payment_transaction_id <> ''`

	listOrdersByUserSQL = `SELECT ` + orderColumns + ` FROM orders
	WHERE user_id = $1 ORDER BY created_at DESC`

	listAllOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	updateOrderStatusSQL = `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`

	updateOrderPaymentSQL = `UPDATE orders SET
	payment_status = $2, status = $3, payment_transaction_id = $4, updated_at = now()
	WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Order
// items are an immutable snapshot stored in a JSONB column.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order with its item snapshot.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.UserID, o.Items, o.Subtotal, o.ShippingCost, o.TotalAmount,
		o.Currency, string(o.Status), string(o.PaymentMethod), string(o.PaymentStatus),
		o.PaymentTransactionID, o.ShippingAddress, string(o.ShippingType), o.Notes,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	return r.getOne(ctx, getOrderByIDSQL, id)
}

// GetByUser returns the order only when it belongs to userID.
func (r *OrderRepository) GetByUser(ctx context.Context, id, userID string) (*order.Order, error) {
	return r.getOne(ctx, getOrderByUserSQL, id, userID)
}

// GetByTransactionID finds the order a payment callback refers to.
func (r *OrderRepository) GetByTransactionID(ctx context.Context, txID string) (*order.Order, error) {
	return r.getOne(ctx, getOrderByTransactionSQL, txID)
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListAll returns every order, newest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listAllOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// UpdateStatus moves the order to a new lifecycle status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, string(status))
	if err != nil {
		return fmt.Errorf("updating status of order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// UpdatePayment records the outcome of a payment attempt.
func (r *OrderRepository) UpdatePayment(ctx context.Context, id string, ps order.PaymentStatus, status order.Status, txID string) error {
	tag, err := r.pool.Exec(ctx, updateOrderPaymentSQL, id, string(ps), string(status), txID)
	if err != nil {
		return fmt.Errorf("updating payment of order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) getOne(ctx context.Context, query string, args ...any) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order: %w", err)
	}
	return &o, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o             order.Order
		status        string
		method        string
		paymentStatus string
		shippingType  string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.Items, &o.Subtotal, &o.ShippingCost, &o.TotalAmount,
		&o.Currency, &status, &method, &paymentStatus, &o.PaymentTransactionID,
		&o.ShippingAddress, &shippingType, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return o, err
	}

	o.Status = order.Status(status)
	o.PaymentMethod = order.PaymentMethod(method)
	o.PaymentStatus = order.PaymentStatus(paymentStatus)
	o.ShippingType = order.ShippingType(shippingType)
	return o, nil
}
