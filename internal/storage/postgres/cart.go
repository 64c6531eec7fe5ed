package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zahrashop/backend/internal/domain/cart"
)

const (
	// ensureCartSQL creates the user's cart row on first touch.
	ensureCartSQL = `INSERT INTO carts (user_id) VALUES ($1)
	ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
	RETURNING id, updated_at`

	listCartItemsSQL = `SELECT product_id, size_id, color_id, quantity
	FROM cart_items WHERE cart_id = $1`

	// upsertCartItemSQL accumulates quantity on conflict so concurrent adds
	// for the same line never lose updates.
	upsertCartItemSQL = `INSERT INTO cart_items (cart_id, product_id, size_id, color_id, quantity)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (cart_id, product_id, size_id, color_id)
	DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

	setCartItemQuantitySQL = `UPDATE cart_items SET quantity = $5
	WHERE cart_id = $1 AND product_id = $2 AND size_id = $3 AND color_id = $4`

	removeCartItemSQL = `DELETE FROM cart_items
	WHERE cart_id = $1 AND product_id = $2 AND size_id = $3 AND color_id = $4`

	clearCartSQL = `DELETE FROM cart_items
	WHERE cart_id = (SELECT id FROM carts WHERE user_id = $1)`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// GetByUser returns the user's cart, creating an empty one when absent.
func (r *CartRepository) GetByUser(ctx context.Context, userID string) (*cart.Cart, error) {
	c := &cart.Cart{UserID: userID}
	err := r.pool.QueryRow(ctx, ensureCartSQL, userID).Scan(&c.ID, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("ensuring cart for user %q: %w", userID, err)
	}

	rows, err := r.pool.Query(ctx, listCartItemsSQL, c.ID)
	if err != nil {
		return nil, fmt.Errorf("listing cart items: %w", err)
	}
	c.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (cart.Item, error) {
		var item cart.Item
		err := row.Scan(&item.ProductID, &item.SizeID, &item.ColorID, &item.Quantity)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning cart items: %w", err)
	}
	return c, nil
}

// AddItem upserts a line, accumulating quantity for an existing
// (product, size, color) key.
func (r *CartRepository) AddItem(ctx context.Context, userID string, item cart.Item) error {
	cartID, err := r.ensureCart(ctx, userID)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, upsertCartItemSQL,
		cartID, item.ProductID, item.SizeID, item.ColorID, item.Quantity)
	if err != nil {
		return fmt.Errorf("upserting cart item: %w", err)
	}
	return nil
}

// SetQuantity replaces the quantity of an existing line.
func (r *CartRepository) SetQuantity(ctx context.Context, userID string, item cart.Item) error {
	cartID, err := r.ensureCart(ctx, userID)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, setCartItemQuantitySQL,
		cartID, item.ProductID, item.SizeID, item.ColorID, item.Quantity)
	if err != nil {
		return fmt.Errorf("setting cart item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// RemoveItem deletes a line.
func (r *CartRepository) RemoveItem(ctx context.Context, userID, productID, sizeID, colorID string) error {
	cartID, err := r.ensureCart(ctx, userID)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, removeCartItemSQL, cartID, productID, sizeID, colorID)
	if err != nil {
		return fmt.Errorf("removing cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// Clear removes every line from the user's cart.
func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, clearCartSQL, userID)
	if err != nil {
		return fmt.Errorf("clearing cart for user %q: %w", userID, err)
	}
	return nil
}

func (r *CartRepository) ensureCart(ctx context.Context, userID string) (string, error) {
	var (
		id        string
		updatedAt time.Time
	)
	err := r.pool.QueryRow(ctx, ensureCartSQL, userID).Scan(&id, &updatedAt)
	if err != nil {
		return "", fmt.Errorf("ensuring cart for user %q: %w", userID, err)
	}
	return id, nil
}
