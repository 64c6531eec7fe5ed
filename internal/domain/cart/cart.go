// Package cart implements the per-user shopping cart: atomic line mutations
// and the priced, localized cart view.
package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/zahrashop/backend/internal/domain/catalog"
)

// Sentinel errors for cart operations.
var (
	ErrItemNotFound = errors.New("cart item not found")
	ErrEmpty        = errors.New("cart is empty")
)

// Item is one cart line: a product in a specific size/color combination.
type Item struct {
	ProductID string
	SizeID    string
	ColorID   string
	Quantity  int
}

// Cart is the persistent per-user cart.
type Cart struct {
	ID        string
	UserID    string
	Items     []Item
	UpdatedAt time.Time
}

// Repository defines persistence operations for carts. Mutations are atomic
// per line: concurrent adds for the same (product, size, color) accumulate
// instead of overwriting each other.
type Repository interface {
	// GetByUser returns the user's cart, creating an empty one when absent.
	GetByUser(ctx context.Context, userID string) (*Cart, error)
	// AddItem upserts a line, adding quantity to any existing line with the
	// same (productID, sizeID, colorID) key.
	AddItem(ctx context.Context, userID string, item Item) error
	// SetQuantity replaces the quantity of an existing line. Returns
	// ErrItemNotFound when the line does not exist.
	SetQuantity(ctx context.Context, userID string, item Item) error
	// RemoveItem deletes a line. Returns ErrItemNotFound when absent.
	RemoveItem(ctx context.Context, userID, productID, sizeID, colorID string) error
	// Clear removes every line from the user's cart.
	Clear(ctx context.Context, userID string) error
}

// PricedItem is a cart line with its resolved product view and line total.
type PricedItem struct {
	ProductID string                   `json:"productId"`
	Product   catalog.FormattedProduct `json:"product"`
	SizeID    string                   `json:"sizeId"`
	Size      string                   `json:"size"`
	ColorID   string                   `json:"colorId"`
	Color     string                   `json:"color"`
	Quantity  int                      `json:"quantity"`
	UnitPrice decimal.Decimal          `json:"unitPrice"`
	Subtotal  decimal.Decimal          `json:"subtotal"`
}

// PricedCart is the discount-applied cart view.
type PricedCart struct {
	Items    []PricedItem    `json:"items"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}
