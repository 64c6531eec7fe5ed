package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrAddressNotFound is returned when an address does not exist or belongs
// to a different user.
var ErrAddressNotFound = errors.New("address not found")

// Address is one entry in a user's saved address book. Orders snapshot their
// shipping address separately, so editing or deleting a saved address never
// touches past orders.
type Address struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Street      string    `json:"street"`
	City        string    `json:"city"`
	Governorate string    `json:"governorate"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AddressRepository stores each user's address book. Every operation is
// scoped by user so one account can never read or modify another's entries.
type AddressRepository interface {
	ListByUser(ctx context.Context, userID string) ([]Address, error)
	GetByUser(ctx context.Context, id, userID string) (*Address, error)
	Create(ctx context.Context, a *Address) error
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id, userID string) error
}
