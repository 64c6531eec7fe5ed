// Package user holds account data and the per-user wishlist.
package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Roles recognized by the authorization middleware.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrNotFound = errors.New("user not found")

// User is an account. Credentials and session issuance live outside this
// service; only the identity and role are consumed here.
type User struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Role      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileUpdate carries the fields a user may change on their own account.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name  *string
	Phone *string
}

// IsZero reports whether the update changes nothing.
func (u ProfileUpdate) IsZero() bool {
	return u.Name == nil && u.Phone == nil
}

// Repository defines persistence operations for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// UpdateProfile applies the non-nil fields and returns the updated user.
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error)
}

// WishlistRepository stores the set of products a user has favourited.
type WishlistRepository interface {
	// Contains reports whether productID is in the user's wishlist.
	Contains(ctx context.Context, userID, productID string) (bool, error)
	// ListProductIDs returns the wishlisted product IDs, newest first.
	ListProductIDs(ctx context.Context, userID string) ([]string, error)
	// Add inserts a product into the wishlist. Idempotent.
	Add(ctx context.Context, userID, productID string) error
	// Remove deletes a product from the wishlist. Idempotent.
	Remove(ctx context.Context, userID, productID string) error
}
