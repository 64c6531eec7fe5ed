package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zahrashop/backend/internal/domain/user"
)

const (
	userColumns = `id, name, email, phone, role, is_active, created_at, updated_at`

	getUserByIDSQL    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	getUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	// COALESCE keeps columns whose update field arrived as NULL.
	updateProfileSQL = `UPDATE users
	SET name = COALESCE($2, name), phone = COALESCE($3, phone), updated_at = now()
	WHERE id = $1
	RETURNING ` + userColumns

	wishlistContainsSQL = `SELECT EXISTS (
	SELECT 1 FROM wishlist_items WHERE user_id = $1 AND product_id = $2)`

	wishlistListSQL = `SELECT product_id FROM wishlist_items
	WHERE user_id = $1 ORDER BY created_at DESC`

	wishlistAddSQL = `INSERT INTO wishlist_items (user_id, product_id)
	VALUES ($1, $2) ON CONFLICT DO NOTHING`

	wishlistRemoveSQL = `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`
)

var (
	_ user.Repository         = (*UserRepository)(nil)
	_ user.WishlistRepository = (*WishlistRepository)(nil)
)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID returns a single user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getOne(ctx, getUserByIDSQL, id)
}

// GetByEmail returns a single user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, getUserByEmailSQL, email)
}

// UpdateProfile applies the non-nil fields and returns the updated row.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, upd user.ProfileUpdate) (*user.User, error) {
	rows, err := r.pool.Query(ctx, updateProfileSQL, id, upd.Name, upd.Phone)
	if err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &u, nil
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// WishlistRepository implements user.WishlistRepository backed by PostgreSQL.
type WishlistRepository struct {
	pool *pgxpool.Pool
}

// NewWishlistRepository returns a WishlistRepository that uses the given pool.
func NewWishlistRepository(pool *pgxpool.Pool) *WishlistRepository {
	return &WishlistRepository{pool: pool}
}

// Contains reports whether productID is in the user's wishlist.
func (r *WishlistRepository) Contains(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, wishlistContainsSQL, userID, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking wishlist: %w", err)
	}
	return exists, nil
}

// ListProductIDs returns the wishlisted product IDs, newest first.
func (r *WishlistRepository) ListProductIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, wishlistListSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing wishlist: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	})
}

// Add inserts a product into the wishlist. Idempotent.
func (r *WishlistRepository) Add(ctx context.Context, userID, productID string) error {
	_, err := r.pool.Exec(ctx, wishlistAddSQL, userID, productID)
	if err != nil {
		return fmt.Errorf("adding wishlist item: %w", err)
	}
	return nil
}

// Remove deletes a product from the wishlist. Idempotent.
func (r *WishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.pool.Exec(ctx, wishlistRemoveSQL, userID, productID)
	if err != nil {
		return fmt.Errorf("removing wishlist item: %w", err)
	}
	return nil
}
