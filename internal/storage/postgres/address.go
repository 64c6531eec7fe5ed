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
	addressColumns = `id, user_id, name, phone, street, city, governorate, notes, created_at, updated_at`

	listAddressesSQL = `SELECT ` + addressColumns + ` FROM addresses
	WHERE user_id = $1 ORDER BY created_at DESC`

	getAddressSQL = `SELECT ` + addressColumns + ` FROM addresses
	WHERE id = $1 AND user_id = $2`

	createAddressSQL = `INSERT INTO addresses
	(id, user_id, name, phone, street, city, governorate, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateAddressSQL = `UPDATE addresses
	SET name = $3, phone = $4, street = $5, city = $6, governorate = $7,
	    notes = $8, updated_at = now()
	WHERE id = $1 AND user_id = $2`

	deleteAddressSQL = `DELETE FROM addresses WHERE id = $1 AND user_id = $2`
)

var _ user.AddressRepository = (*AddressRepository)(nil)

// AddressRepository implements user.AddressRepository backed by PostgreSQL.
// Every statement filters by user_id so ownership is enforced in SQL.
type AddressRepository struct {
	pool *pgxpool.Pool
}

// NewAddressRepository returns an AddressRepository that uses the given pool.
func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

// ListByUser returns the user's saved addresses, newest first.
func (r *AddressRepository) ListByUser(ctx context.Context, userID string) ([]user.Address, error) {
	rows, err := r.pool.Query(ctx, listAddressesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing addresses: %w", err)
	}
	return pgx.CollectRows(rows, scanAddress)
}

// GetByUser returns one address scoped to its owner.
func (r *AddressRepository) GetByUser(ctx context.Context, id, userID string) (*user.Address, error) {
	rows, err := r.pool.Query(ctx, getAddressSQL, id, userID)
	if err != nil {
		return nil, fmt.Errorf("getting address %q: %w", id, err)
	}

	a, err := pgx.CollectExactlyOneRow(rows, scanAddress)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrAddressNotFound
		}
		return nil, fmt.Errorf("getting address %q: %w", id, err)
	}
	return &a, nil
}

// Create persists a new address.
func (r *AddressRepository) Create(ctx context.Context, a *user.Address) error {
	_, err := r.pool.Exec(ctx, createAddressSQL,
		a.ID, a.UserID, a.Name, a.Phone, a.Street, a.City, a.Governorate, a.Notes)
	if err != nil {
		return fmt.Errorf("creating address %q: %w", a.ID, err)
	}
	return nil
}

// Update rewrites the address row scoped to its owner.
func (r *AddressRepository) Update(ctx context.Context, a *user.Address) error {
	tag, err := r.pool.Exec(ctx, updateAddressSQL,
		a.ID, a.UserID, a.Name, a.Phone, a.Street, a.City, a.Governorate, a.Notes)
	if err != nil {
		return fmt.Errorf("updating address %q: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrAddressNotFound
	}
	return nil
}

// Delete removes the address row scoped to its owner.
func (r *AddressRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, deleteAddressSQL, id, userID)
	if err != nil {
		return fmt.Errorf("deleting address %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrAddressNotFound
	}
	return nil
}

func scanAddress(row pgx.CollectableRow) (user.Address, error) {
	var a user.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Phone, &a.Street, &a.City,
		&a.Governorate, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
