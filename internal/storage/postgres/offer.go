package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zahrashop/backend/internal/domain/pricing"
)

const (
	offerColumns = `id, title, image, scope, product_id, category_id, sub_category_id,
	discount_type, value, start_date, end_date, is_active, created_at, updated_at`

	listActiveOffersSQL = `SELECT ` + offerColumns + ` FROM offers
	WHERE is_active AND start_date <= $1 AND end_date >= $1
	ORDER BY created_at`

	listOffersSQL = `SELECT ` + offerColumns + ` FROM offers ORDER BY created_at DESC`

	getOfferByIDSQL = `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	createOfferSQL = `INSERT INTO offers
	(id, title, image, scope, product_id, category_id, sub_category_id, discount_type, value, start_date, end_date, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	updateOfferSQL = `UPDATE offers SET
	title = $2, image = $3, scope = $4, product_id = $5, category_id = $6, sub_category_id = $7,
	discount_type = $8, value = $9, start_date = $10, end_date = $11, is_active = $12, updated_at = now()
	WHERE id = $1`

	deleteOfferSQL = `DELETE FROM offers WHERE id = $1`
)

var _ pricing.Repository = (*OfferRepository)(nil)

// OfferRepository implements pricing.Repository backed by PostgreSQL.
type OfferRepository struct {
	pool *pgxpool.Pool
}

// NewOfferRepository returns an OfferRepository that uses the given pool.
func NewOfferRepository(pool *pgxpool.Pool) *OfferRepository {
	return &OfferRepository{pool: pool}
}

// ListActive returns offers whose validity window contains now.
func (r *OfferRepository) ListActive(ctx context.Context, now time.Time) ([]pricing.Offer, error) {
	rows, err := r.pool.Query(ctx, listActiveOffersSQL, now)
	if err != nil {
		return nil, fmt.Errorf("listing active offers: %w", err)
	}
	return pgx.CollectRows(rows, scanOffer)
}

// List returns every offer, newest first.
func (r *OfferRepository) List(ctx context.Context) ([]pricing.Offer, error) {
	rows, err := r.pool.Query(ctx, listOffersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	return pgx.CollectRows(rows, scanOffer)
}

// GetByID returns a single offer by its identifier.
func (r *OfferRepository) GetByID(ctx context.Context, id string) (*pricing.Offer, error) {
	rows, err := r.pool.Query(ctx, getOfferByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting offer %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOffer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pricing.ErrNotFound
		}
		return nil, fmt.Errorf("getting offer %q: %w", id, err)
	}
	return &o, nil
}

// Create persists a new offer.
func (r *OfferRepository) Create(ctx context.Context, o *pricing.Offer) error {
	_, err := r.pool.Exec(ctx, createOfferSQL,
		o.ID, o.Title, o.Image, string(o.Scope),
		nullable(o.ProductID), nullable(o.CategoryID), nullable(o.SubCategoryID),
		string(o.Type), o.Value, o.StartDate, o.EndDate, o.IsActive,
	)
	if err != nil {
		return fmt.Errorf("creating offer %q: %w", o.ID, err)
	}
	return nil
}

// Update rewrites the offer row.
func (r *OfferRepository) Update(ctx context.Context, o *pricing.Offer) error {
	tag, err := r.pool.Exec(ctx, updateOfferSQL,
		o.ID, o.Title, o.Image, string(o.Scope),
		nullable(o.ProductID), nullable(o.CategoryID), nullable(o.SubCategoryID),
		string(o.Type), o.Value, o.StartDate, o.EndDate, o.IsActive,
	)
	if err != nil {
		return fmt.Errorf("updating offer %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return pricing.ErrNotFound
	}
	return nil
}

// Delete removes the offer row.
func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteOfferSQL, id)
	if err != nil {
		return fmt.Errorf("deleting offer %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pricing.ErrNotFound
	}
	return nil
}

func scanOffer(row pgx.CollectableRow) (pricing.Offer, error) {
	var (
		o             pricing.Offer
		scope         string
		discountType  string
		productID     *string
		categoryID    *string
		subCategoryID *string
	)
	err := row.Scan(
		&o.ID, &o.Title, &o.Image, &scope, &productID, &categoryID, &subCategoryID,
		&discountType, &o.Value, &o.StartDate, &o.EndDate, &o.IsActive,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return o, err
	}

	o.Scope = pricing.Scope(scope)
	o.Type = pricing.DiscountType(discountType)
	if productID != nil {
		o.ProductID = *productID
	}
	if categoryID != nil {
		o.CategoryID = *categoryID
	}
	if subCategoryID != nil {
		o.SubCategoryID = *subCategoryID
	}
	return o, nil
}
