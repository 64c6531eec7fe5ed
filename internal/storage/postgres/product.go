package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zahrashop/backend/internal/domain/catalog"
	"github.com/zahrashop/backend/internal/i18n"
)

// selectProductSQL pulls the product row together with its reference data as
// JSONB sub-documents, so one query yields a fully populated product.
const selectProductSQL = `SELECT p.id, p.name, p.description, p.images, p.price, p.currency,
	(SELECT COALESCE(jsonb_agg(jsonb_build_object('id', s.id, 'name', s.name, 'isActive', s.is_active) ORDER BY s.name), '[]'::jsonb)
		FROM sizes s WHERE s.id = ANY(p.size_ids)) AS sizes,
	(SELECT COALESCE(jsonb_agg(jsonb_build_object('id', c.id, 'name', c.name, 'hexCode', c.hex_code, 'isActive', c.is_active) ORDER BY c.name), '[]'::jsonb)
		FROM colors c WHERE c.id = ANY(p.color_ids)) AS colors,
	p.category_id,
	(SELECT jsonb_build_object('id', cat.id, 'name', cat.name, 'image', cat.image, 'isActive', cat.is_active)
		FROM categories cat WHERE cat.id = p.category_id) AS category,
	p.sub_category_id,
	(SELECT jsonb_build_object('id', sc.id, 'name', sc.name, 'categoryId', sc.category_id, 'image', sc.image, 'isActive', sc.is_active)
		FROM sub_categories sc WHERE sc.id = p.sub_category_id) AS sub_category,
	p.variants, p.kind, p.views, p.is_active, p.created_at, p.updated_at
	FROM products p`

const (
	createProductSQL = `INSERT INTO products
	(id, name, description, images, price, currency, size_ids, color_ids, category_id, sub_category_id, variants, kind, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	updateProductSQL = `UPDATE products SET
	name = $2, description = $3, images = $4, price = $5, currency = $6,
	size_ids = $7, color_ids = $8, category_id = $9, sub_category_id = $10,
	variants = $11, kind = $12, is_active = $13, updated_at = now()
	WHERE id = $1`

	upsertProductSQL = createProductSQL + ` ON CONFLICT (id) DO NOTHING`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	popularProductsSQL = selectProductSQL + `
	WHERE p.is_active AND (p.kind = 'popular' OR p.views > 0)
	ORDER BY p.views DESC, p.created_at DESC LIMIT $1`

	purchasedCategoryProductsSQL = selectProductSQL + `
	WHERE p.is_active AND p.category_id IN (
		SELECT DISTINCT bought.category_id FROM orders o
		CROSS JOIN LATERAL jsonb_array_elements(o.items) AS item
		JOIN products bought ON bought.id = (item->>'productId')::uuid
		WHERE o.user_id = $1 AND bought.category_id IS NOT NULL
	)
	ORDER BY p.created_at DESC LIMIT $2`

	recommendedKindProductsSQL = selectProductSQL + `
	WHERE p.is_active AND p.kind = 'recommended'
	ORDER BY p.created_at DESC LIMIT $1`

	newestProductsSQL = selectProductSQL + `
	WHERE p.is_active ORDER BY p.created_at DESC LIMIT $1`
)

var _ catalog.Repository = (*ProductRepository)(nil)

// ProductRepository implements catalog.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns products matching the filter, newest first.
func (r *ProductRepository) List(ctx context.Context, f catalog.Filter) ([]catalog.Product, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ActiveOnly {
		conds = append(conds, "p.is_active")
	}
	if f.CategoryID != "" {
		conds = append(conds, "p.category_id = "+arg(f.CategoryID))
	}
	if f.SubCategoryID != "" {
		conds = append(conds, "p.sub_category_id = "+arg(f.SubCategoryID))
	}
	if len(f.SizeIDs) > 0 {
		conds = append(conds, "p.size_ids && "+arg(f.SizeIDs))
	}
	if len(f.ColorIDs) > 0 {
		conds = append(conds, "p.color_ids && "+arg(f.ColorIDs))
	}
	if f.MinPrice != nil {
		conds = append(conds, "p.price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, "p.price <= "+arg(*f.MaxPrice))
	}
	if f.Kind != "" {
		conds = append(conds, "p.kind = "+arg(string(f.Kind)))
	}

	query := selectProductSQL
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY p.created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, selectProductSQL+" WHERE p.id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, selectProductSQL+" WHERE p.id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Create persists a new product. Sizes and colors are stored as ID arrays;
// names resolve from the reference tables at read time.
func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	_, err := r.pool.Exec(ctx, createProductSQL,
		p.ID, p.Name, p.Description, p.Images, p.Price, p.Currency,
		sizeIDs(p.Sizes), colorIDs(p.Colors),
		nullable(p.CategoryID), nullable(p.SubCategoryID),
		p.Variants, string(p.Kind), p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("creating product %q: %w", p.ID, err)
	}
	return nil
}

// Upsert inserts the product and keeps the existing row when the ID is
// already taken, so re-running an import is harmless. It reports whether a
// row was actually written.
func (r *ProductRepository) Upsert(ctx context.Context, p *catalog.Product) (bool, error) {
	tag, err := r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name, p.Description, p.Images, p.Price, p.Currency,
		sizeIDs(p.Sizes), colorIDs(p.Colors),
		nullable(p.CategoryID), nullable(p.SubCategoryID),
		p.Variants, string(p.Kind), p.IsActive,
	)
	if err != nil {
		return false, fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Update rewrites the product row.
func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Name, p.Description, p.Images, p.Price, p.Currency,
		sizeIDs(p.Sizes), colorIDs(p.Colors),
		nullable(p.CategoryID), nullable(p.SubCategoryID),
		p.Variants, string(p.Kind), p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("updating product %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Delete removes the product row.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Popular returns active products flagged popular or viewed, by views then
// recency.
func (r *ProductRepository) Popular(ctx context.Context, limit int) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, popularProductsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("listing popular products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Recommended returns products from the categories the user has bought
// from, falling back to flagged-recommended, then to the newest products.
func (r *ProductRepository) Recommended(ctx context.Context, userID string, limit int) ([]catalog.Product, error) {
	if userID != "" {
		rows, err := r.pool.Query(ctx, purchasedCategoryProductsSQL, userID, limit)
		if err != nil {
			return nil, fmt.Errorf("listing history recommendations: %w", err)
		}
		products, err := pgx.CollectRows(rows, scanProduct)
		if err != nil || len(products) > 0 {
			return products, err
		}
	}

	rows, err := r.pool.Query(ctx, recommendedKindProductsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recommended products: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil || len(products) > 0 {
		return products, err
	}

	rows, err = r.pool.Query(ctx, newestProductsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("listing newest products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// IncrementViews bumps the product view counter feeding the popular feed.
func (r *ProductRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE products SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("incrementing views for %q: %w", id, err)
	}
	return nil
}

type sizeDoc struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

type colorDoc struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	HexCode  string `json:"hexCode"`
	IsActive bool   `json:"isActive"`
}

type categoryDoc struct {
	ID       string    `json:"id"`
	Name     i18n.Text `json:"name"`
	Image    string    `json:"image"`
	IsActive bool      `json:"isActive"`
}

type subCategoryDoc struct {
	ID         string    `json:"id"`
	Name       i18n.Text `json:"name"`
	CategoryID string    `json:"categoryId"`
	Image      string    `json:"image"`
	IsActive   bool      `json:"isActive"`
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var (
		p             catalog.Product
		sizes         []sizeDoc
		colors        []colorDoc
		categoryID    *string
		category      *categoryDoc
		subCategoryID *string
		subCategory   *subCategoryDoc
		kind          string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Images, &p.Price, &p.Currency,
		&sizes, &colors,
		&categoryID, &category, &subCategoryID, &subCategory,
		&p.Variants, &kind, &p.Views, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}

	p.Kind = catalog.Kind(kind)
	for _, s := range sizes {
		p.Sizes = append(p.Sizes, catalog.Size{ID: s.ID, Name: s.Name, IsActive: s.IsActive})
	}
	for _, c := range colors {
		p.Colors = append(p.Colors, catalog.Color{ID: c.ID, Name: c.Name, HexCode: c.HexCode, IsActive: c.IsActive})
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	if category != nil {
		p.Category = &catalog.Category{
			ID: category.ID, Name: category.Name, Image: category.Image, IsActive: category.IsActive,
		}
	}
	if subCategoryID != nil {
		p.SubCategoryID = *subCategoryID
	}
	if subCategory != nil {
		p.SubCategory = &catalog.SubCategory{
			ID: subCategory.ID, Name: subCategory.Name, CategoryID: subCategory.CategoryID,
			Image: subCategory.Image, IsActive: subCategory.IsActive,
		}
	}
	return p, nil
}

func sizeIDs(sizes []catalog.Size) []string {
	out := make([]string, len(sizes))
	for i, s := range sizes {
		out[i] = s.ID
	}
	return out
}

func colorIDs(colors []catalog.Color) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.ID
	}
	return out
}
