package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zahrashop/backend/internal/domain/catalog"
)

var (
	_ catalog.SizeRepository        = (*SizeRepository)(nil)
	_ catalog.ColorRepository       = (*ColorRepository)(nil)
	_ catalog.CategoryRepository    = (*CategoryRepository)(nil)
	_ catalog.SubCategoryRepository = (*SubCategoryRepository)(nil)
)

// SizeRepository implements catalog.SizeRepository backed by PostgreSQL.
type SizeRepository struct {
	pool *pgxpool.Pool
}

func NewSizeRepository(pool *pgxpool.Pool) *SizeRepository {
	return &SizeRepository{pool: pool}
}

func (r *SizeRepository) List(ctx context.Context) ([]catalog.Size, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, is_active, created_at FROM sizes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing sizes: %w", err)
	}
	return pgx.CollectRows(rows, scanSize)
}

func (r *SizeRepository) GetByID(ctx context.Context, id string) (*catalog.Size, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, is_active, created_at FROM sizes WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting size %q: %w", id, err)
	}
	s, err := pgx.CollectExactlyOneRow(rows, scanSize)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrSizeNotFound
		}
		return nil, fmt.Errorf("getting size %q: %w", id, err)
	}
	return &s, nil
}

func (r *SizeRepository) Create(ctx context.Context, s *catalog.Size) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO sizes (id, name, is_active) VALUES ($1, $2, $3)`,
		s.ID, s.Name, s.IsActive)
	if err != nil {
		return fmt.Errorf("creating size %q: %w", s.ID, err)
	}
	return nil
}

func (r *SizeRepository) Update(ctx context.Context, s *catalog.Size) error {
	tag, err := r.pool.Exec(ctx, `UPDATE sizes SET name = $2, is_active = $3 WHERE id = $1`,
		s.ID, s.Name, s.IsActive)
	if err != nil {
		return fmt.Errorf("updating size %q: %w", s.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrSizeNotFound
	}
	return nil
}

func (r *SizeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sizes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting size %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrSizeNotFound
	}
	return nil
}

func scanSize(row pgx.CollectableRow) (catalog.Size, error) {
	var s catalog.Size
	err := row.Scan(&s.ID, &s.Name, &s.IsActive, &s.CreatedAt)
	return s, err
}

// ColorRepository implements catalog.ColorRepository backed by PostgreSQL.
type ColorRepository struct {
	pool *pgxpool.Pool
}

func NewColorRepository(pool *pgxpool.Pool) *ColorRepository {
	return &ColorRepository{pool: pool}
}

func (r *ColorRepository) List(ctx context.Context) ([]catalog.Color, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, hex_code, is_active, created_at FROM colors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing colors: %w", err)
	}
	return pgx.CollectRows(rows, scanColor)
}

func (r *ColorRepository) GetByID(ctx context.Context, id string) (*catalog.Color, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, hex_code, is_active, created_at FROM colors WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting color %q: %w", id, err)
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanColor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrColorNotFound
		}
		return nil, fmt.Errorf("getting color %q: %w", id, err)
	}
	return &c, nil
}

func (r *ColorRepository) Create(ctx context.Context, c *catalog.Color) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO colors (id, name, hex_code, is_active) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.HexCode, c.IsActive)
	if err != nil {
		return fmt.Errorf("creating color %q: %w", c.ID, err)
	}
	return nil
}

func (r *ColorRepository) Update(ctx context.Context, c *catalog.Color) error {
	tag, err := r.pool.Exec(ctx, `UPDATE colors SET name = $2, hex_code = $3, is_active = $4 WHERE id = $1`,
		c.ID, c.Name, c.HexCode, c.IsActive)
	if err != nil {
		return fmt.Errorf("updating color %q: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrColorNotFound
	}
	return nil
}

func (r *ColorRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM colors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting color %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrColorNotFound
	}
	return nil
}

func scanColor(row pgx.CollectableRow) (catalog.Color, error) {
	var c catalog.Color
	err := row.Scan(&c.ID, &c.Name, &c.HexCode, &c.IsActive, &c.CreatedAt)
	return c, err
}

// CategoryRepository implements catalog.CategoryRepository backed by
// PostgreSQL.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]catalog.Category, error) {
	query := `SELECT id, name, image, is_active, created_at FROM categories`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, scanCategory)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*catalog.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, image, is_active, created_at FROM categories WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting category %q: %w", id, err)
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("getting category %q: %w", id, err)
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *catalog.Category) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO categories (id, name, image, is_active) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Image, c.IsActive)
	if err != nil {
		return fmt.Errorf("creating category %q: %w", c.ID, err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *catalog.Category) error {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET name = $2, image = $3, is_active = $4 WHERE id = $1`,
		c.ID, c.Name, c.Image, c.IsActive)
	if err != nil {
		return fmt.Errorf("updating category %q: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting category %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.CollectableRow) (catalog.Category, error) {
	var c catalog.Category
	err := row.Scan(&c.ID, &c.Name, &c.Image, &c.IsActive, &c.CreatedAt)
	return c, err
}

// SubCategoryRepository implements catalog.SubCategoryRepository backed by
// PostgreSQL.
type SubCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewSubCategoryRepository(pool *pgxpool.Pool) *SubCategoryRepository {
	return &SubCategoryRepository{pool: pool}
}

func (r *SubCategoryRepository) List(ctx context.Context, categoryID string) ([]catalog.SubCategory, error) {
	query := `SELECT id, name, category_id, image, is_active, created_at FROM sub_categories`
	var args []any
	if categoryID != "" {
		query += ` WHERE category_id = $1`
		args = append(args, categoryID)
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sub-categories: %w", err)
	}
	return pgx.CollectRows(rows, scanSubCategory)
}

func (r *SubCategoryRepository) GetByID(ctx context.Context, id string) (*catalog.SubCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, category_id, image, is_active, created_at FROM sub_categories WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting sub-category %q: %w", id, err)
	}
	sc, err := pgx.CollectExactlyOneRow(rows, scanSubCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("getting sub-category %q: %w", id, err)
	}
	return &sc, nil
}

func (r *SubCategoryRepository) Create(ctx context.Context, sc *catalog.SubCategory) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO sub_categories (id, name, category_id, image, is_active) VALUES ($1, $2, $3, $4, $5)`,
		sc.ID, sc.Name, sc.CategoryID, sc.Image, sc.IsActive)
	if err != nil {
		return fmt.Errorf("creating sub-category %q: %w", sc.ID, err)
	}
	return nil
}

func (r *SubCategoryRepository) Update(ctx context.Context, sc *catalog.SubCategory) error {
	tag, err := r.pool.Exec(ctx, `UPDATE sub_categories SET name = $2, category_id = $3, image = $4, is_active = $5 WHERE id = $1`,
		sc.ID, sc.Name, sc.CategoryID, sc.Image, sc.IsActive)
	if err != nil {
		return fmt.Errorf("updating sub-category %q: %w", sc.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrSubCategoryNotFound
	}
	return nil
}

func (r *SubCategoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sub_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting sub-category %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrSubCategoryNotFound
	}
	return nil
}

func scanSubCategory(row pgx.CollectableRow) (catalog.SubCategory, error) {
	var sc catalog.SubCategory
	err := row.Scan(&sc.ID, &sc.Name, &sc.CategoryID, &sc.Image, &sc.IsActive, &sc.CreatedAt)
	return sc, err
}
