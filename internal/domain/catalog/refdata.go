package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/zahrashop/backend/internal/i18n"
)

// Not-found sentinels for reference data.
var (
	ErrSizeNotFound        = errors.New("size not found")
	ErrColorNotFound       = errors.New("color not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubCategoryNotFound = errors.New("sub-category not found")
)

// Size is a garment size (S, M, L, ...).
type Size struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// Color is a named color with an optional hex code.
type Color struct {
	ID        string
	Name      string
	HexCode   string
	IsActive  bool
	CreatedAt time.Time
}

// Category is a top-level product grouping.
type Category struct {
	ID        string
	Name      i18n.Text
	Image     string
	IsActive  bool
	CreatedAt time.Time
}

// SubCategory is a second-level grouping under a category.
type SubCategory struct {
	ID         string
	Name       i18n.Text
	CategoryID string
	Image      string
	IsActive   bool
	CreatedAt  time.Time
}

// SizeRepository defines persistence operations for sizes.
type SizeRepository interface {
	List(ctx context.Context) ([]Size, error)
	GetByID(ctx context.Context, id string) (*Size, error)
	Create(ctx context.Context, s *Size) error
	Update(ctx context.Context, s *Size) error
	Delete(ctx context.Context, id string) error
}

// ColorRepository defines persistence operations for colors.
type ColorRepository interface {
	List(ctx context.Context) ([]Color, error)
	GetByID(ctx context.Context, id string) (*Color, error)
	Create(ctx context.Context, c *Color) error
	Update(ctx context.Context, c *Color) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context, activeOnly bool) ([]Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
}

// SubCategoryRepository defines persistence operations for sub-categories.
type SubCategoryRepository interface {
	List(ctx context.Context, categoryID string) ([]SubCategory, error)
	GetByID(ctx context.Context, id string) (*SubCategory, error)
	Create(ctx context.Context, sc *SubCategory) error
	Update(ctx context.Context, sc *SubCategory) error
	Delete(ctx context.Context, id string) error
}
