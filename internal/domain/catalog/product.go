// Package catalog holds the product model: products with size/color variants,
// the reference data they point at, and the localized discount-applied
// projection served to clients.
package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/zahrashop/backend/internal/domain/pricing"
	"github.com/zahrashop/backend/internal/i18n"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// DefaultCurrency is used when a product carries no currency.
const DefaultCurrency = "EGP"

// Kind marks products surfaced in curated home feed sections.
type Kind string

const (
	KindNormal      Kind = "normal"
	KindPopular     Kind = "popular"
	KindRecommended Kind = "recommended"
)

// Variant is a size×color combination with its own stock count and an
// optional price override. A nil Price inherits the product base price.
type Variant struct {
	SizeID  string           `json:"sizeId"`
	ColorID string           `json:"colorId"`
	Stock   int              `json:"stock"`
	Price   *decimal.Decimal `json:"price,omitempty"`
}

// Product is a catalog item. Sizes, Colors, Category and SubCategory are
// populated sub-documents loaded alongside the product row.
type Product struct {
	ID            string
	Name          i18n.Text
	Description   i18n.Text
	Images        []string
	Price         decimal.Decimal
	Currency      string
	Sizes         []Size
	Colors        []Color
	CategoryID    string
	Category      *Category
	SubCategoryID string
	SubCategory   *SubCategory
	Variants      []Variant
	Kind          Kind
	Views         int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FindVariant returns the variant matching the exact (sizeID, colorID) pair,
// or nil when the combination has no variant entry.
func (p *Product) FindVariant(sizeID, colorID string) *Variant {
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.SizeID == sizeID && v.ColorID == colorID {
			return v
		}
	}
	return nil
}

// ResolvePrice returns the effective base price for a size/color combination:
// the variant's override when present, the product base price otherwise.
// An unknown combination is not an error; sizes and colors may be listed
// independently of the variants table, so absence falls back to the base
// price.
func (p *Product) ResolvePrice(sizeID, colorID string) decimal.Decimal {
	if v := p.FindVariant(sizeID, colorID); v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}

// PricingTarget projects the product's identifiers for offer scope matching.
func (p *Product) PricingTarget() pricing.Target {
	return pricing.Target{
		ProductID:     p.ID,
		CategoryID:    p.CategoryID,
		SubCategoryID: p.SubCategoryID,
	}
}

// Filter narrows product listings. Zero values mean "no constraint".
type Filter struct {
	CategoryID    string
	SubCategoryID string
	SizeIDs       []string
	ColorIDs      []string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Kind          Kind
	ActiveOnly    bool
	Limit         int
}

// Repository defines persistence operations for products.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}
