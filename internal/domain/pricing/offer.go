// Package pricing implements the discount engine: time-bounded scoped offers,
// discount calculation, and best-offer selection against an arbitrary
// reference price.
package pricing

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/zahrashop/backend/internal/i18n"
)

var (
	// ErrNotFound is returned when a requested offer does not exist.
	ErrNotFound = errors.New("offer not found")
	// ErrTargetRequired is returned when a scoped offer names no target, so
	// it could never match anything.
	ErrTargetRequired = errors.New("offer scope requires a target id")
)

// Scope enumerates the entity classes an offer can apply to.
type Scope string

const (
	ScopeGlobal      Scope = "global"
	ScopeProduct     Scope = "product"
	ScopeCategory    Scope = "category"
	ScopeSubCategory Scope = "sub_category"
)

// DiscountType enumerates the supported discount strategies.
type DiscountType string

const (
	// DiscountPercentage takes value percent off the reference price.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed takes a fixed amount off, capped at the reference price.
	DiscountFixed DiscountType = "fixed"
)

// Offer is a time-bounded discount. Exactly one of ProductID, CategoryID,
// SubCategoryID is set when the scope demands it; all are empty for global
// offers.
type Offer struct {
	ID            string
	Title         i18n.Text
	Image         string
	Scope         Scope
	ProductID     string
	CategoryID    string
	SubCategoryID string
	Type          DiscountType
	Value         decimal.Decimal
	StartDate     time.Time
	EndDate       time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Target identifies the product an offer is matched against.
type Target struct {
	ProductID     string
	CategoryID    string
	SubCategoryID string
}

// ActiveAt reports whether the offer is inside its validity window and
// enabled. The window is inclusive on both ends.
func (o Offer) ActiveAt(now time.Time) bool {
	return o.IsActive && !o.StartDate.After(now) && !o.EndDate.Before(now)
}

// Validate rejects offers whose scope demands a target ID that is missing.
// Matches requires the ID to be set, so such an offer would persist without
// ever applying to a product.
func (o Offer) Validate() error {
	switch o.Scope {
	case ScopeProduct:
		if o.ProductID == "" {
			return ErrTargetRequired
		}
	case ScopeCategory:
		if o.CategoryID == "" {
			return ErrTargetRequired
		}
	case ScopeSubCategory:
		if o.SubCategoryID == "" {
			return ErrTargetRequired
		}
	}
	return nil
}

// Matches reports whether the offer's scope covers the target. Scoped offers
// match by exact identifier equality only.
func (o Offer) Matches(t Target) bool {
	switch o.Scope {
	case ScopeGlobal:
		return true
	case ScopeProduct:
		return o.ProductID != "" && o.ProductID == t.ProductID
	case ScopeCategory:
		return o.CategoryID != "" && o.CategoryID == t.CategoryID
	case ScopeSubCategory:
		return o.SubCategoryID != "" && o.SubCategoryID == t.SubCategoryID
	default:
		return false
	}
}

// Repository defines persistence operations for offers.
type Repository interface {
	ListActive(ctx context.Context, now time.Time) ([]Offer, error)
	List(ctx context.Context) ([]Offer, error)
	GetByID(ctx context.Context, id string) (*Offer, error)
	Create(ctx context.Context, o *Offer) error
	Update(ctx context.Context, o *Offer) error
	Delete(ctx context.Context, id string) error
}
