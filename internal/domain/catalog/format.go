package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zahrashop/backend/internal/domain/pricing"
	"github.com/zahrashop/backend/internal/i18n"
)

// AppliedOffer describes the offer applied to a formatted product.
type AppliedOffer struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Type     pricing.DiscountType `json:"type"`
	Value    decimal.Decimal      `json:"value"`
	Discount decimal.Decimal      `json:"discount"`
}

// SizeView is the client-facing projection of a populated size.
type SizeView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ColorView is the client-facing projection of a populated color.
type ColorView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	HexCode string `json:"hexCode,omitempty"`
}

// GroupView is the client-facing projection of a category or sub-category.
type GroupView struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Text *i18n.Text `json:"nameMultilingual,omitempty"`
}

// VariantView is a variant with its own discount-applied price.
type VariantView struct {
	SizeID     string          `json:"sizeId"`
	ColorID    string          `json:"colorId"`
	Stock      int             `json:"stock"`
	Price      decimal.Decimal `json:"price"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
}

// FormattedProduct is the localized, discount-resolved projection of a
// product served to clients.
type FormattedProduct struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Images       []string        `json:"images"`
	Price        decimal.Decimal `json:"price"`
	FinalPrice   decimal.Decimal `json:"finalPrice"`
	Currency     string          `json:"currency"`
	OfferApplied *AppliedOffer   `json:"offerApplied,omitempty"`
	Sizes        []SizeView      `json:"sizes"`
	Colors       []ColorView     `json:"colors"`
	Category     GroupView       `json:"category"`
	SubCategory  GroupView       `json:"subCategory"`
	Variants     []VariantView   `json:"variants"`
	IsActive     bool            `json:"isActive"`
	InFavourite  bool            `json:"inFavourite,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Format produces the localized, discount-applied view of a product.
// It is a read-only transform: neither the product nor the offers are
// mutated, and calling it twice with identical inputs yields identical
// output. A missing category or sub-category degrades to an empty name
// rather than failing.
func Format(p *Product, offers []pricing.Offer, lang i18n.Language, now time.Time) FormattedProduct {
	target := p.PricingTarget()
	best, discount := pricing.BestOffer(target, offers, p.Price, now)

	currency := p.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	f := FormattedProduct{
		ID:          p.ID,
		Name:        p.Name.Localize(lang),
		Description: p.Description.Localize(lang),
		Images:      p.Images,
		Price:       p.Price,
		FinalPrice:  pricing.FinalPrice(p.Price, discount),
		Currency:    currency,
		Sizes:       make([]SizeView, 0, len(p.Sizes)),
		Colors:      make([]ColorView, 0, len(p.Colors)),
		Variants:    make([]VariantView, 0, len(p.Variants)),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	if best != nil {
		f.OfferApplied = &AppliedOffer{
			ID:       best.ID,
			Title:    best.Title.Localize(lang),
			Type:     best.Type,
			Value:    best.Value,
			Discount: discount,
		}
	}

	for _, s := range p.Sizes {
		if !s.IsActive {
			continue
		}
		f.Sizes = append(f.Sizes, SizeView{ID: s.ID, Name: s.Name})
	}
	for _, c := range p.Colors {
		if !c.IsActive {
			continue
		}
		f.Colors = append(f.Colors, ColorView{ID: c.ID, Name: c.Name, HexCode: c.HexCode})
	}

	if p.Category != nil {
		name := p.Category.Name
		f.Category = GroupView{ID: p.Category.ID, Name: name.Localize(lang), Text: &name}
	} else {
		f.Category = GroupView{ID: p.CategoryID}
	}
	if p.SubCategory != nil {
		name := p.SubCategory.Name
		f.SubCategory = GroupView{ID: p.SubCategory.ID, Name: name.Localize(lang), Text: &name}
	} else {
		f.SubCategory = GroupView{ID: p.SubCategoryID}
	}

	// Each variant gets the same applied offer recomputed against its own
	// price, so an override still receives the full percentage/fixed logic.
	for _, v := range p.Variants {
		price := p.Price
		if v.Price != nil {
			price = *v.Price
		}
		var vd decimal.Decimal
		if best != nil {
			vd = pricing.Discount(price, *best)
		}
		f.Variants = append(f.Variants, VariantView{
			SizeID:     v.SizeID,
			ColorID:    v.ColorID,
			Stock:      v.Stock,
			Price:      price,
			FinalPrice: pricing.FinalPrice(price, vd),
		})
	}

	return f
}

// FormatAll formats multiple products against the same offer set.
func FormatAll(products []Product, offers []pricing.Offer, lang i18n.Language, now time.Time) []FormattedProduct {
	out := make([]FormattedProduct, len(products))
	for i := range products {
		out[i] = Format(&products[i], offers, lang, now)
	}
	return out
}

// PriceForVariant runs one best-offer pass against the variant-resolved
// reference price of a (sizeID, colorID) combination. Cart and order pricing
// share this single entry point instead of reimplementing the scope-filter
// loop per call site.
func PriceForVariant(p *Product, offers []pricing.Offer, sizeID, colorID string, now time.Time) (base, final decimal.Decimal, applied *pricing.Offer) {
	base = p.ResolvePrice(sizeID, colorID)
	applied, discount := pricing.BestOffer(p.PricingTarget(), offers, base, now)
	return base, pricing.FinalPrice(base, discount), applied
}
