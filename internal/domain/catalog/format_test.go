package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zahrashop/backend/internal/domain/pricing"
	"github.com/zahrashop/backend/internal/i18n"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testProduct() *Product {
	override := d("150")
	return &Product{
		ID:          "p1",
		Name:        i18n.Text{AR: "قميص", EN: "Shirt"},
		Description: i18n.Text{AR: "وصف", EN: "Description"},
		Images:      []string{"a.jpg"},
		Price:       d("100"),
		Currency:    "EGP",
		Sizes: []Size{
			{ID: "sizeM", Name: "M", IsActive: true},
			{ID: "sizeL", Name: "L", IsActive: false},
		},
		Colors: []Color{
			{ID: "colorRed", Name: "Red", HexCode: "#f00", IsActive: true},
		},
		CategoryID:    "c1",
		Category:      &Category{ID: "c1", Name: i18n.Text{AR: "رجالي", EN: "Men"}},
		SubCategoryID: "s1",
		SubCategory:   &SubCategory{ID: "s1", Name: i18n.Text{EN: "Shirts"}},
		Variants: []Variant{
			{SizeID: "sizeM", ColorID: "colorRed", Stock: 5, Price: &override},
			{SizeID: "sizeM", ColorID: "colorBlue", Stock: 2},
		},
		IsActive: true,
	}
}

func globalPercent(value string) pricing.Offer {
	return pricing.Offer{
		ID:        "global",
		Title:     i18n.Text{EN: "Sale"},
		Scope:     pricing.ScopeGlobal,
		Type:      pricing.DiscountPercentage,
		Value:     d(value),
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		IsActive:  true,
	}
}

func TestResolvePrice(t *testing.T) {
	p := testProduct()

	// Variant with an override.
	assert.True(t, d("150").Equal(p.ResolvePrice("sizeM", "colorRed")))
	// Variant entry without an override inherits the base price.
	assert.True(t, d("100").Equal(p.ResolvePrice("sizeM", "colorBlue")))
	// Unknown combination falls back to the base price, not an error.
	assert.True(t, d("100").Equal(p.ResolvePrice("sizeXL", "colorGreen")))
}

func TestFormat_LocalizationAndFallback(t *testing.T) {
	p := testProduct()

	en := Format(p, nil, i18n.English, now)
	assert.Equal(t, "Shirt", en.Name)
	assert.Equal(t, "Men", en.Category.Name)

	ar := Format(p, nil, i18n.Arabic, now)
	assert.Equal(t, "قميص", ar.Name)
	// Sub-category has no Arabic name: falls back to English.
	assert.Equal(t, "Shirts", ar.SubCategory.Name)
}

func TestFormat_InactiveSizesFiltered(t *testing.T) {
	f := Format(testProduct(), nil, i18n.English, now)

	require.Len(t, f.Sizes, 1)
	assert.Equal(t, "sizeM", f.Sizes[0].ID)
	require.Len(t, f.Colors, 1)
}

func TestFormat_MissingCategoryDegrades(t *testing.T) {
	p := testProduct()
	p.Category = nil
	p.SubCategory = nil

	f := Format(p, nil, i18n.English, now)
	assert.Equal(t, "c1", f.Category.ID)
	assert.Empty(t, f.Category.Name)
	assert.Equal(t, "s1", f.SubCategory.ID)
	assert.Empty(t, f.SubCategory.Name)
}

func TestFormat_BestOfferApplied(t *testing.T) {
	p := testProduct()

	fixed := pricing.Offer{
		ID:        "fixed20",
		Scope:     pricing.ScopeProduct,
		ProductID: "p1",
		Type:      pricing.DiscountFixed,
		Value:     d("20"),
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		IsActive:  true,
	}

	f := Format(p, []pricing.Offer{globalPercent("10"), fixed}, i18n.English, now)

	// Fixed 20 beats global 10% (=10) on a 100 base price.
	require.NotNil(t, f.OfferApplied)
	assert.Equal(t, "fixed20", f.OfferApplied.ID)
	assert.True(t, d("80").Equal(f.FinalPrice), "got %s", f.FinalPrice)
	assert.True(t, f.FinalPrice.LessThanOrEqual(f.Price))
}

func TestFormat_VariantPricesRecomputed(t *testing.T) {
	p := testProduct()

	f := Format(p, []pricing.Offer{globalPercent("10")}, i18n.English, now)

	require.Len(t, f.Variants, 2)
	// Override 150 discounted by the same 10% offer: 135, not 90.
	assert.True(t, d("150").Equal(f.Variants[0].Price))
	assert.True(t, d("135").Equal(f.Variants[0].FinalPrice), "got %s", f.Variants[0].FinalPrice)
	// Non-override variant follows the base price.
	assert.True(t, d("90").Equal(f.Variants[1].FinalPrice))
}

func TestFormat_NoOffers(t *testing.T) {
	f := Format(testProduct(), nil, i18n.English, now)

	assert.Nil(t, f.OfferApplied)
	assert.True(t, f.Price.Equal(f.FinalPrice))
}

func TestFormat_Idempotent(t *testing.T) {
	p := testProduct()
	offers := []pricing.Offer{globalPercent("10")}

	first := Format(p, offers, i18n.English, now)
	second := Format(p, offers, i18n.English, now)

	assert.Equal(t, first, second)
	// The inputs survive untouched.
	assert.True(t, d("100").Equal(p.Price))
	assert.True(t, d("10").Equal(offers[0].Value))
}

func TestPriceForVariant(t *testing.T) {
	p := testProduct()
	offers := []pricing.Offer{globalPercent("10")}

	base, final, applied := PriceForVariant(p, offers, "sizeM", "colorRed", now)
	require.NotNil(t, applied)
	assert.True(t, d("150").Equal(base))
	assert.True(t, d("135").Equal(final))

	// Unknown combination prices the base product.
	base, final, _ = PriceForVariant(p, offers, "sizeXL", "colorGreen", now)
	assert.True(t, d("100").Equal(base))
	assert.True(t, d("90").Equal(final))
}
