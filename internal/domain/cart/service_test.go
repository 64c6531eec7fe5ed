package cart

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zahrashop/backend/internal/domain/catalog"
	"github.com/zahrashop/backend/internal/domain/pricing"
	"github.com/zahrashop/backend/internal/i18n"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type mockCartRepo struct {
	cart      *Cart
	added     []Item
	set       []Item
	removed   int
	cleared   bool
	setErr    error
	removeErr error
}

func (m *mockCartRepo) GetByUser(_ context.Context, userID string) (*Cart, error) {
	if m.cart != nil {
		return m.cart, nil
	}
	return &Cart{UserID: userID}, nil
}

func (m *mockCartRepo) AddItem(_ context.Context, _ string, item Item) error {
	m.added = append(m.added, item)
	return nil
}

func (m *mockCartRepo) SetQuantity(_ context.Context, _ string, item Item) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set = append(m.set, item)
	return nil
}

func (m *mockCartRepo) RemoveItem(_ context.Context, _, _, _, _ string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed++
	return nil
}

func (m *mockCartRepo) Clear(_ context.Context, _ string) error {
	m.cleared = true
	return nil
}

type mockProductRepo struct {
	byID map[string]*catalog.Product
}

func (m *mockProductRepo) List(_ context.Context, _ catalog.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, _ []string) ([]catalog.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) Create(_ context.Context, _ *catalog.Product) error { return nil }
func (m *mockProductRepo) Update(_ context.Context, _ *catalog.Product) error { return nil }
func (m *mockProductRepo) Delete(_ context.Context, _ string) error           { return nil }

type mockOfferRepo struct {
	offers []pricing.Offer
}

func (m *mockOfferRepo) ListActive(_ context.Context, _ time.Time) ([]pricing.Offer, error) {
	return m.offers, nil
}

func (m *mockOfferRepo) List(_ context.Context) ([]pricing.Offer, error) { return nil, nil }
func (m *mockOfferRepo) GetByID(_ context.Context, _ string) (*pricing.Offer, error) {
	return nil, pricing.ErrNotFound
}
func (m *mockOfferRepo) Create(_ context.Context, _ *pricing.Offer) error { return nil }
func (m *mockOfferRepo) Update(_ context.Context, _ *pricing.Offer) error { return nil }
func (m *mockOfferRepo) Delete(_ context.Context, _ string) error         { return nil }

func testProduct(id, price string) *catalog.Product {
	return &catalog.Product{
		ID:       id,
		Name:     i18n.Text{AR: "فستان", EN: "Dress"},
		Price:    d(price),
		Currency: "EGP",
		Sizes:    []catalog.Size{{ID: "sizeM", Name: "M", IsActive: true}},
		Colors:   []catalog.Color{{ID: "colorRed", Name: "Red", IsActive: true}},
		IsActive: true,
	}
}

func newTestService(carts *mockCartRepo, products *mockProductRepo, offers *mockOfferRepo) *Service {
	svc := NewService(carts, products, offers)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestAdd(t *testing.T) {
	products := &mockProductRepo{byID: map[string]*catalog.Product{
		"p1": testProduct("p1", "100"),
	}}

	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{
			name: "valid item",
			item: Item{ProductID: "p1", SizeID: "sizeM", ColorID: "colorRed", Quantity: 2},
		},
		{
			name:    "zero quantity",
			item:    Item{ProductID: "p1", SizeID: "sizeM", ColorID: "colorRed"},
			wantErr: true,
		},
		{
			name:    "negative quantity",
			item:    Item{ProductID: "p1", SizeID: "sizeM", ColorID: "colorRed", Quantity: -1},
			wantErr: true,
		},
		{
			name:    "unknown product",
			item:    Item{ProductID: "nope", SizeID: "sizeM", ColorID: "colorRed", Quantity: 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carts := &mockCartRepo{}
			svc := newTestService(carts, products, &mockOfferRepo{})

			err := svc.Add(context.Background(), "u1", tt.item)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, carts.added)
				return
			}
			require.NoError(t, err)
			require.Len(t, carts.added, 1)
			assert.Equal(t, tt.item, carts.added[0])
		})
	}
}

func TestSetQuantity(t *testing.T) {
	carts := &mockCartRepo{}
	svc := newTestService(carts, &mockProductRepo{}, &mockOfferRepo{})

	err := svc.SetQuantity(context.Background(), "u1", Item{ProductID: "p1", Quantity: 0})
	require.Error(t, err)
	assert.Empty(t, carts.set)

	err = svc.SetQuantity(context.Background(), "u1", Item{ProductID: "p1", SizeID: "sizeM", ColorID: "colorRed", Quantity: 3})
	require.NoError(t, err)
	require.Len(t, carts.set, 1)
	assert.Equal(t, 3, carts.set[0].Quantity)
}

func TestSetQuantity_MissingLine(t *testing.T) {
	carts := &mockCartRepo{setErr: ErrItemNotFound}
	svc := newTestService(carts, &mockProductRepo{}, &mockOfferRepo{})

	err := svc.SetQuantity(context.Background(), "u1", Item{ProductID: "p1", Quantity: 2})
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestGet_PricesLines(t *testing.T) {
	carts := &mockCartRepo{cart: &Cart{
		UserID: "u1",
		Items: []Item{
			{ProductID: "p1", SizeID: "sizeM", ColorID: "colorRed", Quantity: 2},
			{ProductID: "p2", SizeID: "sizeM", ColorID: "colorRed", Quantity: 1},
		},
	}}
	products := &mockProductRepo{byID: map[string]*catalog.Product{
		"p1": testProduct("p1", "100"),
		"p2": testProduct("p2", "40"),
	}}
	offers := &mockOfferRepo{offers: []pricing.Offer{{
		ID:        "g1",
		Scope:     pricing.ScopeGlobal,
		Type:      pricing.DiscountPercentage,
		Value:     d("10"),
		StartDate: testNow.Add(-time.Hour),
		EndDate:   testNow.Add(time.Hour),
		IsActive:  true,
	}}}

	svc := newTestService(carts, products, offers)
	priced, err := svc.Get(context.Background(), "u1", i18n.English)
	require.NoError(t, err)

	require.Len(t, priced.Items, 2)
	// 2 × 90 + 1 × 36
	assert.True(t, d("90").Equal(priced.Items[0].UnitPrice))
	assert.True(t, d("180").Equal(priced.Items[0].Subtotal))
	assert.True(t, d("36").Equal(priced.Items[1].Subtotal))
	assert.True(t, d("216").Equal(priced.Total), "got %s", priced.Total)
	assert.Equal(t, "EGP", priced.Currency)
	assert.Equal(t, "Dress", priced.Items[0].Product.Name)
	assert.Equal(t, "M", priced.Items[0].Size)
	assert.Equal(t, "Red", priced.Items[0].Color)
}

func TestGet_VariantOverrideUnitPrice(t *testing.T) {
	p := testProduct("p1", "100")
	override := d("150")
	p.Variants = []catalog.Variant{
		{SizeID: "sizeM", ColorID: "colorRed", Stock: 2, Price: &override},
	}

	carts := &mockCartRepo{cart: &Cart{
		UserID: "u1",
		Items:  []Item{{ProductID: "p1", SizeID: "sizeM", ColorID: "colorRed", Quantity: 1}},
	}}
	products := &mockProductRepo{byID: map[string]*catalog.Product{"p1": p}}
	offers := &mockOfferRepo{offers: []pricing.Offer{{
		ID:        "g1",
		Scope:     pricing.ScopeGlobal,
		Type:      pricing.DiscountPercentage,
		Value:     d("10"),
		StartDate: testNow.Add(-time.Hour),
		EndDate:   testNow.Add(time.Hour),
		IsActive:  true,
	}}}

	svc := newTestService(carts, products, offers)
	priced, err := svc.Get(context.Background(), "u1", i18n.English)
	require.NoError(t, err)

	require.Len(t, priced.Items, 1)
	assert.True(t, d("135").Equal(priced.Items[0].UnitPrice), "got %s", priced.Items[0].UnitPrice)
}

func TestGet_DropsMissingProducts(t *testing.T) {
	carts := &mockCartRepo{cart: &Cart{
		UserID: "u1",
		Items: []Item{
			{ProductID: "p1", SizeID: "sizeM", ColorID: "colorRed", Quantity: 1},
			{ProductID: "deleted", SizeID: "sizeM", ColorID: "colorRed", Quantity: 5},
		},
	}}
	products := &mockProductRepo{byID: map[string]*catalog.Product{
		"p1": testProduct("p1", "100"),
	}}

	svc := newTestService(carts, products, &mockOfferRepo{})
	priced, err := svc.Get(context.Background(), "u1", i18n.Arabic)
	require.NoError(t, err)

	// The stale line is dropped and does not count towards the total.
	require.Len(t, priced.Items, 1)
	assert.Equal(t, "p1", priced.Items[0].ProductID)
	assert.True(t, d("100").Equal(priced.Total))
}

func TestGet_EmptyCart(t *testing.T) {
	svc := newTestService(&mockCartRepo{}, &mockProductRepo{}, &mockOfferRepo{})

	priced, err := svc.Get(context.Background(), "u1", i18n.Arabic)
	require.NoError(t, err)
	assert.Empty(t, priced.Items)
	assert.True(t, priced.Total.IsZero())
	assert.Equal(t, "EGP", priced.Currency)
}

func TestRemoveAndClear(t *testing.T) {
	carts := &mockCartRepo{}
	svc := newTestService(carts, &mockProductRepo{}, &mockOfferRepo{})

	require.NoError(t, svc.Remove(context.Background(), "u1", "p1", "sizeM", "colorRed"))
	assert.Equal(t, 1, carts.removed)

	require.NoError(t, svc.Clear(context.Background(), "u1"))
	assert.True(t, carts.cleared)
}
