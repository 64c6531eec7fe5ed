package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zahrashop/backend/internal/domain/cart"
	"github.com/zahrashop/backend/internal/domain/catalog"
	"github.com/zahrashop/backend/internal/domain/pricing"
	"github.com/zahrashop/backend/internal/i18n"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// --- Mock implementations ---

type mockOrderRepo struct {
	created *Order
	byID    map[string]*Order
	err     error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	m.created = o
	return m.err
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) GetByUser(_ context.Context, id, userID string) (*Order, error) {
	o, ok := m.byID[id]
	if !ok || o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) GetByTransactionID(_ context.Context, _ string) (*Order, error) {
	return nil, ErrNotFound
}

func (m *mockOrderRepo) ListByUser(_ context.Context, _ string) ([]Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]Order, error) { return nil, nil }

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	if o, ok := m.byID[id]; ok {
		o.Status = status
	}
	return nil
}

func (m *mockOrderRepo) UpdatePayment(_ context.Context, _ string, _ PaymentStatus, _ Status, _ string) error {
	return nil
}

type mockCartRepo struct {
	cart     *cart.Cart
	cleared  bool
	clearErr error
}

func (m *mockCartRepo) GetByUser(_ context.Context, userID string) (*cart.Cart, error) {
	if m.cart != nil {
		return m.cart, nil
	}
	return &cart.Cart{UserID: userID}, nil
}

func (m *mockCartRepo) AddItem(_ context.Context, _ string, _ cart.Item) error    { return nil }
func (m *mockCartRepo) SetQuantity(_ context.Context, _ string, _ cart.Item) error { return nil }
func (m *mockCartRepo) RemoveItem(_ context.Context, _, _, _, _ string) error      { return nil }

func (m *mockCartRepo) Clear(_ context.Context, _ string) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = true
	if m.cart != nil {
		m.cart.Items = nil
	}
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

func (m *mockOfferRepo) List(_ context.Context) ([]pricing.Offer, error)          { return nil, nil }
func (m *mockOfferRepo) GetByID(_ context.Context, _ string) (*pricing.Offer, error) {
	return nil, pricing.ErrNotFound
}
func (m *mockOfferRepo) Create(_ context.Context, _ *pricing.Offer) error { return nil }
func (m *mockOfferRepo) Update(_ context.Context, _ *pricing.Offer) error { return nil }
func (m *mockOfferRepo) Delete(_ context.Context, _ string) error         { return nil }

type mockPublisher struct {
	created       []string
	statusChanged []string
	err           error
}

func (m *mockPublisher) OrderCreated(_ context.Context, o *Order) error {
	m.created = append(m.created, o.ID)
	return m.err
}

func (m *mockPublisher) OrderStatusChanged(_ context.Context, o *Order) error {
	m.statusChanged = append(m.statusChanged, o.ID)
	return m.err
}

// --- Helpers ---

func testProduct(id string, price string) *catalog.Product {
	return &catalog.Product{
		ID:       id,
		Name:     i18n.Text{AR: "قميص", EN: "Shirt"},
		Price:    d(price),
		Currency: "EGP",
		Sizes:    []catalog.Size{{ID: "sizeM", Name: "M", IsActive: true}},
		Colors:   []catalog.Color{{ID: "colorRed", Name: "Red", IsActive: true}},
		IsActive: true,
	}
}

func globalOffer(value string) pricing.Offer {
	return pricing.Offer{
		ID:        "g1",
		Scope:     pricing.ScopeGlobal,
		Type:      pricing.DiscountPercentage,
		Value:     d(value),
		StartDate: testNow.Add(-time.Hour),
		EndDate:   testNow.Add(time.Hour),
		IsActive:  true,
	}
}

func newCheckoutService(carts *mockCartRepo, products *mockProductRepo, offers *mockOfferRepo, orders *mockOrderRepo, pub *mockPublisher) *Service {
	var publisher EventPublisher
	if pub != nil {
		publisher = pub
	}
	svc := NewService(orders, carts, products, offers, publisher, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func checkoutReq() CheckoutRequest {
	return CheckoutRequest{
		PaymentMethod: PaymentCashOnDelivery,
		ShippingType:  ShippingNormal,
		ShippingAddress: Address{
			Phone:   "+201000000000",
			Street:  "1 Tahrir Sq",
			City:    "Cairo",
			Country: "EG",
		},
	}
}

// --- Tests ---

func TestCheckout_EmptyCart(t *testing.T) {
	svc := newCheckoutService(&mockCartRepo{}, &mockProductRepo{}, &mockOfferRepo{}, &mockOrderRepo{}, nil)

	_, err := svc.Checkout(context.Background(), "u1", checkoutReq())
	require.ErrorIs(t, err, cart.ErrEmpty)
}

func TestCheckout_MissingProductAbortsOrder(t *testing.T) {
	carts := &mockCartRepo{cart: &cart.Cart{
		UserID: "u1",
		Items: []cart.Item{
			{ProductID: "p1", SizeID: "sizeM", ColorID: "colorRed", Quantity: 1},
			{ProductID: "gone", SizeID: "sizeM", ColorID: "colorRed", Quantity: 1},
		},
	}}
	products := &mockProductRepo{byID: map[string]*catalog.Product{
		"p1": testProduct("p1", "100"),
	}}
	orders := &mockOrderRepo{}

	svc := newCheckoutService(carts, products, &mockOfferRepo{}, orders, nil)
	_, err := svc.Checkout(context.Background(), "u1", checkoutReq())

	var pnf *ProductNotFoundError
	require.ErrorAs(t, err, &pnf)
	assert.Equal(t, "gone", pnf.ProductID)
	assert.Nil(t, orders.created)
	assert.False(t, carts.cleared)
}

func TestCheckout_TotalsAndSnapshot(t *testing.T) {
	carts := &mockCartRepo{cart: &cart.Cart{
		UserID: "u1",
		Items: []cart.Item{
			{ProductID: "p1", SizeID: "sizeM", ColorID: "colorRed", Quantity: 2},
		},
	}}
	products := &mockProductRepo{byID: map[string]*catalog.Product{
		"p1": testProduct("p1", "100"),
	}}
	offers := &mockOfferRepo{offers: []pricing.Offer{globalOffer("10")}}
	orders := &mockOrderRepo{}
	pub := &mockPublisher{}

	svc := newCheckoutService(carts, products, offers, orders, pub)
	o, err := svc.Checkout(context.Background(), "u1", checkoutReq())
	require.NoError(t, err)

	// 2 × (100 - 10%) = 180, plus normal shipping 50.
	assert.True(t, d("180").Equal(o.Subtotal), "got %s", o.Subtotal)
	assert.True(t, d("50").Equal(o.ShippingCost))
	assert.True(t, d("230").Equal(o.TotalAmount))
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.Equal(t, "EGP", o.Currency)

	require.Len(t, o.Items, 1)
	item := o.Items[0]
	assert.Equal(t, "Shirt", item.Name.EN)
	assert.Equal(t, "M", item.Size)
	assert.Equal(t, "Red", item.Color)
	assert.True(t, d("100").Equal(item.Price))
	assert.True(t, d("90").Equal(item.FinalPrice))

	assert.True(t, carts.cleared, "checkout clears the cart")
	assert.Equal(t, []string{o.ID}, pub.created)
}

func TestCheckout_ClearFailureDoesNotFailOrder(t *testing.T) {
	carts := &mockCartRepo{
		cart: &cart.Cart{
			UserID: "u1",
			Items: []cart.Item{
				{ProductID: "p1", SizeID: "sizeM", ColorID: "colorRed", Quantity: 1},
			},
		},
		clearErr: errors.New("connection reset"),
	}
	products := &mockProductRepo{byID: map[string]*catalog.Product{
		"p1": testProduct("p1", "100"),
	}}
	orders := &mockOrderRepo{}
	pub := &mockPublisher{}

	svc := newCheckoutService(carts, products, &mockOfferRepo{}, orders, pub)
	o, err := svc.Checkout(context.Background(), "u1", checkoutReq())

	// The order row is persisted before the cart is cleared; a clear failure
	// must not surface as a checkout error.
	require.NoError(t, err)
	require.NotNil(t, orders.created)
	assert.Equal(t, orders.created.ID, o.ID)
	assert.Equal(t, []string{o.ID}, pub.created)
}

func TestCheckout_VariantOverridePricedWithSameOffer(t *testing.T) {
	p := testProduct("p1", "100")
	override := d("150")
	p.Variants = []catalog.Variant{
		{SizeID: "sizeM", ColorID: "colorRed", Stock: 3, Price: &override},
	}

	carts := &mockCartRepo{cart: &cart.Cart{
		UserID: "u1",
		Items: []cart.Item{
			{ProductID: "p1", SizeID: "sizeM", ColorID: "colorRed", Quantity: 1},
		},
	}}
	products := &mockProductRepo{byID: map[string]*catalog.Product{"p1": p}}
	offers := &mockOfferRepo{offers: []pricing.Offer{globalOffer("10")}}
	orders := &mockOrderRepo{}

	svc := newCheckoutService(carts, products, offers, orders, nil)
	o, err := svc.Checkout(context.Background(), "u1", checkoutReq())
	require.NoError(t, err)

	// Offer applied to the 150 override: 135, not the base-derived 90.
	require.Len(t, o.Items, 1)
	assert.True(t, d("150").Equal(o.Items[0].Price))
	assert.True(t, d("135").Equal(o.Items[0].FinalPrice), "got %s", o.Items[0].FinalPrice)
	assert.True(t, d("185").Equal(o.TotalAmount))
}

func TestCheckout_ExpressShipping(t *testing.T) {
	carts := &mockCartRepo{cart: &cart.Cart{
		UserID: "u1",
		Items:  []cart.Item{{ProductID: "p1", SizeID: "sizeM", ColorID: "colorRed", Quantity: 1}},
	}}
	products := &mockProductRepo{byID: map[string]*catalog.Product{"p1": testProduct("p1", "100")}}

	svc := newCheckoutService(carts, products, &mockOfferRepo{}, &mockOrderRepo{}, nil)
	req := checkoutReq()
	req.ShippingType = ShippingExpress

	o, err := svc.Checkout(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.True(t, d("100").Equal(o.ShippingCost))
	assert.True(t, d("200").Equal(o.TotalAmount))
}

func TestCheckout_PublisherFailureDoesNotFailOrder(t *testing.T) {
	carts := &mockCartRepo{cart: &cart.Cart{
		UserID: "u1",
		Items:  []cart.Item{{ProductID: "p1", SizeID: "sizeM", ColorID: "colorRed", Quantity: 1}},
	}}
	products := &mockProductRepo{byID: map[string]*catalog.Product{"p1": testProduct("p1", "100")}}
	pub := &mockPublisher{err: assert.AnError}

	svc := newCheckoutService(carts, products, &mockOfferRepo{}, &mockOrderRepo{}, pub)
	_, err := svc.Checkout(context.Background(), "u1", checkoutReq())
	require.NoError(t, err)
}

func TestCheckoutInfo_DropsStaleLines(t *testing.T) {
	carts := &mockCartRepo{cart: &cart.Cart{
		UserID: "u1",
		Items: []cart.Item{
			{ProductID: "p1", SizeID: "sizeM", ColorID: "colorRed", Quantity: 1},
			{ProductID: "gone", SizeID: "sizeM", ColorID: "colorRed", Quantity: 4},
		},
	}}
	products := &mockProductRepo{byID: map[string]*catalog.Product{"p1": testProduct("p1", "100")}}

	svc := newCheckoutService(carts, products, &mockOfferRepo{}, &mockOrderRepo{}, nil)
	info, err := svc.CheckoutInfo(context.Background(), "u1", ShippingNormal)
	require.NoError(t, err)

	assert.Equal(t, 1, info.ItemCount)
	assert.True(t, d("100").Equal(info.Subtotal))
	assert.True(t, d("150").Equal(info.Total))
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to paid", StatusPending, StatusPaid, true},
		{"pending to failed", StatusPending, StatusFailed, true},
		{"pending to canceled", StatusPending, StatusCanceled, true},
		{"pending to delivered", StatusPending, StatusDelivered, false},
		{"paid to shipped", StatusPaid, StatusShipped, true},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"shipped to canceled", StatusShipped, StatusCanceled, true},
		{"delivered is terminal", StatusDelivered, StatusCanceled, false},
		{"canceled is terminal", StatusCanceled, StatusPending, false},
		{"paid to pending", StatusPaid, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &mockOrderRepo{byID: map[string]*Order{
				"o1": {ID: "o1", UserID: "u1", Status: tt.from},
			}}
			pub := &mockPublisher{}
			svc := newCheckoutService(&mockCartRepo{}, &mockProductRepo{}, &mockOfferRepo{}, orders, pub)

			o, err := svc.UpdateStatus(context.Background(), "o1", tt.to)
			if !tt.allowed {
				var itErr *InvalidTransitionError
				require.ErrorAs(t, err, &itErr)
				assert.Equal(t, tt.from, itErr.From)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, o.Status)
			assert.Equal(t, []string{"o1"}, pub.statusChanged)
		})
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := newCheckoutService(&mockCartRepo{}, &mockProductRepo{}, &mockOfferRepo{}, &mockOrderRepo{}, nil)

	_, err := svc.UpdateStatus(context.Background(), "missing", StatusPaid)
	require.ErrorIs(t, err, ErrNotFound)
}
