package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zahrashop/backend/internal/domain/cart"
	"github.com/zahrashop/backend/internal/domain/catalog"
	"github.com/zahrashop/backend/internal/domain/pricing"
)

// CheckoutRequest holds the input for creating an order from the user's cart.
type CheckoutRequest struct {
	PaymentMethod   PaymentMethod
	ShippingType    ShippingType
	ShippingAddress Address
	Notes           string
}

// CheckoutInfo summarizes the cost of checking out the current cart without
// placing an order.
type CheckoutInfo struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
	ItemCount    int             `json:"itemCount"`
}

// Service encapsulates checkout and order lifecycle logic.
type Service struct {
	orders    Repository
	carts     cart.Repository
	products  catalog.Repository
	offers    pricing.Repository
	publisher EventPublisher
	rates     Rates
	now       func() time.Time
}

// NewService creates an order Service with the required domain dependencies.
// A nil publisher disables event emission.
func NewService(
	orders Repository,
	carts cart.Repository,
	products catalog.Repository,
	offers pricing.Repository,
	publisher EventPublisher,
	rates Rates,
) *Service {
	if rates == nil {
		rates = DefaultRates()
	}
	return &Service{
		orders:    orders,
		carts:     carts,
		products:  products,
		offers:    offers,
		publisher: publisher,
		rates:     rates,
		now:       time.Now,
	}
}

// Checkout creates an order from the user's cart: every line is re-priced
// against the active offers and the variant-resolved reference price, frozen
// into a snapshot, and the cart is cleared. A line referencing a deleted
// product aborts the whole order; an empty cart is rejected before any
// pricing runs.
func (s *Service) Checkout(ctx context.Context, userID string, req CheckoutRequest) (*Order, error) {
	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	if len(c.Items) == 0 {
		return nil, cart.ErrEmpty
	}

	now := s.now()
	offers, err := s.offers.ListActive(ctx, now)
	if err != nil {
		return nil, errors.Wrap(err, "load offers")
	}

	items := make([]Item, 0, len(c.Items))
	subtotal := decimal.Zero
	currency := catalog.DefaultCurrency

	for _, line := range c.Items {
		p, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, &ProductNotFoundError{ProductID: line.ProductID}
			}
			return nil, errors.Wrap(err, "load product")
		}

		base, final, _ := catalog.PriceForVariant(p, offers, line.SizeID, line.ColorID, now)

		item := Item{
			ProductID:   p.ID,
			Name:        p.Name,
			Description: p.Description,
			Images:      p.Images,
			Price:       base,
			FinalPrice:  final,
			Currency:    p.Currency,
			SizeID:      line.SizeID,
			Size:        refName(p.Sizes, line.SizeID),
			ColorID:     line.ColorID,
			Color:       colorRefName(p.Colors, line.ColorID),
			Quantity:    line.Quantity,
		}
		if item.Currency == "" {
			item.Currency = catalog.DefaultCurrency
		}
		items = append(items, item)
		subtotal = subtotal.Add(final.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	if len(items) > 0 {
		currency = items[0].Currency
	}

	shippingCost := s.rates.Cost(req.ShippingType)

	o := &Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           items,
		Subtotal:        subtotal,
		ShippingCost:    shippingCost,
		TotalAmount:     subtotal.Add(shippingCost),
		Currency:        currency,
		Status:          StatusPending,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   PaymentPending,
		ShippingAddress: req.ShippingAddress,
		ShippingType:    req.ShippingType,
		Notes:           req.Notes,
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	// The order row is already persisted; failing the request now would hand
	// the client an error for an order that exists. Clearing is best-effort,
	// like event emission.
	if err := s.carts.Clear(ctx, userID); err != nil {
		zctx.From(ctx).Warn("clear cart after checkout",
			zap.String("order_id", o.ID), zap.Error(err))
	}

	s.publishCreated(ctx, o)
	return o, nil
}

// CheckoutInfo prices the current cart plus shipping without placing an
// order. Unlike Checkout it tolerates stale lines, mirroring the cart view.
func (s *Service) CheckoutInfo(ctx context.Context, userID string, shipping ShippingType) (*CheckoutInfo, error) {
	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}

	now := s.now()
	offers, err := s.offers.ListActive(ctx, now)
	if err != nil {
		return nil, errors.Wrap(err, "load offers")
	}

	subtotal := decimal.Zero
	currency := catalog.DefaultCurrency
	count := 0
	for _, line := range c.Items {
		p, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return nil, errors.Wrap(err, "load product")
		}
		_, final, _ := catalog.PriceForVariant(p, offers, line.SizeID, line.ColorID, now)
		subtotal = subtotal.Add(final.Mul(decimal.NewFromInt(int64(line.Quantity))))
		if count == 0 && p.Currency != "" {
			currency = p.Currency
		}
		count++
	}

	shippingCost := s.rates.Cost(shipping)
	return &CheckoutInfo{
		Subtotal:     subtotal,
		ShippingCost: shippingCost,
		Total:        subtotal.Add(shippingCost),
		Currency:     currency,
		ItemCount:    count,
	}, nil
}

// Get returns one order scoped to its owner.
func (s *Service) Get(ctx context.Context, id, userID string) (*Order, error) {
	return s.orders.GetByUser(ctx, id, userID)
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ListAll returns every order, newest first. Admin only.
func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.orders.ListAll(ctx)
}

// UpdateStatus moves an order through the status machine and publishes the
// change. Invalid transitions return InvalidTransitionError.
func (s *Service) UpdateStatus(ctx context.Context, id string, next Status) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransition(next) {
		return nil, &InvalidTransitionError{From: o.Status, To: next}
	}
	if err := s.orders.UpdateStatus(ctx, id, next); err != nil {
		return nil, errors.Wrap(err, "update order status")
	}
	o.Status = next
	s.publishStatusChanged(ctx, o)
	return o, nil
}

// Event emission is best-effort: a broker outage must not fail the customer
// request.
func (s *Service) publishCreated(ctx context.Context, o *Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.OrderCreated(ctx, o); err != nil {
		zctx.From(ctx).Warn("publish order created",
			zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (s *Service) publishStatusChanged(ctx context.Context, o *Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.OrderStatusChanged(ctx, o); err != nil {
		zctx.From(ctx).Warn("publish order status change",
			zap.String("order_id", o.ID), zap.Error(err))
	}
}

func refName(sizes []catalog.Size, id string) string {
	for _, s := range sizes {
		if s.ID == id {
			return s.Name
		}
	}
	return id
}

func colorRefName(colors []catalog.Color, id string) string {
	for _, c := range colors {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}
