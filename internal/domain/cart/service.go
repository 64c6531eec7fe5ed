package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/zahrashop/backend/internal/domain/catalog"
	"github.com/zahrashop/backend/internal/domain/pricing"
	"github.com/zahrashop/backend/internal/i18n"
)

// Service encapsulates cart business logic.
type Service struct {
	carts    Repository
	products catalog.Repository
	offers   pricing.Repository
	now      func() time.Time
}

// NewService creates a cart Service with the required domain dependencies.
func NewService(carts Repository, products catalog.Repository, offers pricing.Repository) *Service {
	return &Service{
		carts:    carts,
		products: products,
		offers:   offers,
		now:      time.Now,
	}
}

// Add puts quantity units of a product variant into the user's cart.
// The product must exist; the size/color combination is not required to have
// a variant row.
func (s *Service) Add(ctx context.Context, userID string, item Item) error {
	if item.Quantity <= 0 {
		return errors.New("quantity must be greater than 0")
	}
	if _, err := s.products.GetByID(ctx, item.ProductID); err != nil {
		return err
	}
	if err := s.carts.AddItem(ctx, userID, item); err != nil {
		return errors.Wrap(err, "add cart item")
	}
	return nil
}

// SetQuantity replaces the quantity of an existing cart line.
func (s *Service) SetQuantity(ctx context.Context, userID string, item Item) error {
	if item.Quantity <= 0 {
		return errors.New("quantity must be greater than 0")
	}
	return s.carts.SetQuantity(ctx, userID, item)
}

// Remove deletes one cart line.
func (s *Service) Remove(ctx context.Context, userID, productID, sizeID, colorID string) error {
	return s.carts.RemoveItem(ctx, userID, productID, sizeID, colorID)
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}

// Get returns the priced cart view. Lines referencing a product that no
// longer exists are dropped from the result; this is a listing context, so
// stale references degrade instead of failing (checkout is the strict path).
func (s *Service) Get(ctx context.Context, userID string, lang i18n.Language) (*PricedCart, error) {
	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}

	now := s.now()
	offers, err := s.offers.ListActive(ctx, now)
	if err != nil {
		return nil, errors.Wrap(err, "load offers")
	}

	priced := &PricedCart{
		Items: make([]PricedItem, 0, len(c.Items)),
		Total: decimal.Zero,
	}

	for _, item := range c.Items {
		p, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return nil, errors.Wrap(err, "load cart product")
		}

		formatted := catalog.Format(p, offers, lang, now)
		// The discount pass runs against the variant-resolved price, so a
		// size/color override keeps the same offer logic as the base price.
		_, unit, _ := catalog.PriceForVariant(p, offers, item.SizeID, item.ColorID, now)

		subtotal := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		priced.Items = append(priced.Items, PricedItem{
			ProductID: item.ProductID,
			Product:   formatted,
			SizeID:    item.SizeID,
			Size:      sizeName(p, item.SizeID),
			ColorID:   item.ColorID,
			Color:     colorName(p, item.ColorID),
			Quantity:  item.Quantity,
			UnitPrice: unit,
			Subtotal:  subtotal,
		})
		priced.Total = priced.Total.Add(subtotal)
	}

	priced.Currency = catalog.DefaultCurrency
	if len(priced.Items) > 0 {
		priced.Currency = priced.Items[0].Product.Currency
	}
	return priced, nil
}

func sizeName(p *catalog.Product, sizeID string) string {
	for _, s := range p.Sizes {
		if s.ID == sizeID {
			return s.Name
		}
	}
	return sizeID
}

func colorName(p *catalog.Product, colorID string) string {
	for _, c := range p.Colors {
		if c.ID == colorID {
			return c.Name
		}
	}
	return colorID
}
