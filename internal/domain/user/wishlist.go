package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/zahrashop/backend/internal/domain/catalog"
	"github.com/zahrashop/backend/internal/domain/pricing"
	"github.com/zahrashop/backend/internal/i18n"
)

// WishlistService toggles products in and out of a user's wishlist and
// renders the wishlist as formatted, discount-applied products.
type WishlistService struct {
	wishlist WishlistRepository
	products catalog.Repository
	offers   pricing.Repository
	now      func() time.Time
}

func NewWishlistService(wishlist WishlistRepository, products catalog.Repository, offers pricing.Repository) *WishlistService {
	return &WishlistService{
		wishlist: wishlist,
		products: products,
		offers:   offers,
		now:      time.Now,
	}
}

// Toggle adds the product to the wishlist when absent and removes it when
// present. It returns true when the product ended up in the wishlist.
func (s *WishlistService) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return false, err
	}

	in, err := s.wishlist.Contains(ctx, userID, productID)
	if err != nil {
		return false, errors.Wrap(err, "check wishlist")
	}
	if in {
		if err := s.wishlist.Remove(ctx, userID, productID); err != nil {
			return false, errors.Wrap(err, "remove from wishlist")
		}
		return false, nil
	}
	if err := s.wishlist.Add(ctx, userID, productID); err != nil {
		return false, errors.Wrap(err, "add to wishlist")
	}
	return true, nil
}

// List returns the wishlisted products as localized, priced views. Products
// that have been deleted since they were favourited are skipped.
func (s *WishlistService) List(ctx context.Context, userID string, lang i18n.Language) ([]catalog.FormattedProduct, error) {
	ids, err := s.wishlist.ListProductIDs(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list wishlist")
	}
	if len(ids) == 0 {
		return []catalog.FormattedProduct{}, nil
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "load wishlist products")
	}

	now := s.now()
	offers, err := s.offers.ListActive(ctx, now)
	if err != nil {
		return nil, errors.Wrap(err, "load offers")
	}

	byID := make(map[string]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	// Preserve the wishlist's own ordering, not the repository's.
	out := make([]catalog.FormattedProduct, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		f := catalog.Format(p, offers, lang, now)
		f.InFavourite = true
		out = append(out, f)
	}
	return out, nil
}
