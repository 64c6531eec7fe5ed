package content

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/zahrashop/backend/internal/domain/catalog"
	"github.com/zahrashop/backend/internal/domain/pricing"
	"github.com/zahrashop/backend/internal/domain/user"
	"github.com/zahrashop/backend/internal/i18n"
)

const (
	storyLimit = 50
	feedLimit  = 20
)

// OfferView is the localized offer projection used in the home feed.
type OfferView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
}

// CategoryView is the localized category projection.
type CategoryView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// HomeFeed aggregates everything the home screen renders.
type HomeFeed struct {
	Offers      []OfferView                `json:"offers"`
	Stories     []StoryView                `json:"stories"`
	Categories  []CategoryView             `json:"categories"`
	Banners     []BannerView               `json:"banners"`
	Popular     []catalog.FormattedProduct `json:"popularProducts"`
	Recommended []catalog.FormattedProduct `json:"recommendedProducts"`
}

// Service serves banners, stories and the home feed.
type Service struct {
	banners    BannerRepository
	stories    StoryRepository
	feed       FeedRepository
	categories catalog.CategoryRepository
	offers     pricing.Repository
	wishlist   user.WishlistRepository
	now        func() time.Time
}

func NewService(
	banners BannerRepository,
	stories StoryRepository,
	feed FeedRepository,
	categories catalog.CategoryRepository,
	offers pricing.Repository,
	wishlist user.WishlistRepository,
) *Service {
	return &Service{
		banners:    banners,
		stories:    stories,
		feed:       feed,
		categories: categories,
		offers:     offers,
		wishlist:   wishlist,
		now:        time.Now,
	}
}

// Banners returns the currently displayable banners, localized.
func (s *Service) Banners(ctx context.Context, lang i18n.Language) ([]BannerView, error) {
	banners, err := s.banners.ListActive(ctx, s.now())
	if err != nil {
		return nil, errors.Wrap(err, "list banners")
	}
	return formatBanners(banners, lang), nil
}

// Stories returns the latest active stories with the user's seen state.
// An empty userID yields all stories unseen.
func (s *Service) Stories(ctx context.Context, userID string, lang i18n.Language) ([]StoryView, error) {
	stories, err := s.stories.ListActive(ctx, storyLimit)
	if err != nil {
		return nil, errors.Wrap(err, "list stories")
	}
	return s.formatStories(ctx, stories, userID, lang)
}

// MarkStorySeen records a story view for the user. Re-viewing is a no-op.
func (s *Service) MarkStorySeen(ctx context.Context, userID, storyID string) error {
	if _, err := s.stories.GetByID(ctx, storyID); err != nil {
		return err
	}
	return s.stories.MarkSeen(ctx, userID, storyID)
}

// Home builds the aggregated home feed. The six sections are independent
// reads, so they are fetched concurrently; any failure fails the feed.
func (s *Service) Home(ctx context.Context, userID string, lang i18n.Language) (*HomeFeed, error) {
	now := s.now()

	var (
		offers      []pricing.Offer
		stories     []Story
		categories  []catalog.Category
		banners     []Banner
		popular     []catalog.Product
		recommended []catalog.Product
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		offers, err = s.offers.ListActive(ctx, now)
		return errors.Wrap(err, "list offers")
	})
	g.Go(func() (err error) {
		stories, err = s.stories.ListActive(ctx, storyLimit)
		return errors.Wrap(err, "list stories")
	})
	g.Go(func() (err error) {
		categories, err = s.categories.List(ctx, true)
		return errors.Wrap(err, "list categories")
	})
	g.Go(func() (err error) {
		banners, err = s.banners.ListActive(ctx, now)
		return errors.Wrap(err, "list banners")
	})
	g.Go(func() (err error) {
		popular, err = s.feed.Popular(ctx, feedLimit)
		return errors.Wrap(err, "list popular products")
	})
	g.Go(func() (err error) {
		recommended, err = s.feed.Recommended(ctx, userID, feedLimit)
		return errors.Wrap(err, "list recommended products")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	storyViews, err := s.formatStories(ctx, stories, userID, lang)
	if err != nil {
		return nil, err
	}

	feed := &HomeFeed{
		Offers:      formatOffers(offers, lang),
		Stories:     storyViews,
		Categories:  formatCategories(categories, lang),
		Banners:     formatBanners(banners, lang),
		Popular:     catalog.FormatAll(popular, offers, lang, now),
		Recommended: catalog.FormatAll(recommended, offers, lang, now),
	}

	if userID != "" {
		if err := s.annotateWishlist(ctx, userID, feed.Popular, feed.Recommended); err != nil {
			return nil, err
		}
	}
	return feed, nil
}

// Admin passthroughs. Admin surfaces see raw rows, not localized views.

func (s *Service) ListAllBanners(ctx context.Context) ([]Banner, error) {
	return s.banners.List(ctx)
}

func (s *Service) CreateBanner(ctx context.Context, b *Banner) error {
	return s.banners.Create(ctx, b)
}

func (s *Service) UpdateBanner(ctx context.Context, b *Banner) error {
	return s.banners.Update(ctx, b)
}

func (s *Service) DeleteBanner(ctx context.Context, id string) error {
	return s.banners.Delete(ctx, id)
}

func (s *Service) ListAllStories(ctx context.Context) ([]Story, error) {
	return s.stories.List(ctx)
}

func (s *Service) CreateStory(ctx context.Context, st *Story) error {
	return s.stories.Create(ctx, st)
}

func (s *Service) UpdateStory(ctx context.Context, st *Story) error {
	return s.stories.Update(ctx, st)
}

func (s *Service) DeleteStory(ctx context.Context, id string) error {
	return s.stories.Delete(ctx, id)
}

func (s *Service) formatStories(ctx context.Context, stories []Story, userID string, lang i18n.Language) ([]StoryView, error) {
	seen := map[string]bool{}
	if userID != "" && len(stories) > 0 {
		ids := make([]string, len(stories))
		for i, st := range stories {
			ids[i] = st.ID
		}
		var err error
		seen, err = s.stories.SeenIDs(ctx, userID, ids)
		if err != nil {
			return nil, errors.Wrap(err, "load seen stories")
		}
	}

	out := make([]StoryView, 0, len(stories))
	for _, st := range stories {
		out = append(out, StoryView{
			ID:        st.ID,
			Title:     st.Title.Localize(lang),
			Image:     st.Image,
			ProductID: st.ProductID,
			Seen:      seen[st.ID],
			CreatedAt: st.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) annotateWishlist(ctx context.Context, userID string, sections ...[]catalog.FormattedProduct) error {
	ids, err := s.wishlist.ListProductIDs(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "load wishlist")
	}
	if len(ids) == 0 {
		return nil
	}
	favourite := make(map[string]bool, len(ids))
	for _, id := range ids {
		favourite[id] = true
	}
	for _, section := range sections {
		for i := range section {
			section[i].InFavourite = favourite[section[i].ID]
		}
	}
	return nil
}

func formatBanners(banners []Banner, lang i18n.Language) []BannerView {
	out := make([]BannerView, 0, len(banners))
	for _, b := range banners {
		out = append(out, BannerView{
			ID:    b.ID,
			Title: b.Title.Localize(lang),
			Image: b.Image,
			Link:  b.Link,
			Order: b.Order,
		})
	}
	return out
}

func formatOffers(offers []pricing.Offer, lang i18n.Language) []OfferView {
	out := make([]OfferView, 0, len(offers))
	for _, o := range offers {
		out = append(out, OfferView{
			ID:    o.ID,
			Title: o.Title.Localize(lang),
			Image: o.Image,
		})
	}
	return out
}

func formatCategories(categories []catalog.Category, lang i18n.Language) []CategoryView {
	out := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryView{
			ID:    c.ID,
			Name:  c.Name.Localize(lang),
			Image: c.Image,
		})
	}
	return out
}
