// Package content holds marketing surfaces: banners, stories and the
// aggregated home feed.
package content

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/zahrashop/backend/internal/domain/catalog"
	"github.com/zahrashop/backend/internal/i18n"
)

var (
	ErrBannerNotFound = errors.New("banner not found")
	ErrStoryNotFound  = errors.New("story not found")
)

// Banner is a promotional image shown on the home screen, optionally bound
// to a display window.
type Banner struct {
	ID        string
	Title     i18n.Text
	Image     string
	Link      string
	Order     int
	StartDate *time.Time
	EndDate   *time.Time
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActiveAt reports whether the banner should be displayed at t. A nil window
// edge is open.
func (b Banner) ActiveAt(t time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.StartDate != nil && t.Before(*b.StartDate) {
		return false
	}
	if b.EndDate != nil && t.After(*b.EndDate) {
		return false
	}
	return true
}

// Story is a short-lived promotional tile, optionally pointing at a product.
type Story struct {
	ID        string
	Title     i18n.Text
	Image     string
	ProductID string
	IsActive  bool
	CreatedAt time.Time
}

// StoryView is a story with per-user seen state.
type StoryView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	ProductID string    `json:"productId,omitempty"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"createdAt"`
}

// BannerView is the localized banner projection.
type BannerView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
	Link  string `json:"link,omitempty"`
	Order int    `json:"order"`
}

// BannerRepository defines persistence operations for banners.
type BannerRepository interface {
	// ListActive returns banners whose window contains now, ordered by
	// Order ascending then newest first.
	ListActive(ctx context.Context, now time.Time) ([]Banner, error)
	List(ctx context.Context) ([]Banner, error)
	GetByID(ctx context.Context, id string) (*Banner, error)
	Create(ctx context.Context, b *Banner) error
	Update(ctx context.Context, b *Banner) error
	Delete(ctx context.Context, id string) error
}

// StoryRepository defines persistence operations for stories and their
// per-user seen sets.
type StoryRepository interface {
	// ListActive returns the newest active stories, at most limit.
	ListActive(ctx context.Context, limit int) ([]Story, error)
	// SeenIDs returns which of the given story IDs the user has seen.
	SeenIDs(ctx context.Context, userID string, storyIDs []string) (map[string]bool, error)
	// MarkSeen records that the user has viewed the story. Idempotent.
	MarkSeen(ctx context.Context, userID, storyID string) error
	List(ctx context.Context) ([]Story, error)
	GetByID(ctx context.Context, id string) (*Story, error)
	Create(ctx context.Context, s *Story) error
	Update(ctx context.Context, s *Story) error
	Delete(ctx context.Context, id string) error
}

// FeedRepository answers the home feed's product queries.
type FeedRepository interface {
	// Popular returns active products flagged popular or with views,
	// ordered by views descending then newest, at most limit.
	Popular(ctx context.Context, limit int) ([]catalog.Product, error)
	// Recommended returns products matching the user's purchase category
	// history, falling back to flagged-recommended then newest, at most
	// limit. An empty userID skips the history pass.
	Recommended(ctx context.Context, userID string, limit int) ([]catalog.Product, error)
}
