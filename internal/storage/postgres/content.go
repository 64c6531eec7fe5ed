package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zahrashop/backend/internal/domain/content"
)

const (
	bannerColumns = `id, title, image, link, display_order, start_date, end_date, is_active, created_at, updated_at`

	listActiveBannersSQL = `SELECT ` + bannerColumns + ` FROM banners
	WHERE is_active
	AND (start_date IS NULL OR start_date <= $1)
	AND (end_date IS NULL OR end_date >= $1)
	ORDER BY display_order, created_at DESC`

	listBannersSQL = `SELECT ` + bannerColumns + ` FROM banners ORDER BY display_order, created_at DESC`

	getBannerByIDSQL = `SELECT ` + bannerColumns + ` FROM banners WHERE id = $1`

	createBannerSQL = `INSERT INTO banners (id, title, image, link, display_order, start_date, end_date, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateBannerSQL = `UPDATE banners SET
	title = $2, image = $3, link = $4, display_order = $5, start_date = $6, end_date = $7, is_active = $8, updated_at = now()
	WHERE id = $1`

	deleteBannerSQL = `DELETE FROM banners WHERE id = $1`

	storyColumns = `id, title, image, product_id, is_active, created_at`

	listActiveStoriesSQL = `SELECT ` + storyColumns + ` FROM stories
	WHERE is_active ORDER BY created_at DESC LIMIT $1`

	listStoriesSQL = `SELECT ` + storyColumns + ` FROM stories ORDER BY created_at DESC`

	getStoryByIDSQL = `SELECT ` + storyColumns + ` FROM stories WHERE id = $1`

	createStorySQL = `INSERT INTO stories (id, title, image, product_id, is_active)
	VALUES ($1, $2, $3, $4, $5)`

	updateStorySQL = `UPDATE stories SET title = $2, image = $3, product_id = $4, is_active = $5 WHERE id = $1`

	deleteStorySQL = `DELETE FROM stories WHERE id = $1`

	seenStoryIDsSQL = `SELECT story_id FROM story_views WHERE user_id = $1 AND story_id = ANY($2)`

	markStorySeenSQL = `INSERT INTO story_views (user_id, story_id) VALUES ($1, $2)
	ON CONFLICT DO NOTHING`
)

var (
	_ content.BannerRepository = (*BannerRepository)(nil)
	_ content.StoryRepository  = (*StoryRepository)(nil)
)

// BannerRepository implements content.BannerRepository backed by PostgreSQL.
type BannerRepository struct {
	pool *pgxpool.Pool
}

// NewBannerRepository returns a BannerRepository that uses the given pool.
func NewBannerRepository(pool *pgxpool.Pool) *BannerRepository {
	return &BannerRepository{pool: pool}
}

// ListActive returns banners whose window contains now.
func (r *BannerRepository) ListActive(ctx context.Context, now time.Time) ([]content.Banner, error) {
	rows, err := r.pool.Query(ctx, listActiveBannersSQL, now)
	if err != nil {
		return nil, fmt.Errorf("listing active banners: %w", err)
	}
	return pgx.CollectRows(rows, scanBanner)
}

// List returns every banner in display order.
func (r *BannerRepository) List(ctx context.Context) ([]content.Banner, error) {
	rows, err := r.pool.Query(ctx, listBannersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing banners: %w", err)
	}
	return pgx.CollectRows(rows, scanBanner)
}

// GetByID returns a single banner.
func (r *BannerRepository) GetByID(ctx context.Context, id string) (*content.Banner, error) {
	rows, err := r.pool.Query(ctx, getBannerByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting banner %q: %w", id, err)
	}
	b, err := pgx.CollectExactlyOneRow(rows, scanBanner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, content.ErrBannerNotFound
		}
		return nil, fmt.Errorf("getting banner %q: %w", id, err)
	}
	return &b, nil
}

// Create persists a new banner.
func (r *BannerRepository) Create(ctx context.Context, b *content.Banner) error {
	_, err := r.pool.Exec(ctx, createBannerSQL,
		b.ID, b.Title, b.Image, b.Link, b.Order, b.StartDate, b.EndDate, b.IsActive)
	if err != nil {
		return fmt.Errorf("creating banner %q: %w", b.ID, err)
	}
	return nil
}

// Update rewrites the banner row.
func (r *BannerRepository) Update(ctx context.Context, b *content.Banner) error {
	tag, err := r.pool.Exec(ctx, updateBannerSQL,
		b.ID, b.Title, b.Image, b.Link, b.Order, b.StartDate, b.EndDate, b.IsActive)
	if err != nil {
		return fmt.Errorf("updating banner %q: %w", b.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return content.ErrBannerNotFound
	}
	return nil
}

// Delete removes the banner row.
func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteBannerSQL, id)
	if err != nil {
		return fmt.Errorf("deleting banner %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return content.ErrBannerNotFound
	}
	return nil
}

func scanBanner(row pgx.CollectableRow) (content.Banner, error) {
	var b content.Banner
	err := row.Scan(&b.ID, &b.Title, &b.Image, &b.Link, &b.Order,
		&b.StartDate, &b.EndDate, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// StoryRepository implements content.StoryRepository backed by PostgreSQL.
type StoryRepository struct {
	pool *pgxpool.Pool
}

// NewStoryRepository returns a StoryRepository that uses the given pool.
func NewStoryRepository(pool *pgxpool.Pool) *StoryRepository {
	return &StoryRepository{pool: pool}
}

// ListActive returns the newest active stories, at most limit.
func (r *StoryRepository) ListActive(ctx context.Context, limit int) ([]content.Story, error) {
	rows, err := r.pool.Query(ctx, listActiveStoriesSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("listing active stories: %w", err)
	}
	return pgx.CollectRows(rows, scanStory)
}

// List returns every story, newest first.
func (r *StoryRepository) List(ctx context.Context) ([]content.Story, error) {
	rows, err := r.pool.Query(ctx, listStoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing stories: %w", err)
	}
	return pgx.CollectRows(rows, scanStory)
}

// GetByID returns a single story.
func (r *StoryRepository) GetByID(ctx context.Context, id string) (*content.Story, error) {
	rows, err := r.pool.Query(ctx, getStoryByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting story %q: %w", id, err)
	}
	s, err := pgx.CollectExactlyOneRow(rows, scanStory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, content.ErrStoryNotFound
		}
		return nil, fmt.Errorf("getting story %q: %w", id, err)
	}
	return &s, nil
}

// SeenIDs returns which of the given story IDs the user has seen.
func (r *StoryRepository) SeenIDs(ctx context.Context, userID string, storyIDs []string) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx, seenStoryIDsSQL, userID, storyIDs)
	if err != nil {
		return nil, fmt.Errorf("listing seen stories: %w", err)
	}
	ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning seen stories: %w", err)
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	return seen, nil
}

// MarkSeen records a story view. Idempotent.
func (r *StoryRepository) MarkSeen(ctx context.Context, userID, storyID string) error {
	_, err := r.pool.Exec(ctx, markStorySeenSQL, userID, storyID)
	if err != nil {
		return fmt.Errorf("marking story %q seen: %w", storyID, err)
	}
	return nil
}

// Create persists a new story.
func (r *StoryRepository) Create(ctx context.Context, s *content.Story) error {
	_, err := r.pool.Exec(ctx, createStorySQL,
		s.ID, s.Title, s.Image, nullable(s.ProductID), s.IsActive)
	if err != nil {
		return fmt.Errorf("creating story %q: %w", s.ID, err)
	}
	return nil
}

// Update rewrites the story row.
func (r *StoryRepository) Update(ctx context.Context, s *content.Story) error {
	tag, err := r.pool.Exec(ctx, updateStorySQL,
		s.ID, s.Title, s.Image, nullable(s.ProductID), s.IsActive)
	if err != nil {
		return fmt.Errorf("updating story %q: %w", s.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return content.ErrStoryNotFound
	}
	return nil
}

// Delete removes the story row.
func (r *StoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteStorySQL, id)
	if err != nil {
		return fmt.Errorf("deleting story %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return content.ErrStoryNotFound
	}
	return nil
}

func scanStory(row pgx.CollectableRow) (content.Story, error) {
	var (
		s         content.Story
		productID *string
	)
	err := row.Scan(&s.ID, &s.Title, &s.Image, &productID, &s.IsActive, &s.CreatedAt)
	if err != nil {
		return s, err
	}
	if productID != nil {
		s.ProductID = *productID
	}
	return s, nil
}
