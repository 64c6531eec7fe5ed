// Command seed-db loads the reference data and demo catalog into the
// database. It is idempotent: every write is an upsert keyed on a fixed ID,
// so re-running it after a schema change is safe.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/zahrashop/backend/internal/domain/catalog"
	"github.com/zahrashop/backend/internal/i18n"
	"github.com/zahrashop/backend/internal/storage/postgres"
)

type catalogFile struct {
	Users         []userJSON        `json:"users"`
	Sizes         []sizeJSON        `json:"sizes"`
	Colors        []colorJSON       `json:"colors"`
	Categories    []categoryJSON    `json:"categories"`
	SubCategories []subCategoryJSON `json:"subCategories"`
	Products      []productJSON     `json:"products"`
	Offers        []offerJSON       `json:"offers"`
	Banners       []bannerJSON      `json:"banners"`
	Stories       []storyJSON       `json:"stories"`
}

type userJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type sizeJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type colorJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	HexCode string `json:"hexCode"`
}

type categoryJSON struct {
	ID    string    `json:"id"`
	Name  i18n.Text `json:"name"`
	Image string    `json:"image"`
}

type subCategoryJSON struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"categoryId"`
	Name       i18n.Text `json:"name"`
	Image      string    `json:"image"`
}

type productJSON struct {
	ID            string            `json:"id"`
	Name          i18n.Text         `json:"name"`
	Description   i18n.Text         `json:"description"`
	Images        []string          `json:"images"`
	Price         decimal.Decimal   `json:"price"`
	Currency      string            `json:"currency"`
	CategoryID    string            `json:"categoryId"`
	SubCategoryID string            `json:"subCategoryId"`
	SizeIDs       []string          `json:"sizeIds"`
	ColorIDs      []string          `json:"colorIds"`
	Variants      []catalog.Variant `json:"variants"`
	Kind          string            `json:"kind"`
}

type offerJSON struct {
	ID            string          `json:"id"`
	Title         i18n.Text       `json:"title"`
	Image         string          `json:"image"`
	Scope         string          `json:"scope"`
	ProductID     string          `json:"productId"`
	CategoryID    string          `json:"categoryId"`
	SubCategoryID string          `json:"subCategoryId"`
	Type          string          `json:"type"`
	Value         decimal.Decimal `json:"value"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
}

type bannerJSON struct {
	ID        string     `json:"id"`
	Title     i18n.Text  `json:"title"`
	Image     string     `json:"image"`
	Link      string     `json:"link"`
	Order     int        `json:"order"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

type storyJSON struct {
	ID        string    `json:"id"`
	Title     i18n.Text `json:"title"`
	Image     string    `json:"image"`
	ProductID string    `json:"productId"`
}

func main() {
	var (
		databaseURL string
		catalogPath string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogPath, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogPath); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogPath string) error {
	slog.Info("reading catalog file", slog.String("path", catalogPath))

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}

	var c catalogFile
	if err := json.Unmarshal(data, &c); err != nil {
		return errors.Wrap(err, "parse catalog JSON")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	for _, step := range []struct {
		name string
		fn   func(context.Context, *pgxpool.Pool, catalogFile) error
	}{
		{"users", seedUsers},
		{"sizes", seedSizes},
		{"colors", seedColors},
		{"categories", seedCategories},
		{"sub-categories", seedSubCategories},
		{"products", seedProducts},
		{"offers", seedOffers},
		{"banners", seedBanners},
		{"stories", seedStories},
	} {
		if err := step.fn(ctx, pool, c); err != nil {
			return errors.Wrap(err, "seed "+step.name)
		}
	}

	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, c catalogFile) error {
	slog.Info("upserting users", slog.Int("count", len(c.Users)))

	const q = `INSERT INTO users (id, name, email, phone, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = $2, email = $3, phone = $4, role = $5`
	for _, u := range c.Users {
		role := u.Role
		if role == "" {
			role = "user"
		}
		if _, err := pool.Exec(ctx, q, u.ID, u.Name, u.Email, u.Phone, role); err != nil {
			return errors.Wrapf(err, "user %s", u.Email)
		}
	}
	return nil
}

func seedSizes(ctx context.Context, pool *pgxpool.Pool, c catalogFile) error {
	slog.Info("upserting sizes", slog.Int("count", len(c.Sizes)))

	const q = `INSERT INTO sizes (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = $2`
	for _, s := range c.Sizes {
		if _, err := pool.Exec(ctx, q, s.ID, s.Name); err != nil {
			return errors.Wrapf(err, "size %s", s.Name)
		}
	}
	return nil
}

func seedColors(ctx context.Context, pool *pgxpool.Pool, c catalogFile) error {
	slog.Info("upserting colors", slog.Int("count", len(c.Colors)))

	const q = `INSERT INTO colors (id, name, hex_code) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = $2, hex_code = $3`
	for _, col := range c.Colors {
		if _, err := pool.Exec(ctx, q, col.ID, col.Name, col.HexCode); err != nil {
			return errors.Wrapf(err, "color %s", col.Name)
		}
	}
	return nil
}

func seedCategories(ctx context.Context, pool *pgxpool.Pool, c catalogFile) error {
	slog.Info("upserting categories", slog.Int("count", len(c.Categories)))

	const q = `INSERT INTO categories (id, name, image) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = $2, image = $3`
	for _, cat := range c.Categories {
		if _, err := pool.Exec(ctx, q, cat.ID, cat.Name, cat.Image); err != nil {
			return errors.Wrapf(err, "category %s", cat.Name.EN)
		}
	}
	return nil
}

func seedSubCategories(ctx context.Context, pool *pgxpool.Pool, c catalogFile) error {
	slog.Info("upserting sub-categories", slog.Int("count", len(c.SubCategories)))

	const q = `INSERT INTO sub_categories (id, category_id, name, image) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET category_id = $2, name = $3, image = $4`
	for _, sc := range c.SubCategories {
		if _, err := pool.Exec(ctx, q, sc.ID, sc.CategoryID, sc.Name, sc.Image); err != nil {
			return errors.Wrapf(err, "sub-category %s", sc.Name.EN)
		}
	}
	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, c catalogFile) error {
	slog.Info("upserting products", slog.Int("count", len(c.Products)))

	repo := postgres.NewProductRepository(pool)
	for _, p := range c.Products {
		prod := toProduct(p)
		inserted, err := repo.Upsert(ctx, prod)
		if err != nil {
			return errors.Wrapf(err, "product %s", p.Name.EN)
		}
		if !inserted {
			if err := repo.Update(ctx, prod); err != nil {
				return errors.Wrapf(err, "product %s", p.Name.EN)
			}
		}
		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name.EN))
	}
	return nil
}

func toProduct(p productJSON) *catalog.Product {
	prod := &catalog.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Images:        p.Images,
		Price:         p.Price,
		Currency:      p.Currency,
		CategoryID:    p.CategoryID,
		SubCategoryID: p.SubCategoryID,
		Variants:      p.Variants,
		Kind:          catalog.Kind(p.Kind),
		IsActive:      true,
	}
	if prod.Currency == "" {
		prod.Currency = "EGP"
	}
	if prod.Kind == "" {
		prod.Kind = catalog.KindNormal
	}
	for _, id := range p.SizeIDs {
		prod.Sizes = append(prod.Sizes, catalog.Size{ID: id})
	}
	for _, id := range p.ColorIDs {
		prod.Colors = append(prod.Colors, catalog.Color{ID: id})
	}
	return prod
}

func seedOffers(ctx context.Context, pool *pgxpool.Pool, c catalogFile) error {
	slog.Info("upserting offers", slog.Int("count", len(c.Offers)))

	const q = `INSERT INTO offers
		(id, title, image, scope, product_id, category_id, sub_category_id, type, value, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
		title = $2, image = $3, scope = $4, product_id = $5, category_id = $6,
		sub_category_id = $7, type = $8, value = $9, start_date = $10, end_date = $11`
	for _, o := range c.Offers {
		if _, err := pool.Exec(ctx, q,
			o.ID, o.Title, o.Image, o.Scope,
			orNil(o.ProductID), orNil(o.CategoryID), orNil(o.SubCategoryID),
			o.Type, o.Value, o.StartDate, o.EndDate,
		); err != nil {
			return errors.Wrapf(err, "offer %s", o.Title.EN)
		}
	}
	return nil
}

func seedBanners(ctx context.Context, pool *pgxpool.Pool, c catalogFile) error {
	slog.Info("upserting banners", slog.Int("count", len(c.Banners)))

	const q = `INSERT INTO banners (id, title, image, link, display_order, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
		title = $2, image = $3, link = $4, display_order = $5, start_date = $6, end_date = $7`
	for _, b := range c.Banners {
		if _, err := pool.Exec(ctx, q,
			b.ID, b.Title, b.Image, b.Link, b.Order, b.StartDate, b.EndDate,
		); err != nil {
			return errors.Wrapf(err, "banner %s", b.Title.EN)
		}
	}
	return nil
}

func seedStories(ctx context.Context, pool *pgxpool.Pool, c catalogFile) error {
	slog.Info("upserting stories", slog.Int("count", len(c.Stories)))

	const q = `INSERT INTO stories (id, title, image, product_id) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET title = $2, image = $3, product_id = $4`
	for _, s := range c.Stories {
		if _, err := pool.Exec(ctx, q, s.ID, s.Title, s.Image, orNil(s.ProductID)); err != nil {
			return errors.Wrapf(err, "story %s", s.Title.EN)
		}
	}
	return nil
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
