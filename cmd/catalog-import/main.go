// Command catalog-import bulk-loads gzip-compressed supplier feeds into the
// products table. Feeds are JSON Lines files, one product per line, and the
// same SKU routinely shows up in several feeds; the first occurrence wins.
//
// Products get deterministic IDs derived from their SKU, so a re-run of the
// importer never duplicates rows. A bloom filter keyed on SKU skips most
// repeat writes without holding every SKU in memory; at the configured false
// positive rate a vanishing fraction of products may be skipped, which an
// idempotent re-run picks up.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/zahrashop/backend/internal/domain/catalog"
	"github.com/zahrashop/backend/internal/i18n"
	"github.com/zahrashop/backend/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
	maxLineBytes  = 1 << 20
)

// skuNamespace fixes the UUIDv5 namespace so a SKU always maps to the same
// product ID across runs and machines.
var skuNamespace = uuid.MustParse("9a8f6f40-55a1-4a86-9e0e-2f4f6f6b1f11")

type feedProduct struct {
	SKU           string          `json:"sku"`
	Name          i18n.Text       `json:"name"`
	Description   i18n.Text       `json:"description"`
	Images        []string        `json:"images"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	CategoryID    string          `json:"categoryId"`
	SubCategoryID string          `json:"subCategoryId"`
	Kind          string          `json:"kind"`
}

func main() {
	var (
		feedDir     string
		databaseURL string
	)

	flag.StringVar(&feedDir, "feed-dir", "data", "directory containing *.jsonl.gz supplier feeds")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
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

	if err := run(ctx, feedDir, databaseURL); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, feedDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(feedDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "list feed files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.jsonl.gz feeds found in %s", feedDir)
	}

	slog.Info("importing feeds", slog.Int("files", len(files)))

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewProductRepository(pool)
	lines := make(chan feedProduct, 1024)

	g, gctx := errgroup.WithContext(ctx)

	readers, readCtx := errgroup.WithContext(gctx)
	for _, path := range files {
		readers.Go(readFeed(readCtx, path, lines))
	}
	g.Go(func() error {
		defer close(lines)
		return readers.Wait()
	})
	g.Go(writeProducts(gctx, repo, lines))

	return g.Wait()
}

// readFeed streams one gzipped feed file line by line into out.
func readFeed(ctx context.Context, path string, out chan<- feedProduct) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		name := filepath.Base(path)
		scanner := bufio.NewScanner(gz)
		scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

		var count, bad uint64
		for scanner.Scan() {
			var p feedProduct
			if err := json.Unmarshal(scanner.Bytes(), &p); err != nil || p.SKU == "" || p.Name.IsZero() {
				bad++
				continue
			}

			select {
			case out <- p:
			case <-ctx.Done():
				return ctx.Err()
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("feed progress", slog.String("file", name), slog.Uint64("products", count))
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		slog.Info("feed complete",
			slog.String("file", name),
			slog.Uint64("products", count),
			slog.Uint64("malformed", bad),
		)
		return nil
	}
}

// writeProducts is the single consumer: it owns the bloom filter, drops
// duplicate SKUs, and upserts the rest.
func writeProducts(ctx context.Context, repo *postgres.ProductRepository, in <-chan feedProduct) func() error {
	return func() error {
		seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)

		var imported, skipped uint64
		for p := range in {
			if seen.TestString(p.SKU) {
				skipped++
				continue
			}
			seen.AddString(p.SKU)

			inserted, err := repo.Upsert(ctx, toProduct(p))
			if err != nil {
				return errors.Wrapf(err, "upsert sku %s", p.SKU)
			}
			if inserted {
				imported++
			} else {
				skipped++
			}
		}

		slog.Info("write complete",
			slog.Uint64("imported", imported),
			slog.Uint64("skipped", skipped),
		)
		return nil
	}
}

func toProduct(p feedProduct) *catalog.Product {
	prod := &catalog.Product{
		ID:            uuid.NewSHA1(skuNamespace, []byte(p.SKU)).String(),
		Name:          p.Name,
		Description:   p.Description,
		Images:        p.Images,
		Price:         p.Price,
		Currency:      p.Currency,
		CategoryID:    p.CategoryID,
		SubCategoryID: p.SubCategoryID,
		Kind:          catalog.Kind(p.Kind),
		IsActive:      true,
	}
	if prod.Currency == "" {
		prod.Currency = "EGP"
	}
	if prod.Kind == "" {
		prod.Kind = catalog.KindNormal
	}
	return prod
}
