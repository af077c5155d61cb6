// Command coupon-ingest bulk-loads stored coupon files into the coupons
// table. Each file holds one coupon per line in the form
//
//	code;percent[;value]
//
// and may be gzip-compressed (.gz suffix). Files are parsed concurrently;
// codes seen in an earlier file win over later duplicates.
package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tableside/restaurant-orders/internal/domain/coupon"
	"github.com/tableside/restaurant-orders/internal/repository"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	batchSize     = 500
)

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if flag.NArg() == 0 {
		slog.Error("at least one coupon file is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, flag.Args()); err != nil {
		slog.Error("coupon ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("coupon ingest completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string) error {
	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Parse all files concurrently, keeping per-file results so the merge
	// order stays deterministic.
	parsed := make([][]coupon.Coupon, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			coupons, err := parseFile(gctx, file)
			if err != nil {
				return errors.Wrapf(err, "parse %s", file)
			}
			parsed[i] = coupons
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Dedupe across files with a bloom filter; the rare false positive
	// only costs a redundant exact-set lookup.
	filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	seen := make(map[string]struct{})
	repo := repository.NewCouponRepository(pool)

	var (
		batch []coupon.Coupon
		total int
	)
	for _, coupons := range parsed {
		for _, c := range coupons {
			key := strings.ToUpper(c.Code)
			if filter.TestString(key) {
				if _, dup := seen[key]; dup {
					continue
				}
			}
			filter.AddString(key)
			seen[key] = struct{}{}

			batch = append(batch, c)
			if len(batch) >= batchSize {
				if err := repo.UpsertBatch(ctx, batch); err != nil {
					return err
				}
				total += len(batch)
				batch = batch[:0]
			}
		}
	}
	if len(batch) > 0 {
		if err := repo.UpsertBatch(ctx, batch); err != nil {
			return err
		}
		total += len(batch)
	}

	slog.Info("coupons stored", slog.Int("count", total))
	return nil
}

// parseFile reads coupons from a plain or gzip-compressed file.
func parseFile(ctx context.Context, path string) ([]coupon.Coupon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip stream")
		}
		defer gz.Close()
		r = gz
	}

	var coupons []coupon.Coupon

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if line%10_000 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		c, err := parseLine(text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		coupons = append(coupons, *c)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return coupons, nil
}

func parseLine(text string) (*coupon.Coupon, error) {
	parts := strings.Split(text, ";")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, errors.Errorf("malformed entry %q", text)
	}

	code := strings.TrimSpace(parts[0])
	if code == "" {
		return nil, errors.Errorf("empty code in %q", text)
	}

	percent, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, errors.Wrapf(err, "percent in %q", text)
	}

	value := decimal.Zero
	if len(parts) == 3 {
		value, err = decimal.NewFromString(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, errors.Wrapf(err, "value in %q", text)
		}
	}

	return coupon.New(code, value, percent)
}
