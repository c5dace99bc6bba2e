// Command catalog-import bulk-loads product catalogs from JSON dumps into the
// database. Each input file holds a JSON array of products; files ending in
// .gz are decompressed on the fly. Prices may be plain numbers or display
// strings like "₹149". Files are processed concurrently and products are
// upserted by name, so re-running an import is safe.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/juiceworks/storefront/internal/domain/cart"
	"github.com/juiceworks/storefront/internal/domain/product"
	"github.com/juiceworks/storefront/internal/storage/postgres"
)

const progressEvery = 1000

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
	files := flag.Args()
	if len(files) == 0 {
		slog.Error("usage: catalog-import [flags] file.json [file2.json.gz ...]")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, files); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewProductRepository(pool)

	var total atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range files {
		g.Go(func() error {
			count, err := importFile(ctx, repo, f)
			if err != nil {
				return errors.Wrapf(err, "import %s", f)
			}
			total.Add(count)
			slog.Info("file imported", slog.String("path", f), slog.Int64("products", count))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("all files imported", slog.Int64("products", total.Load()))
	return nil
}

func importFile(ctx context.Context, repo *postgres.ProductRepository, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "open")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return 0, errors.Wrap(err, "open gzip stream")
		}
		defer gz.Close()
		r = gz
	}

	var count int64
	d := jx.Decode(r, 64*1024)
	err = d.Arr(func(d *jx.Decoder) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		if err := repo.Upsert(ctx, p); err != nil {
			return err
		}

		count++
		if count%progressEvery == 0 {
			slog.Info("import progress", slog.String("path", path), slog.Int64("products", count))
		}
		return nil
	})
	return count, err
}

// decodeProduct reads one product object from the stream. Unknown keys are
// skipped so dumps with extra fields import cleanly.
func decodeProduct(d *jx.Decoder) (*product.Product, error) {
	p := &product.Product{CreatedAt: time.Now().UTC()}

	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Str()
		case "name":
			p.Name, err = d.Str()
		case "price":
			p.Price, err = decodePrice(d)
		case "category":
			p.Category, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "img":
			p.Img, err = d.Str()
		case "featured":
			p.Featured, err = d.Bool()
		default:
			return d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if p.Name == "" {
		return nil, errors.New("product name is required")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return p, nil
}

// decodePrice accepts both JSON numbers and display strings like "₹149".
func decodePrice(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		return cart.ParsePrice(s)
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(n.String())
	default:
		return decimal.Zero, errors.Errorf("unexpected price type %v", d.Next())
	}
}
