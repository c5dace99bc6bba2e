// Command seed-db applies migrations and loads the juice catalog, plus an
// optional demo shopper account, into a fresh database.
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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/juiceworks/storefront/internal/domain/product"
	"github.com/juiceworks/storefront/internal/domain/user"
	"github.com/juiceworks/storefront/internal/storage/postgres"
)

type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Img         string          `json:"img"`
	Featured    bool            `json:"featured"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		demoEmail    string
		demoPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&demoEmail, "demo-email", "", "email for an optional demo shopper account")
	flag.StringVar(&demoPassword, "demo-password", "", "password for the demo shopper account")
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

	if err := run(ctx, databaseURL, productsFile, demoEmail, demoPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, demoEmail, demoPassword string) error {
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

	if err := seedProducts(ctx, postgres.NewProductRepository(pool), productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if demoEmail != "" {
		if err := seedDemoUser(ctx, postgres.NewUserRepository(pool), demoEmail, demoPassword); err != nil {
			return errors.Wrap(err, "seed demo user")
		}
	}

	return nil
}

func seedProducts(ctx context.Context, products *postgres.ProductRepository, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var items []productJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(items)))

	for _, p := range items {
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}
		if err := products.Upsert(ctx, &product.Product{
			ID:          id,
			Name:        p.Name,
			Price:       p.Price,
			Category:    p.Category,
			Description: p.Description,
			Img:         p.Img,
			Featured:    p.Featured,
			CreatedAt:   time.Now().UTC(),
		}); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.Name)
		}

		slog.Info("upserted product", slog.String("id", id), slog.String("name", p.Name))
	}

	return nil
}

func seedDemoUser(ctx context.Context, users *postgres.UserRepository, email, password string) error {
	if password == "" {
		return errors.New("demo password is required when demo email is set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash demo password")
	}

	err = users.Create(ctx, &user.User{
		ID:           uuid.New().String(),
		Name:         "Demo Shopper",
		Email:        user.NormalizeEmail(email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			slog.Info("demo user already exists", slog.String("email", email))
			return nil
		}
		return errors.Wrap(err, "create demo user")
	}

	slog.Info("created demo user", slog.String("email", email))
	return nil
}
