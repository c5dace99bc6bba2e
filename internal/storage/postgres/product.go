package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juiceworks/storefront/internal/domain/product"
)

const (
	productColumns = `id, name, price, category, description, img, featured, created_at`

	getProductByIDSQL = `SELECT id, name, price, category, description, img, featured, created_at
	FROM products WHERE id = $1`

	listCategoriesSQL = `SELECT DISTINCT category FROM products
	WHERE category <> '' ORDER BY category`

	upsertProductSQL = `INSERT INTO products (id, name, price, category, description, img, featured, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (name) DO UPDATE SET
		price = EXCLUDED.price,
		category = EXCLUDED.category,
		description = EXCLUDED.description,
		img = EXCLUDED.img,
		featured = EXCLUDED.featured`
)

// sortColumns maps API sort keys to real columns. Keys are pre-whitelisted by
// Query.Normalize, the map is the single place the translation lives.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
}

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns one page of catalog results matching the query filters.
func (r *ProductRepository) List(ctx context.Context, q product.Query) (*product.Page, error) {
	q.Normalize()

	var (
		conds []string
		args  []any
	)
	arg := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if q.Category != "" {
		arg("category = $%d", q.Category)
	}
	if q.Search != "" {
		arg("name ILIKE $%d", "%"+q.Search+"%")
	}
	if q.MinPrice != nil {
		arg("price >= $%d", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		arg("price <= $%d", *q.MaxPrice)
	}
	if q.Featured != nil {
		arg("featured = $%d", *q.Featured)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countSQL := `SELECT COUNT(*) FROM products` + where
	if err := r.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}

	sortDir := "DESC"
	if q.SortOrder == "asc" {
		sortDir = "ASC"
	}
	listSQL := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s %s, id LIMIT $%d OFFSET $%d`,
		productColumns, where, sortColumns[q.SortBy], sortDir, len(args)+1, len(args)+2)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.pool.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	totalPages := (total + q.Limit - 1) / q.Limit
	if totalPages < 1 {
		totalPages = 1
	}

	return &product.Page{
		Products:    products,
		Total:       total,
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		Limit:       q.Limit,
	}, nil
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// Categories returns the distinct non-empty category names.
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var c string
		err := row.Scan(&c)
		return c, err
	})
}

// Upsert inserts or updates a product keyed by its unique name.
func (r *ProductRepository) Upsert(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name, p.Price, p.Category, p.Description, p.Img, p.Featured, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.Name, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Category, &p.Description, &p.Img,
		&p.Featured, &p.CreatedAt,
	)
	return p, err
}
