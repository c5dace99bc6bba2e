package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item. Price is stored as a structured decimal; the
// "₹149" display string the clients consume is rendered only at the HTTP
// edge.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Category    string
	Description string
	Img         string
	Featured    bool
	CreatedAt   time.Time
}

// Query holds catalog list filters. Zero values mean "no filter".
type Query struct {
	Category  string
	Search    string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Featured  *bool
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Page is one page of catalog results plus the pagination envelope the
// storefront client renders.
type Page struct {
	Products    []Product
	Total       int
	CurrentPage int
	TotalPages  int
	Limit       int
}

// Repository defines catalog operations.
type Repository interface {
	List(ctx context.Context, q Query) (*Page, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Categories(ctx context.Context) ([]string, error)
	// Upsert inserts or updates a product, keyed by name. Used by seeding
	// and bulk import.
	Upsert(ctx context.Context, p *Product) error
}

const (
	defaultLimit = 12
	maxLimit     = 100
)

// Normalize clamps pagination and restricts sort inputs to known columns so
// a Query can be passed straight into SQL building.
func (q *Query) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	switch q.SortBy {
	case "price", "name", "createdAt":
	default:
		q.SortBy = "createdAt"
	}
	switch q.SortOrder {
	case "asc", "desc":
	default:
		q.SortOrder = "desc"
	}
}
