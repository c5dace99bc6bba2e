package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/juiceworks/storefront/internal/domain/cart"
)

// Order is an immutable snapshot of a placed purchase. Once created it is
// never edited or cancelled; retention is a collaborator concern.
type Order struct {
	ID            string
	Owner         string
	RecipientName string
	Phone         string
	Address       string
	PaymentMode   string
	Lines         []cart.Line
	Total         decimal.Decimal
	CreatedAt     time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Place persists the order and clears the owner's cart events as one
	// storage transaction, so a failed write never leaves an order placed
	// with the cart still populated (or vice versa).
	Place(ctx context.Context, o *Order) error
	// ListByOwner returns the owner's orders, most recent first.
	ListByOwner(ctx context.Context, owner string) ([]Order, error)
}

// CartViewer is the slice of the cart service the order placer reads from.
type CartViewer interface {
	View(ctx context.Context, owner string) ([]cart.Line, error)
}
