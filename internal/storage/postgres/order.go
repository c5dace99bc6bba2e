package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juiceworks/storefront/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders
	(id, owner_email, recipient_name, phone, address, payment_mode, lines, total, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	clearCartEventsSQL = `DELETE FROM cart_events WHERE owner_email = $1`

	listOrdersSQL = `SELECT id, owner_email, recipient_name, phone, address, payment_mode, lines, total, created_at
	FROM orders WHERE owner_email = $1 ORDER BY created_at DESC, id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Place persists the order and clears the owner's cart events in a single
// transaction. The line snapshot is serialized to JSON for the JSONB column.
func (r *OrderRepository) Place(ctx context.Context, o *order.Order) error {
	linesJSON, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("marshaling order lines: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning place transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, createOrderSQL,
		o.ID, o.Owner, o.RecipientName, o.Phone, o.Address, o.PaymentMode,
		linesJSON, o.Total, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	if _, err := tx.Exec(ctx, clearCartEventsSQL, o.Owner); err != nil {
		return fmt.Errorf("clearing cart for %q: %w", o.Owner, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.ID, err)
	}
	return nil
}

// ListByOwner returns the owner's orders, most recent first.
func (r *OrderRepository) ListByOwner(ctx context.Context, owner string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL, owner)
	if err != nil {
		return nil, fmt.Errorf("listing orders for %q: %w", owner, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		linesJSON []byte
	)
	err := row.Scan(
		&o.ID, &o.Owner, &o.RecipientName, &o.Phone, &o.Address, &o.PaymentMode,
		&linesJSON, &o.Total, &o.CreatedAt,
	)
	if err != nil {
		return o, err
	}
	if err := json.Unmarshal(linesJSON, &o.Lines); err != nil {
		return o, fmt.Errorf("unmarshaling lines of order %q: %w", o.ID, err)
	}
	return o, nil
}
