package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juiceworks/storefront/internal/domain/cart"
)

const (
	appendCartEventSQL = `INSERT INTO cart_events (id, owner_email, name, price, img, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

	listCartEventsSQL = `SELECT id, owner_email, name, price, img, created_at
	FROM cart_events WHERE owner_email = $1 ORDER BY created_at, id`

	// Deletes the single most recent event for the item; the subquery keeps
	// the statement a no-op when nothing matches.
	removeOneCartEventSQL = `DELETE FROM cart_events WHERE id = (
	SELECT id FROM cart_events
	WHERE owner_email = $1 AND name = $2
	ORDER BY created_at DESC, id DESC LIMIT 1)`
)

var _ cart.Repository = (*CartEventRepository)(nil)

// CartEventRepository implements cart.Repository backed by PostgreSQL.
type CartEventRepository struct {
	pool *pgxpool.Pool
}

// NewCartEventRepository returns a CartEventRepository that uses the given pool.
func NewCartEventRepository(pool *pgxpool.Pool) *CartEventRepository {
	return &CartEventRepository{pool: pool}
}

// Append persists one add event. Events are never updated afterwards.
func (r *CartEventRepository) Append(ctx context.Context, e *cart.Event) error {
	_, err := r.pool.Exec(ctx, appendCartEventSQL,
		e.ID, e.Owner, e.Name, e.Price, e.Img, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("appending cart event for %q: %w", e.Owner, err)
	}
	return nil
}

// ListByOwner returns the owner's events in insertion order.
func (r *CartEventRepository) ListByOwner(ctx context.Context, owner string) ([]cart.Event, error) {
	rows, err := r.pool.Query(ctx, listCartEventsSQL, owner)
	if err != nil {
		return nil, fmt.Errorf("listing cart events for %q: %w", owner, err)
	}
	return pgx.CollectRows(rows, scanCartEvent)
}

// RemoveOne deletes the most recent event matching owner and name. Zero rows
// affected is success, matching the idempotent decrement contract.
func (r *CartEventRepository) RemoveOne(ctx context.Context, owner, name string) error {
	_, err := r.pool.Exec(ctx, removeOneCartEventSQL, owner, name)
	if err != nil {
		return fmt.Errorf("removing cart event %q for %q: %w", name, owner, err)
	}
	return nil
}

func scanCartEvent(row pgx.CollectableRow) (cart.Event, error) {
	var e cart.Event
	err := row.Scan(&e.ID, &e.Owner, &e.Name, &e.Price, &e.Img, &e.CreatedAt)
	return e, err
}
