package cart

import (
	"context"
	"time"
)

// Event is a single "item added to cart" record. Events are append-only:
// once written they are never updated, only deleted (one at a time by
// RemoveOne, or in bulk when an order is placed).
type Event struct {
	ID        string
	Owner     string
	Name      string
	Price     string
	Img       string
	CreatedAt time.Time
}

// Line is the consolidated per-item view of a cart. It is derived from the
// owner's events on every read and never persisted.
type Line struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Img      string `json:"img"`
	Quantity int    `json:"quantity"`
}

// Repository defines persistence operations for cart events. All queries are
// scoped by owner; events of different owners never interact.
type Repository interface {
	Append(ctx context.Context, e *Event) error
	ListByOwner(ctx context.Context, owner string) ([]Event, error)
	// RemoveOne deletes the most recently added event matching owner and
	// name. Deleting from an empty group is a no-op, not an error.
	RemoveOne(ctx context.Context, owner, name string) error
}

// Consolidate groups raw add events into per-item lines. Quantity is the
// number of events sharing a name; price and image come from the first
// event of each group, and groups appear in order of first occurrence.
func Consolidate(events []Event) []Line {
	index := make(map[string]int, len(events))
	lines := make([]Line, 0, len(events))

	for _, e := range events {
		if i, ok := index[e.Name]; ok {
			lines[i].Quantity++
			continue
		}
		index[e.Name] = len(lines)
		lines = append(lines, Line{
			Name:     e.Name,
			Price:    e.Price,
			Img:      e.Img,
			Quantity: 1,
		})
	}

	return lines
}
