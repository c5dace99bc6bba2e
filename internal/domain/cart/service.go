package cart

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrMissingFields is returned when an item lacks a name or a price.
var ErrMissingFields = errors.New("item name and price are required")

// Item is the client-supplied payload for adding one unit to the cart.
type Item struct {
	Name  string
	Price string
	Img   string
}

// Service records add events and produces the consolidated per-item view for
// a single owner. Repeated adds of the same item are stored as separate
// events, keeping the write path append-only.
type Service struct {
	events Repository
	now    func() time.Time
}

// NewService creates a cart Service backed by the given event repository.
func NewService(events Repository) *Service {
	return &Service{events: events, now: time.Now}
}

// Add validates the item and appends one event with a server-assigned
// timestamp. It never mutates existing events.
func (s *Service) Add(ctx context.Context, owner string, item Item) error {
	if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.Price) == "" {
		return ErrMissingFields
	}

	e := &Event{
		ID:        uuid.New().String(),
		Owner:     owner,
		Name:      item.Name,
		Price:     item.Price,
		Img:       item.Img,
		CreatedAt: s.now().UTC(),
	}
	if err := s.events.Append(ctx, e); err != nil {
		return errors.Wrap(err, "append cart event")
	}
	return nil
}

// View returns the owner's consolidated cart. An owner with no events gets an
// empty slice, not an error.
func (s *Service) View(ctx context.Context, owner string) ([]Line, error) {
	events, err := s.events.ListByOwner(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "list cart events")
	}
	return Consolidate(events), nil
}

// RemoveOne deletes a single event for the named item, decrementing its
// quantity. Removing an item that is not in the cart reports success.
func (s *Service) RemoveOne(ctx context.Context, owner, name string) error {
	if err := s.events.RemoveOne(ctx, owner, name); err != nil {
		return errors.Wrap(err, "remove cart event")
	}
	return nil
}
