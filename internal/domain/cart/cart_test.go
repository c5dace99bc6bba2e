package cart

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockEventRepo struct {
	events    []Event
	appendErr error
	listErr   error
	removeErr error
}

func (m *mockEventRepo) Append(_ context.Context, e *Event) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.events = append(m.events, *e)
	return nil
}

func (m *mockEventRepo) ListByOwner(_ context.Context, owner string) ([]Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []Event
	for _, e := range m.events {
		if e.Owner == owner {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEventRepo) RemoveOne(_ context.Context, owner, name string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].Owner == owner && m.events[i].Name == name {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- Tests ---

func TestAdd_MissingFields(t *testing.T) {
	svc := NewService(&mockEventRepo{})

	err := svc.Add(context.Background(), "a@example.com", Item{Name: "", Price: "₹149"})
	require.ErrorIs(t, err, ErrMissingFields)

	err = svc.Add(context.Background(), "a@example.com", Item{Name: "Juice", Price: "  "})
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestAdd_AppendsOneEventPerCall(t *testing.T) {
	repo := &mockEventRepo{}
	svc := NewService(repo)

	for range 3 {
		err := svc.Add(context.Background(), "a@example.com", Item{
			Name:  "Fresh Valencia Orange Juice",
			Price: "₹149",
			Img:   "ob1.jpg",
		})
		require.NoError(t, err)
	}

	require.Len(t, repo.events, 3)
	for _, e := range repo.events {
		assert.Equal(t, "a@example.com", e.Owner)
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.CreatedAt.IsZero())
	}
	// Every add is a fresh record.
	assert.NotEqual(t, repo.events[0].ID, repo.events[1].ID)
}

func TestView_RepeatedAddsConsolidate(t *testing.T) {
	repo := &mockEventRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "a@example.com", Item{Name: "Fresh Valencia Orange Juice", Price: "₹149"}))
	require.NoError(t, svc.Add(ctx, "a@example.com", Item{Name: "Fresh Valencia Orange Juice", Price: "₹149"}))
	require.NoError(t, svc.Add(ctx, "a@example.com", Item{Name: "Blood Orange Delight", Price: "₹179"}))

	lines, err := svc.View(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "Fresh Valencia Orange Juice", lines[0].Name)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "₹149", lines[0].Price)
	assert.Equal(t, "Blood Orange Delight", lines[1].Name)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestView_EmptyCartIsNotAnError(t *testing.T) {
	svc := NewService(&mockEventRepo{})

	lines, err := svc.View(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestView_OwnerIsolation(t *testing.T) {
	repo := &mockEventRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "a@example.com", Item{Name: "Tangy Mandarin Mix", Price: "₹139"}))
	require.NoError(t, svc.Add(ctx, "b@example.com", Item{Name: "Orange Ginger Boost", Price: "₹189"}))

	aLines, err := svc.View(ctx, "a@example.com")
	require.NoError(t, err)
	bLines, err := svc.View(ctx, "b@example.com")
	require.NoError(t, err)

	require.Len(t, aLines, 1)
	require.Len(t, bLines, 1)
	assert.Equal(t, "Tangy Mandarin Mix", aLines[0].Name)
	assert.Equal(t, "Orange Ginger Boost", bLines[0].Name)
}

func TestRemoveOne_DecrementsAndDropsLine(t *testing.T) {
	repo := &mockEventRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "a@example.com", Item{Name: "Navel Orange Classic", Price: "₹159"}))
	require.NoError(t, svc.Add(ctx, "a@example.com", Item{Name: "Navel Orange Classic", Price: "₹159"}))

	require.NoError(t, svc.RemoveOne(ctx, "a@example.com", "Navel Orange Classic"))

	lines, err := svc.View(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)

	// Removing the last unit drops the line entirely.
	require.NoError(t, svc.RemoveOne(ctx, "a@example.com", "Navel Orange Classic"))
	lines, err = svc.View(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRemoveOne_MissingItemIsIdempotent(t *testing.T) {
	svc := NewService(&mockEventRepo{})
	err := svc.RemoveOne(context.Background(), "a@example.com", "Not In Cart")
	require.NoError(t, err)
}

func TestAdd_RepositoryError(t *testing.T) {
	svc := NewService(&mockEventRepo{appendErr: errors.New("db down")})
	err := svc.Add(context.Background(), "a@example.com", Item{Name: "Juice", Price: "₹10"})
	require.Error(t, err)
}

func TestConsolidate_GroupOrderIsFirstOccurrence(t *testing.T) {
	events := []Event{
		{Name: "A", Price: "₹10"},
		{Name: "B", Price: "₹20"},
		{Name: "A", Price: "₹11"}, // later price ignored, first wins
		{Name: "C", Price: "₹30"},
		{Name: "B", Price: "₹20"},
	}

	lines := Consolidate(events)
	require.Len(t, lines, 3)
	assert.Equal(t, Line{Name: "A", Price: "₹10", Quantity: 2}, lines[0])
	assert.Equal(t, Line{Name: "B", Price: "₹20", Quantity: 2}, lines[1])
	assert.Equal(t, Line{Name: "C", Price: "₹30", Quantity: 1}, lines[2])
}

func TestConsolidate_Empty(t *testing.T) {
	assert.Empty(t, Consolidate(nil))
}
