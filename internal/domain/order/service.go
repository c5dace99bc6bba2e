package order

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/juiceworks/storefront/internal/domain/cart"
)

// Sentinel errors for order placement.
var (
	ErrMissingFields = errors.New("recipient name, phone and address are required")
	ErrEmptyCart     = errors.New("cart is empty")
)

// DefaultPaymentMode is used when checkout does not name a payment mode.
const DefaultPaymentMode = "Cash on Delivery"

// CheckoutInfo holds the checkout form input for placing an order.
type CheckoutInfo struct {
	RecipientName string
	Phone         string
	Address       string
	PaymentMode   string
}

// Service turns a consolidated cart into a durable order and clears the cart.
//
// Two concurrent Place calls for the same owner may both observe the same
// non-empty cart and both succeed, creating two orders; the cart clear itself
// is safe to race. This is accepted behavior, not a defect the service guards
// against.
type Service struct {
	carts  CartViewer
	orders Repository
	now    func() time.Time
}

// NewService creates an order Service with the required dependencies.
func NewService(carts CartViewer, orders Repository) *Service {
	return &Service{carts: carts, orders: orders, now: time.Now}
}

// Place validates the checkout input, snapshots the consolidated cart,
// computes the total, and persists the order while clearing the cart.
// Validation failures leave the cart untouched.
func (s *Service) Place(ctx context.Context, owner string, info CheckoutInfo) (*Order, error) {
	if strings.TrimSpace(info.RecipientName) == "" ||
		strings.TrimSpace(info.Phone) == "" ||
		strings.TrimSpace(info.Address) == "" {
		return nil, ErrMissingFields
	}

	lines, err := s.carts.View(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "view cart")
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	total, err := Total(lines)
	if err != nil {
		return nil, err
	}

	paymentMode := info.PaymentMode
	if paymentMode == "" {
		paymentMode = DefaultPaymentMode
	}

	o := &Order{
		ID:            uuid.New().String(),
		Owner:         owner,
		RecipientName: info.RecipientName,
		Phone:         info.Phone,
		Address:       info.Address,
		PaymentMode:   paymentMode,
		Lines:         lines,
		Total:         total,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.orders.Place(ctx, o); err != nil {
		return nil, errors.Wrap(err, "place order")
	}

	return o, nil
}

// ListForOwner returns the owner's placed orders, most recent first.
func (s *Service) ListForOwner(ctx context.Context, owner string) ([]Order, error) {
	orders, err := s.orders.ListByOwner(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

// Total sums numeric price × quantity across consolidated cart lines.
func Total(lines []cart.Line) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, ln := range lines {
		amount, err := cart.ParsePrice(ln.Price)
		if err != nil {
			return decimal.Zero, errors.Wrapf(err, "price of %q", ln.Name)
		}
		total = total.Add(amount.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	return total, nil
}
