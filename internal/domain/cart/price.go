package cart

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrBadPrice is returned when a price string carries no numeric value.
var ErrBadPrice = errors.New("price has no numeric value")

// ParsePrice extracts the numeric amount from a display price such as "₹149".
// Every non-digit rune is stripped and the remainder is read as an integer
// amount, matching how the storefront formats prices at the boundary.
func ParsePrice(s string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return decimal.Zero, errors.Wrapf(ErrBadPrice, "parse %q", s)
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse %q", s)
	}
	return d, nil
}
