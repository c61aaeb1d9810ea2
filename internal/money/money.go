// Package money provides a currency tagged decimal amount.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrCurrencyMismatch is returned when combining amounts of different currencies
var ErrCurrencyMismatch = errors.New("currency mismatch")

// grouping renders whole amounts with "," thousands separators
var grouping = message.NewPrinter(language.English)

var symbols = map[string]string{
	"PHP": "₱",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
}

// Money is an amount in a single currency
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// New returns an amount tagged with currency (ISO 4217, upper cased)
func New(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}
}

// FromNumeric converts a stored NUMERIC amount. NULL converts to zero.
func FromNumeric(n pgtype.Numeric, currency string) (Money, error) {
	if !n.Valid {
		return Zero(currency), nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return Money{}, errors.New("amount is not a finite number")
	}
	if n.Int == nil {
		return Zero(currency), nil
	}
	return New(decimal.NewFromBigInt(n.Int, n.Exp), currency), nil
}

// Zero returns a zero amount in currency
func Zero(currency string) Money {
	return New(decimal.Zero, currency)
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Add returns m + other
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub returns m - other
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// Cmp compares m and other: -1 if m < other, 0 if equal, +1 if m > other
func (m Money) Cmp(other Money) (int, error) {
	if m.Currency != other.Currency {
		return 0, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return m.Amount.Cmp(other.Amount), nil
}

// Equal reports whether both amount and currency match
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// String renders the amount with its currency symbol, thousands separators
// and two decimals, e.g. "₱700,000.00"
func (m Money) String() string {
	prefix, ok := symbols[m.Currency]
	if !ok {
		prefix = m.Currency + " "
	}

	amount := m.Amount
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	// amounts beyond int64 are not prices
	rounded := amount.Round(2)
	whole := rounded.IntPart()
	cents := rounded.Sub(decimal.NewFromInt(whole)).StringFixed(2)
	return sign + prefix + grouping.Sprintf("%d", whole) + strings.TrimPrefix(cents, "0")
}

// PriceRange renders "min - max"
func PriceRange(minPrice, maxPrice Money) string {
	return minPrice.String() + " - " + maxPrice.String()
}
