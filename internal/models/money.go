package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when an amount arrives without a currency.
const DefaultCurrency = "PHP"

// Money represents an amount in a single currency.
// Amounts may carry fractions of the minor unit since unit costs are per gram or millilitre.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney builds a Money value, normalising the currency code.
func NewMoney(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}
}

// Mul scales the amount by a quantity.
func (m Money) Mul(qty decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(qty), Currency: m.Currency}
}

// Div divides the amount, used when re-expressing a cost per base unit.
func (m Money) Div(d decimal.Decimal) Money {
	return Money{Amount: m.Amount.Div(d), Currency: m.Currency}
}

// Equal returns true if both amount and currency match.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
