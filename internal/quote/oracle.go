package quote

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Quote is one price lookup result. Symbol is the canonical upper-case
// ticker as the provider knows it.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// Oracle resolves a ticker symbol to its current price and display name.
type Oracle interface {
	Lookup(symbol string) (Quote, error)
}

// ErrNotFound means the provider has no such ticker. Any other lookup
// failure is a transport or provider problem.
var ErrNotFound = errors.New("quote: symbol not found")
