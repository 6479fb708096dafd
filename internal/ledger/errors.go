package ledger

import "errors"

// Every rejected operation surfaces as one of these sentinels so callers
// can map them to a response without string matching. Storage failures
// propagate as the underlying error after the transaction rolls back.
var (
	ErrInvalidInput       = errors.New("ledger: invalid input")
	ErrSymbolNotFound     = errors.New("ledger: symbol not found")
	ErrQuoteUnavailable   = errors.New("ledger: quote unavailable")
	ErrInsufficientFunds  = errors.New("ledger: insufficient funds")
	ErrNoSuchHolding      = errors.New("ledger: no such holding")
	ErrInsufficientShares = errors.New("ledger: insufficient shares")
	ErrDuplicateUsername  = errors.New("ledger: username already taken")
	ErrPasswordMismatch   = errors.New("ledger: passwords do not match")
	ErrNoSuchAccount      = errors.New("ledger: no such account")
)
