package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade sides recorded on Transaction rows.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Holding is the running share total of one symbol for one account. Rows
// are never deleted; a fully sold position stays at zero shares.
type Holding struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	AccountID uint            `gorm:"uniqueIndex:idx_holdings_account_symbol" json:"accountId"`
	Symbol    string          `gorm:"uniqueIndex:idx_holdings_account_symbol" json:"symbol"`
	Name      string          `json:"name"`
	Shares    decimal.Decimal `gorm:"type:numeric(20,8)" json:"shares"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Transaction is one executed trade. Rows are append-only: nothing in the
// codebase updates or deletes them once written.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	AccountID uint            `gorm:"index" json:"accountId"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Side      string          `json:"side"`
	Price     decimal.Decimal `gorm:"type:numeric(20,8)" json:"price"`
	Shares    decimal.Decimal `gorm:"type:numeric(20,8)" json:"shares"`
	CreatedAt time.Time       `json:"createdAt"`
}

// TradeRequest is the request body for buy and sell endpoints.
type TradeRequest struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

// PortfolioEntry is one priced position in a portfolio view.
type PortfolioEntry struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Shares decimal.Decimal `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Value  decimal.Decimal `json:"value"`
}

// PortfolioView is the full valuation of an account at current prices.
type PortfolioView struct {
	Holdings    []PortfolioEntry `json:"holdings"`
	Cash        decimal.Decimal  `json:"cash"`
	SharesValue decimal.Decimal  `json:"sharesValue"`
	TotalValue  decimal.Decimal  `json:"totalValue"`
}

// ReconcileReport compares stored balances against a replay of the
// transaction log from the account's starting cash.
type ReconcileReport struct {
	Consistent     bool                       `json:"consistent"`
	Cash           decimal.Decimal            `json:"cash"`
	ExpectedCash   decimal.Decimal            `json:"expectedCash"`
	ShareDrift     map[string]decimal.Decimal `json:"shareDrift,omitempty"`
	TransactionCnt int                        `json:"transactionCount"`
}

// Message represents a WebSocket message
type Message struct {
	Type    string      `json:"type"`
	Content interface{} `json:"content"`
}
