package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rmehra/papertrade/internal/ledger"
	"github.com/rmehra/papertrade/internal/models"
	"github.com/rmehra/papertrade/internal/utils"
	"github.com/rmehra/papertrade/internal/websocket"
)

// PortfolioHandler handles quote, trade, portfolio and history requests
type PortfolioHandler struct {
	engine ledger.Engine
	wsHub  *websocket.Hub
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(engine ledger.Engine, wsHub *websocket.Hub) *PortfolioHandler {
	return &PortfolioHandler{
		engine: engine,
		wsHub:  wsHub,
	}
}

// RegisterRoutes registers the authenticated portfolio routes
func (h *PortfolioHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/quote", h.Quote).Methods("GET")
	router.HandleFunc("/buy", h.Buy).Methods("POST")
	router.HandleFunc("/sell", h.Sell).Methods("POST")
	router.HandleFunc("/portfolio", h.Portfolio).Methods("GET")
	router.HandleFunc("/history", h.History).Methods("GET")
	router.HandleFunc("/reconcile", h.Reconcile).Methods("GET")
}

// Quote returns the current price for a symbol
func (h *PortfolioHandler) Quote(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		http.Error(w, "Must provide symbol", http.StatusBadRequest)
		return
	}

	q, err := h.engine.Quote(symbol)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(q)
}

// Buy purchases shares for the authenticated account
func (h *PortfolioHandler) Buy(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.engine.Buy)
}

// Sell disposes of shares for the authenticated account
func (h *PortfolioHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.engine.Sell)
}

func (h *PortfolioHandler) trade(w http.ResponseWriter, r *http.Request, execute func(uint, string, int64) (models.Transaction, error)) {
	accountID, err := utils.GetAccountIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	txn, err := execute(accountID, req.Symbol, req.Shares)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	h.wsHub.Broadcast(models.Message{Type: "trade_executed", Content: txn})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(txn)
}

// Portfolio returns the account's positions valued at current prices
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	accountID, err := utils.GetAccountIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	view, err := h.engine.Portfolio(accountID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// History returns every transaction of the account
func (h *PortfolioHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID, err := utils.GetAccountIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	transactions, err := h.engine.History(accountID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
}

// Reconcile replays the transaction log against the stored balances
func (h *PortfolioHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	accountID, err := utils.GetAccountIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	report, err := h.engine.Reconcile(accountID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// writeLedgerError maps ledger errors onto HTTP status codes
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		http.Error(w, "Invalid input", http.StatusBadRequest)
	case errors.Is(err, ledger.ErrSymbolNotFound):
		http.Error(w, "Symbol not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrQuoteUnavailable):
		http.Error(w, "Quote unavailable", http.StatusBadGateway)
	case errors.Is(err, ledger.ErrInsufficientFunds):
		http.Error(w, "Insufficient funds", http.StatusPaymentRequired)
	case errors.Is(err, ledger.ErrNoSuchHolding):
		http.Error(w, "No such holding", http.StatusNotFound)
	case errors.Is(err, ledger.ErrInsufficientShares):
		http.Error(w, "Insufficient shares", http.StatusBadRequest)
	case errors.Is(err, ledger.ErrNoSuchAccount):
		http.Error(w, "No such account", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
