package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rmehra/papertrade/internal/models"
)

// Reconcile replays the account's transaction log from its starting cash
// and compares the result against the stored cash and holdings. The
// stored balances are derived aggregates; the log is the source of truth,
// so any drift means a write slipped past the trade transaction.
func (e *engine) Reconcile(accountID uint) (models.ReconcileReport, error) {
	var account models.Account
	if err := e.db.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ReconcileReport{}, ErrNoSuchAccount
		}
		return models.ReconcileReport{}, err
	}

	var transactions []models.Transaction
	if err := e.db.
		Where("account_id = ?", accountID).
		Order("id asc").
		Find(&transactions).Error; err != nil {
		return models.ReconcileReport{}, err
	}

	expectedCash := account.StartingCash
	expectedShares := make(map[string]decimal.Decimal)
	for _, txn := range transactions {
		amount := txn.Price.Mul(txn.Shares)
		switch txn.Side {
		case models.SideBuy:
			expectedCash = expectedCash.Sub(amount)
			expectedShares[txn.Symbol] = expectedShares[txn.Symbol].Add(txn.Shares)
		case models.SideSell:
			expectedCash = expectedCash.Add(amount)
			expectedShares[txn.Symbol] = expectedShares[txn.Symbol].Sub(txn.Shares)
		}
	}

	var holdings []models.Holding
	if err := e.db.Where("account_id = ?", accountID).Find(&holdings).Error; err != nil {
		return models.ReconcileReport{}, err
	}

	drift := make(map[string]decimal.Decimal)
	for _, h := range holdings {
		if d := h.Shares.Sub(expectedShares[h.Symbol]); !d.IsZero() {
			drift[h.Symbol] = d
		}
		delete(expectedShares, h.Symbol)
	}
	// Symbols that appear in the log but have no holding row at all.
	for symbol, shares := range expectedShares {
		if !shares.IsZero() {
			drift[symbol] = shares.Neg()
		}
	}

	report := models.ReconcileReport{
		Consistent:     account.Cash.Equal(expectedCash) && len(drift) == 0,
		Cash:           account.Cash,
		ExpectedCash:   expectedCash,
		TransactionCnt: len(transactions),
	}
	if len(drift) > 0 {
		report.ShareDrift = drift
	}

	return report, nil
}
