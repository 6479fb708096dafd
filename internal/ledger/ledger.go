package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rmehra/papertrade/internal/models"
	"github.com/rmehra/papertrade/internal/quote"
)

// Engine defines the interface for ledger operations. Cash, holdings and
// the transaction log move together: every trade applies its three writes
// in one storage transaction, so the log can always be replayed back to
// the stored balances.
type Engine interface {
	Register(username, password, confirmation string) (models.Account, error)
	Quote(symbol string) (quote.Quote, error)
	Buy(accountID uint, symbol string, shares int64) (models.Transaction, error)
	Sell(accountID uint, symbol string, shares int64) (models.Transaction, error)
	Portfolio(accountID uint) (models.PortfolioView, error)
	History(accountID uint) ([]models.Transaction, error)
	Reconcile(accountID uint) (models.ReconcileReport, error)
}

// engine implements the Engine interface
type engine struct {
	db           *gorm.DB
	oracle       quote.Oracle
	hasher       PasswordHasher
	startingCash decimal.Decimal
}

// NewEngine creates a new ledger engine. startingCash is the balance
// granted to every newly registered account.
func NewEngine(db *gorm.DB, oracle quote.Oracle, hasher PasswordHasher, startingCash decimal.Decimal) Engine {
	return &engine{
		db:           db,
		oracle:       oracle,
		hasher:       hasher,
		startingCash: startingCash,
	}
}

// Register creates a new account with the starting cash balance.
func (e *engine) Register(username, password, confirmation string) (models.Account, error) {
	if username == "" || password == "" || confirmation == "" {
		return models.Account{}, ErrInvalidInput
	}
	if password != confirmation {
		return models.Account{}, ErrPasswordMismatch
	}

	var existing models.Account
	err := e.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return models.Account{}, ErrDuplicateUsername
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Account{}, err
	}

	digest, err := e.hasher.Hash(password)
	if err != nil {
		return models.Account{}, err
	}

	account := models.Account{
		Username:       username,
		HashedPassword: digest,
		Cash:           e.startingCash,
		StartingCash:   e.startingCash,
	}
	if err := e.db.Create(&account).Error; err != nil {
		// The unique index catches registrations that raced past the
		// pre-check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Account{}, ErrDuplicateUsername
		}
		return models.Account{}, err
	}

	return account, nil
}

// Quote resolves a symbol through the price oracle. Nothing is cached
// here; every trade and valuation re-queries.
func (e *engine) Quote(symbol string) (quote.Quote, error) {
	q, err := e.oracle.Lookup(symbol)
	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			return quote.Quote{}, ErrSymbolNotFound
		}
		return quote.Quote{}, fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}
	return q, nil
}

// Buy purchases whole shares at the current quoted price. The cash debit,
// the holding upsert and the BUY log row commit together or not at all.
func (e *engine) Buy(accountID uint, symbol string, shares int64) (models.Transaction, error) {
	if shares <= 0 {
		return models.Transaction{}, ErrInvalidInput
	}

	q, err := e.Quote(symbol)
	if err != nil {
		return models.Transaction{}, err
	}

	qty := decimal.NewFromInt(shares)
	total := q.Price.Mul(qty)

	var txn models.Transaction
	err = e.db.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoSuchAccount
			}
			return err
		}
		if account.Cash.LessThan(total) {
			return ErrInsufficientFunds
		}

		// Guarded debit: the cash >= total predicate re-checks under the
		// transaction, so a concurrent trade that drained the account
		// between our read and this write leaves zero rows affected.
		res := tx.Model(&models.Account{}).
			Where("id = ? AND cash >= ?", accountID, total).
			Update("cash", gorm.Expr("cash - ?", total))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}

		holding := models.Holding{
			AccountID: accountID,
			Symbol:    q.Symbol,
			Name:      q.Name,
			Shares:    qty,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account_id"}, {Name: "symbol"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"shares": gorm.Expr("holdings.shares + excluded.shares"),
				"name":   q.Name,
			}),
		}).Create(&holding).Error; err != nil {
			return err
		}

		txn = models.Transaction{
			AccountID: accountID,
			Symbol:    q.Symbol,
			Name:      q.Name,
			Side:      models.SideBuy,
			Price:     q.Price,
			Shares:    qty,
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return models.Transaction{}, err
	}

	return txn, nil
}

// Sell disposes of whole shares at the current quoted price. A full sell
// leaves the holding row at exactly zero shares.
func (e *engine) Sell(accountID uint, symbol string, shares int64) (models.Transaction, error) {
	if shares <= 0 {
		return models.Transaction{}, ErrInvalidInput
	}

	q, err := e.Quote(symbol)
	if err != nil {
		return models.Transaction{}, err
	}

	qty := decimal.NewFromInt(shares)
	proceeds := q.Price.Mul(qty)

	var txn models.Transaction
	err = e.db.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoSuchAccount
			}
			return err
		}

		var holding models.Holding
		err := tx.Where("account_id = ? AND symbol = ?", accountID, q.Symbol).First(&holding).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoSuchHolding
		}
		if err != nil {
			return err
		}
		if holding.Shares.IsZero() {
			return ErrNoSuchHolding
		}
		if holding.Shares.LessThan(qty) {
			return ErrInsufficientShares
		}

		// Guarded decrement: shares >= qty keeps the quantity from ever
		// going negative when two sells race for the same position.
		res := tx.Model(&models.Holding{}).
			Where("account_id = ? AND symbol = ? AND shares >= ?", accountID, q.Symbol, qty).
			Update("shares", gorm.Expr("shares - ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientShares
		}

		if err := tx.Model(&models.Account{}).
			Where("id = ?", accountID).
			Update("cash", gorm.Expr("cash + ?", proceeds)).Error; err != nil {
			return err
		}

		txn = models.Transaction{
			AccountID: accountID,
			Symbol:    q.Symbol,
			Name:      holding.Name,
			Side:      models.SideSell,
			Price:     q.Price,
			Shares:    qty,
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return models.Transaction{}, err
	}

	return txn, nil
}

// Portfolio values every open position at current prices. It fails as a
// whole if any constituent symbol cannot be priced.
func (e *engine) Portfolio(accountID uint) (models.PortfolioView, error) {
	var account models.Account
	if err := e.db.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PortfolioView{}, ErrNoSuchAccount
		}
		return models.PortfolioView{}, err
	}

	var holdings []models.Holding
	if err := e.db.
		Where("account_id = ? AND shares > ?", accountID, decimal.Zero).
		Order("symbol asc").
		Find(&holdings).Error; err != nil {
		return models.PortfolioView{}, err
	}

	view := models.PortfolioView{
		Holdings:    make([]models.PortfolioEntry, 0, len(holdings)),
		Cash:        account.Cash,
		SharesValue: decimal.Zero,
	}
	for _, h := range holdings {
		q, err := e.Quote(h.Symbol)
		if err != nil {
			return models.PortfolioView{}, err
		}
		value := q.Price.Mul(h.Shares)
		view.Holdings = append(view.Holdings, models.PortfolioEntry{
			Symbol: h.Symbol,
			Name:   h.Name,
			Shares: h.Shares,
			Price:  q.Price,
			Value:  value,
		})
		view.SharesValue = view.SharesValue.Add(value)
	}
	view.TotalValue = view.Cash.Add(view.SharesValue)

	return view, nil
}

// History returns every transaction of the account in insertion order.
func (e *engine) History(accountID uint) ([]models.Transaction, error) {
	var account models.Account
	if err := e.db.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSuchAccount
		}
		return nil, err
	}

	var transactions []models.Transaction
	err := e.db.
		Where("account_id = ?", accountID).
		Order("id asc").
		Find(&transactions).Error
	return transactions, err
}
