package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"papertrade/biz/dal/pg"
	"papertrade/biz/model"
)

// PriceOracle returns the current price for a symbol, or an error wrapping
// ErrPriceUnavailable when no quote can be obtained.
type PriceOracle interface {
	GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// SymbolRegistry resolves a ticker, failing with ErrSymbolNotFound for
// unknown symbols. The Enabled flag on the result gates trading.
type SymbolRegistry interface {
	Resolve(ctx context.Context, symbol string) (*model.Symbol, error)
}

// TradeStore runs one buy or sell as an atomic unit. The callback either
// commits in full or rolls back in full; concurrent trades touching the same
// wallet serialize against each other.
type TradeStore interface {
	Transact(ctx context.Context, fn func(tx TradeTx) error) error
}

// TradeTx is the mutation surface available inside a trade transaction.
type TradeTx interface {
	// WalletForUpdate loads the user's wallet with an exclusive lock held
	// until commit. Registered users always have one.
	WalletForUpdate(userID string) (*model.Wallet, error)
	UpdateWallet(w *model.Wallet) error

	// PositionForUpdate loads the (user, symbol) position with an exclusive
	// lock; found is false when the user holds no shares of the symbol.
	PositionForUpdate(userID, symbol string) (p *model.Position, found bool, err error)
	SavePosition(p *model.Position) error
	DeletePosition(userID, symbol string) error

	// BuyHistoryAsc returns the user's BUY transactions for the symbol in
	// executed_at ascending order (tx_id breaks ties).
	BuyHistoryAsc(userID, symbol string) ([]model.Transaction, error)
	AppendTransaction(t *model.Transaction) error
}

// GormTradeStore backs TradeStore with pg.GormDB. Row-level locks on the
// wallet and position rows (SELECT ... FOR UPDATE) serialize concurrent
// trades per user inside a single database transaction.
type GormTradeStore struct{}

func NewGormTradeStore() *GormTradeStore {
	return &GormTradeStore{}
}

func (s *GormTradeStore) Transact(ctx context.Context, fn func(tx TradeTx) error) error {
	return pg.GormDB.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormTradeTx{db: db})
	})
}

type gormTradeTx struct {
	db *gorm.DB
}

func (t *gormTradeTx) WalletForUpdate(userID string) (*model.Wallet, error) {
	var w model.Wallet
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (t *gormTradeTx) UpdateWallet(w *model.Wallet) error {
	return t.db.Model(&model.Wallet{}).Where("user_id = ?", w.UserID).
		Update("cash_balance", w.CashBalance).Error
}

func (t *gormTradeTx) PositionForUpdate(userID, symbol string) (*model.Position, bool, error) {
	var p model.Position
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND symbol = ?", userID, symbol).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

func (t *gormTradeTx) SavePosition(p *model.Position) error {
	return t.db.Save(p).Error
}

func (t *gormTradeTx) DeletePosition(userID, symbol string) error {
	return t.db.Where("user_id = ? AND symbol = ?", userID, symbol).
		Delete(&model.Position{}).Error
}

func (t *gormTradeTx) BuyHistoryAsc(userID, symbol string) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := t.db.Model(&model.Transaction{}).
		Where("user_id = ? AND symbol = ? AND type = ?", userID, symbol, model.TransactionTypeBuy).
		Order("executed_at asc, tx_id asc").
		Find(&txs).Error
	return txs, err
}

func (t *gormTradeTx) AppendTransaction(tx *model.Transaction) error {
	return t.db.Create(tx).Error
}
