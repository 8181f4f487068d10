package service

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"papertrade/biz/model"
	"papertrade/biz/util"
)

// avgCostScale is the precision of the stored average cost basis, rounded
// half-up.
const avgCostScale = 4

// ExecutionResult is what a committed buy or sell reports back.
type ExecutionResult struct {
	TxID            string                `json:"tx_id"`
	Symbol          string                `json:"symbol"`
	Quantity        int64                 `json:"quantity"`
	ExecutionPrice  decimal.Decimal       `json:"execution_price"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	TransactionType model.TransactionType `json:"transaction_type"`
	NewCashBalance  decimal.Decimal       `json:"new_cash_balance"`
	NewSharesOwned  int64                 `json:"new_shares_owned"`
	ProfitLoss      decimal.NullDecimal   `json:"profit_loss"`
	ExecutedAt      time.Time             `json:"executed_at"`
}

// TradeService is the paper-trading ledger: it executes buys and sells
// against the user's wallet and positions, appending one immutable
// transaction per execution. Wallet debit/credit, position update and the
// transaction append commit as one atomic unit or not at all.
type TradeService struct {
	store    TradeStore
	registry SymbolRegistry
	oracle   PriceOracle

	now     func() time.Time
	newTxID func() (string, error)

	// MaxQuantity caps the share count of a single order. Zero means no cap.
	MaxQuantity int64

	// OnExecution, when set, is invoked after a trade commits. Used to fan
	// executions out to the ws stream, the ticker cache and kafka.
	OnExecution func(tx model.Transaction, res ExecutionResult)
}

func NewTradeService(store TradeStore, registry SymbolRegistry, oracle PriceOracle) *TradeService {
	return &TradeService{
		store:    store,
		registry: registry,
		oracle:   oracle,
		now:      time.Now,
		newTxID:  util.GenerateTransactionID,
	}
}

// gate resolves the symbol and fetches the current price. Runs before any
// write so every failure here leaves the ledger untouched.
func (s *TradeService) gate(ctx context.Context, symbol string, quantity int64) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, ErrInvalidQuantity
	}
	if s.MaxQuantity > 0 && quantity > s.MaxQuantity {
		return decimal.Zero, ErrInvalidQuantity
	}
	sym, err := s.registry.Resolve(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	if !sym.Enabled {
		return decimal.Zero, ErrSymbolDisabled
	}
	price, err := s.oracle.GetCurrentPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

// ExecuteBuy buys quantity shares of symbol at the oracle price, debiting the
// wallet and folding the cost into the position's weighted-average basis.
func (s *TradeService) ExecuteBuy(ctx context.Context, userID, symbol string, quantity int64) (*ExecutionResult, error) {
	price, err := s.gate(ctx, symbol, quantity)
	if err != nil {
		return nil, err
	}
	totalCost := price.Mul(decimal.NewFromInt(quantity))

	var (
		res ExecutionResult
		rec model.Transaction
	)
	err = s.store.Transact(ctx, func(tx TradeTx) error {
		wallet, err := tx.WalletForUpdate(userID)
		if err != nil {
			return err
		}
		if wallet.CashBalance.LessThan(totalCost) {
			return &InsufficientFundsError{Required: totalCost, Available: wallet.CashBalance}
		}
		wallet.CashBalance = wallet.CashBalance.Sub(totalCost)
		if err := tx.UpdateWallet(wallet); err != nil {
			return err
		}

		pos, found, err := tx.PositionForUpdate(userID, symbol)
		if err != nil {
			return err
		}
		if !found {
			pos = &model.Position{UserID: userID, Symbol: symbol}
		}
		newShares := pos.SharesOwned + quantity
		oldCost := pos.AvgCostBasis.Mul(decimal.NewFromInt(pos.SharesOwned))
		pos.AvgCostBasis = oldCost.Add(totalCost).DivRound(decimal.NewFromInt(newShares), avgCostScale)
		pos.SharesOwned = newShares
		if err := tx.SavePosition(pos); err != nil {
			return err
		}

		txID, err := s.newTxID()
		if err != nil {
			return err
		}
		rec = model.Transaction{
			TxID:         txID,
			UserID:       userID,
			Symbol:       symbol,
			Type:         model.TransactionTypeBuy,
			Quantity:     quantity,
			PricePerUnit: price,
			TotalAmount:  totalCost,
			ExecutedAt:   s.now(),
		}
		if err := tx.AppendTransaction(&rec); err != nil {
			return err
		}

		res = ExecutionResult{
			TxID:            rec.TxID,
			Symbol:          symbol,
			Quantity:        quantity,
			ExecutionPrice:  price,
			TotalAmount:     totalCost,
			TransactionType: model.TransactionTypeBuy,
			NewCashBalance:  wallet.CashBalance,
			NewSharesOwned:  newShares,
			ExecutedAt:      rec.ExecutedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.finish(rec, res)
	return &res, nil
}

// ExecuteSell sells quantity shares of symbol at the oracle price, crediting
// the wallet and recording realized P/L against the BUY history. The
// remaining position keeps its average cost; a position sold down to zero is
// deleted.
func (s *TradeService) ExecuteSell(ctx context.Context, userID, symbol string, quantity int64) (*ExecutionResult, error) {
	price, err := s.gate(ctx, symbol, quantity)
	if err != nil {
		return nil, err
	}
	proceeds := price.Mul(decimal.NewFromInt(quantity))

	var (
		res ExecutionResult
		rec model.Transaction
	)
	err = s.store.Transact(ctx, func(tx TradeTx) error {
		pos, found, err := tx.PositionForUpdate(userID, symbol)
		if err != nil {
			return err
		}
		if !found {
			return ErrPositionNotFound
		}
		if quantity > pos.SharesOwned {
			return &InsufficientSharesError{Owned: pos.SharesOwned, Requested: quantity}
		}

		wallet, err := tx.WalletForUpdate(userID)
		if err != nil {
			return err
		}
		wallet.CashBalance = wallet.CashBalance.Add(proceeds)
		if err := tx.UpdateWallet(wallet); err != nil {
			return err
		}

		newShares := pos.SharesOwned - quantity
		if newShares == 0 {
			if err := tx.DeletePosition(userID, symbol); err != nil {
				return err
			}
		} else {
			pos.SharesOwned = newShares
			if err := tx.SavePosition(pos); err != nil {
				return err
			}
		}

		buys, err := tx.BuyHistoryAsc(userID, symbol)
		if err != nil {
			return err
		}
		pnl := realizedProfitLoss(buys, quantity, price)

		txID, err := s.newTxID()
		if err != nil {
			return err
		}
		rec = model.Transaction{
			TxID:         txID,
			UserID:       userID,
			Symbol:       symbol,
			Type:         model.TransactionTypeSell,
			Quantity:     quantity,
			PricePerUnit: price,
			TotalAmount:  proceeds,
			ProfitLoss:   pnl,
			ExecutedAt:   s.now(),
		}
		if err := tx.AppendTransaction(&rec); err != nil {
			return err
		}

		res = ExecutionResult{
			TxID:            rec.TxID,
			Symbol:          symbol,
			Quantity:        quantity,
			ExecutionPrice:  price,
			TotalAmount:     proceeds,
			TransactionType: model.TransactionTypeSell,
			NewCashBalance:  wallet.CashBalance,
			NewSharesOwned:  newShares,
			ProfitLoss:      pnl,
			ExecutedAt:      rec.ExecutedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.finish(rec, res)
	return &res, nil
}

func (s *TradeService) finish(rec model.Transaction, res ExecutionResult) {
	fields := []zap.Field{
		zap.String("tx_id", rec.TxID),
		zap.String("user_id", rec.UserID),
		zap.String("symbol", rec.Symbol),
		zap.String("type", string(rec.Type)),
		zap.Int64("quantity", rec.Quantity),
		zap.String("price", rec.PricePerUnit.String()),
		zap.String("total", rec.TotalAmount.String()),
		zap.String("new_cash_balance", res.NewCashBalance.String()),
	}
	if rec.ProfitLoss.Valid {
		fields = append(fields, zap.String("profit_loss", rec.ProfitLoss.Decimal.String()))
	}
	Audit().Info("trade executed", fields...)

	if s.OnExecution != nil {
		s.OnExecution(rec, res)
	}
	hlog.Debugf("trade %s committed: user=%s %s %d %s @ %s",
		rec.TxID, rec.UserID, rec.Type, rec.Quantity, rec.Symbol, rec.PricePerUnit)
}
