package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/shopspring/decimal"

	"papertrade/biz/model"
)

// PortfolioPosition is one holding valued at the current quote. Market value
// and unrealized P/L are null when no quote could be obtained.
type PortfolioPosition struct {
	Symbol        string              `json:"symbol"`
	SharesOwned   int64               `json:"shares_owned"`
	AvgCostBasis  decimal.Decimal     `json:"avg_cost_basis"`
	CurrentPrice  decimal.NullDecimal `json:"current_price"`
	MarketValue   decimal.NullDecimal `json:"market_value"`
	UnrealizedPnL decimal.NullDecimal `json:"unrealized_pnl"`
}

// Portfolio is the full account snapshot: cash plus valued holdings. Equity
// counts only positions that could be priced.
type Portfolio struct {
	UserID        string              `json:"user_id"`
	CashBalance   decimal.Decimal     `json:"cash_balance"`
	Positions     []PortfolioPosition `json:"positions"`
	PositionValue decimal.Decimal     `json:"position_value"`
	Equity        decimal.Decimal     `json:"equity"`
}

// AccountReader is the wallet/position view the portfolio is assembled
// from. AssetService is the production implementation.
type AccountReader interface {
	Balance(userID string) (*model.Wallet, error)
	Positions(userID string) ([]model.Position, error)
}

// PortfolioService assembles account snapshots from the asset views and the
// price oracle.
type PortfolioService struct {
	assets AccountReader
	oracle PriceOracle
}

func NewPortfolioService(assets AccountReader, oracle PriceOracle) *PortfolioService {
	return &PortfolioService{assets: assets, oracle: oracle}
}

// Snapshot values every open position at the current quote. A symbol whose
// quote is unavailable stays in the snapshot with null valuation fields
// rather than failing the whole request.
func (s *PortfolioService) Snapshot(ctx context.Context, userID string) (*Portfolio, error) {
	wallet, err := s.assets.Balance(userID)
	if err != nil {
		return nil, err
	}
	positions, err := s.assets.Positions(userID)
	if err != nil {
		return nil, err
	}

	out := &Portfolio{
		UserID:      userID,
		CashBalance: wallet.CashBalance,
		Positions:   make([]PortfolioPosition, 0, len(positions)),
	}
	for _, pos := range positions {
		pp := PortfolioPosition{
			Symbol:       pos.Symbol,
			SharesOwned:  pos.SharesOwned,
			AvgCostBasis: pos.AvgCostBasis,
		}
		price, perr := s.oracle.GetCurrentPrice(ctx, pos.Symbol)
		if perr != nil {
			hlog.Warnf("portfolio: no quote for %s: %v", pos.Symbol, perr)
		} else {
			shares := decimal.NewFromInt(pos.SharesOwned)
			value := price.Mul(shares)
			pp.CurrentPrice = decimal.NullDecimal{Valid: true, Decimal: price}
			pp.MarketValue = decimal.NullDecimal{Valid: true, Decimal: value}
			pp.UnrealizedPnL = decimal.NullDecimal{
				Valid:   true,
				Decimal: price.Sub(pos.AvgCostBasis).Mul(shares),
			}
			out.PositionValue = out.PositionValue.Add(value)
		}
		out.Positions = append(out.Positions, pp)
	}
	out.Equity = out.CashBalance.Add(out.PositionValue)
	return out, nil
}
