package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/gorm"

	"papertrade/biz/dal/pg"
	"papertrade/biz/model"
)

const symbolImportLockKey = "papertrade/symbol_import_lock"

// SymbolService is the tradable-symbol directory: lookups for the trading
// gate, admin enable/disable, and bulk import from the oracle.
type SymbolService struct {
	oracle *OracleClient
	consul *ConsulHelper
}

func NewSymbolService(oracle *OracleClient, consul *ConsulHelper) *SymbolService {
	return &SymbolService{oracle: oracle, consul: consul}
}

// Resolve looks up a ticker, normalizing case. Unknown symbols fail with
// ErrSymbolNotFound.
func (s *SymbolService) Resolve(ctx context.Context, symbol string) (*model.Symbol, error) {
	sym, err := pg.GetSymbol(strings.ToUpper(symbol))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSymbolNotFound
	}
	if err != nil {
		return nil, err
	}
	return sym, nil
}

func (s *SymbolService) List() ([]model.Symbol, error) {
	return pg.ListSymbols()
}

func (s *SymbolService) Create(symbol, name string) (*model.Symbol, error) {
	sym := &model.Symbol{
		Symbol:  strings.ToUpper(symbol),
		Name:    name,
		Enabled: true,
	}
	if err := pg.CreateSymbol(sym); err != nil {
		return nil, err
	}
	return sym, nil
}

// SetEnabled flips the trading gate for one ticker.
func (s *SymbolService) SetEnabled(ctx context.Context, symbol string, enabled bool) error {
	if _, err := s.Resolve(ctx, symbol); err != nil {
		return err
	}
	return pg.SetSymbolEnabled(strings.ToUpper(symbol), enabled)
}

// ImportFromOracle pulls the oracle's symbol directory and upserts it. The
// import runs under a consul lock so only one node of the cluster performs
// it at a time; names of existing rows are refreshed, their enabled flag is
// left alone.
func (s *SymbolService) ImportFromOracle(ctx context.Context) (int, error) {
	if s.consul != nil {
		lock, err := s.consul.AcquireLock(symbolImportLockKey)
		if err != nil {
			return 0, fmt.Errorf("symbol import lock: %w", err)
		}
		if lock == nil {
			hlog.Infof("symbol import already running on another node, skipping")
			return 0, nil
		}
		defer func() { _ = lock.Unlock() }()
	}

	listings, err := s.oracle.ListSymbols(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	symbols := make([]model.Symbol, 0, len(listings))
	for _, l := range listings {
		ticker := strings.ToUpper(strings.TrimSpace(l.Symbol))
		if ticker == "" {
			continue
		}
		symbols = append(symbols, model.Symbol{
			Symbol:  ticker,
			Name:    l.Name,
			Enabled: true,
		})
	}
	if err := pg.UpsertSymbols(symbols); err != nil {
		return 0, err
	}
	hlog.Infof("symbol import finished, %d tickers upserted", len(symbols))
	return len(symbols), nil
}
