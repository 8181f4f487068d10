package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"papertrade/biz/model"
)

// memTradeStore is an in-memory TradeStore for ledger tests. A failed
// callback restores the pre-transaction snapshot, mirroring a database
// rollback, and the mutex serializes concurrent trades.
type memTradeStore struct {
	mu           sync.Mutex
	wallets      map[string]*model.Wallet
	positions    map[string]*model.Position // key userID|symbol
	transactions []model.Transaction
}

func newMemTradeStore() *memTradeStore {
	return &memTradeStore{
		wallets:   make(map[string]*model.Wallet),
		positions: make(map[string]*model.Position),
	}
}

func posKey(userID, symbol string) string {
	return userID + "|" + symbol
}

func (s *memTradeStore) seedWallet(userID string, balance string) {
	s.wallets[userID] = &model.Wallet{
		UserID:      userID,
		CashBalance: decimal.RequireFromString(balance),
	}
}

func (s *memTradeStore) snapshot() *memTradeStore {
	snap := newMemTradeStore()
	for k, w := range s.wallets {
		cp := *w
		snap.wallets[k] = &cp
	}
	for k, p := range s.positions {
		cp := *p
		snap.positions[k] = &cp
	}
	snap.transactions = append([]model.Transaction(nil), s.transactions...)
	return snap
}

func (s *memTradeStore) restore(snap *memTradeStore) {
	s.wallets = snap.wallets
	s.positions = snap.positions
	s.transactions = snap.transactions
}

func (s *memTradeStore) Transact(ctx context.Context, fn func(tx TradeTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(&memTradeTx{store: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memTradeTx struct {
	store *memTradeStore
}

func (t *memTradeTx) WalletForUpdate(userID string) (*model.Wallet, error) {
	w, ok := t.store.wallets[userID]
	if !ok {
		return nil, fmt.Errorf("wallet not found for %s", userID)
	}
	return w, nil
}

func (t *memTradeTx) UpdateWallet(w *model.Wallet) error {
	t.store.wallets[w.UserID] = w
	return nil
}

func (t *memTradeTx) PositionForUpdate(userID, symbol string) (*model.Position, bool, error) {
	p, ok := t.store.positions[posKey(userID, symbol)]
	if !ok {
		return nil, false, nil
	}
	return p, true, nil
}

func (t *memTradeTx) SavePosition(p *model.Position) error {
	t.store.positions[posKey(p.UserID, p.Symbol)] = p
	return nil
}

func (t *memTradeTx) DeletePosition(userID, symbol string) error {
	delete(t.store.positions, posKey(userID, symbol))
	return nil
}

func (t *memTradeTx) BuyHistoryAsc(userID, symbol string) ([]model.Transaction, error) {
	var buys []model.Transaction
	for _, tx := range t.store.transactions {
		if tx.UserID == userID && tx.Symbol == symbol && tx.Type == model.TransactionTypeBuy {
			buys = append(buys, tx)
		}
	}
	return buys, nil
}

func (t *memTradeTx) AppendTransaction(tx *model.Transaction) error {
	t.store.transactions = append(t.store.transactions, *tx)
	return nil
}

// fakeRegistry resolves from a fixed symbol table.
type fakeRegistry struct {
	symbols map[string]*model.Symbol
}

func newFakeRegistry(tickers ...string) *fakeRegistry {
	r := &fakeRegistry{symbols: make(map[string]*model.Symbol)}
	for _, t := range tickers {
		r.symbols[t] = &model.Symbol{Symbol: t, Enabled: true}
	}
	return r
}

func (r *fakeRegistry) disable(ticker string) {
	r.symbols[ticker].Enabled = false
}

func (r *fakeRegistry) Resolve(ctx context.Context, symbol string) (*model.Symbol, error) {
	sym, ok := r.symbols[symbol]
	if !ok {
		return nil, ErrSymbolNotFound
	}
	return sym, nil
}

// fakeOracle serves quotes from a fixed table; unknown symbols fail as
// price-unavailable.
type fakeOracle struct {
	prices map[string]decimal.Decimal
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{prices: make(map[string]decimal.Decimal)}
}

func (o *fakeOracle) setPrice(symbol, price string) {
	o.prices[symbol] = decimal.RequireFromString(price)
}

func (o *fakeOracle) unsetPrice(symbol string) {
	delete(o.prices, symbol)
}

func (o *fakeOracle) GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, ok := o.prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no quote for %s", ErrPriceUnavailable, symbol)
	}
	return price, nil
}
