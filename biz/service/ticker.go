package service

import (
	"sync"
	"time"

	"github.com/huandu/skiplist"
	"github.com/shopspring/decimal"

	"papertrade/biz/model"
)

// maxTickerTrades caps how many executions the ticker keeps per symbol.
const maxTickerTrades = 200

// TickerTrade is one execution as shown on the market ticker.
type TickerTrade struct {
	TxID       string          `json:"tx_id"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	Side       string          `json:"side"`
	ExecutedAt time.Time       `json:"executed_at"`
}

// TickerSnapshot aggregates the retained executions for one symbol.
type TickerSnapshot struct {
	Symbol     string          `json:"symbol"`
	LastPrice  decimal.Decimal `json:"last_price"`
	Volume     int64           `json:"volume"`
	TradeCount int             `json:"trade_count"`
	Trades     []TickerTrade   `json:"trades"`
}

// TickerCache keeps the most recent executions per symbol in memory, ordered
// by transaction ID. Transaction IDs are zero-padded snowflakes, so string
// order is execution order and the front of each list is the oldest trade.
type TickerCache struct {
	mu      sync.RWMutex
	symbols map[string]*skiplist.SkipList
}

func NewTickerCache() *TickerCache {
	return &TickerCache{symbols: make(map[string]*skiplist.SkipList)}
}

// Record adds one committed execution, evicting the oldest entry once the
// per-symbol cap is reached.
func (c *TickerCache) Record(tx model.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.symbols[tx.Symbol]
	if !ok {
		list = skiplist.New(skiplist.String)
		c.symbols[tx.Symbol] = list
	}
	list.Set(tx.TxID, TickerTrade{
		TxID:       tx.TxID,
		Price:      tx.PricePerUnit,
		Quantity:   tx.Quantity,
		Side:       string(tx.Type),
		ExecutedAt: tx.ExecutedAt,
	})
	for list.Len() > maxTickerTrades {
		list.RemoveFront()
	}
}

// Snapshot returns up to limit of the newest trades for symbol, newest
// first, plus aggregates over everything retained. Returns nil when no
// executions have been seen for the symbol.
func (c *TickerCache) Snapshot(symbol string, limit int) *TickerSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list, ok := c.symbols[symbol]
	if !ok || list.Len() == 0 {
		return nil
	}
	if limit <= 0 || limit > list.Len() {
		limit = list.Len()
	}
	snap := &TickerSnapshot{
		Symbol: symbol,
		Trades: make([]TickerTrade, 0, limit),
	}
	for elem := list.Back(); elem != nil; elem = elem.Prev() {
		trade := elem.Value.(TickerTrade)
		if len(snap.Trades) == 0 {
			snap.LastPrice = trade.Price
		}
		if len(snap.Trades) < limit {
			snap.Trades = append(snap.Trades, trade)
		}
		snap.Volume += trade.Quantity
		snap.TradeCount++
	}
	return snap
}

// Symbols lists every symbol with retained executions.
func (c *TickerCache) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.symbols))
	for sym := range c.symbols {
		out = append(out, sym)
	}
	return out
}
