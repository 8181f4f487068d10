package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// Valid reports whether t is one of the closed set of transaction types.
// Validated at the API boundary; the ledger only ever writes the two
// constants above.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeBuy || t == TransactionTypeSell
}

// Transaction is an immutable ledger entry for one executed trade. Rows are
// append-only; ProfitLoss is set on SELL only and stays null when the cost
// basis could not be derived from the BUY history.
type Transaction struct {
	TxID         string              `gorm:"primaryKey;column:tx_id" json:"tx_id"`
	UserID       string              `gorm:"index:idx_transactions_user_symbol_time;not null;column:user_id" json:"user_id"`
	Symbol       string              `gorm:"index:idx_transactions_user_symbol_time;not null;column:symbol" json:"symbol"`
	Type         TransactionType     `gorm:"not null;column:type" json:"type"`
	Quantity     int64               `gorm:"not null;column:quantity" json:"quantity"`
	PricePerUnit decimal.Decimal     `gorm:"type:numeric(20,4);not null;column:price_per_share" json:"price_per_share"`
	TotalAmount  decimal.Decimal     `gorm:"type:numeric(20,4);not null;column:total_amount" json:"total_amount"`
	ProfitLoss   decimal.NullDecimal `gorm:"type:numeric(20,4);column:profit_loss" json:"profit_loss"`
	ExecutedAt   time.Time           `gorm:"index:idx_transactions_user_symbol_time;not null;column:executed_at" json:"executed_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
