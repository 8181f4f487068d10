package model

import (
	"github.com/shopspring/decimal"
)

// Wallet holds a user's cash. Exactly one row per user, created at
// registration. CashBalance never goes below zero once a trade commits.
type Wallet struct {
	ID          uint            `gorm:"primaryKey" json:"-"`
	UserID      string          `gorm:"uniqueIndex;not null;column:user_id" json:"user_id"`
	CashBalance decimal.Decimal `gorm:"type:numeric(20,4);not null;column:cash_balance" json:"cash_balance"`
}

func (Wallet) TableName() string {
	return "wallets"
}
