package model

import (
	"github.com/shopspring/decimal"
)

// Position is a user's open holding of one symbol. A position with zero
// shares is deleted, never kept as a zero row.
type Position struct {
	ID           uint            `gorm:"primaryKey" json:"-"`
	UserID       string          `gorm:"uniqueIndex:idx_positions_user_symbol;not null;column:user_id" json:"user_id"`
	Symbol       string          `gorm:"uniqueIndex:idx_positions_user_symbol;not null;column:symbol" json:"symbol"`
	SharesOwned  int64           `gorm:"not null;column:shares_owned" json:"shares_owned"`
	AvgCostBasis decimal.Decimal `gorm:"type:numeric(20,4);not null;column:avg_cost_basis" json:"avg_cost_basis"`
}

func (Position) TableName() string {
	return "positions"
}
