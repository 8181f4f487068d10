package pg

import (
	"papertrade/biz/model"
)

// ListTransactions returns a user's trade history, newest first. An empty
// symbol or txType skips that filter.
func ListTransactions(userID, symbol string, txType model.TransactionType, limit int) ([]model.Transaction, error) {
	var txs []model.Transaction
	db := GormDB.Model(&model.Transaction{}).Where("user_id = ?", userID).
		Order("executed_at desc, tx_id desc")
	if symbol != "" {
		db = db.Where("symbol = ?", symbol)
	}
	if txType != "" {
		db = db.Where("type = ?", txType)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	err := db.Find(&txs).Error
	return txs, err
}
