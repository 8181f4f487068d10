package pg

import (
	"papertrade/biz/model"
)

// GetWallet looks up a user's wallet.
func GetWallet(userID string) (*model.Wallet, error) {
	var w model.Wallet
	err := GormDB.Where("user_id = ?", userID).First(&w).Error
	return &w, err
}

// CreateWallet inserts a fresh wallet row.
func CreateWallet(w *model.Wallet) error {
	return GormDB.Create(w).Error
}
