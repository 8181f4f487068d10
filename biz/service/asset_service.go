package service

import (
	"errors"

	"gorm.io/gorm"

	"papertrade/biz/dal/pg"
	"papertrade/biz/model"
)

// AssetService serves read-only views of a user's wallet, positions and
// trade history.
type AssetService struct{}

func NewAssetService() *AssetService {
	return &AssetService{}
}

func (s *AssetService) Balance(userID string) (*model.Wallet, error) {
	w, err := pg.GetWallet(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *AssetService) Positions(userID string) ([]model.Position, error) {
	return pg.ListPositions(userID)
}

// Transactions returns a user's trade history, newest first, optionally
// filtered by symbol and transaction type.
func (s *AssetService) Transactions(userID, symbol string, txType model.TransactionType, limit int) ([]model.Transaction, error) {
	return pg.ListTransactions(userID, symbol, txType, limit)
}
