package pg

import (
	"papertrade/biz/model"
)

// ListPositions returns all of a user's open positions.
func ListPositions(userID string) ([]model.Position, error) {
	var positions []model.Position
	err := GormDB.Where("user_id = ?", userID).Order("symbol asc").Find(&positions).Error
	return positions, err
}

// GetPosition looks up one (user, symbol) position.
func GetPosition(userID, symbol string) (*model.Position, error) {
	var p model.Position
	err := GormDB.Where("user_id = ? AND symbol = ?", userID, symbol).First(&p).Error
	return &p, err
}
