package pg

import (
	"gorm.io/gorm/clause"

	"papertrade/biz/model"
)

func GetSymbol(symbol string) (*model.Symbol, error) {
	var s model.Symbol
	err := GormDB.Where("symbol = ?", symbol).First(&s).Error
	return &s, err
}

func ListSymbols() ([]model.Symbol, error) {
	var symbols []model.Symbol
	err := GormDB.Order("symbol asc").Find(&symbols).Error
	return symbols, err
}

func CreateSymbol(s *model.Symbol) error {
	return GormDB.Create(s).Error
}

// SetSymbolEnabled toggles the trading gate for one ticker.
func SetSymbolEnabled(symbol string, enabled bool) error {
	return GormDB.Model(&model.Symbol{}).Where("symbol = ?", symbol).Update("enabled", enabled).Error
}

// UpsertSymbols bulk-inserts imported tickers, updating names on conflict.
// The enabled flag of existing rows is left alone so an import cannot
// silently re-enable an administratively disabled symbol.
func UpsertSymbols(symbols []model.Symbol) error {
	if len(symbols) == 0 {
		return nil
	}
	return GormDB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&symbols).Error
}
