package model

// Symbol is a tradable ticker. Enabled gates buys and sells; the flag is
// read at validation time without coordinating with in-flight trades.
type Symbol struct {
	ID      uint   `gorm:"primaryKey" json:"-"`
	Symbol  string `gorm:"uniqueIndex;not null;column:symbol" json:"symbol"`
	Name    string `gorm:"not null;column:name" json:"name"`
	Enabled bool   `gorm:"not null;default:true;column:enabled" json:"enabled"`
}

func (Symbol) TableName() string {
	return "symbols"
}
