package pg

import (
	"gorm.io/gorm"

	"papertrade/biz/model"
)

func GetUser(id string) (*model.User, error) {
	var u model.User
	err := GormDB.Where("id = ?", id).First(&u).Error
	return &u, err
}

// CreateUserWithWallet inserts the user and their seeded wallet in one
// transaction so a registered user can never exist without a wallet.
func CreateUserWithWallet(u *model.User, w *model.Wallet) error {
	return GormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return tx.Create(w).Error
	})
}
