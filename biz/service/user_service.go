package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"papertrade/biz/dal/pg"
	"papertrade/biz/model"
	"papertrade/conf"
)

var ErrUserNotFound = errors.New("user not found")

// UserService registers users and seeds their paper-money wallet.
type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

// Register creates a user with a wallet credited with the configured seed
// balance. User and wallet commit together or not at all.
func (s *UserService) Register(username, email string) (*model.User, *model.Wallet, error) {
	seed, err := decimal.NewFromString(conf.GetConf().Trading.SeedBalance)
	if err != nil {
		return nil, nil, fmt.Errorf("seed balance misconfigured: %w", err)
	}
	u := &model.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		CreatedAt: time.Now(),
	}
	w := &model.Wallet{
		UserID:      u.ID,
		CashBalance: seed,
	}
	if err := pg.CreateUserWithWallet(u, w); err != nil {
		return nil, nil, err
	}
	return u, w, nil
}

func (s *UserService) Get(id string) (*model.User, error) {
	u, err := pg.GetUser(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
