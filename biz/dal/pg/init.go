package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"papertrade/biz/model"
	"papertrade/conf"
)

var PostgresClient *pgxpool.Pool
var GormDB *gorm.DB

func Init() {
	pgConf := conf.GetConf().Postgres
	pool, err := pgxpool.New(context.Background(), pgConf.DSN)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to postgres: %v", err))
	}
	if err := pool.Ping(context.Background()); err != nil {
		panic(fmt.Sprintf("failed to ping postgres: %v", err))
	}
	PostgresClient = pool

	if err := InitGorm(); err != nil {
		panic(fmt.Sprintf("failed to init gorm: %v", err))
	}
	if err := AutoMigrate(); err != nil {
		panic(fmt.Sprintf("failed to auto migrate: %v", err))
	}
}

func InitGorm() error {
	dsn := conf.GetConf().Postgres.DSN
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}
	GormDB = db
	return nil
}

func AutoMigrate() error {
	if GormDB == nil {
		return gorm.ErrInvalidDB
	}
	return GormDB.AutoMigrate(
		&model.User{},
		&model.Wallet{},
		&model.Position{},
		&model.Transaction{},
		&model.Symbol{},
	)
}

func GetPool() *pgxpool.Pool {
	if PostgresClient == nil {
		panic("PostgresClient not initialized, call pg.Init() first")
	}
	return PostgresClient
}
