package pg_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"papertrade/biz/dal/pg"
	"papertrade/biz/model"
	"papertrade/biz/service"
)

// setupDB connects to the database named by PAPERTRADE_TEST_DSN, skipping
// the suite when it is unset so unit runs stay database-free.
func setupDB(t *testing.T) {
	t.Helper()
	dsn := os.Getenv("PAPERTRADE_TEST_DSN")
	if dsn == "" {
		t.Skip("PAPERTRADE_TEST_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	pg.GormDB = db
	require.NoError(t, pg.AutoMigrate())
}

func TestUserWalletRoundTrip(t *testing.T) {
	setupDB(t)
	u := &model.User{
		ID:        "it-user-" + time.Now().Format("150405.000"),
		Username:  "it-user-" + time.Now().Format("150405.000"),
		Email:     "it-" + time.Now().Format("150405.000") + "@example.com",
		CreatedAt: time.Now(),
	}
	w := &model.Wallet{UserID: u.ID, CashBalance: decimal.RequireFromString("10000.00")}
	require.NoError(t, pg.CreateUserWithWallet(u, w))

	got, err := pg.GetWallet(u.ID)
	require.NoError(t, err)
	assert.True(t, got.CashBalance.Equal(decimal.RequireFromString("10000.00")))
}

func TestSymbolUpsertPreservesEnabledFlag(t *testing.T) {
	setupDB(t)
	ticker := "ITST" + time.Now().Format("0405")
	require.NoError(t, pg.UpsertSymbols([]model.Symbol{{Symbol: ticker, Name: "Integration Test Co", Enabled: true}}))
	require.NoError(t, pg.SetSymbolEnabled(ticker, false))

	// Re-import must not flip the admin toggle back on.
	require.NoError(t, pg.UpsertSymbols([]model.Symbol{{Symbol: ticker, Name: "Renamed Co", Enabled: true}}))

	sym, err := pg.GetSymbol(ticker)
	require.NoError(t, err)
	assert.False(t, sym.Enabled)
	assert.Equal(t, "Renamed Co", sym.Name)
}

func TestGormTradeStoreRollsBackOnError(t *testing.T) {
	setupDB(t)
	userID := "it-rollback-" + time.Now().Format("150405.000")
	require.NoError(t, pg.CreateWallet(&model.Wallet{
		UserID:      userID,
		CashBalance: decimal.RequireFromString("500.00"),
	}))

	store := service.NewGormTradeStore()
	sentinel := assert.AnError
	err := store.Transact(context.Background(), func(tx service.TradeTx) error {
		w, err := tx.WalletForUpdate(userID)
		require.NoError(t, err)
		w.CashBalance = w.CashBalance.Sub(decimal.RequireFromString("100.00"))
		require.NoError(t, tx.UpdateWallet(w))
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	w, err := pg.GetWallet(userID)
	require.NoError(t, err)
	assert.True(t, w.CashBalance.Equal(decimal.RequireFromString("500.00")), "debit rolled back")
}

func TestGormTradeStoreCommitsFullTrade(t *testing.T) {
	setupDB(t)
	userID := "it-commit-" + time.Now().Format("150405.000")
	require.NoError(t, pg.CreateWallet(&model.Wallet{
		UserID:      userID,
		CashBalance: decimal.RequireFromString("1000.00"),
	}))

	store := service.NewGormTradeStore()
	err := store.Transact(context.Background(), func(tx service.TradeTx) error {
		w, err := tx.WalletForUpdate(userID)
		if err != nil {
			return err
		}
		w.CashBalance = w.CashBalance.Sub(decimal.RequireFromString("300.00"))
		if err := tx.UpdateWallet(w); err != nil {
			return err
		}
		if err := tx.SavePosition(&model.Position{
			UserID:       userID,
			Symbol:       "AAPL",
			SharesOwned:  3,
			AvgCostBasis: decimal.RequireFromString("100.0000"),
		}); err != nil {
			return err
		}
		return tx.AppendTransaction(&model.Transaction{
			TxID:         "it-" + userID,
			UserID:       userID,
			Symbol:       "AAPL",
			Type:         model.TransactionTypeBuy,
			Quantity:     3,
			PricePerUnit: decimal.RequireFromString("100.00"),
			TotalAmount:  decimal.RequireFromString("300.00"),
			ExecutedAt:   time.Now(),
		})
	})
	require.NoError(t, err)

	w, err := pg.GetWallet(userID)
	require.NoError(t, err)
	assert.True(t, w.CashBalance.Equal(decimal.RequireFromString("700.00")))

	pos, err := pg.GetPosition(userID, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos.SharesOwned)

	txs, err := pg.ListTransactions(userID, "", "", 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, model.TransactionTypeBuy, txs[0].Type)
}
