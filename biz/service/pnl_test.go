package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade/biz/model"
)

func buyLot(qty int64, price string) model.Transaction {
	return model.Transaction{
		Type:         model.TransactionTypeBuy,
		Quantity:     qty,
		PricePerUnit: dec(price),
	}
}

func TestRealizedProfitLossSingleLot(t *testing.T) {
	buys := []model.Transaction{buyLot(10, "100")}
	pnl := realizedProfitLoss(buys, 10, dec("110"))
	require.True(t, pnl.Valid)
	assert.True(t, pnl.Decimal.Equal(dec("100")))
}

func TestRealizedProfitLossSpansLots(t *testing.T) {
	buys := []model.Transaction{
		buyLot(5, "100"),
		buyLot(5, "200"),
	}
	// 8 shares: 5 from the 100 lot, 3 from the 200 lot. Basis 1100.
	pnl := realizedProfitLoss(buys, 8, dec("150"))
	require.True(t, pnl.Valid)
	assert.True(t, pnl.Decimal.Equal(dec("100")), "pnl: %s", pnl.Decimal)
}

func TestRealizedProfitLossPartialQuantityUsesEarliestLots(t *testing.T) {
	buys := []model.Transaction{
		buyLot(5, "100"),
		buyLot(5, "200"),
	}
	pnl := realizedProfitLoss(buys, 3, dec("90"))
	require.True(t, pnl.Valid)
	// 3 shares at 100 basis, sold at 90: -30.
	assert.True(t, pnl.Decimal.Equal(dec("-30")))
}

func TestRealizedProfitLossNullWhenHistoryShort(t *testing.T) {
	buys := []model.Transaction{buyLot(5, "100")}
	pnl := realizedProfitLoss(buys, 10, dec("110"))
	assert.False(t, pnl.Valid)
}

func TestRealizedProfitLossNullOnEmptyHistory(t *testing.T) {
	pnl := realizedProfitLoss(nil, 1, dec("110"))
	assert.False(t, pnl.Valid)
}

func TestRealizedProfitLossLoss(t *testing.T) {
	buys := []model.Transaction{buyLot(10, "150")}
	pnl := realizedProfitLoss(buys, 10, dec("120"))
	require.True(t, pnl.Valid)
	assert.True(t, pnl.Decimal.Equal(dec("-300")))
}
