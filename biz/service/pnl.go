package service

import (
	"github.com/shopspring/decimal"

	"papertrade/biz/model"
)

// realizedProfitLoss derives the cost basis for a sell of quantity shares by
// walking the BUY history in chronological order, consuming each buy lot in
// turn until the quantity is covered. Proceeds minus that basis is the
// realized P/L.
//
// The basis is recomputed from the full BUY history on every sell; lots
// consumed by earlier sells are not marked off, so successive partial sells
// all draw from the earliest lots. This mirrors the reference accounting and
// is deliberately not true FIFO lot tracking.
//
// When the BUY history cannot cover the quantity (positions seeded outside
// the transaction log), the result is null rather than a misleading figure.
func realizedProfitLoss(buys []model.Transaction, quantity int64, sellPrice decimal.Decimal) decimal.NullDecimal {
	remaining := quantity
	costBasis := decimal.Zero
	for _, buy := range buys {
		if remaining <= 0 {
			break
		}
		use := remaining
		if buy.Quantity < use {
			use = buy.Quantity
		}
		costBasis = costBasis.Add(buy.PricePerUnit.Mul(decimal.NewFromInt(use)))
		remaining -= use
	}
	if remaining > 0 {
		return decimal.NullDecimal{}
	}
	proceeds := sellPrice.Mul(decimal.NewFromInt(quantity))
	return decimal.NullDecimal{Valid: true, Decimal: proceeds.Sub(costBasis)}
}
