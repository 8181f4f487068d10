package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"papertrade/biz/model"
	"papertrade/biz/service"
)

// TradeRequest is the body of both buy and sell.
type TradeRequest struct {
	UserID   string `json:"user_id"`
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
	// ExpectedPrice is echoed back for client-side slippage display; the
	// trade always executes at the oracle quote.
	ExpectedPrice string `json:"expected_price,omitempty"`
}

// Buy executes a market buy at the current oracle quote.
func Buy(ctx context.Context, c *app.RequestContext) {
	var req TradeRequest
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}
	if req.UserID == "" || req.Symbol == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "missing user_id or symbol"})
		return
	}
	res, err := trades.ExecuteBuy(ctx, req.UserID, req.Symbol, req.Quantity)
	if err != nil {
		writeTradeError(c, err)
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{
		"result":         res,
		"expected_price": req.ExpectedPrice,
	})
}

// Sell executes a market sell at the current oracle quote.
func Sell(ctx context.Context, c *app.RequestContext) {
	var req TradeRequest
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}
	if req.UserID == "" || req.Symbol == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "missing user_id or symbol"})
		return
	}
	res, err := trades.ExecuteSell(ctx, req.UserID, req.Symbol, req.Quantity)
	if err != nil {
		writeTradeError(c, err)
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{
		"result":         res,
		"expected_price": req.ExpectedPrice,
	})
}

// ListTransactions returns the caller's trade history, newest first.
func ListTransactions(ctx context.Context, c *app.RequestContext) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "missing user_id"})
		return
	}
	symbol := c.Query("symbol")
	txType := model.TransactionType(strings.ToUpper(c.Query("type")))
	if txType != "" && !txType.Valid() {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "type must be BUY or SELL"})
		return
	}
	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	txs, err := assets.Transactions(userID, symbol, txType, limit)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{
		"user_id":      userID,
		"transactions": txs,
	})
}

// writeTradeError maps ledger failures to HTTP statuses. Every mapped error
// means the ledger was left untouched.
func writeTradeError(c *app.RequestContext, err error) {
	var fundsErr *service.InsufficientFundsError
	var sharesErr *service.InsufficientSharesError
	switch {
	case errors.Is(err, service.ErrSymbolNotFound):
		c.JSON(consts.StatusNotFound, map[string]interface{}{"error": err.Error()})
	case errors.Is(err, service.ErrPositionNotFound):
		c.JSON(consts.StatusNotFound, map[string]interface{}{"error": err.Error()})
	case errors.Is(err, service.ErrSymbolDisabled):
		c.JSON(consts.StatusForbidden, map[string]interface{}{"error": err.Error()})
	case errors.Is(err, service.ErrPriceUnavailable):
		c.JSON(consts.StatusServiceUnavailable, map[string]interface{}{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": err.Error()})
	case errors.As(err, &fundsErr):
		c.JSON(consts.StatusPaymentRequired, map[string]interface{}{
			"error":     fundsErr.Error(),
			"required":  fundsErr.Required,
			"available": fundsErr.Available,
		})
	case errors.As(err, &sharesErr):
		c.JSON(consts.StatusConflict, map[string]interface{}{
			"error":     sharesErr.Error(),
			"owned":     sharesErr.Owned,
			"requested": sharesErr.Requested,
		})
	default:
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
	}
}
