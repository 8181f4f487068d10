package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"papertrade/biz/service"
)

// GetBalance returns a user's cash balance.
func GetBalance(ctx context.Context, c *app.RequestContext) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "missing user_id"})
		return
	}
	wallet, err := assets.Balance(userID)
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(consts.StatusNotFound, map[string]interface{}{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{
		"user_id":      userID,
		"cash_balance": wallet.CashBalance,
	})
}

// GetPositions returns a user's open positions.
func GetPositions(ctx context.Context, c *app.RequestContext) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "missing user_id"})
		return
	}
	positions, err := assets.Positions(userID)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{
		"user_id":   userID,
		"positions": positions,
	})
}
