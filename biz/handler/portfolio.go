package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"papertrade/biz/service"
)

// GetPortfolio returns the full account snapshot: cash plus every position
// valued at the current quote.
func GetPortfolio(ctx context.Context, c *app.RequestContext) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "missing user_id"})
		return
	}
	snap, err := portfolio.Snapshot(ctx, userID)
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(consts.StatusNotFound, map[string]interface{}{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, snap)
}
