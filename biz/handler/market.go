package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// GetTicker returns recent executions and aggregates for one symbol.
func GetTicker(ctx context.Context, c *app.RequestContext) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "missing symbol"})
		return
	}
	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	snap := ticker.Snapshot(symbol, limit)
	if snap == nil {
		c.JSON(consts.StatusOK, map[string]interface{}{
			"symbol": symbol,
			"trades": []interface{}{},
		})
		return
	}
	c.JSON(consts.StatusOK, snap)
}
