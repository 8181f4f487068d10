package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"papertrade/biz/dal/pg"
)

// Healthz reports liveness and database reachability.
func Healthz(ctx context.Context, c *app.RequestContext) {
	if err := pg.GetPool().Ping(ctx); err != nil {
		c.JSON(consts.StatusServiceUnavailable, map[string]interface{}{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{"status": "ok"})
}
