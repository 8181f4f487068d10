package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"papertrade/biz/service"
)

// SymbolGateMiddleware rejects trade submissions for unknown or disabled
// symbols before they reach the ledger. The ledger re-checks inside its own
// transaction; the gate just keeps junk traffic off the oracle and the
// database.
func SymbolGateMiddleware(registry service.SymbolRegistry) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		path := string(c.Path())
		isTrade := path == "/api/trading/buy" || path == "/api/trading/sell"
		if isTrade && string(c.Request.Method()) == consts.MethodPost {
			var req struct {
				Symbol string `json:"symbol"`
			}
			if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
				c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "invalid request body"})
				c.Abort()
				return
			}
			symbol := strings.TrimSpace(req.Symbol)
			if symbol == "" {
				c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "symbol required"})
				c.Abort()
				return
			}
			sym, err := registry.Resolve(ctx, symbol)
			if errors.Is(err, service.ErrSymbolNotFound) {
				c.JSON(consts.StatusNotFound, map[string]interface{}{"error": "symbol not found"})
				c.Abort()
				return
			}
			if err != nil {
				hlog.Errorf("symbol gate lookup failed for %s: %v", symbol, err)
				c.Next(ctx)
				return
			}
			if !sym.Enabled {
				c.JSON(consts.StatusForbidden, map[string]interface{}{"error": "symbol disabled"})
				c.Abort()
				return
			}
		}
		c.Next(ctx)
	}
}
