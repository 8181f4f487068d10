package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"papertrade/biz/service"
)

type CreateSymbolRequest struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// ListSymbols returns the full symbol directory, disabled tickers included.
func ListSymbols(ctx context.Context, c *app.RequestContext) {
	syms, err := symbols.List()
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{"symbols": syms})
}

// CreateSymbol registers a single ticker, enabled by default.
func CreateSymbol(ctx context.Context, c *app.RequestContext) {
	var req CreateSymbolRequest
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}
	if req.Symbol == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "missing symbol"})
		return
	}
	sym, err := symbols.Create(req.Symbol, req.Name)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, sym)
}

// EnableSymbol re-opens a ticker for trading.
func EnableSymbol(ctx context.Context, c *app.RequestContext) {
	setSymbolEnabled(ctx, c, true)
}

// DisableSymbol halts trading on a ticker. Existing positions and history
// are untouched; holders can no longer buy or sell it.
func DisableSymbol(ctx context.Context, c *app.RequestContext) {
	setSymbolEnabled(ctx, c, false)
}

func setSymbolEnabled(ctx context.Context, c *app.RequestContext, enabled bool) {
	symbol := c.Param("symbol")
	if symbol == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "missing symbol"})
		return
	}
	err := symbols.SetEnabled(ctx, symbol, enabled)
	if errors.Is(err, service.ErrSymbolNotFound) {
		c.JSON(consts.StatusNotFound, map[string]interface{}{"error": "symbol not found"})
		return
	}
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{"symbol": symbol, "enabled": enabled})
}

// ImportSymbols pulls the oracle's symbol directory into the registry.
func ImportSymbols(ctx context.Context, c *app.RequestContext) {
	count, err := symbols.ImportFromOracle(ctx)
	if errors.Is(err, service.ErrPriceUnavailable) {
		c.JSON(consts.StatusServiceUnavailable, map[string]interface{}{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{"imported": count})
}
