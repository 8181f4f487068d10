package handler

import (
	"papertrade/biz/service"
)

// Shared service instances, wired once at startup.
var (
	trades    *service.TradeService
	symbols   *service.SymbolService
	users     *service.UserService
	assets    *service.AssetService
	portfolio *service.PortfolioService
	ticker    *service.TickerCache
)

// Init wires the handler package to its services. Must run before routes are
// registered.
func Init(
	tradeSvc *service.TradeService,
	symbolSvc *service.SymbolService,
	userSvc *service.UserService,
	assetSvc *service.AssetService,
	portfolioSvc *service.PortfolioService,
	tickerCache *service.TickerCache,
) {
	trades = tradeSvc
	symbols = symbolSvc
	users = userSvc
	assets = assetSvc
	portfolio = portfolioSvc
	ticker = tickerCache
}
