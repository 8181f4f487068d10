package server

import (
	"os"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/cors"
	"github.com/hertz-contrib/gzip"
	"github.com/hertz-contrib/logger/accesslog"
	"github.com/hertz-contrib/pprof"
	"gopkg.in/natefinch/lumberjack.v2"

	"papertrade/biz/handler"
	"papertrade/biz/service"
	"papertrade/biz/util"
	"papertrade/conf"
	"papertrade/middleware"
)

// NewHTTPServer builds the hertz server with middleware toggles from config
// and all routes registered.
func NewHTTPServer(registry service.SymbolRegistry) *server.Hertz {
	hzConf := conf.GetConf().Hertz

	h := server.New(server.WithHostPorts(hzConf.Address))

	initLogger(hzConf)

	if hzConf.EnableCORS {
		h.Use(cors.Default())
	}
	if hzConf.EnableGzip {
		h.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	if hzConf.EnableAccessLog {
		h.Use(accesslog.New())
	}
	if hzConf.EnablePprof {
		pprof.Register(h)
	}
	h.Use(middleware.SymbolGateMiddleware(registry))

	registerRoutes(h)
	RegisterWebSocketRoute(h)
	return h
}

func initLogger(hzConf conf.Hertz) {
	hlog.SetLevel(conf.LogLevel())
	if hzConf.LogFileName == "" {
		return
	}
	hlog.SetOutput(&lumberjack.Logger{
		Filename:   hzConf.LogFileName,
		MaxSize:    hzConf.LogMaxSize,
		MaxBackups: hzConf.LogMaxBackups,
		MaxAge:     hzConf.LogMaxAge,
	})
}

func registerRoutes(h *server.Hertz) {
	h.GET("/healthz", handler.Healthz)

	api := h.Group("/api")

	trading := api.Group("/trading")
	trading.POST("/buy", handler.Buy)
	trading.POST("/sell", handler.Sell)
	trading.GET("/transactions", handler.ListTransactions)

	asset := api.Group("/asset")
	asset.GET("/balance", handler.GetBalance)
	asset.GET("/positions", handler.GetPositions)

	api.GET("/portfolio", handler.GetPortfolio)

	users := api.Group("/users")
	users.POST("/register", handler.Register)
	users.GET("/:id", handler.GetUser)

	symbols := api.Group("/symbols")
	symbols.GET("", handler.ListSymbols)
	symbols.POST("", handler.CreateSymbol)
	symbols.POST("/import", handler.ImportSymbols)
	symbols.POST("/:symbol/enable", handler.EnableSymbol)
	symbols.POST("/:symbol/disable", handler.DisableSymbol)

	api.GET("/market/ticker", handler.GetTicker)
}

// RegisterWithConsul registers this node in consul when the registry is
// enabled. Returns the helper for later lock use, nil when disabled.
func RegisterWithConsul(nodeID string) *service.ConsulHelper {
	reg := conf.GetConf().Registry
	if !reg.Enable || len(reg.RegistryAddress) == 0 {
		return nil
	}
	helper, err := service.NewConsulHelperWithAddrs(reg.RegistryAddress)
	if err != nil {
		hlog.Errorf("consul unreachable, running unregistered: %v", err)
		return nil
	}
	host := localAdvertiseHost()
	if err := helper.RegisterService(nodeID, reg.ServiceName, host, reg.ServicePort); err != nil {
		hlog.Errorf("consul registration failed: %v", err)
		return helper
	}
	hlog.Infof("registered %s as %s at %s:%d", reg.ServiceName, nodeID, host, reg.ServicePort)
	return helper
}

func localAdvertiseHost() string {
	if host := os.Getenv("ADVERTISE_HOST"); host != "" {
		return host
	}
	return util.LocalIP()
}
