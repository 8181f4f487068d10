package main

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"

	"papertrade/biz/dal"
	"papertrade/biz/dal/kafka"
	"papertrade/biz/handler"
	"papertrade/biz/model"
	"papertrade/biz/service"
	"papertrade/biz/util"
	"papertrade/conf"
	"papertrade/server"
)

func main() {
	_ = godotenv.Load()

	dal.Init()
	util.InitSonyFlake()
	service.InitAuditLogger()

	nodeID := conf.GetConf().Registry.ServiceName + "-" + uuid.NewString()
	consul := server.RegisterWithConsul(nodeID)

	oracle := service.NewOracleClient()
	prices := service.NewPriceService(oracle)
	symbols := service.NewSymbolService(oracle, consul)
	assets := service.NewAssetService()
	users := service.NewUserService()
	portfolio := service.NewPortfolioService(assets, prices)
	ticker := service.NewTickerCache()

	trades := service.NewTradeService(service.NewGormTradeStore(), symbols, prices)
	trades.MaxQuantity = conf.GetConf().Trading.MaxQuantity
	trades.OnExecution = func(tx model.Transaction, res service.ExecutionResult) {
		ticker.Record(tx)
		server.PushExecution(tx, res)
		publishExecution(res)
		publishNotification(tx.UserID, res)
	}

	handler.Init(trades, symbols, users, assets, portfolio, ticker)

	h := server.NewHTTPServer(symbols)
	defer func() {
		if consul != nil {
			_ = consul.DeregisterService(nodeID)
		}
		kafka.CloseAllWriters()
	}()
	h.Spin()
}

// publishExecution feeds committed trades to the executions topic for
// downstream consumers (analytics, notifications).
func publishExecution(res service.ExecutionResult) {
	topic := conf.GetConf().Kafka.Topics["executions"]
	if topic == "" {
		return
	}
	payload, err := json.Marshal(res)
	if err != nil {
		hlog.Errorf("marshal execution for kafka: %v", err)
		return
	}
	w := kafka.GetWriter(topic)
	if err := w.WriteMessages(context.Background(), kafkago.Message{
		Key:   []byte(res.Symbol),
		Value: payload,
	}); err != nil {
		hlog.Errorf("publish execution to %s: %v", topic, err)
	}
}

// publishNotification queues a per-user fill notice, keyed by user so one
// user's notifications stay ordered.
func publishNotification(userID string, res service.ExecutionResult) {
	topic := conf.GetConf().Kafka.Topics["notifications"]
	if topic == "" {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"user_id": userID,
		"event":   "trade_executed",
		"result":  res,
	})
	if err != nil {
		hlog.Errorf("marshal notification for kafka: %v", err)
		return
	}
	w := kafka.GetWriter(topic)
	if err := w.WriteMessages(context.Background(), kafkago.Message{
		Key:   []byte(userID),
		Value: payload,
	}); err != nil {
		hlog.Errorf("publish notification to %s: %v", topic, err)
	}
}
