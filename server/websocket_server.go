package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/hertz-contrib/websocket"
	"github.com/panjf2000/ants/v2"
	kafkago "github.com/segmentio/kafka-go"

	"papertrade/biz/dal/kafka"
	"papertrade/biz/model"
	"papertrade/biz/service"
	"papertrade/conf"
)

const shardNum = 32

var upgrader = websocket.HertzUpgrader{
	CheckOrigin: func(ctx *app.RequestContext) bool {
		return true
	},
}

// SymbolShard holds the subscriptions and the per-symbol message buffer for
// one hash shard of the symbol space.
type SymbolShard struct {
	Mu     sync.RWMutex
	Subs   map[string]map[*websocket.Conn]struct{}
	MsgBuf map[string]chan []byte
}

var symbolShards [shardNum]*SymbolShard

var broadcastPool *ants.Pool

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

func init() {
	for i := 0; i < shardNum; i++ {
		symbolShards[i] = &SymbolShard{
			Subs:   make(map[string]map[*websocket.Conn]struct{}),
			MsgBuf: make(map[string]chan []byte),
		}
	}
	pool, err := ants.NewPool(1024)
	if err != nil {
		panic(err)
	}
	broadcastPool = pool
}

// ensureSymbolDispatcher starts the fan-out goroutine for a symbol once.
func ensureSymbolDispatcher(shard *SymbolShard, symbol string) {
	if _, ok := shard.MsgBuf[symbol]; ok {
		return
	}
	msgBuf := make(chan []byte, 4096)
	shard.MsgBuf[symbol] = msgBuf
	go func() {
		for msg := range msgBuf {
			shard.Mu.RLock()
			conns := shard.Subs[symbol]
			for conn := range conns {
				err := broadcastPool.Submit(func() {
					success := false
					for i := 0; i < 3; i++ {
						if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
							log.Printf("broadcast error: %v, retry %d", err, i+1)
						} else {
							success = true
							break
						}
					}
					if !success {
						log.Printf("conn write failed after retries, removing from symbol: %v", conn.RemoteAddr())
						shard := GetSymbolShard(symbol)
						shard.Mu.Lock()
						delete(shard.Subs[symbol], conn)
						if len(shard.Subs[symbol]) == 0 {
							delete(shard.Subs, symbol)
						}
						shard.Mu.Unlock()
						cleanConnFromAllSymbols(conn)
						_ = conn.Close()
					}
				})
				if err != nil {
					log.Printf("broadcastPool.Submit error: %v, conn: %v", err, conn.RemoteAddr())
				}
			}
			shard.Mu.RUnlock()
		}
		shard.Mu.Lock()
		delete(shard.MsgBuf, symbol)
		shard.Mu.Unlock()
	}()
}

func GetSymbolShard(symbol string) *SymbolShard {
	h := fnv32(symbol)
	return symbolShards[h%shardNum]
}

func fnv32(key string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= 16777619
	}
	return h
}

type wsMessage struct {
	Action string `json:"action"`
	Symbol string `json:"symbol"`
	UserID string `json:"user_id"`
}

func parseMessage(msg []byte) wsMessage {
	var m wsMessage
	if err := json.Unmarshal(msg, &m); err != nil {
		return wsMessage{}
	}
	return m
}

func cleanConnFromAllSymbols(c *websocket.Conn) {
	for i := 0; i < shardNum; i++ {
		shard := symbolShards[i]
		shard.Mu.Lock()
		for sym, conns := range shard.Subs {
			if conns != nil {
				if _, ok := conns[c]; ok {
					delete(conns, c)
					if len(conns) == 0 {
						delete(shard.Subs, sym)
					}
				}
			}
		}
		shard.Mu.Unlock()
	}
}

// Broadcast pushes msg to every subscriber of symbol. A full buffer drops
// the message to kafka instead of blocking the trade path.
func Broadcast(symbol string, msg []byte) {
	shard := GetSymbolShard(symbol)
	shard.Mu.Lock()
	ensureSymbolDispatcher(shard, symbol)
	buf, ok := shard.MsgBuf[symbol]
	shard.Mu.Unlock()
	if ok && buf != nil {
		select {
		case buf <- msg:
		default:
			log.Printf("symbol %s buffer full, drop message", symbol)
			go saveDroppedMessage(symbol, msg)
		}
	}
}

// saveDroppedMessage parks undeliverable pushes on the dropped topic so a
// downstream consumer can replay them.
func saveDroppedMessage(symbol string, msg []byte) {
	topic := conf.GetConf().Kafka.Topics["dropped"]
	if topic == "" {
		return
	}
	w := kafka.GetWriter(topic)
	err := w.WriteMessages(context.Background(), kafkago.Message{
		Key:   []byte(symbol),
		Value: msg,
	})
	if err != nil {
		log.Printf("failed to park dropped message for %s: %v", symbol, err)
	}
}

// PushExecution fans one committed trade out to the symbol's subscribers and
// to the executing user's own connection.
func PushExecution(tx model.Transaction, res service.ExecutionResult) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	buf.WriteString(`{"type":"execution","symbol":"`)
	buf.WriteString(tx.Symbol)
	buf.WriteString(`","data":`)
	payload, err := json.Marshal(res)
	if err != nil {
		bufferPool.Put(buf)
		log.Printf("marshal execution push: %v", err)
		return
	}
	buf.Write(payload)
	buf.WriteByte('}')

	msg := make([]byte, buf.Len())
	copy(msg, buf.Bytes())
	bufferPool.Put(buf)

	Broadcast(tx.Symbol, msg)
	Unicast(tx.UserID, msg)
}

// RegisterWebSocketRoute mounts the market-stream endpoint on the HTTP
// server. Clients subscribe per symbol and receive execution pushes.
func RegisterWebSocketRoute(h *server.Hertz) {
	h.NoHijackConnPool = true

	h.GET("/ws", func(ctx context.Context, c *app.RequestContext) {
		err := upgrader.Upgrade(c, func(conn *websocket.Conn) {
			var identifiedUser string
			defer func() {
				cleanConnFromAllSymbols(conn)
				if identifiedUser != "" {
					UnregisterUserConn(identifiedUser)
				}
				if err := conn.Close(); err != nil {
					log.Printf("close error: %v", err)
				}
			}()

			for {
				mt, msg, err := conn.ReadMessage()
				if err != nil {
					break
				}

				m := parseMessage(msg)
				switch {
				case m.Action == "subscribe" && m.Symbol != "":
					shard := GetSymbolShard(m.Symbol)
					shard.Mu.Lock()
					if shard.Subs[m.Symbol] == nil {
						shard.Subs[m.Symbol] = make(map[*websocket.Conn]struct{})
					}
					shard.Subs[m.Symbol][conn] = struct{}{}
					shard.Mu.Unlock()
					ack := []byte(`{"type":"subscription_ack","symbol":"` + m.Symbol + `"}`)
					if err := conn.WriteMessage(mt, ack); err != nil {
						log.Printf("ack error: %v", err)
					}
					ensureSymbolDispatcher(shard, m.Symbol)

				case m.Action == "unsubscribe" && m.Symbol != "":
					shard := GetSymbolShard(m.Symbol)
					shard.Mu.Lock()
					if conns, ok := shard.Subs[m.Symbol]; ok {
						delete(conns, conn)
						if len(conns) == 0 {
							delete(shard.Subs, m.Symbol)
						}
					}
					shard.Mu.Unlock()
					ack := []byte(`{"type":"unsubscription_ack","symbol":"` + m.Symbol + `"}`)
					if err := conn.WriteMessage(mt, ack); err != nil {
						log.Printf("ack error: %v", err)
					}

				case m.Action == "identify" && m.UserID != "":
					// Ties the connection to a user so their own fills come
					// back even without a symbol subscription.
					if identifiedUser != "" {
						UnregisterUserConn(identifiedUser)
					}
					identifiedUser = m.UserID
					RegisterUserConn(m.UserID, conn)
					ack := []byte(`{"type":"identify_ack","user_id":"` + m.UserID + `"}`)
					if err := conn.WriteMessage(mt, ack); err != nil {
						log.Printf("ack error: %v", err)
					}
				}
			}
		})
		if err != nil {
			log.Printf("upgrade error: %v", err)
		}
	})
}

var userConnMap sync.Map // map[userID]*websocket.Conn

func RegisterUserConn(userID string, conn *websocket.Conn) {
	userConnMap.Store(userID, conn)
}

func UnregisterUserConn(userID string) {
	userConnMap.Delete(userID)
}

// Unicast sends msg to the identified connection of userID, if any.
func Unicast(userID string, msg []byte) {
	if v, ok := userConnMap.Load(userID); ok {
		if conn, ok := v.(*websocket.Conn); ok {
			_ = conn.WriteMessage(websocket.TextMessage, msg)
		}
	}
}
