package kafka

import (
	"context"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"

	"papertrade/conf"
)

var writers sync.Map // map[string]*kafka.Writer

// GetWriter returns the shared kafka.Writer for topic, creating it on first
// use.
func GetWriter(topic string) *kafka.Writer {
	val, ok := writers.Load(topic)
	if ok {
		return val.(*kafka.Writer)
	}
	brokers := conf.GetConf().Kafka.Brokers
	if len(brokers) == 0 {
		panic("Kafka brokers not configured")
	}
	writer := &kafka.Writer{
		Addr:  kafka.TCP(brokers...),
		Topic: topic,
		Async: true,
	}
	writers.Store(topic, writer)
	return writer
}

// InitWriters pre-creates writers for every configured topic.
func InitWriters() {
	for _, topic := range conf.GetConf().Kafka.Topics {
		GetWriter(topic)
	}
}

func TestKafkaConnection() {
	brokers := conf.GetConf().Kafka.Brokers
	if len(brokers) == 0 {
		panic("Kafka brokers not configured")
	}
	conn, err := kafka.DialContext(context.Background(), "tcp", brokers[0])
	if err != nil {
		panic(fmt.Sprintf("failed to connect to kafka: %v", err))
	}
	_ = conn.Close()
}

func CloseAllWriters() {
	writers.Range(func(key, value interface{}) bool {
		if w, ok := value.(*kafka.Writer); ok {
			_ = w.Close()
		}
		return true
	})
}

func Init() {
	TestKafkaConnection()
	InitWriters()
}
