package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"papertrade/conf"
)

var Client *redis.Client

func Init() {
	Client = redis.NewClient(&redis.Options{
		Addr:     conf.GetConf().Redis.Address,
		Username: conf.GetConf().Redis.Username,
		Password: conf.GetConf().Redis.Password,
		DB:       conf.GetConf().Redis.DB,
	})
	if err := Client.Ping(context.Background()).Err(); err != nil {
		panic(err)
	}
}

const quoteKeyPrefix = "quote:"

// CacheQuote stores the latest oracle quote for symbol with a TTL, so bursts
// of trades on the same symbol don't hammer the oracle.
func CacheQuote(ctx context.Context, symbol, price string, ttl time.Duration) error {
	return Client.Set(ctx, quoteKeyPrefix+symbol, price, ttl).Err()
}

// GetCachedQuote returns the cached quote for symbol, or ("", nil) on a miss.
func GetCachedQuote(ctx context.Context, symbol string) (string, error) {
	val, err := Client.Get(ctx, quoteKeyPrefix+symbol).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
