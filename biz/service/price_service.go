package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"papertrade/biz/dal/redis"
	"papertrade/conf"
)

// quoteResponse is the oracle's quote payload.
type quoteResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// symbolListing is one entry of the oracle's symbol directory.
type symbolListing struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// OracleClient talks to the external quote API over HTTP.
type OracleClient struct {
	http      *resty.Client
	quotePath string
	listPath  string
}

func NewOracleClient() *OracleClient {
	oc := conf.GetConf().Oracle
	timeout := time.Duration(oc.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	client := resty.New().
		SetBaseURL(oc.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(oc.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond)
	quotePath := oc.QuotePath
	if quotePath == "" {
		quotePath = "/quote/{symbol}"
	}
	listPath := oc.ImportPath
	if listPath == "" {
		listPath = "/symbols"
	}
	return &OracleClient{http: client, quotePath: quotePath, listPath: listPath}
}

// Quote fetches the current price for symbol.
func (c *OracleClient) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	var out quoteResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetResult(&out).
		Get(c.quotePath)
	if err != nil {
		return decimal.Zero, err
	}
	if !resp.IsSuccess() {
		return decimal.Zero, fmt.Errorf("quote request for %s returned %d", symbol, resp.StatusCode())
	}
	price, err := decimal.NewFromString(out.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote for %s not parseable: %w", symbol, err)
	}
	return price, nil
}

// ListSymbols fetches the oracle's full symbol directory, used by import.
func (c *OracleClient) ListSymbols(ctx context.Context) ([]symbolListing, error) {
	var out []symbolListing
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(c.listPath)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("symbol listing returned %d", resp.StatusCode())
	}
	return out, nil
}

// PriceService implements PriceOracle over the oracle HTTP API with a short
// redis cache in front, so a burst of trades on one symbol costs one oracle
// round-trip.
type PriceService struct {
	oracle   *OracleClient
	cacheTTL time.Duration
}

func NewPriceService(oracle *OracleClient) *PriceService {
	ttl := time.Duration(conf.GetConf().Oracle.CacheTTLMS) * time.Millisecond
	if ttl <= 0 {
		ttl = time.Second
	}
	return &PriceService{oracle: oracle, cacheTTL: ttl}
}

// GetCurrentPrice returns the quote for symbol. Any failure to obtain a
// usable quote comes back wrapping ErrPriceUnavailable; a stale cache entry
// is never served past its TTL.
func (s *PriceService) GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if redis.Client != nil {
		cached, err := redis.GetCachedQuote(ctx, symbol)
		if err != nil {
			hlog.Warnf("quote cache read failed for %s: %v", symbol, err)
		} else if cached != "" {
			if price, perr := decimal.NewFromString(cached); perr == nil {
				return price, nil
			}
		}
	}

	price, err := s.oracle.Quote(ctx, symbol)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: non-positive quote %s for %s", ErrPriceUnavailable, price, symbol)
	}

	if redis.Client != nil {
		if err := redis.CacheQuote(ctx, symbol, price.String(), s.cacheTTL); err != nil {
			hlog.Warnf("quote cache write failed for %s: %v", symbol, err)
		}
	}
	return price, nil
}
