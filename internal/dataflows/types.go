// Package dataflows fetches external market data and shapes it into
// the structures the divisions consume.
package dataflows

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MarketData is one observation for a symbol.
type MarketData struct {
	Symbol        string          `json:"symbol"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Close         decimal.Decimal `json:"close"`
	Volume        int64           `json:"volume"`
	AverageVolume int64           `json:"average_volume"`
	ChangePct     float64         `json:"change_pct"`
	Timestamp     time.Time       `json:"timestamp"`
}

// quoteCache is a small in-memory TTL cache in front of the quote
// providers. External feeds rate-limit; the divisions re-query the
// same symbols every round.
type quoteCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cachedQuote
}

type cachedQuote struct {
	data    *MarketData
	fetched time.Time
}

func newQuoteCache(ttl time.Duration) *quoteCache {
	return &quoteCache{
		ttl:     ttl,
		entries: make(map[string]cachedQuote),
	}
}

func (c *quoteCache) get(symbol string) (*MarketData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[symbol]
	if !ok || time.Since(entry.fetched) > c.ttl {
		return nil, false
	}
	return entry.data, true
}

func (c *quoteCache) set(symbol string, data *MarketData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[symbol] = cachedQuote{data: data, fetched: time.Now()}
}
