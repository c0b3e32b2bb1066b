package dataflows

import (
	"testing"
	"time"
)

func TestQuoteCacheHitWithinTTL(t *testing.T) {
	cache := newQuoteCache(time.Minute)
	cache.set("AAPL", &MarketData{Symbol: "AAPL", ChangePct: 0.01})

	data, ok := cache.get("AAPL")
	if !ok || data.Symbol != "AAPL" {
		t.Fatalf("get = %+v ok = %v", data, ok)
	}
}

func TestQuoteCacheMissForUnknownSymbol(t *testing.T) {
	cache := newQuoteCache(time.Minute)
	if _, ok := cache.get("MSFT"); ok {
		t.Fatal("unknown symbol must miss")
	}
}

func TestQuoteCacheExpires(t *testing.T) {
	cache := newQuoteCache(time.Nanosecond)
	cache.set("AAPL", &MarketData{Symbol: "AAPL"})
	time.Sleep(time.Millisecond)

	if _, ok := cache.get("AAPL"); ok {
		t.Fatal("stale entry must miss")
	}
}
