package dataflows

import (
	"fmt"
	"strings"
	"time"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"github.com/dyike/BrokerGo/internal/departments/trading"
)

// YahooClient pulls delayed quotes from Yahoo Finance.
type YahooClient struct {
	cache *quoteCache
}

func NewYahooClient() *YahooClient {
	return &YahooClient{cache: newQuoteCache(5 * time.Minute)}
}

// GetQuote gets the latest observation for a symbol.
func (yc *YahooClient) GetQuote(symbol string) (*MarketData, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}

	if cached, ok := yc.cache.get(symbol); ok {
		return cached, nil
	}

	q, err := quote.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}

	data := &MarketData{
		Symbol:        symbol,
		Open:          decimal.NewFromFloat(q.RegularMarketOpen),
		High:          decimal.NewFromFloat(q.RegularMarketDayHigh),
		Low:           decimal.NewFromFloat(q.RegularMarketDayLow),
		Close:         decimal.NewFromFloat(q.RegularMarketPrice),
		Volume:        int64(q.RegularMarketVolume),
		AverageVolume: int64(q.AverageDailyVolume3Month),
		ChangePct:     q.RegularMarketChangePercent / 100,
		Timestamp:     time.Now(),
	}
	yc.cache.set(symbol, data)
	return data, nil
}

// Securities fetches quotes for the given symbols and shapes them for
// the trading desk's market analysis. Symbols that fail to fetch are
// skipped; an error comes back only when nothing was fetched.
func (yc *YahooClient) Securities(symbols []string) ([]trading.Security, error) {
	out := make([]trading.Security, 0, len(symbols))
	var lastErr error
	for _, symbol := range symbols {
		data, err := yc.GetQuote(symbol)
		if err != nil {
			lastErr = err
			continue
		}
		volumeRatio := 0.0
		if data.AverageVolume > 0 {
			volumeRatio = float64(data.Volume)/float64(data.AverageVolume) - 1
		}
		out = append(out, trading.Security{
			Symbol:            data.Symbol,
			Price:             data.Close,
			PriceChangePct:    data.ChangePct,
			VolumeChangeRatio: volumeRatio,
		})
	}
	if len(out) == 0 && lastErr != nil {
		return nil, fmt.Errorf("no quotes fetched: %w", lastErr)
	}
	return out, nil
}
