package dataflows

import (
	"context"
	"errors"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"
	"github.com/longportapp/openapi-go/trade"

	"github.com/dyike/BrokerGo/internal/config"
)

// LongportClient connects to the Longport brokerage API for static
// security information and daily candlesticks.
type LongportClient struct {
	tradeCtx *trade.TradeContext
	quoteCtx *quote.QuoteContext
}

func NewLongportClient(cfg *config.Config) (*LongportClient, error) {
	if cfg.LongportAppKey == "" || cfg.LongportAppSecret == "" || cfg.LongportAccessToken == "" {
		return nil, errors.New("longport API credentials not configured")
	}

	conf, err := lpconfig.New(lpconfig.WithConfigKey(cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken))
	if err != nil {
		return nil, err
	}

	tradeContext, err := trade.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}

	quoteContext, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}

	return &LongportClient{
		tradeCtx: tradeContext,
		quoteCtx: quoteContext,
	}, nil
}

func (lpc *LongportClient) GetStaticInfo(ctx context.Context, symbols []string) (staticInfos []*quote.StaticInfo, err error) {
	if lpc.quoteCtx != nil {
		return lpc.quoteCtx.StaticInfo(ctx, symbols)
	}
	return nil, errors.New("quote context is nil")
}

func (lpc *LongportClient) GetSticksWithDay(ctx context.Context, symbol string, count int) (sticks []*quote.Candlestick, err error) {
	if lpc.quoteCtx != nil {
		return lpc.quoteCtx.Candlesticks(ctx, symbol, quote.PeriodDay, int32(count), quote.AdjustTypeNo)
	}
	return nil, errors.New("quote context is nil")
}
