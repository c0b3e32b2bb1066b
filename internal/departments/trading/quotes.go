package trading

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one actively quoted symbol on the market-making book.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Bid       decimal.Decimal `json:"bid"`
	Ask       decimal.Decimal `json:"ask"`
	BidSize   int64           `json:"bid_size"`
	AskSize   int64           `json:"ask_size"`
	Active    bool            `json:"active"`
	StartedAt time.Time       `json:"start_time"`
	UpdatedAt time.Time       `json:"last_update,omitempty"`
}

// QuoteBook holds the symbols this desk is currently making markets in.
type QuoteBook struct {
	quotes map[string]*Quote
}

func NewQuoteBook() *QuoteBook {
	return &QuoteBook{quotes: make(map[string]*Quote)}
}

// Start begins quoting a symbol. Sizes default to 1000 a side.
func (b *QuoteBook) Start(symbol string, bid, ask decimal.Decimal, bidSize, askSize int64) *Quote {
	if bidSize <= 0 {
		bidSize = 1000
	}
	if askSize <= 0 {
		askSize = 1000
	}
	q := &Quote{
		Symbol:    symbol,
		Bid:       bid,
		Ask:       ask,
		BidSize:   bidSize,
		AskSize:   askSize,
		Active:    true,
		StartedAt: time.Now(),
	}
	b.quotes[symbol] = q
	return q
}

// Stop deactivates the quote for a symbol, keeping it on the book.
func (b *QuoteBook) Stop(symbol string) {
	if q, ok := b.quotes[symbol]; ok {
		q.Active = false
	}
}

// Get returns the quote for a symbol, active or not.
func (b *QuoteBook) Get(symbol string) (*Quote, bool) {
	q, ok := b.quotes[symbol]
	return q, ok
}

// ActiveCount reports how many symbols are being quoted.
func (b *QuoteBook) ActiveCount() int {
	n := 0
	for _, q := range b.quotes {
		if q.Active {
			n++
		}
	}
	return n
}

// Adjust re-centres the bid/ask around the latest price. The spread
// widens with observed volatility:
//
//	spread = max(0.01, |price * 0.002 * (1 + |priceChangePct| * 10)|)
//
// Adjust is a no-op when the symbol is not actively quoted; the second
// return value reports whether the quote moved.
func (b *QuoteBook) Adjust(symbol string, price decimal.Decimal, priceChangePct float64) (*Quote, bool) {
	q, ok := b.quotes[symbol]
	if !ok || !q.Active {
		return nil, false
	}

	widening := decimal.NewFromFloat(0.002 * (1 + math.Abs(priceChangePct)*10))
	spread := price.Mul(widening).Abs()
	floor := decimal.NewFromFloat(0.01)
	if spread.LessThan(floor) {
		spread = floor
	}

	half := spread.Div(decimal.NewFromInt(2))
	q.Bid = price.Sub(half)
	q.Ask = price.Add(half)
	q.UpdatedAt = time.Now()
	return q, true
}
