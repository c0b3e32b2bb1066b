// Package gateway abstracts the external market connection the trading
// desk executes against.
package gateway

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dyike/BrokerGo/internal/models"
)

// MarketGateway is the outbound market connection. Implementations
// return an error when the venue rejects or the transport fails; the
// caller converts that into a failed action result instead of letting
// it escape.
type MarketGateway interface {
	PlaceOrder(ctx context.Context, order *models.Order) error
	CancelOrder(ctx context.Context, orderID string) error
	PublishQuote(ctx context.Context, symbol string, bid, ask decimal.Decimal, size int64) error
}

// Simulated is an in-process gateway that accepts everything. Used by
// the demo and by tests that exercise the routing around the gateway.
type Simulated struct {
	mu     sync.Mutex
	placed []*models.Order
	quotes map[string][2]decimal.Decimal
}

func NewSimulated() *Simulated {
	return &Simulated{quotes: make(map[string][2]decimal.Decimal)}
}

func (s *Simulated) PlaceOrder(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placed = append(s.placed, order)
	return nil
}

func (s *Simulated) CancelOrder(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.placed {
		if o.ID == orderID {
			s.placed = append(s.placed[:i], s.placed[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Simulated) PublishQuote(_ context.Context, symbol string, bid, ask decimal.Decimal, _ int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[symbol] = [2]decimal.Decimal{bid, ask}
	return nil
}

// Placed returns the orders accepted so far.
func (s *Simulated) Placed() []*models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Order, len(s.placed))
	copy(out, s.placed)
	return out
}
