package trading

import (
	"fmt"
	"sort"

	"github.com/dyike/BrokerGo/internal/models"
)

// Ledger tracks the desk's signed per-symbol positions. It is owned
// exclusively by the trading division and mutated only through Apply,
// never directly.
type Ledger struct {
	positions map[string]int64
}

func NewLedger() *Ledger {
	return &Ledger{positions: make(map[string]int64)}
}

// Get returns the signed position for a symbol, zero when flat.
func (l *Ledger) Get(symbol string) int64 {
	return l.positions[symbol]
}

// Apply books an executed order into the ledger. Orders in any other
// state are refused so positions can never move speculatively.
func (l *Ledger) Apply(order *models.Order) error {
	if order.Status != models.OrderExecuted {
		return fmt.Errorf("apply %s: order not executed (status %s)", order.ID, order.Status)
	}
	if order.Side == models.SideBuy {
		l.positions[order.Symbol] += order.Quantity
	} else {
		l.positions[order.Symbol] -= order.Quantity
	}
	return nil
}

// Symbols lists symbols with open exposure, sorted for determinism.
func (l *Ledger) Symbols() []string {
	out := make([]string, 0, len(l.positions))
	for symbol, qty := range l.positions {
		if qty != 0 {
			out = append(out, symbol)
		}
	}
	sort.Strings(out)
	return out
}

// GrossExposure sums absolute position sizes across symbols.
func (l *Ledger) GrossExposure() int64 {
	var total int64
	for _, qty := range l.positions {
		total += abs64(qty)
	}
	return total
}

// All returns a copy of every position, including flat ones.
func (l *Ledger) All() map[string]int64 {
	out := make(map[string]int64, len(l.positions))
	for symbol, qty := range l.positions {
		out[symbol] = qty
	}
	return out
}
