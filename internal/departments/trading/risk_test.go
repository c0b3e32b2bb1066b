package trading

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dyike/BrokerGo/internal/models"
)

func marketOrder(symbol string, side models.OrderSide, qty int64) *models.Order {
	return models.NewOrder(symbol, models.OrderMarket, side, qty, nil)
}

func TestAssessLowRisk(t *testing.T) {
	e := NewRiskEngine()

	a := e.Assess(marketOrder("AAPL", models.SideBuy, 5_000), 0)
	if a.Level != RiskLow {
		t.Fatalf("level = %s, want low", a.Level)
	}
	if a.NewPosition != 5_000 {
		t.Fatalf("new position = %d, want 5000", a.NewPosition)
	}
}

func TestAssessMediumAboveTenThousand(t *testing.T) {
	e := NewRiskEngine()

	a := e.Assess(marketOrder("AAPL", models.SideBuy, 10_001), 0)
	if a.Level != RiskMedium {
		t.Fatalf("level = %s, want medium", a.Level)
	}
}

func TestAssessHighAboveFiftyThousand(t *testing.T) {
	e := NewRiskEngine()

	a := e.Assess(marketOrder("AAPL", models.SideBuy, 60_000), 0)
	if a.Level != RiskHigh {
		t.Fatalf("level = %s, want high", a.Level)
	}
}

func TestAssessSellUsesSignedPosition(t *testing.T) {
	e := NewRiskEngine()

	// Selling into a short: |-60000| breaches the high threshold.
	a := e.Assess(marketOrder("AAPL", models.SideSell, 55_000), -5_000)
	if a.Level != RiskHigh {
		t.Fatalf("level = %s, want high", a.Level)
	}
	if a.NewPosition != -60_000 {
		t.Fatalf("new position = %d, want -60000", a.NewPosition)
	}
}

func TestAssessChangePctForcesHigh(t *testing.T) {
	e := NewRiskEngine()

	// 20000 -> 5000 is a 75% change: high even though the size is small.
	a := e.Assess(marketOrder("AAPL", models.SideSell, 15_000), 20_000)
	if a.Level != RiskHigh {
		t.Fatalf("level = %s, want high", a.Level)
	}
	if a.ChangePct != 0.75 {
		t.Fatalf("change pct = %v, want 0.75", a.ChangePct)
	}
}

func TestAssessChangePctSkippedFromFlat(t *testing.T) {
	e := NewRiskEngine()

	// From a flat book every trade is an infinite relative change; the
	// rule only applies to existing positions.
	a := e.Assess(marketOrder("AAPL", models.SideBuy, 9_000), 0)
	if a.Level != RiskLow {
		t.Fatalf("level = %s, want low", a.Level)
	}
	if a.ChangePct != 0 {
		t.Fatalf("change pct = %v, want 0", a.ChangePct)
	}
}

func TestValidate(t *testing.T) {
	e := NewRiskEngine()

	cases := []struct {
		name   string
		order  *models.Order
		reason string
	}{
		{"missing symbol", marketOrder("", models.SideBuy, 100), "missing symbol"},
		{"zero quantity", marketOrder("AAPL", models.SideBuy, 0), "missing quantity"},
		{"negative quantity", marketOrder("AAPL", models.SideBuy, -5), "quantity must be positive"},
		{"limit without price", models.NewOrder("AAPL", models.OrderLimit, models.SideBuy, 100, nil), "limit order requires a price"},
		{"bad side", models.NewOrder("AAPL", models.OrderMarket, "hold", 100, nil), "side must be buy or sell"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := e.Validate(tc.order)
			if v.Valid {
				t.Fatal("expected invalid")
			}
			if v.Reason != tc.reason {
				t.Fatalf("reason = %q, want %q", v.Reason, tc.reason)
			}
		})
	}

	if v := e.Validate(marketOrder("AAPL", models.SideBuy, 100)); !v.Valid {
		t.Fatalf("valid order rejected: %s", v.Reason)
	}
}

func TestTransactionCost(t *testing.T) {
	e := NewRiskEngine()

	price := decimal.NewFromInt(50)
	order := models.NewOrder("AAPL", models.OrderLimit, models.SideBuy, 200, &price)
	// 50 * 200 * 0.001 = 10
	if cost := e.TransactionCost(order); !cost.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("cost = %s, want 10", cost)
	}

	// Without a price the reference price of 100 applies: 100*200*0.001.
	unpriced := marketOrder("AAPL", models.SideBuy, 200)
	if cost := e.TransactionCost(unpriced); !cost.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("cost = %s, want 20", cost)
	}
}
