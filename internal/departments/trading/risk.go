package trading

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/dyike/BrokerGo/internal/models"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Assessment is the outcome of pre-trade risk analysis for one order.
type Assessment struct {
	Level           RiskLevel `json:"risk_level"`
	Reason          string    `json:"reason,omitempty"`
	CurrentPosition int64     `json:"current_position"`
	NewPosition     int64     `json:"new_position"`
	ChangePct       float64   `json:"change_percentage"`
}

// Validation is an expected outcome, not an error: invalid orders are
// rejected with a reason and the round continues.
type Validation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// RiskEngine applies the desk's synthetic pre-trade limits. The
// thresholds are decision boundaries, not a market model.
type RiskEngine struct {
	// MediumPosition and HighPosition are absolute post-trade position
	// sizes above which risk escalates.
	MediumPosition int64
	HighPosition   int64
	// MaxChangePct forces high risk whenever the relative position
	// change exceeds it, regardless of absolute size.
	MaxChangePct float64
	// CommissionRate prices the transaction cost as a fraction of
	// notional.
	CommissionRate decimal.Decimal
}

func NewRiskEngine() *RiskEngine {
	return &RiskEngine{
		MediumPosition: 10_000,
		HighPosition:   50_000,
		MaxChangePct:   0.5,
		CommissionRate: decimal.NewFromFloat(0.001),
	}
}

// Assess grades an order against the current position for its symbol.
// The percentage-change rule overrides the size-based level in either
// direction.
func (e *RiskEngine) Assess(order *models.Order, currentPosition int64) Assessment {
	newPosition := currentPosition
	if order.Side == models.SideBuy {
		newPosition += order.Quantity
	} else {
		newPosition -= order.Quantity
	}

	assessment := Assessment{
		Level:           RiskLow,
		CurrentPosition: currentPosition,
		NewPosition:     newPosition,
	}

	if abs64(newPosition) > e.MediumPosition {
		assessment.Level = RiskMedium
		assessment.Reason = "post-trade position is large"
	}
	if abs64(newPosition) > e.HighPosition {
		assessment.Level = RiskHigh
		assessment.Reason = "post-trade position is excessive and concentrates risk"
	}

	if currentPosition != 0 {
		assessment.ChangePct = math.Abs(float64(newPosition)/float64(currentPosition) - 1)
		if assessment.ChangePct > e.MaxChangePct {
			assessment.Level = RiskHigh
			assessment.Reason = "position change exceeds 50%"
		}
	}

	return assessment
}

// Validate checks the order's structural fields.
func (e *RiskEngine) Validate(order *models.Order) Validation {
	if order.Symbol == "" {
		return Validation{Reason: "missing symbol"}
	}
	if order.Quantity == 0 {
		return Validation{Reason: "missing quantity"}
	}
	if order.Quantity < 0 {
		return Validation{Reason: "quantity must be positive"}
	}
	if order.Type == models.OrderLimit && order.Price == nil {
		return Validation{Reason: "limit order requires a price"}
	}
	if order.Side != models.SideBuy && order.Side != models.SideSell {
		return Validation{Reason: "side must be buy or sell"}
	}
	return Validation{Valid: true}
}

// TransactionCost estimates commission for an order at its price, or at
// the reference price when no price is attached.
func (e *RiskEngine) TransactionCost(order *models.Order) decimal.Decimal {
	notional := order.PriceOrDefault().Mul(decimal.NewFromInt(order.Quantity))
	return notional.Mul(e.CommissionRate)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
