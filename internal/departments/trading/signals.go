package trading

import "github.com/shopspring/decimal"

// Security is one observed instrument in a market update.
type Security struct {
	Symbol            string          `json:"symbol"`
	Price             decimal.Decimal `json:"price"`
	PriceChangePct    float64         `json:"price_change"`
	VolumeChangeRatio float64         `json:"volume_change"`
}

// PositionAdvice flags what to do with an open position after a market
// move.
type PositionAdvice struct {
	Symbol          string `json:"symbol"`
	CurrentPosition int64  `json:"current_position"`
	Action          string `json:"recommended_action"`
}

const (
	AdviceReduce = "reduce"
	AdviceHold   = "hold"
)

// Analysis summarises a market update and schedules the follow-up work:
// which symbols need a quote adjustment and which open positions need
// reevaluation.
type Analysis struct {
	Trend              string           `json:"market_trend"`
	Volatility         string           `json:"volatility"`
	Liquidity          string           `json:"liquidity"`
	ActionRequired     bool             `json:"action_required"`
	AdjustQuotes       bool             `json:"adjust_market_making"`
	AdjustPositions    bool             `json:"adjust_positions"`
	AffectedSecurities []Security       `json:"affected_securities,omitempty"`
	AffectedPositions  []PositionAdvice `json:"affected_positions,omitempty"`
}

// priceMoveThreshold and volumeSpikeThreshold are the signal cutoffs: a
// 5% price move flips the trend flag and marks volatility high, a
// doubled volume marks liquidity high. Both schedule quote
// reevaluation.
const (
	priceMoveThreshold   = 0.05
	volumeSpikeThreshold = 1.0
)

// AnalyzeMarket inspects each observed security and, against the
// ledger, works out which positions are exposed to the move. A reduce
// flag is raised when the move runs against the sign of the position.
func AnalyzeMarket(securities []Security, ledger *Ledger) Analysis {
	analysis := Analysis{
		Trend:      "stable",
		Volatility: "low",
		Liquidity:  "normal",
	}

	affected := make(map[string]bool)
	for _, sec := range securities {
		change := sec.PriceChangePct

		if change > priceMoveThreshold || change < -priceMoveThreshold {
			if change > 0 {
				analysis.Trend = "up"
			} else {
				analysis.Trend = "down"
			}
			analysis.Volatility = "high"
			analysis.ActionRequired = true
			analysis.AdjustQuotes = true
			analysis.AffectedSecurities = append(analysis.AffectedSecurities, sec)
			affected[sec.Symbol] = true

			if position := ledger.Get(sec.Symbol); position != 0 {
				analysis.AdjustPositions = true
				action := AdviceHold
				if (change < 0 && position > 0) || (change > 0 && position < 0) {
					action = AdviceReduce
				}
				analysis.AffectedPositions = append(analysis.AffectedPositions, PositionAdvice{
					Symbol:          sec.Symbol,
					CurrentPosition: position,
					Action:          action,
				})
			}
		}

		if sec.VolumeChangeRatio > volumeSpikeThreshold {
			analysis.Liquidity = "high"
			analysis.ActionRequired = true
			if !affected[sec.Symbol] {
				analysis.AdjustQuotes = true
				analysis.AffectedSecurities = append(analysis.AffectedSecurities, sec)
				affected[sec.Symbol] = true
			}
		}
	}

	return analysis
}
