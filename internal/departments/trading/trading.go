// Package trading implements the sales & trading division: order
// validation, pre-trade risk, position keeping, market making and the
// market-signal reaction loop.
package trading

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dyike/BrokerGo/consts"
	"github.com/dyike/BrokerGo/internal/departments"
	"github.com/dyike/BrokerGo/internal/models"
)

// SalesTrading bundles the desk's risk engine, position ledger and
// market-making book behind the division handler.
type SalesTrading struct {
	Risk   *RiskEngine
	Ledger *Ledger
	Quotes *QuoteBook

	orders []*models.Order
	logger *zap.Logger
}

func New(logger *zap.Logger) *SalesTrading {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesTrading{
		Risk:   NewRiskEngine(),
		Ledger: NewLedger(),
		Quotes: NewQuoteBook(),
		logger: logger.Named("sales_trading"),
	}
}

// Admission holds back high-risk orders that are waiting for explicit
// risk approval. Everything else is admitted; a held task simply stays
// pending for the next round.
func (s *SalesTrading) Admission(task *models.Task) bool {
	if task.Type != consts.TaskExecuteTrade || task.Override {
		return true
	}
	if order := orderFromTask(task); order != nil && order.Status == models.OrderPendingApproval {
		return false
	}
	return true
}

func (s *SalesTrading) Handle(d *departments.Department, task *models.Task) *models.Result {
	switch task.Type {
	case consts.TaskExecuteTrade:
		return s.handleExecuteTrade(d, task)
	case consts.TaskClientOrder:
		return s.handleClientOrder(d, task)
	case consts.TaskMarketMaking:
		return s.handleMarketMaking(d, task)
	case consts.TaskMarketUpdate:
		return s.handleMarketUpdate(d, task)
	}
	return nil
}

// handleExecuteTrade runs the validate -> assess -> execute sequence
// for one order, atomically within the round.
func (s *SalesTrading) handleExecuteTrade(d *departments.Department, task *models.Task) *models.Result {
	order := orderFromTask(task)
	if order == nil {
		return &models.Result{
			TaskID:   task.ID,
			Division: d.ID,
			Status:   models.ResultRejected,
			Message:  "trade task carries no order",
		}
	}
	// record on first sight only; a held order resubmitted with an
	// override comes back through here with pending_risk_approval
	if order.Status == models.OrderPending || order.Status == models.OrderPendingExecution {
		s.orders = append(s.orders, order)
	}

	if validation := s.Risk.Validate(order); !validation.Valid {
		order.Status = models.OrderRejected
		order.Reason = validation.Reason
		return &models.Result{
			TaskID:   task.ID,
			Division: d.ID,
			Status:   models.ResultRejected,
			Message:  fmt.Sprintf("Order rejected: %s.", validation.Reason),
			Data:     map[string]any{"order": order},
		}
	}

	assessment := s.Risk.Assess(order, s.Ledger.Get(order.Symbol))
	if assessment.Level == RiskHigh && !task.Override {
		order.Status = models.OrderPendingApproval
		d.SendInternalMessage(
			fmt.Sprintf("High-risk order flagged: %s %d %s. Reason: %s.",
				order.Side, order.Quantity, order.Symbol, assessment.Reason),
			[]string{consts.RiskCompliance},
			map[string]any{"order_id": order.ID},
		)
		s.logger.Warn("order held for risk approval",
			zap.String("order_id", order.ID),
			zap.String("symbol", order.Symbol),
			zap.String("reason", assessment.Reason))
		return &models.Result{
			TaskID:   task.ID,
			Division: d.ID,
			Status:   models.ResultPendingApproval,
			Message: fmt.Sprintf("Risk assessment graded the order high risk (%s). Execution is on hold and risk & compliance has been notified.",
				assessment.Reason),
			Data: map[string]any{"order": order, "risk_assessment": assessment},
		}
	}

	price := order.PriceOrDefault()
	order.Status = models.OrderExecuted
	order.Execution = &models.Execution{
		Price:      price,
		Quantity:   order.Quantity,
		Cost:       s.Risk.TransactionCost(order),
		ExecutedAt: time.Now(),
	}
	if err := s.Ledger.Apply(order); err != nil {
		order.Status = models.OrderRejected
		order.Execution = nil
		return &models.Result{
			TaskID:   task.ID,
			Division: d.ID,
			Status:   models.ResultRejected,
			Message:  fmt.Sprintf("Order could not be booked: %v.", err),
		}
	}

	s.logger.Info("order executed",
		zap.String("order_id", order.ID),
		zap.String("symbol", order.Symbol),
		zap.Int64("quantity", order.Quantity),
		zap.String("price", price.String()))

	return &models.Result{
		TaskID:   task.ID,
		Division: d.ID,
		Status:   models.ResultCompleted,
		Message: fmt.Sprintf("Executed %s order for %d %s at %s.",
			order.Side, order.Quantity, order.Symbol, price.String()),
		Data:   map[string]any{"order": order, "risk_assessment": assessment},
		Action: &models.Action{Type: consts.ActionPlaceOrder, Order: order},
	}
}

// handleClientOrder accepts a client order and self-chains the
// execution task for the next round.
func (s *SalesTrading) handleClientOrder(d *departments.Department, task *models.Task) *models.Result {
	order := orderFromTask(task)
	if order == nil {
		return &models.Result{
			TaskID:   task.ID,
			Division: d.ID,
			Status:   models.ResultRejected,
			Message:  "client order task carries no order",
		}
	}
	if client, ok := task.Payload["client"].(string); ok {
		order.Client = client
	}

	if validation := s.Risk.Validate(order); !validation.Valid {
		order.Status = models.OrderRejected
		order.Reason = validation.Reason
		return &models.Result{
			TaskID:   task.ID,
			Division: d.ID,
			Status:   models.ResultRejected,
			Message:  fmt.Sprintf("Client order is invalid: %s.", validation.Reason),
			Data:     map[string]any{"order": order},
		}
	}

	order.Status = models.OrderPendingExecution
	followUp := models.NewTask(consts.TaskExecuteTrade, map[string]any{"order": order})
	followUp.Sender = d.ID
	d.AddTask(followUp)

	return &models.Result{
		TaskID:   task.ID,
		Division: d.ID,
		Status:   models.ResultCompleted,
		Message: fmt.Sprintf("Accepted %s order for %d %s from %s; execution is being prepared.",
			order.Side, order.Quantity, order.Symbol, clientLabel(order.Client)),
		Data: map[string]any{"order": order, "next_step": consts.TaskExecuteTrade},
	}
}

// handleMarketMaking starts quoting a symbol.
func (s *SalesTrading) handleMarketMaking(d *departments.Department, task *models.Task) *models.Result {
	symbol, _ := task.Payload["symbol"].(string)
	if symbol == "" {
		return &models.Result{
			TaskID:   task.ID,
			Division: d.ID,
			Status:   models.ResultRejected,
			Message:  "market making task carries no symbol",
		}
	}

	bid := decimalFromPayload(task.Payload, "bid")
	ask := decimalFromPayload(task.Payload, "ask")
	bidSize := int64FromPayload(task.Payload, "bid_size")
	askSize := int64FromPayload(task.Payload, "ask_size")

	quote := s.Quotes.Start(symbol, bid, ask, bidSize, askSize)

	size := quote.BidSize
	if quote.AskSize < size {
		size = quote.AskSize
	}
	return &models.Result{
		TaskID:   task.ID,
		Division: d.ID,
		Status:   models.ResultCompleted,
		Message:  fmt.Sprintf("Now making a market in %s: bid %s, ask %s.", symbol, quote.Bid.String(), quote.Ask.String()),
		Data:     map[string]any{"quote": quote},
		Action: &models.Action{
			Type:     consts.ActionMarketMaking,
			Symbol:   symbol,
			Bid:      quote.Bid,
			Ask:      quote.Ask,
			Quantity: size,
		},
	}
}

// handleMarketUpdate analyses a market update and schedules the quote
// and position reactions the analysis calls for.
func (s *SalesTrading) handleMarketUpdate(d *departments.Department, task *models.Task) *models.Result {
	securities, _ := task.Payload["securities"].([]Security)
	analysis := AnalyzeMarket(securities, s.Ledger)

	var action *models.Action
	if analysis.AdjustQuotes {
		for _, sec := range analysis.AffectedSecurities {
			quote, moved := s.Quotes.Adjust(sec.Symbol, sec.Price, sec.PriceChangePct)
			if !moved {
				continue
			}
			d.SendInternalMessage(
				fmt.Sprintf("Re-quoted %s: bid %s, ask %s.", sec.Symbol, quote.Bid.String(), quote.Ask.String()),
				[]string{consts.Executive}, nil)
			if action == nil {
				size := quote.BidSize
				if quote.AskSize < size {
					size = quote.AskSize
				}
				action = &models.Action{
					Type:     consts.ActionMarketMaking,
					Symbol:   quote.Symbol,
					Bid:      quote.Bid,
					Ask:      quote.Ask,
					Quantity: size,
				}
			}
		}
	}

	if analysis.AdjustPositions {
		for _, advice := range analysis.AffectedPositions {
			s.reducePosition(d, advice)
		}
	}

	return &models.Result{
		TaskID:   task.ID,
		Division: d.ID,
		Status:   models.ResultCompleted,
		Message: fmt.Sprintf("Market update analysed: trend %s, volatility %s, liquidity %s.",
			analysis.Trend, analysis.Volatility, analysis.Liquidity),
		Data:   map[string]any{"analysis": analysis},
		Action: action,
	}
}

// reducePosition applies the 20% reduction heuristic: an opposing-side
// market order for a fifth of the open position, pushed back through
// the normal execution pipeline. A reduction that rounds to zero is
// skipped.
func (s *SalesTrading) reducePosition(d *departments.Department, advice PositionAdvice) {
	if advice.Action != AdviceReduce || advice.CurrentPosition == 0 {
		return
	}
	// floor(|position| * 0.2) == |position| / 5 for integers
	reduction := abs64(advice.CurrentPosition) / 5
	if reduction == 0 {
		return
	}

	side := models.SideSell
	if advice.CurrentPosition < 0 {
		side = models.SideBuy
	}
	order := models.NewOrder(advice.Symbol, models.OrderMarket, side, reduction, nil)
	order.Reason = "position_adjustment"

	followUp := models.NewTask(consts.TaskExecuteTrade, map[string]any{"order": order})
	followUp.Sender = d.ID
	d.AddTask(followUp)

	d.SendInternalMessage(
		fmt.Sprintf("Planned position adjustment for %s: current %d, will %s %d.",
			advice.Symbol, advice.CurrentPosition, side, reduction),
		[]string{consts.RiskCompliance}, nil)
	s.logger.Info("position adjustment scheduled",
		zap.String("symbol", advice.Symbol),
		zap.Int64("current", advice.CurrentPosition),
		zap.Int64("reduction", reduction))
}

// Viewpoint is the desk's stance during conflict mediation.
func (s *SalesTrading) Viewpoint(issue string) models.Viewpoint {
	return models.Viewpoint{
		Division: consts.SalesTrading,
		Perspective: fmt.Sprintf("From an execution standpoint, %s could affect market liquidity and transaction costs; the desk should assess the impact on trading strategy and market-making activity.",
			issue),
		RiskLabel:      "medium-high",
		Opportunity:    "possible short-term trading opportunities",
		Recommendation: "Monitor the market closely and be ready to adjust trading and quoting activity.",
	}
}

// Orders returns the order history seen by the desk.
func (s *SalesTrading) Orders() []*models.Order {
	out := make([]*models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Status is the desk-level snapshot added onto the base division
// report.
type Status struct {
	ActivePositions int   `json:"active_positions"`
	GrossExposure   int64 `json:"total_position_value"`
	ActiveQuotes    int   `json:"active_market_making"`
	OrdersSeen      int   `json:"orders_seen"`
}

func (s *SalesTrading) Status() Status {
	return Status{
		ActivePositions: len(s.Ledger.Symbols()),
		GrossExposure:   s.Ledger.GrossExposure(),
		ActiveQuotes:    s.Quotes.ActiveCount(),
		OrdersSeen:      len(s.orders),
	}
}

func orderFromTask(task *models.Task) *models.Order {
	order, _ := task.Payload["order"].(*models.Order)
	return order
}

func clientLabel(client string) string {
	if client == "" {
		return "an unnamed client"
	}
	return client
}

func decimalFromPayload(payload map[string]any, key string) decimal.Decimal {
	switch v := payload[key].(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	case int:
		return decimal.NewFromInt(int64(v))
	}
	return decimal.Zero
}

func int64FromPayload(payload map[string]any, key string) int64 {
	switch v := payload[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
