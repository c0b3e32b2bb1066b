package broker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dyike/BrokerGo/consts"
	"github.com/dyike/BrokerGo/internal/departments/trading"
	"github.com/dyike/BrokerGo/internal/gateway"
	"github.com/dyike/BrokerGo/internal/models"
)

// MarketEvent is a normalised external event pushed at the firm:
// market data, a trading opportunity, a regulatory announcement or a
// client request.
type MarketEvent struct {
	Type       string             `json:"type"`
	Content    string             `json:"content,omitempty"`
	Securities []trading.Security `json:"securities,omitempty"`
	Payload    map[string]any     `json:"payload,omitempty"`
}

const (
	EventMarketUpdate           = "market_update"
	EventTradingOpportunity     = "trading_opportunity"
	EventRegulatoryAnnouncement = "regulatory_announcement"
	EventClientRequest          = "client_request"
)

// EventOutcome reports how one event moved through the firm.
type EventOutcome struct {
	Event   string                      `json:"event"`
	Results map[string][]*models.Result `json:"results,omitempty"`
	Actions []models.ActionResult       `json:"actions,omitempty"`
	Reply   string                      `json:"reply,omitempty"`
}

// HandleMarketEvent routes an external event to the divisions that own
// it, runs their queues and pushes any resulting market actions through
// the gateway. A nil gateway means actions are recorded but not sent.
func (b *Broker) HandleMarketEvent(ctx context.Context, gw gateway.MarketGateway, event MarketEvent) (EventOutcome, error) {
	switch event.Type {
	case EventMarketUpdate:
		return b.handleMarketUpdate(ctx, gw, event)
	case EventTradingOpportunity:
		return b.handleOpportunity(ctx, gw, event)
	case EventRegulatoryAnnouncement:
		return b.handleRegulatory(event)
	case EventClientRequest:
		return b.handleClientRequest(event)
	default:
		return EventOutcome{}, fmt.Errorf("unknown market event type %q", event.Type)
	}
}

// handleMarketUpdate fans fresh market data out to research, the
// trading desk and the executive committee, then runs two rounds so the
// desk's follow-up orders (position reductions re-enter the pipeline as
// fresh tasks) are executed as well.
func (b *Broker) handleMarketUpdate(ctx context.Context, gw gateway.MarketGateway, event MarketEvent) (EventOutcome, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	payload := map[string]any{
		"securities": event.Securities,
		"content":    event.Content,
	}
	for _, id := range []string{consts.Research, consts.SalesTrading, consts.Executive} {
		d, err := b.registry.Get(id)
		if err != nil {
			continue
		}
		d.AddTask(models.NewTask(consts.TaskMarketUpdate, payload))
	}

	outcome := EventOutcome{Event: event.Type, Results: make(map[string][]*models.Result)}
	for round := 0; round < 2; round++ {
		results := b.runRound()
		for id, rs := range results {
			outcome.Results[id] = append(outcome.Results[id], rs...)
			for _, r := range rs {
				if r.Action != nil {
					outcome.Actions = append(outcome.Actions, b.ExecuteAction(ctx, gw, r.Action))
				}
			}
		}
	}
	return outcome, nil
}

// handleOpportunity has research assess the opportunity first; only a
// positive assessment reaches the trading desk.
func (b *Broker) handleOpportunity(ctx context.Context, gw gateway.MarketGateway, event MarketEvent) (EventOutcome, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	outcome := EventOutcome{Event: event.Type, Results: make(map[string][]*models.Result)}

	research, err := b.registry.Get(consts.Research)
	if err != nil {
		return outcome, err
	}
	assess := models.NewTask(consts.TaskOpportunityAnalysis, map[string]any{
		"content": event.Content,
		"payload": event.Payload,
	})
	research.AddTask(assess)

	approved := false
	for _, r := range research.ProcessAll() {
		outcome.Results[consts.Research] = append(outcome.Results[consts.Research], r)
		if r.TaskID == assess.ID && r.Status == models.ResultCompleted {
			approved = true
		}
	}
	if !approved {
		outcome.Reply = "Research declined the opportunity; no trade was submitted."
		return outcome, nil
	}

	desk, err := b.registry.Get(consts.SalesTrading)
	if err != nil {
		return outcome, err
	}
	order := orderFromPayload(event.Payload)
	if order == nil {
		outcome.Reply = "Opportunity approved but no executable order was attached."
		return outcome, nil
	}
	desk.AddTask(models.NewTask(consts.TaskExecuteTrade, map[string]any{"order": order}))
	for _, r := range desk.ProcessAll() {
		outcome.Results[consts.SalesTrading] = append(outcome.Results[consts.SalesTrading], r)
		if r.Action != nil {
			outcome.Actions = append(outcome.Actions, b.ExecuteAction(ctx, gw, r.Action))
		}
	}
	return outcome, nil
}

// handleRegulatory routes the announcement to risk & compliance; its
// analysis is escalated to the executive committee as a response task.
func (b *Broker) handleRegulatory(event MarketEvent) (EventOutcome, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	outcome := EventOutcome{Event: event.Type, Results: make(map[string][]*models.Result)}

	compliance, err := b.registry.Get(consts.RiskCompliance)
	if err != nil {
		return outcome, err
	}
	compliance.AddTask(models.NewTask(consts.TaskRegulatoryAnalysis, map[string]any{
		"content": event.Content,
	}))
	for _, r := range compliance.ProcessAll() {
		outcome.Results[consts.RiskCompliance] = append(outcome.Results[consts.RiskCompliance], r)
	}

	executive, err := b.registry.Get(b.coordinator)
	if err != nil {
		return outcome, err
	}
	executive.AddTask(models.NewTask(consts.TaskRegulatoryResponse, map[string]any{
		"content": event.Content,
		"source":  consts.RiskCompliance,
	}))
	for _, r := range executive.ProcessAll() {
		outcome.Results[b.coordinator] = append(outcome.Results[b.coordinator], r)
	}
	return outcome, nil
}

// handleClientRequest funnels a free-form client request through the
// classifier-driven message pipeline.
func (b *Broker) handleClientRequest(event MarketEvent) (EventOutcome, error) {
	reply := b.SubmitMessage(event.Content, event.Payload)
	return EventOutcome{Event: event.Type, Reply: reply}, nil
}

// ExecuteAction pushes one division action through the gateway. Gateway
// failures come back as a failed action result; they never abort the
// round.
func (b *Broker) ExecuteAction(ctx context.Context, gw gateway.MarketGateway, action *models.Action) models.ActionResult {
	if gw == nil {
		return models.ActionResult{Status: models.ActionSuccess, Detail: map[string]any{"dry_run": true}}
	}

	var err error
	switch action.Type {
	case consts.ActionPlaceOrder:
		err = gw.PlaceOrder(ctx, action.Order)
	case consts.ActionCancelOrder:
		err = gw.CancelOrder(ctx, action.OrderID)
	case consts.ActionMarketMaking:
		err = gw.PublishQuote(ctx, action.Symbol, action.Bid, action.Ask, action.Quantity)
	default:
		err = fmt.Errorf("unknown action type %q", action.Type)
	}
	if err != nil {
		b.logger.Warn("gateway action failed",
			zap.String("action", action.Type),
			zap.Error(err))
		return models.ActionResult{Status: models.ActionFailed, Cause: err.Error()}
	}
	if action.Type == consts.ActionPlaceOrder && action.Order != nil && b.journal != nil {
		if jerr := b.journal.SaveOrder(action.Order); jerr != nil {
			b.logger.Warn("journal write failed", zap.Error(jerr))
		}
	}
	return models.ActionResult{Status: models.ActionSuccess}
}

func orderFromPayload(payload map[string]any) *models.Order {
	if payload == nil {
		return nil
	}
	order, _ := payload["order"].(*models.Order)
	return order
}
