package broker

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dyike/BrokerGo/consts"
	"github.com/dyike/BrokerGo/internal/departments/trading"
	"github.com/dyike/BrokerGo/internal/gateway"
	"github.com/dyike/BrokerGo/internal/models"
)

type rejectingGateway struct{}

func (rejectingGateway) PlaceOrder(context.Context, *models.Order) error {
	return errors.New("venue closed")
}
func (rejectingGateway) CancelOrder(context.Context, string) error {
	return errors.New("venue closed")
}
func (rejectingGateway) PublishQuote(context.Context, string, decimal.Decimal, decimal.Decimal, int64) error {
	return errors.New("venue closed")
}

func TestHandleMarketEventUnknownType(t *testing.T) {
	b := newTestBroker(t)
	if _, err := b.HandleMarketEvent(context.Background(), nil, MarketEvent{Type: "eclipse"}); err == nil {
		t.Fatal("expected an error for an unknown event type")
	}
}

func TestOpportunityRejectedByResearch(t *testing.T) {
	b := newTestBroker(t)
	gw := gateway.NewSimulated()

	order := models.NewOrder("NVDA", models.OrderMarket, models.SideBuy, 500, nil)
	outcome, err := b.HandleMarketEvent(context.Background(), gw, MarketEvent{
		Type:    EventTradingOpportunity,
		Content: "momentum setup in NVDA",
		Payload: map[string]any{"risk_level": 0.8, "order": order},
	})
	if err != nil {
		t.Fatalf("HandleMarketEvent: %v", err)
	}
	if outcome.Reply != "Research declined the opportunity; no trade was submitted." {
		t.Fatalf("reply = %q", outcome.Reply)
	}
	if len(gw.Placed()) != 0 {
		t.Fatal("a declined opportunity must not reach the gateway")
	}
	if got := b.Trading().Ledger.Get("NVDA"); got != 0 {
		t.Fatalf("position = %d, want none", got)
	}
	research := outcome.Results[consts.Research]
	if len(research) != 1 || research[0].Status != models.ResultRejected {
		t.Fatalf("research results = %+v", research)
	}
}

func TestOpportunityApprovedAndExecuted(t *testing.T) {
	b := newTestBroker(t)
	gw := gateway.NewSimulated()

	order := models.NewOrder("NVDA", models.OrderMarket, models.SideBuy, 500, nil)
	outcome, err := b.HandleMarketEvent(context.Background(), gw, MarketEvent{
		Type:    EventTradingOpportunity,
		Content: "earnings drift in NVDA",
		Payload: map[string]any{"risk_level": 0.2, "order": order},
	})
	if err != nil {
		t.Fatalf("HandleMarketEvent: %v", err)
	}
	placed := gw.Placed()
	if len(placed) != 1 || placed[0].Symbol != "NVDA" {
		t.Fatalf("placed = %+v, want the NVDA order", placed)
	}
	if got := b.Trading().Ledger.Get("NVDA"); got != 500 {
		t.Fatalf("position = %d, want 500", got)
	}
	if len(outcome.Actions) != 1 || outcome.Actions[0].Status != models.ActionSuccess {
		t.Fatalf("actions = %+v", outcome.Actions)
	}
}

func TestOpportunityApprovedWithoutOrder(t *testing.T) {
	b := newTestBroker(t)

	outcome, err := b.HandleMarketEvent(context.Background(), nil, MarketEvent{
		Type:    EventTradingOpportunity,
		Payload: map[string]any{"risk_level": 0.1},
	})
	if err != nil {
		t.Fatalf("HandleMarketEvent: %v", err)
	}
	if outcome.Reply != "Opportunity approved but no executable order was attached." {
		t.Fatalf("reply = %q", outcome.Reply)
	}
}

func TestMarketUpdateRunsTheReactionLoop(t *testing.T) {
	b := newTestBroker(t)
	gw := gateway.NewSimulated()

	desk := b.Trading()
	seed := models.NewOrder("AAPL", models.OrderMarket, models.SideBuy, 5000, nil)
	seed.Status = models.OrderExecuted
	seed.Execution = &models.Execution{Price: decimal.NewFromInt(190), Quantity: 5000}
	if err := desk.Ledger.Apply(seed); err != nil {
		t.Fatalf("seed position: %v", err)
	}
	desk.Quotes.Start("AAPL", decimal.NewFromFloat(189.5), decimal.NewFromFloat(190.5), 1000, 1000)

	outcome, err := b.HandleMarketEvent(context.Background(), gw, MarketEvent{
		Type:    EventMarketUpdate,
		Content: "AAPL down sharply after guidance cut",
		Securities: []trading.Security{
			{Symbol: "AAPL", Price: decimal.NewFromInt(174), PriceChangePct: -0.08},
		},
	})
	if err != nil {
		t.Fatalf("HandleMarketEvent: %v", err)
	}

	// round one requotes, round two executes the 20% trim
	if got := desk.Ledger.Get("AAPL"); got != 4000 {
		t.Fatalf("position = %d, want 4000 after the adjustment", got)
	}
	placed := gw.Placed()
	if len(placed) != 1 || placed[0].Side != models.SideSell || placed[0].Quantity != 1000 {
		t.Fatalf("placed = %+v, want the sell-1000 adjustment", placed)
	}
	for _, action := range outcome.Actions {
		if action.Status != models.ActionSuccess {
			t.Fatalf("action failed: %+v", action)
		}
	}
	if len(outcome.Results[consts.SalesTrading]) == 0 {
		t.Fatal("the desk should report results")
	}

	research, _ := b.Registry().Get(consts.Research)
	if note, ok := research.GetKnowledge("latest_market_note"); !ok || note == "" {
		t.Fatal("research should record the market note")
	}
}

func TestRegulatoryAnnouncementEscalates(t *testing.T) {
	b := newTestBroker(t)

	outcome, err := b.HandleMarketEvent(context.Background(), nil, MarketEvent{
		Type:    EventRegulatoryAnnouncement,
		Content: "new position-reporting thresholds take effect next quarter",
	})
	if err != nil {
		t.Fatalf("HandleMarketEvent: %v", err)
	}
	if len(outcome.Results[consts.RiskCompliance]) != 1 {
		t.Fatalf("compliance results = %+v", outcome.Results[consts.RiskCompliance])
	}
	if len(outcome.Results[consts.Executive]) != 1 {
		t.Fatalf("executive results = %+v", outcome.Results[consts.Executive])
	}

	rc, _ := b.Registry().Get(consts.RiskCompliance)
	if reg, ok := rc.GetKnowledge("latest_regulation"); !ok || reg == "" {
		t.Fatal("compliance should record the regulation")
	}
}

func TestClientRequestEventUsesMessagePipeline(t *testing.T) {
	b := newTestBroker(t, WithClassifier(fixedClassifier{targets: []string{consts.WealthManagement}}))

	outcome, err := b.HandleMarketEvent(context.Background(), nil, MarketEvent{
		Type:    EventClientRequest,
		Content: "please rebalance my portfolio",
	})
	if err != nil {
		t.Fatalf("HandleMarketEvent: %v", err)
	}
	want := consts.Division_WealthManagement + " has processed the request."
	if outcome.Reply != want {
		t.Fatalf("reply = %q, want %q", outcome.Reply, want)
	}
}

func TestExecuteActionDryRun(t *testing.T) {
	b := newTestBroker(t)

	result := b.ExecuteAction(context.Background(), nil, &models.Action{Type: consts.ActionPlaceOrder})
	if result.Status != models.ActionSuccess {
		t.Fatalf("result = %+v", result)
	}
	if result.Detail["dry_run"] != true {
		t.Fatalf("detail = %+v, want a dry-run marker", result.Detail)
	}
}

func TestExecuteActionGatewayFailure(t *testing.T) {
	b := newTestBroker(t)

	order := models.NewOrder("AAPL", models.OrderMarket, models.SideBuy, 100, nil)
	result := b.ExecuteAction(context.Background(), rejectingGateway{}, &models.Action{
		Type:  consts.ActionPlaceOrder,
		Order: order,
	})
	if result.Status != models.ActionFailed {
		t.Fatalf("result = %+v, want failed", result)
	}
	if result.Cause != "venue closed" {
		t.Fatalf("cause = %q", result.Cause)
	}
}

func TestExecuteActionUnknownType(t *testing.T) {
	b := newTestBroker(t)

	result := b.ExecuteAction(context.Background(), gateway.NewSimulated(), &models.Action{Type: "teleport"})
	if result.Status != models.ActionFailed {
		t.Fatalf("result = %+v, want failed", result)
	}
}
