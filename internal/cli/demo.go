package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dyike/BrokerGo/consts"
	"github.com/dyike/BrokerGo/internal/broker"
	"github.com/dyike/BrokerGo/internal/config"
	"github.com/dyike/BrokerGo/internal/departments/trading"
	"github.com/dyike/BrokerGo/internal/gateway"
	"github.com/dyike/BrokerGo/internal/models"
)

// RunDemo walks through a scripted day at the firm.
func RunDemo(cfg *config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	firm, cleanup, err := newBroker(cfg, logger)
	if err != nil {
		return fmt.Errorf("build broker: %w", err)
	}
	defer cleanup()
	gw := gateway.NewSimulated()
	ctx := context.Background()

	DisplayWelcomeBanner()

	Section("1. Client messages routed by the classifier")
	for _, message := range []string{
		"We are planning an IPO listing next year and need underwriting support.",
		"Please buy 5000 shares of AAPL at the best available price.",
		"Can you share your research outlook on the semiconductor industry?",
	} {
		fmt.Printf("\n> %s\n", message)
		Reply(firm.SubmitMessage(message, map[string]any{"channel": "demo"}))
	}

	Section("2. Client order through the trade pipeline")
	order := models.NewOrder("AAPL", models.OrderMarket, models.SideBuy, 5_000, nil)
	task := models.NewTask(consts.TaskClientOrder, map[string]any{
		"order":  order,
		"client": "Horizon Capital",
	})
	if err := firm.SubmitTask(consts.SalesTrading, task); err != nil {
		return err
	}
	runRounds(ctx, firm, gw, 2)

	Section("3. An oversized order is blocked pending risk approval")
	bigOrder := models.NewOrder("TSLA", models.OrderMarket, models.SideBuy, 60_000, nil)
	bigTask := models.NewTask(consts.TaskExecuteTrade, map[string]any{"order": bigOrder})
	if err := firm.SubmitTask(consts.SalesTrading, bigTask); err != nil {
		return err
	}
	runRounds(ctx, firm, gw, 1)

	Section("4. Market making and a market shock")
	mmTask := models.NewTask(consts.TaskMarketMaking, map[string]any{
		"symbol": "AAPL",
		"bid":    189.50,
		"ask":    190.10,
	})
	if err := firm.SubmitTask(consts.SalesTrading, mmTask); err != nil {
		return err
	}
	runRounds(ctx, firm, gw, 1)

	outcome, err := firm.HandleMarketEvent(ctx, gw, broker.MarketEvent{
		Type:    broker.EventMarketUpdate,
		Content: "AAPL fell 8% on heavy volume after a guidance cut",
		Securities: []trading.Security{{
			Symbol:            "AAPL",
			Price:             decimal.NewFromFloat(174.50),
			PriceChangePct:    -0.08,
			VolumeChangeRatio: 1.6,
		}},
	})
	if err != nil {
		return err
	}
	for _, results := range outcome.Results {
		for _, r := range results {
			fmt.Println(RenderResult(r))
		}
	}

	Section("5. Conflict mediation by the executive committee")
	decision, ok := firm.ResolveConflict(
		"whether to expand high-risk derivatives trading",
		[]string{consts.SalesTrading, consts.RiskCompliance})
	if ok {
		Reply(decision)
	} else {
		fmt.Println(pendingStyle.Render("No decision was reached."))
	}

	Section("6. End-of-day firm status")
	RenderStatus(firm.Info())
	return nil
}

func runRounds(ctx context.Context, firm *broker.Broker, gw gateway.MarketGateway, rounds int) {
	for i := 0; i < rounds; i++ {
		for _, results := range firm.RunRound() {
			for _, r := range results {
				fmt.Println(RenderResult(r))
				if r.Action != nil {
					outcome := firm.ExecuteAction(ctx, gw, r.Action)
					if outcome.Status == models.ActionFailed {
						fmt.Println(rejectedStyle.Render("  gateway: " + outcome.Cause))
					}
				}
			}
		}
	}
}
