package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/shopspring/decimal"

	"github.com/dyike/BrokerGo/consts"
	"github.com/dyike/BrokerGo/internal/broker"
	"github.com/dyike/BrokerGo/internal/config"
	"github.com/dyike/BrokerGo/internal/dataflows"
	"github.com/dyike/BrokerGo/internal/departments/trading"
	"github.com/dyike/BrokerGo/internal/gateway"
	"github.com/dyike/BrokerGo/internal/models"
)

// runInteractiveMode drives the firm from a terminal menu.
func runInteractiveMode(cfg *config.Config) error {
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

	var gw gateway.MarketGateway
	if cfg.GatewayURL != "" {
		gw = gateway.NewHTTPGateway(cfg.GatewayURL)
	} else {
		gw = gateway.NewSimulated()
	}
	quotes := dataflows.NewYahooClient()

	ClearScreen()
	DisplayWelcomeBanner()
	fmt.Printf("Welcome to %s.\n\n", firm.Name())

	ctx := context.Background()
	for {
		action, err := PromptForAction()
		if err != nil {
			return err
		}

		switch action {
		case "Send a client message":
			if err := interactiveMessage(firm); err != nil {
				return err
			}
		case "Submit a client order":
			if err := interactiveOrder(ctx, firm, gw); err != nil {
				return err
			}
		case "Push a market update":
			if err := interactiveMarketUpdate(ctx, firm, gw); err != nil {
				return err
			}
		case "Push a live market update":
			if err := interactiveLiveUpdate(ctx, firm, gw, quotes); err != nil {
				return err
			}
		case "Resolve a conflict":
			if err := interactiveConflict(firm); err != nil {
				return err
			}
		case "Show firm status":
			RenderStatus(firm.Info())
		case "Quit":
			fmt.Println("Goodbye.")
			return nil
		}
		fmt.Println()
	}
}

func interactiveMessage(firm *broker.Broker) error {
	message, err := PromptForMessage()
	if err != nil {
		return err
	}
	Reply(firm.SubmitMessage(message, map[string]any{"channel": "interactive"}))
	return nil
}

func interactiveOrder(ctx context.Context, firm *broker.Broker, gw gateway.MarketGateway) error {
	symbol, side, quantity, err := PromptForOrder()
	if err != nil {
		return err
	}

	order := models.NewOrder(symbol, models.OrderMarket, models.OrderSide(side), quantity, nil)
	task := models.NewTask(consts.TaskClientOrder, map[string]any{
		"order":  order,
		"client": "interactive session",
	})
	if err := firm.SubmitTask(consts.SalesTrading, task); err != nil {
		return err
	}

	// Two rounds: the client order self-chains an execution task.
	for round := 0; round < 2; round++ {
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
	return nil
}

func interactiveMarketUpdate(ctx context.Context, firm *broker.Broker, gw gateway.MarketGateway) error {
	symbol, err := PromptForSymbol()
	if err != nil {
		return err
	}

	var changeStr string
	if err := survey.AskOne(&survey.Input{
		Message: "Price change (e.g., -0.08 for an 8% drop):",
		Default: "-0.08",
	}, &changeStr, survey.WithValidator(func(val interface{}) error {
		if _, perr := strconv.ParseFloat(strings.TrimSpace(val.(string)), 64); perr != nil {
			return fmt.Errorf("enter a decimal number")
		}
		return nil
	})); err != nil {
		return err
	}
	change, _ := strconv.ParseFloat(strings.TrimSpace(changeStr), 64)

	outcome, err := firm.HandleMarketEvent(ctx, gw, broker.MarketEvent{
		Type:    broker.EventMarketUpdate,
		Content: fmt.Sprintf("%s moved %.1f%%", symbol, change*100),
		Securities: []trading.Security{{
			Symbol:            symbol,
			Price:             decimal.NewFromInt(100),
			PriceChangePct:    change,
			VolumeChangeRatio: 1.5,
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
	return nil
}

// interactiveLiveUpdate pulls delayed quotes for a comma-separated
// symbol list and pushes them through the market-update pipeline.
func interactiveLiveUpdate(ctx context.Context, firm *broker.Broker, gw gateway.MarketGateway, quotes *dataflows.YahooClient) error {
	var symbolsStr string
	if err := survey.AskOne(&survey.Input{
		Message: "Symbols (comma-separated):",
		Default: "AAPL,MSFT,NVDA",
	}, &symbolsStr); err != nil {
		return err
	}
	var symbols []string
	for _, s := range strings.Split(symbolsStr, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}

	securities, err := quotes.Securities(symbols)
	if err != nil {
		fmt.Println(rejectedStyle.Render("quote feed: " + err.Error()))
		return nil
	}
	for _, sec := range securities {
		fmt.Println(dimStyle.Render(fmt.Sprintf("  %s %s (%.2f%%)",
			sec.Symbol, sec.Price.StringFixed(2), sec.PriceChangePct*100)))
	}

	outcome, err := firm.HandleMarketEvent(ctx, gw, broker.MarketEvent{
		Type:       broker.EventMarketUpdate,
		Content:    "live market snapshot for " + strings.Join(symbols, ", "),
		Securities: securities,
	})
	if err != nil {
		return err
	}
	for _, results := range outcome.Results {
		for _, r := range results {
			fmt.Println(RenderResult(r))
		}
	}
	return nil
}

func interactiveConflict(firm *broker.Broker) error {
	var issue string
	if err := survey.AskOne(&survey.Input{
		Message: "Contested issue:",
		Default: "whether to expand high-risk trading operations",
	}, &issue); err != nil {
		return err
	}

	decision, ok := firm.ResolveConflict(issue, []string{consts.SalesTrading, consts.RiskCompliance})
	if !ok {
		fmt.Println(pendingStyle.Render("No decision was reached."))
		return nil
	}
	Reply(decision)
	return nil
}
