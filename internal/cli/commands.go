// Package cli is the terminal front end: cobra commands, survey
// prompts and lipgloss rendering over the broker engine.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dyike/BrokerGo/internal/broker"
	"github.com/dyike/BrokerGo/internal/config"
	"github.com/dyike/BrokerGo/internal/dataflows"
	"github.com/dyike/BrokerGo/internal/storage"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "brokergo",
		Short: "BrokerGo - Investment Bank Simulation",
		Long: `BrokerGo simulates a full-service investment bank: client messages are
classified and routed to the right division, trades flow through risk
checks before execution, and divisions coordinate over an internal
communication network.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveMode(cfg)
		},
	}

	rootCmd.AddCommand(newDemoCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newQuotesCmd(cfg))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().String("config", "", "Configuration file path")

	return rootCmd
}

// newDemoCmd creates the demo command
func newDemoCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted walkthrough of the firm",
		Long: `Run a scripted day at the firm: client messages, a trade pipeline with a
risk-blocked order, a market shock and an inter-division conflict.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunDemo(cfg)
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("BrokerGo v1.0.0")
			fmt.Println("Investment Bank Simulation Engine")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Manage BrokerGo configuration settings",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Println("Configuration is valid.")
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Watch the config file and report reloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			defer logger.Sync()

			mgr, err := config.NewManager(config.WithInitialConfig(cfg), config.WithLogger(logger))
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			fmt.Printf("Watching %s (ctrl-c to stop)\n", mgr.Path())
			if err := mgr.Watch(ctx, func(updated config.Config) {
				fmt.Printf("Config reloaded: broker %q, coordinator %q\n",
					updated.BrokerName, updated.Coordinator)
			}); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	})

	return configCmd
}

// newQuotesCmd creates the quotes command
func newQuotesCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "quotes [symbols...]",
		Short: "Fetch market quotes for one or more symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yahoo := dataflows.NewYahooClient()
			for _, symbol := range args {
				data, err := yahoo.GetQuote(symbol)
				if err != nil {
					fmt.Printf("%s: %v\n", symbol, err)
					continue
				}
				fmt.Printf("%-8s close %s  open %s  high %s  low %s  change %+.2f%%  volume %d\n",
					data.Symbol, data.Close.StringFixed(2), data.Open.StringFixed(2),
					data.High.StringFixed(2), data.Low.StringFixed(2),
					data.ChangePct*100, data.Volume)
			}

			if lp, err := dataflows.NewLongportClient(cfg); err == nil {
				ctx := cmd.Context()
				if infos, ierr := lp.GetStaticInfo(ctx, args); ierr == nil {
					for _, info := range infos {
						fmt.Printf("%-8s %s (lot size %d)\n", info.Symbol, info.NameEn, info.LotSize)
					}
				}
				for _, symbol := range args {
					sticks, serr := lp.GetSticksWithDay(ctx, symbol, 5)
					if serr != nil {
						continue
					}
					fmt.Printf("%s: %d daily candlesticks from Longport\n", symbol, len(sticks))
				}
			}
			return nil
		},
	}
}

// showConfig displays the current configuration
func showConfig(cfg *config.Config) {
	fmt.Println("Current BrokerGo Configuration:")
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("Project Directory:    %s\n", cfg.ProjectDir)
	fmt.Printf("Results Directory:    %s\n", cfg.ResultsDir)
	fmt.Printf("Data Directory:       %s\n", cfg.DataDir)
	fmt.Printf("Cache Directory:      %s\n", cfg.DataCacheDir)
	fmt.Println()
	fmt.Printf("Broker Name:          %s\n", cfg.BrokerName)
	fmt.Printf("Coordinator:          %s\n", cfg.Coordinator)
	fmt.Printf("Initial Balance:      %.2f\n", cfg.InitialBalance)
	fmt.Printf("Gateway URL:          %s\n", cfg.GatewayURL)
	fmt.Println()
	fmt.Printf("Cache Enabled:        %t\n", cfg.CacheEnabled)
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Println()

	if cfg.LongportAppKey != "" && cfg.LongportAppSecret != "" && cfg.LongportAccessToken != "" {
		fmt.Println("Longport API:         configured")
	} else {
		fmt.Println("Longport API:         not configured")
	}
}

// newLogger builds the process logger from the config.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Debug {
		return zap.NewDevelopment()
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.OutputPaths = []string{"stderr"}
	return zapCfg.Build()
}

// newBroker assembles a broker from the config. The journal is best
// effort: a failure to open it is logged and the firm runs without one.
func newBroker(cfg *config.Config, logger *zap.Logger) (*broker.Broker, func(), error) {
	opts := []broker.Option{
		broker.WithDescription(cfg.BrokerDescription),
		broker.WithCoordinator(cfg.Coordinator),
		broker.WithInitialBalance(decimal.NewFromFloat(cfg.InitialBalance)),
		broker.WithLogger(logger),
	}

	cleanup := func() {}
	journal, err := storage.NewStore(filepath.Join(cfg.DataDir, "brokergo.db"))
	if err != nil {
		logger.Warn("journal unavailable", zap.Error(err))
	} else {
		opts = append(opts, broker.WithJournal(journal))
		cleanup = func() { journal.Close() }
	}

	firm, err := broker.New(cfg.BrokerName, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return firm, cleanup, nil
}
