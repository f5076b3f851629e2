// Command cli runs operator tasks against the marketplace database:
// migrations, a one-off assignment pass, search reindexing and admin tokens.
package main

import (
	"log"
	"os"

	"myMarketplace/internal/bootstrap"
	"myMarketplace/pkg/config"
	"myMarketplace/pkg/logger"

	"github.com/spf13/cobra"
)

// getApp builds the full application and returns it with its cleanup.
func getApp(cfg *config.Config) (*bootstrap.App, func()) {
	app, err := bootstrap.New(cfg)
	if err != nil {
		logger.Fatal("could not initialise application", "error", err)
	}

	return app, func() {
		logger.Info("closing connections...")
		app.Close()
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger.Init(cfg.App.Environment)

	rootCmd := &cobra.Command{
		Use:          "marketplace",
		Short:        "Marketplace operator commands",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		migrateCommand(cfg),
		assignCommand(cfg),
		reindexCommand(cfg),
		tokenCommand(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
