package main

import (
	"fmt"

	"myMarketplace/migrations"
	"myMarketplace/pkg/config"
	"myMarketplace/pkg/database"
	"myMarketplace/pkg/logger"

	"github.com/spf13/cobra"
)

// migrateCommand applies or inspects the goose migrations.
func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Migrates the database schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}

			db, err := database.InitPostgres(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := database.ClosePostgres(db); err != nil {
					logger.Warn("could not close postgres connection", "error", err)
				}
			}()

			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("could not get sql.DB: %w", err)
			}

			switch direction {
			case "down":
				err = migrations.Down(sqlDB)
			case "status":
				err = migrations.Status(sqlDB)
			default:
				err = migrations.Up(sqlDB)
			}
			if err != nil {
				return fmt.Errorf("migrate %s failed: %w", direction, err)
			}

			logger.Info("migration finished", "direction", direction)
			return nil
		},
	}

	return cmd
}
