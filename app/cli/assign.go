package main

import (
	"encoding/json"
	"fmt"

	"myMarketplace/pkg/config"

	"github.com/spf13/cobra"
)

// assignCommand runs a single delivery assignment pass and prints the report.
func assignCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "assign",
		Short: "Runs one delivery assignment pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, closeApp := getApp(cfg)
			defer closeApp()

			report, err := app.Delivery.AssignPendingOrders(cmd.Context())
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
