package main

import (
	"fmt"

	"myMarketplace/pkg/config"

	"github.com/spf13/cobra"
)

// reindexCommand pushes every product to the search index.
func reindexCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuilds the product search index",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, closeApp := getApp(cfg)
			defer closeApp()

			n, err := app.Products.Reindex(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d products\n", n)
			return nil
		},
	}
}
