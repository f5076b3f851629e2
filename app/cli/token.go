package main

import (
	"fmt"

	"myMarketplace/pkg/config"

	"github.com/spf13/cobra"
)

// tokenCommand mints an admin token and records it in the token store.
func tokenCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generates an admin token for the given subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")

			app, closeApp := getApp(cfg)
			defer closeApp()

			token, expiresAt, err := app.Users.IssueAdminToken(cmd.Context(), subject)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}

	cmd.Flags().StringP("subject", "s", "operator", "Name recorded as the token subject")

	return cmd
}
