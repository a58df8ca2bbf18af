package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newSyncCommand() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:     "sync",
		Short:   "Run one synchronization for a user and print the result",
		Example: `  server sync --user user_2abc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.syncService.Synchronize(cmd.Context(), userID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (auth subject) to sync (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
