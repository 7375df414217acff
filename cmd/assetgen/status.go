package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createStatusCommand creates the status command.
func createStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show resolved settings and output state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cliApp, err := createAppFromCommand(cmd)
			if err != nil {
				return err
			}

			status, err := cliApp.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), status)
			return nil
		},
	}
}
