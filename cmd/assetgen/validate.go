package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createValidateCommand creates the validate command.
func createValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Long:  "Load pubspec.yaml and the config file, then check the resulting settings.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cliApp, err := createAppFromCommand(cmd)
			if err != nil {
				return err
			}

			result, err := cliApp.ValidateConfig()
			if err != nil {
				return fmt.Errorf("validation error: %w", err)
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), result)
			return nil
		},
	}
}
