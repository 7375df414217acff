package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wizzomafizzo/assetgen/internal/app"
)

// ErrStale is returned by generate --check when the output needs regenerating.
var ErrStale = errors.New("generated file is out of date, run assetgen generate")

// createGenerateCommand creates the generate command.
func createGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the asset reference file",
		Long:  "Scan the asset root and write one Dart constant per asset file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			check, err := cmd.Flags().GetBool("check")
			if err != nil {
				return fmt.Errorf("failed to get check flag: %w", err)
			}

			ctx, cliApp, err := createAppFromCommand(cmd)
			if err != nil {
				return err
			}

			if check {
				result, err := cliApp.Check(ctx)
				if err != nil {
					return err
				}
				if result.Changed {
					return ErrStale
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", result.OutputPath)
				return nil
			}

			if _, err := cliApp.Generate(ctx); err != nil {
				if errors.Is(err, app.ErrNotFlutterProject) {
					return nil
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().Bool("check", false, "Exit with an error if the output is stale instead of writing it")
	return cmd
}
