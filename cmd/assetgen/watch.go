package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wizzomafizzo/assetgen/internal/app"
)

// createWatchCommand creates the watch command.
func createWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever assets are added, removed or renamed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cliApp, err := createAppFromCommand(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := cliApp.Watch(ctx); err != nil && !errors.Is(err, app.ErrNotFlutterProject) {
				return err
			}
			return nil
		},
	}
}
