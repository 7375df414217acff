package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wizzomafizzo/assetgen/internal/database"
)

// createHistoryCommand creates the history command.
func createHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generations",
		Long:  "List recent generations of this project, or with --prune delete every project's entries older than an age.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return fmt.Errorf("failed to get limit flag: %w", err)
			}
			all, err := cmd.Flags().GetBool("all")
			if err != nil {
				return fmt.Errorf("failed to get all flag: %w", err)
			}
			prune, err := cmd.Flags().GetDuration("prune")
			if err != nil {
				return fmt.Errorf("failed to get prune flag: %w", err)
			}

			ctx, cliApp, err := createAppFromCommand(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("prune") {
				removed, err := cliApp.PruneHistory(ctx, prune)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d history entries older than %s\n", removed, prune)
				return nil
			}

			entries, err := cliApp.History(ctx, limit, all)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", database.DefaultHistoryLimit, "Number of entries to show")
	cmd.Flags().Bool("all", false, "Show entries for every project")
	cmd.Flags().Duration("prune", 0, "Delete entries older than this age instead of listing")
	return cmd
}

func printHistory(w io.Writer, entries []database.HistoryEntry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "No generations recorded")
		return
	}

	for _, e := range entries {
		state := color.GreenString("written  ")
		if !e.Changed {
			state = color.New(color.Faint).Sprint("unchanged")
		}
		_, _ = fmt.Fprintf(w, "%s  %s  %4d  %7s  %s\n",
			e.CreatedAt.Local().Format(time.DateTime), state, e.Constants, e.Duration, e.OutputPath)
	}
}
