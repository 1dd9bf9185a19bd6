package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shoply-bot/internal/analytics"
	"shoply-bot/internal/storage"
)

func newStatsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats <session-log>",
		Short: "Summarize a session log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := storage.ReadFile(args[0])
			if err != nil {
				return err
			}
			stats := analytics.AnalyzeSession(events)
			if asJSON {
				out, err := stats.ToJSON()
				if err != nil {
					return fmt.Errorf("encode stats: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), stats.GenerateReportSummary())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")
	return cmd
}
