package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	chat := newChatCmd()

	cmd := &cobra.Command{
		Use:   "shoply",
		Short: "Console support bot for an online store",
		Long:  "Answers customer questions from the store FAQ via an LLM and reports order status with /order <id>.",
		SilenceUsage: true,
		RunE:         chat.RunE,
		Args:         cobra.NoArgs,
	}
	cmd.Flags().AddFlagSet(chat.Flags())

	cmd.AddCommand(chat)
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shoply %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
