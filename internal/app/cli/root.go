// Package cli holds the paywall command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "paywall",
		Short: "Paywall API server",
		Long:  `Paywall serves CMS posts behind a subscription check and records every access decision.`,
	}
	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
	)
	return root
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
