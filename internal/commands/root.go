package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pledgebook-dev/pledgebook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "pledgebook",
		Short:   "Donation bookkeeping and reconciliation for a pledge charity",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newReconcileCommand())
	rootCmd.AddCommand(newTrialBalanceCommand())
	rootCmd.AddCommand(newCheckCommand())

	return rootCmd
}
