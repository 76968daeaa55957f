package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pledgebook-dev/pledgebook/internal/errtrack"
	"github.com/pledgebook-dev/pledgebook/internal/reconcile"
)

func newReconcileCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Match unreconciled bank transactions to pledges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(repoDir)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "data repository directory")

	return cmd
}

func runReconcile(repoDir string) error {
	dataRoot, cfg, err := loadRepo(repoDir)
	if err != nil {
		return err
	}

	st, err := openStores(dataRoot, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	res, err := reconcile.Run(st.txns, st.pledges, errtrack.NewLog(dataRoot))
	if err != nil {
		return err
	}

	fmt.Printf("Matched %d transactions (%d ambiguous, %d unmatched)\n", res.Matched, res.Ambiguous, res.Unmatched)
	return maybeCommit(dataRoot, cfg, fmt.Sprintf("reconcile: %d matched", res.Matched))
}
