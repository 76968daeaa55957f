package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pledgebook-dev/pledgebook/internal/errtrack"
	"github.com/pledgebook-dev/pledgebook/internal/trialbalance"
)

func newTrialBalanceCommand() *cobra.Command {
	var repoDir string
	var manual bool

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Archive month-end trial balance snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrialBalance(repoDir, manual)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "data repository directory")
	cmd.Flags().BoolVar(&manual, "manual", false, "fail loudly when an export is missing")

	return cmd
}

func runTrialBalance(repoDir string, manual bool) error {
	dataRoot, cfg, err := loadRepo(repoDir)
	if err != nil {
		return err
	}

	start, err := cfg.BalanceStartDate()
	if err != nil {
		return err
	}

	st, err := openStores(dataRoot, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	importer := &trialbalance.Importer{
		Source:   newFileSource(dataRoot),
		Store:    st.balances,
		Reporter: errtrack.NewLog(dataRoot),
	}

	res, err := importer.Run(start, time.Now(), manual)
	if err != nil {
		return err
	}

	fmt.Printf("Archived %d snapshots over %d periods (%d failed)\n", res.Snapshots, res.Periods, res.Failed)
	if res.Deferred {
		fmt.Println("Missing trial-balance export, remaining periods deferred")
	}
	return maybeCommit(dataRoot, cfg, fmt.Sprintf("trial-balance: %d snapshots", res.Snapshots))
}
