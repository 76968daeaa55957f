package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pledgebook-dev/pledgebook/internal/reconcile"
)

func newCheckCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the integrity of the books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(repoDir)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "data repository directory")

	return cmd
}

func runCheck(repoDir string) error {
	dataRoot, cfg, err := loadRepo(repoDir)
	if err != nil {
		return err
	}

	st, err := openStores(dataRoot, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	txns, err := st.txns.All()
	if err != nil {
		return err
	}
	pledgeList, err := st.pledges.All()
	if err != nil {
		return err
	}

	issues := reconcile.Validate(txns, pledgeList)
	if len(issues) == 0 {
		fmt.Printf("Books are consistent: %d transactions, %d pledges\n", len(txns), len(pledgeList))
		return nil
	}

	for _, issue := range issues {
		fmt.Println(issue.Error())
	}
	return fmt.Errorf("%d integrity issues found", len(issues))
}
