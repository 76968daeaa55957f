package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pledgebook-dev/pledgebook/internal/bankimport"
	"github.com/pledgebook-dev/pledgebook/internal/errtrack"
	"github.com/pledgebook-dev/pledgebook/internal/pledgeimport"
	"github.com/pledgebook-dev/pledgebook/internal/report"
)

func newImportCommand() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import bank statements and pledge exports",
	}
	importCmd.AddCommand(newImportBankCommand())
	importCmd.AddCommand(newImportPledgesCommand())
	return importCmd
}

func newImportBankCommand() *cobra.Command {
	var repoDir string
	var reportFile string
	var statementFile string
	var manual bool

	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Import bank transactions from the saved statement export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportBank(repoDir, reportFile, statementFile, manual)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "data repository directory")
	cmd.Flags().StringVar(&reportFile, "report", "", "statement report JSON at a specific path")
	cmd.Flags().StringVar(&statementFile, "statement", "", "legacy statement CSV instead of the JSON export")
	cmd.Flags().BoolVar(&manual, "manual", false, "fail loudly when no export is available")

	return cmd
}

func runImportBank(repoDir, reportFile, statementFile string, manual bool) error {
	dataRoot, cfg, err := loadRepo(repoDir)
	if err != nil {
		return err
	}

	st, err := openStores(dataRoot, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	importer := &bankimport.Importer{
		Store:    st.txns,
		Reporter: errtrack.NewLog(dataRoot),
	}

	var res bankimport.Result
	switch {
	case statementFile != "":
		f, err := os.Open(statementFile)
		if err != nil {
			return fmt.Errorf("opening statement: %w", err)
		}
		defer f.Close()

		rows, err := bankimport.ParseStatement(f)
		if err != nil {
			return fmt.Errorf("parsing statement: %w", err)
		}
		res, err = importer.RunRows(rows)
		if err != nil {
			return err
		}

	case reportFile != "":
		f, err := os.Open(reportFile)
		if err != nil {
			return fmt.Errorf("opening report: %w", err)
		}
		defer f.Close()

		rep, err := report.Decode(f)
		if err != nil {
			return fmt.Errorf("parsing report: %w", err)
		}
		res, err = importer.RunRows(bankimport.RowsFromReport(rep))
		if err != nil {
			return err
		}

	default:
		source := newFileSource(dataRoot)
		importer.Source = source

		today := time.Now()
		from := today.AddDate(0, 0, -cfg.Statement.DaysToImport)
		res, err = importer.Run(from, today, manual)
		if err != nil {
			return err
		}
		if res.Deferred {
			fmt.Println("No statement export available, deferring")
			return nil
		}
		if err := source.markProcessed(bankStatementFile, today); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to archive export: %v\n", err)
		}
	}

	fmt.Printf("Imported %d transactions (%d skipped, %d failed)\n", res.Imported, res.Skipped, res.Failed)
	return maybeCommit(dataRoot, cfg, fmt.Sprintf("import: %d bank transactions", res.Imported))
}

func newImportPledgesCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "pledges <export.csv>",
		Short: "Import pledges from a webform CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportPledges(repoDir, args[0])
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "data repository directory")

	return cmd
}

func runImportPledges(repoDir, exportFile string) error {
	dataRoot, cfg, err := loadRepo(repoDir)
	if err != nil {
		return err
	}

	st, err := openStores(dataRoot, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	f, err := os.Open(exportFile)
	if err != nil {
		return fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	importer := &pledgeimport.Importer{
		Store:     st.pledges,
		Charities: st.charities,
		Reporter:  errtrack.NewLog(dataRoot),
	}

	res, err := importer.Run(f)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d pledges (%d skipped)\n", res.Imported, res.Skipped)
	for _, re := range res.Failed {
		fmt.Printf("  failed %s: %s\n", re.Serial, re.Reason)
	}

	return maybeCommit(dataRoot, cfg, fmt.Sprintf("import: %d pledges", res.Imported))
}
