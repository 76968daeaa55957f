package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pledgebook-dev/pledgebook/internal/charities"
	"github.com/pledgebook-dev/pledgebook/internal/config"
	"github.com/pledgebook-dev/pledgebook/internal/gitops"
	"github.com/pledgebook-dev/pledgebook/internal/ledger"
	"github.com/pledgebook-dev/pledgebook/internal/pledges"
)

func newInitCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new Pledgebook data repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "organization name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runInit(dir, name string) error {
	// Create directory structure.
	dirs := []string{
		"ledger",
		"pledges",
		"charities",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write pledgebook.yaml.
	cfg := config.Default(name)
	if err := config.Save(filepath.Join(dir, config.File), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write header-only books so the initial commit carries every file.
	if err := os.WriteFile(filepath.Join(dir, "ledger", "transactions.csv"), []byte(ledger.Header+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pledges", "pledges.csv"), []byte(pledges.Header+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing pledges: %w", err)
	}

	// Write the default partner charities.
	svc := charities.NewService(charities.DefaultCharities())
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing charities: %w", err)
	}

	// Write .gitignore. Raw exports in import/ carry donor data and stay
	// out of history.
	gitignore := ".env\nimport/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Initialize git and create initial commit.
	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}

	hash, err := gitops.CommitAll(dir, "init: Initialize "+name, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Printf("Initialized Pledgebook data repository at %s (%s)\n", dir, hash)
	return nil
}
