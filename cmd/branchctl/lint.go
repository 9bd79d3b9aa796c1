package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/clintrovert/branchctl/internal/config"
	"github.com/clintrovert/branchctl/internal/lint"
)

func newLintCommitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint-commit [message-file]",
		Short: "Validate a commit message against the configured commit types",
		Long: "Validates the commit message header against \"type(scope): subject\". " +
			"Reads the message from the given file, or from stdin when no file is " +
			"given, which makes it usable as a commit-msg hook.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}
			cfg, err := config.Load(cwd)
			if err != nil {
				return err
			}

			var message []byte
			if len(args) == 1 {
				message, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("failed to read commit message: %w", err)
				}
			} else {
				message, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read commit message from stdin: %w", err)
				}
			}

			findings := lint.NewLinter(cfg.CommitTypes).Check(string(message))
			if len(findings) == 0 {
				return nil
			}
			for _, f := range findings {
				fmt.Fprintf(cmd.ErrOrStderr(), "commit message: %s\n", f)
			}
			return fmt.Errorf("commit message has %d problem(s)", len(findings))
		},
	}
}
