package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the current branch stands in the workflow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// best effort: status never fails the invocation
			if err := printStatus(cmd); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "status unavailable: %v\n", err)
			}
			return nil
		},
	}
}

func printStatus(cmd *cobra.Command) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	report, err := a.orch.Status(cmd.Context(), a.namer, a.cfg.Remote, a.cfg.MainBranch, a.cfg.StagingBranch)
	if err != nil {
		return err
	}

	tree := "clean"
	if report.Dirty {
		tree = "dirty"
	}
	if report.MergeInProgress {
		tree = "merge in progress"
	}

	latest := report.LatestTag
	if latest == "" {
		latest = "(none)"
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"branch", report.Branch.RawName},
		{"kind", string(report.Branch.Kind)},
		{"working tree", tree},
		{"ahead of " + a.cfg.MainBranch, report.AheadOfMain},
		{"behind " + a.cfg.MainBranch, report.BehindMain},
		{"latest tag", latest},
	})
	for _, pr := range report.OpenPRs {
		t.AppendRow(table.Row{"open PR", fmt.Sprintf("#%d %s", pr.PRNumber, pr.PRURL)})
	}
	t.Render()

	return nil
}
