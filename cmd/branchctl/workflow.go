package main

import (
	"github.com/spf13/cobra"

	"github.com/clintrovert/branchctl/pkg/types"
)

func newFeatureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feature <task-id> <description>",
		Short: "Cut a feature branch from up-to-date main",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(cmd, types.CmdFeature, map[string]string{
				types.ArgTaskID:      args[0],
				types.ArgDescription: args[1],
			})
		},
	}
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Merge the latest main into the current feature branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(cmd, types.CmdSync, nil)
		},
	}
}

func newReleaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "release",
		Short: "Cut the release branch mirroring the current feature branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(cmd, types.CmdRelease, nil)
		},
	}
}

func newSyncFeatureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-feature",
		Short: "Merge the sibling feature branch into the current release branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(cmd, types.CmdSyncFeature, nil)
		},
	}
}

func newToStagingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "to-staging",
		Short: "Push the current release or hotfix branch and open its staging PR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(cmd, types.CmdToStaging, nil)
		},
	}
}

func newShipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ship <major|minor|patch>",
		Short: "Open the PR that ships the current release or hotfix branch to main",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(cmd, types.CmdShip, map[string]string{
				types.ArgBump: args[0],
			})
		},
	}
}

func newHotfixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hotfix <task-id> <description>",
		Short: "Cut a hotfix branch from up-to-date main",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(cmd, types.CmdHotfix, map[string]string{
				types.ArgTaskID:      args[0],
				types.ArgDescription: args[1],
			})
		},
	}
}
