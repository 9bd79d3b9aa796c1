// branchctl encodes the release-branch-isolation workflow: short-lived
// feature branches cut from main, promoted through dedicated release branches
// into staging for UAT and then shipped to main with a version bump.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clintrovert/branchctl/internal/branch"
	"github.com/clintrovert/branchctl/internal/config"
	"github.com/clintrovert/branchctl/internal/github"
	"github.com/clintrovert/branchctl/internal/gitrepo"
	"github.com/clintrovert/branchctl/internal/orchestrator"
	"github.com/clintrovert/branchctl/internal/policy"
	"github.com/clintrovert/branchctl/internal/version"
	"github.com/clintrovert/branchctl/pkg/types"
)

var verboseFlag bool

// app bundles the per-invocation wiring shared by every command
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	namer  *branch.Namer
	engine *policy.Engine
	orch   *orchestrator.Orchestrator
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := &cobra.Command{
		Use:           "branchctl",
		Short:         "Release branch isolation workflow for microservice repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newFeatureCmd(),
		newSyncCmd(),
		newReleaseCmd(),
		newSyncFeatureCmd(),
		newToStagingCmd(),
		newShipCmd(),
		newHotfixCmd(),
		newStatusCmd(),
		newLintCommitCmd(),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newApp loads configuration and opens the repository in the working directory
func newApp() (*app, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}

	gitClient, err := gitrepo.Open(cwd, cfg.Remote, cfg.GitHub.Token, logger)
	if err != nil {
		return nil, err
	}

	var prGateway orchestrator.PrGateway
	if cfg.GitHub.Owner != "" && cfg.GitHub.Repo != "" {
		prGateway = github.NewClient(cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Token, logger)
	}

	namer := branch.NewNamerWithBranches(cfg.TaskPrefix, cfg.MainBranch, cfg.StagingBranch)
	versions := version.NewComputer(version.FirstRelease(cfg.FirstRelease))

	return &app{
		cfg:    cfg,
		logger: logger,
		namer:  namer,
		engine: policy.NewEngine(namer, versions, cfg.Remote, cfg.MainBranch, cfg.StagingBranch),
		orch:   orchestrator.NewOrchestrator(gitClient, prGateway, logger),
	}, nil
}

func newLogger() (*zap.Logger, error) {
	if verboseFlag {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// runTransition is the shared command body: snapshot, evaluate, apply
func runTransition(cmd *cobra.Command, command types.Command, args map[string]string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	snap, err := a.orch.Snapshot(a.namer)
	if err != nil {
		return err
	}

	tr := types.Transition{Command: command, Source: snap.Current, Args: args}
	res := a.engine.Evaluate(snap, tr)

	pr, err := a.orch.Apply(cmd.Context(), res)
	if err != nil {
		var denied *orchestrator.DeniedError
		if errors.As(err, &denied) {
			return fmt.Errorf("%s refused (%s): %s", command, denied.Reason, denied.Detail)
		}
		var opErr *orchestrator.OpError
		if errors.As(err, &opErr) {
			return fmt.Errorf("%s stopped at %s: %w", command, opErr.Op.Kind, opErr.Err)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: done\n", command)
	if pr != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "pull request #%d: %s\n", pr.PRNumber, pr.PRURL)
	}
	return nil
}
