// Package orchestrator drives policy verdicts through the git and pull-request
// gateways. It executes the declared operations in order, stops at the first
// failure, and reports which operation failed; recovery is always a human
// decision.
package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/clintrovert/branchctl/internal/branch"
	"github.com/clintrovert/branchctl/internal/version"
	"github.com/clintrovert/branchctl/pkg/types"
)

// GitGateway abstracts the local repository operations the workflow needs
type GitGateway interface {
	CurrentBranch() (string, error)
	IsDirty() (bool, error)
	MergeInProgress() (bool, error)
	Branches() ([]string, error)
	Tags() ([]string, error)
	Fetch(ctx context.Context) error
	Checkout(ref string) error
	Pull(ctx context.Context) error
	CreateBranch(name, from string) error
	Merge(ctx context.Context, ref string, mode types.MergeMode) error
	Push(ctx context.Context, ref string) error
	Tag(name string) error
	RevListCount(ctx context.Context, a, b string) (int, error)
}

// PrGateway abstracts pull-request operations
type PrGateway interface {
	Create(ctx context.Context, base, head, title, body string) (*types.PRInfo, error)
	FindOpen(ctx context.Context, head, base string) (*types.PRInfo, error)
	IsMerged(ctx context.Context, number int64) (bool, error)
}

// Orchestrator sequences gateway calls for one transition
type Orchestrator struct {
	git    GitGateway
	pr     PrGateway
	logger *zap.Logger
}

// NewOrchestrator creates a new orchestrator. pr may be nil when no GitHub
// configuration is present; transitions that need a pull request then fail
// with a configuration error instead of a partial run.
func NewOrchestrator(git GitGateway, pr PrGateway, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{git: git, pr: pr, logger: logger}
}

// Snapshot reads the repository state consumed by the policy engine
func (o *Orchestrator) Snapshot(namer *branch.Namer) (types.Snapshot, error) {
	current, err := o.git.CurrentBranch()
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("failed to read current branch: %w", err)
	}

	dirty, err := o.git.IsDirty()
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("failed to read working tree state: %w", err)
	}

	merging, err := o.git.MergeInProgress()
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("failed to detect pending merge: %w", err)
	}

	branches, err := o.git.Branches()
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("failed to list branches: %w", err)
	}

	tags, err := o.git.Tags()
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("failed to list tags: %w", err)
	}

	return types.Snapshot{
		Current:         namer.Parse(current),
		Dirty:           dirty,
		MergeInProgress: merging,
		Branches:        branches,
		LatestTag:       version.Latest(tags),
	}, nil
}

// Apply executes an allowed transition: every git operation in declared
// order, then the pull request if the transition carries one. Returns the
// pull request (existing or newly created) when applicable.
func (o *Orchestrator) Apply(ctx context.Context, res types.TransitionResult) (*types.PRInfo, error) {
	if !res.Allowed {
		return nil, &DeniedError{Reason: res.Reason, Detail: res.Detail}
	}

	for _, op := range res.GitOps {
		if err := o.runOp(ctx, op); err != nil {
			return nil, &OpError{Op: op, Err: err}
		}
		o.logger.Debug("applied operation", zap.String("op", string(op.Kind)), zap.String("ref", op.Ref))
	}

	if res.PR == nil {
		return nil, nil
	}
	return o.ensurePR(ctx, *res.PR)
}

func (o *Orchestrator) runOp(ctx context.Context, op types.GitOp) error {
	switch op.Kind {
	case types.OpFetch:
		return o.git.Fetch(ctx)
	case types.OpCheckout:
		return o.git.Checkout(op.Ref)
	case types.OpPull:
		return o.git.Pull(ctx)
	case types.OpBranch:
		return o.git.CreateBranch(op.Ref, op.From)
	case types.OpMerge:
		return o.git.Merge(ctx, op.Ref, op.Mode)
	case types.OpPush:
		return o.git.Push(ctx, op.Ref)
	case types.OpTag:
		return o.git.Tag(op.Ref)
	default:
		return fmt.Errorf("unknown operation %q", op.Kind)
	}
}

// ensurePR returns the existing open pull request for (head, base) when one
// exists; otherwise it creates one. Re-running a command never duplicates.
func (o *Orchestrator) ensurePR(ctx context.Context, spec types.PRSpec) (*types.PRInfo, error) {
	if o.pr == nil {
		return nil, fmt.Errorf("no GitHub repository configured; set github.owner, github.repo and github.token")
	}

	existing, err := o.pr.FindOpen(ctx, spec.Head, spec.Base)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing pull request: %w", err)
	}
	if existing != nil {
		o.logger.Info("pull request already open",
			zap.Int64("pr_number", existing.PRNumber),
			zap.String("pr_url", existing.PRURL),
		)
		return existing, nil
	}

	return o.pr.Create(ctx, spec.Base, spec.Head, spec.Title, spec.Body)
}
