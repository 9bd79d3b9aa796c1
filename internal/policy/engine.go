// Package policy decides whether a requested workflow transition is legal for
// the current repository state and, when it is, which git and PR operations
// carry it out. The engine is pure: it never touches git, and evaluating the
// same transition against the same snapshot always yields the same result.
package policy

import (
	"fmt"

	"github.com/clintrovert/branchctl/internal/branch"
	"github.com/clintrovert/branchctl/internal/version"
	"github.com/clintrovert/branchctl/pkg/types"
)

// Engine evaluates transitions against the release-isolation rules
type Engine struct {
	namer    *branch.Namer
	versions *version.Computer
	remote   string
	main     string
	staging  string
}

// NewEngine creates an Engine for the given naming and branch configuration
func NewEngine(namer *branch.Namer, versions *version.Computer, remote, mainBranch, stagingBranch string) *Engine {
	return &Engine{
		namer:    namer,
		versions: versions,
		remote:   remote,
		main:     mainBranch,
		staging:  stagingBranch,
	}
}

// Evaluate computes the verdict for one transition. Status is always allowed;
// every mutating command is refused while a merge is in progress.
func (e *Engine) Evaluate(snap types.Snapshot, tr types.Transition) types.TransitionResult {
	if tr.Command == types.CmdStatus {
		return types.TransitionResult{Allowed: true}
	}

	if snap.MergeInProgress {
		return deny(types.ReasonMergeInProgress,
			"a previous merge left unmerged paths; resolve and commit before running workflow commands")
	}

	switch tr.Command {
	case types.CmdFeature:
		return e.evalStartBranch(tr, types.KindFeature)
	case types.CmdSync:
		return e.evalSync(snap, tr)
	case types.CmdRelease:
		return e.evalRelease(snap, tr)
	case types.CmdSyncFeature:
		return e.evalSyncFeature(snap, tr)
	case types.CmdToStaging:
		return e.evalToStaging(snap, tr)
	case types.CmdShip:
		return e.evalShip(snap, tr)
	case types.CmdHotfix:
		return e.evalStartBranch(tr, types.KindHotfix)
	default:
		return deny(types.ReasonMissingArgument, fmt.Sprintf("unknown command %q", tr.Command))
	}
}

// evalStartBranch covers the feature and hotfix commands: both cut a fresh
// branch from up-to-date main and are legal from any current branch.
func (e *Engine) evalStartBranch(tr types.Transition, kind types.BranchKind) types.TransitionResult {
	taskID := tr.Args[types.ArgTaskID]
	desc := tr.Args[types.ArgDescription]
	if taskID == "" || desc == "" {
		return deny(types.ReasonMissingArgument, fmt.Sprintf("%s requires a task ID and a description", tr.Command))
	}

	ref, err := e.namer.Build(kind, taskID, desc)
	if err != nil {
		return deny(types.ReasonMissingArgument, err.Error())
	}

	return types.TransitionResult{
		Allowed: true,
		GitOps: []types.GitOp{
			{Kind: types.OpFetch},
			{Kind: types.OpCheckout, Ref: e.main},
			{Kind: types.OpPull, Ref: e.main},
			{Kind: types.OpBranch, Ref: ref.RawName, From: e.main},
		},
	}
}

func (e *Engine) evalSync(snap types.Snapshot, tr types.Transition) types.TransitionResult {
	if tr.Source.Kind != types.KindFeature {
		return deny(types.ReasonNotOnExpectedBranch,
			fmt.Sprintf("sync runs on a feature branch, current branch is %q", tr.Source.RawName))
	}
	if snap.Dirty {
		return denyDirty()
	}

	return types.TransitionResult{
		Allowed: true,
		GitOps: []types.GitOp{
			{Kind: types.OpFetch},
			{Kind: types.OpMerge, Ref: e.remote + "/" + e.main, Mode: types.MergeNoFF},
		},
	}
}

func (e *Engine) evalRelease(snap types.Snapshot, tr types.Transition) types.TransitionResult {
	if tr.Source.Kind != types.KindFeature {
		return deny(types.ReasonNotOnExpectedBranch,
			fmt.Sprintf("release runs on a feature branch, current branch is %q", tr.Source.RawName))
	}
	if snap.Dirty {
		return denyDirty()
	}

	rel, err := e.namer.DeriveSibling(tr.Source, types.KindRelease)
	if err != nil {
		return deny(types.ReasonNotOnExpectedBranch, err.Error())
	}

	return types.TransitionResult{
		Allowed: true,
		GitOps: []types.GitOp{
			{Kind: types.OpFetch},
			{Kind: types.OpCheckout, Ref: e.main},
			{Kind: types.OpPull, Ref: e.main},
			{Kind: types.OpBranch, Ref: rel.RawName, From: e.main},
			{Kind: types.OpMerge, Ref: tr.Source.RawName, Mode: types.MergeNoFF},
		},
	}
}

func (e *Engine) evalSyncFeature(snap types.Snapshot, tr types.Transition) types.TransitionResult {
	if tr.Source.Kind != types.KindRelease {
		return deny(types.ReasonNotOnExpectedBranch,
			fmt.Sprintf("sync-feature runs on a release branch, current branch is %q", tr.Source.RawName))
	}
	if snap.Dirty {
		return denyDirty()
	}

	sib, err := e.namer.DeriveSibling(tr.Source, types.KindFeature)
	if err != nil {
		return deny(types.ReasonSiblingBranchNotFound, err.Error())
	}
	if !snap.HasBranch(sib.RawName) && !snap.HasBranch(e.remote+"/"+sib.RawName) {
		return deny(types.ReasonSiblingBranchNotFound,
			fmt.Sprintf("feature branch %q does not exist", sib.RawName))
	}

	return types.TransitionResult{
		Allowed: true,
		GitOps: []types.GitOp{
			{Kind: types.OpFetch},
			{Kind: types.OpMerge, Ref: sib.RawName, Mode: types.MergeNoFF},
		},
	}
}

func (e *Engine) evalToStaging(snap types.Snapshot, tr types.Transition) types.TransitionResult {
	if tr.Source.Kind != types.KindRelease && tr.Source.Kind != types.KindHotfix {
		return deny(types.ReasonNotOnExpectedBranch,
			fmt.Sprintf("to-staging runs on a release or hotfix branch, current branch is %q", tr.Source.RawName))
	}
	if snap.Dirty {
		return denyDirty()
	}

	return types.TransitionResult{
		Allowed: true,
		GitOps: []types.GitOp{
			{Kind: types.OpPush, Ref: tr.Source.RawName},
		},
		PR: &types.PRSpec{
			Base:  e.staging,
			Head:  tr.Source.RawName,
			Title: stagingPRTitle(tr.Source),
			Body:  stagingPRBody(tr.Source),
		},
	}
}

func (e *Engine) evalShip(snap types.Snapshot, tr types.Transition) types.TransitionResult {
	if tr.Source.Kind != types.KindRelease && tr.Source.Kind != types.KindHotfix {
		return deny(types.ReasonNotOnExpectedBranch,
			fmt.Sprintf("ship runs on a release or hotfix branch, current branch is %q", tr.Source.RawName))
	}
	if snap.Dirty {
		return denyDirty()
	}

	bump, err := version.ParseBump(tr.Args[types.ArgBump])
	if err != nil {
		return deny(types.ReasonInvalidBumpType, err.Error())
	}

	next, err := e.versions.Next(snap.LatestTag, bump)
	if err != nil {
		return deny(types.ReasonInvalidBumpType, err.Error())
	}

	return types.TransitionResult{
		Allowed: true,
		GitOps: []types.GitOp{
			{Kind: types.OpPush, Ref: tr.Source.RawName},
		},
		PR: &types.PRSpec{
			Base:  e.main,
			Head:  tr.Source.RawName,
			Title: shipPRTitle(tr.Source, bump),
			Body:  shipPRBody(tr.Source, bump, snap.LatestTag, next),
		},
	}
}

func deny(reason types.Reason, detail string) types.TransitionResult {
	return types.TransitionResult{Allowed: false, Reason: reason, Detail: detail}
}

func denyDirty() types.TransitionResult {
	return deny(types.ReasonDirtyWorkingTree, "working tree has uncommitted changes; commit or stash them first")
}
