package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clintrovert/branchctl/internal/branch"
	"github.com/clintrovert/branchctl/internal/version"
	"github.com/clintrovert/branchctl/pkg/types"
)

func newTestEngine() (*Engine, *branch.Namer) {
	namer := branch.NewNamer("CU")
	return NewEngine(namer, version.NewComputer(version.FirstReleaseZero), "origin", "main", "staging"), namer
}

func snapshotOn(namer *branch.Namer, raw string) types.Snapshot {
	return types.Snapshot{Current: namer.Parse(raw)}
}

func transition(namer *branch.Namer, cmd types.Command, raw string, args map[string]string) types.Transition {
	return types.Transition{Command: cmd, Source: namer.Parse(raw), Args: args}
}

func TestFeatureFromAnywhere(t *testing.T) {
	e, namer := newTestEngine()

	args := map[string]string{types.ArgTaskID: "abc123", types.ArgDescription: "user-auth"}

	for _, current := range []string{"main", "staging", "feature/CU-x-y", "johns-experiments"} {
		res := e.Evaluate(snapshotOn(namer, current), transition(namer, types.CmdFeature, current, args))
		require.True(t, res.Allowed, current)
		assert.Equal(t, []types.GitOp{
			{Kind: types.OpFetch},
			{Kind: types.OpCheckout, Ref: "main"},
			{Kind: types.OpPull, Ref: "main"},
			{Kind: types.OpBranch, Ref: "feature/CU-abc123-user-auth", From: "main"},
		}, res.GitOps)
		assert.Nil(t, res.PR)
	}
}

func TestFeatureMissingArgs(t *testing.T) {
	e, namer := newTestEngine()

	for _, args := range []map[string]string{
		nil,
		{types.ArgTaskID: "abc123"},
		{types.ArgDescription: "user-auth"},
	} {
		res := e.Evaluate(snapshotOn(namer, "main"), transition(namer, types.CmdFeature, "main", args))
		assert.False(t, res.Allowed)
		assert.Equal(t, types.ReasonMissingArgument, res.Reason)
		assert.Empty(t, res.GitOps)
	}
}

func TestFeatureMalformedArgs(t *testing.T) {
	e, namer := newTestEngine()

	res := e.Evaluate(snapshotOn(namer, "main"), transition(namer, types.CmdFeature, "main",
		map[string]string{types.ArgTaskID: "ABC123", types.ArgDescription: "user-auth"}))
	assert.False(t, res.Allowed)
	assert.Equal(t, types.ReasonMissingArgument, res.Reason)
}

func TestHotfix(t *testing.T) {
	e, namer := newTestEngine()

	args := map[string]string{types.ArgTaskID: "9f2", types.ArgDescription: "payment-timeout"}
	res := e.Evaluate(snapshotOn(namer, "main"), transition(namer, types.CmdHotfix, "main", args))
	require.True(t, res.Allowed)
	assert.Equal(t, types.GitOp{Kind: types.OpBranch, Ref: "hotfix/CU-9f2-payment-timeout", From: "main"}, res.GitOps[3])
}

func TestSync(t *testing.T) {
	e, namer := newTestEngine()

	res := e.Evaluate(snapshotOn(namer, "feature/CU-abc123-user-auth"),
		transition(namer, types.CmdSync, "feature/CU-abc123-user-auth", nil))
	require.True(t, res.Allowed)
	assert.Equal(t, []types.GitOp{
		{Kind: types.OpFetch},
		{Kind: types.OpMerge, Ref: "origin/main", Mode: types.MergeNoFF},
	}, res.GitOps)
}

func TestSyncNotOnFeature(t *testing.T) {
	e, namer := newTestEngine()

	res := e.Evaluate(snapshotOn(namer, "main"), transition(namer, types.CmdSync, "main", nil))
	assert.False(t, res.Allowed)
	assert.Equal(t, types.ReasonNotOnExpectedBranch, res.Reason)
}

func TestSyncDirtyTree(t *testing.T) {
	e, namer := newTestEngine()

	snap := snapshotOn(namer, "feature/CU-abc123-user-auth")
	snap.Dirty = true
	res := e.Evaluate(snap, transition(namer, types.CmdSync, "feature/CU-abc123-user-auth", nil))
	assert.False(t, res.Allowed)
	assert.Equal(t, types.ReasonDirtyWorkingTree, res.Reason)
}

func TestRelease(t *testing.T) {
	e, namer := newTestEngine()

	res := e.Evaluate(snapshotOn(namer, "feature/CU-abc123-user-auth"),
		transition(namer, types.CmdRelease, "feature/CU-abc123-user-auth", nil))
	require.True(t, res.Allowed)
	assert.Equal(t, []types.GitOp{
		{Kind: types.OpFetch},
		{Kind: types.OpCheckout, Ref: "main"},
		{Kind: types.OpPull, Ref: "main"},
		{Kind: types.OpBranch, Ref: "release/CU-abc123-user-auth", From: "main"},
		{Kind: types.OpMerge, Ref: "feature/CU-abc123-user-auth", Mode: types.MergeNoFF},
	}, res.GitOps)
}

func TestReleaseNotOnFeature(t *testing.T) {
	e, namer := newTestEngine()

	for _, current := range []string{"main", "release/CU-abc123-user-auth", "johns-experiments"} {
		res := e.Evaluate(snapshotOn(namer, current), transition(namer, types.CmdRelease, current, nil))
		assert.False(t, res.Allowed, current)
		assert.Equal(t, types.ReasonNotOnExpectedBranch, res.Reason)
	}
}

func TestSyncFeature(t *testing.T) {
	e, namer := newTestEngine()

	snap := snapshotOn(namer, "release/CU-abc123-checkout-flow")
	snap.Branches = []string{"main", "feature/CU-abc123-checkout-flow"}
	res := e.Evaluate(snap, transition(namer, types.CmdSyncFeature, "release/CU-abc123-checkout-flow", nil))
	require.True(t, res.Allowed)
	assert.Equal(t, []types.GitOp{
		{Kind: types.OpFetch},
		{Kind: types.OpMerge, Ref: "feature/CU-abc123-checkout-flow", Mode: types.MergeNoFF},
	}, res.GitOps)
}

func TestSyncFeatureRemoteOnlySibling(t *testing.T) {
	e, namer := newTestEngine()

	snap := snapshotOn(namer, "release/CU-abc123-checkout-flow")
	snap.Branches = []string{"main", "origin/feature/CU-abc123-checkout-flow"}
	res := e.Evaluate(snap, transition(namer, types.CmdSyncFeature, "release/CU-abc123-checkout-flow", nil))
	assert.True(t, res.Allowed)
}

func TestSyncFeatureSiblingMissing(t *testing.T) {
	e, namer := newTestEngine()

	// a feature branch exists but its suffix does not match exactly
	snap := snapshotOn(namer, "release/CU-abc123-checkout-flow")
	snap.Branches = []string{"main", "feature/CU-abc123-checkout"}
	res := e.Evaluate(snap, transition(namer, types.CmdSyncFeature, "release/CU-abc123-checkout-flow", nil))
	assert.False(t, res.Allowed)
	assert.Equal(t, types.ReasonSiblingBranchNotFound, res.Reason)
}

func TestToStaging(t *testing.T) {
	e, namer := newTestEngine()

	for _, current := range []string{"release/CU-abc123-checkout-flow", "hotfix/CU-9f2-payment-timeout"} {
		res := e.Evaluate(snapshotOn(namer, current), transition(namer, types.CmdToStaging, current, nil))
		require.True(t, res.Allowed, current)
		assert.Equal(t, []types.GitOp{{Kind: types.OpPush, Ref: current}}, res.GitOps)
		require.NotNil(t, res.PR)
		assert.Equal(t, "staging", res.PR.Base)
		assert.Equal(t, current, res.PR.Head)
	}
}

func TestToStagingWrongBranch(t *testing.T) {
	e, namer := newTestEngine()

	res := e.Evaluate(snapshotOn(namer, "feature/CU-abc123-user-auth"),
		transition(namer, types.CmdToStaging, "feature/CU-abc123-user-auth", nil))
	assert.False(t, res.Allowed)
	assert.Equal(t, types.ReasonNotOnExpectedBranch, res.Reason)
}

func TestShip(t *testing.T) {
	e, namer := newTestEngine()

	snap := snapshotOn(namer, "release/CU-abc123-checkout-flow")
	snap.LatestTag = "v1.2.3"
	res := e.Evaluate(snap, transition(namer, types.CmdShip, "release/CU-abc123-checkout-flow",
		map[string]string{types.ArgBump: "minor"}))
	require.True(t, res.Allowed)
	assert.Equal(t, []types.GitOp{{Kind: types.OpPush, Ref: "release/CU-abc123-checkout-flow"}}, res.GitOps)
	require.NotNil(t, res.PR)
	assert.Equal(t, "main", res.PR.Base)
	assert.Equal(t, "[minor] ABC123: checkout flow", res.PR.Title)
	assert.Contains(t, res.PR.Body, "v1.3.0")
}

func TestShipInvalidBump(t *testing.T) {
	e, namer := newTestEngine()

	res := e.Evaluate(snapshotOn(namer, "release/CU-abc123-checkout-flow"),
		transition(namer, types.CmdShip, "release/CU-abc123-checkout-flow",
			map[string]string{types.ArgBump: "hotfix"}))
	assert.False(t, res.Allowed)
	assert.Equal(t, types.ReasonInvalidBumpType, res.Reason)
}

func TestShipUntaggedRepo(t *testing.T) {
	e, namer := newTestEngine()

	res := e.Evaluate(snapshotOn(namer, "hotfix/CU-9f2-payment-timeout"),
		transition(namer, types.CmdShip, "hotfix/CU-9f2-payment-timeout",
			map[string]string{types.ArgBump: "patch"}))
	require.True(t, res.Allowed)
	assert.Contains(t, res.PR.Body, "v0.0.1")
}

func TestMergeInProgressBlocksEverything(t *testing.T) {
	e, namer := newTestEngine()

	snap := snapshotOn(namer, "release/CU-abc123-checkout-flow")
	snap.MergeInProgress = true

	cmds := []types.Command{
		types.CmdFeature, types.CmdSync, types.CmdRelease,
		types.CmdSyncFeature, types.CmdToStaging, types.CmdShip, types.CmdHotfix,
	}
	for _, cmd := range cmds {
		res := e.Evaluate(snap, transition(namer, cmd, "release/CU-abc123-checkout-flow", nil))
		assert.False(t, res.Allowed, cmd)
		assert.Equal(t, types.ReasonMergeInProgress, res.Reason, cmd)
	}

	// status stays readable
	res := e.Evaluate(snap, transition(namer, types.CmdStatus, "release/CU-abc123-checkout-flow", nil))
	assert.True(t, res.Allowed)
}

func TestEvaluateIsPure(t *testing.T) {
	e, namer := newTestEngine()

	snap := snapshotOn(namer, "feature/CU-abc123-user-auth")
	tr := transition(namer, types.CmdRelease, "feature/CU-abc123-user-auth", nil)

	first := e.Evaluate(snap, tr)
	second := e.Evaluate(snap, tr)
	assert.Equal(t, first, second)
}
