package types

// Command identifies a workflow transition requested by the operator
type Command string

const (
	CmdFeature     Command = "feature"
	CmdSync        Command = "sync"
	CmdRelease     Command = "release"
	CmdSyncFeature Command = "sync-feature"
	CmdToStaging   Command = "to-staging"
	CmdShip        Command = "ship"
	CmdHotfix      Command = "hotfix"
	CmdStatus      Command = "status"
)

// Argument names used in Transition.Args
const (
	ArgTaskID      = "task_id"
	ArgDescription = "description"
	ArgBump        = "bump"
)

// Transition is one requested workflow step: the command, the branch the
// operator is on, and the command arguments. Immutable; consumed once.
type Transition struct {
	Command Command
	Source  BranchRef
	Args    map[string]string
}

// OpKind enumerates the declarative git operations a transition produces
type OpKind string

const (
	OpFetch    OpKind = "fetch"
	OpCheckout OpKind = "checkout"
	OpPull     OpKind = "pull"
	OpBranch   OpKind = "branch"
	OpMerge    OpKind = "merge"
	OpPush     OpKind = "push"
	OpTag      OpKind = "tag"
)

// MergeMode selects the merge strategy for an OpMerge
type MergeMode string

const (
	MergeNoFF   MergeMode = "no-ff"
	MergeSquash MergeMode = "squash"
)

// GitOp describes one git operation. The policy engine only emits these;
// execution happens in the orchestrator.
type GitOp struct {
	Kind OpKind
	// Ref is the operation target: branch to checkout, branch to create,
	// ref to merge in, branch to push, tag name to create.
	Ref string
	// From is the base branch for OpBranch
	From string
	Mode MergeMode
}

// PRSpec describes a pull request the orchestrator should ensure exists
type PRSpec struct {
	Base  string
	Head  string
	Title string
	Body  string
}

// Reason explains why a transition was denied
type Reason string

const (
	ReasonNotOnExpectedBranch   Reason = "NotOnExpectedBranch"
	ReasonDirtyWorkingTree      Reason = "DirtyWorkingTree"
	ReasonMissingArgument       Reason = "MissingArgument"
	ReasonInvalidBumpType       Reason = "InvalidBumpType"
	ReasonSiblingBranchNotFound Reason = "SiblingBranchNotFound"
	ReasonMergeInProgress       Reason = "MergeInProgress"
)

// TransitionResult is the policy engine's verdict for one Transition
type TransitionResult struct {
	Allowed bool
	Reason  Reason
	// Detail is a human-readable elaboration of Reason
	Detail string
	GitOps []GitOp
	PR     *PRSpec
}
