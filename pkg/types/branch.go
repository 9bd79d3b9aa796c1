package types

// BranchKind classifies a branch name under the release-isolation workflow
type BranchKind string

const (
	KindMain    BranchKind = "main"
	KindStaging BranchKind = "staging"
	KindFeature BranchKind = "feature"
	KindRelease BranchKind = "release"
	KindHotfix  BranchKind = "hotfix"
	// KindOther covers any name that does not match the workflow grammar
	KindOther BranchKind = "other"
)

// BranchRef is a parsed branch identifier. Kind is derived deterministically
// from RawName; TaskID and Description are set only for feature/release/hotfix
// branches that match the naming grammar.
type BranchRef struct {
	Kind        BranchKind
	TaskID      string
	Description string
	RawName     string
}

// Suffix returns the portion after the type segment, e.g.
// "CU-abc123-checkout-flow" for "release/CU-abc123-checkout-flow".
// Empty for main/staging/other.
func (r BranchRef) Suffix() string {
	switch r.Kind {
	case KindFeature, KindRelease, KindHotfix:
		return r.RawName[len(string(r.Kind))+1:]
	default:
		return ""
	}
}

// IsWorkBranch reports whether the ref is a feature, release or hotfix branch
func (r BranchRef) IsWorkBranch() bool {
	return r.Kind == KindFeature || r.Kind == KindRelease || r.Kind == KindHotfix
}
