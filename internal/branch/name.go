// Package branch implements the workflow branch-naming grammar:
// feature|release|hotfix "/" PREFIX "-" taskID "-" description, with
// taskID [a-z0-9]+ and description [a-z0-9-]+. Lowercase only, no
// underscores. Names outside the grammar parse as KindOther.
package branch

import (
	"fmt"
	"regexp"

	"github.com/clintrovert/branchctl/pkg/types"
)

// DefaultTaskPrefix is the ticket-system prefix baked into branch names
const DefaultTaskPrefix = "CU"

var (
	// ErrInvalidName reports a ref that fails validation for a required kind
	ErrInvalidName = fmt.Errorf("invalid branch name")
	// ErrMismatchedKind reports a sibling derivation from an unsupported kind
	ErrMismatchedKind = fmt.Errorf("mismatched branch kind")
)

// Namer parses and builds branch names for one configured task prefix
type Namer struct {
	prefix  string
	main    string
	staging string
	pattern *regexp.Regexp
}

// NewNamer creates a Namer recognizing "main" and "staging" as the trunk
// branches. An empty prefix falls back to DefaultTaskPrefix.
func NewNamer(prefix string) *Namer {
	return NewNamerWithBranches(prefix, "main", "staging")
}

// NewNamerWithBranches creates a Namer for repositories whose trunk branches
// use non-default names.
func NewNamerWithBranches(prefix, mainBranch, stagingBranch string) *Namer {
	if prefix == "" {
		prefix = DefaultTaskPrefix
	}
	pattern := regexp.MustCompile(
		`^(feature|release|hotfix)/` + regexp.QuoteMeta(prefix) + `-([a-z0-9]+)-([a-z0-9-]+)$`,
	)
	return &Namer{prefix: prefix, main: mainBranch, staging: stagingBranch, pattern: pattern}
}

// Parse maps a raw branch name to a BranchRef. It never fails: main and
// staging map to their kinds, grammar matches carry task ID and description,
// everything else is KindOther.
func (n *Namer) Parse(raw string) types.BranchRef {
	switch raw {
	case n.main:
		return types.BranchRef{Kind: types.KindMain, RawName: raw}
	case n.staging:
		return types.BranchRef{Kind: types.KindStaging, RawName: raw}
	}

	m := n.pattern.FindStringSubmatch(raw)
	if m == nil {
		return types.BranchRef{Kind: types.KindOther, RawName: raw}
	}

	return types.BranchRef{
		Kind:        types.BranchKind(m[1]),
		TaskID:      m[2],
		Description: m[3],
		RawName:     raw,
	}
}

// Validate checks that ref is a grammar-conforming branch of the required kind
func (n *Namer) Validate(ref types.BranchRef, required types.BranchKind) error {
	if ref.Kind != required {
		return fmt.Errorf("%w: %q is not a %s branch", ErrInvalidName, ref.RawName, required)
	}
	switch required {
	case types.KindFeature, types.KindRelease, types.KindHotfix:
		if ref.TaskID == "" || ref.Description == "" {
			return fmt.Errorf("%w: %q is missing task ID or description", ErrInvalidName, ref.RawName)
		}
	}
	return nil
}

// Build constructs a grammar-conforming BranchRef from its parts. Arguments
// that would break the grammar are rejected rather than silently mangled.
func (n *Namer) Build(kind types.BranchKind, taskID, description string) (types.BranchRef, error) {
	switch kind {
	case types.KindFeature, types.KindRelease, types.KindHotfix:
	default:
		return types.BranchRef{}, fmt.Errorf("%w: cannot build a %s branch name", ErrMismatchedKind, kind)
	}
	raw := fmt.Sprintf("%s/%s-%s-%s", kind, n.prefix, taskID, description)
	ref := n.Parse(raw)
	if ref.Kind != kind {
		return types.BranchRef{}, fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}
	return ref, nil
}

// DeriveSibling produces the branch of targetKind sharing ref's suffix, e.g.
// release/CU-abc123-checkout-flow -> feature/CU-abc123-checkout-flow. Only
// release and hotfix branches can derive a feature sibling, and work branches
// can derive each other; the suffix is preserved exactly.
func (n *Namer) DeriveSibling(ref types.BranchRef, targetKind types.BranchKind) (types.BranchRef, error) {
	if !ref.IsWorkBranch() {
		return types.BranchRef{}, fmt.Errorf("%w: %q has no sibling", ErrMismatchedKind, ref.RawName)
	}
	if targetKind == types.KindFeature && ref.Kind != types.KindRelease && ref.Kind != types.KindHotfix {
		return types.BranchRef{}, fmt.Errorf("%w: feature sibling requires a release or hotfix branch, got %s", ErrMismatchedKind, ref.Kind)
	}
	switch targetKind {
	case types.KindFeature, types.KindRelease, types.KindHotfix:
	default:
		return types.BranchRef{}, fmt.Errorf("%w: cannot derive a %s sibling", ErrMismatchedKind, targetKind)
	}

	raw := string(targetKind) + "/" + ref.Suffix()
	sibling := n.Parse(raw)
	if sibling.Kind != targetKind {
		return types.BranchRef{}, fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}
	return sibling, nil
}
