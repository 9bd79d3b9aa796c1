package types

// Snapshot is the repository state read once at the start of an invocation.
// The policy engine is a pure function of (Snapshot, Transition); it never
// reads git state itself and holds nothing between calls.
type Snapshot struct {
	Current BranchRef
	// Dirty is true when the working tree has uncommitted changes
	Dirty bool
	// MergeInProgress is true when a previous merge left unmerged paths;
	// every mutating command refuses to run until the operator resolves it
	MergeInProgress bool
	// Branches lists local and remote-tracking branch names
	Branches []string
	// LatestTag is the highest semantic version tag, empty if none exists
	LatestTag string
}

// HasBranch reports whether name is present in the snapshot's branch list
func (s Snapshot) HasBranch(name string) bool {
	for _, b := range s.Branches {
		if b == name {
			return true
		}
	}
	return false
}
