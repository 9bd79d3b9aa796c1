package types

// PRInfo contains pull request information
type PRInfo struct {
	PRNumber int64
	PRURL    string
	Title    string
	Status   string
}

// RepoInfo identifies the GitHub repository the workflow operates against
type RepoInfo struct {
	Owner string
	Name  string
}
