package policy

import (
	"fmt"
	"strings"

	"github.com/clintrovert/branchctl/internal/version"
	"github.com/clintrovert/branchctl/pkg/types"
)

// stagingPRTitle generates the title for a promotion PR into staging
func stagingPRTitle(ref types.BranchRef) string {
	return fmt.Sprintf("%s: %s", strings.ToUpper(ref.TaskID), humanize(ref.Description))
}

// stagingPRBody generates the body for a promotion PR into staging
func stagingPRBody(ref types.BranchRef) string {
	var sb strings.Builder

	sb.WriteString("## Promote to staging\n\n")
	sb.WriteString("**Branch:** `" + ref.RawName + "`\n")
	sb.WriteString("**Task:** " + strings.ToUpper(ref.TaskID) + "\n\n")
	sb.WriteString("Deploys this " + string(ref.Kind) + " to the staging environment for UAT.\n")

	return sb.String()
}

// shipPRTitle generates the title for a ship PR into main. The bump keyword
// prefix is what the merge automation reads to pick the next version tag.
func shipPRTitle(ref types.BranchRef, bump version.Bump) string {
	return fmt.Sprintf("[%s] %s: %s", bump, strings.ToUpper(ref.TaskID), humanize(ref.Description))
}

// shipPRBody generates the body for a ship PR into main
func shipPRBody(ref types.BranchRef, bump version.Bump, latest, next string) string {
	if latest == "" {
		latest = "(none)"
	}

	var sb strings.Builder

	sb.WriteString("## Ship to production\n\n")
	sb.WriteString("**Branch:** `" + ref.RawName + "`\n")
	sb.WriteString("**Task:** " + strings.ToUpper(ref.TaskID) + "\n")
	sb.WriteString("**Bump:** " + string(bump) + "\n")
	sb.WriteString("**Current version:** " + latest + "\n")
	sb.WriteString("**Next version:** " + next + "\n\n")
	sb.WriteString("Squash-merge to release; the version tag is applied on merge.\n")

	return sb.String()
}

func humanize(description string) string {
	return strings.ReplaceAll(description, "-", " ")
}
