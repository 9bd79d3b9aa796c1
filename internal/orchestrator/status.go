package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"github.com/clintrovert/branchctl/internal/branch"
	"github.com/clintrovert/branchctl/pkg/types"
)

// StatusReport is the read-only view produced by the status command
type StatusReport struct {
	Branch          types.BranchRef
	Dirty           bool
	MergeInProgress bool
	AheadOfMain     int
	BehindMain      int
	LatestTag       string
	// OpenPRs holds open pull requests from the current branch, if any
	OpenPRs []types.PRInfo
}

// Status assembles a best-effort report of where the workflow stands. Lookups
// that fail (offline, missing remote-tracking ref) are logged and skipped
// rather than failing the command.
func (o *Orchestrator) Status(ctx context.Context, namer *branch.Namer, remote, mainBranch, stagingBranch string) (*StatusReport, error) {
	snap, err := o.Snapshot(namer)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{
		Branch:          snap.Current,
		Dirty:           snap.Dirty,
		MergeInProgress: snap.MergeInProgress,
		LatestTag:       snap.LatestTag,
	}

	base := remote + "/" + mainBranch
	if snap.Current.RawName != mainBranch {
		if n, err := o.git.RevListCount(ctx, base, snap.Current.RawName); err == nil {
			report.AheadOfMain = n
		} else {
			o.logger.Debug("ahead count unavailable", zap.Error(err))
		}
		if n, err := o.git.RevListCount(ctx, snap.Current.RawName, base); err == nil {
			report.BehindMain = n
		} else {
			o.logger.Debug("behind count unavailable", zap.Error(err))
		}
	}

	if o.pr != nil && snap.Current.IsWorkBranch() {
		for _, prBase := range []string{stagingBranch, mainBranch} {
			pr, err := o.pr.FindOpen(ctx, snap.Current.RawName, prBase)
			if err != nil {
				o.logger.Debug("pull request lookup failed", zap.String("base", prBase), zap.Error(err))
				continue
			}
			if pr != nil {
				report.OpenPRs = append(report.OpenPRs, *pr)
			}
		}
	}

	return report, nil
}
