package orchestrator

import (
	"fmt"

	"github.com/clintrovert/branchctl/pkg/types"
)

// DeniedError reports a transition the policy engine refused. No side effects
// have been attempted when this is returned.
type DeniedError struct {
	Reason types.Reason
	Detail string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// OpError reports the first git operation that failed. Operations before it
// have been applied; the repository is left as git left it for manual
// inspection and recovery.
type OpError struct {
	Op  types.GitOp
	Err error
}

func (e *OpError) Error() string {
	if e.Op.Ref != "" {
		return fmt.Sprintf("%s %s failed: %v", e.Op.Kind, e.Op.Ref, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op.Kind, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
