package dependencies

import (
	"errors"
	"strings"

	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
)

// ErrCycleDetected is matched by every CycleError via errors.Is
var ErrCycleDetected = errors.New("cycle detected")

// CycleError reports a dependency cycle found while traversing from Origin.
//
// Path lists the active traversal branch in encounter order, ending with the
// workspace that closed the cycle.
type CycleError struct {
	Origin workspace.Name
	Path   []workspace.Name
}

func (e *CycleError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Path) == 0 {
		return ErrCycleDetected.Error()
	}
	return ErrCycleDetected.Error() + ": " + strings.Join(workspace.Strings(e.Path), " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }

// AsCycleError extracts a CycleError from err's chain
func AsCycleError(err error) (*CycleError, bool) {
	var cycleErr *CycleError
	if errors.As(err, &cycleErr) {
		return cycleErr, true
	}
	return nil, false
}
