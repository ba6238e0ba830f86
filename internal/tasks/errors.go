package tasks

import (
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrNotFound       = fmt.Errorf("task %w", errdefs.ErrNotFound)
	ErrUnknownKind    = fmt.Errorf("%w: unknown task kind", errdefs.ErrInvalidArgument)
	ErrRunnerStopped  = fmt.Errorf("%w: task runner is stopped", errdefs.ErrUnavailable)
	ErrNotTransitable = fmt.Errorf("%w: task is not in the expected state", errdefs.ErrFailedPrecondition)
)

// errUnmatched aborts a per-task transaction when the task changed since the scan.
var errUnmatched = errors.New("task no longer matches")
