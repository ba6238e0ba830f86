package git

import (
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrRepositoryNotFound      = fmt.Errorf("%w: working copy not found", errdefs.ErrFailedPrecondition)
	ErrRepositoryAlreadyExists = fmt.Errorf("%w: working copy already exists", errdefs.ErrAlreadyExists)
	ErrBranchNotFound          = fmt.Errorf("%w: branch not found", errdefs.ErrNotFound)
	ErrInvalidRepository       = fmt.Errorf("%w: invalid repository", errdefs.ErrUnavailable)
	ErrCloneFailed             = fmt.Errorf("%w: failed to clone repository", errdefs.ErrUnavailable)
	ErrFetchFailed             = fmt.Errorf("%w: failed to fetch repository", errdefs.ErrUnavailable)
	ErrCheckoutFailed          = fmt.Errorf("%w: failed to checkout branch", errdefs.ErrUnavailable)
	ErrResetFailed             = fmt.Errorf("%w: failed to reset working copy", errdefs.ErrUnavailable)
	ErrLogFailed               = fmt.Errorf("%w: failed to read commit history", errdefs.ErrUnavailable)
	ErrCleanupFailed           = fmt.Errorf("%w: failed to remove working copy", errdefs.ErrInternal)

	// ErrStopWalk is returned by a commit visitor to end the walk early.
	ErrStopWalk = errors.New("stop walk")
)
