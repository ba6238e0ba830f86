package repositories

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrNotFound   = fmt.Errorf("repository %w", errdefs.ErrNotFound)
	ErrConflict   = fmt.Errorf("repository %w", errdefs.ErrAlreadyExists)
	ErrNotReady   = fmt.Errorf("%w: repository is not ready", errdefs.ErrFailedPrecondition)
	ErrNotAllowed = fmt.Errorf("%w: operation not allowed", errdefs.ErrFailedPrecondition)
)
