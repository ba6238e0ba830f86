package operations

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrBranchMissing = fmt.Errorf("%w: branch does not exist", errdefs.ErrConflict)
	ErrEmptyBatch    = fmt.Errorf("%w: no repositories to add", errdefs.ErrInvalidArgument)
	ErrInvalidParams = fmt.Errorf("%w: invalid task parameters", errdefs.ErrInvalidArgument)
)
