package stats

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var ErrInvalidConstraint = fmt.Errorf("%w: invalid constraint", errdefs.ErrInvalidArgument)
