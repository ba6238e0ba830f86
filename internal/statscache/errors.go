package statscache

import (
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrNotFound  = fmt.Errorf("cache entry %w", errdefs.ErrNotFound)
	ErrDiscarded = fmt.Errorf("%w: computation discarded by cache clear", errdefs.ErrAborted)
)
