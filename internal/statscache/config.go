package statscache

import "time"

type Config struct {
	// Upper bound of computations running at once
	MaxConcurrent  int
	ComputeTimeout time.Duration
}

func (c Config) maxConcurrent() int64 {
	return int64(max(c.MaxConcurrent, 1))
}
