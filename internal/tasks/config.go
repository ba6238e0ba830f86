package tasks

import "time"

type Timeouts struct {
	Clone        time.Duration
	Update       time.Duration
	Reset        time.Duration
	SwitchBranch time.Duration
	ComputeStats time.Duration
}

type Config struct {
	// Number of workers executing tasks of distinct repositories in parallel
	Workers  int
	Timeouts Timeouts
}

func (c Config) timeout(kind Kind) time.Duration {
	switch kind {
	case KindClone:
		return c.Timeouts.Clone
	case KindUpdate:
		return c.Timeouts.Update
	case KindReset:
		return c.Timeouts.Reset
	case KindSwitchBranch:
		return c.Timeouts.SwitchBranch
	case KindComputeStats:
		return c.Timeouts.ComputeStats
	}

	return 0
}

func (c Config) workers() int {
	return max(c.Workers, 1)
}
