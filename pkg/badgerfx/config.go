package badgerfx

import (
	"time"

	"github.com/dgraph-io/badger/v4"
)

const defaultGCDiscardRatio = 0.5

type Config struct {
	// Path to the BadgerDB data directory
	Dir string
	// InMemory keeps all data in memory, Dir is ignored
	InMemory bool

	// Period of value log garbage collection, disabled when zero
	GCInterval time.Duration
	// Fraction of a value log file that must be discardable to rewrite it
	GCDiscardRatio float64
}

func (c Config) Build() badger.Options {
	if c.InMemory {
		return badger.DefaultOptions("").WithInMemory(true)
	}

	return badger.DefaultOptions(c.Dir)
}

func (c Config) discardRatio() float64 {
	if c.GCDiscardRatio <= 0 || c.GCDiscardRatio >= 1 {
		return defaultGCDiscardRatio
	}

	return c.GCDiscardRatio
}
