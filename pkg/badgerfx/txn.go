package badgerfx

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	updateAttempts = 16
	updateBackoff  = time.Millisecond
)

// Update runs fn in a read-write transaction and runs it again while the
// commit conflicts with a concurrent one. fn must be safe to repeat.
func Update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := range updateAttempts {
		if err = db.Update(fn); !errors.Is(err, badger.ErrConflict) {
			return err
		}

		backoff := updateBackoff * time.Duration(attempt+1)
		time.Sleep(backoff + rand.N(backoff)) //nolint:gosec //jitter
	}

	return err
}
