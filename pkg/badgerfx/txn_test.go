package badgerfx_test

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/gitpulse/gitpulse/pkg/badgerfx"
	"github.com/stretchr/testify/require"
)

func TestUpdate_RetriesConflicts(t *testing.T) {
	const writers = 16

	db := openDB(t)
	key := []byte("counter")

	increment := func(txn *badger.Txn) error {
		current := 0
		item, err := txn.Get(key)
		switch {
		case err == nil:
			if valErr := item.Value(func(val []byte) error {
				current, err = strconv.Atoi(string(val))
				return err
			}); valErr != nil {
				return valErr
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		return txn.Set(key, []byte(strconv.Itoa(current+1)))
	}

	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = badgerfx.Update(db, increment)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	require.NoError(t, db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		require.NoError(t, err)
		val, err := item.ValueCopy(nil)
		require.NoError(t, err)
		require.Equal(t, strconv.Itoa(writers), string(val))
		return nil
	}))
}
