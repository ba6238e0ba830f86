package badgerfx_test

import (
	"encoding/json"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/gitpulse/gitpulse/pkg/badgerfx"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
	Text  string `json:"text"`
}

func (n *note) StorageKey() string { return "note:id:" + n.ID }

func (n *note) StorageIndexes() []string {
	return []string{"note:owner:" + n.Owner + ":" + n.ID}
}

func (n *note) MarshalStorage() ([]byte, error) { return json.Marshal(n) }

func (n *note) UnmarshalStorage(data []byte) error { return json.Unmarshal(data, n) }

func openDB(t *testing.T) *badger.DB {
	t.Helper()

	db, err := badger.Open(badgerfx.Config{InMemory: true}.Build().WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestRepository_WriteReadDelete(t *testing.T) {
	db := openDB(t)
	repo := badgerfx.NewRepository(func() *note { return new(note) })

	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		for _, n := range []*note{
			{ID: "1", Owner: "alice", Text: "first"},
			{ID: "2", Owner: "bob", Text: "second"},
			{ID: "3", Owner: "alice", Text: "third"},
		} {
			if err := repo.Write(txn, n); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, db.View(func(txn *badger.Txn) error {
		got, err := repo.Read(txn, "note:id:2")
		require.NoError(t, err)
		require.Equal(t, "second", got.Text)

		_, err = repo.Read(txn, "note:id:404")
		require.ErrorIs(t, err, badgerfx.ErrNotFound)

		owned, err := repo.ListByIndex(txn, "note:owner:alice:")
		require.NoError(t, err)
		require.Len(t, owned, 2)

		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		all, err := repo.List(txn, "note:id:", opts, nil)
		require.NoError(t, err)
		require.Len(t, all, 3)
		require.Equal(t, "3", all[0].ID)

		return nil
	}))

	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		deleted, err := repo.Delete(txn, "note:id:1")
		require.NoError(t, err)
		require.Equal(t, "first", deleted.Text)
		return nil
	}))

	require.NoError(t, db.View(func(txn *badger.Txn) error {
		owned, err := repo.ListByIndex(txn, "note:owner:alice:")
		require.NoError(t, err)
		require.Len(t, owned, 1)
		require.Equal(t, "3", owned[0].ID)
		return nil
	}))
}

func TestRepository_ReplaceMovesIndexes(t *testing.T) {
	db := openDB(t)
	repo := badgerfx.NewRepository(func() *note { return new(note) })

	old := &note{ID: "1", Owner: "alice"}
	require.NoError(t, db.Update(func(txn *badger.Txn) error { return repo.Write(txn, old) }))

	updated := &note{ID: "1", Owner: "bob"}
	require.NoError(t, db.Update(func(txn *badger.Txn) error { return repo.Replace(txn, old, updated) }))

	require.NoError(t, db.View(func(txn *badger.Txn) error {
		_, err := repo.ReadByIndex(txn, "note:owner:alice:1")
		require.ErrorIs(t, err, badgerfx.ErrNotFound)

		got, err := repo.ReadByIndex(txn, "note:owner:bob:1")
		require.NoError(t, err)
		require.Equal(t, "bob", got.Owner)
		return nil
	}))
}
