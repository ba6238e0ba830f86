package statscache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gitpulse/gitpulse/internal/stats"
	"github.com/gitpulse/gitpulse/pkg/badgerfx"
	"github.com/google/uuid"
)

// Store keeps entry metadata and the compressed results in BadgerDB.
type Store struct {
	db *badger.DB

	models *badgerfx.Repository[*entryModel]
}

func NewStore(db *badger.DB) *Store {
	return &Store{
		db: db,

		models: badgerfx.NewRepository(func() *entryModel { return new(entryModel) }),
	}
}

// RecordHit counts a hit on an entry and returns the updated entry.
func (s *Store) RecordHit(_ context.Context, id string, at time.Time) (*Entry, error) {
	var entry *Entry

	err := badgerfx.Update(s.db, func(txn *badger.Txn) error {
		old, err := s.getByID(txn, id)
		if err != nil {
			return err
		}

		updated := *old
		updated.HitCount++
		updated.LastHitAt = &at
		if replErr := s.models.Replace(txn, old, &updated); replErr != nil {
			return replErr
		}

		entry, err = newEntry(&updated)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record cache hit: %w", err)
	}

	return entry, nil
}

// Get loads an entry with its result without recording a hit.
func (s *Store) Get(_ context.Context, id string) (*Entry, *stats.Result, error) {
	var (
		entry  *Entry
		result *stats.Result
	)

	err := s.db.View(func(txn *badger.Txn) error {
		model, err := s.getByID(txn, id)
		if err != nil {
			return err
		}

		result, err = s.readData(txn, id)
		if err != nil {
			return err
		}

		entry, err = newEntry(model)
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	return entry, result, nil
}

// Put stores an entry and its result, replacing any previous value.
// SizeBytes is set from the compressed payload.
func (s *Store) Put(_ context.Context, entry *Entry, result *stats.Result) error {
	data, err := encodeResult(result)
	if err != nil {
		return err
	}
	entry.SizeBytes = len(data)

	err = badgerfx.Update(s.db, func(txn *badger.Txn) error {
		if old, getErr := s.getByID(txn, entry.ID); getErr == nil {
			if delErr := s.models.DeleteIndexes(txn, old); delErr != nil {
				return delErr
			}
		} else if !errors.Is(getErr, ErrNotFound) {
			return getErr
		}

		if setErr := txn.Set([]byte(keyData(entry.ID)), data); setErr != nil {
			return fmt.Errorf("failed to write result: %w", setErr)
		}

		return s.models.Write(txn, newEntryModel(entry))
	})
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	return nil
}

// List retrieves entries matching filter, newest first.
func (s *Store) List(_ context.Context, filter Filter) ([]Entry, error) {
	var models []*entryModel

	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		models, err = s.scan(txn, filter.RepoID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}

	entries := make([]Entry, 0, len(models))
	for _, m := range models {
		entry, err := newEntry(m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	return entries, nil
}

// Delete removes one entry.
func (s *Store) Delete(_ context.Context, id string) error {
	err := badgerfx.Update(s.db, func(txn *badger.Txn) error {
		if _, err := s.getByID(txn, id); err != nil {
			return err
		}

		return s.delete(txn, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}

	return nil
}

// DeleteByRepo removes the entries of one repository, or every entry when
// repoID is uuid.Nil. Entries are deleted one transaction each.
func (s *Store) DeleteByRepo(_ context.Context, repoID uuid.UUID) (int, error) {
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		models, err := s.scan(txn, repoID)
		if err != nil {
			return err
		}

		for _, m := range models {
			ids = append(ids, m.ID)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}

	count := 0
	for _, id := range ids {
		delErr := badgerfx.Update(s.db, func(txn *badger.Txn) error {
			if _, getErr := s.getByID(txn, id); getErr != nil {
				return getErr
			}

			return s.delete(txn, id)
		})
		if errors.Is(delErr, ErrNotFound) {
			continue
		}
		if delErr != nil {
			return count, fmt.Errorf("failed to delete cache entries: %w", delErr)
		}

		count++
	}

	return count, nil
}

func (s *Store) delete(txn *badger.Txn, id string) error {
	if _, err := s.models.Delete(txn, keyByID(id)); err != nil {
		return err
	}

	if err := txn.Delete([]byte(keyData(id))); err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}

	return nil
}

func (s *Store) scan(txn *badger.Txn, repoID uuid.UUID) ([]*entryModel, error) {
	if repoID != uuid.Nil {
		return s.models.ListByIndex(txn, prefixForRepo(repoID))
	}

	return s.models.List(txn, prefixByKey, badger.DefaultIteratorOptions, nil)
}

func (s *Store) getByID(txn *badger.Txn, id string) (*entryModel, error) {
	model, err := s.models.Read(txn, keyByID(id))
	if errors.Is(err, badgerfx.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	return model, nil
}

func (s *Store) readData(txn *badger.Txn, id string) (*stats.Result, error) {
	item, err := txn.Get([]byte(keyData(id)))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: result of %s is missing", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result *stats.Result
	err = item.Value(func(val []byte) error {
		var decodeErr error
		result, decodeErr = decodeResult(val)
		return decodeErr
	})

	return result, err
}
