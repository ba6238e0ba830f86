package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gitpulse/gitpulse/pkg/badgerfx"
	"github.com/google/uuid"
)

// Repository persists tasks in BadgerDB.
type Repository struct {
	db *badger.DB

	models *badgerfx.Repository[*taskModel]
}

func NewRepository(db *badger.DB) *Repository {
	return &Repository{
		db: db,

		models: badgerfx.NewRepository(func() *taskModel { return new(taskModel) }),
	}
}

// Create stores a new task.
func (r *Repository) Create(_ context.Context, task *Task) error {
	err := badgerfx.Update(r.db, func(txn *badger.Txn) error {
		return r.models.Write(txn, newTaskModel(task))
	})
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by its ID.
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*Task, error) {
	var task *Task

	err := r.db.View(func(txn *badger.Txn) error {
		model, err := r.getByID(txn, id)
		if err != nil {
			return err
		}

		task = newTask(model)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// List retrieves tasks matching filter, newest first.
func (r *Repository) List(_ context.Context, filter Filter) ([]Task, error) {
	var models []*taskModel

	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		switch {
		case filter.RepoID != uuid.Nil:
			models, err = r.models.ListByIndex(txn, prefixForRepo(filter.RepoID))
			slices.Reverse(models)
		case filter.Status != "":
			models, err = r.models.ListByIndex(txn, prefixForStatus(filter.Status))
			slices.Reverse(models)
		default:
			opts := badger.DefaultIteratorOptions
			opts.Reverse = true
			models, err = r.models.List(txn, prefixByID, opts, nil)
		}

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]Task, 0, len(models))
	for _, m := range models {
		task := newTask(m)
		if !filter.match(task) {
			continue
		}

		tasks = append(tasks, *task)
	}

	return tasks, nil
}

// Update applies updater to the stored task atomically.
func (r *Repository) Update(_ context.Context, id uuid.UUID, updater func(*Task) error) (*Task, error) {
	var updated *Task

	err := badgerfx.Update(r.db, func(txn *badger.Txn) error {
		old, err := r.getByID(txn, id)
		if err != nil {
			return err
		}

		task := newTask(old)
		if updErr := updater(task); updErr != nil {
			return updErr
		}

		task.ID = old.ID
		task.RepoID = old.RepoID
		task.CreatedAt = old.CreatedAt
		task.UpdatedAt = time.Now()

		if replErr := r.models.Replace(txn, old, newTaskModel(task)); replErr != nil {
			return replErr
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return updated, nil
}

// DeleteMatching deletes every task for which predicate holds. Tasks of a
// single repository are scanned through the repository index. Each task is
// deleted in its own transaction after checking predicate again, so a task
// that changed since the scan is kept when it no longer matches.
func (r *Repository) DeleteMatching(_ context.Context, repoID uuid.UUID, predicate func(*Task) bool) ([]uuid.UUID, error) {
	candidates, err := r.matching(repoID, predicate)
	if err != nil {
		return nil, fmt.Errorf("failed to delete tasks: %w", err)
	}

	deleted := make([]uuid.UUID, 0, len(candidates))
	for _, id := range candidates {
		delErr := badgerfx.Update(r.db, func(txn *badger.Txn) error {
			model, getErr := r.getByID(txn, id)
			if getErr != nil {
				return getErr
			}
			if !predicate(newTask(model)) {
				return errUnmatched
			}

			_, modelErr := r.models.Delete(txn, model.StorageKey())
			return modelErr
		})
		if errors.Is(delErr, ErrNotFound) || errors.Is(delErr, errUnmatched) {
			continue
		}
		if delErr != nil {
			return deleted, fmt.Errorf("failed to delete tasks: %w", delErr)
		}

		deleted = append(deleted, id)
	}

	return deleted, nil
}

// UpdateMatching applies updater to every task for which predicate holds,
// one transaction per task.
func (r *Repository) UpdateMatching(
	ctx context.Context,
	predicate func(*Task) bool,
	updater func(*Task),
) (int, error) {
	candidates, err := r.matching(uuid.Nil, predicate)
	if err != nil {
		return 0, fmt.Errorf("failed to update tasks: %w", err)
	}

	count := 0
	for _, id := range candidates {
		_, updErr := r.Update(ctx, id, func(t *Task) error {
			if !predicate(t) {
				return errUnmatched
			}
			updater(t)
			return nil
		})
		if errors.Is(updErr, ErrNotFound) || errors.Is(updErr, errUnmatched) {
			continue
		}
		if updErr != nil {
			return count, updErr
		}

		count++
	}

	return count, nil
}

// matching returns the IDs of the tasks for which predicate holds.
func (r *Repository) matching(repoID uuid.UUID, predicate func(*Task) bool) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	err := r.db.View(func(txn *badger.Txn) error {
		models, err := r.scan(txn, repoID)
		if err != nil {
			return err
		}

		for _, m := range models {
			if predicate(newTask(m)) {
				ids = append(ids, m.ID)
			}
		}

		return nil
	})

	return ids, err
}

func (r *Repository) scan(txn *badger.Txn, repoID uuid.UUID) ([]*taskModel, error) {
	if repoID != uuid.Nil {
		return r.models.ListByIndex(txn, prefixForRepo(repoID))
	}

	return r.models.List(txn, prefixByID, badger.DefaultIteratorOptions, nil)
}

func (r *Repository) getByID(txn *badger.Txn, id uuid.UUID) (*taskModel, error) {
	model, err := r.models.Read(txn, keyByID(id))
	if errors.Is(err, badgerfx.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	return model, nil
}
