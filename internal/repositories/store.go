package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gitpulse/gitpulse/pkg/badgerfx"
	"github.com/google/uuid"
)

// Store persists repositories in BadgerDB.
type Store struct {
	db *badger.DB

	models *badgerfx.Repository[*repositoryModel]
}

func NewStore(db *badger.DB) *Store {
	return &Store{
		db: db,

		models: badgerfx.NewRepository(func() *repositoryModel { return new(repositoryModel) }),
	}
}

// Create stores a new repository. URLs are unique.
func (s *Store) Create(_ context.Context, repo *Repository) error {
	model := newRepositoryModel(repo)

	err := badgerfx.Update(s.db, func(txn *badger.Txn) error {
		existing, err := s.models.ReadByIndex(txn, keyByURL(model.URL))
		if err == nil {
			return fmt.Errorf("%w: url %q is already tracked as %s", ErrConflict, model.URL, existing.ID)
		}
		if !errors.Is(err, badgerfx.ErrNotFound) {
			return fmt.Errorf("failed to check url uniqueness: %w", err)
		}

		return s.models.Write(txn, model)
	})
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}

	return nil
}

// GetByID retrieves a repository by its ID.
func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*Repository, error) {
	var repo *Repository

	err := s.db.View(func(txn *badger.Txn) error {
		model, err := s.getByID(txn, id)
		if err != nil {
			return err
		}

		repo = newRepository(model)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get repository by ID: %w", err)
	}

	return repo, nil
}

// List retrieves repositories in creation order.
func (s *Store) List(_ context.Context, filter Filter) ([]Repository, error) {
	var models []*repositoryModel

	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		if filter.Status != "" {
			models, err = s.models.ListByIndex(txn, prefixForStatus(filter.Status))
		} else {
			models, err = s.models.List(txn, prefixByID, badger.DefaultIteratorOptions, nil)
		}

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	repos := make([]Repository, 0, len(models))
	for _, m := range models {
		repos = append(repos, *newRepository(m))
	}

	return repos, nil
}

// Update applies updater to the stored repository atomically.
func (s *Store) Update(_ context.Context, id uuid.UUID, updater func(*Repository) error) (*Repository, error) {
	var updated *Repository

	err := badgerfx.Update(s.db, func(txn *badger.Txn) error {
		old, err := s.getByID(txn, id)
		if err != nil {
			return err
		}

		repo := newRepository(old)
		if updErr := updater(repo); updErr != nil {
			return updErr
		}

		if repo.ID != old.ID || repo.URL != old.URL {
			return fmt.Errorf("%w: repository identity and url are immutable", ErrNotAllowed)
		}

		repo.CreatedAt = old.CreatedAt
		repo.UpdatedAt = time.Now()

		model := newRepositoryModel(repo)
		if replErr := s.models.Replace(txn, old, model); replErr != nil {
			return replErr
		}

		updated = repo
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update repository: %w", err)
	}

	return updated, nil
}

// Delete removes a repository and returns the removed record.
func (s *Store) Delete(_ context.Context, id uuid.UUID) (*Repository, error) {
	var deleted *Repository

	err := badgerfx.Update(s.db, func(txn *badger.Txn) error {
		model, err := s.models.Delete(txn, keyByID(id))
		if errors.Is(err, badgerfx.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return err
		}

		deleted = newRepository(model)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete repository: %w", err)
	}

	return deleted, nil
}

func (s *Store) getByID(txn *badger.Txn, id uuid.UUID) (*repositoryModel, error) {
	model, err := s.models.Read(txn, keyByID(id))
	if errors.Is(err, badgerfx.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	return model, nil
}
