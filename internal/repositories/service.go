package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gitpulse/gitpulse/internal/giturl"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	repositories *Store
	paths        PathBuilder

	logger *zap.Logger
}

func NewService(repositories *Store, paths PathBuilder, logger *zap.Logger) *Service {
	return &Service{
		repositories: repositories,
		paths:        paths,

		logger: logger,
	}
}

// Add registers a repository in the pending state. Cloning is scheduled by
// the caller.
func (s *Service) Add(ctx context.Context, draft RepositoryDraft) (*Repository, error) {
	url := strings.TrimSpace(draft.URL)
	logger := s.logger.With(zap.String("url", url))

	parsed, err := giturl.Parse(url)
	if err != nil {
		logger.Warn("rejected repository url", zap.Error(err))
		return nil, err
	}

	credentials := draft.Credentials
	if credentials.IsZero() {
		credentials = nil
	}

	now := time.Now()
	id := uuid.Must(uuid.NewV7())
	repo := &Repository{
		ID:              id,
		URL:             url,
		Name:            parsed.Name(),
		TrackedBranch:   strings.TrimSpace(draft.Branch),
		WorkingCopyPath: s.paths.BuildPath(id),
		Status:          StatusPending,
		Credentials:     credentials,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if createErr := s.repositories.Create(ctx, repo); createErr != nil {
		logger.Error("failed to add repository", zap.Error(createErr))
		return nil, createErr
	}

	logger.Info("repository added", zap.Stringer("repo_id", repo.ID))
	return repo, nil
}

// Get retrieves a repository by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Repository, error) {
	repo, err := s.repositories.GetByID(ctx, id)
	if err != nil {
		s.logger.Debug("failed to get repository", zap.Stringer("repo_id", id), zap.Error(err))
		return nil, err
	}

	return repo, nil
}

// GetReady retrieves a repository whose working copy is usable.
func (s *Service) GetReady(ctx context.Context, id uuid.UUID) (*Repository, error) {
	repo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !repo.IsReady() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotReady, id, repo.Status)
	}

	return repo, nil
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Repository, error) {
	repos, err := s.repositories.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list repositories", zap.Error(err))
		return nil, err
	}

	return repos, nil
}

// Update applies updater to a repository. Only task executors running on
// the repository's lane call it.
func (s *Service) Update(ctx context.Context, id uuid.UUID, updater func(*Repository) error) (*Repository, error) {
	repo, err := s.repositories.Update(ctx, id, updater)
	if err != nil {
		s.logger.Error("failed to update repository", zap.Stringer("repo_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("repository updated",
		zap.Stringer("repo_id", id),
		zap.String("status", string(repo.Status)))
	return repo, nil
}

// UpdateStatus sets the status and the last error message.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, cause error) (*Repository, error) {
	return s.Update(ctx, id, func(repo *Repository) error {
		repo.Status = status
		repo.LastError = ""
		if cause != nil {
			repo.LastError = cause.Error()
		}
		return nil
	})
}

// Remove deletes the repository record. Dependent data is cleaned up by the
// caller.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) (*Repository, error) {
	repo, err := s.repositories.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to remove repository", zap.Stringer("repo_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("repository removed", zap.Stringer("repo_id", id))
	return repo, nil
}
