package operations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gitpulse/gitpulse/internal/git"
	"github.com/gitpulse/gitpulse/internal/repositories"
	"github.com/gitpulse/gitpulse/internal/stats"
	"github.com/gitpulse/gitpulse/internal/statscache"
	"github.com/gitpulse/gitpulse/internal/tasks"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParams struct {
	fx.In

	Repositories *repositories.Service
	Tasks        *tasks.Service
	Cache        *statscache.Cache
	WorkingCopy  WorkingCopy
	Engine       StatsEngine
	Logger       *zap.Logger
}

// Service binds the registry, the task runner and the stats cache.
type Service struct {
	repos  *repositories.Service
	tasks  *tasks.Service
	cache  *statscache.Cache
	git    WorkingCopy
	engine StatsEngine

	logger *zap.Logger
}

func NewService(params ServiceParams) *Service {
	return &Service{
		repos:  params.Repositories,
		tasks:  params.Tasks,
		cache:  params.Cache,
		git:    params.WorkingCopy,
		engine: params.Engine,

		logger: params.Logger,
	}
}

// AddBatch adds every item independently and queues a clone for each added
// repository. A failing item never aborts the batch.
func (s *Service) AddBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyBatch
	}

	var credentials *repositories.Credentials
	if req.Username != "" || req.Password != "" {
		credentials = &repositories.Credentials{Username: req.Username, Password: req.Password}
	}

	result := &BatchResult{Details: make([]BatchDetail, 0, len(req.Items))}
	for _, item := range req.Items {
		detail := s.addOne(ctx, item, credentials)
		if detail.Error == "" {
			result.SuccessCount++
		} else {
			result.FailureCount++
		}
		result.Details = append(result.Details, detail)
	}

	s.logger.Info("batch add finished",
		zap.Int("success", result.SuccessCount),
		zap.Int("failure", result.FailureCount))

	return result, nil
}

func (s *Service) addOne(ctx context.Context, item BatchItem, credentials *repositories.Credentials) BatchDetail {
	detail := BatchDetail{URL: strings.TrimSpace(item.URL)}

	repo, err := s.repos.Add(ctx, repositories.RepositoryDraft{
		URL:         item.URL,
		Branch:      item.Branch,
		Credentials: credentials,
	})
	if err != nil {
		detail.Error = err.Error()
		return detail
	}
	detail.RepoID = repo.ID

	task, err := s.tasks.Submit(ctx, tasks.KindClone, repo.ID, tasks.Params{Branch: repo.TrackedBranch})
	if err != nil {
		s.logger.Error("failed to queue clone, removing repository", zap.Stringer("repo_id", repo.ID), zap.Error(err))
		if _, rmErr := s.repos.Remove(ctx, repo.ID); rmErr != nil {
			s.logger.Error("failed to remove repository", zap.Stringer("repo_id", repo.ID), zap.Error(rmErr))
		}
		detail.RepoID = uuid.Nil
		detail.Error = err.Error()
		return detail
	}
	detail.TaskID = task.ID

	return detail
}

// SubmitUpdate queues a fetch and hard reset of the tracked branch.
func (s *Service) SubmitUpdate(ctx context.Context, repoID uuid.UUID) (*tasks.Task, error) {
	return s.submit(ctx, tasks.KindUpdate, repoID, tasks.Params{})
}

// SubmitReset queues a reset of the working copy.
func (s *Service) SubmitReset(ctx context.Context, repoID uuid.UUID) (*tasks.Task, error) {
	return s.submit(ctx, tasks.KindReset, repoID, tasks.Params{})
}

// SubmitSwitchBranch queues a checkout of branch.
func (s *Service) SubmitSwitchBranch(ctx context.Context, repoID uuid.UUID, branch string) (*tasks.Task, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return nil, fmt.Errorf("%w: branch is required", ErrInvalidParams)
	}

	return s.submit(ctx, tasks.KindSwitchBranch, repoID, tasks.Params{Branch: branch})
}

// SubmitStats queues a statistics computation. The constraint is validated
// before queuing.
func (s *Service) SubmitStats(
	ctx context.Context,
	repoID uuid.UUID,
	branch string,
	spec stats.ConstraintSpec,
) (*tasks.Task, error) {
	constraint, err := spec.Parse()
	if err != nil {
		return nil, err
	}

	canonical := stats.SpecOf(constraint)
	return s.submit(ctx, tasks.KindComputeStats, repoID, tasks.Params{
		Branch:     strings.TrimSpace(branch),
		Constraint: &canonical,
	})
}

func (s *Service) submit(ctx context.Context, kind tasks.Kind, repoID uuid.UUID, params tasks.Params) (*tasks.Task, error) {
	if _, err := s.repos.Get(ctx, repoID); err != nil {
		return nil, err
	}

	return s.tasks.Submit(ctx, kind, repoID, params)
}

// Branches lists the branches of a ready working copy.
func (s *Service) Branches(ctx context.Context, repoID uuid.UUID) ([]git.BranchInfo, error) {
	repo, err := s.repos.GetReady(ctx, repoID)
	if err != nil {
		return nil, err
	}

	return s.git.Branches(ctx, repo.WorkingCopyPath)
}

// Stats returns the statistics for query, computing them on a cache miss.
// The read does not wait for the repository's queued tasks.
func (s *Service) Stats(ctx context.Context, query StatsQuery) (*statscache.Lookup, error) {
	constraint, err := query.Constraint.Parse()
	if err != nil {
		return nil, err
	}

	repo, err := s.repos.GetReady(ctx, query.RepoID)
	if err != nil {
		return nil, err
	}

	return computeThroughCache(ctx, s.repos, s.cache, s.git, s.engine, repo, strings.TrimSpace(query.Branch), constraint)
}

// CountCommits counts the commits of branch committed on or after the
// calendar date from. Empty branch and from mean the tracked branch and the
// whole history.
func (s *Service) CountCommits(ctx context.Context, repoID uuid.UUID, branch, from string) (*CommitCount, error) {
	var since time.Time
	if from != "" {
		var err error
		since, err = time.ParseInLocation(stats.DateLayout, from, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: from: %w", ErrInvalidParams, err)
		}
	}

	repo, err := s.repos.GetReady(ctx, repoID)
	if err != nil {
		return nil, err
	}

	branch = strings.TrimSpace(branch)
	if branch == "" {
		branch = repo.TrackedBranch
	}

	count, err := s.engine.CountCommits(ctx, repo.WorkingCopyPath, branch, since)
	if err != nil {
		return nil, err
	}

	return &CommitCount{RepoID: repoID, Branch: branch, From: from, Count: count}, nil
}

// Caches lists cache entries marked stale when their repository was synced
// after they were computed.
func (s *Service) Caches(ctx context.Context, filter statscache.Filter) ([]CacheView, error) {
	entries, err := s.cache.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	repos := map[uuid.UUID]*repositories.Repository{}
	for _, id := range lo.Uniq(lo.Map(entries, func(e statscache.Entry, _ int) uuid.UUID { return e.Key.RepoID })) {
		if repo, getErr := s.repos.Get(ctx, id); getErr == nil {
			repos[id] = repo
		}
	}

	return lo.Map(entries, func(e statscache.Entry, _ int) CacheView {
		return CacheView{Entry: e, Stale: isStale(e, repos[e.Key.RepoID])}
	}), nil
}

// DeleteRepository removes a repository with its queued and finished tasks
// and its cache entries. Dependents go first so a failed call can be
// retried. The working copy is removed on the repository lane after any
// running task.
func (s *Service) DeleteRepository(ctx context.Context, repoID uuid.UUID) error {
	if _, err := s.repos.Get(ctx, repoID); err != nil {
		return err
	}

	logger := s.logger.With(zap.Stringer("repo_id", repoID))

	deletedTasks, err := s.tasks.DeleteByRepo(ctx, repoID)
	if err != nil {
		return fmt.Errorf("failed to delete tasks of repository: %w", err)
	}

	deletedEntries, err := s.cache.DeleteByRepo(ctx, repoID)
	if err != nil {
		return fmt.Errorf("failed to delete cache entries of repository: %w", err)
	}

	repo, err := s.repos.Remove(ctx, repoID)
	if err != nil {
		return err
	}

	// work submitted while dependents were deleted
	if _, cancelErr := s.tasks.CancelPending(ctx, repoID); cancelErr != nil {
		logger.Warn("failed to cancel late tasks", zap.Error(cancelErr))
	}
	if _, cacheErr := s.cache.DeleteByRepo(ctx, repoID); cacheErr != nil {
		logger.Warn("failed to delete late cache entries", zap.Error(cacheErr))
	}

	path := repo.WorkingCopyPath
	removeWorkingCopy := func(context.Context) {
		if rmErr := s.git.Remove(path); rmErr != nil {
			logger.Error("failed to remove working copy", zap.String("path", path), zap.Error(rmErr))
		}
	}
	if schedErr := s.tasks.Schedule(repoID, removeWorkingCopy); schedErr != nil {
		logger.Warn("task runner unavailable, removing working copy now", zap.Error(schedErr))
		removeWorkingCopy(ctx)
	}

	logger.Info("repository deleted",
		zap.Int("tasks", deletedTasks),
		zap.Int("cache_entries", deletedEntries))

	return nil
}
