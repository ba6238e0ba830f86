package operations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gitpulse/gitpulse/internal/git"
	"github.com/gitpulse/gitpulse/internal/repositories"
	"github.com/gitpulse/gitpulse/internal/stats"
	"github.com/gitpulse/gitpulse/internal/statscache"
	"github.com/gitpulse/gitpulse/internal/tasks"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type executorFunc struct {
	kind tasks.Kind
	fn   func(ctx context.Context, task *tasks.Task) error
}

func (e executorFunc) Kind() tasks.Kind {
	return e.kind
}

func (e executorFunc) Execute(ctx context.Context, task *tasks.Task) error {
	return e.fn(ctx, task)
}

type ExecutorParams struct {
	fx.In

	Repositories *repositories.Service
	WorkingCopy  WorkingCopy
	Engine       StatsEngine
	Cache        *statscache.Cache
	Logger       *zap.Logger
}

type ExecutorsResult struct {
	fx.Out

	Executors []tasks.Executor `group:"executors,flatten"`
}

// executors apply tasks to working copies. Each call runs on the lane of
// the task's repository, so the repository is never mutated concurrently.
type executors struct {
	repos  *repositories.Service
	git    WorkingCopy
	engine StatsEngine
	cache  *statscache.Cache

	logger *zap.Logger
}

func NewExecutors(params ExecutorParams) ExecutorsResult {
	e := &executors{
		repos:  params.Repositories,
		git:    params.WorkingCopy,
		engine: params.Engine,
		cache:  params.Cache,

		logger: params.Logger,
	}

	return ExecutorsResult{
		Executors: []tasks.Executor{
			executorFunc{kind: tasks.KindClone, fn: e.clone},
			executorFunc{kind: tasks.KindUpdate, fn: e.update},
			executorFunc{kind: tasks.KindReset, fn: e.reset},
			executorFunc{kind: tasks.KindSwitchBranch, fn: e.switchBranch},
			executorFunc{kind: tasks.KindComputeStats, fn: e.computeStats},
		},
	}
}

func (e *executors) clone(ctx context.Context, task *tasks.Task) error {
	repo, err := e.repos.UpdateStatus(ctx, task.RepoID, repositories.StatusCloning, nil)
	if err != nil {
		return err
	}

	return e.recloneInto(ctx, repo)
}

// recloneInto replaces the working copy with a fresh clone. The repository
// ends ready on success and in error otherwise.
func (e *executors) recloneInto(ctx context.Context, repo *repositories.Repository) error {
	if err := e.git.Remove(repo.WorkingCopyPath); err != nil {
		return err
	}

	snapshot, err := e.git.Clone(ctx, git.CloneRequest{
		URL:       repo.URL,
		Branch:    repo.TrackedBranch,
		Directory: repo.WorkingCopyPath,
		Auth:      credentialsOf(repo),
	})
	if err != nil {
		if _, updErr := e.repos.Update(context.WithoutCancel(ctx), repo.ID, func(r *repositories.Repository) error {
			r.MarkFailed(err)
			return nil
		}); updErr != nil {
			e.logger.Error("failed to record clone failure", zap.Stringer("repo_id", repo.ID), zap.Error(updErr))
		}
		return err
	}

	_, err = e.repos.Update(ctx, repo.ID, markSynced(snapshot, time.Now()))
	return err
}

func (e *executors) update(ctx context.Context, task *tasks.Task) error {
	repo, err := e.repos.GetReady(ctx, task.RepoID)
	if err != nil {
		return err
	}

	snapshot, err := e.git.Update(ctx, syncRequest(repo, repo.TrackedBranch))
	if err != nil {
		return err
	}

	_, err = e.repos.Update(ctx, repo.ID, markSynced(snapshot, time.Now()))
	return err
}

// reset discards local state. A working copy that is missing or unreadable,
// or a repository that never became ready, is cloned again.
func (e *executors) reset(ctx context.Context, task *tasks.Task) error {
	repo, err := e.repos.Get(ctx, task.RepoID)
	if err != nil {
		return err
	}

	if repo.IsReady() {
		snapshot, resetErr := e.git.Reset(ctx, syncRequest(repo, repo.TrackedBranch))
		if resetErr == nil {
			_, err = e.repos.Update(ctx, repo.ID, markSynced(snapshot, time.Now()))
			return err
		}
		if !errors.Is(resetErr, git.ErrRepositoryNotFound) && !errors.Is(resetErr, git.ErrInvalidRepository) {
			return resetErr
		}
		e.logger.Warn("working copy is unusable, cloning again", zap.Stringer("repo_id", repo.ID), zap.Error(resetErr))
	}

	repo, err = e.repos.UpdateStatus(ctx, repo.ID, repositories.StatusCloning, nil)
	if err != nil {
		return err
	}

	return e.recloneInto(ctx, repo)
}

func (e *executors) switchBranch(ctx context.Context, task *tasks.Task) error {
	branch := task.Params.Branch
	if branch == "" {
		return fmt.Errorf("%w: branch is required", ErrInvalidParams)
	}

	repo, err := e.repos.GetReady(ctx, task.RepoID)
	if err != nil {
		return err
	}

	snapshot, err := e.git.Checkout(ctx, syncRequest(repo, branch))
	if errors.Is(err, git.ErrBranchNotFound) {
		return fmt.Errorf("%w: %s", ErrBranchMissing, branch)
	}
	if err != nil {
		return err
	}

	_, err = e.repos.Update(ctx, repo.ID, markSynced(snapshot, time.Now()))
	return err
}

func (e *executors) computeStats(ctx context.Context, task *tasks.Task) error {
	if task.Params.Constraint == nil {
		return fmt.Errorf("%w: constraint is required", ErrInvalidParams)
	}

	constraint, err := task.Params.Constraint.Parse()
	if err != nil {
		return err
	}

	repo, err := e.repos.GetReady(ctx, task.RepoID)
	if err != nil {
		return err
	}

	lookup, err := computeThroughCache(ctx, e.repos, e.cache, e.git, e.engine, repo, task.Params.Branch, constraint)
	if err != nil {
		return err
	}

	e.logger.Info("statistics ready",
		zap.Stringer("repo_id", repo.ID),
		zap.String("cache_id", lookup.Entry.ID),
		zap.Bool("cache_hit", lookup.Hit))

	return nil
}

// computeThroughCache reads the statistics of branch, computing them on a
// cache miss. An empty branch means the tracked one. A result stored for a
// repository deleted meanwhile is dropped again.
func computeThroughCache(
	ctx context.Context,
	repos *repositories.Service,
	cache *statscache.Cache,
	wc WorkingCopy,
	engine StatsEngine,
	repo *repositories.Repository,
	branch string,
	constraint stats.Constraint,
) (*statscache.Lookup, error) {
	if branch == "" {
		branch = repo.TrackedBranch
	}

	key := statscache.Key{RepoID: repo.ID, Branch: branch, Constraint: constraint}
	lookup, err := cache.GetOrCompute(ctx, key, func(ctx context.Context) (*stats.Result, string, error) {
		snapshot, err := wc.Head(ctx, repo.WorkingCopyPath, branch)
		if err != nil {
			return nil, "", err
		}

		result, err := engine.Compute(ctx, repo.WorkingCopyPath, branch, constraint)
		if err != nil {
			return nil, "", err
		}

		return result, snapshot.Head, nil
	})
	if err != nil || lookup.Hit {
		return lookup, err
	}

	if _, getErr := repos.Get(ctx, repo.ID); errors.Is(getErr, repositories.ErrNotFound) {
		if _, delErr := cache.DeleteByRepo(context.WithoutCancel(ctx), repo.ID); delErr != nil {
			return nil, delErr
		}
		return nil, getErr
	}

	return lookup, nil
}
