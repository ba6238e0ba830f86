package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	tasks  *Repository
	runner *Runner

	logger *zap.Logger
}

func NewService(tasks *Repository, runner *Runner, logger *zap.Logger) *Service {
	return &Service{
		tasks:  tasks,
		runner: runner,

		logger: logger,
	}
}

// Submit records a pending task and queues it on the repository lane.
func (s *Service) Submit(ctx context.Context, kind Kind, repoID uuid.UUID, params Params) (*Task, error) {
	logger := s.logger.With(zap.String("kind", string(kind)), zap.Stringer("repo_id", repoID))

	if !s.runner.Supports(kind) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	now := time.Now()
	task := &Task{
		ID:        uuid.Must(uuid.NewV7()),
		Kind:      kind,
		RepoID:    repoID,
		Params:    params,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		logger.Error("failed to create task", zap.Error(err))
		return nil, err
	}

	if err := s.runner.Enqueue(task); err != nil {
		logger.Error("failed to enqueue task", zap.Error(err))
		if _, delErr := s.tasks.DeleteMatching(ctx, repoID, func(t *Task) bool { return t.ID == task.ID }); delErr != nil {
			logger.Error("failed to delete unqueued task", zap.Error(delErr))
		}
		return nil, err
	}

	logger.Info("task submitted", zap.Stringer("task_id", task.ID))
	return task, nil
}

// Schedule runs fn on the repository lane once the work queued so far is
// done.
func (s *Service) Schedule(repoID uuid.UUID, fn func(ctx context.Context)) error {
	return s.runner.Schedule(repoID, fn)
}

// Get retrieves a task by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// List retrieves tasks, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Task, error) {
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list tasks", zap.Error(err))
		return nil, err
	}

	return tasks, nil
}

// CancelPending removes the queued tasks of a repository. A running task is
// not preempted.
func (s *Service) CancelPending(ctx context.Context, repoID uuid.UUID) (int, error) {
	dropped := s.runner.Dequeue(repoID)

	deleted, err := s.tasks.DeleteMatching(ctx, repoID, func(t *Task) bool {
		return t.Status == StatusPending
	})
	if err != nil {
		s.logger.Error("failed to cancel pending tasks", zap.Stringer("repo_id", repoID), zap.Error(err))
		s.requeue(ctx, dropped)
		return 0, err
	}

	s.logger.Info("pending tasks cancelled", zap.Stringer("repo_id", repoID), zap.Int("count", len(deleted)))
	return len(deleted), nil
}

// DeleteByRepo cancels the queued tasks of a repository and deletes its
// finished ones. A running task keeps its record.
func (s *Service) DeleteByRepo(ctx context.Context, repoID uuid.UUID) (int, error) {
	dropped := s.runner.Dequeue(repoID)

	deleted, err := s.tasks.DeleteMatching(ctx, repoID, func(t *Task) bool {
		return t.Status != StatusRunning
	})
	if err != nil {
		s.logger.Error("failed to delete repository tasks", zap.Stringer("repo_id", repoID), zap.Error(err))
		s.requeue(ctx, dropped)
		return 0, err
	}

	s.logger.Info("repository tasks deleted", zap.Stringer("repo_id", repoID), zap.Int("count", len(deleted)))
	return len(deleted), nil
}

// ClearAll drops queued tasks and deletes every record except running
// ones, which become abandoned.
func (s *Service) ClearAll(ctx context.Context) error {
	dropped := s.runner.DequeueAll()

	deleted, err := s.tasks.DeleteMatching(ctx, uuid.Nil, func(t *Task) bool {
		return t.Status != StatusRunning
	})
	if err != nil {
		s.logger.Error("failed to clear tasks", zap.Error(err))
		s.requeue(ctx, dropped)
		return err
	}

	now := time.Now()
	abandoned, err := s.tasks.UpdateMatching(ctx,
		func(t *Task) bool { return t.Status == StatusRunning },
		func(t *Task) { t.MarkAbandoned(now, reasonCleared) },
	)
	if err != nil {
		s.logger.Error("failed to abandon running tasks", zap.Error(err))
		return err
	}

	s.logger.Info("tasks cleared",
		zap.Int("dequeued", len(dropped)),
		zap.Int("deleted", len(deleted)),
		zap.Int("abandoned", abandoned))
	return nil
}

// ClearFinished deletes completed, failed and abandoned tasks.
func (s *Service) ClearFinished(ctx context.Context) (int, error) {
	deleted, err := s.tasks.DeleteMatching(ctx, uuid.Nil, func(t *Task) bool {
		return t.Status.IsTerminal()
	})
	if err != nil {
		s.logger.Error("failed to clear finished tasks", zap.Error(err))
		return 0, err
	}

	s.logger.Info("finished tasks cleared", zap.Int("count", len(deleted)))
	return len(deleted), nil
}

// requeue puts dequeued tasks that are still pending back on their lanes.
func (s *Service) requeue(ctx context.Context, ids []uuid.UUID) {
	ctx = context.WithoutCancel(ctx)
	for _, id := range ids {
		task, err := s.tasks.GetByID(ctx, id)
		if err != nil || task.Status != StatusPending {
			continue
		}

		if enqErr := s.runner.Enqueue(task); enqErr != nil {
			s.logger.Warn("failed to requeue task", zap.Stringer("task_id", id), zap.Error(enqErr))
		}
	}
}
