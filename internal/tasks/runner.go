package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	reasonCleared     = "abandoned: task list cleared while running"
	reasonInterrupted = "abandoned: interrupted by restart"
)

// Executor performs the side effects of one task kind.
type Executor interface {
	Kind() Kind
	Execute(ctx context.Context, task *Task) error
}

type job struct {
	taskID uuid.UUID
	// internal jobs are not persisted and run without a timeout
	internal func(ctx context.Context)
}

// lane is the FIFO of one repository. A scheduled lane is either in the
// ready queue or held by exactly one worker.
type lane struct {
	repoID    uuid.UUID
	jobs      []job
	scheduled bool
}

type RunnerParams struct {
	fx.In

	Config    Config
	Tasks     *Repository
	Executors []Executor `group:"executors"`
	Logger    *zap.Logger
}

// Runner executes tasks on a fixed pool of workers. Tasks of one repository
// run one at a time in submission order; distinct repositories run in
// parallel.
type Runner struct {
	config    Config
	tasks     *Repository
	executors map[Kind]Executor

	logger *zap.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	lanes    map[uuid.UUID]*lane
	ready    []*lane
	stopping bool

	ctx    context.Context //nolint:containedctx //cancelled on forced shutdown
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(params RunnerParams) *Runner {
	executors := make(map[Kind]Executor, len(params.Executors))
	for _, e := range params.Executors {
		executors[e.Kind()] = e
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		config:    params.Config,
		tasks:     params.Tasks,
		executors: executors,

		logger: params.Logger,

		lanes: map[uuid.UUID]*lane{},

		ctx:    ctx,
		cancel: cancel,
	}
	r.cond = sync.NewCond(&r.mu)

	return r
}

// Supports reports whether an executor is registered for kind.
func (r *Runner) Supports(kind Kind) bool {
	_, ok := r.executors[kind]
	return ok
}

// Start recovers persisted state and starts the workers. Tasks left running
// by a previous process are abandoned, pending ones are queued again in
// submission order.
func (r *Runner) Start(ctx context.Context) error {
	abandoned, err := r.tasks.UpdateMatching(ctx,
		func(t *Task) bool { return t.Status == StatusRunning },
		func(t *Task) { t.MarkAbandoned(time.Now(), reasonInterrupted) },
	)
	if err != nil {
		return fmt.Errorf("failed to recover running tasks: %w", err)
	}

	pending, err := r.tasks.List(ctx, Filter{Status: StatusPending})
	if err != nil {
		return fmt.Errorf("failed to load pending tasks: %w", err)
	}

	// List is newest first
	for i := len(pending) - 1; i >= 0; i-- {
		if enqErr := r.Enqueue(&pending[i]); enqErr != nil {
			return enqErr
		}
	}

	workers := r.config.workers()
	for i := range workers {
		r.wg.Add(1)
		go r.work(i)
	}

	r.logger.Info("task runner started",
		zap.Int("workers", workers),
		zap.Int("requeued", len(pending)),
		zap.Int("abandoned", abandoned))

	return nil
}

// Stop stops handing out work and waits for running tasks. Running tasks are
// cancelled when ctx expires; queued tasks stay pending for the next start.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	r.stopping = true
	r.cond.Broadcast()
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()
		r.logger.Info("task runner stopped")
		return nil
	case <-ctx.Done():
		r.cancel()
		<-done
		r.logger.Warn("task runner stopped with running tasks cancelled")
		return fmt.Errorf("failed to drain task runner: %w", ctx.Err())
	}
}

// Enqueue appends a pending task to its repository lane.
func (r *Runner) Enqueue(task *Task) error {
	if !r.Supports(task.Kind) {
		return fmt.Errorf("%w: %s", ErrUnknownKind, task.Kind)
	}

	if err := r.push(task.RepoID, job{taskID: task.ID}); err != nil {
		return err
	}

	observeQueued(1)
	return nil
}

// Schedule runs fn on the repository lane after the work queued so far. It
// is used for housekeeping that must not overlap the repository's tasks.
func (r *Runner) Schedule(repoID uuid.UUID, fn func(ctx context.Context)) error {
	return r.push(repoID, job{internal: fn})
}

// Dequeue drops the queued tasks of a repository and returns their IDs.
// A task already picked up by a worker is not affected.
func (r *Runner) Dequeue(repoID uuid.UUID) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lanes[repoID]
	if !ok {
		return nil
	}

	return r.dropTasks(l)
}

// DequeueAll drops every queued task and returns their IDs.
func (r *Runner) DequeueAll() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []uuid.UUID
	for _, l := range r.lanes {
		ids = append(ids, r.dropTasks(l)...)
	}

	return ids
}

func (r *Runner) dropTasks(l *lane) []uuid.UUID {
	var ids []uuid.UUID
	kept := l.jobs[:0]
	for _, j := range l.jobs {
		if j.internal != nil {
			kept = append(kept, j)
			continue
		}
		ids = append(ids, j.taskID)
	}
	l.jobs = kept

	observeDequeued(len(ids))
	return ids
}

func (r *Runner) push(repoID uuid.UUID, j job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopping {
		return ErrRunnerStopped
	}

	l, ok := r.lanes[repoID]
	if !ok {
		l = &lane{repoID: repoID}
		r.lanes[repoID] = l
	}

	l.jobs = append(l.jobs, j)
	if !l.scheduled {
		l.scheduled = true
		r.ready = append(r.ready, l)
		r.cond.Signal()
	}

	return nil
}

// next blocks until a lane has work and takes its head job. The lane stays
// held by the caller until release.
func (r *Runner) next() (*lane, job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		for len(r.ready) == 0 && !r.stopping {
			r.cond.Wait()
		}
		if r.stopping {
			return nil, job{}, false
		}

		l := r.ready[0]
		r.ready = r.ready[1:]

		if len(l.jobs) == 0 {
			l.scheduled = false
			delete(r.lanes, l.repoID)
			continue
		}

		j := l.jobs[0]
		l.jobs = l.jobs[1:]
		return l, j, true
	}
}

func (r *Runner) release(l *lane) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(l.jobs) > 0 {
		r.ready = append(r.ready, l)
		r.cond.Signal()
		return
	}

	l.scheduled = false
	delete(r.lanes, l.repoID)
}

func (r *Runner) work(worker int) {
	defer r.wg.Done()

	logger := r.logger.With(zap.Int("worker", worker))
	for {
		l, j, ok := r.next()
		if !ok {
			return
		}

		if j.internal != nil {
			j.internal(r.ctx)
		} else {
			observeDequeued(1)
			r.run(logger, j.taskID)
		}

		r.release(l)
	}
}

func (r *Runner) run(logger *zap.Logger, taskID uuid.UUID) {
	logger = logger.With(zap.Stringer("task_id", taskID))

	task, err := r.tasks.Update(r.ctx, taskID, func(t *Task) error {
		if t.Status != StatusPending {
			return fmt.Errorf("%w: %s is %s", ErrNotTransitable, t.ID, t.Status)
		}
		t.MarkRunning(time.Now())
		return nil
	})
	if err != nil {
		// cancelled or cleared while queued
		logger.Debug("skipping task", zap.Error(err))
		return
	}

	observeStarted(task.Kind)
	logger = logger.With(
		zap.String("kind", string(task.Kind)),
		zap.Stringer("repo_id", task.RepoID),
	)
	logger.Info("task started")

	ctx := r.ctx
	if timeout := r.config.timeout(task.Kind); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	execErr := r.execute(ctx, task)
	r.finish(ctx, logger, task, execErr)
}

func (r *Runner) execute(ctx context.Context, task *Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task panicked: %v", p)
		}
	}()

	return r.executors[task.Kind].Execute(ctx, task)
}

func (r *Runner) finish(ctx context.Context, logger *zap.Logger, task *Task, execErr error) {
	now := time.Now()

	var updater func(t *Task)
	switch {
	case execErr == nil:
		updater = func(t *Task) { t.MarkCompleted(now) }
	case r.ctx.Err() != nil:
		updater = func(t *Task) { t.MarkAbandoned(now, reasonInterrupted) }
	default:
		kind := ClassifyError(execErr)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = ErrorKindTimeout
			execErr = fmt.Errorf("%s timed out after %s: %w", task.Kind, r.config.timeout(task.Kind), execErr)
		}
		updater = func(t *Task) { t.MarkFailed(now, kind, execErr) }
	}

	// persisting the outcome must survive the task context
	finished, err := r.tasks.Update(context.WithoutCancel(ctx), task.ID, func(t *Task) error {
		if t.Status != StatusRunning {
			return fmt.Errorf("%w: %s is %s", ErrNotTransitable, t.ID, t.Status)
		}
		updater(t)
		return nil
	})
	if err != nil {
		logger.Info("task outcome discarded", zap.Error(err), zap.NamedError("outcome", execErr))
		return
	}

	observeFinished(finished)
	if execErr != nil {
		logger.Warn("task failed",
			zap.String("status", string(finished.Status)),
			zap.String("error_kind", string(finished.ErrorKind)),
			zap.Error(execErr))
		return
	}

	logger.Info("task completed", zap.Durationp("duration", finished.Duration()))
}
