package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/containerd/errdefs"
	"github.com/dgraph-io/badger/v4"
	"github.com/gitpulse/gitpulse/pkg/badgerfx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type funcExecutor struct {
	kind Kind
	fn   func(ctx context.Context, task *Task) error
}

func (e *funcExecutor) Kind() Kind { return e.kind }

func (e *funcExecutor) Execute(ctx context.Context, task *Task) error { return e.fn(ctx, task) }

type harness struct {
	t       *testing.T
	repo    *Repository
	runner  *Runner
	service *Service
}

func newHarness(t *testing.T, config Config, executors ...Executor) *harness {
	t.Helper()

	db, err := badger.Open(badgerfx.Config{InMemory: true}.Build().WithLogger(nil))
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	repo := NewRepository(db)
	runner := NewRunner(RunnerParams{
		Config:    config,
		Tasks:     repo,
		Executors: executors,
		Logger:    logger,
	})

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = runner.Stop(ctx)
		_ = db.Close()
	})

	return &harness{
		t:       t,
		repo:    repo,
		runner:  runner,
		service: NewService(repo, runner, logger),
	}
}

func (h *harness) start() {
	h.t.Helper()
	require.NoError(h.t, h.runner.Start(context.Background()))
}

func (h *harness) submit(kind Kind, repoID uuid.UUID) *Task {
	h.t.Helper()

	task, err := h.service.Submit(context.Background(), kind, repoID, Params{})
	require.NoError(h.t, err)
	require.Equal(h.t, StatusPending, task.Status)

	return task
}

func (h *harness) get(id uuid.UUID) *Task {
	h.t.Helper()

	task, err := h.service.Get(context.Background(), id)
	require.NoError(h.t, err)

	return task
}

func (h *harness) waitStatus(id uuid.UUID, status Status) *Task {
	h.t.Helper()

	var task *Task
	require.Eventually(h.t, func() bool {
		task = h.get(id)
		return task.Status == status
	}, 5*time.Second, 5*time.Millisecond, "task %s never reached %s", id, status)

	return task
}

func TestRunner_PerRepositoryExclusivity(t *testing.T) {
	const (
		repos         = 4
		tasksPerRepo  = 10
		expectedTasks = repos * tasksPerRepo
	)

	var (
		mu        sync.Mutex
		active    = map[uuid.UUID]int{}
		overlaps  int
		order     = map[uuid.UUID][]uuid.UUID{}
		peak      int
		running   int
		completed sync.WaitGroup
	)
	completed.Add(expectedTasks)

	executor := &funcExecutor{kind: KindUpdate, fn: func(_ context.Context, task *Task) error {
		defer completed.Done()

		mu.Lock()
		active[task.RepoID]++
		if active[task.RepoID] > 1 {
			overlaps++
		}
		running++
		peak = max(peak, running)
		order[task.RepoID] = append(order[task.RepoID], task.ID)
		mu.Unlock()

		time.Sleep(2 * time.Millisecond)

		mu.Lock()
		active[task.RepoID]--
		running--
		mu.Unlock()

		return nil
	}}

	h := newHarness(t, Config{Workers: repos}, executor)

	submitted := map[uuid.UUID][]uuid.UUID{}
	repoIDs := make([]uuid.UUID, repos)
	for i := range repoIDs {
		repoIDs[i] = uuid.New()
	}
	for range tasksPerRepo {
		for _, repoID := range repoIDs {
			task := h.submit(KindUpdate, repoID)
			submitted[repoID] = append(submitted[repoID], task.ID)
		}
	}

	h.start()
	completed.Wait()

	mu.Lock()
	defer mu.Unlock()

	require.Zero(t, overlaps, "tasks of one repository overlapped")
	require.Greater(t, peak, 1, "distinct repositories never ran in parallel")
	for _, repoID := range repoIDs {
		require.Equal(t, submitted[repoID], order[repoID], "repository lane is not FIFO")
	}

	for _, ids := range submitted {
		for _, id := range ids {
			h.waitStatus(id, StatusCompleted)
		}
	}
}

func TestRunner_RecordsFailureKinds(t *testing.T) {
	failures := map[Kind]error{
		KindUpdate:       fmt.Errorf("%w: remote hung up", errdefs.ErrUnavailable),
		KindSwitchBranch: fmt.Errorf("%w: branch ghost", errdefs.ErrConflict),
		KindComputeStats: errors.New("boom"),
	}

	var executors []Executor
	for kind, err := range failures {
		executors = append(executors, &funcExecutor{kind: kind, fn: func(context.Context, *Task) error {
			return err
		}})
	}
	executors = append(executors, &funcExecutor{kind: KindClone, fn: func(context.Context, *Task) error {
		panic("unexpected")
	}})

	h := newHarness(t, Config{Workers: 2}, executors...)
	h.start()

	repoID := uuid.New()
	update := h.submit(KindUpdate, repoID)
	switchBranch := h.submit(KindSwitchBranch, repoID)
	stats := h.submit(KindComputeStats, repoID)
	clone := h.submit(KindClone, repoID)

	got := h.waitStatus(update.ID, StatusFailed)
	require.Equal(t, ErrorKindExternalTool, got.ErrorKind)
	require.Contains(t, got.Error, "remote hung up")
	require.NotNil(t, got.Duration())

	require.Equal(t, ErrorKindConflict, h.waitStatus(switchBranch.ID, StatusFailed).ErrorKind)
	require.Equal(t, ErrorKindInternal, h.waitStatus(stats.ID, StatusFailed).ErrorKind)

	panicked := h.waitStatus(clone.ID, StatusFailed)
	require.Equal(t, ErrorKindInternal, panicked.ErrorKind)
	require.Contains(t, panicked.Error, "panicked")
}

func TestRunner_TimeoutFailsTaskAndLaneContinues(t *testing.T) {
	blocking := &funcExecutor{kind: KindClone, fn: func(ctx context.Context, _ *Task) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	quick := &funcExecutor{kind: KindUpdate, fn: func(context.Context, *Task) error { return nil }}

	h := newHarness(t, Config{
		Workers:  1,
		Timeouts: Timeouts{Clone: 20 * time.Millisecond},
	}, blocking, quick)
	h.start()

	repoID := uuid.New()
	clone := h.submit(KindClone, repoID)
	update := h.submit(KindUpdate, repoID)

	failed := h.waitStatus(clone.ID, StatusFailed)
	require.Equal(t, ErrorKindTimeout, failed.ErrorKind)
	require.Contains(t, failed.Error, "timed out")

	h.waitStatus(update.ID, StatusCompleted)
}

func TestService_SubmitRejectsUnknownKind(t *testing.T) {
	h := newHarness(t, Config{Workers: 1})

	_, err := h.service.Submit(context.Background(), KindReset, uuid.New(), Params{})
	require.ErrorIs(t, err, ErrUnknownKind)
	require.True(t, errdefs.IsInvalidArgument(err))
}

// blockingExecutor holds every task until release is closed.
func blockingExecutor(kind Kind, started chan<- uuid.UUID, release <-chan struct{}) *funcExecutor {
	return &funcExecutor{kind: kind, fn: func(ctx context.Context, task *Task) error {
		started <- task.ID
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}}
}

func TestService_ClearAllAbandonsRunningAndDropsPending(t *testing.T) {
	started := make(chan uuid.UUID, 4)
	release := make(chan struct{})
	h := newHarness(t, Config{Workers: 1}, blockingExecutor(KindUpdate, started, release))
	h.start()

	repoID := uuid.New()
	running := h.submit(KindUpdate, repoID)
	pending := h.submit(KindUpdate, repoID)

	require.Equal(t, running.ID, <-started)

	require.NoError(t, h.service.ClearAll(context.Background()))

	abandoned := h.get(running.ID)
	require.Equal(t, StatusAbandoned, abandoned.Status)

	_, err := h.service.Get(context.Background(), pending.ID)
	require.ErrorIs(t, err, ErrNotFound)

	close(release)

	// the finished task must not overwrite the abandoned record
	require.Never(t, func() bool {
		return h.get(running.ID).Status != StatusAbandoned
	}, 100*time.Millisecond, 10*time.Millisecond)

	select {
	case id := <-started:
		t.Fatalf("cleared task %s was executed", id)
	default:
	}

	removed, err := h.service.ClearFinished(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	all, err := h.service.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestService_ClearWhileWorkersRun(t *testing.T) {
	const (
		rounds       = 20
		repos        = 8
		tasksPerRepo = 5
	)

	executor := &funcExecutor{kind: KindUpdate, fn: func(context.Context, *Task) error {
		time.Sleep(time.Millisecond)
		return nil
	}}
	h := newHarness(t, Config{Workers: 8}, executor)
	h.start()
	ctx := context.Background()

	repoIDs := make([]uuid.UUID, repos)
	for i := range repoIDs {
		repoIDs[i] = uuid.New()
	}

	for round := range rounds {
		for _, repoID := range repoIDs {
			for range tasksPerRepo {
				h.submit(KindUpdate, repoID)
			}
		}

		_, err := h.service.DeleteByRepo(ctx, repoIDs[round%repos])
		require.NoError(t, err, "round %d", round)
		_, err = h.service.ClearFinished(ctx)
		require.NoError(t, err, "round %d", round)
		require.NoError(t, h.service.ClearAll(ctx), "round %d", round)
	}

	require.Eventually(t, func() bool {
		all, err := h.service.List(ctx, Filter{})
		if err != nil {
			return false
		}
		for _, task := range all {
			if !task.Status.IsTerminal() {
				return false
			}
		}
		return true
	}, 5*time.Second, 5*time.Millisecond)
}

func TestService_CancelPending(t *testing.T) {
	started := make(chan uuid.UUID, 8)
	release := make(chan struct{})
	h := newHarness(t, Config{Workers: 2}, blockingExecutor(KindUpdate, started, release))
	h.start()

	target, other := uuid.New(), uuid.New()
	running := h.submit(KindUpdate, target)
	require.Equal(t, running.ID, <-started)

	h.submit(KindUpdate, target)
	h.submit(KindUpdate, target)
	kept := h.submit(KindUpdate, other)

	cancelled, err := h.service.CancelPending(context.Background(), target)
	require.NoError(t, err)
	require.Equal(t, 2, cancelled)

	close(release)
	h.waitStatus(running.ID, StatusCompleted)
	h.waitStatus(kept.ID, StatusCompleted)

	remaining, err := h.service.List(context.Background(), Filter{RepoID: target})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, running.ID, remaining[0].ID)
}

func TestRunner_RecoversPersistedState(t *testing.T) {
	var mu sync.Mutex
	var executed []uuid.UUID
	executor := &funcExecutor{kind: KindUpdate, fn: func(_ context.Context, task *Task) error {
		mu.Lock()
		executed = append(executed, task.ID)
		mu.Unlock()
		return nil
	}}

	h := newHarness(t, Config{Workers: 1}, executor)
	ctx := context.Background()
	repoID := uuid.New()

	now := time.Now()
	interrupted := &Task{ID: uuid.Must(uuid.NewV7()), Kind: KindUpdate, RepoID: repoID, Status: StatusRunning, CreatedAt: now, UpdatedAt: now}
	first := &Task{ID: uuid.Must(uuid.NewV7()), Kind: KindUpdate, RepoID: repoID, Status: StatusPending, CreatedAt: now, UpdatedAt: now}
	second := &Task{ID: uuid.Must(uuid.NewV7()), Kind: KindUpdate, RepoID: repoID, Status: StatusPending, CreatedAt: now, UpdatedAt: now}
	for _, task := range []*Task{interrupted, first, second} {
		require.NoError(t, h.repo.Create(ctx, task))
	}

	h.start()

	got := h.waitStatus(interrupted.ID, StatusAbandoned)
	require.Equal(t, reasonInterrupted, got.Error)

	h.waitStatus(first.ID, StatusCompleted)
	h.waitStatus(second.ID, StatusCompleted)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []uuid.UUID{first.ID, second.ID}, executed)
}

func TestRunner_ScheduleRunsAfterQueuedTasks(t *testing.T) {
	var mu sync.Mutex
	var events []string
	executor := &funcExecutor{kind: KindUpdate, fn: func(context.Context, *Task) error {
		mu.Lock()
		events = append(events, "task")
		mu.Unlock()
		return nil
	}}

	h := newHarness(t, Config{Workers: 3}, executor)

	repoID := uuid.New()
	h.submit(KindUpdate, repoID)
	h.submit(KindUpdate, repoID)

	done := make(chan struct{})
	require.NoError(t, h.service.Schedule(repoID, func(context.Context) {
		mu.Lock()
		events = append(events, "housekeeping")
		mu.Unlock()
		close(done)
	}))

	h.start()
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"task", "task", "housekeeping"}, events)
}

func TestRunner_StopLeavesQueuedTasksPending(t *testing.T) {
	started := make(chan uuid.UUID, 2)
	release := make(chan struct{})
	h := newHarness(t, Config{Workers: 1}, blockingExecutor(KindUpdate, started, release))
	h.start()

	repoID := uuid.New()
	running := h.submit(KindUpdate, repoID)
	queued := h.submit(KindUpdate, repoID)
	<-started

	stopped := make(chan error, 1)
	go func() { stopped <- h.runner.Stop(context.Background()) }()
	require.Eventually(t, func() bool {
		h.runner.mu.Lock()
		defer h.runner.mu.Unlock()
		return h.runner.stopping
	}, time.Second, time.Millisecond)
	close(release)
	require.NoError(t, <-stopped)

	require.Equal(t, StatusCompleted, h.get(running.ID).Status)
	require.Equal(t, StatusPending, h.get(queued.ID).Status)

	_, err := h.service.Submit(context.Background(), KindUpdate, repoID, Params{})
	require.ErrorIs(t, err, ErrRunnerStopped)
}
