package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gitpulse/gitpulse/internal/git"
	"github.com/gitpulse/gitpulse/internal/operations"
	"github.com/gitpulse/gitpulse/internal/repositories"
	"github.com/gitpulse/gitpulse/internal/server/envelope"
	reposapi "github.com/gitpulse/gitpulse/internal/server/handlers/repos"
	statsapi "github.com/gitpulse/gitpulse/internal/server/handlers/stats"
	tasksapi "github.com/gitpulse/gitpulse/internal/server/handlers/tasks"
	"github.com/gitpulse/gitpulse/internal/stats"
	"github.com/gitpulse/gitpulse/internal/statscache"
	"github.com/gitpulse/gitpulse/internal/tasks"
	"github.com/gitpulse/gitpulse/pkg/badgerfx"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testHead = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

type stubWorkingCopy struct{}

func (stubWorkingCopy) Clone(_ context.Context, req git.CloneRequest) (*git.Snapshot, error) {
	branch := req.Branch
	if branch == "" {
		branch = "main"
	}
	return &git.Snapshot{Branch: branch, Head: testHead}, nil
}

func (stubWorkingCopy) Update(_ context.Context, req git.SyncRequest) (*git.Snapshot, error) {
	return &git.Snapshot{Branch: req.Branch, Head: testHead}, nil
}

func (stubWorkingCopy) Reset(_ context.Context, req git.SyncRequest) (*git.Snapshot, error) {
	return &git.Snapshot{Branch: req.Branch, Head: testHead}, nil
}

func (stubWorkingCopy) Checkout(_ context.Context, req git.SyncRequest) (*git.Snapshot, error) {
	if req.Branch != "main" && req.Branch != "develop" {
		return nil, fmt.Errorf("%w: %s", git.ErrBranchNotFound, req.Branch)
	}
	return &git.Snapshot{Branch: req.Branch, Head: testHead}, nil
}

func (stubWorkingCopy) Branches(context.Context, string) ([]git.BranchInfo, error) {
	return []git.BranchInfo{{Name: "develop"}, {Name: "main", IsHead: true}}, nil
}

func (stubWorkingCopy) Head(_ context.Context, _ string, branch string) (*git.Snapshot, error) {
	return &git.Snapshot{Branch: branch, Head: testHead}, nil
}

func (stubWorkingCopy) Remove(string) error {
	return nil
}

type stubEngine struct{}

func (stubEngine) Compute(context.Context, string, string, stats.Constraint) (*stats.Result, error) {
	return &stats.Result{
		Summary: stats.Summary{TotalCommits: 3, TotalContributors: 2},
		ByContributor: []stats.ContributorStats{
			{Author: "Alice", Email: "alice@example.com", Commits: 2},
			{Author: "Bob", Email: "bob@example.com", Commits: 1},
		},
	}, nil
}

func (stubEngine) CountCommits(context.Context, string, string, time.Time) (int, error) {
	return 7, nil
}

type response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type api struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *api {
	t.Helper()

	db, err := badger.Open(badgerfx.Config{InMemory: true}.Build().WithLogger(nil))
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)

	cache := statscache.New(statscache.Config{MaxConcurrent: 2}, statscache.NewStore(db), logger)
	repos := repositories.NewService(
		repositories.NewStore(db),
		repositories.NewPathBuilder(repositories.Config{WorkDir: t.TempDir()}),
		logger,
	)

	executors := operations.NewExecutors(operations.ExecutorParams{
		Repositories: repos,
		WorkingCopy:  stubWorkingCopy{},
		Engine:       stubEngine{},
		Cache:        cache,
		Logger:       logger,
	})

	taskRepo := tasks.NewRepository(db)
	runner := tasks.NewRunner(tasks.RunnerParams{
		Config:    tasks.Config{Workers: 2},
		Tasks:     taskRepo,
		Executors: executors.Executors,
		Logger:    logger,
	})
	require.NoError(t, runner.Start(context.Background()))
	taskSvc := tasks.NewService(taskRepo, runner, logger)

	ops := operations.NewService(operations.ServiceParams{
		Repositories: repos,
		Tasks:        taskSvc,
		Cache:        cache,
		WorkingCopy:  stubWorkingCopy{},
		Engine:       stubEngine{},
		Logger:       logger,
	})

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = runner.Stop(ctx)
		cache.Close()
		_ = db.Close()
	})

	v := validator.New()
	app := fiber.New(fiber.Config{ErrorHandler: envelope.NewErrorHandler(logger)})
	v1 := app.Group("/api/v1")
	reposapi.NewHandler(repos, ops, v, logger).Register(v1)
	statsapi.NewHandler(ops, cache, v, logger).Register(v1)
	tasksapi.NewHandler(taskSvc, v, logger).Register(v1)

	return &api{t: t, app: app}
}

func (a *api) do(method, path string, body any) (int, response) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var out response
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&out))

	return resp.StatusCode, out
}

func (a *api) ok(method, path string, body any, data any) response {
	a.t.Helper()

	status, out := a.do(method, path, body)
	require.Equal(a.t, http.StatusOK, status, out.Message)
	require.Equal(a.t, envelope.CodeOK, out.Code)
	if data != nil {
		require.NoError(a.t, json.Unmarshal(out.Data, data))
	}

	return out
}

func (a *api) waitTask(id uuid.UUID) tasksapi.TaskResponse {
	a.t.Helper()

	var task tasksapi.TaskResponse
	require.Eventually(a.t, func() bool {
		a.ok(http.MethodGet, "/api/v1/tasks/"+id.String(), nil, &task)
		return task.Status.IsTerminal()
	}, 5*time.Second, 5*time.Millisecond)

	return task
}

func (a *api) addReady(url string) uuid.UUID {
	a.t.Helper()

	var batch reposapi.BatchResponse
	a.ok(http.MethodPost, "/api/v1/repos/batch", map[string]any{
		"repos": []map[string]string{{"url": url}},
	}, &batch)
	require.Equal(a.t, 1, batch.SuccessCount)

	detail := batch.Details[0]
	require.NotNil(a.t, detail.RepoID)
	require.NotNil(a.t, detail.TaskID)
	require.Equal(a.t, tasks.StatusCompleted, a.waitTask(*detail.TaskID).Status)

	return *detail.RepoID
}

func TestRepos_BatchIsolatesInvalidItems(t *testing.T) {
	a := newAPI(t)

	var batch reposapi.BatchResponse
	out := a.ok(http.MethodPost, "/api/v1/repos/batch", map[string]any{
		"repos": []map[string]string{
			{"url": "https://example.com/acme/widgets.git", "branch": "main"},
			{"url": "not a url"},
			{"url": ""},
		},
		"username": "ci",
		"password": "secret",
	}, &batch)

	require.Equal(t, "1 repositories added, 2 failed", out.Message)
	require.Equal(t, 1, batch.SuccessCount)
	require.Equal(t, 2, batch.FailureCount)
	require.Len(t, batch.Details, 3)
	require.NotNil(t, batch.Details[0].RepoID)
	require.Empty(t, batch.Details[0].Error)
	for _, failed := range batch.Details[1:] {
		require.Nil(t, failed.RepoID)
		require.Contains(t, failed.Error, "invalid repository url")
	}

	a.waitTask(*batch.Details[0].TaskID)

	var repo reposapi.RepositoryResponse
	a.ok(http.MethodGet, "/api/v1/repos/"+batch.Details[0].RepoID.String(), nil, &repo)
	require.Equal(t, repositories.StatusReady, repo.Status)
	require.Equal(t, "widgets", repo.Name)
	require.Equal(t, "main", repo.TrackedBranch)
	require.True(t, repo.HasCredentials)
	require.Equal(t, testHead, repo.LastCommitHash)
}

func TestRepos_Validation(t *testing.T) {
	a := newAPI(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   int
	}{
		{"empty batch", http.MethodPost, "/api/v1/repos/batch", map[string]any{"repos": []any{}}, 400, envelope.CodeValidation},
		{"unknown status", http.MethodGet, "/api/v1/repos?status=bogus", nil, 400, envelope.CodeValidation},
		{"malformed id", http.MethodGet, "/api/v1/repos/42", nil, 400, envelope.CodeValidation},
		{"unknown repository", http.MethodGet, "/api/v1/repos/" + uuid.NewString(), nil, 404, envelope.CodeNotFound},
		{"update unknown", http.MethodPost, "/api/v1/repos/" + uuid.NewString() + "/update", nil, 404, envelope.CodeNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, out := a.do(tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, status)
			require.Equal(t, tc.code, out.Code)
			require.NotEmpty(t, out.Message)
		})
	}
}

func TestRepos_BranchOperations(t *testing.T) {
	a := newAPI(t)
	id := a.addReady("https://example.com/acme/widgets.git")
	base := "/api/v1/repos/" + id.String()

	var branches reposapi.BranchesResponse
	a.ok(http.MethodGet, base+"/branches", nil, &branches)
	require.Equal(t, []string{"develop", "main"}, branches.Branches)
	require.Equal(t, 2, branches.Count)

	status, out := a.do(http.MethodPost, base+"/switch-branch", map[string]string{})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, envelope.CodeValidation, out.Code)

	var task tasksapi.TaskResponse
	out = a.ok(http.MethodPost, base+"/switch-branch", map[string]string{"branch": "develop"}, &task)
	require.Equal(t, "branch switch task submitted", out.Message)
	require.Equal(t, tasks.KindSwitchBranch, task.Kind)
	require.Equal(t, "develop", task.Params.Branch)
	require.Equal(t, tasks.StatusCompleted, a.waitTask(task.ID).Status)

	a.ok(http.MethodPost, base+"/switch-branch", map[string]string{"branch": "ghost"}, &task)
	failed := a.waitTask(task.ID)
	require.Equal(t, tasks.StatusFailed, failed.Status)
	require.Equal(t, tasks.ErrorKindConflict, failed.ErrorKind)

	var repo reposapi.RepositoryResponse
	a.ok(http.MethodGet, base, nil, &repo)
	require.Equal(t, "develop", repo.TrackedBranch)

	out = a.ok(http.MethodPost, base+"/update", nil, &task)
	require.Equal(t, "update task submitted", out.Message)
	require.Equal(t, tasks.StatusCompleted, a.waitTask(task.ID).Status)

	out = a.ok(http.MethodPost, base+"/reset", nil, &task)
	require.Equal(t, "reset task submitted", out.Message)
	require.Equal(t, tasks.StatusCompleted, a.waitTask(task.ID).Status)
}

func TestRepos_DeleteCascades(t *testing.T) {
	a := newAPI(t)
	id := a.addReady("https://example.com/acme/widgets.git")

	a.ok(http.MethodGet, "/api/v1/stats/result?constraint_type=commit_limit&limit=5&repo_id="+id.String(), nil, nil)

	out := a.ok(http.MethodDelete, "/api/v1/repos/"+id.String(), nil, nil)
	require.Equal(t, "repository deleted successfully", out.Message)
	require.Equal(t, "null", string(out.Data))

	status, out := a.do(http.MethodGet, "/api/v1/repos/"+id.String(), nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, envelope.CodeNotFound, out.Code)

	var taskList tasksapi.ListResponse
	a.ok(http.MethodGet, "/api/v1/tasks?repo_id="+id.String(), nil, &taskList)
	require.Zero(t, taskList.Total)

	var caches statsapi.CachesResponse
	a.ok(http.MethodGet, "/api/v1/stats/caches", nil, &caches)
	require.Zero(t, caches.Total)
}

func TestStats_ReadThroughCache(t *testing.T) {
	a := newAPI(t)
	id := a.addReady("https://example.com/acme/widgets.git")
	path := "/api/v1/stats/result?constraint_type=commit_limit&limit=10&repo_id=" + id.String()

	var first statsapi.ResultResponse
	a.ok(http.MethodGet, path, nil, &first)
	require.False(t, first.CacheHit)
	require.Equal(t, 3, first.Statistics.Summary.TotalCommits)
	require.Equal(t, 2, first.Statistics.Summary.TotalContributors)
	require.Equal(t, testHead, first.CommitHash)

	var second statsapi.ResultResponse
	a.ok(http.MethodGet, path, nil, &second)
	require.True(t, second.CacheHit)
	require.Equal(t, first.Statistics, second.Statistics)
	require.True(t, first.CachedAt.Equal(second.CachedAt))

	var caches statsapi.CachesResponse
	a.ok(http.MethodGet, "/api/v1/stats/caches?repo_id="+id.String(), nil, &caches)
	require.Equal(t, 1, caches.Total)
	entry := caches.Caches[0]
	require.Equal(t, "main", entry.Branch)
	require.Equal(t, stats.ConstraintSpec{Type: stats.ConstraintCommitLimit, Limit: 10}, entry.Constraint)
	require.Equal(t, 1, entry.HitCount)
	require.False(t, entry.Stale)

	var cleared statsapi.ClearResponse
	a.ok(http.MethodDelete, "/api/v1/stats/caches/clear", nil, &cleared)
	require.Equal(t, 1, cleared.Deleted)

	status, out := a.do(http.MethodDelete, "/api/v1/stats/caches/"+entry.ID, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, envelope.CodeNotFound, out.Code)
}

func TestStats_Validation(t *testing.T) {
	a := newAPI(t)
	id := a.addReady("https://example.com/acme/widgets.git")

	paths := []string{
		"/api/v1/stats/result?constraint_type=commit_limit&limit=10",
		"/api/v1/stats/result?constraint_type=weekly&repo_id=" + id.String(),
		"/api/v1/stats/result?constraint_type=commit_limit&limit=0&repo_id=" + id.String(),
		"/api/v1/stats/result?constraint_type=date_range&from=2024-06-01&to=2024-01-01&repo_id=" + id.String(),
		"/api/v1/stats/commit-count?from=yesterday&repo_id=" + id.String(),
	}
	for _, path := range paths {
		status, out := a.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusBadRequest, status, path)
		require.Equal(t, envelope.CodeValidation, out.Code, path)
	}

	status, out := a.do(http.MethodPost, "/api/v1/stats/calculate", map[string]any{
		"repo_id":    id.String(),
		"constraint": map[string]any{"type": "commit_limit", "limit": -1},
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, envelope.CodeValidation, out.Code)
}

func TestStats_CalculateAndCount(t *testing.T) {
	a := newAPI(t)
	id := a.addReady("https://example.com/acme/widgets.git")

	var task tasksapi.TaskResponse
	out := a.ok(http.MethodPost, "/api/v1/stats/calculate", map[string]any{
		"repo_id": id.String(),
		"constraint": map[string]any{
			"type": "date_range",
			"from": "2024-01-01",
			"to":   "2024-06-01",
			"limit": 99,
		},
	}, &task)
	require.Equal(t, "statistics task submitted", out.Message)
	require.Equal(t, tasks.KindComputeStats, task.Kind)
	require.Equal(t, &stats.ConstraintSpec{
		Type: stats.ConstraintDateRange,
		From: "2024-01-01",
		To:   "2024-06-01",
	}, task.Params.Constraint)

	done := a.waitTask(task.ID)
	require.Equal(t, tasks.StatusCompleted, done.Status)
	require.NotNil(t, done.DurationMS)

	var result statsapi.ResultResponse
	a.ok(http.MethodGet,
		"/api/v1/stats/result?constraint_type=date_range&from=2024-01-01&to=2024-06-01&repo_id="+id.String(),
		nil, &result)
	require.True(t, result.CacheHit)

	var count statsapi.CommitCountResponse
	a.ok(http.MethodGet, "/api/v1/stats/commit-count?from=2024-01-01&repo_id="+id.String(), nil, &count)
	require.Equal(t, 7, count.CommitCount)
	require.Equal(t, "main", count.Branch)
	require.Equal(t, "2024-01-01", count.From)
	require.Equal(t, "HEAD", count.To)
}

func TestTasks_ListAndClear(t *testing.T) {
	a := newAPI(t)
	id := a.addReady("https://example.com/acme/widgets.git")

	var task tasksapi.TaskResponse
	a.ok(http.MethodPost, "/api/v1/repos/"+id.String()+"/update", nil, &task)
	a.waitTask(task.ID)

	var list tasksapi.ListResponse
	a.ok(http.MethodGet, "/api/v1/tasks?status=completed&repo_id="+id.String(), nil, &list)
	require.Equal(t, 2, list.Total)
	require.Equal(t, task.ID, list.Tasks[0].ID)
	require.Equal(t, tasks.KindClone, list.Tasks[1].Kind)

	a.ok(http.MethodGet, "/api/v1/tasks?limit=1", nil, &list)
	require.Equal(t, 2, list.Total)
	require.Len(t, list.Tasks, 1)
	require.Equal(t, task.ID, list.Tasks[0].ID)

	status, out := a.do(http.MethodGet, "/api/v1/tasks?status=done", nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, envelope.CodeValidation, out.Code)

	status, out = a.do(http.MethodGet, "/api/v1/tasks/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, envelope.CodeNotFound, out.Code)

	var cleared tasksapi.ClearResponse
	a.ok(http.MethodDelete, "/api/v1/tasks/clear-completed", nil, &cleared)
	require.Equal(t, 2, cleared.Deleted)

	a.ok(http.MethodDelete, "/api/v1/tasks/clear", nil, nil)
	a.ok(http.MethodGet, "/api/v1/tasks", nil, &list)
	require.Zero(t, list.Total)
}
