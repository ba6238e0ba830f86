package operations

import (
	"context"
	"time"

	"github.com/gitpulse/gitpulse/internal/git"
	"github.com/gitpulse/gitpulse/internal/repositories"
	"github.com/gitpulse/gitpulse/internal/stats"
	"github.com/gitpulse/gitpulse/internal/statscache"
	"github.com/google/uuid"
)

// WorkingCopy is the git surface used to maintain working copies.
type WorkingCopy interface {
	Clone(ctx context.Context, req git.CloneRequest) (*git.Snapshot, error)
	Update(ctx context.Context, req git.SyncRequest) (*git.Snapshot, error)
	Reset(ctx context.Context, req git.SyncRequest) (*git.Snapshot, error)
	Checkout(ctx context.Context, req git.SyncRequest) (*git.Snapshot, error)
	Branches(ctx context.Context, path string) ([]git.BranchInfo, error)
	Head(ctx context.Context, path, branch string) (*git.Snapshot, error)
	Remove(path string) error
}

// StatsEngine aggregates the history of a working copy.
type StatsEngine interface {
	Compute(ctx context.Context, path, branch string, constraint stats.Constraint) (*stats.Result, error)
	CountCommits(ctx context.Context, path, branch string, since time.Time) (int, error)
}

type BatchItem struct {
	URL    string
	Branch string
}

type BatchRequest struct {
	Items    []BatchItem
	Username string
	Password string
}

// BatchDetail is the outcome of one item. Error is empty on success.
type BatchDetail struct {
	URL    string
	RepoID uuid.UUID
	TaskID uuid.UUID
	Error  string
}

type BatchResult struct {
	SuccessCount int
	FailureCount int
	Details      []BatchDetail
}

type StatsQuery struct {
	RepoID     uuid.UUID
	Branch     string // Empty means the tracked branch
	Constraint stats.ConstraintSpec
}

// CommitCount is the number of commits on Branch since From.
type CommitCount struct {
	RepoID uuid.UUID
	Branch string
	From   string
	Count  int
}

// CacheView is a cache entry with its staleness against the repository.
type CacheView struct {
	statscache.Entry

	// Stale is set when the repository was synced after the entry was
	// computed.
	Stale bool
}

func isStale(entry statscache.Entry, repo *repositories.Repository) bool {
	if repo == nil || repo.LastSyncedAt == nil {
		return false
	}

	return entry.CreatedAt.Before(*repo.LastSyncedAt)
}

func credentialsOf(repo *repositories.Repository) *git.Credentials {
	if !repo.HasCredentials() {
		return nil
	}

	return &git.Credentials{
		Username: repo.Credentials.Username,
		Password: repo.Credentials.Password,
	}
}

func syncRequest(repo *repositories.Repository, branch string) git.SyncRequest {
	return git.SyncRequest{
		Path:   repo.WorkingCopyPath,
		URL:    repo.URL,
		Branch: branch,
		Auth:   credentialsOf(repo),
	}
}

func markSynced(snapshot *git.Snapshot, at time.Time) func(*repositories.Repository) error {
	return func(r *repositories.Repository) error {
		r.MarkSynced(snapshot.Branch, snapshot.Head, at)
		return nil
	}
}
