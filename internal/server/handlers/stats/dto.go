package stats

import (
	"time"

	"github.com/gitpulse/gitpulse/internal/operations"
	"github.com/gitpulse/gitpulse/internal/stats"
	"github.com/gitpulse/gitpulse/internal/statscache"
	"github.com/google/uuid"
)

type CalculateRequest struct {
	RepoID     string               `json:"repo_id"    validate:"required,uuid"`
	Branch     string               `json:"branch"`
	Constraint stats.ConstraintSpec `json:"constraint"`
}

// ResultQuery is the flattened query form of a stats lookup.
type ResultQuery struct {
	RepoID         string `query:"repo_id"         validate:"required,uuid"`
	Branch         string `query:"branch"`
	ConstraintType string `query:"constraint_type" validate:"required,oneof=commit_limit date_range"`
	Limit          int    `query:"limit"`
	From           string `query:"from"`
	To             string `query:"to"`
}

func (q *ResultQuery) spec() stats.ConstraintSpec {
	return stats.ConstraintSpec{
		Type:  stats.ConstraintType(q.ConstraintType),
		Limit: q.Limit,
		From:  q.From,
		To:    q.To,
	}
}

type CommitCountQuery struct {
	RepoID string `query:"repo_id" validate:"required,uuid"`
	Branch string `query:"branch"`
	From   string `query:"from"    validate:"omitempty,datetime=2006-01-02"`
}

type CachesQuery struct {
	RepoID string `query:"repo_id" validate:"omitempty,uuid"`
	Limit  int    `query:"limit"   validate:"omitempty,min=1"`
}

type ResultResponse struct {
	Statistics *stats.Result `json:"statistics"`
	CacheHit   bool          `json:"cache_hit"`
	CachedAt   time.Time     `json:"cached_at"`
	CommitHash string        `json:"commit_hash"`
}

type CommitCountResponse struct {
	RepoID      uuid.UUID `json:"repo_id"`
	Branch      string    `json:"branch"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to"`
	CommitCount int       `json:"commit_count"`
}

type CacheResponse struct {
	ID           string               `json:"id"`
	RepoID       uuid.UUID            `json:"repo_id"`
	Branch       string               `json:"branch"`
	Constraint   stats.ConstraintSpec `json:"constraint"`
	CanonicalKey string               `json:"canonical_key"`
	CommitHash   string               `json:"commit_hash"`
	CreatedAt    time.Time            `json:"created_at"`
	SizeBytes    int                  `json:"size_bytes"`
	HitCount     int                  `json:"hit_count"`
	LastHitAt    *time.Time           `json:"last_hit_at,omitempty"`
	Stale        bool                 `json:"stale"`
}

type CachesResponse struct {
	Caches []CacheResponse `json:"caches"`
	Total  int             `json:"total"`
}

type ClearResponse struct {
	Deleted int `json:"deleted"`
}

func newResultResponse(lookup *statscache.Lookup) ResultResponse {
	return ResultResponse{
		Statistics: lookup.Result,
		CacheHit:   lookup.Hit,
		CachedAt:   lookup.Entry.CreatedAt,
		CommitHash: lookup.Entry.CommitHash,
	}
}

func newCommitCountResponse(count *operations.CommitCount) CommitCountResponse {
	return CommitCountResponse{
		RepoID:      count.RepoID,
		Branch:      count.Branch,
		From:        count.From,
		To:          "HEAD",
		CommitCount: count.Count,
	}
}

func newCacheResponse(view operations.CacheView, _ int) CacheResponse {
	return CacheResponse{
		ID:           view.ID,
		RepoID:       view.Key.RepoID,
		Branch:       view.Key.Branch,
		Constraint:   stats.SpecOf(view.Key.Constraint),
		CanonicalKey: view.CanonicalKey,
		CommitHash:   view.CommitHash,
		CreatedAt:    view.CreatedAt,
		SizeBytes:    view.SizeBytes,
		HitCount:     view.HitCount,
		LastHitAt:    view.LastHitAt,
		Stale:        view.Stale,
	}
}
