package repos

import (
	"time"

	"github.com/gitpulse/gitpulse/internal/git"
	"github.com/gitpulse/gitpulse/internal/operations"
	"github.com/gitpulse/gitpulse/internal/repositories"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type ListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending cloning ready error"`
}

type BatchItemRequest struct {
	URL    string `json:"url"`
	Branch string `json:"branch"`
}

// BatchRequest adds repositories sharing the same optional credentials.
type BatchRequest struct {
	Repos    []BatchItemRequest `json:"repos"    validate:"required,min=1,dive"`
	Username string             `json:"username"`
	Password string             `json:"password"`
}

type SwitchBranchRequest struct {
	Branch string `json:"branch" validate:"required"`
}

type RepositoryResponse struct {
	ID              uuid.UUID           `json:"id"`
	URL             string              `json:"url"`
	Name            string              `json:"name"`
	TrackedBranch   string              `json:"tracked_branch"`
	WorkingCopyPath string              `json:"working_copy_path"`
	Status          repositories.Status `json:"status"`
	LastError       string              `json:"last_error,omitempty"`
	HasCredentials  bool                `json:"has_credentials"`
	LastCommitHash  string              `json:"last_commit_hash,omitempty"`
	LastSyncedAt    *time.Time          `json:"last_synced_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type ListResponse struct {
	Repositories []RepositoryResponse `json:"repositories"`
	Total        int                  `json:"total"`
}

type BatchDetailResponse struct {
	URL    string     `json:"url"`
	RepoID *uuid.UUID `json:"repo_id,omitempty"`
	TaskID *uuid.UUID `json:"task_id,omitempty"`
	Error  string     `json:"error,omitempty"`
}

type BatchResponse struct {
	SuccessCount int                   `json:"success_count"`
	FailureCount int                   `json:"failure_count"`
	Details      []BatchDetailResponse `json:"details"`
}

type BranchesResponse struct {
	Branches []string `json:"branches"`
	Count    int      `json:"count"`
}

func newRepositoryResponse(repo *repositories.Repository) RepositoryResponse {
	return RepositoryResponse{
		ID:              repo.ID,
		URL:             repo.URL,
		Name:            repo.Name,
		TrackedBranch:   repo.TrackedBranch,
		WorkingCopyPath: repo.WorkingCopyPath,
		Status:          repo.Status,
		LastError:       repo.LastError,
		HasCredentials:  repo.HasCredentials(),
		LastCommitHash:  repo.LastCommitHash,
		LastSyncedAt:    repo.LastSyncedAt,
		CreatedAt:       repo.CreatedAt,
		UpdatedAt:       repo.UpdatedAt,
	}
}

func newBatchResponse(result *operations.BatchResult) BatchResponse {
	return BatchResponse{
		SuccessCount: result.SuccessCount,
		FailureCount: result.FailureCount,
		Details: lo.Map(result.Details, func(d operations.BatchDetail, _ int) BatchDetailResponse {
			detail := BatchDetailResponse{URL: d.URL, Error: d.Error}
			if d.RepoID != uuid.Nil {
				detail.RepoID = lo.ToPtr(d.RepoID)
			}
			if d.TaskID != uuid.Nil {
				detail.TaskID = lo.ToPtr(d.TaskID)
			}
			return detail
		}),
	}
}

func newBranchesResponse(branches []git.BranchInfo) BranchesResponse {
	return BranchesResponse{
		Branches: lo.Map(branches, func(b git.BranchInfo, _ int) string { return b.Name }),
		Count:    len(branches),
	}
}
