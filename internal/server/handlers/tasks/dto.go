package tasks

import (
	"time"

	"github.com/gitpulse/gitpulse/internal/stats"
	"github.com/gitpulse/gitpulse/internal/tasks"
	"github.com/google/uuid"
)

// ListQuery filters the task list.
type ListQuery struct {
	Status string `query:"status"  validate:"omitempty,oneof=pending running completed failed abandoned"`
	RepoID string `query:"repo_id" validate:"omitempty,uuid"`
	Limit  int    `query:"limit"   validate:"omitempty,min=1,max=1000"`
}

type ParamsResponse struct {
	Branch     string                `json:"branch,omitempty"`
	Constraint *stats.ConstraintSpec `json:"constraint,omitempty"`
}

type TaskResponse struct {
	ID     uuid.UUID      `json:"id"`
	Kind   tasks.Kind     `json:"kind"`
	RepoID uuid.UUID      `json:"repo_id"`
	Params ParamsResponse `json:"params"`

	Status    tasks.Status    `json:"status"`
	ErrorKind tasks.ErrorKind `json:"error_kind,omitempty"`
	Error     string          `json:"error,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DurationMS *int64     `json:"duration_ms,omitempty"`
}

type ListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

type ClearResponse struct {
	Deleted int `json:"deleted"`
}

// NewTaskResponse renders a task for the API.
func NewTaskResponse(task *tasks.Task) TaskResponse {
	var duration *int64
	if d := task.Duration(); d != nil {
		ms := d.Milliseconds()
		duration = &ms
	}

	return TaskResponse{
		ID:     task.ID,
		Kind:   task.Kind,
		RepoID: task.RepoID,
		Params: ParamsResponse{
			Branch:     task.Params.Branch,
			Constraint: task.Params.Constraint,
		},
		Status:     task.Status,
		ErrorKind:  task.ErrorKind,
		Error:      task.Error,
		CreatedAt:  task.CreatedAt,
		StartedAt:  task.StartedAt,
		FinishedAt: task.FinishedAt,
		UpdatedAt:  task.UpdatedAt,
		DurationMS: duration,
	}
}
