package tasks

import (
	"encoding/json"
	"time"

	"github.com/gitpulse/gitpulse/internal/storage"
	"github.com/gitpulse/gitpulse/pkg/badgerfx"
	"github.com/google/uuid"
)

const (
	prefix = "task:"

	prefixByID     = prefix + "id:"
	prefixByRepo   = prefix + "repo:"
	prefixByStatus = prefix + "status:"
)

type taskModel struct {
	storage.Record

	Kind   Kind      `json:"kind"`
	RepoID uuid.UUID `json:"repo_id"`
	Params Params    `json:"params"`

	Status    Status    `json:"status"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
	Error     string    `json:"error,omitempty"`

	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

var _ badgerfx.Entity = (*taskModel)(nil)

func keyByID(id uuid.UUID) string {
	return prefixByID + id.String()
}

func prefixForRepo(repoID uuid.UUID) string {
	return prefixByRepo + repoID.String() + ":"
}

func prefixForStatus(status Status) string {
	return prefixByStatus + string(status) + ":"
}

// StorageKey implements badgerfx.Entity.
func (m *taskModel) StorageKey() string {
	return keyByID(m.ID)
}

// StorageIndexes implements badgerfx.Entity.
func (m *taskModel) StorageIndexes() []string {
	return []string{
		prefixForRepo(m.RepoID) + m.ID.String(),
		prefixForStatus(m.Status) + m.ID.String(),
	}
}

// MarshalStorage implements badgerfx.Entity.
func (m *taskModel) MarshalStorage() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalStorage implements badgerfx.Entity.
func (m *taskModel) UnmarshalStorage(data []byte) error {
	return json.Unmarshal(data, m)
}

func newTaskModel(task *Task) *taskModel {
	return &taskModel{
		Record: storage.NewRecord(task.ID, task.CreatedAt, task.UpdatedAt),
		Kind:       task.Kind,
		RepoID:     task.RepoID,
		Params:     task.Params,
		Status:     task.Status,
		ErrorKind:  task.ErrorKind,
		Error:      task.Error,
		StartedAt:  task.StartedAt,
		FinishedAt: task.FinishedAt,
	}
}

func newTask(model *taskModel) *Task {
	if model == nil {
		return nil
	}

	return &Task{
		ID:         model.ID,
		Kind:       model.Kind,
		RepoID:     model.RepoID,
		Params:     model.Params,
		Status:     model.Status,
		ErrorKind:  model.ErrorKind,
		Error:      model.Error,
		CreatedAt:  model.CreatedAt,
		StartedAt:  model.StartedAt,
		FinishedAt: model.FinishedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
