package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/containerd/errdefs"
	"github.com/gitpulse/gitpulse/internal/stats"
	"github.com/google/uuid"
)

type Kind string

const (
	KindClone        Kind = "clone"
	KindUpdate       Kind = "update"
	KindReset        Kind = "reset"
	KindSwitchBranch Kind = "switch_branch"
	KindComputeStats Kind = "compute_stats"
)

type Status string

const (
	StatusPending   Status = "pending"   // Queued on its repository lane
	StatusRunning   Status = "running"   // Picked up by a worker
	StatusCompleted Status = "completed" // Finished successfully
	StatusFailed    Status = "failed"    // Finished with an error
	StatusAbandoned Status = "abandoned" // Running when cleared or when the process stopped
)

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusAbandoned
}

type ErrorKind string

const (
	ErrorKindValidation   ErrorKind = "validation"
	ErrorKindNotFound     ErrorKind = "not_found"
	ErrorKindConflict     ErrorKind = "conflict"
	ErrorKindExternalTool ErrorKind = "external_tool"
	ErrorKindTimeout      ErrorKind = "timeout"
	ErrorKindInternal     ErrorKind = "internal"
)

// ClassifyError maps an error onto the failure taxonomy recorded on tasks.
func ClassifyError(err error) ErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errdefs.IsDeadlineExceeded(err):
		return ErrorKindTimeout
	case errdefs.IsInvalidArgument(err):
		return ErrorKindValidation
	case errdefs.IsNotFound(err):
		return ErrorKindNotFound
	case errdefs.IsConflict(err), errdefs.IsAlreadyExists(err), errdefs.IsFailedPrecondition(err),
		errdefs.IsAborted(err):
		return ErrorKindConflict
	case errdefs.IsUnavailable(err):
		return ErrorKindExternalTool
	default:
		return ErrorKindInternal
	}
}

// Params are the kind-specific inputs of a task.
type Params struct {
	Branch     string                `json:"branch,omitempty"`
	Constraint *stats.ConstraintSpec `json:"constraint,omitempty"`
}

type Task struct {
	ID     uuid.UUID
	Kind   Kind
	RepoID uuid.UUID
	Params Params

	Status    Status
	ErrorKind ErrorKind
	Error     string

	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
	UpdatedAt  time.Time
}

// Duration is the run time of a finished task.
func (t *Task) Duration() *time.Duration {
	if t.StartedAt == nil || t.FinishedAt == nil {
		return nil
	}

	d := t.FinishedAt.Sub(*t.StartedAt)
	return &d
}

func (t *Task) MarkRunning(at time.Time) {
	t.Status = StatusRunning
	t.StartedAt = &at
}

func (t *Task) MarkCompleted(at time.Time) {
	t.Status = StatusCompleted
	t.FinishedAt = &at
}

func (t *Task) MarkFailed(at time.Time, kind ErrorKind, err error) {
	t.Status = StatusFailed
	t.ErrorKind = kind
	t.Error = err.Error()
	t.FinishedAt = &at
}

func (t *Task) MarkAbandoned(at time.Time, reason string) {
	t.Status = StatusAbandoned
	t.Error = reason
	t.FinishedAt = &at
}

type Filter struct {
	Status Status
	RepoID uuid.UUID
}

func (f Filter) match(t *Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.RepoID != uuid.Nil && t.RepoID != f.RepoID {
		return false
	}

	return true
}
