package repositories

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending Status = "pending" // Added, clone not started
	StatusCloning Status = "cloning" // Clone in progress
	StatusReady   Status = "ready"   // Working copy usable
	StatusError   Status = "error"   // Last clone failed, see LastError
)

// Credentials authenticate http(s) remotes.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Credentials) IsZero() bool {
	return c == nil || (c.Username == "" && c.Password == "")
}

type RepositoryDraft struct {
	URL         string
	Branch      string // Empty means the remote default branch
	Credentials *Credentials
}

type Repository struct {
	ID              uuid.UUID
	URL             string
	Name            string
	TrackedBranch   string
	WorkingCopyPath string

	Status    Status
	LastError string

	Credentials *Credentials

	LastCommitHash string
	LastSyncedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Repository) HasCredentials() bool {
	return !r.Credentials.IsZero()
}

func (r *Repository) IsReady() bool {
	return r.Status == StatusReady
}

// MarkSynced records a successful sync of the working copy.
func (r *Repository) MarkSynced(branch, head string, at time.Time) {
	r.Status = StatusReady
	r.LastError = ""
	r.TrackedBranch = branch
	r.LastCommitHash = head
	r.LastSyncedAt = &at
}

func (r *Repository) MarkFailed(err error) {
	r.Status = StatusError
	r.LastError = err.Error()
}

type Filter struct {
	Status Status
}
