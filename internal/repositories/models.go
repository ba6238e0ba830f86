package repositories

import (
	"encoding/json"
	"time"

	"github.com/gitpulse/gitpulse/internal/giturl"
	"github.com/gitpulse/gitpulse/internal/storage"
	"github.com/gitpulse/gitpulse/pkg/badgerfx"
	"github.com/google/uuid"
)

const (
	prefix = "repository:"

	prefixByID     = prefix + "id:"
	prefixByURL    = prefix + "url:"
	prefixByStatus = prefix + "status:"
)

type repositoryModel struct {
	storage.Record

	URL             string `json:"url"`
	Name            string `json:"name"`
	TrackedBranch   string `json:"tracked_branch"`
	WorkingCopyPath string `json:"working_copy_path"`

	Status    Status `json:"status"`
	LastError string `json:"last_error"`

	Credentials *Credentials `json:"credentials,omitempty"`

	LastCommitHash string     `json:"last_commit_hash"`
	LastSyncedAt   *time.Time `json:"last_synced_at"`
}

var _ badgerfx.Entity = (*repositoryModel)(nil)

func keyByID(id uuid.UUID) string {
	return prefixByID + id.String()
}

func keyByURL(url string) string {
	return prefixByURL + giturl.Normalise(url)
}

func prefixForStatus(status Status) string {
	return prefixByStatus + string(status) + ":"
}

// StorageKey implements badgerfx.Entity.
func (m *repositoryModel) StorageKey() string {
	return keyByID(m.ID)
}

// StorageIndexes implements badgerfx.Entity.
func (m *repositoryModel) StorageIndexes() []string {
	return []string{
		keyByURL(m.URL),
		prefixForStatus(m.Status) + m.ID.String(),
	}
}

// MarshalStorage implements badgerfx.Entity.
func (m *repositoryModel) MarshalStorage() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalStorage implements badgerfx.Entity.
func (m *repositoryModel) UnmarshalStorage(data []byte) error {
	return json.Unmarshal(data, m)
}

func newRepositoryModel(repo *Repository) *repositoryModel {
	return &repositoryModel{
		Record: storage.NewRecord(repo.ID, repo.CreatedAt, repo.UpdatedAt),
		URL:             repo.URL,
		Name:            repo.Name,
		TrackedBranch:   repo.TrackedBranch,
		WorkingCopyPath: repo.WorkingCopyPath,
		Status:          repo.Status,
		LastError:       repo.LastError,
		Credentials:     repo.Credentials,
		LastCommitHash:  repo.LastCommitHash,
		LastSyncedAt:    repo.LastSyncedAt,
	}
}

func newRepository(model *repositoryModel) *Repository {
	if model == nil {
		return nil
	}

	return &Repository{
		ID:              model.ID,
		URL:             model.URL,
		Name:            model.Name,
		TrackedBranch:   model.TrackedBranch,
		WorkingCopyPath: model.WorkingCopyPath,
		Status:          model.Status,
		LastError:       model.LastError,
		Credentials:     model.Credentials,
		LastCommitHash:  model.LastCommitHash,
		LastSyncedAt:    model.LastSyncedAt,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
