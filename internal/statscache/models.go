package statscache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gitpulse/gitpulse/internal/stats"
	"github.com/gitpulse/gitpulse/pkg/badgerfx"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
)

const (
	prefix = "cache:"

	prefixByKey  = prefix + "key:"
	prefixData   = prefix + "data:"
	prefixByRepo = prefix + "repo:"
)

type entryModel struct {
	ID           string               `json:"id"`
	RepoID       uuid.UUID            `json:"repo_id"`
	Branch       string               `json:"branch"`
	Constraint   stats.ConstraintSpec `json:"constraint"`
	CanonicalKey string               `json:"canonical_key"`
	CommitHash   string               `json:"commit_hash"`
	SizeBytes    int                  `json:"size_bytes"`
	HitCount     int                  `json:"hit_count"`
	LastHitAt    *time.Time           `json:"last_hit_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

var _ badgerfx.Entity = (*entryModel)(nil)

func keyByID(id string) string {
	return prefixByKey + id
}

func keyData(id string) string {
	return prefixData + id
}

func prefixForRepo(repoID uuid.UUID) string {
	return prefixByRepo + repoID.String() + ":"
}

// StorageKey implements badgerfx.Entity.
func (m *entryModel) StorageKey() string {
	return keyByID(m.ID)
}

// StorageIndexes implements badgerfx.Entity.
func (m *entryModel) StorageIndexes() []string {
	return []string{
		prefixForRepo(m.RepoID) + m.ID,
	}
}

// MarshalStorage implements badgerfx.Entity.
func (m *entryModel) MarshalStorage() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalStorage implements badgerfx.Entity.
func (m *entryModel) UnmarshalStorage(data []byte) error {
	return json.Unmarshal(data, m)
}

func newEntryModel(entry *Entry) *entryModel {
	return &entryModel{
		ID:           entry.ID,
		RepoID:       entry.Key.RepoID,
		Branch:       entry.Key.Branch,
		Constraint:   stats.SpecOf(entry.Key.Constraint),
		CanonicalKey: entry.CanonicalKey,
		CommitHash:   entry.CommitHash,
		SizeBytes:    entry.SizeBytes,
		HitCount:     entry.HitCount,
		LastHitAt:    entry.LastHitAt,
		CreatedAt:    entry.CreatedAt,
	}
}

func newEntry(model *entryModel) (*Entry, error) {
	constraint, err := model.Constraint.Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored constraint: %w", err)
	}

	return &Entry{
		ID: model.ID,
		Key: Key{
			RepoID:     model.RepoID,
			Branch:     model.Branch,
			Constraint: constraint,
		},
		CanonicalKey: model.CanonicalKey,
		CommitHash:   model.CommitHash,
		CreatedAt:    model.CreatedAt,
		SizeBytes:    model.SizeBytes,
		HitCount:     model.HitCount,
		LastHitAt:    model.LastHitAt,
	}, nil
}

func encodeResult(result *stats.Result) ([]byte, error) {
	var buf bytes.Buffer

	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(result); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress result: %w", err)
	}

	return buf.Bytes(), nil
}

func decodeResult(data []byte) (*stats.Result, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open compressed result: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress result: %w", err)
	}

	result := new(stats.Result)
	if unmarshalErr := json.Unmarshal(raw, result); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to decode result: %w", unmarshalErr)
	}

	return result, nil
}
