package statscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/gitpulse/gitpulse/internal/stats"
	"github.com/google/uuid"
)

// Key identifies one memoized computation.
type Key struct {
	RepoID     uuid.UUID
	Branch     string
	Constraint stats.Constraint
}

// Canonical is the string form of the key. Equal keys always produce the
// same string.
func (k Key) Canonical() string {
	return "repo=" + k.RepoID.String() + "|branch=" + k.Branch + "|" + k.Constraint.Canonical()
}

// ID is the hex SHA-256 of the canonical form.
func (k Key) ID() string {
	sum := sha256.Sum256([]byte(k.Canonical()))
	return hex.EncodeToString(sum[:])
}

type Entry struct {
	ID           string
	Key          Key
	CanonicalKey string
	CommitHash   string
	CreatedAt    time.Time
	SizeBytes    int
	HitCount     int
	LastHitAt    *time.Time
}

// Lookup is the outcome of GetOrCompute.
type Lookup struct {
	Result *stats.Result
	Entry  Entry
	Hit    bool
}

type Filter struct {
	RepoID uuid.UUID
}

// ComputeFunc produces the result to memoize together with the head commit
// it was computed at.
type ComputeFunc func(ctx context.Context) (*stats.Result, string, error)
