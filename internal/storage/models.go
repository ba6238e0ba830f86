package storage

import (
	"time"

	"github.com/google/uuid"
)

// Record carries the identity and timestamps shared by stored models.
type Record struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewRecord(id uuid.UUID, createdAt, updatedAt time.Time) Record {
	return Record{
		ID:        id,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}
}
