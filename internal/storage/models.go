package storage

import (
	"time"

	"github.com/google/uuid"
)

// Record carries the identity of an immutable stored entity.
type Record struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRecord stamps a record with a time-ordered UUIDv7, so keys built from
// the ID sort in creation order.
func NewRecord() Record {
	return Record{
		ID:        uuid.Must(uuid.NewV7()),
		CreatedAt: time.Now(),
	}
}
