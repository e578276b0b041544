package domain

import (
	"time"

	"github.com/google/uuid"
)

// Record holds the identity and bookkeeping timestamps shared by every
// persisted entity. Entities embed it rather than redeclaring the columns.
type Record struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRecord returns a Record with a fresh ID and both timestamps set to now (UTC).
func NewRecord() Record {
	now := time.Now().UTC()
	return Record{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps UpdatedAt to the current time.
func (r *Record) Touch() {
	r.UpdatedAt = time.Now().UTC()
}
