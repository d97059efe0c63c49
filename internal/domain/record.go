package domain

import (
	"time"

	"github.com/google/uuid"
)

// Record is an engagement record (POV or TRR) owned by a consultant.
// Revision is a monotonically increasing counter used for optimistic
// concurrency control: every successful mutation increments it by exactly
// one, and callers must present the revision they read.
type Record struct {
	ID          uuid.UUID
	Type        RecordType
	OwnerID     uuid.UUID
	Visibility  Visibility
	Title       string
	Payload     map[string]any
	Annotations []Annotation
	Revision    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Annotation is a comment-level note attached to a record. Managers may
// annotate records they can read even when full-field writes are denied.
type Annotation struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordPatch describes a full-field mutation against a record.
// ExpectedRevision must match the stored revision or the mutation is
// rejected with a ConflictError.
type RecordPatch struct {
	Title            *string
	Visibility       *Visibility
	Payload          map[string]any
	ExpectedRevision int64
}

// IsEmpty reports whether the patch changes nothing.
func (p RecordPatch) IsEmpty() bool {
	return p.Title == nil && p.Visibility == nil && len(p.Payload) == 0
}
