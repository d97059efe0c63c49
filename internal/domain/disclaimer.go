package domain

import (
	"time"

	"github.com/google/uuid"
)

// DisclaimerAcknowledgment records that a user accepted the AI-generated
// content policy at a specific version. Rows are created once per
// (user, policy version) pair and never mutated; a new policy version is
// acknowledged with a new row, it never updates an old one.
type DisclaimerAcknowledgment struct {
	UserID         uuid.UUID
	PolicyVersion  string
	AcknowledgedAt time.Time
}

// AuditRecord logs a mutation event on a domain entity.
type AuditRecord struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	EntityType EntityType
	EntityID   *uuid.UUID
	Action     AuditAction
	Changes    map[string]any
	CreatedAt  time.Time
}
