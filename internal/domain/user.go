package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated application user.
// ManagerID links a consultant to their direct manager; TeamID groups
// consultants for TEAM-visibility checks. Role is mutable only through an
// admin-privileged operation.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Role      UserRole
	ManagerID *uuid.UUID
	TeamID    *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsManagerOf reports whether u is the direct manager of other.
func (u *User) IsManagerOf(other *User) bool {
	if other == nil || other.ManagerID == nil {
		return false
	}
	return *other.ManagerID == u.ID
}

// UserPreferences holds per-user background AI preferences.
// AIEnrichmentEnabled gates the enrichment orchestrator: when false,
// workflow events for this user's records are dropped before any work begins.
type UserPreferences struct {
	UserID              uuid.UUID
	AIEnrichmentEnabled bool
	UpdatedAt           time.Time
}

// DefaultUserPreferences returns UserPreferences with enrichment enabled.
func DefaultUserPreferences(userID uuid.UUID) UserPreferences {
	return UserPreferences{
		UserID:              userID,
		AIEnrichmentEnabled: true,
	}
}

// RefreshToken represents a hashed refresh token stored in the database.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsRevoked returns true if the token has been revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired returns true if the token has expired relative to now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
