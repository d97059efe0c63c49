package domain

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleUser    UserRole = "USER"
	UserRoleManager UserRole = "MANAGER"
	UserRoleAdmin   UserRole = "ADMIN"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleManager, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}

// RecordType identifies the kind of engagement record.
type RecordType string

const (
	RecordTypePOV RecordType = "POV"
	RecordTypeTRR RecordType = "TRR"
)

func (t RecordType) String() string { return string(t) }

func (t RecordType) IsValid() bool {
	switch t {
	case RecordTypePOV, RecordTypeTRR:
		return true
	}
	return false
}

// Visibility controls who may see a record beyond its owner.
type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityTeam    Visibility = "TEAM"
	VisibilityOrg     Visibility = "ORG"
)

func (v Visibility) String() string { return string(v) }

func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPrivate, VisibilityTeam, VisibilityOrg:
		return true
	}
	return false
}

// SuggestionKind identifies the flavor of an AI-derived suggestion.
type SuggestionKind string

const (
	SuggestionKindContent        SuggestionKind = "CONTENT"
	SuggestionKindRisk           SuggestionKind = "RISK"
	SuggestionKindRecommendation SuggestionKind = "RECOMMENDATION"
	SuggestionKindAnomaly        SuggestionKind = "ANOMALY"
	SuggestionKindQualityScore   SuggestionKind = "QUALITY_SCORE"
)

func (k SuggestionKind) String() string { return string(k) }

func (k SuggestionKind) IsValid() bool {
	switch k {
	case SuggestionKindContent, SuggestionKindRisk, SuggestionKindRecommendation,
		SuggestionKindAnomaly, SuggestionKindQualityScore:
		return true
	}
	return false
}

// AllSuggestionKinds returns every valid suggestion kind.
func AllSuggestionKinds() []SuggestionKind {
	return []SuggestionKind{
		SuggestionKindContent,
		SuggestionKindRisk,
		SuggestionKindRecommendation,
		SuggestionKindAnomaly,
		SuggestionKindQualityScore,
	}
}

// SuggestionStatus represents the processing state of a suggestion.
type SuggestionStatus string

const (
	SuggestionStatusPending SuggestionStatus = "PENDING"
	SuggestionStatusReady   SuggestionStatus = "READY"
	SuggestionStatusFailed  SuggestionStatus = "FAILED"
)

func (s SuggestionStatus) String() string { return string(s) }

func (s SuggestionStatus) IsValid() bool {
	switch s {
	case SuggestionStatusPending, SuggestionStatusReady, SuggestionStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the status is final. Terminal suggestions are
// never retried automatically; only a fresh workflow event supersedes them.
func (s SuggestionStatus) IsTerminal() bool {
	return s == SuggestionStatusReady || s == SuggestionStatusFailed
}

// EntityType identifies the kind of domain entity (used in audit logs).
type EntityType string

const (
	EntityTypeRecord     EntityType = "RECORD"
	EntityTypeSuggestion EntityType = "SUGGESTION"
	EntityTypeUser       EntityType = "USER"
)

func (t EntityType) String() string { return string(t) }

func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeRecord, EntityTypeSuggestion, EntityTypeUser:
		return true
	}
	return false
}

// AuditAction identifies the mutation recorded in an audit entry.
type AuditAction string

const (
	AuditActionCreate     AuditAction = "CREATE"
	AuditActionUpdate     AuditAction = "UPDATE"
	AuditActionAnnotate   AuditAction = "ANNOTATE"
	AuditActionDelete     AuditAction = "DELETE"
	AuditActionRoleChange AuditAction = "ROLE_CHANGE"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionAnnotate,
		AuditActionDelete, AuditActionRoleChange:
		return true
	}
	return false
}
