package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Suggestion is an asynchronously computed AI-derived annotation attached to
// a record. Identity is stable per (RecordID, Kind): recomputation for the
// same record and kind supersedes the existing row in place, it never
// duplicates it. Suggestions follow the record's lifecycle and are deleted
// with it.
type Suggestion struct {
	ID           uuid.UUID
	RecordID     uuid.UUID
	Kind         SuggestionKind
	Status       SuggestionStatus
	InputHash    string
	Payload      map[string]any
	ErrorMessage *string
	GeneratedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsReady reports whether the suggestion may be surfaced to a user.
func (s *Suggestion) IsReady() bool {
	return s.Status == SuggestionStatusReady
}

// SuggestionInputHash derives the idempotency key for a computation from the
// record payload and the suggestion kind. Identical inputs always hash
// identically, so at-least-once event delivery cannot produce duplicate work.
func SuggestionInputHash(kind SuggestionKind, title string, payload map[string]any) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(title))
	h.Write([]byte{0})
	// json.Marshal sorts map keys, so the hash is deterministic.
	raw, _ := json.Marshal(payload)
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil))
}

// SuggestionQueueStats holds aggregate suggestion counts by status.
type SuggestionQueueStats struct {
	Pending int
	Ready   int
	Failed  int
	Total   int
}
