package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowEventType identifies the record lifecycle transition that produced
// a workflow event.
type WorkflowEventType string

const (
	WorkflowEventRecordCreated WorkflowEventType = "RECORD_CREATED"
	WorkflowEventRecordUpdated WorkflowEventType = "RECORD_UPDATED"
)

func (t WorkflowEventType) String() string { return string(t) }

func (t WorkflowEventType) IsValid() bool {
	switch t {
	case WorkflowEventRecordCreated, WorkflowEventRecordUpdated:
		return true
	}
	return false
}

// WorkflowEvent notifies the enrichment orchestrator that a record changed.
// It carries a snapshot of the fields the orchestrator hashes, so enrichment
// never re-reads the record and races a later mutation. Delivery is
// at-least-once in-process; the input hash makes duplicates harmless.
type WorkflowEvent struct {
	Type       WorkflowEventType
	RecordID   uuid.UUID
	RecordType RecordType
	OwnerID    uuid.UUID
	Title      string
	Payload    map[string]any
	OccurredAt time.Time
}
