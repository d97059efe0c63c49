package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestUser_IsManagerOf(t *testing.T) {
	t.Parallel()

	managerID := uuid.New()
	manager := &User{ID: managerID, Role: UserRoleManager}
	report := &User{ID: uuid.New(), Role: UserRoleUser, ManagerID: &managerID}

	if !manager.IsManagerOf(report) {
		t.Error("manager should manage their direct report")
	}
	if report.IsManagerOf(manager) {
		t.Error("report should not manage their manager")
	}

	orphan := &User{ID: uuid.New(), Role: UserRoleUser}
	if manager.IsManagerOf(orphan) {
		t.Error("user without manager link should not be managed")
	}
	if manager.IsManagerOf(nil) {
		t.Error("nil user should not be managed")
	}
}

func TestSuggestionInputHash_Deterministic(t *testing.T) {
	t.Parallel()

	payload := map[string]any{"objective": "replace legacy SIEM", "stage": "scoping"}

	a := SuggestionInputHash(SuggestionKindRisk, "ACME POV", payload)
	b := SuggestionInputHash(SuggestionKindRisk, "ACME POV", payload)
	if a != b {
		t.Error("identical inputs must hash identically")
	}

	c := SuggestionInputHash(SuggestionKindContent, "ACME POV", payload)
	if a == c {
		t.Error("different kinds must hash differently")
	}

	d := SuggestionInputHash(SuggestionKindRisk, "ACME POV", map[string]any{"objective": "other"})
	if a == d {
		t.Error("different payloads must hash differently")
	}
}

func TestRecordPatch_IsEmpty(t *testing.T) {
	t.Parallel()

	if !(RecordPatch{ExpectedRevision: 4}).IsEmpty() {
		t.Error("patch with no fields should be empty")
	}

	title := "updated"
	if (RecordPatch{Title: &title}).IsEmpty() {
		t.Error("patch with a title should not be empty")
	}
	if (RecordPatch{Payload: map[string]any{"k": "v"}}).IsEmpty() {
		t.Error("patch with payload should not be empty")
	}
}
