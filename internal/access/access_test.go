package access

import (
	"testing"

	"github.com/google/uuid"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

func user(role domain.UserRole) domain.User {
	return domain.User{ID: uuid.New(), Role: role}
}

func record(owner domain.User, vis domain.Visibility) domain.Record {
	return domain.Record{
		ID:         uuid.New(),
		Type:       domain.RecordTypePOV,
		OwnerID:    owner.ID,
		Visibility: vis,
		Revision:   1,
	}
}

func TestDecide_AdminAllowsEverything(t *testing.T) {
	t.Parallel()

	admin := user(domain.UserRoleAdmin)
	owner := user(domain.UserRoleUser)
	rec := record(owner, domain.VisibilityPrivate)

	for _, action := range []Action{ActionRead, ActionWrite, ActionAnnotate} {
		d := Decide(Context{Actor: admin, Record: rec, Owner: owner}, action)
		if !d.Allowed {
			t.Errorf("admin %s denied: %s", action, d.Reason)
		}
	}
}

func TestDecide_OwnerAllowsEverything(t *testing.T) {
	t.Parallel()

	owner := user(domain.UserRoleUser)

	// Owner access must not depend on visibility.
	for _, vis := range []domain.Visibility{domain.VisibilityPrivate, domain.VisibilityTeam, domain.VisibilityOrg} {
		rec := record(owner, vis)
		for _, action := range []Action{ActionRead, ActionWrite, ActionAnnotate} {
			d := Decide(Context{Actor: owner, Record: rec, Owner: owner}, action)
			if !d.Allowed {
				t.Errorf("owner %s on %s record denied: %s", action, vis, d.Reason)
			}
		}
	}
}

func TestDecide_ManagerOverTeamRecord(t *testing.T) {
	t.Parallel()

	manager := user(domain.UserRoleManager)
	owner := user(domain.UserRoleUser)
	owner.ManagerID = &manager.ID
	rec := record(owner, domain.VisibilityTeam)
	ctx := Context{Actor: manager, Record: rec, Owner: owner}

	if d := Decide(ctx, ActionRead); !d.Allowed {
		t.Errorf("manager read denied: %s", d.Reason)
	}
	if d := Decide(ctx, ActionAnnotate); !d.Allowed {
		t.Errorf("manager annotate denied: %s", d.Reason)
	}
	if d := Decide(ctx, ActionWrite); d.Allowed {
		t.Error("manager full-field write should be denied")
	} else if d.Reason != ReasonInsufficientScope {
		t.Errorf("reason = %q, want %q", d.Reason, ReasonInsufficientScope)
	}
}

func TestDecide_ManagerDeniedOnPrivateRecord(t *testing.T) {
	t.Parallel()

	manager := user(domain.UserRoleManager)
	owner := user(domain.UserRoleUser)
	owner.ManagerID = &manager.ID
	rec := record(owner, domain.VisibilityPrivate)

	for _, action := range []Action{ActionRead, ActionWrite, ActionAnnotate} {
		if d := Decide(Context{Actor: manager, Record: rec, Owner: owner}, action); d.Allowed {
			t.Errorf("manager %s on PRIVATE record should be denied", action)
		}
	}
}

func TestDecide_UnrelatedManagerDenied(t *testing.T) {
	t.Parallel()

	// A manager who does not manage the owner gets no manager privileges.
	manager := user(domain.UserRoleManager)
	otherManager := uuid.New()
	owner := user(domain.UserRoleUser)
	owner.ManagerID = &otherManager
	rec := record(owner, domain.VisibilityTeam)

	if d := Decide(Context{Actor: manager, Record: rec, Owner: owner}, ActionRead); d.Allowed {
		t.Error("unrelated manager read on TEAM record should be denied")
	}
}

func TestDecide_OrgVisibilityReadOnly(t *testing.T) {
	t.Parallel()

	stranger := user(domain.UserRoleUser)
	owner := user(domain.UserRoleUser)
	rec := record(owner, domain.VisibilityOrg)
	ctx := Context{Actor: stranger, Record: rec, Owner: owner}

	if d := Decide(ctx, ActionRead); !d.Allowed {
		t.Errorf("org-wide read denied: %s", d.Reason)
	}
	if d := Decide(ctx, ActionWrite); d.Allowed {
		t.Error("org-wide write should be denied")
	}
	if d := Decide(ctx, ActionAnnotate); d.Allowed {
		t.Error("org-wide annotate should be denied")
	}
}

func TestDecide_StrangerOnPrivateRecordDenied(t *testing.T) {
	t.Parallel()

	stranger := user(domain.UserRoleUser)
	owner := user(domain.UserRoleUser)
	rec := record(owner, domain.VisibilityPrivate)

	d := Decide(Context{Actor: stranger, Record: rec, Owner: owner}, ActionRead)
	if d.Allowed {
		t.Fatal("stranger read on PRIVATE record should be denied")
	}
	if d.Reason != ReasonInsufficientScope {
		t.Errorf("reason = %q, want %q", d.Reason, ReasonInsufficientScope)
	}
}

func TestDecide_TotalOnMalformedInput(t *testing.T) {
	t.Parallel()

	owner := user(domain.UserRoleUser)
	rec := record(owner, domain.VisibilityOrg)

	cases := []struct {
		name   string
		ctx    Context
		action Action
	}{
		{"zero context", Context{}, ActionRead},
		{"nil actor id", Context{Actor: domain.User{Role: domain.UserRoleAdmin}, Record: rec, Owner: owner}, ActionRead},
		{"invalid role", Context{Actor: domain.User{ID: uuid.New(), Role: "root"}, Record: rec, Owner: owner}, ActionRead},
		{"nil record id", Context{Actor: user(domain.UserRoleAdmin), Owner: owner}, ActionRead},
		{"invalid visibility", Context{Actor: user(domain.UserRoleAdmin), Record: domain.Record{ID: uuid.New(), Visibility: "PUBLIC"}, Owner: owner}, ActionRead},
		{"unknown action", Context{Actor: user(domain.UserRoleAdmin), Record: rec, Owner: owner}, Action("DELETE")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := Decide(tc.ctx, tc.action)
			if d.Allowed {
				t.Error("malformed input must be denied")
			}
			if d.Reason != ReasonInvalidContext {
				t.Errorf("reason = %q, want %q", d.Reason, ReasonInvalidContext)
			}
		})
	}
}

func TestDecide_Deterministic(t *testing.T) {
	t.Parallel()

	manager := user(domain.UserRoleManager)
	owner := user(domain.UserRoleUser)
	owner.ManagerID = &manager.ID
	rec := record(owner, domain.VisibilityTeam)
	ctx := Context{Actor: manager, Record: rec, Owner: owner}

	first := Decide(ctx, ActionWrite)
	for i := 0; i < 100; i++ {
		if got := Decide(ctx, ActionWrite); got != first {
			t.Fatalf("iteration %d: decision changed from %+v to %+v", i, first, got)
		}
	}
}
