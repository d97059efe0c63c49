// Package access implements the record access policy as a single pure
// decision function. Every call site that needs a role or ownership check
// consumes Decide's result; the rules are never reimplemented elsewhere.
package access

import (
	"github.com/google/uuid"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

// Action is the kind of operation being decided.
type Action string

const (
	// ActionRead is any read of a record and its suggestions.
	ActionRead Action = "READ"
	// ActionWrite is a full-field mutation of a record.
	ActionWrite Action = "WRITE"
	// ActionAnnotate is a comment-level write. Managers may annotate records
	// they can read even when ActionWrite is denied.
	ActionAnnotate Action = "ANNOTATE"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionRead, ActionWrite, ActionAnnotate:
		return true
	}
	return false
}

// Context carries everything a decision needs. It is built per request from
// already-loaded entities and never persisted.
type Context struct {
	Actor  domain.User
	Record domain.Record
	// Owner is the record owner, loaded alongside the record. The manager
	// rule needs the owner's manager link, which the record alone does not
	// carry.
	Owner domain.User
}

// Decision is the result of a policy evaluation.
type Decision struct {
	Allowed bool
	Reason  string
}

const (
	// ReasonInsufficientScope is the generic denial reason. It is safe to
	// surface: it never reveals whether the record exists or who owns it.
	ReasonInsufficientScope = "insufficient-scope"
	// ReasonInvalidContext marks a denial caused by a malformed context
	// (nil actor, invalid role or visibility). Logged, never surfaced.
	ReasonInvalidContext = "invalid-context"
)

// Allow returns an allowing decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny returns a denying decision with the given reason.
func Deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// Decide evaluates the access policy for the given context and action.
// Rules are evaluated in order, first match wins:
//
//  1. ADMIN may do anything.
//  2. The owner may read, write, and annotate their own record.
//  3. The owner's direct manager may read and annotate records with TEAM or
//     ORG visibility, but may not perform full-field writes.
//  4. Anyone may read ORG-visible records.
//  5. Everything else is denied with "insufficient-scope".
//
// Decide is total and deterministic: it never panics, and malformed input
// (nil actor id, invalid role, invalid visibility, unknown action) yields a
// denial rather than an error.
func Decide(ctx Context, action Action) Decision {
	if ctx.Actor.ID == uuid.Nil || !ctx.Actor.Role.IsValid() {
		return Deny(ReasonInvalidContext)
	}
	if ctx.Record.ID == uuid.Nil || !ctx.Record.Visibility.IsValid() {
		return Deny(ReasonInvalidContext)
	}
	if !action.IsValid() {
		return Deny(ReasonInvalidContext)
	}

	// Rule 1: admin.
	if ctx.Actor.Role.IsAdmin() {
		return Allow()
	}

	// Rule 2: owner.
	if ctx.Actor.ID == ctx.Record.OwnerID {
		return Allow()
	}

	// Rule 3: owner's direct manager, shared visibility.
	if ctx.Actor.Role == domain.UserRoleManager &&
		ctx.Actor.IsManagerOf(&ctx.Owner) &&
		(ctx.Record.Visibility == domain.VisibilityTeam || ctx.Record.Visibility == domain.VisibilityOrg) {
		switch action {
		case ActionRead, ActionAnnotate:
			return Allow()
		case ActionWrite:
			return Deny(ReasonInsufficientScope)
		}
	}

	// Rule 4: org-wide read.
	if ctx.Record.Visibility == domain.VisibilityOrg && action == ActionRead {
		return Allow()
	}

	// Rule 5: default deny.
	return Deny(ReasonInsufficientScope)
}
