package policy

import (
	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
)

// View selects one of the three list perspectives. All views order by
// creation time descending, and none hide rejected orders.
type View string

const (
	// ViewOwn is the actor's own/actionable list, scoped per role.
	ViewOwn View = "own"
	// ViewCurrent is the shared operational queue: not deleted, not arrived.
	ViewCurrent View = "current"
	// ViewHistory is the archival list: deleted or arrived.
	ViewHistory View = "history"
)

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	return v == ViewOwn || v == ViewCurrent || v == ViewHistory
}

// Scope is the storage-agnostic description of which orders a query covers.
// The persistence layer translates it to SQL; Matches applies it in memory.
type Scope struct {
	View View

	// Own view conditions (OR-combined). Zero values mean "not part of the scope".
	OwnerID        string                     // orders submitted by the actor
	OwnerEmail     string                     // orders requested under the actor's email
	PendingStatus  entity.ApprovalStatus      // orders pending at the actor's stage ...
	DesignatedTo   string                     // ... and designated to them
	HandlingStages []entity.FulfillmentStatus // business: approved orders needing physical handling
}

// ScopeFor computes the scope of the requested view for the actor.
//
// Own view per role: requesters see their own orders; subleads/executives see
// their own plus orders pending at their stage and designated to them;
// business sees their own plus anything fully approved, purchased or shipped.
// Current and history views are shared across roles.
func ScopeFor(actor entity.Actor, view View) Scope {
	s := Scope{View: view}
	if view != ViewOwn {
		return s
	}

	s.OwnerID = actor.ID
	s.OwnerEmail = actor.Email

	switch actor.Role {
	case entity.RoleSublead:
		s.PendingStatus = entity.ApprovalPendingSublead
		s.DesignatedTo = actor.Email
	case entity.RoleExecutive:
		s.PendingStatus = entity.ApprovalPendingExecutive
		s.DesignatedTo = actor.Email
	case entity.RoleBusiness:
		s.HandlingStages = []entity.FulfillmentStatus{
			entity.FulfillmentNotPurchased,
			entity.FulfillmentPurchased,
			entity.FulfillmentShipped,
		}
	}
	return s
}

// Matches applies the scope to a single order in memory. It mirrors the SQL
// the repository builds and backs the policy tests.
func (s Scope) Matches(p *entity.Purchase) bool {
	switch s.View {
	case ViewCurrent:
		return !p.IsDeleted && p.FulfillmentStatus != entity.FulfillmentArrived
	case ViewHistory:
		return p.IsDeleted || p.FulfillmentStatus == entity.FulfillmentArrived
	}

	// Own view: union of the configured conditions.
	if s.OwnerID != "" && p.UserID == s.OwnerID {
		return true
	}
	if s.OwnerEmail != "" && p.RequesterEmail == s.OwnerEmail {
		return true
	}
	if s.PendingStatus != "" && p.ApprovalStatus == s.PendingStatus {
		stage, ok := PendingStage(p)
		if ok && IsDesignated(s.DesignatedTo, p, stage) {
			return true
		}
	}
	if len(s.HandlingStages) > 0 && p.ApprovalStatus == entity.ApprovalFullyApproved {
		for _, st := range s.HandlingStages {
			if p.FulfillmentStatus == st {
				return true
			}
		}
	}
	return false
}
