// Package policy derives capabilities from roles and computes role-scoped
// visibility for purchase orders. It is pure domain logic: no storage, no
// transport.
package policy

import (
	"github.com/mit-motorsports/purchasing-api/internal/domain"
	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
)

// Stage identifies one of the two pending approval stages.
type Stage string

const (
	StageSublead   Stage = "sublead"
	StageExecutive Stage = "executive"
)

// capabilities is the closed capability set derived from a role. Roles carry
// no stored permissions; everything flows from this table.
type capabilities struct {
	Create            bool
	AutoApproved      bool // orders start fully approved
	ApproveSublead    bool // only if also designated on the order
	ApproveExecutive  bool // only if also designated on the order
	ManageFulfillment bool
	ViewAll           bool
}

var capabilityTable = map[entity.Role]capabilities{
	entity.RoleRequester: {Create: true},
	entity.RoleSublead:   {Create: true, ApproveSublead: true},
	entity.RoleExecutive: {Create: true, AutoApproved: true, ApproveExecutive: true},
	entity.RoleBusiness:  {Create: true, AutoApproved: true, ManageFulfillment: true, ViewAll: true},
}

// AutoApproved reports whether orders created by this role start fully approved.
func AutoApproved(role entity.Role) bool {
	return capabilityTable[role].AutoApproved
}

// CanManageFulfillment reports whether the role may advance fulfillment stages.
func CanManageFulfillment(role entity.Role) bool {
	return capabilityTable[role].ManageFulfillment
}

// PendingStage maps the order's approval status to the stage awaiting a
// decision. ok is false when the order is not pending.
func PendingStage(p *entity.Purchase) (Stage, bool) {
	switch p.ApprovalStatus {
	case entity.ApprovalPendingSublead:
		return StageSublead, true
	case entity.ApprovalPendingExecutive:
		return StageExecutive, true
	}
	return "", false
}

// DesignatedEmail returns the only email authorized to act at the given stage.
func DesignatedEmail(p *entity.Purchase, stage Stage) string {
	if stage == StageSublead {
		return p.SubleadEmail
	}
	return p.ExecEmail
}

// IsDesignated reports whether email is the designated approver for the stage.
func IsDesignated(email string, p *entity.Purchase, stage Stage) bool {
	designated := DesignatedEmail(p, stage)
	return designated != "" && designated == email
}

// AuthorizeApproval checks that the actor may decide the order's current
// pending stage. Role is necessary but not sufficient: the actor must also be
// the designated approver recorded on the order.
//
// Returns ErrStateConflict when the order is not pending, ErrForbidden when
// the actor's role cannot act at the stage, ErrNotDesignated when the role
// matches but the order designates someone else.
func AuthorizeApproval(actor entity.Actor, p *entity.Purchase) (Stage, error) {
	stage, ok := PendingStage(p)
	if !ok {
		return "", domain.ErrStateConflict
	}

	caps := capabilityTable[actor.Role]
	switch stage {
	case StageSublead:
		if !caps.ApproveSublead {
			return stage, domain.ErrForbidden
		}
	case StageExecutive:
		if !caps.ApproveExecutive {
			return stage, domain.ErrForbidden
		}
	}

	if !IsDesignated(actor.Email, p, stage) {
		return stage, domain.ErrNotDesignated
	}
	return stage, nil
}

// CanSoftDelete reports whether the actor may soft-delete or restore the
// order: the owner or any business-role actor.
func CanSoftDelete(actor entity.Actor, p *entity.Purchase) bool {
	return p.UserID == actor.ID || capabilityTable[actor.Role].ManageFulfillment
}

// CanView reports whether the actor may read the order directly. Requesters
// see only their own; every other role sees all orders.
func CanView(actor entity.Actor, p *entity.Purchase) bool {
	if actor.Role == entity.RoleRequester {
		return p.UserID == actor.ID || p.RequesterEmail == actor.Email
	}
	return true
}
