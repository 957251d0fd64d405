package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mit-motorsports/purchasing-api/internal/domain"
	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
	"github.com/mit-motorsports/purchasing-api/internal/domain/policy"
)

func actor(role entity.Role, email string) entity.Actor {
	return entity.Actor{ID: "id-" + email, Email: email, Role: role}
}

func pendingSublead() *entity.Purchase {
	return &entity.Purchase{
		ID:             "p1",
		UserID:         "id-req@mit.edu",
		RequesterEmail: "req@mit.edu",
		ApprovalStatus: entity.ApprovalPendingSublead,
		SubleadEmail:   "sublead@mit.edu",
		ExecEmail:      "exec@mit.edu",
	}
}

func TestAuthorizeApproval_DesignatedSublead(t *testing.T) {
	stage, err := policy.AuthorizeApproval(actor(entity.RoleSublead, "sublead@mit.edu"), pendingSublead())
	require.NoError(t, err)
	assert.Equal(t, policy.StageSublead, stage)
}

func TestAuthorizeApproval_RoleWithoutDesignation(t *testing.T) {
	// Right role, wrong person: designation is mandatory on top of the role check.
	_, err := policy.AuthorizeApproval(actor(entity.RoleSublead, "other-sublead@mit.edu"), pendingSublead())
	assert.ErrorIs(t, err, domain.ErrNotDesignated)
}

func TestAuthorizeApproval_WrongRoleForStage(t *testing.T) {
	p := pendingSublead()

	// An executive cannot act at the sublead stage, even if designated there.
	p.SubleadEmail = "exec@mit.edu"
	_, err := policy.AuthorizeApproval(actor(entity.RoleExecutive, "exec@mit.edu"), p)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Requesters and business cannot approve at all.
	_, err = policy.AuthorizeApproval(actor(entity.RoleRequester, "req@mit.edu"), pendingSublead())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = policy.AuthorizeApproval(actor(entity.RoleBusiness, "biz@mit.edu"), pendingSublead())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAuthorizeApproval_ExecutiveStage(t *testing.T) {
	p := pendingSublead()
	p.ApprovalStatus = entity.ApprovalPendingExecutive

	stage, err := policy.AuthorizeApproval(actor(entity.RoleExecutive, "exec@mit.edu"), p)
	require.NoError(t, err)
	assert.Equal(t, policy.StageExecutive, stage)

	// The designated sublead has no say at the executive stage.
	_, err = policy.AuthorizeApproval(actor(entity.RoleSublead, "sublead@mit.edu"), p)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAuthorizeApproval_NotPending(t *testing.T) {
	for _, status := range []entity.ApprovalStatus{entity.ApprovalFullyApproved, entity.ApprovalRejected} {
		p := pendingSublead()
		p.ApprovalStatus = status
		_, err := policy.AuthorizeApproval(actor(entity.RoleSublead, "sublead@mit.edu"), p)
		assert.ErrorIs(t, err, domain.ErrStateConflict, "status %s", status)
	}
}

func TestAuthorizeApproval_EmptyDesignationNeverMatches(t *testing.T) {
	p := pendingSublead()
	p.SubleadEmail = ""
	_, err := policy.AuthorizeApproval(actor(entity.RoleSublead, ""), p)
	assert.ErrorIs(t, err, domain.ErrNotDesignated)
}

func TestAutoApproved(t *testing.T) {
	assert.False(t, policy.AutoApproved(entity.RoleRequester))
	assert.False(t, policy.AutoApproved(entity.RoleSublead))
	assert.True(t, policy.AutoApproved(entity.RoleExecutive))
	assert.True(t, policy.AutoApproved(entity.RoleBusiness))
}

func TestCanManageFulfillment(t *testing.T) {
	assert.True(t, policy.CanManageFulfillment(entity.RoleBusiness))
	assert.False(t, policy.CanManageFulfillment(entity.RoleRequester))
	assert.False(t, policy.CanManageFulfillment(entity.RoleSublead))
	assert.False(t, policy.CanManageFulfillment(entity.RoleExecutive))
}

func TestCanSoftDelete_OwnerOrBusiness(t *testing.T) {
	p := pendingSublead()
	assert.True(t, policy.CanSoftDelete(actor(entity.RoleRequester, "req@mit.edu"), p))
	assert.True(t, policy.CanSoftDelete(actor(entity.RoleBusiness, "biz@mit.edu"), p))
	assert.False(t, policy.CanSoftDelete(actor(entity.RoleRequester, "someone-else@mit.edu"), p))
	assert.False(t, policy.CanSoftDelete(actor(entity.RoleSublead, "sublead@mit.edu"), p))
}

func TestCanView_RequesterOnlyOwn(t *testing.T) {
	p := pendingSublead()
	assert.True(t, policy.CanView(actor(entity.RoleRequester, "req@mit.edu"), p))
	assert.False(t, policy.CanView(actor(entity.RoleRequester, "other@mit.edu"), p))
	assert.True(t, policy.CanView(actor(entity.RoleSublead, "anyone@mit.edu"), p))
	assert.True(t, policy.CanView(actor(entity.RoleBusiness, "anyone@mit.edu"), p))
}
