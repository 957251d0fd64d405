package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
	"github.com/mit-motorsports/purchasing-api/internal/domain/policy"
	"github.com/mit-motorsports/purchasing-api/internal/domain/repository"
)

func TestBuildWhere_CurrentView(t *testing.T) {
	where, args := buildWhere(policy.Scope{View: policy.ViewCurrent}, repository.ListFilter{})

	assert.Equal(t, " WHERE is_deleted = FALSE AND fulfillment_status <> $1", where)
	assert.Equal(t, []any{entity.FulfillmentArrived}, args)
}

func TestBuildWhere_HistoryView(t *testing.T) {
	where, args := buildWhere(policy.Scope{View: policy.ViewHistory}, repository.ListFilter{})

	assert.Equal(t, " WHERE (is_deleted = TRUE OR fulfillment_status = $1)", where)
	assert.Equal(t, []any{entity.FulfillmentArrived}, args)
}

func TestBuildWhere_OwnViewRequester(t *testing.T) {
	scope := policy.ScopeFor(entity.Actor{ID: "u-1", Email: "me@mit.edu", Role: entity.RoleRequester}, policy.ViewOwn)
	where, args := buildWhere(scope, repository.ListFilter{})

	assert.Equal(t, " WHERE (user_id = $1 OR requester_email = $2) AND is_deleted = FALSE", where)
	assert.Equal(t, []any{"u-1", "me@mit.edu"}, args)
}

func TestBuildWhere_OwnViewSublead(t *testing.T) {
	scope := policy.ScopeFor(entity.Actor{ID: "u-1", Email: "lead@mit.edu", Role: entity.RoleSublead}, policy.ViewOwn)
	where, args := buildWhere(scope, repository.ListFilter{})

	assert.Contains(t, where, "user_id = $1")
	assert.Contains(t, where, "requester_email = $2")
	assert.Contains(t, where, "(approval_status = $3 AND sublead_email = $4)")
	assert.Contains(t, where, "is_deleted = FALSE")
	assert.Equal(t, []any{"u-1", "lead@mit.edu", entity.ApprovalPendingSublead, "lead@mit.edu"}, args)
}

func TestBuildWhere_OwnViewExecutiveUsesExecColumn(t *testing.T) {
	scope := policy.ScopeFor(entity.Actor{ID: "u-1", Email: "exec@mit.edu", Role: entity.RoleExecutive}, policy.ViewOwn)
	where, _ := buildWhere(scope, repository.ListFilter{})

	assert.Contains(t, where, "exec_email = $4")
	assert.NotContains(t, where, "sublead_email")
}

func TestBuildWhere_OwnViewBusinessHandlingStages(t *testing.T) {
	scope := policy.ScopeFor(entity.Actor{ID: "u-1", Email: "biz@mit.edu", Role: entity.RoleBusiness}, policy.ViewOwn)
	where, args := buildWhere(scope, repository.ListFilter{})

	assert.Contains(t, where, "fulfillment_status IN ($3, $4, $5)")
	assert.Contains(t, where, "approval_status = $6")
	assert.Len(t, args, 6)
}

func TestBuildWhere_Filters(t *testing.T) {
	filter := repository.ListFilter{
		FulfillmentStatus: entity.FulfillmentPurchased,
		Subteam:           "Chassis",
		Search:            "rotor",
	}
	where, args := buildWhere(policy.Scope{View: policy.ViewCurrent}, filter)

	assert.Contains(t, where, "fulfillment_status = $2")
	assert.Contains(t, where, "subteam = $3")
	assert.Contains(t, where, "item_name ILIKE $4")
	assert.Contains(t, where, "vendor_name ILIKE $4")
	assert.Contains(t, where, "requester_name ILIKE $4")
	assert.Equal(t, "%rotor%", args[3])
}

func TestBuildWhere_IncludeDeletedOwnView(t *testing.T) {
	scope := policy.ScopeFor(entity.Actor{ID: "u-1", Email: "me@mit.edu", Role: entity.RoleRequester}, policy.ViewOwn)
	where, _ := buildWhere(scope, repository.ListFilter{IncludeDeleted: true})

	assert.NotContains(t, where, "is_deleted")
}
