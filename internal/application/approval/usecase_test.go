package approval

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mit-motorsports/purchasing-api/internal/application/dto"
	"github.com/mit-motorsports/purchasing-api/internal/application/ports"
	"github.com/mit-motorsports/purchasing-api/internal/domain"
	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
	"github.com/mit-motorsports/purchasing-api/internal/domain/policy"
	"github.com/mit-motorsports/purchasing-api/internal/domain/repository"
	"github.com/mit-motorsports/purchasing-api/pkg/logger"
)

// memPurchases is an in-memory PurchaseRepository for use case tests.
type memPurchases struct {
	byID map[string]*entity.Purchase
}

func newMemPurchases() *memPurchases {
	return &memPurchases{byID: map[string]*entity.Purchase{}}
}

func (m *memPurchases) Create(_ context.Context, p *entity.Purchase) error {
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPurchases) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPurchases) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return m.GetByID(ctx, id)
}

func (m *memPurchases) Update(_ context.Context, p *entity.Purchase) error {
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPurchases) List(_ context.Context, scope policy.Scope, _ repository.ListFilter) ([]*entity.Purchase, int, error) {
	var out []*entity.Purchase
	for _, p := range m.byID {
		if scope.Matches(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (m *memPurchases) Stats(_ context.Context, _ string) (*repository.Stats, error) {
	return &repository.Stats{}, nil
}

// passTx runs the callback directly against the shared repository. Use case
// tests exercise transition logic, not transaction mechanics.
type passTx struct {
	repo repository.PurchaseRepository
}

func (t passTx) Run(_ context.Context, fn func(repo repository.PurchaseRepository) error) error {
	return fn(t.repo)
}

type sentMail struct {
	kind  string
	to    string
	stage string
}

// recordingNotifier captures notifications instead of sending them.
type recordingNotifier struct {
	sent []sentMail
}

func (n *recordingNotifier) NotifyApprovalRequested(_ *entity.Purchase, approverEmail, stage string) error {
	n.sent = append(n.sent, sentMail{kind: "requested", to: approverEmail, stage: stage})
	return nil
}

func (n *recordingNotifier) NotifyApprovalStatus(p *entity.Purchase, outcome, _ string) error {
	n.sent = append(n.sent, sentMail{kind: outcome, to: p.RequesterEmail})
	return nil
}

func (n *recordingNotifier) NotifyStatusChanged(p *entity.Purchase, _, _ entity.FulfillmentStatus) error {
	n.sent = append(n.sent, sentMail{kind: "status", to: p.RequesterEmail})
	return nil
}

func (n *recordingNotifier) NotifyArrived(p *entity.Purchase) error {
	n.sent = append(n.sent, sentMail{kind: "arrived", to: p.RequesterEmail})
	return nil
}

type memUsers struct {
	byID map[string]*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return m.byID[id], nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.byID[u.ID] = u
	return nil
}

type fixture struct {
	uc       *UseCase
	repo     *memPurchases
	notifier *recordingNotifier
}

func newFixture(t *testing.T, users ...*entity.User) *fixture {
	t.Helper()
	repo := newMemPurchases()
	notifier := &recordingNotifier{}
	mu := &memUsers{byID: map[string]*entity.User{}}
	for _, u := range users {
		mu.byID[u.ID] = u
	}
	var tx ports.TxRunner = passTx{repo: repo}
	uc := NewUseCase(tx, repo, mu, notifier, decimal.NewFromInt(3000),
		logger.New(logger.Config{Level: "error"}))
	return &fixture{uc: uc, repo: repo, notifier: notifier}
}

func requesterUser() *entity.User {
	return &entity.User{ID: "u-req", Email: "ana@mit.edu", FullName: "Ana Diaz", Role: entity.RoleRequester, IsActive: true}
}

func requesterActor() entity.Actor {
	return entity.Actor{ID: "u-req", Email: "ana@mit.edu", Role: entity.RoleRequester}
}

func baseRequest() dto.CreatePurchaseRequest {
	return dto.CreatePurchaseRequest{
		ItemName:        "Brake rotors",
		VendorName:      "McMaster-Carr",
		Quantity:        2,
		Price:           decimal.NewFromInt(50),
		ShippingCost:    decimal.Zero,
		Subteam:         "Chassis",
		SubleadVerifier: "lead@mit.edu",
		ExecVerifier:    "exec@mit.edu",
	}
}

func TestSubmit_RequesterStartsAtSubleadStage(t *testing.T) {
	f := newFixture(t, requesterUser())

	out, err := f.uc.Submit(context.Background(), requesterActor(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, string(entity.ApprovalPendingSublead), out.ApprovalStatus)
	assert.Equal(t, string(entity.FulfillmentNotPurchased), out.Status)
	assert.Equal(t, "Ana Diaz", out.RequesterName)
	assert.Equal(t, "ana@mit.edu", out.RequesterEmail)
	assert.False(t, out.NeedsExecApproval)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "requested", f.notifier.sent[0].kind)
	assert.Equal(t, "lead@mit.edu", f.notifier.sent[0].to)
	assert.Equal(t, "sublead", f.notifier.sent[0].stage)
}

func TestSubmit_ExecutiveIsAutoApproved(t *testing.T) {
	exec := &entity.User{ID: "u-exec", Email: "exec@mit.edu", FullName: "Eva Exec", Role: entity.RoleExecutive, IsActive: true}
	f := newFixture(t, exec)

	req := baseRequest()
	req.SubleadVerifier = ""
	req.ExecVerifier = ""
	out, err := f.uc.Submit(context.Background(), entity.Actor{ID: "u-exec", Email: exec.Email, Role: exec.Role}, req)
	require.NoError(t, err)

	assert.Equal(t, string(entity.ApprovalFullyApproved), out.ApprovalStatus)
	assert.True(t, out.CanBePurchased)
	assert.Empty(t, f.notifier.sent, "fully approved orders need no approver notification")
}

func TestSubmit_SubleadStartsAtExecutiveStage(t *testing.T) {
	lead := &entity.User{ID: "u-lead", Email: "lead@mit.edu", FullName: "Lea Lead", Role: entity.RoleSublead, IsActive: true}
	f := newFixture(t, lead)

	out, err := f.uc.Submit(context.Background(), entity.Actor{ID: "u-lead", Email: lead.Email, Role: lead.Role}, baseRequest())
	require.NoError(t, err)

	assert.Equal(t, string(entity.ApprovalPendingExecutive), out.ApprovalStatus)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "exec@mit.edu", f.notifier.sent[0].to)
	assert.Equal(t, "executive", f.notifier.sent[0].stage)
}

func TestSubmit_MissingVerifiersRejected(t *testing.T) {
	f := newFixture(t, requesterUser())

	req := baseRequest()
	req.SubleadVerifier = ""
	_, err := f.uc.Submit(context.Background(), requesterActor(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Expensive order without an executive verifier cannot be routed.
	req = baseRequest()
	req.Price = decimal.NewFromInt(4000)
	req.ExecVerifier = ""
	_, err = f.uc.Submit(context.Background(), requesterActor(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSubmit_InvalidPayload(t *testing.T) {
	f := newFixture(t, requesterUser())

	req := baseRequest()
	req.ItemName = ""
	_, err := f.uc.Submit(context.Background(), requesterActor(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)

	req = baseRequest()
	req.Price = decimal.Zero
	_, err = f.uc.Submit(context.Background(), requesterActor(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)

	req = baseRequest()
	req.Urgency = "Critical"
	_, err = f.uc.Submit(context.Background(), requesterActor(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApprove_CheapOrderSkipsExecutiveStage(t *testing.T) {
	f := newFixture(t, requesterUser())
	out, err := f.uc.Submit(context.Background(), requesterActor(), baseRequest())
	require.NoError(t, err)
	f.notifier.sent = nil

	lead := entity.Actor{ID: "u-lead", Email: "lead@mit.edu", Role: entity.RoleSublead}
	approved, err := f.uc.Approve(context.Background(), lead, out.ID)
	require.NoError(t, err)

	assert.Equal(t, string(entity.ApprovalFullyApproved), approved.ApprovalStatus)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "approved", f.notifier.sent[0].kind)
	assert.Equal(t, "ana@mit.edu", f.notifier.sent[0].to)
}

func TestApprove_ExpensiveOrderNeedsBothStages(t *testing.T) {
	f := newFixture(t, requesterUser())
	req := baseRequest()
	req.Price = decimal.NewFromInt(4000)
	out, err := f.uc.Submit(context.Background(), requesterActor(), req)
	require.NoError(t, err)
	f.notifier.sent = nil

	lead := entity.Actor{ID: "u-lead", Email: "lead@mit.edu", Role: entity.RoleSublead}
	mid, err := f.uc.Approve(context.Background(), lead, out.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ApprovalPendingExecutive), mid.ApprovalStatus)

	// Requester hears about the stage approval, executive gets a new request.
	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, "approved", f.notifier.sent[0].kind)
	assert.Equal(t, "requested", f.notifier.sent[1].kind)
	assert.Equal(t, "exec@mit.edu", f.notifier.sent[1].to)

	exec := entity.Actor{ID: "u-exec", Email: "exec@mit.edu", Role: entity.RoleExecutive}
	final, err := f.uc.Approve(context.Background(), exec, out.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ApprovalFullyApproved), final.ApprovalStatus)
}

func TestApprove_WrongActorLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, requesterUser())
	out, err := f.uc.Submit(context.Background(), requesterActor(), baseRequest())
	require.NoError(t, err)
	f.notifier.sent = nil

	// Right role, wrong designated email.
	other := entity.Actor{ID: "u-x", Email: "other@mit.edu", Role: entity.RoleSublead}
	_, err = f.uc.Approve(context.Background(), other, out.ID)
	assert.ErrorIs(t, err, domain.ErrNotDesignated)

	// Wrong role entirely.
	_, err = f.uc.Approve(context.Background(), requesterActor(), out.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := f.repo.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalPendingSublead, stored.ApprovalStatus)
	assert.Empty(t, f.notifier.sent)
}

func TestApprove_TerminalStateConflicts(t *testing.T) {
	f := newFixture(t, requesterUser())
	out, err := f.uc.Submit(context.Background(), requesterActor(), baseRequest())
	require.NoError(t, err)

	lead := entity.Actor{ID: "u-lead", Email: "lead@mit.edu", Role: entity.RoleSublead}
	_, err = f.uc.Approve(context.Background(), lead, out.ID)
	require.NoError(t, err)

	// Second approval of the same order is a conflict, not a no-op.
	_, err = f.uc.Approve(context.Background(), lead, out.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestApprove_UnknownOrder(t *testing.T) {
	f := newFixture(t, requesterUser())
	lead := entity.Actor{ID: "u-lead", Email: "lead@mit.edu", Role: entity.RoleSublead}
	_, err := f.uc.Approve(context.Background(), lead, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReject_RecordsReasonAndNotifies(t *testing.T) {
	f := newFixture(t, requesterUser())
	out, err := f.uc.Submit(context.Background(), requesterActor(), baseRequest())
	require.NoError(t, err)
	f.notifier.sent = nil

	lead := entity.Actor{ID: "u-lead", Email: "lead@mit.edu", Role: entity.RoleSublead}
	rejected, err := f.uc.Reject(context.Background(), lead, out.ID, "over budget this quarter")
	require.NoError(t, err)

	assert.Equal(t, string(entity.ApprovalRejected), rejected.ApprovalStatus)
	assert.Contains(t, rejected.Notes, "Rejection reason: over budget this quarter")

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "rejected", f.notifier.sent[0].kind)

	// Rejection is terminal; no further decisions apply.
	_, err = f.uc.Reject(context.Background(), lead, out.ID, "again")
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestReject_ExecutiveStage(t *testing.T) {
	f := newFixture(t, requesterUser())
	req := baseRequest()
	req.Urgency = string(entity.UrgencySpecialLarge)
	out, err := f.uc.Submit(context.Background(), requesterActor(), req)
	require.NoError(t, err)

	lead := entity.Actor{ID: "u-lead", Email: "lead@mit.edu", Role: entity.RoleSublead}
	_, err = f.uc.Approve(context.Background(), lead, out.ID)
	require.NoError(t, err)

	// Sublead no longer has a stage to act on.
	_, err = f.uc.Reject(context.Background(), lead, out.ID, "no")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	exec := entity.Actor{ID: "u-exec", Email: "exec@mit.edu", Role: entity.RoleExecutive}
	rejected, err := f.uc.Reject(context.Background(), exec, out.ID, "")
	require.NoError(t, err)
	assert.Equal(t, string(entity.ApprovalRejected), rejected.ApprovalStatus)
}
