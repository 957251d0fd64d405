// Package approval implements the human sign-off workflow: submission,
// stage approvals and rejection.
package approval

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mit-motorsports/purchasing-api/internal/application/dto"
	"github.com/mit-motorsports/purchasing-api/internal/application/ports"
	"github.com/mit-motorsports/purchasing-api/internal/domain"
	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
	"github.com/mit-motorsports/purchasing-api/internal/domain/policy"
	"github.com/mit-motorsports/purchasing-api/internal/domain/repository"
	"github.com/mit-motorsports/purchasing-api/pkg/logger"
)

// UseCase drives the approval state machine. Transitions run inside the
// TxRunner so the row lock from GetForUpdate guards the state recheck;
// notifications go out after commit and never fail the operation.
type UseCase struct {
	tx        ports.TxRunner
	purchases repository.PurchaseRepository
	users     repository.UserRepository
	notifier  ports.NotificationPort
	threshold decimal.Decimal
	log       *logger.Logger
}

// NewUseCase builds the approval use case. threshold is the total cost above
// which executive approval is required.
func NewUseCase(
	tx ports.TxRunner,
	purchases repository.PurchaseRepository,
	users repository.UserRepository,
	notifier ports.NotificationPort,
	threshold decimal.Decimal,
	log *logger.Logger,
) *UseCase {
	return &UseCase{tx: tx, purchases: purchases, users: users, notifier: notifier, threshold: threshold, log: log}
}

// Submit creates a purchase order with its initial approval state derived
// from the creator's role:
//
//   - requester  -> Pending Sublead Approval (sublead_verifier required;
//     exec_verifier also required when the order needs executive approval)
//   - sublead    -> Pending Executive Approval (exec_verifier required)
//   - executive / business -> Fully Approved (self-authorizing)
//
// The requester's name and email are snapshotted from the creator's user
// record. The first required approver is notified.
func (uc *UseCase) Submit(ctx context.Context, actor entity.Actor, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	creator, err := uc.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, domain.ErrUserNotFound
	}

	p, err := uc.buildPurchase(creator, in)
	if err != nil {
		return nil, err
	}

	if err := uc.purchases.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("purchase_id", p.ID).
		Str("created_by", creator.Email).
		Str("approval_status", string(p.ApprovalStatus)).
		Msg("purchase submitted")

	switch p.ApprovalStatus {
	case entity.ApprovalPendingSublead:
		uc.notify(p.ID, uc.notifier.NotifyApprovalRequested(p, p.SubleadEmail, string(policy.StageSublead)))
	case entity.ApprovalPendingExecutive:
		uc.notify(p.ID, uc.notifier.NotifyApprovalRequested(p, p.ExecEmail, string(policy.StageExecutive)))
	}

	out := dto.FromPurchase(p, uc.threshold)
	return &out, nil
}

func (uc *UseCase) buildPurchase(creator *entity.User, in dto.CreatePurchaseRequest) (*entity.Purchase, error) {
	if in.ItemName == "" || in.VendorName == "" || in.Subteam == "" {
		return nil, domain.ErrValidation
	}
	if in.Price.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrValidation
	}
	if in.ShippingCost.IsNegative() {
		return nil, domain.ErrValidation
	}
	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	urgency := entity.Urgency(in.Urgency)
	if in.Urgency == "" {
		urgency = entity.UrgencyNeither
	}
	if !urgency.Valid() {
		return nil, domain.ErrValidation
	}

	now := time.Now()
	p := &entity.Purchase{
		ID:                uuid.New().String(),
		UserID:            creator.ID,
		ItemName:          in.ItemName,
		VendorName:        in.VendorName,
		ItemLink:          in.ItemLink,
		Quantity:          quantity,
		Price:             in.Price,
		ShippingCost:      in.ShippingCost,
		Subteam:           in.Subteam,
		Subproject:        in.Subproject,
		Purpose:           in.Purpose,
		Notes:             in.Notes,
		RequesterName:     creator.FullName,
		RequesterEmail:    creator.Email,
		Urgency:           urgency,
		FulfillmentStatus: entity.FulfillmentNotPurchased,
		SubleadEmail:      strings.ToLower(strings.TrimSpace(in.SubleadVerifier)),
		ExecEmail:         strings.ToLower(strings.TrimSpace(in.ExecVerifier)),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	needsExec := p.NeedsExecutiveApproval(uc.threshold)
	switch {
	case policy.AutoApproved(creator.Role):
		p.ApprovalStatus = entity.ApprovalFullyApproved
	case creator.Role == entity.RoleSublead:
		if p.ExecEmail == "" {
			return nil, domain.ErrValidation
		}
		p.ApprovalStatus = entity.ApprovalPendingExecutive
	default:
		if p.SubleadEmail == "" {
			return nil, domain.ErrValidation
		}
		if needsExec && p.ExecEmail == "" {
			return nil, domain.ErrValidation
		}
		p.ApprovalStatus = entity.ApprovalPendingSublead
	}
	return p, nil
}

// Approve advances the order past its current pending stage, acting as the
// designated approver. A sublead approval moves to the executive stage when
// the order needs it, otherwise straight to fully approved.
func (uc *UseCase) Approve(ctx context.Context, actor entity.Actor, purchaseID string) (*dto.PurchaseResponse, error) {
	var (
		updated    *entity.Purchase
		notifyExec bool
	)
	err := uc.tx.Run(ctx, func(repo repository.PurchaseRepository) error {
		p, err := repo.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}

		stage, err := policy.AuthorizeApproval(actor, p)
		if err != nil {
			return err
		}

		switch stage {
		case policy.StageSublead:
			if p.NeedsExecutiveApproval(uc.threshold) {
				p.ApprovalStatus = entity.ApprovalPendingExecutive
				notifyExec = true
			} else {
				p.ApprovalStatus = entity.ApprovalFullyApproved
			}
		case policy.StageExecutive:
			p.ApprovalStatus = entity.ApprovalFullyApproved
		}
		p.UpdatedAt = time.Now()

		if err := repo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("purchase_id", updated.ID).
		Str("approved_by", actor.Email).
		Str("approval_status", string(updated.ApprovalStatus)).
		Msg("purchase approved")

	uc.notify(updated.ID, uc.notifier.NotifyApprovalStatus(updated, "approved", ""))
	if notifyExec {
		uc.notify(updated.ID, uc.notifier.NotifyApprovalRequested(updated, updated.ExecEmail, string(policy.StageExecutive)))
	}

	out := dto.FromPurchase(updated, uc.threshold)
	return &out, nil
}

// Reject terminates the approval workflow from either pending stage, acting
// as the designated approver for that stage. The reason is appended to the
// order's notes.
func (uc *UseCase) Reject(ctx context.Context, actor entity.Actor, purchaseID, reason string) (*dto.PurchaseResponse, error) {
	var updated *entity.Purchase
	err := uc.tx.Run(ctx, func(repo repository.PurchaseRepository) error {
		p, err := repo.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}

		if _, err := policy.AuthorizeApproval(actor, p); err != nil {
			return err
		}

		p.ApprovalStatus = entity.ApprovalRejected
		if reason != "" {
			p.Notes = strings.TrimSpace(p.Notes + "\n\nRejection reason: " + reason)
		}
		p.UpdatedAt = time.Now()

		if err := repo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("purchase_id", updated.ID).
		Str("rejected_by", actor.Email).
		Msg("purchase rejected")

	uc.notify(updated.ID, uc.notifier.NotifyApprovalStatus(updated, "rejected", reason))

	out := dto.FromPurchase(updated, uc.threshold)
	return &out, nil
}

// notify logs notification failures; they never surface to the caller.
func (uc *UseCase) notify(purchaseID string, err error) {
	if err != nil {
		uc.log.Error().Err(err).Str("purchase_id", purchaseID).Msg("notification failed")
	}
}
