// Package fulfillment implements the procurement pipeline: purchased,
// shipped, arrived, plus administrative cancellation.
package fulfillment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mit-motorsports/purchasing-api/internal/application/dto"
	"github.com/mit-motorsports/purchasing-api/internal/application/ports"
	"github.com/mit-motorsports/purchasing-api/internal/domain"
	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
	"github.com/mit-motorsports/purchasing-api/internal/domain/policy"
	"github.com/mit-motorsports/purchasing-api/internal/domain/repository"
	"github.com/mit-motorsports/purchasing-api/pkg/logger"
)

// UseCase advances orders through the fulfillment pipeline. Only business
// users may act, and every transition runs under the per-order row lock.
type UseCase struct {
	tx        ports.TxRunner
	files     ports.FileStore
	notifier  ports.NotificationPort
	threshold decimal.Decimal
	log       *logger.Logger
}

func NewUseCase(
	tx ports.TxRunner,
	files ports.FileStore,
	notifier ports.NotificationPort,
	threshold decimal.Decimal,
	log *logger.Logger,
) *UseCase {
	return &UseCase{tx: tx, files: files, notifier: notifier, threshold: threshold, log: log}
}

// UpdateStatus moves the order to the requested fulfillment status.
//
// Forward transitions follow the fixed chain Not Yet Purchased -> Purchased
// -> Shipped -> Arrived; skipping a stage is a state conflict. Procurement
// may only begin on fully approved orders. Arrival requires a stored photo
// reference and resolves the order. Cancellation is allowed from any
// non-terminal status.
func (uc *UseCase) UpdateStatus(ctx context.Context, actor entity.Actor, purchaseID string, in dto.UpdateStatusRequest) (*dto.PurchaseResponse, error) {
	if !policy.CanManageFulfillment(actor.Role) {
		return nil, domain.ErrForbidden
	}
	target := entity.FulfillmentStatus(in.Status)
	if !target.Valid() || target == entity.FulfillmentNotPurchased {
		return nil, domain.ErrValidation
	}
	if target == entity.FulfillmentArrived {
		if in.Photo == "" || !uc.files.Exists(in.Photo) {
			return nil, domain.ErrValidation
		}
	}

	var (
		updated *entity.Purchase
		old     entity.FulfillmentStatus
	)
	err := uc.tx.Run(ctx, func(repo repository.PurchaseRepository) error {
		p, err := repo.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		old = p.FulfillmentStatus

		if target == entity.FulfillmentCancelled {
			if p.FulfillmentStatus.Terminal() {
				return domain.ErrStateConflict
			}
		} else {
			if !p.FulfillmentStatus.CanAdvanceTo(target) {
				return domain.ErrStateConflict
			}
			if target == entity.FulfillmentPurchased && !p.CanBePurchased() {
				return domain.ErrStateConflict
			}
		}

		now := time.Now()
		p.FulfillmentStatus = target
		switch target {
		case entity.FulfillmentShipped:
			p.ShippedAt = &now
		case entity.FulfillmentArrived:
			p.ArrivedAt = &now
			p.ArrivalPhoto = in.Photo
			p.IsResolved = true
		case entity.FulfillmentCancelled:
			p.IsResolved = true
		}
		p.UpdatedAt = now

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
		Str("updated_by", actor.Email).
		Str("from", string(old)).
		Str("to", string(updated.FulfillmentStatus)).
		Msg("fulfillment status updated")

	uc.notify(updated.ID, uc.notifier.NotifyStatusChanged(updated, old, updated.FulfillmentStatus))
	if updated.FulfillmentStatus == entity.FulfillmentArrived {
		uc.notify(updated.ID, uc.notifier.NotifyArrived(updated))
	}

	out := dto.FromPurchase(updated, uc.threshold)
	return &out, nil
}

func (uc *UseCase) notify(purchaseID string, err error) {
	if err != nil {
		uc.log.Error().Err(err).Str("purchase_id", purchaseID).Msg("notification failed")
	}
}
