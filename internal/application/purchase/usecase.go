// Package purchase implements reads and lifecycle operations that are not
// state-machine transitions: scoped listings, soft delete and restore,
// statistics and the printable order sheet.
package purchase

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
)

type UseCase struct {
	purchases repository.PurchaseRepository
	sheets    ports.OrderSheetRenderer
	threshold decimal.Decimal
}

func NewUseCase(purchases repository.PurchaseRepository, sheets ports.OrderSheetRenderer, threshold decimal.Decimal) *UseCase {
	return &UseCase{purchases: purchases, sheets: sheets, threshold: threshold}
}

// GetByID returns a single order, subject to the actor's read policy.
func (uc *UseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromPurchase(p, uc.threshold)
	return &out, nil
}

// List returns the requested view scoped to the actor's role, with optional
// filters and pagination.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor, view policy.View, filter repository.ListFilter, page dto.PageRequest) (*dto.PurchaseListResponse, error) {
	if !view.Valid() {
		return nil, domain.ErrValidation
	}
	page.DefaultPage()
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	scope := policy.ScopeFor(actor, view)
	items, total, err := uc.purchases.List(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	out := &dto.PurchaseListResponse{
		Items: make([]dto.PurchaseResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, p := range items {
		out.Items = append(out.Items, dto.FromPurchase(p, uc.threshold))
	}
	return out, nil
}

// SoftDelete archives the order. Only the owner or a business user may do
// this; the order itself is preserved and shows up in the history view.
func (uc *UseCase) SoftDelete(ctx context.Context, actor entity.Actor, id string) error {
	return uc.setDeleted(ctx, actor, id, true)
}

// Restore brings a soft-deleted order back into the current view.
func (uc *UseCase) Restore(ctx context.Context, actor entity.Actor, id string) error {
	return uc.setDeleted(ctx, actor, id, false)
}

func (uc *UseCase) setDeleted(ctx context.Context, actor entity.Actor, id string, deleted bool) error {
	p, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if !policy.CanSoftDelete(actor, p) {
		return domain.ErrForbidden
	}
	if p.IsDeleted == deleted {
		return nil
	}
	p.IsDeleted = deleted
	p.UpdatedAt = time.Now()
	return uc.purchases.Update(ctx, p)
}

// Statistics aggregates the pipeline. Requesters get numbers over their own
// orders only; everyone else sees the whole pipeline.
func (uc *UseCase) Statistics(ctx context.Context, actor entity.Actor) (*dto.StatisticsResponse, error) {
	ownerID := ""
	if actor.Role == entity.RoleRequester {
		ownerID = actor.ID
	}
	s, err := uc.purchases.Stats(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &dto.StatisticsResponse{
		TotalOrders:     s.TotalOrders,
		PendingApproval: s.PendingApproval,
		ApprovedOrders:  s.ApprovedOrders,
		PurchasedOrders: s.PurchasedOrders,
		ShippedOrders:   s.ShippedOrders,
		ArrivedOrders:   s.ArrivedOrders,
		TotalValue:      s.TotalValue,
	}, nil
}

// OrderSheet renders the printable sheet for a single order, subject to the
// same read policy as GetByID.
func (uc *UseCase) OrderSheet(ctx context.Context, actor entity.Actor, id string) ([]byte, error) {
	p, err := uc.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return uc.sheets.Render(p)
}

func (uc *UseCase) visible(ctx context.Context, actor entity.Actor, id string) (*entity.Purchase, error) {
	p, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if !policy.CanView(actor, p) {
		return nil, domain.ErrForbidden
	}
	return p, nil
}
