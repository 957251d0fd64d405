package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
	"github.com/mit-motorsports/purchasing-api/internal/domain/policy"
)

// ListFilter narrows a scoped listing. Zero values mean "no filter".
type ListFilter struct {
	FulfillmentStatus entity.FulfillmentStatus
	ApprovalStatus    entity.ApprovalStatus
	Subteam           string
	Search            string // matches item, vendor or requester name
	IncludeDeleted    bool   // ignored by the history view, which includes deleted by definition
	Limit             int
	Offset            int
}

// Stats aggregates the pipeline for the dashboard.
type Stats struct {
	TotalOrders     int
	PendingApproval int
	ApprovedOrders  int
	PurchasedOrders int
	ShippedOrders   int
	ArrivedOrders   int
	TotalValue      decimal.Decimal
}

// PurchaseRepository persistence port for purchase orders.
//
// GetForUpdate must acquire a per-order lock for the lifetime of the
// surrounding transaction, so a transition can re-check its precondition
// before writing. Implementations backing a transaction use SELECT ... FOR
// UPDATE; test fakes may lock trivially.
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	Update(ctx context.Context, p *entity.Purchase) error
	List(ctx context.Context, scope policy.Scope, filter ListFilter) ([]*entity.Purchase, int, error)
	Stats(ctx context.Context, ownerID string) (*Stats, error)
}
