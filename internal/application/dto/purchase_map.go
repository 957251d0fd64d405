package dto

import (
	"github.com/shopspring/decimal"

	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
)

// FromPurchase maps an order to its API representation, computing the
// derived fields against the configured executive threshold.
func FromPurchase(p *entity.Purchase, execThreshold decimal.Decimal) PurchaseResponse {
	return PurchaseResponse{
		ID:                p.ID,
		UserID:            p.UserID,
		ItemName:          p.ItemName,
		VendorName:        p.VendorName,
		ItemLink:          p.ItemLink,
		Price:             p.Price,
		ShippingCost:      p.ShippingCost,
		Quantity:          p.Quantity,
		Subteam:           p.Subteam,
		Subproject:        p.Subproject,
		Purpose:           p.Purpose,
		Notes:             p.Notes,
		RequesterName:     p.RequesterName,
		RequesterEmail:    p.RequesterEmail,
		ApprovalStatus:    string(p.ApprovalStatus),
		Status:            string(p.FulfillmentStatus),
		Urgency:           string(p.Urgency),
		SubleadEmail:      p.SubleadEmail,
		ExecEmail:         p.ExecEmail,
		ArrivalPhoto:      p.ArrivalPhoto,
		IsDeleted:         p.IsDeleted,
		IsResolved:        p.IsResolved,
		ShippedAt:         p.ShippedAt,
		ArrivedAt:         p.ArrivedAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		TotalCost:         p.TotalCost(),
		NeedsExecApproval: p.NeedsExecutiveApproval(execThreshold),
		CanBePurchased:    p.CanBePurchased(),
		IsPendingApproval: p.ApprovalStatus.Pending(),
	}
}
