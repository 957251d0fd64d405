package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest payload for POST /api/purchases.
// SubleadVerifier/ExecVerifier designate the only accounts allowed to act on
// the corresponding approval stage; which of them is required depends on the
// creator's role and the executive-approval predicate.
type CreatePurchaseRequest struct {
	ItemName        string          `json:"item_name"`
	VendorName      string          `json:"vendor_name"`
	ItemLink        string          `json:"item_link"`
	Price           decimal.Decimal `json:"price"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Quantity        int             `json:"quantity"`
	Subteam         string          `json:"subteam"`
	Subproject      string          `json:"subproject"`
	Purpose         string          `json:"purpose"`
	Notes           string          `json:"notes"`
	Urgency         string          `json:"urgency"`
	SubleadVerifier string          `json:"sublead_verifier"`
	ExecVerifier    string          `json:"exec_verifier"`
}

// DecisionRequest payload for approve/reject.
type DecisionRequest struct {
	Reason string `json:"reason"`
}

// UpdateStatusRequest payload for PUT /api/purchases/{id}/status.
// Photo is the stored upload reference, required when Status is "Arrived".
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Photo  string `json:"photo"`
}

// PurchaseResponse full order representation including derived fields.
type PurchaseResponse struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	ItemName          string          `json:"item_name"`
	VendorName        string          `json:"vendor_name"`
	ItemLink          string          `json:"item_link,omitempty"`
	Price             decimal.Decimal `json:"price"`
	ShippingCost      decimal.Decimal `json:"shipping_cost"`
	Quantity          int             `json:"quantity"`
	Subteam           string          `json:"subteam"`
	Subproject        string          `json:"subproject,omitempty"`
	Purpose           string          `json:"purpose,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	RequesterName     string          `json:"requester_name"`
	RequesterEmail    string          `json:"requester_email"`
	ApprovalStatus    string          `json:"approval_status"`
	Status            string          `json:"status"`
	Urgency           string          `json:"urgency"`
	SubleadEmail      string          `json:"sublead_email,omitempty"`
	ExecEmail         string          `json:"exec_email,omitempty"`
	ArrivalPhoto      string          `json:"arrival_photo,omitempty"`
	IsDeleted         bool            `json:"is_deleted"`
	IsResolved        bool            `json:"is_resolved"`
	ShippedAt         *time.Time      `json:"shipped_at,omitempty"`
	ArrivedAt         *time.Time      `json:"arrived_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	NeedsExecApproval bool            `json:"needs_executive_approval"`
	CanBePurchased    bool            `json:"can_be_purchased"`
	IsPendingApproval bool            `json:"is_pending_approval"`
}

// PurchaseListResponse paginated scoped listing.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StatisticsResponse pipeline aggregates.
type StatisticsResponse struct {
	TotalOrders     int             `json:"total_orders"`
	PendingApproval int             `json:"pending_approval"`
	ApprovedOrders  int             `json:"approved_orders"`
	PurchasedOrders int             `json:"purchased_orders"`
	ShippedOrders   int             `json:"shipped_orders"`
	ArrivedOrders   int             `json:"arrived_orders"`
	TotalValue      decimal.Decimal `json:"total_value"`
}

// UploadResponse stored file reference.
type UploadResponse struct {
	Filename string `json:"filename"`
}
