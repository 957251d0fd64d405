package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalStatus is the human sign-off stage of a purchase order.
type ApprovalStatus string

const (
	ApprovalPendingSublead   ApprovalStatus = "Pending Sublead Approval"
	ApprovalPendingExecutive ApprovalStatus = "Pending Executive Approval"
	ApprovalFullyApproved    ApprovalStatus = "Fully Approved"
	ApprovalRejected         ApprovalStatus = "Rejected"
)

// Valid reports whether s is one of the known approval statuses.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPendingSublead, ApprovalPendingExecutive, ApprovalFullyApproved, ApprovalRejected:
		return true
	}
	return false
}

// Pending reports whether the order still awaits a human decision.
func (s ApprovalStatus) Pending() bool {
	return s == ApprovalPendingSublead || s == ApprovalPendingExecutive
}

// FulfillmentStatus is the physical procurement stage of a purchase order.
type FulfillmentStatus string

const (
	FulfillmentNotPurchased FulfillmentStatus = "Not Yet Purchased"
	FulfillmentPurchased    FulfillmentStatus = "Purchased"
	FulfillmentShipped      FulfillmentStatus = "Shipped"
	FulfillmentArrived      FulfillmentStatus = "Arrived"
	FulfillmentCancelled    FulfillmentStatus = "Cancelled"
)

// Valid reports whether s is one of the known fulfillment statuses.
func (s FulfillmentStatus) Valid() bool {
	switch s {
	case FulfillmentNotPurchased, FulfillmentPurchased, FulfillmentShipped,
		FulfillmentArrived, FulfillmentCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further fulfillment transition is valid.
func (s FulfillmentStatus) Terminal() bool {
	return s == FulfillmentArrived || s == FulfillmentCancelled
}

// fulfillmentPredecessor is the explicit forward-transition table:
// each status maps to the only status it may be reached from.
var fulfillmentPredecessor = map[FulfillmentStatus]FulfillmentStatus{
	FulfillmentPurchased: FulfillmentNotPurchased,
	FulfillmentShipped:   FulfillmentPurchased,
	FulfillmentArrived:   FulfillmentShipped,
}

// CanAdvanceTo reports whether a forward transition from s to next is allowed.
// Cancellation is handled separately (administrative override).
func (s FulfillmentStatus) CanAdvanceTo(next FulfillmentStatus) bool {
	prev, ok := fulfillmentPredecessor[next]
	return ok && s == prev
}

// Urgency classifies a purchase request.
type Urgency string

const (
	UrgencyNeither      Urgency = "Neither"
	UrgencyUrgent       Urgency = "Urgent"
	UrgencySpecialLarge Urgency = "Special/Large"
	UrgencyBoth         Urgency = "Both"
)

// Valid reports whether u is one of the known urgency levels.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyNeither, UrgencyUrgent, UrgencySpecialLarge, UrgencyBoth:
		return true
	}
	return false
}

// Purchase is a purchase order moving through the dual approval/fulfillment
// lifecycle. Descriptive fields are immutable after creation; requester name
// and email are snapshotted at creation independent of the User record.
type Purchase struct {
	ID     string
	UserID string

	// Item details
	ItemName   string
	VendorName string
	ItemLink   string
	Quantity   int

	// Pricing
	Price        decimal.Decimal
	ShippingCost decimal.Decimal

	// Organization
	Subteam    string
	Subproject string
	Purpose    string
	Notes      string

	// Requester snapshot
	RequesterName  string
	RequesterEmail string

	// Status tracking
	ApprovalStatus    ApprovalStatus
	FulfillmentStatus FulfillmentStatus
	Urgency           Urgency

	// Designated approvers; once set, the only accounts authorized to act
	// on the corresponding pending stage.
	SubleadEmail string
	ExecEmail    string

	ArrivalPhoto string

	IsDeleted  bool
	IsResolved bool

	ShippedAt *time.Time
	ArrivedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalCost is price plus shipping; this value, not price alone, feeds the
// executive-approval threshold.
func (p *Purchase) TotalCost() decimal.Decimal {
	return p.Price.Add(p.ShippingCost)
}

// IsUrgent reports whether the order is flagged urgent.
func (p *Purchase) IsUrgent() bool {
	return p.Urgency == UrgencyUrgent || p.Urgency == UrgencyBoth
}

// IsSpecialLarge reports whether the order is flagged special/large.
func (p *Purchase) IsSpecialLarge() bool {
	return p.Urgency == UrgencySpecialLarge || p.Urgency == UrgencyBoth
}

// NeedsExecutiveApproval reports whether the order requires the executive
// stage: urgent or special/large, or total cost above the threshold.
func (p *Purchase) NeedsExecutiveApproval(threshold decimal.Decimal) bool {
	return p.IsUrgent() || p.IsSpecialLarge() || p.TotalCost().GreaterThan(threshold)
}

// CanBePurchased reports whether procurement may begin.
func (p *Purchase) CanBePurchased() bool {
	return p.ApprovalStatus == ApprovalFullyApproved
}

// IsArchived reports whether the order belongs to the history view:
// soft-deleted or fully delivered.
func (p *Purchase) IsArchived() bool {
	return p.IsDeleted || p.FulfillmentStatus == FulfillmentArrived
}
