// Package ports declares the outbound contracts the use cases depend on.
// Implementations live under internal/infrastructure.
package ports

import (
	"context"
	"io"

	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
	"github.com/mit-motorsports/purchasing-api/internal/domain/repository"
)

// TxRunner executes a callback within a storage transaction; the purchase
// repository handed to fn is bound to that transaction. State transitions run
// inside it so the row lock taken by GetForUpdate holds until commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repo repository.PurchaseRepository) error) error
}

// NotificationPort delivers outbound notifications. Every method is
// best-effort: callers log failures and never roll back a committed
// transition because of them.
type NotificationPort interface {
	// NotifyApprovalRequested asks the designated approver to act on the order.
	NotifyApprovalRequested(p *entity.Purchase, approverEmail, stage string) error
	// NotifyApprovalStatus tells the requester the outcome ("approved" or
	// "rejected"); reason may be empty.
	NotifyApprovalStatus(p *entity.Purchase, outcome, reason string) error
	// NotifyStatusChanged tells the requester the fulfillment stage moved.
	NotifyStatusChanged(p *entity.Purchase, oldStatus, newStatus entity.FulfillmentStatus) error
	// NotifyArrived tells the requester the order has arrived.
	NotifyArrived(p *entity.Purchase) error
}

// FileStore validates and persists uploaded files (arrival photos).
type FileStore interface {
	// Save validates filename (extension) and size, stores the content and
	// returns the stored reference. Returns domain.ErrValidation for files
	// that cannot be accepted.
	Save(ctx context.Context, filename string, content io.Reader, size int64) (string, error)
	// Exists reports whether a previously stored reference is present.
	Exists(ref string) bool
}

// OrderSheetRenderer produces the printable order sheet for a purchase.
type OrderSheetRenderer interface {
	Render(p *entity.Purchase) ([]byte, error)
}

// Directory resolves an email to its role using the approved-email allowlist
// loaded at startup. Registration and seeding consume this contract.
type Directory interface {
	// ResolveRole returns the role for email, or domain.ErrEmailNotApproved.
	ResolveRole(email string) (entity.Role, error)
}
