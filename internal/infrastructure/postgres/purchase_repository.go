package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
	"github.com/mit-motorsports/purchasing-api/internal/domain/policy"
	"github.com/mit-motorsports/purchasing-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, user_id, item_name, vendor_name, item_link, quantity, price, shipping_cost,
	subteam, subproject, purpose, notes, requester_name, requester_email,
	approval_status, fulfillment_status, urgency, sublead_email, exec_email,
	arrival_photo, is_deleted, is_resolved, shipped_at, arrived_at, created_at, updated_at`

// PurchaseRepo implements the PurchaseRepository port over PostgreSQL.
// Usable with a pool or a tx (Querier).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository builds the purchase persistence adapter.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persists a new purchase order.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.UserID, p.ItemName, p.VendorName, p.ItemLink, p.Quantity, p.Price, p.ShippingCost,
		p.Subteam, p.Subproject, p.Purpose, p.Notes, p.RequesterName, p.RequesterEmail,
		p.ApprovalStatus, p.FulfillmentStatus, p.Urgency, p.SubleadEmail, p.ExecEmail,
		p.ArrivalPhoto, p.IsDeleted, p.IsResolved, p.ShippedAt, p.ArrivedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// GetByID fetches an order by ID. Returns (nil, nil) when absent.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.getOne(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id)
}

// GetForUpdate fetches an order by ID taking a row lock. Must run inside a
// transaction; the lock holds until commit or rollback.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.getOne(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseRepo) getOne(ctx context.Context, query string, arg any) (*entity.Purchase, error) {
	row := r.q.QueryRow(ctx, query, arg)
	p, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// Update rewrites the mutable order fields.
func (r *PurchaseRepo) Update(ctx context.Context, p *entity.Purchase) error {
	query := `
		UPDATE purchases
		SET item_name = $2, vendor_name = $3, item_link = $4, quantity = $5, price = $6,
			shipping_cost = $7, subteam = $8, subproject = $9, purpose = $10, notes = $11,
			approval_status = $12, fulfillment_status = $13, urgency = $14,
			sublead_email = $15, exec_email = $16, arrival_photo = $17,
			is_deleted = $18, is_resolved = $19, shipped_at = $20, arrived_at = $21, updated_at = $22
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.ItemName, p.VendorName, p.ItemLink, p.Quantity, p.Price,
		p.ShippingCost, p.Subteam, p.Subproject, p.Purpose, p.Notes,
		p.ApprovalStatus, p.FulfillmentStatus, p.Urgency,
		p.SubleadEmail, p.ExecEmail, p.ArrivalPhoto,
		p.IsDeleted, p.IsResolved, p.ShippedAt, p.ArrivedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update purchase: no rows affected")
	}
	return nil
}

// List returns the orders visible under scope, filtered and paginated, plus
// the total count before pagination. Newest first.
func (r *PurchaseRepo) List(ctx context.Context, scope policy.Scope, filter repository.ListFilter) ([]*entity.Purchase, int, error) {
	where, args := buildWhere(scope, filter)

	var total int
	countQuery := `SELECT count(*) FROM purchases` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	query := `SELECT ` + purchaseColumns + ` FROM purchases` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var out []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	return out, total, nil
}

// buildWhere translates the visibility scope plus the optional filters into a
// WHERE clause. It mirrors policy.Scope.Matches.
func buildWhere(scope policy.Scope, filter repository.ListFilter) (string, []any) {
	var conds []string
	var args []any

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch scope.View {
	case policy.ViewCurrent:
		conds = append(conds, "is_deleted = FALSE", "fulfillment_status <> "+next(entity.FulfillmentArrived))
	case policy.ViewHistory:
		conds = append(conds, "(is_deleted = TRUE OR fulfillment_status = "+next(entity.FulfillmentArrived)+")")
	default:
		var union []string
		if scope.OwnerID != "" {
			union = append(union, "user_id = "+next(scope.OwnerID))
		}
		if scope.OwnerEmail != "" {
			union = append(union, "requester_email = "+next(scope.OwnerEmail))
		}
		if scope.PendingStatus != "" && scope.DesignatedTo != "" {
			col := "sublead_email"
			if scope.PendingStatus == entity.ApprovalPendingExecutive {
				col = "exec_email"
			}
			union = append(union, "(approval_status = "+next(scope.PendingStatus)+" AND "+col+" = "+next(scope.DesignatedTo)+")")
		}
		if len(scope.HandlingStages) > 0 {
			stages := make([]string, 0, len(scope.HandlingStages))
			for _, st := range scope.HandlingStages {
				stages = append(stages, next(st))
			}
			union = append(union, "(approval_status = "+next(entity.ApprovalFullyApproved)+
				" AND fulfillment_status IN ("+strings.Join(stages, ", ")+"))")
		}
		if len(union) > 0 {
			conds = append(conds, "("+strings.Join(union, " OR ")+")")
		}
		if !filter.IncludeDeleted {
			conds = append(conds, "is_deleted = FALSE")
		}
	}

	if filter.FulfillmentStatus != "" {
		conds = append(conds, "fulfillment_status = "+next(filter.FulfillmentStatus))
	}
	if filter.ApprovalStatus != "" {
		conds = append(conds, "approval_status = "+next(filter.ApprovalStatus))
	}
	if filter.Subteam != "" {
		conds = append(conds, "subteam = "+next(filter.Subteam))
	}
	if filter.Search != "" {
		pattern := next("%" + filter.Search + "%")
		conds = append(conds, "(item_name ILIKE "+pattern+" OR vendor_name ILIKE "+pattern+" OR requester_name ILIKE "+pattern+")")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Stats aggregates the pipeline. ownerID narrows to one requester's orders;
// empty means everyone. Deleted orders stay out of the numbers.
func (r *PurchaseRepo) Stats(ctx context.Context, ownerID string) (*repository.Stats, error) {
	query := `
		SELECT
			count(*),
			count(*) FILTER (WHERE approval_status IN ($1, $2)),
			count(*) FILTER (WHERE approval_status = $3),
			count(*) FILTER (WHERE fulfillment_status = $4),
			count(*) FILTER (WHERE fulfillment_status = $5),
			count(*) FILTER (WHERE fulfillment_status = $6),
			COALESCE(sum(price + shipping_cost), 0)
		FROM purchases
		WHERE is_deleted = FALSE`
	args := []any{
		entity.ApprovalPendingSublead, entity.ApprovalPendingExecutive,
		entity.ApprovalFullyApproved,
		entity.FulfillmentPurchased, entity.FulfillmentShipped, entity.FulfillmentArrived,
	}
	if ownerID != "" {
		query += ` AND user_id = $7`
		args = append(args, ownerID)
	}

	var s repository.Stats
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.TotalOrders, &s.PendingApproval, &s.ApprovedOrders,
		&s.PurchasedOrders, &s.ShippedOrders, &s.ArrivedOrders, &s.TotalValue,
	)
	if err != nil {
		return nil, fmt.Errorf("purchase stats: %w", err)
	}
	return &s, nil
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(
		&p.ID, &p.UserID, &p.ItemName, &p.VendorName, &p.ItemLink, &p.Quantity, &p.Price, &p.ShippingCost,
		&p.Subteam, &p.Subproject, &p.Purpose, &p.Notes, &p.RequesterName, &p.RequesterEmail,
		&p.ApprovalStatus, &p.FulfillmentStatus, &p.Urgency, &p.SubleadEmail, &p.ExecEmail,
		&p.ArrivalPhoto, &p.IsDeleted, &p.IsResolved, &p.ShippedAt, &p.ArrivedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
