package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/advance"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/database"
)

type advanceRepository struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.Repository {
	return &advanceRepository{db: db}
}

const advanceColumns = `
	a.id, a.employee_id, a.amount, a.reason, a.outstanding_at_submit,
	a.status, a.resolver_id, a.resolved_at, a.rejection_reason,
	a.settled, a.settled_at,
	a.submitted_at, a.created_at, a.updated_at
`

// CreateWithinCap implements advance.Repository. The insert reads the live
// outstanding balance in the same statement and only lands when the new
// amount still fits under the cap.
func (r *advanceRepository) CreateWithinCap(ctx context.Context, req advance.Request, cap decimal.Decimal) (advance.Request, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		INSERT INTO advance_requests (
			id, employee_id, amount, reason, outstanding_at_submit,
			status, settled, submitted_at, created_at, updated_at
		)
		SELECT uuidv7(), $1, $2, $3, o.total, $4, FALSE, $5, NOW(), NOW()
		FROM (
			SELECT COALESCE(SUM(amount), 0) AS total
			FROM advance_requests
			WHERE employee_id = $1
			  AND status = 'approved'
			  AND settled = FALSE
		) o
		WHERE o.total + $2 <= $6
		  AND NOT EXISTS (
			SELECT 1 FROM advance_requests
			WHERE employee_id = $1
			  AND amount = $2
			  AND reason = $3
			  AND status = 'pending'
		  )
		RETURNING id, outstanding_at_submit, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EmployeeID,
		req.Amount,
		req.Reason,
		req.Status,
		req.SubmittedAt,
		cap,
	).Scan(&req.ID, &req.OutstandingAtSubmit, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The insert skips for either precondition; tell a replayed
			// submission apart from one over the cap.
			duplicate, dupErr := r.hasIdenticalPending(ctx, q, req)
			if dupErr != nil {
				return advance.Request{}, dupErr
			}
			if duplicate {
				return advance.Request{}, advance.ErrDuplicateRequest
			}
			return advance.Request{}, advance.ErrCapExceeded
		}
		return advance.Request{}, fmt.Errorf("failed to create advance request: %w", err)
	}

	return req, nil
}

func (r *advanceRepository) hasIdenticalPending(ctx context.Context, q database.Querier, req advance.Request) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM advance_requests
			WHERE employee_id = $1
			  AND amount = $2
			  AND reason = $3
			  AND status = 'pending'
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, req.EmployeeID, req.Amount, req.Reason).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check for duplicate advance request: %w", err)
	}
	return exists, nil
}

// GetByID implements advance.Repository.
func (r *advanceRepository) GetByID(ctx context.Context, id string) (advance.Request, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT ` + advanceColumns + `, e.full_name
		FROM advance_requests a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	req, err := scanAdvanceRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.Request{}, advance.ErrRequestNotFound
		}
		return advance.Request{}, fmt.Errorf("failed to get advance request: %w", err)
	}
	return req, nil
}

// OutstandingTotal implements advance.Repository.
func (r *advanceRepository) OutstandingTotal(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM advance_requests
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND settled = FALSE
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum outstanding advances: %w", err)
	}
	return total, nil
}

// UpdateStatusIf implements advance.Repository.
func (r *advanceRepository) UpdateStatusIf(ctx context.Context, id string, from, to advance.Status, resolverID *string, rejectionReason *string, at time.Time) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE advance_requests
		SET status = $3,
			resolver_id = $4,
			resolved_at = CASE WHEN $4::uuid IS NULL THEN resolved_at ELSE $6 END,
			rejection_reason = $5,
			updated_at = NOW()
		WHERE id = $1
		  AND status = $2
	`

	tag, err := q.Exec(ctx, query, id, from, to, resolverID, rejectionReason, at)
	if err != nil {
		return fmt.Errorf("failed to update advance request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return advance.ErrAlreadyResolved
	}
	return nil
}

// ListPending implements advance.Repository.
func (r *advanceRepository) ListPending(ctx context.Context) ([]advance.Request, error) {
	query := `
		SELECT ` + advanceColumns + `, e.full_name
		FROM advance_requests a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.status = 'pending'
		ORDER BY a.submitted_at, a.id
	`
	return r.list(ctx, query)
}

// ListByEmployee implements advance.Repository.
func (r *advanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]advance.Request, error) {
	query := `
		SELECT ` + advanceColumns + `, e.full_name
		FROM advance_requests a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1
		ORDER BY a.submitted_at DESC
	`
	return r.list(ctx, query, employeeID)
}

// ApprovedTotalInRange implements advance.Repository.
func (r *advanceRepository) ApprovedTotalInRange(ctx context.Context, employeeID string, from, to time.Time) (decimal.Decimal, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM advance_requests
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND resolved_at >= $2
		  AND resolved_at < $3 + INTERVAL '1 day'
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to total period advances: %w", err)
	}
	return total, nil
}

// SettleApproved implements advance.Repository.
func (r *advanceRepository) SettleApproved(ctx context.Context, employeeID string, at time.Time) (int64, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE advance_requests
		SET settled = TRUE,
			settled_at = $2,
			updated_at = NOW()
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND settled = FALSE
	`

	tag, err := q.Exec(ctx, query, employeeID, at)
	if err != nil {
		return 0, fmt.Errorf("failed to settle advances: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *advanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]advance.Request, error) {
	q := database.QuerierFrom(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list advance requests: %w", err)
	}
	defer rows.Close()

	var requests []advance.Request
	for rows.Next() {
		req, err := scanAdvanceRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func scanAdvanceRequest(row pgx.Row) (advance.Request, error) {
	var req advance.Request
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.Amount, &req.Reason, &req.OutstandingAtSubmit,
		&req.Status, &req.ResolverID, &req.ResolvedAt, &req.RejectionReason,
		&req.Settled, &req.SettledAt,
		&req.SubmittedAt, &req.CreatedAt, &req.UpdatedAt,
		&req.EmployeeName,
	)
	if err != nil {
		return advance.Request{}, err
	}
	return req, nil
}
