package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/leave"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	l.id, l.employee_id, l.type, l.start_date, l.end_date, l.days, l.reason,
	l.status, l.resolver_id, l.resolved_at, l.rejection_reason,
	l.submitted_at, l.created_at, l.updated_at
`

// Create implements leave.RequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, type, start_date, end_date, days, reason,
			status, submitted_at, created_at, updated_at
		)
		SELECT uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		WHERE NOT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND type = $2
			  AND start_date = $3
			  AND end_date = $4
			  AND status = 'pending'
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EmployeeID,
		req.Type,
		req.StartDate,
		req.EndDate,
		req.Days,
		req.Reason,
		req.Status,
		req.SubmittedAt,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrDuplicateRequest
		}
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return req, nil
}

// LockEmployee implements leave.RequestRepository. The advisory lock is
// transaction scoped and released automatically at commit or rollback.
func (r *leaveRequestRepository) LockEmployee(ctx context.Context, employeeID string) error {
	q := database.QuerierFrom(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, employeeID); err != nil {
		return fmt.Errorf("failed to lock employee leave requests: %w", err)
	}
	return nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `, e.full_name
		FROM leave_requests l
		JOIN employees e ON e.id = l.employee_id
		WHERE l.id = $1
	`

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return req, nil
}

// HasApprovedOverlap implements leave.RequestRepository.
func (r *leaveRequestRepository) HasApprovedOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			  AND status = 'approved'
			  AND start_date <= $3
			  AND end_date >= $2
			  AND ($4 = '' OR id <> $4::uuid)
		)
	`

	var overlap bool
	if err := q.QueryRow(ctx, query, employeeID, start, end, excludeID).Scan(&overlap); err != nil {
		return false, fmt.Errorf("failed to check leave overlap: %w", err)
	}
	return overlap, nil
}

// UpdateStatusIf implements leave.RequestRepository.
func (r *leaveRequestRepository) UpdateStatusIf(ctx context.Context, id string, from, to leave.Status, resolverID *string, rejectionReason *string, at time.Time) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE leave_requests
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
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrAlreadyResolved
	}
	return nil
}

// ListPending implements leave.RequestRepository.
func (r *leaveRequestRepository) ListPending(ctx context.Context) ([]leave.Request, error) {
	query := `
		SELECT ` + leaveRequestColumns + `, e.full_name
		FROM leave_requests l
		JOIN employees e ON e.id = l.employee_id
		WHERE l.status = 'pending'
		ORDER BY l.submitted_at, l.id
	`
	return r.list(ctx, query)
}

// ListByEmployee implements leave.RequestRepository.
func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Request, error) {
	query := `
		SELECT ` + leaveRequestColumns + `, e.full_name
		FROM leave_requests l
		JOIN employees e ON e.id = l.employee_id
		WHERE l.employee_id = $1
		ORDER BY l.submitted_at DESC
	`
	return r.list(ctx, query, employeeID)
}

// ListApprovedInRange implements leave.RequestRepository.
func (r *leaveRequestRepository) ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]leave.Request, error) {
	query := `
		SELECT ` + leaveRequestColumns + `, e.full_name
		FROM leave_requests l
		JOIN employees e ON e.id = l.employee_id
		WHERE l.employee_id = $1
		  AND l.status = 'approved'
		  AND l.start_date <= $3
		  AND l.end_date >= $2
		ORDER BY l.start_date
	`
	return r.list(ctx, query, employeeID, from, to)
}

func (r *leaveRequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]leave.Request, error) {
	q := database.QuerierFrom(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var req leave.Request
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.Type, &req.StartDate, &req.EndDate, &req.Days, &req.Reason,
		&req.Status, &req.ResolverID, &req.ResolvedAt, &req.RejectionReason,
		&req.SubmittedAt, &req.CreatedAt, &req.UpdatedAt,
		&req.EmployeeName,
	)
	if err != nil {
		return leave.Request{}, err
	}
	return req, nil
}
