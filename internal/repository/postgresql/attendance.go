package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/attendance"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.date,
	a.check_in_at, a.check_in_latitude, a.check_in_longitude,
	a.check_out_at, a.check_out_latitude, a.check_out_longitude,
	a.status, a.violations,
	a.flagged_at, a.resolved_by, a.resolved_at,
	a.created_at, a.updated_at
`

// Create implements attendance.Repository. The unique (employee_id, date)
// index turns a concurrent duplicate into a no-op insert, which surfaces
// here as ErrAlreadyCheckedIn.
func (r *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date,
			check_in_at, check_in_latitude, check_in_longitude,
			status, violations, flagged_at,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.EmployeeID,
		rec.Date,
		rec.CheckInAt,
		rec.CheckInLat,
		rec.CheckInLng,
		rec.Status,
		rec.Violations,
		rec.FlaggedAt,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return rec, nil
}

// GetByID implements attendance.Repository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `, e.full_name
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	rec, err := scanAttendanceRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return rec, nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `, e.full_name
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.date = $2
	`

	rec, err := scanAttendanceRecord(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return rec, nil
}

// CompleteCheckOut implements attendance.Repository. The open-record and
// ordering preconditions live in the WHERE clause; a zero row count is then
// discriminated into the precise domain error.
func (r *attendanceRepository) CompleteCheckOut(ctx context.Context, id string, at time.Time, lat, lng float64, status attendance.Status, violations []string) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET check_out_at = $2,
			check_out_latitude = $3,
			check_out_longitude = $4,
			status = $5,
			violations = $6,
			flagged_at = CASE WHEN $5 = 'flagged' AND flagged_at IS NULL THEN $2 ELSE flagged_at END,
			updated_at = NOW()
		WHERE id = $1
		  AND check_out_at IS NULL
		  AND status IN ('checked_in', 'flagged')
		  AND $2 > check_in_at
	`

	tag, err := q.Exec(ctx, query, id, at, lat, lng, status, violations)
	if err != nil {
		return fmt.Errorf("failed to complete check-out: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	rec, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.Open() && !at.After(rec.CheckInAt) {
		return attendance.ErrCheckOutBeforeCheckIn
	}
	return attendance.ErrNotCheckedIn
}

// ResolveFlagged implements attendance.Repository.
func (r *attendanceRepository) ResolveFlagged(ctx context.Context, id string, decision attendance.Status, resolverID string, at time.Time) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET status = $2,
			resolved_by = $3,
			resolved_at = $4,
			updated_at = NOW()
		WHERE id = $1
		  AND status = 'flagged'
	`

	tag, err := q.Exec(ctx, query, id, decision, resolverID, at)
	if err != nil {
		return fmt.Errorf("failed to resolve attendance record: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	rec, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch rec.Status {
	case attendance.StatusApproved, attendance.StatusRejected:
		return attendance.ErrAlreadyResolved
	default:
		return attendance.ErrNotFlagged
	}
}

// FlagOpen implements attendance.Repository.
func (r *attendanceRepository) FlagOpen(ctx context.Context, id string, violation string, at time.Time) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET status = 'flagged',
			violations = array_append(violations, $2),
			flagged_at = COALESCE(flagged_at, $3),
			updated_at = NOW()
		WHERE id = $1
		  AND check_out_at IS NULL
		  AND status IN ('checked_in', 'flagged')
		  AND NOT ($2 = ANY(violations))
	`

	tag, err := q.Exec(ctx, query, id, violation, at)
	if err != nil {
		return fmt.Errorf("failed to flag attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrNotCheckedIn
	}
	return nil
}

// ListFlagged implements attendance.Repository.
func (r *attendanceRepository) ListFlagged(ctx context.Context) ([]attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + `, e.full_name
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.status = 'flagged'
		ORDER BY a.flagged_at, a.id
	`
	return r.list(ctx, query)
}

// ListOpenBefore implements attendance.Repository.
func (r *attendanceRepository) ListOpenBefore(ctx context.Context, cutoff time.Time) ([]attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + `, e.full_name
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.check_out_at IS NULL
		  AND a.status IN ('checked_in', 'flagged')
		  AND a.check_in_at < $1
		ORDER BY a.check_in_at
	`
	return r.list(ctx, query, cutoff)
}

// ListByEmployeeAndRange implements attendance.Repository.
func (r *attendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + `, e.full_name
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1
		  AND a.date BETWEEN $2 AND $3
		ORDER BY a.date DESC
	`
	return r.list(ctx, query, employeeID, from, to)
}

// CountWorkedDays implements attendance.Repository.
func (r *attendanceRepository) CountWorkedDays(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM attendance_records
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
		  AND status IN ('completed', 'approved')
	`

	var count int
	if err := q.QueryRow(ctx, query, employeeID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count worked days: %w", err)
	}
	return count, nil
}

func (r *attendanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	q := database.QuerierFrom(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendanceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanAttendanceRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date,
		&rec.CheckInAt, &rec.CheckInLat, &rec.CheckInLng,
		&rec.CheckOutAt, &rec.CheckOutLat, &rec.CheckOutLng,
		&rec.Status, &rec.Violations,
		&rec.FlaggedAt, &rec.ResolvedBy, &rec.ResolvedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	return rec, nil
}
