package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/leave"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/database"
)

type leaveQuotaRepository struct {
	db *database.DB
}

func NewLeaveQuotaRepository(db *database.DB) leave.QuotaRepository {
	return &leaveQuotaRepository{db: db}
}

const leaveQuotaColumns = `
	id, employee_id, type, year, allocated_days, used_days, created_at, updated_at
`

// Get implements leave.QuotaRepository.
func (r *leaveQuotaRepository) Get(ctx context.Context, employeeID string, typ leave.Type, year int) (leave.Quota, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT ` + leaveQuotaColumns + `
		FROM leave_quotas
		WHERE employee_id = $1 AND type = $2 AND year = $3
	`

	quota, err := scanLeaveQuota(q.QueryRow(ctx, query, employeeID, typ, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Quota{}, leave.ErrQuotaNotFound
		}
		return leave.Quota{}, fmt.Errorf("failed to get leave quota: %w", err)
	}
	return quota, nil
}

// GetByEmployeeAndYear implements leave.QuotaRepository.
func (r *leaveQuotaRepository) GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]leave.Quota, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT ` + leaveQuotaColumns + `
		FROM leave_quotas
		WHERE employee_id = $1 AND year = $2
		ORDER BY type
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave quotas: %w", err)
	}
	defer rows.Close()

	var quotas []leave.Quota
	for rows.Next() {
		quota, err := scanLeaveQuota(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave quota: %w", err)
		}
		quotas = append(quotas, quota)
	}
	return quotas, rows.Err()
}

// Upsert implements leave.QuotaRepository. Used days survive an allocation
// change.
func (r *leaveQuotaRepository) Upsert(ctx context.Context, quota leave.Quota) (leave.Quota, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		INSERT INTO leave_quotas (
			id, employee_id, type, year, allocated_days, used_days, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, 0, NOW(), NOW()
		)
		ON CONFLICT (employee_id, type, year)
		DO UPDATE SET allocated_days = EXCLUDED.allocated_days, updated_at = NOW()
		RETURNING ` + leaveQuotaColumns + `
	`

	updated, err := scanLeaveQuota(q.QueryRow(ctx, query, quota.EmployeeID, quota.Type, quota.Year, quota.AllocatedDays))
	if err != nil {
		return leave.Quota{}, fmt.Errorf("failed to upsert leave quota: %w", err)
	}
	return updated, nil
}

// ConsumeIfAvailable implements leave.QuotaRepository. The balance check
// and the decrement are one statement, so two concurrent approvals can
// never both draw the last days.
func (r *leaveQuotaRepository) ConsumeIfAvailable(ctx context.Context, employeeID string, typ leave.Type, year int, days int) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE leave_quotas
		SET used_days = used_days + $4,
			updated_at = NOW()
		WHERE employee_id = $1
		  AND type = $2
		  AND year = $3
		  AND allocated_days - used_days >= $4
	`

	tag, err := q.Exec(ctx, query, employeeID, typ, year, days)
	if err != nil {
		return fmt.Errorf("failed to consume leave quota: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the quota row is missing or the balance is short; both
		// block the approval the same way.
		if _, getErr := r.Get(ctx, employeeID, typ, year); errors.Is(getErr, leave.ErrQuotaNotFound) {
			return leave.ErrQuotaNotFound
		}
		return leave.ErrQuotaExceeded
	}
	return nil
}

func scanLeaveQuota(row pgx.Row) (leave.Quota, error) {
	var quota leave.Quota
	err := row.Scan(
		&quota.ID, &quota.EmployeeID, &quota.Type, &quota.Year,
		&quota.AllocatedDays, &quota.UsedDays,
		&quota.CreatedAt, &quota.UpdatedAt,
	)
	if err != nil {
		return leave.Quota{}, err
	}
	return quota, nil
}
