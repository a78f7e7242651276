package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/employee"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, external_user_id, chat_id, full_name, role, status,
	geo_latitude, geo_longitude, geo_radius_meters,
	created_at, updated_at
`

// Create implements employee.Repository.
func (r *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, external_user_id, chat_id, full_name, role, status,
			geo_latitude, geo_longitude, geo_radius_meters,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	var lat, lng, radius *float64
	if emp.Geofence != nil {
		lat = &emp.Geofence.Latitude
		lng = &emp.Geofence.Longitude
		radius = &emp.Geofence.RadiusMeters
	}

	err := q.QueryRow(ctx, query,
		emp.ExternalUserID,
		emp.ChatID,
		emp.FullName,
		emp.Role,
		emp.Status,
		lat, lng, radius,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrExternalUserExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return emp, nil
}

// GetByID implements employee.Repository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// GetByExternalUserID implements employee.Repository.
func (r *employeeRepository) GetByExternalUserID(ctx context.Context, externalUserID string) (employee.Employee, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE external_user_id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, externalUserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by external user id: %w", err)
	}
	return emp, nil
}

// Update implements employee.Repository.
func (r *employeeRepository) Update(ctx context.Context, emp employee.Employee) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE employees
		SET full_name = $2,
			role = $3,
			chat_id = $4,
			geo_latitude = $5,
			geo_longitude = $6,
			geo_radius_meters = $7,
			updated_at = NOW()
		WHERE id = $1
	`

	var lat, lng, radius *float64
	if emp.Geofence != nil {
		lat = &emp.Geofence.Latitude
		lng = &emp.Geofence.Longitude
		radius = &emp.Geofence.RadiusMeters
	}

	tag, err := q.Exec(ctx, query, emp.ID, emp.FullName, emp.Role, emp.ChatID, lat, lng, radius)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// SetStatus implements employee.Repository.
func (r *employeeRepository) SetStatus(ctx context.Context, id string, status employee.Status) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `UPDATE employees SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to set employee status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// List implements employee.Repository.
func (r *employeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	return r.list(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY full_name`)
}

// ListActive implements employee.Repository.
func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return r.list(ctx, `SELECT `+employeeColumns+` FROM employees WHERE status = 'active' ORDER BY full_name`)
}

func (r *employeeRepository) list(ctx context.Context, query string) ([]employee.Employee, error) {
	q := database.QuerierFrom(ctx, r.db)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	var lat, lng, radius *float64

	err := row.Scan(
		&emp.ID, &emp.ExternalUserID, &emp.ChatID, &emp.FullName, &emp.Role, &emp.Status,
		&lat, &lng, &radius,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	if lat != nil && lng != nil && radius != nil {
		emp.Geofence = &employee.Geofence{
			Latitude:     *lat,
			Longitude:    *lng,
			RadiusMeters: *radius,
		}
	}
	return emp, nil
}
