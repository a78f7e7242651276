package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/staffdesk/staffdesk-backend-go/internal/config"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/employee"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/leave"
)

type ServiceImpl struct {
	employees employee.Repository
	quotas    leave.QuotaRepository
	engineCfg config.EngineConfig
	now       func() time.Time
}

func NewService(
	employeeRepo employee.Repository,
	quotaRepo leave.QuotaRepository,
	engineCfg config.EngineConfig,
) employee.Service {
	return &ServiceImpl{
		employees: employeeRepo,
		quotas:    quotaRepo,
		engineCfg: engineCfg,
		now:       time.Now,
	}
}

// Provision implements employee.Service. A new employee gets the default
// yearly quota for every quota-bearing leave type.
func (s *ServiceImpl) Provision(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if _, err := s.employees.GetByExternalUserID(ctx, req.ExternalUserID); err == nil {
		return employee.EmployeeResponse{}, employee.ErrExternalUserExists
	} else if !errors.Is(err, pgx.ErrNoRows) && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check external user id: %w", err)
	}

	emp := employee.Employee{
		ExternalUserID: req.ExternalUserID,
		ChatID:         req.ChatID,
		FullName:       req.FullName,
		Role:           employee.Role(req.Role),
		Status:         employee.StatusActive,
	}
	if req.Latitude != nil {
		emp.Geofence = &employee.Geofence{
			Latitude:     *req.Latitude,
			Longitude:    *req.Longitude,
			RadiusMeters: *req.RadiusMeters,
		}
	}

	created, err := s.employees.Create(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	year := s.now().UTC().Year()
	defaults := map[leave.Type]int{
		leave.TypeAnnual:    s.engineCfg.AnnualQuotaDays,
		leave.TypeSick:      s.engineCfg.SickQuotaDays,
		leave.TypeEmergency: s.engineCfg.EmergencyQuotaDays,
	}
	for typ, days := range defaults {
		if _, err := s.quotas.Upsert(ctx, leave.Quota{
			EmployeeID:    created.ID,
			Type:          typ,
			Year:          year,
			AllocatedDays: days,
		}); err != nil {
			slog.Warn("failed to seed leave quota", "employee_id", created.ID, "type", typ, "error", err)
		}
	}

	return mapEmployeeToResponse(created), nil
}

// Update implements employee.Service.
func (s *ServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.getEmployee(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.FullName != nil {
		emp.FullName = *req.FullName
	}
	if req.Role != nil {
		emp.Role = employee.Role(*req.Role)
	}
	if req.ChatID != nil {
		emp.ChatID = *req.ChatID
	}
	if req.ClearFence {
		emp.Geofence = nil
	} else if req.Latitude != nil && req.Longitude != nil && req.RadiusMeters != nil {
		emp.Geofence = &employee.Geofence{
			Latitude:     *req.Latitude,
			Longitude:    *req.Longitude,
			RadiusMeters: *req.RadiusMeters,
		}
	}

	if err := s.employees.Update(ctx, emp); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	updated, err := s.getEmployee(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(updated), nil
}

// Deactivate implements employee.Service.
func (s *ServiceImpl) Deactivate(ctx context.Context, id string, actorID string) error {
	if id == actorID {
		return employee.ErrCannotDeactivateSelf
	}

	emp, err := s.getEmployee(ctx, id)
	if err != nil {
		return err
	}
	if !emp.IsActive() {
		return employee.ErrEmployeeAlreadyInactive
	}

	return s.employees.SetStatus(ctx, id, employee.StatusInactive)
}

// Get implements employee.Service.
func (s *ServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.getEmployee(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(emp), nil
}

// List implements employee.Service.
func (s *ServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, mapEmployeeToResponse(emp))
	}
	return responses, nil
}

func (s *ServiceImpl) getEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	resp := employee.EmployeeResponse{
		ID:             emp.ID,
		ExternalUserID: emp.ExternalUserID,
		FullName:       emp.FullName,
		Role:           string(emp.Role),
		Status:         string(emp.Status),
		CreatedAt:      emp.CreatedAt.Format(time.RFC3339),
	}
	if emp.Geofence != nil {
		resp.Latitude = &emp.Geofence.Latitude
		resp.Longitude = &emp.Geofence.Longitude
		resp.RadiusMeters = &emp.Geofence.RadiusMeters
	}
	return resp
}
