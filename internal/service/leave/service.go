package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/employee"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/leave"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/notification"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/database"
)

type ServiceImpl struct {
	requests  leave.RequestRepository
	quotas    leave.QuotaRepository
	employees employee.Repository
	notifier  notification.Service
	tx        database.Transactor
	now       func() time.Time
}

func NewService(
	requestRepo leave.RequestRepository,
	quotaRepo leave.QuotaRepository,
	employeeRepo employee.Repository,
	notifier notification.Service,
	tx database.Transactor,
) leave.Service {
	return &ServiceImpl{
		requests:  requestRepo,
		quotas:    quotaRepo,
		employees: employeeRepo,
		notifier:  notifier,
		tx:        tx,
		now:       time.Now,
	}
}

// Submit implements leave.Service.
func (s *ServiceImpl) Submit(ctx context.Context, actor identity.Actor, req leave.SubmitRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	start, end := req.Dates()

	overlap, err := s.requests.HasApprovedOverlap(ctx, actor.EmployeeID, start, end, "")
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to check leave overlap: %w", err)
	}
	if overlap {
		return leave.RequestResponse{}, leave.ErrOverlap
	}

	created, err := s.requests.Create(ctx, leave.Request{
		EmployeeID:  actor.EmployeeID,
		Type:        leave.Type(req.Type),
		StartDate:   start,
		EndDate:     end,
		Days:        leave.DayCount(start, end),
		Reason:      req.Reason,
		Status:      leave.StatusPending,
		SubmittedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, leave.ErrDuplicateRequest) {
			return leave.RequestResponse{}, err
		}
		return leave.RequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.notifySubmitted(ctx, actor.EmployeeID, created)

	return mapRequestToResponse(created), nil
}

// Cancel implements leave.Service.
func (s *ServiceImpl) Cancel(ctx context.Context, actor identity.Actor, requestID string) error {
	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.EmployeeID != actor.EmployeeID {
		return identity.ErrForbidden
	}

	return s.requests.UpdateStatusIf(ctx, requestID, leave.StatusPending, leave.StatusCancelled, nil, nil, s.now().UTC())
}

// Approve implements leave.Service. The status transition, the overlap
// re-check and the quota decrement commit or roll back as one unit;
// losing any of them leaves the request untouched.
func (s *ServiceImpl) Approve(ctx context.Context, actor identity.Actor, requestID string) error {
	if !actor.IsAdmin() {
		return identity.ErrAdminRequired
	}

	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return err
	}

	resolvedAt := s.now().UTC()
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// Hold the per-employee lock until commit; without it two
		// overlapping pendings approved concurrently could both pass the
		// re-check below under read committed.
		if err := s.requests.LockEmployee(ctx, req.EmployeeID); err != nil {
			return err
		}

		if err := s.requests.UpdateStatusIf(ctx, requestID, leave.StatusPending, leave.StatusApproved, &actor.EmployeeID, nil, resolvedAt); err != nil {
			return err
		}

		// Another request of the same employee may have been approved
		// since this one was submitted.
		overlap, err := s.requests.HasApprovedOverlap(ctx, req.EmployeeID, req.StartDate, req.EndDate, requestID)
		if err != nil {
			return fmt.Errorf("failed to re-check leave overlap: %w", err)
		}
		if overlap {
			return leave.ErrOverlap
		}

		if req.Type.HasQuota() {
			year := req.StartDate.Year()
			if err := s.quotas.ConsumeIfAvailable(ctx, req.EmployeeID, req.Type, year, req.Days); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyResolved(ctx, req, leave.StatusApproved, "")
	return nil
}

// Reject implements leave.Service.
func (s *ServiceImpl) Reject(ctx context.Context, actor identity.Actor, req leave.RejectRequest) error {
	if !actor.IsAdmin() {
		return identity.ErrAdminRequired
	}
	if err := req.Validate(); err != nil {
		return err
	}

	existing, err := s.getRequest(ctx, req.ID)
	if err != nil {
		return err
	}

	if err := s.requests.UpdateStatusIf(ctx, req.ID, leave.StatusPending, leave.StatusRejected, &actor.EmployeeID, &req.Reason, s.now().UTC()); err != nil {
		return err
	}

	s.notifyResolved(ctx, existing, leave.StatusRejected, req.Reason)
	return nil
}

// MyRequests implements leave.Service.
func (s *ServiceImpl) MyRequests(ctx context.Context, actor identity.Actor) ([]leave.RequestResponse, error) {
	requests, err := s.requests.ListByEmployee(ctx, actor.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return mapRequestsToResponses(requests), nil
}

// MyQuota implements leave.Service.
func (s *ServiceImpl) MyQuota(ctx context.Context, actor identity.Actor, year int) ([]leave.QuotaResponse, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}

	quotas, err := s.quotas.GetByEmployeeAndYear(ctx, actor.EmployeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave quotas: %w", err)
	}

	responses := make([]leave.QuotaResponse, 0, len(quotas))
	for _, q := range quotas {
		responses = append(responses, mapQuotaToResponse(q))
	}
	return responses, nil
}

// AdjustQuota implements leave.Service.
func (s *ServiceImpl) AdjustQuota(ctx context.Context, actor identity.Actor, req leave.AdjustQuotaRequest) (leave.QuotaResponse, error) {
	if !actor.IsAdmin() {
		return leave.QuotaResponse{}, identity.ErrAdminRequired
	}
	if err := req.Validate(); err != nil {
		return leave.QuotaResponse{}, err
	}

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.QuotaResponse{}, fmt.Errorf("failed to load employee: %w", err)
	}

	quota, err := s.quotas.Upsert(ctx, leave.Quota{
		EmployeeID:    req.EmployeeID,
		Type:          leave.Type(req.Type),
		Year:          req.Year,
		AllocatedDays: req.AllocatedDays,
	})
	if err != nil {
		return leave.QuotaResponse{}, fmt.Errorf("failed to upsert leave quota: %w", err)
	}

	return mapQuotaToResponse(quota), nil
}

// ListPending implements leave.Service.
func (s *ServiceImpl) ListPending(ctx context.Context, actor identity.Actor) ([]leave.RequestResponse, error) {
	if !actor.IsAdmin() {
		return nil, identity.ErrAdminRequired
	}

	requests, err := s.requests.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	return mapRequestsToResponses(requests), nil
}

func (s *ServiceImpl) getRequest(ctx context.Context, id string) (leave.Request, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, leave.ErrRequestNotFound) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return req, nil
}

func (s *ServiceImpl) notifySubmitted(ctx context.Context, employeeID string, req leave.Request) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		slog.Warn("failed to load employee for leave notification", "request_id", req.ID, "error", err)
		return
	}

	text := fmt.Sprintf("Your %s leave request for %s (%d day(s)) was submitted and is pending approval.",
		req.Type, formatRange(req), req.Days)
	if qErr := s.notifier.Queue(ctx, notification.Notification{
		ChatID:  emp.ChatID,
		Kind:    notification.KindLeaveSubmitted,
		Message: text,
	}); qErr != nil {
		slog.Warn("failed to queue leave notification", "request_id", req.ID, "error", qErr)
	}

	adminText := fmt.Sprintf("%s requested %s leave for %s (%d day(s)).",
		emp.FullName, req.Type, formatRange(req), req.Days)
	if qErr := s.notifier.QueueAdmin(ctx, notification.KindItemPending, adminText); qErr != nil {
		slog.Warn("failed to queue admin notification", "request_id", req.ID, "error", qErr)
	}
}

func (s *ServiceImpl) notifyResolved(ctx context.Context, req leave.Request, status leave.Status, reason string) {
	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		slog.Warn("failed to load employee for leave notification", "request_id", req.ID, "error", err)
		return
	}

	text := fmt.Sprintf("Your %s leave request for %s was %s.", req.Type, formatRange(req), status)
	if reason != "" {
		text += " Reason: " + reason
	}
	if qErr := s.notifier.Queue(ctx, notification.Notification{
		ChatID:  emp.ChatID,
		Kind:    notification.KindLeaveResolved,
		Message: text,
	}); qErr != nil {
		slog.Warn("failed to queue leave notification", "request_id", req.ID, "error", qErr)
	}
}

func formatRange(req leave.Request) string {
	if req.StartDate.Equal(req.EndDate) {
		return req.StartDate.Format("2006-01-02")
	}
	return req.StartDate.Format("2006-01-02") + " to " + req.EndDate.Format("2006-01-02")
}

func mapRequestToResponse(req leave.Request) leave.RequestResponse {
	resp := leave.RequestResponse{
		ID:           req.ID,
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Type:         string(req.Type),
		StartDate:    req.StartDate.Format("2006-01-02"),
		EndDate:      req.EndDate.Format("2006-01-02"),
		Days:         req.Days,
		Reason:       req.Reason,
		Status:       string(req.Status),
		ResolverID:   req.ResolverID,
		SubmittedAt:  req.SubmittedAt.Format(time.RFC3339),
	}
	if req.ResolvedAt != nil {
		resolvedAt := req.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &resolvedAt
	}
	return resp
}

func mapRequestsToResponses(requests []leave.Request) []leave.RequestResponse {
	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, mapRequestToResponse(req))
	}
	return responses
}

func mapQuotaToResponse(q leave.Quota) leave.QuotaResponse {
	return leave.QuotaResponse{
		Type:          string(q.Type),
		Year:          q.Year,
		AllocatedDays: q.AllocatedDays,
		UsedDays:      q.UsedDays,
		RemainingDays: q.Remaining(),
	}
}
