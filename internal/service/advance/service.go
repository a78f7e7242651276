package advance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/advance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/employee"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/notification"
)

type ServiceImpl struct {
	advances  advance.Repository
	employees employee.Repository
	notifier  notification.Service
	cap       decimal.Decimal
	now       func() time.Time
}

func NewService(
	advanceRepo advance.Repository,
	employeeRepo employee.Repository,
	notifier notification.Service,
	cap decimal.Decimal,
) advance.Service {
	return &ServiceImpl{
		advances:  advanceRepo,
		employees: employeeRepo,
		notifier:  notifier,
		cap:       cap,
		now:       time.Now,
	}
}

// Submit implements advance.Service.
func (s *ServiceImpl) Submit(ctx context.Context, actor identity.Actor, req advance.SubmitRequest) (advance.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.RequestResponse{}, err
	}

	amount := req.ParsedAmount()

	outstanding, err := s.advances.OutstandingTotal(ctx, actor.EmployeeID)
	if err != nil {
		return advance.RequestResponse{}, fmt.Errorf("failed to get outstanding balance: %w", err)
	}

	// The real cap check happens inside the insert against the live
	// balance; this snapshot is only recorded for audit.
	created, err := s.advances.CreateWithinCap(ctx, advance.Request{
		EmployeeID:          actor.EmployeeID,
		Amount:              amount,
		Reason:              req.Reason,
		OutstandingAtSubmit: outstanding,
		Status:              advance.StatusPending,
		SubmittedAt:         s.now().UTC(),
	}, s.cap)
	if err != nil {
		return advance.RequestResponse{}, err
	}

	s.notifySubmitted(ctx, actor.EmployeeID, created)

	return mapRequestToResponse(created), nil
}

// Cancel implements advance.Service.
func (s *ServiceImpl) Cancel(ctx context.Context, actor identity.Actor, requestID string) error {
	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.EmployeeID != actor.EmployeeID {
		return identity.ErrForbidden
	}

	return s.advances.UpdateStatusIf(ctx, requestID, advance.StatusPending, advance.StatusCancelled, nil, nil, s.now().UTC())
}

// Approve implements advance.Service.
func (s *ServiceImpl) Approve(ctx context.Context, actor identity.Actor, requestID string) error {
	if !actor.IsAdmin() {
		return identity.ErrAdminRequired
	}

	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return err
	}

	if err := s.advances.UpdateStatusIf(ctx, requestID, advance.StatusPending, advance.StatusApproved, &actor.EmployeeID, nil, s.now().UTC()); err != nil {
		return err
	}

	s.notifyResolved(ctx, req, advance.StatusApproved, "")
	return nil
}

// Reject implements advance.Service.
func (s *ServiceImpl) Reject(ctx context.Context, actor identity.Actor, req advance.RejectRequest) error {
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

	if err := s.advances.UpdateStatusIf(ctx, req.ID, advance.StatusPending, advance.StatusRejected, &actor.EmployeeID, &req.Reason, s.now().UTC()); err != nil {
		return err
	}

	s.notifyResolved(ctx, existing, advance.StatusRejected, req.Reason)
	return nil
}

// MyRequests implements advance.Service.
func (s *ServiceImpl) MyRequests(ctx context.Context, actor identity.Actor) ([]advance.RequestResponse, error) {
	requests, err := s.advances.ListByEmployee(ctx, actor.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advance requests: %w", err)
	}
	return mapRequestsToResponses(requests), nil
}

// MyBalance implements advance.Service.
func (s *ServiceImpl) MyBalance(ctx context.Context, actor identity.Actor) (advance.BalanceResponse, error) {
	outstanding, err := s.advances.OutstandingTotal(ctx, actor.EmployeeID)
	if err != nil {
		return advance.BalanceResponse{}, fmt.Errorf("failed to get outstanding balance: %w", err)
	}

	available := s.cap.Sub(outstanding)
	if available.IsNegative() {
		available = decimal.Zero
	}

	return advance.BalanceResponse{
		Outstanding: outstanding.StringFixed(2),
		Cap:         s.cap.StringFixed(2),
		Available:   available.StringFixed(2),
	}, nil
}

// Settle implements advance.Service.
func (s *ServiceImpl) Settle(ctx context.Context, actor identity.Actor, employeeID string) (int64, error) {
	if !actor.IsAdmin() {
		return 0, identity.ErrAdminRequired
	}

	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return 0, fmt.Errorf("failed to load employee: %w", err)
	}

	settled, err := s.advances.SettleApproved(ctx, employeeID, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to settle advances: %w", err)
	}
	return settled, nil
}

// ListPending implements advance.Service.
func (s *ServiceImpl) ListPending(ctx context.Context, actor identity.Actor) ([]advance.RequestResponse, error) {
	if !actor.IsAdmin() {
		return nil, identity.ErrAdminRequired
	}

	requests, err := s.advances.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending advance requests: %w", err)
	}
	return mapRequestsToResponses(requests), nil
}

func (s *ServiceImpl) getRequest(ctx context.Context, id string) (advance.Request, error) {
	req, err := s.advances.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, advance.ErrRequestNotFound) {
			return advance.Request{}, advance.ErrRequestNotFound
		}
		return advance.Request{}, fmt.Errorf("failed to get advance request: %w", err)
	}
	return req, nil
}

func (s *ServiceImpl) notifySubmitted(ctx context.Context, employeeID string, req advance.Request) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		slog.Warn("failed to load employee for advance notification", "request_id", req.ID, "error", err)
		return
	}

	text := fmt.Sprintf("Your advance request for %s was submitted and is pending approval.", req.Amount.StringFixed(2))
	if qErr := s.notifier.Queue(ctx, notification.Notification{
		ChatID:  emp.ChatID,
		Kind:    notification.KindAdvanceSubmitted,
		Message: text,
	}); qErr != nil {
		slog.Warn("failed to queue advance notification", "request_id", req.ID, "error", qErr)
	}

	adminText := fmt.Sprintf("%s requested an advance of %s.", emp.FullName, req.Amount.StringFixed(2))
	if qErr := s.notifier.QueueAdmin(ctx, notification.KindItemPending, adminText); qErr != nil {
		slog.Warn("failed to queue admin notification", "request_id", req.ID, "error", qErr)
	}
}

func (s *ServiceImpl) notifyResolved(ctx context.Context, req advance.Request, status advance.Status, reason string) {
	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		slog.Warn("failed to load employee for advance notification", "request_id", req.ID, "error", err)
		return
	}

	text := fmt.Sprintf("Your advance request for %s was %s.", req.Amount.StringFixed(2), status)
	if reason != "" {
		text += " Reason: " + reason
	}
	if qErr := s.notifier.Queue(ctx, notification.Notification{
		ChatID:  emp.ChatID,
		Kind:    notification.KindAdvanceResolved,
		Message: text,
	}); qErr != nil {
		slog.Warn("failed to queue advance notification", "request_id", req.ID, "error", qErr)
	}
}

func mapRequestToResponse(req advance.Request) advance.RequestResponse {
	resp := advance.RequestResponse{
		ID:           req.ID,
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Amount:       req.Amount.StringFixed(2),
		Reason:       req.Reason,
		Status:       string(req.Status),
		Outstanding:  req.OutstandingAtSubmit.StringFixed(2),
		ResolverID:   req.ResolverID,
		Settled:      req.Settled,
		SubmittedAt:  req.SubmittedAt.Format(time.RFC3339),
	}
	if req.ResolvedAt != nil {
		resolvedAt := req.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &resolvedAt
	}
	return resp
}

func mapRequestsToResponses(requests []advance.Request) []advance.RequestResponse {
	responses := make([]advance.RequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, mapRequestToResponse(req))
	}
	return responses
}
