package approval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/advance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/approval"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/attendance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/leave"
)

// ServiceImpl merges the three workflow queues into one admin view and
// routes decisions back to the owning state machine. It holds no state of
// its own: concurrency control stays with each workflow's repository.
type ServiceImpl struct {
	attendanceRecords attendance.Repository
	leaveRequests     leave.RequestRepository
	advanceRequests   advance.Repository

	attendanceSvc attendance.Service
	leaveSvc      leave.Service
	advanceSvc    advance.Service
}

func NewService(
	attendanceRepo attendance.Repository,
	leaveRequestRepo leave.RequestRepository,
	advanceRepo advance.Repository,
	attendanceSvc attendance.Service,
	leaveSvc leave.Service,
	advanceSvc advance.Service,
) approval.Service {
	return &ServiceImpl{
		attendanceRecords: attendanceRepo,
		leaveRequests:     leaveRequestRepo,
		advanceRequests:   advanceRepo,
		attendanceSvc:     attendanceSvc,
		leaveSvc:          leaveSvc,
		advanceSvc:        advanceSvc,
	}
}

// ListPending implements approval.Service.
func (s *ServiceImpl) ListPending(ctx context.Context, actor identity.Actor) ([]approval.Item, error) {
	if !actor.IsAdmin() {
		return nil, identity.ErrAdminRequired
	}

	var items []approval.Item

	flagged, err := s.attendanceRecords.ListFlagged(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list flagged attendance: %w", err)
	}
	for _, rec := range flagged {
		item := approval.Item{
			Kind:        approval.KindAttendance,
			Ref:         rec.ID,
			EmployeeID:  rec.EmployeeID,
			Summary:     fmt.Sprintf("Attendance on %s: %s", rec.Date.Format("2006-01-02"), strings.Join(rec.Violations, "; ")),
			SubmittedAt: rec.CheckInAt,
		}
		if rec.FlaggedAt != nil {
			item.SubmittedAt = *rec.FlaggedAt
		}
		if rec.EmployeeName != nil {
			item.EmployeeName = *rec.EmployeeName
		}
		items = append(items, item)
	}

	leaves, err := s.leaveRequests.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave: %w", err)
	}
	for _, req := range leaves {
		item := approval.Item{
			Kind:       approval.KindLeave,
			Ref:        req.ID,
			EmployeeID: req.EmployeeID,
			Summary: fmt.Sprintf("%s leave, %s to %s (%d day(s))",
				req.Type, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"), req.Days),
			SubmittedAt: req.SubmittedAt,
		}
		if req.EmployeeName != nil {
			item.EmployeeName = *req.EmployeeName
		}
		items = append(items, item)
	}

	advances, err := s.advanceRequests.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending advances: %w", err)
	}
	for _, req := range advances {
		item := approval.Item{
			Kind:        approval.KindAdvance,
			Ref:         req.ID,
			EmployeeID:  req.EmployeeID,
			Summary:     fmt.Sprintf("Salary advance of %s", req.Amount.StringFixed(2)),
			SubmittedAt: req.SubmittedAt,
		}
		if req.EmployeeName != nil {
			item.EmployeeName = *req.EmployeeName
		}
		items = append(items, item)
	}

	// Oldest first so the queue is worked in arrival order; id keeps the
	// order stable when timestamps collide.
	sort.Slice(items, func(i, j int) bool {
		if !items[i].SubmittedAt.Equal(items[j].SubmittedAt) {
			return items[i].SubmittedAt.Before(items[j].SubmittedAt)
		}
		return items[i].Ref < items[j].Ref
	})

	return items, nil
}

// Resolve implements approval.Service.
func (s *ServiceImpl) Resolve(ctx context.Context, actor identity.Actor, ref approval.ItemRef, decision approval.Decision, reason string) error {
	if !actor.IsAdmin() {
		return identity.ErrAdminRequired
	}

	switch ref.Kind {
	case approval.KindAttendance:
		_, err := s.attendanceSvc.Resolve(ctx, actor, attendance.ResolveRequest{
			ID:       ref.ID,
			Decision: string(decision),
		})
		return err

	case approval.KindLeave:
		if decision == approval.DecisionApprove {
			return s.leaveSvc.Approve(ctx, actor, ref.ID)
		}
		return s.leaveSvc.Reject(ctx, actor, leave.RejectRequest{ID: ref.ID, Reason: reason})

	case approval.KindAdvance:
		if decision == approval.DecisionApprove {
			return s.advanceSvc.Approve(ctx, actor, ref.ID)
		}
		return s.advanceSvc.Reject(ctx, actor, advance.RejectRequest{ID: ref.ID, Reason: reason})

	default:
		return approval.ErrUnknownKind
	}
}
