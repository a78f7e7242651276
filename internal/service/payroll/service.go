package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/advance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/attendance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/leave"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/payroll"
)

type ServiceImpl struct {
	attendanceRecords attendance.Repository
	leaveRequests     leave.RequestRepository
	advances          advance.Repository
}

func NewService(
	attendanceRepo attendance.Repository,
	leaveRequestRepo leave.RequestRepository,
	advanceRepo advance.Repository,
) payroll.Service {
	return &ServiceImpl{
		attendanceRecords: attendanceRepo,
		leaveRequests:     leaveRequestRepo,
		advances:          advanceRepo,
	}
}

// ComputeSummary implements payroll.Service.
func (s *ServiceImpl) ComputeSummary(ctx context.Context, actor identity.Actor, req payroll.SummaryRequest) (payroll.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SummaryResponse{}, err
	}
	if req.EmployeeID != actor.EmployeeID && !actor.IsAdmin() {
		return payroll.SummaryResponse{}, identity.ErrForbidden
	}

	start, _ := time.Parse("2006-01-02", req.PeriodStart)
	end, _ := time.Parse("2006-01-02", req.PeriodEnd)

	workedDays, err := s.attendanceRecords.CountWorkedDays(ctx, req.EmployeeID, start, end)
	if err != nil {
		return payroll.SummaryResponse{}, fmt.Errorf("failed to count worked days: %w", err)
	}

	approved, err := s.leaveRequests.ListApprovedInRange(ctx, req.EmployeeID, start, end)
	if err != nil {
		return payroll.SummaryResponse{}, fmt.Errorf("failed to list approved leave: %w", err)
	}

	// Leave ranges crossing the period boundary only count the days that
	// fall inside it.
	leaveDays := make(map[string]int)
	for _, lr := range approved {
		leaveDays[string(lr.Type)] += clippedDays(lr.StartDate, lr.EndDate, start, end)
	}

	outstanding, err := s.advances.OutstandingTotal(ctx, req.EmployeeID)
	if err != nil {
		return payroll.SummaryResponse{}, fmt.Errorf("failed to get outstanding balance: %w", err)
	}

	adjustments, err := s.advances.ApprovedTotalInRange(ctx, req.EmployeeID, start, end)
	if err != nil {
		return payroll.SummaryResponse{}, fmt.Errorf("failed to total period advances: %w", err)
	}

	return payroll.SummaryResponse{
		EmployeeID:         req.EmployeeID,
		PeriodStart:        req.PeriodStart,
		PeriodEnd:          req.PeriodEnd,
		WorkedDays:         workedDays,
		LeaveDaysByType:    leaveDays,
		OutstandingAdvance: outstanding.StringFixed(2),
		NetAdjustments:     adjustments.StringFixed(2),
	}, nil
}

// clippedDays counts the days of [start, end] inside [periodStart, periodEnd].
func clippedDays(start, end, periodStart, periodEnd time.Time) int {
	if start.Before(periodStart) {
		start = periodStart
	}
	if end.After(periodEnd) {
		end = periodEnd
	}
	if end.Before(start) {
		return 0
	}
	return leave.DayCount(start, end)
}
