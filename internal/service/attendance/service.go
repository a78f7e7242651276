package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/attendance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/employee"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/notification"
)

type ServiceImpl struct {
	records   attendance.Repository
	employees employee.Repository
	validator *Validator
	notifier  notification.Service
	now       func() time.Time
}

func NewService(
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	validator *Validator,
	notifier notification.Service,
) attendance.Service {
	return &ServiceImpl{
		records:   attendanceRepo,
		employees: employeeRepo,
		validator: validator,
		notifier:  notifier,
		now:       time.Now,
	}
}

// CheckIn implements attendance.Service.
func (s *ServiceImpl) CheckIn(ctx context.Context, actor identity.Actor, req attendance.CheckInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to load employee: %w", err)
	}

	nowUTC := s.now().UTC()
	violations := s.validator.ValidateCheckIn(nowUTC, req.Latitude, req.Longitude, emp)

	status := attendance.StatusCheckedIn
	var flaggedAt *time.Time
	if len(violations) > 0 {
		status = attendance.StatusFlagged
		flaggedAt = &nowUTC
	}

	rec := attendance.Record{
		EmployeeID: actor.EmployeeID,
		Date:       s.validator.Day(nowUTC),
		CheckInAt:  nowUTC,
		CheckInLat: req.Latitude,
		CheckInLng: req.Longitude,
		Status:     status,
		Violations: violations,
		FlaggedAt:  flaggedAt,
	}

	// The (employee, date) uniqueness guard lives in the insert itself, so
	// a concurrent duplicate or a replayed webhook fails here with
	// ErrAlreadyCheckedIn and no side effect.
	created, err := s.records.Create(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	s.queueNotification(ctx, emp, created)

	return mapRecordToResponse(created), nil
}

// CheckOut implements attendance.Service.
func (s *ServiceImpl) CheckOut(ctx context.Context, actor identity.Actor, req attendance.CheckOutRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to load employee: %w", err)
	}

	nowUTC := s.now().UTC()

	rec, err := s.records.GetByEmployeeAndDate(ctx, actor.EmployeeID, s.validator.Day(nowUTC))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.RecordResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to get today's record: %w", err)
	}
	if !rec.Open() {
		return attendance.RecordResponse{}, attendance.ErrNotCheckedIn
	}

	violations := s.validator.ValidateCheckOut(nowUTC, req.Latitude, req.Longitude, emp)

	// The day completes cleanly only when both legs were clean.
	status := attendance.StatusCompleted
	all := append(append([]string{}, rec.Violations...), violations...)
	if len(all) > 0 {
		status = attendance.StatusFlagged
	}

	// Preconditioned write: only commits while the record is still open and
	// the check-out is strictly after check-in.
	if err := s.records.CompleteCheckOut(ctx, rec.ID, nowUTC, req.Latitude, req.Longitude, status, all); err != nil {
		return attendance.RecordResponse{}, err
	}

	updated, err := s.records.GetByID(ctx, rec.ID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to reload record: %w", err)
	}

	s.queueNotification(ctx, emp, updated)

	return mapRecordToResponse(updated), nil
}

// Resolve implements attendance.Service.
func (s *ServiceImpl) Resolve(ctx context.Context, actor identity.Actor, req attendance.ResolveRequest) (attendance.RecordResponse, error) {
	if !actor.IsAdmin() {
		return attendance.RecordResponse{}, identity.ErrAdminRequired
	}
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	decision := attendance.StatusApproved
	if req.Decision == "reject" {
		decision = attendance.StatusRejected
	}

	// Flagged is the precondition of the transition; a racing second
	// resolution loses inside the repository with ErrAlreadyResolved.
	if err := s.records.ResolveFlagged(ctx, req.ID, decision, actor.EmployeeID, s.now().UTC()); err != nil {
		return attendance.RecordResponse{}, err
	}

	updated, err := s.records.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to reload record: %w", err)
	}

	if emp, err := s.employees.GetByID(ctx, updated.EmployeeID); err == nil {
		text := fmt.Sprintf("Your attendance for %s was %s.", updated.Date.Format("2006-01-02"), decision)
		if qErr := s.notifier.Queue(ctx, notification.Notification{
			ChatID:  emp.ChatID,
			Kind:    notification.KindAttendanceFlagged,
			Message: text,
		}); qErr != nil {
			slog.Warn("failed to queue attendance resolution notification", "record_id", updated.ID, "error", qErr)
		}
	}

	return mapRecordToResponse(updated), nil
}

// History implements attendance.Service.
func (s *ServiceImpl) History(ctx context.Context, actor identity.Actor, filter attendance.HistoryFilter) ([]attendance.RecordResponse, error) {
	from, to, err := parseHistoryRange(filter, s.now().UTC(), s.validator)
	if err != nil {
		return nil, err
	}

	records, err := s.records.ListByEmployeeAndRange(ctx, actor.EmployeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance history: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapRecordToResponse(rec))
	}
	return responses, nil
}

// ListFlagged implements attendance.Service.
func (s *ServiceImpl) ListFlagged(ctx context.Context, actor identity.Actor) ([]attendance.RecordResponse, error) {
	if !actor.IsAdmin() {
		return nil, identity.ErrAdminRequired
	}

	records, err := s.records.ListFlagged(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list flagged records: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapRecordToResponse(rec))
	}
	return responses, nil
}

func (s *ServiceImpl) queueNotification(ctx context.Context, emp employee.Employee, rec attendance.Record) {
	kind := notification.KindCheckInConfirmed
	text := fmt.Sprintf("Checked in at %s.", rec.CheckInAt.In(s.validator.Location()).Format("15:04"))
	if rec.CheckOutAt != nil {
		kind = notification.KindCheckOutConfirmed
		text = fmt.Sprintf("Checked out at %s.", rec.CheckOutAt.In(s.validator.Location()).Format("15:04"))
	}
	if rec.Status == attendance.StatusFlagged {
		text += " The record was flagged for review: " + joinViolations(rec.Violations)
	}

	if err := s.notifier.Queue(ctx, notification.Notification{
		ChatID:  emp.ChatID,
		Kind:    kind,
		Message: text,
	}); err != nil {
		slog.Warn("failed to queue attendance notification", "record_id", rec.ID, "error", err)
	}

	if rec.Status == attendance.StatusFlagged {
		adminText := fmt.Sprintf("Attendance by %s on %s needs review: %s",
			emp.FullName, rec.Date.Format("2006-01-02"), joinViolations(rec.Violations))
		if err := s.notifier.QueueAdmin(ctx, notification.KindItemPending, adminText); err != nil {
			slog.Warn("failed to queue admin notification", "record_id", rec.ID, "error", err)
		}
	}
}

func parseHistoryRange(filter attendance.HistoryFilter, now time.Time, v *Validator) (time.Time, time.Time, error) {
	to := v.Day(now)
	from := to.AddDate(0, -1, 0)

	if filter.From != "" {
		parsed, err := time.Parse("2006-01-02", filter.From)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date: %w", err)
		}
		from = parsed
	}
	if filter.To != "" {
		parsed, err := time.Parse("2006-01-02", filter.To)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date: %w", err)
		}
		to = parsed
	}
	return from, to, nil
}

func joinViolations(violations []string) string {
	out := ""
	for i, v := range violations {
		if i > 0 {
			out += "; "
		}
		out += v
	}
	return out
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

func mapRecordToResponse(rec attendance.Record) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:           rec.ID,
		EmployeeID:   rec.EmployeeID,
		EmployeeName: rec.EmployeeName,
		Date:         rec.Date.Format("2006-01-02"),
		CheckInAt:    rec.CheckInAt.Format(time.RFC3339),
		CheckOutAt:   timePtrToString(rec.CheckOutAt),
		Status:       string(rec.Status),
		Violations:   rec.Violations,
		ResolvedBy:   rec.ResolvedBy,
		ResolvedAt:   timePtrToString(rec.ResolvedAt),
	}
}
