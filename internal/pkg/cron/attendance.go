package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/advance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/attendance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/employee"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/leave"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/notification"
)

// AttendanceJobs holds the scheduled maintenance work over the attendance
// and approval queues.
type AttendanceJobs struct {
	attendanceRepo  attendance.Repository
	employeeRepo    employee.Repository
	leaveRepo       leave.RequestRepository
	advanceRepo     advance.Repository
	notificationSvc notification.Service
	loc             *time.Location
	digestHour      int
	now             func() time.Time
}

func NewAttendanceJobs(
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	leaveRepo leave.RequestRepository,
	advanceRepo advance.Repository,
	notificationSvc notification.Service,
	loc *time.Location,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		leaveRepo:       leaveRepo,
		advanceRepo:     advanceRepo,
		notificationSvc: notificationSvc,
		loc:             loc,
		digestHour:      9,
		now:             time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("flag_unclosed_attendance", 1*time.Hour, j.FlagUnclosedAttendance)
	scheduler.AddJob("admin_pending_digest", 1*time.Hour, j.AdminPendingDigest)
}

// FlagUnclosedAttendance flags records from past work days that never got
// a check-out. The flag write itself is preconditioned, so a check-out
// racing this job simply wins and the record stays untouched.
func (j *AttendanceJobs) FlagUnclosedAttendance(ctx context.Context) error {
	nowLocal := j.now().In(j.loc)
	startOfToday := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, j.loc)

	open, err := j.attendanceRepo.ListOpenBefore(ctx, startOfToday.UTC())
	if err != nil {
		return fmt.Errorf("failed to list unclosed records: %w", err)
	}
	if len(open) == 0 {
		return nil
	}

	flagged := 0
	for _, rec := range open {
		err := j.attendanceRepo.FlagOpen(ctx, rec.ID, attendance.ViolationMissingCheckOut, j.now().UTC())
		if err != nil {
			if err == attendance.ErrNotCheckedIn {
				// Closed between the listing and the flag.
				continue
			}
			slog.Error("Cron: Failed to flag unclosed attendance", "record_id", rec.ID, "error", err)
			continue
		}
		flagged++

		emp, err := j.employeeRepo.GetByID(ctx, rec.EmployeeID)
		if err != nil {
			continue
		}
		_ = j.notificationSvc.Queue(ctx, notification.Notification{
			ChatID: emp.ChatID,
			Kind:   notification.KindAttendanceFlagged,
			Message: fmt.Sprintf("Your attendance for %s has no check-out and was flagged for review.",
				rec.Date.Format("2006-01-02")),
		})
	}

	if flagged > 0 {
		slog.Info("Cron: Flagged unclosed attendance records", "count", flagged)
		_ = j.notificationSvc.QueueAdmin(ctx, notification.KindItemPending,
			fmt.Sprintf("%d attendance record(s) were flagged for a missing check-out.", flagged))
	}
	return nil
}

// AdminPendingDigest pushes a once-a-day summary of the approval queue to
// the admin channel.
func (j *AttendanceJobs) AdminPendingDigest(ctx context.Context) error {
	if j.now().In(j.loc).Hour() != j.digestHour {
		return nil
	}

	flagged, err := j.attendanceRepo.ListFlagged(ctx)
	if err != nil {
		return fmt.Errorf("failed to list flagged attendance: %w", err)
	}
	pendingLeave, err := j.leaveRepo.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending leave: %w", err)
	}
	pendingAdvances, err := j.advanceRepo.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending advances: %w", err)
	}

	total := len(flagged) + len(pendingLeave) + len(pendingAdvances)
	if total == 0 {
		return nil
	}

	message := fmt.Sprintf(
		"Approval queue: %d item(s) waiting.\n- %d flagged attendance\n- %d leave request(s)\n- %d advance request(s)",
		total, len(flagged), len(pendingLeave), len(pendingAdvances))

	return j.notificationSvc.QueueAdmin(ctx, notification.KindPendingDigest, message)
}
