package cron

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/advance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/attendance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/employee"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/leave"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/notification"
)

type stubAttendanceRepo struct {
	attendance.Repository
	open       []attendance.Record
	flagged    []attendance.Record
	flagErrs   map[string]error
	flaggedIDs []string
}

func (s *stubAttendanceRepo) ListOpenBefore(_ context.Context, _ time.Time) ([]attendance.Record, error) {
	return s.open, nil
}

func (s *stubAttendanceRepo) FlagOpen(_ context.Context, id string, _ string, _ time.Time) error {
	if err, ok := s.flagErrs[id]; ok {
		return err
	}
	s.flaggedIDs = append(s.flaggedIDs, id)
	return nil
}

func (s *stubAttendanceRepo) ListFlagged(_ context.Context) ([]attendance.Record, error) {
	return s.flagged, nil
}

type stubEmployeeRepo struct {
	employee.Repository
}

func (s *stubEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	return employee.Employee{ID: id, ChatID: 42, FullName: "Jane Staff"}, nil
}

type stubLeaveRepo struct {
	leave.RequestRepository
	pending []leave.Request
}

func (s *stubLeaveRepo) ListPending(_ context.Context) ([]leave.Request, error) {
	return s.pending, nil
}

type stubAdvanceRepo struct {
	advance.Repository
	pending []advance.Request
}

func (s *stubAdvanceRepo) ListPending(_ context.Context) ([]advance.Request, error) {
	return s.pending, nil
}

type stubNotifier struct {
	sent  []notification.Notification
	admin []notification.Kind
}

func (s *stubNotifier) Queue(_ context.Context, n notification.Notification) error {
	s.sent = append(s.sent, n)
	return nil
}

func (s *stubNotifier) QueueAdmin(_ context.Context, kind notification.Kind, _ string) error {
	s.admin = append(s.admin, kind)
	return nil
}

func (s *stubNotifier) Close() {}

func newJobs(attendanceRepo *stubAttendanceRepo, leaveRepo *stubLeaveRepo, advanceRepo *stubAdvanceRepo, notifier *stubNotifier) *AttendanceJobs {
	jobs := NewAttendanceJobs(attendanceRepo, &stubEmployeeRepo{}, leaveRepo, advanceRepo, notifier, time.UTC)
	jobs.now = func() time.Time { return time.Date(2026, 3, 3, 9, 15, 0, 0, time.UTC) }
	return jobs
}

func TestFlagUnclosedAttendance(t *testing.T) {
	ctx := context.Background()

	t.Run("flags yesterday's open records", func(t *testing.T) {
		attendanceRepo := &stubAttendanceRepo{open: []attendance.Record{
			{ID: "rec-1", EmployeeID: "emp-1", Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
			{ID: "rec-2", EmployeeID: "emp-2", Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		}}
		notifier := &stubNotifier{}
		jobs := newJobs(attendanceRepo, &stubLeaveRepo{}, &stubAdvanceRepo{}, notifier)

		require.NoError(t, jobs.FlagUnclosedAttendance(ctx))
		assert.Equal(t, []string{"rec-1", "rec-2"}, attendanceRepo.flaggedIDs)
		assert.Len(t, notifier.sent, 2)
		assert.Equal(t, []notification.Kind{notification.KindItemPending}, notifier.admin)
	})

	t.Run("record closed during the run is skipped", func(t *testing.T) {
		attendanceRepo := &stubAttendanceRepo{
			open: []attendance.Record{
				{ID: "rec-1", EmployeeID: "emp-1", Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
				{ID: "rec-2", EmployeeID: "emp-2", Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
			},
			flagErrs: map[string]error{"rec-1": attendance.ErrNotCheckedIn},
		}
		notifier := &stubNotifier{}
		jobs := newJobs(attendanceRepo, &stubLeaveRepo{}, &stubAdvanceRepo{}, notifier)

		require.NoError(t, jobs.FlagUnclosedAttendance(ctx))
		assert.Equal(t, []string{"rec-2"}, attendanceRepo.flaggedIDs)
		assert.Len(t, notifier.sent, 1)
	})

	t.Run("nothing open, nothing pushed", func(t *testing.T) {
		notifier := &stubNotifier{}
		jobs := newJobs(&stubAttendanceRepo{}, &stubLeaveRepo{}, &stubAdvanceRepo{}, notifier)

		require.NoError(t, jobs.FlagUnclosedAttendance(ctx))
		assert.Empty(t, notifier.sent)
		assert.Empty(t, notifier.admin)
	})
}

func TestAdminPendingDigest(t *testing.T) {
	ctx := context.Background()

	t.Run("summarizes the queue at the digest hour", func(t *testing.T) {
		notifier := &stubNotifier{}
		jobs := newJobs(
			&stubAttendanceRepo{flagged: []attendance.Record{{ID: "rec-1"}}},
			&stubLeaveRepo{pending: []leave.Request{{ID: "req-1"}, {ID: "req-2"}}},
			&stubAdvanceRepo{pending: []advance.Request{{ID: "adv-1"}}},
			notifier,
		)

		require.NoError(t, jobs.AdminPendingDigest(ctx))
		assert.Equal(t, []notification.Kind{notification.KindPendingDigest}, notifier.admin)
	})

	t.Run("silent outside the digest hour", func(t *testing.T) {
		notifier := &stubNotifier{}
		jobs := newJobs(&stubAttendanceRepo{flagged: []attendance.Record{{ID: "rec-1"}}}, &stubLeaveRepo{}, &stubAdvanceRepo{}, notifier)
		jobs.now = func() time.Time { return time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC) }

		require.NoError(t, jobs.AdminPendingDigest(ctx))
		assert.Empty(t, notifier.admin)
	})

	t.Run("empty queue sends nothing", func(t *testing.T) {
		notifier := &stubNotifier{}
		jobs := newJobs(&stubAttendanceRepo{}, &stubLeaveRepo{}, &stubAdvanceRepo{}, notifier)

		require.NoError(t, jobs.AdminPendingDigest(ctx))
		assert.Empty(t, notifier.admin)
	})
}
