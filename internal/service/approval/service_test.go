package approval

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/advance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/approval"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/attendance"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/employee"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/leave"
)

// The pipeline only needs the pending listings from each repository and the
// resolution entry points of each service; everything else stubs out.

type stubAttendanceRepo struct {
	attendance.Repository
	flagged []attendance.Record
}

func (s *stubAttendanceRepo) ListFlagged(_ context.Context) ([]attendance.Record, error) {
	return s.flagged, nil
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

type stubAttendanceSvc struct {
	attendance.Service
	resolved []attendance.ResolveRequest
	err      error
}

func (s *stubAttendanceSvc) Resolve(_ context.Context, _ identity.Actor, req attendance.ResolveRequest) (attendance.RecordResponse, error) {
	s.resolved = append(s.resolved, req)
	return attendance.RecordResponse{ID: req.ID}, s.err
}

type stubLeaveSvc struct {
	leave.Service
	approved []string
	rejected []leave.RejectRequest
	err      error
}

func (s *stubLeaveSvc) Approve(_ context.Context, _ identity.Actor, requestID string) error {
	s.approved = append(s.approved, requestID)
	return s.err
}

func (s *stubLeaveSvc) Reject(_ context.Context, _ identity.Actor, req leave.RejectRequest) error {
	s.rejected = append(s.rejected, req)
	return s.err
}

type stubAdvanceSvc struct {
	advance.Service
	approved []string
	rejected []advance.RejectRequest
	err      error
}

func (s *stubAdvanceSvc) Approve(_ context.Context, _ identity.Actor, requestID string) error {
	s.approved = append(s.approved, requestID)
	return s.err
}

func (s *stubAdvanceSvc) Reject(_ context.Context, _ identity.Actor, req advance.RejectRequest) error {
	s.rejected = append(s.rejected, req)
	return s.err
}

func adminActor() identity.Actor {
	return identity.Actor{EmployeeID: "admin-1", Role: employee.RoleAdmin}
}

func staffActor() identity.Actor {
	return identity.Actor{EmployeeID: "emp-1", Role: employee.RoleStaff}
}

func strPtr(s string) *string { return &s }

func TestListPending(t *testing.T) {
	ctx := context.Background()

	day := func(d int, hour int) time.Time {
		return time.Date(2026, 3, d, hour, 0, 0, 0, time.UTC)
	}

	flaggedAt := day(2, 12)
	attendanceRepo := &stubAttendanceRepo{flagged: []attendance.Record{{
		ID:           "rec-1",
		EmployeeID:   "emp-1",
		EmployeeName: strPtr("Jane Staff"),
		Date:         day(2, 0),
		CheckInAt:    day(2, 9),
		Status:       attendance.StatusFlagged,
		Violations:   []string{attendance.ViolationOutsideGeofence},
		FlaggedAt:    &flaggedAt,
	}}}
	leaveRepo := &stubLeaveRepo{pending: []leave.Request{{
		ID:          "req-1",
		EmployeeID:  "emp-2",
		Type:        leave.TypeAnnual,
		StartDate:   day(9, 0),
		EndDate:     day(11, 0),
		Days:        3,
		Status:      leave.StatusPending,
		SubmittedAt: day(1, 8),
	}}}
	advanceRepo := &stubAdvanceRepo{pending: []advance.Request{{
		ID:          "adv-1",
		EmployeeID:  "emp-3",
		Amount:      decimal.NewFromInt(150),
		Status:      advance.StatusPending,
		SubmittedAt: day(3, 8),
	}}}

	svc := NewService(attendanceRepo, leaveRepo, advanceRepo, &stubAttendanceSvc{}, &stubLeaveSvc{}, &stubAdvanceSvc{})

	t.Run("merged oldest first", func(t *testing.T) {
		items, err := svc.ListPending(ctx, adminActor())
		require.NoError(t, err)
		require.Len(t, items, 3)

		assert.Equal(t, approval.KindLeave, items[0].Kind)
		assert.Equal(t, approval.KindAttendance, items[1].Kind)
		assert.Equal(t, approval.KindAdvance, items[2].Kind)

		// Flagged attendance sorts by its flag time, not check-in.
		assert.Equal(t, flaggedAt, items[1].SubmittedAt)
		assert.Equal(t, "Jane Staff", items[1].EmployeeName)
		assert.Contains(t, items[1].Summary, attendance.ViolationOutsideGeofence)
		assert.Contains(t, items[2].Summary, "150.00")
	})

	t.Run("timestamp ties break on id", func(t *testing.T) {
		leaveRepo.pending = append(leaveRepo.pending, leave.Request{
			ID:          "req-0",
			EmployeeID:  "emp-4",
			Type:        leave.TypeSick,
			StartDate:   day(9, 0),
			EndDate:     day(9, 0),
			Days:        1,
			Status:      leave.StatusPending,
			SubmittedAt: day(1, 8),
		})
		defer func() { leaveRepo.pending = leaveRepo.pending[:1] }()

		items, err := svc.ListPending(ctx, adminActor())
		require.NoError(t, err)
		require.Len(t, items, 4)
		assert.Equal(t, "req-0", items[0].Ref)
		assert.Equal(t, "req-1", items[1].Ref)
	})

	t.Run("staff cannot list the queue", func(t *testing.T) {
		_, err := svc.ListPending(ctx, staffActor())
		assert.ErrorIs(t, err, identity.ErrAdminRequired)
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	newPipeline := func() (*ServiceImpl, *stubAttendanceSvc, *stubLeaveSvc, *stubAdvanceSvc) {
		attendanceSvc := &stubAttendanceSvc{}
		leaveSvc := &stubLeaveSvc{}
		advanceSvc := &stubAdvanceSvc{}
		svc := NewService(&stubAttendanceRepo{}, &stubLeaveRepo{}, &stubAdvanceRepo{}, attendanceSvc, leaveSvc, advanceSvc).(*ServiceImpl)
		return svc, attendanceSvc, leaveSvc, advanceSvc
	}

	t.Run("attendance decision routes to its state machine", func(t *testing.T) {
		svc, attendanceSvc, _, _ := newPipeline()

		err := svc.Resolve(ctx, adminActor(), approval.ItemRef{Kind: approval.KindAttendance, ID: "rec-1"}, approval.DecisionApprove, "")
		require.NoError(t, err)
		require.Len(t, attendanceSvc.resolved, 1)
		assert.Equal(t, "rec-1", attendanceSvc.resolved[0].ID)
		assert.Equal(t, "approve", attendanceSvc.resolved[0].Decision)
	})

	t.Run("leave rejection carries the reason", func(t *testing.T) {
		svc, _, leaveSvc, _ := newPipeline()

		err := svc.Resolve(ctx, adminActor(), approval.ItemRef{Kind: approval.KindLeave, ID: "req-1"}, approval.DecisionReject, "short staffed")
		require.NoError(t, err)
		require.Len(t, leaveSvc.rejected, 1)
		assert.Equal(t, "short staffed", leaveSvc.rejected[0].Reason)
		assert.Empty(t, leaveSvc.approved)
	})

	t.Run("advance approval", func(t *testing.T) {
		svc, _, _, advanceSvc := newPipeline()

		err := svc.Resolve(ctx, adminActor(), approval.ItemRef{Kind: approval.KindAdvance, ID: "adv-1"}, approval.DecisionApprove, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"adv-1"}, advanceSvc.approved)
	})

	t.Run("owning domain conflict surfaces unchanged", func(t *testing.T) {
		svc, _, leaveSvc, _ := newPipeline()
		leaveSvc.err = leave.ErrAlreadyResolved

		err := svc.Resolve(ctx, adminActor(), approval.ItemRef{Kind: approval.KindLeave, ID: "req-1"}, approval.DecisionApprove, "")
		assert.ErrorIs(t, err, leave.ErrAlreadyResolved)
	})

	t.Run("unknown kind", func(t *testing.T) {
		svc, _, _, _ := newPipeline()

		err := svc.Resolve(ctx, adminActor(), approval.ItemRef{Kind: "payroll", ID: "x"}, approval.DecisionApprove, "")
		assert.ErrorIs(t, err, approval.ErrUnknownKind)
	})

	t.Run("staff cannot resolve", func(t *testing.T) {
		svc, attendanceSvc, _, _ := newPipeline()

		err := svc.Resolve(ctx, staffActor(), approval.ItemRef{Kind: approval.KindAttendance, ID: "rec-1"}, approval.DecisionApprove, "")
		assert.ErrorIs(t, err, identity.ErrAdminRequired)
		assert.Empty(t, attendanceSvc.resolved)
	})
}
