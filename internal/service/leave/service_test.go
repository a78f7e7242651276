package leave

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/employee"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/identity"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/leave"
	"github.com/staffdesk/staffdesk-backend-go/internal/domain/notification"
)

type fakeRequestRepo struct {
	mu      sync.Mutex
	byID    map[string]leave.Request
	locked  []string
	nextSeq int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{byID: make(map[string]leave.Request)}
}

func (f *fakeRequestRepo) snapshot() map[string]leave.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]leave.Request, len(f.byID))
	for k, v := range f.byID {
		out[k] = v
	}
	return out
}

func (f *fakeRequestRepo) restore(snap map[string]leave.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID = snap
}

func (f *fakeRequestRepo) Create(_ context.Context, req leave.Request) (leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.byID {
		if existing.EmployeeID == req.EmployeeID && existing.Type == req.Type &&
			existing.Status == leave.StatusPending &&
			existing.StartDate.Equal(req.StartDate) && existing.EndDate.Equal(req.EndDate) {
			return leave.Request{}, leave.ErrDuplicateRequest
		}
	}

	f.nextSeq++
	req.ID = fmt.Sprintf("req-%d", f.nextSeq)
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	f.byID[req.ID] = req
	return req, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.byID[id]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return req, nil
}

func (f *fakeRequestRepo) LockEmployee(_ context.Context, employeeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locked = append(f.locked, employeeID)
	return nil
}

func (f *fakeRequestRepo) HasApprovedOverlap(_ context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, req := range f.byID {
		if req.EmployeeID != employeeID || req.Status != leave.StatusApproved || req.ID == excludeID {
			continue
		}
		if !req.StartDate.After(end) && !req.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestRepo) UpdateStatusIf(_ context.Context, id string, from, to leave.Status, resolverID *string, rejectionReason *string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.byID[id]
	if !ok || req.Status != from {
		return leave.ErrAlreadyResolved
	}

	req.Status = to
	if resolverID != nil {
		req.ResolverID = resolverID
		req.ResolvedAt = &at
	}
	if rejectionReason != nil {
		req.RejectionReason = rejectionReason
	}
	f.byID[id] = req
	return nil
}

func (f *fakeRequestRepo) ListPending(_ context.Context) ([]leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []leave.Request
	for _, req := range f.byID {
		if req.Status == leave.StatusPending {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListByEmployee(_ context.Context, employeeID string) ([]leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []leave.Request
	for _, req := range f.byID {
		if req.EmployeeID == employeeID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListApprovedInRange(_ context.Context, employeeID string, from, to time.Time) ([]leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []leave.Request
	for _, req := range f.byID {
		if req.EmployeeID != employeeID || req.Status != leave.StatusApproved {
			continue
		}
		if !req.StartDate.After(to) && !req.EndDate.Before(from) {
			out = append(out, req)
		}
	}
	return out, nil
}

type fakeQuotaRepo struct {
	mu   sync.Mutex
	byID map[string]leave.Quota
}

func newFakeQuotaRepo() *fakeQuotaRepo {
	return &fakeQuotaRepo{byID: make(map[string]leave.Quota)}
}

func quotaKey(employeeID string, typ leave.Type, year int) string {
	return fmt.Sprintf("%s|%s|%d", employeeID, typ, year)
}

func (f *fakeQuotaRepo) snapshot() map[string]leave.Quota {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]leave.Quota, len(f.byID))
	for k, v := range f.byID {
		out[k] = v
	}
	return out
}

func (f *fakeQuotaRepo) restore(snap map[string]leave.Quota) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID = snap
}

func (f *fakeQuotaRepo) Get(_ context.Context, employeeID string, typ leave.Type, year int) (leave.Quota, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q, ok := f.byID[quotaKey(employeeID, typ, year)]
	if !ok {
		return leave.Quota{}, leave.ErrQuotaNotFound
	}
	return q, nil
}

func (f *fakeQuotaRepo) GetByEmployeeAndYear(_ context.Context, employeeID string, year int) ([]leave.Quota, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []leave.Quota
	for _, q := range f.byID {
		if q.EmployeeID == employeeID && q.Year == year {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuotaRepo) Upsert(_ context.Context, quota leave.Quota) (leave.Quota, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := quotaKey(quota.EmployeeID, quota.Type, quota.Year)
	if existing, ok := f.byID[key]; ok {
		existing.AllocatedDays = quota.AllocatedDays
		f.byID[key] = existing
		return existing, nil
	}
	quota.ID = key
	f.byID[key] = quota
	return quota, nil
}

func (f *fakeQuotaRepo) ConsumeIfAvailable(_ context.Context, employeeID string, typ leave.Type, year int, days int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := quotaKey(employeeID, typ, year)
	q, ok := f.byID[key]
	if !ok {
		return leave.ErrQuotaNotFound
	}
	if q.Remaining() < days {
		return leave.ErrQuotaExceeded
	}
	q.UsedDays += days
	f.byID[key] = q
	return nil
}

type fakeEmployeeRepo struct {
	byID map[string]employee.Employee
}

func newFakeEmployeeRepo(emps ...employee.Employee) *fakeEmployeeRepo {
	f := &fakeEmployeeRepo{byID: make(map[string]employee.Employee)}
	for _, emp := range emps {
		f.byID[emp.ID] = emp
	}
	return f
}

func (f *fakeEmployeeRepo) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	f.byID[emp.ID] = emp
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByExternalUserID(_ context.Context, externalUserID string) (employee.Employee, error) {
	for _, emp := range f.byID {
		if emp.ExternalUserID == externalUserID {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) Update(_ context.Context, emp employee.Employee) error {
	f.byID[emp.ID] = emp
	return nil
}

func (f *fakeEmployeeRepo) SetStatus(_ context.Context, id string, status employee.Status) error {
	emp, ok := f.byID[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	emp.Status = status
	f.byID[id] = emp
	return nil
}

func (f *fakeEmployeeRepo) List(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.byID {
		out = append(out, emp)
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.byID {
		if emp.IsActive() {
			out = append(out, emp)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []notification.Notification
	admin []string
}

func (f *fakeNotifier) Queue(_ context.Context, n notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) QueueAdmin(_ context.Context, kind notification.Kind, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admin = append(f.admin, message)
	return nil
}

func (f *fakeNotifier) Close() {}

// fakeTransactor restores both repos from a snapshot when the transaction
// function fails, matching the rollback the real pool provides.
type fakeTransactor struct {
	mu       sync.Mutex
	requests *fakeRequestRepo
	quotas   *fakeQuotaRepo
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	reqSnap := f.requests.snapshot()
	quotaSnap := f.quotas.snapshot()

	if err := fn(ctx); err != nil {
		f.requests.restore(reqSnap)
		f.quotas.restore(quotaSnap)
		return err
	}
	return nil
}

type leaveFixture struct {
	svc      *ServiceImpl
	requests *fakeRequestRepo
	quotas   *fakeQuotaRepo
	notifier *fakeNotifier
}

func newLeaveFixture(t *testing.T) *leaveFixture {
	t.Helper()

	requests := newFakeRequestRepo()
	quotas := newFakeQuotaRepo()
	employees := newFakeEmployeeRepo(
		employee.Employee{ID: "emp-1", FullName: "Jane Staff", ChatID: 42, Role: employee.RoleStaff, Status: employee.StatusActive},
		employee.Employee{ID: "admin-1", FullName: "Alex Admin", ChatID: 7, Role: employee.RoleAdmin, Status: employee.StatusActive},
	)
	notifier := &fakeNotifier{}
	tx := &fakeTransactor{requests: requests, quotas: quotas}

	svc := NewService(requests, quotas, employees, notifier, tx).(*ServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return &leaveFixture{svc: svc, requests: requests, quotas: quotas, notifier: notifier}
}

func (fx *leaveFixture) seedQuota(t *testing.T, typ leave.Type, allocated, used int) {
	t.Helper()
	_, err := fx.quotas.Upsert(context.Background(), leave.Quota{
		EmployeeID:    "emp-1",
		Type:          typ,
		Year:          2026,
		AllocatedDays: allocated,
	})
	require.NoError(t, err)
	if used > 0 {
		require.NoError(t, fx.quotas.ConsumeIfAvailable(context.Background(), "emp-1", typ, 2026, used))
	}
}

func staffActor() identity.Actor {
	return identity.Actor{EmployeeID: "emp-1", Role: employee.RoleStaff}
}

func adminActor() identity.Actor {
	return identity.Actor{EmployeeID: "admin-1", Role: employee.RoleAdmin}
}

func submitRequest(typ, start, end string) leave.SubmitRequest {
	return leave.SubmitRequest{Type: typ, StartDate: start, EndDate: end, Reason: "family matters"}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("pending request with inclusive day count", func(t *testing.T) {
		fx := newLeaveFixture(t)

		resp, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
		require.NoError(t, err)
		assert.Equal(t, string(leave.StatusPending), resp.Status)
		assert.Equal(t, 3, resp.Days)
		assert.Len(t, fx.notifier.sent, 1)
		assert.Len(t, fx.notifier.admin, 1)
	})

	t.Run("overlap with an approved request", func(t *testing.T) {
		fx := newLeaveFixture(t)
		fx.seedQuota(t, leave.TypeAnnual, 12, 0)

		resp, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
		require.NoError(t, err)
		require.NoError(t, fx.svc.Approve(ctx, adminActor(), resp.ID))

		_, err = fx.svc.Submit(ctx, staffActor(), submitRequest("sick", "2026-03-11", "2026-03-12"))
		assert.ErrorIs(t, err, leave.ErrOverlap)
	})

	t.Run("pending requests may still overlap", func(t *testing.T) {
		fx := newLeaveFixture(t)

		_, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
		require.NoError(t, err)
		_, err = fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-10", "2026-03-12"))
		assert.NoError(t, err)
	})

	t.Run("replayed submission is rejected", func(t *testing.T) {
		fx := newLeaveFixture(t)

		_, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
		require.NoError(t, err)

		_, err = fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
		assert.ErrorIs(t, err, leave.ErrDuplicateRequest)

		pending, err := fx.requests.ListPending(ctx)
		require.NoError(t, err)
		assert.Len(t, pending, 1)
		assert.Len(t, fx.notifier.admin, 1)
	})

	t.Run("invalid range rejected", func(t *testing.T) {
		fx := newLeaveFixture(t)
		_, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-11", "2026-03-09"))
		assert.Error(t, err)
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("approval consumes quota", func(t *testing.T) {
		fx := newLeaveFixture(t)
		fx.seedQuota(t, leave.TypeAnnual, 12, 0)

		resp, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
		require.NoError(t, err)
		require.NoError(t, fx.svc.Approve(ctx, adminActor(), resp.ID))

		q, err := fx.quotas.Get(ctx, "emp-1", leave.TypeAnnual, 2026)
		require.NoError(t, err)
		assert.Equal(t, 3, q.UsedDays)

		updated, err := fx.requests.GetByID(ctx, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, updated.Status)
		require.NotNil(t, updated.ResolverID)
		assert.Equal(t, "admin-1", *updated.ResolverID)
	})

	t.Run("approval holds the employee lock", func(t *testing.T) {
		fx := newLeaveFixture(t)
		fx.seedQuota(t, leave.TypeAnnual, 12, 0)

		resp, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
		require.NoError(t, err)
		require.NoError(t, fx.svc.Approve(ctx, adminActor(), resp.ID))

		assert.Equal(t, []string{"emp-1"}, fx.requests.locked)
	})

	t.Run("quota shortfall leaves the request pending", func(t *testing.T) {
		fx := newLeaveFixture(t)
		fx.seedQuota(t, leave.TypeAnnual, 12, 10)

		resp, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
		require.NoError(t, err)

		err = fx.svc.Approve(ctx, adminActor(), resp.ID)
		assert.ErrorIs(t, err, leave.ErrQuotaExceeded)

		updated, err := fx.requests.GetByID(ctx, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, leave.StatusPending, updated.Status)

		q, err := fx.quotas.Get(ctx, "emp-1", leave.TypeAnnual, 2026)
		require.NoError(t, err)
		assert.Equal(t, 10, q.UsedDays)
	})

	t.Run("unpaid leave bypasses quota", func(t *testing.T) {
		fx := newLeaveFixture(t)

		resp, err := fx.svc.Submit(ctx, staffActor(), submitRequest("unpaid", "2026-03-09", "2026-03-11"))
		require.NoError(t, err)
		assert.NoError(t, fx.svc.Approve(ctx, adminActor(), resp.ID))
	})

	t.Run("second overlapping approval rolls back", func(t *testing.T) {
		fx := newLeaveFixture(t)
		fx.seedQuota(t, leave.TypeAnnual, 12, 0)

		first, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
		require.NoError(t, err)
		second, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-10", "2026-03-12"))
		require.NoError(t, err)

		require.NoError(t, fx.svc.Approve(ctx, adminActor(), first.ID))
		err = fx.svc.Approve(ctx, adminActor(), second.ID)
		assert.ErrorIs(t, err, leave.ErrOverlap)

		updated, err := fx.requests.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, leave.StatusPending, updated.Status)

		// Only the first approval consumed quota.
		q, err := fx.quotas.Get(ctx, "emp-1", leave.TypeAnnual, 2026)
		require.NoError(t, err)
		assert.Equal(t, 3, q.UsedDays)
	})

	t.Run("double approval conflicts", func(t *testing.T) {
		fx := newLeaveFixture(t)
		fx.seedQuota(t, leave.TypeAnnual, 12, 0)

		resp, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
		require.NoError(t, err)

		require.NoError(t, fx.svc.Approve(ctx, adminActor(), resp.ID))
		err = fx.svc.Approve(ctx, adminActor(), resp.ID)
		assert.ErrorIs(t, err, leave.ErrAlreadyResolved)

		// The quota was only consumed once.
		q, err := fx.quotas.Get(ctx, "emp-1", leave.TypeAnnual, 2026)
		require.NoError(t, err)
		assert.Equal(t, 3, q.UsedDays)
	})

	t.Run("staff cannot approve", func(t *testing.T) {
		fx := newLeaveFixture(t)
		err := fx.svc.Approve(ctx, staffActor(), "req-1")
		assert.ErrorIs(t, err, identity.ErrAdminRequired)
	})

	t.Run("unknown request", func(t *testing.T) {
		fx := newLeaveFixture(t)
		err := fx.svc.Approve(ctx, adminActor(), "missing")
		assert.ErrorIs(t, err, leave.ErrRequestNotFound)
	})
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	fx := newLeaveFixture(t)

	resp, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
	require.NoError(t, err)

	t.Run("reason is required", func(t *testing.T) {
		err := fx.svc.Reject(ctx, adminActor(), leave.RejectRequest{ID: resp.ID})
		assert.Error(t, err)
	})

	t.Run("rejection records the reason", func(t *testing.T) {
		require.NoError(t, fx.svc.Reject(ctx, adminActor(), leave.RejectRequest{ID: resp.ID, Reason: "short staffed"}))

		updated, err := fx.requests.GetByID(ctx, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, updated.Status)
		require.NotNil(t, updated.RejectionReason)
		assert.Equal(t, "short staffed", *updated.RejectionReason)
	})

	t.Run("rejecting a resolved request conflicts", func(t *testing.T) {
		err := fx.svc.Reject(ctx, adminActor(), leave.RejectRequest{ID: resp.ID, Reason: "again"})
		assert.ErrorIs(t, err, leave.ErrAlreadyResolved)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels a pending request", func(t *testing.T) {
		fx := newLeaveFixture(t)
		resp, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
		require.NoError(t, err)

		require.NoError(t, fx.svc.Cancel(ctx, staffActor(), resp.ID))

		updated, err := fx.requests.GetByID(ctx, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, updated.Status)
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		fx := newLeaveFixture(t)
		resp, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
		require.NoError(t, err)

		err = fx.svc.Cancel(ctx, identity.Actor{EmployeeID: "emp-2", Role: employee.RoleStaff}, resp.ID)
		assert.ErrorIs(t, err, identity.ErrForbidden)
	})

	t.Run("approved requests cannot be cancelled", func(t *testing.T) {
		fx := newLeaveFixture(t)
		fx.seedQuota(t, leave.TypeAnnual, 12, 0)
		resp, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
		require.NoError(t, err)
		require.NoError(t, fx.svc.Approve(ctx, adminActor(), resp.ID))

		err = fx.svc.Cancel(ctx, staffActor(), resp.ID)
		assert.ErrorIs(t, err, leave.ErrAlreadyResolved)
	})
}

func TestConcurrentApprovals(t *testing.T) {
	ctx := context.Background()
	fx := newLeaveFixture(t)
	fx.seedQuota(t, leave.TypeAnnual, 4, 0)

	// Two pending requests of 3 days each against a 4-day allotment: at most
	// one can be approved regardless of interleaving.
	first, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-03-09", "2026-03-11"))
	require.NoError(t, err)
	second, err := fx.svc.Submit(ctx, staffActor(), submitRequest("annual", "2026-04-06", "2026-04-08"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(requestID string) {
			defer wg.Done()
			errs <- fx.svc.Approve(ctx, adminActor(), requestID)
		}(id)
	}
	wg.Wait()
	close(errs)

	var approved, exceeded int
	for err := range errs {
		switch {
		case err == nil:
			approved++
		case errors.Is(err, leave.ErrQuotaExceeded):
			exceeded++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, approved)
	assert.Equal(t, 1, exceeded)

	q, err := fx.quotas.Get(ctx, "emp-1", leave.TypeAnnual, 2026)
	require.NoError(t, err)
	assert.Equal(t, 3, q.UsedDays)
}

func TestQuotas(t *testing.T) {
	ctx := context.Background()

	t.Run("my quota defaults to the current year", func(t *testing.T) {
		fx := newLeaveFixture(t)
		fx.seedQuota(t, leave.TypeAnnual, 12, 2)

		quotas, err := fx.svc.MyQuota(ctx, staffActor(), 0)
		require.NoError(t, err)
		require.Len(t, quotas, 1)
		assert.Equal(t, 12, quotas[0].AllocatedDays)
		assert.Equal(t, 2, quotas[0].UsedDays)
		assert.Equal(t, 10, quotas[0].RemainingDays)
	})

	t.Run("adjusting an allocation keeps used days", func(t *testing.T) {
		fx := newLeaveFixture(t)
		fx.seedQuota(t, leave.TypeAnnual, 12, 5)

		resp, err := fx.svc.AdjustQuota(ctx, adminActor(), leave.AdjustQuotaRequest{
			EmployeeID:    "emp-1",
			Type:          "annual",
			Year:          2026,
			AllocatedDays: 15,
		})
		require.NoError(t, err)
		assert.Equal(t, 15, resp.AllocatedDays)
		assert.Equal(t, 5, resp.UsedDays)
		assert.Equal(t, 10, resp.RemainingDays)
	})

	t.Run("staff cannot adjust quotas", func(t *testing.T) {
		fx := newLeaveFixture(t)
		_, err := fx.svc.AdjustQuota(ctx, staffActor(), leave.AdjustQuotaRequest{
			EmployeeID:    "emp-1",
			Type:          "annual",
			Year:          2026,
			AllocatedDays: 15,
		})
		assert.ErrorIs(t, err, identity.ErrAdminRequired)
	})
}
