package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/reservation-backend/internal/approval"
	"github.com/campuskit/reservation-backend/internal/audit"
	"github.com/campuskit/reservation-backend/internal/department"
	"github.com/campuskit/reservation-backend/internal/notify"
	"github.com/campuskit/reservation-backend/internal/resource"
	"github.com/campuskit/reservation-backend/internal/user"
)

// testClock is the fixed "now" for every test: Monday 2026-03-02 08:00 UTC.
var testClock = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

// fakeRepo is an in-memory Repository. Each method takes the lock once, so
// concurrent service calls interleave at the same granularity as separate
// database statements.
type fakeRepo struct {
	mu   sync.Mutex
	seq  int
	rows map[string]*Booking

	// afterCreate, when set, runs once after the next Create returns.
	afterCreate func(r *fakeRepo)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]*Booking)}
}

func (r *fakeRepo) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	r.seq++
	b.ID = fmt.Sprintf("b-%04d", r.seq)
	b.CreatedAt = testClock.Add(time.Duration(r.seq) * time.Millisecond)
	b.UpdatedAt = b.CreatedAt
	clone := *b
	r.rows[b.ID] = &clone
	hook := r.afterCreate
	r.afterCreate = nil
	r.mu.Unlock()

	if hook != nil {
		hook(r)
	}
	return nil
}

// inject places a row directly, bypassing Create's sequencing. Used to
// simulate a concurrent writer that committed first.
func (r *fakeRepo) inject(b *Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.rows[b.ID] = &clone
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeRepo) List(_ context.Context, filter Filter) ([]*Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.rows {
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && string(b.Status) != filter.Status {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, len(out), nil
}

func (r *fakeRepo) Update(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[b.ID]; !ok {
		return ErrNotFound
	}
	b.UpdatedAt = testClock
	clone := *b
	r.rows[b.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeRepo) FindOverlapping(_ context.Context, resourceID string, start, end time.Time, excludeID string) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.rows {
		if b.ResourceID != resourceID || b.ID == excludeID || !b.Status.Live() {
			continue
		}
		if b.Overlaps(start, end) {
			clone := *b
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeRepo) liveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.rows {
		if b.Status.Live() {
			n++
		}
	}
	return n
}

type stubResources struct{ res *resource.Resource }

func (s *stubResources) Create(context.Context, resource.CreateRequest) (*resource.Resource, error) {
	return nil, nil
}

func (s *stubResources) GetByID(_ context.Context, id string) (*resource.Resource, error) {
	if s.res != nil && s.res.ID == id {
		return s.res, nil
	}
	return nil, resource.ErrNotFound
}

func (s *stubResources) List(context.Context, resource.Filter) ([]*resource.Resource, int, error) {
	return nil, 0, nil
}

func (s *stubResources) Update(context.Context, string, resource.UpdateRequest) (*resource.Resource, error) {
	return nil, nil
}

func (s *stubResources) Delete(context.Context, string) error { return nil }

type stubUsers struct{ users map[string]*user.User }

func (s *stubUsers) Register(context.Context, user.RegisterRequest) (*user.User, error) {
	return nil, nil
}
func (s *stubUsers) Login(context.Context, string, string) (*user.User, error) { return nil, nil }

func (s *stubUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (s *stubUsers) List(context.Context, user.Filter) ([]*user.User, int, error) {
	return nil, 0, nil
}

func (s *stubUsers) Update(context.Context, string, user.UpdateRequest) (*user.User, error) {
	return nil, nil
}

type stubDepartments struct{ weights map[string]int }

func (s *stubDepartments) Create(context.Context, department.CreateRequest) (*department.Department, error) {
	return nil, nil
}

func (s *stubDepartments) GetByID(context.Context, string) (*department.Department, error) {
	return nil, department.ErrNotFound
}

func (s *stubDepartments) GetByName(context.Context, string) (*department.Department, error) {
	return nil, department.ErrNotFound
}

func (s *stubDepartments) List(context.Context, department.Filter) ([]*department.Department, int, error) {
	return nil, 0, nil
}

func (s *stubDepartments) Update(context.Context, string, department.UpdateRequest) (*department.Department, error) {
	return nil, nil
}

func (s *stubDepartments) PriorityWeight(_ context.Context, name string) int {
	return s.weights[name]
}

type stubRules struct{ decision approval.Decision }

func (s *stubRules) Create(context.Context, approval.CreateRequest) (*approval.Rule, error) {
	return nil, nil
}

func (s *stubRules) GetByID(context.Context, string) (*approval.Rule, error) {
	return nil, approval.ErrNotFound
}

func (s *stubRules) List(context.Context, approval.Filter) ([]*approval.Rule, int, error) {
	return nil, 0, nil
}

func (s *stubRules) Update(context.Context, string, approval.UpdateRequest) (*approval.Rule, error) {
	return nil, nil
}

func (s *stubRules) Delete(context.Context, string) error { return nil }

func (s *stubRules) EvaluateFor(context.Context, string, approval.Context) (approval.Decision, error) {
	return s.decision, nil
}

type memAudit struct {
	mu      sync.Mutex
	entries []*audit.Entry
}

func (a *memAudit) Record(_ context.Context, e *audit.Entry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	e.CreatedAt = testClock
	a.entries = append(a.entries, e)
	return nil
}

func (a *memAudit) ListByBooking(_ context.Context, bookingID string) ([]*audit.Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []*audit.Entry
	for _, e := range a.entries {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *memNotifier) BookingStatusChanged(_ context.Context, e notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return nil
}

func (n *memNotifier) Close() error { return nil }

func strPtr(s string) *string { return &s }

func testRoom() *resource.Resource {
	return &resource.Resource{
		ID:                 "res-1",
		Name:               "Room 101",
		Type:               resource.TypeRoom,
		Department:         "physics",
		MinDurationMinutes: 30,
		MaxDurationMinutes: 240,
		MaxAdvanceDays:     30,
		RequiresApproval:   true,
	}
}

func testUsers() map[string]*user.User {
	return map[string]*user.User{
		"u-fac": {ID: "u-fac", Email: "fac@campus.edu", DisplayName: strPtr("Dr. Ada"), Role: user.RoleFaculty, Department: "physics", IsActive: true},
		"u-stu": {ID: "u-stu", Email: "stu@campus.edu", Role: user.RoleStudent, Department: "math", IsActive: true},
		"u-adm": {ID: "u-adm", Email: "adm@campus.edu", Role: user.RoleAdmin, IsActive: true},
	}
}

type testEnv struct {
	repo     *fakeRepo
	audit    *memAudit
	notifier *memNotifier
	rules    *stubRules
	res      *resource.Resource
	svc      Service
}

func newTestEnv(res *resource.Resource, decision approval.Decision) *testEnv {
	env := &testEnv{
		repo:     newFakeRepo(),
		audit:    &memAudit{},
		notifier: &memNotifier{},
		rules:    &stubRules{decision: decision},
		res:      res,
	}
	env.svc = NewService(ServiceConfig{
		Repo:        env.repo,
		Resources:   &stubResources{res: res},
		Users:       &stubUsers{users: testUsers()},
		Departments: &stubDepartments{weights: map[string]int{"physics": 5}},
		Rules:       env.rules,
		Audit:       env.audit,
		Notifier:    env.notifier,
		MaxAttempts: 3,
		Now:         func() time.Time { return testClock },
	})
	return env
}

func autoApprove() approval.Decision {
	return approval.Decision{AutoApprove: true, RuleID: "rule-1", Matched: true}
}

// slotRequest books tomorrow from startHour for the given length.
func slotRequest(userID string, startHour, hours int) CreateRequest {
	day := testClock.AddDate(0, 0, 1)
	start := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, time.UTC)
	return CreateRequest{
		UserID:     userID,
		ResourceID: "res-1",
		Title:      "Quantum mechanics lecture",
		Purpose:    PurposeAcademic,
		StartTime:  start,
		EndTime:    start.Add(time.Duration(hours) * time.Hour),
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr error
	}{
		{"missing title", func(r *CreateRequest) { r.Title = " " }, ErrTitleRequired},
		{"unknown purpose", func(r *CreateRequest) { r.Purpose = "party" }, ErrInvalidPurpose},
		{"unknown priority level", func(r *CreateRequest) { r.PriorityLevel = "urgent" }, ErrInvalidPriorityLevel},
		{"end before start", func(r *CreateRequest) { r.EndTime = r.StartTime.Add(-time.Hour) }, ErrInvalidTimeRange},
		{"end equals start", func(r *CreateRequest) { r.EndTime = r.StartTime }, ErrInvalidTimeRange},
		{"start in the past", func(r *CreateRequest) {
			r.StartTime = testClock.Add(-2 * time.Hour)
			r.EndTime = testClock.Add(-time.Hour)
		}, ErrStartTimePast},
		{"unknown resource", func(r *CreateRequest) { r.ResourceID = "res-404" }, ErrResourceNotFound},
		{"too short", func(r *CreateRequest) { r.EndTime = r.StartTime.Add(10 * time.Minute) }, ErrDurationTooShort},
		{"too long", func(r *CreateRequest) { r.EndTime = r.StartTime.Add(5 * time.Hour) }, ErrDurationTooLong},
		{"beyond advance horizon", func(r *CreateRequest) {
			r.StartTime = testClock.AddDate(0, 0, 45)
			r.EndTime = r.StartTime.Add(time.Hour)
		}, ErrAdvanceHorizon},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(testRoom(), autoApprove())
			req := slotRequest("u-fac", 10, 1)
			tc.mutate(&req)

			_, err := env.svc.Create(ctx, req)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Zero(t, env.repo.liveCount())
		})
	}
}

func TestCreateAccessPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("role not allowed", func(t *testing.T) {
		res := testRoom()
		res.AllowedRoles = []string{"faculty"}
		env := newTestEnv(res, autoApprove())

		_, err := env.svc.Create(ctx, slotRequest("u-stu", 10, 1))
		assert.ErrorIs(t, err, ErrRoleNotPermitted)
	})

	t.Run("department restricted", func(t *testing.T) {
		res := testRoom()
		res.DepartmentRestricted = true
		env := newTestEnv(res, autoApprove())

		_, err := env.svc.Create(ctx, slotRequest("u-stu", 10, 1))
		assert.ErrorIs(t, err, ErrDepartmentRestricted)
	})

	t.Run("admin bypasses access restrictions", func(t *testing.T) {
		res := testRoom()
		res.DepartmentRestricted = true
		res.AllowedRoles = []string{"faculty"}
		env := newTestEnv(res, autoApprove())

		b, err := env.svc.Create(ctx, slotRequest("u-adm", 10, 1))
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, b.Status)
	})

	t.Run("outside availability window", func(t *testing.T) {
		res := testRoom()
		res.AvailabilityWindows = []resource.AvailabilityWindow{
			{Weekday: 2, StartTime: "09:00", EndTime: "12:00"}, // Tuesday mornings only
		}
		env := newTestEnv(res, autoApprove())

		_, err := env.svc.Create(ctx, slotRequest("u-fac", 14, 1))
		assert.ErrorIs(t, err, resource.ErrOutsideAvailability)

		b, err := env.svc.Create(ctx, slotRequest("u-fac", 10, 1))
		require.NoError(t, err)
		assert.Equal(t, "Room 101", b.ResourceName)
	})
}

func TestCreateStatusAndScore(t *testing.T) {
	ctx := context.Background()

	t.Run("auto approve rule match", func(t *testing.T) {
		env := newTestEnv(testRoom(), autoApprove())

		b, err := env.svc.Create(ctx, slotRequest("u-fac", 10, 1))
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, b.Status)
		assert.Equal(t, "rule-1", b.ApprovalRuleID)
		assert.Equal(t, "Dr. Ada", b.UserName)
	})

	t.Run("no rule match means pending", func(t *testing.T) {
		env := newTestEnv(testRoom(), approval.Decision{})

		b, err := env.svc.Create(ctx, slotRequest("u-fac", 10, 1))
		require.NoError(t, err)
		assert.Equal(t, StatusPending, b.Status)
		assert.Empty(t, b.ApprovalRuleID)
	})

	t.Run("matched rule without auto approve means pending", func(t *testing.T) {
		env := newTestEnv(testRoom(), approval.Decision{RuleID: "rule-2", Matched: true})

		b, err := env.svc.Create(ctx, slotRequest("u-fac", 10, 1))
		require.NoError(t, err)
		assert.Equal(t, StatusPending, b.Status)
		assert.Equal(t, "rule-2", b.ApprovalRuleID)
	})

	t.Run("resource without approval requirement approves outright", func(t *testing.T) {
		res := testRoom()
		res.RequiresApproval = false
		env := newTestEnv(res, approval.Decision{})

		b, err := env.svc.Create(ctx, slotRequest("u-fac", 10, 1))
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, b.Status)
	})

	t.Run("score favors the stronger request", func(t *testing.T) {
		env := newTestEnv(testRoom(), autoApprove())

		fac, err := env.svc.Create(ctx, slotRequest("u-fac", 10, 1))
		require.NoError(t, err)
		stu, err := env.svc.Create(ctx, slotRequest("u-stu", 14, 1))
		require.NoError(t, err)

		// Faculty in the owning department outscores an outside student.
		assert.Greater(t, fac.PriorityScore, stu.PriorityScore)
		assert.Positive(t, stu.PriorityScore)
	})

	t.Run("requester department weight counts off department too", func(t *testing.T) {
		res := testRoom()
		res.Department = "chemistry"
		env := newTestEnv(res, autoApprove())

		b, err := env.svc.Create(ctx, slotRequest("u-fac", 10, 1))
		require.NoError(t, err)
		// (80+70) scaled by the physics weight of 5, plus the advance bonus;
		// no flat match bonus on another department's room.
		assert.InDelta(t, 225.0, b.PriorityScore, 2.0)
	})
}

func TestCreateConflict(t *testing.T) {
	ctx := context.Background()

	t.Run("overlap is rejected with conflicts and alternatives", func(t *testing.T) {
		env := newTestEnv(testRoom(), autoApprove())

		first, err := env.svc.Create(ctx, slotRequest("u-fac", 10, 1))
		require.NoError(t, err)

		req := slotRequest("u-stu", 10, 1)
		req.StartTime = req.StartTime.Add(30 * time.Minute) // 10:30 to 11:30
		req.EndTime = req.EndTime.Add(30 * time.Minute)

		_, err = env.svc.Create(ctx, req)
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		require.Len(t, conflict.Conflicts, 1)
		assert.Equal(t, first.ID, conflict.Conflicts[0].ID)
		assert.NotEmpty(t, conflict.Alternatives)
		for _, slot := range conflict.Alternatives {
			assert.Equal(t, time.Hour, slot.EndTime.Sub(slot.StartTime))
			assert.False(t, first.Overlaps(slot.StartTime, slot.EndTime))
		}
		assert.ErrorIs(t, err, ErrTimeConflict)
		assert.Equal(t, 1, env.repo.liveCount())
	})

	t.Run("back to back is not a conflict", func(t *testing.T) {
		env := newTestEnv(testRoom(), autoApprove())

		_, err := env.svc.Create(ctx, slotRequest("u-fac", 10, 1))
		require.NoError(t, err)

		// 11:00 to 12:00 starts exactly where the first ends.
		_, err = env.svc.Create(ctx, slotRequest("u-stu", 11, 1))
		require.NoError(t, err)
		assert.Equal(t, 2, env.repo.liveCount())
	})

	t.Run("admin conflict recommends admin override", func(t *testing.T) {
		env := newTestEnv(testRoom(), autoApprove())

		_, err := env.svc.Create(ctx, slotRequest("u-fac", 10, 1))
		require.NoError(t, err)

		_, err = env.svc.Create(ctx, slotRequest("u-adm", 10, 1))
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "admin_override", string(conflict.Resolution))
	})
}

func TestCreateRace(t *testing.T) {
	ctx := context.Background()

	t.Run("post-insert loser rolls back", func(t *testing.T) {
		env := newTestEnv(testRoom(), autoApprove())
		req := slotRequest("u-fac", 10, 1)

		// A rival row lands between our insert and the re-check, carrying an
		// earlier created_at, as if its transaction committed first.
		env.repo.afterCreate = func(r *fakeRepo) {
			r.inject(&Booking{
				ID:         "a-0000",
				ResourceID: "res-1",
				UserID:     "u-stu",
				Status:     StatusApproved,
				StartTime:  req.StartTime,
				EndTime:    req.EndTime,
				CreatedAt:  testClock.Add(-time.Minute),
			})
		}

		_, err := env.svc.Create(ctx, req)
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		require.Len(t, conflict.Conflicts, 1)
		assert.Equal(t, "a-0000", conflict.Conflicts[0].ID)

		// Exactly the rival survives; our tentative row was deleted.
		assert.Equal(t, 1, env.repo.liveCount())
		_, err = env.svc.GetByID(ctx, "a-0000")
		assert.NoError(t, err)
	})

	t.Run("concurrent writers leave exactly one live booking", func(t *testing.T) {
		env := newTestEnv(testRoom(), autoApprove())

		const writers = 8
		errs := make([]error, writers)
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = env.svc.Create(ctx, slotRequest("u-fac", 10, 1))
			}(i)
		}
		wg.Wait()

		won := 0
		for _, err := range errs {
			if err == nil {
				won++
			} else {
				assert.ErrorIs(t, err, ErrTimeConflict)
			}
		}
		assert.Equal(t, 1, won)
		assert.Equal(t, 1, env.repo.liveCount())
	})
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, env *testEnv, decision approval.Decision) *Booking {
		t.Helper()
		env.rules.decision = decision
		b, err := env.svc.Create(ctx, slotRequest("u-fac", 10, 1))
		require.NoError(t, err)
		return b
	}

	t.Run("approve pending", func(t *testing.T) {
		env := newTestEnv(testRoom(), approval.Decision{})
		b := create(t, env, approval.Decision{})

		got, err := env.svc.Approve(ctx, b.ID, "u-adm", "looks fine")
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)
		require.NotNil(t, got.ApprovedBy)
		assert.Equal(t, "u-adm", *got.ApprovedBy)
		assert.NotNil(t, got.ApprovedAt)
		assert.Equal(t, "looks fine", got.ApprovalNotes)
	})

	t.Run("decline requires a reason", func(t *testing.T) {
		env := newTestEnv(testRoom(), approval.Decision{})
		b := create(t, env, approval.Decision{})

		_, err := env.svc.Decline(ctx, b.ID, "u-adm", "  ")
		assert.ErrorIs(t, err, ErrReasonRequired)

		got, err := env.svc.Decline(ctx, b.ID, "u-adm", "double booked room")
		require.NoError(t, err)
		assert.Equal(t, StatusDeclined, got.Status)
	})

	t.Run("declined can be re-approved when the slot is still free", func(t *testing.T) {
		env := newTestEnv(testRoom(), approval.Decision{})
		b := create(t, env, approval.Decision{})

		_, err := env.svc.Decline(ctx, b.ID, "u-adm", "need the room")
		require.NoError(t, err)

		got, err := env.svc.Approve(ctx, b.ID, "u-adm", "freed up after all")
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)
	})

	t.Run("re-approval re-checks conflicts", func(t *testing.T) {
		env := newTestEnv(testRoom(), approval.Decision{})
		b := create(t, env, approval.Decision{})

		_, err := env.svc.Decline(ctx, b.ID, "u-adm", "need the room")
		require.NoError(t, err)

		// The slot gets taken while the first booking sits declined.
		env.rules.decision = autoApprove()
		_, err = env.svc.Create(ctx, slotRequest("u-stu", 10, 1))
		require.NoError(t, err)

		_, err = env.svc.Approve(ctx, b.ID, "u-adm", "")
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Len(t, conflict.Conflicts, 1)
	})

	t.Run("owner and admin can cancel, others cannot", func(t *testing.T) {
		env := newTestEnv(testRoom(), autoApprove())
		b := create(t, env, autoApprove())

		_, err := env.svc.Cancel(ctx, b.ID, "u-stu", false, "")
		assert.ErrorIs(t, err, ErrPermissionDenied)

		got, err := env.svc.Cancel(ctx, b.ID, "u-fac", false, "plans changed")
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	})

	t.Run("approved closes to completed or no-show", func(t *testing.T) {
		env := newTestEnv(testRoom(), autoApprove())
		b := create(t, env, autoApprove())

		got, err := env.svc.Complete(ctx, b.ID, "u-adm")
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, got.Status)

		_, err = env.svc.MarkNoShow(ctx, b.ID, "u-adm")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("invalid transitions are rejected", func(t *testing.T) {
		env := newTestEnv(testRoom(), approval.Decision{})
		b := create(t, env, approval.Decision{})

		// pending cannot complete
		_, err := env.svc.Complete(ctx, b.ID, "u-adm")
		assert.ErrorIs(t, err, ErrInvalidTransition)

		// cancelled is terminal
		_, err = env.svc.Cancel(ctx, b.ID, "u-fac", false, "")
		require.NoError(t, err)
		_, err = env.svc.Approve(ctx, b.ID, "u-adm", "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("transitions are audited and notified", func(t *testing.T) {
		env := newTestEnv(testRoom(), approval.Decision{})
		b := create(t, env, approval.Decision{})

		_, err := env.svc.Approve(ctx, b.ID, "u-adm", "")
		require.NoError(t, err)

		entries, err := env.svc.History(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "created", entries[0].Action)
		assert.Equal(t, "approved", entries[1].Action)

		require.Len(t, env.notifier.events, 2)
		assert.Equal(t, "booking.pending", env.notifier.events[0].Type)
		assert.Equal(t, "booking.approved", env.notifier.events[1].Type)
	})
}

func TestBump(t *testing.T) {
	ctx := context.Background()

	// A student meeting far in the future is weak enough for an examination
	// request by the owning department's faculty to displace it.
	weakTarget := func(t *testing.T, env *testEnv) *Booking {
		t.Helper()
		req := slotRequest("u-stu", 10, 1)
		req.Purpose = PurposeMeeting
		req.PriorityLevel = LevelLow
		b, err := env.svc.Create(ctx, req)
		require.NoError(t, err)
		require.Equal(t, StatusApproved, b.Status)
		return b
	}

	strongRequest := func() CreateRequest {
		req := slotRequest("u-fac", 10, 1)
		req.Purpose = PurposeExamination
		req.PriorityLevel = LevelCritical
		return req
	}

	t.Run("higher priority displaces the target", func(t *testing.T) {
		env := newTestEnv(testRoom(), autoApprove())
		target := weakTarget(t, env)

		b, err := env.svc.Bump(ctx, target.ID, strongRequest())
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, b.Status)

		displaced, err := env.svc.GetByID(ctx, target.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, displaced.Status)
		assert.Equal(t, 1, env.repo.liveCount())

		entries, err := env.svc.History(ctx, target.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "bumped", entries[1].Action)
	})

	t.Run("failed replacement leaves the target in place", func(t *testing.T) {
		env := newTestEnv(testRoom(), autoApprove())
		target := weakTarget(t, env)

		// A concurrent writer grabs the slot between the replacement's
		// insert and its re-check, so the replacement loses every retry.
		env.repo.afterCreate = func(r *fakeRepo) {
			r.inject(&Booking{
				ID:         "a-0000",
				ResourceID: "res-1",
				UserID:     "u-stu",
				Status:     StatusApproved,
				StartTime:  target.StartTime,
				EndTime:    target.EndTime,
				CreatedAt:  testClock.Add(-time.Minute),
			})
		}

		_, err := env.svc.Bump(ctx, target.ID, strongRequest())
		assert.ErrorIs(t, err, ErrTimeConflict)

		kept, err := env.svc.GetByID(ctx, target.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, kept.Status)
	})

	t.Run("insufficient score margin", func(t *testing.T) {
		env := newTestEnv(testRoom(), autoApprove())
		target := weakTarget(t, env)

		// Same purpose, role, and level as the target leaves a zero margin.
		req := slotRequest("u-stu", 10, 1)
		req.Purpose = PurposeMeeting
		req.PriorityLevel = LevelLow
		_, err := env.svc.Bump(ctx, target.ID, req)
		assert.ErrorIs(t, err, ErrBumpNotAuthorized)

		kept, err := env.svc.GetByID(ctx, target.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, kept.Status)
	})

	t.Run("short notice blocks non-admins", func(t *testing.T) {
		env := newTestEnv(testRoom(), autoApprove())

		// Target starts in two hours, inside the 24h notice window.
		target := &Booking{
			ID:         "t-0001",
			ResourceID: "res-1",
			UserID:     "u-stu",
			Status:     StatusApproved,
			StartTime:  testClock.Add(2 * time.Hour),
			EndTime:    testClock.Add(3 * time.Hour),
			CreatedAt:  testClock.Add(-time.Hour),
		}
		env.repo.inject(target)

		req := strongRequest()
		req.StartTime = target.StartTime
		req.EndTime = target.EndTime
		_, err := env.svc.Bump(ctx, target.ID, req)
		assert.ErrorIs(t, err, ErrBumpNotAuthorized)

		// An admin with the same score margin may bump on short notice.
		req.UserID = "u-adm"
		b, err := env.svc.Bump(ctx, target.ID, req)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, b.Status)
	})

	t.Run("only approved bookings can be bumped", func(t *testing.T) {
		env := newTestEnv(testRoom(), approval.Decision{})
		pending, err := env.svc.Create(ctx, slotRequest("u-stu", 10, 1))
		require.NoError(t, err)
		require.Equal(t, StatusPending, pending.Status)

		_, err = env.svc.Bump(ctx, pending.ID, strongRequest())
		assert.ErrorIs(t, err, ErrBumpTargetNotLive)
	})

	t.Run("target must share the resource", func(t *testing.T) {
		env := newTestEnv(testRoom(), autoApprove())
		target := weakTarget(t, env)

		req := strongRequest()
		req.ResourceID = "res-2"
		_, err := env.svc.Bump(ctx, target.ID, req)
		assert.ErrorIs(t, err, ErrBumpResourceMismatch)
	})
}
