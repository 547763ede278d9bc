package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campuskit/reservation-backend/internal/approval"
	"github.com/campuskit/reservation-backend/internal/audit"
	"github.com/campuskit/reservation-backend/internal/department"
	"github.com/campuskit/reservation-backend/internal/notify"
	"github.com/campuskit/reservation-backend/internal/priority"
	"github.com/campuskit/reservation-backend/internal/resource"
	"github.com/campuskit/reservation-backend/internal/user"
)

type CreateRequest struct {
	UserID            string
	ResourceID        string
	Title             string
	Purpose           Purpose
	PurposeDetails    string
	ExpectedAttendees int
	ExternalAttendees bool
	Recurring         bool
	StartTime         time.Time
	EndTime           time.Time
	PriorityLevel     Level
}

// Service implements the booking pipeline: validation, availability and
// conflict checks, priority scoring, rule evaluation, the race-safe commit,
// and the status lifecycle.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	Approve(ctx context.Context, id, approverID, notes string) (*Booking, error)
	Decline(ctx context.Context, id, approverID, reason string) (*Booking, error)
	Cancel(ctx context.Context, id, actorID string, isAdmin bool, reason string) (*Booking, error)
	Complete(ctx context.Context, id, actorID string) (*Booking, error)
	MarkNoShow(ctx context.Context, id, actorID string) (*Booking, error)

	// Bump cancels an approved booking in favor of a higher-priority request
	// and commits the replacement through the normal conflict pipeline.
	Bump(ctx context.Context, targetID string, req CreateRequest) (*Booking, error)

	// DayAvailability returns the free intervals on the resource for the
	// day containing the given instant.
	DayAvailability(ctx context.Context, resourceID string, day time.Time) ([]TimeSlot, error)

	History(ctx context.Context, id string) ([]*audit.Entry, error)
}

// ServiceConfig wires the booking service's collaborators.
type ServiceConfig struct {
	Repo        Repository
	Resources   resource.Service
	Users       user.Service
	Departments department.Service
	Rules       approval.Service
	Audit       audit.Recorder
	Notifier    notify.Notifier
	Log         *zap.Logger
	MaxAttempts int
	Now         func() time.Time
}

type service struct {
	repo        Repository
	resources   resource.Service
	users       user.Service
	departments department.Service
	rules       approval.Service
	audit       audit.Recorder
	notifier    notify.Notifier
	log         *zap.Logger
	maxAttempts int
	now         func() time.Time
}

func NewService(cfg ServiceConfig) Service {
	s := &service{
		repo:        cfg.Repo,
		resources:   cfg.Resources,
		users:       cfg.Users,
		departments: cfg.Departments,
		rules:       cfg.Rules,
		audit:       cfg.Audit,
		notifier:    cfg.Notifier,
		log:         cfg.Log,
		maxAttempts: cfg.MaxAttempts,
		now:         cfg.Now,
	}
	if s.maxAttempts < 1 {
		s.maxAttempts = 3
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// prepared is a fully validated and scored candidate, ready to commit.
type prepared struct {
	booking *Booking
	res     *resource.Resource
	isAdmin bool
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, p, "")
}

// prepare runs every check that does not touch other bookings: shape
// validation, resource policy, availability windows, priority scoring, and
// approval rule evaluation. The returned candidate carries its final status
// and score but has not been persisted.
func (s *service) prepare(ctx context.Context, req CreateRequest) (*prepared, error) {
	now := s.now()

	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if !ValidPurpose(req.Purpose) {
		return nil, ErrInvalidPurpose
	}
	level := req.PriorityLevel
	if level == "" {
		level = LevelNormal
	}
	if !ValidLevel(level) {
		return nil, ErrInvalidPriorityLevel
	}
	if req.StartTime.IsZero() || !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}
	if req.StartTime.Before(now) {
		return nil, ErrStartTimePast
	}

	res, err := s.resources.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	u, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	duration := req.EndTime.Sub(req.StartTime)
	if res.MinDurationMinutes > 0 && duration < time.Duration(res.MinDurationMinutes)*time.Minute {
		return nil, ErrDurationTooShort
	}
	if res.MaxDurationMinutes > 0 && duration > time.Duration(res.MaxDurationMinutes)*time.Minute {
		return nil, ErrDurationTooLong
	}
	if res.MaxAdvanceDays > 0 && req.StartTime.After(now.AddDate(0, 0, res.MaxAdvanceDays)) {
		return nil, ErrAdvanceHorizon
	}

	if !u.IsAdmin() {
		if !res.RoleAllowed(string(u.Role)) {
			return nil, ErrRoleNotPermitted
		}
		if res.DepartmentRestricted && res.Department != "" && u.Department != res.Department {
			return nil, ErrDepartmentRestricted
		}
	}

	if err := resource.CheckAvailability(res, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	deptMatch := res.Department != "" && res.Department == u.Department
	daysAhead := req.StartTime.Sub(now).Hours() / 24

	score := priority.Score(priority.Input{
		Purpose:            string(req.Purpose),
		Role:               string(u.Role),
		Level:              string(level),
		DepartmentMatch:    deptMatch,
		DeptPriorityWeight: s.departments.PriorityWeight(ctx, u.Department),
		DaysInAdvance:      daysAhead,
		Recurring:          req.Recurring,
		ExternalAttendees:  req.ExternalAttendees,
	})

	status := StatusApproved
	ruleID := ""
	if res.RequiresApproval {
		decision, err := s.rules.EvaluateFor(ctx, res.Department, approval.Context{
			Role:            string(u.Role),
			ResourceType:    string(res.Type),
			Purpose:         string(req.Purpose),
			Duration:        duration,
			StartTime:       req.StartTime,
			DepartmentMatch: deptMatch,
			DaysInAdvance:   int(daysAhead),
		})
		if err != nil {
			return nil, err
		}
		status = StatusPending
		if decision.Matched && decision.AutoApprove {
			status = StatusApproved
		}
		ruleID = decision.RuleID
	}

	userName := u.Email
	if u.DisplayName != nil {
		userName = *u.DisplayName
	}

	b := &Booking{
		ResourceID:        res.ID,
		ResourceName:      res.Name,
		UserID:            u.ID,
		UserName:          userName,
		Department:        u.Department,
		Title:             strings.TrimSpace(req.Title),
		Purpose:           req.Purpose,
		PurposeDetails:    req.PurposeDetails,
		ExpectedAttendees: req.ExpectedAttendees,
		ExternalAttendees: req.ExternalAttendees,
		Recurring:         req.Recurring,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Status:            status,
		PriorityLevel:     level,
		PriorityScore:     score,
		ApprovalRuleID:    ruleID,
	}

	return &prepared{booking: b, res: res, isAdmin: u.IsAdmin()}, nil
}

// commit inserts the candidate with optimistic conflict detection. A conflict
// found before inserting is terminal. A conflict that appears between the
// insert and the post-insert re-check is a race: the loser, decided by
// (created_at, id) order against the surviving rows, deletes its own row and
// retries from the pre-check, up to maxAttempts times. excludeID ignores one
// existing row; a bump passes the displaced booking here so its row keeps
// holding the slot until the handover completes.
func (s *service) commit(ctx context.Context, p *prepared, excludeID string) (*Booking, error) {
	b := p.booking

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		conflicts, err := s.repo.FindOverlapping(ctx, b.ResourceID, b.StartTime, b.EndTime, excludeID)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, s.conflictError(ctx, p, conflicts)
		}

		if err := s.repo.Create(ctx, b); err != nil {
			return nil, err
		}

		rivals, err := s.repo.FindOverlapping(ctx, b.ResourceID, b.StartTime, b.EndTime, b.ID)
		if err != nil {
			s.rollback(ctx, b.ID)
			return nil, err
		}
		rivals = dropBooking(rivals, excludeID)
		if len(rivals) == 0 || wonRace(b, rivals) {
			s.recordAudit(ctx, b.ID, b.UserID, "created", "status "+string(b.Status))
			s.notifyStatus(ctx, b, "")
			return b, nil
		}

		s.rollback(ctx, b.ID)
		s.log.Debug("booking race lost, retrying",
			zap.String("resource_id", b.ResourceID),
			zap.Int("attempt", attempt),
		)
		b.ID = ""
	}

	conflicts, err := s.repo.FindOverlapping(ctx, b.ResourceID, b.StartTime, b.EndTime, excludeID)
	if err != nil || len(conflicts) == 0 {
		return nil, ErrTimeConflict
	}
	return nil, s.conflictError(ctx, p, conflicts)
}

// dropBooking removes the row with the given id, if present.
func dropBooking(bs []*Booking, id string) []*Booking {
	if id == "" {
		return bs
	}
	out := bs[:0]
	for _, b := range bs {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}

// wonRace reports whether b survives against the overlapping rows that
// appeared concurrently. The earliest (created_at, id) tuple wins, so exactly
// one of any set of racing writers keeps its row.
func wonRace(b *Booking, rivals []*Booking) bool {
	for _, r := range rivals {
		if r.CreatedAt.Before(b.CreatedAt) {
			return false
		}
		if r.CreatedAt.Equal(b.CreatedAt) && r.ID < b.ID {
			return false
		}
	}
	return true
}

func (s *service) rollback(ctx context.Context, id string) {
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Error("booking rollback failed", zap.String("booking_id", id), zap.Error(err))
	}
}

func (s *service) conflictError(ctx context.Context, p *prepared, conflicts []*Booking) error {
	b := p.booking

	top := conflicts[0].PriorityScore
	for _, c := range conflicts[1:] {
		if c.PriorityScore > top {
			top = c.PriorityScore
		}
	}

	dayStart := time.Date(b.StartTime.Year(), b.StartTime.Month(), b.StartTime.Day(), 0, 0, 0, 0, b.StartTime.Location())
	dayBookings, err := s.repo.FindOverlapping(ctx, b.ResourceID, dayStart, dayStart.AddDate(0, 0, 1), "")
	if err != nil {
		s.log.Warn("alternative slot lookup failed", zap.Error(err))
		dayBookings = conflicts
	}

	return &ConflictError{
		Conflicts:    conflicts,
		Alternatives: suggestAlternatives(p.res, dayBookings, b.StartTime, b.EndTime.Sub(b.StartTime)),
		Resolution:   priority.Resolve(b.PriorityScore, top, p.isAdmin),
	}
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Approve(ctx context.Context, id, approverID, notes string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, StatusApproved) {
		return nil, ErrInvalidTransition
	}

	// A declined booking dropped out of conflict detection, and even a
	// pending one may have been raced; re-check before it goes live again.
	rivals, err := s.repo.FindOverlapping(ctx, b.ResourceID, b.StartTime, b.EndTime, b.ID)
	if err != nil {
		return nil, err
	}
	if len(rivals) > 0 {
		return nil, &ConflictError{Conflicts: rivals, Resolution: priority.ResolutionReject}
	}

	now := s.now()
	b.Status = StatusApproved
	b.ApprovedBy = &approverID
	b.ApprovedAt = &now
	if notes != "" {
		b.ApprovalNotes = notes
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, b.ID, approverID, "approved", notes)
	s.notifyStatus(ctx, b, "")
	return b, nil
}

func (s *service) Decline(ctx context.Context, id, approverID, reason string) (*Booking, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, StatusDeclined) {
		return nil, ErrInvalidTransition
	}

	b.Status = StatusDeclined
	b.ApprovalNotes = reason

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, b.ID, approverID, "declined", reason)
	s.notifyStatus(ctx, b, reason)
	return b, nil
}

func (s *service) Cancel(ctx context.Context, id, actorID string, isAdmin bool, reason string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != actorID && !isAdmin {
		return nil, ErrPermissionDenied
	}
	if !CanTransition(b.Status, StatusCancelled) {
		return nil, ErrInvalidTransition
	}

	b.Status = StatusCancelled

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, b.ID, actorID, "cancelled", reason)
	s.notifyStatus(ctx, b, reason)
	return b, nil
}

func (s *service) Complete(ctx context.Context, id, actorID string) (*Booking, error) {
	return s.close(ctx, id, actorID, StatusCompleted, "completed")
}

func (s *service) MarkNoShow(ctx context.Context, id, actorID string) (*Booking, error) {
	return s.close(ctx, id, actorID, StatusNoShow, "no_show")
}

func (s *service) close(ctx context.Context, id, actorID string, to Status, action string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, to) {
		return nil, ErrInvalidTransition
	}

	b.Status = to

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, b.ID, actorID, action, "")
	s.notifyStatus(ctx, b, "")
	return b, nil
}

func (s *service) Bump(ctx context.Context, targetID string, req CreateRequest) (*Booking, error) {
	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Status != StatusApproved {
		return nil, ErrBumpTargetNotLive
	}
	if target.ResourceID != req.ResourceID {
		return nil, ErrBumpResourceMismatch
	}

	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	if !priority.CanBump(p.booking.PriorityScore, target.PriorityScore, target.StartTime, s.now(), p.isAdmin) {
		return nil, ErrBumpNotAuthorized
	}

	// The replacement commits first; the target's row keeps other writers
	// off the slot until the handover completes, so a failed commit leaves
	// the displaced booking untouched.
	b, err := s.commit(ctx, p, target.ID)
	if err != nil {
		return nil, err
	}

	reason := "displaced by a higher priority booking"
	target.Status = StatusCancelled
	if err := s.repo.Update(ctx, target); err != nil {
		s.rollback(ctx, b.ID)
		return nil, err
	}
	s.recordAudit(ctx, target.ID, req.UserID, "bumped", reason)
	s.notifyStatus(ctx, target, reason)

	return b, nil
}

func (s *service) DayAvailability(ctx context.Context, resourceID string, day time.Time) ([]TimeSlot, error) {
	res, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayBookings, err := s.repo.FindOverlapping(ctx, resourceID, dayStart, dayStart.AddDate(0, 0, 1), "")
	if err != nil {
		return nil, err
	}

	return FreeSlots(res, dayBookings, dayStart), nil
}

func (s *service) History(ctx context.Context, id string) ([]*audit.Entry, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.audit.ListByBooking(ctx, id)
}

func (s *service) recordAudit(ctx context.Context, bookingID, actorID, action, detail string) {
	err := s.audit.Record(ctx, &audit.Entry{
		BookingID: bookingID,
		ActorID:   actorID,
		Action:    action,
		Detail:    detail,
	})
	if err != nil {
		s.log.Error("audit record failed",
			zap.String("booking_id", bookingID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

func (s *service) notifyStatus(ctx context.Context, b *Booking, reason string) {
	err := s.notifier.BookingStatusChanged(ctx, notify.Event{
		ID:           uuid.NewString(),
		Type:         "booking." + string(b.Status),
		BookingID:    b.ID,
		UserID:       b.UserID,
		ResourceName: b.ResourceName,
		Title:        b.Title,
		Status:       string(b.Status),
		Reason:       reason,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		OccurredAt:   s.now(),
	})
	if err != nil {
		s.log.Error("booking notification failed",
			zap.String("booking_id", b.ID),
			zap.String("status", string(b.Status)),
			zap.Error(err),
		)
	}
}
