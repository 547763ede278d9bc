package booking

import (
	"net/http"
	"time"

	"github.com/campuskit/reservation-backend/internal/pkg/apperror"
	"github.com/campuskit/reservation-backend/internal/priority"
)

var (
	ErrNotFound             = apperror.NotFound("booking not found")
	ErrResourceNotFound     = apperror.NotFound("resource not found")
	ErrInvalidTimeRange     = apperror.Validation("start time must be before end time")
	ErrStartTimePast        = apperror.Validation("cannot create booking in the past")
	ErrTitleRequired        = apperror.Validation("title is required")
	ErrInvalidPurpose       = apperror.Validation("invalid booking purpose")
	ErrInvalidPriorityLevel = apperror.Validation("invalid priority level")
	ErrDurationTooShort     = apperror.Validation("booking is shorter than the resource minimum duration")
	ErrDurationTooLong      = apperror.Validation("booking exceeds the resource maximum duration")
	ErrAdvanceHorizon       = apperror.Validation("booking exceeds the advance booking horizon")
	ErrInvalidTransition    = apperror.Validation("invalid booking status transition")
	ErrReasonRequired       = apperror.Validation("a reason is required to decline")
	ErrPermissionDenied     = apperror.Authorization("permission denied")
	ErrRoleNotPermitted     = apperror.Authorization("this resource is not available to your role")
	ErrBumpNotAuthorized    = apperror.Authorization("bump not authorized")
	ErrTimeConflict         = apperror.New(http.StatusConflict, "time slot already booked")
	ErrBumpTargetNotLive    = apperror.Validation("only an approved booking can be bumped")
	ErrBumpResourceMismatch = apperror.Validation("bump must target a booking on the same resource")
	ErrDepartmentRestricted = apperror.Authorization("this resource is restricted to its owning department")
)

// Status follows the booking lifecycle:
// pending -> {approved, declined, cancelled};
// declined -> approved (admin override only);
// approved -> {completed, cancelled, no_show}.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// Live reports whether the status counts toward conflict detection.
func (s Status) Live() bool {
	return s == StatusPending || s == StatusApproved
}

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusDeclined, StatusCancelled},
	StatusDeclined: {StatusApproved}, // admin override only
	StatusApproved: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Purpose categorizes what a booking is for; it carries the largest weight
// in priority scoring.
type Purpose string

const (
	PurposeAcademic    Purpose = "academic"
	PurposeResearch    Purpose = "research"
	PurposeEvent       Purpose = "event"
	PurposeMaintenance Purpose = "maintenance"
	PurposeExamination Purpose = "examination"
	PurposeWorkshop    Purpose = "workshop"
	PurposeMeeting     Purpose = "meeting"
)

// ValidPurpose reports whether p is a known purpose.
func ValidPurpose(p Purpose) bool {
	switch p {
	case PurposeAcademic, PurposeResearch, PurposeEvent, PurposeMaintenance,
		PurposeExamination, PurposeWorkshop, PurposeMeeting:
		return true
	}
	return false
}

// Level is the requester-declared priority level.
type Level string

const (
	LevelLow      Level = "low"
	LevelNormal   Level = "normal"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// ValidLevel reports whether l is a known priority level.
func ValidLevel(l Level) bool {
	switch l {
	case LevelLow, LevelNormal, LevelHigh, LevelCritical:
		return true
	}
	return false
}

// Booking represents one reservation of a resource over [StartTime, EndTime).
type Booking struct {
	ID           string
	ResourceID   string
	ResourceName string
	UserID       string
	UserName     string
	Department   string // Requester's department at booking time

	Title             string
	Purpose           Purpose
	PurposeDetails    string
	ExpectedAttendees int
	ExternalAttendees bool
	Recurring         bool

	StartTime time.Time
	EndTime   time.Time

	Status        Status
	PriorityLevel Level
	PriorityScore float64

	// Approval metadata
	ApprovedBy     *string
	ApprovedAt     *time.Time
	ApprovalNotes  string
	ApprovalRuleID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps reports whether the booking's half-open interval intersects
// [start, end). A booking ending exactly at start does not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// TimeSlot is a free interval offered as an alternative to a conflicting
// request.
type TimeSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ConflictError is returned when a requested interval collides with live
// bookings. It carries the conflicting bookings, alternative free slots, and
// the resolver's recommendation for the requester.
type ConflictError struct {
	Conflicts    []*Booking
	Alternatives []TimeSlot
	Resolution   priority.Resolution
}

func (e *ConflictError) Error() string {
	return ErrTimeConflict.Message
}

// Unwrap lets generic error mapping surface this as a 409.
func (e *ConflictError) Unwrap() error {
	return ErrTimeConflict
}

// Filter defines parameters for listing bookings.
type Filter struct {
	UserID     string
	ResourceID string
	Status     string
	StartTime  *time.Time // Bookings ending after this instant
	EndTime    *time.Time // Bookings starting before this instant
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
