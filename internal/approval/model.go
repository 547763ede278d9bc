package approval

import (
	"time"

	"github.com/campuskit/reservation-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.NotFound("approval rule not found")
	ErrNameRequired    = apperror.Validation("rule name is required")
	ErrInvalidPriority = apperror.Validation("rule priority must be non-negative")
	ErrInvalidWindow   = apperror.Validation("invalid time-of-day window")
)

// Rule is one conditional auto-approval policy. Rules are evaluated in
// ascending Priority order; the first rule whose every specified condition
// matches decides the booking. An empty condition field means "don't care".
type Rule struct {
	ID       string
	Name     string
	Priority int // Lower = evaluated first
	Active   bool

	// Conditions (conjunction; empty = don't care)
	ResourceTypes      []string
	Roles              []string
	Purposes           []string
	MinDurationMinutes int    // 0 = no minimum
	MaxDurationMinutes int    // 0 = no maximum
	TimeOfDayStart     string // "HH:MM"; both set or both empty
	TimeOfDayEnd       string // "HH:MM", exclusive
	DaysOfWeek         []int  // 0 = Sunday ... 6 = Saturday
	RequireDeptMatch   bool
	MaxAdvanceDays     int // 0 = no horizon condition

	AutoApprove bool
	Department  string // Scope; empty = global

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter defines parameters for listing rules.
type Filter struct {
	Department string
	ActiveOnly bool
	Page       int
	PageSize   int
}
