package resource

import (
	"time"

	"github.com/campuskit/reservation-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("resource not found")
	ErrEmptyName           = apperror.Validation("name cannot be empty")
	ErrInvalidResourceType = apperror.Validation("invalid resource type")
	ErrInvalidDuration     = apperror.Validation("invalid duration bounds")
	ErrInvalidWindow       = apperror.Validation("invalid availability window")
	ErrOutsideAvailability = apperror.Validation("outside availability")
)

// Type classifies a bookable resource. Approval rules can be scoped to
// specific types.
type Type string

const (
	TypeRoom      Type = "room"
	TypeLab       Type = "lab"
	TypeEquipment Type = "equipment"
	TypeHall      Type = "hall"
	TypeCourt     Type = "court"
)

// ValidTypes lists the accepted resource types.
var ValidTypes = []Type{TypeRoom, TypeLab, TypeEquipment, TypeHall, TypeCourt}

// ValidType reports whether t is a known resource type.
func ValidType(t Type) bool {
	for _, v := range ValidTypes {
		if t == v {
			return true
		}
	}
	return false
}

// AvailabilityWindow describes when a resource can be booked. A recurring
// window applies every week on Weekday; a window with Date set applies to
// that calendar date only and overrides recurring windows. A blocked window
// makes its date entirely unavailable.
type AvailabilityWindow struct {
	Weekday   int    `json:"weekday"`        // 0 = Sunday ... 6 = Saturday
	StartTime string `json:"start_time"`     // "HH:MM", local to the resource
	EndTime   string `json:"end_time"`       // "HH:MM", exclusive
	Date      string `json:"date,omitempty"` // "2006-01-02" for date-specific overrides
	Blocked   bool   `json:"blocked,omitempty"`
}

// Resource represents a bookable unit (e.g., Room 101, Optics Lab, Projector).
type Resource struct {
	ID         string
	Name       string
	Type       Type
	Department string // Owning department name; empty when unowned

	// Booking policy
	DepartmentRestricted bool     // Only members of Department may book
	AllowedRoles         []string // Empty means any role
	MinDurationMinutes   int      // 0 means no minimum
	MaxDurationMinutes   int      // 0 means no maximum
	MaxAdvanceDays       int      // 0 means no horizon limit
	RequiresApproval     bool
	AvailabilityWindows  []AvailabilityWindow // Empty means always available

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleAllowed reports whether the given requester role may book the resource.
func (r *Resource) RoleAllowed(role string) bool {
	if len(r.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range r.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Filter defines parameters for listing resources.
type Filter struct {
	Type       string
	Department string
	Keyword    string
	Page       int
	PageSize   int
}
