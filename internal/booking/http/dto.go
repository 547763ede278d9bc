package http

import (
	"time"

	"github.com/campuskit/reservation-backend/internal/audit"
	"github.com/campuskit/reservation-backend/internal/booking"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	Page          int        `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	ResourceID    string     `form:"resource_id" binding:"omitempty,uuid"`
	Status        string     `form:"status" binding:"omitempty,oneof=pending approved declined cancelled completed no_show"`
	UserID        string     `form:"user_id" binding:"omitempty,uuid"`
	StartTimeFrom *time.Time `form:"start_time_from" time_format:"2006-01-02T15:04:05Z07:00"`
	StartTimeTo   *time.Time `form:"start_time_to" time_format:"2006-01-02T15:04:05Z07:00"`
	SortBy        string     `form:"sort_by" binding:"omitempty,oneof=start_time created_at priority_score"`
	SortOrder     string     `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// Validate performs custom validation for ListBookingsRequest.
func (r *ListBookingsRequest) Validate() error {
	if r.StartTimeFrom != nil && r.StartTimeTo != nil {
		if r.StartTimeFrom.After(*r.StartTimeTo) {
			return booking.ErrInvalidTimeRange
		}
	}
	return nil
}

type CreateBookingRequest struct {
	ResourceID        string    `json:"resource_id" binding:"required,uuid"`
	Title             string    `json:"title" binding:"required"`
	Purpose           string    `json:"purpose" binding:"required"`
	PurposeDetails    string    `json:"purpose_details"`
	ExpectedAttendees int       `json:"expected_attendees" binding:"omitempty,min=1"`
	ExternalAttendees bool      `json:"external_attendees"`
	Recurring         bool      `json:"recurring"`
	StartTime         time.Time `json:"start_time" binding:"required"`
	EndTime           time.Time `json:"end_time" binding:"required"`
	PriorityLevel     string    `json:"priority_level" binding:"omitempty,oneof=low normal high critical"`
}

func (r *CreateBookingRequest) toServiceRequest(userID string) booking.CreateRequest {
	return booking.CreateRequest{
		UserID:            userID,
		ResourceID:        r.ResourceID,
		Title:             r.Title,
		Purpose:           booking.Purpose(r.Purpose),
		PurposeDetails:    r.PurposeDetails,
		ExpectedAttendees: r.ExpectedAttendees,
		ExternalAttendees: r.ExternalAttendees,
		Recurring:         r.Recurring,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		PriorityLevel:     booking.Level(r.PriorityLevel),
	}
}

type ApproveBookingRequest struct {
	Notes string `json:"notes"`
}

type DeclineBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type ResourceTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID                string      `json:"id"`
	Resource          ResourceTag `json:"resource"`
	User              UserTag     `json:"user"`
	Department        string      `json:"department,omitempty"`
	Title             string      `json:"title"`
	Purpose           string      `json:"purpose"`
	PurposeDetails    string      `json:"purpose_details,omitempty"`
	ExpectedAttendees int         `json:"expected_attendees,omitempty"`
	ExternalAttendees bool        `json:"external_attendees"`
	Recurring         bool        `json:"recurring"`
	StartTime         time.Time   `json:"start_time"`
	EndTime           time.Time   `json:"end_time"`
	Status            string      `json:"status"`
	PriorityLevel     string      `json:"priority_level"`
	PriorityScore     float64     `json:"priority_score"`
	ApprovedBy        *string     `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time  `json:"approved_at,omitempty"`
	ApprovalNotes     string      `json:"approval_notes,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:                b.ID,
		Resource:          ResourceTag{ID: b.ResourceID, Name: b.ResourceName},
		User:              UserTag{ID: b.UserID, Name: b.UserName},
		Department:        b.Department,
		Title:             b.Title,
		Purpose:           string(b.Purpose),
		PurposeDetails:    b.PurposeDetails,
		ExpectedAttendees: b.ExpectedAttendees,
		ExternalAttendees: b.ExternalAttendees,
		Recurring:         b.Recurring,
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		Status:            string(b.Status),
		PriorityLevel:     string(b.PriorityLevel),
		PriorityScore:     b.PriorityScore,
		ApprovedBy:        b.ApprovedBy,
		ApprovedAt:        b.ApprovedAt,
		ApprovalNotes:     b.ApprovalNotes,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// ConflictResponse is the 409 payload: what stands in the way, where else the
// request could go, and the resolver's recommendation.
type ConflictResponse struct {
	Error        string             `json:"error"`
	Conflicts    []BookingResponse  `json:"conflicts"`
	Alternatives []booking.TimeSlot `json:"alternatives"`
	Resolution   string             `json:"resolution,omitempty"`
}

func NewConflictResponse(e *booking.ConflictError) ConflictResponse {
	conflicts := make([]BookingResponse, len(e.Conflicts))
	for i, b := range e.Conflicts {
		conflicts[i] = NewBookingResponse(b)
	}
	alternatives := e.Alternatives
	if alternatives == nil {
		alternatives = make([]booking.TimeSlot, 0)
	}
	return ConflictResponse{
		Error:        e.Error(),
		Conflicts:    conflicts,
		Alternatives: alternatives,
		Resolution:   string(e.Resolution),
	}
}

type AuditEntryResponse struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAuditEntryResponse(e *audit.Entry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        e.ID,
		ActorID:   e.ActorID,
		Action:    e.Action,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
}
