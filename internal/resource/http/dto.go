package http

import (
	"time"

	"github.com/campuskit/reservation-backend/internal/booking"
	"github.com/campuskit/reservation-backend/internal/pkg/request"
	"github.com/campuskit/reservation-backend/internal/resource"
)

// ListResourcesRequest defines query parameters for listing resources.
type ListResourcesRequest struct {
	request.ListParams
	Type       string `form:"type" binding:"omitempty,oneof=room lab equipment hall court"`
	Department string `form:"department"`
	Keyword    string `form:"keyword"`
}

type CreateResourceRequest struct {
	Name                 string                        `json:"name" binding:"required"`
	Type                 string                        `json:"type" binding:"required,oneof=room lab equipment hall court"`
	Department           string                        `json:"department"`
	DepartmentRestricted bool                          `json:"department_restricted"`
	AllowedRoles         []string                      `json:"allowed_roles" binding:"omitempty,dive,oneof=admin faculty student"`
	MinDurationMinutes   int                           `json:"min_duration_minutes" binding:"omitempty,min=0"`
	MaxDurationMinutes   int                           `json:"max_duration_minutes" binding:"omitempty,min=0"`
	MaxAdvanceDays       int                           `json:"max_advance_days" binding:"omitempty,min=0"`
	RequiresApproval     bool                          `json:"requires_approval"`
	AvailabilityWindows  []resource.AvailabilityWindow `json:"availability_windows"`
}

type UpdateResourceRequest struct {
	Name                 *string                       `json:"name"`
	Department           *string                       `json:"department"`
	DepartmentRestricted *bool                         `json:"department_restricted"`
	AllowedRoles         []string                      `json:"allowed_roles" binding:"omitempty,dive,oneof=admin faculty student"`
	MinDurationMinutes   *int                          `json:"min_duration_minutes" binding:"omitempty,min=0"`
	MaxDurationMinutes   *int                          `json:"max_duration_minutes" binding:"omitempty,min=0"`
	MaxAdvanceDays       *int                          `json:"max_advance_days" binding:"omitempty,min=0"`
	RequiresApproval     *bool                         `json:"requires_approval"`
	AvailabilityWindows  []resource.AvailabilityWindow `json:"availability_windows"`
}

type ResourceResponse struct {
	ID                   string                        `json:"id"`
	Name                 string                        `json:"name"`
	Type                 string                        `json:"type"`
	Department           string                        `json:"department,omitempty"`
	DepartmentRestricted bool                          `json:"department_restricted"`
	AllowedRoles         []string                      `json:"allowed_roles,omitempty"`
	MinDurationMinutes   int                           `json:"min_duration_minutes"`
	MaxDurationMinutes   int                           `json:"max_duration_minutes"`
	MaxAdvanceDays       int                           `json:"max_advance_days"`
	RequiresApproval     bool                          `json:"requires_approval"`
	AvailabilityWindows  []resource.AvailabilityWindow `json:"availability_windows,omitempty"`
	CreatedAt            time.Time                     `json:"created_at"`
	UpdatedAt            time.Time                     `json:"updated_at"`
}

func NewResourceResponse(r *resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:                   r.ID,
		Name:                 r.Name,
		Type:                 string(r.Type),
		Department:           r.Department,
		DepartmentRestricted: r.DepartmentRestricted,
		AllowedRoles:         r.AllowedRoles,
		MinDurationMinutes:   r.MinDurationMinutes,
		MaxDurationMinutes:   r.MaxDurationMinutes,
		MaxAdvanceDays:       r.MaxAdvanceDays,
		RequiresApproval:     r.RequiresApproval,
		AvailabilityWindows:  r.AvailabilityWindows,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// AvailabilityRequest defines query parameters for the day availability view.
type AvailabilityRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

type AvailabilityResponse struct {
	ResourceID string             `json:"resource_id"`
	Date       string             `json:"date"`
	FreeSlots  []booking.TimeSlot `json:"free_slots"`
}
