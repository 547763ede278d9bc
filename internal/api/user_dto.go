package api

import (
	"github.com/campuskit/reservation-backend/internal/pkg/request"
)

// ListUsersRequest defines query parameters for the admin user listing.
type ListUsersRequest struct {
	request.ListParams
	Email      string `form:"email"`
	Role       string `form:"role" binding:"omitempty,oneof=admin faculty student"`
	Department string `form:"department"`
	IsActive   *bool  `form:"is_active"`
}

// UpdateUserRequest is the admin payload for PATCH /v1/users/:id.
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role" binding:"omitempty,oneof=admin faculty student"`
	Department  *string `json:"department"`
	IsActive    *bool   `json:"is_active"`
}
