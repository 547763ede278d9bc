package http

import (
	"time"

	"github.com/campuskit/reservation-backend/internal/department"
	"github.com/campuskit/reservation-backend/internal/pkg/request"
)

// ListDepartmentsRequest defines query parameters for listing departments.
type ListDepartmentsRequest struct {
	request.ListParams
	Keyword string `form:"keyword"`
}

type CreateDepartmentRequest struct {
	Name           string `json:"name" binding:"required"`
	PriorityWeight int    `json:"priority_weight" binding:"omitempty,min=0,max=10"`
}

type UpdateDepartmentRequest struct {
	Name           *string `json:"name"`
	PriorityWeight *int    `json:"priority_weight" binding:"omitempty,min=0,max=10"`
}

type DepartmentResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	PriorityWeight int       `json:"priority_weight"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewDepartmentResponse(d *department.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:             d.ID,
		Name:           d.Name,
		PriorityWeight: d.PriorityWeight,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
