package department

import (
	"net/http"
	"time"

	"github.com/campuskit/reservation-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.NotFound("department not found")
	ErrNameRequired  = apperror.Validation("department name is required")
	ErrNameTaken     = apperror.New(http.StatusConflict, "department name already exists")
	ErrInvalidWeight = apperror.Validation("priority weight must be between 0 and 10")
)

// Department represents an organizational unit that owns resources and to
// which requesters belong. PriorityWeight (0-10) feeds the booking priority
// scorer: weight 10 doubles a department member's score on owned resources.
type Department struct {
	ID             string
	Name           string
	PriorityWeight int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Filter defines parameters for listing departments.
type Filter struct {
	Keyword  string
	Page     int
	PageSize int
}
