package user

import (
	"net/http"
	"time"

	"github.com/campuskit/reservation-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrInactiveUser       = apperror.Authorization("user is inactive")
	ErrInvalidRole        = apperror.Validation("invalid role")
)

// Role determines both API permissions and the role weight used by the
// booking priority scorer.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStudent:
		return true
	}
	return false
}

// User represents a requester in the system.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	Role         Role
	Department   string // Department name; empty when unaffiliated
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Filter defines filter options for listing users.
type Filter struct {
	Email      string
	Role       string
	Department string
	IsActive   *bool // Pointer distinguishes false from not-set

	Page     int
	PageSize int
}
