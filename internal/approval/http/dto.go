package http

import (
	"time"

	"github.com/campuskit/reservation-backend/internal/approval"
	"github.com/campuskit/reservation-backend/internal/pkg/request"
)

// ListRulesRequest defines query parameters for listing approval rules.
type ListRulesRequest struct {
	request.ListParams
	Department string `form:"department"`
	ActiveOnly bool   `form:"active_only"`
}

type CreateRuleRequest struct {
	Name               string   `json:"name" binding:"required"`
	Priority           int      `json:"priority" binding:"omitempty,min=0"`
	Active             bool     `json:"active"`
	ResourceTypes      []string `json:"resource_types" binding:"omitempty,dive,oneof=room lab equipment hall court"`
	Roles              []string `json:"roles" binding:"omitempty,dive,oneof=admin faculty student"`
	Purposes           []string `json:"purposes" binding:"omitempty,dive,oneof=academic research event maintenance examination workshop meeting"`
	MinDurationMinutes int      `json:"min_duration_minutes" binding:"omitempty,min=0"`
	MaxDurationMinutes int      `json:"max_duration_minutes" binding:"omitempty,min=0"`
	TimeOfDayStart     string   `json:"time_of_day_start"`
	TimeOfDayEnd       string   `json:"time_of_day_end"`
	DaysOfWeek         []int    `json:"days_of_week" binding:"omitempty,dive,min=0,max=6"`
	RequireDeptMatch   bool     `json:"require_dept_match"`
	MaxAdvanceDays     int      `json:"max_advance_days" binding:"omitempty,min=0"`
	AutoApprove        bool     `json:"auto_approve"`
	Department         string   `json:"department"`
}

type UpdateRuleRequest struct {
	Name               *string  `json:"name"`
	Priority           *int     `json:"priority" binding:"omitempty,min=0"`
	Active             *bool    `json:"active"`
	ResourceTypes      []string `json:"resource_types" binding:"omitempty,dive,oneof=room lab equipment hall court"`
	Roles              []string `json:"roles" binding:"omitempty,dive,oneof=admin faculty student"`
	Purposes           []string `json:"purposes" binding:"omitempty,dive,oneof=academic research event maintenance examination workshop meeting"`
	MinDurationMinutes *int     `json:"min_duration_minutes" binding:"omitempty,min=0"`
	MaxDurationMinutes *int     `json:"max_duration_minutes" binding:"omitempty,min=0"`
	TimeOfDayStart     *string  `json:"time_of_day_start"`
	TimeOfDayEnd       *string  `json:"time_of_day_end"`
	DaysOfWeek         []int    `json:"days_of_week" binding:"omitempty,dive,min=0,max=6"`
	RequireDeptMatch   *bool    `json:"require_dept_match"`
	MaxAdvanceDays     *int     `json:"max_advance_days" binding:"omitempty,min=0"`
	AutoApprove        *bool    `json:"auto_approve"`
	Department         *string  `json:"department"`
}

type RuleResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Priority           int       `json:"priority"`
	Active             bool      `json:"active"`
	ResourceTypes      []string  `json:"resource_types,omitempty"`
	Roles              []string  `json:"roles,omitempty"`
	Purposes           []string  `json:"purposes,omitempty"`
	MinDurationMinutes int       `json:"min_duration_minutes,omitempty"`
	MaxDurationMinutes int       `json:"max_duration_minutes,omitempty"`
	TimeOfDayStart     string    `json:"time_of_day_start,omitempty"`
	TimeOfDayEnd       string    `json:"time_of_day_end,omitempty"`
	DaysOfWeek         []int     `json:"days_of_week,omitempty"`
	RequireDeptMatch   bool      `json:"require_dept_match"`
	MaxAdvanceDays     int       `json:"max_advance_days,omitempty"`
	AutoApprove        bool      `json:"auto_approve"`
	Department         string    `json:"department,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewRuleResponse(r *approval.Rule) RuleResponse {
	return RuleResponse{
		ID:                 r.ID,
		Name:               r.Name,
		Priority:           r.Priority,
		Active:             r.Active,
		ResourceTypes:      r.ResourceTypes,
		Roles:              r.Roles,
		Purposes:           r.Purposes,
		MinDurationMinutes: r.MinDurationMinutes,
		MaxDurationMinutes: r.MaxDurationMinutes,
		TimeOfDayStart:     r.TimeOfDayStart,
		TimeOfDayEnd:       r.TimeOfDayEnd,
		DaysOfWeek:         r.DaysOfWeek,
		RequireDeptMatch:   r.RequireDeptMatch,
		MaxAdvanceDays:     r.MaxAdvanceDays,
		AutoApprove:        r.AutoApprove,
		Department:         r.Department,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}
