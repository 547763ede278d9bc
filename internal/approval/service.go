package approval

import (
	"context"
	"strings"
	"time"
)

type CreateRequest struct {
	Name               string
	Priority           int
	Active             bool
	ResourceTypes      []string
	Roles              []string
	Purposes           []string
	MinDurationMinutes int
	MaxDurationMinutes int
	TimeOfDayStart     string
	TimeOfDayEnd       string
	DaysOfWeek         []int
	RequireDeptMatch   bool
	MaxAdvanceDays     int
	AutoApprove        bool
	Department         string
}

type UpdateRequest struct {
	Name               *string
	Priority           *int
	Active             *bool
	ResourceTypes      []string
	Roles              []string
	Purposes           []string
	MinDurationMinutes *int
	MaxDurationMinutes *int
	TimeOfDayStart     *string
	TimeOfDayEnd       *string
	DaysOfWeek         []int
	RequireDeptMatch   *bool
	MaxAdvanceDays     *int
	AutoApprove        *bool
	Department         *string
}

// Service manages approval rules and exposes the evaluator over the stored
// rule set.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Rule, error)
	GetByID(ctx context.Context, id string) (*Rule, error)
	List(ctx context.Context, filter Filter) ([]*Rule, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Rule, error)
	Delete(ctx context.Context, id string) error

	// EvaluateFor loads the active rules in scope for the resource's
	// department and evaluates them against evalCtx.
	EvaluateFor(ctx context.Context, resourceDepartment string, evalCtx Context) (Decision, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Rule, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if req.Priority < 0 {
		return nil, ErrInvalidPriority
	}
	if err := validateClockSpan(req.TimeOfDayStart, req.TimeOfDayEnd); err != nil {
		return nil, err
	}

	rule := &Rule{
		Name:               name,
		Priority:           req.Priority,
		Active:             req.Active,
		ResourceTypes:      req.ResourceTypes,
		Roles:              req.Roles,
		Purposes:           req.Purposes,
		MinDurationMinutes: req.MinDurationMinutes,
		MaxDurationMinutes: req.MaxDurationMinutes,
		TimeOfDayStart:     req.TimeOfDayStart,
		TimeOfDayEnd:       req.TimeOfDayEnd,
		DaysOfWeek:         req.DaysOfWeek,
		RequireDeptMatch:   req.RequireDeptMatch,
		MaxAdvanceDays:     req.MaxAdvanceDays,
		AutoApprove:        req.AutoApprove,
		Department:         strings.TrimSpace(req.Department),
	}

	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Rule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Rule, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Rule, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		rule.Name = name
	}
	if req.Priority != nil {
		if *req.Priority < 0 {
			return nil, ErrInvalidPriority
		}
		rule.Priority = *req.Priority
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}
	if req.ResourceTypes != nil {
		rule.ResourceTypes = req.ResourceTypes
	}
	if req.Roles != nil {
		rule.Roles = req.Roles
	}
	if req.Purposes != nil {
		rule.Purposes = req.Purposes
	}
	if req.MinDurationMinutes != nil {
		rule.MinDurationMinutes = *req.MinDurationMinutes
	}
	if req.MaxDurationMinutes != nil {
		rule.MaxDurationMinutes = *req.MaxDurationMinutes
	}
	if req.TimeOfDayStart != nil {
		rule.TimeOfDayStart = *req.TimeOfDayStart
	}
	if req.TimeOfDayEnd != nil {
		rule.TimeOfDayEnd = *req.TimeOfDayEnd
	}
	if err := validateClockSpan(rule.TimeOfDayStart, rule.TimeOfDayEnd); err != nil {
		return nil, err
	}
	if req.DaysOfWeek != nil {
		rule.DaysOfWeek = req.DaysOfWeek
	}
	if req.RequireDeptMatch != nil {
		rule.RequireDeptMatch = *req.RequireDeptMatch
	}
	if req.MaxAdvanceDays != nil {
		rule.MaxAdvanceDays = *req.MaxAdvanceDays
	}
	if req.AutoApprove != nil {
		rule.AutoApprove = *req.AutoApprove
	}
	if req.Department != nil {
		rule.Department = strings.TrimSpace(*req.Department)
	}

	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) EvaluateFor(ctx context.Context, resourceDepartment string, evalCtx Context) (Decision, error) {
	rules, err := s.repo.ListActive(ctx, resourceDepartment)
	if err != nil {
		return Decision{}, err
	}
	return Evaluate(rules, evalCtx), nil
}

func validateClockSpan(start, end string) error {
	if (start == "") != (end == "") {
		return ErrInvalidWindow
	}
	if start == "" {
		return nil
	}
	s, err := time.Parse("15:04", start)
	if err != nil {
		return ErrInvalidWindow
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return ErrInvalidWindow
	}
	if !e.After(s) {
		return ErrInvalidWindow
	}
	return nil
}
