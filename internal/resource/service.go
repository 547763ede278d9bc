package resource

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name                 string
	Type                 Type
	Department           string
	DepartmentRestricted bool
	AllowedRoles         []string
	MinDurationMinutes   int
	MaxDurationMinutes   int
	MaxAdvanceDays       int
	RequiresApproval     bool
	AvailabilityWindows  []AvailabilityWindow
}

type UpdateRequest struct {
	Name                 *string
	Department           *string
	DepartmentRestricted *bool
	AllowedRoles         []string
	MinDurationMinutes   *int
	MaxDurationMinutes   *int
	MaxAdvanceDays       *int
	RequiresApproval     *bool
	AvailabilityWindows  []AvailabilityWindow
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if !ValidType(req.Type) {
		return nil, ErrInvalidResourceType
	}
	if err := validateDurations(req.MinDurationMinutes, req.MaxDurationMinutes, req.MaxAdvanceDays); err != nil {
		return nil, err
	}
	for _, w := range req.AvailabilityWindows {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}

	res := &Resource{
		Name:                 strings.TrimSpace(req.Name),
		Type:                 req.Type,
		Department:           strings.TrimSpace(req.Department),
		DepartmentRestricted: req.DepartmentRestricted,
		AllowedRoles:         req.AllowedRoles,
		MinDurationMinutes:   req.MinDurationMinutes,
		MaxDurationMinutes:   req.MaxDurationMinutes,
		MaxAdvanceDays:       req.MaxAdvanceDays,
		RequiresApproval:     req.RequiresApproval,
		AvailabilityWindows:  req.AvailabilityWindows,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		res.Name = strings.TrimSpace(*req.Name)
	}
	if req.Department != nil {
		res.Department = strings.TrimSpace(*req.Department)
	}
	if req.DepartmentRestricted != nil {
		res.DepartmentRestricted = *req.DepartmentRestricted
	}
	if req.AllowedRoles != nil {
		res.AllowedRoles = req.AllowedRoles
	}
	if req.MinDurationMinutes != nil {
		res.MinDurationMinutes = *req.MinDurationMinutes
	}
	if req.MaxDurationMinutes != nil {
		res.MaxDurationMinutes = *req.MaxDurationMinutes
	}
	if req.MaxAdvanceDays != nil {
		res.MaxAdvanceDays = *req.MaxAdvanceDays
	}
	if err := validateDurations(res.MinDurationMinutes, res.MaxDurationMinutes, res.MaxAdvanceDays); err != nil {
		return nil, err
	}
	if req.RequiresApproval != nil {
		res.RequiresApproval = *req.RequiresApproval
	}
	if req.AvailabilityWindows != nil {
		for _, w := range req.AvailabilityWindows {
			if err := w.Validate(); err != nil {
				return nil, err
			}
		}
		res.AvailabilityWindows = req.AvailabilityWindows
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func validateDurations(min, max, advanceDays int) error {
	if min < 0 || max < 0 || advanceDays < 0 {
		return ErrInvalidDuration
	}
	if max > 0 && min > max {
		return ErrInvalidDuration
	}
	return nil
}
