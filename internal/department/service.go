package department

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name           string
	PriorityWeight int
}

type UpdateRequest struct {
	Name           *string
	PriorityWeight *int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Department, error)
	GetByID(ctx context.Context, id string) (*Department, error)
	GetByName(ctx context.Context, name string) (*Department, error)
	List(ctx context.Context, filter Filter) ([]*Department, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Department, error)

	// PriorityWeight resolves a department name to its scoring weight.
	// Unknown or empty names weigh zero; lookups never fail a booking.
	PriorityWeight(ctx context.Context, name string) int
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Department, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if req.PriorityWeight < 0 || req.PriorityWeight > 10 {
		return nil, ErrInvalidWeight
	}

	d := &Department{
		Name:           name,
		PriorityWeight: req.PriorityWeight,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Department, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByName(ctx context.Context, name string) (*Department, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Department, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Department, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		d.Name = name
	}
	if req.PriorityWeight != nil {
		if *req.PriorityWeight < 0 || *req.PriorityWeight > 10 {
			return nil, ErrInvalidWeight
		}
		d.PriorityWeight = *req.PriorityWeight
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) PriorityWeight(ctx context.Context, name string) int {
	if strings.TrimSpace(name) == "" {
		return 0
	}
	// Unknown departments and lookup failures degrade to zero weight rather
	// than blocking the booking pipeline.
	d, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return 0
	}
	return d.PriorityWeight
}
